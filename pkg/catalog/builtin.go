package catalog

import (
	"embed"
	"io/fs"
)

//go:embed builtin/*.yaml
var builtinFS embed.FS

// BuiltinFS returns the embedded template files.
func BuiltinFS() fs.FS {
	sub, err := fs.Sub(builtinFS, "builtin")
	if err != nil {
		panic(err)
	}
	return sub
}

// Builtin loads the embedded medical templates. Their source is "builtin".
func Builtin() (*Catalog, error) {
	return LoadFS(BuiltinFS(), "builtin")
}
