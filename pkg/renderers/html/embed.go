package html

import (
	"embed"
	"io/fs"
)

//go:embed templates/*.tpl
var embeddedTemplates embed.FS

// LayoutName is the layout the renderer executes.
const LayoutName = "document"

// TemplatesFS exposes the embedded layouts so callers can copy and
// customise them.
func TemplatesFS() fs.FS {
	sub, err := fs.Sub(embeddedTemplates, "templates")
	if err != nil {
		return embeddedTemplates
	}
	return sub
}
