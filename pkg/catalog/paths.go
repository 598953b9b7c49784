package catalog

import (
	"os"
	"path/filepath"
)

// SearchPaths returns template search directories in precedence order.
func SearchPaths(projectDir string) []string {
	paths := make([]string, 0, 3)
	if projectDir != "" {
		paths = append(paths, filepath.Join(projectDir, ".docbind", "templates"))
	}

	if home, err := os.UserHomeDir(); err == nil && home != "" {
		paths = append(paths, filepath.Join(home, ".config", "docbind", "templates"))
	}

	paths = append(paths, filepath.Join(string(filepath.Separator), "usr", "share", "docbind", "templates"))
	return paths
}

// LoadSearchPaths loads extra directories, then the search paths, then the
// built-ins. The first template with a given ID wins.
func LoadSearchPaths(projectDir string, extraDirs ...string) (*Catalog, error) {
	dirs := make([]string, 0, len(extraDirs)+3)
	for _, dir := range extraDirs {
		if dir != "" {
			dirs = append(dirs, dir)
		}
	}
	dirs = append(dirs, SearchPaths(projectDir)...)

	catalogs := make([]*Catalog, 0, len(dirs)+1)
	for _, dir := range dirs {
		c, err := LoadDir(dir)
		if err != nil {
			return nil, err
		}
		catalogs = append(catalogs, c)
	}

	builtins, err := Builtin()
	if err != nil {
		return nil, err
	}
	catalogs = append(catalogs, builtins)

	return catalogs[0].Merge(catalogs[1:]...), nil
}
