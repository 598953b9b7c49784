package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-docbind/pkg/model"
)

type documentFile struct {
	Templates []model.Template `json:"templates" yaml:"templates"`
}

// LoadFS walks fsys and parses every JSON or YAML template file. source
// prefixes the file path recorded on each template. A nil fsys yields an
// empty catalog.
func LoadFS(fsys fs.FS, source string) (*Catalog, error) {
	c := &Catalog{templates: make(map[string]model.Template)}
	if fsys == nil {
		return c, nil
	}

	err := fs.WalkDir(fsys, ".", func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !isTemplateFile(path) {
			return nil
		}

		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("catalog: read %s: %w", path, err)
		}

		location := path
		if source != "" {
			location = source + "/" + path
		}
		templates, err := ParseFile(data, location)
		if err != nil {
			return err
		}
		for _, tmpl := range templates {
			tmpl.Source = location
			if err := c.add(tmpl); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

// LoadDir loads templates from a directory on disk. A missing directory
// yields an empty catalog.
func LoadDir(dir string) (*Catalog, error) {
	info, err := os.Stat(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return &Catalog{templates: make(map[string]model.Template)}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("catalog: stat %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("catalog: %s is not a directory", dir)
	}
	return LoadFS(os.DirFS(dir), filepath.ToSlash(filepath.Clean(dir)))
}

// ParseFile decodes a template file. It accepts a document with a
// "templates" list or a single template object. JSON is tried first, then
// YAML.
func ParseFile(data []byte, source string) ([]model.Template, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, fmt.Errorf("catalog: file %s is empty", source)
	}

	if templates, ok := decode(json.Unmarshal, data); ok {
		return templates, nil
	}
	if templates, ok := decode(yaml.Unmarshal, data); ok {
		return templates, nil
	}
	return nil, fmt.Errorf("catalog: parse %s: invalid JSON or YAML template file", source)
}

func decode(unmarshal func([]byte, any) error, data []byte) ([]model.Template, bool) {
	var doc documentFile
	if err := unmarshal(data, &doc); err != nil {
		return nil, false
	}
	if len(doc.Templates) > 0 {
		return doc.Templates, true
	}
	var single model.Template
	if err := unmarshal(data, &single); err != nil {
		return nil, false
	}
	if single.ID == "" && single.Content == "" {
		return nil, false
	}
	return []model.Template{single}, true
}

func isTemplateFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}
