package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-docbind/pkg/catalog"
	"github.com/goliatone/go-docbind/pkg/model"
)

// templateFile is a template document on disk, kept in the shape it was
// read in so edits can be written back.
type templateFile struct {
	path      string
	list      bool
	templates []model.Template
}

type templateList struct {
	Templates []model.Template `json:"templates" yaml:"templates"`
}

func readTemplateFile(path string) (*templateFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read template file: %w", err)
	}
	templates, err := catalog.ParseFile(data, path)
	if err != nil {
		return nil, err
	}

	var probe map[string]any
	_ = yaml.Unmarshal(data, &probe)
	_, list := probe["templates"]

	return &templateFile{path: path, list: list, templates: templates}, nil
}

// index finds the template to edit. An empty id is only accepted when the
// file holds a single template.
func (f *templateFile) index(id string) (int, error) {
	if id == "" {
		if len(f.templates) != 1 {
			return -1, fmt.Errorf("%s holds %d templates; pass --id", f.path, len(f.templates))
		}
		return 0, nil
	}
	for i, tmpl := range f.templates {
		if tmpl.ID == id {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: %q in %s", catalog.ErrNotFound, id, f.path)
}

func (f *templateFile) write() error {
	var doc any = f.templates[0]
	if f.list || len(f.templates) > 1 {
		doc = templateList{Templates: f.templates}
	}

	var buf bytes.Buffer
	if strings.EqualFold(filepath.Ext(f.path), ".json") {
		enc := json.NewEncoder(&buf)
		enc.SetIndent("", "  ")
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encode %s: %w", f.path, err)
		}
	} else {
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encode %s: %w", f.path, err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("encode %s: %w", f.path, err)
		}
	}

	info, err := os.Stat(f.path)
	mode := os.FileMode(0o644)
	if err == nil {
		mode = info.Mode().Perm()
	}
	if err := os.WriteFile(f.path, buf.Bytes(), mode); err != nil {
		return fmt.Errorf("write %s: %w", f.path, err)
	}
	return nil
}
