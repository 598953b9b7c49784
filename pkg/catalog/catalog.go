// Package catalog loads document templates from JSON or YAML files and
// exposes them by ID. Built-in templates ship embedded in the binary.
package catalog

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/goliatone/go-docbind/pkg/model"
	"github.com/goliatone/go-docbind/pkg/placeholder"
)

var (
	// ErrNotFound reports an unknown template ID.
	ErrNotFound = errors.New("catalog: template not found")
	// ErrDuplicateTemplate reports two templates sharing an ID.
	ErrDuplicateTemplate = errors.New("catalog: duplicate template id")
	// ErrIDRequired reports a template without an ID.
	ErrIDRequired = errors.New("catalog: template id is required")
)

// Catalog is an immutable set of templates keyed by ID.
type Catalog struct {
	templates map[string]model.Template
}

// New builds a catalog from already decoded templates. Each template is
// normalised and validated.
func New(templates ...model.Template) (*Catalog, error) {
	c := &Catalog{templates: make(map[string]model.Template, len(templates))}
	for _, tmpl := range templates {
		if err := c.add(tmpl); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func (c *Catalog) add(tmpl model.Template) error {
	normalized, err := Normalize(tmpl)
	if err != nil {
		return err
	}
	if existing, ok := c.templates[normalized.ID]; ok {
		return fmt.Errorf("%w %q (%s and %s)", ErrDuplicateTemplate, normalized.ID, sourceOf(existing), sourceOf(normalized))
	}
	c.templates[normalized.ID] = normalized
	return nil
}

// Normalize trims the template metadata, checks its syntax and runs its
// variables through the variable store.
func Normalize(tmpl model.Template) (model.Template, error) {
	tmpl.ID = strings.TrimSpace(tmpl.ID)
	if tmpl.ID == "" {
		return model.Template{}, fmt.Errorf("%w (%s)", ErrIDRequired, sourceOf(tmpl))
	}
	tmpl.Name = strings.TrimSpace(tmpl.Name)
	tmpl.Category = strings.TrimSpace(tmpl.Category)
	tmpl.Description = strings.TrimSpace(tmpl.Description)
	tmpl.Syntax = model.Syntax(strings.ToLower(strings.TrimSpace(string(tmpl.Syntax))))
	if _, err := placeholder.DelimitersFor(tmpl.Syntax); err != nil {
		return model.Template{}, fmt.Errorf("catalog: template %q (%s): %w", tmpl.ID, sourceOf(tmpl), err)
	}

	normalized, err := model.NormalizeTemplate(tmpl)
	if err != nil {
		return model.Template{}, fmt.Errorf("catalog: template %q (%s): %w", tmpl.ID, sourceOf(tmpl), err)
	}
	return normalized, nil
}

func sourceOf(tmpl model.Template) string {
	if tmpl.Source == "" {
		return "inline"
	}
	return tmpl.Source
}

// Get returns the template with the given ID.
func (c *Catalog) Get(id string) (model.Template, error) {
	if c != nil {
		if tmpl, ok := c.templates[strings.TrimSpace(id)]; ok {
			return cloneTemplate(tmpl), nil
		}
	}
	return model.Template{}, fmt.Errorf("%w: %q", ErrNotFound, id)
}

// List returns every template sorted by ID.
func (c *Catalog) List() []model.Template {
	if c == nil {
		return nil
	}
	out := make([]model.Template, 0, len(c.templates))
	for _, tmpl := range c.templates {
		out = append(out, cloneTemplate(tmpl))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Categories returns the distinct non-empty categories, sorted.
func (c *Catalog) Categories() []string {
	if c == nil {
		return nil
	}
	seen := make(map[string]struct{})
	var out []string
	for _, tmpl := range c.templates {
		if tmpl.Category == "" {
			continue
		}
		if _, ok := seen[tmpl.Category]; ok {
			continue
		}
		seen[tmpl.Category] = struct{}{}
		out = append(out, tmpl.Category)
	}
	sort.Strings(out)
	return out
}

// Len reports the number of templates.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.templates)
}

// Merge returns a catalog holding c's templates plus those of others whose
// IDs are not already present. Earlier catalogs take precedence.
func (c *Catalog) Merge(others ...*Catalog) *Catalog {
	out := &Catalog{templates: make(map[string]model.Template)}
	for _, src := range append([]*Catalog{c}, others...) {
		if src == nil {
			continue
		}
		for id, tmpl := range src.templates {
			if _, exists := out.templates[id]; !exists {
				out.templates[id] = tmpl
			}
		}
	}
	return out
}

func cloneTemplate(tmpl model.Template) model.Template {
	out := tmpl
	if tmpl.Variables != nil {
		out.Variables = make([]model.Variable, len(tmpl.Variables))
		for i, v := range tmpl.Variables {
			v.Options = append([]string(nil), v.Options...)
			out.Variables[i] = v
		}
	}
	return out
}
