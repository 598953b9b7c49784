// Package gotemplate implements template.TemplateRenderer on top of
// github.com/goliatone/go-template (pongo2 underneath).
package gotemplate

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"sort"
	"strings"

	"github.com/flosch/pongo2/v6"
	gotemplatepkg "github.com/goliatone/go-template"

	"github.com/goliatone/go-docbind/pkg/render/template"
)

// Filter is the plain-Go shape of a pongo2 filter.
type Filter func(input any, param any) (any, error)

var errNilEngine = errors.New("gotemplate: engine is nil")

// Option configures the engine before construction.
type Option func(*config)

type config struct {
	baseDir  string
	files    fs.FS
	filters  map[string]Filter
	upstream []gotemplatepkg.Option
}

// WithBaseDir loads layouts from disk. Disk layouts shadow the fs.FS ones,
// so operators can override a single file.
func WithBaseDir(dir string) Option {
	return func(cfg *config) {
		cfg.baseDir = strings.TrimSpace(dir)
		if cfg.baseDir != "" {
			cfg.upstream = append(cfg.upstream, gotemplatepkg.WithBaseDir(cfg.baseDir))
		}
	}
}

// WithFS loads layouts from files.
func WithFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.files = files
		if files != nil {
			cfg.upstream = append(cfg.upstream, gotemplatepkg.WithFS(files))
		}
	}
}

// WithExtension overrides the ".tpl" suffix appended to layout names.
func WithExtension(ext string) Option {
	return func(cfg *config) {
		if ext = strings.TrimSpace(ext); ext != "" {
			cfg.upstream = append(cfg.upstream, gotemplatepkg.WithExtension(ext))
		}
	}
}

// WithFilter registers fn under name when the engine is built. A name pongo2
// already knows is left alone.
func WithFilter(name string, fn Filter) Option {
	return func(cfg *config) {
		if name = strings.TrimSpace(name); name != "" && fn != nil {
			cfg.filters[name] = fn
		}
	}
}

// WithGlobalData seeds values every layout can read.
func WithGlobalData(data map[string]any) Option {
	return func(cfg *config) {
		if len(data) > 0 {
			cfg.upstream = append(cfg.upstream, gotemplatepkg.WithGlobalData(data))
		}
	}
}

// WithGoTemplateOptions passes options straight to go-template, for
// settings this package does not wrap.
func WithGoTemplateOptions(options ...gotemplatepkg.Option) Option {
	return func(cfg *config) {
		cfg.upstream = append(cfg.upstream, options...)
	}
}

// Engine adapts a go-template engine to template.TemplateRenderer and adds
// the layout filters docbind relies on.
type Engine struct {
	inner *gotemplatepkg.Engine
}

var _ template.TemplateRenderer = (*Engine)(nil)

func New(options ...Option) (*Engine, error) {
	cfg := &config{filters: map[string]Filter{}}
	for _, opt := range options {
		if opt != nil {
			opt(cfg)
		}
	}
	if cfg.baseDir == "" && cfg.files == nil {
		return nil, errors.New("gotemplate: a base dir or an fs.FS is required")
	}

	upstream := append([]gotemplatepkg.Option{
		gotemplatepkg.WithTemplateFunc(map[string]any{"slug": pongo2.FilterFunction(filterSlug)}),
	}, cfg.upstream...)

	inner, err := gotemplatepkg.NewRenderer(upstream...)
	if err != nil {
		return nil, fmt.Errorf("gotemplate: build engine: %w", err)
	}
	engine := &Engine{inner: inner}

	names := make([]string, 0, len(cfg.filters))
	for name := range cfg.filters {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if pongo2.FilterExists(name) {
			continue
		}
		if err := engine.RegisterFilter(name, cfg.filters[name]); err != nil {
			return nil, err
		}
	}
	return engine, nil
}

// RenderTemplate executes the layout called name (extension optional).
// Parsed layouts are cached by go-template.
func (e *Engine) RenderTemplate(name string, data any, out ...io.Writer) (string, error) {
	if e == nil || e.inner == nil {
		return "", errNilEngine
	}
	result, err := e.inner.RenderTemplate(name, data, out...)
	if err != nil {
		return "", fmt.Errorf("gotemplate: render %s: %w", name, err)
	}
	return result, nil
}

// RenderString parses and executes inline content. The result is not cached.
func (e *Engine) RenderString(content string, data any, out ...io.Writer) (string, error) {
	if e == nil || e.inner == nil {
		return "", errNilEngine
	}
	result, err := e.inner.RenderString(content, data, out...)
	if err != nil {
		return "", fmt.Errorf("gotemplate: render inline template: %w", err)
	}
	return result, nil
}

// RegisterFilter installs fn as a pongo2 filter. pongo2 keeps filters in a
// process-wide table, so a name can only be registered once.
func (e *Engine) RegisterFilter(name string, fn func(input any, param any) (any, error)) error {
	if e == nil || e.inner == nil {
		return errNilEngine
	}
	if strings.TrimSpace(name) == "" || fn == nil {
		return errors.New("gotemplate: filter name and function required")
	}
	if err := e.inner.RegisterFilter(name, fn); err != nil {
		return fmt.Errorf("gotemplate: %w", err)
	}
	return nil
}

// GlobalContext merges data into the values every layout sees.
func (e *Engine) GlobalContext(data any) error {
	if e == nil || e.inner == nil {
		return errNilEngine
	}
	if data == nil {
		return nil
	}
	if err := e.inner.GlobalContext(data); err != nil {
		return fmt.Errorf("gotemplate: %w", err)
	}
	return nil
}

// filterSlug turns "Receita Simples" into "receita-simples" for CSS classes.
func filterSlug(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	fields := strings.FieldsFunc(strings.ToLower(in.String()), func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9')
	})
	return pongo2.AsValue(strings.Join(fields, "-")), nil
}
