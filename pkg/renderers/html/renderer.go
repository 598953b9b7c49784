// Package html renders templates as standalone HTML documents. Values are
// sanitised with bluemonday and the page comes from a pongo2 layout.
package html

import (
	"context"
	"fmt"
	stdhtml "html"
	"io/fs"
	"os"
	"time"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-docbind/pkg/binder"
	"github.com/goliatone/go-docbind/pkg/model"
	"github.com/goliatone/go-docbind/pkg/render"
	rendertemplate "github.com/goliatone/go-docbind/pkg/render/template"
	gotemplate "github.com/goliatone/go-docbind/pkg/render/template/gotemplate"
)

// Name is the registry key of the HTML renderer.
const Name = "html"

// Option configures the HTML renderer.
type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
	clock            func() time.Time
	stylesheet       string
	lang             string
}

// WithTemplatesFS supplies an alternate layout bundle via fs.FS.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads layouts from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTemplateRenderer injects a custom template engine.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithClock overrides the time source used for the generation stamp.
func WithClock(clock func() time.Time) Option {
	return func(cfg *config) {
		if clock != nil {
			cfg.clock = clock
		}
	}
}

// WithStylesheet links an external stylesheet from the layout.
func WithStylesheet(href string) Option {
	return func(cfg *config) {
		cfg.stylesheet = href
	}
}

// WithLang sets the document language attribute. Defaults to pt-BR.
func WithLang(lang string) Option {
	return func(cfg *config) {
		if lang != "" {
			cfg.lang = lang
		}
	}
}

// Renderer implements render.Renderer producing text/html.
type Renderer struct {
	templates  rendertemplate.TemplateRenderer
	clock      func() time.Time
	stylesheet string
	lang       string
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the HTML renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{
		templateFS: TemplatesFS(),
		clock:      time.Now,
		lang:       "pt-BR",
	}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}

	renderer := cfg.templateRenderer
	if renderer == nil {
		engine, err := gotemplate.New(gotemplate.WithFS(cfg.templateFS))
		if err != nil {
			return nil, fmt.Errorf("html renderer: configure template renderer: %w", err)
		}
		renderer = engine
	}

	return &Renderer{
		templates:  renderer,
		clock:      cfg.clock,
		stylesheet: cfg.stylesheet,
		lang:       cfg.lang,
	}, nil
}

func (r *Renderer) Name() string {
	return Name
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// Body renders only the substituted, escaped template content.
func Body(tmpl model.Template, values map[string]string, options ...binder.Option) string {
	base := []binder.Option{
		binder.WithTextEscaper(stdhtml.EscapeString),
		binder.WithValueEscaper(sanitizeValue),
		binder.WithFallbackMarker(missingMarker),
	}
	return binder.RenderTemplate(tmpl, values, append(base, options...)...)
}

func (r *Renderer) Render(ctx context.Context, tmpl model.Template, opts render.RenderOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if r.templates == nil {
		return nil, fmt.Errorf("html renderer: template renderer is nil")
	}

	now := opts.Now
	if now.IsZero() {
		now = r.clock()
	}

	name := tmpl.Name
	if name == "" {
		name = tmpl.ID
	}

	data := map[string]any{
		"lang": r.lang,
		"document": map[string]any{
			"id":          tmpl.ID,
			"name":        name,
			"category":    tmpl.Category,
			"description": tmpl.Description,
		},
		"body":            Body(tmpl, opts.Values, opts.BinderOptions()...),
		"theme":           themeContext(opts.Theme),
		"stylesheet":      r.stylesheetURL(opts.Theme),
		"generated_at":    now.UTC().Format(time.RFC3339),
		"generated_label": now.Format("02/01/2006 15:04"),
	}

	result, err := r.templates.RenderTemplate(LayoutName, data)
	if err != nil {
		return nil, fmt.Errorf("html renderer: render template: %w", err)
	}
	return []byte(result), nil
}

func (r *Renderer) stylesheetURL(cfg *theme.RendererConfig) string {
	if cfg != nil && cfg.AssetURL != nil {
		if href := cfg.AssetURL("docbind.stylesheet"); href != "" {
			return href
		}
	}
	return r.stylesheet
}

func themeContext(cfg *theme.RendererConfig) map[string]any {
	if cfg == nil {
		return map[string]any{}
	}
	return map[string]any{
		"name":    cfg.Theme,
		"variant": cfg.Variant,
		"css":     cssVarsStyle(cfg.CSSVars),
	}
}
