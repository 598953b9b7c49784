package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/goliatone/go-docbind/pkg/binder"
	"github.com/goliatone/go-docbind/pkg/catalog"
	"github.com/goliatone/go-docbind/pkg/document"
	"github.com/goliatone/go-docbind/pkg/model"
	"github.com/goliatone/go-docbind/pkg/render"
	"github.com/goliatone/go-docbind/pkg/renderers/html"
	"github.com/goliatone/go-docbind/pkg/renderers/text"
	"github.com/goliatone/go-docbind/pkg/schema"
)

const defaultRendererName = "text"

// InlineTemplateID identifies ad-hoc request templates that carry no ID.
const InlineTemplateID = "inline"

var (
	// ErrTemplateRequired reports a request naming no template.
	ErrTemplateRequired = errors.New("orchestrator: template id or template is required")
	// ErrSaveFailed wraps persistence failures. The rendered output is still
	// returned alongside it.
	ErrSaveFailed = errors.New("orchestrator: save document failed")
	// ErrNoSaver reports a save request without a configured saver.
	ErrNoSaver = errors.New("orchestrator: no document saver configured")
)

// Option customises the orchestrator configuration.
type Option func(*Orchestrator)

// WithCatalog injects the template catalog. Defaults to the built-ins.
func WithCatalog(c *catalog.Catalog) Option {
	return func(o *Orchestrator) {
		o.catalog = c
	}
}

// WithRegistry injects a renderer registry.
func WithRegistry(registry *render.Registry) Option {
	return func(o *Orchestrator) {
		o.registry = registry
	}
}

// WithDefaultRenderer overrides the renderer used when a request omits an
// explicit Renderer field.
func WithDefaultRenderer(name string) Option {
	return func(o *Orchestrator) {
		o.defaultRenderer = name
	}
}

// WithSaver configures where generated documents are persisted.
func WithSaver(saver document.Saver) Option {
	return func(o *Orchestrator) {
		o.saver = saver
	}
}

// WithLogger sets the logger. Defaults to zerolog.Nop().
func WithLogger(logger zerolog.Logger) Option {
	return func(o *Orchestrator) {
		o.logger = logger
	}
}

// WithClock overrides the time source used for snapshots and layouts.
func WithClock(clock func() time.Time) Option {
	return func(o *Orchestrator) {
		if clock != nil {
			o.now = clock
		}
	}
}

// WithFallback sets the default missing-value policy.
func WithFallback(fallback binder.Fallback) Option {
	return func(o *Orchestrator) {
		o.fallback = fallback
	}
}

// Orchestrator coordinates template lookup, value binding, optional
// validation, rendering and persistence.
type Orchestrator struct {
	catalog         *catalog.Catalog
	registry        *render.Registry
	defaultRenderer string
	saver           document.Saver
	logger          zerolog.Logger
	now             func() time.Time
	fallback        binder.Fallback
	themes          themeSettings
	initialiseErr   error
}

// New constructs an Orchestrator applying any provided options. Missing
// dependencies are initialised with the built-in implementations.
func New(options ...Option) *Orchestrator {
	o := &Orchestrator{
		defaultRenderer: defaultRendererName,
		logger:          zerolog.Nop(),
		now:             time.Now,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(o)
	}
	o.applyDefaults()
	return o
}

// Request describes one document generation.
type Request struct {
	// TemplateID selects a catalog template. Ignored when Template is set.
	TemplateID string
	// Template renders an ad-hoc template, bypassing the catalog. A blank ID
	// becomes InlineTemplateID.
	Template *model.Template
	// Values holds raw input keyed by variable name in any casing.
	Values map[string]string
	// Renderer names the renderer to use. Empty selects the default.
	Renderer string
	// Strict validates values before rendering.
	Strict bool
	// ApplyDefaults fills blank values from variable defaults.
	ApplyDefaults bool
	// Save hands the result to the configured saver.
	Save bool
	// Fallback overrides the orchestrator's missing-value policy.
	Fallback binder.Fallback
	// ThemeName and ThemeVariant pick the theme for styled renderers.
	ThemeName    string
	ThemeVariant string
}

// Result is the generated document.
type Result struct {
	Output      []byte
	ContentType string
	Values      model.Values
	Snapshot    *document.Snapshot
}

// Catalog exposes the template catalog.
func (o *Orchestrator) Catalog() *catalog.Catalog {
	return o.catalog
}

// Registry exposes the renderer registry.
func (o *Orchestrator) Registry() *render.Registry {
	return o.registry
}

// Template resolves a catalog template by ID.
func (o *Orchestrator) Template(id string) (model.Template, error) {
	if err := o.initialiseErr; err != nil {
		return model.Template{}, err
	}
	tmpl, err := o.catalog.Get(id)
	if err != nil {
		return model.Template{}, fmt.Errorf("orchestrator: resolve template: %w", err)
	}
	return tmpl, nil
}

// Generate resolves the template, binds the values, validates them in strict
// mode, renders and optionally saves. A failed save still returns the
// rendered result together with an error wrapping ErrSaveFailed.
func (o *Orchestrator) Generate(ctx context.Context, req Request) (Result, error) {
	if ctx == nil {
		return Result{}, errors.New("orchestrator: context is required")
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	if err := o.initialiseErr; err != nil {
		return Result{}, err
	}

	tmpl, err := o.resolveTemplate(req)
	if err != nil {
		return Result{}, err
	}

	values := binder.BindValues(tmpl.Variables, req.Values, binder.BindOptions{ApplyDefaults: req.ApplyDefaults})

	renderer, err := o.rendererFor(req.Renderer)
	if err != nil {
		return Result{}, err
	}

	collector, interactive := renderer.(render.ValueCollector)
	interactive = interactive && collector.CollectsValues()
	if req.Strict && !interactive {
		if verrs := schema.Validate(tmpl, values); verrs != nil {
			return Result{}, fmt.Errorf("orchestrator: validate values: %w", verrs)
		}
	}

	themeCfg, err := o.resolveTheme(req.ThemeName, req.ThemeVariant)
	if err != nil {
		return Result{}, err
	}

	fallback := req.Fallback
	if fallback == "" {
		fallback = o.fallback
	}
	now := o.now()
	final := values
	opts := render.RenderOptions{
		Values:   values,
		Fallback: fallback,
		Theme:    themeCfg,
		Now:      now,
		OnValues: func(collected map[string]string) {
			final = model.Values(collected)
		},
	}

	output, err := renderer.Render(ctx, tmpl, opts)
	if err != nil {
		return Result{}, fmt.Errorf("orchestrator: render output: %w", err)
	}
	o.logger.Debug().
		Str("template", tmpl.ID).
		Str("renderer", renderer.Name()).
		Int("bytes", len(output)).
		Msg("document rendered")

	result := Result{
		Output:      output,
		ContentType: renderer.ContentType(),
		Values:      final,
	}
	if !req.Save {
		return result, nil
	}

	snapshot := &document.Snapshot{
		TemplateID:      tmpl.ID,
		RenderedContent: string(output),
		ContentType:     result.ContentType,
		Values:          final.Clone(),
		Timestamp:       now,
	}
	result.Snapshot = snapshot
	if o.saver == nil {
		return result, fmt.Errorf("%w: %w", ErrSaveFailed, ErrNoSaver)
	}
	if err := o.saver.Save(ctx, snapshot); err != nil {
		o.logger.Error().Err(err).Str("template", tmpl.ID).Msg("document save failed")
		return result, fmt.Errorf("%w: %w", ErrSaveFailed, err)
	}
	o.logger.Info().
		Str("template", tmpl.ID).
		Str("document", snapshot.ID).
		Msg("document saved")
	return result, nil
}

func (o *Orchestrator) resolveTemplate(req Request) (model.Template, error) {
	if req.Template != nil {
		adhoc := *req.Template
		if strings.TrimSpace(adhoc.ID) == "" {
			adhoc.ID = InlineTemplateID
		}
		tmpl, err := catalog.Normalize(adhoc)
		if err != nil {
			return model.Template{}, fmt.Errorf("orchestrator: normalise template: %w", err)
		}
		return tmpl, nil
	}
	if req.TemplateID == "" {
		return model.Template{}, ErrTemplateRequired
	}
	return o.Template(req.TemplateID)
}

func (o *Orchestrator) rendererFor(name string) (render.Renderer, error) {
	if o.registry == nil {
		return nil, errors.New("orchestrator: renderer registry is nil")
	}

	target := name
	if target == "" {
		target = o.defaultRenderer
	}

	if target != "" {
		renderer, err := o.registry.Get(target)
		if err == nil {
			return renderer, nil
		}
		if name != "" {
			return nil, fmt.Errorf("orchestrator: renderer %q: %w", name, err)
		}
	}

	names := o.registry.List()
	if len(names) == 0 {
		return nil, errors.New("orchestrator: no renderers registered")
	}

	renderer, err := o.registry.Get(names[0])
	if err != nil {
		return nil, fmt.Errorf("orchestrator: renderer %q: %w", names[0], err)
	}
	return renderer, nil
}

func (o *Orchestrator) applyDefaults() {
	if o.catalog == nil {
		builtin, err := catalog.Builtin()
		if err != nil {
			o.initialiseErr = fmt.Errorf("orchestrator: builtin catalog: %w", err)
			return
		}
		o.catalog = builtin
	}
	if o.registry == nil {
		o.registry = render.NewRegistry()
		o.registry.MustRegister(text.New())
		renderer, err := html.New(html.WithClock(o.now))
		if err != nil {
			o.initialiseErr = fmt.Errorf("orchestrator: default renderer: %w", err)
			return
		}
		o.registry.MustRegister(renderer)
	}
	if o.defaultRenderer == "" {
		o.defaultRenderer = defaultRendererName
	}
}
