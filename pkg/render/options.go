package render

import (
	"time"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-docbind/pkg/binder"
)

// RenderOptions describe per-request data that renderers use to produce a
// document without mutating the template.
type RenderOptions struct {
	// Values is the bound value set keyed by canonical variable name.
	// Interactive renderers use it to prefill prompts.
	Values map[string]string
	// Errors surfaces validation feedback keyed by variable name. The TUI
	// renderer prints them before prompting for the affected variable.
	Errors map[string][]string
	// Fallback selects the missing-value policy. Empty means label.
	Fallback binder.Fallback
	// Theme carries the resolved theme for renderers that style output.
	Theme *theme.RendererConfig
	// OnValues receives the final value set from renderers that collect
	// values themselves, such as interactive prompts.
	OnValues func(values map[string]string)
	// Now stamps the generation time into layouts that show it. Zero means
	// the renderer's own clock.
	Now time.Time
}

// BinderOptions translates the render options that affect substitution.
func (o RenderOptions) BinderOptions() []binder.Option {
	if o.Fallback == "" {
		return nil
	}
	return []binder.Option{binder.WithFallback(o.Fallback)}
}
