package tui

import "github.com/goliatone/go-docbind/pkg/binder"

// Theme captures optional prefixes the renderer adds to prompts and
// messages. Kept minimal to avoid coupling render logic to ANSI specifics.
type Theme struct {
	PromptPrefix string
	ErrorPrefix  string
	RequiredMark string
}

// Option configures the TUI renderer.
type Option func(*Renderer)

// WithPromptDriver overrides the prompt driver used by the renderer.
func WithPromptDriver(driver PromptDriver) Option {
	return func(r *Renderer) {
		if driver != nil {
			r.driver = driver
		}
	}
}

// WithTheme applies optional message prefixes.
func WithTheme(theme Theme) Option {
	return func(r *Renderer) {
		r.theme = theme
	}
}

// WithBinderOptions forwards substitution options used for the final text.
func WithBinderOptions(options ...binder.Option) Option {
	return func(r *Renderer) {
		r.binderOptions = append(r.binderOptions, options...)
	}
}

// WithMaxAttempts caps re-prompts per variable. Zero means unlimited.
func WithMaxAttempts(n int) Option {
	return func(r *Renderer) {
		if n >= 0 {
			r.maxAttempts = n
		}
	}
}
