package binder

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-docbind/pkg/placeholder"
)

// Fallback selects what replaces a placeholder whose value is missing.
type Fallback string

const (
	// FallbackLabel renders the bracketed variable label, e.g. "[Nome do Paciente]".
	FallbackLabel Fallback = "label"
	// FallbackName renders the bracketed variable name, e.g. "[NOME_PACIENTE]".
	FallbackName Fallback = "name"
)

// ParseFallback resolves a configured fallback policy; empty selects
// FallbackLabel.
func ParseFallback(raw string) (Fallback, error) {
	switch Fallback(strings.ToLower(strings.TrimSpace(raw))) {
	case "", FallbackLabel:
		return FallbackLabel, nil
	case FallbackName:
		return FallbackName, nil
	default:
		return "", fmt.Errorf("binder: unknown fallback %q", raw)
	}
}

// Option configures a render pass.
type Option func(*config)

type config struct {
	delims     placeholder.Delimiters
	fallback   Fallback
	marker     func(text string) string
	escape     func(value string) string
	escapeText func(text string) string
}

func newConfig(options []Option) config {
	cfg := config{
		delims:   placeholder.Curly,
		fallback: FallbackLabel,
	}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}
	if !cfg.delims.Valid() {
		cfg.delims = placeholder.Curly
	}
	return cfg
}

// WithDelimiters selects the delimiter pair placeholders are written with.
// An invalid pair is ignored.
func WithDelimiters(delims placeholder.Delimiters) Option {
	return func(cfg *config) {
		if delims.Valid() {
			cfg.delims = delims
		}
	}
}

// WithFallback selects the missing-value policy.
func WithFallback(fallback Fallback) Option {
	return func(cfg *config) {
		if fallback == FallbackLabel || fallback == FallbackName {
			cfg.fallback = fallback
		}
	}
}

// WithFallbackMarker wraps every fallback text after it has been built, so
// HTML output can highlight gaps.
func WithFallbackMarker(fn func(text string) string) Option {
	return func(cfg *config) {
		cfg.marker = fn
	}
}

// WithValueEscaper transforms every bound value before it is written.
func WithValueEscaper(fn func(value string) string) Option {
	return func(cfg *config) {
		cfg.escape = fn
	}
}

// WithTextEscaper transforms the literal template text between placeholders.
func WithTextEscaper(fn func(text string) string) Option {
	return func(cfg *config) {
		cfg.escapeText = fn
	}
}
