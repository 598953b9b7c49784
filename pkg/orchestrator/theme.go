package orchestrator

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	theme "github.com/goliatone/go-theme"
)

// ErrThemeNotFound reports an unknown theme name.
var ErrThemeNotFound = errors.New("orchestrator: theme not found")

// ThemeSelector resolves a theme name and variant into a selection.
type ThemeSelector interface {
	Select(name, variant string, opts ...theme.QueryOption) (*theme.Selection, error)
}

type themeSettings struct {
	selector       ThemeSelector
	defaultTheme   string
	defaultVariant string
}

// WithThemeSelector resolves request themes through selector.
func WithThemeSelector(selector ThemeSelector) Option {
	return func(o *Orchestrator) {
		o.themes.selector = selector
	}
}

// WithThemeManifests serves themes from in-memory manifests. The named
// default applies when a request does not pick a theme.
func WithThemeManifests(defaultTheme, defaultVariant string, manifests ...*theme.Manifest) Option {
	return func(o *Orchestrator) {
		selector := &manifestSelector{manifests: make(map[string]*theme.Manifest, len(manifests))}
		for _, manifest := range manifests {
			if manifest == nil || strings.TrimSpace(manifest.Name) == "" {
				continue
			}
			selector.manifests[manifest.Name] = manifest
		}
		o.themes = themeSettings{
			selector:       selector,
			defaultTheme:   defaultTheme,
			defaultVariant: defaultVariant,
		}
	}
}

func (o *Orchestrator) resolveTheme(name, variant string) (*theme.RendererConfig, error) {
	if o.themes.selector == nil {
		return nil, nil
	}
	if name == "" {
		name = o.themes.defaultTheme
		if variant == "" {
			variant = o.themes.defaultVariant
		}
	}
	if name == "" {
		return nil, nil
	}

	selection, err := o.themes.selector.Select(name, variant)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: select theme %q: %w", name, err)
	}
	if selection == nil {
		return nil, nil
	}
	return rendererConfig(selection), nil
}

// rendererConfig flattens a selection: variant tokens, templates and asset
// files override the manifest's, and every token becomes a CSS variable.
func rendererConfig(selection *theme.Selection) *theme.RendererConfig {
	cfg := &theme.RendererConfig{
		Theme:    selection.Theme,
		Variant:  selection.Variant,
		Tokens:   map[string]string{},
		CSSVars:  map[string]string{},
		Partials: map[string]string{},
	}

	manifest := selection.Manifest
	if manifest == nil {
		cfg.AssetURL = func(string) string { return "" }
		return cfg
	}

	prefix := manifest.Assets.Prefix
	files := map[string]string{}
	mergeInto(cfg.Tokens, manifest.Tokens)
	mergeInto(cfg.Partials, manifest.Templates)
	mergeInto(files, manifest.Assets.Files)

	if variant, ok := manifest.Variants[selection.Variant]; ok {
		mergeInto(cfg.Tokens, variant.Tokens)
		mergeInto(cfg.Partials, variant.Templates)
		mergeInto(files, variant.Assets.Files)
		if variant.Assets.Prefix != "" {
			prefix = variant.Assets.Prefix
		}
	}

	for key, value := range cfg.Tokens {
		cfg.CSSVars["--"+key] = value
	}
	cfg.AssetURL = assetResolver(prefix, files)
	return cfg
}

func assetResolver(prefix string, files map[string]string) func(string) string {
	prefix = strings.TrimRight(prefix, "/")
	return func(key string) string {
		file, ok := files[key]
		if !ok || file == "" {
			return ""
		}
		if strings.Contains(file, "://") || strings.HasPrefix(file, "/") || prefix == "" {
			return file
		}
		return prefix + "/" + strings.TrimLeft(file, "/")
	}
}

func mergeInto(dst, src map[string]string) {
	for key, value := range src {
		dst[key] = value
	}
}

type manifestSelector struct {
	manifests map[string]*theme.Manifest
}

func (s *manifestSelector) Select(name, variant string, _ ...theme.QueryOption) (*theme.Selection, error) {
	manifest, ok := s.manifests[name]
	if !ok {
		known := make([]string, 0, len(s.manifests))
		for key := range s.manifests {
			known = append(known, key)
		}
		sort.Strings(known)
		return nil, fmt.Errorf("%w: %q (known: %s)", ErrThemeNotFound, name, strings.Join(known, ", "))
	}
	if variant != "" {
		if _, ok := manifest.Variants[variant]; !ok {
			return nil, fmt.Errorf("%w: %q has no variant %q", ErrThemeNotFound, name, variant)
		}
	}
	return &theme.Selection{Theme: name, Variant: variant, Manifest: manifest}, nil
}
