package model

import internalmodel "github.com/goliatone/go-docbind/internal/model"

// StoreOption configures the variable store behaviour.
type StoreOption func(*storeOptions)

type storeOptions struct {
	labeler func(string) string
}

// WithLabeler overrides the label generation used by Store.Adopt.
func WithLabeler(labeler func(string) string) StoreOption {
	return func(opts *storeOptions) {
		opts.labeler = labeler
	}
}

// NewStore returns a variable store seeded with vars, backed by the internal
// implementation.
func NewStore(vars []Variable, options ...StoreOption) (*Store, error) {
	cfg := storeOptions{}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}

	internalOpts := internalmodel.Options{}
	if cfg.labeler != nil {
		internalOpts.Labeler = cfg.labeler
	}

	return internalmodel.NewStoreWithOptions(internalOpts, vars...)
}

// NormalizeTemplate runs the template's variables through a fresh store so
// names are canonical and duplicates rejected.
func NormalizeTemplate(tmpl Template) (Template, error) {
	store, err := NewStore(tmpl.Variables)
	if err != nil {
		return Template{}, err
	}
	return store.Apply(tmpl), nil
}
