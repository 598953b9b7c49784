package render

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

var (
	// ErrUnknownRenderer is returned when no renderer carries the requested
	// name.
	ErrUnknownRenderer = errors.New("render: unknown renderer")
	// ErrDuplicateRenderer is returned when a name is registered twice.
	ErrDuplicateRenderer = errors.New("render: renderer already registered")
)

// Registry maps output format names ("text", "html", "tui") to renderers.
// It is safe for concurrent use; the HTTP API reads it per request.
type Registry struct {
	mu     sync.RWMutex
	byName map[string]Renderer
}

func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]Renderer)}
}

// Register adds renderer under its Name().
func (r *Registry) Register(renderer Renderer) error {
	if renderer == nil {
		return errors.New("render: renderer is required")
	}
	name := strings.TrimSpace(renderer.Name())
	if name == "" {
		return errors.New("render: renderer name is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, taken := r.byName[name]; taken {
		return fmt.Errorf("%w: %q", ErrDuplicateRenderer, name)
	}
	r.byName[name] = renderer
	return nil
}

// MustRegister is Register for setup code where a clash is a programming
// error.
func (r *Registry) MustRegister(renderer Renderer) {
	if err := r.Register(renderer); err != nil {
		panic(err)
	}
}

func (r *Registry) Get(name string) (Renderer, error) {
	r.mu.RLock()
	renderer, ok := r.byName[name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownRenderer, name)
	}
	return renderer, nil
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	_, err := r.Get(name)
	return err == nil
}

// List returns the registered names in lexical order.
func (r *Registry) List() []string {
	r.mu.RLock()
	names := make([]string, 0, len(r.byName))
	for name := range r.byName {
		names = append(names, name)
	}
	r.mu.RUnlock()
	sort.Strings(names)
	return names
}
