package render

import (
	"context"

	"github.com/goliatone/go-docbind/pkg/model"
)

// Renderer turns a template plus bound values into an output document (plain
// text, HTML, an interactive terminal session, ...).
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, tmpl model.Template, options RenderOptions) ([]byte, error)
}

// ValueCollector is implemented by renderers that gather values themselves
// and validate them as they go. Callers skip up-front validation for them
// and read the final values through RenderOptions.OnValues.
type ValueCollector interface {
	CollectsValues() bool
}
