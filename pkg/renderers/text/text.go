// Package text renders templates as plain text.
package text

import (
	"context"

	"github.com/goliatone/go-docbind/pkg/binder"
	"github.com/goliatone/go-docbind/pkg/model"
	"github.com/goliatone/go-docbind/pkg/render"
)

// Name is the registry key of the plain-text renderer.
const Name = "text"

// Renderer substitutes values into the template content and returns it
// unchanged otherwise.
type Renderer struct {
	options []binder.Option
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs a text renderer. The binder options apply to every render.
func New(options ...binder.Option) *Renderer {
	return &Renderer{options: options}
}

func (r *Renderer) Name() string {
	return Name
}

func (r *Renderer) ContentType() string {
	return "text/plain; charset=utf-8"
}

func (r *Renderer) Render(ctx context.Context, tmpl model.Template, opts render.RenderOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	options := append(append([]binder.Option(nil), r.options...), opts.BinderOptions()...)
	return []byte(binder.RenderTemplate(tmpl, opts.Values, options...)), nil
}
