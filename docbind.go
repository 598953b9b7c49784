// Package docbind fills document templates (prescriptions, certificates,
// referrals) with variable values. The two core operations are Render and
// InsertPlaceholder; the orchestrator adds catalog lookup, validation,
// output renderers and persistence on top.
package docbind

import (
	"context"
	"io/fs"

	"github.com/goliatone/go-docbind/pkg/binder"
	"github.com/goliatone/go-docbind/pkg/catalog"
	"github.com/goliatone/go-docbind/pkg/model"
	"github.com/goliatone/go-docbind/pkg/orchestrator"
	"github.com/goliatone/go-docbind/pkg/render"
	"github.com/goliatone/go-docbind/pkg/renderers/html"
)

type (
	Template      = model.Template
	Variable      = model.Variable
	VariableType  = model.VariableType
	Values        = model.Values
	RenderOptions = render.RenderOptions
	Request       = orchestrator.Request
	Result        = orchestrator.Result
)

// Render substitutes every declared variable's placeholder in content.
// Missing or blank values render as "[Label]". It never fails.
func Render(content string, variables []Variable, values map[string]string, options ...binder.Option) string {
	return binder.Render(content, variables, values, options...)
}

// InsertPlaceholder splices "{{NAME}}" into content at the byte offset
// cursorPos, canonicalising the name.
func InsertPlaceholder(content string, cursorPos int, variableName string) string {
	return binder.InsertPlaceholder(content, cursorPos, variableName)
}

// NewOrchestrator exposes the orchestrator constructor from the top-level
// module.
func NewOrchestrator(options ...orchestrator.Option) *orchestrator.Orchestrator {
	return orchestrator.New(options...)
}

// Generate renders a catalog template with the named renderer ("text" when
// empty). It is the simplest entry point for callers that only need output.
func Generate(ctx context.Context, templateID, rendererName string, values map[string]string, options ...orchestrator.Option) ([]byte, error) {
	result, err := orchestrator.New(options...).Generate(ctx, orchestrator.Request{
		TemplateID: templateID,
		Renderer:   rendererName,
		Values:     values,
	})
	if err != nil {
		return nil, err
	}
	return result.Output, nil
}

// BuiltinTemplates exposes the embedded template catalog files.
func BuiltinTemplates() fs.FS {
	return catalog.BuiltinFS()
}

// LayoutTemplates exposes the HTML renderer layouts so callers can copy or
// extend them.
func LayoutTemplates() fs.FS {
	return html.TemplatesFS()
}
