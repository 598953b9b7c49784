package schema

import (
	"fmt"
	"sort"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-docbind/pkg/model"
)

// DocumentOptions customises the generated API description.
type DocumentOptions struct {
	Title     string
	Version   string
	Renderers []string
}

// Document describes the render endpoint of every template as an OpenAPI
// 3 document. Each template contributes a values schema under
// components/schemas keyed "Values_<id>".
func Document(templates []model.Template, opts DocumentOptions) *openapi3.T {
	if opts.Title == "" {
		opts.Title = "docbind"
	}
	if opts.Version == "" {
		opts.Version = "0.1.0"
	}

	doc := &openapi3.T{
		OpenAPI: "3.0.3",
		Info: &openapi3.Info{
			Title:   opts.Title,
			Version: opts.Version,
		},
		Paths: openapi3.NewPaths(),
		Components: &openapi3.Components{
			Schemas: make(openapi3.Schemas),
		},
	}

	sorted := append([]model.Template(nil), templates...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	for _, tmpl := range sorted {
		ref := "Values_" + tmpl.ID
		doc.Components.Schemas[ref] = openapi3.NewSchemaRef("", ValuesSchema(tmpl))

		body := openapi3.NewObjectSchema().
			WithPropertyRef("values", openapi3.NewSchemaRef("#/components/schemas/"+ref, nil)).
			WithProperty("renderer", rendererSchema(opts.Renderers)).
			WithProperty("strict", openapi3.NewBoolSchema()).
			WithProperty("defaults", openapi3.NewBoolSchema()).
			WithProperty("save", openapi3.NewBoolSchema())

		responses := openapi3.NewResponses()
		responses.Set("200", &openapi3.ResponseRef{
			Value: openapi3.NewResponse().
				WithDescription("Rendered document").
				WithJSONSchema(renderResultSchema()),
		})
		responses.Set("422", &openapi3.ResponseRef{
			Value: openapi3.NewResponse().
				WithDescription("Values failed strict validation").
				WithJSONSchema(validationErrorSchema()),
		})

		op := openapi3.NewOperation()
		op.OperationID = "render:" + tmpl.ID
		op.Summary = fmt.Sprintf("Render %s", displayName(tmpl))
		op.Description = tmpl.Description
		if tmpl.Category != "" {
			op.Tags = []string{tmpl.Category}
		}
		op.RequestBody = &openapi3.RequestBodyRef{
			Value: openapi3.NewRequestBody().WithRequired(true).WithJSONSchema(body),
		}
		op.Responses = responses

		doc.Paths.Set("/templates/"+tmpl.ID+"/render", &openapi3.PathItem{Post: op})
	}

	return doc
}

func displayName(tmpl model.Template) string {
	if tmpl.Name != "" {
		return tmpl.Name
	}
	return tmpl.ID
}

func rendererSchema(names []string) *openapi3.Schema {
	s := openapi3.NewStringSchema()
	if len(names) == 0 {
		return s
	}
	enum := make([]any, 0, len(names))
	for _, name := range names {
		enum = append(enum, name)
	}
	return s.WithEnum(enum...)
}

func renderResultSchema() *openapi3.Schema {
	return openapi3.NewObjectSchema().
		WithProperty("output", openapi3.NewStringSchema()).
		WithProperty("contentType", openapi3.NewStringSchema()).
		WithProperty("document", openapi3.NewObjectSchema())
}

func validationErrorSchema() *openapi3.Schema {
	messages := openapi3.NewArraySchema().WithItems(openapi3.NewStringSchema())
	return openapi3.NewObjectSchema().
		WithProperty("error", openapi3.NewStringSchema()).
		WithProperty("fields", openapi3.NewObjectSchema().WithAdditionalProperties(messages)).
		WithProperty("form", messages)
}
