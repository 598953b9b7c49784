package schema

import (
	"errors"
	"fmt"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-docbind/pkg/model"
	"github.com/goliatone/go-docbind/pkg/render"
)

// Validate checks values against each variable's schema and returns the
// collected messages keyed by variable name, or nil when every value is
// acceptable. Whitespace-only values count as missing. Optional variables
// without a value are not checked.
func Validate(tmpl model.Template, values model.Values) *render.ValidationErrors {
	payload := make(map[string][]string)

	for _, variable := range tmpl.Variables {
		name := model.CanonicalName(variable.Name)
		key := "/" + name
		value := strings.TrimSpace(lookup(values, name))

		if value == "" {
			if variable.Required {
				payload[key] = append(payload[key], requiredMessage(variable))
			}
			continue
		}

		err := VariableSchema(variable).VisitJSON(value, openapi3.MultiErrors())
		for _, schemaErr := range flatten(err) {
			payload[key] = append(payload[key], message(variable, schemaErr))
		}
		if err == nil && variable.Type == model.VariableTypeDate {
			if _, err := ParseDate(value); err != nil {
				payload[key] = append(payload[key], dateMessage(variable))
			}
		}
	}

	if len(payload) == 0 {
		return nil
	}
	return render.MapErrorPayload(tmpl, payload)
}

func lookup(values model.Values, name string) string {
	if value, ok := values[name]; ok {
		return value
	}
	for key, value := range values {
		if model.CanonicalName(key) == name {
			return value
		}
	}
	return ""
}

func flatten(err error) []*openapi3.SchemaError {
	if err == nil {
		return nil
	}
	var multi openapi3.MultiError
	if errors.As(err, &multi) {
		var out []*openapi3.SchemaError
		for _, inner := range multi {
			out = append(out, flatten(inner)...)
		}
		return out
	}
	var schemaErr *openapi3.SchemaError
	if errors.As(err, &schemaErr) {
		return []*openapi3.SchemaError{schemaErr}
	}
	return []*openapi3.SchemaError{{Reason: err.Error()}}
}

func message(v model.Variable, err *openapi3.SchemaError) string {
	switch err.SchemaField {
	case "minLength":
		return requiredMessage(v)
	case "enum":
		return fmt.Sprintf("%s must be one of: %s", v.DisplayLabel(), strings.Join(v.Options, ", "))
	case "pattern":
		switch v.Type {
		case model.VariableTypeNumber:
			return fmt.Sprintf("%s must be a number", v.DisplayLabel())
		case model.VariableTypeDate:
			return dateMessage(v)
		}
	}
	return fmt.Sprintf("%s: %s", v.DisplayLabel(), strings.TrimSpace(err.Reason))
}

func requiredMessage(v model.Variable) string {
	return fmt.Sprintf("%s is required", v.DisplayLabel())
}

func dateMessage(v model.Variable) string {
	return fmt.Sprintf("%s must be a date (YYYY-MM-DD or DD/MM/YYYY)", v.DisplayLabel())
}
