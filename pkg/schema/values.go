package schema

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-docbind/pkg/model"
)

const (
	// NumberPattern accepts an optional sign and either "," or "." as the
	// decimal separator.
	NumberPattern = `^-?\d+([.,]\d+)?$`
	// DatePattern accepts ISO dates and the Brazilian DD/MM/YYYY form.
	DatePattern = `^(\d{4}-\d{2}-\d{2}|\d{2}/\d{2}/\d{4})$`
)

var dateLayouts = []string{"2006-01-02", "02/01/2006"}

// ErrInvalidDate reports a value that matches neither supported date layout.
var ErrInvalidDate = errors.New("schema: invalid date")

// ErrInvalidNumber reports a value that is not a decimal number.
var ErrInvalidNumber = errors.New("schema: invalid number")

// VariableSchema builds the string schema that constrains one variable's
// value. All values are strings on the wire.
func VariableSchema(v model.Variable) *openapi3.Schema {
	s := openapi3.NewStringSchema()
	s.Title = v.DisplayLabel()
	s.Description = v.Description
	if v.Default != "" {
		s.Default = v.Default
	}

	switch v.Type {
	case model.VariableTypeSelect:
		if len(v.Options) > 0 {
			enum := make([]any, 0, len(v.Options))
			for _, option := range v.Options {
				enum = append(enum, option)
			}
			s.WithEnum(enum...)
		}
	case model.VariableTypeNumber:
		s.WithPattern(NumberPattern)
	case model.VariableTypeDate:
		s.WithPattern(DatePattern)
		s.Example = "2024-01-31"
	}

	if v.Required {
		s.WithMinLength(1)
	}
	return s
}

// ValuesSchema is the object schema for a template's whole bound value set.
// Undeclared keys are allowed since rendering ignores them.
func ValuesSchema(tmpl model.Template) *openapi3.Schema {
	s := openapi3.NewObjectSchema()
	s.Title = tmpl.Name
	s.Description = tmpl.Description
	for _, variable := range tmpl.Variables {
		name := model.CanonicalName(variable.Name)
		s.WithProperty(name, VariableSchema(variable))
		if variable.Required {
			s.Required = append(s.Required, name)
		}
	}
	return s
}

// ParseDate parses a value in either supported layout.
func ParseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, ErrInvalidDate
}

// ParseNumber parses a decimal number written with either separator.
func ParseNumber(value string) (float64, error) {
	value = strings.ReplaceAll(strings.TrimSpace(value), ",", ".")
	n, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, ErrInvalidNumber
	}
	return n, nil
}
