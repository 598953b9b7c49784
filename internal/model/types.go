package model

import (
	"fmt"
	"strings"
)

// VariableType is the closed set of input kinds a template variable can take.
type VariableType string

const (
	VariableTypeText     VariableType = "text"
	VariableTypeDate     VariableType = "date"
	VariableTypeNumber   VariableType = "number"
	VariableTypeSelect   VariableType = "select"
	VariableTypeTextarea VariableType = "textarea"
)

var variableTypes = []VariableType{
	VariableTypeText,
	VariableTypeDate,
	VariableTypeNumber,
	VariableTypeSelect,
	VariableTypeTextarea,
}

// VariableTypes returns the supported variable kinds in declaration order.
func VariableTypes() []VariableType {
	return append([]VariableType(nil), variableTypes...)
}

// ParseVariableType resolves a raw type name. An empty value maps to
// VariableTypeText so hand-written templates can omit the field.
func ParseVariableType(raw string) (VariableType, error) {
	trimmed := strings.ToLower(strings.TrimSpace(raw))
	if trimmed == "" {
		return VariableTypeText, nil
	}
	for _, candidate := range variableTypes {
		if string(candidate) == trimmed {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidType, raw)
}

// Valid reports whether t is one of the supported kinds.
func (t VariableType) Valid() bool {
	_, err := ParseVariableType(string(t))
	return err == nil
}

// Syntax names the delimiter pair a template uses for its placeholders.
type Syntax string

const (
	// SyntaxCurly marks placeholders as {{NAME}}.
	SyntaxCurly Syntax = "curly"
	// SyntaxSquare marks placeholders as [NAME].
	SyntaxSquare Syntax = "square"
)

// Variable is a named, typed field whose value fills a placeholder. Options
// only apply to VariableTypeSelect.
type Variable struct {
	Name        string       `json:"name" yaml:"name"`
	Label       string       `json:"label" yaml:"label"`
	Type        VariableType `json:"type" yaml:"type"`
	Required    bool         `json:"required" yaml:"required"`
	Options     []string     `json:"options,omitempty" yaml:"options,omitempty"`
	Default     string       `json:"defaultValue,omitempty" yaml:"default,omitempty"`
	Description string       `json:"description,omitempty" yaml:"description,omitempty"`
}

// DisplayLabel returns the label, falling back to the name.
func (v Variable) DisplayLabel() string {
	if label := strings.TrimSpace(v.Label); label != "" {
		return label
	}
	return v.Name
}

// Template is a document skeleton with placeholders and the variables that
// fill them.
type Template struct {
	ID          string     `json:"id" yaml:"id"`
	Name        string     `json:"name" yaml:"name"`
	Category    string     `json:"category,omitempty" yaml:"category,omitempty"`
	Description string     `json:"description,omitempty" yaml:"description,omitempty"`
	Syntax      Syntax     `json:"syntax,omitempty" yaml:"syntax,omitempty"`
	Content     string     `json:"content" yaml:"content"`
	Variables   []Variable `json:"variables" yaml:"variables"`
	Source      string     `json:"-" yaml:"-"`
}

// Values is the bound value set for one render pass, keyed by variable name.
type Values map[string]string

// Clone returns a shallow copy safe for mutation.
func (v Values) Clone() Values {
	if v == nil {
		return nil
	}
	out := make(Values, len(v))
	for key, value := range v {
		out[key] = value
	}
	return out
}
