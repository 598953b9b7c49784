package model

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNameRequired is returned when a variable name is empty after trimming.
	ErrNameRequired = errors.New("model: variable name is required")
	// ErrLabelRequired is returned when a variable label is empty.
	ErrLabelRequired = errors.New("model: variable label is required")
	// ErrDuplicateVariable is returned when the canonical name is already taken.
	ErrDuplicateVariable = errors.New("model: duplicate variable name")
	// ErrInvalidType is returned for variable kinds outside the closed set.
	ErrInvalidType = errors.New("model: invalid variable type")
)

// VariableError reports why a variable definition was rejected. It unwraps to
// one of the Err* sentinels so callers can branch with errors.Is.
type VariableError struct {
	Name string
	Err  error
}

func (e *VariableError) Error() string {
	if e == nil || e.Err == nil {
		return "model: invalid variable"
	}
	if e.Name == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s (%q)", e.Err.Error(), e.Name)
}

func (e *VariableError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// normalizeVariable validates def and returns the stored form: canonical
// name, trimmed label, resolved type and trimmed select options.
func normalizeVariable(def Variable) (Variable, error) {
	name := CanonicalName(def.Name)
	if name == "" {
		return Variable{}, &VariableError{Name: def.Name, Err: ErrNameRequired}
	}
	label := strings.TrimSpace(def.Label)
	if label == "" {
		return Variable{}, &VariableError{Name: name, Err: ErrLabelRequired}
	}
	kind, err := ParseVariableType(string(def.Type))
	if err != nil {
		return Variable{}, &VariableError{Name: name, Err: ErrInvalidType}
	}

	out := def
	out.Name = name
	out.Label = label
	out.Type = kind
	out.Description = strings.TrimSpace(def.Description)
	out.Options = nil
	if kind == VariableTypeSelect {
		for _, option := range def.Options {
			if trimmed := strings.TrimSpace(option); trimmed != "" {
				out.Options = append(out.Options, trimmed)
			}
		}
	}
	return out, nil
}
