package model

import internalmodel "github.com/goliatone/go-docbind/internal/model"

// VariableType re-exports the internal VariableType enumeration.
type VariableType = internalmodel.VariableType

const (
	VariableTypeText     = internalmodel.VariableTypeText
	VariableTypeDate     = internalmodel.VariableTypeDate
	VariableTypeNumber   = internalmodel.VariableTypeNumber
	VariableTypeSelect   = internalmodel.VariableTypeSelect
	VariableTypeTextarea = internalmodel.VariableTypeTextarea
)

// Syntax re-exports the placeholder syntax names.
type Syntax = internalmodel.Syntax

const (
	SyntaxCurly  = internalmodel.SyntaxCurly
	SyntaxSquare = internalmodel.SyntaxSquare
)

type Variable = internalmodel.Variable
type Template = internalmodel.Template
type Values = internalmodel.Values
type Store = internalmodel.Store
type VariableError = internalmodel.VariableError

var (
	ErrNameRequired      = internalmodel.ErrNameRequired
	ErrLabelRequired     = internalmodel.ErrLabelRequired
	ErrDuplicateVariable = internalmodel.ErrDuplicateVariable
	ErrInvalidType       = internalmodel.ErrInvalidType
)

// ParseVariableType resolves a raw type name; empty maps to text.
func ParseVariableType(raw string) (VariableType, error) {
	return internalmodel.ParseVariableType(raw)
}

// CanonicalName returns the normalised form used for matching and uniqueness.
func CanonicalName(name string) string {
	return internalmodel.CanonicalName(name)
}

// DefaultLabeler derives a readable label from a variable name.
func DefaultLabeler(name string) string {
	return internalmodel.DefaultLabeler(name)
}
