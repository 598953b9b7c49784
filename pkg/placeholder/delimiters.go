// Package placeholder implements the textual placeholder convention: the
// delimiter pairs, token construction, scanning and the editor splice.
package placeholder

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-docbind/pkg/model"
)

// Delimiters is the opening/closing pair that wraps a variable name.
type Delimiters struct {
	Open  string `json:"open" yaml:"open"`
	Close string `json:"close" yaml:"close"`
}

var (
	// Curly is the default {{NAME}} pair.
	Curly = Delimiters{Open: "{{", Close: "}}"}
	// Square is the alternate [NAME] pair.
	Square = Delimiters{Open: "[", Close: "]"}
)

// Token wraps name in the delimiter pair.
func (d Delimiters) Token(name string) string {
	return d.Open + name + d.Close
}

// Valid reports whether both delimiters are non-empty.
func (d Delimiters) Valid() bool {
	return d.Open != "" && d.Close != ""
}

func (d Delimiters) String() string {
	return d.Token("…")
}

// DelimitersFor resolves a template syntax name. An empty syntax selects
// Curly.
func DelimitersFor(syntax model.Syntax) (Delimiters, error) {
	switch model.Syntax(strings.ToLower(strings.TrimSpace(string(syntax)))) {
	case "", model.SyntaxCurly:
		return Curly, nil
	case model.SyntaxSquare:
		return Square, nil
	default:
		return Delimiters{}, fmt.Errorf("placeholder: unknown syntax %q", syntax)
	}
}

// MustDelimitersFor panics on unknown syntax names.
func MustDelimitersFor(syntax model.Syntax) Delimiters {
	d, err := DelimitersFor(syntax)
	if err != nil {
		panic(err)
	}
	return d
}
