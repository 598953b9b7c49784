// Package binder renders template content against declared variables and a
// bound value set. Everything here is pure: no I/O, no shared state, no
// errors. The same inputs always produce byte-identical output.
package binder

import (
	"sort"
	"strings"

	"github.com/goliatone/go-docbind/pkg/model"
	"github.com/goliatone/go-docbind/pkg/placeholder"
)

type binding struct {
	token    string
	variable model.Variable
}

// Render substitutes every occurrence of each variable's placeholder with its
// bound value. Missing or blank values render the configured fallback. Values
// for undeclared names are ignored and placeholders for undeclared names are
// left as written. Output is produced in a single left-to-right pass so a
// substituted value is never scanned again.
func Render(content string, vars []model.Variable, values map[string]string, options ...Option) string {
	cfg := newConfig(options)
	bindings := buildBindings(vars, cfg.delims)
	if len(bindings) == 0 || content == "" {
		return cfg.literal(content)
	}

	var out strings.Builder
	out.Grow(len(content))

	open := cfg.delims.Open
	literal := 0
	pos := 0
	for pos < len(content) {
		next := strings.Index(content[pos:], open)
		if next < 0 {
			break
		}
		start := pos + next

		b, ok := match(content[start:], bindings)
		if !ok {
			pos = start + 1
			continue
		}
		out.WriteString(cfg.literal(content[literal:start]))
		out.WriteString(cfg.substitute(b.variable, values))
		pos = start + len(b.token)
		literal = pos
	}
	out.WriteString(cfg.literal(content[literal:]))
	return out.String()
}

// InsertPlaceholder splices the {{NAME}} token for variableName into content
// at cursorPos. See placeholder.Insert for offset handling.
func InsertPlaceholder(content string, cursorPos int, variableName string) string {
	return placeholder.Insert(content, cursorPos, variableName, placeholder.Curly)
}

// RenderTemplate renders tmpl using the delimiter pair its Syntax selects.
// Unknown syntax names fall back to the curly pair.
func RenderTemplate(tmpl model.Template, values map[string]string, options ...Option) string {
	delims, err := placeholder.DelimitersFor(tmpl.Syntax)
	if err != nil {
		delims = placeholder.Curly
	}
	opts := append([]Option{WithDelimiters(delims)}, options...)
	return Render(tmpl.Content, tmpl.Variables, values, opts...)
}

// buildBindings orders tokens longest first so the first prefix match at a
// position is always the full token, never a shorter name's token that
// happens to be its prefix.
func buildBindings(vars []model.Variable, delims placeholder.Delimiters) []binding {
	seen := make(map[string]struct{}, len(vars))
	out := make([]binding, 0, len(vars))
	for _, v := range vars {
		if v.Name == "" {
			continue
		}
		token := delims.Token(v.Name)
		if _, dup := seen[token]; dup {
			continue
		}
		seen[token] = struct{}{}
		out = append(out, binding{token: token, variable: v})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return len(out[i].token) > len(out[j].token)
	})
	return out
}

func match(rest string, bindings []binding) (binding, bool) {
	for _, b := range bindings {
		if strings.HasPrefix(rest, b.token) {
			return b, true
		}
	}
	return binding{}, false
}

func (cfg config) literal(text string) string {
	if cfg.escapeText == nil || text == "" {
		return text
	}
	return cfg.escapeText(text)
}

func (cfg config) substitute(v model.Variable, values map[string]string) string {
	value, ok := values[v.Name]
	if ok && strings.TrimSpace(value) != "" {
		if cfg.escape != nil {
			return cfg.escape(value)
		}
		return value
	}

	text := v.DisplayLabel()
	if cfg.fallback == FallbackName {
		text = v.Name
	}
	text = "[" + text + "]"
	if cfg.marker != nil {
		return cfg.marker(text)
	}
	return text
}
