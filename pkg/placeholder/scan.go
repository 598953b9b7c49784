package placeholder

import (
	"sort"
	"strings"

	"github.com/goliatone/go-docbind/pkg/model"
)

// Occurrence is a placeholder found in content.
type Occurrence struct {
	Name   string `json:"name"`
	Offset int    `json:"offset"`
	Token  string `json:"token"`
}

// Scan returns every delimited token in content, left to right. A token is
// the shortest run between an opening delimiter and the next closing one;
// empty names and names spanning a line break are skipped.
func Scan(content string, delims Delimiters) []Occurrence {
	if !delims.Valid() || content == "" {
		return nil
	}

	var out []Occurrence
	pos := 0
	for pos < len(content) {
		start := strings.Index(content[pos:], delims.Open)
		if start < 0 {
			break
		}
		start += pos
		nameStart := start + len(delims.Open)
		end := strings.Index(content[nameStart:], delims.Close)
		if end < 0 {
			break
		}
		name := content[nameStart : nameStart+end]
		if strings.TrimSpace(name) == "" || strings.ContainsAny(name, "\r\n") || strings.ContainsAny(name, delims.Open) {
			pos = start + 1
			continue
		}
		tokenEnd := nameStart + end + len(delims.Close)
		out = append(out, Occurrence{
			Name:   name,
			Offset: start,
			Token:  content[start:tokenEnd],
		})
		pos = tokenEnd
	}
	return out
}

// Report summarises how content and declared variables line up.
type Report struct {
	// Undeclared lists placeholder names with no matching variable.
	Undeclared []string `json:"undeclared,omitempty"`
	// Unused lists declared variables that never appear in content.
	Unused []string `json:"unused,omitempty"`
}

// Clean reports whether content and variables agree.
func (r Report) Clean() bool {
	return len(r.Undeclared) == 0 && len(r.Unused) == 0
}

// Analyze compares the placeholders in content with the declared variables.
func Analyze(content string, vars []model.Variable, delims Delimiters) Report {
	declared := make(map[string]struct{}, len(vars))
	for _, v := range vars {
		declared[v.Name] = struct{}{}
	}

	used := make(map[string]struct{})
	undeclared := make(map[string]struct{})
	for _, occ := range Scan(content, delims) {
		used[occ.Name] = struct{}{}
		if _, ok := declared[occ.Name]; !ok {
			undeclared[occ.Name] = struct{}{}
		}
	}
	// Names that contain the closing delimiter are invisible to Scan, so
	// usage is also checked against the full token.
	for _, v := range vars {
		if strings.Contains(content, delims.Token(v.Name)) {
			used[v.Name] = struct{}{}
		}
	}

	var report Report
	for name := range undeclared {
		report.Undeclared = append(report.Undeclared, name)
	}
	for name := range declared {
		if _, ok := used[name]; !ok {
			report.Unused = append(report.Unused, name)
		}
	}
	sort.Strings(report.Undeclared)
	sort.Strings(report.Unused)
	return report
}

// Discover proposes text variables for the undeclared names in content,
// labelled with labeler (model.DefaultLabeler when nil). Names that are not
// canonical are skipped since they could never match a stored variable.
func Discover(content string, vars []model.Variable, delims Delimiters, labeler func(string) string) []model.Variable {
	if labeler == nil {
		labeler = model.DefaultLabeler
	}
	var out []model.Variable
	for _, name := range Analyze(content, vars, delims).Undeclared {
		if model.CanonicalName(name) != name {
			continue
		}
		label := labeler(name)
		if label == "" {
			label = name
		}
		out = append(out, model.Variable{Name: name, Label: label, Type: model.VariableTypeText})
	}
	return out
}
