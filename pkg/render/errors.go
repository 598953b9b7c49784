package render

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/goliatone/go-docbind/pkg/model"
)

// ErrValidation is the sentinel wrapped by ValidationErrors so callers can
// branch with errors.Is without inspecting the messages.
var ErrValidation = errors.New("render: validation failed")

// ValidationErrors splits validation feedback into variable-level and
// document-level messages. Variable keys are canonical variable names.
type ValidationErrors struct {
	Fields map[string][]string
	Form   []string
}

// Add appends a message for the named variable. Blank messages are ignored.
func (e *ValidationErrors) Add(name, message string) {
	message = strings.TrimSpace(message)
	if message == "" {
		return
	}
	if e.Fields == nil {
		e.Fields = make(map[string][]string)
	}
	e.Fields[name] = normalizeMessages(append(e.Fields[name], message))
}

// AddForm appends a document-level message.
func (e *ValidationErrors) AddForm(message string) {
	e.Form = MergeFormErrors(e.Form, message)
}

// Empty reports whether no message has been recorded.
func (e *ValidationErrors) Empty() bool {
	return e == nil || (len(e.Fields) == 0 && len(e.Form) == 0)
}

// ErrOrNil returns e as an error when it carries messages and nil otherwise.
func (e *ValidationErrors) ErrOrNil() error {
	if e.Empty() {
		return nil
	}
	return e
}

// Names returns the variables with messages, sorted.
func (e *ValidationErrors) Names() []string {
	if e == nil {
		return nil
	}
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (e *ValidationErrors) Error() string {
	if e.Empty() {
		return ErrValidation.Error()
	}
	parts := make([]string, 0, len(e.Fields)+len(e.Form))
	for _, name := range e.Names() {
		parts = append(parts, fmt.Sprintf("%s: %s", name, strings.Join(e.Fields[name], "; ")))
	}
	parts = append(parts, e.Form...)
	return ErrValidation.Error() + ": " + strings.Join(parts, ", ")
}

func (e *ValidationErrors) Unwrap() error { return ErrValidation }

// MergeFormErrors concatenates and normalises multiple form-level error
// slices, trimming whitespace and removing duplicates while preserving order.
func MergeFormErrors(existing []string, extras ...string) []string {
	combined := make([]string, 0, len(existing)+len(extras))
	combined = append(combined, existing...)
	combined = append(combined, extras...)
	return normalizeMessages(combined)
}

// MapErrorPayload normalises external error payloads (JSON pointers from the
// schema validator, dotted request paths, raw variable names) onto the
// template's declared variables. Unknown paths become document-level
// messages so nothing is lost.
func MapErrorPayload(tmpl model.Template, payload map[string][]string) *ValidationErrors {
	mapped := &ValidationErrors{}
	if len(payload) == 0 {
		return mapped
	}

	declared := make(map[string]struct{}, len(tmpl.Variables))
	for _, variable := range tmpl.Variables {
		declared[model.CanonicalName(variable.Name)] = struct{}{}
	}

	keys := make([]string, 0, len(payload))
	for key := range payload {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, rawPath := range keys {
		messages := normalizeMessages(payload[rawPath])
		if len(messages) == 0 {
			continue
		}
		name, formLevel := mapErrorPath(rawPath, declared)
		if formLevel {
			mapped.Form = append(mapped.Form, messages...)
			continue
		}
		for _, message := range messages {
			mapped.Add(name, message)
		}
	}

	mapped.Form = normalizeMessages(mapped.Form)
	return mapped
}

func normalizeMessages(messages []string) []string {
	if len(messages) == 0 {
		return nil
	}

	out := make([]string, 0, len(messages))
	seen := make(map[string]struct{}, len(messages))

	for _, message := range messages {
		trimmed := strings.TrimSpace(message)
		if trimmed == "" {
			continue
		}
		if _, exists := seen[trimmed]; exists {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}

	if len(out) == 0 {
		return nil
	}
	return out
}

func mapErrorPath(raw string, declared map[string]struct{}) (string, bool) {
	trimmed := strings.TrimSpace(raw)
	if isFormLevelKey(trimmed) {
		return "", true
	}

	segments := stripNumericSegments(dropWrapperSegments(parsePathSegments(trimmed)))
	for _, segment := range segments {
		name := model.CanonicalName(segment)
		if _, ok := declared[name]; ok {
			return name, false
		}
	}
	return "", true
}

func parsePathSegments(path string) []string {
	if path == "" {
		return nil
	}

	clean := strings.TrimSpace(path)
	for strings.HasPrefix(clean, "#") || strings.HasPrefix(clean, "/") || strings.HasPrefix(clean, ".") || strings.HasPrefix(clean, "$") {
		clean = clean[1:]
	}

	replacer := strings.NewReplacer("[", ".", "]", "", "//", "/")
	clean = strings.Trim(replacer.Replace(clean), "./")
	if clean == "" {
		return nil
	}

	parts := strings.FieldsFunc(clean, func(r rune) bool {
		return r == '.' || r == '/'
	})

	out := make([]string, 0, len(parts))
	for _, part := range parts {
		segment := strings.TrimSpace(part)
		if segment == "" {
			continue
		}
		segment = strings.ReplaceAll(segment, "~1", "/")
		segment = strings.ReplaceAll(segment, "~0", "~")
		out = append(out, segment)
	}
	return out
}

var wrapperSegments = map[string]struct{}{
	"body":       {},
	"request":    {},
	"payload":    {},
	"data":       {},
	"values":     {},
	"properties": {},
}

func dropWrapperSegments(segments []string) []string {
	out := segments
	for len(out) > 0 {
		if _, ok := wrapperSegments[strings.ToLower(out[0])]; !ok {
			break
		}
		out = out[1:]
	}
	return out
}

func stripNumericSegments(segments []string) []string {
	out := make([]string, 0, len(segments))
	for _, segment := range segments {
		if _, err := strconv.Atoi(segment); err == nil {
			continue
		}
		out = append(out, segment)
	}
	return out
}

func isFormLevelKey(key string) bool {
	switch strings.ToLower(strings.TrimSpace(key)) {
	case "", ".", "/", "#", "$", "form", "document", "__all__", "non_field_errors":
		return true
	default:
		return false
	}
}
