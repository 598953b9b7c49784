package html

import (
	stdhtml "html"
	"sort"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	valuePolicyOnce sync.Once
	valuePolicy     *bluemonday.Policy
)

// sanitizeValue strips every tag from a user-supplied value and escapes the
// remaining text.
func sanitizeValue(raw string) string {
	valuePolicyOnce.Do(func() {
		valuePolicy = bluemonday.StrictPolicy()
	})
	return valuePolicy.Sanitize(raw)
}

func missingMarker(text string) string {
	return `<mark class="docbind-missing">` + stdhtml.EscapeString(text) + `</mark>`
}

// cssVarsStyle renders theme tokens as custom properties. The output lands
// inside a <style> element, so entries whose name is not a plain identifier
// or whose value could close the declaration, the rule or the element are
// dropped. Quotes are kept so font stacks like "Inter", sans-serif survive.
func cssVarsStyle(vars map[string]string) string {
	keys := make([]string, 0, len(vars))
	for key := range vars {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, key := range keys {
		name := "--" + strings.TrimPrefix(strings.TrimSpace(key), "--")
		value := strings.TrimSpace(vars[key])
		if !cssIdent(name[2:]) || !cssValue(value) {
			continue
		}
		b.WriteString(" ")
		b.WriteString(name)
		b.WriteString(": ")
		b.WriteString(value)
		b.WriteString(";")
	}
	if b.Len() == 0 {
		return ""
	}
	return ":root {" + b.String() + " }"
}

func cssIdent(name string) bool {
	if name == "" {
		return false
	}
	for _, r := range name {
		if !(r == '-' || r == '_' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9') {
			return false
		}
	}
	return true
}

func cssValue(value string) bool {
	if value == "" || strings.ContainsAny(value, "<>{};\\") {
		return false
	}
	for _, r := range value {
		if r < 0x20 || r == 0x7f {
			return false
		}
	}
	return true
}
