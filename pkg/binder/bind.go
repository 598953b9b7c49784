package binder

import (
	"sort"
	"strings"

	"github.com/goliatone/go-docbind/pkg/model"
)

// BindOptions controls how raw form input becomes a bound value set.
type BindOptions struct {
	// ApplyDefaults fills blank values from Variable.Default.
	ApplyDefaults bool
	// KeepUnknown retains keys that match no declared variable.
	KeepUnknown bool
}

// BindValues normalises raw input keys to canonical variable names so that
// "nome paciente" and "NOME_PACIENTE" address the same variable. When two
// raw keys collapse to the same name, the exact canonical key wins and the
// remaining ties resolve by key order.
func BindValues(vars []model.Variable, raw map[string]string, opts BindOptions) model.Values {
	declared := make(map[string]model.Variable, len(vars))
	for _, v := range vars {
		declared[v.Name] = v
	}

	out := make(model.Values, len(vars))
	keys := make([]string, 0, len(raw))
	for key := range raw {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	exact := make(map[string]bool, len(raw))
	for _, key := range keys {
		value := raw[key]
		name := model.CanonicalName(key)
		if name == "" {
			continue
		}
		if _, ok := declared[name]; !ok && !opts.KeepUnknown {
			continue
		}
		if exact[name] {
			continue
		}
		if _, taken := out[name]; taken && key != name {
			continue
		}
		out[name] = value
		if key == name {
			exact[name] = true
		}
	}

	if opts.ApplyDefaults {
		for _, v := range vars {
			if strings.TrimSpace(out[v.Name]) == "" && v.Default != "" {
				out[v.Name] = v.Default
			}
		}
	}
	return out
}

// Missing lists the required variables that have no usable value, in
// declaration order.
func Missing(vars []model.Variable, values map[string]string) []string {
	var out []string
	for _, v := range vars {
		if v.Required && strings.TrimSpace(values[v.Name]) == "" {
			out = append(out, v.Name)
		}
	}
	return out
}
