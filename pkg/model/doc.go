// Package model defines the template, variable and bound value types shared by
// the binder, renderers and catalog. Types are implemented in internal/model
// and re-exported here. Variable names are canonicalised on entry to a Store
// (trimmed, upper-cased, whitespace collapsed to underscores) so that the name
// a user types in an editor ("nome paciente") lines up with the placeholder
// convention ({{NOME_PACIENTE}}).
package model
