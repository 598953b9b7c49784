// Package template defines the engine contract layout-driven renderers rely
// on. The gotemplate subpackage provides the pongo2-backed implementation.
package template
