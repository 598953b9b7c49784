// Package orchestrator wires the catalog -> bind -> validate -> render -> save
// pipeline behind a single Generate call, with dependency injection friendly
// options for callers that need to swap any stage.
package orchestrator
