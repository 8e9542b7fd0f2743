// Package orchestrator wires the payload → batch → document → renderer
// pipeline, providing dependency injection friendly helpers for consumers
// that prefer a single entry point.
package orchestrator
