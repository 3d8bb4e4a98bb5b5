// Package orchestrator wires the loader, decomposer, model builder, and
// generation targets into a single pipeline, providing dependency
// injection friendly helpers for consumers that prefer one entry point.
package orchestrator
