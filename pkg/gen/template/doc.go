// Package template defines the target-agnostic template renderer interface
// and hosts the pongo2-backed implementation used by the docs target.
package template
