package model

import (
	internalmodel "github.com/shepmaster/my-error/internal/model"
	"github.com/shepmaster/my-error/pkg/diag"
	"github.com/shepmaster/my-error/pkg/schema"
)

// Builder resolves decomposed errorset documents into the generation model.
// The returned list carries every diagnostic found anywhere in the
// document; the model is nil whenever the list contains an error.
type Builder interface {
	Build(set schema.Set) (*ErrorSet, diag.List)
}

// BuilderOption configures the builder behaviour.
type BuilderOption func(*builderOptions)

type builderOptions struct {
	runtime string
}

// WithRuntime overrides the runtime import path resolved when a document
// does not choose one.
func WithRuntime(path string) BuilderOption {
	return func(opts *builderOptions) {
		opts.runtime = path
	}
}

// NewBuilder returns a Builder backed by the internal implementation.
func NewBuilder(options ...BuilderOption) Builder {
	cfg := builderOptions{}
	for _, opt := range options {
		opt(&cfg)
	}

	internalOpts := internalmodel.Options{}
	if cfg.runtime != "" {
		internalOpts.Runtime = cfg.runtime
	}

	return internalmodel.New(internalOpts)
}
