package openapi

import (
	"context"

	"github.com/shepmaster/my-error/pkg/schema"
)

// Extractor pulls the x-errorsets extension out of an OpenAPI document and
// decomposes it into raw type definitions. Positions degrade to the
// document since the payload travels through a JSON re-encoding.
type Extractor interface {
	Errorsets(ctx context.Context, doc schema.Document) (schema.Set, error)
}

// ExtractorOptions exposes the extraction toggles.
type ExtractorOptions struct {
	// AllowMissing turns the missing-extension error into an empty set, for
	// pipelines that scan specs which may or may not declare errorsets.
	AllowMissing bool

	// ResolveExternalRefs controls whether the underlying OpenAPI loader
	// may follow external $ref pointers. Defaults to false to stay
	// offline-first.
	ResolveExternalRefs bool

	// ValidateDocument runs structural OpenAPI validation (with examples
	// validation disabled) before extraction. Defaults to true.
	ValidateDocument bool
}

// ExtractorOption mutates ExtractorOptions during construction.
type ExtractorOption func(*ExtractorOptions)

// WithAllowMissing tolerates documents without an x-errorsets extension.
func WithAllowMissing(allow bool) ExtractorOption {
	return func(opts *ExtractorOptions) {
		opts.AllowMissing = allow
	}
}

// WithExternalRefs toggles external reference resolution.
func WithExternalRefs(enabled bool) ExtractorOption {
	return func(opts *ExtractorOptions) {
		opts.ResolveExternalRefs = enabled
	}
}

// WithDocumentValidation toggles OpenAPI structural validation.
func WithDocumentValidation(enabled bool) ExtractorOption {
	return func(opts *ExtractorOptions) {
		opts.ValidateDocument = enabled
	}
}

// NewExtractorOptions applies ExtractorOption functions and returns the
// resulting configuration.
func NewExtractorOptions(options ...ExtractorOption) ExtractorOptions {
	cfg := ExtractorOptions{
		ValidateDocument: true,
	}
	for _, opt := range options {
		opt(&cfg)
	}
	return cfg
}
