// Package errorset is the public surface for loading native errorset
// documents. It owns format detection; the loader and the per-format
// decomposition live in internal/errorset and are wired in by the
// orchestrator (or by callers directly).
package errorset

import (
	"context"
	"errors"
	"io/fs"

	"github.com/shepmaster/my-error/pkg/schema"
)

const DefaultAdapterName = "errorset"

// Loader fetches raw errorset documents from their sources.
type Loader interface {
	Load(ctx context.Context, src schema.Source) (schema.Document, error)
}

// Decomposer turns one raw document into decomposed type definitions. The
// returned error is a diag.List when the document parsed but failed
// structural checks.
type Decomposer interface {
	Decompose(ctx context.Context, doc schema.Document) (schema.Set, error)
}

// LoaderOptions configures the default loader implementation.
type LoaderOptions struct {
	// FileSystem backs fs sources. Nil restricts the loader to plain files.
	FileSystem fs.FS
}

// Adapter wires a Loader and a Decomposer behind the format adapter
// interface shared with the OpenAPI adapter.
type Adapter struct {
	loader     Loader
	decomposer Decomposer
}

// Ensure the adapter satisfies the shared interface.
var _ schema.FormatAdapter = (*Adapter)(nil)

// NewAdapter constructs the native errorset adapter.
func NewAdapter(loader Loader, decomposer Decomposer) *Adapter {
	return &Adapter{loader: loader, decomposer: decomposer}
}

// Name returns the adapter registry identifier.
func (a *Adapter) Name() string {
	return DefaultAdapterName
}

// Detect reports whether the payload looks like an errorset document in any
// accepted encoding.
func (a *Adapter) Detect(src schema.Source, raw []byte) bool {
	location := ""
	if src != nil {
		location = src.Location()
	}
	return Detect(location, raw)
}

// Load fetches the raw document.
func (a *Adapter) Load(ctx context.Context, src schema.Source) (schema.Document, error) {
	if a == nil || a.loader == nil {
		return schema.Document{}, errors.New("errorset adapter: loader is nil")
	}
	return a.loader.Load(ctx, src)
}

// Decompose parses the document into raw type definitions.
func (a *Adapter) Decompose(ctx context.Context, doc schema.Document) (schema.Set, error) {
	if a == nil || a.decomposer == nil {
		return schema.Set{}, errors.New("errorset adapter: decomposer is nil")
	}
	return a.decomposer.Decompose(ctx, doc)
}
