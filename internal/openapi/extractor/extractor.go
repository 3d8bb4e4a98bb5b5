// Package extractor pulls errorset definitions out of the x-errorsets
// extension of OpenAPI documents. The extension value is re-encoded as
// JSON and fed through the same decomposition as a native JSON errorset,
// so positions degrade to the document.
package extractor

import (
	"context"
	"errors"
	"fmt"

	"github.com/getkin/kin-openapi/openapi3"
	gojson "github.com/goccy/go-json"

	errorsetparser "github.com/shepmaster/my-error/internal/errorset/parser"
	pkgerrorset "github.com/shepmaster/my-error/pkg/errorset"
	pkgopenapi "github.com/shepmaster/my-error/pkg/openapi"
	"github.com/shepmaster/my-error/pkg/schema"
)

// Extractor implements pkgopenapi.Extractor using kin-openapi.
type Extractor struct {
	options    pkgopenapi.ExtractorOptions
	decomposer pkgerrorset.Decomposer
}

// Ensure the implementation satisfies the public interface.
var _ pkgopenapi.Extractor = (*Extractor)(nil)

// New constructs an Extractor with the given options.
func New(options pkgopenapi.ExtractorOptions) pkgopenapi.Extractor {
	return &Extractor{
		options:    options,
		decomposer: errorsetparser.New(),
	}
}

// Errorsets loads the OpenAPI document, locates the x-errorsets extension,
// and decomposes its value. A missing extension is an error unless
// AllowMissing was set, in which case an empty set comes back.
func (e *Extractor) Errorsets(ctx context.Context, doc schema.Document) (schema.Set, error) {
	if err := ctx.Err(); err != nil {
		return schema.Set{}, err
	}
	raw := doc.Raw()
	if len(raw) == 0 {
		return schema.Set{}, errors.New("openapi extractor: document payload is empty")
	}

	loader := &openapi3.Loader{
		Context:               ctx,
		IsExternalRefsAllowed: e.options.ResolveExternalRefs,
	}

	spec, err := loader.LoadFromData(raw)
	if err != nil {
		return schema.Set{}, fmt.Errorf("openapi extractor: load %s: %w", doc.Location(), err)
	}

	if e.options.ValidateDocument {
		if err := spec.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
			return schema.Set{}, fmt.Errorf("openapi extractor: validate %s: %w", doc.Location(), err)
		}
	}

	value, ok := spec.Extensions[pkgopenapi.ExtensionKey]
	if !ok || value == nil {
		if e.options.AllowMissing {
			return schema.Set{Source: doc.Source()}, nil
		}
		return schema.Set{}, fmt.Errorf("openapi extractor: %s does not declare %s", doc.Location(), pkgopenapi.ExtensionKey)
	}

	payload, err := gojson.Marshal(value)
	if err != nil {
		return schema.Set{}, fmt.Errorf("openapi extractor: encode %s: %w", pkgopenapi.ExtensionKey, err)
	}

	src := schema.SourceFromInline(doc.Location() + "#" + pkgopenapi.ExtensionKey)
	inner, err := schema.NewDocument(src, payload)
	if err != nil {
		return schema.Set{}, err
	}

	set, err := e.decomposer.Decompose(ctx, inner)
	if err != nil {
		return schema.Set{}, err
	}
	// Attribute the set to the spec file, not the synthetic inner document.
	set.Source = doc.Source()
	return set, nil
}
