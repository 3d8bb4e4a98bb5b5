package openapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/shepmaster/my-error/pkg/schema"
)

const DefaultAdapterName = "openapi"

// ExtensionKey is the top-level OpenAPI extension that carries an errorset
// document. Its value has the same shape as a native errorset file.
const ExtensionKey = "x-errorsets"

// Adapter wraps the OpenAPI loader/extractor flow behind the format
// adapter interface shared with the native errorset adapter.
type Adapter struct {
	loader    Loader
	extractor Extractor
}

// Ensure the adapter satisfies the shared interface.
var _ schema.FormatAdapter = (*Adapter)(nil)

// NewAdapter constructs an OpenAPI adapter with the supplied loader and
// extractor.
func NewAdapter(loader Loader, extractor Extractor) *Adapter {
	return &Adapter{loader: loader, extractor: extractor}
}

// Name returns the adapter registry identifier.
func (a *Adapter) Name() string {
	return DefaultAdapterName
}

// Detect reports whether the raw payload appears to be OpenAPI.
func (a *Adapter) Detect(_ schema.Source, raw []byte) bool {
	return DetectOpenAPI(raw)
}

// Load fetches the raw OpenAPI document.
func (a *Adapter) Load(ctx context.Context, src schema.Source) (schema.Document, error) {
	if a == nil || a.loader == nil {
		return schema.Document{}, errors.New("openapi adapter: loader is nil")
	}
	return a.loader.Load(ctx, src)
}

// Decompose extracts the embedded errorset and parses it into raw type
// definitions.
func (a *Adapter) Decompose(ctx context.Context, doc schema.Document) (schema.Set, error) {
	if a == nil || a.extractor == nil {
		return schema.Set{}, errors.New("openapi adapter: extractor is nil")
	}
	return a.extractor.Errorsets(ctx, doc)
}

// DetectOpenAPI reports whether the payload declares an openapi or swagger
// version, in either JSON or YAML form.
func DetectOpenAPI(raw []byte) bool {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return false
	}
	if trimmed[0] == '{' {
		var payload map[string]any
		if err := json.Unmarshal(trimmed, &payload); err == nil {
			if _, ok := payload["openapi"]; ok {
				return true
			}
			if _, ok := payload["swagger"]; ok {
				return true
			}
		}
		return false
	}
	lower := strings.ToLower(string(trimmed))
	return strings.Contains(lower, "openapi:") || strings.Contains(lower, "swagger:")
}
