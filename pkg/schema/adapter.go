package schema

import "context"

// FormatAdapter turns source documents of one format into decomposed Sets.
// Decompose returns a diag.List as its error when the document parsed but
// failed structural checks, so callers can recover individual diagnostics
// with errors.As.
type FormatAdapter interface {
	Name() string
	Detect(src Source, raw []byte) bool
	Load(ctx context.Context, src Source) (Document, error)
	Decompose(ctx context.Context, doc Document) (Set, error)
}
