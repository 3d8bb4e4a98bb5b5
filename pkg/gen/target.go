package gen

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/shepmaster/my-error/pkg/model"
)

// Target converts a resolved ErrorSet into a set of artifact files
// (Go source, markdown, etc.).
type Target interface {
	Name() string
	ContentType() string
	Generate(ctx context.Context, set *model.ErrorSet, options Options) ([]File, error)
}

// File is one emitted artifact. Name is a path relative to the output
// directory; targets that place code in a subpackage emit names with a
// directory component.
type File struct {
	Name    string
	Content []byte
}

// Options describe per-request data that targets can use to customise
// their output without mutating the resolved model.
type Options struct {
	// BaseName overrides the artifact base name derived from the document
	// location. Needed for inline sources, which have no file name to
	// derive from.
	BaseName string
	// HeaderNote is appended to the generated-code header when set, e.g.
	// the tool invocation that produced the artifact.
	HeaderNote string
}

// BaseFor resolves the artifact base name for a set: the explicit override
// when present, else the document base name with its last extension
// stripped ("store.errors.yaml" yields "store.errors").
func (o Options) BaseFor(set *model.ErrorSet) string {
	if o.BaseName != "" {
		return o.BaseName
	}
	location := ""
	if set != nil {
		location = set.Location()
	}
	if location == "" {
		return "errorset"
	}
	base := filepath.Base(location)
	if ext := filepath.Ext(base); ext != "" && ext != base {
		base = strings.TrimSuffix(base, ext)
	}
	return base
}
