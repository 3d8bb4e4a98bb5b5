// Package loader fetches errorset documents from files and fs.FS entries.
package loader

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	pkgerrorset "github.com/shepmaster/my-error/pkg/errorset"
	"github.com/shepmaster/my-error/pkg/schema"
)

// Loader implements pkgerrorset.Loader by delegating to file or fs.FS
// strategies.
type Loader struct {
	fs fs.FS
}

// Ensure the implementation satisfies the public interface.
var _ pkgerrorset.Loader = (*Loader)(nil)

// New constructs a Loader from pre-resolved options.
func New(options pkgerrorset.LoaderOptions) pkgerrorset.Loader {
	return &Loader{fs: options.FileSystem}
}

// Load fetches a document from the provided source and wraps it in a
// Document.
func (l *Loader) Load(ctx context.Context, src schema.Source) (schema.Document, error) {
	if src == nil {
		return schema.Document{}, errors.New("errorset loader: source is nil")
	}

	var (
		data []byte
		err  error
	)

	switch src.Kind() {
	case schema.SourceKindFile:
		data, err = loadFile(ctx, src.Location())
	case schema.SourceKindFS:
		data, err = loadFromFS(ctx, l.fs, src.Location())
	case schema.SourceKindInline:
		// Inline sources name documents whose payload was supplied directly;
		// there is nothing to fetch.
		err = fmt.Errorf("errorset loader: inline source %q carries no payload", src.Location())
	default:
		err = errors.New("errorset loader: unsupported source kind")
	}
	if err != nil {
		return schema.Document{}, err
	}

	return schema.NewDocument(src, data)
}

func loadFile(ctx context.Context, path string) ([]byte, error) {
	if path == "" {
		return nil, errors.New("errorset loader: file path is required")
	}
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	return os.ReadFile(abs)
}

func loadFromFS(ctx context.Context, files fs.FS, name string) ([]byte, error) {
	if name == "" {
		return nil, errors.New("errorset loader: fs path is required")
	}
	if files == nil {
		return nil, errors.New("errorset loader: fs is nil")
	}
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	return fs.ReadFile(files, name)
}
