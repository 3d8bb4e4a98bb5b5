// Package testsupport holds the fixture and golden-file helpers shared by
// the package tests. Helpers fail the test on error to keep contract tests
// concise.
package testsupport

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/shepmaster/my-error/internal/errorset/parser"
	pkgmodel "github.com/shepmaster/my-error/pkg/model"
	"github.com/shepmaster/my-error/pkg/schema"
)

// UpdateEnv names the environment variable that switches golden-file tests
// from comparing to rewriting.
const UpdateEnv = "MYERROR_UPDATE_GOLDEN"

// LoadDocument reads a fixture from disk and wraps it with a file source.
func LoadDocument(t *testing.T, path string) schema.Document {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}
	doc, err := schema.NewDocument(schema.SourceFromFile(path), data)
	if err != nil {
		t.Fatalf("new document: %v", err)
	}
	return doc
}

// InlineDocument wraps raw document text with an inline source named after
// the test.
func InlineDocument(t *testing.T, name string, raw string) schema.Document {
	t.Helper()

	doc, err := schema.NewDocument(schema.SourceFromInline(name), []byte(raw))
	if err != nil {
		t.Fatalf("new document: %v", err)
	}
	return doc
}

// Decompose parses a document into raw type definitions, failing the test
// on any diagnostic.
func Decompose(t *testing.T, doc schema.Document) schema.Set {
	t.Helper()

	set, err := parser.New().Decompose(context.Background(), doc)
	if err != nil {
		t.Fatalf("decompose document: %v", err)
	}
	return set
}

// BuildSet decomposes and resolves a document into the generation model,
// failing the test on any diagnostic.
func BuildSet(t *testing.T, doc schema.Document) *pkgmodel.ErrorSet {
	t.Helper()

	set := Decompose(t, doc)
	resolved, diags := pkgmodel.NewBuilder().Build(set)
	if resolved == nil {
		t.Fatalf("build model: %v", error(diags))
	}
	return resolved
}

// Diff returns a human-readable diff of two values.
func Diff(want, got any) string {
	return cmp.Diff(want, got)
}

// Golden compares got against the golden file at path, rewriting the golden
// instead when the update environment variable is set.
func Golden(t *testing.T, path string, got []byte) {
	t.Helper()

	if os.Getenv(UpdateEnv) != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir golden dir: %v", err)
		}
		if err := os.WriteFile(path, got, 0o644); err != nil {
			t.Fatalf("write golden: %v", err)
		}
		return
	}

	want, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden (run with %s=1 to create): %v", UpdateEnv, err)
	}
	if diff := cmp.Diff(string(want), string(got)); diff != "" {
		t.Fatalf("golden mismatch for %s (-want +got):\n%s", path, diff)
	}
}
