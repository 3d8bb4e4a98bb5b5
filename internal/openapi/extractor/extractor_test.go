package extractor_test

import (
	"context"
	"strings"
	"testing"

	"github.com/shepmaster/my-error/internal/openapi/extractor"
	pkgopenapi "github.com/shepmaster/my-error/pkg/openapi"
	"github.com/shepmaster/my-error/pkg/schema"
)

const specWithErrorsets = `openapi: "3.0.0"
info:
  title: Pet store
  version: "1.0"
paths: {}
x-errorsets:
  package: store
  errors:
    - name: Error
      kind: enum
      variants:
        - name: OpenResource
          attrs: ['display("could not open {path}")']
          fields:
            - name: path
              type: string
            - name: source
              type: error
`

const specWithoutErrorsets = `openapi: "3.0.0"
info:
  title: Bare
  version: "1.0"
paths: {}
`

func document(t *testing.T, name, raw string) schema.Document {
	t.Helper()
	doc, err := schema.NewDocument(schema.SourceFromInline(name), []byte(raw))
	if err != nil {
		t.Fatalf("document: %v", err)
	}
	return doc
}

func TestErrorsets_ExtractsEmbeddedSet(t *testing.T) {
	ex := extractor.New(pkgopenapi.NewExtractorOptions())
	doc := document(t, "petstore.yaml", specWithErrorsets)

	set, err := ex.Errorsets(context.Background(), doc)
	if err != nil {
		t.Fatalf("errorsets: %v", err)
	}

	if set.Package != "store" {
		t.Errorf("package = %q, want store", set.Package)
	}
	if len(set.Types) != 1 || set.Types[0].Name != "Error" {
		t.Fatalf("types = %+v, want one type named Error", set.Types)
	}
	variants := set.Types[0].Variants
	if len(variants) != 1 || variants[0].Name != "OpenResource" {
		t.Fatalf("variants = %+v", variants)
	}
	if got := set.Location(); got != "petstore.yaml" {
		t.Errorf("set attributed to %q, want the spec file", got)
	}
}

func TestErrorsets_MissingExtensionIsAnError(t *testing.T) {
	ex := extractor.New(pkgopenapi.NewExtractorOptions())
	doc := document(t, "bare.yaml", specWithoutErrorsets)

	_, err := ex.Errorsets(context.Background(), doc)
	if err == nil {
		t.Fatal("expected an error for a spec without x-errorsets")
	}
	if !strings.Contains(err.Error(), "x-errorsets") {
		t.Errorf("error should name the extension: %v", err)
	}
}

func TestErrorsets_AllowMissingReturnsEmptySet(t *testing.T) {
	ex := extractor.New(pkgopenapi.NewExtractorOptions(pkgopenapi.WithAllowMissing(true)))
	doc := document(t, "bare.yaml", specWithoutErrorsets)

	set, err := ex.Errorsets(context.Background(), doc)
	if err != nil {
		t.Fatalf("errorsets: %v", err)
	}
	if len(set.Types) != 0 {
		t.Fatalf("expected no types, got %+v", set.Types)
	}
}

func TestErrorsets_InvalidSpecFailsValidation(t *testing.T) {
	ex := extractor.New(pkgopenapi.NewExtractorOptions())
	doc := document(t, "broken.yaml", "openapi: \"3.0.0\"\npaths: {}\n")

	_, err := ex.Errorsets(context.Background(), doc)
	if err == nil {
		t.Fatal("expected a validation error for a spec without info")
	}
}
