package validation_test

import (
	"context"
	"regexp"
	"strings"
	"testing"

	"github.com/shepmaster/my-error/pkg/schema"
	"github.com/shepmaster/my-error/pkg/validation"
)

// A line:column suffix after the file name means a position leaked through.
var lineRef = regexp.MustCompile(`\.json:\d`)

func validate(t *testing.T, name, raw string) []string {
	t.Helper()

	v, err := validation.New()
	if err != nil {
		t.Fatalf("new validator: %v", err)
	}
	doc := schema.MustNewDocument(schema.SourceFromInline(name), []byte(raw))
	list, err := v.Validate(context.Background(), doc)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	out := make([]string, len(list))
	for i, d := range list {
		out[i] = d.String()
	}
	return out
}

func TestValidator_AcceptsConformingDocument(t *testing.T) {
	const doc = `package: store
errors:
  - name: Error
    kind: enum
    variants:
      - name: Timeout
`
	if msgs := validate(t, "store.errors.yaml", doc); len(msgs) != 0 {
		t.Fatalf("unexpected diagnostics: %v", msgs)
	}
}

func TestValidator_RejectsUnknownKind(t *testing.T) {
	const doc = `package: store
errors:
  - name: Error
    kind: flavor
`
	msgs := validate(t, "store.errors.yaml", doc)
	if len(msgs) == 0 {
		t.Fatal("expected diagnostics")
	}

	found := false
	for _, msg := range msgs {
		if strings.Contains(msg, "/errors/0/kind") {
			found = true
			// The YAML AST maps the pointer back to the offending line.
			if !strings.Contains(msg, "store.errors.yaml:4") {
				t.Errorf("diagnostic lacks the source line: %s", msg)
			}
		}
	}
	if !found {
		t.Fatalf("no diagnostic names the violating pointer: %v", msgs)
	}
}

func TestValidator_RejectsMissingPackage(t *testing.T) {
	const doc = `errors:
  - name: Error
`
	msgs := validate(t, "store.errors.yaml", doc)
	if len(msgs) == 0 {
		t.Fatal("expected diagnostics for the missing package key")
	}
}

func TestValidator_JSONDocumentsDegradeToDocumentPosition(t *testing.T) {
	const doc = `{"package": "store", "errors": [{"name": "Error", "kind": "flavor"}]}`
	msgs := validate(t, "store.errors.json", doc)
	if len(msgs) == 0 {
		t.Fatal("expected diagnostics")
	}
	for _, msg := range msgs {
		if !strings.HasPrefix(msg, "store.errors.json: ") {
			t.Errorf("diagnostic must stay attributed to the document: %s", msg)
		}
		if lineRef.MatchString(msg) {
			t.Errorf("JSON positions must degrade to the document: %s", msg)
		}
	}
}
