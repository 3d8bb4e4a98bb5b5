package parser_test

import (
	"context"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/shepmaster/my-error/internal/errorset/parser"
	"github.com/shepmaster/my-error/pkg/diag"
	"github.com/shepmaster/my-error/pkg/schema"
)

func decompose(t *testing.T, name, raw string) schema.Set {
	t.Helper()
	doc := schema.MustNewDocument(schema.SourceFromInline(name), []byte(raw))
	set, err := parser.New().Decompose(context.Background(), doc)
	if err != nil {
		t.Fatalf("decompose %s: %v", name, err)
	}
	return set
}

func decomposeErr(t *testing.T, name, raw string) diag.List {
	t.Helper()
	doc := schema.MustNewDocument(schema.SourceFromInline(name), []byte(raw))
	_, err := parser.New().Decompose(context.Background(), doc)
	if err == nil {
		t.Fatalf("decompose %s: expected diagnostics", name)
	}
	list, ok := diag.AsList(err)
	if !ok {
		t.Fatalf("decompose %s: error is not a diagnostic list: %v", name, err)
	}
	return list
}

const yamlDoc = `version: 1
package: store
import_path: example.com/app/store
imports: ["os"]
runtime: github.com/shepmaster/my-error
errors:
  - name: Error
    kind: enum
    attrs: [visibility(public)]
    variants:
      - name: OpenFile
        doc: Could not open the data file.
        attrs: ['display("could not open {path}")']
        fields:
          - name: path
            type: string
          - name: source
            type: "*os.PathError"
      - name: Timeout
`

func TestDecompose_YAMLKeepsPositions(t *testing.T) {
	set := decompose(t, "store.errors.yaml", yamlDoc)

	if set.Package != "store" {
		t.Fatalf("package = %q", set.Package)
	}
	if set.ImportPath != "example.com/app/store" {
		t.Fatalf("import_path = %q", set.ImportPath)
	}
	if set.Runtime != "github.com/shepmaster/my-error" {
		t.Fatalf("runtime = %q", set.Runtime)
	}
	if len(set.Imports) != 1 || set.Imports[0].Text != "os" {
		t.Fatalf("imports = %v", set.Imports)
	}
	if set.Imports[0].Pos.Line != 4 {
		t.Fatalf("import position = %v", set.Imports[0].Pos)
	}

	if len(set.Types) != 1 {
		t.Fatalf("expected one type, got %d", len(set.Types))
	}
	td := set.Types[0]
	if td.Name != "Error" || td.Kind != "enum" {
		t.Fatalf("type = %s/%s", td.Name, td.Kind)
	}
	if td.Pos.Line != 7 {
		t.Fatalf("type position = %v", td.Pos)
	}
	if len(td.Attrs) != 1 || td.Attrs[0].Text != "visibility(public)" {
		t.Fatalf("type attrs = %v", td.Attrs)
	}
	if td.Attrs[0].Pos.Line != 9 {
		t.Fatalf("attr position = %v", td.Attrs[0].Pos)
	}

	if len(td.Variants) != 2 {
		t.Fatalf("expected two variants, got %d", len(td.Variants))
	}
	open := td.Variants[0]
	if open.Name != "OpenFile" || open.Pos.Line != 11 {
		t.Fatalf("variant = %s at %v", open.Name, open.Pos)
	}
	if len(open.Docs) != 1 || open.Docs[0].Text != "Could not open the data file." {
		t.Fatalf("variant docs = %v", open.Docs)
	}
	if len(open.Attrs) != 1 || open.Attrs[0].Pos.Line != 13 {
		t.Fatalf("variant attrs = %v", open.Attrs)
	}

	if len(open.Fields) != 2 {
		t.Fatalf("expected two fields, got %d", len(open.Fields))
	}
	path := open.Fields[0]
	if path.Name != "path" || path.Positional {
		t.Fatalf("field = %+v", path)
	}
	if path.Pos.Line != 15 {
		t.Fatalf("field position = %v", path.Pos)
	}
	if path.Type.Text != "string" || path.Type.Pos.Line != 16 {
		t.Fatalf("field type = %+v", path.Type)
	}
	if src := open.Fields[1]; src.Name != "source" || src.Type.Text != "*os.PathError" {
		t.Fatalf("source field = %+v", src)
	}

	timeout := td.Variants[1]
	if timeout.Name != "Timeout" || timeout.Pos.Line != 19 {
		t.Fatalf("unit variant = %s at %v", timeout.Name, timeout.Pos)
	}
	if len(timeout.Fields) != 0 {
		t.Fatalf("unit variant has fields: %v", timeout.Fields)
	}
}

func TestDecompose_DocLiteralBlock(t *testing.T) {
	raw := `package: store
errors:
  - name: Error
    kind: enum
    variants:
      - name: OpenFile
        doc: |
          Could not open the data file.

          Longer text after the blank line.
        fields:
          - name: path
            type: string
`
	set := decompose(t, "store.errors.yaml", raw)

	docs := set.Types[0].Variants[0].Docs
	var texts []string
	for _, d := range docs {
		texts = append(texts, d.Text)
	}
	want := []string{
		"Could not open the data file.",
		"",
		"Longer text after the blank line.",
	}
	if diff := cmp.Diff(want, texts); diff != "" {
		t.Fatalf("doc lines mismatch (-want +got):\n%s", diff)
	}
}

func TestDecompose_FormatParity(t *testing.T) {
	yamlRaw := `package: store
import_path: example.com/app/store
imports: ["os"]
errors:
  - name: Error
    kind: enum
    variants:
      - name: OpenFile
        doc: Could not open the data file.
        attrs: ['display("could not open {path}")']
        fields:
          - name: path
            type: string
          - name: source
            type: "*os.PathError"
      - name: Timeout
  - name: ParseError
    kind: struct
    fields:
      - name: line
        type: int
  - name: PublicError
    kind: wrapper
    wraps: Error
`
	jsonRaw := `{
  "package": "store",
  "import_path": "example.com/app/store",
  "imports": ["os"],
  "errors": [
    {
      "name": "Error",
      "kind": "enum",
      "variants": [
        {
          "name": "OpenFile",
          "doc": "Could not open the data file.",
          "attrs": ["display(\"could not open {path}\")"],
          "fields": [
            {"name": "path", "type": "string"},
            {"name": "source", "type": "*os.PathError"}
          ]
        },
        {"name": "Timeout"}
      ]
    },
    {
      "name": "ParseError",
      "kind": "struct",
      "fields": [{"name": "line", "type": "int"}]
    },
    {
      "name": "PublicError",
      "kind": "wrapper",
      "wraps": "Error"
    }
  ]
}`

	fromYAML := decompose(t, "store.errors.yaml", yamlRaw)
	fromJSON := decompose(t, "store.errors.json", jsonRaw)

	ignorePositions := cmpopts.IgnoreTypes(schema.Pos{})
	if diff := cmp.Diff(fromYAML.Types, fromJSON.Types, ignorePositions); diff != "" {
		t.Fatalf("yaml and json decompositions differ (-yaml +json):\n%s", diff)
	}
	if fromYAML.Package != fromJSON.Package || fromYAML.ImportPath != fromJSON.ImportPath {
		t.Fatal("document metadata differs between encodings")
	}
}

func TestDecompose_TOML(t *testing.T) {
	raw := `version = 1
package = "store"

[[errors]]
name = "ParseError"
kind = "struct"
attrs = ['display("bad input at {line}")']

[[errors.fields]]
name = "line"
type = "int"
`
	set := decompose(t, "store.errors.toml", raw)

	if set.Package != "store" {
		t.Fatalf("package = %q", set.Package)
	}
	if len(set.Types) != 1 {
		t.Fatalf("expected one type, got %d", len(set.Types))
	}
	td := set.Types[0]
	if td.Name != "ParseError" || td.Kind != "struct" {
		t.Fatalf("type = %s/%s", td.Name, td.Kind)
	}
	if len(td.Attrs) != 1 || td.Attrs[0].Text != `display("bad input at {line}")` {
		t.Fatalf("attrs = %v", td.Attrs)
	}
	if len(td.Fields) != 1 || td.Fields[0].Name != "line" || td.Fields[0].Type.Text != "int" {
		t.Fatalf("fields = %+v", td.Fields)
	}
	// TOML cannot report positions; everything degrades to the document.
	if td.Pos.Line != 0 || td.Pos.File != "store.errors.toml" {
		t.Fatalf("position = %v", td.Pos)
	}
}

func TestDecompose_TOMLWrapperAndPositionalFields(t *testing.T) {
	raw := `package = "store"

[[errors]]
name = "PublicError"
kind = "wrapper"
wraps = "Error"

[[errors]]
name = "Tuple"
kind = "struct"
fields = ["string"]
`
	set := decompose(t, "store.errors.toml", raw)

	if len(set.Types) != 2 {
		t.Fatalf("expected two types, got %d", len(set.Types))
	}
	if w := set.Types[0]; len(w.Wraps) != 1 || w.Wraps[0].Text != "Error" {
		t.Fatalf("wraps = %v", w.Wraps)
	}
	tuple := set.Types[1]
	if len(tuple.Fields) != 1 {
		t.Fatalf("fields = %+v", tuple.Fields)
	}
	if fd := tuple.Fields[0]; !fd.Positional || fd.Name != "" || fd.Type.Text != "string" {
		t.Fatalf("positional field = %+v", fd)
	}
}

func TestDecompose_BareStringFieldIsPositional(t *testing.T) {
	raw := `package: store
errors:
  - name: Error
    kind: enum
    variants:
      - name: Open
        fields: [string, int]
`
	set := decompose(t, "store.errors.yaml", raw)

	fields := set.Types[0].Variants[0].Fields
	if len(fields) != 2 {
		t.Fatalf("expected two fields, got %d", len(fields))
	}
	for i, fd := range fields {
		if !fd.Positional || fd.Name != "" {
			t.Fatalf("field %d = %+v, want positional", i, fd)
		}
	}
	if fields[0].Type.Text != "string" || fields[1].Type.Text != "int" {
		t.Fatalf("positional types = %v, %v", fields[0].Type, fields[1].Type)
	}
}

func TestDecompose_StructuralDiagnostics(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want []string
	}{
		{
			name: "missing package",
			raw:  "errors:\n  - name: Error\n    kind: enum\n",
			want: []string{"Document must declare a package"},
		},
		{
			name: "no error types",
			raw:  "package: store\n",
			want: []string{"Document declares no error types"},
		},
		{
			name: "entry without name",
			raw:  "package: store\nerrors:\n  - kind: enum\n",
			want: []string{"Error type must declare a name"},
		},
		{
			name: "unsupported version",
			raw:  "version: 2\npackage: store\nerrors:\n  - name: Error\n    kind: enum\n",
			want: []string{"Unsupported errorset version 2"},
		},
		{
			name: "errors not a sequence",
			raw:  "package: store\nerrors: nope\n",
			want: []string{
				"`errors` must be a sequence",
				"Document declares no error types",
			},
		},
		{
			name: "field mapping without name",
			raw:  "package: store\nerrors:\n  - name: Error\n    kind: struct\n    fields:\n      - type: string\n",
			want: []string{"Field entry must declare a name"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			list := decomposeErr(t, "store.errors.yaml", tc.raw)
			var got []string
			for _, d := range list {
				got = append(got, d.Message)
			}
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Fatalf("diagnostics mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDecompose_InvalidYAML(t *testing.T) {
	list := decomposeErr(t, "store.errors.yaml", "{ unclosed\n")
	if len(list) == 0 {
		t.Fatal("expected a diagnostic")
	}
	if got := list[0].Message; !strings.Contains(got, "not valid YAML") {
		t.Fatalf("message = %q", got)
	}
}

func TestDecompose_JSONSyntaxErrorPosition(t *testing.T) {
	raw := "{\n  \"package\": \"store\",\n  bad\n}"
	list := decomposeErr(t, "store.errors.json", raw)
	if len(list) == 0 {
		t.Fatal("expected a diagnostic")
	}
	d := list[0]
	if !strings.Contains(d.Message, "not valid JSON") {
		t.Fatalf("message = %q", d.Message)
	}
	if d.Pos.Line != 3 {
		t.Fatalf("position = %v, want line 3", d.Pos)
	}
}

func TestDecompose_VersionOnePasses(t *testing.T) {
	raw := "version: 1\npackage: store\nerrors:\n  - name: Error\n    kind: enum\n"
	set := decompose(t, "store.errors.yaml", raw)
	if len(set.Types) != 1 {
		t.Fatalf("expected one type, got %d", len(set.Types))
	}
}
