// Package validation checks errorset documents against the embedded
// document meta-schema before decomposition. Violations come back as
// ordinary diagnostics; where the format provides positions, the JSON
// pointer of each violation is mapped back through the YAML AST to a line
// and column.
package validation

import (
	"context"
	_ "embed"
	"fmt"
	"strconv"
	"strings"
	"sync"

	gojson "github.com/goccy/go-json"
	"github.com/goccy/go-yaml/ast"
	yamlparser "github.com/goccy/go-yaml/parser"
	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/BurntSushi/toml"
	yaml "github.com/goccy/go-yaml"

	"github.com/shepmaster/my-error/pkg/diag"
	"github.com/shepmaster/my-error/pkg/errorset"
	"github.com/shepmaster/my-error/pkg/schema"
)

//go:embed errorset.schema.json
var schemaJSON []byte

const schemaURL = "https://shepmaster.dev/myerror/errorset.schema.json"

var (
	compileOnce sync.Once
	compiled    *jsonschema.Schema
	compileErr  error
)

// Validator validates raw errorset documents against the meta-schema.
type Validator struct {
	schema *jsonschema.Schema
}

// New compiles the embedded meta-schema. The compilation happens once per
// process; every Validator shares the compiled schema.
func New() (*Validator, error) {
	compileOnce.Do(func() {
		var doc any
		if err := gojson.Unmarshal(schemaJSON, &doc); err != nil {
			compileErr = fmt.Errorf("validation: parse embedded schema: %w", err)
			return
		}
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource(schemaURL, doc); err != nil {
			compileErr = fmt.Errorf("validation: add schema resource: %w", err)
			return
		}
		compiled, compileErr = compiler.Compile(schemaURL)
	})
	if compileErr != nil {
		return nil, compileErr
	}
	return &Validator{schema: compiled}, nil
}

// Validate decodes the document in its native encoding, normalizes it
// through a JSON round trip, and validates the result. The returned list is
// empty when the document conforms.
func (v *Validator) Validate(ctx context.Context, doc schema.Document) (diag.List, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	raw := doc.Raw()
	file := doc.Location()
	docPos := schema.Pos{File: file}

	var value any
	format := errorset.DetectFormat(file, raw)
	switch format {
	case errorset.FormatYAML:
		if err := yaml.Unmarshal(raw, &value); err != nil {
			// The decomposer reports malformed documents with richer
			// positions; schema validation stays quiet here.
			return nil, nil
		}
	case errorset.FormatJSON:
		if err := gojson.Unmarshal(raw, &value); err != nil {
			return nil, nil
		}
	case errorset.FormatTOML:
		if err := toml.Unmarshal(raw, &value); err != nil {
			return nil, nil
		}
	default:
		return nil, fmt.Errorf("validation: cannot determine the format of %s", file)
	}

	normalized, err := normalize(value)
	if err != nil {
		return nil, fmt.Errorf("validation: normalize document: %w", err)
	}

	err = v.schema.Validate(normalized)
	if err == nil {
		return nil, nil
	}
	verr, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return nil, fmt.Errorf("validation: %w", err)
	}

	var locator *yamlLocator
	if format == errorset.FormatYAML {
		locator = newYAMLLocator(raw)
	}

	var bag diag.Bag
	for _, leaf := range leaves(verr) {
		pos := docPos
		if locator != nil {
			if line, col, found := locator.locate(leaf.InstanceLocation); found {
				pos = schema.Pos{File: file, Line: line, Column: col}
			}
		}
		bag.Addf(pos, "Document does not match the errorset schema: %s", leafMessage(leaf))
	}
	return bag.List(), nil
}

// normalize runs the decoded value through a JSON round trip so every
// encoding presents the same types to the schema.
func normalize(value any) (any, error) {
	encoded, err := gojson.Marshal(value)
	if err != nil {
		return nil, err
	}
	var out any
	if err := gojson.Unmarshal(encoded, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// leaves flattens the validation error tree to its leaf causes, which carry
// the precise instance locations.
func leaves(err *jsonschema.ValidationError) []*jsonschema.ValidationError {
	if len(err.Causes) == 0 {
		return []*jsonschema.ValidationError{err}
	}
	var out []*jsonschema.ValidationError
	for _, cause := range err.Causes {
		out = append(out, leaves(cause)...)
	}
	return out
}

// leafMessage renders one violation with its JSON pointer.
func leafMessage(leaf *jsonschema.ValidationError) string {
	msg := leaf.Error()
	if i := strings.Index(msg, ": "); i > 0 && strings.HasPrefix(msg, "at ") {
		pointer := "/" + strings.Join(leaf.InstanceLocation, "/")
		if len(leaf.InstanceLocation) == 0 {
			pointer = "document root"
		} else {
			pointer = "`" + pointer + "`"
		}
		return fmt.Sprintf("%s at %s", strings.TrimSpace(msg[i+2:]), pointer)
	}
	return msg
}

// yamlLocator maps instance locations back to AST positions.
type yamlLocator struct {
	root ast.Node
}

func newYAMLLocator(raw []byte) *yamlLocator {
	parsed, err := yamlparser.ParseBytes(raw, 0)
	if err != nil || parsed == nil || len(parsed.Docs) == 0 {
		return nil
	}
	return &yamlLocator{root: parsed.Docs[0].Body}
}

// locate walks the AST along the instance location segments. Mapping keys
// resolve to the key token's position; missing paths report not found so
// the caller falls back to the document position.
func (l *yamlLocator) locate(location []string) (line, col int, found bool) {
	if l == nil || l.root == nil {
		return 0, 0, false
	}
	node := l.root
	for _, segment := range location {
		next := step(node, segment)
		if next == nil {
			return 0, 0, false
		}
		node = next
	}
	tok := node.GetToken()
	if tok == nil || tok.Position == nil {
		return 0, 0, false
	}
	return tok.Position.Line, tok.Position.Column, true
}

func step(node ast.Node, segment string) ast.Node {
	switch n := node.(type) {
	case *ast.MappingNode:
		for _, entry := range n.Values {
			if keyText(entry.Key) == segment {
				return entry.Value
			}
		}
	case *ast.MappingValueNode:
		if keyText(n.Key) == segment {
			return n.Value
		}
	case *ast.SequenceNode:
		index, err := strconv.Atoi(segment)
		if err != nil || index < 0 || index >= len(n.Values) {
			return nil
		}
		return n.Values[index]
	}
	return nil
}

func keyText(key ast.Node) string {
	if key == nil {
		return ""
	}
	if s, ok := key.(*ast.StringNode); ok {
		return s.Value
	}
	return strings.TrimSpace(key.String())
}
