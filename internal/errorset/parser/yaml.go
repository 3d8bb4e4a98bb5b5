package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/goccy/go-yaml/ast"
	"github.com/goccy/go-yaml/parser"

	"github.com/shepmaster/my-error/pkg/diag"
	"github.com/shepmaster/my-error/pkg/schema"
)

func decomposeYAML(src schema.Source, raw []byte, bag *diag.Bag) (schema.Set, bool) {
	file := src.Location()

	parsed, err := parser.ParseBytes(raw, 0)
	if err != nil {
		pos, msg := yamlParseDiag(file, err)
		bag.Addf(pos, "Document is not valid YAML: %s", msg)
		return schema.Set{}, false
	}
	if parsed == nil || len(parsed.Docs) == 0 || parsed.Docs[0].Body == nil {
		bag.Add(schema.Pos{File: file}, "Document is empty")
		return schema.Set{}, false
	}

	w := &yamlWalker{file: file, bag: bag}
	set := w.document(parsed.Docs[0].Body)
	set.Source = src
	return set, true
}

// yamlParseDiag extracts the "[line:column] message" prefix goccy puts on
// syntax errors, leaving the first message line for the diagnostic text.
func yamlParseDiag(file string, err error) (schema.Pos, string) {
	msg := err.Error()
	if i := strings.IndexByte(msg, '\n'); i > 0 {
		msg = msg[:i]
	}
	if strings.HasPrefix(msg, "[") {
		if end := strings.IndexByte(msg, ']'); end > 0 {
			loc := msg[1:end]
			if c := strings.IndexByte(loc, ':'); c > 0 {
				line, lineErr := strconv.Atoi(loc[:c])
				col, colErr := strconv.Atoi(loc[c+1:])
				if lineErr == nil && colErr == nil {
					return schema.Pos{File: file, Line: line, Column: col}, strings.TrimSpace(msg[end+1:])
				}
			}
		}
	}
	return schema.Pos{File: file}, msg
}

// yamlWalker builds the decomposed document from the goccy AST, recording a
// position for every piece it extracts.
type yamlWalker struct {
	file string
	bag  *diag.Bag
}

func (w *yamlWalker) document(body ast.Node) schema.Set {
	var set schema.Set

	pairs, ok := w.pairs(body)
	if !ok {
		w.bag.Add(w.pos(body), "Document must be a mapping")
		return set
	}

	for _, pair := range pairs {
		value := pair.Value
		switch w.keyText(pair) {
		case "version":
			if text, ok := w.scalar(value); ok && text != "1" {
				w.bag.Addf(w.pos(value), "Unsupported errorset version %s", text)
			}
		case "package":
			set.Package = w.scalarOr(value, "package")
		case "import_path":
			set.ImportPath = w.scalarOr(value, "import_path")
		case "runtime":
			set.Runtime = w.scalarOr(value, "runtime")
		case "imports":
			set.Imports = w.tokens(value, "imports")
		case "errors":
			items, ok := w.items(value)
			if !ok {
				w.bag.Add(w.pos(value), "`errors` must be a sequence")
				continue
			}
			for _, item := range items {
				if td, ok := w.typeDef(item); ok {
					set.Types = append(set.Types, td)
				}
			}
		}
	}
	return set
}

func (w *yamlWalker) typeDef(node ast.Node) (schema.TypeDef, bool) {
	pairs, ok := w.pairs(node)
	if !ok {
		w.bag.Add(w.pos(node), "Error type entries must be mappings")
		return schema.TypeDef{}, false
	}

	td := schema.TypeDef{Pos: w.pos(node)}
	for _, pair := range pairs {
		value := pair.Value
		switch w.keyText(pair) {
		case "name":
			td.Name = w.scalarOr(value, "name")
			if p := w.pos(value); !p.IsZero() {
				td.Pos = p
			}
		case "kind":
			td.Kind = w.scalarOr(value, "kind")
		case "type_params":
			td.TypeParams = w.tokens(value, "type_params")
		case "doc":
			td.Docs = append(td.Docs, w.docLines(value)...)
		case "attrs":
			td.Attrs = append(td.Attrs, w.attrLines(value)...)
		case "variants":
			items, ok := w.items(value)
			if !ok {
				w.bag.Add(w.pos(value), "`variants` must be a sequence")
				continue
			}
			for _, item := range items {
				if vd, ok := w.variantDef(item); ok {
					td.Variants = append(td.Variants, vd)
				}
			}
		case "fields":
			td.Fields = w.fieldDefs(value)
		case "wraps":
			td.Wraps = w.tokens(value, "wraps")
		}
	}
	return td, true
}

func (w *yamlWalker) variantDef(node ast.Node) (schema.VariantDef, bool) {
	pairs, ok := w.pairs(node)
	if !ok {
		w.bag.Add(w.pos(node), "Variant entries must be mappings")
		return schema.VariantDef{}, false
	}

	vd := schema.VariantDef{Pos: w.pos(node)}
	for _, pair := range pairs {
		value := pair.Value
		switch w.keyText(pair) {
		case "name":
			vd.Name = w.scalarOr(value, "name")
			if p := w.pos(value); !p.IsZero() {
				vd.Pos = p
			}
		case "doc":
			vd.Docs = append(vd.Docs, w.docLines(value)...)
		case "attrs":
			vd.Attrs = append(vd.Attrs, w.attrLines(value)...)
		case "fields":
			vd.Fields = w.fieldDefs(value)
		}
	}
	return vd, true
}

func (w *yamlWalker) fieldDefs(node ast.Node) []schema.FieldDef {
	items, ok := w.items(node)
	if !ok {
		w.bag.Add(w.pos(node), "`fields` must be a sequence")
		return nil
	}

	var out []schema.FieldDef
	for _, item := range items {
		// A bare scalar is a positional field carrying only its type.
		if text, ok := w.scalar(item); ok {
			fd := schema.FieldDef{Positional: true, Pos: w.pos(item)}
			if strings.TrimSpace(text) != "" {
				fd.Type = schema.Token{Text: text, Pos: w.pos(item)}
			}
			out = append(out, fd)
			continue
		}

		pairs, ok := w.pairs(item)
		if !ok {
			w.bag.Add(w.pos(item), "Field entries must be mappings or strings")
			continue
		}
		fd := schema.FieldDef{Pos: w.pos(item)}
		for _, pair := range pairs {
			value := pair.Value
			switch w.keyText(pair) {
			case "name":
				fd.Name = w.scalarOr(value, "name")
				if p := w.pos(value); !p.IsZero() {
					fd.Pos = p
				}
			case "type":
				if text, ok := w.scalar(value); ok && strings.TrimSpace(text) != "" {
					fd.Type = schema.Token{Text: text, Pos: w.pos(value)}
				}
			case "doc":
				fd.Docs = append(fd.Docs, w.docLines(value)...)
			case "attrs":
				fd.Attrs = append(fd.Attrs, w.attrLines(value)...)
			}
		}
		out = append(out, fd)
	}
	return out
}

// attrLines accepts a single scalar or a sequence of scalars; the attribute
// grammar itself splits comma-separated attributes within one line.
func (w *yamlWalker) attrLines(node ast.Node) []schema.AttrLine {
	if text, ok := w.scalar(node); ok {
		return []schema.AttrLine{{Text: text, Pos: w.pos(node)}}
	}
	items, ok := w.items(node)
	if !ok {
		w.bag.Add(w.pos(node), "`attrs` must be a sequence")
		return nil
	}
	var out []schema.AttrLine
	for _, item := range items {
		text, ok := w.scalar(item)
		if !ok {
			w.bag.Add(w.pos(item), "`attrs` entries must be strings")
			continue
		}
		out = append(out, schema.AttrLine{Text: text, Pos: w.pos(item)})
	}
	return out
}

// docLines splits a doc scalar into per-line entries. Literal blocks keep
// one position per content line; plain scalars collapse to the value's
// position.
func (w *yamlWalker) docLines(node ast.Node) []schema.DocLine {
	text, ok := w.scalar(node)
	if !ok {
		w.bag.Add(w.pos(node), "`doc` must be a scalar")
		return nil
	}
	if strings.TrimSpace(text) == "" {
		return nil
	}

	base := w.pos(node)
	perLine := false
	if lit, isLit := node.(*ast.LiteralNode); isLit && lit.Value != nil {
		base = w.pos(lit.Value)
		perLine = true
	}

	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
	out := make([]schema.DocLine, len(lines))
	for i, line := range lines {
		pos := base
		if perLine {
			pos.Line = base.Line + i
		}
		out[i] = schema.DocLine{Text: line, Pos: pos}
	}
	return out
}

// tokens accepts a single scalar or a sequence of scalars, yielding opaque
// tokens positioned at each entry.
func (w *yamlWalker) tokens(node ast.Node, key string) []schema.Token {
	if text, ok := w.scalar(node); ok {
		if strings.TrimSpace(text) == "" {
			return nil
		}
		return []schema.Token{{Text: text, Pos: w.pos(node)}}
	}
	items, ok := w.items(node)
	if !ok {
		w.bag.Addf(w.pos(node), "`%s` must be a sequence", key)
		return nil
	}
	var out []schema.Token
	for _, item := range items {
		text, ok := w.scalar(item)
		if !ok {
			w.bag.Addf(w.pos(item), "`%s` entries must be scalars", key)
			continue
		}
		out = append(out, schema.Token{Text: text, Pos: w.pos(item)})
	}
	return out
}

func (w *yamlWalker) scalarOr(node ast.Node, key string) string {
	text, ok := w.scalar(node)
	if !ok {
		w.bag.Addf(w.pos(node), "`%s` must be a scalar", key)
		return ""
	}
	return text
}

func (w *yamlWalker) keyText(pair *ast.MappingValueNode) string {
	if pair == nil || pair.Key == nil {
		return ""
	}
	text, _ := w.scalar(pair.Key)
	return text
}

// pairs flattens a mapping node. Single-pair mappings parse to a bare
// MappingValueNode, so both shapes are handled.
func (w *yamlWalker) pairs(node ast.Node) ([]*ast.MappingValueNode, bool) {
	switch n := node.(type) {
	case *ast.MappingNode:
		return n.Values, true
	case *ast.MappingValueNode:
		return []*ast.MappingValueNode{n}, true
	case *ast.AnchorNode:
		return w.pairs(n.Value)
	case *ast.NullNode:
		return nil, true
	default:
		return nil, false
	}
}

func (w *yamlWalker) items(node ast.Node) ([]ast.Node, bool) {
	switch n := node.(type) {
	case *ast.SequenceNode:
		return n.Values, true
	case *ast.AnchorNode:
		return w.items(n.Value)
	case *ast.NullNode:
		return nil, true
	default:
		return nil, false
	}
}

func (w *yamlWalker) scalar(node ast.Node) (string, bool) {
	switch n := node.(type) {
	case *ast.StringNode:
		return n.Value, true
	case *ast.LiteralNode:
		if n.Value != nil {
			return n.Value.Value, true
		}
		return "", true
	case *ast.IntegerNode:
		return fmt.Sprintf("%v", n.Value), true
	case *ast.FloatNode:
		return fmt.Sprintf("%v", n.Value), true
	case *ast.BoolNode:
		return fmt.Sprintf("%t", n.Value), true
	case *ast.AnchorNode:
		return w.scalar(n.Value)
	default:
		return "", false
	}
}

func (w *yamlWalker) pos(node ast.Node) schema.Pos {
	if node == nil {
		return schema.Pos{File: w.file}
	}
	tok := node.GetToken()
	if tok == nil || tok.Position == nil {
		return schema.Pos{File: w.file}
	}
	return schema.Pos{File: w.file, Line: tok.Position.Line, Column: tok.Position.Column}
}
