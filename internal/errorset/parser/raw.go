package parser

import (
	"bytes"
	"fmt"
	"strings"

	gojson "github.com/goccy/go-json"

	"github.com/shepmaster/my-error/pkg/diag"
	"github.com/shepmaster/my-error/pkg/schema"
)

// rawDocument mirrors the document shape for the encodings that cannot
// report positions. YAML takes the AST path instead.
type rawDocument struct {
	Version    *int      `json:"version" toml:"version"`
	Package    string    `json:"package" toml:"package"`
	ImportPath string    `json:"import_path" toml:"import_path"`
	Imports    []string  `json:"imports" toml:"imports"`
	Runtime    string    `json:"runtime" toml:"runtime"`
	Errors     []rawType `json:"errors" toml:"errors"`
}

type rawType struct {
	Name       string       `json:"name" toml:"name"`
	Kind       string       `json:"kind" toml:"kind"`
	TypeParams []string     `json:"type_params" toml:"type_params"`
	Doc        string       `json:"doc" toml:"doc"`
	Attrs      []string     `json:"attrs" toml:"attrs"`
	Variants   []rawVariant `json:"variants" toml:"variants"`
	Fields     []rawField   `json:"fields" toml:"fields"`
	Wraps      wrapList     `json:"wraps" toml:"wraps"`
}

type rawVariant struct {
	Name   string     `json:"name" toml:"name"`
	Doc    string     `json:"doc" toml:"doc"`
	Attrs  []string   `json:"attrs" toml:"attrs"`
	Fields []rawField `json:"fields" toml:"fields"`
}

// rawField accepts both the mapping form and the bare-string positional
// form, where the string is the field's type.
type rawField struct {
	Name  string
	Type  string
	Doc   string
	Attrs []string

	positional bool
}

func (f *rawField) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '"' {
		f.positional = true
		return gojson.Unmarshal(trimmed, &f.Type)
	}

	var named struct {
		Name  string   `json:"name"`
		Type  string   `json:"type"`
		Doc   string   `json:"doc"`
		Attrs []string `json:"attrs"`
	}
	if err := gojson.Unmarshal(trimmed, &named); err != nil {
		return err
	}
	f.Name, f.Type, f.Doc, f.Attrs = named.Name, named.Type, named.Doc, named.Attrs
	return nil
}

func (f *rawField) UnmarshalTOML(data any) error {
	switch v := data.(type) {
	case string:
		f.positional = true
		f.Type = v
		return nil
	case map[string]any:
		f.Name, _ = v["name"].(string)
		f.Type, _ = v["type"].(string)
		f.Doc, _ = v["doc"].(string)
		attrs, err := tomlStrings(v["attrs"], "attrs")
		if err != nil {
			return err
		}
		f.Attrs = attrs
		return nil
	default:
		return fmt.Errorf("field entry must be a string or a table, got %T", data)
	}
}

// wrapList accepts both the scalar and the list form of wraps.
type wrapList []string

func (w *wrapList) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var list []string
		if err := gojson.Unmarshal(trimmed, &list); err != nil {
			return err
		}
		*w = list
		return nil
	}
	var one string
	if err := gojson.Unmarshal(trimmed, &one); err != nil {
		return err
	}
	if one != "" {
		*w = wrapList{one}
	}
	return nil
}

func (w *wrapList) UnmarshalTOML(data any) error {
	switch v := data.(type) {
	case string:
		*w = wrapList{v}
		return nil
	case []any:
		list, err := tomlStrings(v, "wraps")
		if err != nil {
			return err
		}
		*w = list
		return nil
	default:
		return fmt.Errorf("wraps must be a string or a list of strings, got %T", data)
	}
}

func tomlStrings(value any, key string) ([]string, error) {
	if value == nil {
		return nil, nil
	}
	items, ok := value.([]any)
	if !ok {
		return nil, fmt.Errorf("%s must be a list of strings, got %T", key, value)
	}
	var out []string
	for _, item := range items {
		s, ok := item.(string)
		if !ok {
			return nil, fmt.Errorf("%s entries must be strings, got %T", key, item)
		}
		out = append(out, s)
	}
	return out, nil
}

// decompose converts the decoded document into a Set with every position
// degraded to the document location.
func (d rawDocument) decompose(src schema.Source, bag *diag.Bag) schema.Set {
	at := schema.Pos{File: src.Location()}

	if d.Version != nil && *d.Version != 1 {
		bag.Addf(at, "Unsupported errorset version %d", *d.Version)
	}

	set := schema.Set{
		Package:    d.Package,
		ImportPath: d.ImportPath,
		Runtime:    d.Runtime,
		Source:     src,
	}
	for _, imp := range d.Imports {
		set.Imports = append(set.Imports, schema.Token{Text: imp, Pos: at})
	}
	for _, t := range d.Errors {
		set.Types = append(set.Types, t.decompose(at))
	}
	return set
}

func (t rawType) decompose(at schema.Pos) schema.TypeDef {
	td := schema.TypeDef{
		Name:  t.Name,
		Kind:  t.Kind,
		Attrs: rawAttrLines(t.Attrs, at),
		Docs:  rawDocLines(t.Doc, at),
		Pos:   at,
	}
	for _, p := range t.TypeParams {
		td.TypeParams = append(td.TypeParams, schema.Token{Text: p, Pos: at})
	}
	for _, v := range t.Variants {
		td.Variants = append(td.Variants, schema.VariantDef{
			Name:   v.Name,
			Attrs:  rawAttrLines(v.Attrs, at),
			Docs:   rawDocLines(v.Doc, at),
			Fields: rawFieldDefs(v.Fields, at),
			Pos:    at,
		})
	}
	td.Fields = rawFieldDefs(t.Fields, at)
	for _, wrapped := range t.Wraps {
		td.Wraps = append(td.Wraps, schema.Token{Text: wrapped, Pos: at})
	}
	return td
}

func rawFieldDefs(fields []rawField, at schema.Pos) []schema.FieldDef {
	var out []schema.FieldDef
	for _, f := range fields {
		fd := schema.FieldDef{
			Name:       f.Name,
			Attrs:      rawAttrLines(f.Attrs, at),
			Docs:       rawDocLines(f.Doc, at),
			Positional: f.positional,
			Pos:        at,
		}
		if strings.TrimSpace(f.Type) != "" {
			fd.Type = schema.Token{Text: f.Type, Pos: at}
		}
		out = append(out, fd)
	}
	return out
}

func rawAttrLines(attrs []string, at schema.Pos) []schema.AttrLine {
	var out []schema.AttrLine
	for _, a := range attrs {
		out = append(out, schema.AttrLine{Text: a, Pos: at})
	}
	return out
}

func rawDocLines(text string, at schema.Pos) []schema.DocLine {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	var out []schema.DocLine
	for _, line := range strings.Split(strings.TrimRight(text, "\n"), "\n") {
		out = append(out, schema.DocLine{Text: line, Pos: at})
	}
	return out
}
