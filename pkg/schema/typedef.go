package schema

import (
	"fmt"
	"strings"
)

// Pos locates a fragment of an errorset document. Formats that cannot
// report positions leave Line and Column zero; diagnostics then fall back
// to the document location alone.
type Pos struct {
	File   string
	Line   int
	Column int
}

// IsZero reports whether no position information is available.
func (p Pos) IsZero() bool {
	return p.File == "" && p.Line == 0 && p.Column == 0
}

func (p Pos) String() string {
	switch {
	case p.File == "" && p.Line == 0:
		return "<unknown>"
	case p.Line == 0:
		return p.File
	case p.Column == 0:
		return fmt.Sprintf("%s:%d", p.File, p.Line)
	default:
		return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Column)
	}
}

// Token is a verbatim fragment of host-language source: a type reference, a
// conversion expression, a visibility marker, an import path. Tokens are
// never interpreted, only stored and re-emitted.
type Token struct {
	Text string
	Pos  Pos
}

// IsZero reports whether the token carries no text.
func (t Token) IsZero() bool {
	return strings.TrimSpace(t.Text) == ""
}

func (t Token) String() string {
	return t.Text
}

// AttrLine is one raw attribute string from an attrs: entry, positioned at
// its occurrence in the document. The attribute grammar parses it later.
type AttrLine struct {
	Text string
	Pos  Pos
}

// DocLine is one line of plain documentation text.
type DocLine struct {
	Text string
	Pos  Pos
}

// FieldDef describes one declared field before classification. A bare-string
// field entry yields a positional descriptor (Name empty, Positional true);
// validation rejects those per container shape.
type FieldDef struct {
	Name       string
	Type       Token // zero when the document omits type:
	Attrs      []AttrLine
	Docs       []DocLine
	Positional bool
	Pos        Pos
}

// VariantDef describes one variant of an enum-kind type definition.
type VariantDef struct {
	Name   string
	Attrs  []AttrLine
	Docs   []DocLine
	Fields []FieldDef
	Pos    Pos
}

// Type definition kinds accepted by the pipeline. TypeDef.Kind keeps the
// raw document text so diagnostics can name unrecognized kinds.
const (
	KindEnum    = "enum"
	KindStruct  = "struct"
	KindWrapper = "wrapper"
)

// TypeDef is one decomposed type definition: name, kind, type parameters,
// scope attributes, and the shape payload (variants, fields, or wrapped
// types). Exactly one shape payload is populated per kind.
type TypeDef struct {
	Name       string
	Kind       string
	TypeParams []Token
	Attrs      []AttrLine
	Docs       []DocLine
	Variants   []VariantDef
	Fields     []FieldDef
	Wraps      []Token
	Pos        Pos
}

// Set is a fully decomposed errorset document: package metadata plus every
// type definition it declares. All values are write-once; the pipeline
// never mutates a Set after decomposition.
type Set struct {
	Package    string
	ImportPath string
	Imports    []Token
	Runtime    string
	Types      []TypeDef
	Source     Source
}

// Location returns the document location the Set was decomposed from.
func (s Set) Location() string {
	if s.Source == nil {
		return ""
	}
	return s.Source.Location()
}
