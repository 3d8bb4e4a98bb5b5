package model

import (
	"github.com/shepmaster/my-error/pkg/schema"
)

// DefaultRuntime is the import path of the runtime support library generated
// artifacts depend on unless the document or a runtime() attribute overrides
// it.
const DefaultRuntime = "github.com/shepmaster/my-error"

// RuntimeAlias is the fixed local name generated files import the runtime
// library under.
const RuntimeAlias = "myerror"

// defaultSuffix is appended to selector names when no suffix policy was
// chosen.
const defaultSuffix = "Context"

// Visibility decides the identifier casing of generated selector types and
// constructors.
type Visibility int

const (
	// Private produces unexported identifiers.
	Private Visibility = iota
	// Public produces exported identifiers.
	Public
)

func (v Visibility) String() string {
	if v == Public {
		return "public"
	}
	return "private"
}

// Apply cases the leading rune of an identifier according to the visibility.
func (v Visibility) Apply(name string) string {
	if v == Public {
		return exportedName(name)
	}
	return unexportedName(name)
}

// SuffixKind selects how a selector name is completed.
type SuffixKind int

const (
	// SuffixDefault appends the fixed default suffix.
	SuffixDefault SuffixKind = iota
	// SuffixNone appends nothing.
	SuffixNone
	// SuffixCustom appends a user-chosen identifier.
	SuffixCustom
)

// Suffix is a resolved suffix policy.
type Suffix struct {
	Kind SuffixKind
	Name string
}

// Apply completes a selector base name with the resolved suffix.
func (s Suffix) Apply(base string) string {
	switch s.Kind {
	case SuffixNone:
		return base
	case SuffixCustom:
		return base + s.Name
	default:
		return base + defaultSuffix
	}
}

// Field is one declared field of an error container after classification.
type Field struct {
	Name   string       // as written in the document
	GoName string       // exported struct-field identifier
	Type   schema.Token // declared type, or the classifier's default
	Doc    string
	Pos    schema.Pos
}

// Transformation converts an incoming cause into the stored causal value.
// The generated wrap path evaluates (Expr)(cause) where cause has type Type.
type Transformation struct {
	Type schema.Token
	Expr schema.Token
}

// CausalField stores the underlying cause of a container.
type CausalField struct {
	Field
	Transform      *Transformation // nil: the cause is stored as declared
	DelegatesTrace bool            // trace lookup defers to the stored cause
}

// AcceptedType is the type the generated wrap path accepts: the
// transformation input when one exists, the declared type otherwise.
func (c *CausalField) AcceptedType() schema.Token {
	if c.Transform != nil {
		return c.Transform.Type
	}
	return c.Type
}

// DisplayTemplate is a compiled display attribute. Either Format and Args
// are populated (single string-literal form with brace placeholders compiled
// to fmt verbs) or Verbatim carries the raw argument list for pass-through
// emission.
type DisplayTemplate struct {
	Format   string
	Args     []string // receiver-qualified expressions, e.g. "e.Path"
	Verbatim []schema.Token
	Pos      schema.Pos
}

// IsVerbatim reports whether the template re-emits its arguments untouched.
func (d *DisplayTemplate) IsVerbatim() bool {
	return d != nil && len(d.Verbatim) > 0
}

// SelectorKind describes the construction surface generated for one field
// container. ContextSelector, WhateverSelector, and NoContextSelector are
// the only implementations.
type SelectorKind interface {
	isSelectorKind()
}

// ContextSelector builds the error from a context struct carrying the user
// fields: Build when no cause is involved, Wrap when one is.
type ContextSelector struct {
	Suffix Suffix
	Causal *CausalField
	Users  []*Field
}

// WhateverSelector builds the error from a free-form message, optionally
// wrapping a cause.
type WhateverSelector struct {
	Causal  *CausalField
	Message *Field
}

// NoContextSelector converts a cause directly, with no context struct.
type NoContextSelector struct {
	Causal *CausalField
}

func (*ContextSelector) isSelectorKind()   {}
func (*WhateverSelector) isSelectorKind()  {}
func (*NoContextSelector) isSelectorKind() {}

// FieldContainer is one resolved variant or record: the classified fields
// plus the construction surface derived from its attributes.
type FieldContainer struct {
	Name         string
	TypeName     string // generated struct identifier
	KindTag      string // Kind() return value
	Selector     SelectorKind
	SelectorName string // resolved selector identifier, "" for NoContext
	Trace        *Field
	Display      *DisplayTemplate
	DocSummary   string
	DocRest      []string
	Visibility   Visibility
	Module       string // accepted at variant scope, unused by generation
	Pos          schema.Pos
}

// Causal returns the causal field of whichever selector kind is resolved,
// nil when the container stores no cause.
func (c *FieldContainer) Causal() *CausalField {
	switch k := c.Selector.(type) {
	case *ContextSelector:
		return k.Causal
	case *WhateverSelector:
		return k.Causal
	case *NoContextSelector:
		return k.Causal
	}
	return nil
}

// ContextFields returns the user-visible fields stored on the generated
// struct, in declaration order.
func (c *FieldContainer) ContextFields() []*Field {
	switch k := c.Selector.(type) {
	case *ContextSelector:
		return k.Users
	case *WhateverSelector:
		if k.Message != nil {
			return []*Field{k.Message}
		}
	}
	return nil
}

// Container is one resolved error type. VariantSet, Record, and Wrapper are
// the only implementations.
type Container interface {
	TypeName() string
	Position() schema.Pos
	isContainer()
}

// VariantSet is an enum-kind error type: a sealed interface plus one struct
// per variant.
type VariantSet struct {
	Name       string
	TypeParams []schema.Token
	Variants   []*FieldContainer
	Visibility Visibility // default for variants that do not override
	Module     string
	DocSummary string
	DocRest    []string
	Pos        schema.Pos
}

// Record is a struct-kind error type: one concrete struct with the full
// method set.
type Record struct {
	FieldContainer
	TypeParams []schema.Token
}

// Wrapper is a wrapper-kind error type delegating to one inner error.
type Wrapper struct {
	Name       string
	TypeParams []schema.Token
	Inner      schema.Token
	Transform  *Transformation // applied by the conversion constructor
	DocSummary string
	DocRest    []string
	Pos        schema.Pos
}

func (v *VariantSet) TypeName() string { return v.Name }
func (r *Record) TypeName() string     { return r.Name }
func (w *Wrapper) TypeName() string    { return w.Name }

func (v *VariantSet) Position() schema.Pos { return v.Pos }
func (r *Record) Position() schema.Pos     { return r.Pos }
func (w *Wrapper) Position() schema.Pos    { return w.Pos }

func (*VariantSet) isContainer() {}
func (*Record) isContainer()     {}
func (*Wrapper) isContainer()    {}

// ErrorSet is a fully resolved document: everything the generation targets
// need, with validation already behind it.
type ErrorSet struct {
	Package    string
	ImportPath string
	Imports    []schema.Token
	Runtime    string // single resolved runtime import path for the document
	Containers []Container
	Source     schema.Source
}

// Location returns the document location the set was resolved from.
func (s *ErrorSet) Location() string {
	if s.Source == nil {
		return ""
	}
	return s.Source.Location()
}
