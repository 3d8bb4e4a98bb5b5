// Package attr parses the attribute grammar attached to errorset type
// definitions, variants, and fields. Parsing produces a flat ordered list of
// typed occurrences; deciding what the occurrences mean for a given scope is
// the model builder's job.
package attr

import "github.com/shepmaster/my-error/pkg/schema"

// SuffixKind selects how a context-selector name is completed.
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

// Occurrence is one parsed attribute occurrence. The concrete types below
// are the only implementations.
type Occurrence interface {
	Pos() schema.Pos
	isOccurrence()
}

// Display carries the ordered opaque arguments of a display(...) attribute.
type Display struct {
	Args []schema.Token
	At   schema.Pos
}

// SourceFlag is source, source(true), or source(false).
type SourceFlag struct {
	Value bool
	At    schema.Pos
}

// SourceFrom is source(from(type, expr)).
type SourceFrom struct {
	Type schema.Token
	Expr schema.Token
	At   schema.Pos
}

// Backtrace is backtrace, backtrace(true), or backtrace(false).
type Backtrace struct {
	Value bool
	At    schema.Pos
}

// Context covers every context(...) form. A bare or boolean context keeps
// Suffix at SuffixNone; an absent context attribute (handled by the builder)
// is the only way to get the default suffix.
type Context struct {
	Enabled bool
	Suffix  Suffix
	At      schema.Pos
}

// Whatever marks a scope as a free-form selector.
type Whatever struct {
	At schema.Pos
}

// Visibility carries the opaque visibility argument; Arg is the zero Token
// for the bare form, which resolves to public.
type Visibility struct {
	Arg schema.Token
	At  schema.Pos
}

// Module requests namespace placement; Name is empty for the bare form,
// which derives the namespace from the container name.
type Module struct {
	Name string
	At   schema.Pos
}

// Runtime overrides the import path of the runtime support library.
type Runtime struct {
	Path schema.Token
	At   schema.Pos
}

// Doc is one plain documentation line forwarded by the loader.
type Doc struct {
	Text string
	At   schema.Pos
}

func (o Display) Pos() schema.Pos    { return o.At }
func (o SourceFlag) Pos() schema.Pos { return o.At }
func (o SourceFrom) Pos() schema.Pos { return o.At }
func (o Backtrace) Pos() schema.Pos  { return o.At }
func (o Context) Pos() schema.Pos    { return o.At }
func (o Whatever) Pos() schema.Pos   { return o.At }
func (o Visibility) Pos() schema.Pos { return o.At }
func (o Module) Pos() schema.Pos     { return o.At }
func (o Runtime) Pos() schema.Pos    { return o.At }
func (o Doc) Pos() schema.Pos        { return o.At }

func (Display) isOccurrence()    {}
func (SourceFlag) isOccurrence() {}
func (SourceFrom) isOccurrence() {}
func (Backtrace) isOccurrence()  {}
func (Context) isOccurrence()    {}
func (Whatever) isOccurrence()   {}
func (Visibility) isOccurrence() {}
func (Module) isOccurrence()     {}
func (Runtime) isOccurrence()    {}
func (Doc) isOccurrence()        {}
