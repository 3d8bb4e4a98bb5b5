package model

import (
	"github.com/shepmaster/my-error/pkg/diag"
	"github.com/shepmaster/my-error/pkg/schema"
)

// scope names where an attribute occurrence was found; it only phrases
// diagnostics and never changes how attributes parse.
type scope int

const (
	scopeEnum scope = iota
	scopeVariant
	scopeInVariant
	scopeField
	scopeStruct
	scopeInStruct
	scopeWrapper
)

func (s scope) String() string {
	switch s {
	case scopeEnum:
		return "on an enum"
	case scopeVariant:
		return "on a variant"
	case scopeInVariant:
		return "within a variant"
	case scopeField:
		return "on a field"
	case scopeStruct:
		return "on a struct error"
	case scopeInStruct:
		return "within a struct error"
	case scopeWrapper:
		return "on a wrapper error"
	}
	return "here"
}

// onlyValidOn describes an attribute that appeared in a scope it has no
// meaning for.
type onlyValidOn struct {
	attribute string
	validOn   string
}

func (o onlyValidOn) report(bag *diag.Bag, pos schema.Pos, where scope) {
	bag.Addf(pos, "`%s` attribute is only valid on %s, not %s", o.attribute, o.validOn, where)
}

// wrongField describes a field-only opt-out used on a field with another
// name.
type wrongField struct {
	attribute  string
	validField string
}

func (w wrongField) report(bag *diag.Bag, pos schema.Pos) {
	bag.Addf(pos, "`%s` attribute is only valid on a field named %q, not on other fields", w.attribute, w.validField)
}

var (
	attrDisplay        = onlyValidOn{"display", "enum variants or struct errors"}
	attrSource         = onlyValidOn{"source", "variant or struct fields with a name"}
	attrSourceBool     = onlyValidOn{"source(bool)", "variant or struct fields with a name"}
	attrSourceFrom     = onlyValidOn{"source(from)", "variant or struct fields with a name"}
	attrSourceFalse    = wrongField{"source(false)", "source"}
	attrBacktrace      = onlyValidOn{"backtrace", "variant or struct fields with a name"}
	attrBacktraceFalse = wrongField{"backtrace(false)", "backtrace"}
	attrVisibility     = onlyValidOn{"visibility", "an enum, enum variants, or a struct error"}
	attrModule         = onlyValidOn{"module", "an enum or a struct error"}
	attrContext        = onlyValidOn{"context", "enum variants or struct errors"}
	attrWhatever       = onlyValidOn{"whatever", "enum variants or struct errors"}
	attrRuntime        = onlyValidOn{"runtime", "an enum, a struct error, or a wrapper error"}
)

const sourceBoolFromIncompatible = "Incompatible attributes [`source(false)`, `source(from)`] specified on a field"
