package model

import (
	"strings"

	"github.com/shepmaster/my-error/internal/attr"
	"github.com/shepmaster/my-error/pkg/diag"
	"github.com/shepmaster/my-error/pkg/schema"
)

// Default types the classifier fills in when a causal or trace field omits
// its declaration.
const (
	defaultCausalType = "error"
	defaultTraceType  = "*" + RuntimeAlias + ".Trace"
)

// Method names every generated error type claims for itself. A field
// promoted to one of these would shadow the method and the emitted type
// would not compile.
var generatedMethods = map[string]bool{
	"Error":  true,
	"Kind":   true,
	"Unwrap": true,
	"Trace":  true,
}

// docAccumulator implements the doc summary rule: trimmed lines join with a
// single space until the first blank line; every later line is retained for
// the docs target but stays out of the summary.
type docAccumulator struct {
	summary  strings.Builder
	rest     []string
	complete bool
}

func (d *docAccumulator) line(text string) {
	trimmed := strings.TrimSpace(text)
	if d.complete {
		d.rest = append(d.rest, trimmed)
		return
	}
	if trimmed == "" {
		d.complete = true
		return
	}
	if d.summary.Len() > 0 {
		d.summary.WriteByte(' ')
	}
	d.summary.WriteString(trimmed)
}

// classified is the outcome of classifying every field of one container
// scope.
type classified struct {
	users  []*Field
	causal *CausalField
	trace  *Field
}

// classifyFields runs the two passes over a scope's fields: parse each
// field's attributes into occurrences, resolve the field's role, then
// enforce the per-scope at-most-one rules and the trace delegation
// conflict. The boolean result is false when the scope cannot produce a
// container; diagnostics for sibling fields are still collected first.
func classifyFields(fields []schema.FieldDef, inner scope, bag *diag.Bag) (classified, bool) {
	var users []*Field
	causals := newLedger[*CausalField]("source", inner)
	traces := newLedger[*Field]("backtrace", inner)
	fatal := false

	for _, fd := range fields {
		if fd.Positional {
			bag.Add(fd.Pos, "Must have a named field")
			fatal = true
			continue
		}

		occs, errs := attr.ParseList(fd.Attrs, fd.Docs)
		if len(errs) > 0 {
			bag.Merge(errs)
			fatal = true
			continue
		}

		classifyField(fd, occs, &users, causals, traces, bag)
	}

	causal, causalPos, _ := causals.finish(bag)
	trace, tracePos, hasTrace := traces.finish(bag)

	if causal != nil && causal.DelegatesTrace && hasTrace {
		const txt = "Cannot have `backtrace` field and `backtrace` attribute on a source field in the same variant"
		bag.Add(causalPos, txt)
		bag.Add(tracePos, txt)
	}

	return classified{users: users, causal: causal, trace: trace}, !fatal
}

// classifyField resolves the role of a single named field from its parsed
// occurrences.
func classifyField(fd schema.FieldDef, occs []attr.Occurrence, users *[]*Field, causals *ledger[*CausalField], traces *ledger[*Field], bag *diag.Bag) {
	// Explicit markings are collected before any role is assigned: a
	// transformation may arrive on a later occurrence than the flag that
	// conflicts with it.
	sources := newLedger[attr.Occurrence]("source", scopeField)
	backtraces := newLedger[struct{}]("backtrace", scopeField)
	sourceOptOut := false
	backtraceOptOut := false
	var docs docAccumulator

	for _, occ := range occs {
		switch o := occ.(type) {
		case attr.SourceFlag:
			if !o.Value && ledgerHasFrom(sources) {
				bag.Add(o.At, sourceBoolFromIncompatible)
			}
			switch {
			case o.Value:
				sources.add(occ, o.At)
			case fd.Name == "source":
				sourceOptOut = true
			default:
				attrSourceFalse.report(bag, o.At)
			}
		case attr.SourceFrom:
			if sourceOptOut {
				bag.Add(o.At, sourceBoolFromIncompatible)
			}
			sources.add(occ, o.At)
		case attr.Backtrace:
			switch {
			case o.Value:
				backtraces.add(struct{}{}, o.At)
			case fd.Name == "backtrace":
				backtraceOptOut = true
			default:
				attrBacktraceFalse.report(bag, o.At)
			}
		case attr.Display:
			attrDisplay.report(bag, o.At, scopeField)
		case attr.Context:
			attrContext.report(bag, o.At, scopeField)
		case attr.Whatever:
			attrWhatever.report(bag, o.At, scopeField)
		case attr.Visibility:
			attrVisibility.report(bag, o.At, scopeField)
		case attr.Module:
			attrModule.report(bag, o.At, scopeField)
		case attr.Runtime:
			attrRuntime.report(bag, o.At, scopeField)
		case attr.Doc:
			docs.line(o.Text)
		}
	}

	sourceAttr, sourcePos, hasSource := sources.finish(bag)
	_, backtracePos, hasBacktrace := backtraces.finish(bag)

	// Names imply roles unless an explicit marking or opt-out decided
	// already.
	if !hasSource && fd.Name == "source" && !sourceOptOut {
		hasSource = true
		sourcePos = fd.Pos
	}
	if !hasBacktrace && fd.Name == "backtrace" && !backtraceOptOut {
		hasBacktrace = true
		backtracePos = fd.Pos
	}

	field := Field{
		Name:   fd.Name,
		GoName: exportedName(fd.Name),
		Type:   fd.Type,
		Doc:    docs.summary.String(),
		Pos:    fd.Pos,
	}

	if generatedMethods[field.GoName] {
		bag.Addf(fd.Pos, "Field `%s` collides with the generated `%s` method", fd.Name, field.GoName)
	}

	switch {
	case hasSource:
		var transform *Transformation
		if from, ok := sourceAttr.(attr.SourceFrom); ok {
			transform = &Transformation{Type: from.Type, Expr: from.Expr}
		}
		if field.Type.IsZero() {
			field.Type = schema.Token{Text: defaultCausalType, Pos: fd.Pos}
		}
		causals.add(&CausalField{
			Field:     field,
			Transform: transform,
			// A backtrace marking on a source field requests delegation of
			// the trace to the stored cause.
			DelegatesTrace: hasBacktrace,
		}, sourcePos)
	case hasBacktrace:
		if field.Type.IsZero() {
			field.Type = schema.Token{Text: defaultTraceType, Pos: fd.Pos}
		}
		traces.add(&field, backtracePos)
	default:
		if field.Type.IsZero() {
			bag.Addf(fd.Pos, "Field `%s` must declare a type", fd.Name)
		}
		*users = append(*users, &field)
	}
}

func ledgerHasFrom(l *ledger[attr.Occurrence]) bool {
	for _, e := range l.all() {
		if _, ok := e.value.(attr.SourceFrom); ok {
			return true
		}
	}
	return false
}
