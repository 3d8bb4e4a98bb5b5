package model

import (
	"github.com/shepmaster/my-error/internal/attr"
	"github.com/shepmaster/my-error/pkg/diag"
	"github.com/shepmaster/my-error/pkg/schema"
)

// containerScope carries everything the shared variant/struct resolution
// needs: the declared name, the generated identifiers, the parsed
// occurrences, and the scope phrases for diagnostics.
type containerScope struct {
	Name       string
	TypeName   string
	KindTag    string
	Pos        schema.Pos
	Occs       []attr.Occurrence
	Fields     []schema.FieldDef
	Outer      scope
	Inner      scope
	Visibility Visibility // default when no visibility attribute resolves

	// ModuleDefaultsPublic flips the default visibility to Public when this
	// scope requests module placement. Enums decide this one level up;
	// struct errors decide it here.
	ModuleDefaultsPublic bool
}

// buildFieldContainer resolves one variant or struct scope to completion.
// It returns nil when the scope cannot produce a container; every
// diagnostic found on the way is still recorded.
func buildFieldContainer(in containerScope, bag *diag.Bag) *FieldContainer {
	modules := newLedger[attr.Module]("module", in.Outer)
	displays := newLedger[attr.Display]("display", in.Outer)
	visibilities := newLedger[attr.Visibility]("visibility", in.Outer)
	contexts := newLedger[attr.Context]("context", in.Outer)
	whatevers := newLedger[struct{}]("whatever", in.Outer)
	var docs docAccumulator

	for _, occ := range in.Occs {
		switch o := occ.(type) {
		case attr.Module:
			modules.add(o, o.At)
		case attr.Display:
			displays.add(o, o.At)
		case attr.Visibility:
			visibilities.add(o, o.At)
		case attr.Context:
			contexts.add(o, o.At)
		case attr.Whatever:
			whatevers.add(struct{}{}, o.At)
		case attr.SourceFlag, attr.SourceFrom:
			attrSource.report(bag, occ.Pos(), in.Outer)
		case attr.Backtrace:
			attrBacktrace.report(bag, o.At, in.Outer)
		case attr.Runtime:
			attrRuntime.report(bag, o.At, in.Outer)
		case attr.Doc:
			docs.line(o.Text)
		}
	}

	cls, fieldsOK := classifyFields(in.Fields, in.Inner, bag)

	module := ""
	if m, _, ok := modules.finish(bag); ok {
		module = m.Name
		if module == "" {
			module = derivedModule(in.Name)
		}
	}

	var display *DisplayTemplate
	if d, _, ok := displays.finish(bag); ok {
		display = compileDisplay(d, receiverFields(cls), bag)
	}

	vis := in.Visibility
	if in.ModuleDefaultsPublic && module != "" {
		vis = Public
	}
	if v, _, ok := visibilities.finish(bag); ok {
		vis = visibilityFrom(v, bag)
	}

	selector, selectorOK := resolveSelector(in, cls, contexts, whatevers, bag)
	if !fieldsOK || !selectorOK {
		return nil
	}

	return &FieldContainer{
		Name:         in.Name,
		TypeName:     in.TypeName,
		KindTag:      in.KindTag,
		Selector:     selector,
		SelectorName: selectorName(in.Name, selector, vis),
		Trace:        cls.trace,
		Display:      display,
		DocSummary:   docs.summary.String(),
		DocRest:      docs.rest,
		Visibility:   vis,
		Module:       module,
		Pos:          in.Pos,
	}
}

// resolveSelector applies the context/whatever resolution table. The boolean
// result is false on the fatal rows.
func resolveSelector(in containerScope, cls classified, contexts *ledger[attr.Context], whatevers *ledger[struct{}], bag *diag.Bag) (SelectorKind, bool) {
	ctx, ctxPos, hasContext := contexts.finish(bag)
	_, whateverPos, hasWhatever := whatevers.finish(bag)

	switch {
	case hasContext && ctx.Enabled && hasWhatever:
		const txt = "Cannot be both a `context` and `whatever` error"
		bag.Add(ctxPos, txt)
		bag.Add(whateverPos, txt)
		return nil, false

	case hasContext && ctx.Enabled:
		return &ContextSelector{Suffix: suffixFrom(ctx.Suffix), Causal: cls.causal, Users: cls.users}, true

	case !hasContext && !hasWhatever:
		return &ContextSelector{Suffix: Suffix{Kind: SuffixDefault}, Causal: cls.causal, Users: cls.users}, true

	case hasWhatever:
		messages := newLedger[*Field]("message", in.Outer)
		for _, f := range cls.users {
			if f.Name == "message" {
				messages.add(f, f.Pos)
			} else {
				bag.Add(f.Pos, "Whatever selectors must not have context fields")
			}
		}
		message, _, ok := messages.finish(bag)
		if !ok {
			bag.Add(in.Pos, "Whatever selectors must have a message field")
			return nil, false
		}
		return &WhateverSelector{Causal: cls.causal, Message: message}, true

	default: // context(false), no whatever
		for _, f := range cls.users {
			bag.Add(f.Pos, "Context selectors without context must not have context fields")
		}
		if cls.causal == nil {
			bag.Add(in.Pos, "Context selectors without context must have a source field")
			return nil, false
		}
		return &NoContextSelector{Causal: cls.causal}, true
	}
}

// receiverFields maps every declared field name to its receiver expression
// for display template compilation.
func receiverFields(cls classified) map[string]string {
	fields := make(map[string]string, len(cls.users)+2)
	for _, f := range cls.users {
		fields[f.Name] = "e." + f.GoName
	}
	if cls.causal != nil {
		fields[cls.causal.Name] = "e." + cls.causal.GoName
	}
	if cls.trace != nil {
		fields[cls.trace.Name] = "e." + cls.trace.GoName
	}
	return fields
}

// selectorName resolves the generated selector identifier: the container
// name minus one trailing Error, completed by the suffix policy, cased by
// the visibility. NoContext selectors generate a constructor instead and
// carry no name here.
func selectorName(name string, selector SelectorKind, vis Visibility) string {
	base := selectorBase(exportedName(name))
	switch k := selector.(type) {
	case *ContextSelector:
		return vis.Apply(k.Suffix.Apply(base))
	case *WhateverSelector:
		return vis.Apply(Suffix{Kind: SuffixDefault}.Apply(base))
	default:
		return ""
	}
}

// visibilityFrom interprets a visibility occurrence's argument. The bare
// form means public.
func visibilityFrom(occ attr.Visibility, bag *diag.Bag) Visibility {
	switch occ.Arg.Text {
	case "", "public":
		return Public
	case "private":
		return Private
	default:
		bag.Addf(occ.Arg.Pos, "`visibility` expects `public` or `private`, not `%s`", occ.Arg.Text)
		return Public
	}
}

func suffixFrom(s attr.Suffix) Suffix {
	switch s.Kind {
	case attr.SuffixNone:
		return Suffix{Kind: SuffixNone}
	case attr.SuffixCustom:
		return Suffix{Kind: SuffixCustom, Name: s.Name}
	default:
		return Suffix{Kind: SuffixDefault}
	}
}
