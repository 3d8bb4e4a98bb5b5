package model

import (
	"github.com/shepmaster/my-error/internal/attr"
	"github.com/shepmaster/my-error/pkg/diag"
	"github.com/shepmaster/my-error/pkg/schema"
)

// Options configures the builder.
type Options struct {
	// Runtime is the import path resolved when neither the document nor a
	// runtime() attribute chooses one.
	Runtime string
}

func defaultOptions() Options {
	return Options{Runtime: DefaultRuntime}
}

// Builder resolves decomposed errorset documents into the generation model.
type Builder struct {
	opts Options
}

// New creates a Builder with the supplied options.
func New(options Options) *Builder {
	opts := defaultOptions()
	if options.Runtime != "" {
		opts.Runtime = options.Runtime
	}
	return &Builder{opts: opts}
}

// Build resolves one decomposed document. Every type definition and every
// variant is processed to completion before the outcome is decided; the
// returned list carries every diagnostic found anywhere in the document.
// The model is nil whenever the list contains an error: a document with any
// error emits nothing.
func (b *Builder) Build(set schema.Set) (*ErrorSet, diag.List) {
	bag := &diag.Bag{}
	rt := newRuntimeResolution(set.Runtime, b.opts.Runtime)

	var containers []Container
	for _, td := range set.Types {
		var c Container
		switch td.Kind {
		case schema.KindEnum:
			c = b.buildEnum(td, rt, bag)
		case schema.KindStruct:
			c = b.buildStruct(td, rt, bag)
		case schema.KindWrapper:
			c = b.buildWrapper(td, rt, bag)
		default:
			bag.Add(td.Pos, "Can only generate error types for an enum, a struct, or a wrapper")
		}
		if c != nil {
			containers = append(containers, c)
		}
	}

	for _, c := range containers {
		if moduleOf(c) != "" && set.ImportPath == "" {
			bag.Add(c.Position(), "Module placement requires the document `import_path`")
		}
	}

	list := bag.List()
	if list.HasErrors() {
		return nil, list
	}

	return &ErrorSet{
		Package:    set.Package,
		ImportPath: set.ImportPath,
		Imports:    set.Imports,
		Runtime:    rt.path,
		Containers: containers,
		Source:     set.Source,
	}, list
}

func (b *Builder) buildEnum(td schema.TypeDef, rt *runtimeResolution, bag *diag.Bag) Container {
	occs, errs := attr.ParseList(td.Attrs, td.Docs)
	if len(errs) > 0 {
		bag.Merge(errs)
		return nil
	}

	modules := newLedger[attr.Module]("module", scopeEnum)
	visibilities := newLedger[attr.Visibility]("visibility", scopeEnum)
	runtimes := newLedger[attr.Runtime]("runtime", scopeEnum)
	var docs docAccumulator

	for _, occ := range occs {
		switch o := occ.(type) {
		case attr.Visibility:
			visibilities.add(o, o.At)
		case attr.Module:
			modules.add(o, o.At)
		case attr.Runtime:
			runtimes.add(o, o.At)
		case attr.Display:
			attrDisplay.report(bag, o.At, scopeEnum)
		case attr.SourceFlag:
			attrSourceBool.report(bag, o.At, scopeEnum)
		case attr.SourceFrom:
			attrSourceFrom.report(bag, o.At, scopeEnum)
		case attr.Backtrace:
			attrBacktrace.report(bag, o.At, scopeEnum)
		case attr.Context:
			attrContext.report(bag, o.At, scopeEnum)
		case attr.Whatever:
			attrWhatever.report(bag, o.At, scopeEnum)
		case attr.Doc:
			docs.line(o.Text)
		}
	}

	module := ""
	if m, _, ok := modules.finish(bag); ok {
		module = m.Name
		if module == "" {
			module = derivedModule(td.Name)
		}
	}

	// Selectors placed in another package must stay reachable from it, so
	// module placement flips the default visibility.
	defaultVis := Private
	if module != "" {
		defaultVis = Public
	}
	if v, _, ok := visibilities.finish(bag); ok {
		defaultVis = visibilityFrom(v, bag)
	}

	if r, _, ok := runtimes.finish(bag); ok {
		rt.claim(r, bag)
	}

	variants := make([]*FieldContainer, 0, len(td.Variants))
	failed := false
	for _, vd := range td.Variants {
		variant := b.buildVariant(td.Name, vd, defaultVis, bag)
		if variant == nil {
			failed = true
			continue
		}
		variants = append(variants, variant)
	}
	if failed {
		return nil
	}

	return &VariantSet{
		Name:       td.Name,
		TypeParams: td.TypeParams,
		Variants:   variants,
		Visibility: defaultVis,
		Module:     module,
		DocSummary: docs.summary.String(),
		DocRest:    docs.rest,
		Pos:        td.Pos,
	}
}

func (b *Builder) buildVariant(enumName string, vd schema.VariantDef, defaultVis Visibility, bag *diag.Bag) *FieldContainer {
	for _, fd := range vd.Fields {
		if fd.Positional {
			bag.Add(fd.Pos, "Only named-field and unit variants are supported")
			return nil
		}
	}

	occs, errs := attr.ParseList(vd.Attrs, vd.Docs)
	if len(errs) > 0 {
		bag.Merge(errs)
		return nil
	}

	return buildFieldContainer(containerScope{
		Name:       vd.Name,
		TypeName:   variantTypeName(vd.Name, enumName),
		KindTag:    enumName + "." + vd.Name,
		Pos:        vd.Pos,
		Occs:       occs,
		Fields:     vd.Fields,
		Outer:      scopeVariant,
		Inner:      scopeInVariant,
		Visibility: defaultVis,
	}, bag)
}

func (b *Builder) buildStruct(td schema.TypeDef, rt *runtimeResolution, bag *diag.Bag) Container {
	occs, errs := attr.ParseList(td.Attrs, td.Docs)
	if len(errs) > 0 {
		bag.Merge(errs)
		return nil
	}

	// runtime() resolves at the container level; the shared scope routine
	// never sees it.
	runtimes := newLedger[attr.Runtime]("runtime", scopeStruct)
	rest := make([]attr.Occurrence, 0, len(occs))
	for _, occ := range occs {
		if r, ok := occ.(attr.Runtime); ok {
			runtimes.add(r, r.At)
			continue
		}
		rest = append(rest, occ)
	}
	if r, _, ok := runtimes.finish(bag); ok {
		rt.claim(r, bag)
	}

	fc := buildFieldContainer(containerScope{
		Name:                 td.Name,
		TypeName:             exportedName(td.Name),
		KindTag:              td.Name,
		Pos:                  td.Pos,
		Occs:                 rest,
		Fields:               td.Fields,
		Outer:                scopeStruct,
		Inner:                scopeInStruct,
		Visibility:           Private,
		ModuleDefaultsPublic: true,
	}, bag)
	if fc == nil {
		return nil
	}

	return &Record{FieldContainer: *fc, TypeParams: td.TypeParams}
}

func (b *Builder) buildWrapper(td schema.TypeDef, rt *runtimeResolution, bag *diag.Bag) Container {
	occs, errs := attr.ParseList(td.Attrs, td.Docs)
	if len(errs) > 0 {
		bag.Merge(errs)
		return nil
	}

	transformations := newLedger[attr.SourceFrom]("source(from)", scopeWrapper)
	runtimes := newLedger[attr.Runtime]("runtime", scopeWrapper)
	var docs docAccumulator

	for _, occ := range occs {
		switch o := occ.(type) {
		case attr.SourceFrom:
			transformations.add(o, o.At)
		case attr.Runtime:
			runtimes.add(o, o.At)
		case attr.SourceFlag:
			attrSourceBool.report(bag, o.At, scopeWrapper)
		case attr.Display:
			attrDisplay.report(bag, o.At, scopeWrapper)
		case attr.Visibility:
			attrVisibility.report(bag, o.At, scopeWrapper)
		case attr.Module:
			attrModule.report(bag, o.At, scopeWrapper)
		case attr.Backtrace:
			attrBacktrace.report(bag, o.At, scopeWrapper)
		case attr.Context:
			attrContext.report(bag, o.At, scopeWrapper)
		case attr.Whatever:
			attrWhatever.report(bag, o.At, scopeWrapper)
		case attr.Doc:
			docs.line(o.Text)
		}
	}

	var transform *Transformation
	if t, _, ok := transformations.finish(bag); ok {
		transform = &Transformation{Type: t.Type, Expr: t.Expr}
	}

	if r, _, ok := runtimes.finish(bag); ok {
		rt.claim(r, bag)
	}

	if len(td.Wraps) != 1 {
		bag.Add(td.Pos, "Can only generate a wrapper error with exactly one wrapped type")
		return nil
	}

	return &Wrapper{
		Name:       td.Name,
		TypeParams: td.TypeParams,
		Inner:      td.Wraps[0],
		Transform:  transform,
		DocSummary: docs.summary.String(),
		DocRest:    docs.rest,
		Pos:        td.Pos,
	}
}

// runtimeResolution tracks the single runtime import path of a document.
// The document key seeds it, runtime() attributes override it, and two
// attributes naming different paths conflict.
type runtimeResolution struct {
	path     string
	explicit bool
}

func newRuntimeResolution(documentPath, fallback string) *runtimeResolution {
	if documentPath != "" {
		return &runtimeResolution{path: documentPath}
	}
	return &runtimeResolution{path: fallback}
}

func (r *runtimeResolution) claim(occ attr.Runtime, bag *diag.Bag) {
	path := occ.Path.Text
	if r.explicit && path != r.path {
		bag.Addf(occ.At, "Conflicting `runtime` attributes in one document: `%s` and `%s`", r.path, path)
		return
	}
	r.path = path
	r.explicit = true
}

func moduleOf(c Container) string {
	switch t := c.(type) {
	case *VariantSet:
		return t.Module
	case *Record:
		return t.Module
	}
	return ""
}
