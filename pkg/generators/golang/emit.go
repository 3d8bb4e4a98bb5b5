package golang

import (
	"fmt"
	"path"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/shepmaster/my-error/pkg/model"
	"github.com/shepmaster/my-error/pkg/schema"
)

// emitter walks the resolved containers and writes declaration text into
// the main buffer and one buffer per placement module. Import blocks are
// computed afterwards from the emitted text.
type emitter struct {
	set     *model.ErrorSet
	main    strings.Builder
	modules map[string]*strings.Builder
}

func newEmitter(set *model.ErrorSet) *emitter {
	return &emitter{set: set, modules: make(map[string]*strings.Builder)}
}

// selectorBuf picks the buffer and parent qualifier for a container's
// selector output: the main buffer with no qualifier, or the module buffer
// with types qualified by the parent package.
func (e *emitter) selectorBuf(module string) (*strings.Builder, string) {
	if module == "" {
		return &e.main, ""
	}
	buf, ok := e.modules[module]
	if !ok {
		buf = &strings.Builder{}
		e.modules[module] = buf
	}
	return buf, e.set.Package + "."
}

func (e *emitter) variantSet(c *model.VariantSet) {
	iface := exportIdent(c.Name)
	marker := "is" + iface

	doc := c.DocSummary
	if doc == "" {
		doc = fmt.Sprintf("%s is the sealed set of %s errors.", iface, e.set.Package)
	}
	e.pf(&e.main, "// %s\n", doc)
	e.pf(&e.main, "type %s%s interface {\n\tmyerror.Error\n\t%s()\n}\n\n", iface, declParams(c.TypeParams), marker)

	buf, qual := e.selectorBuf(c.Module)
	for _, fc := range c.Variants {
		e.errorType(fc, c.TypeParams, marker, iface)
		e.selector(buf, fc, c.TypeParams, qual)
	}
}

func (e *emitter) record(c *model.Record) {
	e.errorType(&c.FieldContainer, c.TypeParams, "", "")

	buf, qual := e.selectorBuf(c.Module)
	e.selector(buf, &c.FieldContainer, c.TypeParams, qual)
}

func (e *emitter) wrapper(c *model.Wrapper) {
	name := exportIdent(c.Name)
	decl := declParams(c.TypeParams)
	use := useParams(c.TypeParams)

	doc := c.DocSummary
	if doc == "" {
		doc = fmt.Sprintf("%s wraps a %s value.", name, c.Inner.Text)
	}
	e.pf(&e.main, "// %s\n", doc)
	e.pf(&e.main, "type %s%s struct {\n\tInner %s\n}\n\n", name, decl, c.Inner.Text)

	if len(c.TypeParams) == 0 {
		e.pf(&e.main, "var _ myerror.Error = (*%s)(nil)\n\n", name)
	}

	e.pf(&e.main, "func (e *%s%s) Error() string {\n\treturn e.Inner.Error()\n}\n\n", name, use)
	e.pf(&e.main, "func (e *%s%s) Kind() string {\n\treturn %s\n}\n\n", name, use, strconv.Quote(c.Name))
	e.pf(&e.main, "func (e *%s%s) Unwrap() error {\n\treturn e.Inner\n}\n\n", name, use)

	accepted := c.Inner.Text
	value := "inner"
	if c.Transform != nil {
		accepted = c.Transform.Type.Text
		value = fmt.Sprintf("(%s)(inner)", c.Transform.Expr.Text)
	}
	e.pf(&e.main, "// New%s converts an inner value into a %s.\n", name, name)
	e.pf(&e.main, "func New%s%s(inner %s) *%s%s {\n\treturn &%s%s{Inner: %s}\n}\n\n",
		name, decl, accepted, name, use, name, use, value)
}

// errorType emits the struct declaration and the error method set for one
// variant or record into the main buffer.
func (e *emitter) errorType(fc *model.FieldContainer, params []schema.Token, marker, iface string) {
	decl := declParams(params)
	use := useParams(params)
	causal := fc.Causal()

	doc := fc.DocSummary
	if doc == "" {
		if iface != "" {
			doc = fmt.Sprintf("%s is the %s variant of %s.", fc.TypeName, fc.Name, iface)
		} else {
			doc = fmt.Sprintf("%s is the %s error.", fc.TypeName, fc.Name)
		}
	}
	e.pf(&e.main, "// %s\n", doc)
	e.pf(&e.main, "type %s%s struct {\n", fc.TypeName, decl)
	for _, f := range fc.ContextFields() {
		e.structField(f)
	}
	if causal != nil {
		e.structField(&causal.Field)
	}
	if fc.Trace != nil {
		e.structField(fc.Trace)
	}
	e.pf(&e.main, "}\n\n")

	if len(params) == 0 {
		if iface != "" {
			e.pf(&e.main, "var _ %s = (*%s)(nil)\n\n", iface, fc.TypeName)
		} else {
			e.pf(&e.main, "var _ myerror.Error = (*%s)(nil)\n\n", fc.TypeName)
		}
	}

	if marker != "" {
		e.pf(&e.main, "func (e *%s%s) %s() {}\n\n", fc.TypeName, use, marker)
	}

	e.pf(&e.main, "func (e *%s%s) Error() string {\n\treturn %s\n}\n\n", fc.TypeName, use, messageExpr(fc))
	e.pf(&e.main, "func (e *%s%s) Kind() string {\n\treturn %s\n}\n\n", fc.TypeName, use, strconv.Quote(fc.KindTag))

	if causal != nil {
		e.pf(&e.main, "func (e *%s%s) Unwrap() error {\n\treturn e.%s\n}\n\n", fc.TypeName, use, causal.GoName)
	}

	switch {
	case fc.Trace != nil:
		e.pf(&e.main, "func (e *%s%s) Trace() *myerror.Trace {\n\treturn e.%s\n}\n\n", fc.TypeName, use, fc.Trace.GoName)
	case causal != nil && causal.DelegatesTrace:
		e.pf(&e.main, "func (e *%s%s) Trace() *myerror.Trace {\n\treturn myerror.TraceOf(e.%s)\n}\n\n", fc.TypeName, use, causal.GoName)
	}
}

func (e *emitter) structField(f *model.Field) {
	if f.Doc != "" {
		e.pf(&e.main, "\t// %s\n", f.Doc)
	}
	e.pf(&e.main, "\t%s %s\n", f.GoName, f.Type.Text)
}

// messageExpr resolves the Error() body expression per the display rules:
// an explicit template verbatim or compiled, a whatever message field, or
// the synthesized default with the cause appended.
func messageExpr(fc *model.FieldContainer) string {
	if d := fc.Display; d != nil {
		if d.IsVerbatim() {
			texts := make([]string, 0, len(d.Verbatim))
			for _, tok := range d.Verbatim {
				texts = append(texts, tok.Text)
			}
			return fmt.Sprintf("fmt.Sprintf(%s)", strings.Join(texts, ", "))
		}
		if len(d.Args) == 0 {
			return strconv.Quote(strings.ReplaceAll(d.Format, "%%", "%"))
		}
		return fmt.Sprintf("fmt.Sprintf(%s, %s)", strconv.Quote(d.Format), strings.Join(d.Args, ", "))
	}

	if w, ok := fc.Selector.(*model.WhateverSelector); ok {
		if w.Message.Type.Text == "string" {
			return "e." + w.Message.GoName
		}
		return fmt.Sprintf("fmt.Sprint(e.%s)", w.Message.GoName)
	}

	base := fc.DocSummary
	if base == "" {
		base = fc.Name
	}
	if causal := fc.Causal(); causal != nil {
		return fmt.Sprintf("%s + e.%s.Error()", strconv.Quote(base+": "), causal.GoName)
	}
	return strconv.Quote(base)
}

// selector emits the construction API for one field container into buf,
// qualifying references to the error type with qual when the output lives
// in a placement module.
func (e *emitter) selector(buf *strings.Builder, fc *model.FieldContainer, params []schema.Token, qual string) {
	decl := declParams(params)
	use := useParams(params)
	target := qual + fc.TypeName + use

	switch k := fc.Selector.(type) {
	case *model.ContextSelector:
		e.pf(buf, "// %s carries the context fields of %s values.\n", fc.SelectorName, fc.TypeName)
		e.pf(buf, "type %s%s struct {\n", fc.SelectorName, decl)
		for _, f := range k.Users {
			if f.Doc != "" {
				e.pf(buf, "\t// %s\n", f.Doc)
			}
			e.pf(buf, "\t%s %s\n", f.GoName, f.Type.Text)
		}
		e.pf(buf, "}\n\n")

		if k.Causal == nil {
			e.pf(buf, "// Build constructs the error value from the context fields.\n")
			e.pf(buf, "func (c %s%s) Build() error {\n\treturn &%s{\n", fc.SelectorName, use, target)
			e.selectorAssignments(buf, k.Users, fc.Trace, "", "")
			e.pf(buf, "\t}\n}\n\n")
		} else {
			e.pf(buf, "// Wrap converts a prior failure into the error value, attaching the\n// context fields.\n")
			e.pf(buf, "func (c %s%s) Wrap(cause %s) error {\n\treturn &%s{\n", fc.SelectorName, use, k.Causal.AcceptedType().Text, target)
			e.selectorAssignments(buf, k.Users, fc.Trace, k.Causal.GoName, causeExpr(k.Causal))
			e.pf(buf, "\t}\n}\n\n")
		}

	case *model.WhateverSelector:
		e.pf(buf, "// %s builds %s values from a free-form message.\n", fc.SelectorName, fc.TypeName)
		e.pf(buf, "type %s%s struct {\n\t%s %s\n}\n\n", fc.SelectorName, decl, k.Message.GoName, k.Message.Type.Text)

		e.pf(buf, "// Build constructs the error value from the message.\n")
		e.pf(buf, "func (c %s%s) Build() error {\n\treturn &%s{\n", fc.SelectorName, use, target)
		e.selectorAssignments(buf, []*model.Field{k.Message}, fc.Trace, "", "")
		e.pf(buf, "\t}\n}\n\n")

		if k.Causal != nil {
			e.pf(buf, "// Wrap converts a prior failure into the error value, keeping the\n// message.\n")
			e.pf(buf, "func (c %s%s) Wrap(cause %s) error {\n\treturn &%s{\n", fc.SelectorName, use, k.Causal.AcceptedType().Text, target)
			e.selectorAssignments(buf, []*model.Field{k.Message}, fc.Trace, k.Causal.GoName, causeExpr(k.Causal))
			e.pf(buf, "\t}\n}\n\n")
		}

	case *model.NoContextSelector:
		name := fc.Visibility.Apply("New" + fc.TypeName)
		e.pf(buf, "// %s converts a prior failure into a %s.\n", name, fc.TypeName)
		e.pf(buf, "func %s%s(cause %s) error {\n\treturn &%s{\n", name, decl, k.Causal.AcceptedType().Text, target)
		e.selectorAssignments(buf, nil, fc.Trace, k.Causal.GoName, causeExpr(k.Causal))
		e.pf(buf, "\t}\n}\n\n")
	}
}

// selectorAssignments writes the composite-literal body shared by every
// construction path: the carried fields, the cause, and the trace capture.
func (e *emitter) selectorAssignments(buf *strings.Builder, fields []*model.Field, trace *model.Field, causalName, causalValue string) {
	for _, f := range fields {
		e.pf(buf, "\t\t%s: c.%s,\n", f.GoName, f.GoName)
	}
	if causalName != "" {
		e.pf(buf, "\t\t%s: %s,\n", causalName, causalValue)
	}
	if trace != nil {
		e.pf(buf, "\t\t%s: myerror.NewTrace(),\n", trace.GoName)
	}
}

// causeExpr applies the causal transformation to the incoming cause. The
// conversion expression is parenthesized so arbitrary expressions stay one
// call operand.
func causeExpr(causal *model.CausalField) string {
	if causal.Transform == nil {
		return "cause"
	}
	return fmt.Sprintf("(%s)(cause)", causal.Transform.Expr.Text)
}

func (e *emitter) pf(buf *strings.Builder, format string, args ...any) {
	fmt.Fprintf(buf, format, args...)
}

// mainImports computes the primary file's import block from the emitted
// text: fmt and the runtime when referenced, plus every document import
// whose package name appears.
func (e *emitter) mainImports() []importSpec {
	return e.imports(e.main.String())
}

// moduleImports computes a placement file's import block: the same usage
// scan plus the parent package import.
func (e *emitter) moduleImports(body string) []importSpec {
	specs := e.imports(body)
	alias := ""
	if path.Base(e.set.ImportPath) != e.set.Package {
		alias = e.set.Package
	}
	return append(specs, importSpec{alias: alias, path: e.set.ImportPath})
}

func (e *emitter) imports(body string) []importSpec {
	var specs []importSpec
	if strings.Contains(body, "fmt.") {
		specs = append(specs, importSpec{path: "fmt"})
	}
	if strings.Contains(body, model.RuntimeAlias+".") {
		specs = append(specs, importSpec{alias: model.RuntimeAlias, path: e.set.Runtime})
	}
	for _, imp := range e.set.Imports {
		p := strings.TrimSpace(imp.Text)
		if p == "" {
			continue
		}
		if strings.Contains(body, path.Base(p)+".") {
			specs = append(specs, importSpec{path: p})
		}
	}
	return specs
}

// declParams renders the declaration form of a type parameter list, e.g.
// "[T any]". Tokens carry the parameter together with its constraint.
func declParams(params []schema.Token) string {
	if len(params) == 0 {
		return ""
	}
	texts := make([]string, 0, len(params))
	for _, p := range params {
		texts = append(texts, p.Text)
	}
	return "[" + strings.Join(texts, ", ") + "]"
}

// useParams renders the usage form of a type parameter list, e.g. "[T]":
// the first identifier of each declaration token.
func useParams(params []schema.Token) string {
	if len(params) == 0 {
		return ""
	}
	names := make([]string, 0, len(params))
	for _, p := range params {
		name := strings.Fields(p.Text)
		if len(name) == 0 {
			continue
		}
		names = append(names, strings.TrimSuffix(name[0], ","))
	}
	return "[" + strings.Join(names, ", ") + "]"
}

// exportIdent upper-cases a declared type name into its Go identifier,
// splitting on separators the way the model does for field names.
func exportIdent(name string) string {
	var out strings.Builder
	for _, segment := range strings.FieldsFunc(name, func(r rune) bool {
		return r == '_' || r == '-' || r == ' '
	}) {
		r, size := utf8.DecodeRuneInString(segment)
		out.WriteRune(unicode.ToUpper(r))
		out.WriteString(segment[size:])
	}
	return out.String()
}
