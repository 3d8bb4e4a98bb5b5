// Package golang emits the Go source artifacts for a resolved errorset:
// the error types themselves, their method sets, and the context-selector
// construction API, optionally split into a placement subpackage.
package golang

import (
	"context"
	"errors"
	"fmt"
	"go/format"
	"path"
	"sort"
	"strings"

	"github.com/shepmaster/my-error/pkg/gen"
	"github.com/shepmaster/my-error/pkg/model"
)

// Name is the registry identifier of the Go target.
const Name = "go"

const header = "// Code generated by myerror-gen. DO NOT EDIT."

// Option customises the target configuration.
type Option func(*Target)

// WithHeaderNote appends an extra line to the generated-code header, e.g.
// the tool invocation that produced the artifact.
func WithHeaderNote(note string) Option {
	return func(t *Target) {
		t.headerNote = strings.TrimSpace(note)
	}
}

// Target generates Go source from resolved error sets.
type Target struct {
	headerNote string
}

// Ensure Target satisfies the shared contract.
var _ gen.Target = (*Target)(nil)

// New constructs a Go target applying any provided options.
func New(options ...Option) *Target {
	t := &Target{}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(t)
	}
	return t
}

// Name returns the registry identifier.
func (t *Target) Name() string { return Name }

// ContentType describes the emitted payload.
func (t *Target) ContentType() string { return "text/x-go" }

// Generate emits one primary file per document plus one file per placement
// module. Every artifact passes through go/format before it is returned; a
// formatting failure is an internal error naming the artifact.
func (t *Target) Generate(ctx context.Context, set *model.ErrorSet, options gen.Options) ([]gen.File, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if set == nil {
		return nil, errors.New("golang: error set is required")
	}
	if strings.TrimSpace(set.Package) == "" {
		return nil, errors.New("golang: error set declares no package")
	}

	e := newEmitter(set)
	for _, container := range set.Containers {
		switch c := container.(type) {
		case *model.VariantSet:
			e.variantSet(c)
		case *model.Record:
			e.record(c)
		case *model.Wrapper:
			e.wrapper(c)
		}
	}

	base := options.BaseFor(set)
	note := t.headerNote
	if options.HeaderNote != "" {
		note = options.HeaderNote
	}

	files := make([]gen.File, 0, 1+len(e.modules))

	main, err := assemble(base+".gen.go", set.Package, note, e.main.String(), e.mainImports())
	if err != nil {
		return nil, err
	}
	files = append(files, main)

	names := make([]string, 0, len(e.modules))
	for name := range e.modules {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		buf := e.modules[name]
		file, err := assemble(path.Join(name, name+".gen.go"), name, note, buf.String(), e.moduleImports(buf.String()))
		if err != nil {
			return nil, err
		}
		files = append(files, file)
	}
	return files, nil
}

// assemble prepends the header, package clause, and import block, then runs
// the result through go/format.
func assemble(name, pkg, note, body string, imports []importSpec) (gen.File, error) {
	var out strings.Builder
	out.WriteString(header)
	out.WriteString("\n")
	if note != "" {
		out.WriteString("// ")
		out.WriteString(note)
		out.WriteString("\n")
	}
	out.WriteString("\npackage ")
	out.WriteString(pkg)
	out.WriteString("\n\n")
	writeImports(&out, imports)
	out.WriteString(body)

	formatted, err := format.Source([]byte(out.String()))
	if err != nil {
		return gen.File{}, fmt.Errorf("golang: format %s: %w", name, err)
	}
	return gen.File{Name: name, Content: formatted}, nil
}

// importSpec is one import line: an optional alias plus the path.
type importSpec struct {
	alias string
	path  string
}

func writeImports(out *strings.Builder, imports []importSpec) {
	if len(imports) == 0 {
		return
	}

	// Standard library paths group before everything else.
	var std, rest []importSpec
	for _, spec := range imports {
		if strings.Contains(strings.SplitN(spec.path, "/", 2)[0], ".") {
			rest = append(rest, spec)
		} else {
			std = append(std, spec)
		}
	}
	sortSpecs := func(specs []importSpec) {
		sort.Slice(specs, func(i, j int) bool { return specs[i].path < specs[j].path })
	}
	sortSpecs(std)
	sortSpecs(rest)

	out.WriteString("import (\n")
	writeGroup := func(specs []importSpec) {
		for _, spec := range specs {
			out.WriteString("\t")
			if spec.alias != "" && spec.alias != path.Base(spec.path) {
				out.WriteString(spec.alias)
				out.WriteString(" ")
			}
			fmt.Fprintf(out, "%q\n", spec.path)
		}
	}
	writeGroup(std)
	if len(std) > 0 && len(rest) > 0 {
		out.WriteString("\n")
	}
	writeGroup(rest)
	out.WriteString(")\n\n")
}
