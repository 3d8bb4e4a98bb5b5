// Package docs renders a markdown catalog per errorset document: every
// container, its variants, the resolved message templates, and the
// construction API. Authored documentation passes through a strict
// sanitization policy so HTML cannot leak into the catalog.
package docs

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"

	"github.com/shepmaster/my-error/pkg/gen"
	"github.com/shepmaster/my-error/pkg/gen/template"
	"github.com/shepmaster/my-error/pkg/gen/template/pongo"
	"github.com/shepmaster/my-error/pkg/model"
)

// Name is the registry identifier of the docs target.
const Name = "docs"

const templateName = "templates/catalog.md.tpl"

// Option customises the target configuration.
type Option func(*config)

type config struct {
	templateFS fs.FS
	renderer   template.Renderer
}

// WithTemplatesFS supplies an alternate template bundle via fs.FS.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		if files != nil {
			cfg.templateFS = files
		}
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithRenderer injects a custom template renderer implementation.
func WithRenderer(renderer template.Renderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.renderer = renderer
		}
	}
}

// Target renders markdown catalogs from resolved error sets.
type Target struct {
	templates template.Renderer
}

// Ensure Target satisfies the shared contract.
var _ gen.Target = (*Target)(nil)

// New constructs a docs target applying any provided options.
func New(options ...Option) (*Target, error) {
	cfg := config{
		templateFS: TemplatesFS(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	if cfg.renderer == nil {
		engine, err := pongo.New(pongo.WithFS(cfg.templateFS), pongo.WithExtension(".tpl"))
		if err != nil {
			return nil, fmt.Errorf("docs: template engine: %w", err)
		}
		cfg.renderer = engine
	}

	return &Target{templates: cfg.renderer}, nil
}

// Name returns the registry identifier.
func (t *Target) Name() string { return Name }

// ContentType describes the emitted payload.
func (t *Target) ContentType() string { return "text/markdown" }

// Generate renders one catalog file per document.
func (t *Target) Generate(ctx context.Context, set *model.ErrorSet, options gen.Options) ([]gen.File, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if set == nil {
		return nil, errors.New("docs: error set is required")
	}

	rendered, err := t.templates.RenderTemplate(templateName, catalogView(set))
	if err != nil {
		return nil, fmt.Errorf("docs: render catalog: %w", err)
	}

	name := options.BaseFor(set) + ".md"
	return []gen.File{{Name: name, Content: []byte(rendered)}}, nil
}

// catalogView flattens the resolved model into the template context.
func catalogView(set *model.ErrorSet) map[string]any {
	containers := make([]any, 0, len(set.Containers))
	for _, container := range set.Containers {
		switch c := container.(type) {
		case *model.VariantSet:
			variants := make([]any, 0, len(c.Variants))
			for _, fc := range c.Variants {
				variants = append(variants, fieldContainerView(fc))
			}
			containers = append(containers, map[string]any{
				"name":     c.Name,
				"kind":     "enum",
				"doc":      sanitizeDoc(c.DocSummary),
				"module":   c.Module,
				"variants": variants,
			})
		case *model.Record:
			containers = append(containers, map[string]any{
				"name":     c.Name,
				"kind":     "struct",
				"doc":      sanitizeDoc(c.DocSummary),
				"module":   c.Module,
				"variants": []any{fieldContainerView(&c.FieldContainer)},
			})
		case *model.Wrapper:
			containers = append(containers, map[string]any{
				"name":        c.Name,
				"kind":        "wrapper",
				"doc":         sanitizeDoc(c.DocSummary),
				"wraps":       c.Inner.Text,
				"constructor": fmt.Sprintf("New%s(inner) *%s", c.Name, c.Name),
			})
		}
	}

	return map[string]any{
		"package":    set.Package,
		"location":   set.Location(),
		"runtime":    set.Runtime,
		"containers": containers,
	}
}

func fieldContainerView(fc *model.FieldContainer) map[string]any {
	fields := make([]any, 0, 4)
	for _, f := range fc.ContextFields() {
		fields = append(fields, fieldView(f, "context"))
	}
	if causal := fc.Causal(); causal != nil {
		fields = append(fields, fieldView(&causal.Field, "source"))
	}
	if fc.Trace != nil {
		fields = append(fields, fieldView(fc.Trace, "backtrace"))
	}

	return map[string]any{
		"name":      fc.Name,
		"type":      fc.TypeName,
		"kind_tag":  fc.KindTag,
		"doc":       sanitizeDoc(fc.DocSummary),
		"message":   messageSummary(fc),
		"selector":  fc.SelectorName,
		"operation": operationSummary(fc),
		"fields":    fields,
	}
}

func fieldView(f *model.Field, role string) map[string]any {
	return map[string]any{
		"name": f.Name,
		"type": f.Type.Text,
		"role": role,
		"doc":  sanitizeDoc(f.Doc),
	}
}

// messageSummary describes the resolved message template for the catalog.
func messageSummary(fc *model.FieldContainer) string {
	if d := fc.Display; d != nil {
		if d.IsVerbatim() {
			texts := make([]string, 0, len(d.Verbatim))
			for _, tok := range d.Verbatim {
				texts = append(texts, tok.Text)
			}
			return strings.Join(texts, ", ")
		}
		return d.Format
	}
	if w, ok := fc.Selector.(*model.WhateverSelector); ok {
		return "the `" + w.Message.Name + "` field, verbatim"
	}
	base := fc.DocSummary
	if base == "" {
		base = fc.Name
	}
	if fc.Causal() != nil {
		return base + ": <cause>"
	}
	return base
}

// operationSummary names the construction operation each selector kind
// exposes.
func operationSummary(fc *model.FieldContainer) string {
	switch k := fc.Selector.(type) {
	case *model.ContextSelector:
		if k.Causal != nil {
			return fmt.Sprintf("%s.Wrap(cause %s) error", fc.SelectorName, k.Causal.AcceptedType().Text)
		}
		return fmt.Sprintf("%s.Build() error", fc.SelectorName)
	case *model.WhateverSelector:
		if k.Causal != nil {
			return fmt.Sprintf("%s.Build() / %s.Wrap(cause %s) error", fc.SelectorName, fc.SelectorName, k.Causal.AcceptedType().Text)
		}
		return fmt.Sprintf("%s.Build() error", fc.SelectorName)
	case *model.NoContextSelector:
		return fmt.Sprintf("%s(cause %s) error", fc.Visibility.Apply("New"+fc.TypeName), k.Causal.AcceptedType().Text)
	}
	return ""
}

var (
	docPolicyOnce sync.Once
	docPolicy     *bluemonday.Policy
)

// sanitizeDoc strips authored HTML from documentation text before it lands
// in the catalog.
func sanitizeDoc(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	docPolicyOnce.Do(func() {
		docPolicy = bluemonday.StrictPolicy()
	})
	return strings.TrimSpace(docPolicy.Sanitize(trimmed))
}
