package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"github.com/sourcegraph/conc/pool"

	errorsetloader "github.com/shepmaster/my-error/internal/errorset/loader"
	errorsetparser "github.com/shepmaster/my-error/internal/errorset/parser"
	openapiextractor "github.com/shepmaster/my-error/internal/openapi/extractor"
	openapiloader "github.com/shepmaster/my-error/internal/openapi/loader"
	"github.com/shepmaster/my-error/pkg/diag"
	pkgerrorset "github.com/shepmaster/my-error/pkg/errorset"
	"github.com/shepmaster/my-error/pkg/gen"
	"github.com/shepmaster/my-error/pkg/generators/docs"
	"github.com/shepmaster/my-error/pkg/generators/golang"
	"github.com/shepmaster/my-error/pkg/model"
	pkgopenapi "github.com/shepmaster/my-error/pkg/openapi"
	"github.com/shepmaster/my-error/pkg/schema"
	"github.com/shepmaster/my-error/pkg/validation"
)

const defaultTargetName = golang.Name

// Option customises the orchestrator configuration.
type Option func(*Orchestrator)

// WithLoader injects a custom document loader shared by the default
// adapters.
func WithLoader(loader pkgerrorset.Loader) Option {
	return func(o *Orchestrator) {
		o.loader = loader
	}
}

// WithModelBuilder injects a custom model builder.
func WithModelBuilder(builder model.Builder) Option {
	return func(o *Orchestrator) {
		o.builder = builder
	}
}

// WithAdapters injects a format adapter registry, replacing the default
// errorset and openapi adapters.
func WithAdapters(registry *AdapterRegistry) Option {
	return func(o *Orchestrator) {
		o.adapters = registry
	}
}

// WithTargets injects a generation target registry.
func WithTargets(registry *gen.Registry) Option {
	return func(o *Orchestrator) {
		o.targets = registry
	}
}

// WithValidation toggles JSON-schema validation of native errorset
// documents. Enabled by default.
func WithValidation(enabled bool) Option {
	return func(o *Orchestrator) {
		o.validate = enabled
	}
}

// WithJobs bounds how many documents are processed concurrently. Values
// below one fall back to the number of CPUs.
func WithJobs(jobs int) Option {
	return func(o *Orchestrator) {
		o.jobs = jobs
	}
}

// WithConsoleOutput directs per-file progress notes to w. Discarded by
// default.
func WithConsoleOutput(w io.Writer) Option {
	return func(o *Orchestrator) {
		o.sink = w
	}
}

// Orchestrator coordinates the full pipeline from errorset document to
// generated artifacts. It applies sensible defaults (native and OpenAPI
// adapters, go and docs targets) while remaining open to dependency
// injection for advanced callers.
type Orchestrator struct {
	loader   pkgerrorset.Loader
	builder  model.Builder
	adapters *AdapterRegistry
	targets  *gen.Registry
	validate bool
	jobs     int
	sink     io.Writer

	validator     *validation.Validator
	initialiseErr error
}

// New constructs an Orchestrator applying any provided options. Missing
// dependencies are initialised with the built-in implementations so
// callers can start with a single constructor call.
func New(options ...Option) (*Orchestrator, error) {
	o := &Orchestrator{
		validate: true,
		sink:     io.Discard,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(o)
	}
	o.applyDefaults()
	if o.initialiseErr != nil {
		return nil, o.initialiseErr
	}
	return o, nil
}

func (o *Orchestrator) applyDefaults() {
	if o.loader == nil {
		o.loader = errorsetloader.New(pkgerrorset.LoaderOptions{})
	}
	if o.builder == nil {
		o.builder = model.NewBuilder()
	}
	if o.adapters == nil {
		o.adapters = NewAdapterRegistry()
		o.adapters.MustRegister(pkgerrorset.NewAdapter(o.loader, errorsetparser.New()))
		o.adapters.MustRegister(pkgopenapi.NewAdapter(
			openapiloader.New(pkgopenapi.NewLoaderOptions()),
			openapiextractor.New(pkgopenapi.NewExtractorOptions()),
		))
	}
	if o.targets == nil {
		o.targets = gen.NewRegistry()
		o.targets.MustRegister(golang.New())
		docsTarget, err := docs.New()
		if err != nil {
			o.initialiseErr = fmt.Errorf("orchestrator: docs target: %w", err)
			return
		}
		o.targets.MustRegister(docsTarget)
	}
	if o.validate && o.validator == nil {
		validator, err := validation.New()
		if err != nil {
			o.initialiseErr = fmt.Errorf("orchestrator: document validator: %w", err)
			return
		}
		o.validator = validator
	}
	if o.jobs < 1 {
		o.jobs = runtime.NumCPU()
	}
	if o.sink == nil {
		o.sink = io.Discard
	}
}

// Request describes one generation run over a set of input documents.
type Request struct {
	// Inputs are the documents to process: file paths, or http(s) URLs for
	// OpenAPI sources.
	Inputs []string

	// Targets names the generation targets to run. Empty means the go
	// target.
	Targets []string

	// OutDir is the directory artifact paths are resolved against. Empty
	// means the current directory.
	OutDir string

	// DryRun computes artifacts without writing them to disk.
	DryRun bool
}

// WrittenFile is one artifact produced by a run.
type WrittenFile struct {
	// Path is the resolved output path, OutDir included.
	Path string
	// Target names the generation target that produced the artifact.
	Target string
	// Content is the artifact payload. Kept even for non-dry runs so
	// callers can post-process without re-reading.
	Content []byte
}

// Result aggregates the outcome of a run across every input document.
type Result struct {
	// Files lists the artifacts produced, in input order then target
	// order. Empty for check runs.
	Files []WrittenFile
	// Diagnostics merges every document's diagnostics, ordered by
	// position.
	Diagnostics diag.List
}

// Ok reports whether the run produced no error-severity diagnostics.
func (r Result) Ok() bool {
	return !r.Diagnostics.HasErrors()
}

// Generate executes the load, validate, decompose, build, and generate
// sequence for every input and writes the resulting artifacts under
// req.OutDir. Documents fan out across a bounded worker pool; diagnostics
// never abort sibling documents.
func (o *Orchestrator) Generate(ctx context.Context, req Request) (Result, error) {
	return o.run(ctx, req, true)
}

// Check runs the same pipeline as Generate but stops after model
// resolution, reporting diagnostics without touching the filesystem.
func (o *Orchestrator) Check(ctx context.Context, req Request) (Result, error) {
	return o.run(ctx, req, false)
}

type documentResult struct {
	files []WrittenFile
	diags diag.List
}

func (o *Orchestrator) run(ctx context.Context, req Request, render bool) (Result, error) {
	if ctx == nil {
		return Result{}, errors.New("orchestrator: context is required")
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	if len(req.Inputs) == 0 {
		return Result{}, errors.New("orchestrator: at least one input is required")
	}

	var targets []gen.Target
	if render {
		names := req.Targets
		if len(names) == 0 {
			names = []string{defaultTargetName}
		}
		for _, name := range names {
			target, err := o.targets.Get(name)
			if err != nil {
				return Result{}, err
			}
			targets = append(targets, target)
		}
	}

	workers := pool.NewWithResults[documentResult]().WithMaxGoroutines(o.jobs)
	for _, input := range req.Inputs {
		input := input
		workers.Go(func() documentResult {
			return o.processDocument(ctx, input, targets, req)
		})
	}
	results := workers.Wait()

	var merged Result
	var bag diag.Bag
	for _, res := range results {
		merged.Files = append(merged.Files, res.files...)
		bag.Merge(res.diags)
	}
	bag.Sort()
	merged.Diagnostics = bag.List()

	sort.SliceStable(merged.Files, func(i, j int) bool {
		return merged.Files[i].Path < merged.Files[j].Path
	})

	return merged, nil
}

// processDocument runs the pipeline for one input. Failures surface as
// diagnostics so one bad document never hides results from its siblings.
func (o *Orchestrator) processDocument(ctx context.Context, input string, targets []gen.Target, req Request) documentResult {
	var bag diag.Bag
	fail := func() documentResult {
		return documentResult{diags: bag.List()}
	}

	if err := ctx.Err(); err != nil {
		bag.Absorb(err)
		return fail()
	}

	src := sourceFor(input)
	doc, err := o.loadDocument(ctx, src)
	if err != nil {
		bag.Addf(schema.Pos{File: input}, "load document: %v", err)
		return fail()
	}

	adapter, err := o.adapterFor(src, doc.Raw())
	if err != nil {
		bag.Addf(schema.Pos{File: input}, "%v", err)
		return fail()
	}

	if o.validator != nil && adapter.Name() == pkgerrorset.DefaultAdapterName {
		diags, err := o.validator.Validate(ctx, doc)
		bag.Absorb(err)
		bag.Merge(diags)
		if bag.HasErrors() {
			return fail()
		}
	}

	set, err := adapter.Decompose(ctx, doc)
	if err != nil {
		bag.Absorb(err)
		return fail()
	}

	resolved, diags := o.builder.Build(set)
	bag.Merge(diags)
	if resolved == nil || bag.HasErrors() {
		return fail()
	}

	result := documentResult{}
	for _, target := range targets {
		files, err := target.Generate(ctx, resolved, gen.Options{})
		if err != nil {
			bag.Absorb(err)
			continue
		}
		for _, file := range files {
			path := file.Name
			if req.OutDir != "" {
				path = filepath.Join(req.OutDir, file.Name)
			}
			if !req.DryRun {
				if err := writeFile(path, file.Content); err != nil {
					bag.Addf(schema.Pos{File: input}, "write %s: %v", path, err)
					continue
				}
				fmt.Fprintf(o.sink, "wrote %s\n", path)
			}
			result.files = append(result.files, WrittenFile{
				Path:    path,
				Target:  target.Name(),
				Content: file.Content,
			})
		}
	}

	result.diags = bag.List()
	return result
}

// loadDocument fetches the raw payload. URLs go through the OpenAPI
// loader since the native loader is offline-only.
func (o *Orchestrator) loadDocument(ctx context.Context, src schema.Source) (schema.Document, error) {
	if src.Kind() == schema.SourceKindURL {
		adapter, err := o.adapters.Get(pkgopenapi.DefaultAdapterName)
		if err != nil {
			return schema.Document{}, fmt.Errorf("url sources need the openapi adapter: %w", err)
		}
		return adapter.Load(ctx, src)
	}
	return o.loader.Load(ctx, src)
}

func (o *Orchestrator) adapterFor(src schema.Source, raw []byte) (schema.FormatAdapter, error) {
	matches := o.adapters.Detect(src, raw)
	switch len(matches) {
	case 0:
		// Fall back to the native adapter so its decomposer can produce a
		// positioned parse error.
		return o.adapters.Get(pkgerrorset.DefaultAdapterName)
	case 1:
		return matches[0], nil
	default:
		names := make([]string, 0, len(matches))
		for _, m := range matches {
			names = append(names, m.Name())
		}
		return nil, fmt.Errorf("multiple adapters matched payload (%s)", strings.Join(names, ", "))
	}
}

func sourceFor(input string) schema.Source {
	if strings.HasPrefix(input, "http://") || strings.HasPrefix(input, "https://") {
		return schema.SourceFromURL(input)
	}
	return schema.SourceFromFile(input)
}

func writeFile(path string, content []byte) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, content, 0o644)
}
