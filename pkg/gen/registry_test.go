package gen_test

import (
	"context"
	"testing"

	"github.com/shepmaster/my-error/pkg/gen"
	"github.com/shepmaster/my-error/pkg/model"
	"github.com/shepmaster/my-error/pkg/schema"
)

type stubTarget struct {
	name string
}

func (s stubTarget) Name() string        { return s.name }
func (s stubTarget) ContentType() string { return "text/plain" }
func (s stubTarget) Generate(context.Context, *model.ErrorSet, gen.Options) ([]gen.File, error) {
	return nil, nil
}

func TestRegistry(t *testing.T) {
	r := gen.NewRegistry()

	if err := r.Register(stubTarget{name: "go"}); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := r.Register(stubTarget{name: "go"}); err == nil {
		t.Fatal("expected an error for a duplicate name")
	}
	if err := r.Register(stubTarget{}); err == nil {
		t.Fatal("expected an error for an empty name")
	}

	if !r.Has("go") {
		t.Error("Has(go) = false")
	}
	if _, err := r.Get("docs"); err == nil {
		t.Error("expected an error for an unknown target")
	}

	r.MustRegister(stubTarget{name: "docs"})
	names := r.List()
	if len(names) != 2 || names[0] != "docs" || names[1] != "go" {
		t.Fatalf("List() = %v, want sorted [docs go]", names)
	}
}

func TestOptionsBaseFor(t *testing.T) {
	src := schema.SourceFromFile("errors/store.errors.yaml")
	set := &model.ErrorSet{Source: src}

	if got := (gen.Options{}).BaseFor(set); got != "store.errors" {
		t.Errorf("BaseFor = %q, want store.errors", got)
	}
	if got := (gen.Options{BaseName: "custom"}).BaseFor(set); got != "custom" {
		t.Errorf("BaseFor with override = %q", got)
	}
	if got := (gen.Options{}).BaseFor(nil); got != "errorset" {
		t.Errorf("BaseFor(nil) = %q, want errorset", got)
	}
	inline := &model.ErrorSet{Source: schema.SourceFromInline("")}
	if got := (gen.Options{}).BaseFor(inline); got != "inline" {
		t.Errorf("BaseFor(inline) = %q, want inline", got)
	}
}
