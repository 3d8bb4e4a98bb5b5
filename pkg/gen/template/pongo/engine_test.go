package pongo_test

import (
	"strings"
	"testing"
	"testing/fstest"

	"github.com/shepmaster/my-error/pkg/gen/template/pongo"
)

func engineFromFS(t *testing.T, files fstest.MapFS, options ...pongo.Option) *pongo.Engine {
	t.Helper()
	options = append([]pongo.Option{pongo.WithFS(files)}, options...)
	engine, err := pongo.New(options...)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return engine
}

func TestNew_RequiresTemplateSource(t *testing.T) {
	if _, err := pongo.New(); err == nil {
		t.Fatal("expected an error without a base dir or fs")
	}
}

func TestRenderTemplate_AppendsExtension(t *testing.T) {
	engine := engineFromFS(t, fstest.MapFS{
		"greeting.tpl": &fstest.MapFile{Data: []byte("hello {{ name }}")},
	})

	got, err := engine.RenderTemplate("greeting", map[string]any{"name": "store"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got != "hello store" {
		t.Fatalf("rendered = %q", got)
	}
}

func TestRender_DispatchesOnContent(t *testing.T) {
	engine := engineFromFS(t, fstest.MapFS{
		"named.tpl": &fstest.MapFile{Data: []byte("from file")},
	})

	inline, err := engine.Render("{{ value }}", map[string]any{"value": 42})
	if err != nil {
		t.Fatalf("render inline: %v", err)
	}
	if inline != "42" {
		t.Fatalf("inline = %q", inline)
	}

	named, err := engine.Render("named", nil)
	if err != nil {
		t.Fatalf("render named: %v", err)
	}
	if named != "from file" {
		t.Fatalf("named = %q", named)
	}
}

func TestRenderString_IntegersSurviveJSONRoundTrip(t *testing.T) {
	engine := engineFromFS(t, fstest.MapFS{})

	data := struct {
		Count int     `json:"count"`
		Ratio float64 `json:"ratio"`
	}{Count: 42, Ratio: 1.5}

	got, err := engine.RenderString("{{ count }} {{ ratio }}", data)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.HasPrefix(got, "42 ") {
		t.Fatalf("count rendered with a fractional part: %q", got)
	}
	if !strings.Contains(got, "1.5") {
		t.Fatalf("ratio lost precision: %q", got)
	}
}

func TestRenderString_StructDataThroughJSON(t *testing.T) {
	engine := engineFromFS(t, fstest.MapFS{})

	data := struct {
		Name  string   `json:"name"`
		Kinds []string `json:"kinds"`
	}{Name: "Error", Kinds: []string{"enum", "wrapper"}}

	got, err := engine.RenderString("{{ name }}: {% for k in kinds %}{{ k }} {% endfor %}", data)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(got, "Error:") || !strings.Contains(got, "enum") {
		t.Fatalf("rendered = %q", got)
	}
}

func TestDefaultFilters(t *testing.T) {
	engine := engineFromFS(t, fstest.MapFS{})

	got, err := engine.RenderString(`{{ "  OpenFile  "|trim|lowerfirst }}`, nil)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got != "openFile" {
		t.Fatalf("filtered = %q", got)
	}
}

func TestGlobalContext(t *testing.T) {
	engine := engineFromFS(t, fstest.MapFS{}, pongo.WithGlobalData(map[string]any{
		"tool": "myerror-gen",
	}))

	got, err := engine.RenderString("made by {{ tool }}", nil)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got != "made by myerror-gen" {
		t.Fatalf("rendered = %q", got)
	}
}
