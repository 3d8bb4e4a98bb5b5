package attr

import (
	"strings"
	"testing"

	"github.com/shepmaster/my-error/pkg/schema"
)

func parseOne(t *testing.T, text string) []Occurrence {
	t.Helper()

	occs, errs := ParseList([]schema.AttrLine{{Text: text, Pos: schema.Pos{File: "test.yaml", Line: 7, Column: 9}}}, nil)
	if len(errs) > 0 {
		t.Fatalf("ParseList(%q) returned diagnostics: %v", text, errs)
	}
	return occs
}

func TestParseBareFlags(t *testing.T) {
	t.Parallel()

	occs := parseOne(t, "source")
	if len(occs) != 1 {
		t.Fatalf("expected one occurrence, got %d", len(occs))
	}
	flag, ok := occs[0].(SourceFlag)
	if !ok || !flag.Value {
		t.Fatalf("expected SourceFlag(true), got %#v", occs[0])
	}

	occs = parseOne(t, "backtrace(false)")
	bt, ok := occs[0].(Backtrace)
	if !ok || bt.Value {
		t.Fatalf("expected Backtrace(false), got %#v", occs[0])
	}

	occs = parseOne(t, "whatever")
	if _, ok := occs[0].(Whatever); !ok {
		t.Fatalf("expected Whatever, got %#v", occs[0])
	}
}

func TestParseDisplayArguments(t *testing.T) {
	t.Parallel()

	occs := parseOne(t, `display("could not open {path}")`)
	d, ok := occs[0].(Display)
	if !ok {
		t.Fatalf("expected Display, got %#v", occs[0])
	}
	if len(d.Args) != 1 || d.Args[0].Text != `"could not open {path}"` {
		t.Fatalf("unexpected display args: %#v", d.Args)
	}

	occs = parseOne(t, `display("total %d of %d", e.Done, e.Count*(1+2))`)
	d = occs[0].(Display)
	if len(d.Args) != 3 {
		t.Fatalf("expected three args, got %#v", d.Args)
	}
	if d.Args[2].Text != "e.Count*(1+2)" {
		t.Fatalf("nested parens not preserved: %q", d.Args[2].Text)
	}
}

func TestParseDisplayKeepsLiteralCommas(t *testing.T) {
	t.Parallel()

	occs := parseOne(t, `display("a, b {x}")`)
	d := occs[0].(Display)
	if len(d.Args) != 1 {
		t.Fatalf("comma inside string literal split the argument: %#v", d.Args)
	}
}

func TestParseSourceFrom(t *testing.T) {
	t.Parallel()

	occs := parseOne(t, "source(from(*os.PathError, wrapPath))")
	from, ok := occs[0].(SourceFrom)
	if !ok {
		t.Fatalf("expected SourceFrom, got %#v", occs[0])
	}
	if from.Type.Text != "*os.PathError" || from.Expr.Text != "wrapPath" {
		t.Fatalf("unexpected from payload: %#v", from)
	}
}

func TestParseSourceMultipleArguments(t *testing.T) {
	t.Parallel()

	occs := parseOne(t, "source(false, from(T, conv))")
	if len(occs) != 2 {
		t.Fatalf("expected each argument to expand to one occurrence, got %d", len(occs))
	}
	if flag, ok := occs[0].(SourceFlag); !ok || flag.Value {
		t.Fatalf("expected SourceFlag(false) first, got %#v", occs[0])
	}
	if _, ok := occs[1].(SourceFrom); !ok {
		t.Fatalf("expected SourceFrom second, got %#v", occs[1])
	}
}

func TestParseContextForms(t *testing.T) {
	t.Parallel()

	cases := []struct {
		text    string
		enabled bool
		suffix  Suffix
	}{
		{"context", true, Suffix{Kind: SuffixNone}},
		{"context(true)", true, Suffix{Kind: SuffixNone}},
		{"context(false)", false, Suffix{Kind: SuffixNone}},
		{"context(suffix(true))", true, Suffix{Kind: SuffixDefault}},
		{"context(suffix(false))", true, Suffix{Kind: SuffixNone}},
		{"context(suffix(Ctx))", true, Suffix{Kind: SuffixCustom, Name: "Ctx"}},
	}
	for _, tc := range cases {
		occs := parseOne(t, tc.text)
		ctx, ok := occs[0].(Context)
		if !ok {
			t.Fatalf("%s: expected Context, got %#v", tc.text, occs[0])
		}
		if ctx.Enabled != tc.enabled || ctx.Suffix != tc.suffix {
			t.Fatalf("%s: got enabled=%v suffix=%#v", tc.text, ctx.Enabled, ctx.Suffix)
		}
	}
}

func TestParseCommaSeparatedAttributes(t *testing.T) {
	t.Parallel()

	occs := parseOne(t, "visibility(public), module(storeerr), runtime(example.com/errs)")
	if len(occs) != 3 {
		t.Fatalf("expected three occurrences, got %d", len(occs))
	}
	vis := occs[0].(Visibility)
	if vis.Arg.Text != "public" {
		t.Fatalf("unexpected visibility arg: %#v", vis.Arg)
	}
	mod := occs[1].(Module)
	if mod.Name != "storeerr" {
		t.Fatalf("unexpected module name: %q", mod.Name)
	}
	rt := occs[2].(Runtime)
	if rt.Path.Text != "example.com/errs" {
		t.Fatalf("unexpected runtime path: %q", rt.Path.Text)
	}
}

func TestParseBareVisibilityAndModule(t *testing.T) {
	t.Parallel()

	vis := parseOne(t, "visibility")[0].(Visibility)
	if !vis.Arg.IsZero() {
		t.Fatalf("bare visibility should carry no argument, got %#v", vis.Arg)
	}

	mod := parseOne(t, "module")[0].(Module)
	if mod.Name != "" {
		t.Fatalf("bare module should carry no name, got %q", mod.Name)
	}
}

func TestParseDocLinesAlwaysCaptured(t *testing.T) {
	t.Parallel()

	occs, errs := ParseList(nil, []schema.DocLine{
		{Text: "Could not open the file.", Pos: schema.Pos{File: "test.yaml", Line: 3}},
		{Text: "", Pos: schema.Pos{File: "test.yaml", Line: 4}},
	})
	if len(errs) > 0 {
		t.Fatalf("doc lines should never error: %v", errs)
	}
	if len(occs) != 2 {
		t.Fatalf("expected two doc occurrences, got %d", len(occs))
	}
	if doc, ok := occs[0].(Doc); !ok || doc.Text != "Could not open the file." {
		t.Fatalf("unexpected first doc occurrence: %#v", occs[0])
	}
}

func TestParseUnknownAttribute(t *testing.T) {
	t.Parallel()

	_, errs := ParseList([]schema.AttrLine{{Text: "frobnicate(1)"}}, nil)
	if len(errs) != 1 {
		t.Fatalf("expected one diagnostic, got %v", errs)
	}
	if want := "`frobnicate` is not a recognized attribute"; errs[0].Message != want {
		t.Fatalf("got message %q, want %q", errs[0].Message, want)
	}
}

func TestParseCollectsErrorsAcrossLines(t *testing.T) {
	t.Parallel()

	occs, errs := ParseList([]schema.AttrLine{
		{Text: "bogus"},
		{Text: "source(nope)"},
	}, nil)
	if occs != nil {
		t.Fatalf("grammar errors must abort the scope, got occurrences %#v", occs)
	}
	if len(errs) != 2 {
		t.Fatalf("expected both bad lines reported, got %v", errs)
	}
	if !strings.Contains(errs[1].Message, "`source` expects") {
		t.Fatalf("unexpected second diagnostic: %q", errs[1].Message)
	}
}

func TestParsePositionsAdvanceByColumn(t *testing.T) {
	t.Parallel()

	occs, errs := ParseList([]schema.AttrLine{{
		Text: "visibility, whatever",
		Pos:  schema.Pos{File: "test.yaml", Line: 2, Column: 10},
	}}, nil)
	if len(errs) > 0 {
		t.Fatalf("unexpected diagnostics: %v", errs)
	}
	if got := occs[0].Pos().Column; got != 10 {
		t.Fatalf("first attribute column = %d, want 10", got)
	}
	if got := occs[1].Pos().Column; got != 22 {
		t.Fatalf("second attribute column = %d, want 22", got)
	}
}
