package console

import (
	"strings"
	"testing"

	"github.com/shepmaster/my-error/pkg/diag"
	"github.com/shepmaster/my-error/pkg/schema"
)

func TestFormatDiagnostic_PlainCompilerStyle(t *testing.T) {
	d := diag.Diagnostic{
		Pos:      schema.Pos{File: "store.errors.yaml", Line: 4, Column: 9},
		Severity: diag.SeverityError,
		Message:  "kind must be one of enum, struct, wrapper",
	}

	got := FormatDiagnostic(d, nil)
	want := "store.errors.yaml:4:9: error: kind must be one of enum, struct, wrapper\n"
	if got != want {
		t.Fatalf("FormatDiagnostic = %q, want %q", got, want)
	}
}

func TestFormatDiagnostic_SourceContextAndCaret(t *testing.T) {
	source := []byte("package: store\nerrors:\n  - name: OpenError\n    kind: record\n")
	d := diag.Diagnostic{
		Pos:      schema.Pos{File: "store.errors.yaml", Line: 4, Column: 11},
		Severity: diag.SeverityError,
		Message:  "unknown kind",
	}

	got := FormatDiagnostic(d, source)
	if !strings.Contains(got, "4 |     kind: record") {
		t.Errorf("output missing source line:\n%s", got)
	}
	caret := strings.Repeat(" ", len("4")+3+10) + "^"
	if !strings.Contains(got, caret+"\n") {
		t.Errorf("output missing caret at column 11:\n%s", got)
	}
}

func TestFormatDiagnostic_WarningSeverity(t *testing.T) {
	d := diag.Diagnostic{
		Severity: diag.SeverityWarning,
		Message:  "suffix(false) used with an explicit suffix",
	}

	got := FormatDiagnostic(d, nil)
	if !strings.HasPrefix(got, "warning: ") {
		t.Fatalf("positionless warning should start with the severity, got %q", got)
	}
}

func TestFormatDiagnostic_PositionOutsideDocument(t *testing.T) {
	d := diag.Diagnostic{
		Pos:      schema.Pos{File: "a.yaml", Line: 99, Column: 1},
		Severity: diag.SeverityError,
		Message:  "boom",
	}

	got := FormatDiagnostic(d, []byte("one line\n"))
	if strings.Contains(got, "|") {
		t.Fatalf("no context should render for out-of-range lines:\n%s", got)
	}
}

func TestFormatList_RendersEveryDiagnostic(t *testing.T) {
	list := diag.List{
		{Severity: diag.SeverityError, Message: "first"},
		{Severity: diag.SeverityWarning, Message: "second"},
	}

	got := FormatList(list, nil)
	if !strings.Contains(got, "first") || !strings.Contains(got, "second") {
		t.Fatalf("FormatList dropped a diagnostic:\n%s", got)
	}
}

func TestApplyStyle_NoColorWithoutTTY(t *testing.T) {
	got := applyStyle(errorStyle, "plain")
	if got != "plain" {
		t.Fatalf("expected unstyled text without a TTY, got %q", got)
	}
}

func TestSpinner_DisabledWithoutTTY(t *testing.T) {
	s := NewSpinner("working")
	if s.IsEnabled() {
		t.Skip("running under a TTY")
	}
	// All operations must be safe no-ops.
	s.Start()
	s.UpdateMessage("still working")
	s.Stop()
}
