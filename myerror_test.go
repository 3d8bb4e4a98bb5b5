package myerror_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	myerror "github.com/shepmaster/my-error"
)

type openError struct {
	path  string
	cause error
	trace *myerror.Trace
}

func (e *openError) Error() string        { return "could not open " + e.path }
func (e *openError) Kind() string         { return "Open" }
func (e *openError) Unwrap() error        { return e.cause }
func (e *openError) Trace() *myerror.Trace { return e.trace }

func TestNewfCapturesTrace(t *testing.T) {
	err := myerror.Newf("disk %s is full", "sda1")

	if got, want := err.Error(), "disk sda1 is full"; got != want {
		t.Fatalf("Error() = %q, want %q", got, want)
	}
	if got, want := err.Kind(), "Whatever"; got != want {
		t.Fatalf("Kind() = %q, want %q", got, want)
	}
	if err.Unwrap() != nil {
		t.Fatalf("Unwrap() = %v, want nil", err.Unwrap())
	}

	tr := err.Trace()
	if tr == nil {
		t.Fatal("Trace() = nil, want captured trace")
	}
	frames := tr.Frames()
	if len(frames) == 0 {
		t.Fatal("captured trace has no frames")
	}
	if !strings.Contains(frames[0].Function, "TestNewfCapturesTrace") {
		t.Fatalf("top frame = %q, want the calling test", frames[0].Function)
	}
	if frames[0].Line <= 0 {
		t.Fatalf("top frame line = %d, want positive", frames[0].Line)
	}
}

func TestWrapfKeepsCauseOutOfMessage(t *testing.T) {
	cause := errors.New("permission denied")
	err := myerror.Wrapf(cause, "could not read %s", "config.yaml")

	if got, want := err.Error(), "could not read config.yaml"; got != want {
		t.Fatalf("Error() = %q, want %q", got, want)
	}
	if !errors.Is(err, cause) {
		t.Fatal("errors.Is lost the wrapped cause")
	}
}

func TestWrapfNilIsNil(t *testing.T) {
	if err := myerror.Wrapf(nil, "ignored"); err != nil {
		t.Fatalf("Wrapf(nil, ...) = %v, want nil", err)
	}
}

func TestKindOfWalksWrappedChain(t *testing.T) {
	inner := &openError{path: "a.txt"}
	mid := fmt.Errorf("while loading: %w", inner)
	outer := fmt.Errorf("startup failed: %w", mid)

	if got, want := myerror.KindOf(outer), "Open"; got != want {
		t.Fatalf("KindOf = %q, want %q", got, want)
	}
	if got := myerror.KindOf(errors.New("plain")); got != "" {
		t.Fatalf("KindOf(plain) = %q, want empty", got)
	}
	if got := myerror.KindOf(nil); got != "" {
		t.Fatalf("KindOf(nil) = %q, want empty", got)
	}
}

func TestTraceOfFindsCarriedTrace(t *testing.T) {
	inner := &openError{path: "a.txt", trace: myerror.NewTrace()}
	outer := fmt.Errorf("startup failed: %w", inner)

	if tr := myerror.TraceOf(outer); tr != inner.trace {
		t.Fatalf("TraceOf = %p, want the carried trace %p", tr, inner.trace)
	}
	if tr := myerror.TraceOf(errors.New("plain")); tr != nil {
		t.Fatalf("TraceOf(plain) = %v, want nil", tr)
	}
}

func TestTraceOfSkipsEmptyCarriers(t *testing.T) {
	inner := myerror.Newf("root cause")
	mid := &openError{path: "b.txt", cause: inner}
	outer := fmt.Errorf("boot: %w", mid)

	tr := myerror.TraceOf(outer)
	if tr == nil {
		t.Fatal("TraceOf = nil, want the inner Newf trace")
	}
	if tr != inner.Trace() {
		t.Fatal("TraceOf stopped at a carrier with no trace instead of walking on")
	}
}

func TestWhateverTraceDelegatesToCause(t *testing.T) {
	inner := myerror.Newf("root cause")
	// A literal Whatever has no captured stack and should borrow the
	// cause's trace.
	outer := &myerror.Whatever{Message: "outer", Source: inner}

	if tr := outer.Trace(); tr != inner.Trace() {
		t.Fatal("literal Whatever did not delegate Trace() to its cause")
	}
}

func TestTraceString(t *testing.T) {
	tr := myerror.NewTrace()
	s := tr.String()
	if !strings.Contains(s, "TestTraceString") {
		t.Fatalf("trace text %q does not mention the capturing function", s)
	}
	if !strings.Contains(s, "at ") {
		t.Fatalf("trace text %q missing frame prefix", s)
	}
}

func TestTraceFormat(t *testing.T) {
	tr := myerror.NewTrace()

	short := fmt.Sprintf("%v", tr)
	if strings.Contains(short, "\n") {
		t.Fatalf("%%v should be one line, got %q", short)
	}
	if !strings.Contains(short, "TestTraceFormat") {
		t.Fatalf("%%v = %q does not name the capturing function", short)
	}

	full := fmt.Sprintf("%+v", tr)
	if full != tr.String() {
		t.Fatalf("%%+v = %q, want the full String() rendering", full)
	}
}
