package myerror

import (
	"fmt"
	"runtime"
	"strings"
)

// Frame is one resolved call site of a Trace.
type Frame struct {
	Function string
	File     string
	Line     int
}

func (f Frame) String() string {
	return fmt.Sprintf("%s (%s:%d)", f.Function, f.File, f.Line)
}

// Trace is a captured call stack. Generated error types store one when the
// errorset declares a backtrace field; Whatever captures one on every
// construction.
type Trace struct {
	frames []Frame
}

// NewTrace captures the stack of the caller. The capture itself and the
// runtime internals below main are excluded.
func NewTrace() *Trace {
	return newTrace(3)
}

func newTrace(skip int) *Trace {
	pcs := make([]uintptr, 64)
	n := runtime.Callers(skip, pcs)
	if n == 0 {
		return &Trace{}
	}

	t := &Trace{frames: make([]Frame, 0, n)}
	frames := runtime.CallersFrames(pcs[:n])
	for {
		fr, more := frames.Next()
		t.frames = append(t.frames, Frame{
			Function: fr.Function,
			File:     fr.File,
			Line:     fr.Line,
		})
		if !more {
			break
		}
	}
	return t
}

// Frames returns the captured call sites, innermost first.
func (t *Trace) Frames() []Frame {
	if t == nil {
		return nil
	}
	out := make([]Frame, len(t.frames))
	copy(out, t.frames)
	return out
}

func (t *Trace) String() string {
	if t == nil || len(t.frames) == 0 {
		return ""
	}
	var b strings.Builder
	for i, f := range t.frames {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString("at ")
		b.WriteString(f.String())
	}
	return b.String()
}

// Format renders the trace for the fmt verbs: %v and %s print the
// innermost call site on one line, %+v prints every frame.
func (t *Trace) Format(state fmt.State, verb rune) {
	if t == nil || len(t.frames) == 0 {
		return
	}
	switch {
	case verb == 'v' && state.Flag('+'):
		fmt.Fprint(state, t.String())
	case verb == 'v' || verb == 's':
		fmt.Fprintf(state, "at %s", t.frames[0])
	}
}

// Tracer is implemented by error types that carry a Trace. Generated types
// implement it when their errorset declares a backtrace field or requests
// delegation from the stored cause.
type Tracer interface {
	Trace() *Trace
}

// TraceOf returns the trace carried by err or by the nearest error in its
// Unwrap chain, nil when no error in the chain carries one.
func TraceOf(err error) *Trace {
	for err != nil {
		if t, ok := err.(Tracer); ok {
			if tr := t.Trace(); tr != nil {
				return tr
			}
		}
		err = unwrapOnce(err)
	}
	return nil
}
