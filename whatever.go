package myerror

import "fmt"

// Whatever is the ready-made free-form error: the same shape a generated
// whatever selector produces, available without declaring an errorset.
type Whatever struct {
	Message string
	Source  error

	stack *Trace
}

// Newf raises a new free-form error with a formatted message and a captured
// trace.
func Newf(format string, args ...any) *Whatever {
	return &Whatever{
		Message: fmt.Sprintf(format, args...),
		stack:   newTrace(3),
	}
}

// Wrapf wraps err with a formatted message and a captured trace. A nil err
// yields nil so call sites can wrap unconditionally.
func Wrapf(err error, format string, args ...any) *Whatever {
	if err == nil {
		return nil
	}
	return &Whatever{
		Message: fmt.Sprintf(format, args...),
		Source:  err,
		stack:   newTrace(3),
	}
}

// Error returns the message alone; the wrapped cause stays reachable
// through Unwrap rather than being folded into the text.
func (w *Whatever) Error() string {
	return w.Message
}

func (w *Whatever) Kind() string {
	return "Whatever"
}

// Unwrap exposes the wrapped cause to errors.Is and errors.As.
func (w *Whatever) Unwrap() error {
	return w.Source
}

// Trace returns the trace captured at construction, falling back to the
// wrapped cause's trace for values built as plain literals.
func (w *Whatever) Trace() *Trace {
	if w.stack != nil {
		return w.stack
	}
	return TraceOf(w.Source)
}
