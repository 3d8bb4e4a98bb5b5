// Package diag carries the diagnostics produced while validating errorset
// documents. Every pipeline stage appends to a Bag and keeps going; callers
// decide at the end whether the collected list blocks generation.
package diag

import (
	"errors"
	"fmt"
	"sort"

	"github.com/shepmaster/my-error/pkg/schema"
)

// Severity ranks a diagnostic. Only errors block generation.
type Severity int

const (
	SeverityWarning Severity = iota
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityWarning:
		return "warning"
	default:
		return "error"
	}
}

// Diagnostic is one problem found in a document, attributed to the position
// of the attribute, field, or key responsible.
type Diagnostic struct {
	Pos      schema.Pos
	Severity Severity
	Message  string
}

func (d Diagnostic) String() string {
	if d.Pos.IsZero() {
		return fmt.Sprintf("%s: %s", d.Severity, d.Message)
	}
	return fmt.Sprintf("%s: %s: %s", d.Pos, d.Severity, d.Message)
}

// List is an ordered collection of diagnostics. It implements error so the
// whole validation outcome can travel through ordinary error returns.
type List []Diagnostic

func (l List) Error() string {
	switch len(l) {
	case 0:
		return "no diagnostics"
	case 1:
		return l[0].String()
	default:
		return fmt.Sprintf("%s (and %d more)", l[0], len(l)-1)
	}
}

// HasErrors reports whether the list contains at least one error-severity
// diagnostic.
func (l List) HasErrors() bool {
	for _, d := range l {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}

// AsList recovers a List from an error chain.
func AsList(err error) (List, bool) {
	var list List
	if errors.As(err, &list) {
		return list, true
	}
	return nil, false
}

// Errorf builds a single-element error List, for fatal paths that abort a
// scope with one positioned message.
func Errorf(pos schema.Pos, format string, args ...any) List {
	return List{{Pos: pos, Severity: SeverityError, Message: fmt.Sprintf(format, args...)}}
}

// Bag accumulates diagnostics across pipeline stages. The zero value is
// ready to use.
type Bag struct {
	diags List
}

// Add records an error diagnostic at pos.
func (b *Bag) Add(pos schema.Pos, message string) {
	b.diags = append(b.diags, Diagnostic{Pos: pos, Severity: SeverityError, Message: message})
}

// Addf records a formatted error diagnostic at pos.
func (b *Bag) Addf(pos schema.Pos, format string, args ...any) {
	b.Add(pos, fmt.Sprintf(format, args...))
}

// Warnf records a warning diagnostic at pos.
func (b *Bag) Warnf(pos schema.Pos, format string, args ...any) {
	b.diags = append(b.diags, Diagnostic{Pos: pos, Severity: SeverityWarning, Message: fmt.Sprintf(format, args...)})
}

// Merge appends every diagnostic from other.
func (b *Bag) Merge(other List) {
	b.diags = append(b.diags, other...)
}

// Absorb folds an error into the bag: Lists merge element-wise, any other
// non-nil error becomes one positionless error diagnostic.
func (b *Bag) Absorb(err error) {
	if err == nil {
		return
	}
	if list, ok := AsList(err); ok {
		b.Merge(list)
		return
	}
	b.Add(schema.Pos{}, err.Error())
}

// HasErrors reports whether any error-severity diagnostic was recorded.
func (b *Bag) HasErrors() bool {
	return b.diags.HasErrors()
}

// Len returns the number of recorded diagnostics.
func (b *Bag) Len() int {
	return len(b.diags)
}

// List returns the recorded diagnostics in insertion order.
func (b *Bag) List() List {
	return append(List(nil), b.diags...)
}

// Err returns the recorded diagnostics as an error when at least one error
// severity is present, nil otherwise. Warnings alone never fail a build.
func (b *Bag) Err() error {
	if !b.HasErrors() {
		return nil
	}
	return b.List()
}

// Sort orders diagnostics by file, line, and column. The sort is stable so
// diagnostics at the same position keep their insertion order.
func (b *Bag) Sort() {
	sort.SliceStable(b.diags, func(i, j int) bool {
		a, c := b.diags[i].Pos, b.diags[j].Pos
		if a.File != c.File {
			return a.File < c.File
		}
		if a.Line != c.Line {
			return a.Line < c.Line
		}
		return a.Column < c.Column
	})
}
