package model

import (
	"github.com/shepmaster/my-error/pkg/diag"
	"github.com/shepmaster/my-error/pkg/schema"
)

// entry is one retained ledger occurrence.
type entry[T any] struct {
	value T
	pos   schema.Pos
}

// ledger enforces the at-most-one rule for a single attribute name within a
// single scope. Every occurrence is retained so cross-checks that need to
// see the whole queue still can; finish reports one duplicate diagnostic per
// extra occurrence, pointed at that occurrence.
type ledger[T any] struct {
	attr    string
	where   string
	entries []entry[T]
}

func newLedger[T any](attr string, where scope) *ledger[T] {
	return &ledger[T]{attr: attr, where: where.String()}
}

func (l *ledger[T]) add(value T, pos schema.Pos) {
	l.entries = append(l.entries, entry[T]{value: value, pos: pos})
}

func (l *ledger[T]) count() int { return len(l.entries) }

// all exposes the retained queue for manual cross-checks.
func (l *ledger[T]) all() []entry[T] { return l.entries }

// first returns the retained winner without reporting duplicates.
func (l *ledger[T]) first() (T, schema.Pos, bool) {
	if len(l.entries) == 0 {
		var zero T
		return zero, schema.Pos{}, false
	}
	return l.entries[0].value, l.entries[0].pos, true
}

// finish returns the first occurrence and reports every extra one.
func (l *ledger[T]) finish(bag *diag.Bag) (T, schema.Pos, bool) {
	if len(l.entries) == 0 {
		var zero T
		return zero, schema.Pos{}, false
	}
	for _, extra := range l.entries[1:] {
		bag.Addf(extra.pos, "Multiple `%s` attributes are not supported %s", l.attr, l.where)
	}
	return l.entries[0].value, l.entries[0].pos, true
}
