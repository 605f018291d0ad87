// Package atom provides a lock-free container for an immutable value.
//
// An Atom holds a snapshot of type T and supports atomic replacement of the
// whole snapshot. It is the primitive underlying every mutable table in the
// runtime: writers never mutate a snapshot in place, they compute a new one
// and commit it with a compare-and-swap, retrying on contention.
package atom

import "sync/atomic"

// Atom is a linearizable compare-and-swap cell over an immutable value of
// type T. The zero value is not usable; use New.
type Atom[T any] struct {
	p atomic.Pointer[T]
}

// New creates an Atom holding v.
func New[T any](v T) *Atom[T] {
	a := &Atom[T]{}
	a.p.Store(&v)
	return a
}

// Deref returns the current snapshot.
func (a *Atom[T]) Deref() T {
	return *a.p.Load()
}

// CompareAndSet replaces the snapshot with new if the current snapshot is
// identical to old, and reports whether the replacement happened. Identity is
// interface identity, so T should be a pointer, interface or other reference
// type; two structurally equal but distinct snapshots do not match.
func (a *Atom[T]) CompareAndSet(old, new T) bool {
	p := a.p.Load()
	if any(*p) != any(old) {
		return false
	}
	return a.p.CompareAndSwap(p, &new)
}

// Swap applies the pure function f to the latest snapshot and commits the
// result, retrying until the commit succeeds. It returns the committed value.
func (a *Atom[T]) Swap(f func(T) T) T {
	for {
		p := a.p.Load()
		v := f(*p)
		if a.p.CompareAndSwap(p, &v) {
			return v
		}
	}
}

// Reset unconditionally replaces the snapshot with v and returns v.
func (a *Atom[T]) Reset(v T) T {
	a.p.Store(&v)
	return v
}
