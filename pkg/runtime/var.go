package runtime

import (
	"fmt"

	"src.elv.sh/pkg/persistent/hashmap"
	"src.elv.sh/pkg/persistent/vector"

	"github.com/djblue/basilisp/pkg/atom"
	"github.com/djblue/basilisp/pkg/symbol"
)

// Meta is the metadata attached to a Var. Privacy is a first-class field so
// that visibility rules are enforced by type, not by convention; any other
// annotation lives in the open Attrs bag.
type Meta struct {
	// Private vars resolve only inside their owning namespace; they are never
	// exposed through refers.
	Private bool
	// Attrs holds open keyword-to-value annotations.
	Attrs hashmap.Map
}

// EmptyAttrs is the empty annotation bag shared by vars without metadata.
var EmptyAttrs = hashmap.New(symbol.Equal, symbol.Hash)

// Var is a mutable binding cell owned by exactly one namespace. The owner is
// recorded by name only; a Var never holds a strong reference back to its
// namespace. The root value is shared by all threads; a stack of dynamic
// bindings can shadow it for the extent of a WithBinding call.
type Var struct {
	owner symbol.Symbol
	name  symbol.Symbol

	root     *atom.Atom[interface{}]
	meta     *atom.Atom[Meta]
	bindings *atom.Atom[vector.Vector]
}

// NewVar creates an unbound public Var owned by the named namespace.
func NewVar(owner, name symbol.Symbol) *Var {
	return NewVarWithMeta(owner, name, Meta{Attrs: EmptyAttrs})
}

// NewVarWithMeta creates an unbound Var with the given metadata.
func NewVarWithMeta(owner, name symbol.Symbol, meta Meta) *Var {
	if meta.Attrs == nil {
		meta.Attrs = EmptyAttrs
	}
	return &Var{
		owner:    owner,
		name:     name,
		root:     atom.New[interface{}](nil),
		meta:     atom.New(meta),
		bindings: atom.New(vector.Empty),
	}
}

// Owner returns the name of the owning namespace.
func (v *Var) Owner() symbol.Symbol { return v.owner }

// Name returns the symbol under which the Var was defined.
func (v *Var) Name() symbol.Symbol { return v.name }

func (v *Var) String() string {
	return fmt.Sprintf("#'%s/%s", v.owner, v.name)
}

// Meta returns the current metadata.
func (v *Var) Meta() Meta { return v.meta.Deref() }

// SetMeta replaces the metadata.
func (v *Var) SetMeta(meta Meta) {
	if meta.Attrs == nil {
		meta.Attrs = EmptyAttrs
	}
	v.meta.Reset(meta)
}

// AlterMeta applies f to the current metadata and commits the result,
// retrying under contention.
func (v *Var) AlterMeta(f func(Meta) Meta) Meta {
	return v.meta.Swap(func(m Meta) Meta {
		m = f(m)
		if m.Attrs == nil {
			m.Attrs = EmptyAttrs
		}
		return m
	})
}

// IsPrivate reports whether the Var is marked private.
func (v *Var) IsPrivate() bool { return v.meta.Deref().Private }

// Root returns the root value, ignoring dynamic bindings.
func (v *Var) Root() interface{} { return v.root.Deref() }

// SetRoot replaces the root value.
func (v *Var) SetRoot(val interface{}) { v.root.Reset(val) }

// IsBound reports whether the Var currently has dynamic bindings.
func (v *Var) IsBound() bool { return v.bindings.Deref().Len() > 0 }

// Deref returns the current value: the innermost dynamic binding if one is
// in effect, the root value otherwise.
func (v *Var) Deref() interface{} {
	if b := v.bindings.Deref(); b.Len() > 0 {
		val, _ := b.Index(b.Len() - 1)
		return val
	}
	return v.root.Deref()
}

// SetValue assigns the innermost dynamic binding if one is in effect, the
// root value otherwise.
func (v *Var) SetValue(val interface{}) {
	for {
		b := v.bindings.Deref()
		if b.Len() == 0 {
			v.root.Reset(val)
			return
		}
		if v.bindings.CompareAndSet(b, b.Assoc(b.Len()-1, val)) {
			return
		}
	}
}

// PushBinding pushes a dynamic binding shadowing the root value. Callers
// should normally use WithBinding, which pairs the push with the
// corresponding pop on every exit path.
func (v *Var) PushBinding(val interface{}) {
	v.bindings.Swap(func(b vector.Vector) vector.Vector {
		return b.Conj(val)
	})
}

// PopBinding removes the innermost dynamic binding. It panics if the Var has
// no bindings, since an unpaired pop is always a bug in the caller.
func (v *Var) PopBinding() {
	v.bindings.Swap(func(b vector.Vector) vector.Vector {
		if b.Len() == 0 {
			panic(fmt.Sprintf("pop of unbound var %s", v))
		}
		return b.Pop()
	})
}

// WithBinding calls f with val pushed as the innermost dynamic binding. The
// binding is popped when f finishes, whether it returns normally, returns an
// error, or panics.
func (v *Var) WithBinding(val interface{}, f func() error) error {
	v.PushBinding(val)
	defer v.PopBinding()
	return f()
}
