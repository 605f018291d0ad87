package runtime

import (
	"src.elv.sh/pkg/persistent/hashmap"

	"github.com/djblue/basilisp/pkg/atom"
	"github.com/djblue/basilisp/pkg/symbol"
)

// emptySymMap is the empty table shared by all fresh namespaces.
var emptySymMap = hashmap.New(symbol.Equal, symbol.Hash)

// Ns is a namespace: a named container of bindings. It owns an intern table
// of its own Vars and borrows from the rest of the world through three more
// tables: refers (other namespaces' public Vars, resolvable unqualified),
// aliases (short names for whole namespaces) and imports (opaque host
// modules, plus their aliases).
//
// Each table is an immutable map held in its own atom; tables are updated
// independently by CAS, so an update to one table never blocks another.
type Ns struct {
	name symbol.Symbol

	interns       *atom.Atom[hashmap.Map] // Symbol -> *Var, owned
	refers        *atom.Atom[hashmap.Map] // Symbol -> *Var, borrowed
	aliases       *atom.Atom[hashmap.Map] // Symbol -> *Ns, borrowed
	imports       *atom.Atom[hashmap.Map] // Symbol -> Module, borrowed
	importAliases *atom.Atom[hashmap.Map] // Symbol -> Symbol naming an import
}

// NewNs creates an empty namespace. Namespaces are normally created through
// Registry.GetOrCreate, which also applies the default-import policy; NewNs
// exists for the registry itself and for tests that need a detached
// namespace.
func NewNs(name symbol.Symbol) *Ns {
	return &Ns{
		name:          name,
		interns:       atom.New(emptySymMap),
		refers:        atom.New(emptySymMap),
		aliases:       atom.New(emptySymMap),
		imports:       atom.New(emptySymMap),
		importAliases: atom.New(emptySymMap),
	}
}

// Name returns the name of the namespace.
func (ns *Ns) Name() symbol.Symbol { return ns.name }

func (ns *Ns) String() string { return ns.name.String() }

// Intern makes v the namespace's own binding for s. If s is already interned
// and force is false the existing binding is kept and returned; re-evaluating
// a definition must not clobber a live binding unless the caller explicitly
// forces the redefinition. The returned Var is the binding live after the
// call.
func (ns *Ns) Intern(s symbol.Symbol, v *Var, force bool) *Var {
	for {
		m := ns.interns.Deref()
		if old, ok := m.Index(s); ok && !force {
			return old.(*Var)
		}
		if ns.interns.CompareAndSet(m, m.Assoc(s, v)) {
			return v
		}
	}
}

// Unmap removes the namespace's own binding for s, if any.
func (ns *Ns) Unmap(s symbol.Symbol) {
	ns.interns.Swap(func(m hashmap.Map) hashmap.Map {
		return m.Dissoc(s)
	})
}

// Find resolves a bare symbol inside the namespace: its own intern if one
// exists, the refer for s otherwise, nil if neither. An intern always wins
// over a refer of the same name, regardless of insertion order.
func (ns *Ns) Find(s symbol.Symbol) *Var {
	if v, ok := ns.interns.Deref().Index(s); ok {
		return v.(*Var)
	}
	if v, ok := ns.refers.Deref().Index(s); ok {
		return v.(*Var)
	}
	return nil
}

// AddImport records the host module m under name and under every given
// alias.
func (ns *Ns) AddImport(name symbol.Symbol, m Module, aliases ...symbol.Symbol) {
	ns.imports.Swap(func(im hashmap.Map) hashmap.Map {
		return im.Assoc(name, m)
	})
	if len(aliases) > 0 {
		ns.importAliases.Swap(func(am hashmap.Map) hashmap.Map {
			for _, alias := range aliases {
				am = am.Assoc(alias, name)
			}
			return am
		})
	}
}

// GetImport resolves a direct import name or an import alias to the
// underlying module, or nil if the name is unknown.
func (ns *Ns) GetImport(name symbol.Symbol) Module {
	if m, ok := ns.imports.Deref().Index(name); ok {
		return m.(Module)
	}
	if base, ok := ns.importAliases.Deref().Index(name); ok {
		if m, ok := ns.imports.Deref().Index(base); ok {
			return m.(Module)
		}
	}
	return nil
}

// AddRefer makes v resolvable unqualified inside this namespace under s.
// Private vars are not discoverable outside their owning namespace, so
// referring one is a silent no-op.
func (ns *Ns) AddRefer(s symbol.Symbol, v *Var) {
	if v.IsPrivate() {
		return
	}
	ns.refers.Swap(func(m hashmap.Map) hashmap.Map {
		return m.Assoc(s, v)
	})
}

// GetRefer returns the refer entry for s, or nil.
func (ns *Ns) GetRefer(s symbol.Symbol) *Var {
	if v, ok := ns.refers.Deref().Index(s); ok {
		return v.(*Var)
	}
	return nil
}

// ReferAll installs a refer entry for every public intern of src, overwriting
// prior refer entries for the same symbols. The target's own interns are
// never touched; Find keeps preferring them. Each copy commits with its own
// CAS: the batch is not transactional, and each individual copy is
// idempotent, so partial completion under contention is harmless.
func (ns *Ns) ReferAll(src *Ns) {
	for it := src.Interns().Iterator(); it.HasElem(); it.Next() {
		s, v := it.Elem()
		ns.AddRefer(s.(symbol.Symbol), v.(*Var))
	}
}

// AddAlias records ns2 under the short name s for qualified lookup.
func (ns *Ns) AddAlias(s symbol.Symbol, ns2 *Ns) {
	ns.aliases.Swap(func(m hashmap.Map) hashmap.Map {
		return m.Assoc(s, ns2)
	})
}

// GetAlias returns the namespace aliased as s, or nil.
func (ns *Ns) GetAlias(s symbol.Symbol) *Ns {
	if n, ok := ns.aliases.Deref().Index(s); ok {
		return n.(*Ns)
	}
	return nil
}

// RemoveAlias removes the alias s, if any.
func (ns *Ns) RemoveAlias(s symbol.Symbol) {
	ns.aliases.Swap(func(m hashmap.Map) hashmap.Map {
		return m.Dissoc(s)
	})
}

// Interns returns a point-in-time snapshot of the intern table.
func (ns *Ns) Interns() hashmap.Map { return ns.interns.Deref() }

// Refers returns a point-in-time snapshot of the refer table.
func (ns *Ns) Refers() hashmap.Map { return ns.refers.Deref() }

// Aliases returns a point-in-time snapshot of the alias table.
func (ns *Ns) Aliases() hashmap.Map { return ns.aliases.Deref() }

// Imports returns a point-in-time snapshot of the import table.
func (ns *Ns) Imports() hashmap.Map { return ns.imports.Deref() }

// ImportAliases returns a point-in-time snapshot of the import alias table.
func (ns *Ns) ImportAliases() hashmap.Map { return ns.importAliases.Deref() }
