// Package runtime implements the namespace and binding registry at the heart
// of the language runtime: creation, lookup and removal of namespaces;
// interning, shadowing and visibility of vars; cross-namespace refers and
// aliases; host module imports; and prefix completion over all of them.
//
// The runtime stores values and host modules opaquely. Populating the core
// namespace with the language's public API is the bootstrapper's job; the
// compiler resolves symbols through Ns.Find and mutates namespaces while
// compiling def/import/require forms.
package runtime

import (
	"fmt"
	"sync"

	"src.elv.sh/pkg/persistent/hashmap"

	"github.com/djblue/basilisp/pkg/atom"
	"github.com/djblue/basilisp/pkg/logutil"
	"github.com/djblue/basilisp/pkg/runtime/errs"
	"github.com/djblue/basilisp/pkg/symbol"
)

var logger = logutil.GetLogger("[runtime] ")

// CoreNS is the name of the core namespace. It always exists in a registry
// and can never be removed.
const CoreNS = "basilisp.core"

// NSVarName is the name of the var in the core namespace that holds the
// current namespace.
const NSVarName = "*ns*"

var (
	coreSym  = symbol.New(CoreNS)
	nsVarSym = symbol.New(NSVarName)
	// The :dynamic annotation on *ns*; purely informational, the runtime
	// keys nothing off it.
	dynamicSym = symbol.New("dynamic")
)

// RegistryConfig configures a fresh registry. The zero value is valid: no
// default imports, no gated names, no module resolver.
type RegistryConfig struct {
	// DefaultImports seeds the set of import names automatically added to
	// new namespaces.
	DefaultImports []symbol.Symbol
	// GatedImports names imports that may only become default imports if
	// also present in AllowedGated. The set is fixed for the life of the
	// registry.
	GatedImports []string
	// AllowedGated is the allow-list admitting gated names to the default
	// set.
	AllowedGated []string
	// Resolver locates host modules when materializing default imports for
	// new namespaces. With a nil resolver, default imports are tracked but
	// not materialized.
	Resolver ModuleResolver
}

// Registry is the process-wide table of live namespaces, plus the
// default-import policy and the current-namespace binding. Production code
// shares one instance through Global; tests create isolated instances with
// NewRegistry so that concurrent suites never share state.
type Registry struct {
	namespaces     *atom.Atom[hashmap.Map] // Symbol -> *Ns
	defaultImports *atom.Atom[hashmap.Map] // Symbol -> true, a set
	gated          map[string]bool
	allowed        map[string]bool
	resolver       ModuleResolver

	// The *ns* var of the core namespace. Its root is the core namespace;
	// scoped namespace switches push dynamic bindings onto it.
	nsVar *Var
}

// NewRegistry creates a fresh, isolated registry pre-seeded with the core
// namespace and its *ns* var.
func NewRegistry(cfg RegistryConfig) *Registry {
	r := &Registry{
		gated:    make(map[string]bool),
		allowed:  make(map[string]bool),
		resolver: cfg.Resolver,
	}
	for _, name := range cfg.GatedImports {
		r.gated[name] = true
	}
	for _, name := range cfg.AllowedGated {
		r.allowed[name] = true
	}
	imports := emptySymMap
	for _, s := range cfg.DefaultImports {
		imports = imports.Assoc(s, true)
	}
	r.defaultImports = atom.New(imports)

	core := r.newNs(coreSym)
	r.namespaces = atom.New(emptySymMap.Assoc(coreSym, core))

	nsVar := NewVarWithMeta(coreSym, nsVarSym,
		Meta{Attrs: EmptyAttrs.Assoc(dynamicSym, true)})
	nsVar.SetRoot(core)
	core.Intern(nsVarSym, nsVar, false)
	r.nsVar = nsVar
	return r
}

var (
	globalOnce sync.Once
	global     *Registry
)

// Global returns the shared registry used by production code. It is created
// on first use and lives for the rest of the process.
func Global() *Registry {
	globalOnce.Do(func() {
		global = NewRegistry(RegistryConfig{})
	})
	return global
}

// newNs constructs a namespace and applies the default-import policy to it.
func (r *Registry) newNs(name symbol.Symbol) *Ns {
	ns := NewNs(name)
	if r.resolver != nil {
		for it := r.defaultImports.Deref().Iterator(); it.HasElem(); it.Next() {
			s, _ := it.Elem()
			imp := s.(symbol.Symbol)
			if m, ok := r.resolver(imp.String()); ok {
				ns.AddImport(imp, m)
			}
		}
	}
	return ns
}

// GetOrCreate returns the namespace named name, creating it if needed. The
// operation is idempotent: when two creators race, exactly one insertion
// commits and both callers observe the winning namespace.
func (r *Registry) GetOrCreate(name symbol.Symbol) *Ns {
	for {
		m := r.namespaces.Deref()
		if ns, ok := m.Index(name); ok {
			return ns.(*Ns)
		}
		ns := r.newNs(name)
		if r.namespaces.CompareAndSet(m, m.Assoc(name, ns)) {
			logger.Println("created namespace", name.String())
			return ns
		}
		// Lost the race; the next read either finds the winner's entry or
		// retries the insert. The namespace built here is discarded so that
		// two objects never coexist under one name.
	}
}

// Remove removes the namespace named name from the registry and returns it.
// Removing the core namespace fails with errs.ProtectedNamespace; removing
// an absent name returns (nil, nil).
func (r *Registry) Remove(name symbol.Symbol) (*Ns, error) {
	if name == coreSym {
		return nil, errs.ProtectedNamespace{Name: name.String()}
	}
	for {
		m := r.namespaces.Deref()
		v, ok := m.Index(name)
		if !ok {
			return nil, nil
		}
		if r.namespaces.CompareAndSet(m, m.Dissoc(name)) {
			logger.Println("removed namespace", name.String())
			return v.(*Ns), nil
		}
	}
}

// All returns a point-in-time snapshot of the name-to-namespace mapping.
func (r *Registry) All() hashmap.Map {
	return r.namespaces.Deref()
}

// AddDefaultImport admits a gated import name into the set of imports
// automatically added to new namespaces. Only names in the gated set are
// candidates, and only when the allow-list admits them; any other name is
// silently dropped. Non-gated default imports are fixed at registry
// construction.
func (r *Registry) AddDefaultImport(name symbol.Symbol) {
	if !r.gated[name.String()] || !r.allowed[name.String()] {
		return
	}
	r.defaultImports.Swap(func(m hashmap.Map) hashmap.Map {
		return m.Assoc(name, true)
	})
}

// DefaultImports returns the current default-import set.
func (r *Registry) DefaultImports() []symbol.Symbol {
	m := r.defaultImports.Deref()
	names := make([]symbol.Symbol, 0, m.Len())
	for it := m.Iterator(); it.HasElem(); it.Next() {
		s, _ := it.Elem()
		names = append(names, s.(symbol.Symbol))
	}
	return names
}

// NSVar returns the *ns* var of the core namespace.
func (r *Registry) NSVar() *Var { return r.nsVar }

// CurrentNS returns the current namespace.
func (r *Registry) CurrentNS() *Ns {
	if ns, ok := r.nsVar.Deref().(*Ns); ok {
		return ns
	}
	return nil
}

// SetCurrentNS makes ns the current namespace, assigning the innermost
// dynamic binding of *ns* if one is in effect and the root binding
// otherwise.
func (r *Registry) SetCurrentNS(ns *Ns) {
	r.nsVar.SetValue(ns)
}

// InNS calls f with the named namespace (created if needed) as the current
// namespace. The previous current namespace is restored on every exit path,
// including panics, so a failure inside f never leaves the switch visible to
// later code.
func (r *Registry) InNS(name symbol.Symbol, f func(*Ns) error) error {
	ns := r.GetOrCreate(name)
	return r.nsVar.WithBinding(ns, func() error {
		return f(ns)
	})
}

// nameCounter numbers the host-level names generated for compiled functions
// and vars so they never collide.
var nameCounter = atom.New(0)

// NextNameID increments the name counter and returns the new value.
func NextNameID() int {
	return nameCounter.Swap(func(i int) int { return i + 1 })
}

// GenName generates a unique host-level name with the given prefix.
func GenName(prefix string) string {
	return fmt.Sprintf("%s_%d", prefix, NextNameID())
}
