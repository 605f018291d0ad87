package runtime

import "sort"

// Module is an opaque handle to a host module recorded in a namespace's
// import table. The runtime never interprets a module's contents; it only
// enumerates attribute names for completion and resolves attributes by name
// on behalf of the compiler.
type Module interface {
	// Attr returns the named attribute and whether it exists.
	Attr(name string) (interface{}, bool)
	// AttrNames returns the names of all enumerable attributes.
	AttrNames() []string
}

// MapModule is a Module backed by a plain map. It is used by bootstrap code
// to expose host functionality and by tests.
type MapModule map[string]interface{}

func (m MapModule) Attr(name string) (interface{}, bool) {
	v, ok := m[name]
	return v, ok
}

func (m MapModule) AttrNames() []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ModuleResolver locates a host module by name. A registry configured with a
// resolver uses it to materialize default imports when creating namespaces.
type ModuleResolver func(name string) (Module, bool)
