// Package symbol defines the symbolic name type used as the key of every
// table in the runtime.
package symbol

import (
	"strings"

	"src.elv.sh/pkg/persistent/hash"
)

// Symbol is an immutable, optionally namespace-qualified name. Symbols are
// value types; two symbols are equal exactly when their namespace and name
// parts are equal.
type Symbol struct {
	ns   string
	name string
}

// New returns an unqualified symbol.
func New(name string) Symbol {
	return Symbol{name: name}
}

// Qualified returns a symbol qualified with a namespace part.
func Qualified(ns, name string) Symbol {
	return Symbol{ns: ns, name: name}
}

// Parse parses a symbol from its textual form, splitting the namespace part
// on the first slash. "a/b" parses as namespace "a", name "b"; "a" parses as
// an unqualified symbol.
func Parse(s string) Symbol {
	if i := strings.IndexByte(s, '/'); i > 0 && i < len(s)-1 {
		return Symbol{ns: s[:i], name: s[i+1:]}
	}
	return Symbol{name: s}
}

// Name returns the simple name part.
func (s Symbol) Name() string { return s.name }

// NS returns the namespace part, or "" for an unqualified symbol.
func (s Symbol) NS() string { return s.ns }

func (s Symbol) String() string {
	if s.ns == "" {
		return s.name
	}
	return s.ns + "/" + s.name
}

// Hash returns the 32-bit hash of the symbol.
func (s Symbol) Hash() uint32 {
	h := hash.DJBInit
	h = hash.DJBCombine(h, hash.String(s.ns))
	h = hash.DJBCombine(h, hash.String(s.name))
	return h
}

// Equal reports whether other is a Symbol equal to s.
func (s Symbol) Equal(other interface{}) bool {
	s2, ok := other.(Symbol)
	return ok && s == s2
}

// Equal is a hashmap.EqualFunc for maps keyed by symbols.
func Equal(k1, k2 interface{}) bool {
	s1, ok := k1.(Symbol)
	if !ok {
		return k1 == k2
	}
	return s1.Equal(k2)
}

// Hash is a hashmap.HashFunc for maps keyed by symbols.
func Hash(k interface{}) uint32 {
	if s, ok := k.(Symbol); ok {
		return s.Hash()
	}
	return 0
}
