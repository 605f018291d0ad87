package runtime

import (
	"sort"
	"strings"

	"github.com/djblue/basilisp/pkg/symbol"
)

// Complete returns the candidate completions of prefix inside the namespace,
// sorted and deduplicated. Direct bindings (interns and refers) complete as
// leaves; aliases and imports complete as navigable groups with a trailing
// slash, and a prefix of the form "qualifier/rest" completes the members of
// the aliased namespace or imported module instead.
//
// The result is a set for correctness purposes; sorting is only for display.
func (ns *Ns) Complete(prefix string) []string {
	var items []string
	if i := strings.IndexByte(prefix, '/'); i >= 0 {
		items = ns.completeQualified(prefix[:i], prefix[i+1:])
	} else {
		items = ns.completeUnqualified(prefix)
	}
	sort.Strings(items)
	return dedup(items)
}

// completeUnqualified scans all four symbol sources of the namespace itself.
func (ns *Ns) completeUnqualified(prefix string) []string {
	var items []string
	appendMatching := func(m interface{ String() string }, suffix string) {
		if name := m.String(); strings.HasPrefix(name, prefix) {
			items = append(items, name+suffix)
		}
	}
	for it := ns.Interns().Iterator(); it.HasElem(); it.Next() {
		s, _ := it.Elem()
		appendMatching(s.(symbol.Symbol), "")
	}
	for it := ns.Refers().Iterator(); it.HasElem(); it.Next() {
		s, _ := it.Elem()
		appendMatching(s.(symbol.Symbol), "")
	}
	for it := ns.Aliases().Iterator(); it.HasElem(); it.Next() {
		s, _ := it.Elem()
		appendMatching(s.(symbol.Symbol), "/")
	}
	for it := ns.Imports().Iterator(); it.HasElem(); it.Next() {
		s, _ := it.Elem()
		appendMatching(s.(symbol.Symbol), "/")
	}
	for it := ns.ImportAliases().Iterator(); it.HasElem(); it.Next() {
		s, _ := it.Elem()
		appendMatching(s.(symbol.Symbol), "/")
	}
	return items
}

// completeQualified scans the members behind a qualifier: the public interns
// of an aliased namespace, or the attributes of an imported module.
func (ns *Ns) completeQualified(qualifier, rest string) []string {
	var items []string
	q := symbol.New(qualifier)
	if aliased := ns.GetAlias(q); aliased != nil {
		for it := aliased.Interns().Iterator(); it.HasElem(); it.Next() {
			s, v := it.Elem()
			if v.(*Var).IsPrivate() {
				continue
			}
			if name := s.(symbol.Symbol).String(); strings.HasPrefix(name, rest) {
				items = append(items, qualifier+"/"+name)
			}
		}
		return items
	}
	if m := ns.GetImport(q); m != nil {
		for _, name := range m.AttrNames() {
			if strings.HasPrefix(name, rest) {
				items = append(items, qualifier+"/"+name)
			}
		}
	}
	return items
}

// dedup collapses duplicates in a sorted candidate list.
func dedup(items []string) []string {
	var result []string
	for i, item := range items {
		if i == 0 || item != items[i-1] {
			result = append(result, item)
		}
	}
	return result
}
