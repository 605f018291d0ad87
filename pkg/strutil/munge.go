// Package strutil contains string utilities for mapping runtime names onto
// host identifiers.
package strutil

import "strings"

// Replacements for characters that are legal in runtime symbols but not in
// host identifiers. '-' maps to '_' so that idiomatic lisp names stay
// readable after munging.
var mungeReplacements = map[rune]string{
	'+':  "__PLUS__",
	'-':  "_",
	'*':  "__STAR__",
	'/':  "__DIV__",
	'>':  "__GT__",
	'<':  "__LT__",
	'!':  "__BANG__",
	'=':  "__EQ__",
	'?':  "__Q__",
	'\\': "__IDIV__",
	'&':  "__AMP__",
}

var goKeywords = map[string]bool{
	"break": true, "case": true, "chan": true, "const": true,
	"continue": true, "default": true, "defer": true, "else": true,
	"fallthrough": true, "for": true, "func": true, "go": true, "goto": true,
	"if": true, "import": true, "interface": true, "map": true,
	"package": true, "range": true, "return": true, "select": true,
	"struct": true, "switch": true, "type": true, "var": true,
}

var goPredeclared = map[string]bool{
	"any": true, "append": true, "bool": true, "byte": true, "cap": true,
	"close": true, "comparable": true, "complex": true, "complex64": true,
	"complex128": true, "copy": true, "delete": true, "error": true,
	"false": true, "float32": true, "float64": true, "imag": true,
	"int": true, "int8": true, "int16": true, "int32": true, "int64": true,
	"iota": true, "len": true, "make": true, "new": true, "nil": true,
	"panic": true, "print": true, "println": true, "real": true,
	"recover": true, "rune": true, "string": true, "true": true,
	"uint": true, "uint8": true, "uint16": true, "uint32": true,
	"uint64": true, "uintptr": true,
}

// Munge replaces characters that are not valid in host identifiers with
// replacement tokens, and renames the result if it is a host keyword.
// Collisions with predeclared host identifiers are allowed.
func Munge(s string) string {
	return munge(s, true)
}

// MungeNoBuiltins is Munge, but additionally renames results that collide
// with predeclared host identifiers.
func MungeNoBuiltins(s string) string {
	return munge(s, false)
}

func munge(s string, allowBuiltins bool) string {
	var sb strings.Builder
	for _, r := range s {
		if repl, ok := mungeReplacements[r]; ok {
			sb.WriteString(repl)
		} else {
			sb.WriteRune(r)
		}
	}
	munged := sb.String()
	if goKeywords[munged] {
		return munged + "_"
	}
	if !allowBuiltins && goPredeclared[munged] {
		return munged + "_"
	}
	return munged
}

// demungeReplacements is ordered longest token first so that Demunge never
// matches a prefix of a longer token.
var demungeReplacements = []struct{ token, text string }{
	{"__PLUS__", "+"},
	{"__STAR__", "*"},
	{"__IDIV__", `\`},
	{"__BANG__", "!"},
	{"__DIV__", "/"},
	{"__AMP__", "&"},
	{"__GT__", ">"},
	{"__LT__", "<"},
	{"__EQ__", "="},
	{"__Q__", "?"},
	{"_", "-"},
}

// Demunge restores a munged name to its original symbolic form. It is used
// for diagnostics only; munging is not injective (both '-' and '_' munge to
// '_'), so Demunge prefers the lisp reading.
func Demunge(s string) string {
	var sb strings.Builder
	for i := 0; i < len(s); {
		matched := false
		for _, repl := range demungeReplacements {
			if strings.HasPrefix(s[i:], repl.token) {
				sb.WriteString(repl.text)
				i += len(repl.token)
				matched = true
				break
			}
		}
		if !matched {
			sb.WriteByte(s[i])
			i++
		}
	}
	return sb.String()
}
