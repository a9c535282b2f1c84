// Package keywordset implements the keyword-escaping and field-renaming
// pass described in spec section 9: it is decoupled from the IR and lives
// entirely at the emission boundary, shared by typeemit and schemaemit so
// a field that gets renamed gets the same identifier in both the type
// declaration (with an @as annotation) and its validator (keyed by the
// original JSON name).
package keywordset

import (
	"strings"
	"unicode"
)

// reserved holds the target language's keyword set. The generated code is
// ReScript (the dialect the original, pre-distillation implementation of
// this compiler was itself written in): its reserved-word list is the OCaml
// one, since ReScript's grammar is OCaml's.
var reserved = map[string]bool{
	"and": true, "as": true, "asr": true, "assert": true, "begin": true,
	"class": true, "constraint": true, "do": true, "done": true,
	"downto": true, "else": true, "end": true, "exception": true,
	"external": true, "false": true, "for": true, "fun": true,
	"function": true, "functor": true, "if": true, "in": true,
	"include": true, "inherit": true, "initializer": true, "land": true,
	"lazy": true, "let": true, "lor": true, "lsl": true, "lsr": true,
	"lxor": true, "match": true, "method": true, "mod": true,
	"module": true, "mutable": true, "new": true, "nonrec": true,
	"object": true, "of": true, "open": true, "or": true, "private": true,
	"rec": true, "sig": true, "struct": true, "then": true, "to": true,
	"true": true, "try": true, "type": true, "val": true, "virtual": true,
	"when": true, "while": true, "with": true,
}

// Field describes one object field as it will be rendered: the original
// JSON name, the (possibly escaped/renamed) target-language identifier, and
// whether the two differ and therefore need an @as("<original>") alias
// annotation, which the type emitter attaches to the record field.
type Field struct {
	JSONName   string
	Identifier string
	Aliased    bool
}

// Describe computes the Field for a property named jsonName.
func Describe(jsonName string) Field {
	ident := camelCase(jsonName)
	if reserved[ident] {
		ident = ident + "_"
	}
	if ident == "" {
		ident = "field_"
	}
	if !isValidLeadingChar(ident) {
		ident = "_" + ident
	}

	return Field{
		JSONName:   jsonName,
		Identifier: ident,
		Aliased:    ident != jsonName,
	}
}

// Fields is a convenience batch form of Describe.
func Fields(jsonNames []string) []Field {
	out := make([]Field, 0, len(jsonNames))
	for _, name := range jsonNames {
		out = append(out, Describe(name))
	}
	return out
}

// camelCase converts a JSON property name (snake_case, kebab-case, or
// already camelCase) into a lowerCamelCase identifier.
func camelCase(name string) string {
	var b strings.Builder
	upperNext := false
	first := true
	for _, r := range name {
		switch {
		case r == '_' || r == '-' || r == ' ':
			upperNext = true
		case upperNext:
			b.WriteRune(unicode.ToUpper(r))
			upperNext = false
			first = false
		default:
			if first {
				b.WriteRune(unicode.ToLower(r))
				first = false
			} else {
				b.WriteRune(r)
			}
		}
	}
	return b.String()
}

func isValidLeadingChar(s string) bool {
	if s == "" {
		return false
	}
	r := rune(s[0])
	return unicode.IsLower(r) || r == '_'
}
