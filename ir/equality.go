package ir

import (
	"sort"
	"strconv"
	"strings"
)

// Key returns a canonical string encoding of t that two structurally equal
// types always share, and that two structurally different types never
// share. Constraint fields are deliberately omitted, per invariant 2 of the
// data model: grammar-level equality ignores refinements. It doubles as the
// "structural pretty-print key" the optimiser uses to deduplicate union
// members (spec section on composition normalisation).
func Key(t Type) string {
	var b strings.Builder
	writeKey(&b, t)
	return b.String()
}

func writeKey(b *strings.Builder, t Type) {
	b.WriteString(t.Kind.String())
	switch t.Kind {
	case KindArray:
		b.WriteByte('(')
		if t.Items != nil {
			writeKey(b, *t.Items)
		}
		b.WriteByte(')')
	case KindObject:
		b.WriteString("{")
		for i, p := range t.Properties {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(p.Name)
			b.WriteByte(':')
			writeKey(b, p.Type)
			if p.Required {
				b.WriteString("!")
			}
		}
		b.WriteString("}")
		if t.AdditionalProperties != nil {
			b.WriteString("+")
			writeKey(b, *t.AdditionalProperties)
		}
	case KindLiteral:
		b.WriteByte('(')
		switch t.Literal.Kind {
		case LiteralString:
			b.WriteString(strconv.Quote(t.Literal.String))
		case LiteralNumber:
			b.WriteString(strconv.FormatFloat(t.Literal.Number, 'g', -1, 64))
		case LiteralBoolean:
			b.WriteString(strconv.FormatBool(t.Literal.Bool))
		case LiteralNull:
			b.WriteString("null")
		}
		b.WriteByte(')')
	case KindUnion, KindIntersection:
		keys := make([]string, len(t.Members))
		for i, m := range t.Members {
			keys[i] = Key(m)
		}
		// Union/Intersection members are unordered for equality purposes
		// (two unions differing only in member order are the same type),
		// but Members itself keeps source order for deterministic emission.
		sort.Strings(keys)
		b.WriteByte('[')
		b.WriteString(strings.Join(keys, "|"))
		b.WriteByte(']')
	case KindReference:
		b.WriteByte('(')
		b.WriteString(t.RefName)
		b.WriteByte(')')
	case KindOption:
		b.WriteByte('(')
		if t.Of != nil {
			writeKey(b, *t.Of)
		}
		b.WriteByte(')')
	}
}

// Equal reports whether a and b have the same variant and equal children,
// ignoring constraint fields on primitives.
func Equal(a, b Type) bool {
	return Key(a) == Key(b)
}
