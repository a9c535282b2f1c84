package ir

import (
	"fmt"
	"strings"
)

// String renders t as a human-readable representation. It is used in
// warning messages and test failures; it is not the canonical equality key
// (see Key): it keeps union and intersection members in source order and
// omits additionalProperties. Constraint fields are not printed, and
// nesting deeper than 64 levels is cut off as "...".
func (t Type) String() string {
	var b strings.Builder
	writeString(&b, t, 0)
	return b.String()
}

func writeString(b *strings.Builder, t Type, depth int) {
	if depth > 64 {
		b.WriteString("...")
		return
	}
	switch t.Kind {
	case KindArray:
		b.WriteString("Array<")
		if t.Items != nil {
			writeString(b, *t.Items, depth+1)
		}
		b.WriteString(">")
	case KindObject:
		b.WriteString("{")
		for i, p := range t.Properties {
			if i > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(b, "%s", p.Name)
			if !p.Required {
				b.WriteString("?")
			}
			b.WriteString(": ")
			writeString(b, p.Type, depth+1)
		}
		b.WriteString("}")
	case KindLiteral:
		switch t.Literal.Kind {
		case LiteralString:
			fmt.Fprintf(b, "%q", t.Literal.String)
		case LiteralNumber:
			fmt.Fprintf(b, "%v", t.Literal.Number)
		case LiteralBoolean:
			fmt.Fprintf(b, "%v", t.Literal.Bool)
		case LiteralNull:
			b.WriteString("null")
		}
	case KindUnion:
		for i, m := range t.Members {
			if i > 0 {
				b.WriteString(" | ")
			}
			writeString(b, m, depth+1)
		}
	case KindIntersection:
		for i, m := range t.Members {
			if i > 0 {
				b.WriteString(" & ")
			}
			writeString(b, m, depth+1)
		}
	case KindReference:
		fmt.Fprintf(b, "#%s", t.RefName)
	case KindOption:
		b.WriteString("Option<")
		if t.Of != nil {
			writeString(b, *t.Of, depth+1)
		}
		b.WriteString(">")
	default:
		b.WriteString(t.Kind.String())
	}
}

// Complexity is a rough node count. The orchestrator orders its
// back-edge-removal DFS by it, simplest schema first (see
// byAscendingComplexity in package orchestrator).
func Complexity(t Type) int {
	n := 1
	if t.Items != nil {
		n += Complexity(*t.Items)
	}
	if t.AdditionalProperties != nil {
		n += Complexity(*t.AdditionalProperties)
	}
	if t.Of != nil {
		n += Complexity(*t.Of)
	}
	for _, p := range t.Properties {
		n += Complexity(p.Type)
	}
	for _, m := range t.Members {
		n += Complexity(m)
	}
	return n
}
