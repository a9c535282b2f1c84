// Package unionshape centralises the union-discriminability decision (spec
// section 4.3) so the type emitter and schema emitter consult literally the
// same function rather than two independently-maintained copies that could
// drift apart — the one place outside gencontext.Context itself where
// agreement between the two emitters is load-bearing.
package unionshape

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/oaslang/schemaforge/ir"
)

// maxEnumMembers bounds how large a pure-string-literal union can be and
// still lower to a polymorphic variant (spec section 4.3, "Enum shape").
const maxEnumMembers = 50

// Split partitions members into the nullish ones and the rest, and reports
// whether any nullish member was present.
func Split(members []ir.Type) (nulls, nonNull []ir.Type, hasNull bool) {
	for _, m := range members {
		if ir.IsNullish(m) {
			nulls = append(nulls, m)
		} else {
			nonNull = append(nonNull, m)
		}
	}
	return nulls, nonNull, len(nulls) > 0
}

// IsEnumShape reports whether every member is a string literal and the
// count falls in the range that's still valid inline (1..50).
func IsEnumShape(members []ir.Type) bool {
	if len(members) < 1 || len(members) > maxEnumMembers {
		return false
	}
	for _, m := range members {
		if m.Kind != ir.KindLiteral || m.Literal.Kind != ir.LiteralString {
			return false
		}
	}
	return true
}

// ArrayPlusElement detects the "array-or-element" shape: exactly two
// members where one is Array(t) and the other is structurally t itself. It
// returns the array member when the shape matches.
func ArrayPlusElement(members []ir.Type) (array ir.Type, ok bool) {
	if len(members) != 2 {
		return ir.Type{}, false
	}
	a, b := members[0], members[1]
	if a.Kind == ir.KindArray && a.Items != nil && ir.Equal(*a.Items, b) {
		return a, true
	}
	if b.Kind == ir.KindArray && b.Items != nil && ir.Equal(*b.Items, a) {
		return b, true
	}
	return ir.Type{}, false
}

// runtimeKind classifies a union member the way a runtime value decoder
// would: the vocabulary is deliberately coarser than ir.Kind (Object,
// Reference, and Intersection all collapse to "object", since a decoder
// can't tell them apart without already knowing the schema).
func runtimeKind(t ir.Type) (string, bool) {
	switch t.Kind {
	case ir.KindBoolean:
		return "boolean", true
	case ir.KindString:
		return "string", true
	case ir.KindNumber, ir.KindInteger:
		return "number", true
	case ir.KindArray:
		return "array", true
	case ir.KindObject, ir.KindReference, ir.KindIntersection:
		return "object", true
	case ir.KindNull:
		return "null", true
	case ir.KindLiteral:
		switch t.Literal.Kind {
		case ir.LiteralString:
			return "string", true
		case ir.LiteralNumber:
			return "number", true
		case ir.LiteralBoolean:
			return "boolean", true
		case ir.LiteralNull:
			return "null", true
		}
	}
	return "", false
}

// Member is one branch of an unboxed variant: its runtime kind, the
// constructor name both emitters must use, and the IR it wraps.
type Member struct {
	RuntimeKind string
	Constructor string
	Type        ir.Type
}

// Classify decides whether members form an unboxable union (every runtime
// kind appears at most once) and if so derives a stable constructor name
// per member. It returns ok=false when the union is not discriminable,
// signalling the last-member fallback.
func Classify(members []ir.Type, refName func(ir.Type) string) ([]Member, bool) {
	counts := make(map[string]int, len(members))
	kinds := make([]string, 0, len(members))
	for _, m := range members {
		k, ok := runtimeKind(m)
		if !ok {
			return nil, false
		}
		counts[k]++
		if counts[k] > 1 {
			return nil, false
		}
		kinds = append(kinds, k)
	}

	out := make([]Member, len(members))
	used := make(map[string]int)
	for i, m := range members {
		name := constructorName(m, kinds[i], refName)
		if n, collided := used[name]; collided {
			used[name] = n + 1
			name = name + strconv.Itoa(n+1)
		} else {
			used[name] = 1
		}
		out[i] = Member{RuntimeKind: kinds[i], Constructor: name, Type: m}
	}
	return out, true
}

func constructorName(t ir.Type, kind string, refName func(ir.Type) string) string {
	switch t.Kind {
	case ir.KindReference:
		if refName != nil {
			return PascalCase(refName(t))
		}
		return PascalCase(t.RefName)
	case ir.KindLiteral:
		if t.Literal.Kind == ir.LiteralString {
			return PascalCase(t.Literal.String)
		}
	}
	switch kind {
	case "boolean":
		return "Bool"
	case "string":
		return "String"
	case "number":
		return "Number"
	case "array":
		return "Array"
	case "object":
		return "Object"
	case "null":
		return "Null"
	}
	return "Variant"
}

// PolyVariantTag renders a string literal as a ReScript polymorphic-variant
// tag: "#" followed by a sanitized identifier.
func PolyVariantTag(value string) string {
	return "#" + sanitizeTag(value)
}

func sanitizeTag(value string) string {
	var b strings.Builder
	for _, r := range value {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
	}
	tag := b.String()
	if tag == "" {
		return "empty"
	}
	if unicode.IsDigit(rune(tag[0])) {
		tag = "_" + tag
	}
	return tag
}

// PascalCase converts a snake_case/kebab-case/space-separated name into
// PascalCase, used both for variant constructor names here and for
// endpoint operation-name/type-name derivation.
func PascalCase(s string) string {
	parts := strings.FieldsFunc(s, func(r rune) bool {
		return r == '_' || r == '-' || r == ' '
	})
	var b strings.Builder
	for _, p := range parts {
		if p == "" {
			continue
		}
		r := []rune(p)
		b.WriteRune(unicode.ToUpper(r[0]))
		b.WriteString(string(r[1:]))
	}
	if b.Len() == 0 {
		return "Variant"
	}
	return b.String()
}
