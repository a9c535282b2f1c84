package schemaemit

import (
	"fmt"

	"github.com/oaslang/schemaforge/gencontext"
	"github.com/oaslang/schemaforge/internal/unionshape"
	"github.com/oaslang/schemaforge/ir"
	"github.com/oaslang/schemaforge/warnings"
)

// LowerUnion renders a Union's validator, trying the same shapes in the
// same order as typeemit.LowerUnion so the two stay mechanically in
// lock-step (SPEC_FULL.md section 10).
func LowerUnion(t ir.Type, ctx *gencontext.Context, inline bool) string {
	_, nonNull, hasNull := unionshape.Split(t.Members)

	if hasNull && len(nonNull) == 1 {
		sub := Lower(nonNull[0], ctx.Child(".some"), true)
		if isNullableReturning(nonNull[0]) {
			return sub
		}
		return fmt.Sprintf("nullable_as_option(%s)", sub)
	}

	if len(nonNull) == 0 {
		return "null_()"
	}

	if array, ok := unionshape.ArrayPlusElement(nonNull); ok {
		rendered := Lower(array, ctx, true)
		return wrapNullable(rendered, array, hasNull)
	}

	if unionshape.IsEnumShape(nonNull) {
		rendered := lowerStringEnum(nonNull)
		if hasNull {
			return fmt.Sprintf("nullable_as_option(%s)", rendered)
		}
		return rendered
	}

	refName := func(m ir.Type) string { return m.RefName }
	if _, ok := unionshape.Classify(nonNull, refName); ok {
		name := ctx.Extract(ir.Type{Kind: ir.KindUnion, Members: nonNull}, true)
		ref := name + ".schema"
		if hasNull {
			return fmt.Sprintf("nullable_as_option(%s)", ref)
		}
		return ref
	}

	last := nonNull[len(nonNull)-1]
	ctx.Warnings.Addf(warnings.ComplexUnionSimplified, ctx.Path,
		"union %s is not discriminable by runtime kind; falling back to last member %s",
		ir.Union(nonNull...), last)
	rendered := Lower(last, ctx, true)
	return wrapNullable(rendered, last, hasNull)
}

func wrapNullable(rendered string, t ir.Type, hasNull bool) string {
	if !hasNull {
		return rendered
	}
	if isNullableReturning(t) {
		return rendered
	}
	return fmt.Sprintf("nullable_as_option(%s)", rendered)
}

func lowerStringEnum(members []ir.Type) string {
	values := make([]string, 0, len(members))
	for _, m := range members {
		values = append(values, fmt.Sprintf("%q", m.Literal.String))
	}
	out := "stringEnum(["
	for i, v := range values {
		if i > 0 {
			out += ", "
		}
		out += v
	}
	out += "])"
	return out
}

// UnboxedVariantValidator renders the validator for an extracted
// discriminable union: a runtime-kind dispatch choosing among each
// member's validator, wrapped so the decoded value carries the matching
// constructor from typeemit.UnboxedVariantDecl.
func UnboxedVariantValidator(t ir.Type, ctx *gencontext.Context) string {
	refName := func(m ir.Type) string { return m.RefName }
	members, ok := unionshape.Classify(t.Members, refName)
	if !ok {
		last := t.Members[len(t.Members)-1]
		return Lower(last, ctx, true)
	}

	var b []string
	for _, m := range members {
		sub := Lower(m.Type, ctx.Child(fmt.Sprintf(".%s", m.Constructor)), true)
		b = append(b, fmt.Sprintf("(%s, %s)", m.Constructor, sub))
	}
	out := "unboxedVariant(["
	for i, c := range b {
		if i > 0 {
			out += ", "
		}
		out += c
	}
	out += "])"
	return out
}
