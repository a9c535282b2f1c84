package typeemit

import (
	"fmt"

	"github.com/oaslang/schemaforge/gencontext"
	"github.com/oaslang/schemaforge/internal/unionshape"
	"github.com/oaslang/schemaforge/ir"
	"github.com/oaslang/schemaforge/warnings"
)

// LowerUnion renders a Union per spec section 4.3, trying each shape in
// order: null-splitting, Option-of-single-nonnull, array-plus-element,
// enum (polymorphic variant), discriminable (unboxed variant), and finally
// the last-member fallback with a ComplexUnionSimplified warning.
func LowerUnion(t ir.Type, ctx *gencontext.Context, inline bool) string {
	_, nonNull, hasNull := unionshape.Split(t.Members)

	if hasNull && len(nonNull) == 1 {
		inner := Lower(nonNull[0], ctx.Child(".some"), true)
		if isOptionShaped(inner, nonNull[0]) {
			return inner
		}
		return fmt.Sprintf("option<%s>", inner)
	}

	if len(nonNull) == 0 {
		return "unit"
	}

	if array, ok := unionshape.ArrayPlusElement(nonNull); ok {
		rendered := Lower(array, ctx, true)
		return wrapIfNull(rendered, array, hasNull)
	}

	if unionshape.IsEnumShape(nonNull) {
		rendered := lowerPolyVariant(nonNull)
		if hasNull {
			return fmt.Sprintf("option<%s>", rendered)
		}
		return rendered
	}

	refName := func(m ir.Type) string { return m.RefName }
	if members, ok := unionshape.Classify(nonNull, refName); ok {
		name := ctx.Extract(ir.Type{Kind: ir.KindUnion, Members: nonNull}, true) + ".t"
		_ = members // constructor derivation is re-run identically by schemaemit from the same Classify call
		if hasNull {
			return fmt.Sprintf("option<%s>", name)
		}
		return name
	}

	last := nonNull[len(nonNull)-1]
	ctx.Warnings.Addf(warnings.ComplexUnionSimplified, ctx.Path,
		"union %s is not discriminable by runtime kind; falling back to last member %s",
		ir.Union(nonNull...), last)
	rendered := Lower(last, ctx, true)
	return wrapIfNull(rendered, last, hasNull)
}

func wrapIfNull(rendered string, t ir.Type, hasNull bool) string {
	if !hasNull {
		return rendered
	}
	if isOptionShaped(rendered, t) {
		return rendered
	}
	return fmt.Sprintf("option<%s>", rendered)
}

// lowerPolyVariant renders a union of string literals as a ReScript
// polymorphic variant type: [#tag1 | #tag2 | ...].
func lowerPolyVariant(members []ir.Type) string {
	tags := make([]string, 0, len(members))
	for _, m := range members {
		tags = append(tags, unionshape.PolyVariantTag(m.Literal.String))
	}
	out := "["
	for i, tag := range tags {
		if i > 0 {
			out += " | "
		}
		out += tag
	}
	out += "]"
	return out
}

// UnboxedVariantDecl renders the full variant declaration for an extracted
// discriminable union, one constructor per member wrapping its payload
// type. Exported so the orchestrator can render the declaration for a
// synthetic name the same way it renders an extracted record.
func UnboxedVariantDecl(t ir.Type, ctx *gencontext.Context) string {
	refName := func(m ir.Type) string { return m.RefName }
	members, ok := unionshape.Classify(t.Members, refName)
	if !ok {
		// Shouldn't happen: the entry only exists because Classify
		// succeeded when it was extracted. Fall back to the last member.
		last := t.Members[len(t.Members)-1]
		return Lower(last, ctx, true)
	}

	var out string
	for i, m := range members {
		if i > 0 {
			out += " | "
		}
		payload := Lower(m.Type, ctx.Child(fmt.Sprintf(".%s", m.Constructor)), true)
		out += fmt.Sprintf("%s(%s)", m.Constructor, payload)
	}
	return out
}
