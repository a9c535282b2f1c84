// Package schemaemit lowers an optimised ir.Type into a ReScript validator
// expression (spec section 4.5), using the jsval-flavoured builder
// vocabulary pinned down in SPEC_FULL.md section 10 (field/field_or/
// as_option/nullable_as_option). It mirrors typeemit's recursion shape
// exactly and consults the same gencontext.Context, so an extracted
// complex type always has a type declaration and a validator sharing one
// synthetic name (invariant 3).
package schemaemit

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/oaslang/schemaforge/gencontext"
	"github.com/oaslang/schemaforge/internal/keywordset"
	"github.com/oaslang/schemaforge/ir"
)

// Lower renders t as a ReScript validator-builder expression. inline has
// the same meaning as in typeemit.Lower: true when t sits where an
// unnamed validator can't be declared and must be extracted instead.
func Lower(t ir.Type, ctx *gencontext.Context, inline bool) string {
	switch t.Kind {
	case ir.KindString:
		return lowerString(t)
	case ir.KindNumber:
		return lowerNumeric("number()", t)
	case ir.KindInteger:
		return lowerNumeric("int()", t)
	case ir.KindBoolean:
		return "bool()"
	case ir.KindNull:
		return "null_()"
	case ir.KindUnknown:
		return "any()"
	case ir.KindArray:
		return lowerArray(t, ctx)
	case ir.KindObject:
		return lowerObject(t, ctx, inline)
	case ir.KindLiteral:
		return lowerLiteral(t)
	case ir.KindOption:
		return lowerOption(t, ctx)
	case ir.KindReference:
		return qualifySchemaRef(ctx, t.RefName)
	case ir.KindUnion:
		return LowerUnion(t, ctx, inline)
	case ir.KindIntersection:
		return LowerIntersection(t, ctx, inline)
	default:
		return "any()"
	}
}

func lowerString(t ir.Type) string {
	base := "string()"
	if t.Pattern != "" {
		base = fmt.Sprintf("stringMatching(%q)", t.Pattern)
	}
	return chain(base, constraintCalls(t))
}

func lowerNumeric(base string, t ir.Type) string {
	return chain(base, constraintCalls(t))
}

func constraintCalls(t ir.Type) []string {
	var calls []string
	if t.MinLength != nil {
		calls = append(calls, fmt.Sprintf("minLength(%d)", *t.MinLength))
	}
	if t.MaxLength != nil {
		calls = append(calls, fmt.Sprintf("maxLength(%d)", *t.MaxLength))
	}
	if t.Minimum != nil {
		calls = append(calls, fmt.Sprintf("minimum(%s)", formatFloat(*t.Minimum)))
	}
	if t.Maximum != nil {
		calls = append(calls, fmt.Sprintf("maximum(%s)", formatFloat(*t.Maximum)))
	}
	if t.MultipleOf != nil {
		calls = append(calls, fmt.Sprintf("multipleOf(%s)", formatFloat(*t.MultipleOf)))
	}
	if t.MinItems != nil {
		calls = append(calls, fmt.Sprintf("minItems(%d)", *t.MinItems))
	}
	if t.MaxItems != nil {
		calls = append(calls, fmt.Sprintf("maxItems(%d)", *t.MaxItems))
	}
	if t.UniqueItems {
		calls = append(calls, "uniqueItems()")
	}
	return calls
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// chain appends ReScript pipe-style constraint calls onto base: "string()
// ->minLength(3)->maxLength(10)".
func chain(base string, calls []string) string {
	var b strings.Builder
	b.WriteString(base)
	for _, c := range calls {
		b.WriteString("->")
		b.WriteString(c)
	}
	return b.String()
}

func lowerArray(t ir.Type, ctx *gencontext.Context) string {
	if t.Items == nil {
		return "array(any())"
	}
	child := ctx.Child(".items")
	sub := Lower(*t.Items, child, true)
	return chain(fmt.Sprintf("array(%s)", sub), constraintCalls(t))
}

func lowerLiteral(t ir.Type) string {
	switch t.Literal.Kind {
	case ir.LiteralString:
		return fmt.Sprintf("exactly(string(), %q)", t.Literal.String)
	case ir.LiteralNumber:
		return fmt.Sprintf("exactly(number(), %s)", formatFloat(t.Literal.Number))
	case ir.LiteralBoolean:
		return fmt.Sprintf("exactly(bool(), %t)", t.Literal.Bool)
	default:
		return "null_()"
	}
}

// lowerOption renders nullable_as_option(inner), eliding the wrap when
// inner is already nullable-returning (mirrors typeemit's double-option
// elision, spec section 4.2/4.5 agreement).
func lowerOption(t ir.Type, ctx *gencontext.Context) string {
	if t.Of == nil {
		return "nullable_as_option(any())"
	}
	inner := *t.Of
	child := ctx.Child(".of")
	sub := Lower(inner, child, true)
	if isNullableReturning(inner) {
		return sub
	}
	return fmt.Sprintf("nullable_as_option(%s)", sub)
}

// isNullableReturning reports whether t's own schema already returns an
// option without an extra nullable_as_option wrap: Option, or a Union
// with a nullish member (which LowerUnion already renders via
// nullable_as_option or similar).
func isNullableReturning(t ir.Type) bool {
	if t.Kind == ir.KindOption {
		return true
	}
	if t.Kind == ir.KindUnion {
		for _, m := range t.Members {
			if ir.IsNullish(m) {
				return true
			}
		}
	}
	return false
}

func qualifySchemaRef(ctx *gencontext.Context, name string) string {
	if name == ctx.SelfRefName {
		return "self()"
	}
	return ctx.QualifyReference(name) + ".schema"
}

// lowerObject renders an Object's validator. At the top level it produces
// the object({...}) builder expression directly; nested, it's extracted
// to a synthetic <Name>.schema reference alongside the type emitter's
// <Name>.t type (same synthetic name, from the same gencontext table).
func lowerObject(t ir.Type, ctx *gencontext.Context, inline bool) string {
	if len(t.Properties) == 0 {
		if t.AdditionalProperties != nil {
			child := ctx.Child(".additionalProperties")
			return fmt.Sprintf("dict(%s)", Lower(*t.AdditionalProperties, child, true))
		}
		return "any()"
	}
	if inline {
		return ctx.Extract(t, false) + ".schema"
	}
	return ObjectLiteral(t, ctx)
}

// ObjectLiteral renders an Object's fields as an object({...}) builder
// expression. Exported so the orchestrator can render the validator for an
// extracted record without re-deciding inline-ness.
func ObjectLiteral(t ir.Type, ctx *gencontext.Context) string {
	var b strings.Builder
	b.WriteString("object({")
	for i, p := range t.Properties {
		if i > 0 {
			b.WriteString(", ")
		}
		field := keywordset.Describe(p.Name)
		child := ctx.Child("." + p.Name)
		sub := Lower(p.Type, child, true)
		call := fieldCall(field.JSONName, sub, p.Required, isNullableReturning(p.Type))
		fmt.Fprintf(&b, "%s: %s", field.Identifier, call)
	}
	b.WriteString("})")
	return b.String()
}

// fieldCall renders one field's validator-builder call per SPEC_FULL.md
// section 10 / spec.md section 5: field(name, schema) when required,
// field(name, as_option(schema)) when optional and schema is already
// nullable-returning, field_or(name, nullable_as_option(schema), None)
// when optional and schema is a plain (non-nullable) validator.
func fieldCall(jsonName, schema string, required, nullableReturning bool) string {
	if required {
		return fmt.Sprintf("field(%q, %s)", jsonName, schema)
	}
	if nullableReturning {
		return fmt.Sprintf("field(%q, as_option(%s))", jsonName, schema)
	}
	return fmt.Sprintf("field_or(%q, nullable_as_option(%s), None)", jsonName, schema)
}
