// Package typeemit lowers an optimised ir.Type into a ReScript type
// expression (spec section 4.2). It mirrors the teacher's own recursive,
// context-threading generator shape, but where the teacher walked a single
// JSON Schema shape into Go struct tags this walks the tagged-sum IR into
// ReScript syntax, consulting a shared gencontext.Context so the schema
// emitter agrees on every synthetic name it hands out.
package typeemit

import (
	"fmt"
	"strings"

	"github.com/oaslang/schemaforge/gencontext"
	"github.com/oaslang/schemaforge/internal/keywordset"
	"github.com/oaslang/schemaforge/ir"
)

// Lower renders t as a ReScript type expression. inline is true when t sits
// in a type-constructor position (array element, option payload, union
// branch) where an unnamed record or variant is not legal syntax and must
// instead be extracted to a synthetic name via ctx.Extract.
func Lower(t ir.Type, ctx *gencontext.Context, inline bool) string {
	switch t.Kind {
	case ir.KindString:
		return "string"
	case ir.KindNumber:
		return "float"
	case ir.KindInteger:
		return "int"
	case ir.KindBoolean:
		return "bool"
	case ir.KindNull:
		return "unit"
	case ir.KindUnknown:
		return "Js.Json.t"
	case ir.KindArray:
		return lowerArray(t, ctx)
	case ir.KindObject:
		return lowerObject(t, ctx, inline)
	case ir.KindLiteral:
		return lowerLiteral(t)
	case ir.KindOption:
		return lowerOption(t, ctx)
	case ir.KindReference:
		return referenceTypeExpr(ctx, t.RefName)
	case ir.KindUnion:
		return LowerUnion(t, ctx, inline)
	case ir.KindIntersection:
		return LowerIntersection(t, ctx, inline)
	default:
		return "Js.Json.t"
	}
}

// referenceTypeExpr renders a reference to a named schema's type. Each
// named schema is emitted as its own module ("module Pet = { type t = ...
// }"), so referencing it from outside means qualifying down to its t
// member; the self-recursion case is the one exception, where
// ctx.QualifyReference already returns the bare recursive-type marker.
func referenceTypeExpr(ctx *gencontext.Context, name string) string {
	qualified := ctx.QualifyReference(name)
	if qualified == "t" {
		return qualified
	}
	return qualified + ".t"
}

func lowerArray(t ir.Type, ctx *gencontext.Context) string {
	if t.Items == nil {
		return "array<Js.Json.t>"
	}
	child := ctx.Child(".items")
	return fmt.Sprintf("array<%s>", Lower(*t.Items, child, true))
}

func lowerLiteral(t ir.Type) string {
	switch t.Literal.Kind {
	case ir.LiteralString:
		return "string"
	case ir.LiteralNumber:
		return "float"
	case ir.LiteralBoolean:
		return "bool"
	default:
		return "unit"
	}
}

// lowerOption renders Option(inner), eliding the wrap when inner already
// lowers to an option-shape (spec section 4.2, "double-option elision").
func lowerOption(t ir.Type, ctx *gencontext.Context) string {
	if t.Of == nil {
		return "option<Js.Json.t>"
	}
	inner := *t.Of
	child := ctx.Child(".of")
	lowered := Lower(inner, child, true)
	if isOptionShaped(lowered, inner) {
		return lowered
	}
	return fmt.Sprintf("option<%s>", lowered)
}

func isOptionShaped(rendered string, t ir.Type) bool {
	if strings.HasPrefix(rendered, "option<") {
		return true
	}
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

// lowerObject renders an Object. At the top level (inline=false, the shape
// a named schema's own declaration uses) it produces the record literal
// directly; nested, it's extracted to a synthetic name since ReScript
// record types cannot be declared anonymously inside another type.
func lowerObject(t ir.Type, ctx *gencontext.Context, inline bool) string {
	if len(t.Properties) == 0 {
		if t.AdditionalProperties != nil {
			child := ctx.Child(".additionalProperties")
			return fmt.Sprintf("Js.Dict.t<%s>", Lower(*t.AdditionalProperties, child, true))
		}
		return "Js.Json.t"
	}
	if inline {
		return ctx.Extract(t, false) + ".t"
	}
	return RecordLiteral(t, ctx)
}

// RecordLiteral renders an Object's fields as a ReScript record literal
// type, `{name: type, ...}`. Exported so the orchestrator can render the
// top-level declaration for an extracted record without re-deciding
// inline-ness.
func RecordLiteral(t ir.Type, ctx *gencontext.Context) string {
	var b strings.Builder
	b.WriteString("{")
	for i, p := range t.Properties {
		if i > 0 {
			b.WriteString(", ")
		}
		field := keywordset.Describe(p.Name)
		child := ctx.Child("." + p.Name)
		fieldType := Lower(p.Type, child, true)
		if !p.Required && !isOptionShaped(fieldType, p.Type) {
			fieldType = fmt.Sprintf("option<%s>", fieldType)
		}
		if field.Aliased {
			fmt.Fprintf(&b, "@as(%q) %s: %s", field.JSONName, field.Identifier, fieldType)
		} else {
			fmt.Fprintf(&b, "%s: %s", field.Identifier, fieldType)
		}
	}
	b.WriteString("}")
	return b.String()
}
