// Package optimizer implements the IR optimisation pass described in spec
// section 4.1: flattening nested Union/Intersection one level, deduplicating
// union members, collapsing single-element/empty compositions, and bounded
// simple-reference inlining.
package optimizer

import "github.com/oaslang/schemaforge/ir"

// maxInlineDepth bounds simple-reference inlining so a chain of trivial
// aliases doesn't unfold indefinitely.
const maxInlineDepth = 2

// Optimize runs the full pass over t. context maps schema names to their
// IR (compiler.Compile passes the parsed, not yet optimized bodies; an
// inlined body is optimized as it is inlined), and is consulted only for
// simple-reference inlining; it may be nil, in which case references are
// left untouched.
func Optimize(t ir.Type, context map[string]ir.Type) ir.Type {
	return optimize(t, context, 0)
}

func optimize(t ir.Type, context map[string]ir.Type, inlineDepth int) ir.Type {
	switch t.Kind {
	case ir.KindArray:
		if t.Items != nil {
			items := optimize(*t.Items, context, inlineDepth)
			t.Items = &items
		}
		return t

	case ir.KindObject:
		if len(t.Properties) > 0 {
			props := make([]ir.Property, len(t.Properties))
			for i, p := range t.Properties {
				p.Type = optimize(p.Type, context, inlineDepth)
				props[i] = p
			}
			t.Properties = props
		}
		if t.AdditionalProperties != nil {
			ap := optimize(*t.AdditionalProperties, context, inlineDepth)
			t.AdditionalProperties = &ap
		}
		return t

	case ir.KindOption:
		if t.Of == nil {
			return t
		}
		return ir.Option(optimize(*t.Of, context, inlineDepth))

	case ir.KindUnion:
		return collapse(ir.KindUnion, optimizeMembers(ir.KindUnion, t.Members, context, inlineDepth))

	case ir.KindIntersection:
		return collapse(ir.KindIntersection, optimizeMembers(ir.KindIntersection, t.Members, context, inlineDepth))

	case ir.KindReference:
		return maybeInline(t, context, inlineDepth)

	default:
		return t
	}
}

// optimizeMembers optimizes each member, then flattens one level: a member
// that is itself the same composition kind as parentKind has its own
// members spliced into the parent list. Union-of-Union and
// Intersection-of-Intersection flatten this way; a Union member that
// happens to be an Intersection (or vice versa) is a different kind and
// must not be spliced, or the splice would destroy its allOf/anyOf
// semantics. Because members are optimized bottom-up first, this
// one-level, same-kind-only splice is sufficient to fully flatten
// arbitrarily deep same-kind nesting.
func optimizeMembers(parentKind ir.Kind, members []ir.Type, context map[string]ir.Type, inlineDepth int) []ir.Type {
	flat := make([]ir.Type, 0, len(members))
	for _, m := range members {
		opt := optimize(m, context, inlineDepth)
		if opt.Kind == parentKind {
			flat = append(flat, opt.Members...)
		} else {
			flat = append(flat, opt)
		}
	}
	return flat
}

// collapse applies the dedup-and-collapse rules: empty -> Unknown, single
// member -> that member, dedup by structural key, otherwise the
// composition of kind with its deduplicated members.
func collapse(kind ir.Kind, members []ir.Type) ir.Type {
	deduped := dedupe(members)
	switch len(deduped) {
	case 0:
		return ir.Unknown()
	case 1:
		return deduped[0]
	default:
		return ir.Type{Kind: kind, Members: deduped}
	}
}

func dedupe(members []ir.Type) []ir.Type {
	seen := make(map[string]bool, len(members))
	out := make([]ir.Type, 0, len(members))
	for _, m := range members {
		key := ir.Key(m)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, m)
	}
	return out
}

// maybeInline replaces a Reference with the body of the schema it names
// when that body is "simple" (a primitive, a simple array, or another
// reference) and the inline-depth budget allows it.
func maybeInline(t ir.Type, context map[string]ir.Type, inlineDepth int) ir.Type {
	if context == nil || inlineDepth >= maxInlineDepth {
		return t
	}
	target, ok := context[t.RefName]
	if !ok || !isSimple(target) {
		return t
	}
	return optimize(target, context, inlineDepth+1)
}

func isSimple(t ir.Type) bool {
	switch t.Kind {
	case ir.KindString, ir.KindNumber, ir.KindInteger, ir.KindBoolean, ir.KindNull, ir.KindUnknown, ir.KindReference:
		return true
	case ir.KindArray:
		return t.Items != nil && isSimple(*t.Items)
	default:
		return false
	}
}
