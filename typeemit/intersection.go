package typeemit

import (
	"github.com/imdario/mergo"

	"github.com/oaslang/schemaforge/gencontext"
	"github.com/oaslang/schemaforge/ir"
	"github.com/oaslang/schemaforge/warnings"
)

// LowerIntersection renders an Intersection per spec section 4.4:
// all-references collapse to the last member (the optimiser has already
// deduped, so "last" here only matters for >1 remaining distinct refs);
// object-only intersections merge into one record; mixed intersections
// merge the object parts and warn that the non-object members were
// dropped.
func LowerIntersection(t ir.Type, ctx *gencontext.Context, inline bool) string {
	if len(t.Members) == 0 {
		return "unit"
	}
	if len(t.Members) == 1 {
		return Lower(t.Members[0], ctx, inline)
	}

	allRefs := true
	for _, m := range t.Members {
		if m.Kind != ir.KindReference {
			allRefs = false
			break
		}
	}
	if allRefs {
		return Lower(t.Members[len(t.Members)-1], ctx, inline)
	}

	merged, dropped := mergeObjectMembers(t.Members)
	if dropped > 0 {
		ctx.Warnings.Addf(warnings.IntersectionNotFullySupported, ctx.Path,
			"intersection mixes %d non-object member(s) with object members; only the object parts were merged", dropped)
	}

	if inline {
		return ctx.Extract(merged, false) + ".t"
	}
	return RecordLiteral(merged, ctx)
}

// mergeObjectMembers flattens the object-shaped members of an intersection
// into one synthetic Object, last-writer-wins on a name collision. The
// actual merge is done by mergo, the same override-merge library the
// corpus reaches for to combine successive maps, one member at a time into
// an accumulator keyed by property name; insertion order is tracked
// separately since mergo operates on the map's keys, not their arrival
// order.
func mergeObjectMembers(members []ir.Type) (ir.Type, int) {
	merged := map[string]ir.Property{}
	var order []string
	dropped := 0

	for _, m := range members {
		if m.Kind != ir.KindObject {
			dropped++
			continue
		}
		next := map[string]ir.Property{}
		for _, p := range m.Properties {
			next[p.Name] = p
			if _, seen := merged[p.Name]; !seen {
				order = append(order, p.Name)
			}
		}
		mergo.Merge(&merged, next, mergo.WithOverride)
	}

	props := make([]ir.Property, 0, len(order))
	for _, name := range order {
		props = append(props, merged[name])
	}
	return ir.Object(props, nil), dropped
}
