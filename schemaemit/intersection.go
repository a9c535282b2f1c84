package schemaemit

import (
	"github.com/imdario/mergo"

	"github.com/oaslang/schemaforge/gencontext"
	"github.com/oaslang/schemaforge/ir"
	"github.com/oaslang/schemaforge/warnings"
)

// LowerIntersection mirrors typeemit.LowerIntersection's merge decision
// exactly so the type and its validator agree on which members were kept.
func LowerIntersection(t ir.Type, ctx *gencontext.Context, inline bool) string {
	if len(t.Members) == 0 {
		return "null_()"
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
		return ctx.Extract(merged, false) + ".schema"
	}
	return ObjectLiteral(merged, ctx)
}

// mergeObjectMembers matches typeemit's merge policy exactly (last-writer-
// wins on name collision across object members via mergo.WithOverride,
// non-object members dropped) so both emitters extract the identical
// merged Object and thus the identical structural key and synthetic name.
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
