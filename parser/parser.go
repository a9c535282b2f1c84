// Package parser lowers a rawschema.Node (a JSON-Schema object in the
// OpenAPI 3.1 dialect) into ir.Type, per spec section 4.1. Parsing never
// fails outright: unresolved references and depth breaches degrade to
// ir.Unknown with an accumulated warning, exactly as spec section 7
// prescribes.
package parser

import (
	"fmt"

	"github.com/oaslang/schemaforge/ir"
	"github.com/oaslang/schemaforge/rawschema"
	"github.com/oaslang/schemaforge/warnings"
)

// MaxDepth bounds the parser's recursion. It exists as the primary defence
// against pathological $ref cycles that escaped external dereferencing —
// the fetcher is out of scope, so the core cannot assume it always will
// have.
const MaxDepth = 30

// Parse lowers node into an ir.Type. known is the set of schema names valid
// for Reference resolution (invariant 1); it may be nil, in which case
// every $ref is trusted as-is (used when parsing a schema in isolation,
// outside of a full schema context). Any warnings produced are appended to
// sink.
func Parse(node *rawschema.Node, path string, known map[string]bool, sink *warnings.Sink) ir.Type {
	return parse(node, path, known, sink, 0)
}

func parse(node *rawschema.Node, path string, known map[string]bool, sink *warnings.Sink, depth int) ir.Type {
	if node == nil {
		return ir.Unknown()
	}
	if depth > MaxDepth {
		sink.Addf(warnings.DepthLimitReached, path,
			"recursion depth exceeded %d while parsing", MaxDepth)
		return ir.Unknown()
	}

	// Rule 1: $ref. Composition keywords on the same object are ignored.
	if node.Ref != "" {
		return parseRef(node.Ref, path, known, sink)
	}

	// Rule 2: nullable wraps the base type with the flag stripped.
	if node.Nullable {
		stripped := *node
		stripped.Nullable = false
		return ir.Option(parse(&stripped, path, known, sink, depth+1))
	}

	// Rule 3: dispatch on type.
	switch node.Type {
	case rawschema.TypeString:
		return ir.String(node.MinLength, node.MaxLength, node.Pattern)
	case rawschema.TypeNumber:
		return ir.Number(node.Minimum, node.Maximum, nil)
	case rawschema.TypeInteger:
		return ir.Integer(node.Minimum, node.Maximum, nil)
	case rawschema.TypeBoolean:
		return ir.Boolean()
	case rawschema.TypeNull:
		return ir.Null()
	case rawschema.TypeArray:
		return parseArray(node, path, known, sink, depth)
	case rawschema.TypeObject:
		return parseObject(node, path, known, sink, depth)
	default:
		if node.Type != "" && !rawschema.KnownPrimitiveType(node.Type) {
			sink.Addf(warnings.FallbackToJson, path,
				"type %q is not a recognised JSON Schema primitive", node.Type)
		}
	}

	// Rule 4: no type, enum present.
	if len(node.Enum) > 0 {
		return parseEnum(node.Enum)
	}

	// Rule 5: no type, composition present.
	if len(node.AllOf) > 0 {
		return parseMembers(node.AllOf, ir.KindIntersection, path, known, sink, depth)
	}
	if len(node.OneOf) > 0 {
		return parseMembers(node.OneOf, ir.KindUnion, path, known, sink, depth)
	}
	if len(node.AnyOf) > 0 {
		return parseMembers(node.AnyOf, ir.KindUnion, path, known, sink, depth)
	}

	// Rule 6.
	return ir.Unknown()
}

func parseRef(ref, path string, known map[string]bool, sink *warnings.Sink) ir.Type {
	name, err := rawschema.RefName(ref)
	if err != nil {
		sink.Addf(warnings.FallbackToJson, path, "invalid $ref %q: %v", ref, err)
		return ir.Unknown()
	}
	if known != nil && !known[name] {
		sink.Addf(warnings.FallbackToJson, path,
			"$ref %q does not resolve to a known component schema", ref)
		return ir.Unknown()
	}
	return ir.Reference(name)
}

func parseArray(node *rawschema.Node, path string, known map[string]bool, sink *warnings.Sink, depth int) ir.Type {
	items := ir.Unknown()
	if node.Items != nil {
		items = parse(node.Items, path+".items", known, sink, depth+1)
	}
	return ir.Array(items, node.MinItems, node.MaxItems, node.UniqueItems)
}

func parseObject(node *rawschema.Node, path string, known map[string]bool, sink *warnings.Sink, depth int) ir.Type {
	if len(node.AllOf) > 0 {
		return parseMembers(node.AllOf, ir.KindIntersection, path, known, sink, depth)
	}

	required := make(map[string]bool, len(node.Required))
	for _, r := range node.Required {
		required[r] = true
	}

	props := make([]ir.Property, 0, node.Properties.Len())
	for _, name := range node.Properties.Names() {
		child, _ := node.Properties.Get(name)
		childPath := fmt.Sprintf("%s.%s", path, name)
		props = append(props, ir.Property{
			Name:     name,
			Type:     parse(child, childPath, known, sink, depth+1),
			Required: required[name],
		})
	}

	var additional *ir.Type
	switch v := node.AdditionalProperties.(type) {
	case nil:
		// no additionalProperties keyword: leave nil.
	case bool:
		if v {
			u := ir.Unknown()
			additional = &u
		}
		// additionalProperties: false means no dictionary value type.
	case map[string]interface{}:
		sub, err := nodeFromMap(v)
		if err == nil {
			t := parse(sub, path+".additionalProperties", known, sink, depth+1)
			additional = &t
		} else {
			sink.Addf(warnings.MissingSchema, path, "malformed additionalProperties: %v", err)
		}
	}

	return ir.Object(props, additional)
}

func parseEnum(values []interface{}) ir.Type {
	members := make([]ir.Type, 0, len(values))
	for _, v := range values {
		members = append(members, literalFromValue(v))
	}
	return ir.Union(members...)
}

func literalFromValue(v interface{}) ir.Type {
	switch val := v.(type) {
	case string:
		return ir.LitString(val)
	case bool:
		return ir.LitBool(val)
	case float64:
		return ir.LitNumber(val)
	case nil:
		return ir.LitNull()
	default:
		return ir.Unknown()
	}
}

func parseMembers(nodes []*rawschema.Node, kind ir.Kind, path string, known map[string]bool, sink *warnings.Sink, depth int) ir.Type {
	members := make([]ir.Type, 0, len(nodes))
	for i, n := range nodes {
		childPath := fmt.Sprintf("%s[%d]", path, i)
		members = append(members, parse(n, childPath, known, sink, depth+1))
	}
	if kind == ir.KindIntersection {
		return ir.Intersection(members...)
	}
	return ir.Union(members...)
}
