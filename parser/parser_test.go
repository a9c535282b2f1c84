package parser

import (
	"testing"

	assert "github.com/stretchr/testify/require"

	"github.com/oaslang/schemaforge/ir"
	"github.com/oaslang/schemaforge/rawschema"
	"github.com/oaslang/schemaforge/warnings"
)

func TestParsePrimitives(t *testing.T) {
	var sink warnings.Sink

	{
		typ := Parse(&rawschema.Node{Type: rawschema.TypeString}, "$", nil, &sink)
		assert.Equal(t, ir.KindString, typ.Kind)
	}
	{
		typ := Parse(&rawschema.Node{Type: rawschema.TypeBoolean}, "$", nil, &sink)
		assert.Equal(t, ir.KindBoolean, typ.Kind)
	}
	assert.Empty(t, sink.All())
}

func TestParsePetObject(t *testing.T) {
	node := &rawschema.Node{
		Type:     rawschema.TypeObject,
		Required: []string{"id", "name"},
	}
	node.Properties.Add("id", &rawschema.Node{Type: rawschema.TypeInteger})
	node.Properties.Add("name", &rawschema.Node{Type: rawschema.TypeString})
	node.Properties.Add("tag", &rawschema.Node{Type: rawschema.TypeString})

	var sink warnings.Sink
	typ := Parse(node, "$", nil, &sink)

	assert.Equal(t, ir.KindObject, typ.Kind)
	assert.Len(t, typ.Properties, 3)
	assert.Equal(t, "id", typ.Properties[0].Name)
	assert.True(t, typ.Properties[0].Required)
	assert.Equal(t, "tag", typ.Properties[2].Name)
	assert.False(t, typ.Properties[2].Required)
}

func TestParseRefUnresolved(t *testing.T) {
	var sink warnings.Sink
	typ := Parse(&rawschema.Node{Ref: "#/components/schemas/Missing"}, "$", map[string]bool{}, &sink)

	assert.Equal(t, ir.KindUnknown, typ.Kind)
	assert.Len(t, sink.All(), 1)
	assert.Equal(t, warnings.FallbackToJson, sink.All()[0].Code)
}

func TestParseRefResolved(t *testing.T) {
	var sink warnings.Sink
	typ := Parse(&rawschema.Node{Ref: "#/components/schemas/Pet"}, "$", map[string]bool{"Pet": true}, &sink)

	assert.Equal(t, ir.KindReference, typ.Kind)
	assert.Equal(t, "Pet", typ.RefName)
	assert.Empty(t, sink.All())
}

func TestParseNullableWrapsOption(t *testing.T) {
	var sink warnings.Sink
	typ := Parse(&rawschema.Node{Type: rawschema.TypeString, Nullable: true}, "$", nil, &sink)

	assert.Equal(t, ir.KindOption, typ.Kind)
	assert.Equal(t, ir.KindString, typ.Of.Kind)
}

func TestParseEnumIsUnionOfLiterals(t *testing.T) {
	var sink warnings.Sink
	node := &rawschema.Node{Enum: []interface{}{"public", "home", "followers", "specified"}}
	typ := Parse(node, "$", nil, &sink)

	assert.Equal(t, ir.KindUnion, typ.Kind)
	assert.Len(t, typ.Members, 4)
	for _, m := range typ.Members {
		assert.Equal(t, ir.KindLiteral, m.Kind)
		assert.Equal(t, ir.LiteralString, m.Literal.Kind)
	}
}

func TestParseAllOfOfObjectIsIntersection(t *testing.T) {
	var sink warnings.Sink
	node := &rawschema.Node{
		AllOf: []*rawschema.Node{
			{Ref: "#/components/schemas/Base"},
			{Ref: "#/components/schemas/Extra"},
		},
	}
	typ := Parse(node, "$", map[string]bool{"Base": true, "Extra": true}, &sink)

	assert.Equal(t, ir.KindIntersection, typ.Kind)
	assert.Len(t, typ.Members, 2)
}

func TestParseDepthLimit(t *testing.T) {
	var sink warnings.Sink

	var build func(depth int) *rawschema.Node
	build = func(depth int) *rawschema.Node {
		if depth == 0 {
			return &rawschema.Node{Type: rawschema.TypeString}
		}
		return &rawschema.Node{Type: rawschema.TypeArray, Items: build(depth - 1)}
	}

	typ := Parse(build(MaxDepth+5), "$", nil, &sink)

	assert.NotEmpty(t, sink.All())
	found := false
	for _, w := range sink.All() {
		if w.Code == warnings.DepthLimitReached {
			found = true
		}
	}
	assert.True(t, found)
	_ = typ
}

func TestParseUnrecognisedTypeKeywordWarnsAndFallsBack(t *testing.T) {
	var sink warnings.Sink
	typ := Parse(&rawschema.Node{Type: "float"}, "$", nil, &sink)

	assert.Equal(t, ir.KindUnknown, typ.Kind)
	assert.Len(t, sink.All(), 1)
	assert.Equal(t, warnings.FallbackToJson, sink.All()[0].Code)
}
