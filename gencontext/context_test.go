package gencontext

import (
	"testing"

	assert "github.com/stretchr/testify/require"

	"github.com/oaslang/schemaforge/ir"
)

func TestExtractReturnsSameNameForStructurallyEqualType(t *testing.T) {
	ctx := New("Pet", map[string]bool{"Pet": true}, "Components")
	address := ir.Object([]ir.Property{{Name: "street", Type: ir.String(nil, nil, ""), Required: true}}, nil)

	first := ctx.Extract(address, false)
	second := ctx.Extract(address, false)

	assert.Equal(t, first, second)
	assert.Equal(t, "Pet1", first)
	assert.Len(t, ctx.Extracted(), 1)
}

func TestExtractAssignsDistinctNamesForDistinctTypes(t *testing.T) {
	ctx := New("Pet", map[string]bool{"Pet": true}, "Components")
	address := ir.Object([]ir.Property{{Name: "street", Type: ir.String(nil, nil, ""), Required: true}}, nil)
	owner := ir.Object([]ir.Property{{Name: "id", Type: ir.Integer(nil, nil, nil), Required: true}}, nil)

	first := ctx.Extract(address, false)
	second := ctx.Extract(owner, false)

	assert.NotEqual(t, first, second)
	assert.Len(t, ctx.Extracted(), 2)
}

func TestChildSharesExtractedTableWithParent(t *testing.T) {
	ctx := New("Pet", map[string]bool{"Pet": true}, "Components")
	address := ir.Object([]ir.Property{{Name: "street", Type: ir.String(nil, nil, ""), Required: true}}, nil)

	requestCtx := ctx.Child(".request")
	name := requestCtx.Extract(address, false)

	looked, ok := requestCtx.Lookup(address)
	assert.True(t, ok)
	assert.Equal(t, name, looked.SyntheticName)
	assert.Equal(t, "$.request", requestCtx.Path)

	// The entry must be visible through the parent's own Extracted(), not
	// just through the child that created it: renderers read the
	// top-level context after recursion has finished, via contexts
	// derived only through Child.
	assert.Len(t, ctx.Extracted(), 1)
	assert.Equal(t, name, ctx.Extracted()[0].SyntheticName)
}

func TestGrandchildSharesExtractedTableWithParent(t *testing.T) {
	ctx := New("Pet", map[string]bool{"Pet": true}, "Components")
	address := ir.Object([]ir.Property{{Name: "street", Type: ir.String(nil, nil, ""), Required: true}}, nil)

	grandchild := ctx.Child(".request").Child(".body")
	grandchild.Extract(address, false)

	assert.Len(t, ctx.Extracted(), 1)
}

func TestQualifyReferencePrefersBareNameWhenAvailable(t *testing.T) {
	ctx := New("Pet", map[string]bool{"Pet": true, "Tag": true}, "Components")

	assert.Equal(t, "Tag", ctx.QualifyReference("Tag"))
}

func TestQualifyReferenceQualifiesWithModulePrefixWhenUnavailable(t *testing.T) {
	ctx := New("Pet", map[string]bool{"Pet": true}, "Components")

	assert.Equal(t, "Components.Order", ctx.QualifyReference("Order"))
}

func TestQualifyReferenceUsesRecursionMarkerForSelfRef(t *testing.T) {
	ctx := New("Node", map[string]bool{"Node": true}, "Components")
	ctx.SelfRefName = "Node"

	assert.Equal(t, "t", ctx.QualifyReference("Node"))
}
