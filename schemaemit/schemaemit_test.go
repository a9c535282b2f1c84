package schemaemit

import (
	"testing"

	assert "github.com/stretchr/testify/require"

	"github.com/oaslang/schemaforge/gencontext"
	"github.com/oaslang/schemaforge/ir"
)

func newCtx(name string) *gencontext.Context {
	return gencontext.New(name, map[string]bool{"Pet": true}, "Components")
}

func TestLowerPrimitives(t *testing.T) {
	ctx := newCtx("Thing")
	assert.Equal(t, "string()", Lower(ir.String(nil, nil, ""), ctx, false))
	assert.Equal(t, "int()", Lower(ir.Integer(nil, nil, nil), ctx, false))
	assert.Equal(t, "number()", Lower(ir.Number(nil, nil, nil), ctx, false))
	assert.Equal(t, "bool()", Lower(ir.Boolean(), ctx, false))
	assert.Equal(t, "any()", Lower(ir.Unknown(), ctx, false))
}

func TestLowerStringWithPatternAndConstraints(t *testing.T) {
	ctx := newCtx("Thing")
	min, max := 3, 10
	got := Lower(ir.String(&min, &max, "^[a-z]+$"), ctx, false)
	assert.Equal(t, `stringMatching("^[a-z]+$")->minLength(3)->maxLength(10)`, got)
}

func TestLowerArray(t *testing.T) {
	ctx := newCtx("Thing")
	got := Lower(ir.Array(ir.String(nil, nil, ""), nil, nil, false), ctx, false)
	assert.Equal(t, "array(string())", got)
}

func TestLowerPetObjectMatchesSpecExample(t *testing.T) {
	ctx := newCtx("Pet")
	obj := ir.Object([]ir.Property{
		{Name: "id", Type: ir.Integer(nil, nil, nil), Required: true},
		{Name: "name", Type: ir.String(nil, nil, ""), Required: true},
		{Name: "tag", Type: ir.String(nil, nil, ""), Required: false},
	}, nil)

	got := Lower(obj, ctx, false)

	assert.Contains(t, got, `id: field("id", int())`)
	assert.Contains(t, got, `name: field("name", string())`)
	assert.Contains(t, got, `tag: field_or("tag", nullable_as_option(string()), None)`)
}

func TestLowerNestedObjectIsExtractedSchema(t *testing.T) {
	ctx := newCtx("Pet")
	nested := ir.Object([]ir.Property{{Name: "street", Type: ir.String(nil, nil, ""), Required: true}}, nil)
	outer := ir.Object([]ir.Property{{Name: "address", Type: nested, Required: true}}, nil)

	got := Lower(outer, ctx, false)

	assert.Contains(t, got, "address: field(\"address\", Pet1.schema)")
	assert.Len(t, ctx.Extracted(), 1)
}

func TestLowerOptionFieldAlreadyNullable(t *testing.T) {
	ctx := newCtx("Pet")
	nullableNote := ir.Union(ir.Null(), ir.Reference("Note"))
	obj := ir.Object([]ir.Property{{Name: "note", Type: nullableNote, Required: false}}, nil)

	got := Lower(obj, ctx, false)

	assert.Contains(t, got, `note: field("note", as_option(nullable_as_option(Components.Note.schema)))`)
}

func TestLowerReferenceQualifiesWhenNotAvailable(t *testing.T) {
	ctx := newCtx("Thing")
	assert.Equal(t, "Pet.schema", Lower(ir.Reference("Pet"), ctx, false))
	assert.Equal(t, "Components.Order.schema", Lower(ir.Reference("Order"), ctx, false))
}

func TestLowerSelfReferenceUsesFixedPointMarker(t *testing.T) {
	ctx := newCtx("Thing")
	ctx.SelfRefName = "Thing"
	assert.Equal(t, "self()", Lower(ir.Reference("Thing"), ctx, false))
}

func TestLowerUnionNullableSingleMember(t *testing.T) {
	ctx := newCtx("Thing")
	got := Lower(ir.Union(ir.Null(), ir.String(nil, nil, "")), ctx, false)
	assert.Equal(t, "nullable_as_option(string())", got)
}

func TestLowerUnionEnumShape(t *testing.T) {
	ctx := newCtx("Thing")
	got := Lower(ir.Union(ir.LitString("dog"), ir.LitString("cat")), ctx, false)
	assert.Equal(t, `stringEnum(["dog", "cat"])`, got)
}

func TestLowerUnionDiscriminableExtractsSameSyntheticNameAsTypeEmitter(t *testing.T) {
	ctx := newCtx("Thing")
	union := ir.Union(ir.String(nil, nil, ""), ir.Boolean())

	got := Lower(union, ctx, false)

	assert.Equal(t, "Thing1.schema", got)
	assert.Len(t, ctx.Extracted(), 1)
}

func TestLowerUnionFallsBackToLastMemberWithWarning(t *testing.T) {
	ctx := newCtx("Thing")
	got := Lower(ir.Union(ir.String(nil, nil, ""), ir.String(nil, nil, "")), ctx, false)

	assert.Equal(t, "string()", got)
	assert.Len(t, ctx.Warnings.All(), 1)
}

func TestLowerIntersectionOfReferencesTakesLast(t *testing.T) {
	ctx := newCtx("Thing")
	got := Lower(ir.Intersection(ir.Reference("A"), ir.Reference("Pet")), ctx, false)
	assert.Equal(t, "Pet.schema", got)
}

func TestLowerIntersectionMergesObjects(t *testing.T) {
	ctx := newCtx("Thing")
	a := ir.Object([]ir.Property{{Name: "id", Type: ir.Integer(nil, nil, nil), Required: true}}, nil)
	b := ir.Object([]ir.Property{{Name: "name", Type: ir.String(nil, nil, ""), Required: true}}, nil)

	got := Lower(ir.Intersection(a, b), ctx, false)

	assert.Contains(t, got, `id: field("id", int())`)
	assert.Contains(t, got, `name: field("name", string())`)
}

func TestLowerIntersectionMixedWarns(t *testing.T) {
	ctx := newCtx("Thing")
	obj := ir.Object([]ir.Property{{Name: "id", Type: ir.Integer(nil, nil, nil), Required: true}}, nil)

	Lower(ir.Intersection(obj, ir.String(nil, nil, "")), ctx, false)

	assert.Len(t, ctx.Warnings.All(), 1)
}
