package rawschema

import (
	"testing"

	assert "github.com/stretchr/testify/require"
)

func TestParseDecodesComponentsAndPaths(t *testing.T) {
	doc, err := Parse([]byte(`{
		"components": {"schemas": {"Pet": {"type": "object"}}},
		"paths": {"/pets": {"get": {"operationId": "listPets", "responses": {}}}}
	}`))

	assert.NoError(t, err)
	assert.NotNil(t, doc.Root)
	assert.Contains(t, doc.Components.Schemas, "Pet")
	assert.Contains(t, doc.Paths, Path("/pets"))
}

func TestParseTolerantOfMissingComponentsAndPaths(t *testing.T) {
	doc, err := Parse([]byte(`{}`))

	assert.NoError(t, err)
	assert.Empty(t, doc.SchemaNames())
	assert.Empty(t, doc.Paths)
}

func TestParseRejectsMalformedJSON(t *testing.T) {
	_, err := Parse([]byte(`{`))

	assert.Error(t, err)
}

func TestSchemaNamesReturnsEveryComponentSchema(t *testing.T) {
	doc, err := Parse([]byte(`{
		"components": {"schemas": {"Pet": {"type": "object"}, "Tag": {"type": "object"}}}
	}`))
	assert.NoError(t, err)

	names := doc.SchemaNames()

	assert.ElementsMatch(t, []string{"Pet", "Tag"}, names)
}
