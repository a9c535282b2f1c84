package compiler

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	assert "github.com/stretchr/testify/require"

	"github.com/oaslang/schemaforge/docoverride"
	"github.com/oaslang/schemaforge/rawschema"
)

const samplePetStoreDoc = `{
  "components": {
    "schemas": {
      "Pet": {
        "type": "object",
        "required": ["name"],
        "properties": {
          "name": {"type": "string"},
          "tag": {"$ref": "#/components/schemas/Tag"}
        }
      },
      "Tag": {
        "type": "object",
        "required": ["label"],
        "properties": {"label": {"type": "string"}}
      }
    }
  },
  "paths": {
    "/pets": {
      "get": {
        "operationId": "listPets",
        "responses": {
          "200": {
            "description": "ok",
            "content": {"application/json": {"schema": {"$ref": "#/components/schemas/Pet"}}}
          }
        }
      },
      "post": {
        "operationId": "createPet",
        "requestBody": {
          "content": {"application/json": {"schema": {"$ref": "#/components/schemas/Pet"}}}
        },
        "responses": {
          "201": {
            "description": "created",
            "content": {"application/json": {"schema": {"$ref": "#/components/schemas/Pet"}}}
          }
        }
      }
    }
  }
}`

func mustParseDoc(t *testing.T, raw string) *rawschema.Document {
	t.Helper()
	doc, err := rawschema.Parse([]byte(raw))
	assert.NoError(t, err)
	return doc
}

func TestCompileProducesOneFilePerSchemaAndEndpoint(t *testing.T) {
	doc := mustParseDoc(t, samplePetStoreDoc)

	result, err := Compile(doc, DefaultConfig())

	assert.NoError(t, err)
	assert.NotNil(t, result)

	var sawPet, sawTag, sawListPets, sawCreatePet bool
	for _, f := range result.Files {
		switch f.Path {
		case "Components/Pet.res":
			sawPet = true
		case "Components/Tag.res":
			sawTag = true
		case "Components/endpoints/listPets.res":
			sawListPets = true
		case "Components/endpoints/createPet.res":
			sawCreatePet = true
		}
	}
	assert.True(t, sawPet, "expected a Pet module file")
	assert.True(t, sawTag, "expected a Tag module file")
	assert.True(t, sawListPets, "expected a listPets endpoint file")
	assert.True(t, sawCreatePet, "expected a createPet endpoint file")
}

func TestCompileOrdersDependentSchemaAfterItsDependency(t *testing.T) {
	doc := mustParseDoc(t, samplePetStoreDoc)

	result, err := Compile(doc, DefaultConfig())

	assert.NoError(t, err)

	tagIndex, petIndex := -1, -1
	for i, f := range result.Files {
		switch f.Path {
		case "Components/Tag.res":
			tagIndex = i
		case "Components/Pet.res":
			petIndex = i
		}
	}
	assert.GreaterOrEqual(t, tagIndex, 0)
	assert.GreaterOrEqual(t, petIndex, 0)
	assert.Less(t, tagIndex, petIndex)
}

func TestCompileRejectsInvalidConfig(t *testing.T) {
	doc := mustParseDoc(t, samplePetStoreDoc)
	cfg := DefaultConfig()
	cfg.BaseModulePrefix = ""

	result, err := Compile(doc, cfg)

	assert.Nil(t, result)
	assert.Error(t, err)
	var compileErr *Error
	assert.ErrorAs(t, err, &compileErr)
	assert.Equal(t, KindInvalidConfig, compileErr.Kind)
}

func TestCompileExcludeTagsFiltersEndpoints(t *testing.T) {
	raw := `{
  "components": {"schemas": {}},
  "paths": {
    "/pets": {
      "get": {"operationId": "listPets", "tags": ["internal"], "responses": {"200": {"description": "ok"}}},
      "post": {"operationId": "createPet", "tags": ["public"], "responses": {"201": {"description": "created"}}}
    }
  }
}`
	doc := mustParseDoc(t, raw)
	cfg := DefaultConfig()
	cfg.ExcludeTags = []string{"internal"}

	result, err := Compile(doc, cfg)

	assert.NoError(t, err)
	var sawListPets, sawCreatePet bool
	for _, f := range result.Files {
		if f.Path == "Components/endpoints/listPets.res" {
			sawListPets = true
		}
		if f.Path == "Components/endpoints/createPet.res" {
			sawCreatePet = true
		}
	}
	assert.False(t, sawListPets)
	assert.True(t, sawCreatePet)
}

func TestCompileWithEmptyDocumentProducesNoFiles(t *testing.T) {
	doc := mustParseDoc(t, `{"components": {"schemas": {}}, "paths": {}}`)

	result, err := Compile(doc, DefaultConfig())

	assert.NoError(t, err)
	assert.Empty(t, result.Files)
}

func TestCompileWithMetaSchemaValidationAcceptsValidDocument(t *testing.T) {
	doc := mustParseDoc(t, samplePetStoreDoc)
	cfg := DefaultConfig()
	cfg.ValidateAgainstMetaSchema = true

	result, err := Compile(doc, cfg)

	assert.NoError(t, err)
	assert.NotEmpty(t, result.Files)
}

func TestCompileWithMetaSchemaValidationRejectsUnrecognisedType(t *testing.T) {
	raw := `{"components": {"schemas": {"Pet": {"type": "float"}}}, "paths": {}}`
	doc := mustParseDoc(t, raw)
	cfg := DefaultConfig()
	cfg.ValidateAgainstMetaSchema = true

	result, err := Compile(doc, cfg)

	assert.Nil(t, result)
	assert.Error(t, err)
	var compileErr *Error
	assert.ErrorAs(t, err, &compileErr)
	assert.Equal(t, KindSchemaParse, compileErr.Kind)
}

func TestCompileIsDeterministicAcrossRuns(t *testing.T) {
	doc := mustParseDoc(t, samplePetStoreDoc)
	cfg := DefaultConfig()

	first, err := Compile(doc, cfg)
	assert.NoError(t, err)
	second, err := Compile(doc, cfg)
	assert.NoError(t, err)

	assert.Equal(t, len(first.Files), len(second.Files))
	for i := range first.Files {
		assert.Equal(t, first.Files[i].Path, second.Files[i].Path)
		assert.Equal(t, first.Files[i].Contents, second.Files[i].Contents)
	}
}

func TestCompileSubstitutesNonEmptyDocOverride(t *testing.T) {
	doc := mustParseDoc(t, samplePetStoreDoc)
	cfg := DefaultConfig()
	cfg.DocOverrideDir = t.TempDir()

	hash := docoverride.Hash("/pets", "get", "listPets", "", "")
	overrideDir := filepath.Join(cfg.DocOverrideDir, cfg.BaseModulePrefix)
	assert.NoError(t, os.MkdirAll(overrideDir, 0o755))
	content := fmt.Sprintf("---\nendpoint: /pets\nmethod: get\nhash: %s\n---\n\n## Default Description\n\n\n\n## Override\n\n```\nList every pet in the store.\n```\n", hash)
	assert.NoError(t, os.WriteFile(filepath.Join(overrideDir, "listPets.md"), []byte(content), 0o644))

	result, err := Compile(doc, cfg)
	assert.NoError(t, err)

	var body string
	for _, f := range result.Files {
		if f.Path == "Components/endpoints/listPets.res" {
			body = f.Contents
		}
	}
	assert.Contains(t, body, "List every pet in the store.")
}

func TestCompileLeavesDescriptionUntouchedWhenOverrideIsEmptyPlaceholder(t *testing.T) {
	doc := mustParseDoc(t, samplePetStoreDoc)
	cfg := DefaultConfig()
	cfg.DocOverrideDir = t.TempDir()

	hash := docoverride.Hash("/pets", "get", "listPets", "", "")
	overrideDir := filepath.Join(cfg.DocOverrideDir, cfg.BaseModulePrefix)
	assert.NoError(t, os.MkdirAll(overrideDir, 0o755))
	content := fmt.Sprintf("---\nendpoint: /pets\nmethod: get\nhash: %s\n---\n\n## Default Description\n\n\n\n## Override\n\n<!-- Empty - no override -->\n", hash)
	assert.NoError(t, os.WriteFile(filepath.Join(overrideDir, "listPets.md"), []byte(content), 0o644))

	result, err := Compile(doc, cfg)
	assert.NoError(t, err)

	var body string
	for _, f := range result.Files {
		if f.Path == "Components/endpoints/listPets.res" {
			body = f.Contents
		}
	}
	assert.NotContains(t, body, "List every pet in the store.")
}
