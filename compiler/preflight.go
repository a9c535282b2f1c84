package compiler

import (
	"encoding/json"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/oaslang/schemaforge/rawschema"
)

// nodeMetaSchema is a minimal meta-schema for one component-schema node:
// just enough to catch the malformed-document cases worth failing fast on
// (a node that isn't an object, or whose "type" keyword isn't one of the
// names the parser understands) before the parser ever sees it. This is
// the optional preflight cfg.ValidateAgainstMetaSchema gates; it is not a
// full OpenAPI 3.1 meta-schema validation.
const nodeMetaSchema = `{
  "type": "object",
  "properties": {
    "type": {
      "type": "string",
      "enum": ["array", "boolean", "integer", "number", "object", "string", "null"]
    }
  }
}`

// preflight validates every component schema node against nodeMetaSchema
// using gojsonschema, returning the first validation failure it finds.
func preflight(doc *rawschema.Document) error {
	schemaLoader := gojsonschema.NewStringLoader(nodeMetaSchema)

	names := doc.SchemaNames()
	for _, name := range names {
		node := doc.Components.Schemas[name]
		if node == nil || node.Type == "" {
			continue
		}
		raw, err := json.Marshal(node)
		if err != nil {
			return err
		}
		documentLoader := gojsonschema.NewBytesLoader(raw)

		result, err := gojsonschema.Validate(schemaLoader, documentLoader)
		if err != nil {
			return err
		}
		if !result.Valid() {
			var messages []string
			for _, e := range result.Errors() {
				messages = append(messages, e.String())
			}
			return newErrorf(KindSchemaParse, Context{Schema: name}, "%s", strings.Join(messages, "; "))
		}
	}
	return nil
}
