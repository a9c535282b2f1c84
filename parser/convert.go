package parser

import (
	"encoding/json"

	"github.com/oaslang/schemaforge/rawschema"
)

// nodeFromMap re-decodes a generic JSON object (as produced when
// encoding/json meets an `interface{}` field, e.g. additionalProperties)
// into a rawschema.Node, so the parser can recurse into it with the same
// rules as any other schema node.
func nodeFromMap(raw map[string]interface{}) (*rawschema.Node, error) {
	data, err := json.Marshal(raw)
	if err != nil {
		return nil, err
	}
	var node rawschema.Node
	if err := json.Unmarshal(data, &node); err != nil {
		return nil, err
	}
	return &node, nil
}
