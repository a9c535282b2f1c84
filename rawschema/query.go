package rawschema

import "fmt"

// BuildQuerySchema synthesises a JSON-Schema Node describing an operation's
// query parameters, so the endpoint emitter can treat GET/DELETE requests
// (which carry their input in the URL, not a JSON body) uniformly with
// request-body endpoints. Unlike request bodies, OpenAPI puts query
// parameters in a non-JSON-Schema part of an operation.
func BuildQuerySchema(operation *Operation, parameters map[string]*Parameter) (*Node, error) {
	node := &Node{
		Type:     TypeObject,
		Required: make([]string, 0),
	}

	if operation.Parameters == nil {
		return node, nil
	}

	for _, param := range operation.Parameters {
		if param.Ref != "" {
			refName, err := RefName(param.Ref)
			if err != nil {
				return nil, fmt.Errorf("invalid $ref %q: %w", param.Ref, err)
			}
			v, ok := parameters[refName]
			if !ok {
				return nil, fmt.Errorf("invalid $ref %q", param.Ref)
			}
			param = v
		}

		if param.In != ParameterQuery {
			continue
		}

		paramSchema := param.Schema
		if paramSchema == nil {
			paramSchema = &Node{Type: TypeObject}
		}
		node.Properties.Add(param.Name, paramSchema)

		if param.Required {
			node.Required = append(node.Required, param.Name)
		}
	}

	return node, nil
}
