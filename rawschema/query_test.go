package rawschema

import (
	"testing"

	assert "github.com/stretchr/testify/require"
)

func mustGet(node *Node, name string) *Node {
	n, ok := node.Properties.Get(name)
	if !ok {
		return nil
	}
	return n
}

func TestBuildQuerySchema(t *testing.T) {
	// Handles a normal case
	{
		operation := &Operation{
			Parameters: []*Parameter{
				{
					In:   ParameterQuery,
					Name: "name",
					Schema: &Node{
						Type: TypeString,
					},
				},
			},
		}
		node, _ := BuildQuerySchema(operation, map[string]*Parameter{})

		assert.Equal(t, TypeObject, node.Type)
		assert.Equal(t, 1, node.Properties.Len())
		assert.Equal(t, 0, len(node.Required))

		paramSchema := mustGet(node, "name")
		assert.Equal(t, TypeString, paramSchema.Type)
	}

	// A non-query parameter
	{
		operation := &Operation{
			Parameters: []*Parameter{
				{
					In:   ParameterPath,
					Name: "name",
				},
			},
		}
		node, _ := BuildQuerySchema(operation, map[string]*Parameter{})

		assert.Equal(t, 0, node.Properties.Len())
	}

	// A required parameter
	{
		operation := &Operation{
			Parameters: []*Parameter{
				{
					In:       ParameterQuery,
					Name:     "name",
					Required: true,
					Schema: &Node{
						Type: TypeString,
					},
				},
			},
		}
		node, _ := BuildQuerySchema(operation, map[string]*Parameter{})

		assert.Equal(t, []string{"name"}, node.Required)
	}

	// A query parameter with no schema
	{
		operation := &Operation{
			Parameters: []*Parameter{
				{
					In:   ParameterQuery,
					Name: "name",
				},
			},
		}
		node, _ := BuildQuerySchema(operation, map[string]*Parameter{})

		paramSchema := mustGet(node, "name")
		assert.Equal(t, TypeObject, paramSchema.Type)
	}

	// A '$ref' parameter
	{
		operation := &Operation{
			Parameters: []*Parameter{
				{
					Ref: "#/components/parameters/PageNum",
				},
			},
		}

		parameters := map[string]*Parameter{
			"PageNum": {
				In:   ParameterQuery,
				Name: "name",
				Schema: &Node{
					Type: TypeString,
				},
			},
		}

		node, _ := BuildQuerySchema(operation, parameters)

		assert.Equal(t, 1, node.Properties.Len())
		assert.Equal(t, 0, len(node.Required))

		paramSchema := mustGet(node, "name")
		assert.Equal(t, TypeString, paramSchema.Type)
	}

	// An error is returned when an invalid `$ref` is supplied
	{
		operation := &Operation{
			Parameters: []*Parameter{
				{
					Ref: "#/components/parameters/PageNum",
				},
			},
		}

		_, err := BuildQuerySchema(operation, map[string]*Parameter{})

		assert.NotNil(t, err)
	}
}
