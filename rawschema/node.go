// Package rawschema is the document-facing model the parser consumes: the
// boundary type between the (out-of-scope) spec fetcher/dereferencer and the
// in-scope schema compilation core. It is adapted from the teacher's own
// spec.Schema, trimmed of OpenAPI-vendor extension fields (expandable
// fields, resource fixtures) that belonged to a mock-response generator,
// not a code generator, and given a custom UnmarshalJSON with the same
// "fail loudly on an unsupported field" discipline the teacher used.
package rawschema

import (
	"encoding/json"
	"fmt"

	schema "github.com/lestrrat/go-jsschema"
)

// A set of constants for the named types available in JSON Schema.
const (
	TypeArray   = "array"
	TypeBoolean = "boolean"
	TypeInteger = "integer"
	TypeNumber  = "number"
	TypeObject  = "object"
	TypeString  = "string"
	TypeNull    = "null"
)

// A set of constants for the possible locations of an OpenAPI parameter.
const (
	ParameterPath  = "path"
	ParameterQuery = "query"
)

// HTTPVerb is a type for an HTTP verb like GET, POST, etc.
type HTTPVerb string

// Path is a type for an HTTP path in an OpenAPI specification.
type Path string

// StatusCode is a type for the response status code of an HTTP operation.
type StatusCode string

// Node is a single JSON-Schema node in the OpenAPI 3.1 dialect — the exact
// grammar the parser in package parser understands. It is a flat struct
// rather than a family of interfaces for the same reason the teacher's own
// spec.Schema is: one UnmarshalJSON can then validate the whole set of
// fields it's willing to accept in one place.
type Node struct {
	Ref string `json:"$ref,omitempty"`

	Type        string          `json:"type,omitempty"`
	Format      string          `json:"format,omitempty"`
	Title       string          `json:"title,omitempty"`
	Description string          `json:"description,omitempty"`
	Nullable    bool            `json:"nullable,omitempty"`
	Default     json.RawMessage `json:"default,omitempty"`
	Example     json.RawMessage `json:"example,omitempty"`

	Enum []interface{} `json:"enum,omitempty"`

	AllOf []*Node `json:"allOf,omitempty"`
	AnyOf []*Node `json:"anyOf,omitempty"`
	OneOf []*Node `json:"oneOf,omitempty"`

	// Items describes the element schema of an array. OpenAPI 3.1 permits
	// a boolean or schema for AdditionalProperties; we read it loosely and
	// let the parser decide what it means.
	Items                *Node       `json:"items,omitempty"`
	AdditionalProperties interface{} `json:"additionalProperties,omitempty"`

	Properties OrderedProperties `json:"properties,omitempty"`
	Required   []string          `json:"required,omitempty"`

	MinLength *int     `json:"minLength,omitempty"`
	MaxLength *int     `json:"maxLength,omitempty"`
	Pattern   string   `json:"pattern,omitempty"`
	Minimum   *float64 `json:"minimum,omitempty"`
	Maximum   *float64 `json:"maximum,omitempty"`

	MinItems    *int `json:"minItems,omitempty"`
	MaxItems    *int `json:"maxItems,omitempty"`
	UniqueItems bool `json:"uniqueItems,omitempty"`
}

// supportedNodeFields are the fields UnmarshalJSON accepts without
// complaint. Anything outside this set is treated as a schema author's
// mistake (a typo'd keyword, a vendor extension the core doesn't model) and
// surfaced as a hard decode error rather than silently dropped, exactly as
// the teacher's supportedSchemaFields guard does.
var supportedNodeFields = map[string]bool{
	"$ref": true, "type": true, "format": true, "title": true,
	"description": true, "nullable": true, "default": true, "example": true,
	"enum": true, "allOf": true, "anyOf": true, "oneOf": true,
	"items": true, "additionalProperties": true, "properties": true,
	"required": true, "minLength": true, "maxLength": true, "pattern": true,
	"minimum": true, "maximum": true, "minItems": true, "maxItems": true,
	"uniqueItems": true,
	// Kept but deliberately unmodeled: the parser has no use for them but
	// they're common enough in real documents to not be worth an error.
	"discriminator": true, "deprecated": true, "readOnly": true, "writeOnly": true,
	"multipleOf": true, "exclusiveMinimum": true, "exclusiveMaximum": true,
	"xml": true, "externalDocs": true,
}

// UnmarshalJSON rejects unrecognised top-level keywords up front instead of
// silently ignoring them, so a typo in a spec surfaces immediately rather
// than as a puzzling Unknown deep in generated output.
func (n *Node) UnmarshalJSON(data []byte) error {
	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	for field := range raw {
		if !supportedNodeFields[field] {
			return fmt.Errorf("unsupported field in JSON schema: %q", field)
		}
	}

	type nodeAlias Node
	var inner nodeAlias
	if err := json.Unmarshal(data, &inner); err != nil {
		return err
	}
	*n = Node(inner)
	return nil
}

// MediaType buckets a request or response by media type.
type MediaType struct {
	Schema *Node `json:"schema"`
}

// RequestBody is the body of a request in an OpenAPI operation.
type RequestBody struct {
	Content  map[string]MediaType `json:"content"`
	Required bool                 `json:"required"`
}

// Response is a single HTTP response in an OpenAPI operation.
type Response struct {
	Description string               `json:"description"`
	Content     map[string]MediaType `json:"content"`
	Ref         string               `json:"$ref,omitempty"`
}

// Parameter is a single request parameter (path, query, ...).
type Parameter struct {
	Description string `json:"description"`
	In          string `json:"in"`
	Name        string `json:"name"`
	Required    bool   `json:"required"`
	Schema      *Node  `json:"schema"`
	Ref         string `json:"$ref,omitempty"`
}

// Operation is a single HTTP operation (method + path) in an OpenAPI
// specification.
type Operation struct {
	OperationID string                  `json:"operationId"`
	Summary     string                  `json:"summary"`
	Description string                  `json:"description"`
	Tags        []string                `json:"tags"`
	Parameters  []*Parameter            `json:"parameters"`
	RequestBody *RequestBody            `json:"requestBody"`
	Responses   map[StatusCode]Response `json:"responses"`
}

// Components is the components section of an OpenAPI specification: the
// universe the parser's Reference resolution consults.
type Components struct {
	Schemas    map[string]*Node      `json:"schemas"`
	Parameters map[string]*Parameter `json:"parameters"`
	Responses  map[string]*Response  `json:"responses"`
}

// schemaPrimitiveGuard ties rawschema.Node's Type constants to the
// go-jsschema primitive-type vocabulary so KnownPrimitiveType (used by the
// parser's type dispatch) checks a node's `type` keyword against the
// library's own enumeration of the seven names instead of a hand-rolled
// copy.
var schemaPrimitiveGuard = map[string]schema.PrimitiveType{
	TypeArray:   schema.ArrayType,
	TypeBoolean: schema.BooleanType,
	TypeInteger: schema.IntegerType,
	TypeNumber:  schema.NumberType,
	TypeObject:  schema.ObjectType,
	TypeString:  schema.StringType,
	TypeNull:    schema.NullType,
}

// KnownPrimitiveType reports whether name is one of the primitive type
// keywords both rawschema.Node and go-jsschema recognise.
func KnownPrimitiveType(name string) bool {
	_, ok := schemaPrimitiveGuard[name]
	return ok
}
