package rawschema

import (
	"encoding/json"

	schema "github.com/lestrrat/go-jsschema"
	"github.com/pkg/errors"
)

// Document is a pre-dereferenced OpenAPI 3.1 document: the shape the
// parser's entry point accepts, per spec section 6 ("Spec input shape").
// Root carries the document in go-jsschema's own representation, which
// ValidateReferences resolves component-schema $refs against; Components
// and Paths carry the same document decoded into the
// rawschema.Node grammar the parser actually walks.
type Document struct {
	Root *schema.Schema

	Components Components
	Paths      map[Path]map[HTTPVerb]*Operation
}

// envelope mirrors just enough of an OpenAPI document's top-level shape to
// reach Components and Paths; the rest (info, servers, security, ...) is
// irrelevant to the compilation core and is intentionally left unmodeled.
type envelope struct {
	Components Components                      `json:"components"`
	Paths      map[Path]map[HTTPVerb]*Operation `json:"paths"`
}

// Parse decodes a dereferenced OpenAPI 3.1 document. It is deliberately
// tolerant: a document with no components or no paths is valid (a pure
// schema library, or a paths-only spec with inline schemas).
func Parse(data []byte) (*Document, error) {
	root := &schema.Schema{}
	if err := json.Unmarshal(data, root); err != nil {
		return nil, errors.Wrap(err, "decoding document root")
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, errors.Wrap(err, "decoding document components/paths")
	}

	return &Document{
		Root:       root,
		Components: env.Components,
		Paths:      env.Paths,
	}, nil
}

// SchemaNames returns the names of every component schema, in the order
// Go's map iteration happens to enumerate them. Callers that need a stable
// order sort the result themselves (compiler.Compile does before parsing,
// and the orchestrator sorts again when ordering the schemas);
// SchemaNames imposes no order of its own.
func (d *Document) SchemaNames() []string {
	names := make([]string, 0, len(d.Components.Schemas))
	for name := range d.Components.Schemas {
		names = append(names, name)
	}
	return names
}
