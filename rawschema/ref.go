package rawschema

import (
	"strings"

	"github.com/lestrrat/go-jspointer"
	"github.com/pkg/errors"
)

// componentsSchemaPrefix is the internal $ref shape the parser resolves to
// a named schema, per spec section 6: external refs are inlined upstream.
// RefName also accepts other internal refs (such as the
// #/components/parameters refs BuildQuerySchema resolves) by taking their
// last path segment.
const componentsSchemaPrefix = "#/components/schemas/"

// RefName extracts the schema name from a $ref of the form
// "#/components/schemas/Name". go-jspointer validates that the fragment
// after the leading "#" is well-formed JSON Pointer syntax before the last
// path segment is taken as the name; this catches malformed refs (stray
// "~" escapes, unbalanced "/") that a bare strings.Split would let through
// silently as a wrong-looking name instead of a clear error.
func RefName(ref string) (string, error) {
	if !strings.HasPrefix(ref, "#/") {
		return "", errors.Errorf("unsupported $ref shape %q: must start with \"#/\"", ref)
	}
	if _, err := jspointer.New(strings.TrimPrefix(ref, "#")); err != nil {
		return "", errors.Wrapf(err, "malformed JSON pointer in $ref %q", ref)
	}

	if !strings.HasPrefix(ref, componentsSchemaPrefix) {
		segments := strings.Split(strings.TrimPrefix(ref, "#/"), "/")
		return segments[len(segments)-1], nil
	}

	name := strings.TrimPrefix(ref, componentsSchemaPrefix)
	if name == "" {
		return "", errors.Errorf("$ref %q names no schema", ref)
	}
	return name, nil
}

// IsComponentsSchemaRef reports whether ref points into
// #/components/schemas, the only reference shape the parser dereferences by
// name (invariant 1 of the data model).
func IsComponentsSchemaRef(ref string) bool {
	return strings.HasPrefix(ref, componentsSchemaPrefix)
}
