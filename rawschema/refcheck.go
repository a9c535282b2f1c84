package rawschema

import (
	"github.com/lestrrat/go-jsref"
	"github.com/pkg/errors"
)

// ValidateReferences resolves every #/components/schemas $ref that walkRefs
// finds in a component schema against the document's go-jsschema root, catching a $ref that is
// syntactically well-formed (RefName's jspointer check already covers that)
// but names nothing that actually exists in the document.
func (d *Document) ValidateReferences() error {
	resolver := jsref.New()

	for name, node := range d.Components.Schemas {
		if err := walkRefs(node, func(ref string) error {
			if !IsComponentsSchemaRef(ref) {
				return nil
			}
			if _, err := resolver.Resolve(d.Root, ref); err != nil {
				return errors.Wrapf(err, "schema %q: $ref %q does not resolve", name, ref)
			}
			return nil
		}); err != nil {
			return err
		}
	}
	return nil
}

// walkRefs visits the $ref of n and of the nodes nested in
// allOf/anyOf/oneOf, items, and properties; additionalProperties is not
// walked.
func walkRefs(n *Node, visit func(ref string) error) error {
	if n == nil {
		return nil
	}
	if n.Ref != "" {
		if err := visit(n.Ref); err != nil {
			return err
		}
	}
	for _, groups := range [][]*Node{n.AllOf, n.AnyOf, n.OneOf} {
		for _, child := range groups {
			if err := walkRefs(child, visit); err != nil {
				return err
			}
		}
	}
	if err := walkRefs(n.Items, visit); err != nil {
		return err
	}
	for _, name := range n.Properties.Names() {
		child, _ := n.Properties.Get(name)
		if err := walkRefs(child, visit); err != nil {
			return err
		}
	}
	return nil
}
