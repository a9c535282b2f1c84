package rawschema

import (
	"bytes"
	"encoding/json"
)

// OrderedProperties preserves the source document's property insertion
// order, which plain encoding/json decoding into a Go map would discard.
// Parser rule 3 (object dispatch) depends on this order surviving into the
// IR's Object.Properties list.
type OrderedProperties struct {
	names []string
	byName map[string]*Node
}

// Names returns the property names in source order.
func (p OrderedProperties) Names() []string {
	return p.names
}

// Len reports the number of properties.
func (p OrderedProperties) Len() int {
	return len(p.names)
}

// Get looks up a property by name.
func (p OrderedProperties) Get(name string) (*Node, bool) {
	n, ok := p.byName[name]
	return n, ok
}

// Add appends a property, used by synthetic schemas (BuildQuerySchema)
// rather than ones decoded from JSON.
func (p *OrderedProperties) Add(name string, node *Node) {
	if p.byName == nil {
		p.byName = make(map[string]*Node)
	}
	if _, exists := p.byName[name]; !exists {
		p.names = append(p.names, name)
	}
	p.byName[name] = node
}

// UnmarshalJSON decodes an object's properties keeping key order, using the
// standard json.Decoder token-streaming technique since encoding/json's
// map-based decoding is unordered by design.
func (p *OrderedProperties) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return &json.UnmarshalTypeError{Value: "non-object", Type: nil}
	}

	names := make([]string, 0)
	byName := make(map[string]*Node)

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := keyTok.(string)

		var node Node
		if err := dec.Decode(&node); err != nil {
			return err
		}

		if _, exists := byName[key]; !exists {
			names = append(names, key)
		}
		byName[key] = &node
	}

	if _, err := dec.Token(); err != nil { // trailing '}'
		return err
	}

	p.names = names
	p.byName = byName
	return nil
}

// MarshalJSON re-emits properties in source order so a round trip through
// JSON preserves it too.
func (p OrderedProperties) MarshalJSON() ([]byte, error) {
	var b bytes.Buffer
	b.WriteByte('{')
	for i, name := range p.names {
		if i > 0 {
			b.WriteByte(',')
		}
		keyBytes, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		b.Write(keyBytes)
		b.WriteByte(':')
		valBytes, err := json.Marshal(p.byName[name])
		if err != nil {
			return nil, err
		}
		b.Write(valBytes)
	}
	b.WriteByte('}')
	return b.Bytes(), nil
}
