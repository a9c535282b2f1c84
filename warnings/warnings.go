// Package warnings defines the stable, accumulated-not-fatal diagnostic
// values produced across the schema compilation core, per spec section 7
// (recoverable vs. fatal error handling).
package warnings

import "fmt"

// Code enumerates the recoverable conditions the core can hit while parsing
// or lowering a schema. Each has a fixed, continue-anyway policy.
type Code string

const (
	// FallbackToJson is emitted when the parser cannot make sense of a
	// node as given — an unresolvable $ref, or a "type" keyword that
	// isn't one of the seven JSON Schema primitives — and continues past
	// it rather than failing the whole document.
	FallbackToJson Code = "FallbackToJson"

	// DepthLimitReached is emitted when parsing breaches the recursion
	// depth guard; the parser falls back to ir.Unknown.
	DepthLimitReached Code = "DepthLimitReached"

	// IntersectionNotFullySupported is emitted when an Intersection mixes
	// object and non-object members; only the object parts are merged.
	IntersectionNotFullySupported Code = "IntersectionNotFullySupported"

	// ComplexUnionSimplified is emitted when a Union is not discriminable
	// by runtime kind and the emitter falls back to its last member.
	ComplexUnionSimplified Code = "ComplexUnionSimplified"

	// MissingSchema is the code for a named schema that was expected to
	// exist but cannot be found (an unresolvable $ref met by the parser is
	// reported as FallbackToJson instead). The core emits it for
	// recoverable structural problems: a dependency cycle broken by
	// back-edge removal (or a graph left unordered) in the orchestrator, an
	// endpoint's query parameters that cannot be built, and a malformed
	// additionalProperties in the parser.
	MissingSchema Code = "MissingSchema"
)

// Warning is a single diagnostic with enough context to be rendered as one
// line. Warnings are never coalesced by the core; callers may deduplicate.
type Warning struct {
	Code    Code
	Path    string
	Message string
}

// New builds a Warning with message formatted like fmt.Sprintf.
func New(code Code, path, format string, args ...interface{}) Warning {
	return Warning{Code: code, Path: path, Message: fmt.Sprintf(format, args...)}
}

// String renders the warning as the single line callers can print directly.
func (w Warning) String() string {
	return fmt.Sprintf("%s: %s (at %s)", w.Code, w.Message, w.Path)
}

// Sink accumulates warnings during a traversal. It is the append-only list
// described for the generation context, generalised so the parser (which
// runs before any generation context exists) can share the same shape.
type Sink struct {
	items []Warning
}

// Add appends w to the sink.
func (s *Sink) Add(w Warning) {
	s.items = append(s.items, w)
}

// Addf is a convenience wrapper around Add(New(...)).
func (s *Sink) Addf(code Code, path, format string, args ...interface{}) {
	s.Add(New(code, path, format, args...))
}

// All returns the accumulated warnings in the order they were added.
func (s *Sink) All() []Warning {
	return s.items
}

// Join merges other's items onto s, preserving order.
func (s *Sink) Join(other *Sink) {
	if other == nil {
		return
	}
	s.items = append(s.items, other.items...)
}
