// Package gencontext defines the per-top-level-schema generation context
// described in spec section 3: the one piece of shared mutable state the
// type emitter and schema emitter both thread through, so they agree on
// which inline complex types got promoted to synthetic names (invariant 3).
package gencontext

import (
	"fmt"

	"github.com/lestrrat/go-pdebug"

	"github.com/oaslang/schemaforge/ir"
	"github.com/oaslang/schemaforge/warnings"
)

// ExtractedType is one inline complex type promoted out of a type-
// constructor position (array element, option parameter, ...) because the
// target language forbids unnamed records/variants there.
type ExtractedType struct {
	SyntheticName string
	IR            ir.Type
	Unboxed       bool
}

// Context is the generation context for one top-level named schema's
// emission. It lives for exactly that emission and is then discarded; its
// extracted-type table (Extract/Extracted) is the mechanism guaranteeing the type emitter and
// schema emitter extract the same auxiliary types (invariant 3).
type Context struct {
	// SchemaName is the name of the top-level schema currently being
	// emitted; extracted-type synthetic names are derived from it.
	SchemaName string

	// Path is a dotted location string for diagnostics, mirroring the
	// "context" breadcrumb string the teacher threads through its own
	// recursive generator.
	Path string

	// InsideComponentSchemas is true while emitting the aggregate
	// components module, changing how cross-schema references are
	// qualified.
	InsideComponentSchemas bool

	// AvailableSchemas are the names visible at the current scope;
	// reference lowering consults this before falling back to
	// ModulePrefix-qualified form.
	AvailableSchemas map[string]bool

	// ModulePrefix is prepended to cross-module references.
	ModulePrefix string

	// SelfRefName is set when SchemaName is self-referential; references
	// to this name lower to the language's explicit recursion marker
	// instead of a plain qualified reference.
	SelfRefName string

	// Warnings is a pointer, not a value: Child derives nested contexts by
	// copying the struct, and every descendant must keep accumulating into
	// the one sink the top-level caller eventually reads from.
	Warnings *warnings.Sink

	// table is a pointer for the same reason Warnings is: Child copies the
	// struct, and every descendant's Extract call must land in the one
	// table the top-level context's Extracted() reads from.
	table *extractedTable
}

// extractedTable is the shared, append-only extracted-type cache every
// context derived from the same New() call mutates through its table
// pointer.
type extractedTable struct {
	entries []ExtractedType
	count   int
}

// New creates a context for emitting the named schema.
func New(schemaName string, available map[string]bool, modulePrefix string) *Context {
	return &Context{
		SchemaName:       schemaName,
		Path:             "$",
		AvailableSchemas: available,
		ModulePrefix:     modulePrefix,
		Warnings:         &warnings.Sink{},
		table:            &extractedTable{},
	}
}

// Extracted returns the accumulated extracted-type table in append order.
func (c *Context) Extracted() []ExtractedType {
	return c.table.entries
}

// Extract returns the synthetic name for t, creating a new entry the first
// time t (by structural equality) is seen and returning the existing name
// on every subsequent call — the append-only, deduped-on-append cache spec
// section 3 describes. unboxed records whether t should be remembered as an
// unboxed-variant extraction (consulted by the schema emitter when
// rendering the shape-tagged branches).
func (c *Context) Extract(t ir.Type, unboxed bool) string {
	key := ir.Key(t)
	for _, e := range c.table.entries {
		if ir.Key(e.IR) == key {
			return e.SyntheticName
		}
	}

	c.table.count++
	name := fmt.Sprintf("%s%d", c.SchemaName, c.table.count)

	if pdebug.Enabled {
		g := pdebug.Marker("gencontext.Extract %s at %s", name, c.Path)
		defer g.End()
	}

	c.table.entries = append(c.table.entries, ExtractedType{SyntheticName: name, IR: t, Unboxed: unboxed})
	return name
}

// Lookup returns the extracted-type entry for t if one has already been
// recorded, without creating a new one. Extract already folds this check
// into its own dedup-on-append loop, so callers that only need to extend
// the table should call Extract directly; Lookup is for the read-only case
// (tests, diagnostics) where creating a missing entry would be wrong.
func (c *Context) Lookup(t ir.Type) (ExtractedType, bool) {
	key := ir.Key(t)
	for _, e := range c.table.entries {
		if ir.Key(e.IR) == key {
			return e, true
		}
	}
	return ExtractedType{}, false
}

// Child derives a context for a nested emission (e.g. a property's value)
// that shares the same extracted-type table and schema name but has its own
// diagnostic path.
func (c *Context) Child(pathSuffix string) *Context {
	child := *c
	child.Path = c.Path + pathSuffix
	return &child
}

// QualifyReference renders a reference to name the way the current scope
// requires: bare if it's visible in AvailableSchemas, prefixed with
// ModulePrefix otherwise.
func (c *Context) QualifyReference(name string) string {
	if name == c.SelfRefName {
		return "t" // language's explicit-recursion marker, see typeemit.
	}
	if c.AvailableSchemas != nil && c.AvailableSchemas[name] {
		return name
	}
	if c.ModulePrefix == "" {
		return name
	}
	return c.ModulePrefix + "." + name
}
