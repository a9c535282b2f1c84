// Package orchestrator implements the component-schema orchestrator (spec
// section 4.6): it orders named schemas so dependencies come before
// dependents, detects self-reference and wires the fixed-point/recursive-
// marker machinery for it, and emits one module-like declaration block per
// schema plus its generation context's extracted auxiliary types.
package orchestrator

import (
	"fmt"
	"sort"
	"strings"

	"github.com/oaslang/schemaforge/gencontext"
	"github.com/oaslang/schemaforge/ir"
	"github.com/oaslang/schemaforge/schemaemit"
	"github.com/oaslang/schemaforge/typeemit"
	"github.com/oaslang/schemaforge/warnings"
)

// Schema is one named, optimised top-level IR type ready for emission.
type Schema struct {
	Name string
	Type ir.Type
}

// Module is the rendered output for one named schema: its type
// declaration, its validator binding, and any auxiliary types the
// generation context accumulated while emitting it.
type Module struct {
	Name       string
	Body       string
	CycleFlag  bool
	Warnings   []warnings.Warning
}

// Orchestrate orders schemas, detects self-reference and cycles, and
// renders each one's module block in dependency order. modulePrefix is the
// qualifier cross-module references use (SPEC_FULL.md section 6).
func Orchestrate(schemas []Schema, modulePrefix string) ([]Module, []warnings.Warning) {
	byName := make(map[string]ir.Type, len(schemas))
	available := make(map[string]bool, len(schemas))
	for _, s := range schemas {
		byName[s.Name] = s.Type
		available[s.Name] = true
	}

	edges := buildEdges(schemas, available)
	order, flagged, sortWarnings := order(schemas, edges)

	modules := make([]Module, 0, len(order))
	var allWarnings []warnings.Warning
	allWarnings = append(allWarnings, sortWarnings...)

	for _, name := range order {
		t := byName[name]
		ctx := gencontext.New(name, available, modulePrefix)
		if isSelfReferential(name, t) {
			ctx.SelfRefName = name
		}

		body := renderModule(name, t, ctx)
		modules = append(modules, Module{
			Name:      name,
			Body:      body,
			CycleFlag: flagged[name],
			Warnings:  ctx.Warnings.All(),
		})
		allWarnings = append(allWarnings, ctx.Warnings.All()...)
	}

	return modules, allWarnings
}

// buildEdges extracts one edge (A, B) per direct reference from A's body
// to another known schema name B (spec section 4.6 step 1).
func buildEdges(schemas []Schema, available map[string]bool) map[string][]string {
	edges := make(map[string][]string, len(schemas))
	for _, s := range schemas {
		var deps []string
		seen := map[string]bool{}
		collectReferences(s.Type, func(name string) {
			if name == s.Name || !available[name] || seen[name] {
				return
			}
			seen[name] = true
			deps = append(deps, name)
		})
		sort.Strings(deps)
		edges[s.Name] = deps
	}
	return edges
}

func collectReferences(t ir.Type, visit func(name string)) {
	switch t.Kind {
	case ir.KindReference:
		visit(t.RefName)
	case ir.KindArray:
		if t.Items != nil {
			collectReferences(*t.Items, visit)
		}
	case ir.KindOption:
		if t.Of != nil {
			collectReferences(*t.Of, visit)
		}
	case ir.KindObject:
		for _, p := range t.Properties {
			collectReferences(p.Type, visit)
		}
		if t.AdditionalProperties != nil {
			collectReferences(*t.AdditionalProperties, visit)
		}
	case ir.KindUnion, ir.KindIntersection:
		for _, m := range t.Members {
			collectReferences(m, visit)
		}
	}
}

// isSelfReferential reports whether t's own body (not counting the trivial
// case of t itself being a bare Reference, which parsing never produces
// for a named schema) contains a reference back to name.
func isSelfReferential(name string, t ir.Type) bool {
	found := false
	collectReferences(t, func(ref string) {
		if ref == name {
			found = true
		}
	})
	return found
}

// order topologically sorts names by edges (dependencies first), falling
// back per spec section 4.6 step 3: DFS back-edge removal and re-sort,
// then alphabetical order as a last resort. It returns the chosen order
// and the set of names involved in a removed back-edge.
func order(schemas []Schema, edges map[string][]string) ([]string, map[string]bool, []warnings.Warning) {
	names := make([]string, 0, len(schemas))
	for _, s := range schemas {
		names = append(names, s.Name)
	}
	sort.Strings(names)

	if sorted, ok := topoSort(names, edges); ok {
		return sorted, map[string]bool{}, nil
	}

	flagged := map[string]bool{}
	visitOrder := byAscendingComplexity(schemas)
	trimmed := removeBackEdges(visitOrder, edges, flagged)
	if sorted, ok := topoSort(names, trimmed); ok {
		var warns []warnings.Warning
		for n := range flagged {
			warns = append(warns, warnings.New(warnings.MissingSchema, n,
				"schema %q participates in a dependency cycle; a back-edge was removed to order output", n))
		}
		sort.Slice(warns, func(i, j int) bool { return warns[i].Path < warns[j].Path })
		return sorted, flagged, warns
	}

	// Fall back to plain alphabetical order. Every name is flagged since
	// the dependency structure couldn't be honoured at all.
	for _, n := range names {
		flagged[n] = true
	}
	return names, flagged, []warnings.Warning{
		warnings.New(warnings.MissingSchema, "$", "dependency graph could not be ordered even after back-edge removal; falling back to alphabetical order"),
	}
}

// topoSort runs a deterministic (alphabetically-tiebroken) Kahn's-algorithm
// sort. ok is false if a cycle remains.
func topoSort(names []string, edges map[string][]string) ([]string, bool) {
	indegree := make(map[string]int, len(names))
	dependents := make(map[string][]string, len(names))
	for _, n := range names {
		indegree[n] = 0
	}
	for _, n := range names {
		for _, dep := range edges[n] {
			indegree[n]++
			dependents[dep] = append(dependents[dep], n)
		}
	}

	var ready []string
	for _, n := range names {
		if indegree[n] == 0 {
			ready = append(ready, n)
		}
	}
	sort.Strings(ready)

	var out []string
	for len(ready) > 0 {
		n := ready[0]
		ready = ready[1:]
		out = append(out, n)

		next := append([]string{}, dependents[n]...)
		sort.Strings(next)
		for _, d := range next {
			indegree[d]--
			if indegree[d] == 0 {
				ready = insertSorted(ready, d)
			}
		}
	}

	if len(out) != len(names) {
		return nil, false
	}
	return out, true
}

func insertSorted(sorted []string, v string) []string {
	i := sort.SearchStrings(sorted, v)
	sorted = append(sorted, "")
	copy(sorted[i+1:], sorted[i:])
	sorted[i] = v
	return sorted
}

// byAscendingComplexity orders schema names by ir.Complexity ascending
// (name ascending to break ties), so removeBackEdges's DFS visits the
// simplest schemas first: when a cycle forces a choice, the DFS enters the
// cycle at the smaller schema, so the edge dropped is the one leading from
// a larger schema back to it, and the larger schema is emitted first with
// a forward reference to the smaller one.
func byAscendingComplexity(schemas []Schema) []string {
	names := make([]string, 0, len(schemas))
	complexity := make(map[string]int, len(schemas))
	for _, s := range schemas {
		names = append(names, s.Name)
		complexity[s.Name] = ir.Complexity(s.Type)
	}
	sort.Slice(names, func(i, j int) bool {
		if complexity[names[i]] != complexity[names[j]] {
			return complexity[names[i]] < complexity[names[j]]
		}
		return names[i] < names[j]
	})
	return names
}

// removeBackEdges runs a DFS over the dependency graph and drops every
// edge that closes a cycle (points back to a node still on the recursion
// stack), returning a copy of edges with those back-edges removed.
func removeBackEdges(names []string, edges map[string][]string, flagged map[string]bool) map[string][]string {
	trimmed := make(map[string][]string, len(edges))
	for n, deps := range edges {
		trimmed[n] = append([]string{}, deps...)
	}

	state := make(map[string]int, len(names)) // 0=unvisited 1=onstack 2=done
	var visit func(string)
	visit = func(n string) {
		state[n] = 1
		kept := trimmed[n][:0]
		for _, dep := range trimmed[n] {
			if state[dep] == 1 {
				flagged[n] = true
				flagged[dep] = true
				continue // drop the back-edge
			}
			kept = append(kept, dep)
			if state[dep] == 0 {
				visit(dep)
			}
		}
		trimmed[n] = kept
		state[n] = 2
	}
	for _, n := range names {
		if state[n] == 0 {
			visit(n)
		}
	}
	return trimmed
}

// fileHeader renders the deterministic, timestamp-free header every
// emitted file carries (spec section 4.6 step 6).
func fileHeader(name string) string {
	return fmt.Sprintf("// Code generated by schemaforge. DO NOT EDIT.\n// source: component schema %q\n", name)
}

// renderModule renders the full module block for one named schema: its
// type declaration, validator binding, and any auxiliary extracted types
// and validators the context accumulated while emitting it.
func renderModule(name string, t ir.Type, ctx *gencontext.Context) string {
	var b strings.Builder
	b.WriteString(fileHeader(name))
	b.WriteString(fmt.Sprintf("module %s = {\n", name))

	if ctx.SelfRefName == name {
		b.WriteString(fmt.Sprintf("  type rec t = %s\n", typeemit.Lower(t, ctx, false)))
	} else {
		b.WriteString(fmt.Sprintf("  type t = %s\n", typeemit.Lower(t, ctx, false)))
	}

	schemaBody := schemaemit.Lower(t, ctx, false)
	if ctx.SelfRefName == name {
		b.WriteString(fmt.Sprintf("  let schema = recursive(%q, self => %s)\n", name, schemaBody))
	} else {
		b.WriteString(fmt.Sprintf("  let schema = %s\n", schemaBody))
	}

	for _, extracted := range ctx.Extracted() {
		b.WriteString(renderExtracted(extracted, ctx))
	}

	b.WriteString("}\n")
	return b.String()
}

// renderExtracted renders one auxiliary type the generation context
// accumulated as its own nested module, "module Pet1 = { type t = ...; let
// schema = ... }" — the same t/schema shape as a top-level named schema,
// so referencing it is always "<Name>.t" / "<Name>.schema" regardless of
// whether <Name> is a component schema or something the emitters
// extracted along the way.
func renderExtracted(e gencontext.ExtractedType, ctx *gencontext.Context) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("  module %s = {\n", e.SyntheticName))
	if e.Unboxed {
		b.WriteString(fmt.Sprintf("    type t = %s\n", typeemit.UnboxedVariantDecl(e.IR, ctx)))
		b.WriteString(fmt.Sprintf("    let schema = %s\n", schemaemit.UnboxedVariantValidator(e.IR, ctx)))
	} else {
		b.WriteString(fmt.Sprintf("    type t = %s\n", typeemit.RecordLiteral(e.IR, ctx)))
		b.WriteString(fmt.Sprintf("    let schema = %s\n", schemaemit.ObjectLiteral(e.IR, ctx)))
	}
	b.WriteString("  }\n")
	return b.String()
}
