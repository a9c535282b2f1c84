// Package compiler is the one public entry point into the schema
// compilation core (spec.md section 6): it wires the parser, optimiser,
// component-schema orchestrator, endpoint emitter, and doc-override
// workflow together, turning a rawschema.Document and a Config into a
// Result or one structured Error.
package compiler

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/oaslang/schemaforge/docoverride"
	"github.com/oaslang/schemaforge/endpoint"
	"github.com/oaslang/schemaforge/ir"
	"github.com/oaslang/schemaforge/optimizer"
	"github.com/oaslang/schemaforge/orchestrator"
	"github.com/oaslang/schemaforge/parser"
	"github.com/oaslang/schemaforge/rawschema"
	"github.com/oaslang/schemaforge/warnings"
)

// File is one synthesised output file.
type File struct {
	Path     string
	Contents string
}

// Result is Compile's success value: the synthesised files and every
// warning accumulated along the way.
type Result struct {
	Files    []File
	Warnings []warnings.Warning
}

// Compile turns a parsed, pre-dereferenced OpenAPI document into a Result,
// or one structured *Error. It never panics on malformed-but-parseable
// input; recoverable conditions accumulate as Result.Warnings instead
// (spec.md section 7).
func Compile(doc *rawschema.Document, cfg Config) (*Result, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, newError(KindInvalidConfig, Context{}, err)
	}

	if cfg.ValidateAgainstMetaSchema {
		if err := preflight(doc); err != nil {
			if asErr, ok := err.(*Error); ok {
				return nil, asErr
			}
			return nil, newError(KindValidation, Context{}, err)
		}
	}

	if err := doc.ValidateReferences(); err != nil {
		return nil, newError(KindReference, Context{}, err)
	}

	var sink warnings.Sink

	names := doc.SchemaNames()
	sort.Strings(names)
	known := make(map[string]bool, len(names))
	for _, name := range names {
		known[name] = true
	}

	parsed := make(map[string]ir.Type, len(names))
	for _, name := range names {
		node := doc.Components.Schemas[name]
		if node == nil {
			return nil, newErrorf(KindSpecResolution, Context{Schema: name}, "component schema %q has no body", name)
		}
		t := parser.Parse(node, "$", known, &sink)
		parsed[name] = t
	}

	optimized := make(map[string]ir.Type, len(names))
	for name, t := range parsed {
		optimized[name] = optimizer.Optimize(t, parsed)
	}

	schemas := make([]orchestrator.Schema, 0, len(names))
	for _, name := range names {
		schemas = append(schemas, orchestrator.Schema{Name: name, Type: optimized[name]})
	}

	modules, orchWarnings := orchestrator.Orchestrate(schemas, cfg.BaseModulePrefix)
	for _, w := range orchWarnings {
		sink.Add(w)
	}

	var files []File
	for _, m := range modules {
		files = append(files, File{
			Path:     filepath.Join(cfg.BaseModulePrefix, m.Name+".res"),
			Contents: m.Body,
		})
	}

	endpointFiles, err := compileEndpoints(doc, optimized, cfg, &sink)
	if err != nil {
		return nil, err
	}
	files = append(files, endpointFiles...)

	return &Result{Files: files, Warnings: sink.All()}, nil
}

func compileEndpoints(doc *rawschema.Document, known map[string]ir.Type, cfg Config, sink *warnings.Sink) ([]File, error) {
	var files []File

	paths := make([]rawschema.Path, 0, len(doc.Paths))
	for p := range doc.Paths {
		paths = append(paths, p)
	}
	sort.Slice(paths, func(i, j int) bool { return paths[i] < paths[j] })

	for _, path := range paths {
		methods := doc.Paths[path]
		verbs := make([]rawschema.HTTPVerb, 0, len(methods))
		for v := range methods {
			verbs = append(verbs, v)
		}
		sort.Slice(verbs, func(i, j int) bool { return verbs[i] < verbs[j] })

		for _, verb := range verbs {
			op := methods[verb]
			if !tagSelected(op.Tags, cfg.IncludeTags, cfg.ExcludeTags) {
				continue
			}

			description := op.Description
			if description == "" {
				description = op.Summary
			}
			if cfg.DocOverrideDir != "" {
				resolved, err := resolveOverride(cfg.DocOverrideDir, cfg.BaseModulePrefix,
					endpoint.OperationName(verb, path, op), string(path), string(verb), op, description)
				if err != nil {
					return nil, newError(KindFileWrite, Context{Path: string(path), Operation: string(verb)}, err)
				}
				description = resolved
			}

			result := endpoint.Emit(verb, path, op, description, known, doc.Components.Parameters, cfg.BaseModulePrefix)
			for _, w := range result.Warnings {
				sink.Add(w)
			}

			files = append(files, File{
				Path:     filepath.Join(cfg.BaseModulePrefix, "endpoints", result.OperationName+".res"),
				Contents: result.Body,
			})
		}
	}

	return files, nil
}

// tagSelected applies the include/exclude tag filters (spec.md section 6).
// An empty include list means "all tags included"; exclude always wins.
func tagSelected(tags, include, exclude []string) bool {
	for _, t := range tags {
		for _, x := range exclude {
			if t == x {
				return false
			}
		}
	}
	if len(include) == 0 {
		return true
	}
	for _, t := range tags {
		for _, inc := range include {
			if t == inc {
				return true
			}
		}
	}
	return false
}

// resolveOverride reads {doc_override_dir}/{module}/{operation}.md if it
// exists and, when its hash matches the endpoint's current fingerprint and
// its override block is non-empty, returns the override description;
// otherwise it returns the endpoint's own default description unchanged.
func resolveOverride(dir, module, operation, path, method string, op *rawschema.Operation, defaultDescription string) (string, error) {
	overridePath := filepath.Join(dir, docoverride.Path(module, operation))
	data, err := os.ReadFile(overridePath)
	if os.IsNotExist(err) {
		return defaultDescription, nil
	}
	if err != nil {
		return "", fmt.Errorf("reading doc override %s: %w", overridePath, err)
	}

	file, err := docoverride.Parse(data)
	if err != nil {
		return "", fmt.Errorf("parsing doc override %s: %w", overridePath, err)
	}

	currentHash := docoverride.Hash(path, method, op.OperationID, op.Summary, op.Description)
	if file.Frontmatter.Hash != currentHash {
		return defaultDescription, nil
	}
	if !file.HasOverride() {
		return defaultDescription, nil
	}
	return file.Override, nil
}
