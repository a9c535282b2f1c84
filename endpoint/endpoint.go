// Package endpoint implements the endpoint emitter (spec section 4.7):
// for each HTTP operation it derives an operation name, compiles the
// request and response body schemas through the same parser/optimizer/
// emitter pipeline the component-schema orchestrator uses, and renders a
// handler declaration whose signature depends on whether query parameters
// and a request body schema are present and on the response shape. The
// request body's `required` flag is not consulted: a declared body with a
// schema is always a non-optional argument.
package endpoint

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/oaslang/schemaforge/gencontext"
	"github.com/oaslang/schemaforge/internal/unionshape"
	"github.com/oaslang/schemaforge/ir"
	"github.com/oaslang/schemaforge/optimizer"
	"github.com/oaslang/schemaforge/parser"
	"github.com/oaslang/schemaforge/rawschema"
	"github.com/oaslang/schemaforge/schemaemit"
	"github.com/oaslang/schemaforge/typeemit"
	"github.com/oaslang/schemaforge/warnings"
)

// preferredResponseCodes is the order the endpoint emitter tries response
// statuses in: the first one declared with content wins (spec section
// 4.7).
var preferredResponseCodes = []rawschema.StatusCode{"200", "201", "202", "204"}

// pathParameterPattern recognises an OpenAPI path-parameter segment the
// same way the teacher's own compilePath (deleted server.go) did, reused
// here purely to normalise a path into an operation name rather than to
// build a request-routing regexp.
var pathParameterPattern = regexp.MustCompile(`\{(\w+)\}`)

// Endpoint is the fully rendered emission for one HTTP operation.
type Endpoint struct {
	OperationName   string
	Method          rawschema.HTTPVerb
	Path            rawschema.Path
	HasQueryParams  bool
	HasRequestBody  bool
	ResponseStatus  rawschema.StatusCode
	HasResponseBody bool
	Body            string
	Warnings        []warnings.Warning
}

// OperationName derives the operation's name: the explicit operationId if
// present, else method+path with path parameters and separators
// normalised.
func OperationName(method rawschema.HTTPVerb, path rawschema.Path, op *rawschema.Operation) string {
	if op != nil && op.OperationID != "" {
		return op.OperationID
	}
	return normalizeMethodAndPath(method, path)
}

func normalizeMethodAndPath(method rawschema.HTTPVerb, path rawschema.Path) string {
	var b strings.Builder
	b.WriteString(strings.ToLower(string(method)))

	for _, part := range strings.Split(string(path), "/") {
		if part == "" {
			continue
		}
		name := part
		if m := pathParameterPattern.FindStringSubmatch(part); m != nil {
			name = "by_" + m[1]
		}
		b.WriteString("_")
		b.WriteString(sanitizeSegment(name))
	}
	return b.String()
}

func sanitizeSegment(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return strings.ToLower(b.String())
}

// Emit compiles one operation's query-params/request/response type+
// validator pairs and handler declaration. known is the optimiser's
// schema-name -> IR map (for simple-reference inlining); parameters is the
// document's #/components/parameters table, consulted when an operation's
// parameter list references one by $ref; modulePrefix is the qualifier
// cross-schema references use.
func Emit(method rawschema.HTTPVerb, path rawschema.Path, op *rawschema.Operation, description string, known map[string]ir.Type, parameters map[string]*rawschema.Parameter, modulePrefix string) Endpoint {
	name := OperationName(method, path, op)
	availableNames := availableFrom(known)
	ctx := gencontext.New(unionshape.PascalCase(name), availableNames, modulePrefix)
	var sink warnings.Sink

	hasParams := false
	var paramsType, paramsSchema string
	if op != nil {
		querySchema, err := rawschema.BuildQuerySchema(op, parameters)
		if err != nil {
			sink.Addf(warnings.MissingSchema, "$.parameters", "could not build query parameter schema: %v", err)
		} else if querySchema.Properties.Len() > 0 {
			t := optimizer.Optimize(parser.Parse(querySchema, "$.parameters", availableNames, &sink), known)
			paramsCtx := ctx.Child(".params")
			paramsType = typeemit.Lower(t, paramsCtx, false)
			paramsSchema = schemaemit.Lower(t, paramsCtx, false)
			hasParams = true
		}
	}

	hasRequest := false
	var requestType, requestSchema string
	if op != nil && op.RequestBody != nil {
		if node := firstJSONSchemaBody(op.RequestBody.Content); node != nil {
			t := optimizer.Optimize(parser.Parse(node, "$.requestBody", availableNames, &sink), known)
			requestCtx := ctx.Child(".request")
			requestType = typeemit.Lower(t, requestCtx, false)
			requestSchema = schemaemit.Lower(t, requestCtx, false)
			hasRequest = true
		}
	}

	status, responseNode := selectResponse(op)
	hasResponse := responseNode != nil
	responseType := "unit"
	var responseSchema string
	if hasResponse {
		t := optimizer.Optimize(parser.Parse(responseNode, "$.responses."+string(status), availableNames, &sink), known)
		responseCtx := ctx.Child(".response")
		responseType = typeemit.Lower(t, responseCtx, false)
		responseSchema = schemaemit.Lower(t, responseCtx, false)
	}

	sink.Join(ctx.Warnings)

	return Endpoint{
		OperationName:   name,
		Method:          method,
		Path:            path,
		HasQueryParams:  hasParams,
		HasRequestBody:  hasRequest,
		ResponseStatus:  status,
		HasResponseBody: hasResponse,
		Body:            render(name, description, hasParams, paramsType, paramsSchema, hasRequest, requestType, requestSchema, hasResponse, responseType, responseSchema, ctx),
		Warnings:        sink.All(),
	}
}

func render(name, description string, hasParams bool, paramsType, paramsSchema string, hasRequest bool, requestType, requestSchema string, hasResponse bool, responseType, responseSchema string, ctx *gencontext.Context) string {
	pascal := unionshape.PascalCase(name)
	var b strings.Builder

	if description != "" {
		for _, line := range strings.Split(strings.TrimSpace(description), "\n") {
			fmt.Fprintf(&b, "// %s\n", line)
		}
	}

	if hasParams {
		fmt.Fprintf(&b, "type %sParams = %s\n", pascal, paramsType)
		fmt.Fprintf(&b, "let %sParamsSchema = %s\n", name, paramsSchema)
	}

	if hasRequest {
		fmt.Fprintf(&b, "type %sRequest = %s\n", pascal, requestType)
		fmt.Fprintf(&b, "let %sRequestSchema = %s\n", name, requestSchema)
	}

	fmt.Fprintf(&b, "type %sResponse = %s\n", pascal, responseType)
	if hasResponse {
		fmt.Fprintf(&b, "let %sResponseSchema = %s\n", name, responseSchema)
	}

	for _, extracted := range ctx.Extracted() {
		b.WriteString(renderExtracted(extracted, ctx))
	}

	b.WriteString(handlerSignature(name, pascal, hasParams, hasRequest, hasResponse))
	return b.String()
}

// renderExtracted renders one auxiliary type the query-params/request/
// response contexts accumulated while emitting this endpoint, as its own
// nested module — the same "module Name = { type t = ...; let schema =
// ... }" shape orchestrator.renderExtracted uses for a component schema's
// own auxiliary types, so a <Name>1.t/<Name>1.schema reference produced by
// any of the three bodies always resolves to a declaration in this file.
func renderExtracted(e gencontext.ExtractedType, ctx *gencontext.Context) string {
	var b strings.Builder
	fmt.Fprintf(&b, "module %s = {\n", e.SyntheticName)
	if e.Unboxed {
		fmt.Fprintf(&b, "  type t = %s\n", typeemit.UnboxedVariantDecl(e.IR, ctx))
		fmt.Fprintf(&b, "  let schema = %s\n", schemaemit.UnboxedVariantValidator(e.IR, ctx))
	} else {
		fmt.Fprintf(&b, "  type t = %s\n", typeemit.RecordLiteral(e.IR, ctx))
		fmt.Fprintf(&b, "  let schema = %s\n", schemaemit.ObjectLiteral(e.IR, ctx))
	}
	b.WriteString("}\n")
	return b.String()
}

// handlerSignature renders the handler's function declaration. Query
// parameters and a request body, when present, are taken as arguments in
// that order; with neither, the handler takes (). The return type is always the
// response type, `unit` when the operation declares no response content.
func handlerSignature(name, pascal string, hasParams, hasRequest, hasResponse bool) string {
	var args []string
	if hasParams {
		args = append(args, fmt.Sprintf("params: %sParams", pascal))
	}
	if hasRequest {
		args = append(args, fmt.Sprintf("request: %sRequest", pascal))
	}
	param := "()"
	if len(args) > 0 {
		param = "(" + strings.Join(args, ", ") + ")"
	}
	returnType := fmt.Sprintf("%sResponse", pascal)
	if !hasResponse {
		returnType = "unit"
	}
	return fmt.Sprintf("let handle%s = %s: %s => ...\n", unionshape.PascalCase(name), param, returnType)
}

// firstJSONSchemaBody returns the application/json schema node from a
// request body's content map, or the first content entry's schema if
// application/json isn't present.
func firstJSONSchemaBody(content map[string]rawschema.MediaType) *rawschema.Node {
	if mt, ok := content["application/json"]; ok && mt.Schema != nil {
		return mt.Schema
	}
	for _, mt := range content {
		if mt.Schema != nil {
			return mt.Schema
		}
	}
	return nil
}

// selectResponse picks the first of {200, 201, 202, 204} declared with
// content, returning its status code and schema node. It returns ("",
// nil) when the operation declares no matching response.
func selectResponse(op *rawschema.Operation) (rawschema.StatusCode, *rawschema.Node) {
	if op == nil {
		return "", nil
	}
	for _, code := range preferredResponseCodes {
		resp, ok := op.Responses[code]
		if !ok {
			continue
		}
		if node := firstJSONSchemaBody(resp.Content); node != nil {
			return code, node
		}
	}
	return "", nil
}

func availableFrom(known map[string]ir.Type) map[string]bool {
	available := make(map[string]bool, len(known))
	for name := range known {
		available[name] = true
	}
	return available
}
