package compiler

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind enumerates the structured, fatal error variants spec.md section 6
// names. Every Compile failure is exactly one of these.
type Kind string

const (
	KindSpecResolution Kind = "SpecResolutionError"
	KindSchemaParse    Kind = "SchemaParseError"
	KindReference      Kind = "ReferenceError"
	KindValidation     Kind = "ValidationError"
	KindCircularSchema Kind = "CircularSchemaError"
	KindFileWrite      Kind = "FileWriteError"
	KindInvalidConfig  Kind = "InvalidConfigError"
	KindUnknown        Kind = "UnknownError"
)

// Context is the location record every structured error carries (spec.md
// section 6: "{ path, operation, schema? }").
type Context struct {
	Path      string
	Operation string
	Schema    string
}

// Error is the one structured error type Compile ever returns; Kind
// selects the variant, Cause is the underlying pkg/errors-wrapped
// failure.
type Error struct {
	Kind    Kind
	Context Context
	Cause   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s (path=%q operation=%q schema=%q)",
		e.Kind, e.Cause, e.Context.Path, e.Context.Operation, e.Context.Schema)
}

// Unwrap exposes Cause to errors.Is/errors.As.
func (e *Error) Unwrap() error { return e.Cause }

func newError(kind Kind, ctx Context, cause error) *Error {
	return &Error{Kind: kind, Context: ctx, Cause: cause}
}

func newErrorf(kind Kind, ctx Context, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Context: ctx, Cause: errors.Errorf(format, args...)}
}
