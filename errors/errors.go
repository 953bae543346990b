// Package errors provides error handling for xsd2fhir.
//
// It re-exports github.com/cockroachdb/errors for wrapping and hints, and
// defines the conversion error codes together with a typed Error that names
// the offending qualified type. Every code has a sentinel usable with Is:
//
//	if errors.Is(err, errors.ErrCyclicBaseType) {
//	    ...
//	}
package errors

import (
	"fmt"
	"strings"

	crdb "github.com/cockroachdb/errors"

	"github.com/reoring/xsd2fhir/i18n"
)

// Error codes (exported consts for IDE completion and type safety by convention)
const (
	CodeMissingRequiredArgument = "missing_required_argument"
	CodeSchemaLoad              = "schema_load"
	CodeLibraryLoad             = "library_load"
	CodeUnmappedPrimitiveType   = "unmapped_primitive_type"
	CodeUnresolvedTypeReference = "unresolved_type_reference"
	CodeUnsupportedContentModel = "unsupported_content_model"
	CodeCyclicBaseType          = "cyclic_base_type"
	CodeInvalidOption           = "invalid_option"
	CodeOutputWrite             = "output_write"
)

// Core error creation and wrapping
var (
	New      = crdb.New
	Newf     = crdb.Newf
	Wrap     = crdb.Wrap
	Wrapf    = crdb.Wrapf
	WithHint = crdb.WithHint
)

// Error inspection
var (
	Is           = crdb.Is
	As           = crdb.As
	FlattenHints = crdb.FlattenHints
)

// Sentinels, one per code.
var (
	ErrMissingRequiredArgument = New(CodeMissingRequiredArgument)
	ErrSchemaLoad              = New(CodeSchemaLoad)
	ErrLibraryLoad             = New(CodeLibraryLoad)
	ErrUnmappedPrimitiveType   = New(CodeUnmappedPrimitiveType)
	ErrUnresolvedTypeReference = New(CodeUnresolvedTypeReference)
	ErrUnsupportedContentModel = New(CodeUnsupportedContentModel)
	ErrCyclicBaseType          = New(CodeCyclicBaseType)
	ErrInvalidOption           = New(CodeInvalidOption)
	ErrOutputWrite             = New(CodeOutputWrite)
)

var sentinels = map[string]error{
	CodeMissingRequiredArgument: ErrMissingRequiredArgument,
	CodeSchemaLoad:              ErrSchemaLoad,
	CodeLibraryLoad:             ErrLibraryLoad,
	CodeUnmappedPrimitiveType:   ErrUnmappedPrimitiveType,
	CodeUnresolvedTypeReference: ErrUnresolvedTypeReference,
	CodeUnsupportedContentModel: ErrUnsupportedContentModel,
	CodeCyclicBaseType:          ErrCyclicBaseType,
	CodeInvalidOption:           ErrInvalidOption,
	CodeOutputWrite:             ErrOutputWrite,
}

// Error is a conversion failure.
type Error struct {
	Code string
	// Type is the qualified name of the type being resolved, when known.
	Type string
	// Ref is the qualified name of the reference that failed, when different
	// from Type.
	Ref string
	// Chain is the base-type chain for CodeCyclicBaseType, first to repeated.
	Chain []string
	// Detail is free text appended to the message (argument name, file URL).
	Detail string
	Cause  error
}

// Error renders "code: message ...". The message comes from the i18n
// translator.
func (e *Error) Error() string {
	b := &strings.Builder{}
	b.WriteString(e.Code)
	b.WriteString(": ")
	b.WriteString(i18n.T(e.Code, e.params()))
	if e.Ref != "" {
		fmt.Fprintf(b, " %s", e.Ref)
		if e.Type != "" && e.Type != e.Ref {
			fmt.Fprintf(b, " (in %s)", e.Type)
		}
	} else if e.Type != "" {
		fmt.Fprintf(b, " %s", e.Type)
	}
	if len(e.Chain) > 0 {
		fmt.Fprintf(b, " [%s]", strings.Join(e.Chain, " -> "))
	}
	if e.Detail != "" {
		fmt.Fprintf(b, ": %s", e.Detail)
	}
	if e.Cause != nil {
		fmt.Fprintf(b, ": %v", e.Cause)
	}
	return b.String()
}

func (e *Error) params() map[string]string {
	return map[string]string{"type": e.Type, "ref": e.Ref, "detail": e.Detail}
}

// Is matches the sentinel of the error's code.
func (e *Error) Is(target error) bool {
	s, ok := sentinels[e.Code]
	return ok && s == target
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error { return e.Cause }

// AsError extracts an *Error from err using As internally.
func AsError(err error) (*Error, bool) {
	if err == nil {
		return nil, false
	}
	var e *Error
	if As(err, &e) {
		return e, true
	}
	return nil, false
}

// CodeOf returns the code of the first *Error in err's chain, or "".
func CodeOf(err error) string {
	if e, ok := AsError(err); ok {
		return e.Code
	}
	return ""
}
