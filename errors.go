package xsd2fhir

import "github.com/reoring/xsd2fhir/errors"

// Error codes (re-exported so callers of the root package need no second import)
const (
	CodeMissingRequiredArgument = errors.CodeMissingRequiredArgument
	CodeSchemaLoad              = errors.CodeSchemaLoad
	CodeLibraryLoad             = errors.CodeLibraryLoad
	CodeUnmappedPrimitiveType   = errors.CodeUnmappedPrimitiveType
	CodeUnresolvedTypeReference = errors.CodeUnresolvedTypeReference
	CodeUnsupportedContentModel = errors.CodeUnsupportedContentModel
	CodeCyclicBaseType          = errors.CodeCyclicBaseType
	CodeInvalidOption           = errors.CodeInvalidOption
	CodeOutputWrite             = errors.CodeOutputWrite
)

// Error is the typed conversion failure.
type Error = errors.Error

// AsError extracts an *Error from err.
func AsError(err error) (*Error, bool) { return errors.AsError(err) }

// CodeOf returns the code of the first *Error in err's chain, or "".
func CodeOf(err error) string { return errors.CodeOf(err) }
