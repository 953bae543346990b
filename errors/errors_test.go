package errors

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError_MessageNamesTypeAndRef(t *testing.T) {
	err := &Error{Code: CodeUnresolvedTypeReference, Type: "Demo.Person", Ref: "Demo.Missing"}
	assert.Equal(t, "unresolved_type_reference: cannot resolve type reference Demo.Missing (in Demo.Person)", err.Error())
}

func TestError_MessageChain(t *testing.T) {
	err := &Error{Code: CodeCyclicBaseType, Type: "Demo.A", Chain: []string{"Demo.A", "Demo.B", "Demo.A"}}
	assert.Equal(t, "cyclic_base_type: cyclic base type chain Demo.A [Demo.A -> Demo.B -> Demo.A]", err.Error())
}

func TestError_IsSentinel(t *testing.T) {
	err := &Error{Code: CodeUnmappedPrimitiveType, Type: "gDay"}
	assert.True(t, stderrors.Is(err, ErrUnmappedPrimitiveType))
	assert.False(t, stderrors.Is(err, ErrUnresolvedTypeReference))

	wrapped := Wrap(err, "converting")
	assert.True(t, stderrors.Is(wrapped, ErrUnmappedPrimitiveType))
}

func TestAsError(t *testing.T) {
	cause := New("boom")
	wrapped := Wrapf(&Error{Code: CodeSchemaLoad, Detail: "mem://x.xsd", Cause: cause}, "load")

	e, ok := AsError(wrapped)
	require.True(t, ok)
	assert.Equal(t, CodeSchemaLoad, e.Code)
	assert.True(t, stderrors.Is(wrapped, cause))
	assert.Equal(t, CodeSchemaLoad, CodeOf(wrapped))

	_, ok = AsError(nil)
	assert.False(t, ok)
	assert.Equal(t, "", CodeOf(New("plain")))
}
