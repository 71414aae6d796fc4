package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsMatchesKind(t *testing.T) {
	err := fmt.Errorf("run failed: %w", Clone(ErrUnsatisfiable, "solver gave up after 3 attempts"))

	assert.True(t, errors.Is(err, ErrUnsatisfiable))
	assert.False(t, errors.Is(err, ErrVerificationFailed))
	assert.Equal(t, KindUnsatisfiable, KindOf(err))
}

func TestErrorMessage(t *testing.T) {
	err := New(KindSchemaInvalid, "invalid constraint package", "days: required", "subjects: required")
	assert.Equal(t, "invalid constraint package: days: required; subjects: required", err.Error())

	wrapped := Wrap(errors.New("boom"), KindUnsatisfiable, "solve failed")
	assert.Equal(t, "solve failed: boom", wrapped.Error())
	assert.EqualError(t, errors.Unwrap(wrapped), "boom")
}

func TestCloneDoesNotShareDetails(t *testing.T) {
	original := New(KindSchemaInvalid, "invalid", "a")
	clone := Clone(original, "")
	clone.Details[0] = "b"

	assert.Equal(t, "a", original.Details[0])
	assert.Equal(t, "invalid", clone.Message)
}

func TestKindOfUntyped(t *testing.T) {
	assert.Equal(t, Kind(""), KindOf(errors.New("plain")))
	_, ok := FromError(nil)
	assert.False(t, ok)
}
