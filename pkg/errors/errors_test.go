package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrapMatchesKindAndCause(t *testing.T) {
	kind := Remote("LIST_FAILED", "failed to list folder")
	cause := errors.New("connection refused")

	err := Wrap(kind, cause)

	assert.ErrorIs(t, err, kind)
	assert.ErrorIs(t, err, ErrRemote)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "failed to list folder", PublicMessage(err, "fallback"))
}

func TestWrapNilCauseReturnsKind(t *testing.T) {
	kind := NotFound("entry not found")
	assert.Same(t, kind, Wrap(kind, nil))
}

func TestDetailKeepsKind(t *testing.T) {
	kind := Validation("INVALID_NAME", "invalid name")

	err := Detail(kind, "name must not contain '/'")

	assert.ErrorIs(t, err, kind)
	assert.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, "name must not contain '/'", PublicMessage(err, "fallback"))
}

func TestPublicMessageFallback(t *testing.T) {
	assert.Equal(t, "fallback", PublicMessage(errors.New("raw driver error"), "fallback"))
	assert.Equal(t, "fallback", PublicMessage(nil, "fallback"))
}

func TestPublicMessageUsesOutermost(t *testing.T) {
	inner := NotFound("parent folder not found")
	outer := Wrap(Remote("CREATE_FAILED", "failed to create folder"), inner)

	assert.Equal(t, "failed to create folder", PublicMessage(fmt.Errorf("create: %w", outer), ""))
	assert.ErrorIs(t, outer, ErrNotFound)
}

func TestConstructorsWrapSentinels(t *testing.T) {
	tests := []struct {
		err      *AppError
		sentinel error
	}{
		{Unauthorized("x"), ErrUnauthorized},
		{Forbidden("x"), ErrForbidden},
		{BadRequest("x"), ErrBadRequest},
		{Conflict("x"), ErrConflict},
	}
	for _, tt := range tests {
		assert.ErrorIs(t, tt.err, tt.sentinel)
	}

	cause := errors.New("boom")
	internal := InternalServer("internal", cause)
	assert.ErrorIs(t, internal, cause)
	assert.Equal(t, "internal: boom", internal.Error())
}
