package apperror

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		kind Kind
		want int
	}{
		{Unauthenticated, 401},
		{Unauthorized, 401},
		{ValidationFailed, 400},
		{Conflict, 400},
		{BadRequest, 400},
		{NotFound, 404},
		{Internal, 500},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, New(tt.kind, "x").HTTPStatus())
		})
	}
}

func TestBody(t *testing.T) {
	assert.Equal(t, map[string]any{"msg": "Post not found"}, New(NotFound, "Post not found").Body())
	assert.Equal(t,
		map[string]any{"errors": []Violation{{Message: "User already exist"}}},
		Listed(Conflict, "User already exist").Body(),
	)
	assert.Equal(t, map[string]any{"msg": "Server Error"}, Wrap(errors.New("db down"), "failed").Body())
}

func TestFrom(t *testing.T) {
	wrapped := fmt.Errorf("context: %w", ErrNotAuthorized)
	assert.Same(t, ErrNotAuthorized, From(wrapped))
	assert.True(t, IsKind(wrapped, Unauthorized))

	cause := errors.New("boom")
	internal := From(cause)
	assert.Equal(t, Internal, internal.Kind)
	assert.ErrorIs(t, internal, cause)
}
