package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsMatchesWrappedCodes(t *testing.T) {
	err := fmt.Errorf("sending: %w", NotFound("Recipient", nil))

	assert.True(t, Is(err, "NOT_FOUND"))
	assert.False(t, Is(err, "FORBIDDEN"))
	assert.False(t, Is(stderrors.New("plain"), "NOT_FOUND"))
}

func TestConstructorsCarryStatus(t *testing.T) {
	cases := []struct {
		err    *AppError
		code   string
		status int
	}{
		{Validation("content is empty"), "VALIDATION_ERROR", http.StatusBadRequest},
		{SelfTarget("cannot message yourself"), "SELF_TARGET", http.StatusBadRequest},
		{Forbidden("not yours", nil), "FORBIDDEN", http.StatusForbidden},
		{Unauthorized("bad token", nil), "UNAUTHORIZED", http.StatusUnauthorized},
		{Internal("boom", nil), "INTERNAL_ERROR", http.StatusInternalServerError},
		{TooManyRequests("slow down"), "TOO_MANY_REQUESTS", http.StatusTooManyRequests},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.code, tc.err.Code)
		assert.Equal(t, tc.status, tc.err.Status)
	}
}

func TestUnwrapExposesCause(t *testing.T) {
	cause := stderrors.New("firestore unavailable")
	err := Internal("Failed to create message", cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "INTERNAL_ERROR: Failed to create message", err.Error())
}
