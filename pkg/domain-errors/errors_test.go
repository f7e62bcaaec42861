package domainerrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodedErrors(t *testing.T) {
	t.Run("New carries code and message", func(t *testing.T) {
		err := New(CodeValidation, "globalScore out of range")
		assert.True(t, HasCode(err, CodeValidation))
		assert.False(t, HasCode(err, CodeConflict))
		assert.Contains(t, err.Error(), "globalScore out of range")
	})

	t.Run("Newf formats the message", func(t *testing.T) {
		err := Newf(CodeConflict, "artifact is %s", "DRAFT")
		assert.Contains(t, err.Error(), "artifact is DRAFT")
	})

	t.Run("Wrap preserves the cause", func(t *testing.T) {
		cause := errors.New("connection reset")
		err := Wrap(cause, CodeInternal, "append failed")
		require.Error(t, err)
		assert.True(t, HasCode(err, CodeInternal))
		assert.ErrorIs(t, err, cause)
		assert.Contains(t, err.Error(), "connection reset")
	})

	t.Run("Wrap of nil is nil", func(t *testing.T) {
		assert.NoError(t, Wrap(nil, CodeInternal, "ignored"))
	})

	t.Run("CodeOf defaults to internal", func(t *testing.T) {
		assert.Equal(t, CodeValidation, CodeOf(New(CodeValidation, "x")))
		assert.Equal(t, CodeInternal, CodeOf(errors.New("plain")))
		assert.Equal(t, CodeInternal, CodeOf(fmt.Errorf("wrapped: %w", errors.New("plain"))))
	})

	t.Run("code survives fmt wrapping", func(t *testing.T) {
		err := fmt.Errorf("handler: %w", New(CodeTooManyRequests, "slow down"))
		assert.True(t, HasCode(err, CodeTooManyRequests))
		assert.Equal(t, CodeTooManyRequests, CodeOf(err))
	})
}

func TestToHTTPStatus(t *testing.T) {
	cases := map[Code]int{
		CodeValidation:      http.StatusUnprocessableEntity,
		CodeBadRequest:      http.StatusBadRequest,
		CodeUnauthorized:    http.StatusUnauthorized,
		CodeForbidden:       http.StatusForbidden,
		CodeNotFound:        http.StatusNotFound,
		CodeConflict:        http.StatusConflict,
		CodeTooManyRequests: http.StatusTooManyRequests,
		CodeInternal:        http.StatusInternalServerError,
	}
	for code, status := range cases {
		assert.Equal(t, status, ToHTTPStatus(code), string(code))
	}
	assert.Equal(t, http.StatusInternalServerError, ToHTTPStatus(Code("unknown")))
}
