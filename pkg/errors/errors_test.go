package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		want int
	}{
		{"not found", NotFound("appointment", nil), http.StatusNotFound},
		{"bad request", BadRequest("invalid status", nil), http.StatusBadRequest},
		{"unauthorized", Unauthorized(""), http.StatusUnauthorized},
		{"forbidden", Forbidden(""), http.StatusForbidden},
		{"conflict", Conflict("email already registered", nil), http.StatusConflict},
		{"internal", Internal(stderrors.New("boom")), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.HTTPStatus())
		})
	}
}

func TestAsUnwrapsChains(t *testing.T) {
	cause := stderrors.New("no rows")
	wrapped := fmt.Errorf("failed to load: %w", NotFound("doctor", cause))

	appErr, ok := As(wrapped)
	assert.True(t, ok)
	assert.Equal(t, "doctor not found", appErr.Message)
	assert.ErrorIs(t, wrapped, cause)
	assert.True(t, HasCode(wrapped, ErrNotFound))
	assert.False(t, HasCode(wrapped, ErrForbidden))

	_, ok = As(cause)
	assert.False(t, ok)
}

func TestDefaultMessages(t *testing.T) {
	assert.Equal(t, "unauthorized", Unauthorized("").Error())
	assert.Equal(t, "access denied", Forbidden("").Error())
	assert.Equal(t, "internal server error: boom", Internal(stderrors.New("boom")).Error())
}
