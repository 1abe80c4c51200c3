package errs

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConstructorsSetStatusAndCode(t *testing.T) {
	tests := []struct {
		name   string
		err    *HTTPError
		status int
		code   string
	}{
		{"unauthorized", NewUnauthorizedError("no", true), http.StatusUnauthorized, "UNAUTHORIZED"},
		{"bad request", NewBadRequestError("bad", false, nil, nil, nil), http.StatusBadRequest, "BAD_REQUEST"},
		{"not found", NewNotFoundError("gone", true, nil), http.StatusNotFound, "NOT_FOUND"},
		{"conflict", NewConflictError("taken", true, nil, nil), http.StatusConflict, "CONFLICT"},
		{"internal", NewInternalServerError(), http.StatusInternalServerError, "INTERNAL_SERVER_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, tt.err.Status)
			assert.Equal(t, tt.code, tt.err.Code)
		})
	}
}

func TestCustomCodeWins(t *testing.T) {
	code := "USER_ALREADY_EXISTS"
	err := NewConflictError("Email already registered", true, &code, nil)

	assert.Equal(t, code, err.Code)
	assert.Equal(t, "Email already registered", err.Error())
}

func TestIsMatchesWrappedHTTPError(t *testing.T) {
	wrapped := fmt.Errorf("service: %w", NewNotFoundError("User not found", true, nil))

	assert.True(t, errors.Is(wrapped, &HTTPError{}))
	assert.False(t, errors.Is(errors.New("plain"), &HTTPError{}))
}

func TestWithActionDoesNotMutate(t *testing.T) {
	base := NewConflictError("Activity is still referenced", true, nil, nil)
	hinted := base.WithAction(&Action{Type: ActionTypeHint, Value: "PATCH /activities/1/toggle-status"})

	assert.Nil(t, base.Action)
	assert.Equal(t, ActionTypeHint, hinted.Action.Type)
	assert.Equal(t, base.Status, hinted.Status)
}
