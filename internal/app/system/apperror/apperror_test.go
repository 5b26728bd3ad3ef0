package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestKind(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorKind
	}{
		{"nil", nil, KindUnknown},
		{"plain error", errors.New("boom"), KindUnknown},
		{"not found", NotFound("workspace not found"), KindNotFound},
		{"bad request", BadRequest("bad input"), KindBadRequest},
		{"unauthorized", Unauthorized("nope"), KindUnauthorized},
		{"forbidden", Forbidden("not yours"), KindForbidden},
		{"conflict", Conflict("email already exists"), KindConflict},
		{"wrapped", fmt.Errorf("outer: %w", Conflict("email already exists")), KindConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Kind(tt.err); got != tt.want {
				t.Errorf("Kind() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{NotFound("x"), http.StatusNotFound},
		{BadRequest("x"), http.StatusBadRequest},
		{Unauthorized("x"), http.StatusUnauthorized},
		{Forbidden("x"), http.StatusForbidden},
		{Conflict("x"), http.StatusConflict},
		{errors.New("driver fault"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		if got := HTTPStatus(tt.err); got != tt.want {
			t.Errorf("HTTPStatus(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("duplicate key")
	err := &Error{ErrKind: KindConflict, Code: "DUPLICATE_RESOURCE", Message: "email already exists", Err: cause}

	if !errors.Is(err, cause) {
		t.Error("expected errors.Is to find the wrapped cause")
	}
}
