// internal/app/system/httpjson/httpjson.go

// Package httpjson is the thin JSON layer between chi handlers and the
// stores: request-body decoding, response encoding, and the mapping from
// apperror kinds to HTTP statuses.
package httpjson

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rabindra-basnet/team-project-saas/internal/app/system/apperror"
	"go.uber.org/zap"
)

// Decode parses a JSON request body into dst. A malformed body yields a
// BadRequest domain error so the transport mapping stays uniform.
func Decode(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		return apperror.BadRequest("Invalid request body")
	}
	return nil
}

// Write sends v as JSON with the given status.
func Write(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// errorBody is the outward error shape: a stable code plus a message safe
// to show end users. Internal causes never leave the process.
type errorBody struct {
	Message   string `json:"message"`
	ErrorCode string `json:"errorCode"`
}

// WriteError maps err onto its outward status and body. Domain errors keep
// their code and message; everything else becomes a generic 500 and the
// real error goes to the log only.
func WriteError(w http.ResponseWriter, logger *zap.Logger, err error) {
	var e *apperror.Error
	if errors.As(err, &e) {
		Write(w, apperror.HTTPStatus(err), errorBody{Message: e.Message, ErrorCode: e.Code})
		return
	}

	if logger != nil {
		logger.Error("internal error", zap.Error(err))
	}
	Write(w, http.StatusInternalServerError, errorBody{Message: "Internal Server Error", ErrorCode: "INTERNAL_SERVER_ERROR"})
}
