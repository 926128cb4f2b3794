package response

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/edvin/mongoadmin/internal/core"
	"github.com/edvin/mongoadmin/internal/platform"
)

// ErrorResponse is the body of every error reply.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	ErrorID string `json:"error_id"`
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// WriteError writes the error envelope and logs it under a fresh error id.
// cause is logged but never sent.
func WriteError(w http.ResponseWriter, r *http.Request, status int, kind core.Kind, message string, cause error) {
	errorID := platform.NewErrorID()

	logger := zerolog.Ctx(r.Context())
	event := logger.Warn()
	if status >= http.StatusInternalServerError {
		event = logger.Error()
	}
	event.
		Str("error_id", errorID).
		Str("kind", string(kind)).
		Int("status", status).
		Err(cause).
		Msg(message)

	WriteJSON(w, status, ErrorResponse{
		Error:   string(kind),
		Message: message,
		ErrorID: errorID,
	})
}

// WriteServiceError maps a service error to its status and writes it.
func WriteServiceError(w http.ResponseWriter, r *http.Request, err error) {
	e := core.AsError(err)
	WriteError(w, r, Status(e), e.Kind, e.Message, err)
}

// Status is the HTTP status for a classified error.
func Status(e *core.Error) int {
	switch e.Kind {
	case core.KindInvalidInput:
		return http.StatusBadRequest
	case core.KindUnauthorized:
		return http.StatusUnauthorized
	case core.KindForbidden:
		return http.StatusForbidden
	case core.KindNotFound:
		return http.StatusNotFound
	case core.KindConflict:
		return http.StatusConflict
	case core.KindStore:
		if e.Unavailable {
			return http.StatusServiceUnavailable
		}
		return http.StatusInternalServerError
	}
	return http.StatusInternalServerError
}
