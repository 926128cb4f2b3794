package response

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edvin/mongoadmin/internal/core"
)

func TestWriteJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteJSON(rec, http.StatusCreated, map[string]string{"ok": "yes"})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"ok":"yes"}`, rec.Body.String())
}

func TestWriteServiceError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		kind   string
	}{
		{"invalid", core.Invalid("bad name"), http.StatusBadRequest, "invalid_input"},
		{"unauthorized", core.Unauthorized("login"), http.StatusUnauthorized, "unauthorized"},
		{"forbidden", fmt.Errorf("op: %w", core.Forbidden("no")), http.StatusForbidden, "forbidden"},
		{"not found", core.NotFound("gone"), http.StatusNotFound, "not_found"},
		{"conflict", core.Conflict("exists"), http.StatusConflict, "conflict"},
		{"unavailable", core.StoreFailure(errors.New("dial"), true), http.StatusServiceUnavailable, "store_error"},
		{"store", core.StoreFailure(errors.New("bad"), false), http.StatusInternalServerError, "store_error"},
		{"internal", errors.New("secret detail"), http.StatusInternalServerError, "internal"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodGet, "/", nil)

			WriteServiceError(rec, r, tt.err)

			assert.Equal(t, tt.status, rec.Code)
			var body ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.kind, body.Error)
			assert.Len(t, body.ErrorID, 8)
			assert.NotContains(t, body.Message, "secret")
		})
	}
}

func TestWriteError_LogsErrorID(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r = r.WithContext(logger.WithContext(r.Context()))
	rec := httptest.NewRecorder()

	WriteError(rec, r, http.StatusServiceUnavailable, core.KindStore, "the database is unavailable", errors.New("dial tcp: refused"))

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, body.ErrorID, line["error_id"])
	assert.Equal(t, "error", line["level"])
	assert.Equal(t, "dial tcp: refused", line["error"])
	assert.NotContains(t, rec.Body.String(), "refused")
}
