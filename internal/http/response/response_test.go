package response

import (
	"encoding/json/v2"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/davedeals/davedeals-server/internal/errors"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) Envelope {
	t.Helper()
	var result Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	return result
}

func TestJSON_Success(t *testing.T) {
	w := httptest.NewRecorder()

	JSON(w, http.StatusOK, map[string]string{"message": "test"}, discardLogger())

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json; charset=utf-8", w.Header().Get("Content-Type"))

	result := decodeEnvelope(t, w)
	assert.Equal(t, 1, result.V)
	assert.True(t, result.Success)
	assert.NotNil(t, result.Data)
	assert.Empty(t, result.Error)
}

func TestJSON_NilLogger(t *testing.T) {
	w := httptest.NewRecorder()

	JSON(w, http.StatusOK, map[string]string{"message": "test"}, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, decodeEnvelope(t, w).Success)
}

func TestCreated(t *testing.T) {
	w := httptest.NewRecorder()

	Created(w, map[string]string{"id": "prod-123"}, discardLogger())

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.True(t, decodeEnvelope(t, w).Success)
}

func TestNoContent(t *testing.T) {
	w := httptest.NewRecorder()

	NoContent(w)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())
}

func TestErrorHelpers(t *testing.T) {
	tests := []struct {
		name    string
		write   func(w http.ResponseWriter)
		status  int
		message string
	}{
		{"bad request", func(w http.ResponseWriter) { BadRequest(w, "invalid input", nil) }, http.StatusBadRequest, "invalid input"},
		{"unauthorized", func(w http.ResponseWriter) { Unauthorized(w, "authentication required", nil) }, http.StatusUnauthorized, "authentication required"},
		{"forbidden", func(w http.ResponseWriter) { Forbidden(w, "access denied", nil) }, http.StatusForbidden, "access denied"},
		{"not found", func(w http.ResponseWriter) { NotFound(w, "resource not found", nil) }, http.StatusNotFound, "resource not found"},
		{"too many requests", func(w http.ResponseWriter) { TooManyRequests(w, "slow down", nil) }, http.StatusTooManyRequests, "slow down"},
		{"internal", func(w http.ResponseWriter) { InternalError(w, "internal server error", nil) }, http.StatusInternalServerError, "internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			tt.write(w)

			assert.Equal(t, tt.status, w.Code)
			result := decodeEnvelope(t, w)
			assert.False(t, result.Success)
			assert.Equal(t, tt.message, result.Error)
			assert.Nil(t, result.Data)
		})
	}
}

func TestStatusCodeBoundary(t *testing.T) {
	tests := []struct {
		status      int
		wantSuccess bool
	}{
		{200, true},
		{204, true},
		{399, true},
		{400, false},
		{500, false},
	}

	for _, tt := range tests {
		w := httptest.NewRecorder()
		JSON(w, tt.status, nil, discardLogger())
		assert.Equal(t, tt.wantSuccess, decodeEnvelope(t, w).Success, "status %d", tt.status)
	}
}

func TestHandleError_DomainError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"not found", domainerrors.NotFound("product not found"), http.StatusNotFound, "NOT_FOUND"},
		{"conflict", domainerrors.AlreadyExists("email already in use"), http.StatusConflict, "ALREADY_EXISTS"},
		{"credentials", domainerrors.InvalidCredentials("invalid credentials"), http.StatusUnauthorized, "INVALID_CREDENTIALS"},
		{"validation", domainerrors.Validation("bad payload"), http.StatusBadRequest, "VALIDATION"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			HandleError(w, tt.err, discardLogger())

			assert.Equal(t, tt.wantStatus, w.Code)
			result := decodeEnvelope(t, w)
			assert.False(t, result.Success)
			assert.Equal(t, tt.wantCode, result.Code)
		})
	}
}

func TestHandleError_UnknownError(t *testing.T) {
	w := httptest.NewRecorder()

	HandleError(w, errors.New("disk on fire"), discardLogger())

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	result := decodeEnvelope(t, w)
	assert.Equal(t, "internal server error", result.Error)
	// Internal details must not leak to clients.
	assert.NotContains(t, w.Body.String(), "disk on fire")
}
