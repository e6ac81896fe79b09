package httputil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "parlor/pkg/domain-errors"
)

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) map[string]string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body
}

func TestWriteError(t *testing.T) {
	t.Run("internal failures hide their description", func(t *testing.T) {
		rec := httptest.NewRecorder()
		WriteError(rec, dErrors.New(dErrors.CodeInternal, "redis failed"))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		body := decodeEnvelope(t, rec)
		assert.Equal(t, "internal_error", body["error"])
		assert.NotContains(t, body, "error_description")
	})

	t.Run("wrapped domain errors keep their message", func(t *testing.T) {
		rec := httptest.NewRecorder()
		err := fmt.Errorf("login: %w", dErrors.New(dErrors.CodeUnauthorized, "email or password rejected"))
		WriteError(rec, err)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		body := decodeEnvelope(t, rec)
		assert.Equal(t, "unauthorized", body["error"])
		assert.Equal(t, "email or password rejected", body["error_description"])
	})

	t.Run("foreign errors are internal", func(t *testing.T) {
		rec := httptest.NewRecorder()
		WriteError(rec, http.ErrHandlerTimeout)
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

func TestStatusFor(t *testing.T) {
	cases := map[dErrors.Code]int{
		dErrors.CodeInvalidInput:   http.StatusBadRequest,
		dErrors.CodeMissingConsent: http.StatusForbidden,
		dErrors.CodeInvalidState:   http.StatusConflict,
		dErrors.CodeNotFound:       http.StatusNotFound,
		dErrors.CodeUnavailable:    http.StatusServiceUnavailable,
		dErrors.CodeTimeout:        http.StatusGatewayTimeout,
	}
	for code, want := range cases {
		assert.Equal(t, want, StatusFor(code), string(code))
	}
}
