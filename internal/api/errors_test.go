package api

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/1shevadin1/NACHA-converter/internal/parser"
	"github.com/1shevadin1/NACHA-converter/internal/session"
	"github.com/1shevadin1/NACHA-converter/internal/storage"
	"github.com/1shevadin1/NACHA-converter/internal/upload"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func TestFromDomainError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"io failure", fmt.Errorf("%w: open x: permission denied", parser.ErrIOFailure), http.StatusInternalServerError, "IO_FAILURE"},
		{"record not found", fmt.Errorf("%w in the NACHA file", parser.ErrRecordNotFound), http.StatusUnprocessableEntity, "RECORD_NOT_FOUND"},
		{"malformed", fmt.Errorf("%w: line too short", parser.ErrMalformedRecord), http.StatusUnprocessableEntity, "MALFORMED_RECORD"},
		{"session missing", fmt.Errorf("%w: abc", session.ErrSessionNotFound), http.StatusNotFound, "NOT_FOUND"},
		{"file missing", fmt.Errorf("%w: abc", storage.ErrFileNotFound), http.StatusNotFound, "NOT_FOUND"},
		{"no draft", session.ErrNoDraft, http.StatusConflict, "CONFLICT"},
		{"bad field", session.ErrInvalidField, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"corrupt upload", fmt.Errorf("writing file: %w", upload.ErrCorrupt), http.StatusBadRequest, "BAD_REQUEST"},
		{"upload too large", fmt.Errorf("writing file: %w", upload.ErrTooLarge), http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE"},
		{"api error passes through", NewValidationError("name"), http.StatusBadRequest, "VALIDATION_ERROR"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			apiErr := FromDomainError(tt.err)
			assert.Equal(t, tt.wantStatus, apiErr.Status)
			assert.Equal(t, tt.wantCode, apiErr.Code)
		})
	}
}

func TestErrorHandler(t *testing.T) {
	e := echo.New()

	t.Run("echo http error", func(t *testing.T) {
		rec := httptest.NewRecorder()
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
		ErrorHandler(echo.NewHTTPError(http.StatusMethodNotAllowed, "nope"), c)
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
		assert.Contains(t, rec.Body.String(), `"code":"HTTP_ERROR"`)
	})

	t.Run("head request has no body", func(t *testing.T) {
		rec := httptest.NewRecorder()
		c := e.NewContext(httptest.NewRequest(http.MethodHead, "/", nil), rec)
		ErrorHandler(session.ErrNoDraft, c)
		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Empty(t, rec.Body.String())
	})

	t.Run("internal error keeps details", func(t *testing.T) {
		rec := httptest.NewRecorder()
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
		ErrorHandler(fmt.Errorf("%w: disk gone", parser.ErrIOFailure), c)
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Contains(t, rec.Body.String(), "disk gone")
	})
}
