// errors.go - Structured error handling for API responses
package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/1shevadin1/NACHA-converter/internal/logger"
	"github.com/1shevadin1/NACHA-converter/internal/parser"
	"github.com/1shevadin1/NACHA-converter/internal/session"
	"github.com/1shevadin1/NACHA-converter/internal/storage"
	"github.com/1shevadin1/NACHA-converter/internal/upload"
	"github.com/labstack/echo/v4"
)

// APIError represents a structured API error response
type APIError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewBadRequestError creates a 400 Bad Request error
func NewBadRequestError(message string, cause error) *APIError {
	err := &APIError{
		Status:  http.StatusBadRequest,
		Code:    "BAD_REQUEST",
		Message: message,
	}
	if cause != nil {
		err.Details = cause.Error()
	}
	return err
}

// NewValidationError creates a 400 validation error for a specific field
func NewValidationError(field string) *APIError {
	return &APIError{
		Status:  http.StatusBadRequest,
		Code:    "VALIDATION_ERROR",
		Message: fmt.Sprintf("validation failed for field: %s", field),
	}
}

// NewNotFoundError creates a 404 Not Found error
func NewNotFoundError(resource string, id string) *APIError {
	return &APIError{
		Status:  http.StatusNotFound,
		Code:    "NOT_FOUND",
		Message: fmt.Sprintf("%s not found: %s", resource, id),
	}
}

// NewConflictError creates a 409 Conflict error
func NewConflictError(message string) *APIError {
	return &APIError{
		Status:  http.StatusConflict,
		Code:    "CONFLICT",
		Message: message,
	}
}

// NewUnprocessableError creates a 422 error for a file whose content cannot be used
func NewUnprocessableError(code string, cause error) *APIError {
	return &APIError{
		Status:  http.StatusUnprocessableEntity,
		Code:    code,
		Message: cause.Error(),
	}
}

// NewInternalError creates a 500 Internal Server Error
func NewInternalError(message string, cause error) *APIError {
	err := &APIError{
		Status:  http.StatusInternalServerError,
		Code:    "INTERNAL_ERROR",
		Message: message,
	}
	if cause != nil {
		err.Details = cause.Error()
	}
	return err
}

// FromDomainError maps errors from the session, storage, upload and parser layers
// onto API errors.
func FromDomainError(err error) *APIError {
	var apiErr *APIError
	switch {
	case errors.As(err, &apiErr):
		return apiErr
	case errors.Is(err, session.ErrSessionNotFound), errors.Is(err, storage.ErrFileNotFound):
		return &APIError{Status: http.StatusNotFound, Code: "NOT_FOUND", Message: err.Error()}
	case errors.Is(err, session.ErrNoDraft):
		return NewConflictError("no transmittal generated yet; upload a NACHA file first")
	case errors.Is(err, session.ErrInvalidField):
		return NewValidationError("field")
	case errors.Is(err, upload.ErrCorrupt):
		return NewBadRequestError("the compressed upload could not be decoded", err)
	case errors.Is(err, upload.ErrTooLarge):
		return &APIError{
			Status:  http.StatusRequestEntityTooLarge,
			Code:    "PAYLOAD_TOO_LARGE",
			Message: "the decoded upload exceeds the size limit",
		}
	case errors.Is(err, parser.ErrRecordNotFound):
		return NewUnprocessableError("RECORD_NOT_FOUND", err)
	case errors.Is(err, parser.ErrMalformedRecord):
		return NewUnprocessableError("MALFORMED_RECORD", err)
	case errors.Is(err, parser.ErrIOFailure):
		return &APIError{
			Status:  http.StatusInternalServerError,
			Code:    "IO_FAILURE",
			Message: "the file could not be read",
			Details: err.Error(),
		}
	}
	return NewInternalError("an unexpected error occurred", err)
}

// ErrorHandler renders every handler error as an APIError.
// Usage: e.HTTPErrorHandler = api.ErrorHandler
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var apiErr *APIError
	var httpErr *echo.HTTPError
	switch {
	case errors.As(err, &httpErr):
		apiErr = &APIError{
			Status:  httpErr.Code,
			Code:    "HTTP_ERROR",
			Message: fmt.Sprintf("%v", httpErr.Message),
		}
	default:
		apiErr = FromDomainError(err)
	}

	if apiErr.Status >= http.StatusInternalServerError {
		logger.FromContext(c.Request().Context()).Error("Request failed",
			"path", c.Request().URL.Path, "code", apiErr.Code, "error", err)
	}

	if c.Request().Method == http.MethodHead {
		c.NoContent(apiErr.Status)
		return
	}
	c.JSON(apiErr.Status, apiErr)
}
