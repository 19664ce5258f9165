// errors.go - Structured error handling for API responses
package api

import (
	"errors"
	"fmt"
	"net/http"
	"os"

	"github.com/labstack/echo/v4"
	"github.com/playdrawer/backend/internal/field"
	"github.com/playdrawer/backend/internal/routes"
	"github.com/playdrawer/backend/internal/session"
	"github.com/playdrawer/backend/internal/storage"
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

// Error constructors for consistent error handling

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

// NewMalformedKeyError creates a 400 error for a route key that does not parse
func NewMalformedKeyError(key string, cause error) *APIError {
	err := &APIError{
		Status:  http.StatusBadRequest,
		Code:    "MALFORMED_KEY",
		Message: fmt.Sprintf("malformed route key: %q", key),
	}
	if cause != nil {
		err.Details = cause.Error()
	}
	return err
}

// NewUnprocessableError creates a 422 error for a request that is well formed
// but cannot be carried out in the current state
func NewUnprocessableError(message string) *APIError {
	return &APIError{
		Status:  http.StatusUnprocessableEntity,
		Code:    "UNPROCESSABLE",
		Message: message,
	}
}

// NewForbiddenError creates a 403 Forbidden error
func NewForbiddenError(message string) *APIError {
	return &APIError{
		Status:  http.StatusForbidden,
		Code:    "FORBIDDEN",
		Message: message,
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

// ErrorHandler middleware for Echo
// Usage: e.HTTPErrorHandler = api.ErrorHandler
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var apiErr *APIError

	switch e := err.(type) {
	case *APIError:
		apiErr = e
	case *echo.HTTPError:
		apiErr = &APIError{
			Status:  e.Code,
			Code:    "HTTP_ERROR",
			Message: fmt.Sprintf("%v", e.Message),
		}
	default:
		apiErr = &APIError{
			Status:  http.StatusInternalServerError,
			Code:    "UNKNOWN_ERROR",
			Message: "An unexpected error occurred",
		}
		// In development, include error details
		if isDevelopment() {
			apiErr.Details = err.Error()
		}
	}

	// Send JSON response
	if !c.Response().Committed {
		c.JSON(apiErr.Status, apiErr)
	}
}

// isDevelopment returns true unless PLAY_DRAWER_ENV is "production"
func isDevelopment() bool {
	return os.Getenv("PLAY_DRAWER_ENV") != "production"
}

// fromDomainError maps the sentinel errors of the domain packages to API
// errors. Unknown errors become internal errors with message as context.
func fromDomainError(message string, err error) *APIError {
	var apiErr *APIError
	switch {
	case errors.As(err, &apiErr):
		return apiErr
	case errors.Is(err, routes.ErrMalformedKey):
		return &APIError{Status: http.StatusBadRequest, Code: "MALFORMED_KEY", Message: err.Error()}
	case errors.Is(err, routes.ErrNotFound),
		errors.Is(err, storage.ErrPlayNotFound),
		errors.Is(err, session.ErrSessionNotFound):
		return &APIError{Status: http.StatusNotFound, Code: "NOT_FOUND", Message: err.Error()}
	case errors.Is(err, storage.ErrInvalidID), errors.Is(err, field.ErrSpotRange):
		return NewBadRequestError(err.Error(), nil)
	case errors.Is(err, session.ErrNoPlayName), errors.Is(err, session.ErrNoPositions):
		return NewUnprocessableError(err.Error())
	default:
		return NewInternalError(message, err)
	}
}

