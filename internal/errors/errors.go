// Package errors defines the service error taxonomy and its HTTP mapping.
package errors

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/reelbase/reelbase/internal/logger"
)

// Error codes used across the service.
const (
	CodeNotFound     = "NOT_FOUND"
	CodeInvalidInput = "INVALID_INPUT"
	CodeDatabase     = "DATABASE_ERROR"
	CodeUnavailable  = "UPSTREAM_UNAVAILABLE"
	CodeInternal     = "INTERNAL_ERROR"
)

// Error represents a structured error with HTTP context
type Error struct {
	Code       string                 `json:"code"`
	Message    string                 `json:"message"`
	Context    map[string]interface{} `json:"context,omitempty"`
	Cause      error                  `json:"-"`
	HTTPStatus int                    `json:"-"`
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// ToGinResponse sends the error as a standardized JSON response
func (e *Error) ToGinResponse(c *gin.Context) {
	statusCode := e.HTTPStatus
	if statusCode == 0 {
		statusCode = http.StatusInternalServerError
	}

	response := gin.H{
		"error": e.Message,
		"code":  e.Code,
	}

	if len(e.Context) > 0 {
		response["details"] = e.Context
	}

	// Not-found is an expected outcome, not an error condition.
	if statusCode >= http.StatusInternalServerError {
		logger.Error("HTTP error response",
			"status", statusCode,
			"code", e.Code,
			"message", e.Message,
			"path", c.Request.URL.Path,
			"method", c.Request.Method)
	}

	c.JSON(statusCode, response)
}

// Common error constructors

func NewNotFound(resource string, id string) *Error {
	return &Error{
		Code:       CodeNotFound,
		Message:    resource + " not found",
		HTTPStatus: http.StatusNotFound,
		Context:    map[string]interface{}{"resource": resource, "id": id},
	}
}

func NewInvalidInput(message string) *Error {
	return &Error{
		Code:       CodeInvalidInput,
		Message:    message,
		HTTPStatus: http.StatusBadRequest,
	}
}

func NewDatabaseError(operation string, cause error) *Error {
	return &Error{
		Code:       CodeDatabase,
		Message:    "database operation failed",
		HTTPStatus: http.StatusInternalServerError,
		Context:    map[string]interface{}{"operation": operation},
		Cause:      cause,
	}
}

func NewUnavailable(component string, cause error) *Error {
	return &Error{
		Code:       CodeUnavailable,
		Message:    component + " unavailable",
		HTTPStatus: http.StatusServiceUnavailable,
		Context:    map[string]interface{}{"component": component},
		Cause:      cause,
	}
}

func NewInternal(message string, cause error) *Error {
	return &Error{
		Code:       CodeInternal,
		Message:    message,
		HTTPStatus: http.StatusInternalServerError,
		Cause:      cause,
	}
}

// Predicates used by handlers to translate service errors.

func IsNotFound(err error) bool {
	return hasCode(err, CodeNotFound)
}

func IsInvalidInput(err error) bool {
	return hasCode(err, CodeInvalidInput)
}

func hasCode(err error, code string) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// HTTP helpers to eliminate duplicate error handling

// Respond translates any error into a JSON response, wrapping unknown errors
// as internal.
func Respond(c *gin.Context, err error) {
	var e *Error
	if errors.As(err, &e) {
		e.ToGinResponse(c)
		return
	}
	NewInternal("internal error", err).ToGinResponse(c)
}

// HandleNotFound sends a not found error response
func HandleNotFound(c *gin.Context, resource string, id string) {
	NewNotFound(resource, id).ToGinResponse(c)
}

// HandleInvalidInput sends a validation error response
func HandleInvalidInput(c *gin.Context, message string) {
	NewInvalidInput(message).ToGinResponse(c)
}
