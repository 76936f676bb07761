package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

type ErrorType string

const (
	ValidationError ErrorType = "VALIDATION_ERROR"
	NotFoundError   ErrorType = "NOT_FOUND"
	RateLimitError  ErrorType = "RATE_LIMIT_EXCEEDED"
	DeliveryError   ErrorType = "DELIVERY_ERROR"
	ServerError     ErrorType = "SERVER_ERROR"
)

// FieldError describes one rejected input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// AppError represents a structured application error
type AppError struct {
	Type       ErrorType    `json:"type"`
	Message    string       `json:"message"`
	Detail     string       `json:"detail,omitempty"`
	Fields     []FieldError `json:"errors,omitempty"`
	RetryAfter int          `json:"retryAfter,omitempty"` // seconds, rate limit only
	HTTPStatus int          `json:"-"`
	Raw        error        `json:"-"`
}

func (e *AppError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Type, e.Message, e.Detail)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Raw
}

// GetHTTPStatus returns the HTTP status for the error, derived from its type
// when not set explicitly.
func (e *AppError) GetHTTPStatus() int {
	if e.HTTPStatus != 0 {
		return e.HTTPStatus
	}
	return getHTTPStatus(e.Type)
}

// New creates a new AppError
func New(errType ErrorType, message string, detail string) *AppError {
	return &AppError{
		Type:       errType,
		Message:    message,
		Detail:     detail,
		HTTPStatus: getHTTPStatus(errType),
	}
}

// Wrap wraps a raw error with AppError context
func Wrap(err error, errType ErrorType, message string) *AppError {
	if err == nil {
		return nil
	}
	return &AppError{
		Type:       errType,
		Message:    message,
		Detail:     err.Error(),
		HTTPStatus: getHTTPStatus(errType),
		Raw:        err,
	}
}

func NotFound(entity string, id interface{}) *AppError {
	return &AppError{
		Type:       NotFoundError,
		Message:    fmt.Sprintf("%s not found", entity),
		Detail:     fmt.Sprintf("ID: %v", id),
		HTTPStatus: http.StatusNotFound,
	}
}

func ValidationFailed(message string, details string) *AppError {
	return &AppError{
		Type:       ValidationError,
		Message:    message,
		Detail:     details,
		HTTPStatus: http.StatusBadRequest,
	}
}

// InvalidFields reports per-field validation failures.
func InvalidFields(fields []FieldError) *AppError {
	return &AppError{
		Type:       ValidationError,
		Message:    "Validation failed",
		Fields:     fields,
		HTTPStatus: http.StatusBadRequest,
	}
}

func RateLimitExceeded(message string, retryAfterSeconds int) *AppError {
	if retryAfterSeconds < 0 {
		retryAfterSeconds = 0
	}
	return &AppError{
		Type:       RateLimitError,
		Message:    message,
		RetryAfter: retryAfterSeconds,
		HTTPStatus: http.StatusTooManyRequests,
	}
}

// DeliveryFailed hides the relay error behind a generic message. The cause
// stays available through Raw and errors.Unwrap for logging.
func DeliveryFailed(err error) *AppError {
	return &AppError{
		Type:       DeliveryError,
		Message:    "Failed to send message. Please try again later.",
		HTTPStatus: http.StatusInternalServerError,
		Raw:        err,
	}
}

func InternalServerError(message string) *AppError {
	return &AppError{
		Type:       ServerError,
		Message:    message,
		HTTPStatus: http.StatusInternalServerError,
	}
}

// IsType reports whether err wraps an AppError of the given type.
func IsType(err error, errType ErrorType) bool {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Type == errType
	}
	return false
}

func getHTTPStatus(errType ErrorType) int {
	switch errType {
	case ValidationError:
		return http.StatusBadRequest
	case NotFoundError:
		return http.StatusNotFound
	case RateLimitError:
		return http.StatusTooManyRequests
	case DeliveryError, ServerError:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
