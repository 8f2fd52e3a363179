package apperror

import (
	"errors"
	"net/http"
	"strings"
)

// Kind classifies where an error came from and how the console should present it
type Kind string

const (
	// KindValidation is detected locally and never reaches the backend
	KindValidation Kind = "validation"
	// KindNotFound is an absence reported by the backend; informational, not fatal
	KindNotFound Kind = "not_found"
	// KindTransport means no response was received from the backend
	KindTransport Kind = "transport"
	// KindServer is a non-2xx backend response
	KindServer       Kind = "server"
	KindUnauthorized Kind = "unauthorized"
	KindForbidden    Kind = "forbidden"
	KindConflict     Kind = "conflict"
	KindInternal     Kind = "internal"
)

// AppError represents an application error with HTTP status code
type AppError struct {
	Kind    Kind         `json:"kind"`
	Code    int          `json:"code"`
	Message string       `json:"message"`
	Errors  []FieldError `json:"errors,omitempty"`
	cause   error
}

// FieldError represents a validation error for a specific field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *AppError) Error() string {
	if e.cause != nil {
		return e.Message + ": " + e.cause.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.cause
}

// Is matches on kind and message so sentinel values work with errors.Is
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Kind == t.Kind && e.Message == t.Message
}

// Common errors
var (
	ErrUnauthorized   = &AppError{Kind: KindUnauthorized, Code: http.StatusUnauthorized, Message: "Session expired, please log in again"}
	ErrNoSession      = &AppError{Kind: KindUnauthorized, Code: http.StatusUnauthorized, Message: "Not logged in"}
	ErrForbidden      = &AppError{Kind: KindForbidden, Code: http.StatusForbidden, Message: "You do not have permission to perform this action"}
	ErrSubmitInFlight = &AppError{Kind: KindConflict, Code: http.StatusConflict, Message: "A sale submission is already in progress"}
	ErrEmptySale      = &AppError{Kind: KindValidation, Code: http.StatusUnprocessableEntity, Message: "No products in sale"}
)

// ErrLookupDiscarded answers a product lookup whose dialog was closed or replaced
var ErrLookupDiscarded = &AppError{Kind: KindConflict, Code: http.StatusConflict, Message: "The product lookup was cancelled"}

// ErrCheckoutReset answers a submission whose checkout was reset, usually by a logout,
// before the backend replied
var ErrCheckoutReset = &AppError{Kind: KindConflict, Code: http.StatusConflict, Message: "The checkout was reset while the request was in progress"}

// NewAppError creates a new application error
func NewAppError(kind Kind, code int, message string) *AppError {
	return &AppError{
		Kind:    kind,
		Code:    code,
		Message: message,
	}
}

// NewValidationError creates a client-side validation error with a custom message
func NewValidationError(message string, fieldErrors ...FieldError) *AppError {
	return &AppError{
		Kind:    KindValidation,
		Code:    http.StatusUnprocessableEntity,
		Message: message,
		Errors:  fieldErrors,
	}
}

// NewFieldError creates a validation error for a single field
func NewFieldError(field, message string) *AppError {
	return NewValidationError(message, FieldError{Field: field, Message: message})
}

// NewNotFoundError creates a not found error with a custom message
func NewNotFoundError(resource string) *AppError {
	return &AppError{
		Kind:    KindNotFound,
		Code:    http.StatusNotFound,
		Message: resource + " not found",
	}
}

// NewTransportError wraps a failure to reach the backend
func NewTransportError(cause error) *AppError {
	return &AppError{
		Kind:    KindTransport,
		Code:    http.StatusBadGateway,
		Message: "Could not reach the server, please try again",
		cause:   cause,
	}
}

// NewServerError builds an error from a backend rejection. The backend message is kept
// verbatim; fallback is used when the backend sent none.
func NewServerError(status int, message, fallback string) *AppError {
	message = strings.TrimSpace(message)
	if message == "" {
		message = fallback
	}
	code := status
	if code < 400 {
		code = http.StatusBadGateway
	}
	return &AppError{
		Kind:    KindServer,
		Code:    code,
		Message: message,
	}
}

// NewConflictError creates a conflict error with a custom message
func NewConflictError(message string) *AppError {
	return &AppError{
		Kind:    KindConflict,
		Code:    http.StatusConflict,
		Message: message,
	}
}

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// IsKind reports whether err is an AppError of the given kind
func IsKind(err error, kind Kind) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind == kind
	}
	return false
}

// GetAppError converts an error to AppError if possible
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return &AppError{
		Kind:    KindInternal,
		Code:    http.StatusInternalServerError,
		Message: err.Error(),
	}
}
