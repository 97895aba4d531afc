// Package errors defines AppError, the error type every handler renders.
package errors

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/campusconnect/campus-backend/logger"
)

type ErrorType string

const (
	ValidationError ErrorType = "VALIDATION_ERROR"
	NotFoundError   ErrorType = "NOT_FOUND"
	AuthError       ErrorType = "AUTHENTICATION_ERROR"
	ForbiddenError  ErrorType = "FORBIDDEN"
	ConflictError   ErrorType = "CONFLICT"
	RateLimitError  ErrorType = "RATE_LIMITED"
	DatabaseError   ErrorType = "DATABASE_ERROR"
	BackendError    ErrorType = "BACKEND_ERROR"
	ServerError     ErrorType = "SERVER_ERROR"
)

var statusByType = map[ErrorType]int{
	ValidationError: http.StatusBadRequest,
	NotFoundError:   http.StatusNotFound,
	AuthError:       http.StatusUnauthorized,
	ForbiddenError:  http.StatusForbidden,
	ConflictError:   http.StatusConflict,
	RateLimitError:  http.StatusTooManyRequests,
}

func statusFor(t ErrorType) int {
	if s, ok := statusByType[t]; ok {
		return s
	}
	return http.StatusInternalServerError
}

// AppError is a client-facing error. Detail may be shown to the client
// depending on Type; Raw never is.
type AppError struct {
	Type       ErrorType `json:"type"`
	Code       string    `json:"code"`
	Message    string    `json:"message"`
	Detail     string    `json:"detail,omitempty"`
	HTTPStatus int       `json:"-"`
	Raw        error     `json:"-"`
}

func (e *AppError) Error() string {
	msg := string(e.Type) + ": " + e.Message
	if e.Detail != "" {
		msg += " (" + e.Detail + ")"
	}
	return msg
}

func (e *AppError) Unwrap() error { return e.Raw }

// GetHTTPStatus falls back to the status implied by Type.
func (e *AppError) GetHTTPStatus() int {
	if e.HTTPStatus != 0 {
		return e.HTTPStatus
	}
	return statusFor(e.Type)
}

// WithCode sets the machine readable code and returns e.
func (e *AppError) WithCode(code string) *AppError {
	e.Code = code
	return e
}

// WithCause records the underlying error and returns e.
func (e *AppError) WithCause(err error) *AppError {
	e.Raw = err
	return e
}

func New(errType ErrorType, message string, detail string) *AppError {
	return &AppError{Type: errType, Message: message, Detail: detail, HTTPStatus: statusFor(errType)}
}

// Wrap returns nil for a nil err. The wrapped error text becomes Detail.
func Wrap(err error, errType ErrorType, message string) *AppError {
	if err == nil {
		return nil
	}
	return New(errType, message, err.Error()).WithCause(err)
}

// As finds the *AppError in err's chain.
func As(err error) (*AppError, bool) {
	var appErr *AppError
	ok := errors.As(err, &appErr)
	return appErr, ok
}

func IsType(err error, errType ErrorType) bool {
	appErr, ok := As(err)
	return ok && appErr.Type == errType
}

func NotFound(entity string, id interface{}) *AppError {
	return New(NotFoundError, entity+" not found", fmt.Sprintf("ID: %v", id))
}

func ValidationFailed(message string, details string) *AppError {
	return New(ValidationError, message, details)
}

func AuthenticationFailed(message string) *AppError {
	return New(AuthError, message, "")
}

func Unauthorized(code, message string) *AppError {
	return New(AuthError, message, "").WithCode(code)
}

func Forbidden(message string, details string) *AppError {
	return New(ForbiddenError, message, details)
}

func NewConflictError(message string, detail string) *AppError {
	return New(ConflictError, message, detail)
}

func RateLimitExceeded(message string, retryAfterSeconds int) *AppError {
	return New(RateLimitError, message, fmt.Sprintf("retry after %d seconds", retryAfterSeconds))
}

func InternalServerError(message string) *AppError {
	return New(ServerError, message, "")
}

// NewDatabaseError logs err and hides it behind a generic message.
func NewDatabaseError(err error) *AppError {
	logger.GetLogger().Errorw("Database error", "error", err)
	return New(DatabaseError, "Database operation failed", "Please try again later").WithCause(err)
}

// NewBackendError logs a failure of a hosted dependency (Supabase, object
// storage) and hides it behind a generic message. Code names the backend.
func NewBackendError(backend string, err error) *AppError {
	logger.GetLogger().Errorw("Backend error", "backend", backend, "error", err)
	return New(BackendError, "Something went wrong, please try again", "").WithCode(backend).WithCause(err)
}
