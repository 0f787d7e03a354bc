package errors

import (
	"errors"
	"net/http"
)

// Error codes carried in every error body.
const (
	CodeValidation   = "VALIDATION_ERROR"
	CodeConflict     = "CONFLICT"
	CodeBadRequest   = "BAD_REQUEST"
	CodeUnauthorized = "UNAUTHORIZED"
	CodeForbidden    = "FORBIDDEN"
	CodeNotFound     = "NOT_FOUND"
	CodeInternal     = "INTERNAL_ERROR"
)

var (
	// ErrMissingCredentials is returned when login input lacks email or password.
	ErrMissingCredentials = errors.New("email and password required")
	// ErrPrincipalNotFound is returned when login finds no matching account.
	ErrPrincipalNotFound = errors.New("principal not found")
	// ErrInvalidCredentials is returned when the password does not match.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrEmailRegistered is returned on registration with a taken email.
	ErrEmailRegistered = errors.New("email already registered")
	// ErrEmailInUse is returned when a profile update targets a taken email.
	ErrEmailInUse = errors.New("email already in use")
	// ErrUserNotFound is returned when a user id does not resolve.
	ErrUserNotFound = errors.New("user not found")
	// ErrNoCustomers is returned when the customer collection is empty.
	ErrNoCustomers = errors.New("no customers found")
	// ErrForbidden is returned when a principal acts on another principal's data.
	ErrForbidden = errors.New("forbidden")
)

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Message string   `json:"message"`
	Code    string   `json:"code"`
	Fields  []string `json:"error,omitempty"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
	Fields     []string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ValidationError reports malformed, missing or weak input. fields lists the
// offending json field names when more than one rule applies.
func ValidationError(message string, fields ...string) *HTTPError {
	e := NewHTTPError(http.StatusBadRequest, message, CodeValidation)
	e.Fields = fields
	return e
}

// BadRequestError reports a request the handler cannot interpret.
func BadRequestError(message string) *HTTPError {
	return NewHTTPError(http.StatusBadRequest, message, CodeBadRequest)
}

// UnauthorizedError reports a missing or rejected credential.
func UnauthorizedError(message string) *HTTPError {
	return NewHTTPError(http.StatusUnauthorized, message, CodeUnauthorized)
}

// ServerError is the only body ever sent for unexpected failures.
func ServerError() *HTTPError {
	return NewHTTPError(http.StatusInternalServerError, "Server error", CodeInternal)
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Message: e.Message,
		Code:    e.Code,
		Fields:  e.Fields,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors.
func MapErrorToHTTP(err error) *HTTPError {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}
	switch {
	case errors.Is(err, ErrMissingCredentials):
		return BadRequestError("Email and password required")
	case errors.Is(err, ErrPrincipalNotFound):
		// login lookups answer 400 rather than 404 for both principal kinds
		return NewHTTPError(http.StatusBadRequest, "User not found", CodeNotFound)
	case errors.Is(err, ErrInvalidCredentials):
		return UnauthorizedError("Invalid credentials")
	case errors.Is(err, ErrEmailRegistered):
		return NewHTTPError(http.StatusBadRequest, "Email already registered", CodeConflict)
	case errors.Is(err, ErrEmailInUse):
		return NewHTTPError(http.StatusBadRequest, "Email already in use", CodeConflict)
	case errors.Is(err, ErrUserNotFound):
		return NewHTTPError(http.StatusNotFound, "User not found", CodeNotFound)
	case errors.Is(err, ErrNoCustomers):
		return NewHTTPError(http.StatusNotFound, "No customers found", CodeNotFound)
	case errors.Is(err, ErrForbidden):
		return NewHTTPError(http.StatusForbidden, "Forbidden", CodeForbidden)
	default:
		return ServerError()
	}
}
