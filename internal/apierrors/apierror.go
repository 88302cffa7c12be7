package apierrors

import "net/http"

// APIError is a business error that carries everything needed to build an
// HTTP error response: status, stable error code and a client-safe message.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
	// Details holds per-field validation messages, when applicable.
	Details []string
}

func (e *APIError) Error() string {
	return e.Message
}

// BadRequest creates a 400 APIError.
func BadRequest(code, message string) *APIError {
	return &APIError{StatusCode: http.StatusBadRequest, Code: code, Message: message}
}

// Unauthorized creates a 401 APIError.
func Unauthorized(code, message string) *APIError {
	return &APIError{StatusCode: http.StatusUnauthorized, Code: code, Message: message}
}

// Forbidden creates a 403 APIError.
func Forbidden(code, message string) *APIError {
	return &APIError{StatusCode: http.StatusForbidden, Code: code, Message: message}
}

// NotFound creates a 404 APIError.
func NotFound(code, message string) *APIError {
	return &APIError{StatusCode: http.StatusNotFound, Code: code, Message: message}
}

// Conflict creates a 409 APIError.
func Conflict(code, message string) *APIError {
	return &APIError{StatusCode: http.StatusConflict, Code: code, Message: message}
}

// UnprocessableEntity creates a 422 APIError.
func UnprocessableEntity(code, message string) *APIError {
	return &APIError{StatusCode: http.StatusUnprocessableEntity, Code: code, Message: message}
}

// InternalError creates a sanitized 500 APIError. The original error is not
// exposed to the client; callers are expected to have logged it already.
func InternalError() *APIError {
	return &APIError{
		StatusCode: http.StatusInternalServerError,
		Code:       CodeInternalError,
		Message:    "An internal error occurred. Please try again later.",
	}
}
