package types

import "net/http"

// BadRequestError represents a 400 Bad Request HTTP response.
type BadRequestError struct {
	Response
}

// NewBadRequestError creates a new BadRequestError with the specified message.
func NewBadRequestError(message string) *BadRequestError {
	return &BadRequestError{Response: newErrorResponse(http.StatusBadRequest, message)}
}

// InternalError represents a 500 Internal Server Error HTTP response.
type InternalError struct {
	Response
}

// NewInternalError creates a new InternalError with the specified message.
func NewInternalError(message string) *InternalError {
	return &InternalError{Response: newErrorResponse(http.StatusInternalServerError, message)}
}

// UnavailableError represents a 503 Service Unavailable HTTP response, sent
// when a request gave up waiting for a worker.
type UnavailableError struct {
	Response
}

// NewUnavailableError creates a new UnavailableError with the specified message.
func NewUnavailableError(message string) *UnavailableError {
	return &UnavailableError{Response: newErrorResponse(http.StatusServiceUnavailable, message)}
}

func newErrorResponse(statusCode int, message string) Response {
	return Response{
		StatusCode: statusCode,
		Status:     http.StatusText(statusCode),
		Error:      message,
	}
}
