package common

import (
	"errors"
	"fmt"
	"net/http"
)

// HTTPError represents an HTTP error with a status code and message.
// Handlers return it (directly or wrapped) to control the status code of the
// failure response built for them.
type HTTPError struct {
	StatusCode int    // HTTP status code (e.g., 400, 404, 500)
	Message    string // Error message to be sent in the response body
	Err        error  // Optional underlying error
}

// Error implements the error interface.
// It returns a string representation of the HTTP error in the format
// "status: message", followed by the underlying error when it adds detail.
func (e *HTTPError) Error() string {
	if e.Err != nil && e.Err.Error() != e.Message {
		return fmt.Sprintf("%d: %s: %v", e.StatusCode, e.Message, e.Err)
	}
	return fmt.Sprintf("%d: %s", e.StatusCode, e.Message)
}

// Unwrap returns the underlying error, if any.
func (e *HTTPError) Unwrap() error {
	return e.Err
}

// NewHTTPError creates a new HTTPError with the specified status code and message.
func NewHTTPError(statusCode int, message string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
	}
}

// WithStatus attaches a status code to err. If err already carries an
// HTTPError it is returned unchanged.
func WithStatus(err error, statusCode int) error {
	if err == nil {
		return nil
	}
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return err
	}
	return &HTTPError{StatusCode: statusCode, Message: err.Error(), Err: err}
}

// ServiceError is the failure representation shared by every backend adapter.
// Any native error, or a recovered panic value, is converted into a
// ServiceError before it is turned into a response.
type ServiceError struct {
	err error
}

// NewServiceError converts err into a ServiceError. A ServiceError passed in
// is returned as is.
func NewServiceError(err error) *ServiceError {
	if err == nil {
		err = errors.New("unknown error")
	}
	if se, ok := err.(*ServiceError); ok {
		return se
	}
	return &ServiceError{err: err}
}

// ServiceErrorFromPanic converts a value recovered from a panic. The client
// sees a generic 500; the panic value stays in the error chain.
func ServiceErrorFromPanic(rec any) *ServiceError {
	var cause error
	if err, ok := rec.(error); ok {
		cause = fmt.Errorf("panic: %w", err)
	} else {
		cause = fmt.Errorf("panic: %v", rec)
	}
	return &ServiceError{err: &HTTPError{
		StatusCode: http.StatusInternalServerError,
		Message:    http.StatusText(http.StatusInternalServerError),
		Err:        cause,
	}}
}

// Error implements the error interface.
func (e *ServiceError) Error() string {
	return e.err.Error()
}

// Unwrap returns the converted native error.
func (e *ServiceError) Unwrap() error {
	return e.err
}

// StatusCode returns the status carried by an HTTPError in the chain, or 500.
func (e *ServiceError) StatusCode() int {
	var httpErr *HTTPError
	if errors.As(e.err, &httpErr) && httpErr.StatusCode > 0 {
		return httpErr.StatusCode
	}
	return http.StatusInternalServerError
}

// Message returns the client-facing message: the HTTPError message when one is
// present, otherwise the error text.
func (e *ServiceError) Message() string {
	var httpErr *HTTPError
	if errors.As(e.err, &httpErr) && httpErr.Message != "" {
		return httpErr.Message
	}
	return e.err.Error()
}

// Describe renders the failure text for a request path.
func (e *ServiceError) Describe(path string) string {
	return fmt.Sprintf("error handling %s: %s", path, e.Message())
}
