package api

import (
	"errors"
	"fmt"
)

// HTTPError is returned for non-2xx responses.
type HTTPError struct {
	StatusCode int
	Status     string
	Message    string
}

func (e *HTTPError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("http %d %s: %s", e.StatusCode, e.Status, e.Message)
	}
	return fmt.Sprintf("http %d %s", e.StatusCode, e.Status)
}

// AppError is returned when the server answers 2xx with a non-success status.
type AppError struct {
	Message string
}

func (e *AppError) Error() string {
	if e.Message == "" {
		return "request failed"
	}
	return e.Message
}

// ErrMalformedResponse marks a 2xx body that could not be decoded.
var ErrMalformedResponse = errors.New("malformed response")

// IsHTTPError reports whether err carries a transport status failure.
func IsHTTPError(err error) bool {
	var httpErr *HTTPError
	return errors.As(err, &httpErr)
}

// IsAppError reports whether err is an application-level failure.
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}
