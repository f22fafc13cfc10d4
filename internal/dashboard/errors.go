package dashboard

import (
	"context"
	"errors"
	"fmt"

	"github.com/rovshanmuradov/rangewatch/internal/api"
)

var (
	// ErrMissingIdentity is returned when account id or server id is not configured.
	ErrMissingIdentity = errors.New("account id and server id are required")
	// ErrAlreadyMonitored is returned by CreateMonitor for a symbol that has a monitor.
	ErrAlreadyMonitored = errors.New("symbol is already monitored")
	// ErrNotEditable is returned when editing a monitor whose status forbids it.
	ErrNotEditable = errors.New("monitor is not editable")
	// ErrLoadInProgress is returned when the monitor list guard is held.
	ErrLoadInProgress = errors.New("monitor list load already in progress")
)

const genericFailure = "Network error, please try again"

// ValidationError reports a form field rejected before any request is sent.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// describe turns err into text for the user.
func describe(err error) string {
	var (
		httpErr  *api.HTTPError
		appErr   *api.AppError
		validErr *ValidationError
	)
	switch {
	case errors.As(err, &validErr):
		return validErr.Error()
	case errors.As(err, &appErr):
		return appErr.Error()
	case errors.As(err, &httpErr):
		if httpErr.Message != "" {
			return fmt.Sprintf("%d %s: %s", httpErr.StatusCode, httpErr.Status, httpErr.Message)
		}
		return fmt.Sprintf("%d %s", httpErr.StatusCode, httpErr.Status)
	case errors.Is(err, ErrAlreadyMonitored), errors.Is(err, ErrNotEditable), errors.Is(err, ErrMissingIdentity):
		return err.Error()
	case errors.Is(err, context.Canceled):
		return "Request cancelled"
	case errors.Is(err, api.ErrMalformedResponse):
		return "Unexpected response from server"
	default:
		return genericFailure
	}
}
