package client

import (
	"errors"
	"fmt"
)

var (
	// ErrUnauthorized: the API rejected the credential (401).
	ErrUnauthorized = errors.New("unauthorized")
	// ErrForbidden: authenticated but not permitted (403). The session is kept.
	ErrForbidden = errors.New("forbidden")
	// ErrRejected: any other 4xx.
	ErrRejected = errors.New("request rejected")
	// ErrServer: 5xx, an unexpected status, or an undecodable success body.
	ErrServer = errors.New("server error")
	// ErrNetwork: no response was received.
	ErrNetwork = errors.New("network error")
)

// APIError describes a failed call. Kind is one of the sentinels above.
type APIError struct {
	Kind    error
	Method  string
	Path    string
	Status  int
	Message string
	Err     error
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.Status != 0 {
		return fmt.Sprintf("%s %s: %v (%d): %s", e.Method, e.Path, e.Kind, e.Status, msg)
	}
	return fmt.Sprintf("%s %s: %v: %s", e.Method, e.Path, e.Kind, msg)
}

func (e *APIError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// UserMessage is the text to show a person: the server's own message when it
// sent one, a generic description otherwise.
func UserMessage(err error) string {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return err.Error()
	}
	if apiErr.Message != "" {
		return apiErr.Message
	}
	switch {
	case errors.Is(apiErr.Kind, ErrNetwork):
		return "Unable to reach the server"
	case errors.Is(apiErr.Kind, ErrUnauthorized):
		return "Please log in again"
	case errors.Is(apiErr.Kind, ErrForbidden):
		return "You are not allowed to do that"
	default:
		return "Something went wrong, please try again"
	}
}
