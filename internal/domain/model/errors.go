package model

import (
	"errors"
	"fmt"
)

var (
	// ErrNotAuthenticated means an operation ran with no live hub session.
	// The client can recover by calling /login.
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrCredentialsRejected means the hub refused the login. This is a
	// normal outcome of a login attempt, not an infrastructure failure.
	ErrCredentialsRejected = errors.New("credentials rejected by hub")

	// ErrCorruptCredentials means the persisted credentials record exists
	// but cannot be parsed. Callers treat it as absent credentials.
	ErrCorruptCredentials = errors.New("corrupt credentials record")

	// ErrInvalidArgument means a request argument was rejected before any
	// hub traffic happened.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrHubTimeout means a hub call did not complete within the configured
	// deadline. The session handle is dropped when this happens.
	ErrHubTimeout = errors.New("hub call timed out")
)

// HubError wraps a network or protocol failure talking to the hub.
type HubError struct {
	Op  string
	Err error
}

func (e *HubError) Error() string {
	return fmt.Sprintf("hub: %s: %v", e.Op, e.Err)
}

func (e *HubError) Unwrap() error { return e.Err }

func NewHubError(op string, err error) *HubError {
	return &HubError{Op: op, Err: err}
}

// IsHubError reports whether err is (or wraps) a hub-side failure.
func IsHubError(err error) bool {
	var he *HubError
	return errors.As(err, &he)
}
