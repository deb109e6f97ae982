package service

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrNetworkUnavailable is matched by every error where no response was received.
	ErrNetworkUnavailable = errors.New("network unavailable")

	// ErrEmptyInput rejects a blank task text or an empty update before any
	// network call is made.
	ErrEmptyInput = errors.New("empty input")

	// ErrInvalidField rejects an unknown status or priority value.
	ErrInvalidField = errors.New("invalid field")

	// ErrInvalidResponse means the backend replied with a body that could not
	// be decoded into tasks.
	ErrInvalidResponse = errors.New("invalid response")

	// ErrLoginRejected means the login endpoint returned no token.
	ErrLoginRejected = errors.New("login rejected")

	// ErrRegisterRejected means the register endpoint did not confirm the account.
	ErrRegisterRejected = errors.New("registration rejected")
)

// RemoteError is a non-success HTTP status returned by the backend.
type RemoteError struct {
	Verb    string // HTTP method or "login"/"register"
	Status  int
	Message string // server-supplied message, if any
}

func (e *RemoteError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s failed: status %d: %s", e.Verb, e.Status, e.Message)
	}
	return fmt.Sprintf("%s failed: status %d", e.Verb, e.Status)
}

// IsAuth reports whether the backend refused the session (401/403).
func (e *RemoteError) IsAuth() bool {
	return e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden
}

// IsAuthError reports whether err wraps a 401/403 RemoteError.
func IsAuthError(err error) bool {
	var re *RemoteError
	return errors.As(err, &re) && re.IsAuth()
}
