package commands

import (
	"errors"
	"fmt"
	"io"

	"taskflow/internal/engine"
	"taskflow/internal/exitcode"
	"taskflow/internal/service"
)

// Fail prints err to errOut and returns the exit code for its class.
func Fail(errOut io.Writer, err error) int {
	switch {
	case service.IsAuthError(err):
		fmt.Fprintln(errOut, "error: token expired or revoked (run: taskflow login)")
		return exitcode.AuthError
	case errors.Is(err, service.ErrLoginRejected), errors.Is(err, engine.ErrEmptyToken):
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.AuthError
	case errors.Is(err, service.ErrRegisterRejected),
		errors.Is(err, service.ErrEmptyInput),
		errors.Is(err, service.ErrInvalidField),
		errors.Is(err, engine.ErrTaskNotFound),
		errors.Is(err, ErrTaskRefRequired),
		errors.Is(err, ErrOutOfRange):
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	case errors.Is(err, service.ErrNetworkUnavailable):
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.BackendError
	default:
		fmt.Fprintf(errOut, "error: backend error: %v\n", err)
		return exitcode.BackendError
	}
}

// ok acknowledges a successful mutation unless quiet.
func ok(out io.Writer, quiet bool) int {
	if !quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
