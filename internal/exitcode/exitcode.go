// Package exitcode defines exit codes for the CLI.
package exitcode

const (
	// Success indicates successful completion.
	Success = 0

	// UserError indicates a user error (bad args, unknown ref, invalid field,
	// blank text, rejected registration).
	UserError = 1

	// AuthError indicates a missing, rejected or revoked session, or an
	// unusable configuration.
	AuthError = 2

	// BackendError indicates a backend status, undecodable response or
	// network failure.
	BackendError = 3
)
