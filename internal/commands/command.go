// Package commands provides the command interface and implementations.
package commands

import (
	"context"
	"flag"
	"io"

	"taskflow/internal/config"
	"taskflow/internal/engine"
)

// Requirement is what a command needs from the dispatcher before it runs.
type Requirement int

const (
	// RequireNone commands never touch the backend (help, version).
	RequireNone Requirement = iota

	// RequireEngine commands get an engine whether or not a session is held
	// (login, register, logout).
	RequireEngine

	// RequireSession commands need a stored session. The dispatcher rejects
	// them when logged out and fetches the collection before Run.
	RequireSession
)

// Command defines the interface for CLI commands.
type Command interface {
	// Name returns the primary command name.
	Name() string

	// Aliases returns alternative names for the command.
	Aliases() []string

	// Synopsis returns a short description for help output.
	Synopsis() string

	// Usage returns the usage string for help output.
	Usage() string

	// Requires reports what the dispatcher must prepare.
	Requires() Requirement

	// RegisterFlags registers command-specific flags.
	RegisterFlags(fs *flag.FlagSet)

	// Run executes the command.
	// cfg is always provided (config dir, paths, settings).
	// eng is nil if Requires() returns RequireNone.
	// args contains positional arguments after flag parsing.
	// Returns exit code.
	Run(ctx context.Context, cfg *config.Config, eng *engine.Engine, args []string, out, errOut io.Writer) int
}
