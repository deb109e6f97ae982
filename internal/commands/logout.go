package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"taskflow/internal/config"
	"taskflow/internal/engine"
	"taskflow/internal/exitcode"
)

func init() {
	Register(&LogoutCmd{})
}

// LogoutCmd implements the logout command.
type LogoutCmd struct{}

func (c *LogoutCmd) Name() string          { return "logout" }
func (c *LogoutCmd) Aliases() []string     { return nil }
func (c *LogoutCmd) Synopsis() string      { return "Remove the stored session" }
func (c *LogoutCmd) Usage() string         { return "taskflow logout [common flags]" }
func (c *LogoutCmd) Requires() Requirement { return RequireEngine }

func (c *LogoutCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *LogoutCmd) Run(ctx context.Context, cfg *config.Config, eng *engine.Engine, args []string, out, errOut io.Writer) int {
	if !eng.Authenticated() {
		if !cfg.Quiet {
			fmt.Fprintln(out, "not logged in")
		}
		return exitcode.Success
	}

	// The in-memory session is gone even when removing the file fails.
	if err := eng.Logout(); err != nil {
		fmt.Fprintf(errOut, "error: failed to remove token: %v\n", err)
		return exitcode.AuthError
	}

	return ok(out, cfg.Quiet)
}
