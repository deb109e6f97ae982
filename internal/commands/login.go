package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"taskflow/internal/config"
	"taskflow/internal/engine"
	"taskflow/internal/exitcode"
)

func init() {
	Register(&LoginCmd{})
	Register(&RegisterCmd{})
}

// credentialFlags holds --username/--password, falling back to
// TASKFLOW_USERNAME and TASKFLOW_PASSWORD from the config.
type credentialFlags struct {
	username string
	password string
}

func (f *credentialFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&f.username, "username", "", "")
	fs.StringVar(&f.username, "u", "", "")
	fs.StringVar(&f.password, "password", "", "")
}

func (f *credentialFlags) resolve(cfg *config.Config) (string, string, bool) {
	username, password := f.username, f.password
	if username == "" {
		username = cfg.Username
	}
	if password == "" {
		password = cfg.Password
	}
	if strings.TrimSpace(username) == "" || password == "" {
		return "", "", false
	}
	return username, password, true
}

// LoginCmd implements the login command.
type LoginCmd struct {
	creds credentialFlags
}

// SetCredentials sets the credential flags (for testing).
func (c *LoginCmd) SetCredentials(username, password string) {
	c.creds = credentialFlags{username: username, password: password}
}

func (c *LoginCmd) Name() string          { return "login" }
func (c *LoginCmd) Aliases() []string     { return nil }
func (c *LoginCmd) Synopsis() string      { return "Sign in and store the session token" }
func (c *LoginCmd) Usage() string         { return "taskflow login [--username <u>] [--password <p>]" }
func (c *LoginCmd) Requires() Requirement { return RequireEngine }

func (c *LoginCmd) RegisterFlags(fs *flag.FlagSet) { c.creds.register(fs) }

func (c *LoginCmd) Run(ctx context.Context, cfg *config.Config, eng *engine.Engine, args []string, out, errOut io.Writer) int {
	username, password, present := c.creds.resolve(cfg)
	if !present {
		fmt.Fprintf(errOut, "error: username and password required (flags or %s/%s)\n", config.EnvUsername, config.EnvPassword)
		return exitcode.UserError
	}

	if err := cfg.EnsureDir(); err != nil {
		fmt.Fprintf(errOut, "error: failed to create config directory: %v\n", err)
		return exitcode.AuthError
	}

	if err := eng.Login(ctx, username, password); err != nil {
		return Fail(errOut, err)
	}

	if !cfg.Quiet {
		fmt.Fprintf(out, "ok (%d tasks)\n", len(eng.Tasks()))
	}
	return exitcode.Success
}

// RegisterCmd implements the register command.
type RegisterCmd struct {
	creds credentialFlags
}

// SetCredentials sets the credential flags (for testing).
func (c *RegisterCmd) SetCredentials(username, password string) {
	c.creds = credentialFlags{username: username, password: password}
}

func (c *RegisterCmd) Name() string          { return "register" }
func (c *RegisterCmd) Aliases() []string     { return []string{"signup"} }
func (c *RegisterCmd) Synopsis() string      { return "Create an account" }
func (c *RegisterCmd) Usage() string         { return "taskflow register [--username <u>] [--password <p>]" }
func (c *RegisterCmd) Requires() Requirement { return RequireEngine }

func (c *RegisterCmd) RegisterFlags(fs *flag.FlagSet) { c.creds.register(fs) }

func (c *RegisterCmd) Run(ctx context.Context, cfg *config.Config, eng *engine.Engine, args []string, out, errOut io.Writer) int {
	username, password, present := c.creds.resolve(cfg)
	if !present {
		fmt.Fprintf(errOut, "error: username and password required (flags or %s/%s)\n", config.EnvUsername, config.EnvPassword)
		return exitcode.UserError
	}

	if err := eng.Register(ctx, username, password); err != nil {
		return Fail(errOut, err)
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, "registered (run: taskflow login)")
	}
	return exitcode.Success
}
