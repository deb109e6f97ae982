// Package cli parses the command line and wires config, session, backend
// and engine together before handing off to a command.
package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"taskflow/internal/commands"
	"taskflow/internal/config"
	"taskflow/internal/engine"
	"taskflow/internal/exitcode"
	"taskflow/internal/logging"
	"taskflow/internal/service"
	"taskflow/internal/session"
)

// ServiceFactory creates the backend gateway. sess supplies the bearer
// token for every authenticated request.
type ServiceFactory func(ctx context.Context, cfg *config.Config, sess *session.Session, log *zap.Logger) (service.Service, error)

// Dispatcher handles command-line parsing and dispatch.
type Dispatcher struct {
	registry *commands.Registry
	factory  ServiceFactory
}

// NewDispatcher creates a new dispatcher with the given registry and service factory.
func NewDispatcher(registry *commands.Registry, factory ServiceFactory) *Dispatcher {
	return &Dispatcher{
		registry: registry,
		factory:  factory,
	}
}

// Run parses arguments and dispatches to the appropriate command.
// Returns the exit code.
func (d *Dispatcher) Run(ctx context.Context, args []string, out, errOut io.Writer) int {
	// No args -> dispatch to "list" command with no args
	if len(args) == 0 {
		args = []string{"list"}
	}

	cmdName := args[0]

	// Flags require a command
	if strings.HasPrefix(cmdName, "-") {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", cmdName)
		return exitcode.UserError
	}

	cmd, ok := d.registry.Find(cmdName)
	if !ok {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", cmdName)
		return exitcode.UserError
	}

	return d.dispatchCommand(ctx, cmd, args[1:], out, errOut)
}

func (d *Dispatcher) dispatchCommand(ctx context.Context, cmd commands.Command, args []string, out, errOut io.Writer) int {
	fs := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	fs.SetOutput(io.Discard) // We handle errors ourselves

	var configDir string
	var quiet bool
	var debug bool

	fs.StringVar(&configDir, "config", "", "")
	fs.BoolVar(&quiet, "quiet", false, "")
	fs.BoolVar(&debug, "debug", false, "")

	cmd.RegisterFlags(fs)

	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(errOut, "error: %s\n", flagError(err))
		return exitcode.UserError
	}

	// A leading "-" left after parsing is a flag placed after "--".
	positionalArgs := fs.Args()
	if len(positionalArgs) > 0 && strings.HasPrefix(positionalArgs[0], "-") && positionalArgs[0] != "-" {
		fmt.Fprintf(errOut, "error: unknown flag: %s\n", positionalArgs[0])
		return exitcode.UserError
	}

	cfg, err := config.New(configDir)
	if err != nil {
		fmt.Fprintf(errOut, "error: %s\n", err)
		return exitcode.UserError
	}
	cfg.Quiet = quiet
	cfg.Debug = debug

	if cmd.Requires() == commands.RequireNone {
		return cmd.Run(ctx, cfg, nil, positionalArgs, out, errOut)
	}

	// Skip building a backend when there is plainly no session.
	if cmd.Requires() == commands.RequireSession && !cfg.HasToken() {
		return notLoggedIn(errOut)
	}

	log := logging.New(cfg.Debug, errOut)
	defer func() { _ = log.Sync() }()

	sess, err := session.New(session.NewFileStore(cfg.TokenPath()))
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.AuthError
	}

	svc, err := d.factory(ctx, cfg, sess, log)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.AuthError
	}

	eng := engine.New(svc, sess, engine.WithLogger(log))

	if cmd.Requires() == commands.RequireSession {
		if !eng.Authenticated() {
			return notLoggedIn(errOut)
		}
		if err := eng.Resume(ctx); err != nil {
			return commands.Fail(errOut, err)
		}
	}

	code := cmd.Run(ctx, cfg, eng, positionalArgs, out, errOut)
	if busy := eng.Busy(); len(busy) > 0 {
		log.Debug("operations still in flight", zap.Stringers("keys", busy))
	}
	return code
}

func notLoggedIn(errOut io.Writer) int {
	fmt.Fprintln(errOut, "error: not logged in (run: taskflow login)")
	return exitcode.AuthError
}

// flagError rewrites the flag package's messages into the CLI's wording.
func flagError(err error) string {
	const undefined = "flag provided but not defined: "
	msg := err.Error()
	if strings.HasPrefix(msg, undefined) {
		return "unknown flag: " + strings.TrimPrefix(msg, undefined)
	}
	return msg
}
