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
	"taskflow/internal/service"
)

func init() {
	Register(&AddCmd{})
}

// AddCmd implements the add command.
type AddCmd struct {
	status   string
	priority string
}

// SetFields sets the status and priority flags (for testing).
func (c *AddCmd) SetFields(status, priority string) {
	c.status = status
	c.priority = priority
}

func (c *AddCmd) Name() string      { return "add" }
func (c *AddCmd) Aliases() []string { return []string{"create"} }
func (c *AddCmd) Synopsis() string  { return "Create a task" }
func (c *AddCmd) Usage() string {
	return "taskflow add [--priority <low|medium|high>] [--status <pending|completed>] <text...>"
}
func (c *AddCmd) Requires() Requirement { return RequireSession }

func (c *AddCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.priority, "priority", "", "")
	fs.StringVar(&c.priority, "p", "", "")
	fs.StringVar(&c.status, "status", "", "")
	fs.StringVar(&c.status, "s", "", "")
}

func (c *AddCmd) Run(ctx context.Context, cfg *config.Config, eng *engine.Engine, args []string, out, errOut io.Writer) int {
	text := strings.Join(args, " ")
	if strings.TrimSpace(text) == "" {
		fmt.Fprintln(errOut, "error: task text required")
		return exitcode.UserError
	}

	// Empty flags take the create defaults.
	task := service.NewTask{
		Text:     text,
		Status:   service.Status(c.status),
		Priority: service.Priority(c.priority),
	}

	created, err := eng.Create(ctx, task)
	if err != nil {
		return Fail(errOut, err)
	}

	if !cfg.Quiet {
		fmt.Fprintf(out, "ok %s\n", created.ID)
	}
	return exitcode.Success
}
