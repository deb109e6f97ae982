package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"taskflow/internal/config"
	"taskflow/internal/engine"
	"taskflow/internal/exitcode"
	"taskflow/internal/output"
	"taskflow/internal/service"
)

func init() {
	Register(&ListCmd{})
}

// ListCmd implements the list command.
// Handles both `taskflow` (no args) and `taskflow list [--status s] [--priority p]`.
type ListCmd struct {
	status   string
	priority string
}

// SetFilter sets the filter flags (for testing).
func (c *ListCmd) SetFilter(status, priority string) {
	c.status = status
	c.priority = priority
}

func (c *ListCmd) Name() string          { return "list" }
func (c *ListCmd) Aliases() []string     { return []string{"ls"} }
func (c *ListCmd) Synopsis() string      { return "List tasks" }
func (c *ListCmd) Usage() string         { return "taskflow list [--status <s>] [--priority <p>]" }
func (c *ListCmd) Requires() Requirement { return RequireSession }

func (c *ListCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.status, "status", engine.All, "")
	fs.StringVar(&c.status, "s", engine.All, "")
	fs.StringVar(&c.priority, "priority", engine.All, "")
	fs.StringVar(&c.priority, "p", engine.All, "")
}

func (c *ListCmd) Run(ctx context.Context, cfg *config.Config, eng *engine.Engine, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}

	status, err := engine.ParseStatusFilter(c.status)
	if err != nil {
		return Fail(errOut, err)
	}
	priority, err := engine.ParsePriorityFilter(c.priority)
	if err != nil {
		return Fail(errOut, err)
	}
	eng.SetFilter(engine.Filter{Status: status, Priority: priority})

	positions := make(map[service.TaskID]int)
	for i, t := range eng.Tasks() {
		positions[t.ID] = i + 1
	}

	visible := eng.Visible()
	if len(visible) == 0 {
		if !cfg.Quiet {
			fmt.Fprintln(out, "no tasks found")
		}
		return exitcode.Success
	}

	output.FormatFilterHeader(out, eng.Filter())
	for _, t := range visible {
		output.FormatTask(out, positions[t.ID], t)
	}
	return exitcode.Success
}
