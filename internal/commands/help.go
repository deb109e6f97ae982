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
	Register(&HelpCmd{})
}

// HelpCmd implements the help command.
type HelpCmd struct{}

func (c *HelpCmd) Name() string          { return "help" }
func (c *HelpCmd) Aliases() []string     { return nil }
func (c *HelpCmd) Synopsis() string      { return "Print usage" }
func (c *HelpCmd) Usage() string         { return "taskflow help" }
func (c *HelpCmd) Requires() Requirement { return RequireNone }

func (c *HelpCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *HelpCmd) Run(ctx context.Context, cfg *config.Config, eng *engine.Engine, args []string, out, errOut io.Writer) int {
	fmt.Fprint(out, helpText)
	return exitcode.Success
}

const helpText = `Usage:
  taskflow                                     List all tasks
  taskflow list [common flags] [--status <s>] [--priority <p>]
  taskflow add [common flags] [--priority <p>] [--status <s>] <text...>
  taskflow create [common flags] [--priority <p>] [--status <s>] <text...>
  taskflow done [common flags] <ref...>
  taskflow undo [common flags] <ref...>
  taskflow toggle [common flags] <ref>
  taskflow priority [common flags] <ref> <low|medium|high>
  taskflow rm [common flags] <ref...>
  taskflow login [common flags] [--username <u>] [--password <p>]
  taskflow register [common flags] [--username <u>] [--password <p>]
  taskflow logout [common flags]
  taskflow help
  taskflow version

A <ref> is the number printed by list or a task id.
Status is pending or completed; priority is low, medium or high.
List filters also accept all.

Common flags:
  --config <dir>   Override config directory
  --quiet          Suppress informational output
  --debug          Print debug logs to stderr

Environment (also read from <config dir>/.env):
  TASKFLOW_API_URL        Backend root URL
  TASKFLOW_TIMEOUT        Per-request timeout (default 15s)
  TASKFLOW_UPDATE_ROUTES  combined or fields
  TASKFLOW_USERNAME       Default login username
  TASKFLOW_PASSWORD       Default login password
`
