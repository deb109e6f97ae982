package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"golang.org/x/sync/errgroup"

	"taskflow/internal/config"
	"taskflow/internal/engine"
	"taskflow/internal/exitcode"
	"taskflow/internal/service"
)

func init() {
	Register(&RmCmd{})
	Register(&PriorityCmd{})
}

// RmCmd implements the rm command.
type RmCmd struct{}

func (c *RmCmd) Name() string                   { return "rm" }
func (c *RmCmd) Aliases() []string              { return []string{"delete"} }
func (c *RmCmd) Synopsis() string               { return "Delete tasks" }
func (c *RmCmd) Usage() string                  { return "taskflow rm <ref...>" }
func (c *RmCmd) Requires() Requirement          { return RequireSession }
func (c *RmCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *RmCmd) Run(ctx context.Context, cfg *config.Config, eng *engine.Engine, args []string, out, errOut io.Writer) int {
	tasks, err := ResolveTaskRefs(eng.Tasks(), args)
	if err != nil {
		return Fail(errOut, err)
	}

	var g errgroup.Group
	for _, t := range tasks {
		g.Go(func() error {
			return eng.Delete(ctx, t.ID)
		})
	}
	if err := g.Wait(); err != nil {
		return Fail(errOut, err)
	}
	return ok(out, cfg.Quiet)
}

// PriorityCmd sets the priority of a task.
type PriorityCmd struct{}

func (c *PriorityCmd) Name() string                   { return "priority" }
func (c *PriorityCmd) Aliases() []string              { return []string{"prio"} }
func (c *PriorityCmd) Synopsis() string               { return "Set task priority" }
func (c *PriorityCmd) Usage() string                  { return "taskflow priority <ref> <low|medium|high>" }
func (c *PriorityCmd) Requires() Requirement          { return RequireSession }
func (c *PriorityCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *PriorityCmd) Run(ctx context.Context, cfg *config.Config, eng *engine.Engine, args []string, out, errOut io.Writer) int {
	if len(args) != 2 {
		fmt.Fprintln(errOut, "error: task reference and priority required")
		return exitcode.UserError
	}
	t, err := ResolveTaskRef(eng.Tasks(), args[0])
	if err != nil {
		return Fail(errOut, err)
	}
	p, err := service.ParsePriority(args[1])
	if err != nil {
		return Fail(errOut, err)
	}
	if _, err := eng.SetPriority(ctx, t.ID, p); err != nil {
		return Fail(errOut, err)
	}
	return ok(out, cfg.Quiet)
}
