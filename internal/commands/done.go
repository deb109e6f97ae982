package commands

import (
	"context"
	"flag"
	"io"

	"golang.org/x/sync/errgroup"

	"taskflow/internal/config"
	"taskflow/internal/engine"
	"taskflow/internal/service"
)

func init() {
	Register(NewDoneCmd())
	Register(NewUndoCmd())
	Register(&ToggleCmd{})
}

// StatusCmd sets the status of one or more tasks. It backs both done and undo.
type StatusCmd struct {
	name     string
	status   service.Status
	synopsis string
}

// NewDoneCmd returns the done command.
func NewDoneCmd() *StatusCmd {
	return &StatusCmd{name: "done", status: service.StatusCompleted, synopsis: "Mark tasks completed"}
}

// NewUndoCmd returns the undo command.
func NewUndoCmd() *StatusCmd {
	return &StatusCmd{name: "undo", status: service.StatusPending, synopsis: "Mark tasks pending"}
}

func (c *StatusCmd) Name() string                   { return c.name }
func (c *StatusCmd) Aliases() []string              { return nil }
func (c *StatusCmd) Synopsis() string               { return c.synopsis }
func (c *StatusCmd) Usage() string                  { return "taskflow " + c.name + " <ref...>" }
func (c *StatusCmd) Requires() Requirement          { return RequireSession }
func (c *StatusCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *StatusCmd) Run(ctx context.Context, cfg *config.Config, eng *engine.Engine, args []string, out, errOut io.Writer) int {
	tasks, err := ResolveTaskRefs(eng.Tasks(), args)
	if err != nil {
		return Fail(errOut, err)
	}

	// Each task has its own lock key, so the updates run side by side.
	var g errgroup.Group
	for _, t := range tasks {
		g.Go(func() error {
			_, err := eng.SetStatus(ctx, t.ID, c.status)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return Fail(errOut, err)
	}
	return ok(out, cfg.Quiet)
}

// ToggleCmd flips a task between pending and completed.
type ToggleCmd struct{}

func (c *ToggleCmd) Name() string                   { return "toggle" }
func (c *ToggleCmd) Aliases() []string              { return nil }
func (c *ToggleCmd) Synopsis() string               { return "Flip a task between pending and completed" }
func (c *ToggleCmd) Usage() string                  { return "taskflow toggle <ref>" }
func (c *ToggleCmd) Requires() Requirement          { return RequireSession }
func (c *ToggleCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *ToggleCmd) Run(ctx context.Context, cfg *config.Config, eng *engine.Engine, args []string, out, errOut io.Writer) int {
	if len(args) != 1 {
		return Fail(errOut, ErrTaskRefRequired)
	}
	t, err := ResolveTaskRef(eng.Tasks(), args[0])
	if err != nil {
		return Fail(errOut, err)
	}
	if _, err := eng.ToggleStatus(ctx, t.ID); err != nil {
		return Fail(errOut, err)
	}
	return ok(out, cfg.Quiet)
}
