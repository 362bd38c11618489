package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"tasker/internal/config"
	"tasker/internal/exitcode"
	"tasker/internal/tracker"
)

func init() {
	Register(&DoneCmd{})
	Register(&ToggleCmd{})
}

// DoneCmd implements the done command.
type DoneCmd struct{}

func (c *DoneCmd) Name() string      { return "done" }
func (c *DoneCmd) Aliases() []string { return nil }
func (c *DoneCmd) Synopsis() string  { return "Mark a task completed" }
func (c *DoneCmd) Usage() string     { return "tasker done <n>" }
func (c *DoneCmd) NeedsAuth() bool   { return true }

func (c *DoneCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *DoneCmd) Run(ctx context.Context, cfg *config.Config, tr *tracker.Coordinator, args []string, out, errOut io.Writer) int {
	task, code, ok := lookupTask(ctx, tr, args, errOut)
	if !ok {
		return code
	}

	if task.Completed {
		if !cfg.Quiet {
			fmt.Fprintln(out, "already completed")
		}
		return exitcode.Success
	}

	if _, err := tr.ToggleCompletion(ctx, task); err != nil {
		return report(errOut, err)
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}

// ToggleCmd implements the toggle command.
type ToggleCmd struct{}

func (c *ToggleCmd) Name() string      { return "toggle" }
func (c *ToggleCmd) Aliases() []string { return nil }
func (c *ToggleCmd) Synopsis() string  { return "Flip a task between pending and completed" }
func (c *ToggleCmd) Usage() string     { return "tasker toggle <n>" }
func (c *ToggleCmd) NeedsAuth() bool   { return true }

func (c *ToggleCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *ToggleCmd) Run(ctx context.Context, cfg *config.Config, tr *tracker.Coordinator, args []string, out, errOut io.Writer) int {
	task, code, ok := lookupTask(ctx, tr, args, errOut)
	if !ok {
		return code
	}

	updated, err := tr.ToggleCompletion(ctx, task)
	if err != nil {
		return report(errOut, err)
	}

	if !cfg.Quiet {
		if updated.Completed {
			fmt.Fprintln(out, "completed")
		} else {
			fmt.Fprintln(out, "pending")
		}
	}
	return exitcode.Success
}
