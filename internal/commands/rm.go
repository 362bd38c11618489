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
	Register(&RmCmd{})
}

// RmCmd implements the rm command.
type RmCmd struct{}

func (c *RmCmd) Name() string      { return "rm" }
func (c *RmCmd) Aliases() []string { return []string{"delete"} }
func (c *RmCmd) Synopsis() string  { return "Delete a task" }
func (c *RmCmd) Usage() string     { return "tasker rm <n>" }
func (c *RmCmd) NeedsAuth() bool   { return true }

func (c *RmCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *RmCmd) Run(ctx context.Context, cfg *config.Config, tr *tracker.Coordinator, args []string, out, errOut io.Writer) int {
	task, code, ok := lookupTask(ctx, tr, args, errOut)
	if !ok {
		return code
	}

	removed, err := tr.Remove(ctx, task.ID)
	if err != nil {
		return report(errOut, err)
	}
	if removed.Title == "" {
		removed.Title = task.Title
	}

	if !cfg.Quiet {
		fmt.Fprintf(out, "removed: %s\n", removed.Title)
	}
	return exitcode.Success
}
