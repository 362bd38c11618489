package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"time"

	"tasker/internal/config"
	"tasker/internal/exitcode"
	"tasker/internal/output"
	"tasker/internal/tracker"
)

func init() {
	Register(&ListCmd{})
}

// now is the clock used for overdue markers. Tests replace it.
var now = time.Now

// ListCmd implements the list command.
// Handles both `tasker` (no args) and `tasker list`.
type ListCmd struct {
	filter string
	long   bool
}

func (c *ListCmd) Name() string      { return "list" }
func (c *ListCmd) Aliases() []string { return []string{"ls"} }
func (c *ListCmd) Synopsis() string  { return "List tasks" }
func (c *ListCmd) Usage() string {
	return "tasker list [--filter all|pending|completed] [--long]"
}
func (c *ListCmd) NeedsAuth() bool { return true }

func (c *ListCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.filter, "filter", "", "")
	fs.StringVar(&c.filter, "f", "", "")
	fs.BoolVar(&c.long, "long", false, "")
}

func (c *ListCmd) Run(ctx context.Context, cfg *config.Config, tr *tracker.Coordinator, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		return usageError(errOut, "unexpected argument: %s", args[0])
	}
	filter, err := tracker.ParseFilter(c.filter)
	if err != nil {
		return usageError(errOut, "%v", err)
	}

	if err := tr.LoadAll(ctx); err != nil {
		return report(errOut, err)
	}

	// Numbers are positions in the full list so they stay valid as refs
	// when a filter hides some tasks.
	today := now()
	shown := 0
	for i, task := range tr.Tasks() {
		if !filter.Match(task) {
			continue
		}
		output.FormatTask(out, i+1, task, today)
		if c.long {
			output.FormatDescription(out, task)
		}
		shown++
	}

	if shown == 0 {
		if !cfg.Quiet {
			fmt.Fprintln(out, "no tasks found")
		}
		return exitcode.Success
	}
	if !cfg.Quiet {
		output.FormatSummary(out, tr.Counts())
	}
	return exitcode.Success
}
