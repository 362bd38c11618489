package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	"tasker/internal/config"
	"tasker/internal/exitcode"
	"tasker/internal/service"
	"tasker/internal/tracker"
)

func init() {
	Register(&AddCmd{})
}

// AddCmd implements the add command.
type AddCmd struct {
	desc     string
	due      string
	priority string
}

func (c *AddCmd) Name() string      { return "add" }
func (c *AddCmd) Aliases() []string { return []string{"create"} }
func (c *AddCmd) Synopsis() string  { return "Create a task" }
func (c *AddCmd) Usage() string {
	return "tasker add --desc <text> [--due YYYY-MM-DD] [--priority low|medium|high] <title...>"
}
func (c *AddCmd) NeedsAuth() bool { return true }

func (c *AddCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.desc, "desc", "", "")
	fs.StringVar(&c.desc, "d", "", "")
	fs.StringVar(&c.due, "due", "", "")
	fs.StringVar(&c.priority, "priority", "", "")
	fs.StringVar(&c.priority, "p", "", "")
}

func (c *AddCmd) Run(ctx context.Context, cfg *config.Config, tr *tracker.Coordinator, args []string, out, errOut io.Writer) int {
	title := strings.TrimSpace(strings.Join(args, " "))
	if title == "" {
		return usageError(errOut, "title required")
	}
	if strings.TrimSpace(c.desc) == "" {
		return usageError(errOut, "description required (--desc)")
	}
	due, err := parseDue(c.due)
	if err != nil {
		return usageError(errOut, "%v", err)
	}
	priority, err := service.ParsePriority(c.priority)
	if err != nil {
		return usageError(errOut, "%v", err)
	}

	fields := service.TaskFields{
		Title:       title,
		Description: strings.TrimSpace(c.desc),
		DueDate:     due,
		Priority:    priority,
	}
	if _, err := tr.Add(ctx, fields); err != nil {
		return report(errOut, err)
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}

// parseDue validates a due date argument. Empty means no deadline.
func parseDue(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", nil
	}
	if _, err := time.Parse(service.DateLayout, s); err != nil {
		return "", fmt.Errorf("invalid due date: %s (want YYYY-MM-DD)", s)
	}
	return s, nil
}
