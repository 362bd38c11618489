package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"tasker/internal/config"
	"tasker/internal/exitcode"
	"tasker/internal/service"
	"tasker/internal/tracker"
)

func init() {
	Register(&EditCmd{})
}

// optString is a string flag that records whether it was given.
type optString struct {
	value string
	set   bool
}

func (o *optString) String() string { return o.value }

func (o *optString) Set(s string) error {
	o.value, o.set = s, true
	return nil
}

// EditCmd implements the edit command.
type EditCmd struct {
	title    optString
	desc     optString
	due      optString
	priority optString
}

func (c *EditCmd) Name() string      { return "edit" }
func (c *EditCmd) Aliases() []string { return nil }
func (c *EditCmd) Synopsis() string  { return "Change a task" }
func (c *EditCmd) Usage() string {
	return "tasker edit [--title <text>] [--desc <text>] [--due YYYY-MM-DD|\"\"] [--priority low|medium|high] <n>"
}
func (c *EditCmd) NeedsAuth() bool { return true }

func (c *EditCmd) RegisterFlags(fs *flag.FlagSet) {
	c.title, c.desc, c.due, c.priority = optString{}, optString{}, optString{}, optString{}
	fs.Var(&c.title, "title", "")
	fs.Var(&c.title, "t", "")
	fs.Var(&c.desc, "desc", "")
	fs.Var(&c.desc, "d", "")
	fs.Var(&c.due, "due", "")
	fs.Var(&c.priority, "priority", "")
	fs.Var(&c.priority, "p", "")
}

func (c *EditCmd) Run(ctx context.Context, cfg *config.Config, tr *tracker.Coordinator, args []string, out, errOut io.Writer) int {
	if !c.title.set && !c.desc.set && !c.due.set && !c.priority.set {
		return usageError(errOut, "nothing to change (use --title, --desc, --due or --priority)")
	}

	task, code, ok := lookupTask(ctx, tr, args, errOut)
	if !ok {
		return code
	}

	// An update always carries every field, starting from the current record.
	fields := task.Fields()
	if c.title.set {
		fields.Title = strings.TrimSpace(c.title.value)
		if fields.Title == "" {
			return usageError(errOut, "title must not be empty")
		}
	}
	if c.desc.set {
		fields.Description = strings.TrimSpace(c.desc.value)
		if fields.Description == "" {
			return usageError(errOut, "description must not be empty")
		}
	}
	if c.due.set {
		due, err := parseDue(c.due.value)
		if err != nil {
			return usageError(errOut, "%v", err)
		}
		fields.DueDate = due
	}
	if c.priority.set {
		p, err := service.ParsePriority(c.priority.value)
		if err != nil {
			return usageError(errOut, "%v", err)
		}
		fields.Priority = p
	}

	if _, err := tr.Edit(ctx, task.ID, fields); err != nil {
		return report(errOut, err)
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
