// Package output provides formatters for CLI output.
package output

import (
	"fmt"
	"io"
	"strings"
	"time"

	"tasker/internal/service"
	"tasker/internal/tracker"
)

// noDue is shown in the due column of tasks without a deadline.
const noDue = "-"

// FormatTask formats a task line for the list.
// Format: "{N:>4}  [x] {PRIORITY:<6}  {DUE:<10}  {TITLE}[ (overdue)]\n"
func FormatTask(w io.Writer, num int, task service.Task, now time.Time) {
	box := "[ ]"
	if task.Completed {
		box = "[x]"
	}
	due := task.DueDate
	if due == "" {
		due = noDue
	}
	line := fmt.Sprintf("%4d  %s %-6s  %-10s  %s", num, box, task.Priority.OrDefault(), due, normalizeTitle(task.Title))
	if task.Overdue(now) {
		line += " (overdue)"
	}
	fmt.Fprintln(w, line)
}

// FormatDescription prints the description under a task line, indented
// past the number column.
func FormatDescription(w io.Writer, task service.Task) {
	for _, line := range strings.Split(strings.TrimSpace(task.Description), "\n") {
		fmt.Fprintf(w, "      %s\n", strings.TrimRight(line, "\r"))
	}
}

// FormatSummary formats the one-line summary shown under the list.
func FormatSummary(w io.Writer, n tracker.Counts) {
	fmt.Fprintf(w, "%d %s, %d completed, %d pending (%d%%)\n", n.Total, plural(n.Total, "task", "tasks"), n.Completed, n.Pending, n.Rate)
}

// FormatStats formats the stats command output.
func FormatStats(w io.Writer, n tracker.Counts) {
	fmt.Fprintf(w, "total:      %d\n", n.Total)
	fmt.Fprintf(w, "completed:  %d\n", n.Completed)
	fmt.Fprintf(w, "pending:    %d\n", n.Pending)
	fmt.Fprintf(w, "completion: %d%%\n", n.Rate)
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

// normalizeTitle normalizes a task title for display.
// - Empty or whitespace-only titles become "(untitled)"
// - Newlines are replaced with spaces
func normalizeTitle(title string) string {
	title = strings.ReplaceAll(title, "\r", " ")
	title = strings.ReplaceAll(title, "\n", " ")

	if strings.TrimSpace(title) == "" {
		return "(untitled)"
	}
	return title
}
