package output

import (
	"bytes"
	"testing"
	"time"

	"tasker/internal/service"
	"tasker/internal/tracker"
)

var today = time.Date(2024, 1, 21, 15, 0, 0, 0, time.UTC)

func TestFormatTask(t *testing.T) {
	tests := []struct {
		name string
		num  int
		task service.Task
		want string
	}{
		{
			name: "open with due date",
			num:  1,
			task: service.Task{Title: "Complete project proposal", DueDate: "2024-01-25", Priority: service.PriorityHigh},
			want: "   1  [ ] high    2024-01-25  Complete project proposal\n",
		},
		{
			name: "completed past due is not overdue",
			num:  2,
			task: service.Task{Title: "Review code changes", DueDate: "2024-01-20", Priority: service.PriorityMedium, Completed: true},
			want: "   2  [x] medium  2024-01-20  Review code changes\n",
		},
		{
			name: "overdue",
			num:  12,
			task: service.Task{Title: "Update docs", DueDate: "2024-01-15", Priority: service.PriorityLow},
			want: "  12  [ ] low     2024-01-15  Update docs (overdue)\n",
		},
		{
			name: "due today is not overdue",
			num:  3,
			task: service.Task{Title: "Today", DueDate: "2024-01-21", Priority: service.PriorityHigh},
			want: "   3  [ ] high    2024-01-21  Today\n",
		},
		{
			name: "no due date and unknown priority",
			num:  4,
			task: service.Task{Title: "multi\nline"},
			want: "   4  [ ] medium  -           multi line\n",
		},
		{
			name: "empty title",
			num:  5,
			task: service.Task{Title: "  ", Priority: service.PriorityLow},
			want: "   5  [ ] low     -           (untitled)\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			FormatTask(&buf, tt.num, tt.task, today)
			if buf.String() != tt.want {
				t.Errorf("FormatTask() = %q, want %q", buf.String(), tt.want)
			}
		})
	}
}

func TestFormatDescription(t *testing.T) {
	var buf bytes.Buffer
	FormatDescription(&buf, service.Task{Description: "first\r\nsecond\n"})

	want := "      first\n      second\n"
	if buf.String() != want {
		t.Errorf("FormatDescription() = %q, want %q", buf.String(), want)
	}
}

func TestFormatSummary(t *testing.T) {
	tests := []struct {
		counts tracker.Counts
		want   string
	}{
		{tracker.Counts{}, "0 tasks, 0 completed, 0 pending (0%)\n"},
		{tracker.Counts{Total: 1, Pending: 1}, "1 task, 0 completed, 1 pending (0%)\n"},
		{tracker.Counts{Total: 3, Completed: 1, Pending: 2, Rate: 33}, "3 tasks, 1 completed, 2 pending (33%)\n"},
	}
	for _, tt := range tests {
		var buf bytes.Buffer
		FormatSummary(&buf, tt.counts)
		if buf.String() != tt.want {
			t.Errorf("FormatSummary(%+v) = %q, want %q", tt.counts, buf.String(), tt.want)
		}
	}
}

func TestFormatStats(t *testing.T) {
	var buf bytes.Buffer
	FormatStats(&buf, tracker.Counts{Total: 3, Completed: 1, Pending: 2, Rate: 33})

	want := "total:      3\ncompleted:  1\npending:    2\ncompletion: 33%\n"
	if buf.String() != want {
		t.Errorf("FormatStats() = %q, want %q", buf.String(), want)
	}
}
