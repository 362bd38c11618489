package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"unicode"

	"tasker/internal/service"
	"tasker/internal/tracker"
)

// ErrTaskRefRequired indicates no task reference was provided.
var ErrTaskRefRequired = errors.New("task reference required")

// ParseTaskRef parses a task reference from args.
// A reference is the 1-based position of a task in the full list, as
// printed by the list command. Extra arguments are rejected.
func ParseTaskRef(args []string) (int, error) {
	if len(args) == 0 {
		return 0, ErrTaskRefRequired
	}
	if len(args) > 1 {
		return 0, fmt.Errorf("unexpected argument: %s", args[1])
	}

	ref := args[0]
	if !isAllDigits(ref) {
		return 0, fmt.Errorf("invalid task reference: %s", ref)
	}
	num, err := strconv.Atoi(ref)
	if err != nil {
		return 0, fmt.Errorf("invalid task reference: %s", ref)
	}
	return num, nil
}

// isAllDigits returns true if s consists only of ASCII digits and is non-empty.
func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r > unicode.MaxASCII || !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// outOfRangeError is returned for a reference past the end of the list.
type outOfRangeError struct{ num int }

func (e *outOfRangeError) Error() string {
	return fmt.Sprintf("task number out of range: %d", e.num)
}

// findTaskByNumber loads the collection and returns the task at 1-based
// position num.
func findTaskByNumber(ctx context.Context, tr *tracker.Coordinator, num int) (service.Task, error) {
	if err := tr.LoadAll(ctx); err != nil {
		return service.Task{}, err
	}
	tasks := tr.Tasks()
	if num < 1 || num > len(tasks) {
		return service.Task{}, &outOfRangeError{num: num}
	}
	return tasks[num-1], nil
}

// lookupTask parses args and resolves the task they reference. On failure
// the error has been printed and the exit code is returned.
func lookupTask(ctx context.Context, tr *tracker.Coordinator, args []string, errOut io.Writer) (service.Task, int, bool) {
	num, err := ParseTaskRef(args)
	if err != nil {
		return service.Task{}, usageError(errOut, "%v", err), false
	}
	task, err := findTaskByNumber(ctx, tr, num)
	if err != nil {
		var oor *outOfRangeError
		if errors.As(err, &oor) {
			return service.Task{}, usageError(errOut, "%v", err), false
		}
		return service.Task{}, report(errOut, err), false
	}
	return task, 0, true
}
