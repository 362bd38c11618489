package tracker

import (
	"fmt"
	"strings"

	"tasker/internal/service"
)

// Filter selects which tasks a view shows.
type Filter string

const (
	All       Filter = "all"
	Pending   Filter = "pending"
	Completed Filter = "completed"
)

// ParseFilter parses a filter name. An empty name means All.
func ParseFilter(s string) (Filter, error) {
	switch Filter(strings.ToLower(strings.TrimSpace(s))) {
	case "", All:
		return All, nil
	case Pending:
		return Pending, nil
	case Completed:
		return Completed, nil
	default:
		return "", fmt.Errorf("invalid filter: %s (want all, pending or completed)", s)
	}
}

// Match reports whether t passes the filter. The zero Filter is All; any
// other unknown value matches nothing.
func (f Filter) Match(t service.Task) bool {
	switch f {
	case "", All:
		return true
	case Pending:
		return !t.Completed
	case Completed:
		return t.Completed
	default:
		return false
	}
}
