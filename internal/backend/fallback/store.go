// Package fallback implements an in-memory task store that stands in for
// the remote backend while it is unreachable.
//
// The store is a demo fixture, not a durable store: it is seeded with
// DemoTasks, lives for the process lifetime and is discarded on exit.
package fallback

import (
	"strconv"
	"sync"
	"time"

	"tasker/internal/service"
)

// DemoTasks is the fixed seed shown while the backend is unreachable.
// Consumers must not rely on these ids.
var DemoTasks = []service.Task{
	{
		ID:          "1",
		Title:       "Complete project setup",
		Description: "Set up the frontend application with all necessary components and styling",
		DueDate:     "2024-01-15",
		Priority:    service.PriorityHigh,
		Completed:   false,
	},
	{
		ID:          "2",
		Title:       "Design user interface",
		Description: "Create wireframes and mockups for the task management interface",
		DueDate:     "2024-01-20",
		Priority:    service.PriorityMedium,
		Completed:   true,
	},
	{
		ID:          "3",
		Title:       "Implement authentication",
		Description: "Add login and signup functionality with form validation",
		DueDate:     "2024-01-25",
		Priority:    service.PriorityHigh,
		Completed:   false,
	},
}

// DemoSession is returned by Login and Signup in fallback mode.
// No password is checked: fallback mode is a degraded offline mode, not a
// security boundary.
var DemoSession = service.Session{
	Token: "demo-token-12345",
	User: service.User{
		ID:    "1",
		Name:  "Demo User",
		Email: "demo@example.com",
	},
	Offline: true,
}

// Store is an ordered in-memory collection of tasks.
type Store struct {
	mu     sync.Mutex
	tasks  []service.Task
	lastID int64
	now    func() time.Time
}

// New creates a store holding a copy of seed.
func New(seed []service.Task) *Store {
	s := &Store{
		tasks: make([]service.Task, len(seed)),
		now:   time.Now,
	}
	copy(s.tasks, seed)
	for _, t := range seed {
		if n, err := strconv.ParseInt(string(t.ID), 10, 64); err == nil && n > s.lastID {
			s.lastID = n
		}
	}
	return s
}

// NewDemo creates a store seeded with DemoTasks.
func NewDemo() *Store {
	return New(DemoTasks)
}

var (
	processOnce  sync.Once
	processStore *Store
)

// Default returns the process-wide demo store, seeded on first use.
func Default() *Store {
	processOnce.Do(func() {
		processStore = NewDemo()
	})
	return processStore
}

// SetClock replaces the time source used for id generation (for testing).
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// List returns a copy of all tasks in insertion order.
func (s *Store) List() []service.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]service.Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

// Len returns the number of stored tasks.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks)
}

// Create appends a new open task with a fresh id and returns it.
func (s *Store) Create(fields service.TaskFields) service.Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := service.Task{
		ID:          s.nextID(),
		Title:       fields.Title,
		Description: fields.Description,
		DueDate:     fields.DueDate,
		Priority:    fields.Priority.OrDefault(),
		Completed:   false,
	}
	s.tasks = append(s.tasks, t)
	return t
}

// Update merges fields over task id and returns the merged record.
// ok is false, and nothing is changed, if id is absent.
//
// Title and description are replaced when non-empty, the due date is always
// replaced, priority when valid and completion when supplied.
func (s *Store) Update(id service.ID, fields service.TaskFields) (task service.Task, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return service.Task{}, false
	}

	t := s.tasks[i]
	if fields.Title != "" {
		t.Title = fields.Title
	}
	if fields.Description != "" {
		t.Description = fields.Description
	}
	t.DueDate = fields.DueDate
	if fields.Priority.Valid() {
		t.Priority = fields.Priority
	}
	if fields.Completed != nil {
		t.Completed = *fields.Completed
	}
	s.tasks[i] = t
	return t, true
}

// Delete removes task id and returns it. ok is false if id is absent.
func (s *Store) Delete(id service.ID) (task service.Task, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return service.Task{}, false
	}
	t := s.tasks[i]
	s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
	return t, true
}

func (s *Store) indexOf(id service.ID) int {
	for i, t := range s.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// nextID returns the current Unix millisecond time, bumped past the last
// issued id so two creates in the same millisecond never collide.
// Caller must hold s.mu.
func (s *Store) nextID() service.ID {
	n := s.now().UnixMilli()
	if n <= s.lastID {
		n = s.lastID + 1
	}
	s.lastID = n
	return service.ID(strconv.FormatInt(n, 10))
}
