// Package tracker holds the authoritative task collection of a session and
// keeps it consistent with the state confirmed by the backend.
package tracker

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"

	"tasker/internal/service"
)

// State describes how the local collection relates to the backend.
type State int

const (
	// Uninitialized: no successful load yet.
	Uninitialized State = iota
	// Loaded: the collection reflects the last confirmed backend state.
	Loaded
	// StaleAfterError: a reload failed; the previous collection is kept.
	StaleAfterError
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Loaded:
		return "loaded"
	case StaleAfterError:
		return "stale-after-error"
	default:
		return "unknown"
	}
}

// ErrNotLoggedIn is returned by task operations when no session is held.
var ErrNotLoggedIn = &service.AuthError{Message: "not logged in"}

// Coordinator owns the task collection and session credential.
//
// The mutex is never held across a backend call, so local changes are
// applied in the order the calls complete.
type Coordinator struct {
	backend service.Backend
	log     *slog.Logger
	loads   singleflight.Group

	mu      sync.Mutex
	session *service.Session
	tasks   []service.Task
	state   State
}

// New creates a Coordinator without a session.
func New(backend service.Backend, log *slog.Logger) *Coordinator {
	if log == nil {
		log = slog.Default()
	}
	return &Coordinator{backend: backend, log: log}
}

// Login authenticates and holds the resulting session.
func (c *Coordinator) Login(ctx context.Context, creds service.Credentials) (service.Session, error) {
	sess, err := c.backend.Login(ctx, creds)
	if err != nil {
		return service.Session{}, err
	}
	c.Resume(sess)
	return sess, nil
}

// Signup registers a user and holds the resulting session.
func (c *Coordinator) Signup(ctx context.Context, req service.SignupRequest) (service.Session, error) {
	sess, err := c.backend.Signup(ctx, req)
	if err != nil {
		return service.Session{}, err
	}
	c.Resume(sess)
	return sess, nil
}

// Resume holds a session obtained earlier (for example one restored from
// disk). Any previously loaded collection is discarded.
func (c *Coordinator) Resume(sess service.Session) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.session = &sess
	c.tasks = nil
	c.state = Uninitialized
}

// Logout discards the session and the collection. No backend call is made.
func (c *Coordinator) Logout() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.session = nil
	c.tasks = nil
	c.state = Uninitialized
}

// Session returns the held session. ok is false when logged out.
func (c *Coordinator) Session() (sess service.Session, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return service.Session{}, false
	}
	return *c.session, true
}

// State returns the state of the local collection.
func (c *Coordinator) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Coordinator) token() (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return "", ErrNotLoggedIn
	}
	return c.session.Token, nil
}

// LoadAll fetches the full task list and replaces the collection.
// On failure the collection is left untouched and a *service.FetchError is
// returned. Concurrent calls share one request; the shared request is not
// tied to any single caller's cancellation, and a caller whose ctx ends
// first returns ctx.Err() without touching the collection.
func (c *Coordinator) LoadAll(ctx context.Context) error {
	token, err := c.token()
	if err != nil {
		return &service.FetchError{Err: err}
	}

	shared := context.WithoutCancel(ctx)
	ch := c.loads.DoChan(token, func() (interface{}, error) {
		return c.backend.ListTasks(shared, token)
	})

	var res singleflight.Result
	select {
	case res = <-ch:
	case <-ctx.Done():
		return &service.FetchError{Err: ctx.Err()}
	}
	v, err := res.Val, res.Err

	c.mu.Lock()
	defer c.mu.Unlock()

	if err != nil {
		if c.state == Loaded {
			c.state = StaleAfterError
		}
		c.log.Debug("task load failed", "err", err, "state", c.state)
		return &service.FetchError{Err: err}
	}

	list := v.([]service.Task)
	c.tasks = make([]service.Task, len(list))
	copy(c.tasks, list)
	c.state = Loaded
	c.log.Debug("tasks loaded", "count", len(list))
	return nil
}

// Add creates a task and appends the confirmed record to the collection.
func (c *Coordinator) Add(ctx context.Context, fields service.TaskFields) (service.Task, error) {
	if err := validate(fields); err != nil {
		return service.Task{}, err
	}
	token, err := c.token()
	if err != nil {
		return service.Task{}, err
	}

	created, err := c.backend.CreateTask(ctx, token, fields)
	if err != nil {
		return service.Task{}, fmt.Errorf("add task: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.tasks = append(c.tasks, created)
	return created, nil
}

// Edit updates task id and replaces the local record in place with the
// confirmed one. On failure the collection is unchanged.
func (c *Coordinator) Edit(ctx context.Context, id service.ID, fields service.TaskFields) (service.Task, error) {
	token, err := c.token()
	if err != nil {
		return service.Task{}, err
	}

	updated, err := c.backend.UpdateTask(ctx, token, id, fields)
	if err != nil {
		return service.Task{}, fmt.Errorf("edit task %s: %w", id, err)
	}
	if updated.ID == "" {
		updated.ID = id
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if i := c.indexOf(id); i >= 0 {
		c.tasks[i] = updated
	}
	return updated, nil
}

// Remove deletes task id and drops it from the collection.
func (c *Coordinator) Remove(ctx context.Context, id service.ID) (service.Task, error) {
	token, err := c.token()
	if err != nil {
		return service.Task{}, err
	}

	removed, err := c.backend.DeleteTask(ctx, token, id)
	if err != nil {
		return service.Task{}, fmt.Errorf("remove task %s: %w", id, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if i := c.indexOf(id); i >= 0 {
		c.tasks = append(c.tasks[:i], c.tasks[i+1:]...)
	}
	return removed, nil
}

// ToggleCompletion flips the completion of task, resubmitting all its
// other fields unchanged.
func (c *Coordinator) ToggleCompletion(ctx context.Context, task service.Task) (service.Task, error) {
	fields := task.Fields()
	flipped := !task.Completed
	fields.Completed = &flipped
	return c.Edit(ctx, task.ID, fields)
}

// Task returns the local record for id.
func (c *Coordinator) Task(id service.ID) (service.Task, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if i := c.indexOf(id); i >= 0 {
		return c.tasks[i], true
	}
	return service.Task{}, false
}

// Tasks returns a copy of the collection in order.
func (c *Coordinator) Tasks() []service.Task {
	return c.Filtered(All)
}

// Filtered returns the ordered subsequence of tasks matching f.
func (c *Coordinator) Filtered(f Filter) []service.Task {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]service.Task, 0, len(c.tasks))
	for _, t := range c.tasks {
		if f.Match(t) {
			out = append(out, t)
		}
	}
	return out
}

// Counts summarizes the collection.
func (c *Coordinator) Counts() Counts {
	c.mu.Lock()
	defer c.mu.Unlock()
	return countTasks(c.tasks)
}

// Counts is the summary shown alongside the task list.
type Counts struct {
	Total     int
	Completed int
	Pending   int
	Rate      int // percent completed, rounded; 0 when Total is 0
}

func countTasks(tasks []service.Task) Counts {
	var n Counts
	n.Total = len(tasks)
	for _, t := range tasks {
		if t.Completed {
			n.Completed++
		}
	}
	n.Pending = n.Total - n.Completed
	if n.Total > 0 {
		n.Rate = int(math.Round(100 * float64(n.Completed) / float64(n.Total)))
	}
	return n
}

// indexOf returns the position of id. Caller must hold c.mu.
func (c *Coordinator) indexOf(id service.ID) int {
	for i, t := range c.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// validate performs the minimal checks the coordinator owns; full form
// validation happens in the caller.
func validate(fields service.TaskFields) error {
	if strings.TrimSpace(fields.Title) == "" {
		return &service.ValidationError{Field: "title", Reason: "must not be empty"}
	}
	if strings.TrimSpace(fields.Description) == "" {
		return &service.ValidationError{Field: "description", Reason: "must not be empty"}
	}
	return nil
}
