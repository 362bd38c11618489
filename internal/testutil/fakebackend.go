// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"errors"
	"strconv"
	"sync"

	"tasker/internal/service"
)

// ErrUnreachable is a connectivity failure, tagged the way remote backends
// tag it so the transport client falls back.
var ErrUnreachable = &service.TransportError{Op: "fake", Err: errors.New("connection refused")}

// FakeBackend is an in-memory implementation of service.Backend for testing.
type FakeBackend struct {
	mu     sync.RWMutex
	tasks  []service.Task
	nextID int
	users  map[string]string // email -> password

	// Tokens records the token passed to each task operation, in call order.
	Tokens []string

	// Error injection for testing
	LoginErr  error
	SignupErr error
	ListErr   error
	CreateErr error
	UpdateErr error
	DeleteErr error
}

// NewFakeBackend creates an empty FakeBackend.
func NewFakeBackend() *FakeBackend {
	return &FakeBackend{nextID: 100, users: make(map[string]string)}
}

// AddUser registers a user that Login accepts.
func (f *FakeBackend) AddUser(email, password string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[email] = password
}

// AddTask stores a task as-is, bypassing CreateTask.
func (f *FakeBackend) AddTask(t service.Task) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tasks = append(f.tasks, t)
}

// Tasks returns a copy of the stored tasks.
func (f *FakeBackend) Tasks() []service.Task {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]service.Task, len(f.tasks))
	copy(out, f.tasks)
	return out
}

// FailAll makes every operation fail with err.
func (f *FakeBackend) FailAll(err error) {
	f.LoginErr, f.SignupErr = err, err
	f.ListErr, f.CreateErr, f.UpdateErr, f.DeleteErr = err, err, err, err
}

func (f *FakeBackend) record(token string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Tokens = append(f.Tokens, token)
}

func (f *FakeBackend) session(email string) service.Session {
	return service.Session{
		Token: "token-" + email,
		User:  service.User{ID: "1", Name: "Test User", Email: email},
	}
}

// Login implements service.Backend.
func (f *FakeBackend) Login(ctx context.Context, creds service.Credentials) (service.Session, error) {
	if f.LoginErr != nil {
		return service.Session{}, f.LoginErr
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	if pw, ok := f.users[creds.Email]; !ok || pw != creds.Password {
		return service.Session{}, &service.AuthError{Message: "Invalid credentials"}
	}
	return f.session(creds.Email), nil
}

// Signup implements service.Backend.
func (f *FakeBackend) Signup(ctx context.Context, req service.SignupRequest) (service.Session, error) {
	if f.SignupErr != nil {
		return service.Session{}, f.SignupErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, exists := f.users[req.Email]; exists {
		return service.Session{}, &service.AuthError{Message: "User already exists"}
	}
	f.users[req.Email] = req.Password
	sess := f.session(req.Email)
	sess.User.Name = req.Name
	return sess, nil
}

// ListTasks implements service.Backend.
func (f *FakeBackend) ListTasks(ctx context.Context, token string) ([]service.Task, error) {
	f.record(token)
	if f.ListErr != nil {
		return nil, f.ListErr
	}
	return f.Tasks(), nil
}

// CreateTask implements service.Backend.
func (f *FakeBackend) CreateTask(ctx context.Context, token string, fields service.TaskFields) (service.Task, error) {
	f.record(token)
	if f.CreateErr != nil {
		return service.Task{}, f.CreateErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	f.nextID++
	t := service.Task{
		ID:          service.ID(strconv.Itoa(f.nextID)),
		Title:       fields.Title,
		Description: fields.Description,
		DueDate:     fields.DueDate,
		Priority:    fields.Priority.OrDefault(),
	}
	f.tasks = append(f.tasks, t)
	return t, nil
}

// UpdateTask implements service.Backend.
func (f *FakeBackend) UpdateTask(ctx context.Context, token string, id service.ID, fields service.TaskFields) (service.Task, error) {
	f.record(token)
	if f.UpdateErr != nil {
		return service.Task{}, f.UpdateErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	for i, t := range f.tasks {
		if t.ID == id {
			t.Title = fields.Title
			t.Description = fields.Description
			t.DueDate = fields.DueDate
			t.Priority = fields.Priority.OrDefault()
			if fields.Completed != nil {
				t.Completed = *fields.Completed
			}
			f.tasks[i] = t
			return t, nil
		}
	}
	return service.Task{}, &service.NotFoundError{ID: id}
}

// DeleteTask implements service.Backend.
func (f *FakeBackend) DeleteTask(ctx context.Context, token string, id service.ID) (service.Task, error) {
	f.record(token)
	if f.DeleteErr != nil {
		return service.Task{}, f.DeleteErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	for i, t := range f.tasks {
		if t.ID == id {
			f.tasks = append(f.tasks[:i], f.tasks[i+1:]...)
			return t, nil
		}
	}
	return service.Task{}, &service.NotFoundError{ID: id}
}
