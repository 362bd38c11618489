package service

import "context"

// Backend defines the contract shared by every task backend: the real
// remote service, the in-memory fallback and the transport client that
// switches between them.
// Commands never talk to a concrete backend directly.
type Backend interface {
	// Login authenticates with email and password.
	Login(ctx context.Context, creds Credentials) (Session, error)

	// Signup registers a new user and returns their session.
	Signup(ctx context.Context, req SignupRequest) (Session, error)

	// ListTasks returns all tasks of the session's user in backend order.
	ListTasks(ctx context.Context, token string) ([]Task, error)

	// CreateTask creates a task. The backend assigns the id and sets
	// completed=false.
	CreateTask(ctx context.Context, token string, fields TaskFields) (Task, error)

	// UpdateTask replaces the mutable fields of task id.
	// Returns a *NotFoundError if the task does not exist.
	UpdateTask(ctx context.Context, token string, id ID, fields TaskFields) (Task, error)

	// DeleteTask removes task id and returns the removed record.
	// Returns a *NotFoundError if the task does not exist.
	DeleteTask(ctx context.Context, token string, id ID) (Task, error)
}
