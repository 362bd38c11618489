// Package transport provides the client the rest of the application uses
// to reach a task backend. Each operation is tried against the remote
// backend first; when the remote cannot be reached the same operation is
// answered by the in-memory fallback store, so connectivity failures never
// surface above this package.
package transport

import (
	"context"
	"log/slog"

	"tasker/internal/backend/fallback"
	"tasker/internal/service"
)

// FallbackFunc is notified whenever an operation is answered by the
// fallback store.
type FallbackFunc func(op string, cause error)

// Options configure a Client.
type Options struct {
	// StrictAuth disables the fallback for Login and Signup: an unreachable
	// backend then fails authentication with *service.AuthError instead of
	// issuing an offline demo session.
	StrictAuth bool

	// OnFallback, if set, is called after each fallback.
	OnFallback FallbackFunc

	// Logger receives a warning per fallback. Defaults to slog.Default().
	Logger *slog.Logger
}

// Client implements service.Backend over a remote backend with a fallback store.
type Client struct {
	remote   service.Backend
	fallback *fallback.Store
	opts     Options
	log      *slog.Logger
}

var _ service.Backend = (*Client)(nil)

// New creates a client. remote may be nil, in which case every operation
// goes straight to the fallback store.
func New(remote service.Backend, store *fallback.Store, opts Options) *Client {
	if store == nil {
		store = fallback.Default()
	}
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Client{remote: remote, fallback: store, opts: opts, log: log}
}

// Fallback returns the store used when the remote is unreachable.
func (c *Client) Fallback() *fallback.Store { return c.fallback }

// degraded reports whether err calls for the fallback path, and records it.
func (c *Client) degraded(op string, err error) bool {
	if c.remote != nil && !service.IsTransportFailure(err) {
		return false
	}
	if err != nil {
		c.log.Warn("backend unreachable, using offline data", "op", op, "err", err)
	} else {
		c.log.Debug("no remote backend configured, using offline data", "op", op)
	}
	if c.opts.OnFallback != nil {
		c.opts.OnFallback(op, err)
	}
	return true
}

// tryRemote runs fn against the remote backend. With no remote it
// reports a nil error and the caller falls back.
func tryRemote[T any](c *Client, fn func(service.Backend) (T, error)) (T, error) {
	if c.remote == nil {
		var zero T
		return zero, nil
	}
	return fn(c.remote)
}

// Login implements service.Backend.
func (c *Client) Login(ctx context.Context, creds service.Credentials) (service.Session, error) {
	sess, err := tryRemote(c, func(b service.Backend) (service.Session, error) {
		return b.Login(ctx, creds)
	})
	if !c.degraded("login", err) {
		return sess, err
	}
	return c.offlineSession(err)
}

// Signup implements service.Backend.
func (c *Client) Signup(ctx context.Context, req service.SignupRequest) (service.Session, error) {
	sess, err := tryRemote(c, func(b service.Backend) (service.Session, error) {
		return b.Signup(ctx, req)
	})
	if !c.degraded("signup", err) {
		return sess, err
	}
	return c.offlineSession(err)
}

func (c *Client) offlineSession(cause error) (service.Session, error) {
	if c.opts.StrictAuth {
		msg := "backend unreachable"
		if cause != nil {
			msg += ": " + cause.Error()
		}
		return service.Session{}, &service.AuthError{Message: msg}
	}
	return fallback.DemoSession, nil
}

// ListTasks implements service.Backend.
func (c *Client) ListTasks(ctx context.Context, token string) ([]service.Task, error) {
	list, err := tryRemote(c, func(b service.Backend) ([]service.Task, error) {
		return b.ListTasks(ctx, token)
	})
	if !c.degraded("list tasks", err) {
		return list, err
	}
	return c.fallback.List(), nil
}

// CreateTask implements service.Backend.
func (c *Client) CreateTask(ctx context.Context, token string, fields service.TaskFields) (service.Task, error) {
	t, err := tryRemote(c, func(b service.Backend) (service.Task, error) {
		return b.CreateTask(ctx, token, fields)
	})
	if !c.degraded("create task", err) {
		return t, err
	}
	return c.fallback.Create(fields), nil
}

// UpdateTask implements service.Backend.
func (c *Client) UpdateTask(ctx context.Context, token string, id service.ID, fields service.TaskFields) (service.Task, error) {
	t, err := tryRemote(c, func(b service.Backend) (service.Task, error) {
		return b.UpdateTask(ctx, token, id, fields)
	})
	if !c.degraded("update task", err) {
		return t, err
	}
	t, ok := c.fallback.Update(id, fields)
	if !ok {
		return service.Task{}, &service.NotFoundError{ID: id}
	}
	return t, nil
}

// DeleteTask implements service.Backend.
func (c *Client) DeleteTask(ctx context.Context, token string, id service.ID) (service.Task, error) {
	t, err := tryRemote(c, func(b service.Backend) (service.Task, error) {
		return b.DeleteTask(ctx, token, id)
	})
	if !c.degraded("delete task", err) {
		return t, err
	}
	t, ok := c.fallback.Delete(id)
	if !ok {
		return service.Task{}, &service.NotFoundError{ID: id}
	}
	return t, nil
}
