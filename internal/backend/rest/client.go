// Package rest implements the remote task backend over the JSON REST API.
//
// Failures to reach the backend, or to read its reply, are returned as
// *service.TransportError so the transport layer can fall back; every
// other failure is a typed service error.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"tasker/internal/service"
)

const (
	// DefaultBaseURL is the API root used when none is configured.
	DefaultBaseURL = "http://localhost:5000/api"

	// DefaultTimeout bounds a single request.
	DefaultTimeout = 10 * time.Second

	// maxBodySize caps how much of a response body is read.
	maxBodySize = 4 << 20
)

// Client talks to the REST backend.
type Client struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
}

// New creates a client for baseURL with a per-request timeout.
func New(baseURL string, timeout time.Duration) *Client {
	return NewWithHTTPClient(baseURL, &http.Client{}, timeout)
}

// NewWithHTTPClient creates a client with a custom HTTP client (for testing).
func NewWithHTTPClient(baseURL string, httpClient *http.Client, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		timeout:    timeout,
	}
}

// BaseURL returns the API root the client talks to.
func (c *Client) BaseURL() string { return c.baseURL }

// Login implements service.Backend.
func (c *Client) Login(ctx context.Context, creds service.Credentials) (service.Session, error) {
	return c.authenticate(ctx, "login", "/auth/login", creds)
}

// Signup implements service.Backend.
func (c *Client) Signup(ctx context.Context, req service.SignupRequest) (service.Session, error) {
	return c.authenticate(ctx, "signup", "/auth/signup", req)
}

func (c *Client) authenticate(ctx context.Context, op, endpoint string, body any) (service.Session, error) {
	var sess service.Session
	err := c.request(ctx, op, http.MethodPost, endpoint, "", body, &sess)
	if err != nil {
		var re *service.RemoteError
		if errors.As(err, &re) && re.Status >= 400 && re.Status < 500 {
			return service.Session{}, &service.AuthError{Message: re.Message}
		}
		return service.Session{}, err
	}
	if sess.Token == "" {
		return service.Session{}, &service.RemoteError{Message: op + " response carried no token"}
	}
	sess.Offline = false
	return sess, nil
}

// ListTasks implements service.Backend.
func (c *Client) ListTasks(ctx context.Context, token string) ([]service.Task, error) {
	var list []service.Task
	if err := c.request(ctx, "list tasks", http.MethodGet, "/tasks", token, nil, &list); err != nil {
		return nil, err
	}
	for i := range list {
		list[i] = normalize(list[i])
	}
	return list, nil
}

// CreateTask implements service.Backend.
func (c *Client) CreateTask(ctx context.Context, token string, fields service.TaskFields) (service.Task, error) {
	// The create body never carries completion.
	fields.Completed = nil
	var t service.Task
	if err := c.request(ctx, "create task", http.MethodPost, "/tasks", token, fields, &t); err != nil {
		return service.Task{}, err
	}
	return normalize(t), nil
}

// UpdateTask implements service.Backend.
func (c *Client) UpdateTask(ctx context.Context, token string, id service.ID, fields service.TaskFields) (service.Task, error) {
	var t service.Task
	if err := c.request(ctx, "update task", http.MethodPut, taskPath(id), token, fields, &t); err != nil {
		return service.Task{}, notFound(err, id)
	}
	if t.ID == "" {
		t.ID = id
	}
	return normalize(t), nil
}

// DeleteTask implements service.Backend.
func (c *Client) DeleteTask(ctx context.Context, token string, id service.ID) (service.Task, error) {
	var t service.Task
	if err := c.request(ctx, "delete task", http.MethodDelete, taskPath(id), token, nil, &t); err != nil {
		return service.Task{}, notFound(err, id)
	}
	if t.ID == "" {
		t.ID = id
	}
	return normalize(t), nil
}

// request performs one API call. body, if non-nil, is sent as JSON; a
// successful reply is decoded into out when out is non-nil. A non-empty
// token is sent as a bearer Authorization header.
func (c *Client) request(ctx context.Context, op, method, endpoint, token string, body, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: encode request: %w", op, err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, reader)
	if err != nil {
		return &service.TransportError{Op: op, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.clientFor(token).Do(req)
	if err != nil {
		return &service.TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return &service.TransportError{Op: op, Err: fmt.Errorf("read response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError(resp.StatusCode, data)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &service.TransportError{Op: op, Err: fmt.Errorf("malformed response: %w", err)}
	}
	return nil
}

// clientFor returns an HTTP client that injects token as a bearer
// Authorization header, or the plain client when token is empty.
func (c *Client) clientFor(token string) *http.Client {
	if token == "" {
		return c.httpClient
	}
	base := c.httpClient.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	hc := *c.httpClient
	hc.Transport = &oauth2.Transport{
		Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"}),
		Base:   base,
	}
	return &hc
}

// errorBody is the error payload of the backend.
type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// statusError converts a non-success response into a typed error.
func statusError(status int, data []byte) error {
	var body errorBody
	msg := ""
	if err := json.Unmarshal(data, &body); err == nil {
		msg = body.Message
		if msg == "" {
			msg = body.Error
		}
	}
	if msg == "" {
		msg = service.GenericRemoteMessage
	}

	if status == http.StatusUnauthorized {
		return &service.AuthError{Message: msg}
	}
	return &service.RemoteError{Status: status, Message: msg}
}

// notFound maps a 404 reply for task id onto *service.NotFoundError.
func notFound(err error, id service.ID) error {
	var re *service.RemoteError
	if errors.As(err, &re) && re.Status == http.StatusNotFound {
		return &service.NotFoundError{ID: id}
	}
	return err
}

func taskPath(id service.ID) string {
	return "/tasks/" + url.PathEscape(string(id))
}

func normalize(t service.Task) service.Task {
	t.Priority = t.Priority.OrDefault()
	return t
}
