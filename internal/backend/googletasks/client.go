// Package googletasks implements service.Backend on top of the Google Tasks API.
//
// Tasks live in the user's default list. Google Tasks has no priority
// field, so the priority is kept as a trailer line of the task notes.
package googletasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	tasks "google.golang.org/api/tasks/v1"

	"tasker/internal/config"
	"tasker/internal/service"
)

const (
	// DefaultListID is the special ID for the default list.
	DefaultListID = "@default"

	// PageSize is the number of tasks per page.
	PageSize = 100

	// APITimeout is the timeout for API calls.
	APITimeout = 5 * time.Second

	// OAuth scope for Google Tasks
	tasksScope = "https://www.googleapis.com/auth/tasks"

	statusCompleted   = "completed"
	statusNeedsAction = "needsAction"

	priorityTrailer = "priority: "
)

// loginHint is returned for password logins, which Google does not support.
const loginHint = "the google backend signs in with OAuth (run: tasker login --google)"

// Client implements service.Backend using Google Tasks API.
type Client struct {
	svc     *tasks.Service
	listID  string
	timeout time.Duration
}

// New creates a new Google Tasks client.
// Requires oauth_client.json and token.json to exist.
func New(ctx context.Context, cfg *config.Config) (*Client, error) {
	clientJSON, err := os.ReadFile(cfg.OAuthClientPath())
	if err != nil {
		return nil, fmt.Errorf("failed to read oauth_client.json: %w", err)
	}

	oauthConfig, err := google.ConfigFromJSON(clientJSON, tasksScope)
	if err != nil {
		return nil, fmt.Errorf("invalid oauth_client.json: %w", err)
	}

	tokenData, err := os.ReadFile(cfg.TokenPath())
	if err != nil {
		return nil, fmt.Errorf("failed to read token.json: %w", err)
	}

	var token oauth2.Token
	if err := json.Unmarshal(tokenData, &token); err != nil {
		return nil, fmt.Errorf("invalid token.json: %w", err)
	}

	// Token source refreshes the access token as needed
	httpClient := oauth2.NewClient(ctx, oauthConfig.TokenSource(ctx, &token))

	svc, err := tasks.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to create tasks service: %w", err)
	}

	return &Client{svc: svc, listID: DefaultListID, timeout: cfg.Timeout}, nil
}

// NewWithHTTPClient creates a client with a custom HTTP client and API
// endpoint (for testing). An empty endpoint uses the production API.
func NewWithHTTPClient(ctx context.Context, httpClient *http.Client, endpoint string) (*Client, error) {
	opts := []option.ClientOption{option.WithHTTPClient(httpClient)}
	if endpoint != "" {
		opts = append(opts, option.WithEndpoint(endpoint))
	}
	svc, err := tasks.NewService(ctx, opts...)
	if err != nil {
		return nil, err
	}
	return &Client{svc: svc, listID: DefaultListID}, nil
}

func (c *Client) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	timeout := c.timeout
	if timeout <= 0 {
		timeout = APITimeout
	}
	return context.WithTimeout(ctx, timeout)
}

// Login implements service.Backend. Password logins are not supported.
func (c *Client) Login(ctx context.Context, creds service.Credentials) (service.Session, error) {
	return service.Session{}, &service.AuthError{Message: loginHint}
}

// Signup implements service.Backend. Accounts are managed by Google.
func (c *Client) Signup(ctx context.Context, req service.SignupRequest) (service.Session, error) {
	return service.Session{}, &service.AuthError{Message: loginHint}
}

// ListTasks returns every task of the default list, completed and hidden
// ones included, in API order. The token argument is unused: requests are
// authorized by the OAuth token source.
func (c *Client) ListTasks(ctx context.Context, token string) ([]service.Task, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	result := []service.Task{}
	err := c.svc.Tasks.List(c.listID).
		MaxResults(PageSize).
		ShowCompleted(true).
		ShowHidden(true).
		ShowDeleted(false).
		Pages(ctx, func(resp *tasks.Tasks) error {
			for _, t := range resp.Items {
				result = append(result, fromAPI(t))
			}
			return nil
		})
	if err != nil {
		return nil, wrapError("list tasks", "", err)
	}
	return result, nil
}

// CreateTask implements service.Backend.
func (c *Client) CreateTask(ctx context.Context, token string, fields service.TaskFields) (service.Task, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	fields.Completed = nil
	created, err := c.svc.Tasks.Insert(c.listID, toAPI("", fields)).Context(ctx).Do()
	if err != nil {
		return service.Task{}, wrapError("create task", "", err)
	}
	return fromAPI(created), nil
}

// UpdateTask implements service.Backend.
func (c *Client) UpdateTask(ctx context.Context, token string, id service.ID, fields service.TaskFields) (service.Task, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	updated, err := c.svc.Tasks.Update(c.listID, string(id), toAPI(id, fields)).Context(ctx).Do()
	if err != nil {
		return service.Task{}, wrapError("update task", id, err)
	}
	return fromAPI(updated), nil
}

// DeleteTask implements service.Backend. The task is fetched first so the
// removed record can be returned.
func (c *Client) DeleteTask(ctx context.Context, token string, id service.ID) (service.Task, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	existing, err := c.svc.Tasks.Get(c.listID, string(id)).Context(ctx).Do()
	if err != nil {
		return service.Task{}, wrapError("delete task", id, err)
	}
	if err := c.svc.Tasks.Delete(c.listID, string(id)).Context(ctx).Do(); err != nil {
		return service.Task{}, wrapError("delete task", id, err)
	}
	return fromAPI(existing), nil
}

// toAPI converts task fields to an API task. Unset due dates and open
// tasks are sent as explicit nulls so an update clears them.
func toAPI(id service.ID, fields service.TaskFields) *tasks.Task {
	t := &tasks.Task{
		Id:     string(id),
		Title:  fields.Title,
		Notes:  encodeNotes(fields.Description, fields.Priority.OrDefault()),
		Status: statusNeedsAction,
	}
	if fields.DueDate != "" {
		t.Due = fields.DueDate + "T00:00:00.000Z"
	} else {
		t.NullFields = append(t.NullFields, "Due")
	}
	if fields.Completed != nil && *fields.Completed {
		t.Status = statusCompleted
	} else {
		t.NullFields = append(t.NullFields, "Completed")
	}
	return t
}

func fromAPI(t *tasks.Task) service.Task {
	desc, priority := decodeNotes(t.Notes)
	due := ""
	if len(t.Due) >= len(service.DateLayout) {
		due = t.Due[:len(service.DateLayout)]
	}
	return service.Task{
		ID:          service.ID(t.Id),
		Title:       t.Title,
		Description: desc,
		DueDate:     due,
		Priority:    priority,
		Completed:   t.Status == statusCompleted,
	}
}

// encodeNotes appends the priority trailer to the description.
func encodeNotes(desc string, p service.Priority) string {
	if desc == "" {
		return priorityTrailer + string(p)
	}
	return desc + "\n\n" + priorityTrailer + string(p)
}

// decodeNotes splits notes into description and priority.
// Notes without a trailer yield PriorityMedium.
func decodeNotes(notes string) (string, service.Priority) {
	i := strings.LastIndex(notes, priorityTrailer)
	if i < 0 || strings.Contains(notes[i:], "\n") || (i > 0 && notes[i-1] != '\n') {
		return notes, service.PriorityMedium
	}
	p, err := service.ParsePriority(notes[i+len(priorityTrailer):])
	if err != nil {
		return notes, service.PriorityMedium
	}
	return strings.TrimRight(notes[:i], "\n"), p
}

// wrapError maps API errors onto service errors. Anything that is not an
// API reply (network failure, timeout) is a transport failure.
func wrapError(op string, id service.ID, err error) error {
	if err == nil {
		return nil
	}

	var retrieveErr *oauth2.RetrieveError
	if errors.As(err, &retrieveErr) {
		return &service.AuthError{Message: "token expired or revoked (run: tasker login --google)"}
	}

	var apiErr *googleapi.Error
	if !errors.As(err, &apiErr) {
		return &service.TransportError{Op: op, Err: err}
	}

	switch apiErr.Code {
	case http.StatusUnauthorized, http.StatusForbidden:
		return &service.AuthError{Message: "token expired or revoked (run: tasker login --google)"}
	case http.StatusNotFound:
		if id != "" {
			return &service.NotFoundError{ID: id}
		}
	}
	msg := apiErr.Message
	if msg == "" {
		msg = service.GenericRemoteMessage
	}
	return &service.RemoteError{Status: apiErr.Code, Message: msg}
}
