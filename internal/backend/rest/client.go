// Package rest implements the service.Service interface over the task
// backend's JSON REST API.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"taskflow/internal/logging"
	"taskflow/internal/service"
)

const (
	// APITimeout is the default timeout for API calls.
	APITimeout = 15 * time.Second

	// maxBodySize caps how much of a response body is read.
	maxBodySize = 10 << 20

	tasksPath    = "/tasks"
	loginPath    = "/login"
	registerPath = "/register"

	registeredMessage = "User registered"
)

// Client implements service.Service against the REST backend.
type Client struct {
	baseURL     string
	anon        *http.Client // login and register
	authed      *http.Client // bearer-authenticated task calls
	timeout     time.Duration
	fieldRoutes bool
	log         *zap.Logger
}

var _ service.Service = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the underlying HTTP client (for testing or proxies).
// Its transport is wrapped for authenticated calls.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.anon = hc }
}

// WithTimeout overrides APITimeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithFieldRoutes sends status and priority updates to
// PATCH /tasks/{id}/status and PATCH /tasks/{id}/priority, in that order.
// A patch with both fields is two requests and is not atomic: if the
// priority call fails after the status call succeeded, the server holds the
// new status while UpdateTask returns an error, so the caller's copy stays
// stale until the next list.
func WithFieldRoutes() Option {
	return func(c *Client) { c.fieldRoutes = true }
}

// WithLogger sets the debug logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.log = l }
}

// New creates a client for baseURL. tokens is consulted on every
// authenticated request.
func New(baseURL string, tokens oauth2.TokenSource, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("invalid API URL: %q", baseURL)
	}

	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		anon:    &http.Client{},
		timeout: APITimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.log = logging.OrNop(c.log)

	base := c.anon.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	c.authed = &http.Client{
		Transport: &oauth2.Transport{Source: tokens, Base: base},
		Jar:       c.anon.Jar,
	}
	return c, nil
}

// ListTasks fetches every task.
func (c *Client) ListTasks(ctx context.Context) ([]service.Task, error) {
	body, err := c.do(ctx, c.authed, http.MethodGet, tasksPath, nil)
	if err != nil {
		return nil, err
	}
	return decodeTaskList(body)
}

// CreateTask creates a task; zero status and priority are sent as the
// defaults.
func (c *Client) CreateTask(ctx context.Context, task service.NewTask) (service.Task, error) {
	body, err := c.do(ctx, c.authed, http.MethodPost, tasksPath, task.WithDefaults())
	if err != nil {
		return service.Task{}, err
	}
	return decodeTask(body)
}

// UpdateTask sends only the set fields of patch.
func (c *Client) UpdateTask(ctx context.Context, id service.TaskID, patch service.TaskPatch) (service.Task, error) {
	if !c.fieldRoutes {
		body, err := c.do(ctx, c.authed, http.MethodPatch, taskPath(id), patch)
		if err != nil {
			return service.Task{}, err
		}
		return decodeTask(body)
	}

	// One call per field; the last response is the freshest copy.
	var parts []fieldPatch
	if patch.Status != nil {
		parts = append(parts, fieldPatch{"status", service.TaskPatch{Status: patch.Status}})
	}
	if patch.Priority != nil {
		parts = append(parts, fieldPatch{"priority", service.TaskPatch{Priority: patch.Priority}})
	}
	if len(parts) == 0 {
		return service.Task{}, fmt.Errorf("%w: no fields to update", service.ErrEmptyInput)
	}

	var updated service.Task
	for _, p := range parts {
		body, err := c.do(ctx, c.authed, http.MethodPatch, taskPath(id)+"/"+p.field, p.patch)
		if err != nil {
			return service.Task{}, err
		}
		if updated, err = decodeTask(body); err != nil {
			return service.Task{}, err
		}
	}
	return updated, nil
}

// DeleteTask deletes a task. Any response body is ignored.
func (c *Client) DeleteTask(ctx context.Context, id service.TaskID) error {
	_, err := c.do(ctx, c.authed, http.MethodDelete, taskPath(id), nil)
	return err
}

// Login exchanges credentials for a token. A reply carrying a token is a
// success whatever its status; anything else is a rejection.
func (c *Client) Login(ctx context.Context, creds service.Credentials) (string, error) {
	status, body, err := c.send(ctx, c.anon, http.MethodPost, loginPath, creds)
	if err != nil {
		return "", err
	}
	m := decodeMessage(body)
	if m.Token != "" {
		return m.Token, nil
	}
	if m.Message == "" && !isSuccess(status) {
		return "", &service.RemoteError{Verb: "login", Status: status}
	}
	msg := m.Message
	if msg == "" {
		msg = "login failed"
	}
	return "", fmt.Errorf("%w: %s", service.ErrLoginRejected, msg)
}

// Register creates an account. Only the backend's confirmation message
// counts as success.
func (c *Client) Register(ctx context.Context, creds service.Credentials) error {
	status, body, err := c.send(ctx, c.anon, http.MethodPost, registerPath, creds)
	if err != nil {
		return err
	}
	m := decodeMessage(body)
	if m.Message == registeredMessage {
		return nil
	}
	if m.Message == "" && !isSuccess(status) {
		return &service.RemoteError{Verb: "register", Status: status}
	}
	msg := m.Message
	if msg == "" {
		msg = "signup failed"
	}
	return fmt.Errorf("%w: %s", service.ErrRegisterRejected, msg)
}

// do performs a request and fails on any non-2xx status.
func (c *Client) do(ctx context.Context, hc *http.Client, method, path string, in any) ([]byte, error) {
	status, body, err := c.send(ctx, hc, method, path, in)
	if err != nil {
		return nil, err
	}
	if !isSuccess(status) {
		return nil, &service.RemoteError{
			Verb:    method,
			Status:  status,
			Message: decodeMessage(body).Message,
		}
	}
	return body, nil
}

// send performs a request and returns the status and body. Only transport
// failures are errors here.
func (c *Client) send(ctx context.Context, hc *http.Client, method, path string, in any) (int, []byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var reqBody io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return 0, nil, fmt.Errorf("failed to encode %s %s: %w", method, path, err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to build %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	res, err := hc.Do(req)
	if err != nil {
		c.log.Debug("request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err))
		return 0, nil, fmt.Errorf("%s %s: %w: %w", method, path, service.ErrNetworkUnavailable, err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(io.LimitReader(res.Body, maxBodySize))
	if err != nil {
		return 0, nil, fmt.Errorf("%s %s: %w: %w", method, path, service.ErrNetworkUnavailable, err)
	}

	c.log.Debug("request",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", res.StatusCode),
		zap.Duration("elapsed", time.Since(start)))
	return res.StatusCode, body, nil
}

// fieldPatch is one single-field update for the per-field routes.
type fieldPatch struct {
	field string
	patch service.TaskPatch
}

func taskPath(id service.TaskID) string {
	return tasksPath + "/" + url.PathEscape(string(id))
}

func isSuccess(status int) bool {
	return status >= 200 && status < 300
}
