// Package api is the HTTP client for the remote task API.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/antopolskiy/taskboard/internal/clierr"
	"github.com/antopolskiy/taskboard/internal/task"
)

// TasksPath is the collection endpoint relative to the base URL.
const TasksPath = "/api/tasks"

// RequestIDHeader carries a per-request correlation ID.
const RequestIDHeader = "X-Request-ID"

// maxErrorBody bounds how much of a failed response is quoted in errors.
const maxErrorBody = 512

// Client talks to the remote task store. Safe for concurrent use.
type Client struct {
	baseURL string
	timeout time.Duration
	http    *http.Client
	log     zerolog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithLogger sets the logger used for request tracing.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) { c.log = l }
}

// New creates a Client for baseURL. Every request is bounded by timeout;
// a non-positive timeout disables the per-request bound.
func New(baseURL string, timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: timeout,
		http:    &http.Client{},
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the API root the client was created with.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// List fetches every task.
func (c *Client) List(ctx context.Context) ([]task.Task, error) {
	var tasks []task.Task
	if err := c.do(ctx, http.MethodGet, TasksPath, nil, &tasks); err != nil {
		return nil, err
	}
	if tasks == nil {
		// A JSON null is not a task list.
		return nil, clierr.New(clierr.DecodeError, "GET "+TasksPath+": response is not a task list")
	}
	return tasks, nil
}

// Create posts a new task. It returns the server's echo of the task when the
// response carries one, and a zero Task otherwise.
func (c *Client) Create(ctx context.Context, nt task.NewTask) (task.Task, error) {
	var created task.Task
	err := c.do(ctx, http.MethodPost, TasksPath, nt, &created)
	return created, err
}

// Update replaces the task stored under t.ID.
func (c *Client) Update(ctx context.Context, t task.Task) error {
	return c.do(ctx, http.MethodPut, taskPath(t.ID), t, nil)
}

// Delete removes the task with the given ID.
func (c *Client) Delete(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, taskPath(id), nil, nil)
}

func taskPath(id int) string {
	return TasksPath + "/" + strconv.Itoa(id)
}

// do performs one request. Transport failures and non-2xx statuses become
// NetworkError; bodies that do not decode into out become DecodeError. A
// nil out, or an empty body on a write, skips decoding.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	op := method + " " + path

	var reader io.Reader
	if body != nil {
		buf := new(bytes.Buffer)
		if err := json.NewEncoder(buf).Encode(body); err != nil {
			return clierr.Wrap(clierr.InternalError, err, "encoding "+op)
		}
		reader = buf
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return clierr.Wrap(clierr.NetworkError, err, op)
	}
	reqID := uuid.NewString()
	req.Header.Set(RequestIDHeader, reqID)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			err = fmt.Errorf("timed out after %s: %w", c.timeout, err)
		}
		c.log.Debug().Err(err).Str("op", op).Str("request_id", reqID).Msg("request failed")
		return clierr.Wrap(clierr.NetworkError, err, op).
			WithDetails(map[string]any{"request_id": reqID})
	}
	defer resp.Body.Close()

	c.log.Debug().
		Str("op", op).
		Str("request_id", reqID).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("request done")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		msg := strings.TrimSpace(string(snippet))
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return clierr.Newf(clierr.NetworkError, "%s: server returned %d: %s", op, resp.StatusCode, msg).
			WithDetails(map[string]any{
				"status":     resp.StatusCode,
				"request_id": reqID,
			})
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return clierr.Wrap(clierr.NetworkError, err, "reading "+op)
	}
	if method != http.MethodGet && len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return clierr.Wrap(clierr.DecodeError, err, "decoding "+op)
	}
	return nil
}
