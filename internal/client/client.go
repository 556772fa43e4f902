// Package client talks to the todo list REST API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"todoList/internal/handlers/dto"
	"todoList/internal/models/task"
)

const DefaultTimeout = 10 * time.Second

// APIError is a non-2xx answer from the server.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api: %d %s", e.Status, http.StatusText(e.Status))
	}
	return fmt.Sprintf("api: %d %s", e.Status, e.Message)
}

func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

type Option func(*Client)

func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// New builds a client for baseURL, which must include any route prefix
// (for example http://localhost:3000/api).
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse api url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("api url must be http or https, got %q", baseURL)
	}

	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// List fetches tasks newest first. A nil completed fetches all of them.
func (c *Client) List(ctx context.Context, completed *bool) ([]*task.Task, error) {
	path := "/tasks"
	if completed != nil {
		path += "?completed=" + strconv.FormatBool(*completed)
	}

	var resp []dto.TaskResponse
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}

	tasks := make([]*task.Task, 0, len(resp))
	for _, r := range resp {
		t, err := r.ToTask()
		if err != nil {
			return nil, fmt.Errorf("decode task %d: %w", r.ID, err)
		}
		tasks = append(tasks, t)
	}
	return tasks, nil
}

func (c *Client) Get(ctx context.Context, id int64) (*task.Task, error) {
	var resp dto.TaskResponse
	if err := c.do(ctx, http.MethodGet, taskPath(id), nil, &resp); err != nil {
		return nil, err
	}
	return resp.ToTask()
}

// Create sends the title and every optional field of t that is set.
func (c *Client) Create(ctx context.Context, t *task.Task) (*task.Task, error) {
	body := dto.CreateTaskRequest{
		Title:       t.Title,
		Description: t.Description,
		Priority:    priorityString(t.Priority),
		Category:    t.Category,
		DueDate:     task.FormatDate(t.DueDate),
	}

	var resp dto.TaskResponse
	if err := c.do(ctx, http.MethodPost, "/tasks", body, &resp); err != nil {
		return nil, err
	}
	return resp.ToTask()
}

// Update replaces the stored task with t. Unset fields are cleared on the server.
func (c *Client) Update(ctx context.Context, t *task.Task) error {
	body := dto.UpdateTaskRequest{
		Title:       t.Title,
		Description: t.Description,
		Completed:   t.Completed,
		Priority:    priorityString(t.Priority),
		Category:    t.Category,
		DueDate:     task.FormatDate(t.DueDate),
	}
	return c.do(ctx, http.MethodPut, taskPath(t.ID), body, nil)
}

func (c *Client) Delete(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, taskPath(id), nil, nil)
}

func (c *Client) MarkAllCompleted(ctx context.Context) (int64, error) {
	var resp dto.CountResponse
	if err := c.do(ctx, http.MethodPatch, "/tasks/mark-all-completed", nil, &resp); err != nil {
		return 0, err
	}
	return resp.Count, nil
}

func (c *Client) DeleteCompleted(ctx context.Context) (int64, error) {
	var resp dto.CountResponse
	if err := c.do(ctx, http.MethodDelete, "/tasks/completed", nil, &resp); err != nil {
		return 0, err
	}
	return resp.Count, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{Status: resp.StatusCode}
		var errResp dto.ErrorResponse
		if json.Unmarshal(data, &errResp) == nil {
			apiErr.Message = errResp.Error
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func taskPath(id int64) string {
	return "/tasks/" + strconv.FormatInt(id, 10)
}

func priorityString(p *task.Priority) *string {
	if p == nil {
		return nil
	}
	s := p.String()
	return &s
}
