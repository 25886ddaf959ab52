// Package client provides a typed HTTP client for the todo REST API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"todoapp/internal/models"
)

// APIError carries the status and error envelope returned by the service.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

// Health mirrors the /health payload.
type Health struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}

// Client talks to one todo API instance.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a client for the given base URL.
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// List fetches all todos.
func (c *Client) List(ctx context.Context) ([]models.Todo, error) {
	var todos []models.Todo
	if err := c.do(ctx, http.MethodGet, "/api/todos", nil, &todos); err != nil {
		return nil, err
	}
	return todos, nil
}

// Get fetches a single todo by id.
func (c *Client) Get(ctx context.Context, id int64) (models.Todo, error) {
	var todo models.Todo
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/todos/%d", id), nil, &todo)
	return todo, err
}

// Create adds a new todo and returns the canonical stored record.
func (c *Client) Create(ctx context.Context, text string, completed bool) (models.Todo, error) {
	body := map[string]any{"text": text, "completed": completed}
	var todo models.Todo
	err := c.do(ctx, http.MethodPost, "/api/todos", body, &todo)
	return todo, err
}

// Update sends a partial update and returns the full updated record.
func (c *Client) Update(ctx context.Context, id int64, upd models.TodoUpdate) (models.Todo, error) {
	body := map[string]any{}
	if upd.Text != nil {
		body["text"] = *upd.Text
	}
	if upd.Completed != nil {
		body["completed"] = *upd.Completed
	}
	var todo models.Todo
	err := c.do(ctx, http.MethodPut, fmt.Sprintf("/api/todos/%d", id), body, &todo)
	return todo, err
}

// Delete removes a todo by id.
func (c *Client) Delete(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/todos/%d", id), nil, nil)
}

// CheckHealth queries the boundary health endpoint. Unlike the task methods it
// reports the decoded payload even on a non-200 response.
func (c *Client) CheckHealth(ctx context.Context) (Health, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return Health{}, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Health{}, err
	}
	defer resp.Body.Close()

	var h Health
	if err := json.NewDecoder(resp.Body).Decode(&h); err != nil {
		return Health{}, fmt.Errorf("decode health: %w", err)
	}
	return h, nil
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
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func decodeAPIError(resp *http.Response) error {
	var envelope struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil || envelope.Error == "" {
		return &APIError{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
	}
	return &APIError{Status: resp.StatusCode, Message: envelope.Error}
}
