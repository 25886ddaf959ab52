package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"todoapp/internal/models"
	"todoapp/internal/storage/sqlite"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	store, err := sqlite.Open(filepath.Join(t.TempDir(), "todos.db"), nil)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return New(store, nil, "")
}

func doRequest(t *testing.T, srv *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	srv.Engine().ServeHTTP(w, req)
	return w
}

func decodeTodo(t *testing.T, w *httptest.ResponseRecorder) models.Todo {
	t.Helper()

	var todo models.Todo
	if err := json.Unmarshal(w.Body.Bytes(), &todo); err != nil {
		t.Fatalf("decode todo: %v (body %s)", err, w.Body.String())
	}
	return todo
}

func TestTodoLifecycle(t *testing.T) {
	srv := newTestServer(t)

	// Create.
	w := doRequest(t, srv, http.MethodPost, "/api/todos", `{"text":"buy milk"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("POST status = %d, want 201 (body %s)", w.Code, w.Body.String())
	}
	created := decodeTodo(t, w)
	if created.Completed {
		t.Error("new todo should not be completed")
	}

	// Complete it via partial update.
	w = doRequest(t, srv, http.MethodPut, fmt.Sprintf("/api/todos/%d", created.ID), `{"completed":true}`)
	if w.Code != http.StatusOK {
		t.Fatalf("PUT status = %d (body %s)", w.Code, w.Body.String())
	}
	updated := decodeTodo(t, w)
	if !updated.Completed {
		t.Error("todo should be completed")
	}
	if updated.Text != "buy milk" {
		t.Errorf("text changed by completed-only update: %q", updated.Text)
	}

	// List contains the completed record.
	w = doRequest(t, srv, http.MethodGet, "/api/todos", "")
	if w.Code != http.StatusOK {
		t.Fatalf("GET list status = %d", w.Code)
	}
	var todos []models.Todo
	if err := json.Unmarshal(w.Body.Bytes(), &todos); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(todos) != 1 || !todos[0].Completed {
		t.Errorf("list = %+v, want single completed todo", todos)
	}

	// Delete.
	w = doRequest(t, srv, http.MethodDelete, fmt.Sprintf("/api/todos/%d", created.ID), "")
	if w.Code != http.StatusOK {
		t.Fatalf("DELETE status = %d", w.Code)
	}
	var msg map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &msg); err != nil {
		t.Fatalf("decode delete response: %v", err)
	}
	if msg["message"] != "Todo deleted successfully" {
		t.Errorf("delete message = %q", msg["message"])
	}

	// Gone.
	w = doRequest(t, srv, http.MethodGet, fmt.Sprintf("/api/todos/%d", created.ID), "")
	if w.Code != http.StatusNotFound {
		t.Errorf("GET after delete status = %d, want 404", w.Code)
	}
}

func TestListEmpty(t *testing.T) {
	srv := newTestServer(t)

	w := doRequest(t, srv, http.MethodGet, "/api/todos", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if body := strings.TrimSpace(w.Body.String()); body != "[]" {
		t.Errorf("empty list body = %s, want []", body)
	}
}

func TestCreateRejectsInvalidText(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name string
		body string
	}{
		{name: "missing text", body: `{}`},
		{name: "empty text", body: `{"text":""}`},
		{name: "non-string text", body: `{"text":123}`},
		{name: "malformed json", body: `{`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(t, srv, http.MethodPost, "/api/todos", tt.body)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", w.Code)
			}
			var envelope map[string]string
			if err := json.Unmarshal(w.Body.Bytes(), &envelope); err != nil {
				t.Fatalf("decode error envelope: %v", err)
			}
			if envelope["error"] != "Valid text is required" {
				t.Errorf("error = %q, want %q", envelope["error"], "Valid text is required")
			}
		})
	}

	w := doRequest(t, srv, http.MethodGet, "/api/todos", "")
	if body := strings.TrimSpace(w.Body.String()); body != "[]" {
		t.Errorf("rejected creates persisted records: %s", body)
	}
}

func TestUpdateErrors(t *testing.T) {
	srv := newTestServer(t)

	w := doRequest(t, srv, http.MethodPost, "/api/todos", `{"text":"task"}`)
	created := decodeTodo(t, w)

	w = doRequest(t, srv, http.MethodPut, fmt.Sprintf("/api/todos/%d", created.ID), `{}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("empty payload status = %d, want 400", w.Code)
	}

	w = doRequest(t, srv, http.MethodPut, "/api/todos/9999", `{"completed":true}`)
	if w.Code != http.StatusNotFound {
		t.Errorf("unknown id status = %d, want 404", w.Code)
	}
	var envelope map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode error envelope: %v", err)
	}
	if envelope["error"] != "Todo not found" {
		t.Errorf("error = %q, want %q", envelope["error"], "Todo not found")
	}

	w = doRequest(t, srv, http.MethodPut, "/api/todos/abc", `{"completed":true}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("non-numeric id status = %d, want 400", w.Code)
	}
}

func TestDeleteNotFound(t *testing.T) {
	srv := newTestServer(t)

	w := doRequest(t, srv, http.MethodDelete, "/api/todos/9999", "")
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t)

	w := doRequest(t, srv, http.MethodGet, "/health", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var health map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &health); err != nil {
		t.Fatalf("decode health: %v", err)
	}
	if health["status"] != "healthy" || health["database"] != "connected" {
		t.Errorf("health = %v", health)
	}
}
