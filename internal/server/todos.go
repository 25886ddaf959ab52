package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"todoapp/internal/models"
)

type createTodoRequest struct {
	Text      *string `json:"text"`
	Completed bool    `json:"completed"`
}

// handleListTodos returns every todo, newest first.
func (s *Server) handleListTodos(c *gin.Context) {
	todos, err := s.store.List(c.Request.Context())
	if err != nil {
		s.respondStoreError(c, err)
		return
	}
	if todos == nil {
		todos = []models.Todo{}
	}
	c.JSON(http.StatusOK, todos)
}

// handleGetTodo returns a single todo by id.
func (s *Server) handleGetTodo(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	todo, err := s.store.Get(c.Request.Context(), id)
	if err != nil {
		s.respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, todo)
}

// handleCreateTodo inserts a new todo. Text is required; completed defaults
// to false when omitted.
func (s *Server) handleCreateTodo(c *gin.Context) {
	var req createTodoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Valid text is required"})
		return
	}
	if req.Text == nil || *req.Text == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Valid text is required"})
		return
	}

	todo, err := s.store.Create(c.Request.Context(), *req.Text, req.Completed)
	if err != nil {
		s.respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusCreated, todo)
}

// handleUpdateTodo applies a partial update. Absent fields are left unchanged.
func (s *Server) handleUpdateTodo(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var upd models.TodoUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	todo, err := s.store.Update(c.Request.Context(), id, upd)
	if err != nil {
		s.respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, todo)
}

// handleDeleteTodo removes a todo completely.
func (s *Server) handleDeleteTodo(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := s.store.Delete(c.Request.Context(), id); err != nil {
		s.respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Todo deleted successfully"})
}
