// Package storage defines the persistence contract shared by the SQL engines.
package storage

import (
	"context"
	"errors"
	"fmt"

	"todoapp/internal/models"
)

// Store errors.
var (
	ErrNotFound = errors.New("todo not found")
	ErrNoFields = &ValidationError{Reason: "No fields to update"}
)

// ValidationError marks bad client input, as opposed to a store failure.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// Store is the persistence handle the HTTP service operates on. Both engines
// implement it; tests substitute it freely.
type Store interface {
	// List returns all todos ordered by creation time descending.
	List(ctx context.Context) ([]models.Todo, error)
	// Get returns the todo with the given id, or ErrNotFound.
	Get(ctx context.Context, id int64) (models.Todo, error)
	// Create inserts a new todo and returns the canonical stored row.
	Create(ctx context.Context, text string, completed bool) (models.Todo, error)
	// Update applies the present fields of the partial payload, refreshes
	// updated_at, and returns the full updated row.
	Update(ctx context.Context, id int64, upd models.TodoUpdate) (models.Todo, error)
	// Delete removes the todo with the given id, or returns ErrNotFound.
	Delete(ctx context.Context, id int64) error
	// Ping verifies the store is reachable.
	Ping(ctx context.Context) error
	Close() error
}

// ValidateText enforces the shared text constraints ahead of any SQL, so the
// engines behave identically regardless of column enforcement.
func ValidateText(text string) error {
	if text == "" {
		return &ValidationError{Reason: "text must not be empty"}
	}
	if len(text) > models.MaxTextLength {
		return &ValidationError{Reason: fmt.Sprintf("text must be at most %d characters", models.MaxTextLength)}
	}
	return nil
}
