// Package app holds the client-side state controller: a cached mirror of the
// service's task list plus the current display filter.
package app

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"todoapp/internal/client"
	"todoapp/internal/models"
)

// Filter selects which cached records the derived view shows.
type Filter string

const (
	FilterAll       Filter = "all"
	FilterCompleted Filter = "completed"
	FilterPending   Filter = "pending"
)

// Counts are the aggregate totals derived from the cache.
type Counts struct {
	Total     int
	Completed int
	Pending   int
}

// Connectivity is the result of the latest health poll.
type Connectivity struct {
	APIReachable bool
	Database     string
}

// Controller mirrors the service state. The service stays authoritative: every
// successful mutation replaces cached records with the rows the service
// returned, and a failed call leaves the cache untouched.
type Controller struct {
	api    *client.Client
	logger *slog.Logger

	mu     sync.Mutex
	todos  []models.Todo
	filter Filter
	health Connectivity
}

// NewController creates a controller over the given API client.
func NewController(api *client.Client, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{
		api:    api,
		logger: logger,
		filter: FilterAll,
	}
}

// Refresh replaces the cache wholesale with the service's current list.
func (c *Controller) Refresh(ctx context.Context) error {
	todos, err := c.api.List(ctx)
	if err != nil {
		c.logger.Error("failed to load todos", slog.String("error", err.Error()))
		return err
	}

	c.mu.Lock()
	c.todos = todos
	c.mu.Unlock()
	return nil
}

// Add creates a new todo and appends the stored record to the cache.
// Whitespace-only input is ignored without error.
func (c *Controller) Add(ctx context.Context, text string) error {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	todo, err := c.api.Create(ctx, text, false)
	if err != nil {
		c.logger.Error("failed to add todo", slog.String("error", err.Error()))
		return err
	}

	c.mu.Lock()
	c.todos = append(c.todos, todo)
	c.mu.Unlock()
	return nil
}

// ApplyUpdate sends a partial update and merges the authoritative result back
// into the cache. An id with no cached counterpart leaves the cache unchanged.
func (c *Controller) ApplyUpdate(ctx context.Context, id int64, upd models.TodoUpdate) error {
	todo, err := c.api.Update(ctx, id, upd)
	if err != nil {
		c.logger.Error("failed to update todo", slog.Int64("id", id), slog.String("error", err.Error()))
		return err
	}

	c.mu.Lock()
	for i := range c.todos {
		if c.todos[i].ID == todo.ID {
			c.todos[i] = todo
			break
		}
	}
	c.mu.Unlock()
	return nil
}

// Toggle flips the completed flag of a cached record via a partial update.
func (c *Controller) Toggle(ctx context.Context, id int64) error {
	c.mu.Lock()
	var completed, found bool
	for i := range c.todos {
		if c.todos[i].ID == id {
			completed = !c.todos[i].Completed
			found = true
			break
		}
	}
	c.mu.Unlock()
	if !found {
		return nil
	}
	return c.ApplyUpdate(ctx, id, models.TodoUpdate{Completed: &completed})
}

// Remove deletes a todo and drops it from the cache.
func (c *Controller) Remove(ctx context.Context, id int64) error {
	if err := c.api.Delete(ctx, id); err != nil {
		c.logger.Error("failed to delete todo", slog.Int64("id", id), slog.String("error", err.Error()))
		return err
	}

	c.mu.Lock()
	kept := c.todos[:0]
	for _, t := range c.todos {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	c.todos = kept
	c.mu.Unlock()
	return nil
}

// SetFilter switches the display filter.
func (c *Controller) SetFilter(f Filter) {
	c.mu.Lock()
	c.filter = f
	c.mu.Unlock()
}

// Filter returns the current display filter.
func (c *Controller) Filter() Filter {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.filter
}

// View derives the displayed subset from (cache, filter), preserving cache
// order.
func (c *Controller) View() []models.Todo {
	c.mu.Lock()
	defer c.mu.Unlock()

	view := make([]models.Todo, 0, len(c.todos))
	for _, t := range c.todos {
		switch c.filter {
		case FilterCompleted:
			if !t.Completed {
				continue
			}
		case FilterPending:
			if t.Completed {
				continue
			}
		}
		view = append(view, t)
	}
	return view
}

// Counts recomputes the aggregate totals from the cache.
func (c *Controller) Counts() Counts {
	c.mu.Lock()
	defer c.mu.Unlock()

	counts := Counts{Total: len(c.todos)}
	for _, t := range c.todos {
		if t.Completed {
			counts.Completed++
		}
	}
	counts.Pending = counts.Total - counts.Completed
	return counts
}

// CheckHealth polls the boundary health endpoint and records the result. A
// failed poll marks the API unreachable until the next poll.
func (c *Controller) CheckHealth(ctx context.Context) Connectivity {
	var conn Connectivity
	h, err := c.api.CheckHealth(ctx)
	if err != nil {
		c.logger.Warn("health check failed", slog.String("error", err.Error()))
		conn = Connectivity{APIReachable: false, Database: "unknown"}
	} else {
		conn = Connectivity{APIReachable: true, Database: h.Database}
	}

	c.mu.Lock()
	c.health = conn
	c.mu.Unlock()
	return conn
}

// Health returns the result of the latest connectivity poll.
func (c *Controller) Health() Connectivity {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.health
}
