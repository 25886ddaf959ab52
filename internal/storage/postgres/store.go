// Package postgres implements the todo store on PostgreSQL via pgx.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"todoapp/internal/models"
	"todoapp/internal/storage"
)

// Store wraps a pgx connection pool.
type Store struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

var _ storage.Store = (*Store)(nil)

// Open connects to PostgreSQL and runs the idempotent migration. The DSN is a
// standard postgres:// URL or keyword/value string.
func Open(ctx context.Context, dsn string, logger *slog.Logger) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("empty database dsn")
	}
	if logger == nil {
		logger = slog.Default()
	}

	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	cfg.MaxConns = 20
	cfg.MaxConnIdleTime = 30 * time.Second
	cfg.ConnConfig.ConnectTimeout = 2 * time.Second

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	s := &Store{pool: pool, logger: logger}
	if err := s.migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return s, nil
}

// Close releases the connection pool.
func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

// Ping runs a trivial round-trip query.
func (s *Store) Ping(ctx context.Context) error {
	var one int
	return s.pool.QueryRow(ctx, `SELECT 1`).Scan(&one)
}

func (s *Store) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS todos (
            id SERIAL PRIMARY KEY,
            text VARCHAR(500) NOT NULL,
            completed BOOLEAN NOT NULL DEFAULT FALSE,
            created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
            updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
        );`,
		`CREATE INDEX IF NOT EXISTS idx_todos_completed ON todos(completed);`,
		`CREATE INDEX IF NOT EXISTS idx_todos_created_at ON todos(created_at DESC);`,
	}

	for _, stmt := range stmts {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}

const todoColumns = `id, text, completed, created_at, updated_at`

func scanTodo(row pgx.Row) (models.Todo, error) {
	var t models.Todo
	err := row.Scan(&t.ID, &t.Text, &t.Completed, &t.CreatedAt, &t.UpdatedAt)
	return t, err
}

// List retrieves all todos, newest first.
func (s *Store) List(ctx context.Context) ([]models.Todo, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+todoColumns+` FROM todos ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}
	defer rows.Close()

	var todos []models.Todo
	for rows.Next() {
		t, err := scanTodo(rows)
		if err != nil {
			return nil, fmt.Errorf("scan todo: %w", err)
		}
		todos = append(todos, t)
	}
	return todos, rows.Err()
}

// Get retrieves a todo by id.
func (s *Store) Get(ctx context.Context, id int64) (models.Todo, error) {
	t, err := scanTodo(s.pool.QueryRow(ctx, `SELECT `+todoColumns+` FROM todos WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Todo{}, storage.ErrNotFound
	}
	if err != nil {
		return models.Todo{}, fmt.Errorf("get todo: %w", err)
	}
	return t, nil
}

// Create persists a new todo and returns the stored row.
func (s *Store) Create(ctx context.Context, text string, completed bool) (models.Todo, error) {
	if err := storage.ValidateText(text); err != nil {
		return models.Todo{}, err
	}

	t, err := scanTodo(s.pool.QueryRow(ctx,
		`INSERT INTO todos(text, completed) VALUES($1, $2) RETURNING `+todoColumns, text, completed))
	if err != nil {
		return models.Todo{}, fmt.Errorf("insert todo: %w", err)
	}
	return t, nil
}

// Update applies the present fields of the partial payload with a dynamically
// built SET clause, refreshing updated_at alongside.
func (s *Store) Update(ctx context.Context, id int64, upd models.TodoUpdate) (models.Todo, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return models.Todo{}, err
	}
	if !upd.HasChanges() {
		return models.Todo{}, storage.ErrNoFields
	}

	sets := []string{}
	args := []any{}
	if upd.Text != nil {
		if err := storage.ValidateText(*upd.Text); err != nil {
			return models.Todo{}, err
		}
		args = append(args, *upd.Text)
		sets = append(sets, fmt.Sprintf("text = $%d", len(args)))
	}
	if upd.Completed != nil {
		args = append(args, *upd.Completed)
		sets = append(sets, fmt.Sprintf("completed = $%d", len(args)))
	}
	sets = append(sets, "updated_at = CURRENT_TIMESTAMP")
	args = append(args, id)

	query := fmt.Sprintf(`UPDATE todos SET %s WHERE id = $%d RETURNING `+todoColumns,
		strings.Join(sets, ", "), len(args))
	t, err := scanTodo(s.pool.QueryRow(ctx, query, args...))
	if err != nil {
		return models.Todo{}, fmt.Errorf("update todo: %w", err)
	}
	return t, nil
}

// Delete removes a todo by id.
func (s *Store) Delete(ctx context.Context, id int64) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM todos WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete todo: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}
