// Package sqlite implements the todo store on an embedded SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"todoapp/internal/models"
	"todoapp/internal/storage"
)

// Store wraps access to the SQLite database.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

var _ storage.Store = (*Store)(nil)

// Open initializes the SQLite store and runs the idempotent migration.
func Open(dbPath string, logger *slog.Logger) (*Store, error) {
	if dbPath == "" {
		return nil, fmt.Errorf("empty database path")
	}
	if logger == nil {
		logger = slog.Default()
	}

	if err := ensureDir(dbPath); err != nil {
		return nil, err
	}

	conn, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?_busy_timeout=5000&_foreign_keys=ON", dbPath))
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	conn.SetMaxOpenConns(1)
	conn.SetConnMaxLifetime(0)

	s := &Store{db: conn, logger: logger}
	if err := s.migrate(); err != nil {
		_ = conn.Close()
		return nil, err
	}

	return s, nil
}

// Close releases the database resources.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Ping verifies the database file is still reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func ensureDir(dbPath string) error {
	dir := filepath.Dir(dbPath)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS todos (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            text TEXT NOT NULL,
            completed BOOLEAN NOT NULL DEFAULT 0,
            created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
            updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
        );`,
		`CREATE INDEX IF NOT EXISTS idx_todos_completed ON todos(completed);`,
		`CREATE INDEX IF NOT EXISTS idx_todos_created_at ON todos(created_at DESC);`,
	}

	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}

// List retrieves all todos, newest first.
func (s *Store) List(ctx context.Context) ([]models.Todo, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, text, completed, created_at, updated_at
        FROM todos ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}
	defer rows.Close()

	var todos []models.Todo
	for rows.Next() {
		var t models.Todo
		if err := rows.Scan(&t.ID, &t.Text, &t.Completed, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan todo: %w", err)
		}
		todos = append(todos, t)
	}
	return todos, rows.Err()
}

// Get retrieves a todo by id.
func (s *Store) Get(ctx context.Context, id int64) (models.Todo, error) {
	var t models.Todo
	err := s.db.QueryRowContext(ctx, `SELECT id, text, completed, created_at, updated_at FROM todos WHERE id = ?`, id).
		Scan(&t.ID, &t.Text, &t.Completed, &t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
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

	res, err := s.db.ExecContext(ctx, `INSERT INTO todos(text, completed) VALUES(?, ?)`, text, completed)
	if err != nil {
		return models.Todo{}, fmt.Errorf("insert todo: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return models.Todo{}, fmt.Errorf("todo id: %w", err)
	}
	return s.Get(ctx, id)
}

// Update applies the present fields of the partial payload. updated_at is
// refreshed whenever at least one field is supplied.
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
		sets = append(sets, "text = ?")
		args = append(args, *upd.Text)
	}
	if upd.Completed != nil {
		sets = append(sets, "completed = ?")
		args = append(args, *upd.Completed)
	}
	sets = append(sets, "updated_at = CURRENT_TIMESTAMP")
	args = append(args, id)

	query := fmt.Sprintf(`UPDATE todos SET %s WHERE id = ?`, strings.Join(sets, ", "))
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return models.Todo{}, fmt.Errorf("update todo: %w", err)
	}
	return s.Get(ctx, id)
}

// Delete removes a todo by id.
func (s *Store) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM todos WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete todo: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}
