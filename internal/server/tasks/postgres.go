package tasks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// PostgresRepository stores tasks in PostgreSQL.
type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// EnsureSchema creates the tasks table when it does not exist yet.
func (r *PostgresRepository) EnsureSchema(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS tasks (
			id UUID PRIMARY KEY,
			title TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL DEFAULT 'pending',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`

	if _, err := r.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("tasks schema: %w", err)
	}
	return nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]Task, error) {
	query := `
		SELECT id, title, description, status, created_at, updated_at FROM tasks
		ORDER BY created_at`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error performing sql request: %w", err)
	}
	defer rows.Close()

	result := []Task{}
	for rows.Next() {
		var t Task
		if err := rows.Scan(&t.ID, &t.Title, &t.Description, &t.Status, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		result = append(result, t)
	}

	return result, rows.Err()
}

func (r *PostgresRepository) Create(ctx context.Context, task *Task) (*Task, error) {
	if task.ID == "" {
		task.ID = uuid.NewString()
	}

	query := `
		INSERT INTO tasks (id, title, description, status)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query, task.ID, task.Title, task.Description, task.Status).
		Scan(&task.CreatedAt, &task.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("error performing sql request: %w", err)
	}

	return task, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*Task, error) {
	query := `
		SELECT id, title, description, status, created_at, updated_at FROM tasks
		WHERE id = $1`

	task := &Task{}
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&task.ID, &task.Title, &task.Description, &task.Status, &task.CreatedAt, &task.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error performing sql request: %w", err)
	}

	return task, nil
}

func (r *PostgresRepository) Update(ctx context.Context, task *Task) (*Task, error) {
	query := `
		UPDATE tasks
		SET title = $2, description = $3, status = $4, updated_at = now()
		WHERE id = $1
		RETURNING created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query, task.ID, task.Title, task.Description, task.Status).
		Scan(&task.CreatedAt, &task.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error performing sql request: %w", err)
	}

	return task, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error performing sql request: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("error reading sql result: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}

	return nil
}
