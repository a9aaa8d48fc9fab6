package tasks

import (
	"context"
	"errors"
)

// ErrNotFound is returned when no task matches the given ID.
var ErrNotFound = errors.New("tasks: not found")

// Repository is the durable task store adapter.
type Repository interface {
	List(ctx context.Context) ([]Task, error)
	Create(ctx context.Context, task *Task) (*Task, error)
	Update(ctx context.Context, task *Task) (*Task, error)
	GetByID(ctx context.Context, id string) (*Task, error)
	Delete(ctx context.Context, id string) error
}
