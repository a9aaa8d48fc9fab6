// Package tasks implements the todo CRUD behind the authentication gate.
package tasks

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

var (
	// ErrInvalidID marks a task ID that is not a valid UUID.
	ErrInvalidID = errors.New("tasks: invalid task ID format")
	// ErrValidation marks malformed task input. The wrapped message is
	// safe to return to the caller.
	ErrValidation = errors.New("invalid input")
)

// UpdateInput is a partial update: nil fields keep the current value.
type UpdateInput struct {
	Title       *string
	Description *string
	Status      *Status
}

// Service validates task input and delegates persistence to the
// repository.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context) ([]Task, error) {
	return s.repo.List(ctx)
}

// Create stores a new pending task. Title is required and trimmed.
func (s *Service) Create(ctx context.Context, title, description string) (*Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrValidation)
	}

	return s.repo.Create(ctx, &Task{
		Title:       title,
		Description: description,
		Status:      StatusPending,
	})
}

// Update applies a partial update to the task with the given ID.
func (s *Service) Update(ctx context.Context, id string, input UpdateInput) (*Task, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}

	task, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, fmt.Errorf("%w: title is required", ErrValidation)
		}
		task.Title = title
	}
	if input.Description != nil {
		task.Description = *input.Description
	}
	if input.Status != nil {
		if !input.Status.Valid() {
			return nil, fmt.Errorf("%w: status must be %q or %q", ErrValidation, StatusPending, StatusCompleted)
		}
		task.Status = *input.Status
	}

	return s.repo.Update(ctx, task)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if err := validateID(id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func validateID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return ErrInvalidID
	}
	return nil
}
