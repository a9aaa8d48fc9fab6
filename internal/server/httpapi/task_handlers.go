package httpapi

import (
	"errors"
	"net/http"

	"github.com/danial-baraty/express-todo-api/internal/server/tasks"
)

type createTaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type updateTaskRequest struct {
	Title       *string       `json:"title"`
	Description *string       `json:"description"`
	Status      *tasks.Status `json:"status"`
}

func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request) {
	list, err := s.tasks.List(r.Context())
	if err != nil {
		s.logger.Error("listing tasks failed", "error", err)
		respondMessage(w, http.StatusInternalServerError, "Failed to fetch tasks.")
		return
	}
	respondJSON(w, http.StatusOK, list)
}

func (s *Server) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	var req createTaskRequest
	if err := decodeJSON(r, &req); err != nil {
		respondMessage(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	task, err := s.tasks.Create(r.Context(), req.Title, req.Description)
	if err != nil {
		if errors.Is(err, tasks.ErrValidation) {
			respondMessage(w, http.StatusBadRequest, err.Error())
			return
		}
		s.logger.Error("creating task failed", "error", err)
		respondMessage(w, http.StatusInternalServerError, "Failed to create task.")
		return
	}

	respondJSON(w, http.StatusCreated, task)
}

func (s *Server) handleUpdateTask(w http.ResponseWriter, r *http.Request) {
	var req updateTaskRequest
	if err := decodeJSON(r, &req); err != nil {
		respondMessage(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	task, err := s.tasks.Update(r.Context(), r.PathValue("id"), tasks.UpdateInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
	})
	if err != nil {
		s.respondTaskError(w, err, "Failed to update task.")
		return
	}

	respondJSON(w, http.StatusOK, task)
}

func (s *Server) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	if err := s.tasks.Delete(r.Context(), r.PathValue("id")); err != nil {
		s.respondTaskError(w, err, "Failed to delete task.")
		return
	}

	respondMessage(w, http.StatusOK, "Task deleted successfully.")
}

func (s *Server) respondTaskError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, tasks.ErrInvalidID):
		respondMessage(w, http.StatusBadRequest, "Invalid task ID format.")
	case errors.Is(err, tasks.ErrValidation):
		respondMessage(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, tasks.ErrNotFound):
		respondMessage(w, http.StatusNotFound, "Task not found.")
	default:
		s.logger.Error("task operation failed", "error", err)
		respondMessage(w, http.StatusInternalServerError, fallback)
	}
}
