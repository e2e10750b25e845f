package api

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/inkforge/inkforge-api/internal/api/shared"
	"github.com/inkforge/inkforge-api/internal/domain"
	"github.com/inkforge/inkforge-api/internal/service"
)

// CreateTaskRequest represents the request body for submitting a task
type CreateTaskRequest struct {
	Type           string `json:"type"   validate:"required"`
	Model          string `json:"model"  validate:"required"`
	Prompt         string `json:"prompt" validate:"required"`
	Count          int    `json:"count"`
	ReferenceImage string `json:"referenceImage"`
	BaseImage      string `json:"baseImage"`
	RefStyleImage  string `json:"refStyleImage"`
}

// ResubmitTaskRequest represents the request body for resubmitting a task
type ResubmitTaskRequest struct {
	Prompt string `json:"prompt"`
}

// TaskResponse represents the response data for a task
type TaskResponse struct {
	ID             string    `json:"id"`
	Type           string    `json:"type"`
	Model          string    `json:"model"`
	Prompt         string    `json:"prompt"`
	Count          int       `json:"count"`
	ReferenceImage string    `json:"referenceImage,omitempty"`
	BaseImage      string    `json:"baseImage,omitempty"`
	RefStyleImage  string    `json:"refStyleImage,omitempty"`
	Status         string    `json:"status"`
	Results        []string  `json:"results"`
	ErrorMessage   string    `json:"errorMessage,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

type taskEnvelope struct {
	Success bool         `json:"success"`
	Task    TaskResponse `json:"task"`
}

type taskListEnvelope struct {
	Success bool           `json:"success"`
	Tasks   []TaskResponse `json:"tasks"`
}

// TaskHandler handles task-related HTTP requests
type TaskHandler struct {
	tasks  *service.TaskService
	logger *slog.Logger
}

// NewTaskHandler creates a new TaskHandler
func NewTaskHandler(tasks *service.TaskService, logger *slog.Logger) *TaskHandler {
	return &TaskHandler{
		tasks:  tasks,
		logger: logger,
	}
}

// List handles GET /api/tasks requests with optional exact-match status
// and model filters.
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := service.TaskFilter{
		Status: r.URL.Query().Get("status"),
		Model:  r.URL.Query().Get("model"),
	}

	tasks, err := h.tasks.List(r.Context(), filter)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	responses := make([]TaskResponse, 0, len(tasks))
	for _, task := range tasks {
		responses = append(responses, taskToResponse(task))
	}
	shared.RespondWithJSON(w, r, http.StatusOK, taskListEnvelope{Success: true, Tasks: responses})
}

// Get handles GET /api/tasks/{id} requests
func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	task, err := h.tasks.Get(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, taskEnvelope{Success: true, Task: taskToResponse(task)})
}

// Create handles POST /api/tasks requests. The response carries the task
// still pending: dispatch happens asynchronously after the response.
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateTaskRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Type, model and prompt are required")
		return
	}

	task, err := h.tasks.Create(r.Context(), service.CreateTaskParams{
		Type:           req.Type,
		Model:          req.Model,
		Prompt:         req.Prompt,
		Count:          req.Count,
		ReferenceImage: req.ReferenceImage,
		BaseImage:      req.BaseImage,
		RefStyleImage:  req.RefStyleImage,
	})
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	// 202 Accepted: processing happens asynchronously
	shared.RespondWithJSON(w, r, http.StatusAccepted, taskEnvelope{Success: true, Task: taskToResponse(task)})
}

// Resubmit handles POST /api/tasks/{id}/resubmit requests
func (h *TaskHandler) Resubmit(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	// Body is optional; an absent body resubmits with the original prompt.
	var req ResubmitTaskRequest
	if err := shared.DecodeJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	task, err := h.tasks.Resubmit(r.Context(), id, req.Prompt)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusAccepted, taskEnvelope{Success: true, Task: taskToResponse(task)})
}

// Delete handles DELETE /api/tasks/{id} requests
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.tasks.Remove(r.Context(), id); err != nil {
		HandleAPIError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, map[string]any{"success": true})
}

// taskToResponse converts a domain.Task to a TaskResponse
func taskToResponse(task domain.Task) TaskResponse {
	return TaskResponse{
		ID:             task.ID,
		Type:           task.Type,
		Model:          task.Model,
		Prompt:         task.Prompt,
		Count:          task.Count,
		ReferenceImage: task.ReferenceImage,
		BaseImage:      task.BaseImage,
		RefStyleImage:  task.RefStyleImage,
		Status:         string(task.Status),
		Results:        task.Results,
		ErrorMessage:   task.ErrorMessage,
		CreatedAt:      task.CreatedAt,
		UpdatedAt:      task.UpdatedAt,
	}
}
