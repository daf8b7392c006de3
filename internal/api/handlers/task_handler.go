package handlers

import (
	"encoding/json"
	"net/http"

	"clientflow/internal/engine/taskflow"
	"clientflow/internal/pkg/errors"
	"clientflow/internal/platform/audit"
	"clientflow/internal/platform/models"
)

type TaskHandler struct {
	tasks *taskflow.Service
	audit *audit.Logger
}

func NewTaskHandler(tasks *taskflow.Service, auditLog *audit.Logger) *TaskHandler {
	return &TaskHandler{tasks: tasks, audit: auditLog}
}

type taskRequest struct {
	AssignedTo string `json:"assigned_to"`
	ClientID   string `json:"client_id"`
	Title      string `json:"title"`
	Priority   string `json:"priority"`
	DueDate    string `json:"due_date"`
}

func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)
	if claims == nil {
		errors.WriteError(w, http.StatusUnauthorized, errors.ErrCodeUnauthorized, "Authentication required", nil)
		return
	}

	var req taskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Invalid request body", nil)
		return
	}
	if req.Title == "" || req.AssignedTo == "" {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "title and assigned_to are required", nil)
		return
	}

	task, err := h.tasks.Create(claims.UserID, req.AssignedTo, req.ClientID, req.Title, req.Priority, req.DueDate)
	if err != nil {
		if errors.IsForeignKey(err) {
			errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, errors.MsgMissingRef, nil)
			return
		}
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, errors.Format(err), nil)
		return
	}

	h.audit.Record(claims.UserID, "task_created", "task", task.ID, r.RemoteAddr, nil)
	writeJSON(w, http.StatusCreated, task)
}

// Toggle flips a task between pending and completed. Only the assignee may
// flip it.
func (h *TaskHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)
	if claims == nil {
		errors.WriteError(w, http.StatusUnauthorized, errors.ErrCodeUnauthorized, "Authentication required", nil)
		return
	}

	task, err := h.tasks.Toggle(claims.UserID, paramFrom(r, "task_id"))
	if err != nil {
		switch err {
		case taskflow.ErrTaskNotFound:
			errors.WriteError(w, http.StatusNotFound, errors.ErrCodeNotFound, "Task not found", nil)
		case taskflow.ErrNotAssignee:
			errors.WriteError(w, http.StatusForbidden, errors.ErrCodeForbidden, "Only the assignee can update this task", nil)
		default:
			errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, errors.Format(err), nil)
		}
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (h *TaskHandler) Annotate(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)
	if claims == nil {
		errors.WriteError(w, http.StatusUnauthorized, errors.ErrCodeUnauthorized, "Authentication required", nil)
		return
	}

	var req struct {
		Remarks string `json:"remarks"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Invalid request body", nil)
		return
	}

	task, err := h.tasks.Annotate(claims.UserID, paramFrom(r, "task_id"), req.Remarks)
	if err != nil {
		switch err {
		case taskflow.ErrTaskNotFound:
			errors.WriteError(w, http.StatusNotFound, errors.ErrCodeNotFound, "Task not found", nil)
		case taskflow.ErrNotAssignee:
			errors.WriteError(w, http.StatusForbidden, errors.ErrCodeForbidden, "Only the assignee or creator can annotate this task", nil)
		default:
			errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, errors.Format(err), nil)
		}
		return
	}
	writeJSON(w, http.StatusOK, task)
}

// List returns the caller's tasks. Admins see every task.
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)
	if claims == nil {
		errors.WriteError(w, http.StatusUnauthorized, errors.ErrCodeUnauthorized, "Authentication required", nil)
		return
	}

	var (
		tasks []*models.Task
		err   error
	)
	if claims.Role == string(models.RoleAdmin) {
		tasks, err = h.tasks.ListAll()
	} else {
		tasks, err = h.tasks.ListMine(claims.UserID)
	}
	if err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, errors.Format(err), nil)
		return
	}
	writeJSON(w, http.StatusOK, tasks)
}

func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)
	if claims == nil {
		errors.WriteError(w, http.StatusUnauthorized, errors.ErrCodeUnauthorized, "Authentication required", nil)
		return
	}

	taskID := paramFrom(r, "task_id")
	if err := h.tasks.Delete(claims.UserID, taskID); err != nil {
		switch err {
		case taskflow.ErrTaskNotFound:
			errors.WriteError(w, http.StatusNotFound, errors.ErrCodeNotFound, "Task not found", nil)
		case taskflow.ErrNotAssignee:
			errors.WriteError(w, http.StatusForbidden, errors.ErrCodeForbidden, "Only the creator can delete this task", nil)
		default:
			errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, errors.Format(err), nil)
		}
		return
	}

	h.audit.Record(claims.UserID, "task_deleted", "task", taskID, r.RemoteAddr, nil)
	w.WriteHeader(http.StatusNoContent)
}
