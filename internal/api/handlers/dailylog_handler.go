package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"clientflow/internal/engine/dailylogs"
	"clientflow/internal/pkg/errors"
	"clientflow/internal/platform/audit"
)

type DailyLogHandler struct {
	logs  *dailylogs.Service
	audit *audit.Logger
}

func NewDailyLogHandler(logs *dailylogs.Service, auditLog *audit.Logger) *DailyLogHandler {
	return &DailyLogHandler{logs: logs, audit: auditLog}
}

// Reconcile returns one entry per active assignment for the requested date.
// Assignments without a stored log come back as defaulted not_started rows.
func (h *DailyLogHandler) Reconcile(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)
	if claims == nil {
		errors.WriteError(w, http.StatusUnauthorized, errors.ErrCodeUnauthorized, "Authentication required", nil)
		return
	}

	logDate := r.URL.Query().Get("date")
	if logDate == "" {
		logDate = time.Now().Format("2006-01-02")
	}
	if _, err := time.Parse("2006-01-02", logDate); err != nil {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "date must be YYYY-MM-DD", nil)
		return
	}

	entries, err := h.logs.Reconcile(claims.UserID, logDate)
	if err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, errors.Format(err), nil)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"date":    logDate,
		"entries": entries,
	})
}

type dailyLogRequest struct {
	AssignmentID string            `json:"assignment_id"`
	LogDate      string            `json:"log_date"`
	Metrics      dailylogs.Metrics `json:"metrics"`
	Notes        string            `json:"notes"`
}

func (h *DailyLogHandler) SaveDraft(w http.ResponseWriter, r *http.Request) {
	h.save(w, r, false)
}

func (h *DailyLogHandler) Submit(w http.ResponseWriter, r *http.Request) {
	h.save(w, r, true)
}

func (h *DailyLogHandler) save(w http.ResponseWriter, r *http.Request, submit bool) {
	claims := claimsFrom(r)
	if claims == nil {
		errors.WriteError(w, http.StatusUnauthorized, errors.ErrCodeUnauthorized, "Authentication required", nil)
		return
	}

	var req dailyLogRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Invalid request body", nil)
		return
	}
	if req.AssignmentID == "" || req.LogDate == "" {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "assignment_id and log_date are required", nil)
		return
	}
	if _, err := time.Parse("2006-01-02", req.LogDate); err != nil {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "log_date must be YYYY-MM-DD", nil)
		return
	}

	var (
		log *dailylogs.Log
		err error
	)
	if submit {
		log, err = h.logs.Submit(claims.UserID, req.AssignmentID, req.LogDate, req.Metrics, req.Notes)
	} else {
		log, err = h.logs.SaveDraft(claims.UserID, req.AssignmentID, req.LogDate, req.Metrics, req.Notes)
	}
	if err != nil {
		switch err {
		case dailylogs.ErrSubmitted:
			errors.WriteError(w, http.StatusLocked, errors.ErrCodeLocked, "This log has been submitted and can no longer be edited", nil)
		case dailylogs.ErrAssignmentNotFound:
			errors.WriteError(w, http.StatusNotFound, errors.ErrCodeNotFound, "Assignment not found", nil)
		case dailylogs.ErrNotAssignmentOwner:
			errors.WriteError(w, http.StatusForbidden, errors.ErrCodeForbidden, "You can only log against your own assignments", nil)
		default:
			errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, errors.Format(err), nil)
		}
		return
	}

	if submit {
		h.audit.Record(claims.UserID, "daily_log_submitted", "daily_task_log", log.ID, r.RemoteAddr, map[string]interface{}{
			"log_date":      req.LogDate,
			"assignment_id": req.AssignmentID,
		})
	}
	writeJSON(w, http.StatusOK, log)
}
