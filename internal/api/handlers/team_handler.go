package handlers

import (
	"net/http"
	"time"

	"clientflow/internal/engine/team"
	"clientflow/internal/pkg/errors"
	"clientflow/internal/platform/models"
)

type TeamHandler struct {
	team *team.Service
}

func NewTeamHandler(teamSvc *team.Service) *TeamHandler {
	return &TeamHandler{team: teamSvc}
}

// Members lists every active employee with assignment counts and a workload
// score for balancing decisions.
func (h *TeamHandler) Members(w http.ResponseWriter, r *http.Request) {
	members, err := h.team.TeamMembers()
	if err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, errors.Format(err), nil)
		return
	}
	writeJSON(w, http.StatusOK, members)
}

// ManagedClients lists clients with their service and assignment rollups.
// Employees see only the clients they are assigned to; admins see all.
func (h *TeamHandler) ManagedClients(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)
	if claims == nil {
		errors.WriteError(w, http.StatusUnauthorized, errors.ErrCodeUnauthorized, "Authentication required", nil)
		return
	}

	employeeID := claims.UserID
	if claims.Role == string(models.RoleAdmin) {
		employeeID = ""
	}

	clients, err := h.team.ManagedClients(employeeID)
	if err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, errors.Format(err), nil)
		return
	}
	writeJSON(w, http.StatusOK, clients)
}

// DailyProgress shows per-employee submission counts for a date, for the
// manager monitoring view.
func (h *TeamHandler) DailyProgress(w http.ResponseWriter, r *http.Request) {
	logDate := r.URL.Query().Get("date")
	if logDate == "" {
		logDate = time.Now().Format("2006-01-02")
	}
	if _, err := time.Parse("2006-01-02", logDate); err != nil {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "date must be YYYY-MM-DD", nil)
		return
	}

	progress, err := h.team.TeamDailyProgress(logDate)
	if err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, errors.Format(err), nil)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"date":     logDate,
		"progress": progress,
	})
}

// PrioritizedTasks returns the caller's open tasks ranked by urgency.
func (h *TeamHandler) PrioritizedTasks(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)
	if claims == nil {
		errors.WriteError(w, http.StatusUnauthorized, errors.ErrCodeUnauthorized, "Authentication required", nil)
		return
	}

	tasks, err := h.team.PrioritizedTasks(claims.UserID)
	if err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, errors.Format(err), nil)
		return
	}
	writeJSON(w, http.StatusOK, tasks)
}

// AvailableMembers lists employees not yet assigned to a client service,
// least loaded first.
func (h *TeamHandler) AvailableMembers(w http.ResponseWriter, r *http.Request) {
	clientID := r.URL.Query().Get("client_id")
	serviceID := r.URL.Query().Get("service_id")
	if clientID == "" || serviceID == "" {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "client_id and service_id are required", nil)
		return
	}

	members, err := h.team.AvailableMembersForAssignment(clientID, serviceID)
	if err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, errors.Format(err), nil)
		return
	}
	writeJSON(w, http.StatusOK, members)
}

// DailyAgenda merges the caller's log entries, tasks due, and client
// meetings for one date.
func (h *TeamHandler) DailyAgenda(w http.ResponseWriter, r *http.Request) {
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

	agenda, err := h.team.DailyAgenda(claims.UserID, logDate)
	if err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, errors.Format(err), nil)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"date":  logDate,
		"items": agenda,
	})
}
