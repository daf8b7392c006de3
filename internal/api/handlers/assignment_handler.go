package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"

	"clientflow/internal/pkg/errors"
	"clientflow/internal/platform/audit"
	"clientflow/internal/platform/models"
	"clientflow/internal/platform/repositories"
)

type AssignmentHandler struct {
	assignmentRepo *repositories.AssignmentRepository
	clientRepo     *repositories.ClientRepository
	serviceRepo    *repositories.ServiceRepository
	audit          *audit.Logger
}

func NewAssignmentHandler(assignmentRepo *repositories.AssignmentRepository, clientRepo *repositories.ClientRepository, serviceRepo *repositories.ServiceRepository, auditLog *audit.Logger) *AssignmentHandler {
	return &AssignmentHandler{
		assignmentRepo: assignmentRepo,
		clientRepo:     clientRepo,
		serviceRepo:    serviceRepo,
		audit:          auditLog,
	}
}

type assignmentRequest struct {
	ClientID    string `json:"client_id"`
	EmployeeID  string `json:"employee_id"`
	ServiceSlug string `json:"service_slug"`
}

// Create maps an employee to a client service. The service must be enabled
// for the client, and the (client, employee, service) triple must be new.
// Both checks run inside the insert transaction.
func (h *AssignmentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req assignmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Invalid request body", nil)
		return
	}
	if req.ClientID == "" || req.EmployeeID == "" || req.ServiceSlug == "" {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "client_id, employee_id and service_slug are required", nil)
		return
	}

	svc, err := h.serviceRepo.GetBySlug(req.ServiceSlug)
	if err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, errors.Format(err), nil)
		return
	}
	if svc == nil {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "unknown service: "+req.ServiceSlug, nil)
		return
	}

	tx, err := h.clientRepo.BeginTx()
	if err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, errors.Format(err), nil)
		return
	}
	defer tx.Rollback()

	enabled, err := h.clientRepo.ServiceEnabledTx(tx, req.ClientID, svc.ID)
	if err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, errors.Format(err), nil)
		return
	}
	if !enabled {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "service is not enabled for this client", nil)
		return
	}

	assignment := &models.ClientAssignment{
		ID:         "asg_" + uuid.NewString(),
		ClientID:   req.ClientID,
		EmployeeID: req.EmployeeID,
		ServiceID:  svc.ID,
		CreatedAt:  time.Now().Unix(),
	}
	if err := h.assignmentRepo.CreateTx(tx, assignment); err != nil {
		if errors.IsDuplicate(err) {
			errors.WriteError(w, http.StatusConflict, errors.ErrCodeConflict, errors.MsgDuplicate, nil)
			return
		}
		if errors.IsForeignKey(err) {
			errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, errors.MsgMissingRef, nil)
			return
		}
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, errors.Format(err), nil)
		return
	}
	if err := tx.Commit(); err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, errors.Format(err), nil)
		return
	}

	if claims := claimsFrom(r); claims != nil {
		h.audit.Record(claims.UserID, "assignment_created", "client_assignment", assignment.ID, r.RemoteAddr, map[string]interface{}{
			"client_id":   req.ClientID,
			"employee_id": req.EmployeeID,
			"service":     req.ServiceSlug,
		})
	}
	writeJSON(w, http.StatusCreated, assignment)
}

func (h *AssignmentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	assignmentID := paramFrom(r, "assignment_id")

	assignment, err := h.assignmentRepo.GetByID(assignmentID)
	if err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, errors.Format(err), nil)
		return
	}
	if assignment == nil {
		errors.WriteError(w, http.StatusNotFound, errors.ErrCodeNotFound, "Assignment not found", nil)
		return
	}

	if err := h.assignmentRepo.Delete(assignmentID); err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, errors.Format(err), nil)
		return
	}

	if claims := claimsFrom(r); claims != nil {
		h.audit.Record(claims.UserID, "assignment_deleted", "client_assignment", assignmentID, r.RemoteAddr, nil)
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListMine returns the calling employee's assignments. Admins can pass
// ?employee_id= to inspect someone else's.
func (h *AssignmentHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)
	if claims == nil {
		errors.WriteError(w, http.StatusUnauthorized, errors.ErrCodeUnauthorized, "Authentication required", nil)
		return
	}

	employeeID := claims.UserID
	if requested := r.URL.Query().Get("employee_id"); requested != "" && claims.Role == string(models.RoleAdmin) {
		employeeID = requested
	}

	assignments, err := h.assignmentRepo.ListByEmployee(employeeID)
	if err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, errors.Format(err), nil)
		return
	}
	writeJSON(w, http.StatusOK, assignments)
}
