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

type ClientHandler struct {
	clientRepo     *repositories.ClientRepository
	serviceRepo    *repositories.ServiceRepository
	assignmentRepo *repositories.AssignmentRepository
	audit          *audit.Logger
}

func NewClientHandler(clientRepo *repositories.ClientRepository, serviceRepo *repositories.ServiceRepository, assignmentRepo *repositories.AssignmentRepository, auditLog *audit.Logger) *ClientHandler {
	return &ClientHandler{
		clientRepo:     clientRepo,
		serviceRepo:    serviceRepo,
		assignmentRepo: assignmentRepo,
		audit:          auditLog,
	}
}

type ClientRequest struct {
	Name             string   `json:"name"`
	Status           string   `json:"status"`
	Priority         string   `json:"priority"`
	HealthStatus     string   `json:"health_status"`
	HealthScore      int      `json:"health_score"`
	ContactName      string   `json:"contact_name"`
	ContactEmail     string   `json:"contact_email"`
	ContactPhone     string   `json:"contact_phone"`
	WeeklyMeetingDay string   `json:"weekly_meeting_day"`
	MeetingTime      string   `json:"meeting_time"`
	ServiceSlugs     []string `json:"service_slugs"`
}

// Create inserts the client and its enabled-service set in one transaction.
func (h *ClientHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req ClientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Invalid request body", nil)
		return
	}
	if req.Name == "" {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "name is required", nil)
		return
	}

	serviceIDs, err := h.resolveServices(req.ServiceSlugs)
	if err != nil {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, err.Error(), nil)
		return
	}

	now := time.Now().Unix()
	client := &models.Client{
		ID:               "cli_" + uuid.NewString(),
		Name:             req.Name,
		Status:           defaultStr(req.Status, "active"),
		Priority:         defaultStr(req.Priority, "medium"),
		HealthStatus:     defaultStr(req.HealthStatus, "green"),
		HealthScore:      req.HealthScore,
		ContactName:      req.ContactName,
		ContactEmail:     req.ContactEmail,
		ContactPhone:     req.ContactPhone,
		WeeklyMeetingDay: req.WeeklyMeetingDay,
		MeetingTime:      req.MeetingTime,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	tx, err := h.clientRepo.BeginTx()
	if err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, errors.Format(err), nil)
		return
	}
	defer tx.Rollback()

	if err := h.clientRepo.CreateTx(tx, client); err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, errors.Format(err), nil)
		return
	}
	if err := h.clientRepo.ReplaceServicesTx(tx, client.ID, serviceIDs); err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, errors.Format(err), nil)
		return
	}
	if err := tx.Commit(); err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, errors.Format(err), nil)
		return
	}

	client.EnabledServices = req.ServiceSlugs
	if claims := claimsFrom(r); claims != nil {
		h.audit.Record(claims.UserID, "client_created", "client", client.ID, r.RemoteAddr, nil)
	}
	writeJSON(w, http.StatusCreated, client)
}

// Update edits client fields and swaps the service set atomically. A failure
// at any step rolls the whole edit back.
func (h *ClientHandler) Update(w http.ResponseWriter, r *http.Request) {
	clientID := paramFrom(r, "client_id")

	existing, err := h.clientRepo.GetByID(clientID)
	if err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, errors.Format(err), nil)
		return
	}
	if existing == nil {
		errors.WriteError(w, http.StatusNotFound, errors.ErrCodeNotFound, "Client not found", nil)
		return
	}

	var req ClientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Invalid request body", nil)
		return
	}

	serviceIDs, err := h.resolveServices(req.ServiceSlugs)
	if err != nil {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, err.Error(), nil)
		return
	}

	existing.Name = defaultStr(req.Name, existing.Name)
	existing.Status = defaultStr(req.Status, existing.Status)
	existing.Priority = defaultStr(req.Priority, existing.Priority)
	existing.HealthStatus = defaultStr(req.HealthStatus, existing.HealthStatus)
	existing.HealthScore = req.HealthScore
	existing.ContactName = req.ContactName
	existing.ContactEmail = req.ContactEmail
	existing.ContactPhone = req.ContactPhone
	existing.WeeklyMeetingDay = req.WeeklyMeetingDay
	existing.MeetingTime = req.MeetingTime

	tx, err := h.clientRepo.BeginTx()
	if err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, errors.Format(err), nil)
		return
	}
	defer tx.Rollback()

	if err := h.clientRepo.UpdateTx(tx, existing); err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, errors.Format(err), nil)
		return
	}
	if err := h.clientRepo.ReplaceServicesTx(tx, clientID, serviceIDs); err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, errors.Format(err), nil)
		return
	}
	if err := tx.Commit(); err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, errors.Format(err), nil)
		return
	}

	existing.EnabledServices = req.ServiceSlugs
	if claims := claimsFrom(r); claims != nil {
		h.audit.Record(claims.UserID, "client_updated", "client", clientID, r.RemoteAddr, nil)
	}
	writeJSON(w, http.StatusOK, existing)
}

func (h *ClientHandler) Get(w http.ResponseWriter, r *http.Request) {
	clientID := paramFrom(r, "client_id")

	client, err := h.clientRepo.GetByID(clientID)
	if err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, errors.Format(err), nil)
		return
	}
	if client == nil {
		errors.WriteError(w, http.StatusNotFound, errors.ErrCodeNotFound, "Client not found", nil)
		return
	}

	slugs, err := h.clientRepo.EnabledServiceSlugs(clientID)
	if err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, errors.Format(err), nil)
		return
	}
	client.EnabledServices = slugs

	assignments, err := h.assignmentRepo.ListByClient(clientID)
	if err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, errors.Format(err), nil)
		return
	}
	client.Assignments = assignments

	writeJSON(w, http.StatusOK, client)
}

func (h *ClientHandler) List(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	if status == "all" || status == "_all" {
		status = ""
	}

	clients, err := h.clientRepo.List(status)
	if err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, errors.Format(err), nil)
		return
	}
	writeJSON(w, http.StatusOK, clients)
}

func (h *ClientHandler) Delete(w http.ResponseWriter, r *http.Request) {
	clientID := paramFrom(r, "client_id")

	if err := h.clientRepo.Delete(clientID); err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, errors.Format(err), nil)
		return
	}

	if claims := claimsFrom(r); claims != nil {
		h.audit.Record(claims.UserID, "client_deleted", "client", clientID, r.RemoteAddr, nil)
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ClientHandler) ListServices(w http.ResponseWriter, r *http.Request) {
	services, err := h.serviceRepo.List()
	if err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, errors.Format(err), nil)
		return
	}
	writeJSON(w, http.StatusOK, services)
}

func (h *ClientHandler) resolveServices(slugs []string) ([]string, error) {
	ids := make([]string, 0, len(slugs))
	for _, slug := range slugs {
		svc, err := h.serviceRepo.GetBySlug(slug)
		if err != nil {
			return nil, err
		}
		if svc == nil {
			return nil, &unknownServiceError{slug: slug}
		}
		ids = append(ids, svc.ID)
	}
	return ids, nil
}

type unknownServiceError struct{ slug string }

func (e *unknownServiceError) Error() string {
	return "unknown service: " + e.slug
}

func defaultStr(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
