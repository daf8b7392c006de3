package handlers

import (
	"net/http"

	"clientflow/internal/engine/reports"
	"clientflow/internal/pkg/errors"
	"clientflow/internal/platform/repositories"
)

// PortalHandler serves the read-only client portal. Every endpoint scopes to
// the client id carried in the portal account's token; approved reports are
// the only reports it can ever see.
type PortalHandler struct {
	reports     *reports.Service
	clientRepo  *repositories.ClientRepository
	attachments *repositories.AttachmentRepository
}

func NewPortalHandler(reportSvc *reports.Service, clientRepo *repositories.ClientRepository, attachments *repositories.AttachmentRepository) *PortalHandler {
	return &PortalHandler{reports: reportSvc, clientRepo: clientRepo, attachments: attachments}
}

func (h *PortalHandler) clientID(w http.ResponseWriter, r *http.Request) (string, bool) {
	claims := claimsFrom(r)
	if claims == nil || claims.ClientID == "" {
		errors.WriteError(w, http.StatusForbidden, errors.ErrCodeForbidden, "Portal access requires a client account", nil)
		return "", false
	}
	return claims.ClientID, true
}

func (h *PortalHandler) Overview(w http.ResponseWriter, r *http.Request) {
	clientID, ok := h.clientID(w, r)
	if !ok {
		return
	}

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

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"name":               client.Name,
		"status":             client.Status,
		"health_status":      client.HealthStatus,
		"weekly_meeting_day": client.WeeklyMeetingDay,
		"meeting_time":       client.MeetingTime,
		"services":           slugs,
	})
}

func (h *PortalHandler) Reports(w http.ResponseWriter, r *http.Request) {
	clientID, ok := h.clientID(w, r)
	if !ok {
		return
	}

	list, err := h.reports.ListApprovedForClient(clientID)
	if err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, errors.Format(err), nil)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// ReportAttachments lists attachments for one of the client's approved
// reports. Reports belonging to other clients, or not yet approved, 404.
func (h *PortalHandler) ReportAttachments(w http.ResponseWriter, r *http.Request) {
	clientID, ok := h.clientID(w, r)
	if !ok {
		return
	}

	rep, err := h.reports.Get(paramFrom(r, "report_id"))
	if err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, errors.Format(err), nil)
		return
	}
	if rep == nil || rep.ClientID != clientID || rep.ApprovalStatus != reports.ApprovalApproved {
		errors.WriteError(w, http.StatusNotFound, errors.ErrCodeNotFound, "Report not found", nil)
		return
	}

	list, err := h.attachments.ListByReport(rep.ID)
	if err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, errors.Format(err), nil)
		return
	}
	writeJSON(w, http.StatusOK, list)
}
