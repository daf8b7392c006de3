package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"clientflow/internal/engine/reports"
	"clientflow/internal/pkg/errors"
	"clientflow/internal/platform/audit"
	"clientflow/internal/platform/models"
	"clientflow/internal/platform/repositories"
	"clientflow/internal/platform/storage"
)

type ReportHandler struct {
	reports       *reports.Service
	attachments   *repositories.AttachmentRepository
	feedback      *repositories.FeedbackRepository
	notifications *repositories.NotificationRepository
	store         storage.Store
	maxUploadSize int64
	audit         *audit.Logger
}

func NewReportHandler(
	reportSvc *reports.Service,
	attachments *repositories.AttachmentRepository,
	feedback *repositories.FeedbackRepository,
	notifications *repositories.NotificationRepository,
	store storage.Store,
	maxUploadSize int64,
	auditLog *audit.Logger,
) *ReportHandler {
	return &ReportHandler{
		reports:       reportSvc,
		attachments:   attachments,
		feedback:      feedback,
		notifications: notifications,
		store:         store,
		maxUploadSize: maxUploadSize,
		audit:         auditLog,
	}
}

type reportDraftRequest struct {
	ClientID      string `json:"client_id"`
	ServiceID     string `json:"service_id"`
	WeekStartDate string `json:"week_start_date"`
	Summary       string `json:"summary"`
	Achievements  string `json:"achievements"`
	Blockers      string `json:"blockers"`
	NextSteps     string `json:"next_steps"`
}

// SaveDraft upserts the caller's draft for a (client, service, week) key.
// The auto-save loop calls this endpoint repeatedly with the same key.
func (h *ReportHandler) SaveDraft(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)
	if claims == nil {
		errors.WriteError(w, http.StatusUnauthorized, errors.ErrCodeUnauthorized, "Authentication required", nil)
		return
	}

	var req reportDraftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Invalid request body", nil)
		return
	}
	if req.ClientID == "" || req.ServiceID == "" {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "client_id and service_id are required", nil)
		return
	}

	week := reports.WeekStart(time.Now())
	if req.WeekStartDate != "" {
		parsed, err := time.Parse("2006-01-02", req.WeekStartDate)
		if err != nil {
			errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "week_start_date must be YYYY-MM-DD", nil)
			return
		}
		// Any day within the week identifies the same report.
		week = reports.WeekStart(parsed)
	}

	rep, err := h.reports.SaveDraft(claims.UserID, req.ClientID, req.ServiceID, week, reports.Draft{
		Summary:      req.Summary,
		Achievements: req.Achievements,
		Blockers:     req.Blockers,
		NextSteps:    req.NextSteps,
	})
	if err != nil {
		if errors.IsForeignKey(err) {
			errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, errors.MsgMissingRef, nil)
			return
		}
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, errors.Format(err), nil)
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

func (h *ReportHandler) Finalize(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)
	if claims == nil {
		errors.WriteError(w, http.StatusUnauthorized, errors.ErrCodeUnauthorized, "Authentication required", nil)
		return
	}

	rep, err := h.reports.Finalize(claims.UserID, paramFrom(r, "report_id"))
	if err != nil {
		switch err {
		case reports.ErrNotOwner:
			errors.WriteError(w, http.StatusForbidden, errors.ErrCodeForbidden, "You can only submit your own reports", nil)
		default:
			errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, errors.Format(err), nil)
		}
		return
	}

	h.audit.Record(claims.UserID, "report_submitted", "weekly_report", rep.ID, r.RemoteAddr, nil)
	writeJSON(w, http.StatusOK, rep)
}

// Review approves or rejects a submitted report and notifies its author.
func (h *ReportHandler) Review(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)
	reportID := paramFrom(r, "report_id")

	var req struct {
		Decision string `json:"decision"`
		Comment  string `json:"comment"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Invalid request body", nil)
		return
	}
	if req.Decision != reports.ApprovalApproved && req.Decision != reports.ApprovalRejected {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "decision must be approved or rejected", nil)
		return
	}

	rep, err := h.reports.Get(reportID)
	if err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, errors.Format(err), nil)
		return
	}
	if rep == nil {
		errors.WriteError(w, http.StatusNotFound, errors.ErrCodeNotFound, "Report not found", nil)
		return
	}
	if rep.IsDraft {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Draft reports cannot be reviewed", nil)
		return
	}

	if req.Decision == reports.ApprovalApproved {
		err = h.reports.Approve(reportID)
	} else {
		err = h.reports.Reject(reportID)
	}
	if err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, errors.Format(err), nil)
		return
	}
	rep.ApprovalStatus = req.Decision

	if req.Comment != "" {
		fb := &models.ReportFeedback{
			ID:        "fbk_" + uuid.NewString(),
			ReportID:  reportID,
			AuthorID:  claims.UserID,
			Body:      req.Comment,
			CreatedAt: time.Now().Unix(),
		}
		if err := h.feedback.Create(fb); err != nil {
			errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, errors.Format(err), nil)
			return
		}
	}

	notif := &models.Notification{
		ID:        "ntf_" + uuid.NewString(),
		UserID:    rep.EmployeeID,
		Kind:      "report_" + req.Decision,
		Body:      fmt.Sprintf("Your report for week %s was %s.", rep.WeekStartDate, req.Decision),
		CreatedAt: time.Now().Unix(),
	}
	if err := h.notifications.Create(notif); err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, errors.Format(err), nil)
		return
	}

	h.audit.Record(claims.UserID, "report_"+req.Decision, "weekly_report", reportID, r.RemoteAddr, nil)
	writeJSON(w, http.StatusOK, rep)
}

func (h *ReportHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)
	if claims == nil {
		errors.WriteError(w, http.StatusUnauthorized, errors.ErrCodeUnauthorized, "Authentication required", nil)
		return
	}

	list, err := h.reports.ListByEmployee(claims.UserID)
	if err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, errors.Format(err), nil)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *ReportHandler) ListPending(w http.ResponseWriter, r *http.Request) {
	list, err := h.reports.ListPendingApproval()
	if err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, errors.Format(err), nil)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// UploadAttachment accepts a multipart file capped at the configured size
// and stores it through the storage backend.
func (h *ReportHandler) UploadAttachment(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)
	if claims == nil {
		errors.WriteError(w, http.StatusUnauthorized, errors.ErrCodeUnauthorized, "Authentication required", nil)
		return
	}
	reportID := paramFrom(r, "report_id")

	rep, err := h.reports.Get(reportID)
	if err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, errors.Format(err), nil)
		return
	}
	if rep == nil {
		errors.WriteError(w, http.StatusNotFound, errors.ErrCodeNotFound, "Report not found", nil)
		return
	}
	if rep.EmployeeID != claims.UserID && claims.Role != string(models.RoleAdmin) {
		errors.WriteError(w, http.StatusForbidden, errors.ErrCodeForbidden, "You can only attach files to your own reports", nil)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		errors.WriteError(w, http.StatusRequestEntityTooLarge, errors.ErrCodeTooLarge,
			fmt.Sprintf("File exceeds the %d MB upload limit", h.maxUploadSize/(1<<20)), nil)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "file field is required", nil)
		return
	}
	defer file.Close()

	attachmentID := "att_" + uuid.NewString()
	storagePath, err := h.store.Upload(r.Context(), attachmentID, header.Filename, file)
	if err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, errors.Format(err), nil)
		return
	}

	att := &models.ReportAttachment{
		ID:          attachmentID,
		ReportID:    reportID,
		FileName:    header.Filename,
		StoragePath: storagePath,
		SizeBytes:   header.Size,
		UploadedBy:  claims.UserID,
		CreatedAt:   time.Now().Unix(),
	}
	if err := h.attachments.Create(att); err != nil {
		h.store.Delete(r.Context(), storagePath)
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, errors.Format(err), nil)
		return
	}

	h.audit.Record(claims.UserID, "attachment_uploaded", "report_attachment", att.ID, r.RemoteAddr, nil)
	writeJSON(w, http.StatusCreated, att)
}

func (h *ReportHandler) DownloadAttachment(w http.ResponseWriter, r *http.Request) {
	att, err := h.attachments.GetByID(paramFrom(r, "attachment_id"))
	if err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, errors.Format(err), nil)
		return
	}
	if att == nil {
		errors.WriteError(w, http.StatusNotFound, errors.ErrCodeNotFound, "Attachment not found", nil)
		return
	}

	rc, err := h.store.Download(r.Context(), att.StoragePath)
	if err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, errors.Format(err), nil)
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", att.FileName))
	w.Header().Set("Content-Type", "application/octet-stream")
	io.Copy(w, rc)
}

func (h *ReportHandler) ListAttachments(w http.ResponseWriter, r *http.Request) {
	list, err := h.attachments.ListByReport(paramFrom(r, "report_id"))
	if err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, errors.Format(err), nil)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *ReportHandler) ListFeedback(w http.ResponseWriter, r *http.Request) {
	list, err := h.feedback.ListByReport(paramFrom(r, "report_id"))
	if err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, errors.Format(err), nil)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *ReportHandler) AddFeedback(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)
	if claims == nil {
		errors.WriteError(w, http.StatusUnauthorized, errors.ErrCodeUnauthorized, "Authentication required", nil)
		return
	}

	var req struct {
		Body string `json:"body"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Body == "" {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "body is required", nil)
		return
	}

	fb := &models.ReportFeedback{
		ID:        "fbk_" + uuid.NewString(),
		ReportID:  paramFrom(r, "report_id"),
		AuthorID:  claims.UserID,
		Body:      req.Body,
		CreatedAt: time.Now().Unix(),
	}
	if err := h.feedback.Create(fb); err != nil {
		if errors.IsForeignKey(err) {
			errors.WriteError(w, http.StatusNotFound, errors.ErrCodeNotFound, "Report not found", nil)
			return
		}
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, errors.Format(err), nil)
		return
	}
	writeJSON(w, http.StatusCreated, fb)
}
