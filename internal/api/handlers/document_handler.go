package handlers

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"clientflow/internal/pkg/errors"
	"clientflow/internal/platform/audit"
	"clientflow/internal/platform/models"
	"clientflow/internal/platform/repositories"
	"clientflow/internal/platform/storage"
)

type DocumentHandler struct {
	documents     *repositories.DocumentRepository
	store         storage.Store
	maxUploadSize int64
	audit         *audit.Logger
}

func NewDocumentHandler(documents *repositories.DocumentRepository, store storage.Store, maxUploadSize int64, auditLog *audit.Logger) *DocumentHandler {
	return &DocumentHandler{documents: documents, store: store, maxUploadSize: maxUploadSize, audit: auditLog}
}

// Upload stores a shared document. An empty client_id makes it visible
// company-wide.
func (h *DocumentHandler) Upload(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)
	if claims == nil {
		errors.WriteError(w, http.StatusUnauthorized, errors.ErrCodeUnauthorized, "Authentication required", nil)
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

	title := r.FormValue("title")
	if title == "" {
		title = header.Filename
	}

	docID := "doc_" + uuid.NewString()
	storagePath, err := h.store.Upload(r.Context(), docID, header.Filename, file)
	if err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, errors.Format(err), nil)
		return
	}

	doc := &models.SharedDocument{
		ID:          docID,
		Title:       title,
		FileName:    header.Filename,
		StoragePath: storagePath,
		SizeBytes:   header.Size,
		UploadedBy:  claims.UserID,
		ClientID:    r.FormValue("client_id"),
		CreatedAt:   time.Now().Unix(),
	}
	if err := h.documents.Create(doc); err != nil {
		h.store.Delete(r.Context(), storagePath)
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, errors.Format(err), nil)
		return
	}

	h.audit.Record(claims.UserID, "document_uploaded", "shared_document", doc.ID, r.RemoteAddr, nil)
	writeJSON(w, http.StatusCreated, doc)
}

func (h *DocumentHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.documents.List(r.URL.Query().Get("client_id"))
	if err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, errors.Format(err), nil)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *DocumentHandler) Download(w http.ResponseWriter, r *http.Request) {
	doc, err := h.documents.GetByID(paramFrom(r, "document_id"))
	if err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, errors.Format(err), nil)
		return
	}
	if doc == nil {
		errors.WriteError(w, http.StatusNotFound, errors.ErrCodeNotFound, "Document not found", nil)
		return
	}

	rc, err := h.store.Download(r.Context(), doc.StoragePath)
	if err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, errors.Format(err), nil)
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.FileName))
	w.Header().Set("Content-Type", "application/octet-stream")
	io.Copy(w, rc)
}

func (h *DocumentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	doc, err := h.documents.GetByID(paramFrom(r, "document_id"))
	if err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, errors.Format(err), nil)
		return
	}
	if doc == nil {
		errors.WriteError(w, http.StatusNotFound, errors.ErrCodeNotFound, "Document not found", nil)
		return
	}

	if err := h.documents.Delete(doc.ID); err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, errors.Format(err), nil)
		return
	}
	h.store.Delete(r.Context(), doc.StoragePath)

	if claims := claimsFrom(r); claims != nil {
		h.audit.Record(claims.UserID, "document_deleted", "shared_document", doc.ID, r.RemoteAddr, nil)
	}
	w.WriteHeader(http.StatusNoContent)
}
