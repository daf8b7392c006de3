package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"

	"clientflow/internal/pkg/errors"
	"clientflow/internal/platform/models"
	"clientflow/internal/platform/repositories"
)

type NoteHandler struct {
	notes *repositories.NoteRepository
}

func NewNoteHandler(notes *repositories.NoteRepository) *NoteHandler {
	return &NoteHandler{notes: notes}
}

func (h *NoteHandler) Create(w http.ResponseWriter, r *http.Request) {
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

	note := &models.ClientNote{
		ID:        "not_" + uuid.NewString(),
		ClientID:  paramFrom(r, "client_id"),
		AuthorID:  claims.UserID,
		Body:      req.Body,
		CreatedAt: time.Now().Unix(),
	}
	if err := h.notes.Create(note); err != nil {
		if errors.IsForeignKey(err) {
			errors.WriteError(w, http.StatusNotFound, errors.ErrCodeNotFound, "Client not found", nil)
			return
		}
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, errors.Format(err), nil)
		return
	}
	writeJSON(w, http.StatusCreated, note)
}

func (h *NoteHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.notes.ListByClient(paramFrom(r, "client_id"))
	if err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, errors.Format(err), nil)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// Delete removes a note the caller authored.
func (h *NoteHandler) Delete(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)
	if claims == nil {
		errors.WriteError(w, http.StatusUnauthorized, errors.ErrCodeUnauthorized, "Authentication required", nil)
		return
	}

	removed, err := h.notes.Delete(paramFrom(r, "note_id"), claims.UserID)
	if err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, errors.Format(err), nil)
		return
	}
	if !removed {
		errors.WriteError(w, http.StatusNotFound, errors.ErrCodeNotFound, "Note not found", nil)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
