package handlers

import (
	"encoding/json"
	"net/http"

	"clientflow/internal/engine/credentials"
	"clientflow/internal/pkg/errors"
	"clientflow/internal/platform/audit"
	"clientflow/internal/platform/repositories"
)

type CredentialHandler struct {
	creds    *credentials.Service
	profiles *repositories.ProfileRepository
	audit    *audit.Logger
}

func NewCredentialHandler(creds *credentials.Service, profiles *repositories.ProfileRepository, auditLog *audit.Logger) *CredentialHandler {
	return &CredentialHandler{creds: creds, profiles: profiles, audit: auditLog}
}

type credentialRequest struct {
	ClientID string `json:"client_id"`
	Label    string `json:"label"`
	Username string `json:"username"`
	Password string `json:"password"`
	Notes    string `json:"notes"`
}

func (h *CredentialHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req credentialRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Invalid request body", nil)
		return
	}
	if req.ClientID == "" || req.Label == "" {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "client_id and label are required", nil)
		return
	}

	cred, err := h.creds.Create(req.ClientID, req.Label, req.Username, req.Password, req.Notes)
	if err != nil {
		if errors.IsForeignKey(err) {
			errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, errors.MsgMissingRef, nil)
			return
		}
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, errors.Format(err), nil)
		return
	}

	if claims := claimsFrom(r); claims != nil {
		h.audit.Record(claims.UserID, "credential_created", "client_credential", cred.ID, r.RemoteAddr, nil)
	}
	writeJSON(w, http.StatusCreated, cred)
}

func (h *CredentialHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req credentialRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Invalid request body", nil)
		return
	}

	credID := paramFrom(r, "credential_id")
	cred, err := h.creds.Update(credID, req.Label, req.Username, req.Password, req.Notes)
	if err != nil {
		if err == credentials.ErrNotFound {
			errors.WriteError(w, http.StatusNotFound, errors.ErrCodeNotFound, "Credential not found", nil)
			return
		}
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, errors.Format(err), nil)
		return
	}

	if claims := claimsFrom(r); claims != nil {
		h.audit.Record(claims.UserID, "credential_updated", "client_credential", credID, r.RemoteAddr, nil)
	}
	writeJSON(w, http.StatusOK, cred)
}

func (h *CredentialHandler) Delete(w http.ResponseWriter, r *http.Request) {
	credID := paramFrom(r, "credential_id")
	if err := h.creds.Delete(credID); err != nil {
		if err == credentials.ErrNotFound {
			errors.WriteError(w, http.StatusNotFound, errors.ErrCodeNotFound, "Credential not found", nil)
			return
		}
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, errors.Format(err), nil)
		return
	}

	if claims := claimsFrom(r); claims != nil {
		h.audit.Record(claims.UserID, "credential_deleted", "client_credential", credID, r.RemoteAddr, nil)
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListForClient returns a client's credentials. Passwords stay sealed unless
// ?reveal=true, and non-admins must be assigned to the client. Reveals are
// audited.
func (h *CredentialHandler) ListForClient(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)
	if claims == nil {
		errors.WriteError(w, http.StatusUnauthorized, errors.ErrCodeUnauthorized, "Authentication required", nil)
		return
	}

	viewer, err := h.profiles.GetByID(claims.UserID)
	if err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, errors.Format(err), nil)
		return
	}
	if viewer == nil {
		errors.WriteError(w, http.StatusUnauthorized, errors.ErrCodeUnauthorized, "Account no longer exists", nil)
		return
	}

	clientID := paramFrom(r, "client_id")
	reveal := r.URL.Query().Get("reveal") == "true"

	list, err := h.creds.ListForViewer(viewer, clientID, reveal)
	if err != nil {
		if err == credentials.ErrNotAssigned {
			errors.WriteError(w, http.StatusForbidden, errors.ErrCodeForbidden, "You are not assigned to this client", nil)
			return
		}
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, errors.Format(err), nil)
		return
	}

	if reveal {
		h.audit.Record(claims.UserID, "credentials_revealed", "client", clientID, r.RemoteAddr, nil)
	}
	writeJSON(w, http.StatusOK, list)
}
