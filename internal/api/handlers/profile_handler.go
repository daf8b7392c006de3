package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"clientflow/internal/pkg/errors"
	"clientflow/internal/pkg/validator"
	"clientflow/internal/platform/auth"
	"clientflow/internal/platform/models"
	"clientflow/internal/platform/repositories"
)

// ProfileHandler serves GET /api/profile, the session bootstrap endpoint: a
// bearer token in, either the internal profile or a portal-user marker out.
// It validates the token itself so a 401 here is unambiguous to session
// managers.
type ProfileHandler struct {
	profileRepo *repositories.ProfileRepository
	tokenSvc    *auth.TokenService
}

func NewProfileHandler(profileRepo *repositories.ProfileRepository, tokenSvc *auth.TokenService) *ProfileHandler {
	return &ProfileHandler{profileRepo: profileRepo, tokenSvc: tokenSvc}
}

type ProfileResponse struct {
	PortalUser bool            `json:"portal_user,omitempty"`
	ClientID   string          `json:"client_id,omitempty"`
	Profile    *models.Profile `json:"profile,omitempty"`
}

func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	authHeader := r.Header.Get("Authorization")
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		errors.WriteError(w, http.StatusUnauthorized, errors.ErrCodeUnauthorized, "Missing bearer token", nil)
		return
	}

	claims, err := h.tokenSvc.ValidateToken(parts[1])
	if err != nil {
		errors.WriteError(w, http.StatusUnauthorized, errors.ErrCodeUnauthorized, "Invalid or expired token", nil)
		return
	}

	profile, err := h.profileRepo.GetByID(claims.UserID)
	if err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, errors.Format(err), nil)
		return
	}
	if profile == nil || profile.DeletedAt != nil {
		errors.WriteError(w, http.StatusUnauthorized, errors.ErrCodeUnauthorized, "Account not found", nil)
		return
	}

	if profile.Role == models.RolePortal {
		writeJSON(w, http.StatusOK, ProfileResponse{PortalUser: true, ClientID: profile.ClientID})
		return
	}

	writeJSON(w, http.StatusOK, ProfileResponse{Profile: profile})
}

// List is the admin employee directory.
func (h *ProfileHandler) List(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.profileRepo.List()
	if err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, errors.Format(err), nil)
		return
	}
	writeJSON(w, http.StatusOK, profiles)
}

// UpdateStatus suspends or reactivates an account. Suspended accounts fail
// login but keep their history.
func (h *ProfileHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Invalid request body", nil)
		return
	}
	if req.Status != "active" && req.Status != "suspended" {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "status must be active or suspended", nil)
		return
	}

	userID := paramFrom(r, "user_id")
	profile, err := h.profileRepo.GetByID(userID)
	if err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, errors.Format(err), nil)
		return
	}
	if profile == nil {
		errors.WriteError(w, http.StatusNotFound, errors.ErrCodeNotFound, "Account not found", nil)
		return
	}

	if err := h.profileRepo.UpdateStatus(userID, req.Status); err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, errors.Format(err), nil)
		return
	}
	profile.Status = req.Status
	writeJSON(w, http.StatusOK, profile)
}

type portalAccountRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
	ClientID string `json:"client_id"`
}

// CreatePortalAccount provisions a read-only login tied to one client.
func (h *ProfileHandler) CreatePortalAccount(w http.ResponseWriter, r *http.Request) {
	var req portalAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Invalid request body", nil)
		return
	}
	if req.ClientID == "" {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "client_id is required", nil)
		return
	}
	if err := validator.ValidateEmail(req.Email); err != nil {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, err.Error(), nil)
		return
	}
	if err := validator.ValidatePassword(req.Password); err != nil {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, err.Error(), nil)
		return
	}

	existing, err := h.profileRepo.GetByEmail(req.Email)
	if err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, errors.Format(err), nil)
		return
	}
	if existing != nil {
		errors.WriteError(w, http.StatusConflict, errors.ErrCodeConflict, "An account with this email already exists", nil)
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, errors.MsgFallback, nil)
		return
	}

	now := time.Now().Unix()
	profile := &models.Profile{
		ID:           "usr_" + uuid.NewString(),
		Email:        req.Email,
		PasswordHash: string(hashed),
		FullName:     req.FullName,
		Role:         models.RolePortal,
		Status:       "active",
		ClientID:     req.ClientID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := h.profileRepo.Create(profile); err != nil {
		if errors.IsForeignKey(err) {
			errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, errors.MsgMissingRef, nil)
			return
		}
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, errors.Format(err), nil)
		return
	}
	writeJSON(w, http.StatusCreated, profile)
}
