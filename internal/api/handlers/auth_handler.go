package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"clientflow/internal/pkg/errors"
	"clientflow/internal/pkg/validator"
	"clientflow/internal/platform/audit"
	"clientflow/internal/platform/auth"
	"clientflow/internal/platform/models"
	"clientflow/internal/platform/repositories"
)

type AuthHandler struct {
	profileRepo *repositories.ProfileRepository
	tokenSvc    *auth.TokenService
	audit       *audit.Logger
}

func NewAuthHandler(profileRepo *repositories.ProfileRepository, tokenSvc *auth.TokenService, auditLog *audit.Logger) *AuthHandler {
	return &AuthHandler{profileRepo: profileRepo, tokenSvc: tokenSvc, audit: auditLog}
}

type SignupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
}

type TokenResponse struct {
	AccessToken  string          `json:"access_token"`
	RefreshToken string          `json:"refresh_token"`
	Profile      *models.Profile `json:"profile,omitempty"`
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Invalid request body", nil)
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
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Failed to hash password", nil)
		return
	}

	now := time.Now().Unix()
	profile := &models.Profile{
		ID:           "usr_" + uuid.NewString(),
		Email:        req.Email,
		PasswordHash: string(hashed),
		FullName:     req.FullName,
		Role:         models.RoleEmployee,
		Status:       "active",
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := h.profileRepo.Create(profile); err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, errors.Format(err), nil)
		return
	}

	accessToken, refreshToken, err := h.issueTokens(profile)
	if err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Failed to generate token", nil)
		return
	}

	h.audit.Record(profile.ID, "signup", "profile", profile.ID, r.RemoteAddr, nil)
	writeJSON(w, http.StatusCreated, TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		Profile:      profile,
	})
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Invalid request body", nil)
		return
	}

	profile, err := h.profileRepo.GetByEmail(req.Email)
	if err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, errors.Format(err), nil)
		return
	}
	if profile == nil || profile.DeletedAt != nil {
		errors.WriteError(w, http.StatusUnauthorized, errors.ErrCodeUnauthorized, "Invalid credentials", nil)
		return
	}
	if profile.Status != "active" {
		errors.WriteError(w, http.StatusForbidden, errors.ErrCodeForbidden, "Account is suspended", nil)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(profile.PasswordHash), []byte(req.Password)); err != nil {
		errors.WriteError(w, http.StatusUnauthorized, errors.ErrCodeUnauthorized, "Invalid credentials", nil)
		return
	}

	accessToken, refreshToken, err := h.issueTokens(profile)
	if err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Failed to generate token", nil)
		return
	}

	if err := h.profileRepo.UpdateLastLogin(profile.ID, time.Now().Unix()); err != nil {
		log.Error().Err(err).Str("user_id", profile.ID).Msg("failed to update last login")
	}
	h.audit.Record(profile.ID, "login", "profile", profile.ID, r.RemoteAddr, nil)

	writeJSON(w, http.StatusOK, TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		Profile:      profile,
	})
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Invalid request body", nil)
		return
	}

	claims, err := h.tokenSvc.ValidateToken(req.RefreshToken)
	if err != nil {
		errors.WriteError(w, http.StatusUnauthorized, errors.ErrCodeUnauthorized, "Invalid refresh token", nil)
		return
	}

	profile, err := h.profileRepo.GetByID(claims.Subject)
	if err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, errors.Format(err), nil)
		return
	}
	if profile == nil || profile.DeletedAt != nil {
		errors.WriteError(w, http.StatusUnauthorized, errors.ErrCodeUnauthorized, "Account not found", nil)
		return
	}

	accessToken, refreshToken, err := h.issueTokens(profile)
	if err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Failed to generate token", nil)
		return
	}

	writeJSON(w, http.StatusOK, TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	// Tokens are stateless; logout exists so clients have a definite
	// sign-out signal and the action lands in the activity log.
	if claims := claimsFrom(r); claims != nil {
		h.audit.Record(claims.UserID, "logout", "profile", claims.UserID, r.RemoteAddr, nil)
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "signed_out"})
}

type ResetPasswordRequest struct {
	Email string `json:"email"`
}

func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req ResetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Invalid request body", nil)
		return
	}

	// Always answer 200 so the endpoint cannot be used to probe for
	// registered addresses.
	profile, err := h.profileRepo.GetByEmail(req.Email)
	if err == nil && profile != nil {
		h.audit.Record(profile.ID, "password_reset_requested", "profile", profile.ID, r.RemoteAddr, nil)
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "reset_requested"})
}

type UpdatePasswordRequest struct {
	Password string `json:"password"`
}

func (h *AuthHandler) UpdatePassword(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)

	var req UpdatePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Invalid request body", nil)
		return
	}

	if err := validator.ValidatePassword(req.Password); err != nil {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, err.Error(), nil)
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Failed to hash password", nil)
		return
	}

	if err := h.profileRepo.UpdatePassword(claims.UserID, string(hashed)); err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, errors.Format(err), nil)
		return
	}

	h.audit.Record(claims.UserID, "password_updated", "profile", claims.UserID, r.RemoteAddr, nil)
	writeJSON(w, http.StatusOK, map[string]string{"status": "password_updated"})
}

func (h *AuthHandler) issueTokens(profile *models.Profile) (string, string, error) {
	accessToken, err := h.tokenSvc.GenerateAccessToken(profile.ID, string(profile.Role), profile.Email, profile.ClientID)
	if err != nil {
		return "", "", err
	}
	refreshToken, err := h.tokenSvc.GenerateRefreshToken(profile.ID)
	if err != nil {
		return "", "", err
	}
	return accessToken, refreshToken, nil
}
