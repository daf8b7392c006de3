package handlers

import (
	"encoding/json"
	"net/http"

	"clientflow/internal/engine/scope"
	"clientflow/internal/pkg/errors"
	"clientflow/internal/platform/models"
)

// QueryHandler exposes the scoped table fetch used by dashboard widgets and
// list views. Ownership narrowing is applied server-side from the caller's
// claims, never from the request body.
type QueryHandler struct {
	runner *scope.Runner
}

func NewQueryHandler(runner *scope.Runner) *QueryHandler {
	return &QueryHandler{runner: runner}
}

type queryRequest struct {
	Table      string                 `json:"table"`
	Columns    []string               `json:"columns"`
	Filters    map[string]interface{} `json:"filters"`
	OrderBy    string                 `json:"order_by"`
	Descending bool                   `json:"descending"`
	Limit      int                    `json:"limit"`
	Page       int                    `json:"page"`
	PageSize   int                    `json:"page_size"`
}

func (h *QueryHandler) Query(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)
	if claims == nil {
		errors.WriteError(w, http.StatusUnauthorized, errors.ErrCodeUnauthorized, "Authentication required", nil)
		return
	}

	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Invalid request body", nil)
		return
	}
	if req.Table == "" {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "table is required", nil)
		return
	}

	principal := scope.Principal{
		UserID: claims.UserID,
		Role:   models.Role(claims.Role),
	}
	q := &scope.Query{
		Table:      req.Table,
		Columns:    req.Columns,
		Filters:    req.Filters,
		OrderBy:    req.OrderBy,
		Descending: req.Descending,
		Limit:      req.Limit,
		Page:       req.Page,
		PageSize:   req.PageSize,
	}

	result, err := h.runner.Run(r.Context(), principal, q)
	if err != nil {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, errors.Format(err), nil)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
