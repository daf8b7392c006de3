package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	apiContext "clientflow/internal/api/context"
	"clientflow/internal/platform/auth"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func claimsFrom(r *http.Request) *auth.Claims {
	claims, _ := r.Context().Value(apiContext.Claims).(*auth.Claims)
	return claims
}

func paramFrom(r *http.Request, name string) string {
	params, _ := r.Context().Value(apiContext.Params).(httprouter.Params)
	return params.ByName(name)
}
