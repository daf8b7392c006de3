package auth

import (
	"net/http"
	"strings"
)

// Keywords that mark an error message as an authentication failure even when
// no HTTP status is available (driver errors, wrapped client errors).
var authErrorKeywords = []string{
	"invalid claim",
	"expired",
	"invalid signature",
	"invalid token",
	"jwt",
	"unauthorized",
	"session",
}

// IsAuthError classifies an error plus an optional HTTP status as an
// authentication failure. The classification is total: any input yields a
// boolean, and status 401 or 403 is always classified true regardless of
// message content. Pass status 0 when no HTTP response was involved.
func IsAuthError(err error, status int) bool {
	if status == http.StatusUnauthorized || status == http.StatusForbidden {
		return true
	}
	if err == nil {
		return false
	}

	msg := strings.ToLower(err.Error())
	for _, kw := range authErrorKeywords {
		if strings.Contains(msg, kw) {
			return true
		}
	}
	return false
}
