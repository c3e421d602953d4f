package auth

import (
	"crypto/subtle"
	"net/http"
	"strings"
)

// BearerToken extracts the token from "Authorization: Bearer <token>".
// present is false when the header is missing or uses another scheme.
func BearerToken(r *http.Request) (token string, present bool) {
	h := r.Header.Get("Authorization")
	if h == "" {
		return "", false
	}
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return strings.TrimSpace(parts[1]), true
}

// keyMatches compares a presented key to the configured one in constant time.
// An empty configured key matches nothing.
func keyMatches(want, got string) bool {
	if want == "" || got == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(want), []byte(got)) == 1
}
