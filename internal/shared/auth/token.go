package auth

import (
	"net/http"
	"strings"
)

const bearerPrefix = "bearer "

// ExtractBearerToken returns the token carried in the Authorization header,
// or an empty string when the header is missing or not a bearer scheme.
func ExtractBearerToken(r *http.Request) string {
	if r == nil {
		return ""
	}
	return ExtractBearerTokenFromHeader(r.Header.Get("Authorization"))
}

func ExtractBearerTokenFromHeader(header string) string {
	header = strings.TrimSpace(header)
	if len(header) < len(bearerPrefix) {
		return ""
	}
	if !strings.EqualFold(header[:len(bearerPrefix)], bearerPrefix) {
		return ""
	}
	return strings.TrimSpace(header[len(bearerPrefix):])
}

// ExtractToken looks for a token in the Authorization header first, then in
// the named query parameter ("token" when empty). WebSocket clients in
// browsers cannot set headers, so the query fallback matters there.
func ExtractToken(r *http.Request, queryParam string) string {
	if token := ExtractBearerToken(r); token != "" {
		return token
	}
	if r == nil || r.URL == nil {
		return ""
	}
	if queryParam == "" {
		queryParam = "token"
	}
	return strings.TrimSpace(r.URL.Query().Get(queryParam))
}
