package auth

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/joestump/bookmarks/internal/logger"
)

// StaticBearer authenticates API requests against a single configured token.
type StaticBearer struct {
	token []byte
	log   logger.Logger
}

// NewStaticBearer creates a StaticBearer that accepts only token.
func NewStaticBearer(token string, log logger.Logger) *StaticBearer {
	return &StaticBearer{token: []byte(token), log: log}
}

// Authenticate is an http.Handler middleware that checks the Bearer token.
// A missing or mismatched token is logged and answered with 401 before any
// handler runs.
func (m *StaticBearer) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !m.valid(r.Header.Get("Authorization")) {
			m.log.Warn("unauthorized request",
				logger.String("method", r.Method),
				logger.String("path", r.URL.Path),
				logger.String("remote_ip", r.RemoteAddr),
			)
			writeUnauthorized(w)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (m *StaticBearer) valid(header string) bool {
	scheme, presented, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || presented == "" || len(m.token) == 0 {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(presented), m.token) == 1
}

// writeUnauthorized writes a 401 JSON response in the API error shape.
func writeUnauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("WWW-Authenticate", `Bearer realm="bookmarks"`)
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]map[string]string{
		"error": {"message": "Unauthorized request"},
	})
}
