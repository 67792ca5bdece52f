package middleware

import (
	"net/http"
	"strings"

	"absencer/internal/api"
	"absencer/internal/auth"
)

// RequireAuth validates the bearer token on protected routes. An empty
// secret disables authentication and the middleware passes every request
// through.
func RequireAuth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if secret == "" {
				next.ServeHTTP(w, r)
				return
			}

			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				api.Fail(w, http.StatusUnauthorized, "missing_token", "missing bearer token", GetRequestID(r.Context()))
				return
			}
			if _, err := auth.ParseToken(secret, token); err != nil {
				api.Fail(w, http.StatusUnauthorized, "invalid_token", "invalid or expired token", GetRequestID(r.Context()))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
