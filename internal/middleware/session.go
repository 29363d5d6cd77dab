package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/rpattn/fleetgrid/internal/auth"
)

// RequireSession rejects requests without a live admin session and attaches
// the authenticated admin to the request context.
func RequireSession(sessions *auth.SessionStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(auth.SessionCookieName)
			if err != nil {
				unauthorized(w)
				return
			}

			admin, ok := sessions.Lookup(cookie.Value)
			if !ok {
				unauthorized(w)
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.ContextWithAdmin(r.Context(), admin)))
		})
	}
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"error": "authentication required"})
}
