package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/rpattn/fleetgrid/internal/auth"
	"github.com/rpattn/fleetgrid/internal/domain"
	"github.com/rpattn/fleetgrid/internal/repository"
)

// AuthHandler serves login, logout and session introspection.
type AuthHandler struct {
	admins     repository.AdminRepository
	sessions   *auth.SessionStore
	sessionTTL time.Duration
}

// NewAuthHandler creates an auth handler.
func NewAuthHandler(admins repository.AdminRepository, sessions *auth.SessionStore, sessionTTL time.Duration) *AuthHandler {
	return &AuthHandler{admins: admins, sessions: sessions, sessionTTL: sessionTTL}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if strings.TrimSpace(req.Username) == "" || req.Password == "" {
		writeError(w, &domain.RequestValidationError{Fields: []domain.FieldError{
			{Field: "username", Message: "username and password are required"},
		}})
		return
	}

	admin, err := h.admins.FindByUsername(r.Context(), req.Username)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid credentials"})
			return
		}
		writeError(w, err)
		return
	}

	if !auth.VerifyPassword(req.Password, admin.PasswordSalt, admin.PasswordHash) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid credentials"})
		return
	}

	token := h.sessions.Create(auth.AdminIdentity{ID: admin.ID, Username: admin.Username})
	http.SetCookie(w, &http.Cookie{
		Name:     auth.SessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(h.sessionTTL.Seconds()),
	})
	writeJSON(w, http.StatusOK, map[string]string{"username": admin.Username})
}

// Logout handles POST /api/auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(auth.SessionCookieName); err == nil {
		h.sessions.Delete(cookie.Value)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     auth.SessionCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
	w.WriteHeader(http.StatusNoContent)
}

// Me handles GET /api/auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	admin, ok := auth.AdminFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "authentication required"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"id": admin.ID, "username": admin.Username})
}
