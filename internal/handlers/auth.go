package handlers

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/benvon/thai-toolkit/internal/logger"
	"github.com/benvon/thai-toolkit/internal/middleware"
	"github.com/benvon/thai-toolkit/internal/request"
)

// Sessions issues and verifies login session tokens
type Sessions interface {
	middleware.SessionVerifier
	Issue() (string, error)
	TTL() time.Duration
}

// AuthHandler handles the shared-password login
type AuthHandler struct {
	password     string
	sessions     Sessions
	secureCookie bool
	logger       *zap.Logger
}

// NewAuthHandler creates a new auth handler. An empty password disables login.
func NewAuthHandler(password string, sessions Sessions, secureCookie bool, log *zap.Logger) *AuthHandler {
	return &AuthHandler{
		password:     password,
		sessions:     sessions,
		secureCookie: secureCookie,
		logger:       logger.OrNop(log),
	}
}

// RegisterRoutes registers auth routes on the given router
// The router should already have the /api/v1/auth prefix
func (h *AuthHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/login", h.Login).Methods("POST")
	r.HandleFunc("/logout", h.Logout).Methods("POST")
	r.HandleFunc("/status", h.Status).Methods("GET")
}

// LoginRequest represents a login request
type LoginRequest struct {
	Password string `json:"password" validate:"max=1024"`
}

// AuthStatus reports whether the caller is signed in
type AuthStatus struct {
	Authenticated bool `json:"authenticated"`
	Required      bool `json:"required"`
}

// Login checks the password and sets the auth cookie
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if h.password == "" || h.sessions == nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Password not configured")
		return
	}

	if !middleware.CheckPassword(h.password, req.Password) {
		h.logger.Warn("login_failed", zap.String("client_ip", request.ClientIP(r)))
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "Incorrect password")
		return
	}

	token, err := h.sessions.Issue()
	if err != nil {
		h.logger.Error("failed_to_issue_session", zap.Error(err))
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to start session")
		return
	}

	http.SetCookie(w, middleware.AuthCookie(token, h.sessions.TTL(), h.secureCookie))
	respondJSON(w, http.StatusOK, AuthStatus{Authenticated: true, Required: true})
}

// Logout clears the auth cookie
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, middleware.ClearAuthCookie(h.secureCookie))
	respondJSON(w, http.StatusOK, AuthStatus{Authenticated: false, Required: h.password != ""})
}

// Status reports whether a password is required and whether the caller has
// a valid session
func (h *AuthHandler) Status(w http.ResponseWriter, r *http.Request) {
	required := h.password != ""
	respondJSON(w, http.StatusOK, AuthStatus{
		Authenticated: !required || middleware.HasValidSession(r, h.sessions),
		Required:      required,
	})
}
