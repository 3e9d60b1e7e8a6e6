package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/benvon/thai-toolkit/internal/models"
)

const (
	// AuthCookieName holds the signed login session.
	AuthCookieName = "thai-toolkit-auth"

	// AuthPathPrefix is never guarded so the login form stays reachable.
	AuthPathPrefix = "/api/v1/auth/"
)

// SessionVerifier checks the token stored in the auth cookie.
type SessionVerifier interface {
	Verify(token string) (*models.SessionClaims, error)
}

// CheckPassword compares candidate with the configured password in constant time.
func CheckPassword(configured, candidate string) bool {
	if configured == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(configured), []byte(candidate)) == 1
}

// AuthCookie returns the cookie set after a successful login.
func AuthCookie(token string, ttl time.Duration, secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     AuthCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// ClearAuthCookie returns a cookie that removes the login session.
func ClearAuthCookie(secure bool) *http.Cookie {
	c := AuthCookie("", 0, secure)
	c.MaxAge = -1
	return c
}

// HasValidSession reports whether r carries an auth cookie that sessions accepts.
func HasValidSession(r *http.Request, sessions SessionVerifier) bool {
	if sessions == nil {
		return false
	}
	c, err := r.Cookie(AuthCookieName)
	if err != nil {
		return false
	}
	_, err = sessions.Verify(c.Value)
	return err == nil
}

// RequirePassword rejects requests without a valid login session when a
// password is configured. With no password every request passes.
func RequirePassword(password string, sessions SessionVerifier, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if password == "" {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if strings.HasPrefix(r.URL.Path, AuthPathPrefix) {
				next.ServeHTTP(w, r)
				return
			}
			if !HasValidSession(r, sessions) {
				respondErrorJSON(w, r, http.StatusUnauthorized, "Unauthorized", "Authentication required", logger)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
