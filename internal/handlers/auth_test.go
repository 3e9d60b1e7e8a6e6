package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"

	"github.com/benvon/thai-toolkit/internal/middleware"
	"github.com/benvon/thai-toolkit/internal/services/session"
)

func newSessions(t *testing.T) *session.Manager {
	t.Helper()
	m, err := session.NewManager("test-secret")
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}
	return m
}

func newAuthRouter(t *testing.T, password string) (*mux.Router, *session.Manager) {
	t.Helper()
	sessions := newSessions(t)
	r := mux.NewRouter()
	NewAuthHandler(password, sessions, true, nil).RegisterRoutes(r.PathPrefix("/api/v1/auth").Subrouter())
	return r, sessions
}

func TestAuthHandler_Login(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		configured string
		body       string
		wantStatus int
		wantCookie bool
		wantMsg    string
	}{
		{name: "correct password", configured: "sawasdee", body: `{"password":"sawasdee"}`, wantStatus: http.StatusOK, wantCookie: true},
		{name: "wrong password", configured: "sawasdee", body: `{"password":"hello"}`, wantStatus: http.StatusUnauthorized, wantMsg: "Incorrect password"},
		{name: "empty password", configured: "sawasdee", body: `{"password":""}`, wantStatus: http.StatusUnauthorized, wantMsg: "Incorrect password"},
		{name: "not configured", configured: "", body: `{"password":"x"}`, wantStatus: http.StatusInternalServerError, wantMsg: "Password not configured"},
		{name: "invalid body", configured: "sawasdee", body: `password`, wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			r, sessions := newAuthRouter(t, tt.configured)
			rec := post(t, r, "/api/v1/auth/login", tt.body)
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}

			var auth *http.Cookie
			for _, c := range rec.Result().Cookies() {
				if c.Name == middleware.AuthCookieName {
					auth = c
				}
			}
			if (auth != nil) != tt.wantCookie {
				t.Fatalf("auth cookie set = %v, want %v", auth != nil, tt.wantCookie)
			}
			if auth != nil {
				if _, err := sessions.Verify(auth.Value); err != nil {
					t.Errorf("cookie value does not verify: %v", err)
				}
				if !auth.HttpOnly || !auth.Secure || auth.SameSite != http.SameSiteLaxMode {
					t.Errorf("cookie = %+v", auth)
				}
				if auth.MaxAge != 30*24*60*60 {
					t.Errorf("MaxAge = %d, want 30 days", auth.MaxAge)
				}
			}
			if tt.wantMsg != "" {
				meta, _ := decodeEnvelope(t, rec)
				if meta["message"] != tt.wantMsg {
					t.Errorf("message = %v, want %q", meta["message"], tt.wantMsg)
				}
			}
		})
	}
}

func TestAuthHandler_LogoutAndStatus(t *testing.T) {
	t.Parallel()
	r, _ := newAuthRouter(t, "sawasdee")

	rec := post(t, r, "/api/v1/auth/logout", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("logout status = %d", rec.Code)
	}
	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].MaxAge >= 0 {
		t.Errorf("logout cookies = %+v", cookies)
	}

	tests := []struct {
		name     string
		password string
		cookie   string
		want     AuthStatus
	}{
		{name: "no cookie", password: "p", want: AuthStatus{Authenticated: false, Required: true}},
		{name: "valid session", password: "p", cookie: "issue", want: AuthStatus{Authenticated: true, Required: true}},
		{name: "forged cookie", password: "p", cookie: "authenticated", want: AuthStatus{Authenticated: false, Required: true}},
		{name: "open install", password: "", want: AuthStatus{Authenticated: true, Required: false}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			router, sessions := newAuthRouter(t, tt.password)
			req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/status", nil)
			switch tt.cookie {
			case "":
			case "issue":
				token, err := sessions.Issue()
				if err != nil {
					t.Fatalf("Issue() error = %v", err)
				}
				req.AddCookie(middleware.AuthCookie(token, sessions.TTL(), false))
			default:
				req.AddCookie(middleware.AuthCookie(tt.cookie, sessions.TTL(), false))
			}
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			if got := decodeData[AuthStatus](t, rec); got != tt.want {
				t.Errorf("status = %+v, want %+v", got, tt.want)
			}
		})
	}
}
