package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/benvon/thai-toolkit/internal/request"
)

func TestLearner(t *testing.T) {
	t.Parallel()

	existing := uuid.NewString()

	tests := []struct {
		name       string
		cookie     string
		wantMinted bool
	}{
		{"no cookie", "", true},
		{"existing learner", existing, false},
		{"garbage cookie", "not-a-uuid", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var seen string
			handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				seen = request.LearnerID(r)
			})

			req := httptest.NewRequest("GET", "/api/v1/progress", nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: LearnerCookieName, Value: tt.cookie})
			}
			w := httptest.NewRecorder()
			Learner(false)(handler).ServeHTTP(w, req)

			if _, err := uuid.Parse(seen); err != nil {
				t.Fatalf("learner id %q is not a UUID", seen)
			}

			var set *http.Cookie
			for _, c := range w.Result().Cookies() {
				if c.Name == LearnerCookieName {
					set = c
				}
			}
			if tt.wantMinted {
				if set == nil || set.Value != seen {
					t.Errorf("minted cookie = %+v, want value %q", set, seen)
				}
				if set != nil && set.MaxAge != 365*24*60*60 {
					t.Errorf("MaxAge = %d, want one year", set.MaxAge)
				}
				return
			}
			if set != nil {
				t.Error("cookie re-issued for an existing learner")
			}
			if seen != existing {
				t.Errorf("learner id = %q, want %q", seen, existing)
			}
		})
	}
}
