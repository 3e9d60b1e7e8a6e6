package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHealthChecker(t *testing.T) {
	t.Parallel()

	healthy := PingFunc(func(context.Context) error { return nil })
	broken := PingFunc(func(context.Context) error { return errors.New("connection refused") })

	tests := []struct {
		name       string
		query      string
		checks     map[string]Pinger
		wantStatus int
		wantBody   string
		wantChecks map[string]string
	}{
		{
			name:       "basic mode ignores checks",
			checks:     map[string]Pinger{"backend": broken},
			wantStatus: http.StatusOK,
			wantBody:   "healthy",
		},
		{
			name:       "extended all healthy",
			query:      "?mode=extended",
			checks:     map[string]Pinger{"backend": healthy, "queue": healthy, "redis": nil},
			wantStatus: http.StatusOK,
			wantBody:   "healthy",
			wantChecks: map[string]string{"backend": "healthy", "queue": "healthy"},
		},
		{
			name:       "extended with failure",
			query:      "?mode=extended",
			checks:     map[string]Pinger{"backend": healthy, "queue": broken},
			wantStatus: http.StatusServiceUnavailable,
			wantBody:   "unhealthy",
			wantChecks: map[string]string{"backend": "healthy", "queue": "unhealthy: connection refused"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			h := NewHealthChecker(tt.checks)
			rec := httptest.NewRecorder()
			h.HealthCheck(rec, httptest.NewRequest(http.MethodGet, "/healthz"+tt.query, nil))

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			var resp HealthResponse
			if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if resp.Status != tt.wantBody {
				t.Errorf("status field = %q, want %q", resp.Status, tt.wantBody)
			}
			if len(resp.Checks) != len(tt.wantChecks) {
				t.Fatalf("checks = %v, want %v", resp.Checks, tt.wantChecks)
			}
			for name, want := range tt.wantChecks {
				if resp.Checks[name] != want {
					t.Errorf("checks[%s] = %q, want %q", name, resp.Checks[name], want)
				}
			}
		})
	}
}
