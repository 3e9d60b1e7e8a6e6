package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestContentType(t *testing.T) {
	t.Parallel()

	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	tests := []struct {
		name        string
		method      string
		contentType string
		body        string
		wantStatus  int
	}{
		{"get without header", "GET", "", "", http.StatusOK},
		{"json", "POST", "application/json; charset=utf-8", `{}`, http.StatusOK},
		{"multipart", "POST", "multipart/form-data; boundary=x", "--x--", http.StatusOK},
		{"empty post", "POST", "", "", http.StatusOK},
		{"body without header", "POST", "", `{}`, http.StatusBadRequest},
		{"form encoded", "POST", "application/x-www-form-urlencoded", "a=b", http.StatusUnsupportedMediaType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var body *strings.Reader
			if tt.body != "" {
				body = strings.NewReader(tt.body)
			}
			var req *http.Request
			if body != nil {
				req = httptest.NewRequest(tt.method, "/api/v1/chat", body)
			} else {
				req = httptest.NewRequest(tt.method, "/api/v1/chat", nil)
			}
			if tt.contentType != "" {
				req.Header.Set("Content-Type", tt.contentType)
			}
			w := httptest.NewRecorder()
			ContentType(ok).ServeHTTP(w, req)
			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
		})
	}
}
