package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/benvon/thai-toolkit/internal/models"
	"github.com/benvon/thai-toolkit/internal/services/ai"
)

// decodeEnvelope decodes a response envelope, returning its data field raw.
func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) (map[string]any, json.RawMessage) {
	t.Helper()
	var body map[string]json.RawMessage
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	meta := make(map[string]any, len(body))
	for k, v := range body {
		if k == "data" {
			continue
		}
		var val any
		_ = json.Unmarshal(v, &val)
		meta[k] = val
	}
	return meta, body["data"]
}

func TestRespondJSON(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		status   int
		data     any
		wantData string
	}{
		{name: "object", status: http.StatusOK, data: map[string]string{"message": "hello"}, wantData: `{"message":"hello"}`},
		{name: "nil data", status: http.StatusCreated, data: nil, wantData: `null`},
		{name: "array", status: http.StatusOK, data: []string{"a", "b"}, wantData: `["a","b"]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rec := httptest.NewRecorder()
			respondJSON(rec, tt.status, tt.data)

			if rec.Code != tt.status {
				t.Errorf("Expected status %d, got %d", tt.status, rec.Code)
			}
			if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("Expected Content-Type 'application/json', got '%s'", ct)
			}
			meta, data := decodeEnvelope(t, rec)
			if meta["success"] != true {
				t.Error("Expected success to be true")
			}
			if ts, ok := meta["timestamp"].(string); !ok {
				t.Error("Expected timestamp to be present")
			} else if _, err := time.Parse(time.RFC3339, ts); err != nil {
				t.Errorf("timestamp %q is not RFC3339", ts)
			}
			if string(data) != tt.wantData {
				t.Errorf("data = %s, want %s", data, tt.wantData)
			}
		})
	}
}

func TestRespondJSONError(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("x", 300)
	rec := httptest.NewRecorder()
	respondJSONError(rec, http.StatusBadRequest, "Bad Request", long)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
	meta, _ := decodeEnvelope(t, rec)
	if meta["success"] != false || meta["error"] != "Bad Request" {
		t.Errorf("envelope = %v", meta)
	}
	if msg, _ := meta["message"].(string); len(msg) != 203 || !strings.HasSuffix(msg, "...") {
		t.Errorf("message not truncated: %d chars", len(msg))
	}
}

func TestSanitizeErrorMessage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		message string
		wantLen int
	}{
		{name: "short", message: "Incorrect password", wantLen: len("Incorrect password")},
		{name: "ascii over limit", message: strings.Repeat("a", 250), wantLen: 203},
		// 67 three-byte runes is 201 bytes; the cut lands inside the last one.
		{name: "thai over limit", message: strings.Repeat("ก", 67), wantLen: 198 + 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := sanitizeErrorMessage(tt.message)
			if !utf8.ValidString(got) {
				t.Errorf("result is not valid UTF-8: %q", got)
			}
			if len(got) != tt.wantLen {
				t.Errorf("len = %d, want %d", len(got), tt.wantLen)
			}
		})
	}
}

func TestDecodeJSON(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		body       string
		wantOK     bool
		wantStatus int
	}{
		{name: "valid", body: `{"text":"hello"}`, wantOK: true},
		{name: "malformed", body: `{"text":`, wantStatus: http.StatusBadRequest},
		{name: "fails validation", body: `{"text":""}`, wantStatus: http.StatusBadRequest},
		{name: "too large", body: `{"text":"` + strings.Repeat("a", 64) + `"}`, wantStatus: http.StatusRequestEntityTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			req.Body = http.MaxBytesReader(rec, req.Body, 32)

			var dst BreakdownRequest
			ok := decodeJSON(rec, req, &dst)
			if ok != tt.wantOK {
				t.Fatalf("decodeJSON() = %v, want %v", ok, tt.wantOK)
			}
			if !ok && rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}
}

func TestRespondGatewayError(t *testing.T) {
	t.Parallel()

	_, malformed := ai.Malformed[models.Breakdown]("nope", "no JSON object").Unwrap()

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantError  string
		wantRetry  bool
	}{
		{name: "malformed", err: malformed, wantStatus: http.StatusBadGateway, wantError: "bad_gateway_response"},
		{
			name:       "rate limited",
			err:        fmt.Errorf("failed: %w", &ai.APIError{StatusCode: 429}),
			wantStatus: http.StatusTooManyRequests,
			wantError:  "Too Many Requests",
			wantRetry:  true,
		},
		{
			name:       "quota",
			err:        &ai.APIError{StatusCode: 429, IsPermanent: true},
			wantStatus: http.StatusTooManyRequests,
			wantError:  "Too Many Requests",
			wantRetry:  true,
		},
		{name: "transport", err: errors.New("connection reset"), wantStatus: http.StatusInternalServerError, wantError: "Internal Server Error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rec := httptest.NewRecorder()
			respondGatewayError(rec, zap.NewNop(), "do a thing", tt.err)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			meta, _ := decodeEnvelope(t, rec)
			if meta["error"] != tt.wantError {
				t.Errorf("error = %v, want %s", meta["error"], tt.wantError)
			}
			if (rec.Header().Get("Retry-After") != "") != tt.wantRetry {
				t.Errorf("Retry-After = %q", rec.Header().Get("Retry-After"))
			}
		})
	}
}

func TestQueryLimit(t *testing.T) {
	t.Parallel()

	tests := []struct {
		query   string
		want    int
		wantErr bool
	}{
		{query: "", want: 0},
		{query: "?limit=5", want: 5},
		{query: "?limit=0", want: 0},
		{query: "?limit=-1", wantErr: true},
		{query: "?limit=abc", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			t.Parallel()
			got, err := queryLimit(httptest.NewRequest(http.MethodGet, "/"+tt.query, nil))
			if (err != nil) != tt.wantErr {
				t.Fatalf("queryLimit() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("queryLimit() = %d, want %d", got, tt.want)
			}
		})
	}
}
