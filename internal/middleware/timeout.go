package middleware

import (
	"encoding/json"
	"net/http"
	"time"
)

// DefaultRequestTimeout applies when Timeout is given a non-positive duration.
const DefaultRequestTimeout = 30 * time.Second

// Timeout cuts off handlers that run longer than timeout with a 503 carrying
// the JSON error envelope. Handlers that set their own Content-Type, such as
// audio responses, keep it.
func Timeout(timeout time.Duration) func(http.Handler) http.Handler {
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// TimeoutHandler writes its message without a content type.
			w.Header().Set("Content-Type", "application/json")
			http.TimeoutHandler(next, timeout, timeoutBody()).ServeHTTP(w, r)
		})
	}
}

func timeoutBody() string {
	body, err := json.Marshal(newErrorResponse("Service Unavailable", "Request timed out"))
	if err != nil {
		return "Request Timeout"
	}
	return string(body)
}
