package middleware

import (
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	logpkg "github.com/benvon/thai-toolkit/internal/logger"
	"github.com/benvon/thai-toolkit/internal/request"
)

// ErrorResponse is the JSON error envelope, the same shape the handlers write
type ErrorResponse struct {
	Success   bool   `json:"success"`
	Error     string `json:"error"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

func newErrorResponse(errorType, message string) ErrorResponse {
	return ErrorResponse{
		Success:   false,
		Error:     errorType,
		Message:   message,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

// ErrorHandler recovers panics into a JSON 500
func ErrorHandler(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					if rec == http.ErrAbortHandler {
						panic(rec)
					}
					logger.Error("panic_recovered",
						zap.Any("panic", rec),
						zap.String("method", r.Method),
						zap.String("path", logpkg.SanitizePath(r.URL.Path)),
						zap.String("client_ip", logpkg.SanitizeString(request.ClientIP(r), 64)),
						zap.String("learner_id", logpkg.SanitizeID(learnerForLog(r))),
						zap.Stack("stack"),
					)
					respondErrorJSON(w, r, http.StatusInternalServerError, "Internal Server Error", "An unexpected error occurred", logger)
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}

// learnerForLog returns the learner id from the context, or from the raw
// cookie when the panic happened before the learner middleware ran.
func learnerForLog(r *http.Request) string {
	if id := request.LearnerID(r); id != "" {
		return id
	}
	if c, err := r.Cookie(LearnerCookieName); err == nil {
		return c.Value
	}
	return ""
}

// respondErrorJSON sends an error JSON response
func respondErrorJSON(w http.ResponseWriter, r *http.Request, status int, errorType, message string, logger *zap.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(newErrorResponse(errorType, message)); err != nil {
		logger.Error("failed_to_encode_error_response",
			zap.Error(err),
			zap.Int("status_code", status),
			zap.String("path", logpkg.SanitizePath(r.URL.Path)),
		)
	}
}
