package request

import (
	"context"
	"net/http"
	"strings"
)

type contextKey string

const learnerContextKey contextKey = "learner"

// LearnerContextKey returns the context key used for the learner id. Exposed for tests that inject non-string values.
func LearnerContextKey() contextKey { return learnerContextKey }

// ClientIP extracts the client IP from the request, respecting X-Forwarded-For and X-Real-IP.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		parts := strings.Split(xff, ",")
		if len(parts) > 0 {
			return strings.TrimSpace(parts[0])
		}
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}
	return r.RemoteAddr
}

// WithLearnerID returns a context carrying the learner id.
func WithLearnerID(ctx context.Context, learnerID string) context.Context {
	return context.WithValue(ctx, learnerContextKey, learnerID)
}

// LearnerID returns the learner id from the request context, or "" when the
// request was not identified.
func LearnerID(r *http.Request) string {
	id, _ := r.Context().Value(learnerContextKey).(string)
	return id
}
