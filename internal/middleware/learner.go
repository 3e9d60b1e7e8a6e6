package middleware

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/benvon/thai-toolkit/internal/request"
	"github.com/benvon/thai-toolkit/internal/services/ai"
)

const (
	// LearnerCookieName identifies the learner whose progress a request reads and writes.
	LearnerCookieName = "thai-toolkit-learner"
	learnerCookieTTL  = 365 * 24 * time.Hour
)

// Learner attaches the learner id from the learner cookie to the request
// context, minting a new id (and cookie) when the cookie is missing or not a
// UUID.
func Learner(secure bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := ""
			if c, err := r.Cookie(LearnerCookieName); err == nil {
				if parsed, err := uuid.Parse(c.Value); err == nil {
					id = parsed.String()
				}
			}
			if id == "" {
				id = uuid.NewString()
				http.SetCookie(w, &http.Cookie{
					Name:     LearnerCookieName,
					Value:    id,
					Path:     "/",
					MaxAge:   int(learnerCookieTTL.Seconds()),
					HttpOnly: true,
					Secure:   secure,
					SameSite: http.SameSiteLaxMode,
				})
			}

			ctx := request.WithLearnerID(r.Context(), id)
			ctx = ai.WithLearnerID(ctx, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
