package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"

	"github.com/benvon/thai-toolkit/internal/models"
	"github.com/benvon/thai-toolkit/internal/request"
)

type stubRecommendations struct {
	gotLearner string
}

func (s *stubRecommendations) Get(_ context.Context, learnerID string) models.CachedRecommendations {
	s.gotLearner = learnerID
	return models.CachedRecommendations{
		TotalSessions: 2,
		Fallback:      true,
		Result: models.Recommendations{
			Recommendations: []models.Recommendation{{Priority: 1, Type: models.RecommendationChat, Message: "Try the taxi scenario"}},
			Encouragement:   "Keep going",
		},
	}
}

func TestRecommendationHandler(t *testing.T) {
	t.Parallel()
	src := &stubRecommendations{}
	r := mux.NewRouter()
	NewRecommendationHandler(src).RegisterRoutes(r.PathPrefix("/api/v1").Subrouter())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/recommendations", nil)
	req = req.WithContext(request.WithLearnerID(req.Context(), "learner-9"))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if src.gotLearner != "learner-9" {
		t.Errorf("learner = %q", src.gotLearner)
	}
	got := decodeData[models.CachedRecommendations](t, rec)
	if !got.Fallback || got.TotalSessions != 2 || len(got.Result.Recommendations) != 1 {
		t.Errorf("recommendations = %+v", got)
	}
}
