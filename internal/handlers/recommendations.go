package handlers

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/benvon/thai-toolkit/internal/models"
	"github.com/benvon/thai-toolkit/internal/request"
)

// RecommendationSource returns recommendations for a learner's current snapshot.
type RecommendationSource interface {
	Get(ctx context.Context, learnerID string) models.CachedRecommendations
}

// RecommendationHandler serves coaching recommendations
type RecommendationHandler struct {
	recommendations RecommendationSource
}

// NewRecommendationHandler creates a recommendation handler
func NewRecommendationHandler(source RecommendationSource) *RecommendationHandler {
	return &RecommendationHandler{recommendations: source}
}

// RegisterRoutes registers recommendation routes
func (h *RecommendationHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/recommendations", h.GetRecommendations).Methods("GET")
}

// GetRecommendations returns recommendations. It never fails: gateway
// problems are answered with the local rules.
func (h *RecommendationHandler) GetRecommendations(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.recommendations.Get(r.Context(), request.LearnerID(r)))
}
