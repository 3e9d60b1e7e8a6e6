package handlers

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/benvon/thai-toolkit/internal/logger"
	"github.com/benvon/thai-toolkit/internal/models"
	"github.com/benvon/thai-toolkit/internal/progress"
	"github.com/benvon/thai-toolkit/internal/queue"
	"github.com/benvon/thai-toolkit/internal/request"
)

// RecommendationCache forgets a learner's cached recommendations
type RecommendationCache interface {
	Forget(ctx context.Context, learnerID string)
}

// ProgressHandler exposes the learner's progress store
type ProgressHandler struct {
	progress        *progress.Manager
	jobQueue        queue.Enqueuer
	recommendations RecommendationCache
	logger          *zap.Logger
}

// NewProgressHandler creates a progress handler. jobQueue may be nil, in
// which case no background recommendation refresh is scheduled.
// recommendations may be nil when nothing caches recommendations.
func NewProgressHandler(manager *progress.Manager, jobQueue queue.Enqueuer, recommendations RecommendationCache, log *zap.Logger) *ProgressHandler {
	return &ProgressHandler{
		progress:        manager,
		jobQueue:        jobQueue,
		recommendations: recommendations,
		logger:          logger.OrNop(log),
	}
}

// RegisterRoutes registers progress routes
// The router should already have the /api/v1/progress prefix
func (h *ProgressHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("", h.GetProgress).Methods("GET")
	r.HandleFunc("", h.ResetProgress).Methods("DELETE")
	r.HandleFunc("/flashcards", h.RecordFlashcards).Methods("POST")
	r.HandleFunc("/tones", h.RecordTones).Methods("POST")
	r.HandleFunc("/chat", h.RecordChat).Methods("POST")
	r.HandleFunc("/weak-words", h.WeakWords).Methods("GET")
	r.HandleFunc("/weak-tones", h.WeakTones).Methods("GET")
	r.HandleFunc("/tones/{tone}/accuracy", h.ToneAccuracy).Methods("GET")
}

// ProgressResponse is a snapshot plus the values derived from it
type ProgressResponse struct {
	Progress            *models.LearnerProgress `json:"progress"`
	HasProgress         bool                    `json:"hasProgress"`
	FlashcardAccuracy   int                     `json:"flashcardAccuracy"`
	OverallToneAccuracy int                     `json:"overallToneAccuracy"`
}

// ToneAccuracyResponse is the accuracy for a single tone
type ToneAccuracyResponse struct {
	Tone     string `json:"tone"`
	Accuracy int    `json:"accuracy"`
}

func newProgressResponse(p *models.LearnerProgress) ProgressResponse {
	return ProgressResponse{
		Progress:            p,
		HasProgress:         progress.HasProgress(p),
		FlashcardAccuracy:   progress.FlashcardAccuracy(p),
		OverallToneAccuracy: progress.OverallToneAccuracy(p),
	}
}

func (h *ProgressHandler) store(r *http.Request) *progress.Store {
	return h.progress.For(request.LearnerID(r))
}

// GetProgress returns the learner's snapshot
func (h *ProgressHandler) GetProgress(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, newProgressResponse(h.store(r).Progress(r.Context())))
}

// ResetProgress deletes the learner's record and cached recommendations and
// returns the fresh aggregate
func (h *ProgressHandler) ResetProgress(w http.ResponseWriter, r *http.Request) {
	store := h.store(r)
	store.Reset(r.Context())
	if h.recommendations != nil {
		h.recommendations.Forget(r.Context(), request.LearnerID(r))
	}
	respondJSON(w, http.StatusOK, newProgressResponse(store.Progress(r.Context())))
}

// RecordFlashcards records a finished flashcard quiz
func (h *ProgressHandler) RecordFlashcards(w http.ResponseWriter, r *http.Request) {
	var req models.FlashcardSessionResult
	if !decodeJSON(w, r, &req) {
		return
	}
	p := h.store(r).RecordFlashcardSession(r.Context(), req)
	h.scheduleRefresh(r.Context(), request.LearnerID(r))
	respondJSON(w, http.StatusOK, newProgressResponse(p))
}

// RecordTones records a finished tone practice session
func (h *ProgressHandler) RecordTones(w http.ResponseWriter, r *http.Request) {
	var req models.ToneSessionResult
	if !decodeJSON(w, r, &req) {
		return
	}
	p := h.store(r).RecordToneSession(r.Context(), req)
	h.scheduleRefresh(r.Context(), request.LearnerID(r))
	respondJSON(w, http.StatusOK, newProgressResponse(p))
}

// RecordChat records a finished conversation
func (h *ProgressHandler) RecordChat(w http.ResponseWriter, r *http.Request) {
	var req models.ChatSessionResult
	if !decodeJSON(w, r, &req) {
		return
	}
	p := h.store(r).RecordChatSession(r.Context(), req)
	h.scheduleRefresh(r.Context(), request.LearnerID(r))
	respondJSON(w, http.StatusOK, newProgressResponse(p))
}

// WeakWords lists weak words, most missed first
func (h *ProgressHandler) WeakWords(w http.ResponseWriter, r *http.Request) {
	limit, err := queryLimit(r)
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", err.Error())
		return
	}
	respondJSON(w, http.StatusOK, h.store(r).WeakWords(r.Context(), limit))
}

// WeakTones lists weak tone sets, most missed first
func (h *ProgressHandler) WeakTones(w http.ResponseWriter, r *http.Request) {
	limit, err := queryLimit(r)
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", err.Error())
		return
	}
	respondJSON(w, http.StatusOK, h.store(r).WeakTones(r.Context(), limit))
}

// ToneAccuracy returns the accuracy for one tone; unseen tones report 0
func (h *ProgressHandler) ToneAccuracy(w http.ResponseWriter, r *http.Request) {
	tone := mux.Vars(r)["tone"]
	respondJSON(w, http.StatusOK, ToneAccuracyResponse{
		Tone:     tone,
		Accuracy: h.store(r).ToneAccuracy(r.Context(), tone),
	})
}

// scheduleRefresh enqueues a debounced recommendation refresh. Failures are
// logged; the request path recomputes on demand anyway.
func (h *ProgressHandler) scheduleRefresh(ctx context.Context, learnerID string) {
	if h.jobQueue == nil {
		return
	}
	job := queue.NewRefreshJob(learnerID)
	if err := h.jobQueue.Enqueue(ctx, job); err != nil {
		h.logger.Warn("refresh_enqueue_failed",
			zap.String("learner_id", logger.SanitizeID(learnerID)),
			zap.String("error", logger.SanitizeError(err)))
	}
}
