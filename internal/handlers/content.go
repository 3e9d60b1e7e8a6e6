package handlers

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/benvon/thai-toolkit/internal/logger"
	"github.com/benvon/thai-toolkit/internal/models"
	"github.com/benvon/thai-toolkit/internal/services/ai"
	"github.com/benvon/thai-toolkit/internal/services/tones"
	"github.com/benvon/thai-toolkit/internal/validation"
)

// MaxBreakdownTextLength bounds the text accepted by the breakdown endpoint.
const MaxBreakdownTextLength = 2000

// ToneSelector picks tone practice sets.
type ToneSelector interface {
	Select(ctx context.Context, count int, usedSets []string) tones.Selection
}

// ContentHandler serves the gateway-backed learning content endpoints
type ContentHandler struct {
	provider ai.Provider
	tones    ToneSelector
	logger   *zap.Logger
}

// NewContentHandler creates a content handler. provider may be nil when no
// API key is configured; tone sets are still served from the library.
func NewContentHandler(provider ai.Provider, toneSelector ToneSelector, log *zap.Logger) *ContentHandler {
	return &ContentHandler{
		provider: provider,
		tones:    toneSelector,
		logger:   logger.OrNop(log),
	}
}

// RegisterRoutes registers content routes on the /api/v1 router
func (h *ContentHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/breakdown", h.Breakdown).Methods("POST")
	r.HandleFunc("/flashcards", h.Flashcards).Methods("POST")
	r.HandleFunc("/tones", h.ToneSets).Methods("POST")
	r.HandleFunc("/chat", h.Chat).Methods("POST")
}

// BreakdownRequest represents a sentence breakdown request
type BreakdownRequest struct {
	Text string `json:"text" validate:"required,max=2000"`
}

// ToneSetsRequest represents a tone set request
type ToneSetsRequest struct {
	Count    int      `json:"count" validate:"gte=0,lte=20"`
	UsedSets []string `json:"usedSets"`
}

// ChatRequest represents one chat turn
type ChatRequest struct {
	Scenario string               `json:"scenario"`
	Messages []models.ChatMessage `json:"messages" validate:"dive"`
}

func (h *ContentHandler) requireProvider(w http.ResponseWriter) bool {
	if h.provider == nil {
		respondJSONError(w, http.StatusServiceUnavailable, "Service Unavailable", "Language model is not configured")
		return false
	}
	return true
}

// Breakdown segments a Thai or English sentence word by word
func (h *ContentHandler) Breakdown(w http.ResponseWriter, r *http.Request) {
	var req BreakdownRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.Text = validation.SanitizeText(req.Text)
	if req.Text == "" {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Text is required and cannot be empty after sanitization")
		return
	}
	if !h.requireProvider(w) {
		return
	}

	res, err := h.provider.Breakdown(r.Context(), req.Text)
	if err == nil {
		var b models.Breakdown
		if b, err = res.Unwrap(); err == nil {
			respondJSON(w, http.StatusOK, b)
			return
		}
	}
	respondGatewayError(w, h.logger, "break down text", err)
}

// Flashcards generates a vocabulary deck
func (h *ContentHandler) Flashcards(w http.ResponseWriter, r *http.Request) {
	var req ai.FlashcardRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if !h.requireProvider(w) {
		return
	}

	res, err := h.provider.GenerateFlashcards(r.Context(), req)
	if err == nil {
		var deck models.FlashcardDeck
		if deck, err = res.Unwrap(); err == nil {
			respondJSON(w, http.StatusOK, deck)
			return
		}
	}
	respondGatewayError(w, h.logger, "generate flashcards", err)
}

// ToneSets returns tone practice sets. It never fails on gateway errors; the
// library is used instead.
func (h *ContentHandler) ToneSets(w http.ResponseWriter, r *http.Request) {
	var req ToneSetsRequest
	if r.ContentLength != 0 && !decodeJSON(w, r, &req) {
		return
	}
	respondJSON(w, http.StatusOK, h.tones.Select(r.Context(), req.Count, req.UsedSets))
}

// Chat produces the tutor's next turn. An empty history opens the conversation.
func (h *ContentHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if !h.requireProvider(w) {
		return
	}

	res, err := h.provider.ChatTurn(r.Context(), req.Scenario, req.Messages)
	if err == nil {
		var reply models.ChatReply
		if reply, err = res.Unwrap(); err == nil {
			respondJSON(w, http.StatusOK, reply)
			return
		}
	}
	respondGatewayError(w, h.logger, "get chat response", err)
}
