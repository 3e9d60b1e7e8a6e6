package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/benvon/thai-toolkit/internal/logger"
	"github.com/benvon/thai-toolkit/internal/middleware"
	"github.com/benvon/thai-toolkit/internal/services/speech"
)

// audioFormField is the multipart field carrying a recording.
const audioFormField = "audio"

// SpeechGateway synthesizes and transcribes Thai speech.
type SpeechGateway interface {
	Synthesize(ctx context.Context, text, voice string) ([]byte, error)
	Transcribe(ctx context.Context, filename, contentType string, audio io.Reader) (string, error)
}

// SpeechHandler serves text-to-speech and speech-to-text
type SpeechHandler struct {
	speech SpeechGateway
	logger *zap.Logger
}

// NewSpeechHandler creates a speech handler. gateway may be nil when no API
// key is configured.
func NewSpeechHandler(gateway SpeechGateway, log *zap.Logger) *SpeechHandler {
	return &SpeechHandler{speech: gateway, logger: logger.OrNop(log)}
}

// RegisterRoutes registers the JSON speech routes
func (h *SpeechHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/tts", h.TextToSpeech).Methods("POST")
}

// RegisterUploadRoutes registers the routes that accept audio uploads. The
// router is expected to allow bodies up to middleware.MaxAudioUploadSize.
func (h *SpeechHandler) RegisterUploadRoutes(r *mux.Router) {
	r.HandleFunc("/stt", h.SpeechToText).Methods("POST")
}

// TTSRequest represents a text-to-speech request
type TTSRequest struct {
	Text  string `json:"text" validate:"required,max=4096"`
	Voice string `json:"voice"`
}

// TranscriptionResponse is the speech-to-text result
type TranscriptionResponse struct {
	Text string `json:"text"`
}

func (h *SpeechHandler) available(w http.ResponseWriter) bool {
	if h.speech == nil {
		respondJSONError(w, http.StatusServiceUnavailable, "Service Unavailable", "Speech service is not configured")
		return false
	}
	return true
}

// TextToSpeech returns MP3 audio for the requested text
func (h *SpeechHandler) TextToSpeech(w http.ResponseWriter, r *http.Request) {
	var req TTSRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if !h.available(w) {
		return
	}

	audio, err := h.speech.Synthesize(r.Context(), req.Text, req.Voice)
	if errors.Is(err, speech.ErrEmptyText) {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Text is required")
		return
	}
	if err != nil {
		respondGatewayError(w, h.logger, "generate speech", err)
		return
	}

	w.Header().Set("Content-Type", "audio/mpeg")
	w.Header().Set("Content-Length", strconv.Itoa(len(audio)))
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(audio); err != nil {
		h.logger.Debug("tts_write_failed", zap.Error(err))
	}
}

// SpeechToText transcribes the multipart "audio" upload
func (h *SpeechHandler) SpeechToText(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(middleware.MaxAudioUploadSize); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			respondJSONError(w, http.StatusRequestEntityTooLarge, "Request Entity Too Large", "Audio upload is too large")
			return
		}
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Expected a multipart form upload")
		return
	}

	file, header, err := r.FormFile(audioFormField)
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "No audio file provided")
		return
	}
	defer func() { _ = file.Close() }()

	if header.Size == 0 {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "No audio file provided")
		return
	}
	if !h.available(w) {
		return
	}

	text, err := h.speech.Transcribe(r.Context(), header.Filename, header.Header.Get("Content-Type"), file)
	if err != nil {
		respondGatewayError(w, h.logger, "transcribe audio", err)
		return
	}
	respondJSON(w, http.StatusOK, TranscriptionResponse{Text: text})
}
