// Package speech turns Thai text into learner-paced audio and transcribes
// recorded speech, both through OpenAI's audio endpoints.
package speech

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/benvon/thai-toolkit/internal/logger"
	"github.com/benvon/thai-toolkit/internal/services/ai"
)

const (
	DefaultTTSModel = "tts-1"
	DefaultSTTModel = "whisper-1"
	// DefaultVoice is used when the requested voice is unknown.
	DefaultVoice = "female1"
	// LearnerSpeed slows synthesized speech for beginners.
	LearnerSpeed = 0.8
	// TranscriptionLanguage hints the recognizer towards Thai.
	TranscriptionLanguage = "th"

	defaultTimeout = 60 * time.Second
)

var (
	ErrEmptyText  = errors.New("text is required")
	ErrEmptyAudio = errors.New("audio is required")
)

var tracer = otel.Tracer("github.com/benvon/thai-toolkit/internal/services/speech")

// voices maps the learner-facing voice names to provider voices.
var voices = map[string]string{
	"female1": "nova",
	"female2": "shimmer",
	"male":    "onyx",
}

// ResolveVoice returns voice when it is known, otherwise DefaultVoice.
func ResolveVoice(voice string) string {
	if _, ok := voices[voice]; ok {
		return voice
	}
	return DefaultVoice
}

// Options configures a Service
type Options struct {
	APIKey   string
	BaseURL  string
	TTSModel string
	STTModel string
	// CacheDir enables the on-disk audio cache when set.
	CacheDir string
	Logger   *zap.Logger
}

// Service synthesizes and transcribes speech
type Service struct {
	client   openai.Client
	ttsModel string
	sttModel string
	cache    *DiskCache
	logger   *zap.Logger
}

type speechRequest struct {
	Model          string  `json:"model"`
	Input          string  `json:"input"`
	Voice          string  `json:"voice"`
	ResponseFormat string  `json:"response_format"`
	Speed          float64 `json:"speed"`
}

// NewService creates a speech service.
func NewService(opts Options) (*Service, error) {
	if opts.TTSModel == "" {
		opts.TTSModel = DefaultTTSModel
	}
	if opts.STTModel == "" {
		opts.STTModel = DefaultSTTModel
	}
	if opts.BaseURL == "" {
		opts.BaseURL = ai.DefaultOpenAIBaseURL
	}

	s := &Service{
		client: openai.NewClient(
			option.WithAPIKey(opts.APIKey),
			option.WithBaseURL(opts.BaseURL),
			option.WithHTTPClient(&http.Client{Timeout: defaultTimeout}),
			option.WithMaxRetries(0),
		),
		ttsModel: opts.TTSModel,
		sttModel: opts.STTModel,
		logger:   logger.OrNop(opts.Logger),
	}

	if opts.CacheDir != "" {
		cache, err := NewDiskCache(opts.CacheDir)
		if err != nil {
			return nil, err
		}
		s.cache = cache
	}
	return s, nil
}

// Synthesize returns MP3 audio of text spoken in voice.
func (s *Service) Synthesize(ctx context.Context, text, voice string) ([]byte, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyText
	}
	voice = ResolveVoice(voice)

	if s.cache == nil {
		return s.synthesize(ctx, text, voice)
	}

	key := CacheKey(voice, text)
	data, err := s.cache.GetOrCreate(key, func() ([]byte, error) {
		return s.synthesize(ctx, text, voice)
	})
	if err != nil && data != nil {
		s.logger.Warn("tts_cache_write_failed", zap.String("error", logger.SanitizeError(err)))
		return data, nil
	}
	return data, err
}

func (s *Service) synthesize(ctx context.Context, text, voice string) ([]byte, error) {
	ctx, span := tracer.Start(ctx, "speech.synthesize")
	defer span.End()
	span.SetAttributes(attribute.String("tts.voice", voice), attribute.Int("tts.chars", len(text)))

	body, err := json.Marshal(speechRequest{
		Model:          s.ttsModel,
		Input:          AddPauses(text),
		Voice:          voices[voice],
		ResponseFormat: "mp3",
		Speed:          LearnerSpeed,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode speech request: %w", err)
	}

	start := time.Now()
	var res *http.Response
	if err := s.client.Post(ctx, "audio/speech", json.RawMessage(body), &res); err != nil {
		span.RecordError(err)
		s.logger.Warn("tts_api_error",
			zap.String("voice", voice),
			zap.String("error", logger.SanitizeError(err)))
		return nil, fmt.Errorf("failed to synthesize speech: %w", err)
	}
	defer func() { _ = res.Body.Close() }()

	audio, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read speech audio: %w", err)
	}
	if len(audio) == 0 {
		return nil, errors.New("speech response was empty")
	}

	s.logger.Debug("tts_api_response",
		zap.String("voice", voice),
		zap.Int("bytes", len(audio)),
		zap.Duration("duration", time.Since(start)))
	return audio, nil
}

// Transcribe returns the text spoken in audio. filename carries the
// container format (for example recording.webm).
func (s *Service) Transcribe(ctx context.Context, filename, contentType string, audio io.Reader) (string, error) {
	if audio == nil {
		return "", ErrEmptyAudio
	}
	if filename == "" {
		filename = "audio.webm"
	}

	ctx, span := tracer.Start(ctx, "speech.transcribe")
	defer span.End()

	start := time.Now()
	res, err := s.client.Audio.Transcriptions.New(ctx, openai.AudioTranscriptionNewParams{
		File:     openai.File(audio, filename, contentType),
		Model:    openai.AudioModel(s.sttModel),
		Language: openai.String(TranscriptionLanguage),
	})
	if err != nil {
		span.RecordError(err)
		s.logger.Warn("stt_api_error", zap.String("error", logger.SanitizeError(err)))
		return "", fmt.Errorf("failed to transcribe audio: %w", err)
	}

	s.logger.Debug("stt_api_response",
		zap.Int("chars", len(res.Text)),
		zap.Duration("duration", time.Since(start)))
	return res.Text, nil
}
