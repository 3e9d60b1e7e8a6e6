package ai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/shared"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/benvon/thai-toolkit/internal/models"
)

const (
	// DefaultOpenAIModel is the default model to use
	DefaultOpenAIModel = "gpt-4o-mini"
	// DefaultOpenAIBaseURL is the default OpenAI API base URL
	DefaultOpenAIBaseURL = "https://api.openai.com/v1"
	// DefaultTimeout is the default timeout for API calls
	DefaultTimeout = 30 * time.Second

	// ErrNoChoicesInResponse is returned when the API response has no choices
	ErrNoChoicesInResponse = "no choices in response"

	breakdownTemperature = 0.3
	generateTemperature  = 0.7
)

var tracer = otel.Tracer("github.com/benvon/thai-toolkit/internal/services/ai")

// OpenAIProvider implements Provider using OpenAI's chat completions API
type OpenAIProvider struct {
	client    openai.Client
	model     string
	logger    *zap.Logger
	debugMode bool
}

// NewOpenAIProvider creates a new OpenAI provider
func NewOpenAIProvider(apiKey string, model string) *OpenAIProvider {
	return NewOpenAIProviderWithLogger(apiKey, DefaultOpenAIBaseURL, model, nil, false)
}

// NewOpenAIProviderWithLogger creates a new OpenAI provider with logger support.
// In debug mode prompts and completions are logged (sanitized).
func NewOpenAIProviderWithLogger(apiKey string, baseURL string, model string, logger *zap.Logger, debugMode bool) *OpenAIProvider {
	if model == "" {
		model = DefaultOpenAIModel
	}
	if baseURL == "" {
		baseURL = DefaultOpenAIBaseURL
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	httpClient := &http.Client{
		Timeout: DefaultTimeout,
	}

	client := openai.NewClient(
		option.WithAPIKey(apiKey),
		option.WithBaseURL(baseURL),
		option.WithHTTPClient(httpClient),
		// Gateway calls are attempted once.
		option.WithMaxRetries(0),
	)

	return &OpenAIProvider{
		client:    client,
		model:     model,
		logger:    logger,
		debugMode: debugMode,
	}
}

// Model returns the configured model name.
func (p *OpenAIProvider) Model() string {
	return p.model
}

// Breakdown segments a Thai or English sentence word by word.
func (p *OpenAIProvider) Breakdown(ctx context.Context, text string) (Result[models.Breakdown], error) {
	content, err := p.complete(ctx, "breakdown", []openai.ChatCompletionMessageParamUnion{
		openai.SystemMessage(breakdownSystemPrompt),
		openai.UserMessage(text),
	}, temperature(breakdownTemperature))
	if err != nil {
		return Result[models.Breakdown]{}, err
	}
	return logMalformed(p.logger, "breakdown", Decode[models.Breakdown](content)), nil
}

// GenerateFlashcards produces vocabulary cards.
func (p *OpenAIProvider) GenerateFlashcards(ctx context.Context, req FlashcardRequest) (Result[models.FlashcardDeck], error) {
	content, err := p.complete(ctx, "flashcards", []openai.ChatCompletionMessageParamUnion{
		openai.SystemMessage(flashcardSystemPrompt),
		openai.UserMessage(flashcardUserPrompt(req)),
	}, temperature(generateTemperature))
	if err != nil {
		return Result[models.FlashcardDeck]{}, err
	}

	result := logMalformed(p.logger, "flashcards", Decode[models.FlashcardDeck](content))
	deck, ok := result.Value()
	if !ok || len(req.UsedWords) == 0 {
		return result, nil
	}
	deck.Words = slices.DeleteFunc(deck.Words, func(w models.FlashcardWord) bool {
		return slices.Contains(req.UsedWords, w.Thai)
	})
	return Parsed(deck), nil
}

// GenerateToneSets produces tone contrast sets.
func (p *OpenAIProvider) GenerateToneSets(ctx context.Context, count int, usedSets []string) (Result[models.ToneSetList], error) {
	content, err := p.complete(ctx, "tones", []openai.ChatCompletionMessageParamUnion{
		openai.SystemMessage(toneSystemPrompt),
		openai.UserMessage(toneUserPrompt(count, usedSets)),
	}, temperature(generateTemperature))
	if err != nil {
		return Result[models.ToneSetList]{}, err
	}
	return logMalformed(p.logger, "tones", Decode[models.ToneSetList](content)), nil
}

// ChatTurn produces the tutor's next reply. An empty history opens a new
// conversation.
func (p *OpenAIProvider) ChatTurn(ctx context.Context, scenario string, history []models.ChatMessage) (Result[models.ChatReply], error) {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(history)+2)
	messages = append(messages, openai.SystemMessage(chatSystemPrompt(scenario)))
	if len(history) == 0 {
		messages = append(messages, openai.UserMessage(models.StartConversationMessage))
	}
	for _, msg := range history {
		switch msg.Role {
		case "assistant":
			messages = append(messages, openai.AssistantMessage(msg.Content))
		default:
			messages = append(messages, openai.UserMessage(msg.Content))
		}
	}

	// Temperature omitted - use model default
	content, err := p.complete(ctx, "chat", messages, nil)
	if err != nil {
		return Result[models.ChatReply]{}, err
	}
	return logMalformed(p.logger, "chat", Decode[models.ChatReply](content)), nil
}

// Recommend produces coaching recommendations from a progress summary.
func (p *OpenAIProvider) Recommend(ctx context.Context, summary models.ProgressSummary) (Result[models.Recommendations], error) {
	prompt, err := recommendUserPrompt(summary)
	if err != nil {
		return Result[models.Recommendations]{}, err
	}
	content, err := p.complete(ctx, "recommendations", []openai.ChatCompletionMessageParamUnion{
		openai.SystemMessage(recommendSystemPrompt),
		openai.UserMessage(prompt),
	}, temperature(generateTemperature))
	if err != nil {
		return Result[models.Recommendations]{}, err
	}

	result := logMalformed(p.logger, "recommendations", Decode[models.Recommendations](content))
	recs, ok := result.Value()
	if ok && len(recs.Recommendations) > models.MaxRecommendations {
		recs.Recommendations = recs.Recommendations[:models.MaxRecommendations]
		return Parsed(recs), nil
	}
	return result, nil
}

// complete sends one chat completion request and returns the first choice's text.
func (p *OpenAIProvider) complete(ctx context.Context, operation string, messages []openai.ChatCompletionMessageParamUnion, temp *float64) (string, error) {
	ctx, span := tracer.Start(ctx, "llm."+operation, trace.WithAttributes(
		attribute.String("llm.model", p.model),
		attribute.String("llm.operation", operation),
		attribute.Int("llm.message_count", len(messages)),
	))
	defer span.End()

	req := openai.ChatCompletionNewParams{
		Model:    shared.ChatModel(p.model),
		Messages: messages,
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
		},
	}
	if temp != nil {
		req.Temperature = openai.Float(*temp)
	}

	requestID := ExtractRequestID(ctx)
	learnerID := ExtractLearnerID(ctx)

	if p.debugMode {
		p.logger.Debug("llm_api_request",
			zap.String("operation", operation),
			zap.String("model", p.model),
			zap.Int("message_count", len(messages)),
			zap.String("learner_id", learnerID),
			zap.String("request_id", requestID),
		)
	}

	start := time.Now()
	resp, err := p.client.Chat.Completions.New(ctx, req)
	latency := time.Since(start)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "completion request failed")
		p.logger.Warn("llm_api_error",
			zap.String("operation", operation),
			zap.String("model", p.model),
			zap.String("error", SanitizeResponse(err.Error(), false)),
			zap.String("learner_id", learnerID),
			zap.String("request_id", requestID),
			zap.Int64("latency_ms", latency.Milliseconds()),
		)
		if apiErr := ExtractAPIError(err); apiErr != nil {
			return "", fmt.Errorf("failed to %s: %w", operation, apiErr)
		}
		return "", fmt.Errorf("failed to %s: %w", operation, err)
	}

	if len(resp.Choices) == 0 {
		span.SetStatus(codes.Error, ErrNoChoicesInResponse)
		return "", errors.New(ErrNoChoicesInResponse)
	}
	content := resp.Choices[0].Message.Content
	if content == "" {
		span.SetStatus(codes.Error, "empty completion")
		return "", fmt.Errorf("failed to %s: empty completion", operation)
	}

	span.SetAttributes(attribute.Int("llm.response_length", len(content)))
	if p.debugMode {
		p.logger.Debug("llm_api_response",
			zap.String("operation", operation),
			zap.String("model", p.model),
			zap.Int("response_length", len(content)),
			zap.String("response_preview", SanitizeResponse(content, true)),
			zap.String("learner_id", learnerID),
			zap.String("request_id", requestID),
			zap.Int64("latency_ms", latency.Milliseconds()),
		)
	}
	return content, nil
}

// logMalformed records a completion that failed to decode.
func logMalformed[T any](l *zap.Logger, operation string, r Result[T]) Result[T] {
	if !r.IsParsed() {
		l.Warn("llm_response_malformed",
			zap.String("operation", operation),
			zap.String("reason", SanitizeResponse(r.reason, false)),
			zap.Int("response_length", len(r.Raw())),
		)
	}
	return r
}

func temperature(v float64) *float64 {
	return &v
}
