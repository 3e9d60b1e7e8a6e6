package ai

import (
	"context"

	"github.com/benvon/thai-toolkit/internal/models"
)

// Provider is the completion gateway. Each method makes one request and
// returns either a Parsed or Malformed result; err is reserved for transport
// failures (network, non-2xx, empty response).
type Provider interface {
	// Breakdown segments a Thai or English sentence word by word.
	Breakdown(ctx context.Context, text string) (Result[models.Breakdown], error)

	// GenerateFlashcards produces vocabulary cards. Words listed in
	// req.UsedWords are removed from a parsed deck.
	GenerateFlashcards(ctx context.Context, req FlashcardRequest) (Result[models.FlashcardDeck], error)

	// GenerateToneSets produces tone contrast sets avoiding usedSets.
	GenerateToneSets(ctx context.Context, count int, usedSets []string) (Result[models.ToneSetList], error)

	// ChatTurn produces the tutor's next reply in a roleplay scenario.
	ChatTurn(ctx context.Context, scenario string, history []models.ChatMessage) (Result[models.ChatReply], error)

	// Recommend produces coaching recommendations from a progress summary.
	Recommend(ctx context.Context, summary models.ProgressSummary) (Result[models.Recommendations], error)
}

// FlashcardRequest parameterises flashcard generation
type FlashcardRequest struct {
	Categories []string `json:"categories" validate:"required,min=1,dive,flashcard_category"`
	Count      int      `json:"count" validate:"min=1,max=50"`
	UsedWords  []string `json:"usedWords"`
}
