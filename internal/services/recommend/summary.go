package recommend

import (
	"maps"
	"slices"
	"time"

	"github.com/benvon/thai-toolkit/internal/models"
	"github.com/benvon/thai-toolkit/internal/progress"
)

// Summarize condenses a snapshot into the view sent to the recommendation
// model. Map keys are emitted sorted so equal snapshots produce equal prompts.
func Summarize(p *models.LearnerProgress, now time.Time) models.ProgressSummary {
	if p == nil {
		p = models.NewLearnerProgress()
	}

	byTone := make([]models.ToneAccuracySummary, 0, len(p.Tones.AccuracyByTone))
	for _, tone := range orderedTones(p.Tones.AccuracyByTone) {
		tally := p.Tones.AccuracyByTone[tone]
		byTone = append(byTone, models.ToneAccuracySummary{
			Tone:     tone,
			Accuracy: progress.Percent(tally.Correct, tally.Total),
			Attempts: tally.Total,
		})
	}

	return models.ProgressSummary{
		Flashcards: models.FlashcardSummary{
			Sessions:       p.Flashcards.TotalSessions,
			TotalCards:     p.Flashcards.TotalCards,
			Accuracy:       progress.FlashcardAccuracy(p),
			WeakWordsCount: len(p.Flashcards.WeakWords),
			CategoriesUsed: sortedKeys(p.Flashcards.CategoriesUsed),
		},
		Tones: models.ToneSummary{
			Sessions:       p.Tones.TotalSessions,
			TotalRounds:    p.Tones.TotalRounds,
			Accuracy:       progress.OverallToneAccuracy(p),
			AccuracyByTone: byTone,
			WeakTonesCount: len(p.Tones.WeakToneSets),
			ModeUsage:      p.Tones.ModeUsage,
		},
		Chat: models.ChatSummary{
			Sessions:            p.Chat.TotalSessions,
			MessagesExchanged:   p.Chat.MessagesExchanged,
			CorrectionsReceived: p.Chat.CorrectionsReceived,
			ScenariosUsed:       sortedKeys(p.Chat.ScenariosUsed),
		},
		Overall: models.OverallSummary{
			TotalSessions:  p.Overall.TotalSessions,
			CurrentStreak:  p.Overall.CurrentStreak,
			DaysSinceStart: daysSince(p.Overall.FirstSessionDate, now),
		},
	}
}

func daysSince(start, now time.Time) int {
	if start.IsZero() || now.Before(start) {
		return 0
	}
	return int(now.Sub(start) / (24 * time.Hour))
}

func sortedKeys(m map[string]int) []string {
	if len(m) == 0 {
		return []string{}
	}
	return slices.Sorted(maps.Keys(m))
}
