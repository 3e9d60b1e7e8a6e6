package progress

import (
	"cmp"
	"context"
	"math"
	"slices"

	"github.com/benvon/thai-toolkit/internal/models"
)

// WeakWords returns weak words, most-missed first. limit <= 0 returns all.
func (s *Store) WeakWords(ctx context.Context, limit int) []models.WeakWord {
	return SortedWeakWords(s.load(ctx), limit)
}

// WeakTones returns weak tone sets, most-missed first. limit <= 0 returns all.
func (s *Store) WeakTones(ctx context.Context, limit int) []models.WeakToneSet {
	return SortedWeakTones(s.load(ctx), limit)
}

// ToneAccuracy returns the percentage of correct answers for tone.
func (s *Store) ToneAccuracy(ctx context.Context, tone string) int {
	return ToneAccuracy(s.load(ctx), tone)
}

// FlashcardAccuracy returns the percentage of flashcards answered correctly.
func (s *Store) FlashcardAccuracy(ctx context.Context) int {
	return FlashcardAccuracy(s.load(ctx))
}

// OverallToneAccuracy returns the percentage of tone rounds answered correctly.
func (s *Store) OverallToneAccuracy(ctx context.Context) int {
	return OverallToneAccuracy(s.load(ctx))
}

// HasProgress reports whether any session has been recorded.
func (s *Store) HasProgress(ctx context.Context) bool {
	return HasProgress(s.load(ctx))
}

// SortedWeakWords returns p's weak words, most missed first, truncated to
// limit when limit is positive. Ties keep their recorded order.
func SortedWeakWords(p *models.LearnerProgress, limit int) []models.WeakWord {
	out := slices.Clone(p.Flashcards.WeakWords)
	slices.SortStableFunc(out, func(a, b models.WeakWord) int {
		return cmp.Compare(b.IncorrectCount, a.IncorrectCount)
	})
	return truncate(out, limit)
}

// SortedWeakTones is SortedWeakWords for weak tone sets.
func SortedWeakTones(p *models.LearnerProgress, limit int) []models.WeakToneSet {
	out := slices.Clone(p.Tones.WeakToneSets)
	slices.SortStableFunc(out, func(a, b models.WeakToneSet) int {
		return cmp.Compare(b.IncorrectCount, a.IncorrectCount)
	})
	return truncate(out, limit)
}

// ToneAccuracy returns the percentage of correct answers for tone, 0 for an
// unseen tone.
func ToneAccuracy(p *models.LearnerProgress, tone string) int {
	t := p.Tones.AccuracyByTone[tone]
	return Percent(t.Correct, t.Total)
}

// FlashcardAccuracy returns the percentage of flashcards answered correctly.
func FlashcardAccuracy(p *models.LearnerProgress) int {
	return Percent(p.Flashcards.CorrectAnswers, p.Flashcards.TotalCards)
}

// OverallToneAccuracy returns the percentage of tone rounds answered correctly.
func OverallToneAccuracy(p *models.LearnerProgress) int {
	return Percent(p.Tones.CorrectAnswers, p.Tones.TotalRounds)
}

// HasProgress reports whether any session has been recorded.
func HasProgress(p *models.LearnerProgress) bool {
	return p.Overall.TotalSessions > 0
}

// Percent returns round(part/total*100), or 0 when total is 0.
func Percent(part, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(total) * 100))
}

func truncate[T any](items []T, limit int) []T {
	if items == nil {
		items = []T{}
	}
	if limit > 0 && len(items) > limit {
		return items[:limit]
	}
	return items
}
