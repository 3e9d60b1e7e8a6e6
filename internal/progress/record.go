package progress

import (
	"context"
	"time"

	"github.com/benvon/thai-toolkit/internal/models"
)

// RecordFlashcardSession folds a flashcard quiz into the aggregate and returns
// the updated copy.
func (s *Store) RecordFlashcardSession(ctx context.Context, r models.FlashcardSessionResult) *models.LearnerProgress {
	return s.update(ctx, func(p *models.LearnerProgress, now time.Time) {
		f := &p.Flashcards
		f.TotalSessions++
		f.TotalCards += r.Total
		f.CorrectAnswers += r.Score
		f.LastSessionDate = now
		f.LastSessionScore = r.Score
		f.LastSessionTotal = r.Total

		for _, c := range r.Categories {
			f.CategoriesUsed[c]++
		}

		category := models.DefaultWeakCategory
		if len(r.Categories) > 0 {
			category = r.Categories[0]
		}
		for _, a := range r.Answers {
			f.WeakWords = applyWordAnswer(f.WeakWords, a, category, now)
		}
	})
}

// RecordToneSession folds a tone practice session into the aggregate and
// returns the updated copy.
func (s *Store) RecordToneSession(ctx context.Context, r models.ToneSessionResult) *models.LearnerProgress {
	return s.update(ctx, func(p *models.LearnerProgress, now time.Time) {
		t := &p.Tones
		t.TotalSessions++
		t.TotalRounds += r.Total
		t.CorrectAnswers += r.Score
		t.LastSessionDate = now
		t.LastSessionScore = r.Score
		t.LastSessionTotal = r.Total

		switch r.Mode {
		case models.ToneModeListen:
			t.ModeUsage.Listen++
		case models.ToneModeSpeak:
			t.ModeUsage.Speak++
		}

		for _, a := range r.Answers {
			// Without a target tone the answer only counts toward the session totals.
			if a.TargetTone == "" {
				continue
			}
			tally := t.AccuracyByTone[a.TargetTone]
			tally.Total++
			if a.IsCorrect {
				tally.Correct++
			}
			t.AccuracyByTone[a.TargetTone] = tally
			t.WeakToneSets = applyToneAnswer(t.WeakToneSets, a, now)
		}
	})
}

// RecordChatSession folds a conversation session into the aggregate and
// returns the updated copy.
func (s *Store) RecordChatSession(ctx context.Context, r models.ChatSessionResult) *models.LearnerProgress {
	return s.update(ctx, func(p *models.LearnerProgress, now time.Time) {
		c := &p.Chat
		c.TotalSessions++
		c.MessagesExchanged += r.MessageCount
		c.CorrectionsReceived += r.CorrectionsReceived
		c.LastScenario = r.Scenario
		c.LastSessionDate = now
		if r.Scenario != "" {
			c.ScenariosUsed[r.Scenario]++
		}
	})
}
