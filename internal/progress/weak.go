package progress

import (
	"slices"
	"time"

	"github.com/benvon/thai-toolkit/internal/models"
)

func applyWordAnswer(words []models.WeakWord, a models.FlashcardAnswer, category string, now time.Time) []models.WeakWord {
	i := slices.IndexFunc(words, func(w models.WeakWord) bool { return w.Thai == a.Word.Thai })

	if a.IsCorrect {
		if i < 0 {
			return words
		}
		words[i].CorrectStreak++
		words[i].LastPracticed = now
		if words[i].CorrectStreak >= models.MasteryThreshold {
			return slices.Delete(words, i, i+1)
		}
		return words
	}

	if i >= 0 {
		words[i].IncorrectCount++
		words[i].CorrectStreak = 0
		words[i].LastPracticed = now
		return words
	}
	return append(words, models.WeakWord{
		Thai:           a.Word.Thai,
		Romanization:   a.Word.Romanization,
		English:        a.Word.English,
		Category:       category,
		IncorrectCount: 1,
		LastPracticed:  now,
	})
}

func applyToneAnswer(sets []models.WeakToneSet, a models.ToneAnswer, now time.Time) []models.WeakToneSet {
	i := slices.IndexFunc(sets, func(w models.WeakToneSet) bool {
		return w.BaseSound == a.BaseSound && w.TargetTone == a.TargetTone
	})

	if a.IsCorrect {
		if i < 0 {
			return sets
		}
		sets[i].CorrectStreak++
		sets[i].LastPracticed = now
		if sets[i].CorrectStreak >= models.MasteryThreshold {
			return slices.Delete(sets, i, i+1)
		}
		return sets
	}

	if i >= 0 {
		sets[i].IncorrectCount++
		sets[i].CorrectStreak = 0
		sets[i].LastPracticed = now
		return sets
	}
	return append(sets, models.WeakToneSet{
		BaseSound:      a.BaseSound,
		TargetTone:     a.TargetTone,
		TargetThai:     a.TargetThai,
		IncorrectCount: 1,
		LastPracticed:  now,
	})
}
