package recommend

import (
	"fmt"
	"slices"
	"strings"

	"github.com/benvon/thai-toolkit/internal/models"
	"github.com/benvon/thai-toolkit/internal/progress"
)

// Thresholds used by the rule-based generator.
const (
	minToneAttempts       = 3
	weakToneAccuracy      = 60
	focusToneAccuracy     = 50
	reviewWeakWords       = 3
	focusWeakWords        = 5
	minCardsForAccuracy   = 10
	lowFlashcardAccuracy  = 70
	minSessionsBeforeChat = 2
	longStreak            = 7
	steadyStreak          = 3
)

// scenarioOrder is the order unused chat scenarios are suggested in.
var scenarioOrder = []string{
	models.ScenarioRestaurant,
	models.ScenarioMarket,
	models.ScenarioTaxi,
	models.ScenarioHotel,
	models.ScenarioShopping,
}

// toneOrder fixes the iteration order when looking for the weakest tone.
var toneOrder = []string{
	string(models.ToneMid),
	string(models.ToneLow),
	string(models.ToneHigh),
	string(models.ToneFalling),
	string(models.ToneRising),
}

type toneScore struct {
	name     string
	accuracy int
}

// Fallback builds recommendations from the snapshot alone. The same snapshot
// always yields the same result.
func Fallback(p *models.LearnerProgress) models.Recommendations {
	if p == nil {
		p = models.NewLearnerProgress()
	}

	if p.Overall.TotalSessions == 0 {
		chat := models.RecommendationChat
		return models.Recommendations{
			Recommendations: []models.Recommendation{
				{
					Priority:    1,
					Type:        models.RecommendationGeneral,
					Message:     "Welcome! Start with conversation practice to learn practical Thai phrases",
					ActionLabel: "Start Conversation",
				},
				{
					Priority:    2,
					Type:        models.RecommendationFlashcards,
					Message:     "Build your vocabulary with flashcard quizzes",
					ActionLabel: "Try Flashcards",
				},
			},
			Encouragement: "Welcome to Thai Language Toolkit! Let's begin your learning journey.",
			FocusArea:     &chat,
		}
	}

	var recs []models.Recommendation
	add := func(t models.RecommendationType, message, label string) {
		recs = append(recs, models.Recommendation{
			Priority:    len(recs) + 1,
			Type:        t,
			Message:     message,
			ActionLabel: label,
		})
	}

	lowest, hasLowest := lowestTone(p)
	weakWords := len(p.Flashcards.WeakWords)
	flashcardAccuracy := progress.FlashcardAccuracy(p)

	if hasLowest && lowest.accuracy < weakToneAccuracy {
		add(models.RecommendationTones,
			fmt.Sprintf("Your %s tones need work - you're at %d%% accuracy", lowest.name, lowest.accuracy),
			fmt.Sprintf("Practice %s Tones", capitalize(lowest.name)))
	}

	if weakWords >= reviewWeakWords {
		add(models.RecommendationFlashcards,
			fmt.Sprintf("You have %d words that need review", weakWords),
			"Review Weak Words")
	}

	if p.Flashcards.TotalCards >= minCardsForAccuracy && flashcardAccuracy < lowFlashcardAccuracy {
		add(models.RecommendationFlashcards,
			fmt.Sprintf("Your vocabulary accuracy is %d%% - try shorter sessions to focus", flashcardAccuracy),
			"Quick Vocabulary Quiz")
	}

	if p.Tones.TotalSessions == 0 && p.Flashcards.TotalSessions > 0 {
		add(models.RecommendationTones,
			"You haven't tried tone practice yet - it's essential for Thai!",
			"Try Tone Practice")
	}

	if p.Chat.TotalSessions == 0 && p.Overall.TotalSessions > minSessionsBeforeChat {
		add(models.RecommendationChat,
			"Ready for real conversations? Try a roleplay scenario!",
			"Start Chat Practice")
	}

	if p.Chat.TotalSessions > 0 {
		if next, ok := firstUnusedScenario(p.Chat.ScenariosUsed); ok {
			add(models.RecommendationChat,
				fmt.Sprintf("Try the %s scenario for new vocabulary", next),
				fmt.Sprintf("Practice %s Chat", capitalize(next)))
		}
	}

	if len(recs) == 0 {
		add(models.RecommendationGeneral,
			"Keep practicing! Consistency is key to language learning",
			"Continue Learning")
	}

	return models.Recommendations{
		Recommendations: recs[:min(len(recs), models.MaxRecommendations)],
		Encouragement:   encouragement(p.Overall.CurrentStreak),
		FocusArea:       focusArea(p, lowest, hasLowest),
	}
}

// lowestTone returns the tone with the lowest accuracy among tones with
// enough attempts. Ties keep the tone seen first.
func lowestTone(p *models.LearnerProgress) (toneScore, bool) {
	var (
		best  toneScore
		found bool
	)
	for _, name := range orderedTones(p.Tones.AccuracyByTone) {
		tally := p.Tones.AccuracyByTone[name]
		if tally.Total < minToneAttempts {
			continue
		}
		acc := progress.Percent(tally.Correct, tally.Total)
		if !found || acc < best.accuracy {
			best = toneScore{name: name, accuracy: acc}
			found = true
		}
	}
	return best, found
}

// orderedTones lists the five tones in canonical order followed by any
// other keys alphabetically.
func orderedTones(byTone map[string]models.ToneTally) []string {
	out := make([]string, 0, len(byTone))
	for _, t := range toneOrder {
		if _, ok := byTone[t]; ok {
			out = append(out, t)
		}
	}
	var extra []string
	for t := range byTone {
		if !slices.Contains(toneOrder, t) {
			extra = append(extra, t)
		}
	}
	slices.Sort(extra)
	return append(out, extra...)
}

func firstUnusedScenario(used map[string]int) (string, bool) {
	for _, s := range scenarioOrder {
		if _, ok := used[s]; !ok {
			return s, true
		}
	}
	return "", false
}

func encouragement(streak int) string {
	switch {
	case streak >= longStreak:
		return fmt.Sprintf("Amazing %d-day streak! You're building a strong habit.", streak)
	case streak >= steadyStreak:
		return fmt.Sprintf("Great %d-day streak! Keep the momentum going.", streak)
	case streak == 1:
		return "Good start today! Come back tomorrow to build your streak."
	default:
		return "Welcome back! Every practice session counts."
	}
}

func focusArea(p *models.LearnerProgress, lowest toneScore, hasLowest bool) *models.RecommendationType {
	var area models.RecommendationType
	switch {
	case hasLowest && lowest.accuracy < focusToneAccuracy:
		area = models.RecommendationTones
	case len(p.Flashcards.WeakWords) >= focusWeakWords:
		area = models.RecommendationFlashcards
	case p.Chat.TotalSessions == 0:
		area = models.RecommendationChat
	default:
		return nil
	}
	return &area
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
