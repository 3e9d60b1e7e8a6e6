package models

import "time"

// ProgressVersion is the current shape of a persisted LearnerProgress record.
const ProgressVersion = 1

// MasteryThreshold is the number of consecutive correct answers that removes a weak item.
const MasteryThreshold = 3

// DefaultWeakCategory is assigned to new weak words recorded without a category.
const DefaultWeakCategory = "mixed"

// ToneMode is the tone practice mode
type ToneMode string

const (
	ToneModeListen ToneMode = "listen"
	ToneModeSpeak  ToneMode = "speak"
)

// Tone names the five Thai tones
type Tone string

const (
	ToneMid     Tone = "mid"
	ToneLow     Tone = "low"
	ToneHigh    Tone = "high"
	ToneFalling Tone = "falling"
	ToneRising  Tone = "rising"
)

// LearnerProgress is the single persisted aggregate for one learner.
type LearnerProgress struct {
	Version    int            `json:"version"`
	Flashcards FlashcardStats `json:"flashcards"`
	Tones      ToneStats      `json:"tones"`
	Chat       ChatStats      `json:"chat"`
	Overall    OverallStats   `json:"overall"`
}

// FlashcardStats accumulates flashcard quiz sessions
type FlashcardStats struct {
	TotalSessions    int            `json:"totalSessions"`
	TotalCards       int            `json:"totalCards"`
	CorrectAnswers   int            `json:"correctAnswers"`
	CategoriesUsed   map[string]int `json:"categoriesUsed"`
	WeakWords        []WeakWord     `json:"weakWords"`
	LastSessionDate  time.Time      `json:"lastSessionDate,omitzero"`
	LastSessionScore int            `json:"lastSessionScore"`
	LastSessionTotal int            `json:"lastSessionTotal"`
}

// ModeUsage counts tone sessions per mode
type ModeUsage struct {
	Listen int `json:"listen"`
	Speak  int `json:"speak"`
}

// ToneTally is the correct/total pair tracked per tone
type ToneTally struct {
	Correct int `json:"correct"`
	Total   int `json:"total"`
}

// ToneStats accumulates tone practice sessions
type ToneStats struct {
	TotalSessions    int                  `json:"totalSessions"`
	TotalRounds      int                  `json:"totalRounds"`
	CorrectAnswers   int                  `json:"correctAnswers"`
	ModeUsage        ModeUsage            `json:"modeUsage"`
	AccuracyByTone   map[string]ToneTally `json:"accuracyByTone"`
	WeakToneSets     []WeakToneSet        `json:"weakToneSets"`
	LastSessionDate  time.Time            `json:"lastSessionDate,omitzero"`
	LastSessionScore int                  `json:"lastSessionScore"`
	LastSessionTotal int                  `json:"lastSessionTotal"`
}

// ChatStats accumulates conversation practice sessions
type ChatStats struct {
	TotalSessions       int            `json:"totalSessions"`
	ScenariosUsed       map[string]int `json:"scenariosUsed"`
	CorrectionsReceived int            `json:"correctionsReceived"`
	MessagesExchanged   int            `json:"messagesExchanged"`
	LastScenario        string         `json:"lastScenario"`
	LastSessionDate     time.Time      `json:"lastSessionDate,omitzero"`
}

// OverallStats spans every feature
type OverallStats struct {
	TotalSessions    int       `json:"totalSessions"`
	FirstSessionDate time.Time `json:"firstSessionDate,omitzero"`
	LastSessionDate  time.Time `json:"lastSessionDate,omitzero"`
	CurrentStreak    int       `json:"currentStreak"`
}

// WeakWord is a vocabulary item the learner has missed and not yet mastered.
// Identity is the Thai text.
type WeakWord struct {
	Thai           string    `json:"thai"`
	Romanization   string    `json:"romanization"`
	English        string    `json:"english"`
	Category       string    `json:"category"`
	IncorrectCount int       `json:"incorrectCount"`
	CorrectStreak  int       `json:"correctStreak"`
	LastPracticed  time.Time `json:"lastPracticed,omitzero"`
}

// WeakToneSet is a tone contrast the learner has missed and not yet mastered.
// Identity is the (BaseSound, TargetTone) pair.
type WeakToneSet struct {
	BaseSound      string    `json:"baseSound"`
	TargetTone     string    `json:"targetTone"`
	TargetThai     string    `json:"targetThai"`
	IncorrectCount int       `json:"incorrectCount"`
	CorrectStreak  int       `json:"correctStreak"`
	LastPracticed  time.Time `json:"lastPracticed,omitzero"`
}

// NewLearnerProgress returns a zero-valued aggregate with every collection allocated.
func NewLearnerProgress() *LearnerProgress {
	return &LearnerProgress{
		Version: ProgressVersion,
		Flashcards: FlashcardStats{
			CategoriesUsed: map[string]int{},
			WeakWords:      []WeakWord{},
		},
		Tones: ToneStats{
			AccuracyByTone: map[string]ToneTally{},
			WeakToneSets:   []WeakToneSet{},
		},
		Chat: ChatStats{
			ScenariosUsed: map[string]int{},
		},
	}
}

// Clone returns a deep copy so callers can hold a snapshot safely.
func (p *LearnerProgress) Clone() *LearnerProgress {
	if p == nil {
		return nil
	}
	c := *p
	c.Flashcards.CategoriesUsed = make(map[string]int, len(p.Flashcards.CategoriesUsed))
	for k, v := range p.Flashcards.CategoriesUsed {
		c.Flashcards.CategoriesUsed[k] = v
	}
	c.Flashcards.WeakWords = append([]WeakWord{}, p.Flashcards.WeakWords...)
	c.Tones.AccuracyByTone = make(map[string]ToneTally, len(p.Tones.AccuracyByTone))
	for k, v := range p.Tones.AccuracyByTone {
		c.Tones.AccuracyByTone[k] = v
	}
	c.Tones.WeakToneSets = append([]WeakToneSet{}, p.Tones.WeakToneSets...)
	c.Chat.ScenariosUsed = make(map[string]int, len(p.Chat.ScenariosUsed))
	for k, v := range p.Chat.ScenariosUsed {
		c.Chat.ScenariosUsed[k] = v
	}
	return &c
}
