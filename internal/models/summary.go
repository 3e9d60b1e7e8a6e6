package models

// ProgressSummary is the condensed view of a learner's progress sent to the
// recommendation model.
type ProgressSummary struct {
	Flashcards FlashcardSummary `json:"flashcards"`
	Tones      ToneSummary      `json:"tones"`
	Chat       ChatSummary      `json:"chat"`
	Overall    OverallSummary   `json:"overall"`
}

// FlashcardSummary condenses FlashcardStats
type FlashcardSummary struct {
	Sessions       int      `json:"sessions"`
	TotalCards     int      `json:"totalCards"`
	Accuracy       int      `json:"accuracy"`
	WeakWordsCount int      `json:"weakWordsCount"`
	CategoriesUsed []string `json:"categoriesUsed"`
}

// ToneAccuracySummary is one tone's accuracy and attempt count
type ToneAccuracySummary struct {
	Tone     string `json:"tone"`
	Accuracy int    `json:"accuracy"`
	Attempts int    `json:"attempts"`
}

// ToneSummary condenses ToneStats
type ToneSummary struct {
	Sessions       int                   `json:"sessions"`
	TotalRounds    int                   `json:"totalRounds"`
	Accuracy       int                   `json:"accuracy"`
	AccuracyByTone []ToneAccuracySummary `json:"accuracyByTone"`
	WeakTonesCount int                   `json:"weakTonesCount"`
	ModeUsage      ModeUsage             `json:"modeUsage"`
}

// ChatSummary condenses ChatStats
type ChatSummary struct {
	Sessions            int      `json:"sessions"`
	MessagesExchanged   int      `json:"messagesExchanged"`
	CorrectionsReceived int      `json:"correctionsReceived"`
	ScenariosUsed       []string `json:"scenariosUsed"`
}

// OverallSummary condenses OverallStats
type OverallSummary struct {
	TotalSessions  int `json:"totalSessions"`
	CurrentStreak  int `json:"currentStreak"`
	DaysSinceStart int `json:"daysSinceStart"`
}
