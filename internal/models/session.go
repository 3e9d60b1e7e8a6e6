package models

// FlashcardWord is a single vocabulary card
type FlashcardWord struct {
	Thai         string `json:"thai" validate:"required"`
	Romanization string `json:"romanization"`
	English      string `json:"english"`
}

// FlashcardAnswer is one answered card in a session
type FlashcardAnswer struct {
	Word      FlashcardWord `json:"word"`
	IsCorrect bool          `json:"isCorrect"`
}

// FlashcardSessionResult is the outcome of a flashcard quiz
type FlashcardSessionResult struct {
	Score      int               `json:"score" validate:"gte=0"`
	Total      int               `json:"total" validate:"gte=0"`
	Categories []string          `json:"categories"`
	Answers    []FlashcardAnswer `json:"answers"`
}

// ToneAnswer is one answered tone round
type ToneAnswer struct {
	TargetTone string `json:"targetTone"`
	TargetThai string `json:"targetThai"`
	BaseSound  string `json:"baseSound"`
	IsCorrect  bool   `json:"isCorrect"`
}

// ToneSessionResult is the outcome of a tone practice session
type ToneSessionResult struct {
	Mode    ToneMode     `json:"mode" validate:"omitempty,tone_mode"`
	Score   int          `json:"score" validate:"gte=0"`
	Total   int          `json:"total" validate:"gte=0"`
	Answers []ToneAnswer `json:"answers" validate:"dive"`
}

// ChatSessionResult is the outcome of a conversation practice session
type ChatSessionResult struct {
	Scenario            string `json:"scenario"`
	MessageCount        int    `json:"messageCount" validate:"gte=0"`
	CorrectionsReceived int    `json:"correctionsReceived" validate:"gte=0"`
}
