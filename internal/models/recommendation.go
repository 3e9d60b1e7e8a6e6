package models

import "time"

// RecommendationType is the feature a recommendation points at
type RecommendationType string

const (
	RecommendationTones      RecommendationType = "tones"
	RecommendationFlashcards RecommendationType = "flashcards"
	RecommendationChat       RecommendationType = "chat"
	RecommendationGeneral    RecommendationType = "general"
)

// MaxRecommendations caps the list returned to the learner.
const MaxRecommendations = 4

// Recommendation is one suggested next step
type Recommendation struct {
	Priority     int                `json:"priority"`
	Type         RecommendationType `json:"type" validate:"required,oneof=tones flashcards chat general"`
	Message      string             `json:"message" validate:"required"`
	ActionLabel  string             `json:"actionLabel"`
	ActionParams map[string]string  `json:"actionParams,omitempty"`
}

// Recommendations is the full coaching payload
type Recommendations struct {
	Recommendations []Recommendation    `json:"recommendations" validate:"required,min=1,dive"`
	Encouragement   string              `json:"encouragement"`
	FocusArea       *RecommendationType `json:"focusArea" validate:"omitempty,oneof=tones flashcards chat"`
}

// CachedRecommendations is a stored recommendation payload tagged with the
// snapshot it was computed from.
type CachedRecommendations struct {
	TotalSessions    int             `json:"totalSessions"`
	FirstSessionDate time.Time       `json:"firstSessionDate,omitzero"`
	GeneratedAt      time.Time       `json:"generatedAt"`
	Fallback         bool            `json:"fallback"`
	Result           Recommendations `json:"result"`
}
