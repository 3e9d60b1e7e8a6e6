package progress

import (
	"encoding/json"
	"fmt"
	"slices"

	"github.com/benvon/thai-toolkit/internal/models"
)

// migrations maps a record version to the step that lifts it to the next one.
var migrations = map[int]func(p *models.LearnerProgress){
	// Untagged records predate the version field; the shape is the same but
	// collections may be missing.
	0: fillCollections,
}

// legacyDateFields were written as "" when unset before records carried a version.
var legacyDateFields = []string{"lastSessionDate", "firstSessionDate", "lastPracticed"}

func decode(raw []byte) (*models.LearnerProgress, error) {
	var head struct {
		Version int `json:"version"`
	}
	if err := json.Unmarshal(raw, &head); err != nil {
		return nil, fmt.Errorf("decode progress: %w", err)
	}
	if head.Version == 0 {
		cleaned, err := dropEmptyDates(raw)
		if err != nil {
			return nil, fmt.Errorf("decode progress: %w", err)
		}
		raw = cleaned
	}

	var p models.LearnerProgress
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("decode progress: %w", err)
	}
	if p.Version > models.ProgressVersion {
		return nil, fmt.Errorf("%w: version %d", errFutureVersion, p.Version)
	}
	for p.Version < models.ProgressVersion {
		step, ok := migrations[p.Version]
		if !ok {
			return nil, fmt.Errorf("no migration from version %d", p.Version)
		}
		step(&p)
		p.Version++
	}
	fillCollections(&p)
	return &p, nil
}

func fillCollections(p *models.LearnerProgress) {
	if p.Flashcards.CategoriesUsed == nil {
		p.Flashcards.CategoriesUsed = map[string]int{}
	}
	if p.Flashcards.WeakWords == nil {
		p.Flashcards.WeakWords = []models.WeakWord{}
	}
	if p.Tones.AccuracyByTone == nil {
		p.Tones.AccuracyByTone = map[string]models.ToneTally{}
	}
	if p.Tones.WeakToneSets == nil {
		p.Tones.WeakToneSets = []models.WeakToneSet{}
	}
	if p.Chat.ScenariosUsed == nil {
		p.Chat.ScenariosUsed = map[string]int{}
	}
}

func dropEmptyDates(raw []byte) ([]byte, error) {
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	scrubDates(doc)
	return json.Marshal(doc)
}

func scrubDates(v any) {
	switch node := v.(type) {
	case map[string]any:
		for k, child := range node {
			if s, ok := child.(string); ok && s == "" && slices.Contains(legacyDateFields, k) {
				delete(node, k)
				continue
			}
			scrubDates(child)
		}
	case []any:
		for _, child := range node {
			scrubDates(child)
		}
	}
}
