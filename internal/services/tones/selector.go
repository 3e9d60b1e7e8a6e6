// Package tones picks tone practice sets, preferring the fixed library and
// asking the completion gateway only when the library runs short.
package tones

import (
	"context"
	"errors"
	"math/rand/v2"
	"slices"
	"sync"

	"go.uber.org/zap"

	"github.com/benvon/thai-toolkit/internal/models"
	"github.com/benvon/thai-toolkit/internal/services/ai"
)

// DefaultCount is the number of sets returned when none is requested.
const DefaultCount = 5

// Source says where a selection came from.
type Source string

const (
	SourceLibrary   Source = "library"
	SourceGenerated Source = "generated"
	SourceFallback  Source = "fallback"
)

const minWordsInToneSet = 2

var (
	errNoGenerator  = errors.New("no tone set generator configured")
	errNoUsableSets = errors.New("generated tone sets were all unusable")
)

// Generator produces tone sets from the completion gateway.
type Generator interface {
	GenerateToneSets(ctx context.Context, count int, usedSets []string) (ai.Result[models.ToneSetList], error)
}

// Selection is the result of Select
type Selection struct {
	Sets   []models.ToneSet `json:"sets"`
	Source Source           `json:"source"`
}

// Service selects tone practice sets
type Service struct {
	gen    Generator
	logger *zap.Logger

	mu  sync.Mutex
	rng *rand.Rand
}

// NewService creates a selector. gen may be nil, in which case only the
// library is used.
func NewService(gen Generator, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		gen:    gen,
		logger: logger,
		rng:    rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}
}

// WithRand replaces the shuffle source, for deterministic tests.
func (s *Service) WithRand(r *rand.Rand) *Service {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rng = r
	return s
}

// Select returns up to count sets whose base sound is not in usedSets.
//
// When the library still holds at least count unused sets a shuffled
// selection is returned without any network call. Otherwise the gateway is
// asked; generated sets are kept only when they have a base sound, at least
// two words and an unused base sound. If none survive, or the call fails, the
// remaining library sets are returned.
func (s *Service) Select(ctx context.Context, count int, usedSets []string) Selection {
	if count <= 0 {
		count = DefaultCount
	}

	available := slices.DeleteFunc(Library(), func(set models.ToneSet) bool {
		return slices.Contains(usedSets, set.BaseSound)
	})

	if len(available) >= count {
		return Selection{Sets: s.shuffle(available)[:count], Source: SourceLibrary}
	}

	sets, fellBack := ai.WithFallback(ctx, s.logger, "tones",
		func(ctx context.Context) ([]models.ToneSet, error) {
			return s.generate(ctx, count, usedSets)
		},
		func() []models.ToneSet {
			shuffled := s.shuffle(available)
			return shuffled[:min(count, len(shuffled))]
		},
	)
	if fellBack {
		return Selection{Sets: sets, Source: SourceFallback}
	}
	return Selection{Sets: sets, Source: SourceGenerated}
}

func (s *Service) generate(ctx context.Context, count int, usedSets []string) ([]models.ToneSet, error) {
	if s.gen == nil {
		return nil, errNoGenerator
	}
	res, err := s.gen.GenerateToneSets(ctx, count, usedSets)
	if err != nil {
		return nil, err
	}
	list, err := res.Unwrap()
	if err != nil {
		return nil, err
	}
	valid := slices.DeleteFunc(list.Sets, func(set models.ToneSet) bool {
		return set.BaseSound == "" ||
			len(set.Words) < minWordsInToneSet ||
			slices.Contains(usedSets, set.BaseSound)
	})
	if len(valid) == 0 {
		return nil, errNoUsableSets
	}
	return valid[:min(count, len(valid))], nil
}

func (s *Service) shuffle(sets []models.ToneSet) []models.ToneSet {
	out := slices.Clone(sets)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}
