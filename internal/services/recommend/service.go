// Package recommend produces learner coaching recommendations, asking the
// completion gateway first and falling back to local rules.
package recommend

import (
	"context"
	"encoding/json"
	"errors"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/benvon/thai-toolkit/internal/logger"
	"github.com/benvon/thai-toolkit/internal/models"
	"github.com/benvon/thai-toolkit/internal/progress"
	"github.com/benvon/thai-toolkit/internal/services/ai"
)

// CacheKeyPrefix prefixes the stored recommendations of every learner.
const CacheKeyPrefix = "thai-toolkit-recommendations"

// ErrNoProvider is returned by Regenerate when no gateway is configured.
var ErrNoProvider = errors.New("no recommendation provider configured")

// CacheKey returns the storage key for learnerID's cached recommendations.
func CacheKey(learnerID string) string {
	if learnerID == "" {
		return CacheKeyPrefix
	}
	return CacheKeyPrefix + ":" + learnerID
}

// Provider asks the completion gateway for recommendations.
type Provider interface {
	Recommend(ctx context.Context, summary models.ProgressSummary) (ai.Result[models.Recommendations], error)
}

// Cache stores computed recommendations.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// Service computes and caches recommendations per learner
type Service struct {
	provider Provider
	cache    Cache
	progress *progress.Manager
	logger   *zap.Logger
	group    singleflight.Group
}

// NewService creates a recommendation service. provider and cache may be nil.
func NewService(provider Provider, cache Cache, manager *progress.Manager, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		provider: provider,
		cache:    cache,
		progress: manager,
		logger:   logger,
	}
}

// Get returns recommendations for the learner's current snapshot. A cached
// entry is served when it was computed from the same snapshot generation
// (session count and first session date); otherwise recommendations are
// computed now. Concurrent computations for the same learner are collapsed
// into one.
func (s *Service) Get(ctx context.Context, learnerID string) models.CachedRecommendations {
	snapshot := s.progress.For(learnerID).Progress(ctx)

	if cached, ok := s.cached(ctx, learnerID); ok && computedFrom(cached, snapshot) {
		return cached
	}

	v, _, _ := s.group.Do(learnerID, func() (any, error) {
		return s.compute(ctx, learnerID, snapshot), nil
	})
	return v.(models.CachedRecommendations)
}

// Refresh recomputes and stores recommendations for the learner's current
// snapshot, regardless of what is cached.
func (s *Service) Refresh(ctx context.Context, learnerID string) models.CachedRecommendations {
	snapshot := s.progress.For(learnerID).Progress(ctx)
	return s.compute(ctx, learnerID, snapshot)
}

// Forget drops the learner's cached recommendations, after a progress reset.
func (s *Service) Forget(ctx context.Context, learnerID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, CacheKey(learnerID)); err != nil {
		s.logger.Warn("recommendations_cache_delete_failed",
			zap.String("learner_id", logger.SanitizeID(learnerID)),
			zap.String("error", logger.SanitizeError(err)))
	}
}

// Regenerate asks the gateway for fresh recommendations and caches them. It
// never falls back: gateway failures are returned so a background caller can
// retry later.
func (s *Service) Regenerate(ctx context.Context, learnerID string) error {
	if s.provider == nil {
		return ErrNoProvider
	}
	snapshot := s.progress.For(learnerID).Progress(ctx)
	now := s.progress.Now()

	res, err := s.provider.Recommend(ctx, Summarize(snapshot, now))
	if err != nil {
		return err
	}
	recs, err := res.Unwrap()
	if err != nil {
		return err
	}
	s.store(ctx, learnerID, models.CachedRecommendations{
		TotalSessions:    snapshot.Overall.TotalSessions,
		FirstSessionDate: snapshot.Overall.FirstSessionDate,
		GeneratedAt:      now.UTC(),
		Result:           recs,
	})
	return nil
}

func (s *Service) compute(ctx context.Context, learnerID string, snapshot *models.LearnerProgress) models.CachedRecommendations {
	now := s.progress.Now()
	recs, fellBack := ai.WithFallback(ctx, s.logger, "recommendations",
		func(ctx context.Context) (models.Recommendations, error) {
			if s.provider == nil {
				return models.Recommendations{}, ErrNoProvider
			}
			res, err := s.provider.Recommend(ctx, Summarize(snapshot, now))
			if err != nil {
				return models.Recommendations{}, err
			}
			return res.Unwrap()
		},
		func() models.Recommendations { return Fallback(snapshot) },
	)

	out := models.CachedRecommendations{
		TotalSessions:    snapshot.Overall.TotalSessions,
		FirstSessionDate: snapshot.Overall.FirstSessionDate,
		GeneratedAt:      now.UTC(),
		Fallback:         fellBack,
		Result:           recs,
	}

	// Fallbacks caused by a gateway failure are not cached.
	if !fellBack || s.provider == nil {
		s.store(ctx, learnerID, out)
	}
	return out
}

// computedFrom reports whether cached was built from snapshot's history. A
// reset starts a new history with a new first session date.
func computedFrom(cached models.CachedRecommendations, snapshot *models.LearnerProgress) bool {
	return cached.TotalSessions == snapshot.Overall.TotalSessions &&
		cached.FirstSessionDate.Equal(snapshot.Overall.FirstSessionDate)
}

func (s *Service) cached(ctx context.Context, learnerID string) (models.CachedRecommendations, bool) {
	var out models.CachedRecommendations
	if s.cache == nil {
		return out, false
	}
	raw, ok, err := s.cache.Get(ctx, CacheKey(learnerID))
	if err != nil {
		s.logger.Warn("recommendations_cache_read_failed",
			zap.String("learner_id", logger.SanitizeID(learnerID)),
			zap.String("error", logger.SanitizeError(err)))
		return out, false
	}
	if !ok {
		return out, false
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		s.logger.Warn("recommendations_cache_unreadable",
			zap.String("learner_id", logger.SanitizeID(learnerID)),
			zap.String("error", logger.SanitizeError(err)))
		return out, false
	}
	return out, true
}

func (s *Service) store(ctx context.Context, learnerID string, v models.CachedRecommendations) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(v)
	if err != nil {
		s.logger.Error("recommendations_encode_failed", zap.Error(err))
		return
	}
	if err := s.cache.Set(ctx, CacheKey(learnerID), raw); err != nil {
		s.logger.Warn("recommendations_cache_write_failed",
			zap.String("learner_id", logger.SanitizeID(learnerID)),
			zap.String("error", logger.SanitizeError(err)))
	}
}
