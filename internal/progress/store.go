// Package progress accumulates learning-session outcomes into a learner's
// persisted LearnerProgress record and answers read-side questions about it.
package progress

import (
	"context"
	"encoding/json"
	"errors"
	"hash/fnv"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/benvon/thai-toolkit/internal/logger"
	"github.com/benvon/thai-toolkit/internal/models"
)

// DefaultKey is the record key for a single-learner installation.
const DefaultKey = "thai-toolkit-progress"

// KeyFor returns the record key for learnerID. An empty id maps to DefaultKey.
func KeyFor(learnerID string) string {
	if learnerID == "" {
		return DefaultKey
	}
	return DefaultKey + ":" + learnerID
}

// Backend is the keyed storage the store persists into.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// Option configures a Store or Manager.
type Option func(*settings)

type settings struct {
	logger *zap.Logger
	now    func() time.Time
	loc    *time.Location
}

// WithLogger sets the logger used for dropped writes and unreadable records.
func WithLogger(l *zap.Logger) Option {
	return func(s *settings) { s.logger = l }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *settings) { s.now = now }
}

// WithLocation sets the location calendar dates are computed in.
func WithLocation(loc *time.Location) Option {
	return func(s *settings) { s.loc = loc }
}

func newSettings(opts []Option) settings {
	s := settings{now: time.Now, loc: time.Local}
	for _, opt := range opts {
		opt(&s)
	}
	s.logger = logger.OrNop(s.logger)
	if s.loc == nil {
		s.loc = time.Local
	}
	return s
}

// Store reads and writes one learner's progress record.
//
// Storage failures never reach the caller: reads fall back to a zero-valued
// aggregate and failed writes are logged and dropped.
type Store struct {
	backend Backend
	key     string
	mu      *sync.Mutex
	settings
}

// New creates a store for the record under key.
func New(backend Backend, key string, opts ...Option) *Store {
	return &Store{
		backend:  backend,
		key:      key,
		mu:       &sync.Mutex{},
		settings: newSettings(opts),
	}
}

// Key returns the record key.
func (s *Store) Key() string {
	return s.key
}

// Progress returns a snapshot of the aggregate.
func (s *Store) Progress(ctx context.Context) *models.LearnerProgress {
	return s.load(ctx)
}

// Reset deletes the persisted record. Subsequent reads return a fresh aggregate.
func (s *Store) Reset(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.backend.Delete(ctx, s.key); err != nil {
		s.logger.Warn("progress_reset_failed",
			zap.String("key", logger.SanitizeID(s.key)),
			zap.String("error", logger.SanitizeError(err)))
		return
	}
	s.logger.Info("progress_reset", zap.String("key", logger.SanitizeID(s.key)))
}

// update runs fn against the current aggregate under the store lock, applies
// the streak procedure, persists, and returns a copy of the result.
func (s *Store) update(ctx context.Context, fn func(p *models.LearnerProgress, now time.Time)) *models.LearnerProgress {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.load(ctx)
	now := s.now().In(s.loc)
	fn(p, now)
	updateStreak(&p.Overall, now, s.loc)
	s.save(ctx, p)
	return p.Clone()
}

func (s *Store) load(ctx context.Context) *models.LearnerProgress {
	raw, found, err := s.backend.Get(ctx, s.key)
	if err != nil {
		s.logger.Warn("progress_read_failed",
			zap.String("key", logger.SanitizeID(s.key)),
			zap.String("error", logger.SanitizeError(err)))
		return models.NewLearnerProgress()
	}
	if !found {
		return models.NewLearnerProgress()
	}
	p, err := decode(raw)
	if err != nil {
		// Left in place; the next successful write replaces it.
		s.logger.Warn("progress_record_unreadable",
			zap.String("key", logger.SanitizeID(s.key)),
			zap.String("error", logger.SanitizeError(err)))
		return models.NewLearnerProgress()
	}
	return p
}

func (s *Store) save(ctx context.Context, p *models.LearnerProgress) {
	p.Version = models.ProgressVersion
	raw, err := json.Marshal(p)
	if err != nil {
		s.logger.Error("progress_encode_failed",
			zap.String("key", logger.SanitizeID(s.key)),
			zap.Error(err))
		return
	}
	if err := s.backend.Set(ctx, s.key, raw); err != nil {
		s.logger.Warn("progress_write_failed",
			zap.String("key", logger.SanitizeID(s.key)),
			zap.String("error", logger.SanitizeError(err)))
	}
}

// lockStripes bounds the Manager's memory regardless of how many learners it
// has seen.
const lockStripes = 256

// Manager hands out stores for learner ids. Stores for the same learner share
// a lock, so concurrent recordings in this process never interleave; unrelated
// learners may share a stripe. Writes from other processes are
// last-write-wins.
type Manager struct {
	backend  Backend
	locks    [lockStripes]sync.Mutex
	settings settings
}

// NewManager creates a manager over backend.
func NewManager(backend Backend, opts ...Option) *Manager {
	return &Manager{
		backend:  backend,
		settings: newSettings(opts),
	}
}

// For returns the store for learnerID.
func (m *Manager) For(learnerID string) *Store {
	key := KeyFor(learnerID)
	return &Store{backend: m.backend, key: key, mu: m.lockFor(key), settings: m.settings}
}

func (m *Manager) lockFor(key string) *sync.Mutex {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return &m.locks[h.Sum32()%lockStripes]
}

// Location returns the location calendar dates are computed in.
func (m *Manager) Location() *time.Location {
	return m.settings.loc
}

// Now returns the manager's clock reading.
func (m *Manager) Now() time.Time {
	return m.settings.now()
}

var errFutureVersion = errors.New("progress record written by a newer version")
