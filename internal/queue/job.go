package queue

import (
	"time"

	"github.com/google/uuid"
)

// JobType represents the type of job
type JobType string

const (
	// JobTypeRecommendationRefresh recomputes the cached recommendations for one learner
	JobTypeRecommendationRefresh JobType = "recommendation_refresh"
)

// RefreshDebounce is how long a refresh job waits before it becomes eligible.
// Several progress writes in quick succession then collapse into one gateway call.
const RefreshDebounce = 5 * time.Second

// Job represents a job in the queue
type Job struct {
	ID         uuid.UUID      `json:"id"`
	Type       JobType        `json:"type"`
	LearnerID  string         `json:"learner_id"`
	NotBefore  *time.Time     `json:"not_before,omitempty"` // nil = immediate
	NotAfter   *time.Time     `json:"not_after,omitempty"`  // nil = no expiration
	Metadata   map[string]any `json:"metadata,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
	RetryCount int            `json:"retry_count"`
	MaxRetries int            `json:"max_retries"`
}

// NewJob creates a new job
func NewJob(jobType JobType, learnerID string) *Job {
	return &Job{
		ID:         uuid.New(),
		Type:       jobType,
		LearnerID:  learnerID,
		Metadata:   make(map[string]any),
		CreatedAt:  time.Now(),
		RetryCount: 0,
		MaxRetries: 3,
	}
}

// NewRefreshJob creates a recommendation refresh job for learnerID, eligible
// after RefreshDebounce and expiring an hour later.
func NewRefreshJob(learnerID string) *Job {
	job := NewJob(JobTypeRecommendationRefresh, learnerID)
	notBefore := job.CreatedAt.Add(RefreshDebounce)
	notAfter := job.CreatedAt.Add(time.Hour)
	job.NotBefore = &notBefore
	job.NotAfter = &notAfter
	return job
}

// ShouldProcess checks if the job should be processed now
func (j *Job) ShouldProcess() bool {
	now := time.Now()

	if j.NotBefore != nil && now.Before(*j.NotBefore) {
		return false
	}

	if j.NotAfter != nil && now.After(*j.NotAfter) {
		return false
	}

	return true
}

// IsExpired checks if the job has expired
func (j *Job) IsExpired() bool {
	if j.NotAfter == nil {
		return false
	}

	return time.Now().After(*j.NotAfter)
}

// WaitDuration returns how long until the job becomes eligible, or zero.
func (j *Job) WaitDuration() time.Duration {
	if j.NotBefore == nil {
		return 0
	}
	return max(time.Until(*j.NotBefore), 0)
}

// CanRetry checks if the job can be retried
func (j *Job) CanRetry() bool {
	return j.RetryCount < j.MaxRetries
}

// IncrementRetry increments the retry count
func (j *Job) IncrementRetry() {
	j.RetryCount++
}

// Retry returns a copy of the job scheduled to run after delay with the retry
// count incremented.
func (j *Job) Retry(delay time.Duration) *Job {
	notBefore := time.Now().Add(delay)
	retry := *j
	retry.NotBefore = &notBefore
	retry.RetryCount = j.RetryCount + 1
	return &retry
}
