// Package workers processes background jobs from the queue.
package workers

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/benvon/thai-toolkit/internal/logger"
	"github.com/benvon/thai-toolkit/internal/queue"
	"github.com/benvon/thai-toolkit/internal/services/ai"
	"github.com/benvon/thai-toolkit/internal/services/recommend"
	"github.com/benvon/thai-toolkit/internal/telemetry"
)

// Regenerator recomputes a learner's recommendations through the gateway.
type Regenerator interface {
	Regenerate(ctx context.Context, learnerID string) error
}

// RecommendationRefresher processes recommendation refresh jobs
type RecommendationRefresher struct {
	recommendations Regenerator
	jobQueue        queue.Enqueuer // for re-enqueueing jobs with delays
	logger          *zap.Logger
}

// NewRecommendationRefresher creates a new refresher. jobQueue may be nil, in
// which case failed jobs go straight to the DLQ.
func NewRecommendationRefresher(recommendations Regenerator, jobQueue queue.Enqueuer, log *zap.Logger) *RecommendationRefresher {
	return &RecommendationRefresher{
		recommendations: recommendations,
		jobQueue:        jobQueue,
		logger:          logger.OrNop(log),
	}
}

// ProcessJob processes a job based on its type
func (r *RecommendationRefresher) ProcessJob(ctx context.Context, msg queue.MessageInterface) error {
	job := msg.GetJob()

	switch job.Type {
	case queue.JobTypeRecommendationRefresh:
		spanCtx, span := telemetry.StartSpan(ctx, "recommendation_refresh",
			attribute.String("job.id", job.ID.String()),
			attribute.Int("job.retry_count", job.RetryCount),
		)
		err := r.recommendations.Regenerate(spanCtx, job.LearnerID)
		telemetry.EndSpan(span, err)
		if errors.Is(err, recommend.ErrNoProvider) {
			// Nothing to refresh; the request path serves local rules
			return ackOrError(msg)
		}
		if err != nil {
			return r.handleJobError(ctx, msg, job, err)
		}
		r.logger.Info("recommendations_refreshed",
			zap.String("job_id", job.ID.String()),
			zap.String("learner_id", logger.SanitizeID(job.LearnerID)),
		)
		return ackOrError(msg)

	default:
		if nackErr := msg.Nack(false); nackErr != nil { // unknown job type, send to DLQ
			r.logger.Warn("job_nack_failed", zap.Error(nackErr))
		}
		return fmt.Errorf("unknown job type: %s", job.Type)
	}
}

func ackOrError(msg queue.MessageInterface) error {
	if err := msg.Ack(); err != nil {
		return fmt.Errorf("failed to ack job: %w", err)
	}
	return nil
}

// handleJobError reschedules the job with a provider-aware delay, sending it
// to the DLQ once retries are exhausted or when there is no queue to
// reschedule on.
func (r *RecommendationRefresher) handleJobError(ctx context.Context, msg queue.MessageInterface, job *queue.Job, err error) error {
	fields := []zap.Field{
		zap.String("job_id", job.ID.String()),
		zap.String("learner_id", logger.SanitizeID(job.LearnerID)),
		zap.Int("retry_count", job.RetryCount),
		zap.Int("max_retries", job.MaxRetries),
		zap.String("error", logger.SanitizeError(err)),
	}

	if !job.CanRetry() || r.jobQueue == nil {
		r.logger.Warn("refresh_job_dead_lettered", fields...)
		if nackErr := msg.Nack(false); nackErr != nil {
			r.logger.Warn("job_nack_failed", zap.Error(nackErr))
		}
		return fmt.Errorf("job failed (dead lettered): %w", err)
	}

	delay := ai.GetRetryDelay(err, job.RetryCount)
	if enqueueErr := r.jobQueue.Enqueue(ctx, job.Retry(delay)); enqueueErr != nil {
		r.logger.Warn("refresh_job_reenqueue_failed", append(fields, zap.NamedError("enqueue_error", enqueueErr))...)
		if nackErr := msg.Nack(true); nackErr != nil {
			r.logger.Warn("job_nack_failed", zap.Error(nackErr))
		}
		return fmt.Errorf("job failed, re-enqueue failed: %w", enqueueErr)
	}

	if ackErr := msg.Ack(); ackErr != nil {
		r.logger.Warn("job_ack_failed", zap.Error(ackErr))
	}
	r.logger.Info("refresh_job_rescheduled", append(fields, zap.Duration("delay", delay))...)
	return fmt.Errorf("job failed (rescheduled): %w", err)
}

// Run consumes messages until ctx is cancelled or the message channel closes.
func (r *RecommendationRefresher) Run(ctx context.Context, msgs <-chan *queue.Message) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-msgs:
			if !ok {
				r.logger.Info("message_channel_closed")
				return
			}
			if err := r.ProcessJob(ctx, msg); err != nil {
				r.logger.Warn("job_failed",
					zap.String("job_id", msg.GetJob().ID.String()),
					zap.String("job_type", string(msg.GetJob().Type)),
					zap.String("error", logger.SanitizeError(err)),
				)
			}
		}
	}
}
