package ai

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// WithFallback runs primary once. If it returns an error, the result of
// fallback is returned instead and usedFallback is true. primary should turn a
// Malformed completion into an error (Result.Unwrap does this).
func WithFallback[T any](ctx context.Context, logger *zap.Logger, name string, primary func(context.Context) (T, error), fallback func() T) (result T, usedFallback bool) {
	value, err := primary(ctx)
	if err == nil {
		return value, false
	}

	if logger != nil {
		logger.Warn("gateway_fallback_used",
			zap.String("operation", name),
			zap.String("reason", SanitizeResponse(err.Error(), false)),
			zap.String("learner_id", ExtractLearnerID(ctx)),
			zap.String("request_id", ExtractRequestID(ctx)),
		)
	}
	trace.SpanFromContext(ctx).SetAttributes(
		attribute.Bool("fallback.used", true),
		attribute.String("fallback.operation", name),
	)
	return fallback(), true
}
