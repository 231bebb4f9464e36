package repository

import (
	"context"

	"avesto/internal/domain/models"
)

// Metrics records engine observability signals.
type Metrics interface {
	RecordHunt(found int, seconds float64)
	RecordDetectorFault(detector string)
	RecordDecisionScore(score int)
	RecordRouting(target, reason string)
	RecordModelLatency(target string, seconds float64)
	RecordError(kind string)
}

// AnalysisPublisher publishes analysis records to a message broker.
type AnalysisPublisher interface {
	Publish(ctx context.Context, rec *models.AnalysisRecord) error
	Close() error
}

// AnalysisStore persists analysis records to a database.
type AnalysisStore interface {
	Store(ctx context.Context, rec *models.AnalysisRecord) error
	Close() error
}
