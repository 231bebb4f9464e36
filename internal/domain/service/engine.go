package service

import (
	"context"
	"time"

	"avesto/internal/domain/models"
)

// Detector scans a profile for one specific pattern and produces zero or more
// opportunities. Detectors are pure over the snapshot: no side effects, no
// shared state, safe to run concurrently. A detector that cannot evaluate
// (missing required profile data) returns an empty slice, not an error.
type Detector interface {
	Name() string
	Detect(p *models.FinancialProfile, d models.Derived) ([]models.Opportunity, error)
}

// ModelBackend invokes a language model on the given target within the time
// budget. Failures map onto ErrModelTimeout, ErrModelUnavailable and
// ErrInvalidModelResponse.
type ModelBackend interface {
	Invoke(ctx context.Context, target models.RouteTarget, prompt string, budget time.Duration) (string, error)
}

// ProfileSource supplies a fully materialized profile snapshot. The engine
// never queries it partially or incrementally.
type ProfileSource interface {
	Fetch(ctx context.Context, userID string) (*models.FinancialProfile, error)
}
