package usecase

import (
	"context"
	"sync"
	"time"

	"avesto/internal/domain/models"
	"avesto/internal/domain/repository"
	"avesto/pkg/logger"
)

const recordTimeout = 5 * time.Second

// AnalysisRecorder writes engine results to the configured sink. Recording is
// asynchronous and best-effort: a sink failure is logged and never delays or
// fails the request that produced the record.
type AnalysisRecorder struct {
	publisher repository.AnalysisPublisher
	store     repository.AnalysisStore
	log       *logger.Logger
	wg        sync.WaitGroup
}

// NewAnalysisRecorder wires the recorder to whichever sinks are configured.
// Both may be nil, in which case Record is a no-op.
func NewAnalysisRecorder(pub repository.AnalysisPublisher, store repository.AnalysisStore, log *logger.Logger) *AnalysisRecorder {
	return &AnalysisRecorder{publisher: pub, store: store, log: log}
}

func (r *AnalysisRecorder) Record(rec *models.AnalysisRecord) {
	if r == nil || (r.publisher == nil && r.store == nil) {
		return
	}
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
		defer cancel()

		if r.publisher != nil {
			if err := r.publisher.Publish(ctx, rec); err != nil {
				r.log.Warn("analysis publish failed",
					logger.String("user_id", rec.UserID),
					logger.String("kind", rec.Kind),
					logger.Error(err))
			}
		}
		if r.store != nil {
			if err := r.store.Store(ctx, rec); err != nil {
				r.log.Warn("analysis store failed",
					logger.String("user_id", rec.UserID),
					logger.String("kind", rec.Kind),
					logger.Error(err))
			}
		}
	}()
}

// Close waits for in-flight records and releases the sinks.
func (r *AnalysisRecorder) Close() error {
	if r == nil {
		return nil
	}
	r.wg.Wait()
	var first error
	if r.publisher != nil {
		if err := r.publisher.Close(); err != nil {
			first = err
		}
	}
	if r.store != nil {
		if err := r.store.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
