package model

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"avesto/internal/domain/models"
	domrepo "avesto/internal/domain/repository"
	"avesto/internal/domain/service"
	"avesto/pkg/config"
)

// Backends implements service.ModelBackend over two HTTP clients: a small
// on-device model behind an Ollama-style API and a remote chat-completions
// API. Every call runs under its budget; failures are mapped onto the engine
// error taxonomy so callers can decide whether to escalate.
type Backends struct {
	local   *localClient
	remote  *remoteClient
	metrics domrepo.Metrics
}

func NewBackends(cfg *config.Config, metrics domrepo.Metrics) *Backends {
	return &Backends{
		local:   newLocalClient(cfg),
		remote:  newRemoteClient(cfg),
		metrics: metrics,
	}
}

func (b *Backends) Invoke(ctx context.Context, target models.RouteTarget, prompt string, budget time.Duration) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, budget)
	defer cancel()

	start := time.Now()
	var text string
	var err error
	switch target {
	case models.TargetLocal:
		text, err = b.local.generate(ctx, prompt)
	case models.TargetRemote:
		text, err = b.remote.complete(ctx, prompt)
	default:
		return "", fmt.Errorf("unknown model target %q", target)
	}
	if b.metrics != nil {
		b.metrics.RecordModelLatency(string(target), time.Since(start).Seconds())
	}

	if err != nil {
		return "", mapInvokeError(err)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", service.ErrInvalidModelResponse
	}
	return text, nil
}

// mapInvokeError folds transport failures onto the engine error taxonomy.
func mapInvokeError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", service.ErrModelTimeout, err)
	}
	if errors.Is(err, service.ErrInvalidModelResponse) {
		return err
	}
	return fmt.Errorf("%w: %v", service.ErrModelUnavailable, err)
}
