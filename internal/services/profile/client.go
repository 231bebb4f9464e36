package profile

import (
	"context"
	"errors"
	"fmt"
	"time"

	"avesto/internal/domain/models"
	"avesto/internal/domain/service"
	"avesto/pkg/cache"
	"avesto/pkg/config"
	xhttp "avesto/pkg/http"
	"avesto/pkg/logger"
)

// HTTPSource fetches financial profiles from the aggregation service, with a
// short cache in front so a burst of engine calls for the same user costs one
// upstream round trip. The snapshot is cached whole: the engine never reads a
// profile partially.
type HTTPSource struct {
	baseURL string
	ttl     time.Duration
	client  *xhttp.Client
	cache   cache.Service
	log     *logger.Logger
}

func NewHTTPSource(cfg *config.Config, c cache.Service, log *logger.Logger) *HTTPSource {
	return &HTTPSource{
		baseURL: cfg.ProfileSource.URL,
		ttl:     cfg.ProfileSource.CacheTTL,
		client:  xhttp.NewClient(xhttp.WithTimeout(cfg.ProfileSource.Timeout)),
		cache:   c,
		log:     log,
	}
}

func (s *HTTPSource) Fetch(ctx context.Context, userID string) (*models.FinancialProfile, error) {
	if userID == "" {
		return nil, service.ErrProfileNotFound
	}

	key := "profile:" + userID
	if s.cache != nil {
		var cached models.FinancialProfile
		if err := s.cache.Get(ctx, key, &cached); err == nil {
			return &cached, nil
		} else if !errors.Is(err, cache.ErrCacheMiss) {
			s.log.Warn("profile cache read failed", logger.String("user_id", userID), logger.Error(err))
		}
	}

	var p models.FinancialProfile
	err := s.client.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    fmt.Sprintf("%s/api/v1/users/%s/profile", s.baseURL, userID),
	}, &p)
	if err != nil {
		var se *xhttp.StatusError
		if errors.As(err, &se) && se.Code == 404 {
			return nil, service.ErrProfileNotFound
		}
		return nil, fmt.Errorf("fetch profile %s: %w", userID, err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, &p, s.ttl); err != nil {
			s.log.Warn("profile cache write failed", logger.String("user_id", userID), logger.Error(err))
		}
	}
	return &p, nil
}
