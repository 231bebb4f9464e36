package di

import (
	"context"
	"fmt"
	"time"

	"avesto/internal/domain/repository"
	"avesto/internal/domain/service"
	"avesto/internal/engine/detect"
	"avesto/internal/engine/health"
	"avesto/internal/engine/hunt"
	"avesto/internal/engine/route"
	"avesto/internal/engine/score"
	"avesto/internal/handler/api"
	internalrepo "avesto/internal/repository"
	"avesto/internal/services/model"
	"avesto/internal/services/profile"
	"avesto/internal/usecase"
	pkgcache "avesto/pkg/cache"
	pkgch "avesto/pkg/clickhouse"
	"avesto/pkg/config"
	xhttp "avesto/pkg/http"
	pkgkafka "avesto/pkg/kafka"
	"avesto/pkg/logger"
	"avesto/pkg/metrics"
	"avesto/pkg/server"
)

// ProvideLogger creates the application logger. Development gets readable
// console output, everything else structured JSON.
func ProvideLogger(cfg *config.Config) (*logger.Logger, error) {
	lc := &logger.Config{Level: "info", Format: "json", Output: "stdout"}
	if cfg.Environment == "development" {
		lc.Level = "debug"
		lc.Format = "console"
	}
	return logger.New(lc)
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideCache builds the profile cache: Redis-backed layered cache when
// configured, in-process otherwise.
func ProvideCache(cfg *config.Config) (pkgcache.Service, error) {
	if !cfg.ProfileSource.Redis.Enabled {
		return pkgcache.NewMemoryCache(), nil
	}
	rc, err := pkgcache.NewRedisCache(pkgcache.RedisConfig{
		Addr:     cfg.ProfileSource.Redis.Addr,
		Password: cfg.ProfileSource.Redis.Password,
		DB:       cfg.ProfileSource.Redis.DB,
	})
	if err != nil {
		return nil, fmt.Errorf("redis cache: %w", err)
	}
	return pkgcache.NewLayeredCache(rc), nil
}

// ProvideProfileSource creates the HTTP profile source.
func ProvideProfileSource(cfg *config.Config, c pkgcache.Service, log *logger.Logger) service.ProfileSource {
	return profile.NewHTTPSource(cfg, c, log)
}

// ProvideModelBackend creates the local/remote model dispatch.
func ProvideModelBackend(cfg *config.Config, m repository.Metrics) service.ModelBackend {
	return model.NewBackends(cfg, m)
}

// ProvideHunter assembles the opportunity hunter with all detectors.
func ProvideHunter(cfg *config.Config, log *logger.Logger, m repository.Metrics) *hunt.Hunter {
	return hunt.New(cfg.Engine, log, m, detect.All(cfg.Engine))
}

// ProvideScorer creates the decision scorer.
func ProvideScorer(cfg *config.Config) *score.Scorer {
	return score.New(cfg.Engine)
}

// ProvideRouter creates the query router.
func ProvideRouter(cfg *config.Config) *route.Router {
	return route.New(cfg.Engine)
}

// ProvideMonitor creates the health monitor.
func ProvideMonitor(cfg *config.Config) *health.Monitor {
	return health.New(cfg.Engine)
}

// ProvideRecorder builds the analysis recorder against the configured sink.
// With sink.type=none both sinks stay nil and recording is a no-op.
func ProvideRecorder(cfg *config.Config, log *logger.Logger) (*usecase.AnalysisRecorder, error) {
	switch cfg.Sink.Type {
	case "kafka":
		producer, err := pkgkafka.NewProducer(
			pkgkafka.WithBrokers(cfg.Sink.Kafka.Brokers),
			pkgkafka.WithCompression(cfg.Sink.Kafka.Compression),
			pkgkafka.WithRequiredAcks(cfg.Sink.Kafka.RequiredAcks),
			pkgkafka.WithMaxAttempts(cfg.Sink.Kafka.MaxAttempts),
			pkgkafka.WithTimeouts(cfg.Sink.Kafka.WriteTimeout, cfg.Sink.Kafka.WriteTimeout),
			pkgkafka.WithHashByKey(true),
		)
		if err != nil {
			return nil, fmt.Errorf("kafka producer: %w", err)
		}
		pub := internalrepo.NewKafkaAnalysisPublisher(producer, cfg.Sink.Kafka.Topic)
		return usecase.NewAnalysisRecorder(pub, nil, log), nil

	case "clickhouse":
		client, err := pkgch.NewClient(
			pkgch.WithHost(cfg.Sink.ClickHouse.Host),
			pkgch.WithPort(cfg.Sink.ClickHouse.Port),
			pkgch.WithDatabase(cfg.Sink.ClickHouse.Database),
			pkgch.WithCredentials(cfg.Sink.ClickHouse.User, cfg.Sink.ClickHouse.Password),
			pkgch.WithTimeouts(cfg.Sink.ClickHouse.DialTimeout, 10*time.Second, 10*time.Second),
		)
		if err != nil {
			return nil, fmt.Errorf("clickhouse client: %w", err)
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		stmts := append(
			[]string{"CREATE DATABASE IF NOT EXISTS " + cfg.Sink.ClickHouse.Database},
			internalrepo.SchemaStatements(cfg.Sink.ClickHouse.Database+"."+cfg.Sink.ClickHouse.Table)...,
		)
		if err := client.InitSchema(ctx, stmts); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("clickhouse schema: %w", err)
		}
		store := internalrepo.NewClickHouseAnalysisStore(client, cfg.Sink.ClickHouse.Database+"."+cfg.Sink.ClickHouse.Table)
		return usecase.NewAnalysisRecorder(nil, store, log), nil

	default:
		return usecase.NewAnalysisRecorder(nil, nil, log), nil
	}
}

// ProvideEngine assembles the engine facade.
func ProvideEngine(
	cfg *config.Config,
	hunter *hunt.Hunter,
	scorer *score.Scorer,
	router *route.Router,
	monitor *health.Monitor,
	backend service.ModelBackend,
	profiles service.ProfileSource,
	recorder *usecase.AnalysisRecorder,
	m repository.Metrics,
	log *logger.Logger,
) *usecase.Engine {
	return usecase.NewEngine(cfg, hunter, scorer, router, monitor, backend, profiles, recorder, m, log)
}

// ProvideHTTPHandler groups all route handlers.
func ProvideHTTPHandler(cfg *config.Config, log *logger.Logger, eng *usecase.Engine) xhttp.Handler {
	return xhttp.Handlers{
		api.NewEngineHandler(log, eng),
		api.NewHealthStreamHandler(log, eng, cfg.HealthStream.Interval),
	}
}

// ProvideApp creates the application server. The recorder closes before the
// cache so in-flight records can still read through it.
func ProvideApp(
	cfg *config.Config,
	log *logger.Logger,
	handler xhttp.Handler,
	recorder *usecase.AnalysisRecorder,
	c pkgcache.Service,
) *server.App {
	return server.New(cfg, log, handler, recorder, c)
}
