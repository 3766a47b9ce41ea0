package di

import (
	"fmt"

	"StepPull/internal/domain/repository"
	"StepPull/internal/handler/api"
	internalrepo "StepPull/internal/repository"
	"StepPull/internal/service/healthstore"
	"StepPull/internal/service/pedometer"
	"StepPull/internal/service/realtime"
	"StepPull/internal/usecase"
	pkgcache "StepPull/pkg/cache"
	"StepPull/pkg/config"
	pkgkafka "StepPull/pkg/kafka"
	"StepPull/pkg/logger"
	"StepPull/pkg/metrics"
	"StepPull/pkg/server"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*logger.Logger, error) {
	level := cfg.Log.Level
	if level == "" {
		level = "info"
	}
	format := cfg.Log.Format
	if format == "" {
		format = "console"
	}
	output := cfg.Log.Output
	if output == "" {
		output = "stdout"
	}
	l, err := logger.New(&logger.Config{Level: level, Format: format, Output: output})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l, nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideCacheService creates the shared cache: layered over redis when
// enabled, in-process memory otherwise.
func ProvideCacheService(cfg *config.Config) (pkgcache.Service, error) {
	if !cfg.Redis.Enabled {
		return pkgcache.NewMemoryCache(), nil
	}
	redisCache, err := pkgcache.NewRedisCache(
		pkgcache.WithRedisHost(cfg.Redis.Host),
		pkgcache.WithRedisPort(cfg.Redis.Port),
		pkgcache.WithRedisPassword(cfg.Redis.Password),
		pkgcache.WithRedisDB(cfg.Redis.DB),
		pkgcache.WithRedisPrefix(cfg.Redis.Prefix),
	)
	if err != nil {
		return nil, fmt.Errorf("redis cache: %w", err)
	}
	return pkgcache.NewLayeredCache(redisCache), nil
}

// ProvideObservationCache creates the finalized-day observation cache.
func ProvideObservationCache(cache pkgcache.Service, cfg *config.Config) repository.ObservationCache {
	return internalrepo.NewObservationCache(cache, cfg.Aggregator.CacheTTL)
}

// ProvideEventPublisher creates the Kafka observation publisher, nil when
// kafka is disabled.
func ProvideEventPublisher(cfg *config.Config) (repository.EventPublisher, error) {
	if !cfg.Kafka.Enabled {
		return nil, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithBatchSize(cfg.Kafka.BatchSize),
		pkgkafka.WithBatchBytes(cfg.Kafka.BatchBytes),
		pkgkafka.WithBatchTimeout(cfg.Kafka.Linger),
		pkgkafka.WithTimeouts(cfg.Kafka.WriteTimeout, cfg.Kafka.ReadTimeout),
		pkgkafka.WithMaxAttempts(cfg.Kafka.MaxAttempts),
		pkgkafka.WithAsync(cfg.Kafka.Async),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return internalrepo.NewKafkaEventPublisher(producer, cfg.Kafka.Topic), nil
}

// ProvideHistoricalProvider creates the health-store provider.
func ProvideHistoricalProvider(cfg *config.Config) repository.HistoricalProvider {
	return healthstore.New(cfg.HealthStore.BaseURL, cfg.HealthStore.Timeout)
}

// ProvideRecentProvider creates the pedometer provider.
func ProvideRecentProvider(cfg *config.Config) repository.RecentProvider {
	return pedometer.New(
		cfg.Pedometer.BaseURL,
		cfg.Pedometer.WebSocketURL,
		cfg.Pedometer.LookbackDays,
		cfg.Pedometer.Timeout,
		cfg.Pedometer.ReconnectDelay,
		cfg.Pedometer.PingInterval,
	)
}

// ProvideStepService creates the aggregation engine.
func ProvideStepService(
	historical repository.HistoricalProvider,
	recent repository.RecentProvider,
	m repository.Metrics,
	cache repository.ObservationCache,
	cfg *config.Config,
) *usecase.StepService {
	return usecase.NewStepService(historical, recent, m, cache, usecase.PolicyConfig{
		UseHybridMode: cfg.Aggregator.UseHybridMode,
		LookbackDays:  cfg.Aggregator.RecentWindowLookbackDays,
	})
}

// ProvidePermissionOrchestrator creates the permission orchestrator.
func ProvidePermissionOrchestrator(
	historical repository.HistoricalProvider,
	recent repository.RecentProvider,
	m repository.Metrics,
	l *logger.Logger,
) *usecase.PermissionOrchestrator {
	return usecase.NewPermissionOrchestrator(historical, recent, m, l)
}

// ProvideRealtimeSession creates the realtime session manager.
func ProvideRealtimeSession(
	recent repository.RecentProvider,
	m repository.Metrics,
	publisher repository.EventPublisher,
	l *logger.Logger,
	cfg *config.Config,
) *realtime.Session {
	return realtime.NewSession(recent, m, publisher, l,
		realtime.WithMaxUpdateRate(cfg.Pedometer.MaxUpdateRate))
}

// ProvideStepsHandler creates the HTTP handler.
func ProvideStepsHandler(
	l *logger.Logger,
	steps *usecase.StepService,
	perms *usecase.PermissionOrchestrator,
	session *realtime.Session,
) *api.StepsEchoHandler {
	return api.NewStepsEchoHandler(l, steps, perms, session)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	l *logger.Logger,
	handler *api.StepsEchoHandler,
	perms *usecase.PermissionOrchestrator,
	session *realtime.Session,
	publisher repository.EventPublisher,
	cache pkgcache.Service,
) *server.App {
	return server.New(cfg, l, handler, perms, session, publisher, cache)
}
