package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"StepPull/internal/domain/repository"
	"StepPull/internal/handler/api"
	"StepPull/internal/service/realtime"
	"StepPull/internal/usecase"
	pkgcache "StepPull/pkg/cache"
	"StepPull/pkg/config"
	xhttp "StepPull/pkg/http"
	applogger "StepPull/pkg/logger"
)

// App encapsulates the entire application lifecycle.
type App struct {
	cfg        *config.Config
	log        *applogger.Logger
	handler    *api.StepsEchoHandler
	perms      *usecase.PermissionOrchestrator
	session    *realtime.Session
	publisher  repository.EventPublisher
	cache      pkgcache.Service
	httpServer *xhttp.Server
}

// New creates a new App instance with all dependencies.
func New(
	cfg *config.Config,
	log *applogger.Logger,
	handler *api.StepsEchoHandler,
	perms *usecase.PermissionOrchestrator,
	session *realtime.Session,
	publisher repository.EventPublisher,
	cache pkgcache.Service,
) *App {
	return &App{
		cfg:       cfg,
		log:       log,
		handler:   handler,
		perms:     perms,
		session:   session,
		publisher: publisher,
		cache:     cache,
	}
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Aggregated error logs flow through the event publisher when configured
	if lp, ok := a.publisher.(applogger.Publisher); ok && a.cfg.Kafka.LogTopic != "" {
		a.log.AddCollector(&applogger.CollectionConfig{
			TimeInterval:   30 * time.Second,
			CountThreshold: 100,
			Topic:          a.cfg.Kafka.LogTopic,
			Publisher:      lp,
		})
	}

	// Every fetch path assumes permissions were asked at least once before
	// the first request. A failure here is a capability gap, not a startup
	// error: the server still runs and each fetch reports it.
	permCtx, permCancel := context.WithTimeout(ctx, 30*time.Second)
	if err := a.perms.RequestPermissions(permCtx); err != nil {
		a.log.Warn("no usable step provider at startup", applogger.Error(err))
	}
	permCancel()

	a.httpServer = xhttp.NewServer(a.handler,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
		xhttp.WithLogger(a.log),
	)
	if err := a.httpServer.Start(); err != nil {
		a.log.Error("http server start error", applogger.Error(err))
		return err
	}
	a.log.Info("http server started", applogger.Int("port", a.cfg.Server.Port))

	// Wait for interrupt
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.log.Info("shutdown signal received")
	return a.shutdown(ctx)
}

// shutdown gracefully stops all services.
func (a *App) shutdown(ctx context.Context) error {
	// Stop realtime tracking first so no updates race the teardown
	a.session.Stop()

	shutdownCtx, cancel := context.WithTimeout(ctx, a.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		a.log.Error("http shutdown error", applogger.Error(err))
	}

	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			a.log.Warn("publisher close error", applogger.Error(err))
		}
	}

	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			a.log.Warn("cache close error", applogger.Error(err))
		}
	}

	a.log.RemoveCollector()
	a.log.Info("shutdown complete")
	return nil
}
