//go:build wireinject
// +build wireinject

package di

import (
	"StepPull/pkg/config"
	"StepPull/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Ambient
		ProvideLogger,
		ProvideMetrics,
		ProvideCacheService,

		// Infrastructure
		ProvideObservationCache,
		ProvideEventPublisher,

		// Providers
		ProvideHistoricalProvider,
		ProvideRecentProvider,

		// Use cases
		ProvideStepService,
		ProvidePermissionOrchestrator,
		ProvideRealtimeSession,

		// HTTP
		ProvideStepsHandler,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
