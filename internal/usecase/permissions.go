package usecase

import (
	"context"
	"errors"
	"fmt"

	"StepPull/internal/domain/models"
	drepo "StepPull/internal/domain/repository"
	"StepPull/pkg/logger"
)

// PermissionOrchestrator asks every available provider for authorization
// before the engine serves its first request. Partial capability is an
// accepted outcome; only a total capability gap fails.
type PermissionOrchestrator struct {
	historical drepo.HistoricalProvider
	recent     drepo.RecentProvider
	metrics    drepo.Metrics
	log        *logger.Logger
}

func NewPermissionOrchestrator(
	historical drepo.HistoricalProvider,
	recent drepo.RecentProvider,
	metrics drepo.Metrics,
	log *logger.Logger,
) *PermissionOrchestrator {
	return &PermissionOrchestrator{historical: historical, recent: recent, metrics: metrics, log: log}
}

// RequestPermissions requests authorization from each available provider
// independently, collecting per-provider failures instead of raising them.
// It fails only when neither provider ends up usable afterwards.
func (p *PermissionOrchestrator) RequestPermissions(ctx context.Context) error {
	var histErr, recentErr error

	if p.historical.IsAvailable(ctx) {
		if histErr = p.historical.RequestPermission(ctx); histErr != nil {
			p.metrics.RecordError("permission_healthstore")
			p.log.Warn("healthstore permission request failed", logger.Error(histErr))
		}
	}
	if p.recent.IsAvailable(ctx) {
		if recentErr = p.recent.RequestPermission(ctx); recentErr != nil {
			p.metrics.RecordError("permission_pedometer")
			p.log.Warn("pedometer permission request failed", logger.Error(recentErr))
		}
	}

	historicalUsable := p.historical.IsAvailable(ctx) &&
		p.historical.IsAuthorized(ctx) &&
		!errors.Is(histErr, models.ErrPermissionDenied)
	recentUsable := p.recent.IsAvailable(ctx)

	if !historicalUsable && !recentUsable {
		return fmt.Errorf("%w: healthstore=%v pedometer unavailable",
			models.ErrNoProviderAvailable, histErr)
	}
	return nil
}
