package repository

import (
	"context"
	"time"

	"StepPull/internal/domain/models"
)

// HistoricalProvider is the platform-aggregated step source ("healthstore").
// Long retention, but authorization can change at any time outside this
// system's control, so availability and authorization are read fresh on every
// decision and never cached.
type HistoricalProvider interface {
	IsAvailable(ctx context.Context) bool
	// IsAuthorized treats a not-yet-decided state as authorized; only an
	// explicit denial counts as unauthorized.
	IsAuthorized(ctx context.Context) bool
	RequestPermission(ctx context.Context) error
	FetchSteps(ctx context.Context, w models.TimeWindow) (int64, error)
	FetchStepsForDate(ctx context.Context, date time.Time) (int64, error)
}

// RecentProvider is the sensor-based step source ("pedometer"), limited to a
// short trailing window and capable of push-style realtime updates.
type RecentProvider interface {
	IsAvailable(ctx context.Context) bool
	RequestPermission(ctx context.Context) error
	FetchSteps(ctx context.Context, w models.TimeWindow) (int64, error)
	// FetchStepsForDate fails with a data-not-available error when date is
	// older than the provider's supported lookback.
	FetchStepsForDate(ctx context.Context, date time.Time) (int64, error)
	// StartRealtimeUpdates delivers cumulative step counts since from, in
	// arrival order, until StopRealtimeUpdates or ctx cancellation.
	StartRealtimeUpdates(ctx context.Context, from time.Time, onUpdate func(steps int64)) error
	StopRealtimeUpdates() error
}

// ObservationCache holds finalized per-day observations. Only days past the
// lookback horizon are cached; their value can no longer change.
type ObservationCache interface {
	Get(ctx context.Context, day time.Time) (models.StepObservation, bool)
	Put(ctx context.Context, day time.Time, obs models.StepObservation)
}

// EventPublisher emits resolved observations to a downstream sink.
type EventPublisher interface {
	PublishObservation(ctx context.Context, obs models.StepObservation) error
	Close() error
}

type Metrics interface {
	RecordFetch(source, result string)
	RecordError(kind string)
	RecordRealtimeUpdate(steps int64)
	RecordLatency(op string, seconds float64)
}
