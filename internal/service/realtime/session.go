package realtime

import (
	"context"
	"sync"
	"time"

	"StepPull/internal/domain/models"
	drepo "StepPull/internal/domain/repository"
	mid "StepPull/internal/middleware"
	"StepPull/pkg/logger"
)

// Session controls the single active subscription to the pedometer's push
// updates. Two states, idle and active; the active flag and start timestamp
// are the only mutable shared state in the core, and every mutation goes
// through Start/Stop under the session mutex.
type Session struct {
	recent    drepo.RecentProvider
	metrics   drepo.Metrics
	publisher drepo.EventPublisher // optional
	log       *logger.Logger
	now       func() time.Time

	maxRate int // updates per second, 0 means unthrottled

	mu         sync.Mutex
	active     bool
	startedAt  time.Time
	dispatcher *mid.UpdateDispatcher
	cancel     context.CancelFunc
}

type SessionOption func(*Session)

// WithMaxUpdateRate caps how many push updates per second reach the handler.
func WithMaxUpdateRate(n int) SessionOption {
	return func(s *Session) { s.maxRate = n }
}

func NewSession(recent drepo.RecentProvider, metrics drepo.Metrics, publisher drepo.EventPublisher, log *logger.Logger, opts ...SessionOption) *Session {
	s := &Session{
		recent:    recent,
		metrics:   metrics,
		publisher: publisher,
		log:       log,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start begins realtime tracking, invoking handler for every push update
// wrapped as a pedometer observation. Starting twice is a no-op; so is
// starting when the pedometer is unavailable. Realtime tracking is an
// enhancement, not a required capability, so neither case is an error.
func (s *Session) Start(ctx context.Context, handler func(models.StepObservation)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active {
		return
	}
	if !s.recent.IsAvailable(ctx) {
		s.log.Warn("realtime start skipped: pedometer unavailable")
		return
	}

	opts := []mid.DispatcherOption{}
	if s.publisher != nil {
		opts = append(opts, mid.WithPublisher(s.publisher))
	}
	if s.maxRate > 0 {
		opts = append(opts, mid.WithMaxRPS(s.maxRate))
	}
	dispatcher := mid.NewUpdateDispatcher(handler, s.metrics, opts...)

	runCtx, cancel := context.WithCancel(context.Background())
	dispatcher.Start(runCtx)

	startedAt := s.now()
	err := s.recent.StartRealtimeUpdates(runCtx, startedAt, func(steps int64) {
		dispatcher.Enqueue(mid.WrapUpdate(steps, s.now()))
	})
	if err != nil {
		dispatcher.Stop()
		cancel()
		s.metrics.RecordError("realtime_start")
		s.log.Warn("realtime start failed", logger.Error(err))
		return
	}

	s.active = true
	s.startedAt = startedAt
	s.dispatcher = dispatcher
	s.cancel = cancel
	s.log.Info("realtime session started")
}

// Stop ends the subscription and clears the recorded start time. Safe to call
// redundantly, including before any Start.
func (s *Session) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.active {
		return
	}
	_ = s.recent.StopRealtimeUpdates()
	s.dispatcher.Stop()
	s.cancel()
	s.active = false
	s.startedAt = time.Time{}
	s.dispatcher = nil
	s.cancel = nil
	s.log.Info("realtime session stopped")
}

// Active reports whether a subscription is live.
func (s *Session) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// StartedAt returns the session start time, zero when idle.
func (s *Session) StartedAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.startedAt
}
