package middleware

import (
	"context"
	"sync"
	"time"

	"StepPull/internal/domain/models"
	domrepo "StepPull/internal/domain/repository"
	"StepPull/internal/service/ratelimit"
)

// UpdateDispatcher sits between the pedometer's push delivery path and the
// session handler. It marshals each update onto its own worker so the
// provider's delivery goroutine never blocks, while a single worker preserves
// arrival order. Updates are dropped, with a metric, only when the buffer is
// full.
type UpdateDispatcher struct {
	handler   func(models.StepObservation)
	publisher domrepo.EventPublisher // optional downstream sink
	metrics   domrepo.Metrics
	limiter   *ratelimit.Limiter
	maxRPS    float64
	bufSize   int
	bufCh     chan models.StepObservation
	stopCh    chan struct{}
	started   bool
	mu        sync.Mutex
}

type DispatcherOption func(*UpdateDispatcher)

// WithBufferSize sets the pending-update buffer size.
func WithBufferSize(n int) DispatcherOption {
	return func(d *UpdateDispatcher) {
		if n > 0 {
			d.bufSize = n
		}
	}
}

// WithPublisher mirrors each dispatched observation to an event sink,
// best-effort.
func WithPublisher(p domrepo.EventPublisher) DispatcherOption {
	return func(d *UpdateDispatcher) { d.publisher = p }
}

// WithMaxRPS throttles updates to n per second; excess updates are dropped
// silently with a metric. Zero disables throttling.
func WithMaxRPS(n int) DispatcherOption {
	return func(d *UpdateDispatcher) {
		if n > 0 {
			d.maxRPS = float64(n)
			d.limiter = ratelimit.New()
		}
	}
}

// NewUpdateDispatcher creates a new dispatcher for handler.
func NewUpdateDispatcher(handler func(models.StepObservation), metrics domrepo.Metrics, opts ...DispatcherOption) *UpdateDispatcher {
	d := &UpdateDispatcher{
		handler: handler,
		metrics: metrics,
		bufSize: 256,
		stopCh:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(d)
	}
	d.bufCh = make(chan models.StepObservation, d.bufSize)
	return d
}

// Start launches the single dispatch worker. Idempotent.
func (d *UpdateDispatcher) Start(ctx context.Context) {
	d.mu.Lock()
	if d.started {
		d.mu.Unlock()
		return
	}
	d.started = true
	d.mu.Unlock()

	go func() {
		for {
			select {
			case <-d.stopCh:
				return
			case obs := <-d.bufCh:
				d.handler(obs)
				d.metrics.RecordRealtimeUpdate(obs.Steps)
				if d.publisher != nil {
					if err := d.publisher.PublishObservation(ctx, obs); err != nil {
						d.metrics.RecordError("dispatch_publish")
					}
				}
			}
		}
	}()
}

// Stop stops the worker. Buffered updates that have not been handled yet are
// discarded. Safe to call redundantly.
func (d *UpdateDispatcher) Stop() {
	d.mu.Lock()
	if !d.started {
		d.mu.Unlock()
		return
	}
	d.started = false
	d.mu.Unlock()
	close(d.stopCh)
}

// Enqueue accepts an update from the provider's delivery path without
// blocking it.
func (d *UpdateDispatcher) Enqueue(obs models.StepObservation) {
	if d.limiter != nil && !d.limiter.Allow("realtime", d.maxRPS, d.maxRPS) {
		d.metrics.RecordError("dispatch_throttle")
		return
	}
	select {
	case d.bufCh <- obs:
	default:
		d.metrics.RecordError("dispatch_buffer_full")
	}
}

// WrapUpdate builds the unified observation for a raw pedometer count.
func WrapUpdate(steps int64, now time.Time) models.StepObservation {
	return models.StepObservation{Steps: steps, Source: models.SourcePedometer, WindowEnd: now}
}
