package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"StepPull/internal/domain/models"
	drepo "StepPull/internal/domain/repository"
)

// HybridFetcher executes a classified fetch decision against the providers.
// The hybrid path runs both queries concurrently and joins on both outcomes;
// single-provider paths delegate directly with no further fallback.
type HybridFetcher struct {
	historical drepo.HistoricalProvider
	recent     drepo.RecentProvider
	metrics    drepo.Metrics
}

func NewHybridFetcher(historical drepo.HistoricalProvider, recent drepo.RecentProvider, metrics drepo.Metrics) *HybridFetcher {
	return &HybridFetcher{historical: historical, recent: recent, metrics: metrics}
}

// Fetch resolves window w according to decision d.
func (f *HybridFetcher) Fetch(ctx context.Context, w models.TimeWindow, d Decision) (models.StepObservation, error) {
	if !w.Valid() {
		return models.StepObservation{}, fmt.Errorf("%w: invalid window", models.ErrDataNotAvailable)
	}

	start := time.Now()
	obs, err := f.fetch(ctx, w, d)
	f.metrics.RecordLatency("fetch_"+d.String(), time.Since(start).Seconds())
	if err != nil {
		f.metrics.RecordError("fetch_" + d.String())
		return models.StepObservation{}, err
	}
	f.metrics.RecordFetch(string(obs.Source), "ok")
	return obs, nil
}

func (f *HybridFetcher) fetch(ctx context.Context, w models.TimeWindow, d Decision) (models.StepObservation, error) {
	switch d {
	case DecisionHistoricalOnly:
		steps, err := f.historical.FetchSteps(ctx, w)
		if err != nil {
			return models.StepObservation{}, translate(err, "healthstore")
		}
		return models.StepObservation{Steps: steps, Source: models.SourceHealthStore, WindowEnd: w.End}, nil

	case DecisionRecentOnly:
		steps, err := f.recent.FetchSteps(ctx, w)
		if err != nil {
			return models.StepObservation{}, translate(err, "pedometer")
		}
		return models.StepObservation{Steps: steps, Source: models.SourcePedometer, WindowEnd: w.End}, nil

	case DecisionHybrid:
		return f.fetchHybrid(ctx, w)

	default:
		return models.StepObservation{}, fmt.Errorf("%w: window classified unavailable", models.ErrNoProviderAvailable)
	}
}

// fetchHybrid issues both queries for the identical window without waiting on
// either, then joins on both completions. When both succeed the result is the
// max of the two readings (commutative, so completion order does not matter).
// On any failure it retries serially: healthstore first, then pedometer. The
// historical provider is the source of truth, so it leads the fallback even
// though the hybrid preference stems from the pedometer's realtime strength.
func (f *HybridFetcher) fetchHybrid(ctx context.Context, w models.TimeWindow) (models.StepObservation, error) {
	type reading struct {
		steps int64
		err   error
	}
	var histRes, recentRes reading

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		histRes.steps, histRes.err = f.historical.FetchSteps(ctx, w)
	}()
	go func() {
		defer wg.Done()
		recentRes.steps, recentRes.err = f.recent.FetchSteps(ctx, w)
	}()
	wg.Wait()

	if histRes.err == nil && recentRes.err == nil {
		steps := histRes.steps
		if recentRes.steps > steps {
			steps = recentRes.steps
		}
		return models.StepObservation{Steps: steps, Source: models.SourceHybrid, WindowEnd: w.End}, nil
	}

	f.metrics.RecordError("hybrid_fallback")

	if steps, err := f.historical.FetchSteps(ctx, w); err == nil {
		return models.StepObservation{Steps: steps, Source: models.SourceHealthStore, WindowEnd: w.End}, nil
	}
	if steps, err := f.recent.FetchSteps(ctx, w); err == nil {
		return models.StepObservation{Steps: steps, Source: models.SourcePedometer, WindowEnd: w.End}, nil
	}
	return models.StepObservation{}, fmt.Errorf("%w: both providers failed for window ending %s",
		models.ErrDataNotAvailable, w.End.Format(time.RFC3339))
}

// translate collapses a provider error into the caller-facing taxonomy,
// keeping the provider name in the message only.
func translate(err error, provider string) error {
	if errors.Is(err, models.ErrPermissionDenied) {
		return fmt.Errorf("%w: %s", models.ErrPermissionDenied, provider)
	}
	if errors.Is(err, models.ErrNoProviderAvailable) {
		return fmt.Errorf("%w: %s", models.ErrNoProviderAvailable, provider)
	}
	return fmt.Errorf("%w: %s: %v", models.ErrDataNotAvailable, provider, err)
}
