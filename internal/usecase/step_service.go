package usecase

import (
	"context"
	"time"

	"StepPull/internal/domain/models"
	drepo "StepPull/internal/domain/repository"
	"StepPull/pkg/util"
)

// StepService is the outward-facing aggregation engine: it classifies each
// request window, executes it through the hybrid fetcher, and batches
// multi-day requests through the range batcher.
type StepService struct {
	historical drepo.HistoricalProvider
	recent     drepo.RecentProvider
	metrics    drepo.Metrics
	cache      drepo.ObservationCache // optional
	cfg        PolicyConfig
	fetcher    *HybridFetcher
	batcher    *RangeBatcher
	now        func() time.Time
}

func NewStepService(
	historical drepo.HistoricalProvider,
	recent drepo.RecentProvider,
	metrics drepo.Metrics,
	cache drepo.ObservationCache,
	cfg PolicyConfig,
) *StepService {
	s := &StepService{
		historical: historical,
		recent:     recent,
		metrics:    metrics,
		cache:      cache,
		cfg:        cfg,
		fetcher:    NewHybridFetcher(historical, recent, metrics),
		now:        time.Now,
	}
	s.batcher = NewRangeBatcher(s)
	return s
}

// providerState reads both providers' capability flags fresh. Consent can
// change at any time, so no decision reuses a previous read.
func (s *StepService) providerState(ctx context.Context) ProviderState {
	return ProviderState{
		HistoricalAvailable:  s.historical.IsAvailable(ctx),
		HistoricalAuthorized: s.historical.IsAuthorized(ctx),
		RecentAvailable:      s.recent.IsAvailable(ctx),
	}
}

// StepsForWindow resolves a single arbitrary window.
func (s *StepService) StepsForWindow(ctx context.Context, w models.TimeWindow) (models.StepObservation, error) {
	d := Classify(w, s.now(), s.cfg, s.providerState(ctx))
	return s.fetcher.Fetch(ctx, w, d)
}

// StepsForDate resolves one calendar day through the same classification and
// fallback pipeline as window fetches. Days past the lookback horizon are
// served read-through from the observation cache when one is configured;
// their value can no longer change.
func (s *StepService) StepsForDate(ctx context.Context, date time.Time) (models.StepObservation, error) {
	w := models.DayWindow(date)
	now := s.now()
	finalized := util.CalendarDaysBetween(w.Start, now) > s.cfg.LookbackDays

	if finalized && s.cache != nil {
		if obs, ok := s.cache.Get(ctx, w.Start); ok {
			s.metrics.RecordFetch(string(obs.Source), "cached")
			return obs, nil
		}
	}

	d := Classify(w, now, s.cfg, s.providerState(ctx))
	obs, err := s.fetcher.Fetch(ctx, w, d)
	if err != nil {
		return models.StepObservation{}, err
	}
	if finalized && s.cache != nil {
		s.cache.Put(ctx, w.Start, obs)
	}
	return obs, nil
}

// FetchDay implements DayFetcher for the range batcher.
func (s *StepService) FetchDay(ctx context.Context, day time.Time) (models.StepObservation, error) {
	return s.StepsForDate(ctx, day)
}

// LastDays resolves the trailing n days in skip mode: failed days are omitted
// and averages divide by the days actually present.
func (s *StepService) LastDays(ctx context.Context, n int) (models.DailySteps, error) {
	return s.batcher.FetchLastDays(ctx, s.now(), n)
}

// StepsForRange resolves an explicit date range in tolerant mode: failed days
// appear as zero steps from the historical source.
func (s *StepService) StepsForRange(ctx context.Context, from, to time.Time) (models.DailySteps, error) {
	return s.batcher.FetchRange(ctx, from, to, FailureTolerant)
}

// WeeklySteps covers the Monday-anchored week containing anchor, clamped so
// future days are not fetched.
func (s *StepService) WeeklySteps(ctx context.Context, anchor time.Time) (models.DailySteps, error) {
	from := util.StartOfWeek(anchor)
	return s.StepsForRange(ctx, from, s.clampToToday(from.AddDate(0, 0, 6)))
}

// MonthlySteps covers the calendar month containing anchor.
func (s *StepService) MonthlySteps(ctx context.Context, anchor time.Time) (models.DailySteps, error) {
	from := util.StartOfMonth(anchor)
	return s.StepsForRange(ctx, from, s.clampToToday(from.AddDate(0, 1, -1)))
}

// YearlySteps covers the calendar year containing anchor.
func (s *StepService) YearlySteps(ctx context.Context, anchor time.Time) (models.DailySteps, error) {
	from := util.StartOfYear(anchor)
	return s.StepsForRange(ctx, from, s.clampToToday(from.AddDate(1, 0, -1)))
}

func (s *StepService) clampToToday(t time.Time) time.Time {
	today := util.StartOfDay(s.now())
	if t.After(today) {
		return today
	}
	return t
}
