package usecase

import (
	"context"
	"time"

	"StepPull/internal/domain/models"
	"StepPull/pkg/util"
)

// FailureMode controls how the batcher treats a single failed day.
type FailureMode int

const (
	// FailureTolerant records a failed day as zero steps from the historical
	// source so totals and averages stay defined over a fixed day count. Used
	// for contiguous range, weekly, monthly, and yearly aggregation.
	FailureTolerant FailureMode = iota
	// FailureSkip omits a failed day entirely; averages over the result must
	// divide by the days actually present. Used for last-N-days rolling
	// aggregation.
	FailureSkip
)

// DayFetcher resolves a single calendar day through the classification
// pipeline. Implemented by StepService; tests inject fakes.
type DayFetcher interface {
	FetchDay(ctx context.Context, day time.Time) (models.StepObservation, error)
}

// RangeBatcher decomposes an arbitrary date range into calendar-day windows
// and drives the fetcher once per day. Days run sequentially in chronological
// order; each day's fetch may use its own internal concurrency.
type RangeBatcher struct {
	fetcher DayFetcher
}

func NewRangeBatcher(fetcher DayFetcher) *RangeBatcher {
	return &RangeBatcher{fetcher: fetcher}
}

// FetchRange covers every day from startOfDay(from) to startOfDay(to)
// inclusive. A per-day failure never aborts the batch; it is absorbed per
// mode. Output keys are start-of-day timestamps, one entry per included day.
func (b *RangeBatcher) FetchRange(ctx context.Context, from, to time.Time, mode FailureMode) (models.DailySteps, error) {
	first := util.StartOfDay(from)
	last := util.StartOfDay(to)
	if last.Before(first) {
		first, last = last, first
	}

	out := make(models.DailySteps)
	for day := first; !day.After(last); day = day.AddDate(0, 0, 1) {
		obs, err := b.fetcher.FetchDay(ctx, day)
		if err != nil {
			if mode == FailureSkip {
				continue
			}
			obs = models.StepObservation{
				Steps:     0,
				Source:    models.SourceHealthStore,
				WindowEnd: day.AddDate(0, 0, 1),
			}
		}
		out[day] = obs
	}
	return out, nil
}

// FetchLastDays resolves the trailing n days ending today, in skip mode.
func (b *RangeBatcher) FetchLastDays(ctx context.Context, now time.Time, n int) (models.DailySteps, error) {
	if n < 1 {
		n = 1
	}
	to := util.StartOfDay(now)
	from := to.AddDate(0, 0, -(n - 1))
	return b.FetchRange(ctx, from, to, FailureSkip)
}
