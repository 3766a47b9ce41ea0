package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"StepPull/internal/domain/models"
)

// scriptedDayFetcher fails on a configurable set of days.
type scriptedDayFetcher struct {
	steps   int64
	failOn  map[string]bool
	fetched []time.Time
}

func (f *scriptedDayFetcher) FetchDay(_ context.Context, day time.Time) (models.StepObservation, error) {
	f.fetched = append(f.fetched, day)
	if f.failOn[day.Format("2006-01-02")] {
		return models.StepObservation{}, errors.New("day failed")
	}
	return models.StepObservation{
		Steps:     f.steps,
		Source:    models.SourceHealthStore,
		WindowEnd: day.AddDate(0, 0, 1),
	}, nil
}

func TestFetchRangeTolerantKeepsFailedDaysAsZero(t *testing.T) {
	fetcher := &scriptedDayFetcher{steps: 1000, failOn: map[string]bool{"2024-10-05": true}}
	b := NewRangeBatcher(fetcher)

	from := time.Date(2024, 10, 1, 9, 30, 0, 0, time.UTC)
	to := time.Date(2024, 10, 10, 22, 0, 0, 0, time.UTC)
	days, err := b.FetchRange(context.Background(), from, to, FailureTolerant)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(days) != 10 {
		t.Fatalf("got %d entries, want 10", len(days))
	}
	failed := days[time.Date(2024, 10, 5, 0, 0, 0, 0, time.UTC)]
	if failed.Steps != 0 || failed.Source != models.SourceHealthStore {
		t.Fatalf("failed day should be zero from healthstore, got %+v", failed)
	}
	if got := days.Total(); got != 9000 {
		t.Fatalf("total %d, want 9000", got)
	}
	if got := days.Average(); got != 900 {
		t.Fatalf("average %v, want 900 over the fixed day count", got)
	}
}

func TestFetchRangeSkipOmitsFailedDays(t *testing.T) {
	fetcher := &scriptedDayFetcher{
		steps:  1000,
		failOn: map[string]bool{"2024-10-05": true, "2024-10-07": true},
	}
	b := NewRangeBatcher(fetcher)

	from := time.Date(2024, 10, 4, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 10, 10, 0, 0, 0, 0, time.UTC)
	days, err := b.FetchRange(context.Background(), from, to, FailureSkip)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(days) != 5 {
		t.Fatalf("got %d entries, want 5 of 7", len(days))
	}
	if _, ok := days[time.Date(2024, 10, 5, 0, 0, 0, 0, time.UTC)]; ok {
		t.Fatalf("failed day must be omitted in skip mode")
	}
	if got := days.Average(); got != 1000 {
		t.Fatalf("average %v, want 1000 over present days only", got)
	}
}

func TestFetchRangeChronologicalOrder(t *testing.T) {
	fetcher := &scriptedDayFetcher{steps: 1}
	b := NewRangeBatcher(fetcher)

	from := time.Date(2024, 10, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 10, 4, 0, 0, 0, 0, time.UTC)
	if _, err := b.FetchRange(context.Background(), from, to, FailureTolerant); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i := 1; i < len(fetcher.fetched); i++ {
		if !fetcher.fetched[i].After(fetcher.fetched[i-1]) {
			t.Fatalf("days fetched out of order: %v", fetcher.fetched)
		}
	}
}

func TestFetchRangeSwapsReversedBounds(t *testing.T) {
	fetcher := &scriptedDayFetcher{steps: 1}
	b := NewRangeBatcher(fetcher)

	from := time.Date(2024, 10, 4, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 10, 1, 0, 0, 0, 0, time.UTC)
	days, err := b.FetchRange(context.Background(), from, to, FailureTolerant)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(days) != 4 {
		t.Fatalf("got %d entries, want 4", len(days))
	}
}

func TestFetchLastDays(t *testing.T) {
	fetcher := &scriptedDayFetcher{steps: 500, failOn: map[string]bool{"2024-10-08": true}}
	b := NewRangeBatcher(fetcher)

	now := time.Date(2024, 10, 10, 14, 0, 0, 0, time.UTC)
	days, err := b.FetchLastDays(context.Background(), now, 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(days) != 6 {
		t.Fatalf("got %d entries, want 6 of 7", len(days))
	}
	first := time.Date(2024, 10, 4, 0, 0, 0, 0, time.UTC)
	if _, ok := days[first]; !ok {
		t.Fatalf("trailing window should start at %v", first)
	}
	if _, ok := days[time.Date(2024, 10, 10, 0, 0, 0, 0, time.UTC)]; !ok {
		t.Fatalf("trailing window should include today")
	}
}
