package usecase

import (
	"testing"
	"time"

	"StepPull/internal/domain/models"
)

func dayWindowAgo(now time.Time, days int) models.TimeWindow {
	return models.DayWindow(now.AddDate(0, 0, -days))
}

func TestClassify(t *testing.T) {
	now := time.Date(2024, 10, 10, 12, 0, 0, 0, time.UTC)
	cfg := PolicyConfig{UseHybridMode: true, LookbackDays: 7}

	both := ProviderState{HistoricalAvailable: true, HistoricalAuthorized: true, RecentAvailable: true}
	recentOnly := ProviderState{RecentAvailable: true}
	histOnly := ProviderState{HistoricalAvailable: true, HistoricalAuthorized: true}
	histDenied := ProviderState{HistoricalAvailable: true, HistoricalAuthorized: false, RecentAvailable: true}
	none := ProviderState{}

	cases := []struct {
		name string
		w    models.TimeWindow
		cfg  PolicyConfig
		st   ProviderState
		want Decision
	}{
		{"recent window both usable", dayWindowAgo(now, 0), cfg, both, DecisionHybrid},
		{"recent window at lookback edge", dayWindowAgo(now, 7), cfg, both, DecisionHybrid},
		{"old window both usable", dayWindowAgo(now, 8), cfg, both, DecisionHistoricalOnly},
		{"recent window hybrid disabled", dayWindowAgo(now, 1), PolicyConfig{LookbackDays: 7}, both, DecisionHistoricalOnly},
		{"recent window pedometer only", dayWindowAgo(now, 1), cfg, recentOnly, DecisionRecentOnly},
		{"recent window healthstore denied", dayWindowAgo(now, 1), cfg, histDenied, DecisionRecentOnly},
		{"recent window healthstore only", dayWindowAgo(now, 1), cfg, histOnly, DecisionHistoricalOnly},
		{"old window pedometer only", dayWindowAgo(now, 30), cfg, recentOnly, DecisionUnavailable},
		{"no providers", dayWindowAgo(now, 0), cfg, none, DecisionUnavailable},
	}

	for _, tc := range cases {
		if got := Classify(tc.w, now, tc.cfg, tc.st); got != tc.want {
			t.Errorf("%s: got %s want %s", tc.name, got, tc.want)
		}
	}
}

// The pedometer must never be selected for windows older than its lookback,
// whatever the provider state.
func TestClassifyNeverSelectsPedometerBeyondLookback(t *testing.T) {
	now := time.Date(2024, 10, 10, 12, 0, 0, 0, time.UTC)
	cfg := PolicyConfig{UseHybridMode: true, LookbackDays: 7}

	states := []ProviderState{
		{HistoricalAvailable: true, HistoricalAuthorized: true, RecentAvailable: true},
		{RecentAvailable: true},
		{HistoricalAvailable: true, RecentAvailable: true},
	}
	for age := 8; age <= 30; age++ {
		for _, st := range states {
			got := Classify(dayWindowAgo(now, age), now, cfg, st)
			if got == DecisionRecentOnly || got == DecisionHybrid {
				t.Fatalf("age %d state %+v: pedometer selected (%s)", age, st, got)
			}
		}
	}
}

// A lookback boundary spanning a DST transition must still keep the pedometer
// out: eight calendar days measure eight even when one of them is 23 hours
// long.
func TestClassifyLookbackBoundaryAcrossDST(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}
	cfg := PolicyConfig{UseHybridMode: true, LookbackDays: 7}
	both := ProviderState{HistoricalAvailable: true, HistoricalAuthorized: true, RecentAvailable: true}

	// 2026-03-08 springs forward; the window is eight calendar days before now.
	w := models.DayWindow(time.Date(2026, 3, 5, 8, 0, 0, 0, loc))
	now := time.Date(2026, 3, 13, 9, 0, 0, 0, loc)

	if got := Classify(w, now, cfg, both); got != DecisionHistoricalOnly {
		t.Fatalf("window past the horizon must be historical-only, got %s", got)
	}
}

// Partial-day ages count at calendar-day granularity: a window starting
// yesterday evening is one day old even minutes after midnight.
func TestClassifyCalendarDayAge(t *testing.T) {
	now := time.Date(2024, 10, 10, 0, 1, 0, 0, time.UTC)
	cfg := PolicyConfig{UseHybridMode: true, LookbackDays: 1}
	st := ProviderState{RecentAvailable: true}

	w := models.DayWindow(time.Date(2024, 10, 9, 23, 59, 0, 0, time.UTC))
	if got := Classify(w, now, cfg, st); got != DecisionRecentOnly {
		t.Fatalf("yesterday should be within a one-day lookback, got %s", got)
	}

	older := models.DayWindow(time.Date(2024, 10, 8, 23, 59, 0, 0, time.UTC))
	if got := Classify(older, now, cfg, st); got != DecisionUnavailable {
		t.Fatalf("two days back should be beyond a one-day lookback, got %s", got)
	}
}
