package models

import "time"

// Source records which provider(s) produced an observation. It is set at
// construction time and never inferred after the fact.
type Source string

const (
	SourceHealthStore Source = "healthstore" // platform-aggregated historical provider
	SourcePedometer   Source = "pedometer"   // sensor-based recent-window provider
	SourceHybrid      Source = "hybrid"      // max of both readings for the same window
)

// StepObservation is a single resolved step count for a time window.
// Immutable once constructed.
type StepObservation struct {
	Steps     int64
	Source    Source
	WindowEnd time.Time
}

// TimeWindow is a [Start, End] window with Start <= End. Windows are built by
// callers or by the range batcher and never mutated.
type TimeWindow struct {
	Start time.Time
	End   time.Time
}

// Valid reports whether the window is well-formed.
func (w TimeWindow) Valid() bool {
	return !w.Start.IsZero() && !w.End.IsZero() && !w.Start.After(w.End)
}

// DayWindow returns the calendar-day window [start-of-day, start-of-next-day)
// containing t, in t's location.
func DayWindow(t time.Time) TimeWindow {
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return TimeWindow{Start: start, End: start.AddDate(0, 0, 1)}
}

// DailySteps maps a start-of-day timestamp to the observation for that day.
// One entry per included day, no duplicate keys.
type DailySteps map[time.Time]StepObservation

// Total sums steps over all included days.
func (d DailySteps) Total() int64 {
	var total int64
	for _, obs := range d {
		total += obs.Steps
	}
	return total
}

// Average divides the total by the number of days actually present. Skip-mode
// results therefore average over included days, not over the requested span.
func (d DailySteps) Average() float64 {
	if len(d) == 0 {
		return 0
	}
	return float64(d.Total()) / float64(len(d))
}
