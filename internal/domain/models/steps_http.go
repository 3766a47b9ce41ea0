package models

import "time"

// Requests for step HTTP endpoints. Defined in domain for consistency and reuse.
// Timestamps accept RFC3339 or unix seconds; dates are "2006-01-02".

// WindowRequest asks for an arbitrary window; an empty "to" means now.
type WindowRequest struct {
	From string `query:"from" json:"from" validate:"required"`
	To   string `query:"to" json:"to"`
}

type DateRequest struct {
	Date string `query:"date" json:"date" validate:"required"`
}

type RangeRequest struct {
	From string `query:"from" json:"from" validate:"required"`
	To   string `query:"to" json:"to" validate:"required"`
}

type LastDaysRequest struct {
	Days int `query:"days" json:"days" default:"7" validate:"gte=1,lte=366"`
}

// PeriodRequest anchors a weekly/monthly/yearly fetch; empty date means today.
type PeriodRequest struct {
	Date string `query:"date" json:"date"`
}

// ObservationResponse is the wire form of a StepObservation.
type ObservationResponse struct {
	Steps     int64     `json:"steps"`
	Source    Source    `json:"source"`
	WindowEnd time.Time `json:"window_end"`
}

// DayEntry is one day inside a daily response, keyed by start-of-day.
type DayEntry struct {
	Day       string    `json:"day"`
	Steps     int64     `json:"steps"`
	Source    Source    `json:"source"`
	WindowEnd time.Time `json:"window_end"`
}

// DailyStepsResponse carries per-day observations in chronological order plus
// summary figures. Average is over the days actually present.
type DailyStepsResponse struct {
	Days     []DayEntry `json:"days"`
	DayCount int        `json:"day_count"`
	Total    int64      `json:"total"`
	Average  float64    `json:"average"`
}

// RealtimeStatusResponse reports the realtime session state.
type RealtimeStatusResponse struct {
	Active    bool       `json:"active"`
	StartedAt *time.Time `json:"started_at,omitempty"`
}

// ObservationFromSteps wraps a resolved count into the wire form.
func ObservationFromSteps(obs StepObservation) ObservationResponse {
	return ObservationResponse{Steps: obs.Steps, Source: obs.Source, WindowEnd: obs.WindowEnd}
}
