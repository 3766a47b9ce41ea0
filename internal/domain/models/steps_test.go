package models

import (
	"testing"
	"time"
)

func TestTimeWindowValid(t *testing.T) {
	now := time.Now()
	if !(TimeWindow{Start: now, End: now.Add(time.Hour)}).Valid() {
		t.Fatalf("forward window should be valid")
	}
	if (TimeWindow{Start: now, End: now.Add(-time.Hour)}).Valid() {
		t.Fatalf("reversed window should be invalid")
	}
	if (TimeWindow{End: now}).Valid() {
		t.Fatalf("zero start should be invalid")
	}
}

func TestDayWindow(t *testing.T) {
	in := time.Date(2024, 10, 10, 17, 30, 0, 0, time.UTC)
	w := DayWindow(in)
	if !w.Start.Equal(time.Date(2024, 10, 10, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("start %v", w.Start)
	}
	if !w.End.Equal(time.Date(2024, 10, 11, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("end %v", w.End)
	}
}

func TestDailyStepsTotalAndAverage(t *testing.T) {
	day := func(d int) time.Time { return time.Date(2024, 10, d, 0, 0, 0, 0, time.UTC) }
	days := DailySteps{
		day(1): {Steps: 1000, Source: SourceHealthStore},
		day(2): {Steps: 2000, Source: SourceHybrid},
		day(3): {Steps: 3000, Source: SourcePedometer},
	}
	if got := days.Total(); got != 6000 {
		t.Fatalf("total %d", got)
	}
	if got := days.Average(); got != 2000 {
		t.Fatalf("average %v", got)
	}
	if got := (DailySteps{}).Average(); got != 0 {
		t.Fatalf("empty average %v", got)
	}
}
