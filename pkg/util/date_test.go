package util

import (
	"strconv"
	"testing"
	"time"
)

func TestParseTimeRFC3339(t *testing.T) {
	s := "2024-10-10T10:10:10Z"
	got, ok := ParseTime(s)
	if !ok {
		t.Fatalf("expected ok")
	}
	if got.UTC().Format(time.RFC3339) != s {
		t.Fatalf("unexpected time %v", got)
	}
}

func TestParseTimeUnix(t *testing.T) {
	ts := time.Date(2024, 10, 10, 10, 10, 10, 0, time.UTC).Unix()
	got, ok := ParseTime(strconv.FormatInt(ts, 10))
	if !ok {
		t.Fatalf("expected ok")
	}
	if got.Unix() != ts {
		t.Fatalf("unexpected unix %v", got.Unix())
	}
}

func TestParseTimeDefault(t *testing.T) {
	def := time.Date(2024, 10, 10, 10, 10, 10, 0, time.UTC)
	got := ParseTimeDefault("", def)
	if !got.Equal(def) {
		t.Fatalf("expected default")
	}
}

func TestParseDate(t *testing.T) {
	got, ok := ParseDate("2024-10-10")
	if !ok {
		t.Fatalf("expected ok")
	}
	if got.Year() != 2024 || got.Month() != time.October || got.Day() != 10 {
		t.Fatalf("unexpected date %v", got)
	}

	if _, ok := ParseDate("not-a-date"); ok {
		t.Fatalf("expected parse failure")
	}
}

func TestStartOfDay(t *testing.T) {
	in := time.Date(2024, 10, 10, 17, 45, 3, 12, time.UTC)
	got := StartOfDay(in)
	want := time.Date(2024, 10, 10, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("got %v want %v", got, want)
	}
}

func TestCalendarDaysBetween(t *testing.T) {
	cases := []struct {
		name string
		a, b time.Time
		want int
	}{
		{
			name: "same day",
			a:    time.Date(2024, 10, 10, 0, 1, 0, 0, time.UTC),
			b:    time.Date(2024, 10, 10, 23, 59, 0, 0, time.UTC),
			want: 0,
		},
		{
			name: "minutes apart across midnight",
			a:    time.Date(2024, 10, 9, 23, 59, 0, 0, time.UTC),
			b:    time.Date(2024, 10, 10, 0, 1, 0, 0, time.UTC),
			want: 1,
		},
		{
			name: "a week",
			a:    time.Date(2024, 10, 3, 12, 0, 0, 0, time.UTC),
			b:    time.Date(2024, 10, 10, 1, 0, 0, 0, time.UTC),
			want: 7,
		},
	}
	for _, tc := range cases {
		if got := CalendarDaysBetween(tc.a, tc.b); got != tc.want {
			t.Errorf("%s: got %d want %d", tc.name, got, tc.want)
		}
	}
}

func TestCalendarDaysBetweenAcrossDST(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}

	// 2026-03-08 springs forward, so the local day is only 23 hours long.
	springDay := time.Date(2026, 3, 8, 0, 0, 0, 0, loc)
	if got := CalendarDaysBetween(springDay, time.Date(2026, 3, 9, 12, 0, 0, 0, loc)); got != 1 {
		t.Fatalf("across spring-forward: got %d want 1", got)
	}

	// Eight calendar days spanning the transition must not read as seven.
	from := time.Date(2026, 3, 5, 0, 0, 0, 0, loc)
	to := time.Date(2026, 3, 13, 9, 0, 0, 0, loc)
	if got := CalendarDaysBetween(from, to); got != 8 {
		t.Fatalf("eight days across spring-forward: got %d want 8", got)
	}

	// 2026-11-01 falls back; the 25-hour day must not count double.
	fallDay := time.Date(2026, 11, 1, 0, 0, 0, 0, loc)
	if got := CalendarDaysBetween(fallDay, time.Date(2026, 11, 2, 0, 0, 0, 0, loc)); got != 1 {
		t.Fatalf("across fall-back: got %d want 1", got)
	}
}

func TestStartOfWeek(t *testing.T) {
	// 2024-10-10 is a Thursday; the week starts Monday 2024-10-07.
	in := time.Date(2024, 10, 10, 15, 0, 0, 0, time.UTC)
	got := StartOfWeek(in)
	want := time.Date(2024, 10, 7, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("got %v want %v", got, want)
	}

	// Sunday belongs to the week that started the previous Monday.
	sun := time.Date(2024, 10, 13, 9, 0, 0, 0, time.UTC)
	if got := StartOfWeek(sun); !got.Equal(want) {
		t.Fatalf("sunday: got %v want %v", got, want)
	}
}

func TestStartOfMonthAndYear(t *testing.T) {
	in := time.Date(2024, 10, 10, 15, 0, 0, 0, time.UTC)
	if got := StartOfMonth(in); !got.Equal(time.Date(2024, 10, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("month: got %v", got)
	}
	if got := StartOfYear(in); !got.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("year: got %v", got)
	}
}
