package scheduling

import (
	"errors"
	"testing"
	"time"
)

func mustTime(t *testing.T, loc *time.Location, year int, month time.Month, day, hour, min int) time.Time {
	t.Helper()
	return time.Date(year, month, day, hour, min, 0, 0, loc)
}

var testLoc = time.FixedZone("CST", -6*60*60)

func TestDayWindow_InclusiveBounds(t *testing.T) {
	day := mustTime(t, testLoc, 2024, 1, 10, 15, 30)

	w := DayWindow(day, testLoc)

	if !w.Start.Equal(mustTime(t, testLoc, 2024, 1, 10, 0, 0)) {
		t.Fatalf("start = %v, want local midnight", w.Start)
	}
	wantEnd := time.Date(2024, 1, 10, 23, 59, 59, int(999*time.Millisecond), testLoc)
	if !w.End.Equal(wantEnd) {
		t.Fatalf("end = %v, want %v", w.End, wantEnd)
	}
	if !w.Contains(w.Start) || !w.Contains(w.End) {
		t.Fatalf("window must contain both bounds")
	}
	if w.Contains(w.Start.Add(-time.Nanosecond)) {
		t.Fatalf("window must not contain previous day")
	}
	if w.Contains(mustTime(t, testLoc, 2024, 1, 11, 0, 0)) {
		t.Fatalf("window must not contain next midnight")
	}
}

func TestDayWindow_UsesCalendarDateAsGiven(t *testing.T) {
	// 2024-01-10 00:00 UTC is still Jan 9 in CST; the window follows the given date.
	date := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)

	w := DayWindow(date, testLoc)

	if w.Start.Day() != 10 || w.Start.Location() != testLoc {
		t.Fatalf("start = %v, want Jan 10 in CST", w.Start)
	}
}

func TestDerivedEnd_UsesServiceDuration(t *testing.T) {
	start := mustTime(t, testLoc, 2024, 1, 10, 10, 0)
	d := int64(45)

	end := DerivedEnd(start, &d)

	if !end.Equal(mustTime(t, testLoc, 2024, 1, 10, 10, 45)) {
		t.Fatalf("end = %v, want 10:45", end)
	}
}

func TestDerivedEnd_DefaultsToThirtyMinutes(t *testing.T) {
	start := mustTime(t, testLoc, 2024, 1, 10, 10, 0)
	zero := int64(0)

	for _, d := range []*int64{nil, &zero} {
		end := DerivedEnd(start, d)
		if end.Sub(start) != 30*time.Minute {
			t.Fatalf("duration = %v, want 30m", end.Sub(start))
		}
	}
}

func TestCombineDateTime_LocalWallClock(t *testing.T) {
	got, err := CombineDateTime("2024-01-10", "10:00", testLoc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.Equal(mustTime(t, testLoc, 2024, 1, 10, 10, 0)) {
		t.Fatalf("got %v, want 2024-01-10 10:00 CST", got)
	}
}

func TestCombineDateTime_Invalid(t *testing.T) {
	cases := []struct {
		date, clock, field string
	}{
		{"", "10:00", "date"},
		{"2024-01-10", "", "time"},
		{"10/01/2024", "10:00", "date"},
		{"2024-01-10", "25:00", "time"},
	}
	for _, c := range cases {
		_, err := CombineDateTime(c.date, c.clock, testLoc)
		var ve *ValidationError
		if !errors.As(err, &ve) {
			t.Fatalf("%q %q: expected ValidationError, got %v", c.date, c.clock, err)
		}
		if ve.Field != c.field {
			t.Fatalf("%q %q: field = %q, want %q", c.date, c.clock, ve.Field, c.field)
		}
	}
}

func TestSuggestTimes_TailDropped(t *testing.T) {
	day := mustTime(t, testLoc, 2024, 1, 10, 0, 0)

	got, err := SuggestTimes(day, "09:00", "10:40", 30*time.Minute, testLoc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"09:00", "09:30", "10:00"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func TestSuggestTimes_InvalidStep(t *testing.T) {
	day := mustTime(t, testLoc, 2024, 1, 10, 0, 0)
	if _, err := SuggestTimes(day, "09:00", "18:00", 0, testLoc); !errors.Is(err, ErrSlotDuration) {
		t.Fatalf("expected ErrSlotDuration, got %v", err)
	}
}

func TestFormatBlockLabel(t *testing.T) {
	tr := TimeRange{
		Start: mustTime(t, time.UTC, 2024, 1, 10, 16, 0),
		End:   mustTime(t, time.UTC, 2024, 1, 10, 16, 45),
	}
	if got := FormatBlockLabel(tr, testLoc); got != "10:00–10:45" {
		t.Fatalf("label = %q, want 10:00–10:45", got)
	}
}
