package util

import (
	"net/url"
	"testing"
	"time"
)

var today = time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)

func TestDateRangeStrictDefaults(t *testing.T) {
	start, end, err := DateRangeStrict(url.Values{}, today)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !end.Equal(today) {
		t.Errorf("end = %v, want %v", end, today)
	}
	if !start.Equal(today.AddDate(0, 0, -30)) {
		t.Errorf("start = %v, want 30 days before today", start)
	}
}

func TestDateRangeStrictExplicit(t *testing.T) {
	q := url.Values{"start_date": {"2025-01-01"}, "end_date": {"2025-01-31"}}
	start, end, err := DateRangeStrict(q, today)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if start.Day() != 1 || end.Day() != 31 {
		t.Errorf("range = %v..%v", start, end)
	}
}

func TestDateRangeStrictRejectsBadInput(t *testing.T) {
	if _, _, err := DateRangeStrict(url.Values{"start_date": {"01/01/2025"}}, today); err == nil {
		t.Error("malformed start_date accepted")
	}
	q := url.Values{"start_date": {"2025-02-01"}, "end_date": {"2025-01-01"}}
	if _, _, err := DateRangeStrict(q, today); err == nil {
		t.Error("inverted range accepted")
	}
}

func TestDateRangeLenientFallsBack(t *testing.T) {
	q := url.Values{"start_date": {"garbage"}, "end_date": {"2025-06-01"}}
	start, end := DateRangeLenient(q, today)
	if !start.Equal(today.AddDate(0, 0, -30)) {
		t.Errorf("start = %v, want default window", start)
	}
	if end.Day() != 1 || end.Month() != time.June {
		t.Errorf("end = %v, want 2025-06-01", end)
	}
}

func TestMonthBounds(t *testing.T) {
	first, last := MonthBounds(2024, time.February)
	if first.Day() != 1 {
		t.Errorf("first = %v", first)
	}
	if last.Day() != 29 { // leap year
		t.Errorf("last = %v, want Feb 29", last)
	}
}

func TestPreviousMonth(t *testing.T) {
	y, m := PreviousMonth(2025, time.January)
	if y != 2024 || m != time.December {
		t.Errorf("PreviousMonth(2025, Jan) = %d, %v", y, m)
	}
	y, m = PreviousMonth(2025, time.March)
	if y != 2025 || m != time.February {
		t.Errorf("PreviousMonth(2025, Mar) = %d, %v", y, m)
	}
}

func TestInclusiveDays(t *testing.T) {
	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	if n := InclusiveDays(start, start); n != 1 {
		t.Errorf("same-day range = %d days, want 1", n)
	}
	if n := InclusiveDays(start, start.AddDate(0, 0, 29)); n != 30 {
		t.Errorf("30-day range = %d days, want 30", n)
	}
}
