package util

import (
	"fmt"
	"net/url"
	"time"
)

const dateLayout = "2006-01-02"

// ParseDate parses an ISO 8601 date (YYYY-MM-DD).
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return t, nil
}

// DateRangeStrict reads start_date/end_date query parameters, defaulting to
// the 30 days ending today. A malformed parameter or an inverted range is an
// error (analytics API behavior).
func DateRangeStrict(q url.Values, today time.Time) (time.Time, time.Time, error) {
	start, end, err := dateRange(q, today, true)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if start.After(end) {
		return time.Time{}, time.Time{}, fmt.Errorf("start date must be before or equal to end date")
	}
	return start, end, nil
}

// DateRangeLenient reads the same parameters but silently keeps the default
// window when a parameter fails to parse (report download behavior).
func DateRangeLenient(q url.Values, today time.Time) (time.Time, time.Time) {
	start, end, _ := dateRange(q, today, false)
	return start, end
}

func dateRange(q url.Values, today time.Time, strict bool) (time.Time, time.Time, error) {
	today = today.Truncate(24 * time.Hour)
	end := today
	start := today.AddDate(0, 0, -30)

	if s := q.Get("start_date"); s != "" {
		if t, err := ParseDate(s); err == nil {
			start = t
		} else if strict {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid start_date format, use YYYY-MM-DD")
		}
	}
	if s := q.Get("end_date"); s != "" {
		if t, err := ParseDate(s); err == nil {
			end = t
		} else if strict {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid end_date format, use YYYY-MM-DD")
		}
	}
	return start, end, nil
}

// MonthBounds returns the first and last day of a calendar month.
func MonthBounds(year int, month time.Month) (time.Time, time.Time) {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)
	return first, last
}

// PreviousMonth steps a (year, month) pair back by one month.
func PreviousMonth(year int, month time.Month) (int, time.Month) {
	if month == time.January {
		return year - 1, time.December
	}
	return year, month - 1
}

// InclusiveDays counts days in [start, end], both ends included.
func InclusiveDays(start, end time.Time) int {
	return int(end.Sub(start).Hours()/24) + 1
}
