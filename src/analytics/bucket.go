package analytics

import (
	"time"

	"fintrack-server/src/models"

	"github.com/shopspring/decimal"
)

// FillBuckets expands a sparse trend series so every bucket between start and
// end appears, zero-amount buckets included. Bucket dates follow Postgres
// date_trunc: days as-is, weeks snapped to Monday, months to the first.
func FillBuckets(points []models.TrendPoint, start, end time.Time, period string) []models.TrendPoint {
	byDate := make(map[string]decimal.Decimal, len(points))
	for _, p := range points {
		byDate[p.Date.Format("2006-01-02")] = p.Amount
	}

	var filled []models.TrendPoint
	for cursor := BucketStart(start, period); !cursor.After(end); cursor = nextBucket(cursor, period) {
		amount := decimal.Zero
		if v, ok := byDate[cursor.Format("2006-01-02")]; ok {
			amount = v
		}
		filled = append(filled, models.TrendPoint{Date: cursor, Amount: amount})
	}
	return filled
}

// BucketStart snaps a date down to its bucket boundary.
func BucketStart(t time.Time, period string) time.Time {
	t = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	switch period {
	case PeriodWeekly:
		// ISO weeks, Monday start
		offset := (int(t.Weekday()) + 6) % 7
		return t.AddDate(0, 0, -offset)
	case PeriodMonthly:
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	default:
		return t
	}
}

func nextBucket(t time.Time, period string) time.Time {
	switch period {
	case PeriodWeekly:
		return t.AddDate(0, 0, 7)
	case PeriodMonthly:
		return t.AddDate(0, 1, 0)
	default:
		return t.AddDate(0, 0, 1)
	}
}

// BucketLabel formats a bucket date for API responses. Monthly buckets use
// YYYY-MM, everything else a full date.
func BucketLabel(t time.Time, period string) string {
	if period == PeriodMonthly {
		return t.Format("2006-01")
	}
	return t.Format("2006-01-02")
}

// ChangePercentage computes percentage change from baseline to current,
// rounded to two places. A non-positive baseline yields 0 when both values
// are zero and 100 otherwise.
func ChangePercentage(baseline, current decimal.Decimal) decimal.Decimal {
	if baseline.IsPositive() {
		return current.Sub(baseline).Div(baseline).Mul(decimal.NewFromInt(100)).Round(2)
	}
	if baseline.IsZero() && current.IsZero() {
		return decimal.Zero
	}
	return decimal.NewFromInt(100)
}
