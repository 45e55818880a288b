package analytics

import (
	"testing"
	"time"

	"fintrack-server/src/models"

	"github.com/shopspring/decimal"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestFillBucketsDaily(t *testing.T) {
	points := []models.TrendPoint{
		{Date: date(2024, time.March, 2), Amount: decimal.NewFromInt(50)},
	}
	filled := FillBuckets(points, date(2024, time.March, 1), date(2024, time.March, 4), PeriodDaily)
	if len(filled) != 4 {
		t.Fatalf("expected 4 buckets, got %d", len(filled))
	}
	if !filled[0].Amount.IsZero() {
		t.Errorf("expected zero for empty day, got %s", filled[0].Amount)
	}
	if !filled[1].Amount.Equal(decimal.NewFromInt(50)) {
		t.Errorf("expected 50 on March 2, got %s", filled[1].Amount)
	}
	if !filled[3].Date.Equal(date(2024, time.March, 4)) {
		t.Errorf("expected last bucket March 4, got %s", filled[3].Date)
	}
}

func TestFillBucketsWeeklySnapsToMonday(t *testing.T) {
	// March 6 2024 is a Wednesday; its week starts Monday March 4.
	filled := FillBuckets(nil, date(2024, time.March, 6), date(2024, time.March, 18), PeriodWeekly)
	if len(filled) != 3 {
		t.Fatalf("expected 3 weekly buckets, got %d", len(filled))
	}
	want := []time.Time{date(2024, time.March, 4), date(2024, time.March, 11), date(2024, time.March, 18)}
	for i, w := range want {
		if !filled[i].Date.Equal(w) {
			t.Errorf("bucket %d: expected %s, got %s", i, w, filled[i].Date)
		}
	}
}

func TestFillBucketsMonthly(t *testing.T) {
	points := []models.TrendPoint{
		{Date: date(2024, time.February, 1), Amount: decimal.NewFromInt(200)},
	}
	filled := FillBuckets(points, date(2024, time.January, 15), date(2024, time.March, 10), PeriodMonthly)
	if len(filled) != 3 {
		t.Fatalf("expected 3 monthly buckets, got %d", len(filled))
	}
	if !filled[0].Date.Equal(date(2024, time.January, 1)) {
		t.Errorf("expected first bucket Jan 1, got %s", filled[0].Date)
	}
	if !filled[1].Amount.Equal(decimal.NewFromInt(200)) {
		t.Errorf("expected 200 for February, got %s", filled[1].Amount)
	}
	if !filled[2].Amount.IsZero() {
		t.Errorf("expected zero for March, got %s", filled[2].Amount)
	}
}

func TestBucketLabel(t *testing.T) {
	d := date(2024, time.March, 4)
	if got := BucketLabel(d, PeriodDaily); got != "2024-03-04" {
		t.Errorf("daily label: got %q", got)
	}
	if got := BucketLabel(d, PeriodMonthly); got != "2024-03" {
		t.Errorf("monthly label: got %q", got)
	}
}

func TestChangePercentage(t *testing.T) {
	tests := []struct {
		name     string
		baseline string
		current  string
		want     string
	}{
		{"increase", "100", "150", "50"},
		{"decrease", "200", "150", "-25"},
		{"both zero", "0", "0", "0"},
		{"from zero", "0", "75", "100"},
		{"negative baseline", "-50", "20", "100"},
		{"rounded", "300", "400", "33.33"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			baseline := decimal.RequireFromString(tt.baseline)
			current := decimal.RequireFromString(tt.current)
			want := decimal.RequireFromString(tt.want)
			if got := ChangePercentage(baseline, current); !got.Equal(want) {
				t.Errorf("ChangePercentage(%s, %s) = %s, want %s", tt.baseline, tt.current, got, want)
			}
		})
	}
}
