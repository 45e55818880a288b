// Package analytics computes spending rollups for a user and date range.
// Sums happen in the database over the plaintext amount_index column; this
// package owns the derived math (averages, percentages, bucket filling).
package analytics

import (
	"context"
	"fmt"
	"time"

	db "fintrack-server/src/db/sql"
	"fintrack-server/src/models"
	"fintrack-server/src/util"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const (
	PeriodDaily   = "daily"
	PeriodWeekly  = "weekly"
	PeriodMonthly = "monthly"
)

type Engine struct {
	pool   *pgxpool.Pool
	userID int
	start  time.Time
	end    time.Time
}

// New builds an engine for (user, start, end); an inverted range is
// rejected.
func New(pool *pgxpool.Pool, userID int, start, end time.Time) (*Engine, error) {
	if start.After(end) {
		return nil, fmt.Errorf("start date must be before or equal to end date")
	}
	return &Engine{pool: pool, userID: userID, start: start, end: end}, nil
}

func (e *Engine) TotalSpending(ctx context.Context) (decimal.Decimal, error) {
	return db.TotalSpending(ctx, e.pool, e.userID, e.start, e.end)
}

func (e *Engine) TransactionCount(ctx context.Context) (int, error) {
	return db.ExpenseCount(ctx, e.pool, e.userID, e.start, e.end)
}

// AverageDailySpending divides the period total by the inclusive day count.
func (e *Engine) AverageDailySpending(ctx context.Context) (decimal.Decimal, error) {
	total, err := e.TotalSpending(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	days := util.InclusiveDays(e.start, e.end)
	return total.Div(decimal.NewFromInt(int64(days))).Round(2), nil
}

func (e *Engine) AverageTransactionAmount(ctx context.Context) (decimal.Decimal, error) {
	total, err := e.TotalSpending(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	count, err := e.TransactionCount(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	if count == 0 {
		return decimal.Zero, nil
	}
	return total.Div(decimal.NewFromInt(int64(count))).Round(2), nil
}

// CategoryBreakdown returns per-category totals sorted descending.
func (e *Engine) CategoryBreakdown(ctx context.Context) ([]models.CategoryAmount, error) {
	return db.CategoryBreakdown(ctx, e.pool, e.userID, e.start, e.end)
}

// TopCategories truncates the breakdown, which is already sorted.
func (e *Engine) TopCategories(ctx context.Context, limit int) ([]models.CategoryAmount, error) {
	breakdown, err := e.CategoryBreakdown(ctx)
	if err != nil {
		return nil, err
	}
	if len(breakdown) > limit {
		breakdown = breakdown[:limit]
	}
	return breakdown, nil
}

// Trends returns the spending series at the requested granularity with
// missing buckets zero-filled across the whole range.
func (e *Engine) Trends(ctx context.Context, period string) ([]models.TrendPoint, error) {
	var unit string
	switch period {
	case PeriodDaily:
		unit = "day"
	case PeriodWeekly:
		unit = "week"
	case PeriodMonthly:
		unit = "month"
	default:
		return nil, fmt.Errorf("period must be 'daily', 'weekly', or 'monthly'")
	}

	points, err := db.SpendingByBucket(ctx, e.pool, e.userID, e.start, e.end, unit)
	if err != nil {
		return nil, err
	}
	return FillBuckets(points, e.start, e.end, period), nil
}

// DayOfWeek returns spending keyed by weekday name, Sunday first, with all
// seven days present.
func (e *Engine) DayOfWeek(ctx context.Context) ([]models.CategoryAmount, error) {
	totals, err := db.SpendingByDayOfWeek(ctx, e.pool, e.userID, e.start, e.end)
	if err != nil {
		return nil, err
	}

	out := make([]models.CategoryAmount, len(dayNames))
	for dow, name := range dayNames {
		amount := decimal.Zero
		if v, ok := totals[dow]; ok {
			amount = v
		}
		out[dow] = models.CategoryAmount{Name: name, Amount: amount}
	}
	return out, nil
}

// Comparison computes period-over-period change against a second range.
func (e *Engine) Comparison(ctx context.Context, comparisonStart, comparisonEnd time.Time) (*models.SpendingComparison, error) {
	current, err := e.TotalSpending(ctx)
	if err != nil {
		return nil, err
	}

	baselineEngine, err := New(e.pool, e.userID, comparisonStart, comparisonEnd)
	if err != nil {
		return nil, err
	}
	baseline, err := baselineEngine.TotalSpending(ctx)
	if err != nil {
		return nil, err
	}

	change := current.Sub(baseline)
	return &models.SpendingComparison{
		CurrentPeriod:    current,
		ComparisonPeriod: baseline,
		ChangeAmount:     change,
		ChangePercentage: ChangePercentage(baseline, current),
	}, nil
}

var dayNames = []string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}
