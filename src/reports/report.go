// Package reports assembles spending report data and renders it as Excel or
// PDF downloads.
package reports

import (
	"context"
	"time"

	"fintrack-server/src/analytics"
	db "fintrack-server/src/db/sql"
	"fintrack-server/src/models"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const largestExpenseLimit = 10

// Data is everything a rendered report needs, gathered up front so the
// renderers stay free of database access.
type Data struct {
	Start              time.Time
	End                time.Time
	TotalSpending      decimal.Decimal
	TransactionCount   int
	AverageDaily       decimal.Decimal
	AverageTransaction decimal.Decimal
	Categories         []models.CategoryAmount
	DailyTrend         []models.TrendPoint
	Transactions       []models.Transaction
	Largest            []models.Transaction
}

// Build gathers report data for one user and period.
func Build(ctx context.Context, pool *pgxpool.Pool, userID int, start, end time.Time) (*Data, error) {
	engine, err := analytics.New(pool, userID, start, end)
	if err != nil {
		return nil, err
	}

	d := &Data{Start: start, End: end}
	if d.TotalSpending, err = engine.TotalSpending(ctx); err != nil {
		return nil, err
	}
	if d.TransactionCount, err = engine.TransactionCount(ctx); err != nil {
		return nil, err
	}
	if d.AverageDaily, err = engine.AverageDailySpending(ctx); err != nil {
		return nil, err
	}
	if d.AverageTransaction, err = engine.AverageTransactionAmount(ctx); err != nil {
		return nil, err
	}
	if d.Categories, err = engine.CategoryBreakdown(ctx); err != nil {
		return nil, err
	}
	if d.DailyTrend, err = engine.Trends(ctx, analytics.PeriodDaily); err != nil {
		return nil, err
	}
	if d.Transactions, err = db.ExpensesInRange(ctx, pool, userID, start, end); err != nil {
		return nil, err
	}
	if d.Largest, err = db.LargestExpenses(ctx, pool, userID, start, end, largestExpenseLimit); err != nil {
		return nil, err
	}
	return d, nil
}

// PeriodLabel formats the report period for titles and filenames.
func (d *Data) PeriodLabel() string {
	return d.Start.Format("2006-01-02") + " to " + d.End.Format("2006-01-02")
}

// CategoryPercentage is a category's share of total spending, two decimal
// places, 0 when there was no spending.
func (d *Data) CategoryPercentage(amount decimal.Decimal) decimal.Decimal {
	if d.TotalSpending.IsZero() {
		return decimal.Zero
	}
	return amount.Div(d.TotalSpending).Mul(decimal.NewFromInt(100)).Round(2)
}
