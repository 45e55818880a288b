package db

import (
	"context"
	"time"

	"fintrack-server/src/models"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// All analytics queries aggregate amount_index (the plaintext mirror of the
// encrypted amount) so rollups stay inside the database instead of
// decrypting row by row.

const expenseFilter = `
	user_id = $1 AND transaction_type = 'EXPENSE' AND is_active
	AND date >= $2 AND date <= $3
`

// same filter with columns qualified for joined queries
const expenseFilterT = `
	t.user_id = $1 AND t.transaction_type = 'EXPENSE' AND t.is_active
	AND t.date >= $2 AND t.date <= $3
`

func TotalSpending(ctx context.Context, pool *pgxpool.Pool, userID int, start, end time.Time) (decimal.Decimal, error) {
	query := `SELECT COALESCE(SUM(amount_index), 0) FROM transactions WHERE ` + expenseFilter
	var total decimal.Decimal
	err := pool.QueryRow(ctx, query, userID, start, end).Scan(&total)
	if err != nil {
		return decimal.Zero, err
	}
	return total, nil
}

func ExpenseCount(ctx context.Context, pool *pgxpool.Pool, userID int, start, end time.Time) (int, error) {
	query := `SELECT COUNT(*) FROM transactions WHERE ` + expenseFilter
	var count int
	err := pool.QueryRow(ctx, query, userID, start, end).Scan(&count)
	return count, err
}

// CategoryBreakdown sums per-category spending, descending. Uncategorized
// expenses are excluded, matching the breakdown's category join semantics.
func CategoryBreakdown(ctx context.Context, pool *pgxpool.Pool, userID int, start, end time.Time) ([]models.CategoryAmount, error) {
	query := `
		SELECT c.name, COALESCE(SUM(t.amount_index), 0) AS total
		FROM transactions t
		JOIN categories c ON c.id = t.category_id
		WHERE ` + expenseFilterT + `
		GROUP BY c.name
		ORDER BY total DESC
	`
	rows, err := pool.Query(ctx, query, userID, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var breakdown []models.CategoryAmount
	for rows.Next() {
		var ca models.CategoryAmount
		if err := rows.Scan(&ca.Name, &ca.Amount); err != nil {
			return nil, err
		}
		breakdown = append(breakdown, ca)
	}
	return breakdown, rows.Err()
}

// SpendingByBucket groups expense totals by a date_trunc unit ("day",
// "week", "month"). Buckets with no spending are absent; the analytics
// engine zero-fills them.
func SpendingByBucket(ctx context.Context, pool *pgxpool.Pool, userID int, start, end time.Time, unit string) ([]models.TrendPoint, error) {
	query := `
		SELECT date_trunc($4, date)::date AS bucket, COALESCE(SUM(amount_index), 0)
		FROM transactions
		WHERE ` + expenseFilter + `
		GROUP BY bucket
		ORDER BY bucket
	`
	rows, err := pool.Query(ctx, query, userID, start, end, unit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var points []models.TrendPoint
	for rows.Next() {
		var p models.TrendPoint
		if err := rows.Scan(&p.Date, &p.Amount); err != nil {
			return nil, err
		}
		points = append(points, p)
	}
	return points, rows.Err()
}

// SpendingByDayOfWeek returns totals keyed by Postgres DOW (0=Sunday).
func SpendingByDayOfWeek(ctx context.Context, pool *pgxpool.Pool, userID int, start, end time.Time) (map[int]decimal.Decimal, error) {
	query := `
		SELECT EXTRACT(DOW FROM date)::int, COALESCE(SUM(amount_index), 0)
		FROM transactions
		WHERE ` + expenseFilter + `
		GROUP BY 1
	`
	rows, err := pool.Query(ctx, query, userID, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	totals := make(map[int]decimal.Decimal)
	for rows.Next() {
		var dow int
		var amount decimal.Decimal
		if err := rows.Scan(&dow, &amount); err != nil {
			return nil, err
		}
		totals[dow] = amount
	}
	return totals, rows.Err()
}

// MonthIncomeExpenses returns income and expense totals plus the overall
// transaction count for one date range (the dashboard month).
func MonthIncomeExpenses(ctx context.Context, pool *pgxpool.Pool, userID int, start, end time.Time) (income, expenses decimal.Decimal, count int, err error) {
	query := `
		SELECT
			COALESCE(SUM(amount_index) FILTER (WHERE transaction_type = 'INCOME'), 0),
			COALESCE(SUM(amount_index) FILTER (WHERE transaction_type = 'EXPENSE'), 0),
			COUNT(*)
		FROM transactions
		WHERE user_id = $1 AND is_active AND date >= $2 AND date <= $3
	`
	err = pool.QueryRow(ctx, query, userID, start, end).Scan(&income, &expenses, &count)
	return
}

// LargestExpenses returns the top expenses by amount for the report period.
func LargestExpenses(ctx context.Context, pool *pgxpool.Pool, userID int, start, end time.Time, limit int) ([]models.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions t LEFT JOIN categories c ON c.id = t.category_id
		WHERE ` + expenseFilterT + `
		ORDER BY t.amount_index DESC
		LIMIT $4
	`
	rows, err := pool.Query(ctx, query, userID, start, end, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var transactions []models.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, *t)
	}
	return transactions, rows.Err()
}

// ExpensesInRange lists the period's expense transactions newest-first for
// the report's detail sheet.
func ExpensesInRange(ctx context.Context, pool *pgxpool.Pool, userID int, start, end time.Time) ([]models.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions t LEFT JOIN categories c ON c.id = t.category_id
		WHERE ` + expenseFilterT + `
		ORDER BY t.date DESC
	`
	rows, err := pool.Query(ctx, query, userID, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var transactions []models.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, *t)
	}
	return transactions, rows.Err()
}
