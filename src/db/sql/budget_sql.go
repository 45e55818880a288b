package db

import (
	"context"
	"fmt"
	"time"

	"fintrack-server/src/models"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const budgetColumns = `
	id, user_id, category_id, name, amount_index, period_start, period_end,
	alert_enabled, warning_threshold, critical_threshold, is_active, created_at, updated_at
`

func scanBudget(row interface{ Scan(dest ...any) error }) (*models.Budget, error) {
	var b models.Budget
	var warning, critical decimal.NullDecimal
	err := row.Scan(
		&b.ID, &b.UserID, &b.CategoryID, &b.Name, &b.Amount, &b.PeriodStart, &b.PeriodEnd,
		&b.AlertEnabled, &warning, &critical, &b.IsActive, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if warning.Valid {
		b.WarningThreshold = &warning.Decimal
	}
	if critical.Valid {
		b.CriticalThreshold = &critical.Decimal
	}
	return &b, nil
}

func CreateBudget(ctx context.Context, pool *pgxpool.Pool, b *models.Budget, amountEnc string) (*models.Budget, error) {
	query := `
		INSERT INTO budgets (user_id, category_id, name, amount_enc, amount_index, period_start, period_end,
			alert_enabled, warning_threshold, critical_threshold)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING ` + budgetColumns
	return scanBudget(pool.QueryRow(ctx, query,
		b.UserID, b.CategoryID, b.Name, amountEnc, b.Amount, b.PeriodStart, b.PeriodEnd,
		b.AlertEnabled, b.WarningThreshold, b.CriticalThreshold))
}

// GetBudget looks a budget up without user scoping. Only background sweeps
// use this; request handlers go through GetBudgetByID.
func GetBudget(ctx context.Context, pool *pgxpool.Pool, budgetID int) (*models.Budget, error) {
	query := `SELECT ` + budgetColumns + ` FROM budgets WHERE id = $1`
	return scanBudget(pool.QueryRow(ctx, query, budgetID))
}

func GetBudgetByID(ctx context.Context, pool *pgxpool.Pool, userID, budgetID int) (*models.Budget, error) {
	query := `
		SELECT ` + budgetColumns + `
		FROM budgets WHERE id = $1 AND user_id = $2 AND is_active
	`
	return scanBudget(pool.QueryRow(ctx, query, budgetID, userID))
}

func GetAllBudgetsForUser(ctx context.Context, pool *pgxpool.Pool, userID int) ([]models.Budget, error) {
	query := `
		SELECT ` + budgetColumns + `
		FROM budgets WHERE user_id = $1 AND is_active
		ORDER BY period_start DESC, name
	`
	return queryBudgets(ctx, pool, query, userID)
}

// GetCurrentBudgets returns budgets whose period covers the given date.
func GetCurrentBudgets(ctx context.Context, pool *pgxpool.Pool, userID int, date time.Time) ([]models.Budget, error) {
	query := `
		SELECT ` + budgetColumns + `
		FROM budgets
		WHERE user_id = $1 AND is_active AND period_start <= $2 AND period_end >= $2
		ORDER BY name
	`
	return queryBudgets(ctx, pool, query, userID, date)
}

// GetAlertEnabledBudgets returns every active budget with alerts switched
// on, across all users. Used by the periodic sweep.
func GetAlertEnabledBudgets(ctx context.Context, pool *pgxpool.Pool) ([]models.Budget, error) {
	query := `
		SELECT ` + budgetColumns + `
		FROM budgets WHERE is_active AND alert_enabled
		ORDER BY id
	`
	return queryBudgets(ctx, pool, query)
}

// GetBudgetsAffectedByTransaction returns active alert-enabled budgets whose
// period covers the transaction date and which are either overall budgets or
// scoped to the transaction's category.
func GetBudgetsAffectedByTransaction(ctx context.Context, pool *pgxpool.Pool, userID int, date time.Time, categoryID *int) ([]models.Budget, error) {
	query := `
		SELECT ` + budgetColumns + `
		FROM budgets
		WHERE user_id = $1 AND is_active AND alert_enabled
		  AND period_start <= $2 AND period_end >= $2
		  AND (category_id IS NULL OR category_id = $3)
		ORDER BY id
	`
	return queryBudgets(ctx, pool, query, userID, date, categoryID)
}

func UpdateBudget(ctx context.Context, pool *pgxpool.Pool, b *models.Budget, amountEnc string) (*models.Budget, error) {
	query := `
		UPDATE budgets
		SET category_id = $1, name = $2, amount_enc = $3, amount_index = $4,
		    period_start = $5, period_end = $6, alert_enabled = $7,
		    warning_threshold = $8, critical_threshold = $9, updated_at = NOW()
		WHERE id = $10 AND user_id = $11 AND is_active
		RETURNING ` + budgetColumns
	return scanBudget(pool.QueryRow(ctx, query,
		b.CategoryID, b.Name, amountEnc, b.Amount, b.PeriodStart, b.PeriodEnd,
		b.AlertEnabled, b.WarningThreshold, b.CriticalThreshold, b.ID, b.UserID))
}

func DeleteBudget(ctx context.Context, pool *pgxpool.Pool, userID, budgetID int) error {
	query := `UPDATE budgets SET is_active = FALSE, updated_at = NOW() WHERE id = $1 AND user_id = $2 AND is_active`
	cmd, err := pool.Exec(ctx, query, budgetID, userID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("budget not found")
	}
	return nil
}

// BudgetSpent sums active expense transactions inside the budget period,
// scoped to the budget category when one is set. Aggregates over the
// plaintext amount_index column, never the ciphertext.
func BudgetSpent(ctx context.Context, pool *pgxpool.Pool, b *models.Budget) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(amount_index), 0)
		FROM transactions
		WHERE user_id = $1 AND transaction_type = 'EXPENSE' AND is_active
		  AND date >= $2 AND date <= $3
		  AND ($4::int IS NULL OR category_id = $4)
	`
	var spent decimal.Decimal
	err := pool.QueryRow(ctx, query, b.UserID, b.PeriodStart, b.PeriodEnd, b.CategoryID).Scan(&spent)
	if err != nil {
		return decimal.Zero, err
	}
	return spent, nil
}

func queryBudgets(ctx context.Context, pool *pgxpool.Pool, query string, args ...any) ([]models.Budget, error) {
	rows, err := pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var budgets []models.Budget
	for rows.Next() {
		b, err := scanBudget(rows)
		if err != nil {
			return nil, err
		}
		budgets = append(budgets, *b)
	}
	return budgets, rows.Err()
}
