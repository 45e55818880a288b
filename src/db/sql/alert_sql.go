package db

import (
	"context"
	"errors"
	"fmt"

	"fintrack-server/src/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const alertColumns = `
	id, budget_id, alert_type, message, triggered_at_percentage, is_resolved, resolved_at, created_at
`

func scanAlert(row interface{ Scan(dest ...any) error }) (*models.BudgetAlert, error) {
	var a models.BudgetAlert
	err := row.Scan(
		&a.ID, &a.BudgetID, &a.AlertType, &a.Message,
		&a.TriggeredAtPercentage, &a.IsResolved, &a.ResolvedAt, &a.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// CreateAlertIfAbsent inserts a new unresolved alert unless one of the same
// type already exists for the budget. The partial unique index makes this a
// no-op on conflict, so concurrent evaluations cannot double-fire; callers
// get (nil, nil) when the alert already existed.
func CreateAlertIfAbsent(ctx context.Context, pool *pgxpool.Pool, budgetID int, alertType, message string, triggeredAt decimal.Decimal) (*models.BudgetAlert, error) {
	query := `
		INSERT INTO budget_alerts (budget_id, alert_type, message, triggered_at_percentage)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (budget_id, alert_type) WHERE NOT is_resolved DO NOTHING
		RETURNING ` + alertColumns
	alert, err := scanAlert(pool.QueryRow(ctx, query, budgetID, alertType, message, triggeredAt))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // already active, nothing created
		}
		return nil, err
	}
	return alert, nil
}

// GetUnresolvedAlerts returns all unresolved alerts joined with their budget
// owner, for the resolution sweep.
func GetUnresolvedAlerts(ctx context.Context, pool *pgxpool.Pool) ([]models.BudgetAlert, error) {
	query := `
		SELECT ` + alertColumns + `
		FROM budget_alerts WHERE NOT is_resolved
		ORDER BY created_at DESC
	`
	return queryAlerts(ctx, pool, query)
}

func GetAlertsForUser(ctx context.Context, pool *pgxpool.Pool, userID int, resolved *bool) ([]models.BudgetAlert, error) {
	query := `
		SELECT a.id, a.budget_id, a.alert_type, a.message, a.triggered_at_percentage,
		       a.is_resolved, a.resolved_at, a.created_at
		FROM budget_alerts a
		JOIN budgets b ON b.id = a.budget_id
		WHERE b.user_id = $1
	`
	args := []any{userID}
	if resolved != nil {
		args = append(args, *resolved)
		query += fmt.Sprintf(" AND a.is_resolved = $%d", len(args))
	}
	query += " ORDER BY a.created_at DESC"
	return queryAlerts(ctx, pool, query, args...)
}

// GetRecentAlertsForUser returns unresolved alerts created within the last
// day, for the daily summary email.
func GetRecentAlertsForUser(ctx context.Context, pool *pgxpool.Pool, userID int) ([]models.BudgetAlert, error) {
	query := `
		SELECT ` + alertColumns + `
		FROM budget_alerts a
		WHERE NOT is_resolved AND created_at >= NOW() - INTERVAL '1 day'
		  AND budget_id IN (SELECT id FROM budgets WHERE user_id = $1)
		ORDER BY created_at DESC
	`
	return queryAlerts(ctx, pool, query, userID)
}

// GetUsersWithUnresolvedAlerts lists distinct owners of unresolved alerts.
func GetUsersWithUnresolvedAlerts(ctx context.Context, pool *pgxpool.Pool) ([]int, error) {
	query := `
		SELECT DISTINCT b.user_id
		FROM budget_alerts a JOIN budgets b ON b.id = a.budget_id
		WHERE NOT a.is_resolved
	`
	rows, err := pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var userIDs []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		userIDs = append(userIDs, id)
	}
	return userIDs, rows.Err()
}

func ResolveAlert(ctx context.Context, pool *pgxpool.Pool, alertID int) error {
	query := `
		UPDATE budget_alerts
		SET is_resolved = TRUE, resolved_at = NOW()
		WHERE id = $1 AND NOT is_resolved
	`
	cmd, err := pool.Exec(ctx, query, alertID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("alert not found or already resolved")
	}
	return nil
}

// ResolveAlertForUser is the user-facing variant; ownership is checked
// through the budget join.
func ResolveAlertForUser(ctx context.Context, pool *pgxpool.Pool, userID, alertID int) error {
	query := `
		UPDATE budget_alerts a
		SET is_resolved = TRUE, resolved_at = NOW()
		FROM budgets b
		WHERE a.id = $1 AND a.budget_id = b.id AND b.user_id = $2 AND NOT a.is_resolved
	`
	cmd, err := pool.Exec(ctx, query, alertID, userID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("alert not found or already resolved")
	}
	return nil
}

func queryAlerts(ctx context.Context, pool *pgxpool.Pool, query string, args ...any) ([]models.BudgetAlert, error) {
	rows, err := pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var alerts []models.BudgetAlert
	for rows.Next() {
		a, err := scanAlert(rows)
		if err != nil {
			return nil, err
		}
		alerts = append(alerts, *a)
	}
	return alerts, rows.Err()
}
