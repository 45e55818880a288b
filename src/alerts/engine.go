// Package alerts evaluates budget utilization and fires threshold alerts.
package alerts

import (
	"context"
	"fmt"
	"log"

	db "fintrack-server/src/db/sql"
	"fintrack-server/src/models"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type Engine struct {
	pool     *pgxpool.Pool
	notifier *Notifier
}

// NewEngine wires the evaluator; notifier may be nil to disable email.
func NewEngine(pool *pgxpool.Pool, notifier *Notifier) *Engine {
	return &Engine{pool: pool, notifier: notifier}
}

// Utilization is spent as a percentage of the budget amount, two decimal
// places. A zero-amount budget is reported as 0% rather than dividing.
func Utilization(amount, spent decimal.Decimal) decimal.Decimal {
	if amount.IsZero() {
		return decimal.Zero
	}
	return spent.Div(amount).Mul(decimal.NewFromInt(100)).Round(2)
}

// Crossing pairs an alert type with the configured threshold it crossed.
type Crossing struct {
	AlertType string
	Threshold decimal.Decimal
}

// CrossedThresholds lists every alert type a utilization level warrants.
// Warning and critical track independently, so a jump past both thresholds
// yields both alerts.
func CrossedThresholds(b *models.Budget, utilization decimal.Decimal) []Crossing {
	if !b.AlertEnabled {
		return nil
	}
	var crossings []Crossing
	if b.WarningThreshold != nil && utilization.GreaterThanOrEqual(*b.WarningThreshold) {
		crossings = append(crossings, Crossing{AlertType: models.AlertWarning, Threshold: *b.WarningThreshold})
	}
	if b.CriticalThreshold != nil && utilization.GreaterThanOrEqual(*b.CriticalThreshold) {
		crossings = append(crossings, Crossing{AlertType: models.AlertCritical, Threshold: *b.CriticalThreshold})
	}
	return crossings
}

// AlertMessage names the configured threshold that was crossed; the live
// utilization is stored separately on the alert row.
func AlertMessage(b *models.Budget, alertType string, threshold, utilization decimal.Decimal) string {
	label := "warning"
	if alertType == models.AlertCritical {
		label = "critical"
	}
	return fmt.Sprintf("Budget '%s' has reached %s%% of its limit, crossing the %s threshold of %s%%",
		b.Name, utilization.StringFixed(2), label, threshold.String())
}

// Status derives the spent/remaining/utilization view of one budget.
func (e *Engine) Status(ctx context.Context, b *models.Budget) (*models.BudgetStatus, error) {
	spent, err := db.BudgetSpent(ctx, e.pool, b)
	if err != nil {
		return nil, err
	}
	return &models.BudgetStatus{
		Budget:      *b,
		Spent:       spent,
		Remaining:   b.Amount.Sub(spent),
		Utilization: Utilization(b.Amount, spent),
	}, nil
}

// EvaluateBudget checks one budget and creates an alert for each threshold
// utilization has crossed. The insert is a no-op if an unresolved alert of
// the same type already exists, so repeat evaluations never duplicate.
func (e *Engine) EvaluateBudget(ctx context.Context, b *models.Budget) error {
	spent, err := db.BudgetSpent(ctx, e.pool, b)
	if err != nil {
		return fmt.Errorf("budget %d spent: %w", b.ID, err)
	}
	utilization := Utilization(b.Amount, spent)

	for _, c := range CrossedThresholds(b, utilization) {
		message := AlertMessage(b, c.AlertType, c.Threshold, utilization)
		alert, err := db.CreateAlertIfAbsent(ctx, e.pool, b.ID, c.AlertType, message, utilization)
		if err != nil {
			return fmt.Errorf("create %s alert for budget %d: %w", c.AlertType, b.ID, err)
		}
		if alert == nil {
			continue // already active
		}

		log.Printf("INFO: Created %s alert for budget %d at %s%%", c.AlertType, b.ID, utilization.StringFixed(2))
		if e.notifier != nil {
			if err := e.notifier.SendAlertEmail(ctx, b, alert); err != nil {
				log.Printf("ERROR: Failed to send alert email for budget %d: %v", b.ID, err)
			}
		}
	}
	return nil
}

// CheckBudgetsForTransaction re-evaluates the budgets a new or changed
// transaction can affect.
func (e *Engine) CheckBudgetsForTransaction(ctx context.Context, userID int, txn *models.Transaction) error {
	if txn.Type != models.TransactionExpense {
		return nil
	}
	budgets, err := db.GetBudgetsAffectedByTransaction(ctx, e.pool, userID, txn.Date, txn.CategoryID)
	if err != nil {
		return err
	}
	for i := range budgets {
		if err := e.EvaluateBudget(ctx, &budgets[i]); err != nil {
			log.Printf("ERROR: %v", err)
		}
	}
	return nil
}

// CheckAllBudgets is the periodic sweep over every alert-enabled budget.
func (e *Engine) CheckAllBudgets(ctx context.Context) error {
	budgets, err := db.GetAlertEnabledBudgets(ctx, e.pool)
	if err != nil {
		return err
	}
	for i := range budgets {
		if err := e.EvaluateBudget(ctx, &budgets[i]); err != nil {
			log.Printf("ERROR: %v", err)
		}
	}
	log.Printf("INFO: Budget sweep evaluated %d budgets", len(budgets))
	return nil
}

// ResolveOutdated closes unresolved alerts whose condition no longer holds,
// whether spending dropped back under the threshold or the budget was
// deactivated.
func (e *Engine) ResolveOutdated(ctx context.Context) error {
	alerts, err := db.GetUnresolvedAlerts(ctx, e.pool)
	if err != nil {
		return err
	}
	resolved := 0
	for _, a := range alerts {
		b, err := db.GetBudget(ctx, e.pool, a.BudgetID)
		if err != nil {
			log.Printf("ERROR: Failed to load budget %d for alert %d: %v", a.BudgetID, a.ID, err)
			continue
		}
		stale, err := e.alertIsStale(ctx, b, a.AlertType)
		if err != nil {
			log.Printf("ERROR: Failed to evaluate alert %d: %v", a.ID, err)
			continue
		}
		if !stale {
			continue
		}
		if err := db.ResolveAlert(ctx, e.pool, a.ID); err != nil {
			log.Printf("ERROR: Failed to resolve alert %d: %v", a.ID, err)
			continue
		}
		resolved++
	}
	if resolved > 0 {
		log.Printf("INFO: Resolved %d outdated alerts", resolved)
	}
	return nil
}

func (e *Engine) alertIsStale(ctx context.Context, b *models.Budget, alertType string) (bool, error) {
	if !b.IsActive || !b.AlertEnabled {
		return true, nil
	}
	threshold := b.WarningThreshold
	if alertType == models.AlertCritical {
		threshold = b.CriticalThreshold
	}
	if threshold == nil {
		return true, nil
	}
	spent, err := db.BudgetSpent(ctx, e.pool, b)
	if err != nil {
		return false, err
	}
	return Utilization(b.Amount, spent).LessThan(*threshold), nil
}
