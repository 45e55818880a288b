package alerts

import (
	"context"
	"fmt"
	"log"
	"strings"

	db "fintrack-server/src/db/sql"
	"fintrack-server/src/mail"
	"fintrack-server/src/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Notifier sends alert emails to budget owners.
type Notifier struct {
	pool   *pgxpool.Pool
	sender mail.Sender
}

func NewNotifier(pool *pgxpool.Pool, sender mail.Sender) *Notifier {
	return &Notifier{pool: pool, sender: sender}
}

// SendAlertEmail notifies the budget owner about a newly created alert.
func (n *Notifier) SendAlertEmail(ctx context.Context, b *models.Budget, alert *models.BudgetAlert) error {
	user, err := db.GetUserByID(ctx, n.pool, b.UserID)
	if err != nil {
		return fmt.Errorf("lookup user %d: %w", b.UserID, err)
	}

	subject := fmt.Sprintf("Budget alert: %s", b.Name)
	if alert.AlertType == models.AlertCritical {
		subject = fmt.Sprintf("Critical budget alert: %s", b.Name)
	}
	return n.sender.Send(user.Email, subject, AlertEmailBody(user.FirstName, alert))
}

// SendDailySummaries emails each user with unresolved alerts created in the
// last day a single digest.
func (n *Notifier) SendDailySummaries(ctx context.Context) error {
	userIDs, err := db.GetUsersWithUnresolvedAlerts(ctx, n.pool)
	if err != nil {
		return err
	}
	for _, userID := range userIDs {
		alerts, err := db.GetRecentAlertsForUser(ctx, n.pool, userID)
		if err != nil {
			log.Printf("ERROR: Failed to load recent alerts for user %d: %v", userID, err)
			continue
		}
		if len(alerts) == 0 {
			continue
		}
		user, err := db.GetUserByID(ctx, n.pool, userID)
		if err != nil {
			log.Printf("ERROR: Failed to load user %d for summary: %v", userID, err)
			continue
		}
		subject := fmt.Sprintf("Daily budget summary: %d active alerts", len(alerts))
		if err := n.sender.Send(user.Email, subject, SummaryEmailBody(user.FirstName, alerts)); err != nil {
			log.Printf("ERROR: Failed to send summary to user %d: %v", userID, err)
		}
	}
	return nil
}

func AlertEmailBody(firstName string, alert *models.BudgetAlert) string {
	greeting := "Hi"
	if firstName != "" {
		greeting = "Hi " + firstName
	}
	return fmt.Sprintf("%s,\n\n%s\n\nCurrent utilization: %s%%\n\nReview your spending to stay on track.\n",
		greeting, alert.Message, alert.TriggeredAtPercentage.StringFixed(2))
}

func SummaryEmailBody(firstName string, alerts []models.BudgetAlert) string {
	greeting := "Hi"
	if firstName != "" {
		greeting = "Hi " + firstName
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s,\n\nYou have %d budget alerts from the last day:\n\n", greeting, len(alerts))
	for _, a := range alerts {
		fmt.Fprintf(&sb, "- [%s] %s\n", a.AlertType, a.Message)
	}
	sb.WriteString("\nReview your spending to stay on track.\n")
	return sb.String()
}
