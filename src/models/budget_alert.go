package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	AlertWarning  = "WARNING"
	AlertCritical = "CRITICAL"
)

type BudgetAlert struct {
	ID                    int             `json:"id"`
	BudgetID              int             `json:"budget_id"`
	AlertType             string          `json:"alert_type"`
	Message               string          `json:"message"`
	TriggeredAtPercentage decimal.Decimal `json:"triggered_at_percentage"`
	IsResolved            bool            `json:"is_resolved"`
	ResolvedAt            *time.Time      `json:"resolved_at"`
	CreatedAt             time.Time       `json:"created_at"`
}
