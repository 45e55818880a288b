package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Budget struct {
	ID                int              `json:"id"`
	UserID            int              `json:"user_id"`
	CategoryID        *int             `json:"category_id"`
	Name              string           `json:"name"`
	Amount            decimal.Decimal  `json:"amount"`
	PeriodStart       time.Time        `json:"period_start"`
	PeriodEnd         time.Time        `json:"period_end"`
	AlertEnabled      bool             `json:"alert_enabled"`
	WarningThreshold  *decimal.Decimal `json:"warning_threshold"`
	CriticalThreshold *decimal.Decimal `json:"critical_threshold"`
	IsActive          bool             `json:"is_active"`
	CreatedAt         time.Time        `json:"created_at"`
	UpdatedAt         time.Time        `json:"updated_at"`
}

// BudgetStatus is the budget plus its derived utilization figures.
type BudgetStatus struct {
	Budget
	Spent       decimal.Decimal `json:"spent"`
	Remaining   decimal.Decimal `json:"remaining"`
	Utilization decimal.Decimal `json:"utilization_percentage"`
}
