package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TrendPoint is one bucket in a spending trend series.
type TrendPoint struct {
	Date   time.Time       `json:"-"`
	Amount decimal.Decimal `json:"amount"`
}

// CategoryAmount is a per-category spending total.
type CategoryAmount struct {
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
}

// SpendingComparison compares two periods of spending.
type SpendingComparison struct {
	CurrentPeriod    decimal.Decimal `json:"current_period"`
	ComparisonPeriod decimal.Decimal `json:"comparison_period"`
	ChangeAmount     decimal.Decimal `json:"change_amount"`
	ChangePercentage decimal.Decimal `json:"change_percentage"`
}

// MonthTotals are the income/expense aggregates for one calendar month.
type MonthTotals struct {
	TotalIncome   decimal.Decimal `json:"total_income"`
	TotalExpenses decimal.Decimal `json:"total_expenses"`
	NetSavings    decimal.Decimal `json:"net_savings"`
	SavingsRate   decimal.Decimal `json:"savings_rate"`
}
