package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	TransactionExpense = "EXPENSE"
	TransactionIncome  = "INCOME"
)

// Transaction carries the plaintext amount mirror (amount_index) used for
// aggregation. The encrypted copy never leaves the db/sql layer.
type Transaction struct {
	ID           int             `json:"id"`
	UserID       int             `json:"user_id"`
	Type         string          `json:"transaction_type"`
	Amount       decimal.Decimal `json:"amount"`
	CategoryID   *int            `json:"category_id"`
	CategoryName *string         `json:"category_name"`
	Date         time.Time       `json:"date"`
	Merchant     *string         `json:"merchant"`
	Notes        *string         `json:"notes"`
	IsActive     bool            `json:"is_active"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// TransactionFilter mirrors the list endpoint's query parameters.
type TransactionFilter struct {
	Type       string
	CategoryID *int
	DateAfter  *time.Time
	DateBefore *time.Time
	AmountMin  *decimal.Decimal
	AmountMax  *decimal.Decimal
}
