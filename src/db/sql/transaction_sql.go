package db

import (
	"context"
	"fmt"

	"fintrack-server/src/models"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const transactionColumns = `
	t.id, t.user_id, t.transaction_type, t.amount_index, t.category_id, c.name,
	t.date, t.merchant, t.notes, t.is_active, t.created_at, t.updated_at
`

func scanTransaction(row interface{ Scan(dest ...any) error }) (*models.Transaction, error) {
	var t models.Transaction
	err := row.Scan(
		&t.ID, &t.UserID, &t.Type, &t.Amount, &t.CategoryID, &t.CategoryName,
		&t.Date, &t.Merchant, &t.Notes, &t.IsActive, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// CreateTransaction stores the encrypted amount alongside its plaintext
// index mirror. amountEnc is produced by the handler so the key never
// reaches this layer.
func CreateTransaction(ctx context.Context, pool *pgxpool.Pool, t *models.Transaction, amountEnc string) (*models.Transaction, error) {
	query := `
		WITH inserted AS (
			INSERT INTO transactions (user_id, transaction_type, amount_enc, amount_index, category_id, date, merchant, notes)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			RETURNING *
		)
		SELECT ` + transactionColumns + `
		FROM inserted t LEFT JOIN categories c ON c.id = t.category_id
	`
	return scanTransaction(pool.QueryRow(ctx, query,
		t.UserID, t.Type, amountEnc, t.Amount, t.CategoryID, t.Date, t.Merchant, t.Notes))
}

func GetTransactionByID(ctx context.Context, pool *pgxpool.Pool, userID, transactionID int) (*models.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions t LEFT JOIN categories c ON c.id = t.category_id
		WHERE t.id = $1 AND t.user_id = $2 AND t.is_active
	`
	return scanTransaction(pool.QueryRow(ctx, query, transactionID, userID))
}

// GetTransactionsForUser lists active transactions newest-first, narrowed by
// the optional filter fields.
func GetTransactionsForUser(ctx context.Context, pool *pgxpool.Pool, userID int, f models.TransactionFilter) ([]models.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions t LEFT JOIN categories c ON c.id = t.category_id
		WHERE t.user_id = $1 AND t.is_active
	`
	args := []any{userID}

	add := func(clause string, v any) {
		args = append(args, v)
		query += fmt.Sprintf(" AND %s $%d", clause, len(args))
	}

	if f.Type != "" {
		add("t.transaction_type =", f.Type)
	}
	if f.CategoryID != nil {
		add("t.category_id =", *f.CategoryID)
	}
	if f.DateAfter != nil {
		add("t.date >=", *f.DateAfter)
	}
	if f.DateBefore != nil {
		add("t.date <=", *f.DateBefore)
	}
	if f.AmountMin != nil {
		add("t.amount_index >=", *f.AmountMin)
	}
	if f.AmountMax != nil {
		add("t.amount_index <=", *f.AmountMax)
	}
	query += " ORDER BY t.date DESC, t.created_at DESC"

	rows, err := pool.Query(ctx, query, args...)
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

func GetRecentTransactions(ctx context.Context, pool *pgxpool.Pool, userID, limit int) ([]models.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions t LEFT JOIN categories c ON c.id = t.category_id
		WHERE t.user_id = $1 AND t.is_active
		ORDER BY t.date DESC, t.created_at DESC
		LIMIT $2
	`
	rows, err := pool.Query(ctx, query, userID, limit)
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

func UpdateTransaction(ctx context.Context, pool *pgxpool.Pool, t *models.Transaction, amountEnc string) (*models.Transaction, error) {
	query := `
		WITH updated AS (
			UPDATE transactions
			SET transaction_type = $1, amount_enc = $2, amount_index = $3, category_id = $4,
			    date = $5, merchant = $6, notes = $7, updated_at = NOW()
			WHERE id = $8 AND user_id = $9 AND is_active
			RETURNING *
		)
		SELECT ` + transactionColumns + `
		FROM updated t LEFT JOIN categories c ON c.id = t.category_id
	`
	return scanTransaction(pool.QueryRow(ctx, query,
		t.Type, amountEnc, t.Amount, t.CategoryID, t.Date, t.Merchant, t.Notes, t.ID, t.UserID))
}

// DeleteTransaction is a soft delete; the row stays for audit purposes but
// drops out of every aggregation.
func DeleteTransaction(ctx context.Context, pool *pgxpool.Pool, userID, transactionID int) error {
	query := `UPDATE transactions SET is_active = FALSE, updated_at = NOW() WHERE id = $1 AND user_id = $2 AND is_active`
	cmd, err := pool.Exec(ctx, query, transactionID, userID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("transaction not found")
	}
	return nil
}

// TransactionTotals sums income and expenses over an optional date range for
// the statistics endpoint.
func TransactionTotals(ctx context.Context, pool *pgxpool.Pool, userID int, f models.TransactionFilter) (income, expenses decimal.Decimal, incomeCount, expenseCount int, err error) {
	query := `
		SELECT
			COALESCE(SUM(amount_index) FILTER (WHERE transaction_type = 'INCOME'), 0),
			COALESCE(SUM(amount_index) FILTER (WHERE transaction_type = 'EXPENSE'), 0),
			COUNT(*) FILTER (WHERE transaction_type = 'INCOME'),
			COUNT(*) FILTER (WHERE transaction_type = 'EXPENSE')
		FROM transactions
		WHERE user_id = $1 AND is_active
	`
	args := []any{userID}
	if f.DateAfter != nil {
		args = append(args, *f.DateAfter)
		query += fmt.Sprintf(" AND date >= $%d", len(args))
	}
	if f.DateBefore != nil {
		args = append(args, *f.DateBefore)
		query += fmt.Sprintf(" AND date <= $%d", len(args))
	}

	err = pool.QueryRow(ctx, query, args...).Scan(&income, &expenses, &incomeCount, &expenseCount)
	return
}
