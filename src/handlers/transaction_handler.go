package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"fintrack-server/src/alerts"
	dbcache "fintrack-server/src/db"
	db "fintrack-server/src/db/sql"
	"fintrack-server/src/models"
	"fintrack-server/src/tasks"
	"fintrack-server/src/util"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type transactionRequest struct {
	Type       string          `json:"transaction_type"`
	Amount     decimal.Decimal `json:"amount"`
	CategoryID *int            `json:"category_id"`
	Date       string          `json:"date"`
	Merchant   *string         `json:"merchant"`
	Notes      *string         `json:"notes"`
}

func (req *transactionRequest) validate(today time.Time) (time.Time, string, bool) {
	if !util.ValidateTransactionType(req.Type) {
		return time.Time{}, "transaction_type must be EXPENSE or INCOME", false
	}
	if !util.ValidateAmount(req.Amount) {
		return time.Time{}, "amount must be greater than zero", false
	}
	if req.Type == models.TransactionExpense && req.CategoryID == nil {
		return time.Time{}, "expenses require a category", false
	}
	date, err := util.ParseDate(req.Date)
	if err != nil {
		return time.Time{}, "invalid date format, use YYYY-MM-DD", false
	}
	if date.After(today) {
		return time.Time{}, "date must not be in the future", false
	}
	return date, "", true
}

// afterTransactionWrite drops the user's cached dashboards and schedules a
// budget re-check off the request path.
func afterTransactionWrite(userID int, txn *models.Transaction, queue *tasks.Queue, engine *alerts.Engine) {
	dbcache.InvalidateDashboardCache(userID)
	if queue == nil || engine == nil {
		return
	}
	t := *txn
	queue.Enqueue("budget-check", func(ctx context.Context) error {
		return engine.CheckBudgetsForTransaction(ctx, userID, &t)
	})
}

func CreateTransaction(pool *pgxpool.Pool, secret string, queue *tasks.Queue, engine *alerts.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int)
		var req transactionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Printf("ERROR: Failed to decode create transaction request body for user %d: %v", userID, err)
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}
		date, msg, ok := req.validate(time.Now().UTC())
		if !ok {
			http.Error(w, msg, http.StatusBadRequest)
			return
		}
		if req.CategoryID != nil {
			if _, err := db.GetCategoryByID(r.Context(), pool, userID, *req.CategoryID); err != nil {
				http.Error(w, "category not found", http.StatusBadRequest)
				return
			}
		}

		amountEnc, err := util.EncryptField(secret, req.Amount.String())
		if err != nil {
			log.Printf("ERROR: Failed to encrypt amount for user %d: %v", userID, err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		txn := &models.Transaction{
			UserID:     userID,
			Type:       req.Type,
			Amount:     req.Amount,
			CategoryID: req.CategoryID,
			Date:       date,
			Merchant:   req.Merchant,
			Notes:      req.Notes,
		}
		created, err := db.CreateTransaction(r.Context(), pool, txn, amountEnc)
		if err != nil {
			log.Printf("ERROR: Failed to create transaction for user %d: %v", userID, err)
			http.Error(w, "failed to create transaction", http.StatusInternalServerError)
			return
		}

		log.Printf("INFO: Created transaction id %d for user %d", created.ID, userID)
		afterTransactionWrite(userID, created, queue, engine)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(created)
	}
}

func GetTransactionByID(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int)
		transactionID, err := strconv.Atoi(chi.URLParam(r, "transaction_id"))
		if err != nil {
			http.Error(w, "invalid transaction id", http.StatusBadRequest)
			return
		}
		txn, err := db.GetTransactionByID(r.Context(), pool, userID, transactionID)
		if err != nil {
			log.Printf("ERROR: Transaction id %d not found for user %d: %v", transactionID, userID, err)
			http.Error(w, "transaction not found", http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(txn)
	}
}

func GetTransactions(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int)
		filter, err := parseTransactionFilter(r.URL.Query())
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		transactions, err := db.GetTransactionsForUser(r.Context(), pool, userID, filter)
		if err != nil {
			log.Printf("ERROR: Failed to get transactions for user %d: %v", userID, err)
			http.Error(w, "failed to get transactions", http.StatusInternalServerError)
			return
		}
		if transactions == nil {
			transactions = []models.Transaction{}
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(transactions)
	}
}

func UpdateTransaction(pool *pgxpool.Pool, secret string, queue *tasks.Queue, engine *alerts.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int)
		transactionID, err := strconv.Atoi(chi.URLParam(r, "transaction_id"))
		if err != nil {
			http.Error(w, "invalid transaction id", http.StatusBadRequest)
			return
		}
		var req transactionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Printf("ERROR: Failed to decode update transaction request body for user %d: %v", userID, err)
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}
		date, msg, ok := req.validate(time.Now().UTC())
		if !ok {
			http.Error(w, msg, http.StatusBadRequest)
			return
		}
		if req.CategoryID != nil {
			if _, err := db.GetCategoryByID(r.Context(), pool, userID, *req.CategoryID); err != nil {
				http.Error(w, "category not found", http.StatusBadRequest)
				return
			}
		}

		amountEnc, err := util.EncryptField(secret, req.Amount.String())
		if err != nil {
			log.Printf("ERROR: Failed to encrypt amount for user %d: %v", userID, err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		txn := &models.Transaction{
			ID:         transactionID,
			UserID:     userID,
			Type:       req.Type,
			Amount:     req.Amount,
			CategoryID: req.CategoryID,
			Date:       date,
			Merchant:   req.Merchant,
			Notes:      req.Notes,
		}
		updated, err := db.UpdateTransaction(r.Context(), pool, txn, amountEnc)
		if err != nil {
			log.Printf("ERROR: Failed to update transaction id %d for user %d: %v", transactionID, userID, err)
			http.Error(w, "transaction not found", http.StatusNotFound)
			return
		}

		log.Printf("INFO: Updated transaction id %d for user %d", updated.ID, userID)
		afterTransactionWrite(userID, updated, queue, engine)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(updated)
	}
}

func DeleteTransaction(pool *pgxpool.Pool, queue *tasks.Queue, engine *alerts.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int)
		transactionID, err := strconv.Atoi(chi.URLParam(r, "transaction_id"))
		if err != nil {
			http.Error(w, "invalid transaction id", http.StatusBadRequest)
			return
		}
		txn, err := db.GetTransactionByID(r.Context(), pool, userID, transactionID)
		if err != nil {
			http.Error(w, "transaction not found", http.StatusNotFound)
			return
		}
		if err := db.DeleteTransaction(r.Context(), pool, userID, transactionID); err != nil {
			log.Printf("ERROR: Failed to delete transaction id %d for user %d: %v", transactionID, userID, err)
			http.Error(w, "failed to delete transaction", http.StatusInternalServerError)
			return
		}

		log.Printf("INFO: Deleted transaction id %d for user %d", transactionID, userID)
		afterTransactionWrite(userID, txn, queue, engine)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"message": "transaction deleted"})
	}
}

// GetTransactionStatistics returns income/expense totals, net, counts and the
// category breakdown over an optional date range (default last 30 days).
func GetTransactionStatistics(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int)
		start, end, err := util.DateRangeStrict(r.URL.Query(), time.Now().UTC())
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		filter := models.TransactionFilter{DateAfter: &start, DateBefore: &end}
		income, expenses, incomeCount, expenseCount, err := db.TransactionTotals(r.Context(), pool, userID, filter)
		if err != nil {
			log.Printf("ERROR: Failed to get transaction statistics for user %d: %v", userID, err)
			http.Error(w, "failed to get statistics", http.StatusInternalServerError)
			return
		}
		breakdown, err := db.CategoryBreakdown(r.Context(), pool, userID, start, end)
		if err != nil {
			log.Printf("ERROR: Failed to get category breakdown for user %d: %v", userID, err)
			http.Error(w, "failed to get statistics", http.StatusInternalServerError)
			return
		}
		if breakdown == nil {
			breakdown = []models.CategoryAmount{}
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"start_date":         start.Format("2006-01-02"),
			"end_date":           end.Format("2006-01-02"),
			"total_income":       income,
			"total_expenses":     expenses,
			"net":                income.Sub(expenses),
			"income_count":       incomeCount,
			"expense_count":      expenseCount,
			"category_breakdown": breakdown,
		})
	}
}

func parseTransactionFilter(q url.Values) (models.TransactionFilter, error) {
	var f models.TransactionFilter

	if t := q.Get("type"); t != "" {
		if !util.ValidateTransactionType(t) {
			return f, fmt.Errorf("type must be EXPENSE or INCOME")
		}
		f.Type = t
	}
	if c := q.Get("category"); c != "" {
		id, err := strconv.Atoi(c)
		if err != nil {
			return f, fmt.Errorf("category must be an integer id")
		}
		f.CategoryID = &id
	}
	if s := q.Get("date_after"); s != "" {
		t, err := util.ParseDate(s)
		if err != nil {
			return f, fmt.Errorf("invalid date_after, use YYYY-MM-DD")
		}
		f.DateAfter = &t
	}
	if s := q.Get("date_before"); s != "" {
		t, err := util.ParseDate(s)
		if err != nil {
			return f, fmt.Errorf("invalid date_before, use YYYY-MM-DD")
		}
		f.DateBefore = &t
	}
	if s := q.Get("amount_min"); s != "" {
		d, err := decimal.NewFromString(s)
		if err != nil {
			return f, fmt.Errorf("invalid amount_min")
		}
		f.AmountMin = &d
	}
	if s := q.Get("amount_max"); s != "" {
		d, err := decimal.NewFromString(s)
		if err != nil {
			return f, fmt.Errorf("invalid amount_max")
		}
		f.AmountMax = &d
	}
	return f, nil
}
