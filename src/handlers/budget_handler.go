package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"fintrack-server/src/alerts"
	db "fintrack-server/src/db/sql"
	"fintrack-server/src/models"
	"fintrack-server/src/util"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type budgetRequest struct {
	Name              string           `json:"name"`
	CategoryID        *int             `json:"category_id"`
	Amount            decimal.Decimal  `json:"amount"`
	PeriodStart       string           `json:"period_start"`
	PeriodEnd         string           `json:"period_end"`
	AlertEnabled      bool             `json:"alert_enabled"`
	WarningThreshold  *decimal.Decimal `json:"warning_threshold"`
	CriticalThreshold *decimal.Decimal `json:"critical_threshold"`
}

func (req *budgetRequest) validate() (start, end time.Time, msg string, ok bool) {
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" || len(req.Name) > 100 {
		return start, end, "name must be between 1 and 100 characters", false
	}
	if !util.ValidateAmount(req.Amount) {
		return start, end, "amount must be greater than zero", false
	}
	var err error
	if start, err = util.ParseDate(req.PeriodStart); err != nil {
		return start, end, "invalid period_start, use YYYY-MM-DD", false
	}
	if end, err = util.ParseDate(req.PeriodEnd); err != nil {
		return start, end, "invalid period_end, use YYYY-MM-DD", false
	}
	if !start.Before(end) {
		return start, end, "period_start must be before period_end", false
	}
	if !util.ValidateThresholds(req.WarningThreshold, req.CriticalThreshold) {
		return start, end, "thresholds must be non-negative with warning below critical", false
	}
	return start, end, "", true
}

func CreateBudget(pool *pgxpool.Pool, secret string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int)
		var req budgetRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Printf("ERROR: Failed to decode create budget request body for user %d: %v", userID, err)
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}
		start, end, msg, ok := req.validate()
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
			log.Printf("ERROR: Failed to encrypt budget amount for user %d: %v", userID, err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		budget := &models.Budget{
			UserID:            userID,
			CategoryID:        req.CategoryID,
			Name:              req.Name,
			Amount:            req.Amount,
			PeriodStart:       start,
			PeriodEnd:         end,
			AlertEnabled:      req.AlertEnabled,
			WarningThreshold:  req.WarningThreshold,
			CriticalThreshold: req.CriticalThreshold,
		}
		created, err := db.CreateBudget(r.Context(), pool, budget, amountEnc)
		if err != nil {
			if strings.Contains(err.Error(), "duplicate key") {
				http.Error(w, "an active budget already exists for this category and period", http.StatusConflict)
				return
			}
			log.Printf("ERROR: Failed to create budget for user %d: %v", userID, err)
			http.Error(w, "failed to create budget", http.StatusInternalServerError)
			return
		}
		log.Printf("INFO: Created budget id %d for user %d", created.ID, userID)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(created)
	}
}

// GetBudgetByID returns the budget with its derived spend/utilization status.
func GetBudgetByID(pool *pgxpool.Pool, engine *alerts.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int)
		budgetID, err := strconv.Atoi(chi.URLParam(r, "budget_id"))
		if err != nil {
			http.Error(w, "invalid budget id", http.StatusBadRequest)
			return
		}
		budget, err := db.GetBudgetByID(r.Context(), pool, userID, budgetID)
		if err != nil {
			log.Printf("ERROR: Budget id %d not found for user %d: %v", budgetID, userID, err)
			http.Error(w, "budget not found", http.StatusNotFound)
			return
		}
		status, err := engine.Status(r.Context(), budget)
		if err != nil {
			log.Printf("ERROR: Failed to compute status for budget %d: %v", budgetID, err)
			http.Error(w, "failed to get budget", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(status)
	}
}

func GetAllBudgetsForUser(pool *pgxpool.Pool, engine *alerts.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int)
		budgets, err := db.GetAllBudgetsForUser(r.Context(), pool, userID)
		if err != nil {
			log.Printf("ERROR: Failed to get budgets for user %d: %v", userID, err)
			http.Error(w, "failed to get budgets", http.StatusInternalServerError)
			return
		}
		writeBudgetStatuses(w, r, engine, budgets)
	}
}

// GetCurrentBudgets returns budgets whose period covers today.
func GetCurrentBudgets(pool *pgxpool.Pool, engine *alerts.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int)
		budgets, err := db.GetCurrentBudgets(r.Context(), pool, userID, time.Now().UTC())
		if err != nil {
			log.Printf("ERROR: Failed to get current budgets for user %d: %v", userID, err)
			http.Error(w, "failed to get budgets", http.StatusInternalServerError)
			return
		}
		writeBudgetStatuses(w, r, engine, budgets)
	}
}

func writeBudgetStatuses(w http.ResponseWriter, r *http.Request, engine *alerts.Engine, budgets []models.Budget) {
	statuses := make([]models.BudgetStatus, 0, len(budgets))
	for i := range budgets {
		status, err := engine.Status(r.Context(), &budgets[i])
		if err != nil {
			log.Printf("ERROR: Failed to compute status for budget %d: %v", budgets[i].ID, err)
			http.Error(w, "failed to get budgets", http.StatusInternalServerError)
			return
		}
		statuses = append(statuses, *status)
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(statuses)
}

func UpdateBudget(pool *pgxpool.Pool, secret string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int)
		budgetID, err := strconv.Atoi(chi.URLParam(r, "budget_id"))
		if err != nil {
			http.Error(w, "invalid budget id", http.StatusBadRequest)
			return
		}
		var req budgetRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Printf("ERROR: Failed to decode update budget request body for user %d: %v", userID, err)
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}
		start, end, msg, ok := req.validate()
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
			log.Printf("ERROR: Failed to encrypt budget amount for user %d: %v", userID, err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		budget := &models.Budget{
			ID:                budgetID,
			UserID:            userID,
			CategoryID:        req.CategoryID,
			Name:              req.Name,
			Amount:            req.Amount,
			PeriodStart:       start,
			PeriodEnd:         end,
			AlertEnabled:      req.AlertEnabled,
			WarningThreshold:  req.WarningThreshold,
			CriticalThreshold: req.CriticalThreshold,
		}
		updated, err := db.UpdateBudget(r.Context(), pool, budget, amountEnc)
		if err != nil {
			if strings.Contains(err.Error(), "duplicate key") {
				http.Error(w, "an active budget already exists for this category and period", http.StatusConflict)
				return
			}
			log.Printf("ERROR: Failed to update budget id %d for user %d: %v", budgetID, userID, err)
			http.Error(w, "budget not found", http.StatusNotFound)
			return
		}
		log.Printf("INFO: Updated budget id %d for user %d", updated.ID, userID)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(updated)
	}
}

func DeleteBudget(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int)
		budgetID, err := strconv.Atoi(chi.URLParam(r, "budget_id"))
		if err != nil {
			http.Error(w, "invalid budget id", http.StatusBadRequest)
			return
		}
		if err := db.DeleteBudget(r.Context(), pool, userID, budgetID); err != nil {
			log.Printf("ERROR: Failed to delete budget id %d for user %d: %v", budgetID, userID, err)
			http.Error(w, "budget not found", http.StatusNotFound)
			return
		}
		log.Printf("INFO: Deleted budget id %d for user %d", budgetID, userID)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"message": "budget deleted"})
	}
}
