package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	db "fintrack-server/src/db/sql"
	"fintrack-server/src/models"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// GetAlerts lists the user's budget alerts, optionally filtered by
// ?resolved=true|false.
func GetAlerts(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int)

		var resolved *bool
		if v := r.URL.Query().Get("resolved"); v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				http.Error(w, "resolved must be true or false", http.StatusBadRequest)
				return
			}
			resolved = &b
		}

		alerts, err := db.GetAlertsForUser(r.Context(), pool, userID, resolved)
		if err != nil {
			log.Printf("ERROR: Failed to get alerts for user %d: %v", userID, err)
			http.Error(w, "failed to get alerts", http.StatusInternalServerError)
			return
		}
		if alerts == nil {
			alerts = []models.BudgetAlert{}
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(alerts)
	}
}

// ResolveAlert marks one of the user's alerts resolved.
func ResolveAlert(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int)
		alertID, err := strconv.Atoi(chi.URLParam(r, "alert_id"))
		if err != nil {
			http.Error(w, "invalid alert id", http.StatusBadRequest)
			return
		}

		if err := db.ResolveAlertForUser(r.Context(), pool, userID, alertID); err != nil {
			log.Printf("ERROR: Failed to resolve alert id %d for user %d: %v", alertID, userID, err)
			http.Error(w, "alert not found or already resolved", http.StatusNotFound)
			return
		}

		log.Printf("INFO: Resolved alert id %d for user %d", alertID, userID)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"message": "alert resolved"})
	}
}
