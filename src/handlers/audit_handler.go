package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	db "fintrack-server/src/db/sql"
	"fintrack-server/src/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

const auditLogDefaultLimit = 100

func auditLimit(r *http.Request) int {
	limit := auditLogDefaultLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 1000 {
			limit = n
		}
	}
	return limit
}

// GetAuditLogs lists recent audit entries, newest first. Super-admin only,
// enforced by the route middleware.
func GetAuditLogs(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logs, err := db.GetAuditLogs(r.Context(), pool, auditLimit(r))
		if err != nil {
			log.Printf("ERROR: Failed to get audit logs: %v", err)
			http.Error(w, "failed to get audit logs", http.StatusInternalServerError)
			return
		}
		if logs == nil {
			logs = []models.AuditLog{}
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(logs)
	}
}

func GetPIIAccessLogs(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logs, err := db.GetPIIAccessLogs(r.Context(), pool, auditLimit(r))
		if err != nil {
			log.Printf("ERROR: Failed to get PII access logs: %v", err)
			http.Error(w, "failed to get PII access logs", http.StatusInternalServerError)
			return
		}
		if logs == nil {
			logs = []models.PIIAccessLog{}
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(logs)
	}
}

// ArchiveAuditLogs flags entries older than the archive window.
func ArchiveAuditLogs(pool *pgxpool.Pool, archiveDays int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		archived, err := db.ArchiveOldAuditLogs(r.Context(), pool, archiveDays)
		if err != nil {
			log.Printf("ERROR: Failed to archive audit logs: %v", err)
			http.Error(w, "failed to archive audit logs", http.StatusInternalServerError)
			return
		}
		log.Printf("INFO: Archived %d audit log entries older than %d days", archived, archiveDays)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"archived": archived})
	}
}

// PurgeAuditLogs deletes entries past the retention windows, both audit and
// PII access logs.
func PurgeAuditLogs(pool *pgxpool.Pool, auditDays, piiDays int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		purgedAudit, err := db.PurgeOldAuditLogs(r.Context(), pool, auditDays)
		if err != nil {
			log.Printf("ERROR: Failed to purge audit logs: %v", err)
			http.Error(w, "failed to purge audit logs", http.StatusInternalServerError)
			return
		}
		purgedPII, err := db.PurgeOldPIIAccessLogs(r.Context(), pool, piiDays)
		if err != nil {
			log.Printf("ERROR: Failed to purge PII access logs: %v", err)
			http.Error(w, "failed to purge PII access logs", http.StatusInternalServerError)
			return
		}
		log.Printf("INFO: Purged %d audit and %d PII log entries", purgedAudit, purgedPII)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"purged_audit_logs": purgedAudit,
			"purged_pii_logs":   purgedPII,
		})
	}
}
