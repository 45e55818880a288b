package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"fintrack-server/src/alerts"
	"fintrack-server/src/api"
	"fintrack-server/src/config"
	"fintrack-server/src/db"
	dbsql "fintrack-server/src/db/sql"
	"fintrack-server/src/mail"
	"fintrack-server/src/tasks"
)

func main() {
	cfg := config.Load()

	// Connect to database
	pool, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("DB connection failed: %v", err)
	}
	defer pool.Close()

	if err := db.Migrate(context.Background(), pool); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	db.InitCache()

	// Alerting
	notifier := alerts.NewNotifier(pool, mail.New(cfg))
	engine := alerts.NewEngine(pool, notifier)

	// Background jobs
	queue := tasks.NewQueue(4, cfg.RetryBackoffBase)
	defer queue.Shutdown()
	queue.Every(cfg.AlertSweepInterval, "budget-sweep", engine.CheckAllBudgets)
	queue.Every(cfg.AlertSweepInterval, "alert-resolution", engine.ResolveOutdated)
	queue.Every(24*time.Hour, "daily-summaries", notifier.SendDailySummaries)
	queue.Every(24*time.Hour, "audit-retention", func(ctx context.Context) error {
		if _, err := dbsql.ArchiveOldAuditLogs(ctx, pool, cfg.AuditArchiveDays); err != nil {
			return err
		}
		if _, err := dbsql.PurgeOldAuditLogs(ctx, pool, cfg.AuditRetentionDays); err != nil {
			return err
		}
		_, err := dbsql.PurgeOldPIIAccessLogs(ctx, pool, cfg.PIIRetentionDays)
		return err
	})

	// Router
	router := api.NewRouter(pool, cfg, queue, engine)

	log.Println("API server running on port", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, router); err != nil {
		log.Fatal(err)
	}
}
