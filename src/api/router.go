package api

import (
	"net/http"

	"fintrack-server/src/alerts"
	"fintrack-server/src/config"
	"fintrack-server/src/handlers"
	"fintrack-server/src/middleware"
	"fintrack-server/src/tasks"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRouter(pool *pgxpool.Pool, cfg config.Config, queue *tasks.Queue, engine *alerts.Engine) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.CORSMiddleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.AuditMiddleware(pool))

		r.Post("/login", handlers.Login(pool))
		r.Post("/register", handlers.Register(pool))

		// Protected routes
		r.With(middleware.JWTAuthMiddleware).Group(func(r chi.Router) {
			// User
			r.Get("/user/{user_id}", handlers.GetUser(pool))
			r.Post("/user/change-password", handlers.ChangePassword(pool))
			r.Delete("/user", handlers.DeleteUser(pool))

			// Categories
			r.Post("/categories", handlers.CreateCategory(pool))
			r.Get("/categories", handlers.GetAllCategoriesForUser(pool))
			r.Get("/categories/{category_id}", handlers.GetCategoryByID(pool))
			r.Put("/categories/{category_id}", handlers.UpdateCategory(pool))
			r.Delete("/categories/{category_id}", handlers.DeleteCategory(pool))

			// Transactions
			r.Post("/transactions", handlers.CreateTransaction(pool, cfg.EncryptionKey, queue, engine))
			r.Get("/transactions", handlers.GetTransactions(pool))
			r.Get("/transactions/statistics", handlers.GetTransactionStatistics(pool))
			r.Get("/transactions/{transaction_id}", handlers.GetTransactionByID(pool))
			r.Put("/transactions/{transaction_id}", handlers.UpdateTransaction(pool, cfg.EncryptionKey, queue, engine))
			r.Delete("/transactions/{transaction_id}", handlers.DeleteTransaction(pool, queue, engine))

			// Budgets
			r.Post("/budgets", handlers.CreateBudget(pool, cfg.EncryptionKey))
			r.Get("/budgets", handlers.GetAllBudgetsForUser(pool, engine))
			r.Get("/budgets/current", handlers.GetCurrentBudgets(pool, engine))
			r.Get("/budgets/{budget_id}", handlers.GetBudgetByID(pool, engine))
			r.Put("/budgets/{budget_id}", handlers.UpdateBudget(pool, cfg.EncryptionKey))
			r.Delete("/budgets/{budget_id}", handlers.DeleteBudget(pool))

			// Alerts
			r.Get("/alerts", handlers.GetAlerts(pool))
			r.Post("/alerts/{alert_id}/resolve", handlers.ResolveAlert(pool))

			// Analytics
			r.Get("/analytics/summary", handlers.GetAnalyticsSummary(pool))
			r.Get("/analytics/trends", handlers.GetSpendingTrends(pool))
			r.Get("/analytics/categories", handlers.GetCategorySpending(pool))
			r.Get("/analytics/comparison", handlers.GetSpendingComparison(pool))
			r.Get("/analytics/top-categories", handlers.GetTopCategories(pool))
			r.Get("/analytics/day-of-week", handlers.GetDayOfWeekSpending(pool))
			r.Get("/analytics/dashboard", handlers.GetDashboard(pool))

			// Reports
			r.Get("/reports/excel", handlers.DownloadExcelReport(pool))
			r.Get("/reports/pdf", handlers.DownloadPDFReport(pool))
		})

		// Super Admin Routes
		r.With(middleware.JWTAuthMiddleware, middleware.SuperAdminMiddleware).Group(func(r chi.Router) {
			r.Get("/admin/audit-logs", handlers.GetAuditLogs(pool))
			r.Get("/admin/pii-logs", handlers.GetPIIAccessLogs(pool))
			r.Post("/admin/audit-logs/archive", handlers.ArchiveAuditLogs(pool, cfg.AuditArchiveDays))
			r.Post("/admin/audit-logs/purge", handlers.PurgeAuditLogs(pool, cfg.AuditRetentionDays, cfg.PIIRetentionDays))
		})
	})

	return r
}
