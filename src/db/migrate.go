package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Migrate bootstraps the schema. The two partial unique indexes matter: they
// are what makes alert creation idempotent and budget periods exclusive when
// two requests race.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id SERIAL PRIMARY KEY,
			username TEXT NOT NULL UNIQUE,
			email TEXT NOT NULL UNIQUE,
			first_name TEXT NOT NULL DEFAULT '',
			last_name TEXT NOT NULL DEFAULT '',
			password_hash TEXT NOT NULL,
			super_admin BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS categories (
			id SERIAL PRIMARY KEY,
			user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			name TEXT NOT NULL,
			color TEXT,
			icon TEXT,
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			UNIQUE (user_id, name)
		)`,
		`CREATE TABLE IF NOT EXISTS transactions (
			id SERIAL PRIMARY KEY,
			user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			transaction_type TEXT NOT NULL CHECK (transaction_type IN ('EXPENSE', 'INCOME')),
			amount_enc TEXT NOT NULL,
			amount_index NUMERIC(12,2) NOT NULL,
			category_id INTEGER REFERENCES categories(id) ON DELETE SET NULL,
			date DATE NOT NULL,
			merchant TEXT,
			notes TEXT,
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_transactions_user_date
			ON transactions (user_id, date) WHERE is_active`,
		`CREATE INDEX IF NOT EXISTS idx_transactions_user_amount
			ON transactions (user_id, amount_index)`,
		`CREATE TABLE IF NOT EXISTS budgets (
			id SERIAL PRIMARY KEY,
			user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			category_id INTEGER REFERENCES categories(id) ON DELETE CASCADE,
			name TEXT NOT NULL,
			amount_enc TEXT NOT NULL,
			amount_index NUMERIC(12,2) NOT NULL,
			period_start DATE NOT NULL,
			period_end DATE NOT NULL,
			alert_enabled BOOLEAN NOT NULL DEFAULT FALSE,
			warning_threshold NUMERIC(5,2),
			critical_threshold NUMERIC(5,2),
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			CHECK (period_start < period_end)
		)`,
		// one active budget per (user, category, period); COALESCE folds the
		// NULL overall-budget category into a single slot
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_budgets_unique_period
			ON budgets (user_id, COALESCE(category_id, 0), period_start, period_end)
			WHERE is_active`,
		`CREATE TABLE IF NOT EXISTS budget_alerts (
			id SERIAL PRIMARY KEY,
			budget_id INTEGER NOT NULL REFERENCES budgets(id) ON DELETE CASCADE,
			alert_type TEXT NOT NULL CHECK (alert_type IN ('WARNING', 'CRITICAL')),
			message TEXT NOT NULL,
			triggered_at_percentage NUMERIC(5,2),
			is_resolved BOOLEAN NOT NULL DEFAULT FALSE,
			resolved_at TIMESTAMPTZ,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		// at most one unresolved alert per (budget, type)
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_budget_alerts_unresolved
			ON budget_alerts (budget_id, alert_type)
			WHERE NOT is_resolved`,
		`CREATE TABLE IF NOT EXISTS audit_logs (
			id SERIAL PRIMARY KEY,
			user_id INTEGER REFERENCES users(id) ON DELETE SET NULL,
			timestamp TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			action TEXT NOT NULL,
			resource_type TEXT NOT NULL,
			resource_id TEXT NOT NULL,
			ip_address TEXT,
			user_agent TEXT,
			metadata JSONB NOT NULL DEFAULT '{}',
			is_archived BOOLEAN NOT NULL DEFAULT FALSE
		)`,
		`CREATE INDEX IF NOT EXISTS idx_audit_logs_user_ts ON audit_logs (user_id, timestamp)`,
		`CREATE INDEX IF NOT EXISTS idx_audit_logs_ts ON audit_logs (timestamp)`,
		`CREATE TABLE IF NOT EXISTS pii_access_logs (
			id SERIAL PRIMARY KEY,
			user_id INTEGER REFERENCES users(id) ON DELETE SET NULL,
			timestamp TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			pii_type TEXT NOT NULL,
			action TEXT NOT NULL,
			field_name TEXT NOT NULL,
			model_name TEXT NOT NULL,
			record_id TEXT NOT NULL,
			ip_address TEXT,
			accessed_value_hash TEXT,
			access_reason TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_pii_logs_user_ts ON pii_access_logs (user_id, timestamp)`,
	}

	for _, stmt := range stmts {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
