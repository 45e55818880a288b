package db

import (
	"context"

	"fintrack-server/src/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

func InsertAuditLog(ctx context.Context, pool *pgxpool.Pool, l *models.AuditLog) error {
	query := `
		INSERT INTO audit_logs (user_id, action, resource_type, resource_id, ip_address, user_agent, metadata)
		VALUES ($1, $2, $3, $4, $5, $6, COALESCE($7, '{}'::jsonb))
	`
	_, err := pool.Exec(ctx, query,
		l.UserID, l.Action, l.ResourceType, l.ResourceID, l.IPAddress, l.UserAgent, l.Metadata)
	return err
}

func InsertPIIAccessLog(ctx context.Context, pool *pgxpool.Pool, l *models.PIIAccessLog) error {
	query := `
		INSERT INTO pii_access_logs (user_id, pii_type, action, field_name, model_name, record_id, ip_address, accessed_value_hash, access_reason)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := pool.Exec(ctx, query,
		l.UserID, l.PIIType, l.Action, l.FieldName, l.ModelName, l.RecordID,
		l.IPAddress, l.AccessedValueHash, l.AccessReason)
	return err
}

func GetAuditLogs(ctx context.Context, pool *pgxpool.Pool, limit int) ([]models.AuditLog, error) {
	query := `
		SELECT id, user_id, timestamp, action, resource_type, resource_id,
		       ip_address, user_agent, metadata, is_archived
		FROM audit_logs
		ORDER BY timestamp DESC
		LIMIT $1
	`
	rows, err := pool.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []models.AuditLog
	for rows.Next() {
		var l models.AuditLog
		err := rows.Scan(&l.ID, &l.UserID, &l.Timestamp, &l.Action, &l.ResourceType,
			&l.ResourceID, &l.IPAddress, &l.UserAgent, &l.Metadata, &l.IsArchived)
		if err != nil {
			return nil, err
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}

func GetPIIAccessLogs(ctx context.Context, pool *pgxpool.Pool, limit int) ([]models.PIIAccessLog, error) {
	query := `
		SELECT id, user_id, timestamp, pii_type, action, field_name, model_name,
		       record_id, ip_address, accessed_value_hash, access_reason
		FROM pii_access_logs
		ORDER BY timestamp DESC
		LIMIT $1
	`
	rows, err := pool.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []models.PIIAccessLog
	for rows.Next() {
		var l models.PIIAccessLog
		err := rows.Scan(&l.ID, &l.UserID, &l.Timestamp, &l.PIIType, &l.Action,
			&l.FieldName, &l.ModelName, &l.RecordID, &l.IPAddress,
			&l.AccessedValueHash, &l.AccessReason)
		if err != nil {
			return nil, err
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}

// ArchiveOldAuditLogs flags entries older than the cutoff; archived rows
// stay queryable but are marked for export.
func ArchiveOldAuditLogs(ctx context.Context, pool *pgxpool.Pool, days int) (int64, error) {
	query := `
		UPDATE audit_logs SET is_archived = TRUE
		WHERE NOT is_archived AND timestamp < NOW() - ($1 || ' days')::interval
	`
	cmd, err := pool.Exec(ctx, query, days)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}

// PurgeOldAuditLogs deletes entries past the retention window.
func PurgeOldAuditLogs(ctx context.Context, pool *pgxpool.Pool, days int) (int64, error) {
	query := `DELETE FROM audit_logs WHERE timestamp < NOW() - ($1 || ' days')::interval`
	cmd, err := pool.Exec(ctx, query, days)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}

// PurgeOldPIIAccessLogs deletes PII access entries past their (shorter)
// retention window.
func PurgeOldPIIAccessLogs(ctx context.Context, pool *pgxpool.Pool, days int) (int64, error) {
	query := `DELETE FROM pii_access_logs WHERE timestamp < NOW() - ($1 || ' days')::interval`
	cmd, err := pool.Exec(ctx, query, days)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}
