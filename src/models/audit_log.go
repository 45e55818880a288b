package models

import (
	"encoding/json"
	"time"
)

type AuditLog struct {
	ID           int             `json:"id"`
	UserID       *int            `json:"user_id"`
	Timestamp    time.Time       `json:"timestamp"`
	Action       string          `json:"action"`
	ResourceType string          `json:"resource_type"`
	ResourceID   string          `json:"resource_id"`
	IPAddress    *string         `json:"ip_address"`
	UserAgent    *string         `json:"user_agent"`
	Metadata     json.RawMessage `json:"metadata"`
	IsArchived   bool            `json:"is_archived"`
}

type PIIAccessLog struct {
	ID                int       `json:"id"`
	UserID            *int      `json:"user_id"`
	Timestamp         time.Time `json:"timestamp"`
	PIIType           string    `json:"pii_type"`
	Action            string    `json:"action"`
	FieldName         string    `json:"field_name"`
	ModelName         string    `json:"model_name"`
	RecordID          string    `json:"record_id"`
	IPAddress         *string   `json:"ip_address"`
	AccessedValueHash *string   `json:"accessed_value_hash"`
	AccessReason      *string   `json:"access_reason"`
}
