package domain

import (
	"context"
	"encoding/json"
	"time"
)

// AuditAction names what happened to an entity.
type AuditAction string

const (
	AuditCreate       AuditAction = "CREATE"
	AuditStatusChange AuditAction = "STATUS_CHANGE"
	AuditAssign       AuditAction = "ASSIGN"
	AuditComment      AuditAction = "COMMENT"
)

// Entity types recorded in the audit log.
const (
	EntityRequest = "Request"
	EntityPartner = "Partner"
)

// AuditLogEntry is an immutable record of a state-changing action.
// swagger:model AuditLogEntry
type AuditLogEntry struct {
	ID         string          `json:"id"`
	EntityType string          `json:"entity_type"`
	EntityID   string          `json:"entity_id"`
	Action     AuditAction     `json:"action"`
	ActorID    *string         `json:"actor_id,omitempty"`
	OldValue   json.RawMessage `json:"old_value,omitempty" swaggertype:"object"`
	NewValue   json.RawMessage `json:"new_value,omitempty" swaggertype:"object"`
	IPAddress  string          `json:"ip_address"`
	CreatedAt  time.Time       `json:"created_at"`
}

// AuditLogRepository is append-only: there is no update or delete.
type AuditLogRepository interface {
	Create(ctx context.Context, entry *AuditLogEntry) error
	ListByEntity(ctx context.Context, entityType, entityID string) ([]*AuditLogEntry, error)
}
