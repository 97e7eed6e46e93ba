package postgres

import (
	"context"
	"database/sql"
	"encoding/json"

	"partnershipintake/internal/domain"
)

type auditLogRepository struct {
	DB *sql.DB
}

func NewAuditLogRepository(db *sql.DB) domain.AuditLogRepository {
	return &auditLogRepository{DB: db}
}

func (r *auditLogRepository) Create(ctx context.Context, e *domain.AuditLogEntry) error {
	query := `
		INSERT INTO audit_logs (entity_type, entity_id, action, actor_id, old_value, new_value, ip_address, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query,
		e.EntityType, e.EntityID, string(e.Action), nullString(e.ActorID),
		nullJSON(e.OldValue), nullJSON(e.NewValue), e.IPAddress, e.CreatedAt,
	).Scan(&e.ID)
}

func (r *auditLogRepository) ListByEntity(ctx context.Context, entityType, entityID string) ([]*domain.AuditLogEntry, error) {
	query := `
		SELECT id, entity_type, entity_id, action, actor_id, old_value, new_value, ip_address, created_at
		FROM audit_logs
		WHERE entity_type = $1 AND entity_id = $2
		ORDER BY created_at ASC
	`
	rows, err := r.DB.QueryContext(ctx, query, entityType, entityID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var entries []*domain.AuditLogEntry
	for rows.Next() {
		e := &domain.AuditLogEntry{}
		var actorID sql.NullString
		var oldValue, newValue []byte
		if err := rows.Scan(&e.ID, &e.EntityType, &e.EntityID, &e.Action, &actorID, &oldValue, &newValue, &e.IPAddress, &e.CreatedAt); err != nil {
			return nil, err
		}
		e.ActorID = stringPtr(actorID)
		if len(oldValue) > 0 {
			e.OldValue = json.RawMessage(oldValue)
		}
		if len(newValue) > 0 {
			e.NewValue = json.RawMessage(newValue)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
