package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/lib/pq"
	"partnershipintake/internal/domain"
)

type notificationRepository struct {
	DB *sql.DB
}

func NewNotificationRepository(db *sql.DB) domain.NotificationRepository {
	return &notificationRepository{DB: db}
}

const notificationColumns = `id, request_id, recipient_email, cc, subject, template_name, template_data, status,
	sent_at, failed_at, error_message, retry_count, created_at, updated_at`

func (r *notificationRepository) Create(ctx context.Context, n *domain.Notification) error {
	query := `
		INSERT INTO notifications (request_id, recipient_email, cc, subject, template_name, template_data, status,
			sent_at, failed_at, error_message, retry_count, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id
	`
	templateData := nullJSON(n.TemplateData)
	if templateData == nil {
		templateData = "{}"
	}
	cc := n.CC
	if cc == nil {
		cc = []string{}
	}
	return r.DB.QueryRowContext(ctx, query,
		nullString(n.RequestID), n.RecipientEmail, pq.Array(cc), n.Subject, n.TemplateName, templateData, string(n.Status),
		nullTime(n.SentAt), nullTime(n.FailedAt), nullString(n.ErrorMessage), n.RetryCount, n.CreatedAt, n.UpdatedAt,
	).Scan(&n.ID)
}

func (r *notificationRepository) ListFailed(ctx context.Context, maxRetries, limit int) ([]*domain.Notification, error) {
	query := `SELECT ` + notificationColumns + `
		FROM notifications
		WHERE status = 'FAILED' AND retry_count < $1
		ORDER BY created_at ASC
		LIMIT $2`
	return r.list(ctx, query, maxRetries, limit)
}

func (r *notificationRepository) ListByRequestID(ctx context.Context, requestID string) ([]*domain.Notification, error) {
	query := `SELECT ` + notificationColumns + `
		FROM notifications
		WHERE request_id = $1
		ORDER BY created_at ASC`
	return r.list(ctx, query, requestID)
}

func (r *notificationRepository) MarkSent(ctx context.Context, id string, sentAt time.Time) error {
	query := `
		UPDATE notifications
		SET status = 'SENT', sent_at = $1, failed_at = NULL, error_message = NULL, updated_at = $1
		WHERE id = $2
	`
	return execOne(ctx, r.DB, query, sentAt, id)
}

func (r *notificationRepository) MarkRetryFailed(ctx context.Context, id string, errMsg string, failedAt time.Time) error {
	query := `
		UPDATE notifications
		SET retry_count = retry_count + 1, error_message = $1, failed_at = $2, updated_at = $2
		WHERE id = $3
	`
	return execOne(ctx, r.DB, query, errMsg, failedAt, id)
}

func (r *notificationRepository) list(ctx context.Context, query string, args ...any) ([]*domain.Notification, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*domain.Notification
	for rows.Next() {
		n := &domain.Notification{}
		var requestID, errorMessage sql.NullString
		var sentAt, failedAt sql.NullTime
		var templateData []byte
		var cc pq.StringArray
		if err := rows.Scan(
			&n.ID, &requestID, &n.RecipientEmail, &cc, &n.Subject, &n.TemplateName, &templateData, &n.Status,
			&sentAt, &failedAt, &errorMessage, &n.RetryCount, &n.CreatedAt, &n.UpdatedAt,
		); err != nil {
			return nil, err
		}
		n.RequestID = stringPtr(requestID)
		n.ErrorMessage = stringPtr(errorMessage)
		n.SentAt = timePtr(sentAt)
		n.FailedAt = timePtr(failedAt)
		if len(cc) > 0 {
			n.CC = []string(cc)
		}
		if len(templateData) > 0 {
			n.TemplateData = json.RawMessage(templateData)
		}
		out = append(out, n)
	}
	return out, rows.Err()
}
