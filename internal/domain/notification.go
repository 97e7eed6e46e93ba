package domain

import (
	"context"
	"encoding/json"
	"time"
)

// NotificationStatus is the outcome of the latest send attempt.
type NotificationStatus string

const (
	NotificationSent   NotificationStatus = "SENT"
	NotificationFailed NotificationStatus = "FAILED"
)

// Template names for outbound email.
const (
	TemplateSubmissionReceipt = "submission_receipt"
	TemplateStatusChanged     = "status_changed"
	TemplateAssignmentCreated = "assignment_created"
)

// Notification records one outbound message and its delivery outcome.
// swagger:model Notification
type Notification struct {
	ID             string             `json:"id"`
	RequestID      *string            `json:"request_id,omitempty"`
	RecipientEmail string             `json:"recipient_email"`
	CC             []string           `json:"cc,omitempty"`
	Subject        string             `json:"subject"`
	TemplateName   string             `json:"template_name"`
	TemplateData   json.RawMessage    `json:"template_data,omitempty" swaggertype:"object"`
	Status         NotificationStatus `json:"status"`
	SentAt         *time.Time         `json:"sent_at,omitempty"`
	FailedAt       *time.Time         `json:"failed_at,omitempty"`
	ErrorMessage   *string            `json:"error_message,omitempty"`
	RetryCount     int                `json:"retry_count"`
	CreatedAt      time.Time          `json:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at"`
}

// NotificationRepository defines storage for notification records.
type NotificationRepository interface {
	Create(ctx context.Context, n *Notification) error
	// ListFailed returns failed notifications with retry_count < maxRetries, oldest first.
	ListFailed(ctx context.Context, maxRetries, limit int) ([]*Notification, error)
	MarkSent(ctx context.Context, id string, sentAt time.Time) error
	MarkRetryFailed(ctx context.Context, id string, errMsg string, failedAt time.Time) error
	ListByRequestID(ctx context.Context, requestID string) ([]*Notification, error)
}

// OutgoingMessage is a templated message handed to the dispatcher.
type OutgoingMessage struct {
	To        string
	CC        []string
	Template  string
	Data      map[string]any
	RequestID *string
}

// RetryReport summarizes one retry sweep.
type RetryReport struct {
	Attempted int `json:"attempted"`
	Sent      int `json:"sent"`
	Failed    int `json:"failed"`
}

// NotificationDispatcher renders, sends and records outbound messages.
type NotificationDispatcher interface {
	// Send always records a Notification. A non-nil error means delivery failed; the
	// returned record then carries status FAILED.
	Send(ctx context.Context, msg OutgoingMessage) (*Notification, error)
	RetryFailed(ctx context.Context, maxRetries, batchSize int) (*RetryReport, error)
}
