package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"partnershipintake/internal/domain"
	"partnershipintake/internal/metrics"
)

// Retry sweep defaults.
const (
	DefaultNotificationMaxRetries = 3
	DefaultNotificationBatchSize  = 10
)

type notificationDispatcher struct {
	repo     domain.NotificationRepository
	mailer   domain.Mailer
	renderer domain.EmailTemplateRenderer
	logger   *slog.Logger
	now      func() time.Time
}

// NewNotificationDispatcher returns a NotificationDispatcher that renders with renderer,
// delivers with mailer and records every attempt in repo.
func NewNotificationDispatcher(repo domain.NotificationRepository, mailer domain.Mailer, renderer domain.EmailTemplateRenderer, logger *slog.Logger) domain.NotificationDispatcher {
	return &notificationDispatcher{
		repo:     repo,
		mailer:   mailer,
		renderer: renderer,
		logger:   logger,
		now:      time.Now,
	}
}

func (d *notificationDispatcher) Send(ctx context.Context, msg domain.OutgoingMessage) (*domain.Notification, error) {
	data, err := json.Marshal(msg.Data)
	if err != nil {
		return nil, fmt.Errorf("encode template data: %w", err)
	}
	now := d.now()
	n := &domain.Notification{
		RequestID:      msg.RequestID,
		RecipientEmail: msg.To,
		CC:             msg.CC,
		Subject:        msg.Template,
		TemplateName:   msg.Template,
		TemplateData:   data,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	sendErr := d.deliver(ctx, n, msg.Data)
	if sendErr != nil {
		errMsg := sendErr.Error()
		n.Status = domain.NotificationFailed
		n.FailedAt = &now
		n.ErrorMessage = &errMsg
		d.logger.Warn("notification failed", "template", msg.Template, "to", msg.To, "err", sendErr)
	} else {
		n.Status = domain.NotificationSent
		n.SentAt = &now
	}
	metrics.NotificationsTotal.WithLabelValues(msg.Template, string(n.Status)).Inc()

	if err := d.repo.Create(ctx, n); err != nil {
		d.logger.Error("failed to record notification", "template", msg.Template, "to", msg.To, "err", err)
		if sendErr == nil {
			return n, fmt.Errorf("record notification: %w", err)
		}
	}
	return n, sendErr
}

// deliver renders the template into n.Subject and sends it.
func (d *notificationDispatcher) deliver(ctx context.Context, n *domain.Notification, data any) error {
	subject, htmlBody, textBody, err := d.renderer.Render(n.TemplateName, data)
	if err != nil {
		return fmt.Errorf("render %s template: %w", n.TemplateName, err)
	}
	n.Subject = subject
	if err := d.mailer.Send(ctx, domain.Email{To: n.RecipientEmail, CC: n.CC, Subject: subject, HTML: htmlBody, Text: textBody}); err != nil {
		return fmt.Errorf("send %s email: %w", n.TemplateName, err)
	}
	return nil
}

// RetryFailed re-sends up to batchSize failed notifications that have been retried fewer
// than maxRetries times. Bookkeeping errors are logged and do not stop the sweep.
func (d *notificationDispatcher) RetryFailed(ctx context.Context, maxRetries, batchSize int) (*domain.RetryReport, error) {
	if maxRetries <= 0 {
		maxRetries = DefaultNotificationMaxRetries
	}
	if batchSize <= 0 {
		batchSize = DefaultNotificationBatchSize
	}
	pending, err := d.repo.ListFailed(ctx, maxRetries, batchSize)
	if err != nil {
		return nil, fmt.Errorf("list failed notifications: %w", err)
	}

	report := &domain.RetryReport{}
	for _, n := range pending {
		report.Attempted++
		var data map[string]any
		if len(n.TemplateData) > 0 {
			if err := json.Unmarshal(n.TemplateData, &data); err != nil {
				d.logger.Warn("notification has unreadable template data", "notification_id", n.ID, "err", err)
			}
		}

		sendErr := d.deliver(ctx, n, data)
		now := d.now()
		if sendErr == nil {
			report.Sent++
			metrics.NotificationRetriesTotal.WithLabelValues("sent").Inc()
			if err := d.repo.MarkSent(ctx, n.ID, now); err != nil {
				d.logger.Error("failed to mark notification sent", "notification_id", n.ID, "err", err)
			}
			continue
		}
		report.Failed++
		metrics.NotificationRetriesTotal.WithLabelValues("failed").Inc()
		d.logger.Warn("notification retry failed", "notification_id", n.ID, "retry_count", n.RetryCount+1, "err", sendErr)
		if err := d.repo.MarkRetryFailed(ctx, n.ID, sendErr.Error(), now); err != nil {
			d.logger.Error("failed to record notification retry", "notification_id", n.ID, "err", err)
		}
	}
	return report, nil
}
