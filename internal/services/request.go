package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"partnershipintake/internal/domain"
)

// Pagination bounds for request listings.
const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

type requestService struct {
	requestRepo    domain.RequestRepository
	hubRepo        domain.HubRepository
	staffRepo      domain.StaffUserRepository
	auditRepo      domain.AuditLogRepository
	notifRepo      domain.NotificationRepository
	notifier       domain.NotificationDispatcher
	appURL         string
	logger         *slog.Logger
	contextTimeout time.Duration
	now            func() time.Time
}

func NewRequestService(
	requestRepo domain.RequestRepository,
	hubRepo domain.HubRepository,
	staffRepo domain.StaffUserRepository,
	auditRepo domain.AuditLogRepository,
	notifRepo domain.NotificationRepository,
	notifier domain.NotificationDispatcher,
	appURL string,
	timeout time.Duration,
	logger *slog.Logger,
) domain.RequestService {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &requestService{
		requestRepo:    requestRepo,
		hubRepo:        hubRepo,
		staffRepo:      staffRepo,
		auditRepo:      auditRepo,
		notifRepo:      notifRepo,
		notifier:       notifier,
		appURL:         appURL,
		logger:         logger,
		contextTimeout: timeout,
		now:            time.Now,
	}
}

// NormalizePagination clamps page to at least 1 and limit to [1, MaxPageLimit],
// defaulting limit to DefaultPageLimit.
func NormalizePagination(p domain.PaginationParams) domain.PaginationParams {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = DefaultPageLimit
	}
	if p.Limit > MaxPageLimit {
		p.Limit = MaxPageLimit
	}
	return p
}

func (s *requestService) List(ctx context.Context, filter domain.RequestFilter) (*domain.RequestPage, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if filter.Status != "" && !filter.Status.Valid() {
		return nil, domain.NewValidationError(map[string]string{"status": "Unknown status"})
	}
	if filter.HubName != "" && !filter.HubName.Valid() {
		return nil, domain.NewValidationError(map[string]string{"hub": "Unknown hub"})
	}
	if filter.PartnershipType != "" && !filter.PartnershipType.Valid() {
		return nil, domain.NewValidationError(map[string]string{"partnership_type": "Unknown partnership type"})
	}
	if filter.AssignedToID != "" {
		if _, err := uuid.Parse(filter.AssignedToID); err != nil {
			return nil, domain.NewValidationError(map[string]string{"assigned_to": "Must be a staff user id"})
		}
	}
	filter.Pagination = NormalizePagination(filter.Pagination)

	items, total, err := s.requestRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list requests: %w", err)
	}
	if items == nil {
		items = []*domain.RequestDetail{}
	}
	return &domain.RequestPage{
		Items:      items,
		Total:      total,
		Page:       filter.Pagination.Page,
		Limit:      filter.Pagination.Limit,
		TotalPages: filter.Pagination.TotalPages(total),
	}, nil
}

// GetByID returns ErrNotFound for ids that are not UUIDs instead of passing them to the store.
func (s *requestService) GetByID(ctx context.Context, id string) (*domain.RequestDetail, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrNotFound
	}
	return s.requestRepo.GetByID(ctx, id)
}

// Track accepts either a reference code or a request id.
func (s *requestService) Track(ctx context.Context, reference string) (*domain.RequestTracking, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	reference = strings.TrimSpace(reference)
	if reference == "" {
		return nil, domain.ErrNotFound
	}
	var d *domain.RequestDetail
	var err error
	if _, perr := uuid.Parse(reference); perr == nil {
		d, err = s.requestRepo.GetByID(ctx, reference)
	} else {
		d, err = s.requestRepo.GetByReference(ctx, strings.ToUpper(reference))
	}
	if err != nil {
		return nil, err
	}
	return &domain.RequestTracking{
		ReferenceCode:   d.ReferenceCode,
		EventTitle:      d.EventTitle,
		PartnershipType: d.PartnershipType,
		Hub:             d.Hub.Name,
		RequestedDate:   d.RequestedDate,
		StartTime:       d.StartTime,
		EndTime:         d.EndTime,
		Status:          d.Status,
		SubmittedAt:     d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
	}, nil
}

// Update applies a status change, an assignment and a comment, in that order. Each
// applied change is audited; partner and assignee are notified on a best-effort basis.
func (s *requestService) Update(ctx context.Context, id string, update domain.RequestUpdate, actor domain.Actor) (*domain.RequestDetail, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	current, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if update.Status == nil && update.AssignedToID == nil && update.Comment == nil {
		return nil, domain.NewValidationError(map[string]string{"status": "Nothing to update"})
	}

	var statusChanged bool
	if update.Status != nil {
		next := *update.Status
		if !next.Valid() {
			return nil, domain.NewValidationError(map[string]string{"status": "Unknown status"})
		}
		if !current.Status.CanTransitionTo(next) {
			return nil, fmt.Errorf("%w: %s to %s", domain.ErrInvalidTransition, current.Status, next)
		}
		if next != current.Status {
			statusChanged = true
		}
	}

	var assignee *domain.StaffUser
	var assignChanged bool
	if update.AssignedToID != nil {
		target := strings.TrimSpace(*update.AssignedToID)
		if target != "" {
			if _, err := uuid.Parse(target); err != nil {
				return nil, domain.NewValidationError(map[string]string{"assigned_to_id": "Must be a staff user id"})
			}
			assignee, err = s.staffRepo.GetByID(ctx, target)
			if err != nil {
				if errors.Is(err, domain.ErrNotFound) {
					return nil, domain.NewValidationError(map[string]string{"assigned_to_id": "Staff user not found"})
				}
				return nil, fmt.Errorf("get assignee: %w", err)
			}
			if !assignee.IsActive {
				return nil, domain.NewValidationError(map[string]string{"assigned_to_id": "Staff user is inactive"})
			}
		}
		assignChanged = target != deref(current.AssignedToID)
	}

	now := s.now()
	if statusChanged {
		if err := s.requestRepo.UpdateStatus(ctx, id, *update.Status); err != nil {
			return nil, fmt.Errorf("update status: %w", err)
		}
		if err := s.audit(ctx, id, domain.AuditStatusChange, actor,
			map[string]any{"status": current.Status}, map[string]any{"status": *update.Status}, now); err != nil {
			return nil, fmt.Errorf("audit status change: %w", err)
		}
	}
	if assignChanged {
		var newID *string
		if assignee != nil {
			newID = &assignee.ID
		}
		if err := s.requestRepo.UpdateAssignee(ctx, id, newID); err != nil {
			return nil, fmt.Errorf("update assignee: %w", err)
		}
		if err := s.audit(ctx, id, domain.AuditAssign, actor,
			map[string]any{"assigned_to_id": current.AssignedToID}, map[string]any{"assigned_to_id": newID}, now); err != nil {
			return nil, fmt.Errorf("audit assignment: %w", err)
		}
	}
	if update.Comment != nil && strings.TrimSpace(*update.Comment) != "" {
		if err := s.audit(ctx, id, domain.AuditComment, actor,
			nil, map[string]any{"comment": strings.TrimSpace(*update.Comment)}, now); err != nil {
			return nil, fmt.Errorf("audit comment: %w", err)
		}
	}

	if statusChanged {
		s.notify(ctx, domain.OutgoingMessage{
			To:        current.Partner.PocEmail,
			Template:  domain.TemplateStatusChanged,
			RequestID: &current.ID,
			Data: map[string]any{
				"PocName":       current.Partner.PocName,
				"EventTitle":    current.EventTitle,
				"ReferenceCode": current.ReferenceCode,
				"OldStatus":     humanStatus(current.Status),
				"NewStatus":     humanStatus(*update.Status),
				"TrackURL":      trackURL(s.appURL, current.ReferenceCode),
			},
		})
	}
	if assignChanged && assignee != nil {
		s.notify(ctx, domain.OutgoingMessage{
			To:        assignee.Email,
			Template:  domain.TemplateAssignmentCreated,
			RequestID: &current.ID,
			Data: map[string]any{
				"AssigneeName":  assignee.FullName,
				"EventTitle":    current.EventTitle,
				"ReferenceCode": current.ReferenceCode,
				"OrgName":       current.Partner.OrgName,
				"Hub":           string(current.Hub.Name),
				"EventDate":     current.RequestedDate.Format("Monday, 2 January 2006"),
				"DashboardURL":  dashboardURL(s.appURL, current.ID),
			},
		})
	}

	s.logger.Info("request updated", "request_id", id, "actor_id", actor.UserID,
		"status_changed", statusChanged, "assignment_changed", assignChanged)
	return s.requestRepo.GetByID(ctx, id)
}

func (s *requestService) ListHubs(ctx context.Context) ([]*domain.Hub, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	hubs, err := s.hubRepo.List(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("list hubs: %w", err)
	}
	if hubs == nil {
		hubs = []*domain.Hub{}
	}
	return hubs, nil
}

func (s *requestService) ListNotifications(ctx context.Context, requestID string) ([]*domain.Notification, error) {
	if _, err := s.GetByID(ctx, requestID); err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	items, err := s.notifRepo.ListByRequestID(ctx, requestID)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	if items == nil {
		items = []*domain.Notification{}
	}
	return items, nil
}

func (s *requestService) ListAuditLog(ctx context.Context, requestID string) ([]*domain.AuditLogEntry, error) {
	if _, err := s.GetByID(ctx, requestID); err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	entries, err := s.auditRepo.ListByEntity(ctx, domain.EntityRequest, requestID)
	if err != nil {
		return nil, fmt.Errorf("list audit log: %w", err)
	}
	if entries == nil {
		entries = []*domain.AuditLogEntry{}
	}
	return entries, nil
}

func (s *requestService) audit(ctx context.Context, requestID string, action domain.AuditAction, actor domain.Actor, oldValue, newValue map[string]any, at time.Time) error {
	entry := &domain.AuditLogEntry{
		EntityType: domain.EntityRequest,
		EntityID:   requestID,
		Action:     action,
		IPAddress:  actor.IPAddress,
		CreatedAt:  at,
	}
	if actor.UserID != "" {
		uid := actor.UserID
		entry.ActorID = &uid
	}
	var err error
	if oldValue != nil {
		if entry.OldValue, err = json.Marshal(oldValue); err != nil {
			return err
		}
	}
	if newValue != nil {
		if entry.NewValue, err = json.Marshal(newValue); err != nil {
			return err
		}
	}
	return s.auditRepo.Create(ctx, entry)
}

func (s *requestService) notify(ctx context.Context, msg domain.OutgoingMessage) {
	if _, err := s.notifier.Send(ctx, msg); err != nil {
		s.logger.Warn("request notification not delivered", "template", msg.Template, "to", msg.To, "err", err)
	}
}

func humanStatus(st domain.RequestStatus) string {
	return strings.ReplaceAll(strings.ToLower(string(st)), "_", " ")
}

func dashboardURL(appURL, id string) string {
	if appURL == "" {
		return ""
	}
	return strings.TrimRight(appURL, "/") + "/dashboard/requests/" + id
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
