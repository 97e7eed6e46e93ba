package services

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"strconv"
	"strings"
	"time"

	"partnershipintake/internal/domain"
	"partnershipintake/internal/metrics"
	"partnershipintake/internal/validation"
)

// SubmissionConfig holds the tunables of the public submission flow.
type SubmissionConfig struct {
	MinBusinessDays int
	RateLimitMax    int
	RateLimitWindow time.Duration
	// AdminCC receives a copy of every submission receipt.
	AdminCC []string
	// AppURL is used to build the tracking link in the receipt.
	AppURL   string
	Location *time.Location
	Timeout  time.Duration
}

type submissionService struct {
	partnerRepo domain.PartnerRepository
	hubRepo     domain.HubRepository
	requestRepo domain.RequestRepository
	auditRepo   domain.AuditLogRepository
	configRepo  domain.SystemConfigRepository
	limiter     domain.RateLimiter
	intake      domain.FileIntake
	notifier    domain.NotificationDispatcher
	cfg         SubmissionConfig
	logger      *slog.Logger
	now         func() time.Time
}

func NewSubmissionService(
	partnerRepo domain.PartnerRepository,
	hubRepo domain.HubRepository,
	requestRepo domain.RequestRepository,
	auditRepo domain.AuditLogRepository,
	configRepo domain.SystemConfigRepository,
	limiter domain.RateLimiter,
	intake domain.FileIntake,
	notifier domain.NotificationDispatcher,
	cfg SubmissionConfig,
	logger *slog.Logger,
) domain.SubmissionService {
	if cfg.RateLimitMax <= 0 {
		cfg.RateLimitMax = DefaultRateLimitMaxAttempts
	}
	if cfg.RateLimitWindow <= 0 {
		cfg.RateLimitWindow = DefaultRateLimitWindow
	}
	if cfg.MinBusinessDays <= 0 {
		cfg.MinBusinessDays = validation.DefaultMinBusinessDays
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &submissionService{
		partnerRepo: partnerRepo,
		hubRepo:     hubRepo,
		requestRepo: requestRepo,
		auditRepo:   auditRepo,
		configRepo:  configRepo,
		limiter:     limiter,
		intake:      intake,
		notifier:    notifier,
		cfg:         cfg,
		logger:      logger,
		now:         time.Now,
	}
}

// Submit runs rate limiting, validation, partner upsert, hub lookup, file upload,
// persistence, auditing and the receipt, in that order. The receipt never fails a submission.
func (s *submissionService) Submit(ctx context.Context, form domain.Submission, files domain.SubmissionFiles, source domain.SourceInfo) (*domain.SubmitResult, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	limit, err := s.limiter.Check(ctx, source.IPAddress, domain.ActionSubmitForm, s.cfg.RateLimitMax, s.cfg.RateLimitWindow)
	if err != nil {
		metrics.SubmissionsTotal.WithLabelValues(metrics.OutcomeError).Inc()
		return nil, fmt.Errorf("check rate limit: %w", err)
	}
	if !limit.Allowed {
		metrics.SubmissionsTotal.WithLabelValues(metrics.OutcomeRateLimited).Inc()
		metrics.RateLimitRejectionsTotal.WithLabelValues(domain.ActionSubmitForm).Inc()
		s.logger.Info("submission rate limited", "ip", source.IPAddress, "reset_at", limit.ResetAt)
		return nil, &domain.RateLimitError{ResetAt: limit.ResetAt}
	}

	form = trimSubmission(form)
	valid, fieldErrs := validation.Validate(form, validation.Options{
		MinBusinessDays: s.cfg.MinBusinessDays,
		Holidays:        s.loadHolidays(ctx),
		HubWindows:      s.loadHubWindows(ctx),
		Location:        s.cfg.Location,
		Now:             s.now,
	})
	if fieldErrs == nil {
		fieldErrs = validation.FieldErrors{}
	}
	for _, f := range []struct {
		file    *domain.UploadedFile
		purpose domain.FilePurpose
	}{{files.ConceptNote, domain.PurposeConceptNote}, {files.Logo, domain.PurposeLogo}} {
		if err := s.intake.Check(f.file, f.purpose); err != nil {
			var ve *domain.ValidationError
			if !errors.As(err, &ve) {
				return nil, fmt.Errorf("check %s file: %w", f.purpose, err)
			}
			for k, v := range ve.Fields {
				if _, ok := fieldErrs[k]; !ok {
					fieldErrs[k] = v
				}
			}
		}
	}
	if err := fieldErrs.Err(); err != nil {
		metrics.SubmissionsTotal.WithLabelValues(metrics.OutcomeInvalid).Inc()
		s.logger.Info("submission rejected by validation", "ip", source.IPAddress, "fields", len(fieldErrs))
		return nil, err
	}

	if !valid.MissionAlign || !valid.CobrandingConsent {
		metrics.SubmissionsTotal.WithLabelValues(metrics.OutcomeInvalid).Inc()
		return nil, domain.ErrConsentRequired
	}

	now := s.now()
	var orgURL *string
	if valid.OrgURL != "" {
		u := valid.OrgURL
		orgURL = &u
	}
	partner := domain.NewPartner(valid.OrgName, valid.PocName, strings.ToLower(valid.PocEmail),
		validation.NormalizePhone(valid.PocPhone), orgURL, now, now)
	created, err := s.partnerRepo.Upsert(ctx, partner)
	if err != nil {
		return nil, s.internal("upsert partner", err)
	}
	if created {
		if err := s.audit(ctx, domain.EntityPartner, partner.ID, domain.AuditCreate, nil,
			map[string]any{"org_name": partner.OrgName, "poc_email": partner.PocEmail}, source.IPAddress, now); err != nil {
			return nil, s.internal("audit partner", err)
		}
	}

	hub, err := s.hubRepo.GetByName(ctx, valid.Hub)
	if err != nil || !hub.IsActive {
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return nil, s.internal("resolve hub", err)
		}
		s.logger.Warn("submission references a hub that is not configured", "hub", valid.Hub)
		metrics.SubmissionsTotal.WithLabelValues(metrics.OutcomeInvalid).Inc()
		return nil, domain.ErrUnknownHub
	}

	concept, err := s.intake.Store(ctx, files.ConceptNote, domain.PurposeConceptNote)
	if err != nil {
		s.logger.Error("concept note upload failed", "err", err)
		metrics.SubmissionsTotal.WithLabelValues(metrics.OutcomeError).Inc()
		return nil, err
	}
	logo, err := s.intake.Store(ctx, files.Logo, domain.PurposeLogo)
	if err != nil {
		s.logger.Error("logo upload failed", "err", err)
		metrics.SubmissionsTotal.WithLabelValues(metrics.OutcomeError).Inc()
		return nil, err
	}

	ref, err := generateReferenceCode(now)
	if err != nil {
		return nil, s.internal("generate reference code", err)
	}
	raw, err := json.Marshal(form)
	if err != nil {
		return nil, s.internal("encode submission", err)
	}
	req := &domain.Request{
		ReferenceCode:   ref,
		PartnerID:       partner.ID,
		HubID:           hub.ID,
		EventTitle:      valid.EventTitle,
		EventDesc:       valid.EventDesc,
		PartnershipType: valid.PartnershipType,
		RequestedDate:   valid.EventDate,
		StartTime:       valid.StartTime,
		EndTime:         valid.EndTime,
		AttendeeCount:   valid.AttendeeCount,
		Status:          domain.StatusNew,
		SubmissionData:  raw,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if concept != nil {
		req.ConceptNoteURL, req.ConceptNoteKey = &concept.URL, &concept.Key
	}
	if logo != nil {
		req.LogoURL, req.LogoKey = &logo.URL, &logo.Key
	}
	if err := s.requestRepo.Create(ctx, req); err != nil {
		return nil, s.internal("create request", err)
	}

	if err := s.audit(ctx, domain.EntityRequest, req.ID, domain.AuditCreate, nil,
		map[string]any{"status": domain.StatusNew, "reference_code": ref}, source.IPAddress, now); err != nil {
		return nil, s.internal("audit request", err)
	}

	result := &domain.SubmitResult{
		RequestID:          req.ID,
		ReferenceCode:      ref,
		Status:             req.Status,
		NotificationStatus: domain.NotificationSent,
	}
	requestID := req.ID
	if _, err := s.notifier.Send(ctx, domain.OutgoingMessage{
		To:        partner.PocEmail,
		CC:        s.cfg.AdminCC,
		Template:  domain.TemplateSubmissionReceipt,
		RequestID: &requestID,
		Data: map[string]any{
			"PocName":         partner.PocName,
			"OrgName":         partner.OrgName,
			"EventTitle":      req.EventTitle,
			"ReferenceCode":   ref,
			"Hub":             string(hub.Name),
			"EventDate":       req.RequestedDate.Format("Monday, 2 January 2006"),
			"StartTime":       req.StartTime,
			"EndTime":         req.EndTime,
			"AttendeeCount":   strconv.Itoa(req.AttendeeCount),
			"PartnershipType": string(req.PartnershipType),
			"TrackURL":        trackURL(s.cfg.AppURL, ref),
		},
	}); err != nil {
		result.NotificationStatus = domain.NotificationFailed
		s.logger.Warn("submission receipt not delivered", "request_id", req.ID, "err", err)
	}

	metrics.SubmissionsTotal.WithLabelValues(metrics.OutcomeAccepted).Inc()
	s.logger.Info("submission accepted", "request_id", req.ID, "reference_code", ref, "hub", hub.Name, "partner_created", created)
	return result, nil
}

func (s *submissionService) internal(op string, err error) error {
	metrics.SubmissionsTotal.WithLabelValues(metrics.OutcomeError).Inc()
	s.logger.Error("submission failed", "op", op, "err", err)
	return fmt.Errorf("%s: %w", op, err)
}

func (s *submissionService) audit(ctx context.Context, entityType, entityID string, action domain.AuditAction, oldValue, newValue any, ip string, at time.Time) error {
	entry := &domain.AuditLogEntry{
		EntityType: entityType,
		EntityID:   entityID,
		Action:     action,
		IPAddress:  ip,
		CreatedAt:  at,
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

// loadHolidays reads the holidays list from system config. Missing or unreadable
// config means no holidays.
func (s *submissionService) loadHolidays(ctx context.Context) map[string]struct{} {
	raw, err := s.configRepo.Get(ctx, domain.ConfigKeyHolidays)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			s.logger.Warn("could not load holidays", "err", err)
		}
		return nil
	}
	var days []string
	if err := json.Unmarshal(raw, &days); err != nil {
		s.logger.Warn("holidays config is not a list of dates", "err", err)
		return nil
	}
	out := make(map[string]struct{}, len(days))
	for _, d := range days {
		out[strings.TrimSpace(d)] = struct{}{}
	}
	return out
}

func (s *submissionService) loadHubWindows(ctx context.Context) map[domain.HubName]validation.Window {
	hubs, err := s.hubRepo.List(ctx, true)
	if err != nil {
		s.logger.Warn("could not load hub windows, using defaults", "err", err)
		return nil
	}
	out := make(map[domain.HubName]validation.Window, len(hubs))
	for _, h := range hubs {
		out[h.Name] = validation.Window{Open: h.OpenTime, Close: h.CloseTime}
	}
	return out
}

func trimSubmission(f domain.Submission) domain.Submission {
	for _, p := range []*string{
		&f.OrgName, &f.PocName, &f.PocEmail, &f.PocPhone, &f.OrgURL, &f.EventTitle, &f.EventDesc,
		&f.PartnershipType, &f.TargetHub, &f.EventDate, &f.StartTime, &f.EndTime, &f.AttendeeCount,
	} {
		*p = strings.TrimSpace(*p)
	}
	f.PartnershipType = strings.ToUpper(f.PartnershipType)
	f.TargetHub = strings.ToUpper(f.TargetHub)
	return f
}

func trackURL(appURL, ref string) string {
	if appURL == "" {
		return ""
	}
	return strings.TrimRight(appURL, "/") + "/track/" + ref
}

const referenceSuffixLength = 4

var referenceAlphabet = []rune("ABCDEFGHJKLMNPQRSTUVWXYZ23456789")

// generateReferenceCode returns PR-<base36 millis>-<random suffix>.
func generateReferenceCode(now time.Time) (string, error) {
	b := make([]rune, referenceSuffixLength)
	max := big.NewInt(int64(len(referenceAlphabet)))
	for i := range b {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b[i] = referenceAlphabet[n.Int64()]
	}
	ts := strings.ToUpper(strconv.FormatInt(now.UnixMilli(), 36))
	return "PR-" + ts + "-" + string(b), nil
}
