package controllers

import (
	"context"
	"io"
	"log/slog"

	"partnershipintake/internal/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type submitCall struct {
	form   domain.Submission
	files  domain.SubmissionFiles
	source domain.SourceInfo
}

type fakeSubmissionService struct {
	calls  []submitCall
	result *domain.SubmitResult
	err    error
}

func (f *fakeSubmissionService) Submit(_ context.Context, form domain.Submission, files domain.SubmissionFiles, source domain.SourceInfo) (*domain.SubmitResult, error) {
	f.calls = append(f.calls, submitCall{form: form, files: files, source: source})
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

type updateCall struct {
	id     string
	update domain.RequestUpdate
	actor  domain.Actor
}

type fakeRequestService struct {
	page          *domain.RequestPage
	detail        *domain.RequestDetail
	tracking      *domain.RequestTracking
	hubs          []*domain.Hub
	notifications []*domain.Notification
	audit         []*domain.AuditLogEntry
	err           error

	lastFilter domain.RequestFilter
	lastID     string
	updates    []updateCall
}

func (f *fakeRequestService) List(_ context.Context, filter domain.RequestFilter) (*domain.RequestPage, error) {
	f.lastFilter = filter
	if f.err != nil {
		return nil, f.err
	}
	return f.page, nil
}

func (f *fakeRequestService) GetByID(_ context.Context, id string) (*domain.RequestDetail, error) {
	f.lastID = id
	if f.err != nil {
		return nil, f.err
	}
	return f.detail, nil
}

func (f *fakeRequestService) Track(_ context.Context, reference string) (*domain.RequestTracking, error) {
	f.lastID = reference
	if f.err != nil {
		return nil, f.err
	}
	return f.tracking, nil
}

func (f *fakeRequestService) Update(_ context.Context, id string, update domain.RequestUpdate, actor domain.Actor) (*domain.RequestDetail, error) {
	f.updates = append(f.updates, updateCall{id: id, update: update, actor: actor})
	if f.err != nil {
		return nil, f.err
	}
	return f.detail, nil
}

func (f *fakeRequestService) ListHubs(_ context.Context) ([]*domain.Hub, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.hubs, nil
}

func (f *fakeRequestService) ListNotifications(_ context.Context, requestID string) ([]*domain.Notification, error) {
	f.lastID = requestID
	if f.err != nil {
		return nil, f.err
	}
	return f.notifications, nil
}

func (f *fakeRequestService) ListAuditLog(_ context.Context, requestID string) ([]*domain.AuditLogEntry, error) {
	f.lastID = requestID
	if f.err != nil {
		return nil, f.err
	}
	return f.audit, nil
}

type fakeAuthService struct {
	token   string
	user    *domain.StaffUser
	err     error
	created []*domain.StaffUser
}

func (f *fakeAuthService) Login(_ context.Context, email, _ string) (string, *domain.StaffUser, error) {
	if f.err != nil {
		return "", nil, f.err
	}
	return f.token, f.user, nil
}

func (f *fakeAuthService) CreateStaff(_ context.Context, email, fullName string, role domain.StaffRole, _ string) (*domain.StaffUser, error) {
	if f.err != nil {
		return nil, f.err
	}
	u := &domain.StaffUser{ID: "staff-1", Email: email, FullName: fullName, Role: role, IsActive: true}
	f.created = append(f.created, u)
	return u, nil
}
