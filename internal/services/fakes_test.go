package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"sync"
	"time"

	"partnershipintake/internal/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

// fakeRateLimitRepo is an in-memory RateLimitRepository.
type fakeRateLimitRepo struct {
	windows []*domain.RateLimitWindow
	nextID  int
	err     error
}

func (f *fakeRateLimitRepo) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	var kept []*domain.RateLimitWindow
	var n int64
	for _, w := range f.windows {
		if w.ExpiresAt.Before(now) {
			n++
			continue
		}
		kept = append(kept, w)
	}
	f.windows = kept
	return n, nil
}

func (f *fakeRateLimitRepo) FindActive(_ context.Context, identifier, action string, since time.Time) (*domain.RateLimitWindow, error) {
	var best *domain.RateLimitWindow
	for _, w := range f.windows {
		if w.Identifier == identifier && w.Action == action && !w.WindowStart.Before(since) {
			if best == nil || w.WindowStart.After(best.WindowStart) {
				best = w
			}
		}
	}
	if best == nil {
		return nil, domain.ErrNotFound
	}
	cp := *best
	return &cp, nil
}

func (f *fakeRateLimitRepo) Increment(_ context.Context, id string) error {
	for _, w := range f.windows {
		if w.ID == id {
			w.Count++
			return nil
		}
	}
	return domain.ErrNotFound
}

func (f *fakeRateLimitRepo) Create(_ context.Context, w *domain.RateLimitWindow) error {
	f.nextID++
	w.ID = fmt.Sprintf("rl-%d", f.nextID)
	cp := *w
	f.windows = append(f.windows, &cp)
	return nil
}

func (f *fakeRateLimitRepo) Delete(_ context.Context, identifier, action string) error {
	var kept []*domain.RateLimitWindow
	for _, w := range f.windows {
		if w.Identifier == identifier && w.Action == action {
			continue
		}
		kept = append(kept, w)
	}
	f.windows = kept
	return nil
}

// fakePartnerRepo upserts on PocEmail like the unique constraint does.
type fakePartnerRepo struct {
	byEmail map[string]*domain.Partner
	nextID  int
	err     error
}

func newFakePartnerRepo() *fakePartnerRepo {
	return &fakePartnerRepo{byEmail: map[string]*domain.Partner{}}
}

func (f *fakePartnerRepo) Upsert(_ context.Context, p *domain.Partner) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	if existing, ok := f.byEmail[p.PocEmail]; ok {
		existing.OrgName, existing.PocName, existing.PocPhone, existing.OrgURL = p.OrgName, p.PocName, p.PocPhone, p.OrgURL
		existing.UpdatedAt = p.UpdatedAt
		p.ID, p.CreatedAt = existing.ID, existing.CreatedAt
		return false, nil
	}
	f.nextID++
	p.ID = fmt.Sprintf("partner-%d", f.nextID)
	cp := *p
	f.byEmail[p.PocEmail] = &cp
	return true, nil
}

func (f *fakePartnerRepo) GetByEmail(_ context.Context, email string) (*domain.Partner, error) {
	if p, ok := f.byEmail[email]; ok {
		return p, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakePartnerRepo) byID(id string) *domain.Partner {
	for _, p := range f.byEmail {
		if p.ID == id {
			return p
		}
	}
	return nil
}

type fakeHubRepo struct {
	hubs    map[domain.HubName]*domain.Hub
	listErr error
}

func newFakeHubRepo() *fakeHubRepo {
	f := &fakeHubRepo{hubs: map[domain.HubName]*domain.Hub{}}
	for i, name := range domain.HubNames {
		f.hubs[name] = &domain.Hub{
			ID:        fmt.Sprintf("hub-%d", i+1),
			Name:      name,
			Timezone:  domain.DefaultTimezone,
			OpenTime:  domain.DefaultOpenTime,
			CloseTime: domain.DefaultCloseTime,
			IsActive:  true,
		}
	}
	return f
}

func (f *fakeHubRepo) GetByName(_ context.Context, name domain.HubName) (*domain.Hub, error) {
	if h, ok := f.hubs[name]; ok {
		return h, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeHubRepo) List(_ context.Context, activeOnly bool) ([]*domain.Hub, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []*domain.Hub
	for _, name := range domain.HubNames {
		h, ok := f.hubs[name]
		if !ok || (activeOnly && !h.IsActive) {
			continue
		}
		out = append(out, h)
	}
	return out, nil
}

func (f *fakeHubRepo) Upsert(_ context.Context, h *domain.Hub) error {
	f.hubs[h.Name] = h
	return nil
}

func (f *fakeHubRepo) byID(id string) *domain.Hub {
	for _, h := range f.hubs {
		if h.ID == id {
			return h
		}
	}
	return nil
}

// fakeRequestRepo stores requests and joins partner, hub and assignee from sibling fakes.
type fakeRequestRepo struct {
	partners  *fakePartnerRepo
	hubs      *fakeHubRepo
	staff     *fakeStaffRepo
	byID      map[string]*domain.Request
	nextID    int
	createErr error
}

func newFakeRequestRepo(partners *fakePartnerRepo, hubs *fakeHubRepo, staff *fakeStaffRepo) *fakeRequestRepo {
	return &fakeRequestRepo{partners: partners, hubs: hubs, staff: staff, byID: map[string]*domain.Request{}}
}

func (f *fakeRequestRepo) Create(_ context.Context, r *domain.Request) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.nextID++
	r.ID = fmt.Sprintf("00000000-0000-4000-8000-%012d", f.nextID)
	cp := *r
	f.byID[r.ID] = &cp
	return nil
}

func (f *fakeRequestRepo) detail(r *domain.Request) *domain.RequestDetail {
	d := &domain.RequestDetail{Request: *r}
	if p := f.partners.byID(r.PartnerID); p != nil {
		d.Partner = domain.PartnerSummary{ID: p.ID, OrgName: p.OrgName, PocName: p.PocName, PocEmail: p.PocEmail, PocPhone: p.PocPhone}
	}
	if h := f.hubs.byID(r.HubID); h != nil {
		d.Hub = domain.HubSummary{ID: h.ID, Name: h.Name, Timezone: h.Timezone}
	}
	if r.AssignedToID != nil && f.staff != nil {
		if u, ok := f.staff.byID[*r.AssignedToID]; ok {
			d.AssignedTo = &domain.AssigneeSummary{ID: u.ID, FullName: u.FullName, Email: u.Email}
		}
	}
	return d
}

func (f *fakeRequestRepo) GetByID(_ context.Context, id string) (*domain.RequestDetail, error) {
	r, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return f.detail(r), nil
}

func (f *fakeRequestRepo) GetByReference(_ context.Context, ref string) (*domain.RequestDetail, error) {
	for _, r := range f.byID {
		if r.ReferenceCode == ref {
			return f.detail(r), nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeRequestRepo) List(_ context.Context, filter domain.RequestFilter) ([]*domain.RequestDetail, int, error) {
	var matched []*domain.RequestDetail
	for _, r := range f.byID {
		d := f.detail(r)
		if filter.Status != "" && d.Status != filter.Status {
			continue
		}
		if filter.HubName != "" && d.Hub.Name != filter.HubName {
			continue
		}
		if filter.PartnershipType != "" && d.PartnershipType != filter.PartnershipType {
			continue
		}
		if filter.AssignedToID != "" && (d.AssignedToID == nil || *d.AssignedToID != filter.AssignedToID) {
			continue
		}
		matched = append(matched, d)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })
	total := len(matched)
	start := filter.Pagination.Offset()
	if start > total {
		start = total
	}
	end := start + filter.Pagination.Limit
	if end > total {
		end = total
	}
	return matched[start:end], total, nil
}

func (f *fakeRequestRepo) UpdateStatus(_ context.Context, id string, status domain.RequestStatus) error {
	r, ok := f.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	r.Status = status
	return nil
}

func (f *fakeRequestRepo) UpdateAssignee(_ context.Context, id string, assignedToID *string) error {
	r, ok := f.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	r.AssignedToID = assignedToID
	return nil
}

type fakeAuditRepo struct {
	entries []*domain.AuditLogEntry
	err     error
}

func (f *fakeAuditRepo) Create(_ context.Context, e *domain.AuditLogEntry) error {
	if f.err != nil {
		return f.err
	}
	e.ID = fmt.Sprintf("audit-%d", len(f.entries)+1)
	f.entries = append(f.entries, e)
	return nil
}

func (f *fakeAuditRepo) ListByEntity(_ context.Context, entityType, entityID string) ([]*domain.AuditLogEntry, error) {
	var out []*domain.AuditLogEntry
	for _, e := range f.entries {
		if e.EntityType == entityType && e.EntityID == entityID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeAuditRepo) actions(entityType string) []domain.AuditAction {
	var out []domain.AuditAction
	for _, e := range f.entries {
		if e.EntityType == entityType {
			out = append(out, e.Action)
		}
	}
	return out
}

type fakeNotificationRepo struct {
	mu      sync.Mutex
	items   []*domain.Notification
	marked  map[string]string
	listErr error
}

func newFakeNotificationRepo() *fakeNotificationRepo {
	return &fakeNotificationRepo{marked: map[string]string{}}
}

func (f *fakeNotificationRepo) Create(_ context.Context, n *domain.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	n.ID = fmt.Sprintf("notif-%d", len(f.items)+1)
	f.items = append(f.items, n)
	return nil
}

func (f *fakeNotificationRepo) ListFailed(_ context.Context, maxRetries, limit int) ([]*domain.Notification, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []*domain.Notification
	for _, n := range f.items {
		if n.Status == domain.NotificationFailed && n.RetryCount < maxRetries && len(out) < limit {
			out = append(out, n)
		}
	}
	return out, nil
}

func (f *fakeNotificationRepo) find(id string) *domain.Notification {
	for _, n := range f.items {
		if n.ID == id {
			return n
		}
	}
	return nil
}

func (f *fakeNotificationRepo) MarkSent(_ context.Context, id string, sentAt time.Time) error {
	n := f.find(id)
	if n == nil {
		return domain.ErrNotFound
	}
	n.Status = domain.NotificationSent
	n.SentAt = &sentAt
	n.FailedAt = nil
	n.ErrorMessage = nil
	f.marked[id] = "sent"
	return nil
}

func (f *fakeNotificationRepo) MarkRetryFailed(_ context.Context, id, errMsg string, failedAt time.Time) error {
	n := f.find(id)
	if n == nil {
		return domain.ErrNotFound
	}
	n.RetryCount++
	n.ErrorMessage = &errMsg
	n.FailedAt = &failedAt
	f.marked[id] = "failed"
	return nil
}

func (f *fakeNotificationRepo) ListByRequestID(_ context.Context, requestID string) ([]*domain.Notification, error) {
	var out []*domain.Notification
	for _, n := range f.items {
		if n.RequestID != nil && *n.RequestID == requestID {
			out = append(out, n)
		}
	}
	return out, nil
}

type fakeConfigRepo struct {
	values map[string]json.RawMessage
	err    error
}

func (f *fakeConfigRepo) Get(_ context.Context, key string) (json.RawMessage, error) {
	if f.err != nil {
		return nil, f.err
	}
	if v, ok := f.values[key]; ok {
		return v, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeConfigRepo) Set(_ context.Context, key string, value json.RawMessage) error {
	if f.values == nil {
		f.values = map[string]json.RawMessage{}
	}
	f.values[key] = value
	return nil
}

// fakeMailer records sent emails; failN > 0 fails that many sends before succeeding.
type fakeMailer struct {
	sent  []domain.Email
	err   error
	failN int
}

func (f *fakeMailer) Send(_ context.Context, e domain.Email) error {
	if f.failN > 0 {
		f.failN--
		return errors.New("smtp unavailable")
	}
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, e)
	return nil
}

type fakeRenderer struct {
	err error
}

func (f *fakeRenderer) Render(name string, data any) (string, string, string, error) {
	if f.err != nil {
		return "", "", "", f.err
	}
	return "subject:" + name, "<p>" + name + "</p>", name, nil
}

type fakeObjectStore struct {
	puts map[string][]byte
	err  error
}

func newFakeObjectStore() *fakeObjectStore {
	return &fakeObjectStore{puts: map[string][]byte{}}
}

func (f *fakeObjectStore) Put(_ context.Context, key, _ string, body []byte, _ map[string]string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.puts[key] = body
	return "https://files.example.com/" + key, nil
}

func (f *fakeObjectStore) PresignGet(_ context.Context, key string, _ time.Duration) (string, error) {
	return "https://files.example.com/" + key + "?signed", nil
}

func (f *fakeObjectStore) Delete(_ context.Context, key string) error {
	delete(f.puts, key)
	return nil
}

type fakeStaffRepo struct {
	byID      map[string]*domain.StaffUser
	byEmail   map[string]*domain.StaffUser
	createErr error
}

func newFakeStaffRepo() *fakeStaffRepo {
	return &fakeStaffRepo{byID: map[string]*domain.StaffUser{}, byEmail: map[string]*domain.StaffUser{}}
}

func (f *fakeStaffRepo) add(u *domain.StaffUser) *domain.StaffUser {
	f.byID[u.ID] = u
	f.byEmail[u.Email] = u
	return u
}

func (f *fakeStaffRepo) Create(_ context.Context, u *domain.StaffUser) error {
	if f.createErr != nil {
		return f.createErr
	}
	if _, ok := f.byEmail[u.Email]; ok {
		return domain.ErrDuplicateEmail
	}
	u.ID = fmt.Sprintf("staff-%d", len(f.byID)+1)
	f.add(u)
	return nil
}

func (f *fakeStaffRepo) GetByEmail(_ context.Context, email string) (*domain.StaffUser, error) {
	if u, ok := f.byEmail[email]; ok {
		return u, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeStaffRepo) GetByID(_ context.Context, id string) (*domain.StaffUser, error) {
	if u, ok := f.byID[id]; ok {
		return u, nil
	}
	return nil, domain.ErrNotFound
}

// fakePasswordHasher accepts a password when hash == "hash-"+password.
type fakePasswordHasher struct{}

func (fakePasswordHasher) GenerateSalt() (string, error) { return "salt", nil }
func (fakePasswordHasher) Hash(_, password string) (string, error) {
	return "hash-" + password, nil
}
func (fakePasswordHasher) Compare(hash, _, password string) error {
	if hash != "hash-"+password {
		return errors.New("mismatch")
	}
	return nil
}

type fakeTokenIssuer struct {
	err error
}

func (f *fakeTokenIssuer) Issue(userID, _ string, role domain.StaffRole, _ time.Duration) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return "token-" + userID + "-" + string(role), nil
}
