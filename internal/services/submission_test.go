package services

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"partnershipintake/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Monday; 2025-03-24 is exactly 15 business days later.
var submitNow = time.Date(2025, 3, 3, 10, 30, 0, 0, time.UTC)

type submissionFixture struct {
	svc       *submissionService
	partners  *fakePartnerRepo
	hubs      *fakeHubRepo
	requests  *fakeRequestRepo
	audit     *fakeAuditRepo
	config    *fakeConfigRepo
	limits    *fakeRateLimitRepo
	store     *fakeObjectStore
	notifRepo *fakeNotificationRepo
	mailer    *fakeMailer
}

func newSubmissionFixture() *submissionFixture {
	f := &submissionFixture{
		partners:  newFakePartnerRepo(),
		hubs:      newFakeHubRepo(),
		audit:     &fakeAuditRepo{},
		config:    &fakeConfigRepo{},
		limits:    &fakeRateLimitRepo{},
		store:     newFakeObjectStore(),
		notifRepo: newFakeNotificationRepo(),
		mailer:    &fakeMailer{},
	}
	f.requests = newFakeRequestRepo(f.partners, f.hubs, nil)
	dispatcher := NewNotificationDispatcher(f.notifRepo, f.mailer, &fakeRenderer{}, discardLogger())
	svc := NewSubmissionService(
		f.partners, f.hubs, f.requests, f.audit, f.config,
		NewRateLimiter(f.limits, fixedClock(submitNow)),
		NewFileIntake(f.store),
		dispatcher,
		SubmissionConfig{AdminCC: []string{"partnerships@example.com"}, AppURL: "https://partners.example.com/"},
		discardLogger(),
	)
	f.svc = svc.(*submissionService)
	f.svc.now = fixedClock(submitNow)
	return f
}

func validForm() domain.Submission {
	return domain.Submission{
		OrgName:           "Acme Foundation",
		PocName:           "Jane Doe",
		PocEmail:          "Jane@Acme.org",
		PocPhone:          "+254 712 345 678",
		OrgURL:            "https://acme.org",
		MissionAlign:      true,
		CobrandingConsent: true,
		EventTitle:        "Women in Tech Meetup",
		EventDesc:         "An evening of lightning talks.",
		PartnershipType:   "event",
		TargetHub:         "capstone",
		EventDate:         "2025-03-24",
		StartTime:         "10:00",
		EndTime:           "12:00",
		AttendeeCount:     "50",
	}
}

func validFiles() domain.SubmissionFiles {
	return domain.SubmissionFiles{ConceptNote: pdfFile("concept.pdf"), Logo: pngFile("logo.png")}
}

var source = domain.SourceInfo{IPAddress: "10.0.0.1", UserAgent: "test"}

func TestSubmissionService_Submit_endToEnd(t *testing.T) {
	f := newSubmissionFixture()

	res, err := f.svc.Submit(context.Background(), validForm(), validFiles(), source)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusNew, res.Status)
	assert.Equal(t, domain.NotificationSent, res.NotificationStatus)
	assert.Regexp(t, `^PR-[0-9A-Z]+-[A-Z2-9]{4}$`, res.ReferenceCode)

	req, err := f.requests.GetByID(context.Background(), res.RequestID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusNew, req.Status)
	assert.Equal(t, domain.HubCapstone, req.Hub.Name)
	assert.Equal(t, domain.PartnershipEvent, req.PartnershipType)
	assert.Equal(t, 50, req.AttendeeCount)
	assert.Equal(t, time.Date(2025, 3, 24, 0, 0, 0, 0, time.UTC), req.RequestedDate)
	assert.Equal(t, "jane@acme.org", req.Partner.PocEmail)
	assert.Equal(t, "+254712345678", req.Partner.PocPhone)
	require.NotNil(t, req.ConceptNoteKey)
	assert.True(t, strings.HasPrefix(*req.ConceptNoteKey, "concept-notes/"))
	require.NotNil(t, req.LogoKey)
	assert.True(t, strings.HasPrefix(*req.LogoKey, "logos/"))
	assert.Len(t, f.store.puts, 2)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(req.SubmissionData, &raw))
	assert.Equal(t, "Acme Foundation", raw["org_name"])

	assert.Equal(t, []domain.AuditAction{domain.AuditCreate}, f.audit.actions(domain.EntityRequest))
	assert.Equal(t, []domain.AuditAction{domain.AuditCreate}, f.audit.actions(domain.EntityPartner))
	assert.Equal(t, "10.0.0.1", f.audit.entries[len(f.audit.entries)-1].IPAddress)

	require.Len(t, f.notifRepo.items, 1, "exactly one notification per submission")
	n := f.notifRepo.items[0]
	assert.Equal(t, domain.TemplateSubmissionReceipt, n.TemplateName)
	assert.Equal(t, "jane@acme.org", n.RecipientEmail)
	assert.Equal(t, []string{"partnerships@example.com"}, n.CC)
	require.NotNil(t, n.RequestID)
	assert.Equal(t, res.RequestID, *n.RequestID)
	var data map[string]string
	require.NoError(t, json.Unmarshal(n.TemplateData, &data))
	assert.Equal(t, "https://partners.example.com/track/"+res.ReferenceCode, data["TrackURL"])
	assert.Equal(t, "Monday, 24 March 2025", data["EventDate"])
}

func TestSubmissionService_Submit_receiptFailureKeepsRequest(t *testing.T) {
	f := newSubmissionFixture()
	f.mailer.err = errors.New("ses down")

	res, err := f.svc.Submit(context.Background(), validForm(), validFiles(), source)
	require.NoError(t, err)
	assert.Equal(t, domain.NotificationFailed, res.NotificationStatus)
	assert.Len(t, f.requests.byID, 1)
	require.Len(t, f.notifRepo.items, 1)
	assert.Equal(t, domain.NotificationFailed, f.notifRepo.items[0].Status)
}

func TestSubmissionService_Submit_samePartnerTwice(t *testing.T) {
	f := newSubmissionFixture()
	ctx := context.Background()

	first, err := f.svc.Submit(ctx, validForm(), validFiles(), source)
	require.NoError(t, err)

	second := validForm()
	second.PocEmail = "jane@acme.org"
	second.PocName = "Jane D."
	second.EventTitle = "Follow-up Workshop"
	res2, err := f.svc.Submit(ctx, second, validFiles(), source)
	require.NoError(t, err)

	assert.Len(t, f.partners.byEmail, 1, "one partner per contact email")
	assert.Len(t, f.requests.byID, 2)
	r1, _ := f.requests.GetByID(ctx, first.RequestID)
	r2, _ := f.requests.GetByID(ctx, res2.RequestID)
	assert.Equal(t, r1.PartnerID, r2.PartnerID)
	assert.Equal(t, "Jane D.", r2.Partner.PocName, "contact details are refreshed")
	assert.NotEmpty(t, res2.ReferenceCode)
	assert.Len(t, f.audit.actions(domain.EntityPartner), 1)
}

func TestSubmissionService_Submit_rateLimited(t *testing.T) {
	f := newSubmissionFixture()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		form := validForm()
		form.AttendeeCount = "0"
		_, err := f.svc.Submit(ctx, form, validFiles(), source)
		var ve *domain.ValidationError
		require.True(t, errors.As(err, &ve), "attempt %d counts even when invalid", i+1)
	}

	_, err := f.svc.Submit(ctx, validForm(), validFiles(), source)
	require.ErrorIs(t, err, domain.ErrRateLimited)
	var rle *domain.RateLimitError
	require.True(t, errors.As(err, &rle))
	assert.Equal(t, submitNow.Add(time.Hour), rle.ResetAt)
	assert.Empty(t, f.requests.byID, "no mutation after rate limiting")
	assert.Empty(t, f.store.puts)

	_, err = f.svc.Submit(ctx, validForm(), validFiles(), domain.SourceInfo{IPAddress: "10.0.0.9"})
	require.NoError(t, err)
}

func TestSubmissionService_Submit_validation(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		mutate     func(*domain.Submission, *domain.SubmissionFiles)
		wantFields map[string]string
	}{
		{
			name: "too soon and outside hours",
			mutate: func(s *domain.Submission, _ *domain.SubmissionFiles) {
				s.EventDate = "2025-03-21"
				s.StartTime = "08:59"
			},
			wantFields: map[string]string{
				"event_date": "Event must be scheduled at least 15 business days in advance",
				"start_time": "Start time must be within hub operating hours (09:00 - 20:00)",
			},
		},
		{
			name: "missing concept note and bad logo",
			mutate: func(_ *domain.Submission, f *domain.SubmissionFiles) {
				f.ConceptNote = nil
				f.Logo = pdfFile("logo.pdf")
			},
			wantFields: map[string]string{
				"file_concept": "Concept note is required",
				"file_logo":    "Logo must be a PNG or JPEG image",
			},
		},
		{
			name: "end before start",
			mutate: func(s *domain.Submission, _ *domain.SubmissionFiles) {
				s.StartTime = "15:00"
				s.EndTime = "14:00"
			},
			wantFields: map[string]string{"end_time": "End time must be after start time"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newSubmissionFixture()
			form, files := validForm(), validFiles()
			tt.mutate(&form, &files)

			_, err := f.svc.Submit(ctx, form, files, source)
			var ve *domain.ValidationError
			require.True(t, errors.As(err, &ve), "got %v", err)
			assert.Equal(t, tt.wantFields, ve.Fields)
			assert.Empty(t, f.partners.byEmail)
			assert.Empty(t, f.store.puts)
			assert.Empty(t, f.notifRepo.items)
		})
	}
}

func TestSubmissionService_Submit_holidayShiftsBoundary(t *testing.T) {
	f := newSubmissionFixture()
	require.NoError(t, f.config.Set(context.Background(), domain.ConfigKeyHolidays, []byte(`["2025-03-17"]`)))

	_, err := f.svc.Submit(context.Background(), validForm(), validFiles(), source)
	var ve *domain.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Contains(t, ve.Fields, "event_date")
}

func TestSubmissionService_Submit_hubWindowFromConfig(t *testing.T) {
	f := newSubmissionFixture()
	f.hubs.hubs[domain.HubCapstone].CloseTime = "18:00"

	form := validForm()
	form.StartTime = "17:00"
	form.EndTime = "19:00"
	_, err := f.svc.Submit(context.Background(), form, validFiles(), source)
	var ve *domain.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "End time must be within hub operating hours (09:00 - 18:00)", ve.Fields["end_time"])
}

func TestSubmissionService_Submit_unknownHub(t *testing.T) {
	f := newSubmissionFixture()
	delete(f.hubs.hubs, domain.HubCapstone)

	_, err := f.svc.Submit(context.Background(), validForm(), validFiles(), source)
	require.ErrorIs(t, err, domain.ErrUnknownHub)
	assert.Empty(t, f.requests.byID)
	assert.Empty(t, f.store.puts)
}

func TestSubmissionService_Submit_storageFailure(t *testing.T) {
	f := newSubmissionFixture()
	f.store.err = errors.New("bucket unreachable")

	_, err := f.svc.Submit(context.Background(), validForm(), validFiles(), source)
	require.ErrorIs(t, err, domain.ErrStorage)
	assert.Empty(t, f.requests.byID)
	assert.Empty(t, f.notifRepo.items)
}

func TestSubmissionService_Submit_persistenceFailure(t *testing.T) {
	f := newSubmissionFixture()
	f.requests.createErr = errors.New("insert failed")

	_, err := f.svc.Submit(context.Background(), validForm(), validFiles(), source)
	require.Error(t, err)
	var ve *domain.ValidationError
	assert.False(t, errors.As(err, &ve))
	assert.Empty(t, f.notifRepo.items)
}
