package domain

import (
	"context"
	"time"
)

// Submission is the raw public intake form. Values are as received, trimmed.
type Submission struct {
	OrgName           string `json:"org_name" validate:"required,max=150"`
	PocName           string `json:"poc_name" validate:"required,max=100"`
	PocEmail          string `json:"poc_email" validate:"required,email"`
	PocPhone          string `json:"poc_phone" validate:"required,intl_phone"`
	OrgURL            string `json:"org_url,omitempty" validate:"omitempty,url"`
	MissionAlign      bool   `json:"mission_align" validate:"accepted"`
	CobrandingConsent bool   `json:"cobranding_consent" validate:"accepted"`
	EventTitle        string `json:"event_title" validate:"required,max=100"`
	EventDesc         string `json:"event_desc" validate:"required,max=1000"`
	PartnershipType   string `json:"partnership_type" validate:"required,partnership_type"`
	TargetHub         string `json:"target_hub" validate:"required,hub_name"`
	EventDate         string `json:"event_date" validate:"required"`
	StartTime         string `json:"start_time" validate:"required,hhmm"`
	EndTime           string `json:"end_time" validate:"required,hhmm"`
	AttendeeCount     string `json:"attendee_count" validate:"required"`
}

// ValidatedSubmission is a Submission whose fields passed validation, with typed values.
type ValidatedSubmission struct {
	Submission
	PartnershipType PartnershipType
	Hub             HubName
	EventDate       time.Time
	AttendeeCount   int
}

// SubmissionFiles are the optional file parts of a submission.
type SubmissionFiles struct {
	ConceptNote *UploadedFile
	Logo        *UploadedFile
}

// SourceInfo identifies where a submission came from.
type SourceInfo struct {
	IPAddress string
	UserAgent string
}

// SubmitResult is returned for an accepted submission. NotificationStatus reports the
// receipt outcome separately from the created request.
type SubmitResult struct {
	RequestID          string             `json:"request_id"`
	ReferenceCode      string             `json:"reference_code"`
	Status             RequestStatus      `json:"status"`
	NotificationStatus NotificationStatus `json:"notification_status"`
}

// SubmissionService runs the public submission lifecycle.
type SubmissionService interface {
	Submit(ctx context.Context, form Submission, files SubmissionFiles, source SourceInfo) (*SubmitResult, error)
}
