package domain

import (
	"context"
	"encoding/json"
	"time"
)

// RequestStatus is the review state of a partnership request.
type RequestStatus string

const (
	StatusNew         RequestStatus = "NEW"
	StatusUnderReview RequestStatus = "UNDER_REVIEW"
	StatusApproved    RequestStatus = "APPROVED"
	StatusRejected    RequestStatus = "REJECTED"
	StatusScheduled   RequestStatus = "SCHEDULED"
	StatusCompleted   RequestStatus = "COMPLETED"
	StatusCancelled   RequestStatus = "CANCELLED"
)

// RequestStatuses lists every status in workflow order.
var RequestStatuses = []RequestStatus{
	StatusNew, StatusUnderReview, StatusApproved, StatusRejected,
	StatusScheduled, StatusCompleted, StatusCancelled,
}

// Valid reports whether s is a known status.
func (s RequestStatus) Valid() bool {
	for _, v := range RequestStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// statusTransitions is the directed graph of legal status changes.
// Statuses without an entry are terminal.
var statusTransitions = map[RequestStatus][]RequestStatus{
	StatusNew:         {StatusUnderReview, StatusRejected, StatusCancelled},
	StatusUnderReview: {StatusApproved, StatusRejected, StatusCancelled},
	StatusApproved:    {StatusScheduled, StatusCancelled},
	StatusScheduled:   {StatusCompleted, StatusCancelled},
}

// CanTransitionTo reports whether a request in status s may move to next.
// Staying in the same status is always allowed.
func (s RequestStatus) CanTransitionTo(next RequestStatus) bool {
	if s == next {
		return true
	}
	for _, allowed := range statusTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transitions leave s.
func (s RequestStatus) IsTerminal() bool {
	return len(statusTransitions[s]) == 0
}

// PartnershipType categorizes a request.
type PartnershipType string

const (
	PartnershipSpeaker     PartnershipType = "SPEAKER"
	PartnershipEvent       PartnershipType = "EVENT"
	PartnershipRecruitment PartnershipType = "RECRUITMENT"
	PartnershipSponsorship PartnershipType = "SPONSORSHIP"
	PartnershipOther       PartnershipType = "OTHER"
)

// PartnershipTypes lists every partnership type.
var PartnershipTypes = []PartnershipType{
	PartnershipSpeaker, PartnershipEvent, PartnershipRecruitment, PartnershipSponsorship, PartnershipOther,
}

// Valid reports whether t is a known partnership type.
func (t PartnershipType) Valid() bool {
	for _, v := range PartnershipTypes {
		if v == t {
			return true
		}
	}
	return false
}

// Request is a partnership application.
// swagger:model Request
type Request struct {
	ID              string          `json:"id"`
	ReferenceCode   string          `json:"reference_code"`
	PartnerID       string          `json:"partner_id"`
	HubID           string          `json:"hub_id"`
	EventTitle      string          `json:"event_title"`
	EventDesc       string          `json:"event_desc"`
	PartnershipType PartnershipType `json:"partnership_type"`
	RequestedDate   time.Time       `json:"requested_date"`
	StartTime       string          `json:"start_time"`
	EndTime         string          `json:"end_time"`
	AttendeeCount   int             `json:"attendee_count"`
	Status          RequestStatus   `json:"status"`
	AssignedToID    *string         `json:"assigned_to_id,omitempty"`
	ConceptNoteURL  *string         `json:"concept_note_url,omitempty"`
	ConceptNoteKey  *string         `json:"concept_note_key,omitempty"`
	LogoURL         *string         `json:"logo_url,omitempty"`
	LogoKey         *string         `json:"logo_key,omitempty"`
	SubmissionData  json.RawMessage `json:"submission_data,omitempty" swaggertype:"object"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// PartnerSummary is the partner data joined onto request reads.
type PartnerSummary struct {
	ID       string `json:"id"`
	OrgName  string `json:"org_name"`
	PocName  string `json:"poc_name"`
	PocEmail string `json:"poc_email"`
	PocPhone string `json:"poc_phone"`
}

// HubSummary is the hub data joined onto request reads.
type HubSummary struct {
	ID       string  `json:"id"`
	Name     HubName `json:"name"`
	Timezone string  `json:"timezone"`
}

// AssigneeSummary is the staff data joined onto request reads.
type AssigneeSummary struct {
	ID       string `json:"id"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
}

// RequestDetail bundles a request with its related summaries.
// swagger:model RequestDetail
type RequestDetail struct {
	Request
	Partner    PartnerSummary   `json:"partner"`
	Hub        HubSummary       `json:"hub"`
	AssignedTo *AssigneeSummary `json:"assigned_to,omitempty"`
}

// RequestTracking is the public, contact-free view of a request.
// swagger:model RequestTracking
type RequestTracking struct {
	ReferenceCode   string          `json:"reference_code"`
	EventTitle      string          `json:"event_title"`
	PartnershipType PartnershipType `json:"partnership_type"`
	Hub             HubName         `json:"hub"`
	RequestedDate   time.Time       `json:"requested_date"`
	StartTime       string          `json:"start_time"`
	EndTime         string          `json:"end_time"`
	Status          RequestStatus   `json:"status"`
	SubmittedAt     time.Time       `json:"submitted_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// RequestFilter holds equality filters and pagination for listing requests.
type RequestFilter struct {
	Status          RequestStatus
	HubName         HubName
	PartnershipType PartnershipType
	AssignedToID    string
	Pagination      PaginationParams
}

// RequestPage is one page of request results.
type RequestPage struct {
	Items      []*RequestDetail `json:"items"`
	Total      int              `json:"total"`
	Page       int              `json:"page"`
	Limit      int              `json:"limit"`
	TotalPages int              `json:"total_pages"`
}

// RequestUpdate is a staff change to a request. Nil fields are unchanged.
type RequestUpdate struct {
	Status       *RequestStatus
	AssignedToID *string
	Comment      *string
}

// Actor identifies who performed a staff action and from where.
type Actor struct {
	UserID    string
	IPAddress string
}

// RequestRepository defines storage for requests.
type RequestRepository interface {
	Create(ctx context.Context, req *Request) error
	GetByID(ctx context.Context, id string) (*RequestDetail, error)
	GetByReference(ctx context.Context, reference string) (*RequestDetail, error)
	List(ctx context.Context, filter RequestFilter) (items []*RequestDetail, total int, err error)
	UpdateStatus(ctx context.Context, id string, status RequestStatus) error
	UpdateAssignee(ctx context.Context, id string, assignedToID *string) error
}

// RequestService defines staff-facing and public read operations on requests.
type RequestService interface {
	List(ctx context.Context, filter RequestFilter) (*RequestPage, error)
	GetByID(ctx context.Context, id string) (*RequestDetail, error)
	Track(ctx context.Context, reference string) (*RequestTracking, error)
	Update(ctx context.Context, id string, update RequestUpdate, actor Actor) (*RequestDetail, error)
	ListHubs(ctx context.Context) ([]*Hub, error)
	ListNotifications(ctx context.Context, requestID string) ([]*Notification, error)
	ListAuditLog(ctx context.Context, requestID string) ([]*AuditLogEntry, error)
}
