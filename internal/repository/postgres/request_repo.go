package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"partnershipintake/internal/domain"
)

type requestRepository struct {
	DB *sql.DB
}

func NewRequestRepository(db *sql.DB) domain.RequestRepository {
	return &requestRepository{DB: db}
}

const requestDetailSelect = `
	SELECT r.id, r.reference_code, r.partner_id, r.hub_id, r.event_title, r.event_desc, r.partnership_type,
		r.requested_date, r.start_time, r.end_time, r.attendee_count, r.status, r.assigned_to_id,
		r.concept_note_url, r.concept_note_key, r.logo_url, r.logo_key, r.submission_data, r.created_at, r.updated_at,
		p.id, p.org_name, p.poc_name, p.poc_email, p.poc_phone,
		h.id, h.name, h.timezone,
		s.id, s.full_name, s.email
	FROM requests r
	JOIN partners p ON p.id = r.partner_id
	JOIN hubs h ON h.id = r.hub_id
	LEFT JOIN staff_users s ON s.id = r.assigned_to_id
`

func scanRequestDetail(s rowScanner) (*domain.RequestDetail, error) {
	d := &domain.RequestDetail{}
	var assignedTo, conceptURL, conceptKey, logoURL, logoKey sql.NullString
	var staffID, staffName, staffEmail sql.NullString
	var submission []byte
	err := s.Scan(
		&d.ID, &d.ReferenceCode, &d.PartnerID, &d.HubID, &d.EventTitle, &d.EventDesc, &d.PartnershipType,
		&d.RequestedDate, &d.StartTime, &d.EndTime, &d.AttendeeCount, &d.Status, &assignedTo,
		&conceptURL, &conceptKey, &logoURL, &logoKey, &submission, &d.CreatedAt, &d.UpdatedAt,
		&d.Partner.ID, &d.Partner.OrgName, &d.Partner.PocName, &d.Partner.PocEmail, &d.Partner.PocPhone,
		&d.Hub.ID, &d.Hub.Name, &d.Hub.Timezone,
		&staffID, &staffName, &staffEmail,
	)
	if err != nil {
		return nil, err
	}
	d.AssignedToID = stringPtr(assignedTo)
	d.ConceptNoteURL = stringPtr(conceptURL)
	d.ConceptNoteKey = stringPtr(conceptKey)
	d.LogoURL = stringPtr(logoURL)
	d.LogoKey = stringPtr(logoKey)
	if len(submission) > 0 {
		d.SubmissionData = json.RawMessage(submission)
	}
	if staffID.Valid {
		d.AssignedTo = &domain.AssigneeSummary{ID: staffID.String, FullName: staffName.String, Email: staffEmail.String}
	}
	return d, nil
}

func (r *requestRepository) Create(ctx context.Context, req *domain.Request) error {
	query := `
		INSERT INTO requests (reference_code, partner_id, hub_id, event_title, event_desc, partnership_type,
			requested_date, start_time, end_time, attendee_count, status, assigned_to_id,
			concept_note_url, concept_note_key, logo_url, logo_key, submission_data, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
		RETURNING id
	`
	submission := nullJSON(req.SubmissionData)
	if submission == nil {
		submission = "{}"
	}
	return r.DB.QueryRowContext(ctx, query,
		req.ReferenceCode, req.PartnerID, req.HubID, req.EventTitle, req.EventDesc, string(req.PartnershipType),
		req.RequestedDate, req.StartTime, req.EndTime, req.AttendeeCount, string(req.Status), nullString(req.AssignedToID),
		nullString(req.ConceptNoteURL), nullString(req.ConceptNoteKey), nullString(req.LogoURL), nullString(req.LogoKey),
		submission, req.CreatedAt, req.UpdatedAt,
	).Scan(&req.ID)
}

func (r *requestRepository) GetByID(ctx context.Context, id string) (*domain.RequestDetail, error) {
	return r.getOne(ctx, requestDetailSelect+` WHERE r.id = $1`, id)
}

func (r *requestRepository) GetByReference(ctx context.Context, reference string) (*domain.RequestDetail, error) {
	return r.getOne(ctx, requestDetailSelect+` WHERE r.reference_code = $1`, reference)
}

func (r *requestRepository) getOne(ctx context.Context, query string, arg string) (*domain.RequestDetail, error) {
	d, err := scanRequestDetail(r.DB.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return d, nil
}

// List applies equality filters, orders newest first and returns one page plus the filtered total.
func (r *requestRepository) List(ctx context.Context, f domain.RequestFilter) ([]*domain.RequestDetail, int, error) {
	var conds []string
	var args []any
	add := func(cond string, v any) {
		args = append(args, v)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}
	if f.Status != "" {
		add("r.status = $%d", string(f.Status))
	}
	if f.HubName != "" {
		add("h.name = $%d", string(f.HubName))
	}
	if f.PartnershipType != "" {
		add("r.partnership_type = $%d", string(f.PartnershipType))
	}
	if f.AssignedToID != "" {
		add("r.assigned_to_id = $%d", f.AssignedToID)
	}
	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM requests r JOIN hubs h ON h.id = r.hub_id` + where
	if err := r.DB.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	listArgs := append(append([]any{}, args...), f.Pagination.Limit, f.Pagination.Offset())
	query := requestDetailSelect + where +
		fmt.Sprintf(` ORDER BY r.created_at DESC LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	rows, err := r.DB.QueryContext(ctx, query, listArgs...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	items := []*domain.RequestDetail{}
	for rows.Next() {
		d, err := scanRequestDetail(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, d)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *requestRepository) UpdateStatus(ctx context.Context, id string, status domain.RequestStatus) error {
	return execOne(ctx, r.DB, `UPDATE requests SET status = $1, updated_at = NOW() WHERE id = $2`, string(status), id)
}

func (r *requestRepository) UpdateAssignee(ctx context.Context, id string, assignedToID *string) error {
	return execOne(ctx, r.DB, `UPDATE requests SET assigned_to_id = $1, updated_at = NOW() WHERE id = $2`, nullString(assignedToID), id)
}
