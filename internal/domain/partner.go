package domain

import (
	"context"
	"time"
)

// Partner is the organization behind one or more requests. PocEmail is the stable matching key.
// swagger:model Partner
type Partner struct {
	ID        string    `json:"id"`
	OrgName   string    `json:"org_name"`
	PocName   string    `json:"poc_name"`
	PocEmail  string    `json:"poc_email"`
	PocPhone  string    `json:"poc_phone"`
	OrgURL    *string   `json:"org_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewPartner returns a Partner with the given contact fields. ID is set by the repository.
func NewPartner(orgName, pocName, pocEmail, pocPhone string, orgURL *string, createdAt, updatedAt time.Time) *Partner {
	return &Partner{
		OrgName:   orgName,
		PocName:   pocName,
		PocEmail:  pocEmail,
		PocPhone:  pocPhone,
		OrgURL:    orgURL,
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}
}

// PartnerRepository defines storage for partners.
type PartnerRepository interface {
	// Upsert inserts the partner or, when poc_email already exists, updates the mutable
	// contact fields. It sets ID, CreatedAt and UpdatedAt from the stored row and reports
	// whether a new row was created.
	Upsert(ctx context.Context, p *Partner) (created bool, err error)
	GetByEmail(ctx context.Context, email string) (*Partner, error)
}
