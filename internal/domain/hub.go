package domain

import (
	"context"
	"time"
)

// HubName is one of the fixed venues.
type HubName string

const (
	HubCapstone  HubName = "CAPSTONE"
	HubCitypoint HubName = "CITYPOINT"
	HubVirtual   HubName = "VIRTUAL"
)

// HubNames lists every hub in display order.
var HubNames = []HubName{HubCapstone, HubCitypoint, HubVirtual}

// Valid reports whether n is a known hub.
func (n HubName) Valid() bool {
	for _, h := range HubNames {
		if h == n {
			return true
		}
	}
	return false
}

// Default operating window applied when a hub has none configured.
const (
	DefaultOpenTime  = "09:00"
	DefaultCloseTime = "20:00"
	DefaultTimezone  = "Africa/Nairobi"
)

// Hub is a physical or virtual venue.
// swagger:model Hub
type Hub struct {
	ID        string    `json:"id" yaml:"-"`
	Name      HubName   `json:"name" yaml:"name"`
	Timezone  string    `json:"timezone" yaml:"timezone"`
	OpenTime  string    `json:"open_time" yaml:"open_time"`
	CloseTime string    `json:"close_time" yaml:"close_time"`
	Address   *string   `json:"address,omitempty" yaml:"address,omitempty"`
	Capacity  *int      `json:"capacity,omitempty" yaml:"capacity,omitempty"`
	IsActive  bool      `json:"is_active" yaml:"is_active"`
	CreatedAt time.Time `json:"created_at" yaml:"-"`
	UpdatedAt time.Time `json:"updated_at" yaml:"-"`
}

// HubRepository defines storage for hubs.
type HubRepository interface {
	GetByName(ctx context.Context, name HubName) (*Hub, error)
	List(ctx context.Context, activeOnly bool) ([]*Hub, error)
	// Upsert creates the hub or updates it by name. Used by seeding.
	Upsert(ctx context.Context, hub *Hub) error
}
