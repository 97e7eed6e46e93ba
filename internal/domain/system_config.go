package domain

import (
	"context"
	"encoding/json"
)

// ConfigKeyHolidays holds a JSON array of YYYY-MM-DD dates that are not business days.
const ConfigKeyHolidays = "holidays"

// SystemConfigRepository stores static configuration values keyed by string.
type SystemConfigRepository interface {
	// Get returns ErrNotFound when the key is absent.
	Get(ctx context.Context, key string) (json.RawMessage, error)
	Set(ctx context.Context, key string, value json.RawMessage) error
}
