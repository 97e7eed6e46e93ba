package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"partnershipintake/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var hubRowColumns = []string{"id", "name", "timezone", "open_time", "close_time", "address", "capacity", "is_active", "created_at", "updated_at"}

func TestHubRepository_List(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		activeOnly bool
		pattern    string
	}{
		{name: "active only", activeOnly: true, pattern: `FROM hubs WHERE is_active = TRUE ORDER BY name ASC`},
		{name: "all hubs", activeOnly: false, pattern: `FROM hubs ORDER BY name ASC`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			mock.ExpectQuery(tt.pattern).
				WillReturnRows(sqlmock.NewRows(hubRowColumns).
					AddRow("hub-1", "CAPSTONE", "Africa/Nairobi", "09:00", "20:00", "Westlands", 200, true, now, now).
					AddRow("hub-3", "VIRTUAL", "Africa/Nairobi", "00:00", "23:59", nil, nil, true, now, now))

			hubs, err := NewHubRepository(db).List(ctx, tt.activeOnly)
			require.NoError(t, err)
			require.Len(t, hubs, 2)
			assert.Equal(t, domain.HubCapstone, hubs[0].Name)
			require.NotNil(t, hubs[0].Capacity)
			assert.Equal(t, 200, *hubs[0].Capacity)
			assert.Nil(t, hubs[1].Address)
			assert.Nil(t, hubs[1].Capacity)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestHubRepository_GetByName(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`FROM hubs WHERE name = \$1`).WithArgs("CITYPOINT").WillReturnError(sql.ErrNoRows)

	_, err = NewHubRepository(db).GetByName(context.Background(), domain.HubCitypoint)
	require.ErrorIs(t, err, domain.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestHubRepository_Upsert(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	capacity := 120
	hub := &domain.Hub{Name: domain.HubCitypoint, Timezone: "Africa/Nairobi", OpenTime: "09:00", CloseTime: "20:00", Capacity: &capacity, IsActive: true}
	mock.ExpectQuery(`INSERT INTO hubs .* ON CONFLICT \(name\) DO UPDATE`).
		WithArgs("CITYPOINT", "Africa/Nairobi", "09:00", "20:00", nil, 120, true).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow("hub-2", now, now))

	require.NoError(t, NewHubRepository(db).Upsert(context.Background(), hub))
	assert.Equal(t, "hub-2", hub.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}
