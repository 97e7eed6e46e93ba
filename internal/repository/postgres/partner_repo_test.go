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

func TestPartnerRepository_Upsert(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 3, 3, 10, 0, 0, 0, time.UTC)
	earlier := time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name          string
		mock          func(mock sqlmock.Sqlmock)
		wantCreated   bool
		wantCreatedAt time.Time
		wantErr       bool
	}{
		{
			name: "new email inserts",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO partners`).
					WithArgs("Acme", "Jane", "jane@acme.org", "+254712345678", nil, now, now).
					WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at", "inserted"}).
						AddRow("partner-1", now, now, true))
			},
			wantCreated:   true,
			wantCreatedAt: now,
		},
		{
			name: "existing email updates contact fields",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`ON CONFLICT \(poc_email\) DO UPDATE`).
					WithArgs("Acme", "Jane", "jane@acme.org", "+254712345678", nil, now, now).
					WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at", "inserted"}).
						AddRow("partner-1", earlier, now, false))
			},
			wantCreated:   false,
			wantCreatedAt: earlier,
		},
		{
			name: "db error",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO partners`).WillReturnError(sql.ErrConnDone)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			repo := NewPartnerRepository(db)
			p := domain.NewPartner("Acme", "Jane", "jane@acme.org", "+254712345678", nil, now, now)
			created, err := repo.Upsert(ctx, p)
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.wantCreated, created)
				assert.Equal(t, "partner-1", p.ID)
				assert.Equal(t, tt.wantCreatedAt, p.CreatedAt)
			}
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestPartnerRepository_GetByEmail(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 3, 3, 10, 0, 0, 0, time.UTC)

	t.Run("found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`FROM partners`).
			WithArgs("jane@acme.org").
			WillReturnRows(sqlmock.NewRows([]string{"id", "org_name", "poc_name", "poc_email", "poc_phone", "org_url", "created_at", "updated_at"}).
				AddRow("partner-1", "Acme", "Jane", "jane@acme.org", "+254712345678", "https://acme.org", now, now))

		p, err := NewPartnerRepository(db).GetByEmail(ctx, "jane@acme.org")
		require.NoError(t, err)
		assert.Equal(t, "Acme", p.OrgName)
		require.NotNil(t, p.OrgURL)
		assert.Equal(t, "https://acme.org", *p.OrgURL)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`FROM partners`).WithArgs("nobody@acme.org").WillReturnError(sql.ErrNoRows)

		_, err = NewPartnerRepository(db).GetByEmail(ctx, "nobody@acme.org")
		require.ErrorIs(t, err, domain.ErrNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}
