package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"conferencecentral/internal/domain"
)

func TestProfileRepository_GetByUserID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`FROM profiles`).
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows([]string{
			"user_id", "display_name", "email", "tee_shirt_size", "created_at", "updated_at",
		}).AddRow("user-1", "Grace", "grace@example.com", "M_W", now, now))
	mock.ExpectQuery(`SELECT conference_id FROM registrations`).
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows([]string{"conference_id"}).AddRow("conf-1"))
	mock.ExpectQuery(`SELECT session_id FROM wishlist_sessions`).
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows([]string{"session_id"}).AddRow("sess-1").AddRow("sess-2"))

	repo := NewProfileRepository(db)
	prof, err := repo.GetByUserID(context.Background(), "user-1")
	require.NoError(t, err)
	require.Equal(t, "Grace", prof.DisplayName)
	require.Equal(t, domain.TeeShirtSize("M_W"), prof.TeeShirtSize)
	require.Equal(t, []string{"conf-1"}, prof.ConferenceIDs)
	require.Equal(t, []string{"sess-1", "sess-2"}, prof.WishlistSessionIDs)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProfileRepository_GetByUserID_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`FROM profiles`).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}))

	repo := NewProfileRepository(db)
	_, err = repo.GetByUserID(context.Background(), "missing")
	require.True(t, errors.Is(err, domain.ErrNotFound))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProfileRepository_AddWishlistSession(t *testing.T) {
	tests := []struct {
		name      string
		rows      int64
		wantAdded bool
	}{
		{name: "new entry", rows: 1, wantAdded: true},
		{name: "duplicate is a no-op", rows: 0, wantAdded: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			mock.ExpectExec(`INSERT INTO wishlist_sessions`).
				WithArgs("user-1", "sess-1", sqlmock.AnyArg()).
				WillReturnResult(sqlmock.NewResult(0, tt.rows))

			repo := NewProfileRepository(db)
			added, err := repo.AddWishlistSession(context.Background(), "user-1", "sess-1")
			require.NoError(t, err)
			require.Equal(t, tt.wantAdded, added)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestProfileRepository_Update_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`UPDATE profiles`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := NewProfileRepository(db)
	err = repo.Update(context.Background(), &domain.Profile{UserID: "missing"})
	require.True(t, errors.Is(err, domain.ErrNotFound))
	require.NoError(t, mock.ExpectationsWereMet())
}
