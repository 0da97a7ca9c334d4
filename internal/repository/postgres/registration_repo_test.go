package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"

	"conferencecentral/internal/domain"
)

func TestRegistrationRepository_Register(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		mock    func(mock sqlmock.Sqlmock)
		wantErr error
	}{
		{
			name: "success",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery(`SELECT seats_available FROM conferences`).
					WithArgs("conf-1").
					WillReturnRows(sqlmock.NewRows([]string{"seats_available"}).AddRow(3))
				mock.ExpectQuery(`SELECT EXISTS`).
					WithArgs("conf-1", "user-1").
					WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
				mock.ExpectExec(`INSERT INTO registrations`).
					WithArgs(sqlmock.AnyArg(), "conf-1", "user-1", sqlmock.AnyArg()).
					WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectExec(`UPDATE conferences SET seats_available = seats_available - 1`).
					WithArgs("conf-1").
					WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectCommit()
			},
		},
		{
			name: "conference not found",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery(`SELECT seats_available FROM conferences`).
					WithArgs("conf-1").
					WillReturnError(sql.ErrNoRows)
				mock.ExpectRollback()
			},
			wantErr: domain.ErrNotFound,
		},
		{
			name: "already registered",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery(`SELECT seats_available FROM conferences`).
					WithArgs("conf-1").
					WillReturnRows(sqlmock.NewRows([]string{"seats_available"}).AddRow(3))
				mock.ExpectQuery(`SELECT EXISTS`).
					WithArgs("conf-1", "user-1").
					WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
				mock.ExpectRollback()
			},
			wantErr: domain.ErrAlreadyRegistered,
		},
		{
			name: "sold out",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery(`SELECT seats_available FROM conferences`).
					WithArgs("conf-1").
					WillReturnRows(sqlmock.NewRows([]string{"seats_available"}).AddRow(0))
				mock.ExpectQuery(`SELECT EXISTS`).
					WithArgs("conf-1", "user-1").
					WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
				mock.ExpectRollback()
			},
			wantErr: domain.ErrNoSeats,
		},
		{
			name: "duplicate insert maps to already registered",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery(`SELECT seats_available FROM conferences`).
					WithArgs("conf-1").
					WillReturnRows(sqlmock.NewRows([]string{"seats_available"}).AddRow(3))
				mock.ExpectQuery(`SELECT EXISTS`).
					WithArgs("conf-1", "user-1").
					WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
				mock.ExpectExec(`INSERT INTO registrations`).
					WillReturnError(&pq.Error{Code: pq.ErrorCode(pgUniqueViolation)})
				mock.ExpectRollback()
			},
			wantErr: domain.ErrAlreadyRegistered,
		},
		{
			name: "serialization failure maps to tx conflict",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery(`SELECT seats_available FROM conferences`).
					WithArgs("conf-1").
					WillReturnRows(sqlmock.NewRows([]string{"seats_available"}).AddRow(3))
				mock.ExpectQuery(`SELECT EXISTS`).
					WithArgs("conf-1", "user-1").
					WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
				mock.ExpectExec(`INSERT INTO registrations`).
					WithArgs(sqlmock.AnyArg(), "conf-1", "user-1", sqlmock.AnyArg()).
					WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectExec(`UPDATE conferences SET seats_available = seats_available - 1`).
					WillReturnError(&pq.Error{Code: pq.ErrorCode(pgSerializationFailure)})
				mock.ExpectRollback()
			},
			wantErr: domain.ErrTxConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			repo := NewRegistrationRepository(db)
			err = repo.Register(ctx, "conf-1", "user-1")
			if tt.wantErr != nil {
				require.Error(t, err)
				require.True(t, errors.Is(err, tt.wantErr), "expected %v, got %v", tt.wantErr, err)
			} else {
				require.NoError(t, err)
			}
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRegistrationRepository_Unregister(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name        string
		mock        func(mock sqlmock.Sqlmock)
		wantRemoved bool
		wantErr     bool
	}{
		{
			name: "success clamps seat counter",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery(`SELECT seats_available FROM conferences`).
					WithArgs("conf-1").
					WillReturnRows(sqlmock.NewRows([]string{"seats_available"}).AddRow(2))
				mock.ExpectExec(`DELETE FROM registrations`).
					WithArgs("conf-1", "user-1").
					WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectExec(`UPDATE conferences SET seats_available = LEAST`).
					WithArgs("conf-1").
					WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectCommit()
			},
			wantRemoved: true,
		},
		{
			name: "not registered is a no-op",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery(`SELECT seats_available FROM conferences`).
					WithArgs("conf-1").
					WillReturnRows(sqlmock.NewRows([]string{"seats_available"}).AddRow(2))
				mock.ExpectExec(`DELETE FROM registrations`).
					WithArgs("conf-1", "user-1").
					WillReturnResult(sqlmock.NewResult(0, 0))
				mock.ExpectRollback()
			},
			wantRemoved: false,
		},
		{
			name: "missing conference is a no-op",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery(`SELECT seats_available FROM conferences`).
					WithArgs("conf-1").
					WillReturnError(sql.ErrNoRows)
				mock.ExpectRollback()
			},
			wantRemoved: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			repo := NewRegistrationRepository(db)
			removed, err := repo.Unregister(ctx, "conf-1", "user-1")
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
				require.Equal(t, tt.wantRemoved, removed)
			}
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRegistrationRepository_ListConferenceIDsByUser(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT conference_id FROM registrations`).
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows([]string{"conference_id"}).
			AddRow("conf-2").
			AddRow("conf-1"))

	repo := NewRegistrationRepository(db)
	ids, err := repo.ListConferenceIDsByUser(context.Background(), "user-1")
	require.NoError(t, err)
	require.Equal(t, []string{"conf-2", "conf-1"}, ids)
	require.NoError(t, mock.ExpectationsWereMet())
}
