package postgres

import (
	"context"
	"database/sql/driver"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"

	"conferencecentral/internal/domain"
)

func TestConferenceRepository_Create(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	start := time.Date(2026, 6, 10, 0, 0, 0, 0, time.UTC)

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	conf := &domain.Conference{
		Name:           "GopherCon",
		Description:    "All things Go",
		OrganizerID:    "user-1",
		Topics:         []string{"Go", "Backend"},
		City:           "Berlin",
		StartDate:      &start,
		Month:          6,
		MaxAttendees:   100,
		SeatsAvailable: 100,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	mock.ExpectExec(`INSERT INTO conferences`).
		WithArgs(sqlmock.AnyArg(), "GopherCon", "All things Go", "user-1",
			pq.Array(conf.Topics), "Berlin", &start, nil, 6, 100, 100, now, now).
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewConferenceRepository(db)
	require.NoError(t, repo.Create(ctx, conf))
	require.NotEmpty(t, conf.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestConferenceRepository_GetByID_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT (.+) FROM conferences WHERE id`).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	repo := NewConferenceRepository(db)
	_, err = repo.GetByID(context.Background(), "missing")
	require.True(t, errors.Is(err, domain.ErrNotFound))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestConferenceRepository_Update(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	start := time.Date(2026, 6, 10, 0, 0, 0, 0, time.UTC)

	t.Run("applies the capacity delta relative to the stored counter", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		conf := &domain.Conference{
			ID: "conf-1", Name: "GopherCon", Description: "All things Go",
			OrganizerID: "user-1", Topics: []string{"Go"}, City: "Berlin",
			StartDate: &start, Month: 6,
			MaxAttendees: 150, SeatsAvailable: 90,
			UpdatedAt: now,
		}

		// The caller's SeatsAvailable is never bound; seats move in SQL.
		mock.ExpectQuery(`seats_available = GREATEST\(LEAST\(seats_available \+ \$9 - max_attendees, \$9\), 0\)`).
			WithArgs("conf-1", "GopherCon", "All things Go", pq.Array(conf.Topics), "Berlin",
				&start, nil, 6, 150, now).
			WillReturnRows(sqlmock.NewRows([]string{"seats_available"}).AddRow(89))

		repo := NewConferenceRepository(db)
		require.NoError(t, repo.Update(ctx, conf))
		require.Equal(t, 89, conf.SeatsAvailable)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`UPDATE conferences`).
			WillReturnRows(sqlmock.NewRows([]string{"seats_available"}))

		repo := NewConferenceRepository(db)
		err = repo.Update(ctx, &domain.Conference{ID: "missing", Topics: []string{}, UpdatedAt: now})
		require.True(t, errors.Is(err, domain.ErrNotFound))
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func conferenceRows(t *testing.T, confs ...*domain.Conference) *sqlmock.Rows {
	t.Helper()
	rows := sqlmock.NewRows([]string{
		"id", "name", "description", "organizer_id", "topics", "city",
		"start_date", "end_date", "month", "max_attendees", "seats_available",
		"created_at", "updated_at",
	})
	for _, c := range confs {
		rows.AddRow(c.ID, c.Name, c.Description, c.OrganizerID, pq.Array(c.Topics), c.City,
			c.StartDate, c.EndDate, c.Month, c.MaxAttendees, c.SeatsAvailable,
			c.CreatedAt, c.UpdatedAt)
	}
	return rows
}

func TestConferenceRepository_Query(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		query    *domain.ConferenceQuery
		wantSQL  string
		wantArgs []driver.Value
	}{
		{
			name: "equality with inequality sorts on the inequality column",
			query: &domain.ConferenceQuery{
				Predicates: []domain.Predicate{
					{Field: domain.FieldCity, Op: domain.OpEqual, Value: "London"},
					{Field: domain.FieldMonth, Op: domain.OpGreater, Value: 5},
				},
				HasInequality:   true,
				InequalityField: domain.FieldMonth,
			},
			wantSQL:  `WHERE city = \$1 AND month > \$2 ORDER BY month ASC, name ASC`,
			wantArgs: []driver.Value{"London", 5},
		},
		{
			name: "topic predicate unnests the topics column",
			query: &domain.ConferenceQuery{
				Predicates: []domain.Predicate{
					{Field: domain.FieldTopic, Op: domain.OpEqual, Value: "Go"},
				},
			},
			wantSQL:  `WHERE EXISTS \(SELECT 1 FROM unnest\(topics\) AS topic WHERE topic = \$1\) ORDER BY name ASC`,
			wantArgs: []driver.Value{"Go"},
		},
		{
			name: "topic inequality sorts on the topics column",
			query: &domain.ConferenceQuery{
				Predicates: []domain.Predicate{
					{Field: domain.FieldTopic, Op: domain.OpNotEqual, Value: "Go"},
				},
				HasInequality:   true,
				InequalityField: domain.FieldTopic,
			},
			wantSQL:  `WHERE EXISTS \(SELECT 1 FROM unnest\(topics\) AS topic WHERE topic <> \$1\) ORDER BY topics ASC, name ASC`,
			wantArgs: []driver.Value{"Go"},
		},
		{
			name:    "no predicates lists everything sorted by name",
			query:   &domain.ConferenceQuery{},
			wantSQL: `FROM conferences ORDER BY name ASC`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			mock.ExpectQuery(tt.wantSQL).
				WithArgs(tt.wantArgs...).
				WillReturnRows(conferenceRows(t))

			repo := NewConferenceRepository(db)
			confs, err := repo.Query(ctx, tt.query)
			require.NoError(t, err)
			require.Empty(t, confs)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestConferenceRepository_ListAlmostSoldOut(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	conf := &domain.Conference{
		ID: "conf-1", Name: "GoLab", OrganizerID: "user-1",
		Topics: []string{"Go"}, City: "Florence",
		Month: 10, MaxAttendees: 50, SeatsAvailable: 3,
		CreatedAt: now, UpdatedAt: now,
	}
	mock.ExpectQuery(`seats_available > 0 AND seats_available <= \$1`).
		WithArgs(5).
		WillReturnRows(conferenceRows(t, conf))

	repo := NewConferenceRepository(db)
	confs, err := repo.ListAlmostSoldOut(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, confs, 1)
	require.Equal(t, "GoLab", confs[0].Name)
	require.Equal(t, 3, confs[0].SeatsAvailable)
	require.NoError(t, mock.ExpectationsWereMet())
}
