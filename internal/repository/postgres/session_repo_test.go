package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"

	"conferencecentral/internal/domain"
)

func sessionRows(t *testing.T, sessions ...*domain.Session) *sqlmock.Rows {
	t.Helper()
	rows := sqlmock.NewRows([]string{
		"id", "conference_id", "name", "speaker", "type", "duration",
		"start_date", "start_time", "highlights", "created_at", "updated_at",
	})
	for _, s := range sessions {
		rows.AddRow(s.ID, s.ConferenceID, s.Name, s.Speaker, string(s.Type), s.Duration,
			s.StartDate, s.StartTime, pq.Array(s.Highlights), s.CreatedAt, s.UpdatedAt)
	}
	return rows
}

func TestSessionRepository_Create(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	start := time.Date(2026, 6, 10, 0, 0, 0, 0, time.UTC)

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	sess := &domain.Session{
		ConferenceID: "conf-1",
		Name:         "Generics in practice",
		Speaker:      "Ada Lovelace",
		Type:         domain.SessionLecture,
		Duration:     45,
		StartDate:    start,
		StartTime:    "09:30",
		Highlights:   []string{"generics"},
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	mock.ExpectExec(`INSERT INTO sessions`).
		WithArgs(sqlmock.AnyArg(), "conf-1", "Generics in practice", "Ada Lovelace",
			"lecture", 45, start, "09:30", pq.Array(sess.Highlights), now, now).
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewSessionRepository(db)
	require.NoError(t, repo.Create(ctx, sess))
	require.NotEmpty(t, sess.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionRepository_GetByID_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT (.+) FROM sessions WHERE id`).
		WithArgs("missing").
		WillReturnRows(sessionRows(t))

	repo := NewSessionRepository(db)
	_, err = repo.GetByID(context.Background(), "missing")
	require.True(t, errors.Is(err, domain.ErrNotFound))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionRepository_ListByConferenceAndHighlight(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	sess := &domain.Session{
		ID: "sess-1", ConferenceID: "conf-1", Name: "Profiling Go",
		Speaker: "Rob", Type: domain.SessionWorkshop, Duration: 90,
		StartDate: now, StartTime: "14:00", Highlights: []string{"pprof", "tracing"},
		CreatedAt: now, UpdatedAt: now,
	}
	mock.ExpectQuery(`WHERE conference_id = \$1 AND \$2 = ANY\(highlights\)`).
		WithArgs("conf-1", "pprof").
		WillReturnRows(sessionRows(t, sess))

	repo := NewSessionRepository(db)
	sessions, err := repo.ListByConferenceAndHighlight(context.Background(), "conf-1", "pprof")
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	require.Equal(t, "Profiling Go", sessions[0].Name)
	require.Equal(t, []string{"pprof", "tracing"}, sessions[0].Highlights)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionRepository_ListByIDs_PreservesOrder(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	a := &domain.Session{ID: "sess-a", ConferenceID: "conf-1", Name: "A", Speaker: "X",
		Type: domain.SessionLecture, Duration: 30, StartDate: now, Highlights: []string{},
		CreatedAt: now, UpdatedAt: now}
	b := &domain.Session{ID: "sess-b", ConferenceID: "conf-1", Name: "B", Speaker: "Y",
		Type: domain.SessionKeynote, Duration: 30, StartDate: now, Highlights: []string{},
		CreatedAt: now, UpdatedAt: now}

	// Database returns them out of input order.
	mock.ExpectQuery(`FROM sessions WHERE id = ANY`).
		WillReturnRows(sessionRows(t, a, b))

	repo := NewSessionRepository(db)
	sessions, err := repo.ListByIDs(context.Background(), []string{"sess-b", "sess-a", "sess-gone"})
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	require.Equal(t, "sess-b", sessions[0].ID)
	require.Equal(t, "sess-a", sessions[1].ID)
	require.NoError(t, mock.ExpectationsWereMet())
}
