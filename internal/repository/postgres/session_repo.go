package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"conferencecentral/internal/domain"
)

type sessionRepository struct {
	DB *sql.DB
}

func NewSessionRepository(db *sql.DB) domain.SessionRepository {
	return &sessionRepository{
		DB: db,
	}
}

const sessionColumns = `id, conference_id, name, speaker, type, duration, start_date, start_time, highlights, created_at, updated_at`

func scanSession(row interface{ Scan(...any) error }) (*domain.Session, error) {
	s := &domain.Session{}
	err := row.Scan(
		&s.ID, &s.ConferenceID, &s.Name, &s.Speaker, &s.Type, &s.Duration,
		&s.StartDate, &s.StartTime, pq.Array(&s.Highlights),
		&s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if s.Highlights == nil {
		s.Highlights = []string{}
	}
	return s, nil
}

func (r *sessionRepository) Create(ctx context.Context, sess *domain.Session) error {
	if sess.ID == "" {
		sess.ID = uuid.New().String()
	}
	query := `
		INSERT INTO sessions (id, conference_id, name, speaker, type, duration, start_date, start_time, highlights, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := r.DB.ExecContext(ctx, query,
		sess.ID, sess.ConferenceID, sess.Name, sess.Speaker, string(sess.Type), sess.Duration,
		sess.StartDate, sess.StartTime, pq.Array(sess.Highlights),
		sess.CreatedAt, sess.UpdatedAt,
	)
	return err
}

func (r *sessionRepository) GetByID(ctx context.Context, id string) (*domain.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM sessions WHERE id = $1`
	sess, err := scanSession(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return sess, nil
}

func (r *sessionRepository) ListByIDs(ctx context.Context, ids []string) ([]*domain.Session, error) {
	if len(ids) == 0 {
		return []*domain.Session{}, nil
	}
	query := `SELECT ` + sessionColumns + ` FROM sessions WHERE id = ANY($1)`
	rows, err := r.DB.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	byID := make(map[string]*domain.Session, len(ids))
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		byID[sess.ID] = sess
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	out := make([]*domain.Session, 0, len(ids))
	for _, id := range ids {
		if sess, ok := byID[id]; ok {
			out = append(out, sess)
		}
	}
	return out, nil
}

func (r *sessionRepository) list(ctx context.Context, query string, args ...any) ([]*domain.Session, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sessions := make([]*domain.Session, 0)
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, sess)
	}
	return sessions, rows.Err()
}

func (r *sessionRepository) ListByConferenceID(ctx context.Context, conferenceID string) ([]*domain.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM sessions WHERE conference_id = $1 ORDER BY start_date ASC, start_time ASC`
	return r.list(ctx, query, conferenceID)
}

func (r *sessionRepository) ListByConferenceAndType(ctx context.Context, conferenceID string, typ domain.SessionType) ([]*domain.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM sessions WHERE conference_id = $1 AND type = $2 ORDER BY start_date ASC, start_time ASC`
	return r.list(ctx, query, conferenceID, string(typ))
}

func (r *sessionRepository) ListByConferenceAndHighlight(ctx context.Context, conferenceID, highlight string) ([]*domain.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM sessions WHERE conference_id = $1 AND $2 = ANY(highlights) ORDER BY start_date ASC, start_time ASC`
	return r.list(ctx, query, conferenceID, highlight)
}

func (r *sessionRepository) ListByConferenceAndDate(ctx context.Context, conferenceID string, date time.Time) ([]*domain.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM sessions WHERE conference_id = $1 AND start_date = $2 ORDER BY start_time ASC`
	return r.list(ctx, query, conferenceID, date)
}

func (r *sessionRepository) ListByConferenceAndSpeaker(ctx context.Context, conferenceID, speaker string) ([]*domain.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM sessions WHERE conference_id = $1 AND speaker = $2 ORDER BY created_at ASC`
	return r.list(ctx, query, conferenceID, speaker)
}

func (r *sessionRepository) ListBySpeaker(ctx context.Context, speaker string) ([]*domain.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM sessions WHERE speaker = $1 ORDER BY start_date ASC, start_time ASC`
	return r.list(ctx, query, speaker)
}
