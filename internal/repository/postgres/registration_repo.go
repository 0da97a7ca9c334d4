package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"conferencecentral/internal/domain"
)

// Postgres error codes that indicate a lost race the caller may retry.
const (
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
	pgUniqueViolation      = "23505"
)

type registrationRepository struct {
	DB *sql.DB
}

func NewRegistrationRepository(db *sql.DB) domain.RegistrationRepository {
	return &registrationRepository{
		DB: db,
	}
}

// translateTxErr maps retryable Postgres failures to domain.ErrTxConflict.
func translateTxErr(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch string(pqErr.Code) {
		case pgSerializationFailure, pgDeadlockDetected:
			return fmt.Errorf("%w: %v", domain.ErrTxConflict, err)
		}
	}
	return err
}

// Register claims one seat for the user in a single transaction. The
// SELECT ... FOR UPDATE on the conference row serializes contenders for
// the same conference while leaving other conferences fully concurrent.
func (r *registrationRepository) Register(ctx context.Context, conferenceID, userID string) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	var seats int
	err = tx.QueryRowContext(ctx,
		`SELECT seats_available FROM conferences WHERE id = $1 FOR UPDATE`,
		conferenceID,
	).Scan(&seats)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrNotFound
		}
		return translateTxErr(err)
	}

	var registered bool
	err = tx.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM registrations WHERE conference_id = $1 AND user_id = $2)`,
		conferenceID, userID,
	).Scan(&registered)
	if err != nil {
		return translateTxErr(err)
	}
	if registered {
		return domain.ErrAlreadyRegistered
	}
	if seats <= 0 {
		return domain.ErrNoSeats
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO registrations (id, conference_id, user_id, created_at) VALUES ($1, $2, $3, $4)`,
		uuid.New().String(), conferenceID, userID, time.Now(),
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == pgUniqueViolation {
			return domain.ErrAlreadyRegistered
		}
		return translateTxErr(err)
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE conferences SET seats_available = seats_available - 1, updated_at = now() WHERE id = $1`,
		conferenceID,
	)
	if err != nil {
		return translateTxErr(err)
	}

	if err := tx.Commit(); err != nil {
		return translateTxErr(err)
	}
	return nil
}

// Unregister releases the user's seat in a single transaction. The
// conference row is locked first, in the same order as Register, so the
// two cannot deadlock against each other. The seat counter is clamped at
// max_attendees.
func (r *registrationRepository) Unregister(ctx context.Context, conferenceID, userID string) (bool, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	var seats int
	err = tx.QueryRowContext(ctx,
		`SELECT seats_available FROM conferences WHERE id = $1 FOR UPDATE`,
		conferenceID,
	).Scan(&seats)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// No conference means no registration to remove.
			return false, nil
		}
		return false, translateTxErr(err)
	}

	result, err := tx.ExecContext(ctx,
		`DELETE FROM registrations WHERE conference_id = $1 AND user_id = $2`,
		conferenceID, userID,
	)
	if err != nil {
		return false, translateTxErr(err)
	}
	deleted, _ := result.RowsAffected()
	if deleted == 0 {
		return false, nil
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE conferences SET seats_available = LEAST(seats_available + 1, max_attendees), updated_at = now() WHERE id = $1`,
		conferenceID,
	)
	if err != nil {
		return false, translateTxErr(err)
	}

	if err := tx.Commit(); err != nil {
		return false, translateTxErr(err)
	}
	return true, nil
}

func (r *registrationRepository) ListConferenceIDsByUser(ctx context.Context, userID string) ([]string, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT conference_id FROM registrations WHERE user_id = $1 ORDER BY created_at ASC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
