package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"

	"conferencecentral/internal/domain"
)

type profileRepository struct {
	DB *sql.DB
}

func NewProfileRepository(db *sql.DB) domain.ProfileRepository {
	return &profileRepository{
		DB: db,
	}
}

func (r *profileRepository) Create(ctx context.Context, prof *domain.Profile) error {
	query := `
		INSERT INTO profiles (user_id, display_name, email, tee_shirt_size, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.DB.ExecContext(ctx, query,
		prof.UserID, prof.DisplayName, prof.Email, string(prof.TeeShirtSize),
		prof.CreatedAt, prof.UpdatedAt,
	)
	return err
}

func (r *profileRepository) GetByUserID(ctx context.Context, userID string) (*domain.Profile, error) {
	query := `
		SELECT user_id, display_name, email, tee_shirt_size, created_at, updated_at
		FROM profiles
		WHERE user_id = $1
	`
	prof := &domain.Profile{}
	err := r.DB.QueryRowContext(ctx, query, userID).Scan(
		&prof.UserID, &prof.DisplayName, &prof.Email, &prof.TeeShirtSize,
		&prof.CreatedAt, &prof.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	prof.ConferenceIDs, err = r.listConferenceIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	prof.WishlistSessionIDs, err = r.ListWishlistSessionIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	return prof, nil
}

func (r *profileRepository) listConferenceIDs(ctx context.Context, userID string) ([]string, error) {
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

func (r *profileRepository) GetManyByUserIDs(ctx context.Context, userIDs []string) ([]*domain.Profile, error) {
	if len(userIDs) == 0 {
		return []*domain.Profile{}, nil
	}
	query := `
		SELECT user_id, display_name, email, tee_shirt_size, created_at, updated_at
		FROM profiles
		WHERE user_id = ANY($1)
	`
	rows, err := r.DB.QueryContext(ctx, query, pq.Array(userIDs))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	profiles := make([]*domain.Profile, 0, len(userIDs))
	for rows.Next() {
		prof := &domain.Profile{}
		if err := rows.Scan(
			&prof.UserID, &prof.DisplayName, &prof.Email, &prof.TeeShirtSize,
			&prof.CreatedAt, &prof.UpdatedAt,
		); err != nil {
			return nil, err
		}
		profiles = append(profiles, prof)
	}
	return profiles, rows.Err()
}

func (r *profileRepository) Update(ctx context.Context, prof *domain.Profile) error {
	query := `
		UPDATE profiles
		SET display_name = $2, tee_shirt_size = $3, updated_at = $4
		WHERE user_id = $1
	`
	result, err := r.DB.ExecContext(ctx, query,
		prof.UserID, prof.DisplayName, string(prof.TeeShirtSize), prof.UpdatedAt,
	)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *profileRepository) AddWishlistSession(ctx context.Context, userID, sessionID string) (bool, error) {
	query := `
		INSERT INTO wishlist_sessions (user_id, session_id, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, session_id) DO NOTHING
	`
	result, err := r.DB.ExecContext(ctx, query, userID, sessionID, time.Now())
	if err != nil {
		return false, err
	}
	rows, _ := result.RowsAffected()
	return rows > 0, nil
}

func (r *profileRepository) RemoveWishlistSession(ctx context.Context, userID, sessionID string) (bool, error) {
	result, err := r.DB.ExecContext(ctx,
		`DELETE FROM wishlist_sessions WHERE user_id = $1 AND session_id = $2`,
		userID, sessionID,
	)
	if err != nil {
		return false, err
	}
	rows, _ := result.RowsAffected()
	return rows > 0, nil
}

func (r *profileRepository) ListWishlistSessionIDs(ctx context.Context, userID string) ([]string, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT session_id FROM wishlist_sessions WHERE user_id = $1 ORDER BY created_at ASC`,
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
