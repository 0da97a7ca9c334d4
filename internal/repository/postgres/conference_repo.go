package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"conferencecentral/internal/domain"
)

type conferenceRepository struct {
	DB *sql.DB
}

func NewConferenceRepository(db *sql.DB) domain.ConferenceRepository {
	return &conferenceRepository{
		DB: db,
	}
}

const conferenceColumns = `id, name, description, organizer_id, topics, city, start_date, end_date, month, max_attendees, seats_available, created_at, updated_at`

func scanConference(row interface{ Scan(...any) error }) (*domain.Conference, error) {
	c := &domain.Conference{}
	var startNull, endNull sql.NullTime
	err := row.Scan(
		&c.ID, &c.Name, &c.Description, &c.OrganizerID, pq.Array(&c.Topics), &c.City,
		&startNull, &endNull, &c.Month, &c.MaxAttendees, &c.SeatsAvailable,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if startNull.Valid {
		t := startNull.Time
		c.StartDate = &t
	}
	if endNull.Valid {
		t := endNull.Time
		c.EndDate = &t
	}
	if c.Topics == nil {
		c.Topics = []string{}
	}
	return c, nil
}

func (r *conferenceRepository) Create(ctx context.Context, conf *domain.Conference) error {
	if conf.ID == "" {
		conf.ID = uuid.New().String()
	}
	query := `
		INSERT INTO conferences (id, name, description, organizer_id, topics, city, start_date, end_date, month, max_attendees, seats_available, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	_, err := r.DB.ExecContext(ctx, query,
		conf.ID, conf.Name, conf.Description, conf.OrganizerID, pq.Array(conf.Topics), conf.City,
		conf.StartDate, conf.EndDate, conf.Month, conf.MaxAttendees, conf.SeatsAvailable,
		conf.CreatedAt, conf.UpdatedAt,
	)
	return err
}

func (r *conferenceRepository) GetByID(ctx context.Context, id string) (*domain.Conference, error) {
	query := `SELECT ` + conferenceColumns + ` FROM conferences WHERE id = $1`
	conf, err := scanConference(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return conf, nil
}

func (r *conferenceRepository) GetManyByIDs(ctx context.Context, ids []string) ([]*domain.Conference, error) {
	if len(ids) == 0 {
		return []*domain.Conference{}, nil
	}
	query := `SELECT ` + conferenceColumns + ` FROM conferences WHERE id = ANY($1)`
	rows, err := r.DB.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	byID := make(map[string]*domain.Conference, len(ids))
	for rows.Next() {
		conf, err := scanConference(rows)
		if err != nil {
			return nil, err
		}
		byID[conf.ID] = conf
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Preserve input order; silently skip vanished conferences.
	out := make([]*domain.Conference, 0, len(ids))
	for _, id := range ids {
		if conf, ok := byID[id]; ok {
			out = append(out, conf)
		}
	}
	return out, nil
}

func (r *conferenceRepository) ListByOrganizerID(ctx context.Context, organizerID string) ([]*domain.Conference, error) {
	query := `SELECT ` + conferenceColumns + ` FROM conferences WHERE organizer_id = $1 ORDER BY created_at DESC`
	rows, err := r.DB.QueryContext(ctx, query, organizerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	confs := make([]*domain.Conference, 0)
	for rows.Next() {
		conf, err := scanConference(rows)
		if err != nil {
			return nil, err
		}
		confs = append(confs, conf)
	}
	return confs, rows.Err()
}

func (r *conferenceRepository) Update(ctx context.Context, conf *domain.Conference) error {
	// seats_available moves by the capacity delta relative to the stored
	// counter, never by an absolute value, so a registration committing
	// between the caller's read and this write is preserved. SET
	// expressions evaluate against the old row, so max_attendees in the
	// seats expression is the pre-update capacity.
	query := `
		UPDATE conferences
		SET name = $2, description = $3, topics = $4, city = $5, start_date = $6, end_date = $7,
		    month = $8, seats_available = GREATEST(LEAST(seats_available + $9 - max_attendees, $9), 0),
		    max_attendees = $9, updated_at = $10
		WHERE id = $1
		RETURNING seats_available
	`
	err := r.DB.QueryRowContext(ctx, query,
		conf.ID, conf.Name, conf.Description, pq.Array(conf.Topics), conf.City,
		conf.StartDate, conf.EndDate, conf.Month, conf.MaxAttendees,
		conf.UpdatedAt,
	).Scan(&conf.SeatsAvailable)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrNotFound
		}
		return err
	}
	return nil
}

// filterColumns maps validated filter fields to their columns. Only these
// names can ever appear in query text; user input binds as parameters.
var filterColumns = map[domain.FilterField]string{
	domain.FieldCity:         "city",
	domain.FieldMonth:        "month",
	domain.FieldMaxAttendees: "max_attendees",
}

var filterSQLOps = map[domain.FilterOp]string{
	domain.OpEqual:          "=",
	domain.OpGreater:        ">",
	domain.OpGreaterOrEqual: ">=",
	domain.OpLess:           "<",
	domain.OpLessOrEqual:    "<=",
	domain.OpNotEqual:       "<>",
}

func (r *conferenceRepository) Query(ctx context.Context, q *domain.ConferenceQuery) ([]*domain.Conference, error) {
	where := make([]string, 0, len(q.Predicates))
	args := make([]any, 0, len(q.Predicates))
	for _, p := range q.Predicates {
		op, ok := filterSQLOps[p.Op]
		if !ok {
			return nil, fmt.Errorf("unsupported filter operator %v", p.Op)
		}
		args = append(args, p.Value)
		n := len(args)
		if p.Field == domain.FieldTopic {
			// Topics is a set column; a predicate matches when any element does.
			where = append(where, fmt.Sprintf("EXISTS (SELECT 1 FROM unnest(topics) AS topic WHERE topic %s $%d)", op, n))
			continue
		}
		col, ok := filterColumns[p.Field]
		if !ok {
			return nil, fmt.Errorf("unsupported filter field %v", p.Field)
		}
		where = append(where, fmt.Sprintf("%s %s $%d", col, op, n))
	}

	orderBy := "name ASC"
	if q.HasInequality {
		if q.InequalityField == domain.FieldTopic {
			// Arrays compare element-wise, so the inequality field still
			// sorts first even for the set-valued column.
			orderBy = "topics ASC, name ASC"
		} else if col, ok := filterColumns[q.InequalityField]; ok {
			orderBy = col + " ASC, name ASC"
		}
	}

	query := `SELECT ` + conferenceColumns + ` FROM conferences`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY " + orderBy

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	confs := make([]*domain.Conference, 0)
	for rows.Next() {
		conf, err := scanConference(rows)
		if err != nil {
			return nil, err
		}
		confs = append(confs, conf)
	}
	return confs, rows.Err()
}

func (r *conferenceRepository) ListAlmostSoldOut(ctx context.Context, limit int) ([]*domain.Conference, error) {
	query := `SELECT ` + conferenceColumns + ` FROM conferences WHERE seats_available > 0 AND seats_available <= $1 ORDER BY name ASC`
	rows, err := r.DB.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	confs := make([]*domain.Conference, 0)
	for rows.Next() {
		conf, err := scanConference(rows)
		if err != nil {
			return nil, err
		}
		confs = append(confs, conf)
	}
	return confs, rows.Err()
}
