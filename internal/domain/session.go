package domain

import (
	"context"
	"fmt"
	"time"
)

// SessionType enumerates the allowed kinds of session.
type SessionType string

const (
	SessionLecture  SessionType = "lecture"
	SessionKeynote  SessionType = "keynote"
	SessionWorkshop SessionType = "workshop"
)

// ParseSessionType validates a raw session type string.
func ParseSessionType(s string) (SessionType, error) {
	switch SessionType(s) {
	case SessionLecture, SessionKeynote, SessionWorkshop:
		return SessionType(s), nil
	}
	return "", fmt.Errorf("%w: unknown session type %q", ErrInvalidInput, s)
}

// Session represents a scheduled talk within a conference.
// StartTime is a zero-padded HH:MM string so lexical order matches
// chronological order.
// swagger:model Session
type Session struct {
	ID           string      `json:"id"`
	ConferenceID string      `json:"conference_id"`
	Name         string      `json:"name"`
	Speaker      string      `json:"speaker"`
	Type         SessionType `json:"type"`
	Duration     int         `json:"duration"`
	StartDate    time.Time   `json:"start_date"`
	StartTime    string      `json:"start_time,omitempty"`
	Highlights   []string    `json:"highlights"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

// SessionInput holds the user-supplied fields for creating a session.
// StartDate is YYYY-MM-DD and StartTime is HH:MM; validation happens in
// the service.
type SessionInput struct {
	Name       string
	Speaker    string
	Type       string
	Duration   int
	StartDate  string
	StartTime  string
	Highlights []string
}

// SessionRepository defines the interface for session storage.
type SessionRepository interface {
	Create(ctx context.Context, sess *Session) error
	GetByID(ctx context.Context, id string) (*Session, error)
	// ListByIDs returns sessions for the given IDs preserving the given
	// order, skipping IDs that no longer exist.
	ListByIDs(ctx context.Context, ids []string) ([]*Session, error)
	ListByConferenceID(ctx context.Context, conferenceID string) ([]*Session, error)
	ListByConferenceAndType(ctx context.Context, conferenceID string, typ SessionType) ([]*Session, error)
	ListByConferenceAndHighlight(ctx context.Context, conferenceID, highlight string) ([]*Session, error)
	// ListByConferenceAndDate returns the sessions on the given day
	// ordered by start time.
	ListByConferenceAndDate(ctx context.Context, conferenceID string, date time.Time) ([]*Session, error)
	ListByConferenceAndSpeaker(ctx context.Context, conferenceID, speaker string) ([]*Session, error)
	ListBySpeaker(ctx context.Context, speaker string) ([]*Session, error)
}

// FeaturedSpeakers maps a speaker name to the names of their sessions
// within one conference. Empty means no featured speaker.
type FeaturedSpeakers map[string][]string

// SessionService defines the session catalog: organizer-only session
// creation, the derived featured-speaker cache, and scoped read queries.
// Query operations return an empty slice (not an error) when the scoping
// conference exists but nothing matches.
type SessionService interface {
	CreateSession(ctx context.Context, organizerID, conferenceID string, in *SessionInput) (*Session, error)
	GetConferenceSessions(ctx context.Context, conferenceID string) ([]*Session, error)
	GetConferenceSessionsByType(ctx context.Context, conferenceID, sessionType string) ([]*Session, error)
	GetConferenceSessionsByHighlight(ctx context.Context, conferenceID, highlight string) ([]*Session, error)
	GetConferenceSessionsByDate(ctx context.Context, conferenceID, date string) ([]*Session, error)
	GetSessionsBySpeaker(ctx context.Context, speaker string) ([]*Session, error)
	GetFeaturedSpeaker(ctx context.Context, conferenceID string) (FeaturedSpeakers, error)
}
