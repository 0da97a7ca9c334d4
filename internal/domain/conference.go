package domain

import (
	"context"
	"time"
)

// Conference is an event with a bounded number of seats. SeatsAvailable
// never exceeds MaxAttendees and never drops below zero; the repository
// transactions maintain that invariant under concurrency.
type Conference struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	Description    string     `json:"description"`
	OrganizerID    string     `json:"organizerId"`
	Topics         []string   `json:"topics"`
	City           string     `json:"city"`
	StartDate      *time.Time `json:"startDate,omitempty"`
	EndDate        *time.Time `json:"endDate,omitempty"`
	Month          int        `json:"month"`
	MaxAttendees   int        `json:"maxAttendees"`
	SeatsAvailable int        `json:"seatsAvailable"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

// ConferenceWithOrganizer decorates a conference with the organizer's
// display name for list responses.
type ConferenceWithOrganizer struct {
	Conference
	OrganizerName string `json:"organizerName"`
}

// ConferenceInput carries client-supplied fields for creation. Dates use
// the YYYY-MM-DD wire format.
type ConferenceInput struct {
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Topics       []string `json:"topics"`
	City         string   `json:"city"`
	StartDate    string   `json:"startDate"`
	EndDate      string   `json:"endDate"`
	MaxAttendees int      `json:"maxAttendees"`
}

// ConferenceUpdate carries a partial update; nil fields keep their
// current value.
type ConferenceUpdate struct {
	Name         *string   `json:"name,omitempty"`
	Description  *string   `json:"description,omitempty"`
	Topics       *[]string `json:"topics,omitempty"`
	City         *string   `json:"city,omitempty"`
	StartDate    *string   `json:"startDate,omitempty"`
	EndDate      *string   `json:"endDate,omitempty"`
	MaxAttendees *int      `json:"maxAttendees,omitempty"`
}

type ConferenceRepository interface {
	Create(ctx context.Context, conf *Conference) error
	GetByID(ctx context.Context, id string) (*Conference, error)
	// GetManyByIDs returns the conferences that still exist, in the
	// order of the input IDs.
	GetManyByIDs(ctx context.Context, ids []string) ([]*Conference, error)
	ListByOrganizerID(ctx context.Context, organizerID string) ([]*Conference, error)
	// Update persists the conference's fields. The seat counter is not
	// written absolutely: it moves by the capacity delta relative to the
	// stored value, clamped to [0, max_attendees], and conf.SeatsAvailable
	// is refreshed with the stored result.
	Update(ctx context.Context, conf *Conference) error
	Query(ctx context.Context, q *ConferenceQuery) ([]*Conference, error)
	// ListAlmostSoldOut returns conferences with 1..limit seats left.
	ListAlmostSoldOut(ctx context.Context, limit int) ([]*Conference, error)
}

type ConferenceService interface {
	CreateConference(ctx context.Context, organizerID string, in *ConferenceInput) (*Conference, error)
	UpdateConference(ctx context.Context, userID, conferenceID string, upd *ConferenceUpdate) (*Conference, error)
	GetConference(ctx context.Context, id string) (*ConferenceWithOrganizer, error)
	ListConferencesCreated(ctx context.Context, organizerID string) ([]*Conference, error)
	QueryConferences(ctx context.Context, filters []Filter) ([]*ConferenceWithOrganizer, error)
}
