package domain

import "context"

// RegistrationRepository executes the seat-ledger transactions. Each call
// is a single atomic transaction spanning the registration link and the
// conference seat counter; contention is arbitrated per conference row.
// Callers may retry on ErrTxConflict.
type RegistrationRepository interface {
	// Register atomically checks and claims a seat. Fails with
	// ErrNotFound (no such conference), ErrAlreadyRegistered,
	// ErrNoSeats, or ErrTxConflict.
	Register(ctx context.Context, conferenceID, userID string) error
	// Unregister atomically releases a seat. Returns false (and no
	// error) when the user was not registered. The seat counter is
	// clamped at max_attendees.
	Unregister(ctx context.Context, conferenceID, userID string) (bool, error)
	// ListConferenceIDsByUser returns the user's attend list in
	// registration order.
	ListConferenceIDsByUser(ctx context.Context, userID string) ([]string, error)
}

// RegistrationService is the capacity ledger: it keeps seat counts and
// attend lists consistent under concurrent access, with a bounded retry
// on transaction conflicts.
type RegistrationService interface {
	Register(ctx context.Context, userID, conferenceID string) error
	Unregister(ctx context.Context, userID, conferenceID string) (bool, error)
	ListConferencesToAttend(ctx context.Context, userID string) ([]*ConferenceWithOrganizer, error)
}
