package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound        = errors.New("requested item not found")
	ErrForbidden       = errors.New("operation not allowed for this user")
	ErrUnauthenticated = errors.New("authentication required")
	ErrInvalidInput    = errors.New("invalid input")
	ErrConflict        = errors.New("conflict")
	ErrDuplicateEmail  = errors.New("email already in use")

	// Seat-ledger outcomes. Both are conflicts so transport layers can
	// map them with a single errors.Is check.
	ErrAlreadyRegistered = fmt.Errorf("%w: already registered for this conference", ErrConflict)
	ErrNoSeats           = fmt.Errorf("%w: no seats available", ErrConflict)

	// ErrTxConflict marks a transaction that lost a race and may be
	// retried. ErrConcurrency is the terminal form after retries are
	// exhausted.
	ErrTxConflict  = errors.New("transaction conflict")
	ErrConcurrency = errors.New("could not complete operation due to concurrent updates")

	// Filter compilation failures.
	ErrInvalidFilter       = errors.New("invalid filter")
	ErrAmbiguousInequality = fmt.Errorf("%w: inequality filters must target a single field", ErrInvalidFilter)
)
