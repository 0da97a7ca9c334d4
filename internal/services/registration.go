package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"conferencecentral/internal/domain"
	"conferencecentral/internal/metrics"
)

// maxRegisterAttempts bounds the retry loop for seat-ledger transactions
// that lose a race.
const maxRegisterAttempts = 3

type registrationService struct {
	registrationRepo    domain.RegistrationRepository
	conferenceRepo      domain.ConferenceRepository
	profileRepo         domain.ProfileRepository
	profileService      domain.ProfileService
	announcementService domain.AnnouncementService
	recorder            metrics.Recorder
	logger              *slog.Logger
	contextTimeout      time.Duration
}

func NewRegistrationService(registrationRepo domain.RegistrationRepository,
	conferenceRepo domain.ConferenceRepository,
	profileRepo domain.ProfileRepository,
	profileService domain.ProfileService,
	announcementService domain.AnnouncementService,
	recorder metrics.Recorder,
	logger *slog.Logger,
	timeout time.Duration,
) domain.RegistrationService {
	return &registrationService{
		registrationRepo:    registrationRepo,
		conferenceRepo:      conferenceRepo,
		profileRepo:         profileRepo,
		profileService:      profileService,
		announcementService: announcementService,
		recorder:            recorder,
		logger:              logger,
		contextTimeout:      timeout,
	}
}

func (s *registrationService) Register(ctx context.Context, userID, conferenceID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	// First access creates the profile, so a registration always has an
	// attendee record behind it.
	if _, err := s.profileService.GetProfile(ctx, userID); err != nil {
		return fmt.Errorf("resolve attendee profile: %w", err)
	}

	err := s.withRetry(ctx, func() error {
		return s.registrationRepo.Register(ctx, conferenceID, userID)
	})
	if err != nil {
		if errors.Is(err, domain.ErrConflict) {
			s.recorder.RecordRegistrationConflict()
		}
		return err
	}

	s.recorder.RecordRegistration()
	s.refreshAnnouncement(ctx, conferenceID)
	return nil
}

func (s *registrationService) Unregister(ctx context.Context, userID, conferenceID string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	var removed bool
	err := s.withRetry(ctx, func() error {
		var err error
		removed, err = s.registrationRepo.Unregister(ctx, conferenceID, userID)
		return err
	})
	if err != nil {
		return false, err
	}
	if removed {
		s.recorder.RecordSeatRelease()
		s.refreshAnnouncement(ctx, conferenceID)
	}
	return removed, nil
}

func (s *registrationService) ListConferencesToAttend(ctx context.Context, userID string) ([]*domain.ConferenceWithOrganizer, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	ids, err := s.registrationRepo.ListConferenceIDsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list registrations: %w", err)
	}
	confs, err := s.conferenceRepo.GetManyByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("resolve conferences: %w", err)
	}

	organizerIDs := make([]string, 0, len(confs))
	seen := make(map[string]struct{}, len(confs))
	for _, conf := range confs {
		if _, ok := seen[conf.OrganizerID]; ok {
			continue
		}
		seen[conf.OrganizerID] = struct{}{}
		organizerIDs = append(organizerIDs, conf.OrganizerID)
	}
	profiles, err := s.profileRepo.GetManyByUserIDs(ctx, organizerIDs)
	if err != nil {
		return nil, fmt.Errorf("resolve organizer names: %w", err)
	}
	names := make(map[string]string, len(profiles))
	for _, p := range profiles {
		names[p.UserID] = p.DisplayName
	}

	out := make([]*domain.ConferenceWithOrganizer, 0, len(confs))
	for _, conf := range confs {
		out = append(out, &domain.ConferenceWithOrganizer{
			Conference:    *conf,
			OrganizerName: names[conf.OrganizerID],
		})
	}
	return out, nil
}

// withRetry runs a seat-ledger transaction, retrying on ErrTxConflict up
// to maxRegisterAttempts times. Exhausted retries surface as
// ErrConcurrency.
func (s *registrationService) withRetry(ctx context.Context, fn func() error) error {
	var err error
	for attempt := 1; attempt <= maxRegisterAttempts; attempt++ {
		err = fn()
		if err == nil || !errors.Is(err, domain.ErrTxConflict) {
			return err
		}
		s.recorder.RecordTxRetry()
		if ctx.Err() != nil {
			break
		}
	}
	return fmt.Errorf("%w: %v", domain.ErrConcurrency, err)
}

// refreshAnnouncement rebuilds the almost-sold-out announcement after a
// seat count change. Failures are logged, never surfaced: the ledger
// already committed.
func (s *registrationService) refreshAnnouncement(ctx context.Context, conferenceID string) {
	if _, err := s.announcementService.Recompute(ctx); err != nil {
		s.logger.Warn("announcement refresh failed",
			"conference_id", conferenceID, "error", err)
	}
}
