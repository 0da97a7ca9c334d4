package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"conferencecentral/internal/domain"
	"conferencecentral/internal/metrics"
)

const (
	dateLayout = "2006-01-02"

	defaultCity = "Default City"
)

var defaultTopics = []string{"Default", "Topic"}

type conferenceService struct {
	conferenceRepo domain.ConferenceRepository
	profileRepo    domain.ProfileRepository
	profileService domain.ProfileService
	emailService   domain.EmailService
	recorder       metrics.Recorder
	logger         *slog.Logger
	contextTimeout time.Duration
}

func NewConferenceService(conferenceRepo domain.ConferenceRepository,
	profileRepo domain.ProfileRepository,
	profileService domain.ProfileService,
	emailService domain.EmailService,
	recorder metrics.Recorder,
	logger *slog.Logger,
	timeout time.Duration,
) domain.ConferenceService {
	return &conferenceService{
		conferenceRepo: conferenceRepo,
		profileRepo:    profileRepo,
		profileService: profileService,
		emailService:   emailService,
		recorder:       recorder,
		logger:         logger,
		contextTimeout: timeout,
	}
}

func parseDate(value string) (*time.Time, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, strings.TrimSpace(value))
	if err != nil {
		return nil, fmt.Errorf("%w: date must be YYYY-MM-DD, got %q", domain.ErrInvalidInput, value)
	}
	return &t, nil
}

// monthOf derives the queryable month number from a start date, zero when
// the conference has no start date yet.
func monthOf(startDate *time.Time) int {
	if startDate == nil {
		return 0
	}
	return int(startDate.Month())
}

func (s *conferenceService) CreateConference(ctx context.Context, organizerID string, in *domain.ConferenceInput) (*domain.Conference, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if strings.TrimSpace(in.Name) == "" {
		return nil, fmt.Errorf("%w: conference name is required", domain.ErrInvalidInput)
	}
	if in.MaxAttendees < 0 {
		return nil, fmt.Errorf("%w: max attendees must not be negative", domain.ErrInvalidInput)
	}
	startDate, err := parseDate(in.StartDate)
	if err != nil {
		return nil, err
	}
	endDate, err := parseDate(in.EndDate)
	if err != nil {
		return nil, err
	}
	if startDate != nil && endDate != nil && endDate.Before(*startDate) {
		return nil, fmt.Errorf("%w: end date precedes start date", domain.ErrInvalidInput)
	}

	city := strings.TrimSpace(in.City)
	if city == "" {
		city = defaultCity
	}
	topics := in.Topics
	if len(topics) == 0 {
		topics = append([]string(nil), defaultTopics...)
	}

	// The organizer's profile must exist so that later display-name
	// lookups on conference listings resolve.
	profile, err := s.profileService.GetProfile(ctx, organizerID)
	if err != nil {
		return nil, fmt.Errorf("resolve organizer profile: %w", err)
	}

	now := time.Now()
	conf := &domain.Conference{
		Name:           strings.TrimSpace(in.Name),
		Description:    in.Description,
		OrganizerID:    organizerID,
		Topics:         topics,
		City:           city,
		StartDate:      startDate,
		EndDate:        endDate,
		Month:          monthOf(startDate),
		MaxAttendees:   in.MaxAttendees,
		SeatsAvailable: in.MaxAttendees,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.conferenceRepo.Create(ctx, conf); err != nil {
		return nil, fmt.Errorf("create conference: %w", err)
	}

	// Confirmation email is best-effort; the conference exists either way.
	emailData := &domain.ConferenceConfirmationEmailData{
		Email:          profile.Email,
		OrganizerName:  profile.DisplayName,
		ConferenceName: conf.Name,
		City:           conf.City,
		StartDate:      in.StartDate,
	}
	if err := s.emailService.SendConferenceConfirmation(ctx, emailData); err != nil {
		s.logger.Warn("conference confirmation email failed",
			"conference_id", conf.ID, "error", err)
	}

	return conf, nil
}

func (s *conferenceService) UpdateConference(ctx context.Context, userID, conferenceID string, upd *domain.ConferenceUpdate) (*domain.Conference, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	conf, err := s.conferenceRepo.GetByID(ctx, conferenceID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get conference: %w", err)
	}
	if conf.OrganizerID != userID {
		return nil, fmt.Errorf("%w: only the organizer can update a conference", domain.ErrForbidden)
	}

	if upd.Name != nil {
		if strings.TrimSpace(*upd.Name) == "" {
			return nil, fmt.Errorf("%w: conference name is required", domain.ErrInvalidInput)
		}
		conf.Name = strings.TrimSpace(*upd.Name)
	}
	if upd.Description != nil {
		conf.Description = *upd.Description
	}
	if upd.Topics != nil {
		conf.Topics = *upd.Topics
	}
	if upd.City != nil {
		conf.City = strings.TrimSpace(*upd.City)
	}
	if upd.StartDate != nil {
		startDate, err := parseDate(*upd.StartDate)
		if err != nil {
			return nil, err
		}
		conf.StartDate = startDate
		conf.Month = monthOf(startDate)
	}
	if upd.EndDate != nil {
		endDate, err := parseDate(*upd.EndDate)
		if err != nil {
			return nil, err
		}
		conf.EndDate = endDate
	}
	if conf.StartDate != nil && conf.EndDate != nil && conf.EndDate.Before(*conf.StartDate) {
		return nil, fmt.Errorf("%w: end date precedes start date", domain.ErrInvalidInput)
	}
	if upd.MaxAttendees != nil {
		if *upd.MaxAttendees < 0 {
			return nil, fmt.Errorf("%w: max attendees must not be negative", domain.ErrInvalidInput)
		}
		conf.MaxAttendees = *upd.MaxAttendees
	}

	// The seat counter is adjusted by the capacity delta inside the store,
	// relative to the committed value, so registrations racing this update
	// are never overwritten.
	conf.UpdatedAt = time.Now()
	if err := s.conferenceRepo.Update(ctx, conf); err != nil {
		return nil, fmt.Errorf("update conference: %w", err)
	}
	return conf, nil
}

func (s *conferenceService) GetConference(ctx context.Context, id string) (*domain.ConferenceWithOrganizer, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	conf, err := s.conferenceRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get conference: %w", err)
	}

	names, err := s.organizerNames(ctx, []*domain.Conference{conf})
	if err != nil {
		return nil, err
	}
	return &domain.ConferenceWithOrganizer{
		Conference:    *conf,
		OrganizerName: names[conf.OrganizerID],
	}, nil
}

func (s *conferenceService) ListConferencesCreated(ctx context.Context, organizerID string) ([]*domain.Conference, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	confs, err := s.conferenceRepo.ListByOrganizerID(ctx, organizerID)
	if err != nil {
		return nil, fmt.Errorf("list conferences: %w", err)
	}
	return confs, nil
}

func (s *conferenceService) QueryConferences(ctx context.Context, filters []domain.Filter) ([]*domain.ConferenceWithOrganizer, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	q, err := domain.BuildConferenceQuery(filters)
	if err != nil {
		return nil, err
	}

	confs, err := s.conferenceRepo.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("query conferences: %w", err)
	}
	s.recorder.RecordConferenceQuery()

	names, err := s.organizerNames(ctx, confs)
	if err != nil {
		return nil, err
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

// organizerNames resolves display names for the organizers of the given
// conferences in one batched lookup.
func (s *conferenceService) organizerNames(ctx context.Context, confs []*domain.Conference) (map[string]string, error) {
	seen := make(map[string]struct{}, len(confs))
	ids := make([]string, 0, len(confs))
	for _, conf := range confs {
		if _, ok := seen[conf.OrganizerID]; ok {
			continue
		}
		seen[conf.OrganizerID] = struct{}{}
		ids = append(ids, conf.OrganizerID)
	}

	profiles, err := s.profileRepo.GetManyByUserIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("resolve organizer names: %w", err)
	}
	names := make(map[string]string, len(profiles))
	for _, p := range profiles {
		names[p.UserID] = p.DisplayName
	}
	return names, nil
}
