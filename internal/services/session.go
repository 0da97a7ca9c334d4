package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"conferencecentral/internal/domain"
)

const (
	timeLayout = "15:04"

	// featuredSpeakerTTL bounds how long a stale featured-speaker entry
	// can outlive its conference's session list.
	featuredSpeakerTTL = 10 * time.Hour
)

func featuredSpeakerKey(conferenceID string) string {
	return "featured:" + conferenceID
}

type sessionService struct {
	sessionRepo    domain.SessionRepository
	conferenceRepo domain.ConferenceRepository
	cache          domain.Cache
	logger         *slog.Logger
	contextTimeout time.Duration
}

func NewSessionService(sessionRepo domain.SessionRepository,
	conferenceRepo domain.ConferenceRepository,
	cache domain.Cache,
	logger *slog.Logger,
	timeout time.Duration,
) domain.SessionService {
	return &sessionService{
		sessionRepo:    sessionRepo,
		conferenceRepo: conferenceRepo,
		cache:          cache,
		logger:         logger,
		contextTimeout: timeout,
	}
}

func (s *sessionService) CreateSession(ctx context.Context, organizerID, conferenceID string, in *domain.SessionInput) (*domain.Session, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	conf, err := s.conferenceRepo.GetByID(ctx, conferenceID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get conference: %w", err)
	}
	if conf.OrganizerID != organizerID {
		return nil, fmt.Errorf("%w: only the organizer can add sessions", domain.ErrForbidden)
	}

	if strings.TrimSpace(in.Name) == "" {
		return nil, fmt.Errorf("%w: session name is required", domain.ErrInvalidInput)
	}
	if strings.TrimSpace(in.Speaker) == "" {
		return nil, fmt.Errorf("%w: speaker is required", domain.ErrInvalidInput)
	}
	typ, err := domain.ParseSessionType(in.Type)
	if err != nil {
		return nil, err
	}
	if in.Duration <= 0 {
		return nil, fmt.Errorf("%w: duration must be positive", domain.ErrInvalidInput)
	}
	startDate, err := time.Parse(dateLayout, strings.TrimSpace(in.StartDate))
	if err != nil {
		return nil, fmt.Errorf("%w: start date must be YYYY-MM-DD, got %q", domain.ErrInvalidInput, in.StartDate)
	}
	startTime := ""
	if strings.TrimSpace(in.StartTime) != "" {
		t, err := time.Parse(timeLayout, strings.TrimSpace(in.StartTime))
		if err != nil {
			return nil, fmt.Errorf("%w: start time must be HH:MM, got %q", domain.ErrInvalidInput, in.StartTime)
		}
		startTime = t.Format(timeLayout)
	}
	highlights := in.Highlights
	if highlights == nil {
		highlights = []string{}
	}

	now := time.Now()
	sess := &domain.Session{
		ConferenceID: conferenceID,
		Name:         strings.TrimSpace(in.Name),
		Speaker:      strings.TrimSpace(in.Speaker),
		Type:         typ,
		Duration:     in.Duration,
		StartDate:    startDate,
		StartTime:    startTime,
		Highlights:   highlights,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.sessionRepo.Create(ctx, sess); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	s.refreshFeaturedSpeaker(ctx, conferenceID, sess.Speaker)
	return sess, nil
}

// refreshFeaturedSpeaker promotes a speaker with two or more sessions in
// the conference to the featured-speaker cache entry. Cache and lookup
// failures are logged, never surfaced: the session is already stored.
func (s *sessionService) refreshFeaturedSpeaker(ctx context.Context, conferenceID, speaker string) {
	sessions, err := s.sessionRepo.ListByConferenceAndSpeaker(ctx, conferenceID, speaker)
	if err != nil {
		s.logger.Warn("featured speaker lookup failed",
			"conference_id", conferenceID, "speaker", speaker, "error", err)
		return
	}
	if len(sessions) < 2 {
		return
	}

	key := featuredSpeakerKey(conferenceID)
	featured := domain.FeaturedSpeakers{}
	if raw, ok, err := s.cache.Get(ctx, key); err != nil {
		s.logger.Warn("featured speaker cache read failed",
			"conference_id", conferenceID, "error", err)
	} else if ok {
		if err := json.Unmarshal(raw, &featured); err != nil {
			featured = domain.FeaturedSpeakers{}
		}
	}

	names := make([]string, 0, len(sessions))
	for _, sess := range sessions {
		names = append(names, sess.Name)
	}
	featured[speaker] = names

	raw, err := json.Marshal(featured)
	if err != nil {
		s.logger.Warn("featured speaker encode failed",
			"conference_id", conferenceID, "error", err)
		return
	}
	if err := s.cache.Set(ctx, key, raw, featuredSpeakerTTL); err != nil {
		s.logger.Warn("featured speaker cache write failed",
			"conference_id", conferenceID, "error", err)
	}
}

func (s *sessionService) GetFeaturedSpeaker(ctx context.Context, conferenceID string) (domain.FeaturedSpeakers, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := s.conferenceRepo.GetByID(ctx, conferenceID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get conference: %w", err)
	}

	raw, ok, err := s.cache.Get(ctx, featuredSpeakerKey(conferenceID))
	if err != nil {
		return nil, fmt.Errorf("read featured speaker cache: %w", err)
	}
	if !ok {
		return domain.FeaturedSpeakers{}, nil
	}
	featured := domain.FeaturedSpeakers{}
	if err := json.Unmarshal(raw, &featured); err != nil {
		// A corrupt entry is derived state; treat it as absent.
		return domain.FeaturedSpeakers{}, nil
	}
	return featured, nil
}

// requireConference turns a missing scoping conference into ErrNotFound
// so query operations can distinguish "no such conference" from "no
// matching sessions".
func (s *sessionService) requireConference(ctx context.Context, conferenceID string) error {
	if _, err := s.conferenceRepo.GetByID(ctx, conferenceID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("get conference: %w", err)
	}
	return nil
}

func (s *sessionService) GetConferenceSessions(ctx context.Context, conferenceID string) ([]*domain.Session, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := s.requireConference(ctx, conferenceID); err != nil {
		return nil, err
	}
	sessions, err := s.sessionRepo.ListByConferenceID(ctx, conferenceID)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	return sessions, nil
}

func (s *sessionService) GetConferenceSessionsByType(ctx context.Context, conferenceID, sessionType string) ([]*domain.Session, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	typ, err := domain.ParseSessionType(sessionType)
	if err != nil {
		return nil, err
	}
	if err := s.requireConference(ctx, conferenceID); err != nil {
		return nil, err
	}
	sessions, err := s.sessionRepo.ListByConferenceAndType(ctx, conferenceID, typ)
	if err != nil {
		return nil, fmt.Errorf("list sessions by type: %w", err)
	}
	return sessions, nil
}

func (s *sessionService) GetConferenceSessionsByHighlight(ctx context.Context, conferenceID, highlight string) ([]*domain.Session, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if strings.TrimSpace(highlight) == "" {
		return nil, fmt.Errorf("%w: highlight is required", domain.ErrInvalidInput)
	}
	if err := s.requireConference(ctx, conferenceID); err != nil {
		return nil, err
	}
	sessions, err := s.sessionRepo.ListByConferenceAndHighlight(ctx, conferenceID, highlight)
	if err != nil {
		return nil, fmt.Errorf("list sessions by highlight: %w", err)
	}
	return sessions, nil
}

func (s *sessionService) GetConferenceSessionsByDate(ctx context.Context, conferenceID, date string) ([]*domain.Session, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	day, err := time.Parse(dateLayout, strings.TrimSpace(date))
	if err != nil {
		return nil, fmt.Errorf("%w: date must be YYYY-MM-DD, got %q", domain.ErrInvalidInput, date)
	}
	if err := s.requireConference(ctx, conferenceID); err != nil {
		return nil, err
	}
	sessions, err := s.sessionRepo.ListByConferenceAndDate(ctx, conferenceID, day)
	if err != nil {
		return nil, fmt.Errorf("list sessions by date: %w", err)
	}
	return sessions, nil
}

func (s *sessionService) GetSessionsBySpeaker(ctx context.Context, speaker string) ([]*domain.Session, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if strings.TrimSpace(speaker) == "" {
		return nil, fmt.Errorf("%w: speaker is required", domain.ErrInvalidInput)
	}
	sessions, err := s.sessionRepo.ListBySpeaker(ctx, speaker)
	if err != nil {
		return nil, fmt.Errorf("list sessions by speaker: %w", err)
	}
	return sessions, nil
}
