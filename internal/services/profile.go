package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"conferencecentral/internal/domain"
)

type profileService struct {
	profileRepo    domain.ProfileRepository
	userRepo       domain.UserRepository
	sessionRepo    domain.SessionRepository
	contextTimeout time.Duration
}

func NewProfileService(profileRepo domain.ProfileRepository,
	userRepo domain.UserRepository,
	sessionRepo domain.SessionRepository,
	timeout time.Duration,
) domain.ProfileService {
	return &profileService{
		profileRepo:    profileRepo,
		userRepo:       userRepo,
		sessionRepo:    sessionRepo,
		contextTimeout: timeout,
	}
}

// GetProfile returns the user's profile, creating a default one on first
// access seeded from the account's name and email.
func (s *profileService) GetProfile(ctx context.Context, userID string) (*domain.Profile, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	return s.getOrCreate(ctx, userID)
}

func (s *profileService) getOrCreate(ctx context.Context, userID string) (*domain.Profile, error) {
	prof, err := s.profileRepo.GetByUserID(ctx, userID)
	if err == nil {
		return prof, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("get profile: %w", err)
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	now := time.Now()
	prof = &domain.Profile{
		UserID:             user.ID,
		DisplayName:        user.Name,
		Email:              user.Email,
		TeeShirtSize:       domain.SizeNotSpecified,
		ConferenceIDs:      []string{},
		WishlistSessionIDs: []string{},
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := s.profileRepo.Create(ctx, prof); err != nil {
		// A concurrent first access may have created it already.
		if existing, getErr := s.profileRepo.GetByUserID(ctx, userID); getErr == nil {
			return existing, nil
		}
		return nil, fmt.Errorf("create profile: %w", err)
	}
	return prof, nil
}

func (s *profileService) SaveProfile(ctx context.Context, userID, displayName, teeShirtSize string) (*domain.Profile, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	prof, err := s.getOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(displayName) != "" {
		prof.DisplayName = strings.TrimSpace(displayName)
	}
	if teeShirtSize != "" {
		size, err := domain.ParseTeeShirtSize(teeShirtSize)
		if err != nil {
			return nil, err
		}
		prof.TeeShirtSize = size
	}

	prof.UpdatedAt = time.Now()
	if err := s.profileRepo.Update(ctx, prof); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return prof, nil
}

func (s *profileService) AddSessionToWishlist(ctx context.Context, userID, sessionID string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := s.sessionRepo.GetByID(ctx, sessionID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return false, domain.ErrNotFound
		}
		return false, fmt.Errorf("get session: %w", err)
	}
	if _, err := s.getOrCreate(ctx, userID); err != nil {
		return false, err
	}

	added, err := s.profileRepo.AddWishlistSession(ctx, userID, sessionID)
	if err != nil {
		return false, fmt.Errorf("add wishlist session: %w", err)
	}
	return added, nil
}

func (s *profileService) RemoveSessionFromWishlist(ctx context.Context, userID, sessionID string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	removed, err := s.profileRepo.RemoveWishlistSession(ctx, userID, sessionID)
	if err != nil {
		return false, fmt.Errorf("remove wishlist session: %w", err)
	}
	return removed, nil
}

func (s *profileService) GetSessionsInWishlist(ctx context.Context, userID string) ([]*domain.Session, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	ids, err := s.profileRepo.ListWishlistSessionIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list wishlist: %w", err)
	}
	sessions, err := s.sessionRepo.ListByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("resolve wishlist sessions: %w", err)
	}
	return sessions, nil
}
