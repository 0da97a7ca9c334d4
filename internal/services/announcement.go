package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"conferencecentral/internal/domain"
)

const (
	// almostSoldOutThreshold is the seat count at or below which a
	// conference appears in the announcement.
	almostSoldOutThreshold = 5

	announcementPrefix = "Last chance to attend! The following conferences are nearly sold out: "
)

type announcementService struct {
	conferenceRepo domain.ConferenceRepository
	cache          domain.Cache
	contextTimeout time.Duration
}

func NewAnnouncementService(conferenceRepo domain.ConferenceRepository,
	cache domain.Cache,
	timeout time.Duration,
) domain.AnnouncementService {
	return &announcementService{
		conferenceRepo: conferenceRepo,
		cache:          cache,
		contextTimeout: timeout,
	}
}

func (s *announcementService) Recompute(ctx context.Context) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	confs, err := s.conferenceRepo.ListAlmostSoldOut(ctx, almostSoldOutThreshold)
	if err != nil {
		return "", fmt.Errorf("list almost sold out conferences: %w", err)
	}

	if len(confs) == 0 {
		if err := s.cache.Delete(ctx, domain.AnnouncementCacheKey); err != nil {
			return "", fmt.Errorf("clear announcement: %w", err)
		}
		return "", nil
	}

	names := make([]string, 0, len(confs))
	for _, conf := range confs {
		names = append(names, conf.Name)
	}
	announcement := announcementPrefix + strings.Join(names, ", ")

	if err := s.cache.Set(ctx, domain.AnnouncementCacheKey, []byte(announcement), 0); err != nil {
		return "", fmt.Errorf("store announcement: %w", err)
	}
	return announcement, nil
}

func (s *announcementService) Get(ctx context.Context) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	raw, ok, err := s.cache.Get(ctx, domain.AnnouncementCacheKey)
	if err != nil {
		return "", fmt.Errorf("read announcement: %w", err)
	}
	if !ok {
		return "", nil
	}
	return string(raw), nil
}
