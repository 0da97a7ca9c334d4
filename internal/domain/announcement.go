package domain

import "context"

// AnnouncementCacheKey is the cache key holding the current "almost sold
// out" announcement.
const AnnouncementCacheKey = "recent_announcements"

// AnnouncementService derives the "almost sold out" announcement from the
// conference seat ledgers and memoizes it in the cache.
type AnnouncementService interface {
	// Recompute rebuilds the announcement from storage and updates the
	// cache entry (or deletes it when no conference qualifies). Returns
	// the new announcement, which is empty when none.
	Recompute(ctx context.Context) (string, error)
	// Get returns the cached announcement, or "" when absent.
	Get(ctx context.Context) (string, error)
}
