package domain

import (
	"context"
	"fmt"
	"time"
)

// TeeShirtSize enumerates the supported t-shirt sizes.
type TeeShirtSize string

const (
	SizeNotSpecified TeeShirtSize = "NOT_SPECIFIED"
	SizeXSM          TeeShirtSize = "XS_M"
	SizeXSW          TeeShirtSize = "XS_W"
	SizeSM           TeeShirtSize = "S_M"
	SizeSW           TeeShirtSize = "S_W"
	SizeMM           TeeShirtSize = "M_M"
	SizeMW           TeeShirtSize = "M_W"
	SizeLM           TeeShirtSize = "L_M"
	SizeLW           TeeShirtSize = "L_W"
	SizeXLM          TeeShirtSize = "XL_M"
	SizeXLW          TeeShirtSize = "XL_W"
	SizeXXLM         TeeShirtSize = "XXL_M"
	SizeXXLW         TeeShirtSize = "XXL_W"
	SizeXXXLM        TeeShirtSize = "XXXL_M"
	SizeXXXLW        TeeShirtSize = "XXXL_W"
)

var teeShirtSizes = map[TeeShirtSize]struct{}{
	SizeNotSpecified: {}, SizeXSM: {}, SizeXSW: {}, SizeSM: {}, SizeSW: {},
	SizeMM: {}, SizeMW: {}, SizeLM: {}, SizeLW: {}, SizeXLM: {}, SizeXLW: {},
	SizeXXLM: {}, SizeXXLW: {}, SizeXXXLM: {}, SizeXXXLW: {},
}

// ParseTeeShirtSize validates a raw t-shirt size string.
func ParseTeeShirtSize(s string) (TeeShirtSize, error) {
	if _, ok := teeShirtSizes[TeeShirtSize(s)]; ok {
		return TeeShirtSize(s), nil
	}
	return "", fmt.Errorf("%w: unknown tee shirt size %q", ErrInvalidInput, s)
}

// Profile is a user's attendee profile. It is created lazily on first
// access. ConferenceIDs (attend list) and WishlistSessionIDs are ordered
// and contain no duplicates; the attend list is mutated only by the
// registration service.
// swagger:model Profile
type Profile struct {
	UserID             string       `json:"user_id"`
	DisplayName        string       `json:"display_name"`
	Email              string       `json:"email"`
	TeeShirtSize       TeeShirtSize `json:"tee_shirt_size"`
	ConferenceIDs      []string     `json:"conference_ids"`
	WishlistSessionIDs []string     `json:"wishlist_session_ids"`
	CreatedAt          time.Time    `json:"created_at"`
	UpdatedAt          time.Time    `json:"updated_at"`
}

// ProfileRepository defines the interface for profile and wishlist storage.
type ProfileRepository interface {
	Create(ctx context.Context, prof *Profile) error
	// GetByUserID returns the profile with its attend list and wishlist
	// populated, or ErrNotFound.
	GetByUserID(ctx context.Context, userID string) (*Profile, error)
	// GetManyByUserIDs batch-resolves profiles (without membership lists)
	// for display-name lookups. Missing profiles are skipped.
	GetManyByUserIDs(ctx context.Context, userIDs []string) ([]*Profile, error)
	Update(ctx context.Context, prof *Profile) error

	// AddWishlistSession links a session to the user's wishlist. Returns
	// false when the session was already wishlisted.
	AddWishlistSession(ctx context.Context, userID, sessionID string) (added bool, err error)
	// RemoveWishlistSession unlinks a session. Returns false when it was
	// not in the wishlist.
	RemoveWishlistSession(ctx context.Context, userID, sessionID string) (removed bool, err error)
	ListWishlistSessionIDs(ctx context.Context, userID string) ([]string, error)
}

// ProfileService defines profile access and the session wishlist.
type ProfileService interface {
	// GetProfile returns the user's profile, creating it on first access.
	GetProfile(ctx context.Context, userID string) (*Profile, error)
	SaveProfile(ctx context.Context, userID, displayName, teeShirtSize string) (*Profile, error)
	// AddSessionToWishlist wishlists a session. Returns false when it was
	// already wishlisted; ErrNotFound when the session does not exist.
	AddSessionToWishlist(ctx context.Context, userID, sessionID string) (bool, error)
	RemoveSessionFromWishlist(ctx context.Context, userID, sessionID string) (bool, error)
	GetSessionsInWishlist(ctx context.Context, userID string) ([]*Session, error)
}
