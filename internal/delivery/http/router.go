package http

import (
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"conferencecentral/internal/delivery/http/controllers"
	"conferencecentral/internal/delivery/http/middleware"
	"conferencecentral/internal/domain"
)

// Controllers bundles the controllers mounted by the router.
type Controllers struct {
	Auth         *controllers.AuthController
	Conference   *controllers.ConferenceController
	Registration *controllers.RegistrationController
	Session      *controllers.SessionController
	Profile      *controllers.ProfileController
	Announcement *controllers.AnnouncementController
}

// NewRouter initializes the HTTP router with all application routes.
// metricsHandler, when non-nil, is mounted at /metrics.
func NewRouter(c Controllers, verifier domain.TokenVerifier, limiter *middleware.RateLimiter, metricsHandler http.Handler) *http.ServeMux {
	mux := http.NewServeMux()
	requireAuth := middleware.RequireAuth(verifier)

	// The limiter keys on the authenticated user when one is set, so on
	// authenticated routes it runs after RequireAuth. Public routes are
	// limited per remote address.
	authed := func(h http.HandlerFunc) http.HandlerFunc {
		return requireAuth(limiter.LimitFunc(h))
	}
	public := limiter.LimitFunc

	// Auth
	mux.HandleFunc("POST /auth/signup", public(c.Auth.SignUp))
	mux.HandleFunc("POST /auth/login", public(c.Auth.Login))

	// Conferences. Literal segments win over {conferenceID}.
	mux.HandleFunc("POST /conferences", authed(c.Conference.CreateConference))
	mux.HandleFunc("POST /conferences/query", public(c.Conference.QueryConferences))
	mux.HandleFunc("GET /conferences/created", authed(c.Conference.ListConferencesCreated))
	mux.HandleFunc("GET /conferences/attending", authed(c.Registration.ListConferencesToAttend))
	mux.HandleFunc("GET /conferences/{conferenceID}", public(c.Conference.GetConference))
	mux.HandleFunc("PATCH /conferences/{conferenceID}", authed(c.Conference.UpdateConference))

	// Registrations
	mux.HandleFunc("POST /conferences/{conferenceID}/registration", authed(c.Registration.Register))
	mux.HandleFunc("DELETE /conferences/{conferenceID}/registration", authed(c.Registration.Unregister))

	// Sessions
	mux.HandleFunc("POST /conferences/{conferenceID}/sessions", authed(c.Session.CreateSession))
	mux.HandleFunc("GET /conferences/{conferenceID}/sessions", public(c.Session.GetConferenceSessions))
	mux.HandleFunc("GET /conferences/{conferenceID}/featured-speaker", public(c.Session.GetFeaturedSpeaker))
	mux.HandleFunc("GET /sessions", public(c.Session.GetSessionsBySpeaker))

	// Profile and wishlist
	mux.HandleFunc("GET /profile", authed(c.Profile.GetProfile))
	mux.HandleFunc("PUT /profile", authed(c.Profile.SaveProfile))
	mux.HandleFunc("GET /profile/wishlist", authed(c.Profile.GetSessionsInWishlist))
	mux.HandleFunc("POST /profile/wishlist/{sessionID}", authed(c.Profile.AddSessionToWishlist))
	mux.HandleFunc("DELETE /profile/wishlist/{sessionID}", authed(c.Profile.RemoveSessionFromWishlist))

	// Announcements
	mux.HandleFunc("GET /announcement", public(c.Announcement.GetAnnouncement))
	mux.HandleFunc("POST /announcement/recompute", public(c.Announcement.RecomputeAnnouncement))

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	// Metrics
	if metricsHandler != nil {
		mux.Handle("GET /metrics", metricsHandler)
	}

	return mux
}
