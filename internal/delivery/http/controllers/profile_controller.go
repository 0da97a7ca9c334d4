package controllers

import (
	"log/slog"
	"net/http"

	"conferencecentral/internal/delivery/http/helpers"
	"conferencecentral/internal/delivery/http/middleware"
	"conferencecentral/internal/domain"
)

type ProfileController struct {
	Logger  *slog.Logger
	Service domain.ProfileService
}

func NewProfileController(logger *slog.Logger, svc domain.ProfileService) *ProfileController {
	return &ProfileController{
		Logger:  logger,
		Service: svc,
	}
}

// GetProfile godoc
// @Summary Get the current user's profile
// @Description Returns the profile, creating a default one on first access.
// @Tags profile
// @Produce json
// @Security BearerAuth
// @Success 200 {object} helpers.APIResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /profile [get]
func (c *ProfileController) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}

	prof, err := c.Service.GetProfile(r.Context(), userID)
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, prof)
}

// SaveProfileRequest is the request body for PUT /profile.
type SaveProfileRequest struct {
	DisplayName  string `json:"display_name"`
	TeeShirtSize string `json:"tee_shirt_size"`
}

// SaveProfile godoc
// @Summary Update the current user's profile
// @Description Updates display name and t-shirt size. Empty fields keep their current values.
// @Tags profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body controllers.SaveProfileRequest true "Profile fields"
// @Success 200 {object} helpers.APIResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /profile [put]
func (c *ProfileController) SaveProfile(w http.ResponseWriter, r *http.Request) {
	var req SaveProfileRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}

	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}

	prof, err := c.Service.SaveProfile(r.Context(), userID, req.DisplayName, req.TeeShirtSize)
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, prof)
}

// AddSessionToWishlist godoc
// @Summary Add a session to the wishlist
// @Description Wishlists a session. Adding a session that is already wishlisted is a no-op; added=false reports it.
// @Tags profile
// @Produce json
// @Security BearerAuth
// @Param sessionID path string true "Session ID (UUID)"
// @Success 200 {object} helpers.APIResponse "Already wishlisted"
// @Success 201 {object} helpers.APIResponse "Added"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /profile/wishlist/{sessionID} [post]
func (c *ProfileController) AddSessionToWishlist(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("sessionID")
	if !uuidRegex.MatchString(sessionID) {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid sessionID")
		return
	}

	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}

	added, err := c.Service.AddSessionToWishlist(r.Context(), userID, sessionID)
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	status := http.StatusOK
	if added {
		status = http.StatusCreated
	}
	helpers.WriteJSONSuccess(w, status, map[string]bool{"added": added})
}

// RemoveSessionFromWishlist godoc
// @Summary Remove a session from the wishlist
// @Tags profile
// @Produce json
// @Security BearerAuth
// @Param sessionID path string true "Session ID (UUID)"
// @Success 200 {object} helpers.APIResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /profile/wishlist/{sessionID} [delete]
func (c *ProfileController) RemoveSessionFromWishlist(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("sessionID")
	if !uuidRegex.MatchString(sessionID) {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid sessionID")
		return
	}

	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}

	removed, err := c.Service.RemoveSessionFromWishlist(r.Context(), userID, sessionID)
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, map[string]bool{"removed": removed})
}

// GetSessionsInWishlist godoc
// @Summary List the sessions in the current user's wishlist
// @Tags profile
// @Produce json
// @Security BearerAuth
// @Success 200 {object} helpers.APIResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /profile/wishlist [get]
func (c *ProfileController) GetSessionsInWishlist(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}

	sessions, err := c.Service.GetSessionsInWishlist(r.Context(), userID)
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, sessions)
}
