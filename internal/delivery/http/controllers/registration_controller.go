package controllers

import (
	"log/slog"
	"net/http"

	"conferencecentral/internal/delivery/http/helpers"
	"conferencecentral/internal/delivery/http/middleware"
	"conferencecentral/internal/domain"
)

type RegistrationController struct {
	Logger  *slog.Logger
	Service domain.RegistrationService
}

func NewRegistrationController(logger *slog.Logger, svc domain.RegistrationService) *RegistrationController {
	return &RegistrationController{
		Logger:  logger,
		Service: svc,
	}
}

// Register godoc
// @Summary Register for a conference
// @Description Claims one seat for the authenticated user. Fails with 409 when already registered or sold out, 503 when concurrent updates prevented a decision.
// @Tags registrations
// @Produce json
// @Security BearerAuth
// @Param conferenceID path string true "Conference ID (UUID)"
// @Success 201 {object} helpers.APIResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Failure 503 {object} helpers.APIResponse "error.code: unavailable"
// @Router /conferences/{conferenceID}/registration [post]
func (c *RegistrationController) Register(w http.ResponseWriter, r *http.Request) {
	conferenceID := r.PathValue("conferenceID")
	if !uuidRegex.MatchString(conferenceID) {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid conferenceID")
		return
	}

	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}

	if err := c.Service.Register(r.Context(), userID, conferenceID); err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, map[string]bool{"registered": true})
}

// Unregister godoc
// @Summary Unregister from a conference
// @Description Releases the authenticated user's seat. Returns removed=false when the user was not registered.
// @Tags registrations
// @Produce json
// @Security BearerAuth
// @Param conferenceID path string true "Conference ID (UUID)"
// @Success 200 {object} helpers.APIResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 503 {object} helpers.APIResponse "error.code: unavailable"
// @Router /conferences/{conferenceID}/registration [delete]
func (c *RegistrationController) Unregister(w http.ResponseWriter, r *http.Request) {
	conferenceID := r.PathValue("conferenceID")
	if !uuidRegex.MatchString(conferenceID) {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid conferenceID")
		return
	}

	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}

	removed, err := c.Service.Unregister(r.Context(), userID, conferenceID)
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, map[string]bool{"removed": removed})
}

// ListConferencesToAttend godoc
// @Summary List conferences the current user is registered for
// @Description Returns the user's attend list in registration order, with organizer display names.
// @Tags registrations
// @Produce json
// @Security BearerAuth
// @Success 200 {object} helpers.APIResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /conferences/attending [get]
func (c *RegistrationController) ListConferencesToAttend(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}

	confs, err := c.Service.ListConferencesToAttend(r.Context(), userID)
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, confs)
}
