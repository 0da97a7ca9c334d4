package controllers

import (
	"log/slog"
	"net/http"

	"conferencecentral/internal/delivery/http/helpers"
	"conferencecentral/internal/domain"
)

type AnnouncementController struct {
	Logger  *slog.Logger
	Service domain.AnnouncementService
}

func NewAnnouncementController(logger *slog.Logger, svc domain.AnnouncementService) *AnnouncementController {
	return &AnnouncementController{
		Logger:  logger,
		Service: svc,
	}
}

// GetAnnouncement godoc
// @Summary Get the current "almost sold out" announcement
// @Description Returns the cached announcement text; empty when no conference is nearly sold out.
// @Tags announcements
// @Produce json
// @Success 200 {object} helpers.APIResponse
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /announcement [get]
func (c *AnnouncementController) GetAnnouncement(w http.ResponseWriter, r *http.Request) {
	announcement, err := c.Service.Get(r.Context())
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, map[string]string{"announcement": announcement})
}

// RecomputeAnnouncement godoc
// @Summary Rebuild the "almost sold out" announcement
// @Description Recomputes the announcement from current seat counts and stores it in the cache. Intended for scheduled invocation.
// @Tags announcements
// @Produce json
// @Success 200 {object} helpers.APIResponse
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /announcement/recompute [post]
func (c *AnnouncementController) RecomputeAnnouncement(w http.ResponseWriter, r *http.Request) {
	announcement, err := c.Service.Recompute(r.Context())
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, map[string]string{"announcement": announcement})
}
