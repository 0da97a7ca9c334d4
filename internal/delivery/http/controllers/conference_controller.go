package controllers

import (
	"log/slog"
	"net/http"
	"strings"

	"conferencecentral/internal/delivery/http/helpers"
	"conferencecentral/internal/delivery/http/middleware"
	"conferencecentral/internal/domain"
)

type ConferenceController struct {
	Logger  *slog.Logger
	Service domain.ConferenceService
}

func NewConferenceController(logger *slog.Logger, svc domain.ConferenceService) *ConferenceController {
	return &ConferenceController{
		Logger:  logger,
		Service: svc,
	}
}

// CreateConferenceRequest is the request body for POST /conferences.
type CreateConferenceRequest struct {
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Topics       []string `json:"topics"`
	City         string   `json:"city"`
	StartDate    string   `json:"start_date"`
	EndDate      string   `json:"end_date"`
	MaxAttendees int      `json:"max_attendees"`
}

// Validate implements helpers.Validator.
func (r *CreateConferenceRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(r.Name) == "" {
		errs = append(errs, "name is required")
	}
	if r.MaxAttendees < 0 {
		errs = append(errs, "max_attendees must not be negative")
	}
	return errs
}

// CreateConference godoc
// @Summary Create a conference
// @Description Creates a conference organized by the authenticated user. Empty city and topics fall back to defaults; seats start at max_attendees.
// @Tags conferences
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body controllers.CreateConferenceRequest true "Conference details"
// @Success 201 {object} helpers.APIResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /conferences [post]
func (c *ConferenceController) CreateConference(w http.ResponseWriter, r *http.Request) {
	var req CreateConferenceRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}

	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}

	conf, err := c.Service.CreateConference(r.Context(), userID, &domain.ConferenceInput{
		Name:         req.Name,
		Description:  req.Description,
		Topics:       req.Topics,
		City:         req.City,
		StartDate:    req.StartDate,
		EndDate:      req.EndDate,
		MaxAttendees: req.MaxAttendees,
	})
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, conf)
}

// UpdateConferenceRequest is the request body for PATCH /conferences/{conferenceID}.
// Absent fields keep their current values.
type UpdateConferenceRequest struct {
	Name         *string   `json:"name,omitempty"`
	Description  *string   `json:"description,omitempty"`
	Topics       *[]string `json:"topics,omitempty"`
	City         *string   `json:"city,omitempty"`
	StartDate    *string   `json:"start_date,omitempty"`
	EndDate      *string   `json:"end_date,omitempty"`
	MaxAttendees *int      `json:"max_attendees,omitempty"`
}

// UpdateConference godoc
// @Summary Update a conference
// @Description Applies a partial update. Only the organizer may update a conference.
// @Tags conferences
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param conferenceID path string true "Conference ID (UUID)"
// @Param body body controllers.UpdateConferenceRequest true "Fields to update"
// @Success 200 {object} helpers.APIResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /conferences/{conferenceID} [patch]
func (c *ConferenceController) UpdateConference(w http.ResponseWriter, r *http.Request) {
	conferenceID := r.PathValue("conferenceID")
	if !uuidRegex.MatchString(conferenceID) {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid conferenceID")
		return
	}

	var req UpdateConferenceRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}

	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}

	conf, err := c.Service.UpdateConference(r.Context(), userID, conferenceID, &domain.ConferenceUpdate{
		Name:         req.Name,
		Description:  req.Description,
		Topics:       req.Topics,
		City:         req.City,
		StartDate:    req.StartDate,
		EndDate:      req.EndDate,
		MaxAttendees: req.MaxAttendees,
	})
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, conf)
}

// GetConference godoc
// @Summary Get a conference
// @Tags conferences
// @Produce json
// @Param conferenceID path string true "Conference ID (UUID)"
// @Success 200 {object} helpers.APIResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /conferences/{conferenceID} [get]
func (c *ConferenceController) GetConference(w http.ResponseWriter, r *http.Request) {
	conferenceID := r.PathValue("conferenceID")
	if !uuidRegex.MatchString(conferenceID) {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid conferenceID")
		return
	}

	conf, err := c.Service.GetConference(r.Context(), conferenceID)
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, conf)
}

// ListConferencesCreated godoc
// @Summary List conferences created by the current user
// @Tags conferences
// @Produce json
// @Security BearerAuth
// @Success 200 {object} helpers.APIResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /conferences/created [get]
func (c *ConferenceController) ListConferencesCreated(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}

	confs, err := c.Service.ListConferencesCreated(r.Context(), userID)
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, confs)
}

// FilterRequest is one filter clause in a conference query.
type FilterRequest struct {
	Field    string `json:"field"`
	Operator string `json:"operator"`
	Value    string `json:"value"`
}

// QueryConferencesRequest is the request body for POST /conferences/query.
type QueryConferencesRequest struct {
	Filters []FilterRequest `json:"filters"`
}

// QueryConferences godoc
// @Summary Query conferences with filters
// @Description Runs a filtered conference query. Fields: CITY, TOPIC, MONTH, MAX_ATTENDEES. Operators: EQ, GT, GTEQ, LT, LTEQ, NE. Inequality operators may target only one field per query.
// @Tags conferences
// @Accept json
// @Produce json
// @Param body body controllers.QueryConferencesRequest true "Filters"
// @Success 200 {object} helpers.APIResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /conferences/query [post]
func (c *ConferenceController) QueryConferences(w http.ResponseWriter, r *http.Request) {
	var req QueryConferencesRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}

	filters := make([]domain.Filter, 0, len(req.Filters))
	for _, f := range req.Filters {
		filters = append(filters, domain.Filter{
			Field:    f.Field,
			Operator: f.Operator,
			Value:    f.Value,
		})
	}

	confs, err := c.Service.QueryConferences(r.Context(), filters)
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, confs)
}
