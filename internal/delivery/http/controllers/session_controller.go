package controllers

import (
	"log/slog"
	"net/http"
	"strings"

	"conferencecentral/internal/delivery/http/helpers"
	"conferencecentral/internal/delivery/http/middleware"
	"conferencecentral/internal/domain"
)

type SessionController struct {
	Logger  *slog.Logger
	Service domain.SessionService
}

func NewSessionController(logger *slog.Logger, svc domain.SessionService) *SessionController {
	return &SessionController{
		Logger:  logger,
		Service: svc,
	}
}

// CreateSessionRequest is the request body for POST /conferences/{conferenceID}/sessions.
type CreateSessionRequest struct {
	Name       string   `json:"name"`
	Speaker    string   `json:"speaker"`
	Type       string   `json:"type"`
	Duration   int      `json:"duration"`
	StartDate  string   `json:"start_date"`
	StartTime  string   `json:"start_time"`
	Highlights []string `json:"highlights"`
}

// Validate implements helpers.Validator.
func (r *CreateSessionRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(r.Name) == "" {
		errs = append(errs, "name is required")
	}
	if strings.TrimSpace(r.Speaker) == "" {
		errs = append(errs, "speaker is required")
	}
	if strings.TrimSpace(r.Type) == "" {
		errs = append(errs, "type is required")
	}
	if r.Duration <= 0 {
		errs = append(errs, "duration must be positive")
	}
	if strings.TrimSpace(r.StartDate) == "" {
		errs = append(errs, "start_date is required")
	}
	return errs
}

// CreateSession godoc
// @Summary Add a session to a conference
// @Description Creates a session. Only the conference organizer may add sessions. A speaker reaching two or more sessions in the conference becomes the featured speaker.
// @Tags sessions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param conferenceID path string true "Conference ID (UUID)"
// @Param body body controllers.CreateSessionRequest true "Session details"
// @Success 201 {object} helpers.APIResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /conferences/{conferenceID}/sessions [post]
func (c *SessionController) CreateSession(w http.ResponseWriter, r *http.Request) {
	conferenceID := r.PathValue("conferenceID")
	if !uuidRegex.MatchString(conferenceID) {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid conferenceID")
		return
	}

	var req CreateSessionRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}

	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}

	sess, err := c.Service.CreateSession(r.Context(), userID, conferenceID, &domain.SessionInput{
		Name:       req.Name,
		Speaker:    req.Speaker,
		Type:       req.Type,
		Duration:   req.Duration,
		StartDate:  req.StartDate,
		StartTime:  req.StartTime,
		Highlights: req.Highlights,
	})
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, sess)
}

// GetConferenceSessions godoc
// @Summary List sessions of a conference
// @Description Lists all sessions of a conference. Optional query parameters narrow the result: type (lecture, keynote, workshop), highlight, or date (YYYY-MM-DD). At most one may be given.
// @Tags sessions
// @Produce json
// @Param conferenceID path string true "Conference ID (UUID)"
// @Param type query string false "Session type"
// @Param highlight query string false "Highlight"
// @Param date query string false "Day (YYYY-MM-DD)"
// @Success 200 {object} helpers.APIResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /conferences/{conferenceID}/sessions [get]
func (c *SessionController) GetConferenceSessions(w http.ResponseWriter, r *http.Request) {
	conferenceID := r.PathValue("conferenceID")
	if !uuidRegex.MatchString(conferenceID) {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid conferenceID")
		return
	}

	query := r.URL.Query()
	typ := query.Get("type")
	highlight := query.Get("highlight")
	date := query.Get("date")

	given := 0
	for _, v := range []string{typ, highlight, date} {
		if v != "" {
			given++
		}
	}
	if given > 1 {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest,
			"at most one of type, highlight, date may be given")
		return
	}

	var (
		sessions []*domain.Session
		err      error
	)
	switch {
	case typ != "":
		sessions, err = c.Service.GetConferenceSessionsByType(r.Context(), conferenceID, typ)
	case highlight != "":
		sessions, err = c.Service.GetConferenceSessionsByHighlight(r.Context(), conferenceID, highlight)
	case date != "":
		sessions, err = c.Service.GetConferenceSessionsByDate(r.Context(), conferenceID, date)
	default:
		sessions, err = c.Service.GetConferenceSessions(r.Context(), conferenceID)
	}
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, sessions)
}

// GetSessionsBySpeaker godoc
// @Summary List sessions by speaker across all conferences
// @Tags sessions
// @Produce json
// @Param speaker query string true "Speaker name"
// @Success 200 {object} helpers.APIResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /sessions [get]
func (c *SessionController) GetSessionsBySpeaker(w http.ResponseWriter, r *http.Request) {
	speaker := r.URL.Query().Get("speaker")
	if strings.TrimSpace(speaker) == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing speaker")
		return
	}

	sessions, err := c.Service.GetSessionsBySpeaker(r.Context(), speaker)
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, sessions)
}

// GetFeaturedSpeaker godoc
// @Summary Get the featured speakers of a conference
// @Description Returns the cached featured speakers (speaker name to session names). An empty object means no featured speaker.
// @Tags sessions
// @Produce json
// @Param conferenceID path string true "Conference ID (UUID)"
// @Success 200 {object} helpers.APIResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /conferences/{conferenceID}/featured-speaker [get]
func (c *SessionController) GetFeaturedSpeaker(w http.ResponseWriter, r *http.Request) {
	conferenceID := r.PathValue("conferenceID")
	if !uuidRegex.MatchString(conferenceID) {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid conferenceID")
		return
	}

	featured, err := c.Service.GetFeaturedSpeaker(r.Context(), conferenceID)
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, featured)
}
