package controllers

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"conferencescheduler/internal/delivery/http/helpers"
	"conferencescheduler/internal/domain"
)

const defaultRankingSize = 10

// ListEventsResponse is one page of GET /events.
type ListEventsResponse struct {
	Events     []*domain.Event        `json:"events"`
	Pagination helpers.PaginationMeta `json:"pagination"`
}

// ListEventsSuccessResponse is the success envelope for GET /events.
type ListEventsSuccessResponse struct {
	Data  ListEventsResponse `json:"data"`
	Error *helpers.APIError  `json:"error"`
}

// EventSuccessResponse is the success envelope for GET /events/{eventID}.
type EventSuccessResponse struct {
	Data  *domain.Event     `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// RankingSuccessResponse is the success envelope for GET /events/attendance.
type RankingSuccessResponse struct {
	Data  []domain.EventRate `json:"data"`
	Error *helpers.APIError  `json:"error"`
}

type ScheduleController struct {
	Logger   *slog.Logger
	Queries  domain.ScheduleQueryService
	Location *time.Location
}

func NewScheduleController(logger *slog.Logger, queries domain.ScheduleQueryService, loc *time.Location) *ScheduleController {
	if loc == nil {
		loc = time.UTC
	}
	return &ScheduleController{Logger: logger, Queries: queries, Location: loc}
}

// ListEvents godoc
// @Summary List the schedule
// @Description Filters by one of: from and to (inclusive, "yyyy-mm-dd hh:mm"), date ("yyyy-mm-dd"), room, kind. Sorted by start time.
// @Tags schedule
// @Produce json
// @Security BearerAuth
// @Param from query string false "Range start"
// @Param to query string false "Range end"
// @Param date query string false "Day"
// @Param room query string false "Room name"
// @Param kind query string false "talk, party or panel"
// @Param page query int false "Page (default 1)"
// @Param page_size query int false "Page size (default 50, max 200)"
// @Success 200 {object} controllers.ListEventsSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Router /events [get]
func (c *ScheduleController) ListEvents(w http.ResponseWriter, r *http.Request) {
	q, err := c.parseEventQuery(r)
	if err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
		return
	}
	events, err := c.Queries.ListEvents(r.Context(), q)
	if err != nil {
		writeFailure(c.Logger, w, r, err)
		return
	}
	page, meta := helpers.Paginate(events, helpers.ParsePagination(r))
	helpers.WriteJSONSuccess(w, http.StatusOK, ListEventsResponse{Events: page, Pagination: meta})
}

func (c *ScheduleController) parseEventQuery(r *http.Request) (domain.EventQuery, error) {
	var q domain.EventQuery
	var err error
	v := r.URL.Query()
	if s := v.Get("from"); s != "" {
		if q.From, err = helpers.ParseTimestamp(s, c.Location); err != nil {
			return q, err
		}
	}
	if s := v.Get("to"); s != "" {
		if q.To, err = helpers.ParseTimestamp(s, c.Location); err != nil {
			return q, err
		}
	}
	if s := v.Get("date"); s != "" {
		if q.Date, err = time.ParseInLocation(time.DateOnly, strings.TrimSpace(s), c.Location); err != nil {
			return q, fmt.Errorf("date %q must use the yyyy-mm-dd format", s)
		}
	}
	q.Room = strings.TrimSpace(v.Get("room"))
	if s := v.Get("kind"); s != "" {
		if q.Kind, err = domain.ParseEventKind(s); err != nil {
			return q, err
		}
	}
	return q, nil
}

// GetEvent godoc
// @Summary Get an event
// @Tags schedule
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Success 200 {object} controllers.EventSuccessResponse
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /events/{eventID} [get]
func (c *ScheduleController) GetEvent(w http.ResponseWriter, r *http.Request) {
	event, err := c.Queries.GetEvent(r.Context(), r.PathValue("eventID"))
	if err != nil {
		writeFailure(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, event)
}

// EmptyEvents godoc
// @Summary Events nobody has signed up for
// @Tags schedule
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.EventListSuccessResponse
// @Router /events/empty [get]
func (c *ScheduleController) EmptyEvents(w http.ResponseWriter, r *http.Request) {
	events, err := c.Queries.EmptyEvents(r.Context())
	if err != nil {
		writeFailure(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, events)
}

// AttendableEvents godoc
// @Summary Events the caller could still attend
// @Description Events with a free seat that clash with nothing on the caller's calendar.
// @Tags schedule
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.EventListSuccessResponse
// @Router /events/attendable [get]
func (c *ScheduleController) AttendableEvents(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(w, r)
	if !ok {
		return
	}
	events, err := c.Queries.AttendableEvents(r.Context(), caller)
	if err != nil {
		writeFailure(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, events)
}

// AttendanceRanking godoc
// @Summary Events ranked by attendance rate
// @Tags schedule
// @Produce json
// @Security BearerAuth
// @Param top query int false "How many (default 10, 0 for all)"
// @Success 200 {object} controllers.RankingSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Router /events/attendance [get]
func (c *ScheduleController) AttendanceRanking(w http.ResponseWriter, r *http.Request) {
	top := defaultRankingSize
	if s := r.URL.Query().Get("top"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 0 {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "top must be a non-negative integer")
			return
		}
		top = v
	}
	rates, err := c.Queries.AttendanceRanking(r.Context(), top)
	if err != nil {
		writeFailure(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, rates)
}

// SpeakerEvents godoc
// @Summary Events a speaker hosts
// @Tags schedule
// @Produce json
// @Security BearerAuth
// @Param username path string true "Speaker username"
// @Success 200 {object} controllers.EventListSuccessResponse
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /speakers/{username}/events [get]
func (c *ScheduleController) SpeakerEvents(w http.ResponseWriter, r *http.Request) {
	events, err := c.Queries.EventsBySpeaker(r.Context(), r.PathValue("username"))
	if err != nil {
		writeFailure(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, events)
}
