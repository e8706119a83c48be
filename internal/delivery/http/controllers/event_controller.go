package controllers

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"conferencescheduler/internal/delivery/http/helpers"
	"conferencescheduler/internal/domain"
)

// CreateEventRequest is the request body for POST /events. Times use "yyyy-mm-dd hh:mm"
// in the server's time zone. Without a kind, the host count picks one.
type CreateEventRequest struct {
	Name        string   `json:"name" validate:"notblank"`
	Kind        string   `json:"kind" validate:"omitempty,event_kind"`
	Room        string   `json:"room" validate:"notblank"`
	Description string   `json:"description"`
	Start       string   `json:"start" validate:"required,timestamp"`
	End         string   `json:"end" validate:"required,timestamp"`
	Capacity    int      `json:"capacity" validate:"gte=1"`
	Hosts       []string `json:"hosts" validate:"dive,notblank"`
}

// RescheduleRequest is the request body for PATCH /events/{eventID}/schedule.
type RescheduleRequest struct {
	Start string `json:"start" validate:"required,timestamp"`
	End   string `json:"end" validate:"required,timestamp"`
}

// ChangeCapacityRequest is the request body for PATCH /events/{eventID}/capacity.
type ChangeCapacityRequest struct {
	Capacity int `json:"capacity" validate:"gte=1"`
}

// AssignHostRequest is the request body for POST /events/{eventID}/hosts.
type AssignHostRequest struct {
	Username string `json:"username" validate:"notblank"`
}

type EventController struct {
	Logger    *slog.Logger
	Scheduler domain.SchedulingService
	Location  *time.Location
}

func NewEventController(logger *slog.Logger, scheduler domain.SchedulingService, loc *time.Location) *EventController {
	if loc == nil {
		loc = time.UTC
	}
	return &EventController{Logger: logger, Scheduler: scheduler, Location: loc}
}

// CreateEvent godoc
// @Summary Create an event
// @Description Books the room, every host's calendar and the organizer's list in one step, or nothing.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param event body CreateEventRequest true "Event"
// @Success 201 {object} controllers.ProtocolResponse "data.event is the created event"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 403 {object} controllers.ProtocolResponse "error.code: forbidden"
// @Failure 404 {object} controllers.ProtocolResponse "error.code: not_found"
// @Failure 409 {object} controllers.ProtocolResponse "error.code: conflict or capacity_exceeded"
// @Failure 422 {object} controllers.ProtocolResponse "error.code: invalid_slot or type_mismatch"
// @Router /events [post]
func (c *EventController) CreateEvent(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(w, r)
	if !ok {
		return
	}
	var req CreateEventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	iv, err := helpers.ParseInterval(req.Start, req.End, c.Location)
	if err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
		return
	}
	kind := domain.KindForHostCount(len(req.Hosts))
	if req.Kind != "" {
		if kind, err = domain.ParseEventKind(req.Kind); err != nil {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
			return
		}
	}
	hosts := make([]string, 0, len(req.Hosts))
	for _, h := range req.Hosts {
		hosts = append(hosts, strings.TrimSpace(h))
	}
	res, err := c.Scheduler.CreateEvent(r.Context(), domain.CreateEventRequest{
		Organizer:   caller,
		Kind:        kind,
		Name:        strings.TrimSpace(req.Name),
		Room:        strings.TrimSpace(req.Room),
		Description: req.Description,
		Interval:    iv,
		Capacity:    req.Capacity,
		Hosts:       hosts,
	})
	writeProtocol(c.Logger, w, r, http.StatusCreated, res, err)
}

// CancelEvent godoc
// @Summary Cancel an event
// @Description Releases the room and every participant. With only_if_empty=true, events with attendees are kept.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Param only_if_empty query bool false "Only cancel when nobody signed up"
// @Success 200 {object} controllers.ProtocolResponse
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} controllers.ProtocolResponse "error.code: not_found"
// @Failure 409 {object} controllers.ProtocolResponse "error.code: conflict"
// @Router /events/{eventID} [delete]
func (c *EventController) CancelEvent(w http.ResponseWriter, r *http.Request) {
	opts := domain.CancelOptions{}
	if s := r.URL.Query().Get("only_if_empty"); s != "" {
		v, err := strconv.ParseBool(s)
		if err != nil {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "only_if_empty must be a boolean")
			return
		}
		opts.OnlyIfEmpty = v
	}
	res, err := c.Scheduler.CancelEvent(r.Context(), r.PathValue("eventID"), opts)
	writeProtocol(c.Logger, w, r, http.StatusOK, res, err)
}

// RescheduleEvent godoc
// @Summary Move an event to a new interval
// @Description The room and every participant must be free at the new time.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Param body body RescheduleRequest true "New interval"
// @Success 200 {object} controllers.ProtocolResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} controllers.ProtocolResponse "error.code: not_found"
// @Failure 409 {object} controllers.ProtocolResponse "error.code: conflict or no_op"
// @Failure 422 {object} controllers.ProtocolResponse "error.code: invalid_slot"
// @Router /events/{eventID}/schedule [patch]
func (c *EventController) RescheduleEvent(w http.ResponseWriter, r *http.Request) {
	var req RescheduleRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	iv, err := helpers.ParseInterval(req.Start, req.End, c.Location)
	if err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
		return
	}
	res, err := c.Scheduler.RescheduleEvent(r.Context(), r.PathValue("eventID"), iv)
	writeProtocol(c.Logger, w, r, http.StatusOK, res, err)
}

// ChangeCapacity godoc
// @Summary Change an event's capacity
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Param body body ChangeCapacityRequest true "Capacity"
// @Success 200 {object} controllers.ProtocolResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 409 {object} controllers.ProtocolResponse "error.code: capacity_exceeded or no_op"
// @Router /events/{eventID}/capacity [patch]
func (c *EventController) ChangeCapacity(w http.ResponseWriter, r *http.Request) {
	var req ChangeCapacityRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	res, err := c.Scheduler.ChangeCapacity(r.Context(), r.PathValue("eventID"), req.Capacity)
	writeProtocol(c.Logger, w, r, http.StatusOK, res, err)
}

// AssignHost godoc
// @Summary Assign a speaker
// @Description Replaces a talk's speaker or adds a panelist. Parties take no hosts.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Param body body AssignHostRequest true "Speaker"
// @Success 200 {object} controllers.ProtocolResponse
// @Failure 409 {object} controllers.ProtocolResponse "error.code: conflict"
// @Failure 422 {object} controllers.ProtocolResponse "error.code: type_mismatch"
// @Router /events/{eventID}/hosts [post]
func (c *EventController) AssignHost(w http.ResponseWriter, r *http.Request) {
	var req AssignHostRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	res, err := c.Scheduler.AssignHost(r.Context(), r.PathValue("eventID"), strings.TrimSpace(req.Username))
	writeProtocol(c.Logger, w, r, http.StatusOK, res, err)
}

// SignUp godoc
// @Summary Sign the caller up for an event
// @Tags attendees
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Success 200 {object} controllers.ProtocolResponse
// @Failure 404 {object} controllers.ProtocolResponse "error.code: not_found"
// @Failure 409 {object} controllers.ProtocolResponse "error.code: conflict or capacity_exceeded"
// @Router /events/{eventID}/attendees [post]
func (c *EventController) SignUp(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(w, r)
	if !ok {
		return
	}
	res, err := c.Scheduler.SignUp(r.Context(), r.PathValue("eventID"), caller)
	writeProtocol(c.Logger, w, r, http.StatusOK, res, err)
}

// Drop godoc
// @Summary Drop the caller from an event
// @Tags attendees
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Success 200 {object} controllers.ProtocolResponse
// @Failure 404 {object} controllers.ProtocolResponse "error.code: not_found"
// @Router /events/{eventID}/attendees/me [delete]
func (c *EventController) Drop(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(w, r)
	if !ok {
		return
	}
	res, err := c.Scheduler.Drop(r.Context(), r.PathValue("eventID"), caller)
	writeProtocol(c.Logger, w, r, http.StatusOK, res, err)
}
