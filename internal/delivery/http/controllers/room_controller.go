package controllers

import (
	"log/slog"
	"net/http"
	"strings"

	"conferencescheduler/internal/delivery/http/helpers"
	"conferencescheduler/internal/domain"
)

// HourRangeRequest is one bookable window, in whole hours of the day.
type HourRangeRequest struct {
	Start int `json:"start" validate:"gte=0,lte=23"`
	End   int `json:"end" validate:"gte=0,lte=23"`
}

// AddRoomRequest is the request body for POST /rooms.
type AddRoomRequest struct {
	Name           string             `json:"name" validate:"notblank,max=64"`
	Capacity       int                `json:"capacity" validate:"gte=0"`
	AvailableHours []HourRangeRequest `json:"available_hours" validate:"required,min=1,dive"`
}

// RoomSuccessResponse is the success envelope for a single room.
type RoomSuccessResponse struct {
	Data  *domain.RoomView  `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// RoomListSuccessResponse is the success envelope for GET /rooms.
type RoomListSuccessResponse struct {
	Data  []*domain.RoomView `json:"data"`
	Error *helpers.APIError  `json:"error"`
}

type RoomController struct {
	Logger  *slog.Logger
	Rooms   domain.RoomService
	Queries domain.ScheduleQueryService
}

func NewRoomController(logger *slog.Logger, rooms domain.RoomService, queries domain.ScheduleQueryService) *RoomController {
	return &RoomController{Logger: logger, Rooms: rooms, Queries: queries}
}

// AddRoom godoc
// @Summary Add a room
// @Tags rooms
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body AddRoomRequest true "Room"
// @Success 201 {object} controllers.RoomSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Router /rooms [post]
func (c *RoomController) AddRoom(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(w, r)
	if !ok {
		return
	}
	var req AddRoomRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	ranges := make([]domain.HourRange, 0, len(req.AvailableHours))
	for _, h := range req.AvailableHours {
		ranges = append(ranges, domain.HourRange{Start: h.Start, End: h.End})
	}
	hours, err := domain.NewAvailableHours(ranges...)
	if err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
		return
	}
	view, err := c.Rooms.AddRoom(r.Context(), caller, *domain.NewRoom(strings.TrimSpace(req.Name), req.Capacity, hours))
	if err != nil {
		writeFailure(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, view)
}

// ListRooms godoc
// @Summary List rooms with their bookings
// @Tags rooms
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.RoomListSuccessResponse
// @Router /rooms [get]
func (c *RoomController) ListRooms(w http.ResponseWriter, r *http.Request) {
	rooms, err := c.Rooms.ListRooms(r.Context())
	if err != nil {
		writeFailure(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, rooms)
}

// GetRoom godoc
// @Summary Get a room and its booked entries
// @Tags rooms
// @Produce json
// @Security BearerAuth
// @Param room path string true "Room name"
// @Success 200 {object} controllers.RoomSuccessResponse
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /rooms/{room} [get]
func (c *RoomController) GetRoom(w http.ResponseWriter, r *http.Request) {
	view, err := c.Rooms.GetRoom(r.Context(), r.PathValue("room"))
	if err != nil {
		writeFailure(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, view)
}

// RoomEvents godoc
// @Summary Events held in a room
// @Tags rooms
// @Produce json
// @Security BearerAuth
// @Param room path string true "Room name"
// @Success 200 {object} controllers.EventListSuccessResponse
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /rooms/{room}/events [get]
func (c *RoomController) RoomEvents(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("room")
	if _, err := c.Rooms.GetRoom(r.Context(), name); err != nil {
		writeFailure(c.Logger, w, r, err)
		return
	}
	events, err := c.Queries.ListEvents(r.Context(), domain.EventQuery{Room: name})
	if err != nil {
		writeFailure(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, events)
}
