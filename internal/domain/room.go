package domain

import "context"

// Room is a bookable location with a static capacity and declared available hours.
// swagger:model Room
type Room struct {
	Name           string         `json:"name"`
	Capacity       int            `json:"capacity"`
	AvailableHours AvailableHours `json:"available_hours"`
}

// NewRoom returns a Room. Hours are expected to come from NewAvailableHours.
func NewRoom(name string, capacity int, hours AvailableHours) *Room {
	return &Room{Name: name, Capacity: capacity, AvailableHours: hours}
}

// RoomSchedule is one room's booked intervals keyed by event id.
type RoomSchedule interface {
	Room() Room
	// IsAvailable reports whether iv overlaps no booking, ignoring the excluded event ids.
	IsAvailable(iv Interval, exclude ...string) bool
	IsValidHourSlot(iv Interval) bool
	// Book returns false without mutating when eventID already holds a booking.
	// It does not check availability.
	Book(eventID string, iv Interval) bool
	Release(eventID string) bool
	Entry(eventID string) (Interval, bool)
	Entries() []Booking
}

// RoomStore owns every RoomSchedule, keyed by unique room name.
type RoomStore interface {
	Add(room Room) (RoomSchedule, error)
	Get(name string) (RoomSchedule, error)
	List() []RoomSchedule
	// Locate returns the schedule holding a booking for eventID.
	Locate(eventID string) (RoomSchedule, bool)
	Export() []RoomRecord
	Import(records []RoomRecord) error
}

// RoomView is a room together with its current bookings.
// swagger:model RoomView
type RoomView struct {
	Room
	Bookings []Booking `json:"bookings"`
}

// RoomService manages the room catalogue.
type RoomService interface {
	AddRoom(ctx context.Context, caller string, room Room) (*RoomView, error)
	ListRooms(ctx context.Context) ([]*RoomView, error)
	GetRoom(ctx context.Context, name string) (*RoomView, error)
}
