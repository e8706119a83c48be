package memory

import (
	"sync"

	"conferencescheduler/internal/domain"
)

// RoomSchedule is the in-memory domain.RoomSchedule for one room.
type RoomSchedule struct {
	room domain.Room

	mu       sync.RWMutex
	schedule map[string]domain.Interval
}

// NewRoomSchedule returns a schedule with no bookings.
func NewRoomSchedule(room domain.Room) *RoomSchedule {
	return &RoomSchedule{room: room, schedule: make(map[string]domain.Interval)}
}

func (r *RoomSchedule) Room() domain.Room {
	room := r.room
	room.AvailableHours = append(domain.AvailableHours{}, r.room.AvailableHours...)
	return room
}

func (r *RoomSchedule) IsAvailable(iv domain.Interval, exclude ...string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return isFree(r.schedule, iv, exclude)
}

func (r *RoomSchedule) IsValidHourSlot(iv domain.Interval) bool {
	return r.room.AvailableHours.Contains(iv)
}

func (r *RoomSchedule) Book(eventID string, iv domain.Interval) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.schedule[eventID]; exists {
		return false
	}
	r.schedule[eventID] = iv
	return true
}

func (r *RoomSchedule) Release(eventID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.schedule[eventID]; !ok {
		return false
	}
	delete(r.schedule, eventID)
	return true
}

func (r *RoomSchedule) Entry(eventID string) (domain.Interval, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	iv, ok := r.schedule[eventID]
	return iv, ok
}

func (r *RoomSchedule) Entries() []domain.Booking {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return sortedBookings(r.schedule)
}
