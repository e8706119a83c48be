package memory

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"conferencescheduler/internal/domain"
)

type roomStore struct {
	mu    sync.RWMutex
	rooms map[string]*RoomSchedule
}

// NewRoomStore returns an empty domain.RoomStore.
func NewRoomStore() domain.RoomStore {
	return &roomStore{rooms: make(map[string]*RoomSchedule)}
}

func (s *roomStore) Add(room domain.Room) (domain.RoomSchedule, error) {
	name := strings.TrimSpace(room.Name)
	if name == "" {
		return nil, fmt.Errorf("room name is required: %w", domain.ErrInvalidInput)
	}
	if room.Capacity < 0 {
		return nil, fmt.Errorf("room capacity %d: %w", room.Capacity, domain.ErrInvalidInput)
	}
	hours, err := domain.NewAvailableHours(room.AvailableHours...)
	if err != nil {
		return nil, err
	}
	room.Name = name
	room.AvailableHours = hours

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.rooms[name]; exists {
		return nil, fmt.Errorf("room %q: %w", name, domain.ErrDuplicate)
	}
	rs := NewRoomSchedule(room)
	s.rooms[name] = rs
	return rs, nil
}

func (s *roomStore) Get(name string) (domain.RoomSchedule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rs, ok := s.rooms[name]
	if !ok {
		return nil, fmt.Errorf("room %q: %w", name, domain.ErrNotFound)
	}
	return rs, nil
}

// List returns rooms ordered by name.
func (s *roomStore) List() []domain.RoomSchedule {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.rooms))
	for name := range s.rooms {
		names = append(names, name)
	}
	sort.Strings(names)
	out := make([]domain.RoomSchedule, 0, len(names))
	for _, name := range names {
		out = append(out, s.rooms[name])
	}
	return out
}

func (s *roomStore) Locate(eventID string) (domain.RoomSchedule, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, rs := range s.rooms {
		if _, ok := rs.Entry(eventID); ok {
			return rs, true
		}
	}
	return nil, false
}

func (s *roomStore) Export() []domain.RoomRecord {
	out := make([]domain.RoomRecord, 0)
	for _, rs := range s.List() {
		out = append(out, domain.RoomRecord{Room: rs.Room(), Bookings: rs.Entries()})
	}
	return out
}

// Import replaces every room with the given records.
func (s *roomStore) Import(records []domain.RoomRecord) error {
	rooms := make(map[string]*RoomSchedule, len(records))
	for _, rec := range records {
		if _, dup := rooms[rec.Room.Name]; dup {
			return fmt.Errorf("import room %q: %w", rec.Room.Name, domain.ErrDuplicate)
		}
		rs := NewRoomSchedule(rec.Room)
		for _, b := range rec.Bookings {
			if !rs.Book(b.EventID, b.Interval) {
				return fmt.Errorf("import room %q booking %s: %w", rec.Room.Name, b.EventID, domain.ErrDuplicate)
			}
		}
		rooms[rec.Room.Name] = rs
	}
	s.mu.Lock()
	s.rooms = rooms
	s.mu.Unlock()
	return nil
}
