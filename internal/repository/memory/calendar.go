package memory

import (
	"slices"
	"sort"
	"sync"

	"conferencescheduler/internal/domain"
)

// Calendar is an in-memory domain.Ledger keyed by event id.
type Calendar struct {
	mu      sync.RWMutex
	entries map[string]domain.Interval
}

// NewCalendar returns an empty ledger.
func NewCalendar() *Calendar {
	return &Calendar{entries: make(map[string]domain.Interval)}
}

func (c *Calendar) IsFree(iv domain.Interval, exclude ...string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return isFree(c.entries, iv, exclude)
}

func (c *Calendar) Book(eventID string, iv domain.Interval) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[eventID] = iv
}

func (c *Calendar) Release(eventID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.entries[eventID]; !ok {
		return false
	}
	delete(c.entries, eventID)
	return true
}

func (c *Calendar) Entry(eventID string) (domain.Interval, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	iv, ok := c.entries[eventID]
	return iv, ok
}

// Entries returns a copy sorted by start time, then event id.
func (c *Calendar) Entries() []domain.Booking {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return sortedBookings(c.entries)
}

func (c *Calendar) load(bookings []domain.Booking) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, b := range bookings {
		c.entries[b.EventID] = b.Interval
	}
}

func isFree(entries map[string]domain.Interval, iv domain.Interval, exclude []string) bool {
	for id, existing := range entries {
		if slices.Contains(exclude, id) {
			continue
		}
		if domain.Overlaps(existing, iv) {
			return false
		}
	}
	return true
}

func sortedBookings(entries map[string]domain.Interval) []domain.Booking {
	out := make([]domain.Booking, 0, len(entries))
	for id, iv := range entries {
		out = append(out, domain.Booking{EventID: id, Interval: iv})
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Interval.Start.Equal(out[j].Interval.Start) {
			return out[i].Interval.Start.Before(out[j].Interval.Start)
		}
		return out[i].EventID < out[j].EventID
	})
	return out
}
