package memory

import (
	"fmt"
	"slices"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"conferencescheduler/internal/domain"
)

// RegistryOption configures NewEventRegistry.
type RegistryOption func(*eventRegistry)

// WithAttendeeLimit caps attendees per event regardless of capacity. Zero disables the cap.
func WithAttendeeLimit(n int) RegistryOption {
	return func(r *eventRegistry) { r.attendeeLimit = n }
}

// eventRegistry keeps one flat map of events plus two secondary indexes:
// ids by kind, and all ids ordered by start time (ties: larger id first).
type eventRegistry struct {
	mu            sync.RWMutex
	events        map[string]*domain.Event
	byKind        map[domain.EventKind]map[string]struct{}
	timeIndex     []string
	sequences     map[domain.EventKind]int
	attendeeLimit int
}

// NewEventRegistry returns an empty domain.EventRegistry.
func NewEventRegistry(opts ...RegistryOption) domain.EventRegistry {
	r := &eventRegistry{}
	r.reset()
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *eventRegistry) reset() {
	r.events = make(map[string]*domain.Event)
	r.byKind = make(map[domain.EventKind]map[string]struct{}, len(domain.EventKinds))
	for _, k := range domain.EventKinds {
		r.byKind[k] = make(map[string]struct{})
	}
	r.timeIndex = nil
	r.sequences = make(map[domain.EventKind]int, len(domain.EventKinds))
}

// scheduledBefore is the index order: start ascending, then id descending.
func scheduledBefore(a, b *domain.Event) bool {
	if !a.Start.Equal(b.Start) {
		return a.Start.Before(b.Start)
	}
	return a.ID > b.ID
}

func (r *eventRegistry) indexInsert(e *domain.Event) {
	pos := sort.Search(len(r.timeIndex), func(i int) bool {
		return !scheduledBefore(r.events[r.timeIndex[i]], e)
	})
	r.timeIndex = slices.Insert(r.timeIndex, pos, e.ID)
}

func (r *eventRegistry) indexRemove(id string) {
	if i := slices.Index(r.timeIndex, id); i >= 0 {
		r.timeIndex = slices.Delete(r.timeIndex, i, i+1)
	}
}

func (r *eventRegistry) Create(ne domain.NewEvent) (*domain.Event, error) {
	if ne.Kind.IDPrefix() == "" {
		return nil, fmt.Errorf("event kind %q: %w", ne.Kind, domain.ErrInvalidInput)
	}
	if !ne.Kind.ValidHostCount(len(ne.Hosts)) {
		return nil, fmt.Errorf("%s with %d hosts: %w", ne.Kind, len(ne.Hosts), domain.ErrTypeMismatch)
	}
	if ne.Capacity < 0 {
		return nil, fmt.Errorf("capacity %d: %w", ne.Capacity, domain.ErrInvalidInput)
	}
	for i, h := range ne.Hosts {
		if slices.Contains(ne.Hosts[:i], h) {
			return nil, fmt.Errorf("host %q listed twice: %w", h, domain.ErrInvalidInput)
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	id := r.nextID(ne.Kind)
	e := &domain.Event{
		ID:          id,
		Kind:        ne.Kind,
		Name:        ne.Name,
		Start:       ne.Interval.Start,
		End:         ne.Interval.End,
		Room:        ne.Room,
		Description: ne.Description,
		Capacity:    ne.Capacity,
		Organizer:   ne.Organizer,
		Hosts:       append([]string{}, ne.Hosts...),
		Attendees:   []string{},
	}
	r.events[id] = e
	r.byKind[e.Kind][id] = struct{}{}
	r.indexInsert(e)
	return e.Clone(), nil
}

func (r *eventRegistry) nextID(kind domain.EventKind) string {
	for {
		id := kind.IDPrefix() + strconv.Itoa(r.sequences[kind])
		r.sequences[kind]++
		if _, taken := r.events[id]; !taken {
			return id
		}
	}
}

func (r *eventRegistry) lookup(id string) (*domain.Event, error) {
	e, ok := r.events[id]
	if !ok {
		return nil, fmt.Errorf("event %q: %w", id, domain.ErrNotFound)
	}
	return e, nil
}

func (r *eventRegistry) Get(id string) (*domain.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, err := r.lookup(id)
	if err != nil {
		return nil, err
	}
	return e.Clone(), nil
}

func (r *eventRegistry) Cancel(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, err := r.lookup(id)
	if err != nil {
		return err
	}
	r.indexRemove(id)
	delete(r.byKind[e.Kind], id)
	delete(r.events, id)
	return nil
}

func (r *eventRegistry) Reschedule(id string, iv domain.Interval) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, err := r.lookup(id)
	if err != nil {
		return err
	}
	if e.Interval().Equal(iv) {
		return fmt.Errorf("event %q already at %s: %w", id, iv, domain.ErrNoOp)
	}
	r.indexRemove(id)
	e.Start, e.End = iv.Start, iv.End
	r.indexInsert(e)
	return nil
}

func (r *eventRegistry) AddAttendee(id, username string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, err := r.lookup(id)
	if err != nil {
		return err
	}
	if e.HasAttendee(username) {
		return fmt.Errorf("%q in event %q: %w", username, id, domain.ErrDuplicate)
	}
	if !e.CanSignup() || (r.attendeeLimit > 0 && len(e.Attendees) >= r.attendeeLimit) {
		return fmt.Errorf("event %q is full: %w", id, domain.ErrCapacityExceeded)
	}
	e.Attendees = append(e.Attendees, username)
	return nil
}

func (r *eventRegistry) RemoveAttendee(id, username string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, err := r.lookup(id)
	if err != nil {
		return err
	}
	i := slices.Index(e.Attendees, username)
	if i < 0 {
		return fmt.Errorf("%q is not attending %q: %w", username, id, domain.ErrNotFound)
	}
	e.Attendees = slices.Delete(e.Attendees, i, i+1)
	return nil
}

func (r *eventRegistry) SetCapacity(id string, capacity int) error {
	if capacity < 0 {
		return fmt.Errorf("capacity %d: %w", capacity, domain.ErrInvalidInput)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	e, err := r.lookup(id)
	if err != nil {
		return err
	}
	if e.Capacity == capacity {
		return fmt.Errorf("event %q capacity already %d: %w", id, capacity, domain.ErrNoOp)
	}
	e.Capacity = capacity
	return nil
}

func (r *eventRegistry) CanSignup(id string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, err := r.lookup(id)
	if err != nil {
		return false, err
	}
	if r.attendeeLimit > 0 && len(e.Attendees) >= r.attendeeLimit {
		return false, nil
	}
	return e.CanSignup(), nil
}

func (r *eventRegistry) AddHost(id, username string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, err := r.lookup(id)
	if err != nil {
		return err
	}
	if e.HasHost(username) {
		return fmt.Errorf("%q already hosts %q: %w", username, id, domain.ErrDuplicate)
	}
	switch e.Kind.HostPolicy() {
	case domain.HostsReplace:
		e.Hosts = []string{username}
	case domain.HostsAppend:
		e.Hosts = append(e.Hosts, username)
	default:
		return fmt.Errorf("%s %q takes no hosts: %w", e.Kind, id, domain.ErrTypeMismatch)
	}
	return nil
}

func (r *eventRegistry) RemoveHost(id, username string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, err := r.lookup(id)
	if err != nil {
		return err
	}
	i := slices.Index(e.Hosts, username)
	if i < 0 {
		return fmt.Errorf("%q does not host %q: %w", username, id, domain.ErrNotFound)
	}
	if !e.Kind.ValidHostCount(len(e.Hosts) - 1) {
		return fmt.Errorf("%s %q needs its host: %w", e.Kind, id, domain.ErrTypeMismatch)
	}
	e.Hosts = slices.Delete(e.Hosts, i, i+1)
	return nil
}

// filter returns clones of indexed events matching keep, in index order.
func (r *eventRegistry) filter(keep func(*domain.Event) bool) []*domain.Event {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domain.Event, 0)
	for _, id := range r.timeIndex {
		if e := r.events[id]; keep(e) {
			out = append(out, e.Clone())
		}
	}
	return out
}

func (r *eventRegistry) All() []*domain.Event {
	return r.filter(func(*domain.Event) bool { return true })
}

// Between returns events lying entirely within [from, to].
func (r *eventRegistry) Between(from, to time.Time) []*domain.Event {
	return r.filter(func(e *domain.Event) bool {
		return !e.Start.Before(from) && !e.End.After(to)
	})
}

// OnDate returns events contained in the calendar day of day, in day's location.
func (r *eventRegistry) OnDate(day time.Time) []*domain.Event {
	y, m, d := day.Date()
	from := time.Date(y, m, d, 0, 0, 0, 0, day.Location())
	return r.Between(from, from.AddDate(0, 0, 1))
}

func (r *eventRegistry) ByKind(kind domain.EventKind) []*domain.Event {
	return r.filter(func(e *domain.Event) bool {
		_, ok := r.byKind[kind][e.ID]
		return ok
	})
}

func (r *eventRegistry) ByRoom(room string) []*domain.Event {
	return r.filter(func(e *domain.Event) bool { return strings.EqualFold(e.Room, room) })
}

func (r *eventRegistry) BySpeaker(username string) []*domain.Event {
	return r.filter(func(e *domain.Event) bool { return e.HasHost(username) })
}

func (r *eventRegistry) Empty() []*domain.Event {
	return r.filter(func(e *domain.Event) bool { return len(e.Attendees) == 0 })
}

// Attendable returns events with a free seat that overlap none of unavailable.
func (r *eventRegistry) Attendable(unavailable []domain.Interval) []*domain.Event {
	return r.filter(func(e *domain.Event) bool {
		if !e.CanSignup() || (r.attendeeLimit > 0 && len(e.Attendees) >= r.attendeeLimit) {
			return false
		}
		for _, iv := range unavailable {
			if domain.Overlaps(iv, e.Interval()) {
				return false
			}
		}
		return true
	})
}

// AttendanceRanking orders events by attendance rate, highest first. Equal rates keep index order.
func (r *eventRegistry) AttendanceRanking() []domain.EventRate {
	events := r.All()
	out := make([]domain.EventRate, 0, len(events))
	for _, e := range events {
		out = append(out, domain.EventRate{
			EventID:   e.ID,
			Name:      e.Name,
			Attendees: len(e.Attendees),
			Capacity:  e.Capacity,
			Rate:      e.AttendanceRate(),
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Rate > out[j].Rate })
	return out
}

func (r *eventRegistry) Export() ([]*domain.Event, map[domain.EventKind]int) {
	events := r.All()
	r.mu.RLock()
	defer r.mu.RUnlock()
	seq := make(map[domain.EventKind]int, len(r.sequences))
	for k, v := range r.sequences {
		seq[k] = v
	}
	return events, seq
}

// Import replaces all events. Sequences never move below what the imported ids imply.
func (r *eventRegistry) Import(events []*domain.Event, sequences map[domain.EventKind]int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reset()
	for k, v := range sequences {
		r.sequences[k] = v
	}
	for _, src := range events {
		e := src.Clone()
		if _, ok := r.byKind[e.Kind]; !ok {
			r.reset()
			return fmt.Errorf("import event %q kind %q: %w", e.ID, e.Kind, domain.ErrInvalidInput)
		}
		if _, dup := r.events[e.ID]; dup {
			r.reset()
			return fmt.Errorf("import event %q: %w", e.ID, domain.ErrDuplicate)
		}
		r.events[e.ID] = e
		r.byKind[e.Kind][e.ID] = struct{}{}
		r.indexInsert(e)
		if n, err := strconv.Atoi(strings.TrimPrefix(e.ID, e.Kind.IDPrefix())); err == nil && n >= r.sequences[e.Kind] {
			r.sequences[e.Kind] = n + 1
		}
	}
	return nil
}
