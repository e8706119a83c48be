package domain

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"
)

// EventKind is the closed set of event variants. Each kind fixes how many hosts
// an event may have and how they change.
type EventKind string

const (
	KindTalk  EventKind = "talk"
	KindParty EventKind = "party"
	KindPanel EventKind = "panel"
)

// EventKinds lists every kind in id-prefix order.
var EventKinds = []EventKind{KindTalk, KindParty, KindPanel}

// ParseEventKind maps a case-insensitive name to an EventKind.
// "discussion" and "panel_discussion" are accepted for panels.
func ParseEventKind(s string) (EventKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "talk":
		return KindTalk, nil
	case "party":
		return KindParty, nil
	case "panel", "discussion", "panel_discussion":
		return KindPanel, nil
	}
	return "", fmt.Errorf("event kind %q: %w", s, ErrInvalidInput)
}

// KindForHostCount picks the kind an event with n hosts naturally has.
func KindForHostCount(n int) EventKind {
	switch n {
	case 0:
		return KindParty
	case 1:
		return KindTalk
	default:
		return KindPanel
	}
}

// IDPrefix is the letter that starts every id of this kind.
func (k EventKind) IDPrefix() string {
	switch k {
	case KindTalk:
		return "T"
	case KindParty:
		return "P"
	case KindPanel:
		return "D"
	}
	return ""
}

// ValidHostCount reports whether an event of this kind may have n hosts.
func (k EventKind) ValidHostCount(n int) bool {
	switch k {
	case KindTalk:
		return n == 1
	case KindParty:
		return n == 0
	case KindPanel:
		return n >= 0
	}
	return false
}

// HostPolicy describes how AddHost behaves for the kind.
type HostPolicy int

const (
	HostsFixed   HostPolicy = iota // party: never hosted
	HostsReplace                   // talk: the single speaker is reassigned
	HostsAppend                    // panel: speakers accumulate
)

func (k EventKind) HostPolicy() HostPolicy {
	switch k {
	case KindTalk:
		return HostsReplace
	case KindPanel:
		return HostsAppend
	}
	return HostsFixed
}

// Event is the canonical record of a scheduled event.
// swagger:model Event
type Event struct {
	ID          string    `json:"id"`
	Kind        EventKind `json:"kind"`
	Name        string    `json:"name"`
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	Room        string    `json:"room"`
	Description string    `json:"description"`
	Capacity    int       `json:"capacity"`
	Organizer   string    `json:"organizer"`
	Hosts       []string  `json:"hosts"`
	Attendees   []string  `json:"attendees"`
}

// Interval returns the event's booked time range.
func (e *Event) Interval() Interval {
	return Interval{Start: e.Start, End: e.End}
}

// Clone returns a deep copy so callers cannot mutate registry state.
func (e *Event) Clone() *Event {
	c := *e
	c.Hosts = append([]string{}, e.Hosts...)
	c.Attendees = append([]string{}, e.Attendees...)
	return &c
}

func (e *Event) HasHost(username string) bool {
	return slices.Contains(e.Hosts, username)
}

func (e *Event) HasAttendee(username string) bool {
	return slices.Contains(e.Attendees, username)
}

// CanSignup reports whether another attendee fits within capacity.
func (e *Event) CanSignup() bool {
	return e.Capacity > len(e.Attendees)
}

// AttendanceRate is attendees over capacity; zero-capacity events rate zero.
func (e *Event) AttendanceRate() float64 {
	if e.Capacity <= 0 {
		return 0
	}
	return float64(len(e.Attendees)) / float64(e.Capacity)
}

// Participants returns hosts followed by attendees.
func (e *Event) Participants() []string {
	out := make([]string, 0, len(e.Hosts)+len(e.Attendees))
	out = append(out, e.Hosts...)
	return append(out, e.Attendees...)
}

// NewEvent carries the fields the registry needs to create an event.
type NewEvent struct {
	Kind        EventKind
	Name        string
	Interval    Interval
	Room        string
	Description string
	Capacity    int
	Organizer   string
	Hosts       []string
}

// EventRate is one row of the attendance ranking.
// swagger:model EventRate
type EventRate struct {
	EventID   string  `json:"event_id"`
	Name      string  `json:"name"`
	Attendees int     `json:"attendees"`
	Capacity  int     `json:"capacity"`
	Rate      float64 `json:"rate"`
}

// EventRegistry is the source of truth for events and the global time index.
// It never touches rooms or calendars.
type EventRegistry interface {
	Create(ne NewEvent) (*Event, error)
	Get(id string) (*Event, error)
	Cancel(id string) error
	Reschedule(id string, iv Interval) error
	AddAttendee(id, username string) error
	RemoveAttendee(id, username string) error
	SetCapacity(id string, capacity int) error
	CanSignup(id string) (bool, error)
	// AddHost replaces a talk's speaker or appends a panelist.
	AddHost(id, username string) error
	RemoveHost(id, username string) error

	All() []*Event
	Between(from, to time.Time) []*Event
	OnDate(day time.Time) []*Event
	ByKind(kind EventKind) []*Event
	ByRoom(room string) []*Event
	BySpeaker(username string) []*Event
	Empty() []*Event
	Attendable(unavailable []Interval) []*Event
	AttendanceRanking() []EventRate

	Export() ([]*Event, map[EventKind]int)
	Import(events []*Event, sequences map[EventKind]int) error
}

// EventQuery selects one of the read-side listings.
type EventQuery struct {
	From time.Time
	To   time.Time
	Date time.Time
	Room string
	Kind EventKind
}

// ScheduleQueryService serves read-only views over the schedule.
type ScheduleQueryService interface {
	GetEvent(ctx context.Context, id string) (*Event, error)
	ListEvents(ctx context.Context, q EventQuery) ([]*Event, error)
	EventsBySpeaker(ctx context.Context, username string) ([]*Event, error)
	EmptyEvents(ctx context.Context) ([]*Event, error)
	AttendableEvents(ctx context.Context, username string) ([]*Event, error)
	AttendanceRanking(ctx context.Context, top int) ([]EventRate, error)
}
