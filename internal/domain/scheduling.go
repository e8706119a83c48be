package domain

import (
	"context"
	"strings"
)

// Outcome is the overall result of one coordinator protocol run.
type Outcome string

const (
	OutcomeCommitted Outcome = "committed"
	OutcomeAborted   Outcome = "aborted"
	OutcomeRejected  Outcome = "rejected"
)

// Step reports a single store interaction inside a protocol.
// swagger:model Step
type Step struct {
	Name  string `json:"name"`
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// ProtocolResult is returned by every coordinator operation, including failed ones.
// swagger:model ProtocolResult
type ProtocolResult struct {
	Protocol string  `json:"protocol"`
	EventID  string  `json:"event_id,omitempty"`
	Outcome  Outcome `json:"outcome"`
	Steps    []Step  `json:"steps"`
	Event    *Event  `json:"event,omitempty"`
}

// Protocol names, also used as metric labels.
const (
	ProtocolCreate         = "create"
	ProtocolCancel         = "cancel"
	ProtocolReschedule     = "reschedule"
	ProtocolSignUp         = "sign_up"
	ProtocolDrop           = "drop"
	ProtocolAssignHost     = "assign_host"
	ProtocolChangeCapacity = "change_capacity"
)

// CreateEventRequest asks the coordinator to create and book an event.
// A blank name or room, or a zero interval, is the abort signal.
type CreateEventRequest struct {
	Organizer   string
	Kind        EventKind
	Name        string
	Room        string
	Description string
	Interval    Interval
	Capacity    int
	Hosts       []string
}

// Aborted reports whether the caller backed out instead of supplying input.
func (r CreateEventRequest) Aborted() bool {
	return strings.TrimSpace(r.Name) == "" || strings.TrimSpace(r.Room) == "" || r.Interval.IsZero()
}

// CancelOptions tunes the cancel protocol.
type CancelOptions struct {
	// OnlyIfEmpty rejects the cancellation when anyone is signed up.
	OnlyIfEmpty bool
}

// SchedulingService is the only component that writes rooms, calendars and the
// event registry together. A blank event id or username is treated as an abort.
type SchedulingService interface {
	CreateEvent(ctx context.Context, req CreateEventRequest) (*ProtocolResult, error)
	CancelEvent(ctx context.Context, eventID string, opts CancelOptions) (*ProtocolResult, error)
	RescheduleEvent(ctx context.Context, eventID string, iv Interval) (*ProtocolResult, error)
	SignUp(ctx context.Context, eventID, username string) (*ProtocolResult, error)
	Drop(ctx context.Context, eventID, username string) (*ProtocolResult, error)
	AssignHost(ctx context.Context, eventID, speaker string) (*ProtocolResult, error)
	ChangeCapacity(ctx context.Context, eventID string, capacity int) (*ProtocolResult, error)
	// Exclusive runs fn while no protocol is in flight.
	Exclusive(ctx context.Context, fn func() error) error
}

// ProtocolObserver receives the outcome of each protocol run (e.g. for metrics).
type ProtocolObserver interface {
	ObserveProtocol(protocol string, outcome Outcome)
}

// ScheduleNotifier tells participants about committed changes to an event they are part of.
type ScheduleNotifier interface {
	EventCancelled(ctx context.Context, event *Event, recipients []*Account) error
	EventRescheduled(ctx context.Context, event *Event, previous Interval, recipients []*Account) error
}
