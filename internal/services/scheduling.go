package services

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"conferencescheduler/internal/domain"
)

// maxLockAttempts bounds how often lockEvent retries when the participant set
// changes between reading an event and locking it.
const maxLockAttempts = 5

type schedulingService struct {
	accounts domain.AccountStore
	rooms    domain.RoomStore
	events   domain.EventRegistry
	notifier domain.ScheduleNotifier
	observer domain.ProtocolObserver
	logger   *slog.Logger
	locks    *lockSet
}

// NewSchedulingService returns the coordinator over the three stores.
// notifier and observer may be nil.
func NewSchedulingService(
	accounts domain.AccountStore,
	rooms domain.RoomStore,
	events domain.EventRegistry,
	notifier domain.ScheduleNotifier,
	observer domain.ProtocolObserver,
	logger *slog.Logger,
) domain.SchedulingService {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &schedulingService{
		accounts: accounts,
		rooms:    rooms,
		events:   events,
		notifier: notifier,
		observer: observer,
		logger:   logger,
		locks:    newLockSet(),
	}
}

func (s *schedulingService) finish(ctx context.Context, p *protocol, err error) (*domain.ProtocolResult, error) {
	res := p.close(err, false)
	if s.observer != nil {
		s.observer.ObserveProtocol(res.Protocol, res.Outcome)
	}
	if err != nil {
		s.logger.InfoContext(ctx, "protocol rejected", "protocol", res.Protocol, "event_id", res.EventID, "err", err)
		return res, fmt.Errorf("%s: %w", strings.ReplaceAll(res.Protocol, "_", " "), err)
	}
	s.logger.InfoContext(ctx, "protocol committed", "protocol", res.Protocol, "event_id", res.EventID)
	return res, nil
}

func (s *schedulingService) aborted(ctx context.Context, p *protocol) (*domain.ProtocolResult, error) {
	res := p.close(nil, true)
	if s.observer != nil {
		s.observer.ObserveProtocol(res.Protocol, res.Outcome)
	}
	s.logger.DebugContext(ctx, "protocol aborted", "protocol", res.Protocol)
	return res, nil
}

// failed rolls back whatever was committed and reports err.
func (s *schedulingService) failed(ctx context.Context, p *protocol, err error) (*domain.ProtocolResult, error) {
	p.rollback()
	return s.finish(ctx, p, err)
}

// participantKeys are the lock keys covering an event and everyone attached to it.
func participantKeys(e *domain.Event, extra ...string) []string {
	keys := []string{eventKey(e.ID), roomKey(e.Room), userKey(e.Organizer)}
	for _, u := range e.Participants() {
		keys = append(keys, userKey(u))
	}
	for _, u := range extra {
		keys = append(keys, userKey(u))
	}
	return normaliseKeys(keys)
}

// lockEvent locks an event together with its room and participants. The event is
// re-read under the lock; if its participant set grew meanwhile, it retries.
func (s *schedulingService) lockEvent(ctx context.Context, eventID string, extra ...string) (*domain.Event, func(), error) {
	for attempt := 0; attempt < maxLockAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		ev, err := s.events.Get(eventID)
		if err != nil {
			return nil, nil, err
		}
		keys := participantKeys(ev, extra...)
		unlock := s.locks.lock(keys...)
		current, err := s.events.Get(eventID)
		if err != nil {
			unlock()
			return nil, nil, err
		}
		if containsAll(keys, participantKeys(current, extra...)) {
			return current, unlock, nil
		}
		unlock()
	}
	return nil, nil, fmt.Errorf("event %q kept changing while locking: %w", eventID, domain.ErrConflict)
}

func (s *schedulingService) Exclusive(ctx context.Context, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	unlock := s.locks.exclusive()
	defer unlock()
	return fn()
}

// CreateEvent validates every precondition, then books the registry, the room,
// each host's calendar and hosting list, and the organizer's organized list.
func (s *schedulingService) CreateEvent(ctx context.Context, req domain.CreateEventRequest) (*domain.ProtocolResult, error) {
	p := newProtocol(domain.ProtocolCreate, "")
	if req.Aborted() {
		return s.aborted(ctx, p)
	}
	if err := ctx.Err(); err != nil {
		return s.finish(ctx, p, err)
	}

	keys := []string{roomKey(req.Room), userKey(req.Organizer)}
	for _, h := range req.Hosts {
		keys = append(keys, userKey(h))
	}
	unlock := s.locks.lock(keys...)
	defer unlock()

	iv := req.Interval
	if err := p.check("interval.valid", validInterval(iv)); err != nil {
		return s.finish(ctx, p, err)
	}
	if err := p.check("organizer.eligible", expect(s.accounts.IsOrganizer(req.Organizer),
		domain.ErrForbidden, "%q is not an organizer", req.Organizer)); err != nil {
		return s.finish(ctx, p, err)
	}
	room, err := s.rooms.Get(req.Room)
	if err := p.check("room.exists", err); err != nil {
		return s.finish(ctx, p, err)
	}
	if err := p.check("room.hour_slot", expect(room.IsValidHourSlot(iv),
		domain.ErrInvalidSlot, "room %q cannot host %s", req.Room, iv)); err != nil {
		return s.finish(ctx, p, err)
	}
	if err := p.check("room.available", expect(room.IsAvailable(iv),
		domain.ErrConflict, "room %q is booked during %s", req.Room, iv)); err != nil {
		return s.finish(ctx, p, err)
	}
	if err := p.check("capacity", s.checkCapacity(req.Capacity, room.Room())); err != nil {
		return s.finish(ctx, p, err)
	}
	if err := p.check("kind.hosts", expect(req.Kind.ValidHostCount(len(req.Hosts)),
		domain.ErrTypeMismatch, "%s with %d hosts", req.Kind, len(req.Hosts))); err != nil {
		return s.finish(ctx, p, err)
	}
	calendars := make([]domain.Ledger, len(req.Hosts))
	hosting := make([]domain.Ledger, len(req.Hosts))
	for i, h := range req.Hosts {
		if calendars[i], hosting[i], err = s.hostLedgers(h); err != nil {
			p.check("host.eligible:"+h, err)
			return s.finish(ctx, p, err)
		}
		if slices.Contains(req.Hosts[:i], h) {
			err := fmt.Errorf("host %q listed twice: %w", h, domain.ErrInvalidInput)
			p.check("host.eligible:"+h, err)
			return s.finish(ctx, p, err)
		}
		if err := p.check("host.free:"+h, expect(calendars[i].IsFree(iv),
			domain.ErrConflict, "%q is busy during %s", h, iv)); err != nil {
			return s.finish(ctx, p, err)
		}
	}
	organized, err := s.accounts.Organized(req.Organizer)
	if err := p.check("organizer.ledger", err); err != nil {
		return s.finish(ctx, p, err)
	}

	ev, err := s.events.Create(domain.NewEvent{
		Kind:        req.Kind,
		Name:        req.Name,
		Interval:    iv,
		Room:        room.Room().Name,
		Description: req.Description,
		Capacity:    req.Capacity,
		Organizer:   req.Organizer,
		Hosts:       req.Hosts,
	})
	if err := p.commit("registry.create", err, func() { _ = s.events.Cancel(ev.ID) }); err != nil {
		return s.failed(ctx, p, err)
	}
	p.result.EventID = ev.ID

	if err := p.commit("room.book", expect(room.Book(ev.ID, iv), domain.ErrConflict,
		"room %q already holds %s", req.Room, ev.ID), func() { room.Release(ev.ID) }); err != nil {
		return s.failed(ctx, p, err)
	}
	for i, h := range req.Hosts {
		cal, host := calendars[i], hosting[i]
		cal.Book(ev.ID, iv)
		host.Book(ev.ID, iv)
		p.commit("host.book:"+h, nil, func() {
			cal.Release(ev.ID)
			host.Release(ev.ID)
		})
	}
	organized.Book(ev.ID, iv)
	p.commit("organizer.book", nil, func() { organized.Release(ev.ID) })

	p.result.Event = ev
	return s.finish(ctx, p, nil)
}

func (s *schedulingService) checkCapacity(capacity int, room domain.Room) error {
	if capacity < 0 {
		return fmt.Errorf("capacity %d: %w", capacity, domain.ErrInvalidInput)
	}
	if capacity > room.Capacity {
		return fmt.Errorf("capacity %d exceeds room %q capacity %d: %w", capacity, room.Name, room.Capacity, domain.ErrCapacityExceeded)
	}
	return nil
}

// hostLedgers returns a registered speaker's calendar and hosting list.
func (s *schedulingService) hostLedgers(username string) (domain.Ledger, domain.Ledger, error) {
	cal, err := s.accounts.Calendar(username)
	if err != nil {
		return nil, nil, err
	}
	if !s.accounts.IsSpeaker(username) {
		return nil, nil, fmt.Errorf("%q is not a registered speaker: %w", username, domain.ErrInvalidInput)
	}
	hosting, err := s.accounts.Hosting(username)
	if err != nil {
		return nil, nil, err
	}
	return cal, hosting, nil
}

// CancelEvent removes the event from the registry, then releases the room and
// every participant's entries. Once the registry record is gone each release is
// attempted and reported individually; a missing entry does not fail the protocol.
func (s *schedulingService) CancelEvent(ctx context.Context, eventID string, opts domain.CancelOptions) (*domain.ProtocolResult, error) {
	p := newProtocol(domain.ProtocolCancel, eventID)
	if strings.TrimSpace(eventID) == "" {
		return s.aborted(ctx, p)
	}
	ev, unlock, err := s.lockEvent(ctx, eventID)
	if err := p.check("event.exists", err); err != nil {
		return s.finish(ctx, p, err)
	}

	if opts.OnlyIfEmpty {
		if err := p.check("event.empty", expect(len(ev.Attendees) == 0, domain.ErrConflict,
			"event %q has %d attendees", eventID, len(ev.Attendees))); err != nil {
			unlock()
			return s.finish(ctx, p, err)
		}
	}

	if err := p.commit("registry.cancel", s.events.Cancel(eventID), nil); err != nil {
		unlock()
		return s.finish(ctx, p, err)
	}

	if room, err := s.rooms.Get(ev.Room); err == nil {
		p.release("room.release", room.Release(eventID))
	} else {
		p.release("room.release", false)
	}
	if organized, err := s.accounts.Organized(ev.Organizer); err == nil {
		p.release("organizer.release", organized.Release(eventID))
		if cal, err := s.accounts.Calendar(ev.Organizer); err == nil {
			if _, booked := cal.Entry(eventID); booked {
				p.release("organizer.calendar.release", cal.Release(eventID))
			}
		}
	} else {
		p.release("organizer.release", false)
	}
	for _, h := range ev.Hosts {
		released := false
		if cal, err := s.accounts.Calendar(h); err == nil {
			released = cal.Release(eventID)
		}
		if hosting, err := s.accounts.Hosting(h); err == nil {
			released = hosting.Release(eventID) && released
		}
		p.release("host.release:"+h, released)
	}
	for _, a := range ev.Attendees {
		released := false
		if cal, err := s.accounts.Calendar(a); err == nil {
			released = cal.Release(eventID)
		}
		p.release("attendee.release:"+a, released)
	}
	unlock()

	res, err := s.finish(ctx, p, nil)
	if s.notifier != nil {
		if nerr := s.notifier.EventCancelled(ctx, ev, s.recipients(ev)); nerr != nil {
			s.logger.WarnContext(ctx, "cancel notice failed", "event_id", eventID, "err", nerr)
		}
	}
	return res, err
}

// RescheduleEvent moves an event and every denormalised copy of its interval.
// The room and all participants are checked against the new interval, ignoring
// their entries for this event, before anything changes.
func (s *schedulingService) RescheduleEvent(ctx context.Context, eventID string, iv domain.Interval) (*domain.ProtocolResult, error) {
	p := newProtocol(domain.ProtocolReschedule, eventID)
	if strings.TrimSpace(eventID) == "" || iv.IsZero() {
		return s.aborted(ctx, p)
	}
	ev, unlock, err := s.lockEvent(ctx, eventID)
	if err := p.check("event.exists", err); err != nil {
		return s.finish(ctx, p, err)
	}
	old := ev.Interval()
	res, err := s.reschedule(ctx, p, ev, iv)
	unlock()

	if err == nil && s.notifier != nil {
		moved := ev.Clone()
		moved.Start, moved.End = iv.Start, iv.End
		if nerr := s.notifier.EventRescheduled(ctx, moved, old, s.recipients(ev)); nerr != nil {
			s.logger.WarnContext(ctx, "reschedule notice failed", "event_id", eventID, "err", nerr)
		}
	}
	return res, err
}

func (s *schedulingService) reschedule(ctx context.Context, p *protocol, ev *domain.Event, iv domain.Interval) (*domain.ProtocolResult, error) {
	old := ev.Interval()
	if err := p.check("interval.valid", validInterval(iv)); err != nil {
		return s.finish(ctx, p, err)
	}
	if err := p.check("interval.changed", expect(!old.Equal(iv), domain.ErrNoOp,
		"event %q already at %s", ev.ID, iv)); err != nil {
		return s.finish(ctx, p, err)
	}
	room, err := s.rooms.Get(ev.Room)
	if err := p.check("room.exists", err); err != nil {
		return s.finish(ctx, p, err)
	}
	if err := p.check("room.hour_slot", expect(room.IsValidHourSlot(iv),
		domain.ErrInvalidSlot, "room %q cannot host %s", ev.Room, iv)); err != nil {
		return s.finish(ctx, p, err)
	}
	if err := p.check("room.available", expect(room.IsAvailable(iv, ev.ID),
		domain.ErrConflict, "room %q is booked during %s", ev.Room, iv)); err != nil {
		return s.finish(ctx, p, err)
	}
	participants := ev.Participants()
	calendars := make([]domain.Ledger, len(participants))
	for i, u := range participants {
		cal, err := s.accounts.Calendar(u)
		if err != nil {
			p.check("participant.free:"+u, err)
			return s.finish(ctx, p, err)
		}
		if err := p.check("participant.free:"+u, expect(cal.IsFree(iv, ev.ID),
			domain.ErrConflict, "%q is busy during %s", u, iv)); err != nil {
			return s.finish(ctx, p, err)
		}
		calendars[i] = cal
	}

	if err := p.commit("registry.reschedule", s.events.Reschedule(ev.ID, iv),
		func() { _ = s.events.Reschedule(ev.ID, old) }); err != nil {
		return s.failed(ctx, p, err)
	}
	room.Release(ev.ID)
	if err := p.commit("room.rebook", expect(room.Book(ev.ID, iv), domain.ErrConflict,
		"room %q rebook of %s", ev.Room, ev.ID), func() {
		room.Release(ev.ID)
		room.Book(ev.ID, old)
	}); err != nil {
		return s.failed(ctx, p, err)
	}
	for i, u := range participants {
		cal := calendars[i]
		cal.Book(ev.ID, iv)
		p.commit("participant.rebook:"+u, nil, func() { cal.Book(ev.ID, old) })
	}
	for _, h := range ev.Hosts {
		if hosting, err := s.accounts.Hosting(h); err == nil {
			hosting.Book(ev.ID, iv)
			p.commit("hosting.rebook:"+h, nil, func() { hosting.Book(ev.ID, old) })
		}
	}
	if organized, err := s.accounts.Organized(ev.Organizer); err == nil {
		if _, ok := organized.Entry(ev.ID); ok {
			organized.Book(ev.ID, iv)
			p.commit("organizer.rebook", nil, func() { organized.Book(ev.ID, old) })
		}
	}

	updated, err := s.events.Get(ev.ID)
	if err == nil {
		p.result.Event = updated
	}
	return s.finish(ctx, p, nil)
}

// SignUp enrols username in the event after checking capacity and their calendar.
func (s *schedulingService) SignUp(ctx context.Context, eventID, username string) (*domain.ProtocolResult, error) {
	p := newProtocol(domain.ProtocolSignUp, eventID)
	if strings.TrimSpace(eventID) == "" || strings.TrimSpace(username) == "" {
		return s.aborted(ctx, p)
	}
	ev, unlock, err := s.lockEvent(ctx, eventID, username)
	if err := p.check("event.exists", err); err != nil {
		return s.finish(ctx, p, err)
	}
	defer unlock()

	cal, err := s.accounts.Calendar(username)
	if err := p.check("account.exists", err); err != nil {
		return s.finish(ctx, p, err)
	}
	if err := p.check("enrolment.new", expect(!ev.HasAttendee(username) && !ev.HasHost(username),
		domain.ErrDuplicate, "%q is already part of %q", username, eventID)); err != nil {
		return s.finish(ctx, p, err)
	}
	canSignup, err := s.events.CanSignup(eventID)
	if err == nil {
		err = expect(canSignup, domain.ErrCapacityExceeded, "event %q is full", eventID)
	}
	if err := p.check("event.can_signup", err); err != nil {
		return s.finish(ctx, p, err)
	}
	iv := ev.Interval()
	if err := p.check("calendar.free", expect(cal.IsFree(iv), domain.ErrConflict,
		"%q is busy during %s", username, iv)); err != nil {
		return s.finish(ctx, p, err)
	}

	if err := p.commit("registry.add_attendee", s.events.AddAttendee(eventID, username),
		func() { _ = s.events.RemoveAttendee(eventID, username) }); err != nil {
		return s.failed(ctx, p, err)
	}
	cal.Book(eventID, iv)
	p.commit("calendar.book", nil, func() { cal.Release(eventID) })
	return s.finish(ctx, p, nil)
}

// Drop releases username's calendar entry and removes them from the roster together.
func (s *schedulingService) Drop(ctx context.Context, eventID, username string) (*domain.ProtocolResult, error) {
	p := newProtocol(domain.ProtocolDrop, eventID)
	if strings.TrimSpace(eventID) == "" || strings.TrimSpace(username) == "" {
		return s.aborted(ctx, p)
	}
	ev, unlock, err := s.lockEvent(ctx, eventID, username)
	if err := p.check("event.exists", err); err != nil {
		return s.finish(ctx, p, err)
	}
	defer unlock()

	cal, err := s.accounts.Calendar(username)
	if err := p.check("account.exists", err); err != nil {
		return s.finish(ctx, p, err)
	}
	if err := p.check("enrolment.exists", expect(ev.HasAttendee(username), domain.ErrNotFound,
		"%q is not attending %q", username, eventID)); err != nil {
		return s.finish(ctx, p, err)
	}

	old, booked := cal.Entry(eventID)
	if err := p.commit("registry.remove_attendee", s.events.RemoveAttendee(eventID, username),
		func() { _ = s.events.AddAttendee(eventID, username) }); err != nil {
		return s.failed(ctx, p, err)
	}
	p.release("calendar.release", cal.Release(eventID))
	if booked {
		p.undo = append(p.undo, func() { cal.Book(eventID, old) })
	}
	return s.finish(ctx, p, nil)
}

// AssignHost puts a speaker on an event: a talk's speaker is replaced, a panel
// gains one more, and parties never take hosts.
func (s *schedulingService) AssignHost(ctx context.Context, eventID, speaker string) (*domain.ProtocolResult, error) {
	p := newProtocol(domain.ProtocolAssignHost, eventID)
	if strings.TrimSpace(eventID) == "" || strings.TrimSpace(speaker) == "" {
		return s.aborted(ctx, p)
	}
	ev, unlock, err := s.lockEvent(ctx, eventID, speaker)
	if err := p.check("event.exists", err); err != nil {
		return s.finish(ctx, p, err)
	}
	defer unlock()

	policy := ev.Kind.HostPolicy()
	if err := p.check("kind.hosts", expect(policy != domain.HostsFixed, domain.ErrTypeMismatch,
		"%s %q takes no hosts", ev.Kind, eventID)); err != nil {
		return s.finish(ctx, p, err)
	}
	cal, hosting, err := s.hostLedgers(speaker)
	if err := p.check("host.eligible", err); err != nil {
		return s.finish(ctx, p, err)
	}
	if err := p.check("host.new", expect(!ev.HasHost(speaker), domain.ErrDuplicate,
		"%q already hosts %q", speaker, eventID)); err != nil {
		return s.finish(ctx, p, err)
	}
	iv := ev.Interval()
	if err := p.check("host.free", expect(cal.IsFree(iv), domain.ErrConflict,
		"%q is busy during %s", speaker, iv)); err != nil {
		return s.finish(ctx, p, err)
	}
	var previous string
	var prevCal, prevHosting domain.Ledger
	if policy == domain.HostsReplace && len(ev.Hosts) > 0 {
		previous = ev.Hosts[0]
		prevCal, prevHosting, err = s.hostLedgers(previous)
		if err := p.check("host.previous", err); err != nil {
			return s.finish(ctx, p, err)
		}
	}

	undoRegistry := func() { _ = s.events.RemoveHost(eventID, speaker) }
	if previous != "" {
		undoRegistry = func() { _ = s.events.AddHost(eventID, previous) }
	}
	if err := p.commit("registry.add_host", s.events.AddHost(eventID, speaker), undoRegistry); err != nil {
		return s.failed(ctx, p, err)
	}
	cal.Book(eventID, iv)
	hosting.Book(eventID, iv)
	p.commit("host.book", nil, func() {
		cal.Release(eventID)
		hosting.Release(eventID)
	})
	if previous != "" {
		p.release("previous_host.release", prevCal.Release(eventID) && prevHosting.Release(eventID))
		p.undo = append(p.undo, func() {
			prevCal.Book(eventID, iv)
			prevHosting.Book(eventID, iv)
		})
	}
	p.result.Event, _ = s.events.Get(eventID)
	return s.finish(ctx, p, nil)
}

// ChangeCapacity sets a new capacity between the current roster size and the room's capacity.
func (s *schedulingService) ChangeCapacity(ctx context.Context, eventID string, capacity int) (*domain.ProtocolResult, error) {
	p := newProtocol(domain.ProtocolChangeCapacity, eventID)
	if strings.TrimSpace(eventID) == "" {
		return s.aborted(ctx, p)
	}
	ev, unlock, err := s.lockEvent(ctx, eventID)
	if err := p.check("event.exists", err); err != nil {
		return s.finish(ctx, p, err)
	}
	defer unlock()

	if err := p.check("capacity.positive", expect(capacity > 0, domain.ErrInvalidInput,
		"capacity %d", capacity)); err != nil {
		return s.finish(ctx, p, err)
	}
	room, err := s.rooms.Get(ev.Room)
	if err := p.check("room.exists", err); err != nil {
		return s.finish(ctx, p, err)
	}
	if err := p.check("capacity.room", s.checkCapacity(capacity, room.Room())); err != nil {
		return s.finish(ctx, p, err)
	}
	if err := p.check("capacity.roster", expect(capacity >= len(ev.Attendees), domain.ErrCapacityExceeded,
		"event %q already has %d attendees", eventID, len(ev.Attendees))); err != nil {
		return s.finish(ctx, p, err)
	}
	if err := p.check("capacity.changed", expect(capacity != ev.Capacity, domain.ErrNoOp,
		"event %q capacity already %d", eventID, capacity)); err != nil {
		return s.finish(ctx, p, err)
	}
	old := ev.Capacity
	if err := p.commit("registry.set_capacity", s.events.SetCapacity(eventID, capacity),
		func() { _ = s.events.SetCapacity(eventID, old) }); err != nil {
		return s.failed(ctx, p, err)
	}
	p.result.Event, _ = s.events.Get(eventID)
	return s.finish(ctx, p, nil)
}

// recipients resolves the hosts and attendees of ev to accounts, skipping unknown usernames.
func (s *schedulingService) recipients(ev *domain.Event) []*domain.Account {
	out := make([]*domain.Account, 0, len(ev.Hosts)+len(ev.Attendees))
	for _, u := range ev.Participants() {
		if a, err := s.accounts.Get(u); err == nil {
			out = append(out, a)
		}
	}
	return out
}
