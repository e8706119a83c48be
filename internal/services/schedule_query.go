package services

import (
	"context"
	"fmt"

	"conferencescheduler/internal/domain"
)

type scheduleQueryService struct {
	events   domain.EventRegistry
	accounts domain.AccountStore
}

// NewScheduleQueryService returns the read side of the schedule.
func NewScheduleQueryService(events domain.EventRegistry, accounts domain.AccountStore) domain.ScheduleQueryService {
	return &scheduleQueryService{events: events, accounts: accounts}
}

func (s *scheduleQueryService) GetEvent(ctx context.Context, id string) (*domain.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	e, err := s.events.Get(id)
	if err != nil {
		return nil, fmt.Errorf("get event: %w", err)
	}
	return e, nil
}

// ListEvents applies at most one selector, in order: range, date, room, kind.
// With none set it returns the whole schedule.
func (s *scheduleQueryService) ListEvents(ctx context.Context, q domain.EventQuery) ([]*domain.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	switch {
	case !q.From.IsZero() || !q.To.IsZero():
		if q.From.IsZero() || q.To.IsZero() || q.To.Before(q.From) {
			return nil, fmt.Errorf("list events: from and to must both be set, from before to: %w", domain.ErrInvalidInput)
		}
		return s.events.Between(q.From, q.To), nil
	case !q.Date.IsZero():
		return s.events.OnDate(q.Date), nil
	case q.Room != "":
		return s.events.ByRoom(q.Room), nil
	case q.Kind != "":
		return s.events.ByKind(q.Kind), nil
	}
	return s.events.All(), nil
}

func (s *scheduleQueryService) EventsBySpeaker(ctx context.Context, username string) ([]*domain.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !s.accounts.IsSpeaker(username) {
		return nil, fmt.Errorf("speaker %q: %w", username, domain.ErrNotFound)
	}
	return s.events.BySpeaker(username), nil
}

func (s *scheduleQueryService) EmptyEvents(ctx context.Context) ([]*domain.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.events.Empty(), nil
}

// AttendableEvents lists events username could still sign up for: a free seat,
// no clash with their calendar, and not already part of.
func (s *scheduleQueryService) AttendableEvents(ctx context.Context, username string) ([]*domain.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	cal, err := s.accounts.Calendar(username)
	if err != nil {
		return nil, fmt.Errorf("attendable events: %w", err)
	}
	entries := cal.Entries()
	busy := make([]domain.Interval, 0, len(entries))
	for _, b := range entries {
		busy = append(busy, b.Interval)
	}
	out := make([]*domain.Event, 0)
	for _, e := range s.events.Attendable(busy) {
		if !e.HasAttendee(username) && !e.HasHost(username) {
			out = append(out, e)
		}
	}
	return out, nil
}

// AttendanceRanking returns the top entries by attendance rate; top <= 0 means all.
func (s *scheduleQueryService) AttendanceRanking(ctx context.Context, top int) ([]domain.EventRate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rates := s.events.AttendanceRanking()
	if top > 0 && top < len(rates) {
		rates = rates[:top]
	}
	return rates, nil
}
