package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"conferencescheduler/internal/domain"
)

type sessionService struct {
	repo        domain.SnapshotRepository
	accounts    domain.AccountStore
	rooms       domain.RoomStore
	events      domain.EventRegistry
	coordinator domain.SchedulingService
	logger      *slog.Logger
	timeout     time.Duration
}

// NewSessionService restores and saves the in-memory stores through repo.
// Both run while the coordinator holds no protocol open.
func NewSessionService(
	repo domain.SnapshotRepository,
	accounts domain.AccountStore,
	rooms domain.RoomStore,
	events domain.EventRegistry,
	coordinator domain.SchedulingService,
	logger *slog.Logger,
	timeout time.Duration,
) domain.SessionService {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &sessionService{
		repo:        repo,
		accounts:    accounts,
		rooms:       rooms,
		events:      events,
		coordinator: coordinator,
		logger:      logger,
		timeout:     timeout,
	}
}

// Restore loads the last snapshot. With none saved it leaves the stores empty and reports false.
func (s *sessionService) Restore(ctx context.Context) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	snap, err := s.repo.Load(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.logger.InfoContext(ctx, "no snapshot found, starting empty")
			return false, nil
		}
		return false, fmt.Errorf("load snapshot: %w", err)
	}
	err = s.coordinator.Exclusive(ctx, func() error {
		if err := s.accounts.Import(snap.Accounts); err != nil {
			return fmt.Errorf("restore accounts: %w", err)
		}
		if err := s.rooms.Import(snap.Rooms); err != nil {
			return fmt.Errorf("restore rooms: %w", err)
		}
		if err := s.events.Import(snap.Events, snap.Sequences); err != nil {
			return fmt.Errorf("restore events: %w", err)
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	s.logger.InfoContext(ctx, "snapshot restored",
		"accounts", len(snap.Accounts), "rooms", len(snap.Rooms), "events", len(snap.Events), "taken_at", snap.TakenAt)
	return true, nil
}

// Save writes a consistent snapshot of all stores.
func (s *sessionService) Save(ctx context.Context) (*domain.Snapshot, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	snap := &domain.Snapshot{TakenAt: time.Now().UTC()}
	err := s.coordinator.Exclusive(ctx, func() error {
		snap.Accounts = s.accounts.Export()
		snap.Rooms = s.rooms.Export()
		snap.Events, snap.Sequences = s.events.Export()
		return nil
	})
	if err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, snap); err != nil {
		return nil, fmt.Errorf("save snapshot: %w", err)
	}
	s.logger.InfoContext(ctx, "snapshot saved",
		"accounts", len(snap.Accounts), "rooms", len(snap.Rooms), "events", len(snap.Events))
	return snap, nil
}
