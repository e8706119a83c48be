package services

import (
	"context"
	"fmt"
	"log/slog"

	"conferencescheduler/internal/domain"
)

type roomService struct {
	rooms    domain.RoomStore
	accounts domain.AccountStore
	logger   *slog.Logger
}

// NewRoomService returns a RoomService; only organizers and admins may add rooms.
func NewRoomService(rooms domain.RoomStore, accounts domain.AccountStore, logger *slog.Logger) domain.RoomService {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &roomService{rooms: rooms, accounts: accounts, logger: logger}
}

func (s *roomService) AddRoom(ctx context.Context, caller string, room domain.Room) (*domain.RoomView, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c, err := s.accounts.Get(caller)
	if err != nil {
		return nil, fmt.Errorf("add room: %w", err)
	}
	if c.Type != domain.AccountOrganizer && c.Type != domain.AccountAdmin {
		return nil, fmt.Errorf("%s accounts cannot add rooms: %w", c.Type, domain.ErrForbidden)
	}
	rs, err := s.rooms.Add(room)
	if err != nil {
		return nil, fmt.Errorf("add room: %w", err)
	}
	s.logger.InfoContext(ctx, "room added", "room", room.Name, "capacity", room.Capacity)
	return roomView(rs), nil
}

func (s *roomService) ListRooms(ctx context.Context) ([]*domain.RoomView, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rooms := s.rooms.List()
	out := make([]*domain.RoomView, 0, len(rooms))
	for _, rs := range rooms {
		out = append(out, roomView(rs))
	}
	return out, nil
}

func (s *roomService) GetRoom(ctx context.Context, name string) (*domain.RoomView, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rs, err := s.rooms.Get(name)
	if err != nil {
		return nil, fmt.Errorf("get room: %w", err)
	}
	return roomView(rs), nil
}

func roomView(rs domain.RoomSchedule) *domain.RoomView {
	return &domain.RoomView{Room: rs.Room(), Bookings: rs.Entries()}
}
