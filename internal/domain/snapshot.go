package domain

import (
	"context"
	"time"
)

// AccountRecord is an account with its ledgers, as persisted.
type AccountRecord struct {
	Account   Account
	Calendar  []Booking
	Hosting   []Booking
	Organized []Booking
}

// RoomRecord is a room with its bookings, as persisted.
type RoomRecord struct {
	Room     Room
	Bookings []Booking
}

// Snapshot is the full in-memory state saved and restored at session boundaries.
type Snapshot struct {
	Accounts  []AccountRecord
	Rooms     []RoomRecord
	Events    []*Event
	Sequences map[EventKind]int
	TakenAt   time.Time
}

// SnapshotRepository persists snapshots. Load returns ErrNotFound when nothing was saved yet.
type SnapshotRepository interface {
	EnsureSchema(ctx context.Context) error
	Load(ctx context.Context) (*Snapshot, error)
	Save(ctx context.Context, s *Snapshot) error
}

// SessionService restores state on start and saves it on request.
type SessionService interface {
	Restore(ctx context.Context) (restored bool, err error)
	Save(ctx context.Context) (*Snapshot, error)
}
