package memory

import (
	"context"
	"sync"

	"conferencescheduler/internal/domain"
)

// SnapshotStore keeps the last saved snapshot in process. It backs sessions when
// no database is configured, so a save survives a store reset but not a restart.
type SnapshotStore struct {
	mu    sync.Mutex
	last  *domain.Snapshot
	saves int
}

var _ domain.SnapshotRepository = (*SnapshotStore)(nil)

func NewSnapshotStore() *SnapshotStore {
	return &SnapshotStore{}
}

func (s *SnapshotStore) EnsureSchema(ctx context.Context) error {
	return ctx.Err()
}

func (s *SnapshotStore) Load(ctx context.Context) (*domain.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.last == nil {
		return nil, domain.ErrNotFound
	}
	return s.last, nil
}

func (s *SnapshotStore) Save(ctx context.Context, snap *domain.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.last = snap
	s.saves++
	return nil
}

// Saves reports how many snapshots were written.
func (s *SnapshotStore) Saves() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}
