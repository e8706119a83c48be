package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"conferencescheduler/internal/domain"
)

func TestSnapshotStore(t *testing.T) {
	s := NewSnapshotStore()
	ctx := context.Background()
	require.NoError(t, s.EnsureSchema(ctx))

	_, err := s.Load(ctx)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	snap := &domain.Snapshot{TakenAt: time.Now(), Events: []*domain.Event{{ID: "T0"}}}
	require.NoError(t, s.Save(ctx, snap))
	got, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Same(t, snap, got)
	assert.Equal(t, 1, s.Saves())

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	assert.ErrorIs(t, s.Save(cancelled, snap), context.Canceled)
	assert.Equal(t, 1, s.Saves())
}
