package fallback

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	audit "dsledger/pkg/platform/audit"
	"dsledger/pkg/platform/audit/store/memory"
	"dsledger/pkg/platform/circuit"
)

// flakyStore fails while down is set and otherwise records into a memory store.
type flakyStore struct {
	*memory.InMemoryStore
	down bool
}

func (f *flakyStore) Append(ctx context.Context, e audit.Event) error {
	if f.down {
		return errors.New("connection refused")
	}
	return f.InMemoryStore.Append(ctx, e)
}

func TestStore_DivertsWhileOpenAndRecovers(t *testing.T) {
	ctx := context.Background()
	primary := &flakyStore{InMemoryStore: memory.NewInMemoryStore()}
	secondary := memory.NewInMemoryStore()
	breaker := circuit.New("audit", circuit.WithFailureThreshold(2), circuit.WithSuccessThreshold(2))
	s := New(primary, secondary, breaker, nil)

	require.NoError(t, s.Append(ctx, audit.Event{Action: "transfer"}))
	assert.Equal(t, 1, primary.Len())

	primary.down = true
	err := s.Append(ctx, audit.Event{Action: "transfer"})
	assert.Error(t, err, "below threshold the failure is reported")
	assert.Equal(t, 0, secondary.Len())

	require.NoError(t, s.Append(ctx, audit.Event{Action: "burned"}))
	assert.True(t, breaker.IsOpen())
	assert.Equal(t, 1, secondary.Len())

	recent, err := s.ListRecent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, recent, 1, "reads come from the fallback while open")
	assert.Equal(t, "burned", recent[0].Action)

	primary.down = false
	require.NoError(t, s.Append(ctx, audit.Event{Action: "paused"}))
	assert.True(t, breaker.IsOpen())
	assert.Equal(t, 2, secondary.Len(), "half-trusted primary writes are mirrored")

	require.NoError(t, s.Append(ctx, audit.Event{Action: "unpaused"}))
	assert.False(t, breaker.IsOpen())
	assert.Equal(t, 3, primary.Len())
}
