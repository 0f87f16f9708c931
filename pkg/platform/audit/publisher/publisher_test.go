package publisher

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	audit "dsledger/pkg/platform/audit"
	"dsledger/pkg/platform/audit/store/memory"
)

const holder = "0x00000000000000000000000000000000000000a1"

func transferEvent() audit.Event {
	return audit.Event{
		Action:   audit.EventTransfer.String(),
		Actor:    holder,
		Subjects: []string{holder, "0x00000000000000000000000000000000000000b2"},
		Amount:   "100",
		Outcome:  audit.OutcomeCommitted,
	}
}

func TestPublisher_SyncMode(t *testing.T) {
	store := memory.NewInMemoryStore()
	pub := NewPublisher(store)
	defer pub.Close()

	err := pub.Emit(context.Background(), transferEvent())
	require.NoError(t, err)

	events, err := pub.List(context.Background(), holder)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, audit.EventTransfer.String(), events[0].Action)
}

func TestPublisher_AsyncMode(t *testing.T) {
	store := memory.NewInMemoryStore()
	pub := NewPublisher(store, WithAsyncBuffer(10))
	defer pub.Close()

	err := pub.Emit(context.Background(), transferEvent())
	require.NoError(t, err)

	require.Eventually(t, func() bool { return store.Len() == 1 }, time.Second, 10*time.Millisecond)

	events, err := pub.List(context.Background(), holder)
	require.NoError(t, err)
	require.Len(t, events, 1)
}

func TestPublisher_AsyncDrainsOnClose(t *testing.T) {
	store := memory.NewInMemoryStore()
	pub := NewPublisher(store, WithAsyncBuffer(100))

	for range 10 {
		require.NoError(t, pub.Emit(context.Background(), transferEvent()))
	}

	pub.Close()

	events, err := store.ListBySubject(context.Background(), holder)
	require.NoError(t, err)
	assert.Len(t, events, 10, "all events should be drained on close")
}

func TestPublisher_EmitAfterClose(t *testing.T) {
	pub := NewPublisher(memory.NewInMemoryStore(), WithAsyncBuffer(1))
	pub.Close()
	pub.Close()

	err := pub.Emit(context.Background(), transferEvent())
	assert.ErrorIs(t, err, ErrClosed)
}

func TestPublisher_BufferFull_DropsEvent(t *testing.T) {
	store := memory.NewInMemoryStore()
	pub := NewPublisher(store, WithAsyncBuffer(1))

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		dropped int
	)
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := pub.Emit(context.Background(), transferEvent()); errors.Is(err, ErrBufferFull) {
				mu.Lock()
				dropped++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	pub.Close()

	assert.Equal(t, 50, store.Len()+dropped, "every event is either stored or reported dropped")
}

func TestPublisher_StampsEvent(t *testing.T) {
	store := memory.NewInMemoryStore()
	pub := NewPublisher(store)
	defer pub.Close()

	before := time.Now()
	require.NoError(t, pub.Emit(context.Background(), transferEvent()))
	after := time.Now()

	events, err := pub.List(context.Background(), holder)
	require.NoError(t, err)
	require.Len(t, events, 1)

	assert.NotEqual(t, uuid.Nil, events[0].ID)
	assert.Equal(t, audit.CategoryOperations, events[0].Category)
	assert.False(t, events[0].Timestamp.Before(before), "timestamp should be >= before")
	assert.False(t, events[0].Timestamp.After(after), "timestamp should be <= after")
}

func TestPublisher_PreservesExistingFields(t *testing.T) {
	store := memory.NewInMemoryStore()
	pub := NewPublisher(store)
	defer pub.Close()

	customTime := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	eventID := uuid.New()
	event := transferEvent()
	event.ID = eventID
	event.Timestamp = customTime
	event.Category = audit.CategorySecurity

	require.NoError(t, pub.Emit(context.Background(), event))

	events, err := pub.List(context.Background(), holder)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, customTime, events[0].Timestamp)
	assert.Equal(t, eventID, events[0].ID)
	assert.Equal(t, audit.CategorySecurity, events[0].Category)
}

func TestPublisher_AsyncQueuesAfterContextCancellation(t *testing.T) {
	store := memory.NewInMemoryStore()
	pub := NewPublisher(store, WithAsyncBuffer(1))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.NoError(t, pub.Emit(ctx, transferEvent()))
	pub.Close()

	assert.Equal(t, 1, store.Len())
}

func TestPublisher_Recent(t *testing.T) {
	store := memory.NewInMemoryStore()
	pub := NewPublisher(store)
	defer pub.Close()

	actions := []audit.AuditEvent{audit.EventRoleSet, audit.EventInvestorRegistered, audit.EventTokensIssued}
	for _, a := range actions {
		require.NoError(t, pub.Emit(context.Background(), audit.Event{Action: a.String()}))
	}

	result, err := pub.Recent(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, result, 2)
	assert.Equal(t, audit.EventInvestorRegistered.String(), result[0].Action)
	assert.Equal(t, audit.EventTokensIssued.String(), result[1].Action)
}

type appendOnly struct{}

func (appendOnly) Append(context.Context, audit.Event) error { return nil }

func TestPublisher_ListRequiresLister(t *testing.T) {
	pub := NewPublisher(appendOnly{})
	_, err := pub.List(context.Background(), holder)
	assert.ErrorIs(t, err, ErrNotListable)
	_, err = pub.Recent(context.Background(), 1)
	assert.ErrorIs(t, err, ErrNotListable)
}
