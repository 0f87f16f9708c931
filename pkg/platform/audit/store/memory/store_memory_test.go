package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	audit "dsledger/pkg/platform/audit"
)

func TestInMemoryStore_ListRecent(t *testing.T) {
	ctx := context.Background()
	s := NewInMemoryStore()
	for _, a := range []audit.AuditEvent{audit.EventTokensIssued, audit.EventTransfer, audit.EventBurned} {
		require.NoError(t, s.Append(ctx, audit.Event{Action: a.String()}))
	}

	t.Run("limit keeps the newest, oldest first", func(t *testing.T) {
		events, err := s.ListRecent(ctx, 2)
		require.NoError(t, err)
		require.Len(t, events, 2)
		assert.Equal(t, audit.EventTransfer.String(), events[0].Action)
		assert.Equal(t, audit.EventBurned.String(), events[1].Action)
	})

	t.Run("non-positive limit returns everything", func(t *testing.T) {
		events, err := s.ListRecent(ctx, 0)
		require.NoError(t, err)
		assert.Len(t, events, 3)
	})

	t.Run("clear empties the store", func(t *testing.T) {
		s.Clear()
		assert.Equal(t, 0, s.Len())
	})
}

func TestInMemoryStore_ListBySubject(t *testing.T) {
	ctx := context.Background()
	s := NewInMemoryStore()
	require.NoError(t, s.Append(ctx, audit.Event{Action: "transfer", Actor: "0xa", Subjects: []string{"0xa", "0xb"}}))
	require.NoError(t, s.Append(ctx, audit.Event{Action: "burned", Actor: "0xi", Subjects: []string{"0xc"}}))
	require.NoError(t, s.Append(ctx, audit.Event{Action: "paused", Actor: "0xb"}))

	events, err := s.ListBySubject(ctx, "0xb")
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "transfer", events[0].Action)
	assert.Equal(t, "paused", events[1].Action)

	events, err = s.ListBySubject(ctx, "0xz")
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestInMemoryStore_CopiesSubjects(t *testing.T) {
	ctx := context.Background()
	s := NewInMemoryStore()
	subjects := []string{"0xa"}
	require.NoError(t, s.Append(ctx, audit.Event{Subjects: subjects}))
	subjects[0] = "0xmutated"

	events, err := s.ListRecent(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"0xa"}, events[0].Subjects)
}
