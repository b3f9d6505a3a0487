package events

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBus_PublishSubscribe(t *testing.T) {
	bus := NewBus(nil, nil)
	defer func() { _ = bus.Close() }()

	ch := bus.Subscribe(EventBookImported, 10)

	e := NewBookImported(5, 1, []int64{7}, nil, false)
	require.NoError(t, bus.Publish(context.Background(), e))

	select {
	case received := <-ch:
		assert.Equal(t, EventBookImported, received.EventType())
		assert.Equal(t, int64(5), received.EntityID())
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for event")
	}
}

func TestBus_SubscriberOnlySeesItsType(t *testing.T) {
	bus := NewBus(nil, nil)
	defer func() { _ = bus.Close() }()

	ch := bus.Subscribe(EventAuthorAdded, 10)

	require.NoError(t, bus.Publish(context.Background(), NewBookEdited(5, "Dune")))

	select {
	case e := <-ch:
		t.Fatalf("unexpected event %s", e.EventType())
	default:
	}
}

func TestBus_SubscribeAll(t *testing.T) {
	bus := NewBus(nil, nil)
	defer func() { _ = bus.Close() }()

	ch := bus.SubscribeAll(10)

	require.NoError(t, bus.Publish(context.Background(), NewAuthorAdded(1, "gr-58", "Frank Herbert")))
	require.NoError(t, bus.Publish(context.Background(), NewBookEdited(5, "Dune")))

	got := []string{(<-ch).EventType(), (<-ch).EventType()}
	assert.Equal(t, []string{EventAuthorAdded, EventBookEdited}, got)
}

func TestBus_FullChannelDropsEvent(t *testing.T) {
	bus := NewBus(nil, nil)
	defer func() { _ = bus.Close() }()

	ch := bus.Subscribe(EventBookEdited, 1)

	// Second publish finds the buffer full; publishing still succeeds.
	require.NoError(t, bus.Publish(context.Background(), NewBookEdited(1, "Dune")))
	require.NoError(t, bus.Publish(context.Background(), NewBookEdited(2, "Dune Messiah")))

	first := <-ch
	assert.Equal(t, int64(1), first.EntityID())
	select {
	case e := <-ch:
		t.Fatalf("dropped event should not arrive, got %v", e.EntityID())
	default:
	}
}

func TestBus_Unsubscribe(t *testing.T) {
	bus := NewBus(nil, nil)
	defer func() { _ = bus.Close() }()

	ch := bus.Subscribe(EventBookEdited, 1)
	bus.Unsubscribe(ch)

	// Channel is closed.
	_, open := <-ch
	assert.False(t, open)

	// Publishing afterwards is harmless.
	require.NoError(t, bus.Publish(context.Background(), NewBookEdited(1, "Dune")))
}

func TestBus_Persistence(t *testing.T) {
	db := setupTestDB(t)
	log := NewEventLog(db)
	bus := NewBus(log, nil)
	defer func() { _ = bus.Close() }()

	require.NoError(t, bus.Publish(context.Background(), NewAuthorAdded(3, "gr-58", "Frank Herbert")))

	stored, err := log.ForEntity(EntityAuthor, 3)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, EventAuthorAdded, stored[0].EventType)
}

func TestBus_PublishAfterClose(t *testing.T) {
	bus := NewBus(nil, nil)
	require.NoError(t, bus.Close())

	assert.NoError(t, bus.Publish(context.Background(), NewBookEdited(1, "Dune")))
	assert.NoError(t, bus.Close())
}
