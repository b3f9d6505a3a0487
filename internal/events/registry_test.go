package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_RoundTrip(t *testing.T) {
	db := setupTestDB(t)
	log := NewEventLog(db)
	registry := DefaultRegistry()

	original := NewBookImported(5, 2, []int64{7, 8}, []string{"/books/old.mobi"}, true)
	_, err := log.Append(original)
	require.NoError(t, err)

	stored, err := log.ForEntity(EntityBook, 5)
	require.NoError(t, err)
	require.Len(t, stored, 1)

	e, err := registry.Unmarshal(stored[0])
	require.NoError(t, err)

	imported, ok := e.(*BookImported)
	require.True(t, ok, "expected *BookImported, got %T", e)
	assert.Equal(t, int64(5), imported.BookID)
	assert.Equal(t, int64(2), imported.AuthorID)
	assert.Equal(t, []int64{7, 8}, imported.NewFiles)
	assert.Equal(t, []string{"/books/old.mobi"}, imported.OldFiles)
	assert.True(t, imported.ReplaceExisting)
}

func TestRegistry_UnknownType(t *testing.T) {
	registry := DefaultRegistry()

	_, err := registry.Unmarshal(RawEvent{EventType: "mystery.event", Payload: "{}"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown event type")
}

func TestDefaultRegistry_CoversAllTypes(t *testing.T) {
	registry := DefaultRegistry()

	for _, eventType := range []string{
		EventAuthorAdded,
		EventBookEdited,
		EventFileImported,
		EventBookImported,
		EventImportFailed,
		EventReleaseGrabbed,
	} {
		_, err := registry.Unmarshal(RawEvent{EventType: eventType, Payload: "{}"})
		assert.NoError(t, err, eventType)
	}
}
