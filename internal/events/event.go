// Package events provides the in-process event bus the import and search
// pipelines publish domain events onto, plus optional SQLite persistence.
package events

import "time"

// Event is the base interface all events implement.
type Event interface {
	EventType() string
	EntityType() string // "author", "book", "file", "release"
	EntityID() int64
	OccurredAt() time.Time
}

// Event type constants.
const (
	EventAuthorAdded     = "author.added"
	EventBookEdited      = "book.edited"
	EventFileImported    = "file.imported"
	EventBookImported    = "book.imported"
	EventImportFailed    = "import.failed"
	EventReleaseGrabbed  = "release.grabbed"
	EventReleaseRejected = "release.rejected"
)

// Entity type constants.
const (
	EntityAuthor  = "author"
	EntityBook    = "book"
	EntityFile    = "file"
	EntityRelease = "release"
)

// BaseEvent provides common fields for all events.
type BaseEvent struct {
	Type      string    `json:"type"`
	Entity    string    `json:"entity_type"`
	ID        int64     `json:"entity_id"`
	Timestamp time.Time `json:"occurred_at"`
}

func (e BaseEvent) EventType() string     { return e.Type }
func (e BaseEvent) EntityType() string    { return e.Entity }
func (e BaseEvent) EntityID() int64       { return e.ID }
func (e BaseEvent) OccurredAt() time.Time { return e.Timestamp }

// NewBaseEvent creates a BaseEvent with the current timestamp.
func NewBaseEvent(eventType, entityType string, entityID int64) BaseEvent {
	return BaseEvent{
		Type:      eventType,
		Entity:    entityType,
		ID:        entityID,
		Timestamp: time.Now(),
	}
}
