package events

// AuthorAdded is emitted when the import pipeline creates an author that was
// not yet in the library.
type AuthorAdded struct {
	BaseEvent
	AuthorID        int64  `json:"author_id"`
	ForeignAuthorID string `json:"foreign_author_id"`
	Name            string `json:"name"`
}

// NewAuthorAdded creates an AuthorAdded event.
func NewAuthorAdded(authorID int64, foreignID, name string) *AuthorAdded {
	return &AuthorAdded{
		BaseEvent:       NewBaseEvent(EventAuthorAdded, EntityAuthor, authorID),
		AuthorID:        authorID,
		ForeignAuthorID: foreignID,
		Name:            name,
	}
}

// BookEdited is emitted after a book is resolved or created during import.
// Deliberately carries no author payload so subscribers don't trigger a full
// author rescan.
type BookEdited struct {
	BaseEvent
	BookID int64  `json:"book_id"`
	Title  string `json:"title"`
}

// NewBookEdited creates a BookEdited event.
func NewBookEdited(bookID int64, title string) *BookEdited {
	return &BookEdited{
		BaseEvent: NewBaseEvent(EventBookEdited, EntityBook, bookID),
		BookID:    bookID,
		Title:     title,
	}
}

// BookImported summarizes one book's import: all new files and all files
// they superseded. Emitted once per book with at least one successful file.
type BookImported struct {
	BaseEvent
	BookID          int64    `json:"book_id"`
	AuthorID        int64    `json:"author_id"`
	NewFiles        []int64  `json:"new_files"`
	OldFiles        []string `json:"old_files,omitempty"`
	ReplaceExisting bool     `json:"replace_existing"`
}

// NewBookImported creates a BookImported event.
func NewBookImported(bookID, authorID int64, newFiles []int64, oldFiles []string, replaceExisting bool) *BookImported {
	return &BookImported{
		BaseEvent:       NewBaseEvent(EventBookImported, EntityBook, bookID),
		BookID:          bookID,
		AuthorID:        authorID,
		NewFiles:        newFiles,
		OldFiles:        oldFiles,
		ReplaceExisting: replaceExisting,
	}
}
