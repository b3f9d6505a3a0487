// Package library manages the book library entities (authors, books,
// editions, files) and their SQLite persistence.
package library

import (
	"time"
)

// MonitorType controls which books of an author get monitored.
type MonitorType string

const (
	MonitorAll      MonitorType = "all"
	MonitorExisting MonitorType = "existing"
	MonitorNone     MonitorType = "none"
)

// Author is a writer tracked in the library. ID 0 means not yet persisted.
// Authors are looked up by ForeignAuthorID (the metadata provider's stable
// identifier) before insert to avoid duplicates.
type Author struct {
	ID              int64
	ForeignAuthorID string
	Name            string
	Path            string
	RootFolderPath  string
	QualityProfile  string
	MetadataProfile string
	Monitored       bool
	Tags            []string
	Added           time.Time
}

// Book is a logical work by an author. ID 0 means not yet persisted.
type Book struct {
	ID            int64
	ForeignBookID string
	AuthorID      int64
	Title         string
	SeriesTitle   string
	SeriesIndex   int
	ReleaseDate   *time.Time
	Added         time.Time

	// Author is the resolved parent, populated by the pipeline rather than
	// the store; never persisted with the book row.
	Author *Author
}

// Edition is one published form of a book (hardcover, a translation, an
// audiobook recording). ID 0 means not yet persisted.
type Edition struct {
	ID               int64
	ForeignEditionID string
	BookID           int64
	Title            string
	ISBN             string
	Language         string
	Monitored        bool
}

// BookFile is a media file on disk belonging to a book.
type BookFile struct {
	ID           int64
	BookID       int64
	EditionID    int64
	Path         string
	Size         int64
	Modified     time.Time
	DateAdded    time.Time
	Quality      string
	ReleaseGroup string
	SceneName    string
	CalibreID    int64 // 0 unless the file lives in a calibre-managed root
}
