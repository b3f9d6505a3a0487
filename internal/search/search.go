// Package search queries book indexers, evaluates the returned releases,
// and hands the chosen one to a download client.
package search

import (
	"time"

	"github.com/vmunix/shelfarr/internal/library"
	"github.com/vmunix/shelfarr/pkg/release"
)

// ReleaseInfo is a search result from an indexer, annotated with everything
// the decision rules need.
type ReleaseInfo struct {
	Title       string
	GUID        string
	DownloadURL string
	Size        int64
	PublishDate time.Time

	Indexer         string
	IndexerPriority int

	// Filled by parsing Title.
	Parsed *release.Info
}

func (r *ReleaseInfo) String() string {
	return r.Title
}

// Criteria describes one book search.
type Criteria struct {
	Author *library.Author
	Book   *library.Book

	// EditionTitles are alternate titles the book is published under; a
	// release matching any of them counts as a match.
	EditionTitles []string

	// Interactive searches come from a user browsing results; automatic
	// ones from the scheduler. Indexers opt in to each separately.
	Interactive bool
}

// Query returns the free-text form of the criteria for indexers without
// book-search support.
func (c Criteria) Query() string {
	q := c.Book.Title
	if c.Author != nil {
		q = c.Author.Name + " " + q
	}
	return release.NormalizeSearchQuery(q)
}
