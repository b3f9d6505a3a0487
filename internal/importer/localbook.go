// Package importer turns files on disk into import decisions and commits the
// approved ones into the library.
package importer

import (
	"time"

	"github.com/vmunix/shelfarr/internal/library"
)

// FilterMode controls which discovered files get (re-)analyzed.
type FilterMode int

const (
	// FilterAll analyzes every file.
	FilterAll FilterMode = iota

	// FilterNew skips files already tracked in the library with unchanged
	// size and modification time.
	FilterNew

	// FilterKnown analyzes only files already tracked in the library.
	FilterKnown
)

// ImportMode controls how files reach their destination.
type ImportMode int

const (
	// ImportAuto copies when the download client still owns the files,
	// moves otherwise.
	ImportAuto ImportMode = iota
	ImportMove
	ImportCopy
)

// ParsedBookInfo is candidate metadata from any single source: embedded
// tags, the folder name, or the download-client title.
type ParsedBookInfo struct {
	AuthorName   string
	BookTitle    string
	SeriesTitle  string
	SeriesIndex  int
	ISBN         string
	Year         int
	Quality      string
	ReleaseGroup string
}

// LocalBook is one file under consideration for import. Identification
// fills in the resolved entities; they stay nil until a match succeeds.
type LocalBook struct {
	Path     string
	Size     int64
	Modified time.Time

	// Metadata by source. Tag data wins over folder-derived guesses,
	// which win over the download-client title parse.
	FileInfo           *ParsedBookInfo
	FolderInfo         *ParsedBookInfo
	DownloadClientInfo *ParsedBookInfo

	// Resolved during identification.
	Author  *library.Author
	Book    *library.Book
	Edition *library.Edition

	Quality      string
	ReleaseGroup string
	SceneName    string

	// ExistingFile marks a file already inside the library (rescan) as
	// opposed to a new import.
	ExistingFile bool
}

func (l *LocalBook) String() string {
	return l.Path
}

// Info returns the best available metadata for the file, tag data first.
func (l *LocalBook) Info() *ParsedBookInfo {
	merged := &ParsedBookInfo{}
	for _, src := range []*ParsedBookInfo{l.DownloadClientInfo, l.FolderInfo, l.FileInfo} {
		if src == nil {
			continue
		}
		if src.AuthorName != "" {
			merged.AuthorName = src.AuthorName
		}
		if src.BookTitle != "" {
			merged.BookTitle = src.BookTitle
		}
		if src.SeriesTitle != "" {
			merged.SeriesTitle = src.SeriesTitle
		}
		if src.SeriesIndex != 0 {
			merged.SeriesIndex = src.SeriesIndex
		}
		if src.ISBN != "" {
			merged.ISBN = src.ISBN
		}
		if src.Year != 0 {
			merged.Year = src.Year
		}
		if src.Quality != "" {
			merged.Quality = src.Quality
		}
		if src.ReleaseGroup != "" {
			merged.ReleaseGroup = src.ReleaseGroup
		}
	}
	return merged
}

// LocalEdition groups candidate files believed to belong to one edition.
// A nil Edition means identification found no match.
type LocalEdition struct {
	Author  *library.Author
	Book    *library.Book
	Edition *library.Edition

	LocalBooks []*LocalBook

	// MatchScore is the identification confidence (0.0-1.0) for the
	// resolved book title; 0 when unresolved.
	MatchScore float64

	NewDownload bool
}

func (e *LocalEdition) String() string {
	if len(e.LocalBooks) == 0 {
		return "empty edition"
	}
	info := e.LocalBooks[0].Info()
	if info.AuthorName != "" {
		return info.AuthorName + " - " + info.BookTitle
	}
	return info.BookTitle
}
