package importer

import (
	"context"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/simonhull/audiometa"

	"github.com/vmunix/shelfarr/internal/library"
	"github.com/vmunix/shelfarr/pkg/release"
)

// TagReader extracts embedded metadata from a book file.
type TagReader interface {
	ReadTags(ctx context.Context, path string) (*ParsedBookInfo, error)
}

// TagWriter rewrites embedded metadata on an already-imported file.
type TagWriter interface {
	WriteTags(ctx context.Context, f *library.BookFile) error
}

var audioExtensions = map[string]bool{
	".mp3": true, ".m4b": true, ".m4a": true, ".flac": true,
}

var ebookExtensions = map[string]bool{
	".epub": true, ".mobi": true, ".azw3": true, ".azw": true, ".pdf": true,
}

// IsBookFile reports whether the extension is a supported book format.
func IsBookFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return audioExtensions[ext] || ebookExtensions[ext]
}

// Reader reads tags from audiobooks via audiometa and falls back to
// filename parsing for ebook formats, which carry no uniformly readable
// embedded tags.
type Reader struct{}

// NewReader creates a tag reader.
func NewReader() *Reader {
	return &Reader{}
}

// ReadTags extracts metadata for the file. Returns ErrUnsupportedFormat for
// extensions that are neither audiobook nor ebook formats.
func (r *Reader) ReadTags(ctx context.Context, path string) (*ParsedBookInfo, error) {
	ext := strings.ToLower(filepath.Ext(path))

	switch {
	case audioExtensions[ext]:
		return r.readAudioTags(ctx, path, ext)
	case ebookExtensions[ext]:
		return parseFilename(path, ext), nil
	default:
		return nil, ErrUnsupportedFormat
	}
}

func (r *Reader) readAudioTags(ctx context.Context, path, ext string) (*ParsedBookInfo, error) {
	file, err := audiometa.OpenContext(ctx, path)
	if err != nil {
		// Unreadable tags are not fatal; the filename may still identify
		// the book.
		return parseFilename(path, ext), nil
	}
	defer func() { _ = file.Close() }()

	info := &ParsedBookInfo{
		AuthorName:  file.Tags.Artist,
		BookTitle:   file.Tags.Album,
		SeriesTitle: file.Tags.Series,
		Quality:     release.ParseQuality(strings.TrimPrefix(ext, ".")).String(),
	}
	if info.BookTitle == "" {
		info.BookTitle = file.Tags.Title
	}
	if part, err := strconv.Atoi(file.Tags.SeriesPart); err == nil {
		info.SeriesIndex = part
	}

	if info.AuthorName == "" && info.BookTitle == "" {
		return parseFilename(path, ext), nil
	}
	return info, nil
}

// parseFilename derives metadata from the file name alone.
func parseFilename(path, ext string) *ParsedBookInfo {
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	parsed := release.Parse(name)

	info := &ParsedBookInfo{
		AuthorName:   parsed.Author,
		BookTitle:    parsed.Title,
		Year:         parsed.Year,
		ReleaseGroup: parsed.Group,
		Quality:      release.ParseQuality(strings.TrimPrefix(ext, ".")).String(),
	}
	if parsed.Quality != release.QualityUnknown {
		info.Quality = parsed.Quality.String()
	}
	return info
}

// NoopTagWriter satisfies TagWriter for formats we never rewrite.
type NoopTagWriter struct{}

func (NoopTagWriter) WriteTags(context.Context, *library.BookFile) error { return nil }
