package importer

import (
	"path/filepath"
	"strings"

	"github.com/vmunix/shelfarr/pkg/release"
)

// Augmenter combines the metadata sources attached to a candidate into its
// final Quality and ReleaseGroup, validating that enough metadata exists to
// attempt identification. It returns a new value rather than mutating the
// input, so each pipeline stage sees a complete earlier stage's output.
type Augmenter struct{}

// NewAugmenter creates an augmenter.
func NewAugmenter() *Augmenter {
	return &Augmenter{}
}

// Augment merges the candidate's metadata sources. Tag data takes precedence
// over filename-derived guesses (LocalBook.Info encodes that order). Returns
// ErrAugmentingFailed when no source yields a title to identify by.
func (a *Augmenter) Augment(lb LocalBook) (LocalBook, error) {
	if lb.FolderInfo == nil {
		lb.FolderInfo = parseFolderName(lb.Path)
	}

	info := lb.Info()
	if info.BookTitle == "" {
		return lb, ErrAugmentingFailed
	}

	lb.Quality = info.Quality
	if lb.Quality == "" {
		ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(lb.Path)), ".")
		lb.Quality = release.ParseQuality(ext).String()
	}
	lb.ReleaseGroup = info.ReleaseGroup

	return lb, nil
}

// parseFolderName extracts metadata from the candidate's parent folder,
// which for scene downloads usually carries more than the file name.
func parseFolderName(path string) *ParsedBookInfo {
	folder := filepath.Base(filepath.Dir(path))
	if folder == "." || folder == string(filepath.Separator) {
		return nil
	}

	parsed := release.Parse(folder)
	if parsed.Title == "" {
		return nil
	}
	info := &ParsedBookInfo{
		AuthorName:   parsed.Author,
		BookTitle:    parsed.Title,
		Year:         parsed.Year,
		ReleaseGroup: parsed.Group,
	}
	if parsed.Quality != release.QualityUnknown {
		info.Quality = parsed.Quality.String()
	}
	return info
}
