package search

import (
	"github.com/vmunix/shelfarr/internal/decision"
	"github.com/vmunix/shelfarr/internal/download"
	"github.com/vmunix/shelfarr/internal/library"
	"github.com/vmunix/shelfarr/pkg/release"
)

// QualityAllowedSpecification rejects releases whose quality the author's
// profile doesn't accept.
type QualityAllowedSpecification struct {
	profile library.Profile
}

// NewQualityAllowedSpecification creates the spec for one profile.
func NewQualityAllowedSpecification(profile library.Profile) *QualityAllowedSpecification {
	return &QualityAllowedSpecification{profile: profile}
}

func (s *QualityAllowedSpecification) Name() string { return "QualityAllowed" }

func (s *QualityAllowedSpecification) IsSatisfiedBy(r *ReleaseInfo, _ *download.ClientItem) (decision.Result, error) {
	q := r.Parsed.Quality.String()
	if !s.profile.Allows(q) {
		return decision.Declined("Quality %s is not wanted in profile", q), nil
	}
	return decision.Accept(), nil
}

// MaxSizeSpecification rejects releases above the configured size ceiling.
// A zero ceiling disables the check.
type MaxSizeSpecification struct {
	maxBytes int64
}

// NewMaxSizeSpecification creates the spec.
func NewMaxSizeSpecification(maxBytes int64) *MaxSizeSpecification {
	return &MaxSizeSpecification{maxBytes: maxBytes}
}

func (s *MaxSizeSpecification) Name() string { return "MaxSize" }

func (s *MaxSizeSpecification) IsSatisfiedBy(r *ReleaseInfo, _ *download.ClientItem) (decision.Result, error) {
	if s.maxBytes > 0 && r.Size > s.maxBytes {
		return decision.Declined("Size %d exceeds maximum %d", r.Size, s.maxBytes), nil
	}
	return decision.Accept(), nil
}

// matchThreshold is the minimum title similarity for a release to count as
// the searched book.
const matchThreshold = 0.80

// TitleMatchSpecification rejects releases whose parsed title doesn't match
// the book being searched for.
type TitleMatchSpecification struct {
	criteria Criteria
}

// NewTitleMatchSpecification creates the spec for one search.
func NewTitleMatchSpecification(c Criteria) *TitleMatchSpecification {
	return &TitleMatchSpecification{criteria: c}
}

func (s *TitleMatchSpecification) Name() string { return "TitleMatch" }

func (s *TitleMatchSpecification) IsSatisfiedBy(r *ReleaseInfo, _ *download.ClientItem) (decision.Result, error) {
	titles := append([]string{s.criteria.Book.Title}, s.criteria.EditionTitles...)
	m := release.MatchTitle(r.Parsed.Title, titles)
	if m.Score < matchThreshold {
		return decision.Declined("Title %q does not match %q", r.Parsed.Title, s.criteria.Book.Title), nil
	}
	if s.criteria.Author != nil && r.Parsed.Author != "" {
		am := release.MatchAuthor(r.Parsed.Author, []string{s.criteria.Author.Name})
		if am.Score < matchThreshold {
			return decision.Declined("Author %q does not match %q", r.Parsed.Author, s.criteria.Author.Name), nil
		}
	}
	return decision.Accept(), nil
}

// AlreadyGrabbedSpecification rejects releases sent to the download client
// before, by GUID.
type AlreadyGrabbedSpecification struct {
	grabbed map[string]bool
}

// NewAlreadyGrabbedSpecification creates the spec over known grab history.
func NewAlreadyGrabbedSpecification(grabbed map[string]bool) *AlreadyGrabbedSpecification {
	return &AlreadyGrabbedSpecification{grabbed: grabbed}
}

func (s *AlreadyGrabbedSpecification) Name() string { return "AlreadyGrabbed" }

func (s *AlreadyGrabbedSpecification) IsSatisfiedBy(r *ReleaseInfo, _ *download.ClientItem) (decision.Result, error) {
	if s.grabbed[r.GUID] {
		return decision.DeclinedTemporary("Release was already grabbed: %s", r.Title), nil
	}
	return decision.Accept(), nil
}
