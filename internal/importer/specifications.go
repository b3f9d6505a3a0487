package importer

import (
	"github.com/vmunix/shelfarr/internal/decision"
	"github.com/vmunix/shelfarr/internal/download"
	"github.com/vmunix/shelfarr/internal/library"
)

// closeMatchThreshold is the minimum identification score an edition needs
// before its files may be imported.
const closeMatchThreshold = 0.80

// CloseMatchSpecification rejects release-groups whose identification match
// was too distant to trust.
type CloseMatchSpecification struct{}

func (CloseMatchSpecification) Name() string { return "CloseMatch" }

func (CloseMatchSpecification) IsSatisfiedBy(edition *LocalEdition, _ *download.ClientItem) (decision.Result, error) {
	if edition.MatchScore < closeMatchThreshold {
		return decision.Declined("Match confidence %.2f too low for %s", edition.MatchScore, edition), nil
	}
	return decision.Accept(), nil
}

// UpgradeSpecification rejects new downloads that don't improve on the files
// the book already has.
type UpgradeSpecification struct {
	store    *library.Store
	profiles map[string]library.Profile
}

// NewUpgradeSpecification creates the spec.
func NewUpgradeSpecification(store *library.Store, profiles map[string]library.Profile) *UpgradeSpecification {
	return &UpgradeSpecification{store: store, profiles: profiles}
}

func (s *UpgradeSpecification) Name() string { return "Upgrade" }

func (s *UpgradeSpecification) IsSatisfiedBy(edition *LocalEdition, _ *download.ClientItem) (decision.Result, error) {
	if !edition.NewDownload || edition.Book == nil || edition.Book.ID == 0 {
		return decision.Accept(), nil
	}

	existing, err := s.store.GetFilesByBook(edition.Book.ID)
	if err != nil {
		return decision.Result{}, err
	}
	if len(existing) == 0 {
		return decision.Accept(), nil
	}

	profile := s.profiles[edition.Author.QualityProfile]

	candidate := 0
	for _, lb := range edition.LocalBooks {
		if rank := profile.Rank(lb.Quality); rank > candidate {
			candidate = rank
		}
	}

	for _, f := range existing {
		if profile.Rank(f.Quality) >= candidate {
			return decision.Declined("Not an upgrade for existing book file %s", f.Path), nil
		}
	}
	return decision.Accept(), nil
}

// AlreadyImportedSpecification rejects a re-download of a release the book
// already has on disk: same quality from the same release group.
type AlreadyImportedSpecification struct {
	store *library.Store
}

// NewAlreadyImportedSpecification creates the spec.
func NewAlreadyImportedSpecification(store *library.Store) *AlreadyImportedSpecification {
	return &AlreadyImportedSpecification{store: store}
}

func (s *AlreadyImportedSpecification) Name() string { return "AlreadyImported" }

func (s *AlreadyImportedSpecification) IsSatisfiedBy(edition *LocalEdition, _ *download.ClientItem) (decision.Result, error) {
	if !edition.NewDownload || edition.Book == nil || edition.Book.ID == 0 {
		return decision.Accept(), nil
	}

	existing, err := s.store.GetFilesByBook(edition.Book.ID)
	if err != nil {
		return decision.Result{}, err
	}

	for _, lb := range edition.LocalBooks {
		for _, f := range existing {
			if f.Quality == lb.Quality && f.ReleaseGroup != "" && f.ReleaseGroup == lb.ReleaseGroup {
				return decision.Declined("Release was already imported as %s", f.Path), nil
			}
		}
	}
	return decision.Accept(), nil
}

// HasAuthorIDSpecification rejects candidates whose author can't be
// persisted: no library row and no identity to create one from.
type HasAuthorIDSpecification struct{}

func (HasAuthorIDSpecification) Name() string { return "HasAuthorID" }

func (HasAuthorIDSpecification) IsSatisfiedBy(lb *LocalBook, _ *download.ClientItem) (decision.Result, error) {
	if lb.Author == nil || (lb.Author.ID == 0 && lb.Author.ForeignAuthorID == "") {
		return decision.Declined("No resolvable author for %s", lb), nil
	}
	return decision.Accept(), nil
}

// SameFileSpecification rejects candidates that duplicate a file already
// tracked for the same book at the same size.
type SameFileSpecification struct {
	store *library.Store
}

// NewSameFileSpecification creates the spec.
func NewSameFileSpecification(store *library.Store) *SameFileSpecification {
	return &SameFileSpecification{store: store}
}

func (s *SameFileSpecification) Name() string { return "SameFile" }

func (s *SameFileSpecification) IsSatisfiedBy(lb *LocalBook, _ *download.ClientItem) (decision.Result, error) {
	if lb.ExistingFile || lb.Book == nil || lb.Book.ID == 0 {
		return decision.Accept(), nil
	}

	existing, err := s.store.GetFilesByBook(lb.Book.ID)
	if err != nil {
		return decision.Result{}, err
	}
	for _, f := range existing {
		if f.Size == lb.Size && f.Path != lb.Path {
			return decision.Declined("Duplicate of file already in library: %s", f.Path), nil
		}
	}
	return decision.Accept(), nil
}

// NotSampleSpecification rejects files too small to be a real book rip.
type NotSampleSpecification struct{}

func (NotSampleSpecification) Name() string { return "NotSample" }

// minBookFileSize is 10 KiB; below this the file is a stub or sample.
const minBookFileSize = 10 * 1024

func (NotSampleSpecification) IsSatisfiedBy(lb *LocalBook, _ *download.ClientItem) (decision.Result, error) {
	if lb.Size < minBookFileSize {
		return decision.Declined("File too small (%d bytes) to be a valid book file", lb.Size), nil
	}
	return decision.Accept(), nil
}

// DefaultEditionSpecifications is the ordered group-level rule set.
func DefaultEditionSpecifications(store *library.Store, profiles map[string]library.Profile) []decision.Specification[*LocalEdition] {
	return []decision.Specification[*LocalEdition]{
		CloseMatchSpecification{},
		NewAlreadyImportedSpecification(store),
		NewUpgradeSpecification(store, profiles),
	}
}

// DefaultBookSpecifications is the ordered item-level rule set.
func DefaultBookSpecifications(store *library.Store) []decision.Specification[*LocalBook] {
	return []decision.Specification[*LocalBook]{
		HasAuthorIDSpecification{},
		NotSampleSpecification{},
		NewSameFileSpecification(store),
	}
}
