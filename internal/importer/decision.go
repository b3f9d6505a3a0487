package importer

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"time"

	"github.com/vmunix/shelfarr/internal/decision"
	"github.com/vmunix/shelfarr/internal/download"
	"github.com/vmunix/shelfarr/internal/library"
	"github.com/vmunix/shelfarr/internal/rootfolder"
	"github.com/vmunix/shelfarr/pkg/release"
)

// MakerConfig controls one decision batch.
type MakerConfig struct {
	// Filter selects which discovered files get analyzed.
	Filter FilterMode

	// NewDownload marks the batch as a fresh download rather than a
	// rescan of files already inside the library.
	NewDownload bool

	// SingleRelease forces all files into one candidate group, for
	// downloads whose folder holds exactly one release.
	SingleRelease bool

	// AddNewAuthors lets identification create provisional authors and
	// books for names not yet in the library.
	AddNewAuthors bool
}

// BatchInfo carries batch-wide context shared by every file.
type BatchInfo struct {
	// DownloadClientItem is the originating download, nil for rescans.
	DownloadClientItem *download.ClientItem

	// FolderInfo overrides per-file folder parsing when the caller
	// already parsed the batch folder once.
	FolderInfo *ParsedBookInfo
}

// Maker runs the decision pipeline: read metadata, augment, identify, then
// evaluate every candidate against the rule set. It never mutates the
// library; committing approved decisions is the Approver's job.
type Maker struct {
	tags         TagReader
	augmenter    *Augmenter
	identifier   Identifier
	store        *library.Store
	rootFolders  *rootfolder.Service
	editionRules []decision.Specification[*LocalEdition]
	bookRules    []decision.Specification[*LocalBook]
	log          *slog.Logger
}

// NewMaker wires the full pipeline.
func NewMaker(
	tags TagReader,
	identifier Identifier,
	store *library.Store,
	rootFolders *rootfolder.Service,
	editionRules []decision.Specification[*LocalEdition],
	bookRules []decision.Specification[*LocalBook],
	log *slog.Logger,
) *Maker {
	return &Maker{
		tags:         tags,
		augmenter:    NewAugmenter(),
		identifier:   identifier,
		store:        store,
		rootFolders:  rootFolders,
		editionRules: editionRules,
		bookRules:    bookRules,
		log:          log,
	}
}

// GetImportDecisions evaluates the given files and returns one decision per
// analyzed file. Files skipped by the filter produce no decision.
func (m *Maker) GetImportDecisions(ctx context.Context, paths []string, batch BatchInfo, overrides Overrides, cfg MakerConfig) ([]*decision.Decision[*LocalBook], error) {
	start := time.Now()

	localBooks, failed, err := m.getLocalBooks(ctx, paths, batch, cfg)
	if err != nil {
		return nil, err
	}

	editions := m.identifier.Identify(localBooks, overrides, cfg)

	m.ensureData(editions)

	var decisions []*decision.Decision[*LocalBook]
	decisions = append(decisions, failed...)

	for _, edition := range editions {
		decisions = append(decisions, m.decideEdition(edition, batch.DownloadClientItem)...)
	}

	m.log.Info("import decisions made",
		"files", len(paths),
		"analyzed", len(localBooks),
		"decisions", len(decisions),
		"duration_ms", time.Since(start).Milliseconds())

	return decisions, nil
}

// getLocalBooks stats, filters, and augments the candidate files. Files
// that can't be analyzed come back as already-rejected decisions so callers
// see every failure alongside the successes.
func (m *Maker) getLocalBooks(ctx context.Context, paths []string, batch BatchInfo, cfg MakerConfig) ([]*LocalBook, []*decision.Decision[*LocalBook], error) {
	var (
		localBooks []*LocalBook
		failed     []*decision.Decision[*LocalBook]
	)

	var dlInfo *ParsedBookInfo
	if batch.DownloadClientItem != nil {
		dlInfo = parseClientTitle(batch.DownloadClientItem.Title)
	}

	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		if !IsBookFile(path) {
			continue
		}

		fi, err := os.Stat(path)
		if err != nil {
			m.log.Warn("skipping unreadable file", "path", path, "error", err)
			lb := &LocalBook{Path: path}
			failed = append(failed, decision.New(lb,
				decision.NewRejection("Unable to read file: %s", err)))
			continue
		}

		existing, err := m.store.GetFileWithPath(path)
		if err != nil {
			return nil, nil, err
		}
		if skip := filterFile(cfg.Filter, existing, fi.Size(), fi.ModTime()); skip {
			continue
		}

		lb := LocalBook{
			Path:               path,
			Size:               fi.Size(),
			Modified:           fi.ModTime(),
			FolderInfo:         batch.FolderInfo,
			DownloadClientInfo: dlInfo,
			ExistingFile:       !cfg.NewDownload,
		}

		tags, err := m.tags.ReadTags(ctx, path)
		if err != nil {
			m.log.Warn("tag read failed", "path", path, "error", err)
		} else {
			lb.FileInfo = tags
		}

		augmented, err := m.augmenter.Augment(lb)
		if err != nil {
			if errors.Is(err, ErrAugmentingFailed) {
				failed = append(failed, decision.New(&lb,
					decision.NewRejection("Unable to parse book info from file: %s", path)))
				continue
			}
			return nil, nil, err
		}

		localBooks = append(localBooks, &augmented)
	}

	return localBooks, failed, nil
}

// filterFile reports whether the filter excludes this file from analysis.
func filterFile(filter FilterMode, existing *library.BookFile, size int64, modified time.Time) bool {
	switch filter {
	case FilterNew:
		return existing != nil && existing.Size == size && existing.Modified.Equal(modified)
	case FilterKnown:
		return existing == nil
	default:
		return false
	}
}

// ensureData fills defaults a freshly created author still needs, using the
// root folder the files landed under.
func (m *Maker) ensureData(editions []*LocalEdition) {
	for _, edition := range editions {
		if edition.Author == nil || edition.Author.QualityProfile != "" {
			continue
		}
		if len(edition.LocalBooks) == 0 {
			continue
		}
		rf, err := m.rootFolders.GetBestRootFolder(edition.LocalBooks[0].Path)
		if err != nil {
			rfs := m.rootFolders.All()
			if len(rfs) == 0 {
				continue
			}
			rf = &rfs[0]
		}
		edition.Author.QualityProfile = rf.QualityProfile
		edition.Author.RootFolderPath = rf.Path
		if edition.Author.MetadataProfile == "" {
			edition.Author.MetadataProfile = rf.MetadataProfile
		}
		for _, lb := range edition.LocalBooks {
			if lb.Author != nil {
				lb.Author.QualityProfile = rf.QualityProfile
				lb.Author.RootFolderPath = rf.Path
			}
		}
	}
}

// decideEdition evaluates one candidate group. A rejected group stamps its
// rejection list onto every member verbatim; only members of an approved
// group answer for themselves.
func (m *Maker) decideEdition(edition *LocalEdition, dl *download.ClientItem) []*decision.Decision[*LocalBook] {
	decisions := make([]*decision.Decision[*LocalBook], 0, len(edition.LocalBooks))

	if edition.Edition == nil {
		for _, lb := range edition.LocalBooks {
			decisions = append(decisions, decision.New(lb,
				decision.NewRejection("Couldn't find similar book for %s", lb)))
		}
		return decisions
	}

	groupRejections := decision.Run(m.editionRules, edition, dl, m.log)

	for _, lb := range edition.LocalBooks {
		if len(groupRejections) > 0 {
			inherited := append([]decision.Rejection(nil), groupRejections...)
			decisions = append(decisions, decision.New(lb, inherited...))
			continue
		}
		decisions = append(decisions, decision.New(lb, decision.Run(m.bookRules, lb, dl, m.log)...))
	}

	return decisions
}

// parseClientTitle turns the download client's release title into batch-wide
// metadata hints.
func parseClientTitle(title string) *ParsedBookInfo {
	if title == "" {
		return nil
	}
	parsed := release.Parse(title)
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
