package search

import (
	"context"
	"log/slog"

	"github.com/vmunix/shelfarr/internal/config"
	"github.com/vmunix/shelfarr/pkg/newznab"
	"github.com/vmunix/shelfarr/pkg/release"
)

//go:generate mockgen -source=indexer.go -destination=mocks/mock_indexer.go -package=mocks

// DefaultPriority is the indexer priority used when none is configured.
// Lower values win ties.
const DefaultPriority = 25

// Indexer is one searchable release source.
type Indexer interface {
	Name() string

	// Priority orders tie-broken duplicates; lower wins.
	Priority() int

	// Tags restrict the indexer to authors sharing at least one tag.
	// No tags means the indexer serves every author.
	Tags() []string

	// Automatic and Interactive gate which search kinds may use the
	// indexer.
	Automatic() bool
	Interactive() bool

	Search(ctx context.Context, c Criteria) ([]*ReleaseInfo, error)
}

// Tester is implemented by indexers that can check connectivity.
type Tester interface {
	Test(ctx context.Context) error
}

// NewznabIndexer searches a Newznab-compatible indexer.
type NewznabIndexer struct {
	client      *newznab.Client
	priority    int
	tags        []string
	automatic   bool
	interactive bool
}

// NewNewznabIndexer builds an indexer from its configuration.
func NewNewznabIndexer(cfg config.NewznabConfig, log *slog.Logger) *NewznabIndexer {
	priority := cfg.Priority
	if priority == 0 {
		priority = DefaultPriority
	}
	return &NewznabIndexer{
		client:      newznab.NewClient(cfg.Name, cfg.URL, cfg.APIKey, log),
		priority:    priority,
		tags:        cfg.Tags,
		automatic:   cfg.Automatic,
		interactive: cfg.Interactive,
	}
}

func (i *NewznabIndexer) Name() string      { return i.client.Name() }
func (i *NewznabIndexer) Priority() int     { return i.priority }
func (i *NewznabIndexer) Tags() []string    { return i.tags }
func (i *NewznabIndexer) Automatic() bool   { return i.automatic }
func (i *NewznabIndexer) Interactive() bool { return i.interactive }

// URL returns the indexer's configured base URL.
func (i *NewznabIndexer) URL() string { return i.client.URL() }

// Test checks connectivity with a capabilities request.
func (i *NewznabIndexer) Test(ctx context.Context) error {
	return i.client.Caps(ctx)
}

// Search runs a book search against the indexer and parses the titles. When
// the field-based book search comes back empty the indexer may simply not
// support t=book, so a free-text query is tried before giving up.
func (i *NewznabIndexer) Search(ctx context.Context, c Criteria) ([]*ReleaseInfo, error) {
	categories := []int{newznab.CategoryBooks, newznab.CategoryEbook, newznab.CategoryAudiobook}

	var author string
	if c.Author != nil {
		author = c.Author.Name
	}
	found, err := i.client.SearchBooks(ctx, author, c.Book.Title, categories)
	if err != nil {
		return nil, err
	}
	if len(found) == 0 {
		found, err = i.client.Search(ctx, c.Query(), categories)
		if err != nil {
			return nil, err
		}
	}

	releases := make([]*ReleaseInfo, 0, len(found))
	for _, r := range found {
		releases = append(releases, &ReleaseInfo{
			Title:           r.Title,
			GUID:            r.GUID,
			DownloadURL:     r.DownloadURL,
			Size:            r.Size,
			PublishDate:     r.PublishDate,
			Indexer:         r.Indexer,
			IndexerPriority: i.priority,
			Parsed:          release.Parse(r.Title),
		})
	}
	return releases, nil
}
