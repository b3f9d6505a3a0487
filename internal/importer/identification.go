package importer

import (
	"fmt"
	"log/slog"

	"github.com/vmunix/shelfarr/internal/library"
	"github.com/vmunix/shelfarr/pkg/release"
)

// Overrides carry an explicit author/book/edition chosen by the user, which
// identification trusts over its own matching.
type Overrides struct {
	Author  *library.Author
	Book    *library.Book
	Edition *library.Edition
}

// Identifier clusters tagged candidates into editions and resolves each
// cluster against the library. A cluster that cannot be resolved comes back
// with a nil Edition.
type Identifier interface {
	Identify(localBooks []*LocalBook, overrides Overrides, cfg MakerConfig) []*LocalEdition
}

// IdentificationService resolves candidates by fuzzy-matching parsed
// metadata against the authors and books already in the library. When
// nothing matches and the batch allows new authors, it builds provisional
// entities from the parsed metadata; their foreign ids are deterministic so
// the approver's lookup-then-insert stays idempotent.
type IdentificationService struct {
	store *library.Store
	log   *slog.Logger
}

// NewIdentificationService creates an identification service.
func NewIdentificationService(store *library.Store, log *slog.Logger) *IdentificationService {
	return &IdentificationService{store: store, log: log}
}

// Identify implements Identifier.
func (s *IdentificationService) Identify(localBooks []*LocalBook, overrides Overrides, cfg MakerConfig) []*LocalEdition {
	clusters := clusterByRelease(localBooks, cfg.SingleRelease)

	editions := make([]*LocalEdition, 0, len(clusters))
	for _, cluster := range clusters {
		cluster.NewDownload = cfg.NewDownload
		editions = append(editions, s.resolve(cluster, overrides, cfg))
	}
	return editions
}

// clusterByRelease groups candidates believed to form one edition, keyed by
// normalized author and title. In single-release mode everything is one
// cluster (the caller already knows the files belong together).
func clusterByRelease(localBooks []*LocalBook, singleRelease bool) []*LocalEdition {
	if singleRelease {
		if len(localBooks) == 0 {
			return nil
		}
		return []*LocalEdition{{LocalBooks: localBooks}}
	}

	order := make([]string, 0)
	groups := make(map[string][]*LocalBook)
	for _, lb := range localBooks {
		info := lb.Info()
		key := release.CleanAuthorName(info.AuthorName) + "\x00" + release.CleanTitle(info.BookTitle)
		if _, seen := groups[key]; !seen {
			order = append(order, key)
		}
		groups[key] = append(groups[key], lb)
	}

	clusters := make([]*LocalEdition, 0, len(groups))
	for _, key := range order {
		clusters = append(clusters, &LocalEdition{LocalBooks: groups[key]})
	}
	return clusters
}

func (s *IdentificationService) resolve(cluster *LocalEdition, overrides Overrides, cfg MakerConfig) *LocalEdition {
	info := cluster.LocalBooks[0].Info()

	if overrides.Edition != nil {
		cluster.Edition = overrides.Edition
		cluster.Book = overrides.Book
		cluster.Author = overrides.Author
		cluster.MatchScore = 1.0
		s.attach(cluster)
		return cluster
	}

	author, authorScore := s.resolveAuthor(info, overrides, cfg)
	if author == nil {
		s.log.Debug("no author match", "name", info.AuthorName, "title", info.BookTitle)
		return cluster
	}

	book, edition, titleScore := s.resolveBook(author, info, overrides, cfg)
	if book == nil {
		s.log.Debug("no book match", "author", author.Name, "title", info.BookTitle)
		return cluster
	}
	if edition == nil {
		// Matched a book that has no edition rows yet.
		edition = &library.Edition{
			ForeignEditionID: book.ForeignBookID + ":default",
			BookID:           book.ID,
			Title:            book.Title,
		}
	}

	cluster.Author = author
	cluster.Book = book
	cluster.Edition = edition
	cluster.MatchScore = min(authorScore, titleScore)

	s.log.Debug("identified release",
		"author", author.Name, "book", book.Title, "score", cluster.MatchScore, "files", len(cluster.LocalBooks))

	s.attach(cluster)
	return cluster
}

// attach copies the resolved entities onto every member candidate.
func (s *IdentificationService) attach(cluster *LocalEdition) {
	for _, lb := range cluster.LocalBooks {
		lb.Author = cluster.Author
		lb.Book = cluster.Book
		lb.Edition = cluster.Edition
	}
}

func (s *IdentificationService) resolveAuthor(info *ParsedBookInfo, overrides Overrides, cfg MakerConfig) (*library.Author, float64) {
	if overrides.Author != nil {
		return overrides.Author, 1.0
	}
	if info.AuthorName == "" {
		return nil, 0
	}

	authors, err := s.store.ListAuthors()
	if err != nil {
		s.log.Error("list authors failed", "error", err)
		return nil, 0
	}

	names := make([]string, len(authors))
	for i, a := range authors {
		names[i] = a.Name
	}

	if match := release.MatchAuthor(info.AuthorName, names); match.Confidence >= release.ConfidenceMedium {
		return authors[match.Index], match.Score
	}

	if !cfg.AddNewAuthors {
		return nil, 0
	}

	// Provisional author; the approver persists it if the batch survives
	// the specifications.
	return &library.Author{
		ForeignAuthorID: "local:" + release.CleanAuthorName(info.AuthorName),
		Name:            info.AuthorName,
	}, 1.0
}

func (s *IdentificationService) resolveBook(author *library.Author, info *ParsedBookInfo, overrides Overrides, cfg MakerConfig) (*library.Book, *library.Edition, float64) {
	if overrides.Book != nil {
		return overrides.Book, nil, 1.0
	}

	if author.ID != 0 {
		books, err := s.store.ListBooksByAuthor(author.ID)
		if err != nil {
			s.log.Error("list books failed", "author_id", author.ID, "error", err)
			return nil, nil, 0
		}

		titles := make([]string, len(books))
		for i, b := range books {
			titles[i] = b.Title
		}

		if match := release.MatchTitle(info.BookTitle, titles); match.Confidence >= release.ConfidenceLow {
			book := books[match.Index]
			return book, s.bestEdition(book), match.Score
		}
	}

	if !cfg.AddNewAuthors && author.ID != 0 {
		// Known author but unknown book and the batch may not create
		// library entities.
		return nil, nil, 0
	}

	book := &library.Book{
		ForeignBookID: fmt.Sprintf("local:%s:%s", release.CleanAuthorName(author.Name), release.CleanTitle(info.BookTitle)),
		AuthorID:      author.ID,
		Title:         info.BookTitle,
		SeriesTitle:   info.SeriesTitle,
		SeriesIndex:   info.SeriesIndex,
	}
	edition := &library.Edition{
		ForeignEditionID: book.ForeignBookID + ":1",
		Title:            info.BookTitle,
		ISBN:             info.ISBN,
	}
	return book, edition, 1.0
}

// bestEdition picks the edition the files most plausibly belong to; with no
// further signal that is the first monitored edition, else the first.
func (s *IdentificationService) bestEdition(book *library.Book) *library.Edition {
	editions, err := s.store.ListEditionsByBook(book.ID)
	if err != nil || len(editions) == 0 {
		return nil
	}
	for _, e := range editions {
		if e.Monitored {
			return e
		}
	}
	return editions[0]
}
