package importer

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"sort"
	"time"

	"github.com/vmunix/shelfarr/internal/decision"
	"github.com/vmunix/shelfarr/internal/download"
	"github.com/vmunix/shelfarr/internal/events"
	"github.com/vmunix/shelfarr/internal/library"
	"github.com/vmunix/shelfarr/internal/queue"
)

// Approver commits approved decisions into the library: it creates missing
// authors and books, moves files into place, and announces the results.
// Rejected decisions pass through untouched so callers always get one result
// per decision.
type Approver struct {
	store    *library.Store
	mover    *Mover
	tags     TagWriter
	bus      *events.Bus
	commands *queue.Manager
	profiles map[string]library.Profile
	log      *slog.Logger
}

// NewApprover creates an approver. A nil tag writer leaves files untouched.
func NewApprover(store *library.Store, mover *Mover, tags TagWriter, bus *events.Bus, commands *queue.Manager, profiles map[string]library.Profile, log *slog.Logger) *Approver {
	if tags == nil {
		tags = NoopTagWriter{}
	}
	return &Approver{
		store:    store,
		mover:    mover,
		tags:     tags,
		bus:      bus,
		commands: commands,
		profiles: profiles,
		log:      log,
	}
}

// importedBook tracks the first candidate committed for a book within one
// batch, so a second release of the same book gets turned away.
type importedBook struct {
	quality string
	dir     string
}

// Import commits the approved decisions. replaceExisting recycles the files
// a book already has before the new ones land. The returned slice holds one
// result per input decision.
func (a *Approver) Import(ctx context.Context, decisions []*decision.Decision[*LocalBook], mode ImportMode, replaceExisting bool, dl *download.ClientItem) []*ImportResult {
	start := time.Now()

	approved := make([]*decision.Decision[*LocalBook], 0, len(decisions))
	var rejected []*decision.Decision[*LocalBook]
	for _, d := range decisions {
		if d.Approved() {
			approved = append(approved, d)
		} else {
			rejected = append(rejected, d)
		}
	}

	// Best quality first, largest file first on ties, so when two releases
	// of one book arrive together the better one wins the dedup check.
	sort.SliceStable(approved, func(i, j int) bool {
		a1, a2 := approved[i].Item, approved[j].Item
		r1, r2 := a.rank(a1), a.rank(a2)
		if r1 != r2 {
			return r1 > r2
		}
		return a1.Size > a2.Size
	})

	newDownload := dl != nil

	results := make([]*ImportResult, 0, len(decisions))
	authors := map[string]*library.Author{}
	books := map[string]*library.Book{}
	imported := map[int64]importedBook{}
	retired := map[int64][]string{}
	edited := map[int64]bool{}
	failedAuthors := map[string]string{}
	failedBooks := map[string]string{}

	var (
		newFiles     []*library.BookFile
		fileBooks    []*LocalBook
		fileResults  []*ImportResult
		authorEvents []events.Event
		addedAuthors []int64
	)

	for _, d := range approved {
		if err := ctx.Err(); err != nil {
			results = append(results, NewImportResult(d, err.Error()))
			continue
		}
		lb := d.Item

		// A creation failure rejects the whole release group: once an
		// author or book could not be added, every remaining member of
		// that group carries the same temporary rejection.
		if msg, ok := failedAuthors[lb.Author.ForeignAuthorID]; ok {
			d.Reject(decision.NewTemporaryRejection("Failure while adding author %s: %s", lb.Author.Name, msg))
			results = append(results, NewImportResult(d))
			continue
		}
		if msg, ok := failedBooks[lb.Book.ForeignBookID]; ok {
			d.Reject(decision.NewTemporaryRejection("Failure while adding book %s: %s", lb.Book.Title, msg))
			results = append(results, NewImportResult(d))
			continue
		}

		author, added, err := a.ensureAuthor(lb, authors)
		if err != nil {
			a.log.Error("author create failed", "author", lb.Author.Name, "error", err)
			failedAuthors[lb.Author.ForeignAuthorID] = err.Error()
			d.Reject(decision.NewTemporaryRejection("Failure while adding author %s: %s", lb.Author.Name, err))
			results = append(results, NewImportResult(d))
			continue
		}
		if added {
			authorEvents = append(authorEvents, events.NewAuthorAdded(author.ID, author.ForeignAuthorID, author.Name))
			addedAuthors = append(addedAuthors, author.ID)
		}
		lb.Author = author

		book, err := a.ensureBook(lb, author, books)
		if err != nil {
			a.log.Error("book create failed", "title", lb.Book.Title, "error", err)
			failedBooks[lb.Book.ForeignBookID] = err.Error()
			d.Reject(decision.NewTemporaryRejection("Failure while adding book %s: %s", lb.Book.Title, err))
			results = append(results, NewImportResult(d))
			continue
		}
		lb.Book = book

		if !edited[book.ID] {
			edited[book.ID] = true
			a.publish(ctx, events.NewBookEdited(book.ID, book.Title))
		}

		if prev, ok := imported[book.ID]; ok {
			if prev.quality != lb.Quality || prev.dir != filepath.Dir(lb.Path) {
				results = append(results, NewImportResult(d, "Book has already been imported"))
				continue
			}
		}

		if replaceExisting && !lb.ExistingFile {
			if _, done := retired[book.ID]; !done {
				old, err := a.mover.RetireExisting(book, author.RootFolderPath)
				if err != nil {
					a.publish(ctx, events.NewImportFailed(book.ID, lb.Path, "Failed to replace existing files: "+err.Error(), newDownload))
					results = append(results, NewImportResult(d, "Failed to replace existing files: "+err.Error()))
					continue
				}
				retired[book.ID] = old
			}
		}

		var dst string
		var size int64
		if lb.ExistingFile {
			// Rescan of a file already in place: no transfer, but any
			// stale record for the path gets replaced.
			dst = lb.Path
			size = lb.Size
			if prior, perr := a.store.GetFileWithPath(lb.Path); perr == nil && prior != nil {
				if derr := a.store.DeleteFile(prior.ID); derr != nil {
					results = append(results, NewImportResult(d, "Failed to replace file record: "+derr.Error()))
					continue
				}
			}
		} else {
			var err error
			dst, err = a.mover.DestinationPath(lb)
			if err != nil {
				a.publish(ctx, events.NewImportFailed(book.ID, lb.Path, err.Error(), newDownload))
				results = append(results, NewImportResult(d, err.Error()))
				continue
			}

			var old []string
			size, old, err = a.mover.Upgrade(lb, dst, mode, dl)
			if len(old) > 0 {
				retired[book.ID] = append(retired[book.ID], old...)
			}
			if err != nil {
				reason := "Failed to import file: " + err.Error()
				if errors.Is(err, ErrDestinationExists) {
					reason = "Destination already exists: " + dst
				}
				a.publish(ctx, events.NewImportFailed(book.ID, lb.Path, reason, newDownload))
				results = append(results, NewImportResult(d, reason))
				continue
			}

			ImportExtraFiles(lb.Path, dst, a.log)
		}

		file := &library.BookFile{
			BookID:       book.ID,
			EditionID:    editionID(lb),
			Path:         dst,
			Size:         size,
			Modified:     lb.Modified,
			Quality:      lb.Quality,
			ReleaseGroup: lb.ReleaseGroup,
			SceneName:    sceneName(lb, dl),
		}

		imported[book.ID] = importedBook{quality: lb.Quality, dir: filepath.Dir(lb.Path)}
		newFiles = append(newFiles, file)
		fileBooks = append(fileBooks, lb)
		fileResults = append(fileResults, NewImportResult(d))
		results = append(results, fileResults[len(fileResults)-1])
	}

	if len(newFiles) > 0 {
		if err := a.store.AddFiles(newFiles); err != nil {
			a.log.Error("bulk file insert failed", "files", len(newFiles), "error", err)
			for _, r := range fileResults {
				r.Errors = append(r.Errors, "Failed to record imported file: "+err.Error())
			}
		} else {
			a.rewriteTags(ctx, newFiles, fileBooks)
			a.publishImports(ctx, newFiles, fileBooks, retired, newDownload, replaceExisting, authorEvents)
		}
	}

	// Only authors created in this batch need a metadata refresh.
	if a.commands != nil && len(addedAuthors) > 0 {
		a.commands.Push(queue.RefreshAuthors{AuthorIDs: addedAuthors})
	}

	for _, d := range rejected {
		results = append(results, NewImportResult(d))
	}

	a.log.Info("import committed",
		"decisions", len(decisions),
		"imported", len(newFiles),
		"rejected", len(rejected),
		"duration_ms", time.Since(start).Milliseconds())

	return results
}

// rank scores a candidate's quality against its author's profile.
func (a *Approver) rank(lb *LocalBook) int {
	if lb.Author == nil {
		return 0
	}
	return a.profiles[lb.Author.QualityProfile].Rank(lb.Quality)
}

// ensureAuthor resolves the candidate's author to a persisted row, creating
// it on first sight. The cache keeps one lookup per author per batch and
// makes repeated creation attempts idempotent.
func (a *Approver) ensureAuthor(lb *LocalBook, cache map[string]*library.Author) (*library.Author, bool, error) {
	author := lb.Author
	if author.ID != 0 {
		return author, false, nil
	}
	if cached, ok := cache[author.ForeignAuthorID]; ok {
		return cached, false, nil
	}

	existing, err := a.store.FindAuthorByForeignID(author.ForeignAuthorID)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		cache[author.ForeignAuthorID] = existing
		return existing, false, nil
	}

	if err := a.store.AddAuthor(author); err != nil {
		// Lost a race with a concurrent import of the same author.
		if errors.Is(err, library.ErrDuplicate) {
			existing, ferr := a.store.FindAuthorByForeignID(author.ForeignAuthorID)
			if ferr == nil && existing != nil {
				cache[author.ForeignAuthorID] = existing
				return existing, false, nil
			}
		}
		return nil, false, err
	}

	cache[author.ForeignAuthorID] = author
	return author, true, nil
}

// ensureBook resolves the candidate's book and edition, creating them on
// first sight.
func (a *Approver) ensureBook(lb *LocalBook, author *library.Author, cache map[string]*library.Book) (*library.Book, error) {
	book := lb.Book
	if book.ID != 0 {
		return book, nil
	}
	if cached, ok := cache[book.ForeignBookID]; ok {
		return cached, nil
	}

	existing, err := a.store.FindBookByForeignID(book.ForeignBookID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		cache[book.ForeignBookID] = existing
		return existing, nil
	}

	book.AuthorID = author.ID
	if err := a.store.InsertBooks([]*library.Book{book}); err != nil {
		if errors.Is(err, library.ErrDuplicate) {
			existing, ferr := a.store.FindBookByForeignID(book.ForeignBookID)
			if ferr == nil && existing != nil {
				cache[book.ForeignBookID] = existing
				return existing, nil
			}
		}
		return nil, err
	}

	if lb.Edition != nil && lb.Edition.ID == 0 {
		lb.Edition.BookID = book.ID
		if err := a.store.AddEdition(lb.Edition); err != nil && !errors.Is(err, library.ErrDuplicate) {
			return nil, err
		}
	}

	cache[book.ForeignBookID] = book
	return book, nil
}

// rewriteTags refreshes embedded tags on rescanned files so they agree with
// the library's view. Failures are logged; the import already happened.
func (a *Approver) rewriteTags(ctx context.Context, files []*library.BookFile, books []*LocalBook) {
	for i, f := range files {
		if !books[i].ExistingFile {
			continue
		}
		if err := a.tags.WriteTags(ctx, f); err != nil {
			a.log.Warn("tag rewrite failed", "path", f.Path, "error", err)
		}
	}
}

// publish sends one event, logging delivery failures.
func (a *Approver) publish(ctx context.Context, e events.Event) {
	if err := a.bus.Publish(ctx, e); err != nil {
		a.log.Warn("event publish failed", "event", e.EventType(), "error", err)
	}
}

// publishImports delivers the deferred events: per-author adds, one
// FileImported per file, then one BookImported per book.
func (a *Approver) publishImports(ctx context.Context, files []*library.BookFile, books []*LocalBook, retired map[int64][]string, newDownload, replaceExisting bool, authorEvents []events.Event) {
	for _, e := range authorEvents {
		a.publish(ctx, e)
	}

	byBook := map[int64][]int64{}
	bookAuthors := map[int64]int64{}
	var bookOrder []int64

	for i, f := range files {
		lb := books[i]
		old := retired[f.BookID]
		a.publish(ctx, events.NewFileImported(f.ID, f.BookID, f.Path, f.Quality, newDownload, old))
		if _, seen := byBook[f.BookID]; !seen {
			bookOrder = append(bookOrder, f.BookID)
			bookAuthors[f.BookID] = lb.Author.ID
		}
		byBook[f.BookID] = append(byBook[f.BookID], f.ID)
	}

	for _, bookID := range bookOrder {
		a.publish(ctx, events.NewBookImported(bookID, bookAuthors[bookID], byBook[bookID], retired[bookID], replaceExisting))
	}
}

// editionID returns the persisted edition id when the candidate has one.
func editionID(lb *LocalBook) int64 {
	if lb.Edition == nil {
		return 0
	}
	return lb.Edition.ID
}

// sceneName keeps the original release name when the file came from a
// download client.
func sceneName(lb *LocalBook, dl *download.ClientItem) string {
	if lb.SceneName != "" {
		return lb.SceneName
	}
	if dl != nil {
		return dl.Title
	}
	return ""
}
