package search

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/vmunix/shelfarr/internal/decision"
	"github.com/vmunix/shelfarr/internal/download"
	"github.com/vmunix/shelfarr/internal/events"
	"github.com/vmunix/shelfarr/internal/library"
)

// Grabber sends a release to a download client.
type Grabber interface {
	Grab(ctx context.Context, r *ReleaseInfo) (*download.ClientItem, error)
}

// Dispatcher fans a search out across the eligible indexers, evaluates
// every release that comes back, and collapses duplicates. One failing
// indexer never sinks the search; its results are simply absent.
type Dispatcher struct {
	indexers       []Indexer
	profiles       map[string]library.Profile
	maxBytes       int64
	maxConcurrency int64
	grabber        Grabber
	bus            *events.Bus
	log            *slog.Logger

	mu      sync.Mutex
	grabbed map[string]bool
}

// NewDispatcher creates a dispatcher. maxConcurrency bounds how many
// indexers are queried at once; zero means 10.
func NewDispatcher(indexers []Indexer, profiles map[string]library.Profile, maxBytes int64, maxConcurrency int, grabber Grabber, bus *events.Bus, log *slog.Logger) *Dispatcher {
	if maxConcurrency <= 0 {
		maxConcurrency = 10
	}
	return &Dispatcher{
		indexers:       indexers,
		profiles:       profiles,
		maxBytes:       maxBytes,
		maxConcurrency: int64(maxConcurrency),
		grabber:        grabber,
		bus:            bus,
		log:            log,
		grabbed:        map[string]bool{},
	}
}

// SearchBook queries the eligible indexers and returns one decision per
// distinct release, best candidates first.
func (d *Dispatcher) SearchBook(ctx context.Context, c Criteria) ([]*decision.Decision[*ReleaseInfo], error) {
	start := time.Now()

	eligible := d.selectIndexers(c)
	if len(eligible) == 0 {
		return nil, ErrNoIndexers
	}

	releases := d.fanOut(ctx, eligible, c)

	specs := d.specsFor(c)
	decisions := make([]*decision.Decision[*ReleaseInfo], 0, len(releases))
	for _, r := range releases {
		decisions = append(decisions, decision.New(r, decision.Run(specs, r, nil, d.log)...))
	}

	decisions = dedupByGUID(decisions)
	d.sortDecisions(decisions, c)

	d.log.Info("search complete",
		"book", c.Book.Title,
		"indexers", len(eligible),
		"releases", len(releases),
		"candidates", len(decisions),
		"duration_ms", time.Since(start).Milliseconds())

	return decisions, nil
}

// Grab hands an approved release to the download client and records it so a
// repeat search won't grab it again.
func (d *Dispatcher) Grab(ctx context.Context, dec *decision.Decision[*ReleaseInfo], c Criteria) (*download.ClientItem, error) {
	r := dec.Item
	if !dec.Approved() {
		return nil, fmt.Errorf("release %s is rejected: %v", r.Title, dec.Reasons())
	}

	d.mu.Lock()
	if d.grabbed[r.GUID] {
		d.mu.Unlock()
		return nil, ErrAlreadyGrabbed
	}
	d.grabbed[r.GUID] = true
	d.mu.Unlock()

	item, err := d.grabber.Grab(ctx, r)
	if err != nil {
		d.mu.Lock()
		delete(d.grabbed, r.GUID)
		d.mu.Unlock()
		return nil, fmt.Errorf("grab %s: %w", r.Title, err)
	}

	if d.bus != nil {
		if perr := d.bus.Publish(ctx, events.NewReleaseGrabbed(c.Book.ID, r.GUID, r.Title, r.Indexer)); perr != nil {
			d.log.Warn("event publish failed", "event", events.EventReleaseGrabbed, "error", perr)
		}
	}

	d.log.Info("release grabbed", "title", r.Title, "indexer", r.Indexer, "book", c.Book.Title)
	return item, nil
}

// SearchAndGrab runs an automatic search and grabs the best approved
// candidate. ErrNoResults when nothing approved survives.
func (d *Dispatcher) SearchAndGrab(ctx context.Context, c Criteria) (*download.ClientItem, error) {
	decisions, err := d.SearchBook(ctx, c)
	if err != nil {
		return nil, err
	}
	for _, dec := range decisions {
		if dec.Approved() {
			return d.Grab(ctx, dec, c)
		}
	}
	return nil, ErrNoResults
}

// selectIndexers filters by search kind and author tags. An indexer with
// tags only serves authors sharing one.
func (d *Dispatcher) selectIndexers(c Criteria) []Indexer {
	var eligible []Indexer
	for _, ix := range d.indexers {
		if c.Interactive && !ix.Interactive() {
			continue
		}
		if !c.Interactive && !ix.Automatic() {
			continue
		}
		if len(ix.Tags()) > 0 && (c.Author == nil || !hasIntersection(ix.Tags(), c.Author.Tags)) {
			continue
		}
		eligible = append(eligible, ix)
	}
	return eligible
}

// fanOut queries indexers in parallel, at most maxConcurrency at a time.
func (d *Dispatcher) fanOut(ctx context.Context, indexers []Indexer, c Criteria) []*ReleaseInfo {
	type result struct {
		releases []*ReleaseInfo
		indexer  string
		err      error
	}

	sem := semaphore.NewWeighted(d.maxConcurrency)
	results := make(chan result, len(indexers))
	var wg sync.WaitGroup

	for _, ix := range indexers {
		wg.Add(1)
		go func(ix Indexer) {
			defer wg.Done()
			if err := sem.Acquire(ctx, 1); err != nil {
				results <- result{indexer: ix.Name(), err: err}
				return
			}
			defer sem.Release(1)

			indexerStart := time.Now()
			releases, err := ix.Search(ctx, c)
			if err != nil {
				d.log.Warn("indexer failed", "indexer", ix.Name(), "error", err, "duration_ms", time.Since(indexerStart).Milliseconds())
			} else {
				d.log.Debug("indexer returned", "indexer", ix.Name(), "results", len(releases), "duration_ms", time.Since(indexerStart).Milliseconds())
			}
			results <- result{releases: releases, indexer: ix.Name(), err: err}
		}(ix)
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	var all []*ReleaseInfo
	for r := range results {
		if r.err != nil {
			continue
		}
		all = append(all, r.releases...)
	}
	return all
}

// specsFor binds the rule set to one search's author and profile.
func (d *Dispatcher) specsFor(c Criteria) []decision.Specification[*ReleaseInfo] {
	var profile library.Profile
	if c.Author != nil {
		profile = d.profiles[c.Author.QualityProfile]
	}

	d.mu.Lock()
	grabbed := make(map[string]bool, len(d.grabbed))
	for guid := range d.grabbed {
		grabbed[guid] = true
	}
	d.mu.Unlock()

	return []decision.Specification[*ReleaseInfo]{
		NewTitleMatchSpecification(c),
		NewQualityAllowedSpecification(profile),
		NewMaxSizeSpecification(d.maxBytes),
		NewAlreadyGrabbedSpecification(grabbed),
	}
}

// dedupByGUID keeps one decision per GUID: the one with the fewest
// rejections, then the one from the higher-priority indexer.
func dedupByGUID(decisions []*decision.Decision[*ReleaseInfo]) []*decision.Decision[*ReleaseInfo] {
	best := map[string]*decision.Decision[*ReleaseInfo]{}
	var order []string

	for _, dec := range decisions {
		guid := dec.Item.GUID
		cur, ok := best[guid]
		if !ok {
			best[guid] = dec
			order = append(order, guid)
			continue
		}
		if betterCandidate(dec, cur) {
			best[guid] = dec
		}
	}

	out := make([]*decision.Decision[*ReleaseInfo], 0, len(order))
	for _, guid := range order {
		out = append(out, best[guid])
	}
	return out
}

func betterCandidate(a, b *decision.Decision[*ReleaseInfo]) bool {
	if len(a.Rejections()) != len(b.Rejections()) {
		return len(a.Rejections()) < len(b.Rejections())
	}
	return a.Item.IndexerPriority < b.Item.IndexerPriority
}

// sortDecisions orders approved before rejected, then better quality, then
// larger size.
func (d *Dispatcher) sortDecisions(decisions []*decision.Decision[*ReleaseInfo], c Criteria) {
	var profile library.Profile
	if c.Author != nil {
		profile = d.profiles[c.Author.QualityProfile]
	}

	sort.SliceStable(decisions, func(i, j int) bool {
		a, b := decisions[i], decisions[j]
		if a.Approved() != b.Approved() {
			return a.Approved()
		}
		ra := profile.Rank(a.Item.Parsed.Quality.String())
		rb := profile.Rank(b.Item.Parsed.Quality.String())
		if ra != rb {
			return ra > rb
		}
		return a.Item.Size > b.Item.Size
	})
}

func hasIntersection(a, b []string) bool {
	for _, x := range a {
		for _, y := range b {
			if x == y {
				return true
			}
		}
	}
	return false
}
