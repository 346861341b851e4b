// Package pipeline orchestrates the data refresh: scraping the staff
// directory, fetching bibliographic data per professor, and writing
// the cache files and graph artifacts. Runs are sequential and polite
// to the upstream services; a failure on one professor never aborts
// the batch.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/kataras/golog"

	"github.com/kmitl-it/advisorkg/internal/cache"
	"github.com/kmitl-it/advisorkg/internal/config"
	"github.com/kmitl-it/advisorkg/internal/graph"
	"github.com/kmitl-it/advisorkg/internal/professor"
	"github.com/kmitl-it/advisorkg/internal/scopus"
	"github.com/kmitl-it/advisorkg/internal/viz"
)

// Directory scrapes the staff directory.
type Directory interface {
	ScrapeAll(ctx context.Context) ([]professor.BasicRecord, error)
}

// Bibliography fetches an author's publication data.
type Bibliography interface {
	GetAuthorData(ctx context.Context, authorID string, maxPapers int) (*scopus.AuthorData, error)
}

// Runner drives scrape and sync batches against a cache store.
type Runner struct {
	store      *cache.Store
	directory  Directory
	bib        Bibliography
	log        *golog.Logger
	fetchDelay time.Duration
	maxPapers  int
	now        func() time.Time
}

// Option configures a Runner.
type Option func(*Runner)

// WithFetchDelay sets the pause between bibliographic fetches.
func WithFetchDelay(d time.Duration) Option {
	return func(r *Runner) {
		r.fetchDelay = d
	}
}

// WithMaxPapers caps papers fetched per professor.
func WithMaxPapers(n int) Option {
	return func(r *Runner) {
		r.maxPapers = n
	}
}

// WithLogger sets the logger.
func WithLogger(l *golog.Logger) Option {
	return func(r *Runner) {
		r.log = l
	}
}

// WithClock overrides the time source (for testing).
func WithClock(now func() time.Time) Option {
	return func(r *Runner) {
		r.now = now
	}
}

// NewRunner creates a pipeline runner.
func NewRunner(store *cache.Store, directory Directory, bib Bibliography, opts ...Option) *Runner {
	r := &Runner{
		store:      store,
		directory:  directory,
		bib:        bib,
		log:        golog.Default,
		fetchDelay: config.DefaultFetchDelay,
		maxPapers:  config.MaxPapers(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Scrape walks the staff directory and writes the basic cache file.
func (r *Runner) Scrape(ctx context.Context) (*cache.BasicSnapshot, error) {
	staff, err := r.directory.ScrapeAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("scraping directory: %w", err)
	}

	snap := &cache.BasicSnapshot{
		FetchedAt:  r.now().Format(time.RFC3339),
		Source:     config.StaffBaseURL + config.StaffListPath,
		Count:      len(staff),
		Professors: staff,
	}
	if err := r.store.SaveBasic(snap); err != nil {
		return nil, fmt.Errorf("saving basic cache: %w", err)
	}

	withID := 0
	for _, p := range staff {
		if p.ScopusID != "" {
			withID++
		}
	}
	r.log.Infof("scraped %d staff members, %d with Scopus IDs", len(staff), withID)

	return snap, nil
}

// SyncResult summarizes one sync batch.
type SyncResult struct {
	Snapshot *cache.Snapshot
	Fetched  int
	Skipped  int
	Failed   int
}

// Sync fetches bibliographic data for every scraped professor with a
// Scopus ID, generates their graph artifacts, and rewrites the flat
// aggregate cache file. Professors without an ID are skipped;
// per-professor fetch failures are logged and counted, the batch
// continues. The flat file is a full overwrite of the previous run.
// The topic-grouped file is curated input, never a sync output, so an
// installed grouped dataset survives any number of syncs.
func (r *Runner) Sync(ctx context.Context) (*SyncResult, error) {
	basic, err := r.store.LoadBasic()
	if err != nil {
		return nil, fmt.Errorf("loading basic cache: %w", err)
	}

	result := &SyncResult{}
	professors := make(map[string]*professor.Record)
	fetchedAt := r.now()
	first := true

	for _, entry := range basic.Professors {
		if entry.ScopusID == "" {
			r.log.Debugf("no Scopus ID for %s, skipping", entry.Name)
			result.Skipped++
			continue
		}

		if !first {
			select {
			case <-time.After(r.fetchDelay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
		first = false

		data, err := r.bib.GetAuthorData(ctx, entry.ScopusID, r.maxPapers)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			r.log.Warnf("fetching %s (%s): %v", entry.Name, entry.ScopusID, err)
			result.Failed++
			continue
		}

		rec := data.MergeInto(entry, fetchedAt)
		professors[entry.ScopusID] = rec
		result.Fetched++
		r.log.Infof("fetched %s: %d papers, %d citations", rec.DisplayName(), rec.PaperCount(), rec.SumCitations())

		if err := r.writeArtifact(rec); err != nil {
			// Artifact failures don't lose the fetched data.
			r.log.Errorf("writing graph artifact for %s: %v", rec.DisplayName(), err)
		}
	}

	snap := cache.BuildSnapshot(professors, fetchedAt)
	if err := r.store.SaveFlat(snap); err != nil {
		return nil, fmt.Errorf("saving cache: %w", err)
	}

	result.Snapshot = snap
	r.log.Infof("sync done: %d fetched, %d skipped, %d failed", result.Fetched, result.Skipped, result.Failed)

	return result, nil
}

// Refresh runs a full scrape followed by a sync.
func (r *Runner) Refresh(ctx context.Context) (*SyncResult, error) {
	if _, err := r.Scrape(ctx); err != nil {
		return nil, err
	}
	return r.Sync(ctx)
}

// RebuildArtifacts regenerates every graph artifact from the cached
// snapshot without touching the network. Returns the number written.
func (r *Runner) RebuildArtifacts() (int, error) {
	snap, err := r.store.Load()
	if err != nil {
		return 0, fmt.Errorf("loading cache: %w", err)
	}

	written := 0
	for _, rec := range snap.Professors {
		if err := r.writeArtifact(rec); err != nil {
			r.log.Errorf("writing graph artifact for %s: %v", rec.DisplayName(), err)
			continue
		}
		written++
	}
	return written, nil
}

func (r *Runner) writeArtifact(rec *professor.Record) error {
	doc := viz.BuildDocument(graph.Assemble(rec))
	return r.store.WriteArtifact(doc)
}
