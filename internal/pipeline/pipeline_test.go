package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/kataras/golog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kmitl-it/advisorkg/internal/cache"
	"github.com/kmitl-it/advisorkg/internal/config"
	"github.com/kmitl-it/advisorkg/internal/professor"
	"github.com/kmitl-it/advisorkg/internal/scopus"
)

type fakeDirectory struct {
	staff []professor.BasicRecord
	err   error
}

func (f *fakeDirectory) ScrapeAll(_ context.Context) ([]professor.BasicRecord, error) {
	return f.staff, f.err
}

type fakeBibliography struct {
	data  map[string]*scopus.AuthorData
	errs  map[string]error
	calls []string
}

func (f *fakeBibliography) GetAuthorData(ctx context.Context, authorID string, _ int) (*scopus.AuthorData, error) {
	f.calls = append(f.calls, authorID)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err, ok := f.errs[authorID]; ok {
		return nil, err
	}
	d, ok := f.data[authorID]
	if !ok {
		return nil, scopus.ErrNotFound
	}
	return d, nil
}

func quietLogger() *golog.Logger {
	l := golog.New()
	l.SetLevel("disable")
	return l
}

func testStaff() []professor.BasicRecord {
	return []professor.BasicRecord{
		{Name: "Arit Thammano", ScopusID: "111", ProfileURL: "https://example.test/s/arit"},
		{Name: "No Scopus", ProfileURL: "https://example.test/s/noscopus"},
		{Name: "Broken Fetch", ScopusID: "222", ProfileURL: "https://example.test/s/broken"},
	}
}

func newTestRunner(t *testing.T, dir Directory, bib Bibliography) (*Runner, *cache.Store) {
	t.Helper()
	store := cache.NewStore(t.TempDir())
	r := NewRunner(store, dir, bib,
		WithLogger(quietLogger()),
		WithFetchDelay(0),
		WithMaxPapers(5),
		WithClock(func() time.Time {
			return time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
		}),
	)
	return r, store
}

func TestScrape(t *testing.T) {
	dir := &fakeDirectory{staff: testStaff()}
	r, store := newTestRunner(t, dir, &fakeBibliography{})

	snap, err := r.Scrape(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, snap.Count)
	assert.Equal(t, "2026-08-01T00:00:00Z", snap.FetchedAt)

	loaded, err := store.LoadBasic()
	require.NoError(t, err)
	require.Len(t, loaded.Professors, 3)
	assert.Equal(t, "Arit Thammano", loaded.Professors[0].Name)
}

func TestScrapeError(t *testing.T) {
	dir := &fakeDirectory{err: errors.New("site down")}
	r, store := newTestRunner(t, dir, &fakeBibliography{})

	_, err := r.Scrape(context.Background())
	assert.Error(t, err)

	_, err = store.LoadBasic()
	assert.ErrorIs(t, err, cache.ErrNoCache, "failed scrape must not write a cache file")
}

func TestSyncWithoutBasicCache(t *testing.T) {
	r, _ := newTestRunner(t, &fakeDirectory{}, &fakeBibliography{})

	_, err := r.Sync(context.Background())
	assert.ErrorIs(t, err, cache.ErrNoCache)
}

func TestSync(t *testing.T) {
	bib := &fakeBibliography{
		data: map[string]*scopus.AuthorData{
			"111": {
				ScopusID:      "111",
				Name:          "Thammano A.",
				DocumentCount: 2,
				CitationCount: 42,
				Topics:        []string{"Machine Learning"},
				Papers: []professor.Paper{
					{Title: "Genetic Algorithms for Scheduling", Year: "2023", Citations: 30},
					{Title: "Neural Network Optimization", Year: "2022", Citations: 12},
				},
			},
		},
		errs: map[string]error{"222": scopus.ErrRateLimited},
	}
	r, store := newTestRunner(t, &fakeDirectory{staff: testStaff()}, bib)

	_, err := r.Scrape(context.Background())
	require.NoError(t, err)

	result, err := r.Sync(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, result.Fetched)
	assert.Equal(t, 1, result.Skipped)
	assert.Equal(t, 1, result.Failed)
	assert.Equal(t, []string{"111", "222"}, bib.calls, "professors without IDs are never fetched")

	// Failed professors are absent from the snapshot entirely.
	require.Len(t, result.Snapshot.Professors, 1)
	rec := result.Snapshot.Professors["111"]
	require.NotNil(t, rec)
	assert.Equal(t, "Arit Thammano", rec.Name, "scraped name wins over the API name")
	assert.Equal(t, []string{"Machine Learning"}, rec.Topics)

	assert.Equal(t, 1, result.Snapshot.Metadata.ProfessorCount)
	assert.Equal(t, 2, result.Snapshot.Metadata.TotalPapers)
	assert.Equal(t, 42, result.Snapshot.Metadata.TotalCitations)

	// Aggregate cache files round-trip.
	loaded, err := store.Load()
	require.NoError(t, err)
	require.Contains(t, loaded.Professors, "111")

	// Graph artifacts were written for the fetched professor.
	doc, err := store.ReadArtifact("111")
	require.NoError(t, err)
	assert.Equal(t, "111", doc.ProfessorID)
	assert.Len(t, doc.Nodes, 4) // professor + 1 topic + 2 papers

	html, err := store.ReadArtifactHTML("111")
	require.NoError(t, err)
	assert.Contains(t, string(html), "vis-network")
}

func TestSyncPreservesGroupedCache(t *testing.T) {
	bib := &fakeBibliography{
		data: map[string]*scopus.AuthorData{
			"111": {
				ScopusID: "111",
				Topics:   []string{"NLP"},
				Papers:   []professor.Paper{{Title: "P1", Year: "2024", Citations: 1}},
			},
		},
	}
	staff := []professor.BasicRecord{
		{Name: "Arit Thammano", ScopusID: "111", ProfileURL: "https://example.test/s/arit"},
	}
	r, store := newTestRunner(t, &fakeDirectory{staff: staff}, bib)

	curated := cache.BuildSnapshot(map[string]*professor.Record{
		"111": {
			Name:     "Arit Thammano",
			ScopusID: "111",
			Topics:   []string{"NLP"},
			TopicGroups: map[string][]professor.Paper{
				"NLP": {{Title: "G1"}, {Title: "G2"}, {Title: "G3"}},
			},
		},
	}, time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, store.SaveGrouped(curated))

	_, err := r.Scrape(context.Background())
	require.NoError(t, err)
	_, err = r.Sync(context.Background())
	require.NoError(t, err)

	// The curated grouped file is input, not output: a sync must leave
	// it untouched, and loads keep preferring it.
	loaded, err := store.Load()
	require.NoError(t, err)
	rec := loaded.Professors["111"]
	require.NotNil(t, rec)
	require.Len(t, rec.TopicGroups["NLP"], 3)
	assert.Equal(t, "2026-07-01T00:00:00Z", loaded.Metadata.FetchedAt)

	// The flat file still carries the fresh fetch.
	data, err := os.ReadFile(config.ScopusPath(store.DataDir()))
	require.NoError(t, err)
	var flat cache.Snapshot
	require.NoError(t, json.Unmarshal(data, &flat))
	require.Contains(t, flat.Professors, "111")
	assert.Len(t, flat.Professors["111"].Papers, 1)
	assert.Empty(t, flat.Professors["111"].TopicGroups)
}

func TestSyncCancelled(t *testing.T) {
	r, _ := newTestRunner(t, &fakeDirectory{staff: testStaff()}, &fakeBibliography{})

	_, err := r.Scrape(context.Background())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = r.Sync(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRefresh(t *testing.T) {
	bib := &fakeBibliography{
		data: map[string]*scopus.AuthorData{
			"111": {ScopusID: "111", Topics: []string{"Computer Science"}},
		},
	}
	staff := []professor.BasicRecord{
		{Name: "Arit Thammano", ScopusID: "111", ProfileURL: "https://example.test/s/arit"},
	}
	r, store := newTestRunner(t, &fakeDirectory{staff: staff}, bib)

	result, err := r.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Fetched)

	basic, err := store.LoadBasic()
	require.NoError(t, err)
	assert.Equal(t, 1, basic.Count)
}

func TestRebuildArtifacts(t *testing.T) {
	r, store := newTestRunner(t, &fakeDirectory{}, &fakeBibliography{})

	professors := map[string]*professor.Record{
		"111": {
			Name:     "Arit Thammano",
			ScopusID: "111",
			Topics:   []string{"Machine Learning"},
			Papers:   []professor.Paper{{Title: "A Paper", Year: "2024", Citations: 3}},
		},
		"333": {
			Name:     "Somchai Prasert",
			ScopusID: "333",
			Topics:   []string{"Computer Science"},
		},
	}
	snap := cache.BuildSnapshot(professors, time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, store.SaveFlat(snap))

	n, err := r.RebuildArtifacts()
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	for _, id := range []string{"111", "333"} {
		doc, err := store.ReadArtifact(id)
		require.NoError(t, err)
		assert.Equal(t, id, doc.ProfessorID)
	}
}

func TestRebuildArtifactsWithoutCache(t *testing.T) {
	r, _ := newTestRunner(t, &fakeDirectory{}, &fakeBibliography{})

	_, err := r.RebuildArtifacts()
	assert.ErrorIs(t, err, cache.ErrNoCache)
}
