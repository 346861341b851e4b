// Package cache persists assembled graph artifacts and aggregate
// professor data. The cache is written wholesale by a batch run and
// read-only at serve time.
package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/kmitl-it/advisorkg/internal/config"
	"github.com/kmitl-it/advisorkg/internal/professor"
	"github.com/kmitl-it/advisorkg/internal/viz"
)

// ErrNoCache indicates no aggregate cache file exists yet. This is a
// recoverable empty state, not a failure: callers present "no data"
// and suggest running a sync.
var ErrNoCache = errors.New("no cached data found")

// Metadata is the aggregate summary written alongside the professor
// mapping and consumed by the presentation layer.
type Metadata struct {
	FetchedAt      string `json:"fetched_at"`
	ProfessorCount int    `json:"professor_count"`
	TotalPapers    int    `json:"total_papers"`
	TotalCitations int    `json:"total_citations"`
}

// Snapshot is one full aggregate cache file: run metadata plus the
// professor mapping keyed by external identifier.
type Snapshot struct {
	Metadata   Metadata                     `json:"metadata"`
	Professors map[string]*professor.Record `json:"professors"`
}

// BasicSnapshot is the scraped directory cache, the input to a sync run.
type BasicSnapshot struct {
	FetchedAt  string                  `json:"fetched_at"`
	Source     string                  `json:"source"`
	Count      int                     `json:"count"`
	Professors []professor.BasicRecord `json:"professors"`
}

// Store reads and writes the cache under one data directory. It is
// single-writer, many-reader: the pipeline owns writes, everything
// else only loads.
type Store struct {
	dataDir string
}

// NewStore creates a store rooted at the given data directory.
func NewStore(dataDir string) *Store {
	return &Store{dataDir: dataDir}
}

// DataDir returns the store's root directory.
func (s *Store) DataDir() string {
	return s.dataDir
}

// BuildSnapshot assembles a snapshot with metadata derived from the
// professor mapping. The denormalized totals are computed from the
// paper collections so they cannot drift from them.
func BuildSnapshot(professors map[string]*professor.Record, fetchedAt time.Time) *Snapshot {
	snap := &Snapshot{
		Metadata: Metadata{
			FetchedAt:      fetchedAt.Format(time.RFC3339),
			ProfessorCount: len(professors),
		},
		Professors: professors,
	}
	for _, p := range professors {
		snap.Metadata.TotalPapers += p.PaperCount()
		snap.Metadata.TotalCitations += p.SumCitations()
	}
	return snap
}

// Load reads the aggregate cache, preferring the topic-grouped file
// and falling back to the flat file. Returns ErrNoCache when neither
// exists.
func (s *Store) Load() (*Snapshot, error) {
	for _, path := range []string{
		config.TopicsPath(s.dataDir),
		config.ScopusPath(s.dataDir),
	} {
		snap, err := readSnapshot(path)
		if err == nil {
			return snap, nil
		}
		if !os.IsNotExist(err) {
			return nil, err
		}
	}
	return nil, ErrNoCache
}

// SaveFlat writes the flat aggregate file, fully replacing any
// previous run's output.
func (s *Store) SaveFlat(snap *Snapshot) error {
	if err := config.EnsureDataDir(s.dataDir); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}
	return writeJSONAtomic(config.ScopusPath(s.dataDir), snap)
}

// SaveGrouped installs the topic-grouped aggregate file. Unlike the
// flat file, the pipeline never writes this one: it holds curated
// records whose topic_groups buckets cannot be reproduced from the
// API, so a sync run must not touch it.
func (s *Store) SaveGrouped(snap *Snapshot) error {
	if err := config.EnsureDataDir(s.dataDir); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}
	return writeJSONAtomic(config.TopicsPath(s.dataDir), snap)
}

// LoadBasic reads the scraped directory cache. Returns ErrNoCache when
// it has not been fetched yet.
func (s *Store) LoadBasic() (*BasicSnapshot, error) {
	data, err := os.ReadFile(config.BasicPath(s.dataDir))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoCache
		}
		return nil, fmt.Errorf("reading basic cache: %w", err)
	}

	var snap BasicSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("parsing basic cache: %w", err)
	}
	return &snap, nil
}

// SaveBasic writes the scraped directory cache.
func (s *Store) SaveBasic(snap *BasicSnapshot) error {
	if err := config.EnsureDataDir(s.dataDir); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}
	return writeJSONAtomic(config.BasicPath(s.dataDir), snap)
}

// WriteArtifact persists one professor's renderable artifact: the graph
// document as JSON and the generated HTML page. Each run fully
// overwrites both files.
func (s *Store) WriteArtifact(doc *viz.Document) error {
	if err := config.EnsureDataDir(s.dataDir); err != nil {
		return fmt.Errorf("creating graphs directory: %w", err)
	}

	if err := writeJSONAtomic(config.GraphJSONPath(s.dataDir, doc.ProfessorID), doc); err != nil {
		return fmt.Errorf("writing graph document: %w", err)
	}

	page, err := viz.GenerateHTML(doc)
	if err != nil {
		return fmt.Errorf("rendering graph page: %w", err)
	}
	if err := writeFileAtomic(config.GraphHTMLPath(s.dataDir, doc.ProfessorID), []byte(page)); err != nil {
		return fmt.Errorf("writing graph page: %w", err)
	}

	return nil
}

// ReadArtifactHTML reads one professor's rendered graph page. Returns
// ErrNoCache when the artifact does not exist.
func (s *Store) ReadArtifactHTML(professorID string) ([]byte, error) {
	data, err := os.ReadFile(config.GraphHTMLPath(s.dataDir, professorID))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoCache
		}
		return nil, fmt.Errorf("reading graph page: %w", err)
	}
	return data, nil
}

// ReadArtifact reads one professor's graph document. Returns ErrNoCache
// when the artifact does not exist.
func (s *Store) ReadArtifact(professorID string) (*viz.Document, error) {
	data, err := os.ReadFile(config.GraphJSONPath(s.dataDir, professorID))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoCache
		}
		return nil, fmt.Errorf("reading graph document: %w", err)
	}

	var doc viz.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing graph document: %w", err)
	}
	return &doc, nil
}

func readSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", filepath.Base(path), err)
	}
	if snap.Professors == nil {
		snap.Professors = map[string]*professor.Record{}
	}
	return &snap, nil
}

func writeJSONAtomic(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding %s: %w", filepath.Base(path), err)
	}
	return writeFileAtomic(path, data)
}

// writeFileAtomic writes via temp file + rename so readers never see a
// partially written file.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmpFile, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	success := false
	defer func() {
		if !success {
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmpFile.Write(data); err != nil {
		tmpFile.Close()
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		tmpFile.Close()
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("renaming temp file: %w", err)
	}

	success = true
	return nil
}
