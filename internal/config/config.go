// Package config handles data-directory layout and tool settings.
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Cache file and directory names under the data directory.
const (
	DefaultDataDir = "data"
	BasicFile      = "professors_basic.json"
	ScopusFile     = "professors_scopus_data.json"
	TopicsFile     = "professors_by_topics.json"
	GraphsDir      = "graphs"
	IndexFile      = "search.db"
)

// Directory source defaults.
const (
	StaffBaseURL        = "https://www.it.kmitl.ac.th"
	StaffListPath       = "/th/staffs/academic"
	StaffProfilePattern = `/th/staffs/s/`
)

// Pipeline pacing. The delays are courtesy pauses toward the upstream
// services, not backpressure; they do not adapt to failures.
const (
	DefaultScrapeDelay = 1 * time.Second
	DefaultFetchDelay  = 2 * time.Second
)

// DefaultMaxPapers caps how many papers are kept per professor.
const DefaultMaxPapers = 20

// DataDir returns the data directory, honoring CACHE_DIRECTORY.
func DataDir() string {
	if dir := os.Getenv("CACHE_DIRECTORY"); dir != "" {
		return dir
	}
	return DefaultDataDir
}

// BasicPath returns the path to the scraped directory cache.
func BasicPath(dataDir string) string {
	return filepath.Join(dataDir, BasicFile)
}

// ScopusPath returns the path to the flat aggregate cache.
func ScopusPath(dataDir string) string {
	return filepath.Join(dataDir, ScopusFile)
}

// TopicsPath returns the path to the topic-grouped aggregate cache.
func TopicsPath(dataDir string) string {
	return filepath.Join(dataDir, TopicsFile)
}

// GraphsPath returns the path to the per-professor artifact directory.
func GraphsPath(dataDir string) string {
	return filepath.Join(dataDir, GraphsDir)
}

// GraphHTMLPath returns the path of one professor's HTML artifact.
func GraphHTMLPath(dataDir, professorID string) string {
	return filepath.Join(dataDir, GraphsDir, professorID+".html")
}

// GraphJSONPath returns the path of one professor's graph document.
func GraphJSONPath(dataDir, professorID string) string {
	return filepath.Join(dataDir, GraphsDir, professorID+".json")
}

// IndexPath returns the path of the ephemeral SQLite search index.
func IndexPath(dataDir string) string {
	return filepath.Join(dataDir, IndexFile)
}

// EnsureDataDir creates the data directory and graphs subdirectory.
func EnsureDataDir(dataDir string) error {
	return os.MkdirAll(GraphsPath(dataDir), 0755)
}

// MaxPapers returns the per-professor paper cap, honoring
// MAX_PAPERS_PER_PROFESSOR.
func MaxPapers() int {
	if v := os.Getenv("MAX_PAPERS_PER_PROFESSOR"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return DefaultMaxPapers
}
