// Package index maintains the ephemeral SQLite search index. The JSON
// cache files are canonical; the database is derived and can be
// rebuilt from them at any time.
package index

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/kmitl-it/advisorkg/internal/cache"
	"github.com/kmitl-it/advisorkg/internal/professor"
	_ "modernc.org/sqlite"
)

// DB wraps a SQLite database connection.
type DB struct {
	db *sql.DB
}

const selectProfFields = `id, name, thai_name, scopus_id,
	document_count, citation_count, paper_count, topics_json`

// OpenDB opens or creates a SQLite search index at the given path.
func OpenDB(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite doesn't support concurrent writes

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &DB{db: db}, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.db.Close()
}

func createSchema(db *sql.DB) error {
	schema := `
		CREATE TABLE IF NOT EXISTS professors (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			thai_name TEXT,
			scopus_id TEXT,
			document_count INTEGER NOT NULL,
			citation_count INTEGER NOT NULL,
			paper_count INTEGER NOT NULL,
			topics_json TEXT NOT NULL
		);

		-- Full-text search virtual table (standalone, not external content)
		CREATE VIRTUAL TABLE IF NOT EXISTS professors_fts USING fts5(
			id,
			name,
			thai_name,
			topics_text,
			papers_text
		);
	`

	_, err := db.Exec(schema)
	return err
}

// Entry is one indexed professor row.
type Entry struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	ThaiName      string   `json:"thai_name,omitempty"`
	ScopusID      string   `json:"scopus_id,omitempty"`
	DocumentCount int      `json:"document_count"`
	CitationCount int      `json:"citation_count"`
	PaperCount    int      `json:"paper_count"`
	Topics        []string `json:"topics"`
}

// RebuildFromSnapshot clears the index and repopulates it from an
// aggregate cache snapshot. Returns the number of professors indexed.
func (d *DB) RebuildFromSnapshot(snap *cache.Snapshot) (int, error) {
	if _, err := d.db.Exec("DELETE FROM professors"); err != nil {
		return 0, fmt.Errorf("clearing professors table: %w", err)
	}
	if _, err := d.db.Exec("DELETE FROM professors_fts"); err != nil {
		return 0, fmt.Errorf("clearing professors_fts table: %w", err)
	}

	profStmt, err := d.db.Prepare(`
		INSERT INTO professors (
			id, name, thai_name, scopus_id,
			document_count, citation_count, paper_count, topics_json
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("preparing professors insert: %w", err)
	}
	defer profStmt.Close()

	ftsStmt, err := d.db.Prepare(`
		INSERT INTO professors_fts (id, name, thai_name, topics_text, papers_text)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("preparing fts insert: %w", err)
	}
	defer ftsStmt.Close()

	// Deterministic insertion order for stable rowids.
	ids := make([]string, 0, len(snap.Professors))
	for id := range snap.Professors {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		rec := snap.Professors[id]
		topicsJSON, err := json.Marshal(rec.Topics)
		if err != nil {
			return 0, fmt.Errorf("marshaling topics for %s: %w", id, err)
		}

		_, err = profStmt.Exec(
			id, rec.DisplayName(), rec.ThaiName, rec.ScopusID,
			rec.DocumentCount, rec.SumCitations(), rec.PaperCount(),
			string(topicsJSON),
		)
		if err != nil {
			return 0, fmt.Errorf("inserting professor %s: %w", id, err)
		}

		_, err = ftsStmt.Exec(
			id, rec.DisplayName(), rec.ThaiName,
			strings.Join(rec.Topics, ", "), formatPapersText(rec.AllPapers()),
		)
		if err != nil {
			return 0, fmt.Errorf("inserting fts for %s: %w", id, err)
		}
	}

	return len(ids), nil
}

// formatPapersText creates a searchable text representation of papers.
func formatPapersText(papers []professor.Paper) string {
	titles := make([]string, 0, len(papers))
	for _, p := range papers {
		titles = append(titles, p.Title)
	}
	return strings.Join(titles, ". ")
}

// GetByID retrieves an indexed professor by ID.
func (d *DB) GetByID(id string) (*Entry, error) {
	row := d.db.QueryRow(`SELECT `+selectProfFields+` FROM professors WHERE id = ?`, id)
	return scanEntry(row)
}

// Search performs a full-text search across names, topics, and paper
// titles, most-cited first.
func (d *DB) Search(query string, limit int) ([]Entry, error) {
	ftsQuery := prepareFTSQuery(query)

	rows, err := d.db.Query(`
		SELECT `+selectProfFields+`
		FROM professors
		WHERE id IN (SELECT id FROM professors_fts WHERE professors_fts MATCH ?)
		ORDER BY citation_count DESC, name
		LIMIT ?`, ftsQuery, limit)
	if err != nil {
		return nil, fmt.Errorf("searching: %w", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

// SearchField performs a search restricted to a specific field. The id
// field is an exact primary-key lookup; the rest are full-text matches.
func (d *DB) SearchField(field, value string, limit int) ([]Entry, error) {
	var ftsQuery string

	switch field {
	case "id":
		e, err := d.GetByID(value)
		if err != nil || e == nil {
			return nil, err
		}
		return []Entry{*e}, nil
	case "name":
		ftsQuery = "name:" + prepareFTSQuery(value)
	case "topic":
		ftsQuery = "topics_text:" + prepareFTSQuery(value)
	case "paper":
		ftsQuery = "papers_text:" + prepareFTSQuery(value)
	default:
		return nil, fmt.Errorf("unknown search field: %s", field)
	}

	rows, err := d.db.Query(`
		SELECT `+selectProfFields+`
		FROM professors
		WHERE id IN (SELECT id FROM professors_fts WHERE professors_fts MATCH ?)
		ORDER BY citation_count DESC, name
		LIMIT ?
	`, ftsQuery, limit)
	if err != nil {
		return nil, fmt.Errorf("searching %s: %w", field, err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

// ListAll returns all indexed professors ordered by name.
func (d *DB) ListAll(limit int) ([]Entry, error) {
	query := `SELECT ` + selectProfFields + ` FROM professors ORDER BY name`
	var args []interface{}

	if limit > 0 {
		query += " LIMIT ?"
		args = []interface{}{limit}
	}

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing professors: %w", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

// Count returns the number of indexed professors.
func (d *DB) Count() (int, error) {
	var count int
	err := d.db.QueryRow("SELECT COUNT(*) FROM professors").Scan(&count)
	return count, err
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanEntry(s scanner) (*Entry, error) {
	var e Entry
	var thaiName, scopusID sql.NullString
	var topicsJSON string

	err := s.Scan(
		&e.ID, &e.Name, &thaiName, &scopusID,
		&e.DocumentCount, &e.CitationCount, &e.PaperCount, &topicsJSON,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	e.ThaiName = thaiName.String
	e.ScopusID = scopusID.String

	if err := json.Unmarshal([]byte(topicsJSON), &e.Topics); err != nil {
		return nil, fmt.Errorf("parsing topics JSON for %s: %w", e.ID, err)
	}

	return &e, nil
}

func scanEntries(rows *sql.Rows) ([]Entry, error) {
	var entries []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		if e != nil {
			entries = append(entries, *e)
		}
	}
	return entries, rows.Err()
}

// prepareFTSQuery escapes special characters for FTS5 queries.
func prepareFTSQuery(query string) string {
	query = strings.TrimSpace(query)
	if query == "" {
		return query
	}

	// If query contains special chars, quote it
	if strings.ContainsAny(query, "\"*+-:(){}[]^~") {
		query = strings.ReplaceAll(query, "\"", "\"\"")
		return "\"" + query + "\""
	}

	return query
}
