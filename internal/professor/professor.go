// Package professor defines the core domain types for faculty records.
package professor

// Record represents one faculty member and their bibliographic summary.
// Records appear in two shapes across the cache corpus: a flat Papers
// list, or a TopicGroups mapping with papers nested under topic labels.
// Code should not branch on the shape directly; use AllPapers and
// PaperCount instead.
type Record struct {
	// Identity
	Name     string `json:"name"`
	ThaiName string `json:"thai_name,omitempty"`

	// External references
	ScopusID   string `json:"scopus_id,omitempty"`
	ScopusURL  string `json:"scopus_url,omitempty"`
	ProfileURL string `json:"profile_url,omitempty"`
	ImageURL   string `json:"image_url,omitempty"`

	// Bibliographic summary (populated from the Scopus fetch)
	Topics        []string           `json:"topics,omitempty"`
	Papers        []Paper            `json:"papers,omitempty"`
	TopicGroups   map[string][]Paper `json:"topic_groups,omitempty"`
	DocumentCount int                `json:"document_count"`
	CitationCount int                `json:"citation_count"`

	// FetchedAt is the ISO-8601 timestamp of the fetch that produced
	// this record.
	FetchedAt string `json:"fetched_at,omitempty"`
}

// Paper represents a single publication. Citation counts are immutable
// once fetched; papers are deduplicated only within one professor's
// collection, never globally.
type Paper struct {
	Title     string `json:"title"`
	Year      string `json:"year"`
	DOI       string `json:"doi,omitempty"`
	Citations int    `json:"citations"`
}

// BasicRecord is a directory entry before any bibliographic data has
// been attached: the output of scraping one staff profile.
type BasicRecord struct {
	Name       string `json:"name"`
	ThaiName   string `json:"thai_name,omitempty"`
	ProfileURL string `json:"profile_url"`
	ImageURL   string `json:"image_url,omitempty"`
	ScopusID   string `json:"scopus_id,omitempty"`
	ScopusURL  string `json:"scopus_url,omitempty"`
}

// DisplayName returns the record's name, or "Unknown" when absent.
func (r *Record) DisplayName() string {
	if r.Name == "" {
		return "Unknown"
	}
	return r.Name
}

// SumCitations returns the citation total derived from the paper
// collection. The denormalized CitationCount field must agree with
// this for records produced by the pipeline.
func (r *Record) SumCitations() int {
	total := 0
	for _, p := range r.AllPapers() {
		total += p.Citations
	}
	return total
}
