package scopus

import (
	"encoding/json"
	"strconv"

	"github.com/kmitl-it/advisorkg/internal/professor"
)

// AuthorData is the aggregate bibliographic result for one author.
type AuthorData struct {
	ScopusID      string            `json:"scopus_id"`
	Name          string            `json:"name"`
	DocumentCount int               `json:"document_count"`
	CitationCount int               `json:"citation_count"`
	Topics        []string          `json:"topics"`
	Papers        []professor.Paper `json:"papers"`
}

// searchResults is the envelope of the Scopus Search API response.
type searchResults struct {
	SearchResults struct {
		Entry []searchEntry `json:"entry"`
	} `json:"search-results"`
}

// searchEntry is one Scopus search result. Numeric fields arrive as
// strings; Error is set on placeholder entries that carry no data.
type searchEntry struct {
	Error        string      `json:"error,omitempty"`
	Title        string      `json:"dc:title"`
	Creator      string      `json:"dc:creator"`
	CoverDate    string      `json:"prism:coverDate"`
	DOI          string      `json:"prism:doi"`
	CitedByCount stringCount `json:"citedby-count"`
}

// stringCount decodes a count that Scopus serializes as either a JSON
// string or a number. Unparseable values decode to zero.
type stringCount int

func (c *stringCount) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		n, convErr := strconv.Atoi(s)
		if convErr != nil {
			*c = 0
			return nil
		}
		*c = stringCount(n)
		return nil
	}

	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		*c = 0
		return nil
	}
	*c = stringCount(n)
	return nil
}

// paper converts one entry into a domain paper. Year is the first four
// characters of the cover date, empty when the date is absent.
func (e searchEntry) paper() professor.Paper {
	title := e.Title
	if title == "" {
		title = "Untitled"
	}
	year := ""
	if len(e.CoverDate) >= 4 {
		year = e.CoverDate[:4]
	}
	return professor.Paper{
		Title:     title,
		Year:      year,
		DOI:       e.DOI,
		Citations: int(e.CitedByCount),
	}
}
