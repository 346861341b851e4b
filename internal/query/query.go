// Package query provides read-only operations over the loaded
// professor mapping: search, ranking, and topic cross-referencing.
// Nothing here mutates the cache; absent fields default rather than
// fail.
package query

import (
	"sort"
	"strings"

	"github.com/kmitl-it/advisorkg/internal/professor"
)

// Summary is the flattened row the presentation layer lists and sorts.
type Summary struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	ThaiName      string   `json:"thai_name,omitempty"`
	Topics        []string `json:"topics,omitempty"`
	PaperCount    int      `json:"paper_count"`
	CitationCount int      `json:"citation_count"`
}

// Sort keys accepted by Rank.
const (
	SortByName      = "name"
	SortByCitations = "citations"
	SortByPapers    = "papers"
)

// Summarize flattens one record into a listing row.
func Summarize(id string, r *professor.Record) Summary {
	return Summary{
		ID:            id,
		Name:          r.DisplayName(),
		ThaiName:      r.ThaiName,
		Topics:        r.Topics,
		PaperCount:    r.PaperCount(),
		CitationCount: r.CitationCount,
	}
}

// Summaries flattens the whole mapping, ordered by name for stable
// output.
func Summaries(professors map[string]*professor.Record) []Summary {
	rows := make([]Summary, 0, len(professors))
	for id, r := range professors {
		rows = append(rows, Summarize(id, r))
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Name < rows[j].Name })
	return rows
}

// Search returns professors whose name or any topic label contains the
// query, case-insensitively. An empty query matches everything.
func Search(professors map[string]*professor.Record, q string) []Summary {
	q = strings.ToLower(strings.TrimSpace(q))

	var rows []Summary
	for id, r := range professors {
		if q == "" || matches(r, q) {
			rows = append(rows, Summarize(id, r))
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Name < rows[j].Name })
	return rows
}

func matches(r *professor.Record, q string) bool {
	if strings.Contains(strings.ToLower(r.DisplayName()), q) {
		return true
	}
	for _, topic := range r.Topics {
		if strings.Contains(strings.ToLower(topic), q) {
			return true
		}
	}
	return false
}

// Rank sorts summaries by the given key: name ascending, citations or
// paper count descending. Unknown keys fall back to name. Ties break
// by name so the ordering is total.
func Rank(rows []Summary, by string) []Summary {
	ranked := make([]Summary, len(rows))
	copy(ranked, rows)

	less := func(i, j int) bool { return ranked[i].Name < ranked[j].Name }
	switch by {
	case SortByCitations:
		less = func(i, j int) bool {
			if ranked[i].CitationCount != ranked[j].CitationCount {
				return ranked[i].CitationCount > ranked[j].CitationCount
			}
			return ranked[i].Name < ranked[j].Name
		}
	case SortByPapers:
		less = func(i, j int) bool {
			if ranked[i].PaperCount != ranked[j].PaperCount {
				return ranked[i].PaperCount > ranked[j].PaperCount
			}
			return ranked[i].Name < ranked[j].Name
		}
	}

	sort.Slice(ranked, less)
	return ranked
}

// TopicIndex is the topic→professor reverse index, built on demand by
// scanning every professor's topic set.
type TopicIndex map[string][]Summary

// BuildTopicIndex scans the mapping and groups professors under each
// topic label they carry. Professors within one topic are ordered by
// citation count descending.
func BuildTopicIndex(professors map[string]*professor.Record) TopicIndex {
	idx := make(TopicIndex)
	for id, r := range professors {
		for _, topic := range r.Topics {
			idx[topic] = append(idx[topic], Summarize(id, r))
		}
	}
	for topic := range idx {
		rows := idx[topic]
		sort.Slice(rows, func(i, j int) bool {
			if rows[i].CitationCount != rows[j].CitationCount {
				return rows[i].CitationCount > rows[j].CitationCount
			}
			return rows[i].Name < rows[j].Name
		})
	}
	return idx
}

// Topics returns the index's labels ordered by professor count
// descending, then name.
func (idx TopicIndex) Topics() []string {
	labels := make([]string, 0, len(idx))
	for label := range idx {
		labels = append(labels, label)
	}
	sort.Slice(labels, func(i, j int) bool {
		if len(idx[labels[i]]) != len(idx[labels[j]]) {
			return len(idx[labels[i]]) > len(idx[labels[j]])
		}
		return labels[i] < labels[j]
	})
	return labels
}

// FilterByTopic splits a professor's papers into those belonging to
// the topic and the rest. Topic-grouped records use exact bucket
// membership; flat records fall back to a case-insensitive substring
// match against titles.
func FilterByTopic(r *professor.Record, topic string) (inTopic, others []professor.Paper) {
	if group, ok := r.PapersInTopic(topic); ok {
		inTopic = group
		for _, label := range r.GroupLabels() {
			if label != topic {
				others = append(others, r.TopicGroups[label]...)
			}
		}
		return inTopic, others
	}

	needle := strings.ToLower(topic)
	for _, p := range r.AllPapers() {
		if strings.Contains(strings.ToLower(p.Title), needle) {
			inTopic = append(inTopic, p)
		} else {
			others = append(others, p)
		}
	}
	return inTopic, others
}
