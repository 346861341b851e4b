// Package topics extracts research-area labels from paper titles.
// Labels are free text, not a controlled vocabulary.
package topics

import (
	"sort"
	"strings"

	"github.com/kmitl-it/advisorkg/internal/professor"
)

// Extractor derives topic labels from a professor's paper collection.
// It is a deliberately replaceable strategy: the default implementation
// is a static keyword matcher, and callers should not assume anything
// smarter.
type Extractor interface {
	Extract(papers []professor.Paper) []string
}

// Thresholds for the keyword matcher.
const (
	// MinOccurrences is the repeat count at which a keyword always
	// qualifies as a topic.
	MinOccurrences = 2

	// FillLimit is how many single-occurrence keywords may pad out
	// the topic list, most frequent first.
	FillLimit = 10

	// MaxTopics caps the topic list per professor.
	MaxTopics = 15
)

// DefaultTopic is assigned when no keyword matches any title.
const DefaultTopic = "Computer Science"

// researchKeywords is the fixed vocabulary the matcher scans titles for.
var researchKeywords = []string{
	"Machine Learning", "Deep Learning", "Neural Network", "Artificial Intelligence",
	"Computer Vision", "Natural Language Processing", "Data Mining", "Big Data",
	"Cloud Computing", "IoT", "Internet of Things", "Security", "Cryptography",
	"Algorithm", "Optimization", "Database", "Web", "Mobile", "Software Engineering",
	"Network", "Distributed System", "Blockchain", "Robotics", "Image Processing",
	"Classification", "Clustering", "Prediction", "Recommendation", "Pattern Recognition",
	"Genetic Algorithm", "Fuzzy", "Swarm Intelligence", "Expert System",
	"Knowledge Management", "Information Retrieval", "Semantic",
}

// KeywordExtractor matches a fixed keyword list against paper titles,
// case-insensitively, and ranks keywords by how many titles they
// appear in.
type KeywordExtractor struct {
	keywords []string
}

// NewKeywordExtractor returns an extractor over the default research
// keyword vocabulary.
func NewKeywordExtractor() *KeywordExtractor {
	return &KeywordExtractor{keywords: researchKeywords}
}

// NewKeywordExtractorWithVocabulary returns an extractor over a custom
// vocabulary. Useful for departments outside computing.
func NewKeywordExtractorWithVocabulary(keywords []string) *KeywordExtractor {
	return &KeywordExtractor{keywords: keywords}
}

// Extract returns the topic labels for a paper collection. Keywords
// found in at least MinOccurrences titles always qualify; less frequent
// ones fill the list up to FillLimit. The result is capped at MaxTopics
// and falls back to DefaultTopic when nothing matches.
func (e *KeywordExtractor) Extract(papers []professor.Paper) []string {
	counts := make(map[string]int)
	for _, p := range papers {
		title := strings.ToLower(p.Title)
		for _, kw := range e.keywords {
			if strings.Contains(title, strings.ToLower(kw)) {
				counts[kw]++
			}
		}
	}

	ranked := make([]string, 0, len(counts))
	for kw := range counts {
		ranked = append(ranked, kw)
	}
	// Most frequent first; ties broken by vocabulary order so the
	// output is stable across runs.
	order := make(map[string]int, len(e.keywords))
	for i, kw := range e.keywords {
		order[kw] = i
	}
	sort.Slice(ranked, func(i, j int) bool {
		if counts[ranked[i]] != counts[ranked[j]] {
			return counts[ranked[i]] > counts[ranked[j]]
		}
		return order[ranked[i]] < order[ranked[j]]
	})

	var result []string
	for _, kw := range ranked {
		if counts[kw] >= MinOccurrences || len(result) < FillLimit {
			result = append(result, kw)
		}
		if len(result) >= MaxTopics {
			break
		}
	}

	if len(result) == 0 {
		return []string{DefaultTopic}
	}
	return result
}
