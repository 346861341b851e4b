package professor

import "sort"

// AllPapers returns the full ordered paper list for a record regardless
// of its source shape. The flat Papers list wins when both shapes are
// present. For topic-grouped records, groups are walked in the order of
// the record's Topics list, then any remaining group labels in sorted
// order, so the result is stable across runs. A record with neither
// shape yields an empty list.
func (r *Record) AllPapers() []Paper {
	if len(r.Papers) > 0 {
		return r.Papers
	}
	if len(r.TopicGroups) == 0 {
		return nil
	}

	var papers []Paper
	for _, label := range r.GroupLabels() {
		papers = append(papers, r.TopicGroups[label]...)
	}
	return papers
}

// PaperCount returns the number of papers in the record under either
// shape: len(papers) for flat records, the sum of bucket sizes for
// topic-grouped records, zero when neither is present.
func (r *Record) PaperCount() int {
	if len(r.Papers) > 0 {
		return len(r.Papers)
	}
	total := 0
	for _, group := range r.TopicGroups {
		total += len(group)
	}
	return total
}

// GroupLabels returns the record's topic-group labels in deterministic
// order: labels appearing in the Topics list first (in list order),
// then the rest sorted lexicographically.
func (r *Record) GroupLabels() []string {
	if len(r.TopicGroups) == 0 {
		return nil
	}

	seen := make(map[string]bool, len(r.TopicGroups))
	labels := make([]string, 0, len(r.TopicGroups))

	for _, topic := range r.Topics {
		if _, ok := r.TopicGroups[topic]; ok && !seen[topic] {
			seen[topic] = true
			labels = append(labels, topic)
		}
	}

	var rest []string
	for label := range r.TopicGroups {
		if !seen[label] {
			rest = append(rest, label)
		}
	}
	sort.Strings(rest)

	return append(labels, rest...)
}

// PapersInTopic returns the papers belonging to the given topic label.
// Grouped records use exact bucket membership; flat records fall back
// to a case-insensitive substring match against paper titles (see
// query.FilterByTopic, which also returns the complement).
func (r *Record) PapersInTopic(topic string) ([]Paper, bool) {
	group, ok := r.TopicGroups[topic]
	return group, ok
}
