// Package graph assembles per-professor knowledge graphs. Each graph
// is an independent star: one professor node at the center, topic and
// paper nodes connected only to it.
package graph

import (
	"fmt"

	"github.com/kmitl-it/advisorkg/internal/professor"
)

// Node types.
const (
	NodeProfessor = "professor"
	NodeTopic     = "topic"
	NodePaper     = "paper"
)

// Edge types.
const (
	EdgeExpertise = "expertise"
	EdgeAuthored  = "authored"
)

// FallbackProfessorID is used when a record has no external identifier.
const FallbackProfessorID = "prof_1"

// Node is one graph node. The styling payload (size, color, shape,
// tooltip) is attached later by the viz package; assembly only records
// identity and source attributes.
type Node struct {
	ID    string `json:"id"`
	Type  string `json:"type"`
	Label string `json:"label"`

	// Professor-specific
	ImageURL string `json:"image_url,omitempty"`

	// Paper-specific
	Title     string `json:"title,omitempty"`
	Year      string `json:"year,omitempty"`
	DOI       string `json:"doi,omitempty"`
	Citations int    `json:"citations,omitempty"`
}

// Edge connects the professor node to a topic or paper node. Edges are
// rendered undirected but are semantically directed from the professor
// outward.
type Edge struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Type   string `json:"type"`
}

// Graph holds the assembled node and edge set for one professor.
type Graph struct {
	ProfessorID string `json:"professor_id"`
	Nodes       []Node `json:"nodes"`
	Edges       []Edge `json:"edges"`
}

// IsEmpty returns true if the graph has no nodes.
func (g *Graph) IsEmpty() bool {
	return len(g.Nodes) == 0
}

// Assemble builds the star graph for one professor record. Node and
// edge creation follows the insertion order of the record's topic and
// paper sequences, which keeps the synthetic topic_/paper_ identifiers
// stable across runs for identical input. Topic nodes are private to
// the professor: two professors sharing a label each get their own
// copy, which downstream rendering relies on.
func Assemble(r *professor.Record) *Graph {
	profID := r.ScopusID
	if profID == "" {
		profID = FallbackProfessorID
	}

	g := &Graph{ProfessorID: profID}

	g.Nodes = append(g.Nodes, Node{
		ID:       profID,
		Type:     NodeProfessor,
		Label:    r.DisplayName(),
		ImageURL: r.ImageURL,
	})

	for i, topic := range r.Topics {
		topicID := fmt.Sprintf("topic_%s_%d", profID, i)
		g.Nodes = append(g.Nodes, Node{
			ID:    topicID,
			Type:  NodeTopic,
			Label: topic,
		})
		g.Edges = append(g.Edges, Edge{
			Source: profID,
			Target: topicID,
			Type:   EdgeExpertise,
		})
	}

	for i, paper := range r.AllPapers() {
		paperID := fmt.Sprintf("paper_%s_%d", profID, i)
		title := paper.Title
		if title == "" {
			title = "Untitled"
		}
		g.Nodes = append(g.Nodes, Node{
			ID:        paperID,
			Type:      NodePaper,
			Label:     title,
			Title:     title,
			Year:      paper.Year,
			DOI:       paper.DOI,
			Citations: paper.Citations,
		})
		g.Edges = append(g.Edges, Edge{
			Source: profID,
			Target: paperID,
			Type:   EdgeAuthored,
		})
	}

	return g
}
