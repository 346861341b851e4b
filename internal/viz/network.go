package viz

import (
	"encoding/json"
	"fmt"

	"github.com/kmitl-it/advisorkg/internal/graph"
)

// Document is the renderable graph artifact for one professor: the
// assembled nodes and edges with all styling resolved, in vis-network
// data format. A Document is self-contained and valid when served
// statically; the viewer does no computation beyond layout.
type Document struct {
	ProfessorID string        `json:"professor_id"`
	Nodes       []NetworkNode `json:"nodes"`
	Edges       []NetworkEdge `json:"edges"`
}

// NetworkNode is a styled node in vis-network format.
type NetworkNode struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Title string `json:"title"` // tooltip HTML
	Shape string `json:"shape"`
	Size  int    `json:"size"`
	Color Color  `json:"color"`
	Image string `json:"image,omitempty"`
	URL   string `json:"url,omitempty"`
}

// NetworkEdge is a styled edge in vis-network format.
type NetworkEdge struct {
	From  string    `json:"from"`
	To    string    `json:"to"`
	Title string    `json:"title"` // relationship label shown on hover
	Width int       `json:"width"`
	Color EdgeColor `json:"color"`
}

// EdgeColor is the vis-network edge color spec.
type EdgeColor struct {
	Color   string  `json:"color"`
	Opacity float64 `json:"opacity"`
}

// BuildDocument resolves styling for every node and edge of an
// assembled graph. It is total: any node or edge the assembler can
// produce gets a style, so there are no failure conditions.
func BuildDocument(g *graph.Graph) *Document {
	doc := &Document{
		ProfessorID: g.ProfessorID,
		Nodes:       make([]NetworkNode, 0, len(g.Nodes)),
		Edges:       make([]NetworkEdge, 0, len(g.Edges)),
	}

	for _, n := range g.Nodes {
		node := NetworkNode{
			ID:    n.ID,
			Label: n.Label,
			Title: nodeTooltip(n),
			Shape: nodeShape(n),
			Size:  nodeSize(n),
			Color: nodeColor(n.Type),
		}
		if n.Type == graph.NodeProfessor {
			node.Image = n.ImageURL
		}
		if n.Type == graph.NodePaper {
			node.Label = TruncateTitle(n.Label)
			node.URL = DOILink(n.DOI)
		}
		doc.Nodes = append(doc.Nodes, node)
	}

	for _, e := range g.Edges {
		style := edgeStyle(e.Type)
		doc.Edges = append(doc.Edges, NetworkEdge{
			From:  e.Source,
			To:    e.Target,
			Title: e.Type,
			Width: style.Width,
			Color: EdgeColor{Color: style.Color, Opacity: 0.5},
		})
	}

	return doc
}

// IsEmpty returns true if the document has no nodes.
func (d *Document) IsEmpty() bool {
	return len(d.Nodes) == 0
}

// MarshalParts returns the nodes and edges as separate JSON arrays for
// template embedding.
func (d *Document) MarshalParts() (nodesJSON, edgesJSON string, err error) {
	nb, err := json.Marshal(d.Nodes)
	if err != nil {
		return "", "", fmt.Errorf("marshaling nodes: %w", err)
	}
	eb, err := json.Marshal(d.Edges)
	if err != nil {
		return "", "", fmt.Errorf("marshaling edges: %w", err)
	}
	return string(nb), string(eb), nil
}
