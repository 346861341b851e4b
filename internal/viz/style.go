// Package viz decorates assembled graphs with rendering metadata and
// produces self-contained HTML artifacts.
package viz

import (
	"fmt"
	"html"

	"github.com/kmitl-it/advisorkg/internal/graph"
)

// Node sizes.
const (
	SizeProfessor = 60
	SizeTopic     = 45
	PaperBaseSize = 35
	PaperMaxSize  = 50
)

// DisplayTitleMaxLen is the character budget for paper labels. The full
// title stays available in the tooltip.
const DisplayTitleMaxLen = 30

// Node palette.
var (
	professorColor = Color{
		Background: "#f59e0b",
		Border:     "#d97706",
		Highlight:  &Highlight{Background: "#fbbf24", Border: "#f59e0b"},
	}
	topicColor = Color{
		Background: "#06b6d4",
		Border:     "#0891b2",
		Highlight:  &Highlight{Background: "#22d3ee", Border: "#06b6d4"},
	}
	paperColor = Color{
		Background: "#1e3a8a",
		Border:     "#1e40af",
		Highlight:  &Highlight{Background: "#3b82f6", Border: "#2563eb"},
	}
)

// Edge styles by edge type. Unknown types fall back to defaultEdgeStyle.
var edgeStyles = map[string]EdgeStyle{
	graph.EdgeExpertise: {Color: "#94a3b8", Width: 4},
	graph.EdgeAuthored:  {Color: "#cbd5e1", Width: 2},
}

var defaultEdgeStyle = EdgeStyle{Color: "#94a3b8", Width: 1}

// Color is a vis-network node color spec.
type Color struct {
	Background string     `json:"background"`
	Border     string     `json:"border"`
	Highlight  *Highlight `json:"highlight,omitempty"`
}

// Highlight is the selected-state color pair.
type Highlight struct {
	Background string `json:"background"`
	Border     string `json:"border"`
}

// EdgeStyle is the fixed color/width pair for an edge category.
type EdgeStyle struct {
	Color string `json:"color"`
	Width int    `json:"width"`
}

// PaperSize computes a paper node's size from its citation count.
// Citations amplify visual weight but are capped at PaperMaxSize, so
// size is monotonically non-decreasing in citations and never exceeds
// the cap.
func PaperSize(citations int) int {
	size := PaperBaseSize + citations/3
	if size > PaperMaxSize {
		return PaperMaxSize
	}
	return size
}

// TruncateTitle shortens a title to the display budget, appending an
// ellipsis marker when anything was cut.
func TruncateTitle(title string) string {
	runes := []rune(title)
	if len(runes) <= DisplayTitleMaxLen {
		return title
	}
	return string(runes[:DisplayTitleMaxLen]) + "..."
}

// DOILink builds the external-link URL for a DOI-like identifier, or
// returns "" when absent.
func DOILink(doi string) string {
	if doi == "" {
		return ""
	}
	return "https://doi.org/" + doi
}

// nodeSize resolves size purely from node type and, for papers,
// citation count.
func nodeSize(n graph.Node) int {
	switch n.Type {
	case graph.NodeProfessor:
		return SizeProfessor
	case graph.NodeTopic:
		return SizeTopic
	default:
		return PaperSize(n.Citations)
	}
}

// nodeColor resolves the palette entry for a node type.
func nodeColor(nodeType string) Color {
	switch nodeType {
	case graph.NodeProfessor:
		return professorColor
	case graph.NodeTopic:
		return topicColor
	default:
		return paperColor
	}
}

// nodeShape resolves the shape: professors with an image render as a
// circular image, everything else as a dot.
func nodeShape(n graph.Node) string {
	if n.Type == graph.NodeProfessor && n.ImageURL != "" {
		return "circularImage"
	}
	return "dot"
}

// nodeTooltip builds the hover HTML for a node. Paper tooltips carry
// the full untruncated title, year, citation count, and a DOI link
// when one exists.
func nodeTooltip(n graph.Node) string {
	switch n.Type {
	case graph.NodeProfessor:
		return fmt.Sprintf("<b>%s</b><br><span style='color:#666'>Click to view profile</span>",
			html.EscapeString(n.Label))
	case graph.NodeTopic:
		return fmt.Sprintf("<b>%s</b><br><span style='color:#666'>Research Area</span>",
			html.EscapeString(n.Label))
	default:
		link := ""
		if url := DOILink(n.DOI); url != "" {
			link = fmt.Sprintf(`<br><a href="%s" target="_blank" style="color:#3b82f6">View Paper</a>`, url)
		}
		return fmt.Sprintf("<div style='max-width:300px'><b>%s</b><br><br>Year: %s<br>Citations: %d%s</div>",
			html.EscapeString(n.Title), html.EscapeString(n.Year), n.Citations, link)
	}
}

// edgeStyle resolves the style for an edge type, falling back to the
// neutral default for anything unrecognized.
func edgeStyle(edgeType string) EdgeStyle {
	if s, ok := edgeStyles[edgeType]; ok {
		return s
	}
	return defaultEdgeStyle
}
