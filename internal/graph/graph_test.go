package graph

import (
	"reflect"
	"testing"

	"github.com/kmitl-it/advisorkg/internal/professor"
)

func TestAssembleStarShape(t *testing.T) {
	record := &professor.Record{
		ScopusID: "123",
		Name:     "Prof Example",
		Topics:   []string{"AI", "Security"},
		Papers: []professor.Paper{
			{Title: "X", Citations: 50},
			{Title: "Y", Citations: 2},
		},
	}

	g := Assemble(record)

	// 1 professor + |topics| + |papers| nodes, |topics| + |papers| edges.
	if got, want := len(g.Nodes), 5; got != want {
		t.Errorf("node count = %d, want %d", got, want)
	}
	if got, want := len(g.Edges), 4; got != want {
		t.Errorf("edge count = %d, want %d", got, want)
	}

	// Every edge is incident to the single professor node.
	for _, e := range g.Edges {
		if e.Source != "123" {
			t.Errorf("edge source = %q, want professor node %q", e.Source, "123")
		}
	}

	prof := g.Nodes[0]
	if prof.Type != NodeProfessor || prof.ID != "123" || prof.Label != "Prof Example" {
		t.Errorf("unexpected professor node: %+v", prof)
	}
}

func TestAssembleSyntheticIDs(t *testing.T) {
	record := &professor.Record{
		ScopusID: "6603566678",
		Topics:   []string{"AI"},
		Papers:   []professor.Paper{{Title: "X"}},
	}

	g := Assemble(record)

	wantIDs := []string{"6603566678", "topic_6603566678_0", "paper_6603566678_0"}
	var gotIDs []string
	for _, n := range g.Nodes {
		gotIDs = append(gotIDs, n.ID)
	}
	if !reflect.DeepEqual(gotIDs, wantIDs) {
		t.Errorf("node IDs = %v, want %v", gotIDs, wantIDs)
	}
}

func TestAssembleDeterministic(t *testing.T) {
	record := &professor.Record{
		ScopusID: "123",
		Topics:   []string{"AI", "Security", "Networks"},
		Papers: []professor.Paper{
			{Title: "A"}, {Title: "B"}, {Title: "C"},
		},
	}

	first := Assemble(record)
	for i := 0; i < 20; i++ {
		if !reflect.DeepEqual(Assemble(record), first) {
			t.Fatal("Assemble() output changed between runs on identical input")
		}
	}
}

func TestAssembleFallbackID(t *testing.T) {
	g := Assemble(&professor.Record{Name: "No Scopus"})
	if g.ProfessorID != FallbackProfessorID {
		t.Errorf("professor ID = %q, want fallback %q", g.ProfessorID, FallbackProfessorID)
	}
	if len(g.Nodes) != 1 || len(g.Edges) != 0 {
		t.Errorf("empty record should produce a lone professor node, got %d nodes %d edges",
			len(g.Nodes), len(g.Edges))
	}
}

func TestAssembleGroupedRecord(t *testing.T) {
	record := &professor.Record{
		ScopusID: "55",
		Topics:   []string{"NLP"},
		TopicGroups: map[string][]professor.Paper{
			"NLP": {{Title: "P1"}, {Title: "P2"}, {Title: "P3"}},
		},
	}

	g := Assemble(record)
	if got, want := len(g.Nodes), 1+1+3; got != want {
		t.Errorf("node count = %d, want %d", got, want)
	}

	papers := 0
	for _, n := range g.Nodes {
		if n.Type == NodePaper {
			papers++
			if n.Title == "" {
				t.Errorf("paper node %s missing full title", n.ID)
			}
		}
	}
	if papers != 3 {
		t.Errorf("paper node count = %d, want 3", papers)
	}
}

func TestAssembleUntitledPaper(t *testing.T) {
	g := Assemble(&professor.Record{
		ScopusID: "9",
		Papers:   []professor.Paper{{Citations: 1}},
	})
	if g.Nodes[1].Label != "Untitled" {
		t.Errorf("untitled paper label = %q, want %q", g.Nodes[1].Label, "Untitled")
	}
}
