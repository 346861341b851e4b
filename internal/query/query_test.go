package query

import (
	"reflect"
	"testing"

	"github.com/kmitl-it/advisorkg/internal/professor"
)

func testProfessors() map[string]*professor.Record {
	return map[string]*professor.Record{
		"1": {
			Name:          "Arit Thammano",
			ScopusID:      "1",
			Topics:        []string{"Neural Network", "Genetic Algorithm"},
			Papers:        []professor.Paper{{Title: "A"}, {Title: "B"}},
			CitationCount: 300,
		},
		"2": {
			Name:          "Bunyarit Somsak",
			ScopusID:      "2",
			Topics:        []string{"Security", "Neural Network"},
			Papers:        []professor.Paper{{Title: "C"}},
			CitationCount: 120,
		},
		"3": {
			Name:          "Chanin Wong",
			ScopusID:      "3",
			CitationCount: 10,
		},
	}
}

func TestSearch(t *testing.T) {
	profs := testProfessors()

	tests := []struct {
		name    string
		q       string
		wantIDs []string
	}{
		{"matches name substring", "thammano", []string{"1"}},
		{"matches topic substring", "neural", []string{"1", "2"}},
		{"case-insensitive", "SECURITY", []string{"2"}},
		{"no match yields empty", "quantum", nil},
		{"empty query matches all", "", []string{"1", "2", "3"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotIDs []string
			for _, row := range Search(profs, tt.q) {
				gotIDs = append(gotIDs, row.ID)
			}
			if !reflect.DeepEqual(gotIDs, tt.wantIDs) {
				t.Errorf("Search(%q) IDs = %v, want %v", tt.q, gotIDs, tt.wantIDs)
			}
		})
	}
}

func TestRank(t *testing.T) {
	rows := Summaries(testProfessors())

	byName := Rank(rows, SortByName)
	if byName[0].Name != "Arit Thammano" || byName[2].Name != "Chanin Wong" {
		t.Errorf("Rank by name = %v", names(byName))
	}

	byCitations := Rank(rows, SortByCitations)
	if byCitations[0].ID != "1" || byCitations[2].ID != "3" {
		t.Errorf("Rank by citations = %v", names(byCitations))
	}

	byPapers := Rank(rows, SortByPapers)
	if byPapers[0].ID != "1" || byPapers[0].PaperCount != 2 {
		t.Errorf("Rank by papers = %v", names(byPapers))
	}

	// Unknown key falls back to name and does not mutate the input.
	unknown := Rank(byCitations, "h-index")
	if unknown[0].Name != "Arit Thammano" {
		t.Errorf("Rank with unknown key = %v", names(unknown))
	}
	if byCitations[0].ID != "1" {
		t.Error("Rank mutated its input")
	}
}

func names(rows []Summary) []string {
	var out []string
	for _, r := range rows {
		out = append(out, r.Name)
	}
	return out
}

func TestBuildTopicIndex(t *testing.T) {
	idx := BuildTopicIndex(testProfessors())

	// Professor P is under topic T iff T is in P's topic set.
	neural := idx["Neural Network"]
	if len(neural) != 2 {
		t.Fatalf("Neural Network professors = %d, want 2", len(neural))
	}
	// Ordered by citations descending.
	if neural[0].ID != "1" || neural[1].ID != "2" {
		t.Errorf("Neural Network order = %v", names(neural))
	}

	if len(idx["Security"]) != 1 || idx["Security"][0].ID != "2" {
		t.Errorf("Security professors = %v", idx["Security"])
	}

	if _, ok := idx["Quantum"]; ok {
		t.Error("index contains topic no professor carries")
	}

	labels := idx.Topics()
	if labels[0] != "Neural Network" {
		t.Errorf("Topics() = %v, most common label should come first", labels)
	}
}

func TestFilterByTopicGrouped(t *testing.T) {
	r := &professor.Record{
		Topics: []string{"NLP", "Vision", "Speech"},
		TopicGroups: map[string][]professor.Paper{
			"NLP":    {{Title: "N1"}, {Title: "N2"}, {Title: "N3"}},
			"Vision": {{Title: "V1"}, {Title: "V2"}, {Title: "V3"}},
			"Speech": {{Title: "S1"}, {Title: "S2"}},
		},
	}

	inTopic, others := FilterByTopic(r, "NLP")
	if len(inTopic) != 3 {
		t.Errorf("papers in NLP = %d, want 3", len(inTopic))
	}
	if len(others) != 5 {
		t.Errorf("other papers = %d, want 5", len(others))
	}
}

func TestFilterByTopicFlatFallback(t *testing.T) {
	r := &professor.Record{
		Topics: []string{"Security"},
		Papers: []professor.Paper{
			{Title: "Network Security Audit"},
			{Title: "A security model for IoT"},
			{Title: "Unrelated Paper"},
		},
	}

	inTopic, others := FilterByTopic(r, "Security")
	if len(inTopic) != 2 {
		t.Errorf("title matches = %d, want 2", len(inTopic))
	}
	if len(others) != 1 || others[0].Title != "Unrelated Paper" {
		t.Errorf("others = %v", others)
	}
}

func TestFilterByTopicEmptyRecord(t *testing.T) {
	inTopic, others := FilterByTopic(&professor.Record{}, "AI")
	if inTopic != nil || others != nil {
		t.Errorf("empty record should yield nothing, got %v / %v", inTopic, others)
	}
}
