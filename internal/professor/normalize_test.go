package professor

import (
	"reflect"
	"testing"
)

func TestAllPapers(t *testing.T) {
	tests := []struct {
		name       string
		record     Record
		wantTitles []string
		wantCount  int
	}{
		{
			name: "flat shape returns papers in order",
			record: Record{
				Papers: []Paper{
					{Title: "X", Citations: 50},
					{Title: "Y", Citations: 2},
				},
			},
			wantTitles: []string{"X", "Y"},
			wantCount:  2,
		},
		{
			name: "grouped shape sums bucket sizes",
			record: Record{
				Topics: []string{"NLP", "Security"},
				TopicGroups: map[string][]Paper{
					"NLP":      {{Title: "A"}, {Title: "B"}, {Title: "C"}},
					"Security": {{Title: "D"}, {Title: "E"}},
				},
			},
			wantTitles: []string{"A", "B", "C", "D", "E"},
			wantCount:  5,
		},
		{
			name:       "neither shape yields empty and zero",
			record:     Record{Name: "No Data"},
			wantTitles: nil,
			wantCount:  0,
		},
		{
			name: "flat shape wins when both are present",
			record: Record{
				Papers: []Paper{{Title: "Flat"}},
				TopicGroups: map[string][]Paper{
					"AI": {{Title: "Grouped"}},
				},
			},
			wantTitles: []string{"Flat"},
			wantCount:  1,
		},
		{
			name: "group labels missing from topics list come last, sorted",
			record: Record{
				Topics: []string{"Zeta"},
				TopicGroups: map[string][]Paper{
					"Zeta":  {{Title: "Z1"}},
					"Beta":  {{Title: "B1"}},
					"Alpha": {{Title: "A1"}},
				},
			},
			wantTitles: []string{"Z1", "A1", "B1"},
			wantCount:  3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotTitles []string
			for _, p := range tt.record.AllPapers() {
				gotTitles = append(gotTitles, p.Title)
			}
			if !reflect.DeepEqual(gotTitles, tt.wantTitles) {
				t.Errorf("AllPapers() titles = %v, want %v", gotTitles, tt.wantTitles)
			}
			if got := tt.record.PaperCount(); got != tt.wantCount {
				t.Errorf("PaperCount() = %d, want %d", got, tt.wantCount)
			}
		})
	}
}

func TestAllPapersDeterministic(t *testing.T) {
	record := Record{
		Topics: []string{"AI"},
		TopicGroups: map[string][]Paper{
			"AI":       {{Title: "A"}},
			"Security": {{Title: "S"}},
			"Networks": {{Title: "N"}},
		},
	}

	first := record.AllPapers()
	for i := 0; i < 20; i++ {
		if !reflect.DeepEqual(record.AllPapers(), first) {
			t.Fatal("AllPapers() order changed between calls")
		}
	}
}

func TestDisplayName(t *testing.T) {
	r := Record{}
	if got := r.DisplayName(); got != "Unknown" {
		t.Errorf("DisplayName() = %q, want %q", got, "Unknown")
	}
	r.Name = "Arit Thammano"
	if got := r.DisplayName(); got != "Arit Thammano" {
		t.Errorf("DisplayName() = %q, want %q", got, "Arit Thammano")
	}
}

func TestSumCitations(t *testing.T) {
	r := Record{
		Papers: []Paper{
			{Title: "X", Citations: 50},
			{Title: "Y", Citations: 2},
		},
	}
	if got := r.SumCitations(); got != 52 {
		t.Errorf("SumCitations() = %d, want 52", got)
	}
}
