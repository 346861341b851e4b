package main

import (
	"testing"

	"github.com/kmitl-it/advisorkg/internal/config"
)

func TestTruncateString(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		maxLen int
		want   string
	}{
		{"shorter than limit", "short", 10, "short"},
		{"exactly at limit", "exactlyten", 10, "exactlyten"},
		{"truncated", "this is a long title that gets cut", 20, "this is a long ti..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := truncateString(tt.input, tt.maxLen); got != tt.want {
				t.Errorf("truncateString(%q, %d) = %q, want %q", tt.input, tt.maxLen, got, tt.want)
			}
		})
	}
}

func TestNormalizeKey(t *testing.T) {
	tests := []struct {
		input, want string
	}{
		{"data-dir", "data-dir"},
		{"data_dir", "data-dir"},
		{"Scopus_API_Key", "scopus-api-key"},
	}
	for _, tt := range tests {
		if got := normalizeKey(tt.input); got != tt.want {
			t.Errorf("normalizeKey(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestResolveMaxPapers(t *testing.T) {
	t.Setenv("MAX_PAPERS_PER_PROFESSOR", "")
	cfg := &config.GlobalConfig{MaxPapers: 7}

	if got := resolveMaxPapers(3, cfg); got != 3 {
		t.Errorf("flag should win, got %d", got)
	}
	if got := resolveMaxPapers(0, cfg); got != 7 {
		t.Errorf("config should win over default, got %d", got)
	}
	if got := resolveMaxPapers(0, &config.GlobalConfig{}); got != config.DefaultMaxPapers {
		t.Errorf("default expected, got %d", got)
	}
}
