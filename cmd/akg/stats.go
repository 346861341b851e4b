package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kmitl-it/advisorkg/internal/query"
)

func init() {
	rootCmd.AddCommand(statsCmd)
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show cache statistics",
	Long: `Show aggregate statistics for the cached knowledge graph: professor
and paper counts, total citations, topic count, and when the data was
last fetched.

Examples:
  akg stats
  akg stats --human`,
	RunE: runStats,
}

// StatsResponse is the stats command output.
type StatsResponse struct {
	Professors int    `json:"professors"`
	Papers     int    `json:"papers"`
	Citations  int    `json:"citations"`
	Topics     int    `json:"topics"`
	FetchedAt  string `json:"fetched_at,omitempty"`
	DataDir    string `json:"data_dir"`
}

func runStats(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()
	store := openStore(cfg)
	snap := loadSnapshot(store)

	idx := query.BuildTopicIndex(snap.Professors)
	resp := StatsResponse{
		Professors: snap.Metadata.ProfessorCount,
		Papers:     snap.Metadata.TotalPapers,
		Citations:  snap.Metadata.TotalCitations,
		Topics:     len(idx),
		FetchedAt:  snap.Metadata.FetchedAt,
		DataDir:    store.DataDir(),
	}

	if humanOutput {
		fmt.Printf("Professors: %d\n", resp.Professors)
		fmt.Printf("Papers:     %d\n", resp.Papers)
		fmt.Printf("Citations:  %d\n", resp.Citations)
		fmt.Printf("Topics:     %d\n", resp.Topics)
		if resp.FetchedAt != "" {
			fmt.Printf("Fetched at: %s\n", resp.FetchedAt)
		}
		fmt.Printf("Data dir:   %s\n", resp.DataDir)
		return nil
	}
	return outputJSON(resp)
}
