package main

import (
	"encoding/json"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/kmitl-it/advisorkg/internal/cache"
	"github.com/kmitl-it/advisorkg/internal/config"
)

func init() {
	rootCmd.AddCommand(importCmd)
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Install a curated topic-grouped dataset",
	Long: `Install an externally curated topic-grouped dataset as the preferred
aggregate cache file. Every professor record must carry topic_groups
mapping topic labels to paper lists. Once installed the file is never
touched by 'akg sync'; re-run import to replace it.

After importing, run 'akg rebuild' to refresh the graph artifacts and
the search index from the new data.

Examples:
  akg import curated/professors_by_topics.json`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

// ImportResponse summarizes an installed dataset.
type ImportResponse struct {
	Status     string `json:"status"`
	Professors int    `json:"professors"`
	Papers     int    `json:"papers"`
	Path       string `json:"path"`
}

func runImport(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()
	store := openStore(cfg)

	data, err := os.ReadFile(args[0])
	if err != nil {
		exitWithError(ExitDataError, "reading %s: %v", args[0], err)
	}

	var snap cache.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		exitWithError(ExitDataError, "parsing %s: %v", args[0], err)
	}
	if len(snap.Professors) == 0 {
		exitWithError(ExitDataError, "%s contains no professors", args[0])
	}
	for id, rec := range snap.Professors {
		if len(rec.TopicGroups) == 0 {
			exitWithError(ExitDataError, "professor %s has no topic_groups; expected the topic-grouped shape", id)
		}
	}

	// Recompute the denormalized totals; keep the dataset's own
	// fetched_at when it has one.
	installed := cache.BuildSnapshot(snap.Professors, time.Now())
	if snap.Metadata.FetchedAt != "" {
		installed.Metadata.FetchedAt = snap.Metadata.FetchedAt
	}
	if err := store.SaveGrouped(installed); err != nil {
		exitWithError(ExitError, "installing grouped cache: %v", err)
	}

	resp := ImportResponse{
		Status:     "ok",
		Professors: installed.Metadata.ProfessorCount,
		Papers:     installed.Metadata.TotalPapers,
		Path:       config.TopicsPath(store.DataDir()),
	}

	if humanOutput {
		outputHuman("Imported %d professors (%d papers) to %s\n", resp.Professors, resp.Papers, resp.Path)
		outputHuman("Run 'akg rebuild' to refresh artifacts and the search index.\n")
		return nil
	}
	return outputJSON(resp)
}
