package main

import (
	"errors"

	"github.com/kataras/golog"
	"github.com/spf13/cobra"

	"github.com/kmitl-it/advisorkg/internal/cache"
	"github.com/kmitl-it/advisorkg/internal/pipeline"
)

func init() {
	rootCmd.AddCommand(rebuildCmd)
}

var rebuildCmd = &cobra.Command{
	Use:   "rebuild",
	Short: "Rebuild graph artifacts and the search index from the cache",
	Long: `Regenerate every professor's graph HTML and JSON artifact and the
SQLite search index from the cached data, without touching the
network. Useful after upgrading, or when the derived files were
deleted.

Examples:
  akg rebuild`,
	RunE: runRebuild,
}

// RebuildResponse summarizes a rebuild run.
type RebuildResponse struct {
	Status    string `json:"status"`
	Artifacts int    `json:"artifacts"`
	Indexed   int    `json:"indexed"`
}

func runRebuild(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()
	store := openStore(cfg)
	snap := loadSnapshot(store)

	runner := pipeline.NewRunner(store, nil, nil, pipeline.WithLogger(golog.Default))
	artifacts, err := runner.RebuildArtifacts()
	if errors.Is(err, cache.ErrNoCache) {
		exitWithError(ExitDataError, "no cached data found\n\nRun 'akg scrape' and 'akg sync' to build the cache.")
	}
	if err != nil {
		exitWithError(ExitError, "rebuilding artifacts: %v", err)
	}

	db := mustOpenIndex(store.DataDir())
	defer db.Close()
	indexed, err := db.RebuildFromSnapshot(snap)
	if err != nil {
		exitWithError(ExitError, "rebuilding search index: %v", err)
	}

	resp := RebuildResponse{Status: "ok", Artifacts: artifacts, Indexed: indexed}

	if humanOutput {
		outputHuman("Rebuilt %d graph artifacts, indexed %d professors\n", resp.Artifacts, resp.Indexed)
		return nil
	}
	return outputJSON(resp)
}
