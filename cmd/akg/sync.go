package main

import (
	"errors"

	"github.com/joho/godotenv"
	"github.com/kataras/golog"
	"github.com/spf13/cobra"

	"github.com/kmitl-it/advisorkg/internal/cache"
	"github.com/kmitl-it/advisorkg/internal/config"
	"github.com/kmitl-it/advisorkg/internal/pipeline"
	"github.com/kmitl-it/advisorkg/internal/scopus"
)

var (
	syncMaxPapers int
	syncFull      bool
	syncCheck     bool
)

func init() {
	// Load .env file if present (for SCOPUS_API_KEY)
	_ = godotenv.Load()

	syncCmd.Flags().IntVar(&syncMaxPapers, "max-papers", 0, "Maximum papers to fetch per professor (0 = configured default)")
	syncCmd.Flags().BoolVar(&syncFull, "full", false, "Re-scrape the staff directory before fetching")
	syncCmd.Flags().BoolVar(&syncCheck, "check", false, "Verify the Scopus API key and exit without syncing")
	rootCmd.AddCommand(syncCmd)
}

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Fetch publication data and rebuild the cache",
	Long: `Fetch each scraped professor's publication record from the Scopus
Search API, extract research topics, regenerate every graph artifact,
and rewrite the aggregate cache file and search index. A curated
topic-grouped dataset installed with 'akg import' is left untouched.

Requires a Scopus API key via SCOPUS_API_KEY, a .env file, or the
global config. Fetches are paced to stay polite to the API. Use
--check to verify the key without running a sync.

Examples:
  akg sync
  akg sync --max-papers 10
  akg sync --full
  akg sync --check`,
	RunE: runSync,
}

// SyncResponse summarizes a sync run.
type SyncResponse struct {
	Status         string `json:"status"`
	Fetched        int    `json:"fetched"`
	Skipped        int    `json:"skipped"`
	Failed         int    `json:"failed"`
	Indexed        int    `json:"indexed"`
	TotalPapers    int    `json:"total_papers"`
	TotalCitations int    `json:"total_citations"`
}

func runSync(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()
	store := openStore(cfg)

	apiKey := cfg.APIKey()
	if apiKey == "" {
		exitWithError(ExitConfigError, "Scopus API key not configured\n\nSet SCOPUS_API_KEY or add scopus_api_key to %s.", config.GlobalConfigPath())
	}

	client := scopus.NewClient(scopus.WithAPIKey(apiKey))

	if syncCheck {
		if err := client.TestConnection(cmd.Context()); err != nil {
			if scopus.IsUnauthorized(err) {
				exitWithError(ExitConfigError, "Scopus API key rejected: %v", err)
			}
			exitWithError(ExitError, "Scopus connection check failed: %v", err)
		}
		if humanOutput {
			outputHuman("Scopus API key verified\n")
			return nil
		}
		return outputJSON(StatusResponse{Status: "ok"})
	}

	runner := pipeline.NewRunner(store, newScraper(cfg), client,
		pipeline.WithMaxPapers(resolveMaxPapers(syncMaxPapers, cfg)),
		pipeline.WithLogger(golog.Default),
	)

	var (
		result *pipeline.SyncResult
		err    error
	)
	if syncFull {
		result, err = runner.Refresh(cmd.Context())
	} else {
		result, err = runner.Sync(cmd.Context())
	}
	if errors.Is(err, cache.ErrNoCache) {
		exitWithError(ExitDataError, "no scraped staff data found\n\nRun 'akg scrape' first, or use 'akg sync --full'.")
	}
	if err != nil {
		exitWithError(ExitError, "syncing: %v", err)
	}

	db := mustOpenIndex(store.DataDir())
	defer db.Close()
	indexed, err := db.RebuildFromSnapshot(result.Snapshot)
	if err != nil {
		exitWithError(ExitError, "rebuilding search index: %v", err)
	}

	resp := SyncResponse{
		Status:         "ok",
		Fetched:        result.Fetched,
		Skipped:        result.Skipped,
		Failed:         result.Failed,
		Indexed:        indexed,
		TotalPapers:    result.Snapshot.Metadata.TotalPapers,
		TotalCitations: result.Snapshot.Metadata.TotalCitations,
	}

	if humanOutput {
		outputHuman("Synced %d professors (%d skipped, %d failed)\n", resp.Fetched, resp.Skipped, resp.Failed)
		outputHuman("%d papers, %d citations, %d indexed for search\n", resp.TotalPapers, resp.TotalCitations, resp.Indexed)
		return nil
	}
	return outputJSON(resp)
}
