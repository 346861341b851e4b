package main

import (
	"fmt"

	"github.com/kataras/golog"
	"github.com/spf13/cobra"

	"github.com/kmitl-it/advisorkg/internal/config"
	"github.com/kmitl-it/advisorkg/internal/directory"
	"github.com/kmitl-it/advisorkg/internal/pipeline"
)

func init() {
	rootCmd.AddCommand(scrapeCmd)
}

var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Scrape the faculty staff directory",
	Long: `Scrape the faculty staff directory and cache the basic professor
records: names, profile pages, photos, and Scopus author IDs.

This is the first step of a data refresh; run 'akg sync' afterwards to
fetch publication data.

Examples:
  akg scrape
  akg scrape --human`,
	RunE: runScrape,
}

// newScraper builds the directory scraper, honoring a staff_url
// override from the global config.
func newScraper(cfg *config.GlobalConfig) *directory.Scraper {
	var opts []directory.Option
	if cfg.StaffURL != "" {
		opts = append(opts, directory.WithBaseURL(cfg.StaffURL))
	}
	return directory.NewScraper(opts...)
}

// ScrapeResponse summarizes a scrape run.
type ScrapeResponse struct {
	Status        string `json:"status"`
	Count         int    `json:"count"`
	WithScopusIDs int    `json:"with_scopus_ids"`
	Path          string `json:"path"`
}

func runScrape(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()
	store := openStore(cfg)

	runner := pipeline.NewRunner(store, newScraper(cfg), nil, pipeline.WithLogger(golog.Default))
	snap, err := runner.Scrape(cmd.Context())
	if err != nil {
		exitWithError(ExitError, "scraping directory: %v", err)
	}

	withID := 0
	for _, p := range snap.Professors {
		if p.ScopusID != "" {
			withID++
		}
	}

	resp := ScrapeResponse{
		Status:        "ok",
		Count:         snap.Count,
		WithScopusIDs: withID,
		Path:          config.BasicPath(store.DataDir()),
	}

	if humanOutput {
		outputHuman("Scraped %d staff members (%d with Scopus IDs)\n", resp.Count, resp.WithScopusIDs)
		fmt.Printf("Saved to %s\n", resp.Path)
		return nil
	}
	return outputJSON(resp)
}
