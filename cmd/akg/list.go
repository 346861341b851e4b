package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kmitl-it/advisorkg/internal/cache"
	"github.com/kmitl-it/advisorkg/internal/query"
)

var (
	listSort  string
	listLimit int
)

func init() {
	listCmd.Flags().StringVar(&listSort, "sort", query.SortByName, "Sort order: name, citations, or papers")
	listCmd.Flags().IntVar(&listLimit, "limit", 0, "Maximum results to return (0 = all)")
	rootCmd.AddCommand(listCmd)
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List cached professors",
	Long: `List all professors in the cache with their topic and citation
summaries.

Examples:
  akg list
  akg list --sort citations --limit 10`,
	RunE: runList,
}

// loadSnapshot loads the aggregate cache, exiting with a helpful
// message when no sync has run yet.
func loadSnapshot(store *cache.Store) *cache.Snapshot {
	snap, err := store.Load()
	if errors.Is(err, cache.ErrNoCache) {
		exitWithError(ExitDataError, "no cached data found\n\nRun 'akg scrape' and 'akg sync' to build the cache.")
	}
	if err != nil {
		exitWithError(ExitError, "loading cache: %v", err)
	}
	return snap
}

func runList(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()
	snap := loadSnapshot(openStore(cfg))

	rows := query.Rank(query.Summaries(snap.Professors), listSort)
	if listLimit > 0 && listLimit < len(rows) {
		rows = rows[:listLimit]
	}

	if humanOutput {
		if len(rows) == 0 {
			fmt.Println("No professors in cache")
			return nil
		}
		fmt.Printf("%d professors:\n\n", len(rows))
		for _, row := range rows {
			fmt.Printf("  %-14s %-30s %3d papers %5d citations\n",
				row.ID, truncateString(row.Name, 30), row.PaperCount, row.CitationCount)
		}
		return nil
	}

	if rows == nil {
		rows = []query.Summary{}
	}
	return outputJSON(rows)
}
