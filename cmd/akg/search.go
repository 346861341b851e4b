package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kmitl-it/advisorkg/internal/config"
	"github.com/kmitl-it/advisorkg/internal/index"
)

var (
	searchField string
	searchLimit int
)

func init() {
	searchCmd.Flags().StringVar(&searchField, "field", "", "Restrict search to a field: name, topic, paper, or id")
	searchCmd.Flags().IntVar(&searchLimit, "limit", DefaultSearchLimit, "Maximum results to return")
	rootCmd.AddCommand(searchCmd)
}

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Full-text search across professors",
	Long: `Search professor names, research topics, and paper titles using the
SQLite full-text index. Results are ordered most-cited first.

The index is rebuilt by 'akg sync' and 'akg rebuild'.

Examples:
  akg search "machine learning"
  akg search --field topic optimization
  akg search --field paper "neural network" --limit 5
  akg search --field id 55555555500`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func runSearch(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()
	dataDir := cfg.ResolveDataDir()

	if _, err := os.Stat(config.IndexPath(dataDir)); os.IsNotExist(err) {
		exitWithError(ExitDataError, "search index not found\n\nRun 'akg sync' or 'akg rebuild' to build it.")
	}

	db := mustOpenIndex(dataDir)
	defer db.Close()

	queryText := strings.Join(args, " ")
	var (
		entries []index.Entry
		err     error
	)
	if searchField != "" {
		entries, err = db.SearchField(searchField, queryText, searchLimit)
	} else {
		entries, err = db.Search(queryText, searchLimit)
	}
	if err != nil {
		exitWithError(ExitError, "searching: %v", err)
	}

	if humanOutput {
		if len(entries) == 0 {
			fmt.Printf("No matches for %q\n", queryText)
			return nil
		}
		for i, e := range entries {
			fmt.Printf("%d. %s (%d citations, %d papers)\n", i+1, e.Name, e.CitationCount, e.PaperCount)
			if len(e.Topics) > 0 {
				fmt.Printf("   %s\n", strings.Join(e.Topics, ", "))
			}
		}
		return nil
	}

	if entries == nil {
		entries = []index.Entry{}
	}
	return outputJSON(entries)
}
