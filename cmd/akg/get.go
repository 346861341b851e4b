package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kmitl-it/advisorkg/internal/config"
)

var getShowPapers bool

func init() {
	getCmd.Flags().BoolVar(&getShowPapers, "papers", false, "Include the full paper list in human output")
	rootCmd.AddCommand(getCmd)
}

var getCmd = &cobra.Command{
	Use:   "get <professor-id>",
	Short: "Show one professor's cached record",
	Long: `Show a professor's full cached record: names, Scopus identifiers,
research topics, and papers. The ID is the Scopus author ID used as
the cache key; find it with 'akg list' or 'akg search'.

Examples:
  akg get 55555555500
  akg get 55555555500 --human --papers`,
	Args: cobra.ExactArgs(1),
	RunE: runGet,
}

func runGet(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()
	store := openStore(cfg)
	snap := loadSnapshot(store)

	id := args[0]
	rec, ok := snap.Professors[id]
	if !ok {
		exitWithError(ExitDataError, "professor %q not found in cache", id)
	}

	if !humanOutput {
		return outputJSON(rec)
	}

	fmt.Printf("%s\n", rec.DisplayName())
	if rec.ThaiName != "" && rec.ThaiName != rec.Name {
		fmt.Printf("%s\n", rec.ThaiName)
	}
	fmt.Printf("\nScopus ID:  %s\n", rec.ScopusID)
	fmt.Printf("Papers:     %d\n", rec.PaperCount())
	fmt.Printf("Citations:  %d\n", rec.SumCitations())
	if len(rec.Topics) > 0 {
		fmt.Printf("Topics:     %s\n", strings.Join(rec.Topics, ", "))
	}
	fmt.Printf("Graph:      %s\n", config.GraphHTMLPath(store.DataDir(), id))

	if getShowPapers {
		fmt.Println()
		for i, p := range rec.AllPapers() {
			fmt.Printf("%d. %s (%s, %d citations)\n", i+1, truncateString(p.Title, ListTitleMaxLen), p.Year, p.Citations)
		}
	}
	return nil
}
