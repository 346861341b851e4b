// Package main provides the akg CLI entry point.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/kataras/golog"
	"github.com/spf13/cobra"

	"github.com/kmitl-it/advisorkg/internal/cache"
	"github.com/kmitl-it/advisorkg/internal/config"
	"github.com/kmitl-it/advisorkg/internal/index"
)

// Version is set at build time via ldflags
var Version = "dev"

// humanOutput controls whether to use human-readable output
var humanOutput bool

// verbose enables debug logging
var verbose bool

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		// Print the error since we have SilenceErrors: true
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(ExitError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "akg",
	Short: "Academic advisor knowledge graph CLI",
	Long: `akg builds and serves a knowledge graph of academic advisors.

It scrapes the faculty staff directory, fetches each professor's
publication record from Scopus, extracts research topics, and renders
per-professor topic/paper graphs as standalone HTML pages.

Data is cached in JSON files with an ephemeral SQLite index for
full-text search. All commands output JSON by default; use --human
for readable output.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		if verbose {
			golog.Default.SetLevel("debug")
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&humanOutput, "human", false, "Use human-readable output instead of JSON")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.Version = Version
}

// mustLoadConfig loads the global configuration, exits on error.
func mustLoadConfig() *config.GlobalConfig {
	cfg, err := config.LoadGlobalConfig()
	if err != nil {
		exitWithError(ExitConfigError, "loading config: %v", err)
	}
	return cfg
}

// openStore opens the cache store at the resolved data directory.
func openStore(cfg *config.GlobalConfig) *cache.Store {
	return cache.NewStore(cfg.ResolveDataDir())
}

// mustOpenIndex opens the SQLite search index, exits on error.
// The caller is responsible for calling Close() on the returned DB.
func mustOpenIndex(dataDir string) *index.DB {
	db, err := index.OpenDB(config.IndexPath(dataDir))
	if err != nil {
		exitWithError(ExitError, "opening search index: %v", err)
	}
	return db
}

// resolveMaxPapers picks the per-professor paper cap: the flag, then
// the config file, then the environment or default.
func resolveMaxPapers(flagValue int, cfg *config.GlobalConfig) int {
	if flagValue > 0 {
		return flagValue
	}
	if cfg.MaxPapers > 0 {
		return cfg.MaxPapers
	}
	return config.MaxPapers()
}
