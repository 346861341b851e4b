package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/kataras/golog"
	"github.com/spf13/cobra"

	"github.com/kmitl-it/advisorkg/internal/config"
	"github.com/kmitl-it/advisorkg/internal/web"
)

var serveAddr string

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "Listen address")
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the knowledge graph over HTTP",
	Long: `Start the read-only HTTP API over the cached knowledge graph:
professor listings, topic cross-references, full-text search, and the
rendered graph pages.

The server reads the cache files on every request, so a concurrent
'akg sync' takes effect without a restart. An empty cache serves empty
collections.

Examples:
  akg serve
  akg serve --addr :9090`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()
	store := openStore(cfg)

	opts := []web.ServerOption{web.WithLogger(golog.Default)}
	if _, err := os.Stat(config.IndexPath(store.DataDir())); err == nil {
		db := mustOpenIndex(store.DataDir())
		defer db.Close()
		opts = append(opts, web.WithIndex(db))
	} else {
		golog.Default.Warnf("search index not found, /api/search falls back to substring matching")
	}

	srv := &http.Server{
		Addr:    serveAddr,
		Handler: web.NewServer(store, opts...).Handler(),
	}

	errCh := make(chan error, 1)
	go func() {
		golog.Default.Infof("serving on %s (data dir %s)", serveAddr, store.DataDir())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-cmd.Context().Done():
		golog.Default.Infof("shutting down")
	case err := <-errCh:
		exitWithError(ExitError, "serving: %v", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		exitWithError(ExitError, "shutdown: %v", err)
	}

	return nil
}
