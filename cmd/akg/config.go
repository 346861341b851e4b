package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kmitl-it/advisorkg/internal/config"
)

func init() {
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config [key] [value]",
	Short: "Get or set configuration values",
	Long: `Get or set global configuration values.

Usage:
  akg config                              # Show all config
  akg config data-dir                     # Get specific value
  akg config data-dir /var/lib/akg        # Set value
  akg config scopus-api-key <key>         # Store the API key

Keys:
  scopus-api-key  Scopus API key (SCOPUS_API_KEY env takes precedence)
  data-dir        Cache directory (CACHE_DIRECTORY env takes precedence)
  staff-url       Staff directory base URL override
  max-papers      Papers fetched per professor`,
	Args: cobra.MaximumNArgs(2),
	RunE: runConfig,
}

// ConfigResponse shows the resolved configuration.
type ConfigResponse struct {
	Path             string `json:"path"`
	DataDir          string `json:"data_dir"`
	StaffURL         string `json:"staff_url,omitempty"`
	MaxPapers        int    `json:"max_papers"`
	APIKeyConfigured bool   `json:"api_key_configured"`
}

// UpdateResponse is the response for config set.
type UpdateResponse struct {
	Status string `json:"status"`
	Key    string `json:"key"`
	Value  string `json:"value"`
}

func runConfig(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()

	if len(args) == 0 {
		resp := ConfigResponse{
			Path:             config.GlobalConfigPath(),
			DataDir:          cfg.ResolveDataDir(),
			StaffURL:         cfg.StaffURL,
			MaxPapers:        resolveMaxPapers(0, cfg),
			APIKeyConfigured: cfg.APIKey() != "",
		}
		if humanOutput {
			fmt.Printf("config file:    %s\n", resp.Path)
			fmt.Printf("data-dir:       %s\n", resp.DataDir)
			fmt.Printf("staff-url:      %s\n", orDefault(resp.StaffURL, config.StaffBaseURL))
			fmt.Printf("max-papers:     %d\n", resp.MaxPapers)
			fmt.Printf("scopus-api-key: %s\n", configuredLabel(resp.APIKeyConfigured))
			return nil
		}
		return outputJSON(resp)
	}

	key := normalizeKey(args[0])

	if len(args) == 1 {
		var value string
		switch key {
		case "data-dir":
			value = cfg.ResolveDataDir()
		case "staff-url":
			value = cfg.StaffURL
		case "max-papers":
			value = strconv.Itoa(resolveMaxPapers(0, cfg))
		case "scopus-api-key":
			value = configuredLabel(cfg.APIKey() != "")
		default:
			exitWithError(ExitError, "unknown configuration key: %s", args[0])
		}
		if humanOutput {
			fmt.Println(value)
			return nil
		}
		return outputJSON(map[string]string{strings.ReplaceAll(key, "-", "_"): value})
	}

	value := args[1]
	switch key {
	case "data-dir":
		cfg.DataDir = value
	case "staff-url":
		cfg.StaffURL = value
	case "scopus-api-key":
		cfg.ScopusAPIKey = value
	case "max-papers":
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 {
			exitWithError(ExitError, "max-papers must be a positive integer, got %q", value)
		}
		cfg.MaxPapers = n
	default:
		exitWithError(ExitError, "unknown configuration key: %s", args[0])
	}

	if err := cfg.Save(); err != nil {
		exitWithError(ExitConfigError, "saving config: %v", err)
	}

	if humanOutput {
		fmt.Printf("Updated %s\n", key)
		return nil
	}
	return outputJSON(UpdateResponse{Status: "updated", Key: key, Value: value})
}

// normalizeKey converts key formats (data_dir, DataDir) to kebab-case.
func normalizeKey(key string) string {
	key = strings.ToLower(key)
	return strings.ReplaceAll(key, "_", "-")
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func configuredLabel(set bool) string {
	if set {
		return "(configured)"
	}
	return "(not set)"
}
