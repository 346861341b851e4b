package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// GlobalConfig represents configuration stored in
// ~/.config/akg/config.yml. Environment variables take precedence over
// file values; the file is for credentials and overrides that should
// survive across shells.
type GlobalConfig struct {
	ScopusAPIKey string `yaml:"scopus_api_key,omitempty"`
	DataDir      string `yaml:"data_dir,omitempty"`
	StaffURL     string `yaml:"staff_url,omitempty"`
	MaxPapers    int    `yaml:"max_papers,omitempty"`
}

const (
	// GlobalConfigDir is the directory name under XDG_CONFIG_HOME.
	GlobalConfigDir = "akg"
	// GlobalConfigFile is the config file name.
	GlobalConfigFile = "config.yml"
)

// GlobalConfigPath returns the path to the global config file.
// Respects XDG_CONFIG_HOME, defaults to ~/.config/akg/config.yml.
func GlobalConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, GlobalConfigDir, GlobalConfigFile)
}

// LoadGlobalConfig loads the global configuration file.
// Returns an empty config (not an error) if the file doesn't exist.
func LoadGlobalConfig() (*GlobalConfig, error) {
	path := GlobalConfigPath()
	if path == "" {
		return &GlobalConfig{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &GlobalConfig{}, nil
		}
		return nil, fmt.Errorf("reading global config: %w", err)
	}

	var cfg GlobalConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing global config: %w", err)
	}

	return &cfg, nil
}

// Save writes the global configuration file, creating its directory
// when needed.
func (c *GlobalConfig) Save() error {
	path := GlobalConfigPath()
	if path == "" {
		return fmt.Errorf("cannot determine config path")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding global config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing global config: %w", err)
	}
	return nil
}

// APIKey resolves the Scopus API key: SCOPUS_API_KEY env first, then
// the global config file. Empty means unconfigured.
func (c *GlobalConfig) APIKey() string {
	if key := os.Getenv("SCOPUS_API_KEY"); key != "" {
		return key
	}
	return c.ScopusAPIKey
}

// ResolveDataDir resolves the data directory: CACHE_DIRECTORY env,
// then the config file, then the default.
func (c *GlobalConfig) ResolveDataDir() string {
	if dir := os.Getenv("CACHE_DIRECTORY"); dir != "" {
		return dir
	}
	if c.DataDir != "" {
		return c.DataDir
	}
	return DefaultDataDir
}
