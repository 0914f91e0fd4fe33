// Package config handles global configuration and credential loading.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// GlobalConfig represents configuration stored in
// ~/.config/scholarmatch/config.yml. Environment variables (including ones
// loaded from .env) take precedence over file values.
type GlobalConfig struct {
	ScopusAPIKey     string `yaml:"scopus_api_key,omitempty"`
	OpenAlexMailto   string `yaml:"openalex_mailto,omitempty"`
	CrossRefMailto   string `yaml:"crossref_mailto,omitempty"`
	InstitutionCache string `yaml:"institution_cache,omitempty"`
	ResultsPath      string `yaml:"results_path,omitempty"`
	ResultsDB        string `yaml:"results_db,omitempty"`
}

const (
	// GlobalConfigDir is the directory name under XDG_CONFIG_HOME.
	GlobalConfigDir = "scholarmatch"
	// GlobalConfigFile is the config file name.
	GlobalConfigFile = "config.yml"

	// CacheDir is the directory name under XDG_CACHE_HOME.
	CacheDir = "scholarmatch"
	// InstitutionCacheFile is the default institution cache file name.
	InstitutionCacheFile = "institutions.json"
)

// globalConfigCache caches the loaded global config.
var globalConfigCache *GlobalConfig

// GlobalConfigPath returns the path to the global config file.
// Respects XDG_CONFIG_HOME, defaults to ~/.config/scholarmatch/config.yml.
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
	if globalConfigCache != nil {
		return globalConfigCache, nil
	}

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

	if cfg.InstitutionCache != "" {
		cfg.InstitutionCache = ExpandTilde(cfg.InstitutionCache)
	}

	globalConfigCache = &cfg
	return &cfg, nil
}

// ResetGlobalConfigCache clears the cached global config.
// Useful for testing.
func ResetGlobalConfigCache() {
	globalConfigCache = nil
}

// GetScopusAPIKey returns the Scopus API key, preferring the environment.
func GetScopusAPIKey() string {
	if key := os.Getenv("SCOPUS_API_KEY"); key != "" {
		return key
	}
	cfg, _ := LoadGlobalConfig()
	return cfg.ScopusAPIKey
}

// GetOpenAlexMailto returns the OpenAlex polite-pool contact address.
func GetOpenAlexMailto() string {
	if m := os.Getenv("OPENALEX_MAILTO"); m != "" {
		return m
	}
	cfg, _ := LoadGlobalConfig()
	return cfg.OpenAlexMailto
}

// GetCrossRefMailto returns the CrossRef polite-pool contact address.
func GetCrossRefMailto() string {
	if m := os.Getenv("CROSSREF_MAILTO"); m != "" {
		return m
	}
	cfg, _ := LoadGlobalConfig()
	return cfg.CrossRefMailto
}

// InstitutionCachePath returns the configured institution cache path, or the
// default under XDG_CACHE_HOME.
func InstitutionCachePath() string {
	cfg, _ := LoadGlobalConfig()
	if cfg.InstitutionCache != "" {
		return cfg.InstitutionCache
	}

	cacheHome := os.Getenv("XDG_CACHE_HOME")
	if cacheHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return InstitutionCacheFile
		}
		cacheHome = filepath.Join(home, ".cache")
	}
	return filepath.Join(cacheHome, CacheDir, InstitutionCacheFile)
}

// ExpandTilde expands a leading ~ to the user's home directory.
func ExpandTilde(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		if path == "~" {
			return home
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

// HelpfulConfigMessage returns guidance for setting up credentials.
func HelpfulConfigMessage() string {
	configPath := GlobalConfigPath()
	return fmt.Sprintf(`No Scopus API key configured.

Tip: Set SCOPUS_API_KEY in the environment or a .env file, or create %s:
  mkdir -p %s
  echo 'scopus_api_key: YOUR_KEY' > %s`,
		configPath,
		filepath.Dir(configPath),
		configPath)
}
