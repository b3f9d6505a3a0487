// Package config handles TOML configuration loading with environment
// variable substitution.
package config

import (
	"fmt"
	"os"
	"regexp"

	"github.com/BurntSushi/toml"
)

// Config is the root configuration structure.
type Config struct {
	Log         LogConfig      `toml:"log"`
	Database    DatabaseConfig `toml:"database"`
	RootFolders []RootFolder   `toml:"root_folder"`
	Quality     QualityConfig  `toml:"quality"`
	Import      ImportConfig   `toml:"import"`
	Search      SearchConfig   `toml:"search"`
	Indexers    IndexersConfig `toml:"indexers"`
}

type LogConfig struct {
	Level string `toml:"level"`
}

type DatabaseConfig struct {
	Path string `toml:"path"`
}

// RootFolder is a library root with the defaults applied to authors created
// under it during import.
type RootFolder struct {
	Path            string   `toml:"path"`
	QualityProfile  string   `toml:"quality_profile"`
	MetadataProfile string   `toml:"metadata_profile"`
	Monitor         string   `toml:"monitor"` // all, existing, none
	Calibre         bool     `toml:"calibre"` // calibre-managed author/book/files layout
	Tags            []string `toml:"tags"`
}

type QualityConfig struct {
	Default  string                    `toml:"default"`
	Profiles map[string]QualityProfile `toml:"profiles"`
}

// QualityProfile is an ordered accept list, best quality first.
type QualityProfile struct {
	Accept []string `toml:"accept"`
}

type ImportConfig struct {
	RecycleBin    string `toml:"recycle_bin"` // empty disables recycling, files are deleted outright
	Mode          string `toml:"mode"`        // auto, move, copy
	AddNewAuthors bool   `toml:"add_new_authors"`
}

type SearchConfig struct {
	MaxConcurrency int   `toml:"max_concurrency"` // concurrent indexer fetches
	MaxSizeMB      int64 `toml:"max_size_mb"`     // 0 means unlimited
}

type IndexersConfig struct {
	Newznab []NewznabConfig `toml:"newznab"`
}

// NewznabConfig describes one newznab-compatible indexer.
type NewznabConfig struct {
	Name        string   `toml:"name"`
	URL         string   `toml:"url"`
	APIKey      string   `toml:"api_key"`
	Priority    int      `toml:"priority"` // lower wins ties, 0 means default
	Tags        []string `toml:"tags"`
	Automatic   bool     `toml:"automatic"`
	Interactive bool     `toml:"interactive"`
}

// Load reads and parses the configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	content, missing := substituteEnvVars(string(data))
	if len(missing) > 0 {
		return nil, &ConfigError{Path: path, Missing: missing}
	}

	var cfg Config
	if _, err := toml.Decode(content, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	// Apply defaults
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Database.Path == "" {
		cfg.Database.Path = "./data/shelfarr.db"
	}
	if cfg.Import.Mode == "" {
		cfg.Import.Mode = "auto"
	}
	if cfg.Search.MaxConcurrency == 0 {
		cfg.Search.MaxConcurrency = 10
	}

	return &cfg, nil
}

// substituteEnvVars replaces ${VAR_NAME} with environment variable values
// and reports the variables it could not resolve.
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

func substituteEnvVars(content string) (string, []string) {
	var missing []string
	result := envVarPattern.ReplaceAllStringFunc(content, func(match string) string {
		varName := match[2 : len(match)-1] // Strip ${ and }
		if value, ok := os.LookupEnv(varName); ok {
			return value
		}
		missing = append(missing, varName)
		return match
	})
	return result, missing
}
