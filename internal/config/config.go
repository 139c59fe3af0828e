// Package config persists application-level defaults: the packing
// variant and options a CLI invocation starts from, and a handful of
// CLI preferences. A JSON file under the user's home directory,
// load-or-default on a missing file, indented on save.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/piwi3910/palletpack/internal/engine"
)

// AppConfig holds the defaults a CLI invocation starts from, plus a
// short history of recently used catalogue files. The HTTP API does not
// read it.
type AppConfig struct {
	// Default packing settings, used as the CLI's flag defaults.
	DefaultVariant            engine.Variant `json:"default_variant"`
	DefaultSupportThreshold   float64        `json:"default_support_threshold"`
	DefaultWeightCheckEnabled bool           `json:"default_weight_check_enabled"`
	DefaultGridStep           float64        `json:"default_grid_step"`
	DefaultCandidateCap       int            `json:"default_candidate_cap"`

	// Default pallet, used when the CLI's pallet flags are not set.
	DefaultPalletWidth     float64 `json:"default_pallet_width"`
	DefaultPalletDepth     float64 `json:"default_pallet_depth"`
	DefaultPalletHeight    float64 `json:"default_pallet_height"`
	DefaultPalletMaxWeight float64 `json:"default_pallet_max_weight"`

	// Application preferences.
	RecentCatalogues []string `json:"recent_catalogues"`
	MaxRecent        int      `json:"max_recent"`
}

// DefaultAppConfig returns an AppConfig populated with the standard
// packing defaults.
func DefaultAppConfig() AppConfig {
	opts := engine.DefaultOptions()
	return AppConfig{
		DefaultVariant:            engine.WeightAware,
		DefaultSupportThreshold:   opts.SupportThreshold,
		DefaultWeightCheckEnabled: opts.WeightCheckEnabled,
		DefaultGridStep:           opts.GridStep,
		DefaultCandidateCap:       opts.CandidateCap,
		DefaultPalletWidth:        120,
		DefaultPalletDepth:        180,
		DefaultPalletHeight:       100,
		DefaultPalletMaxWeight:    1000,
		RecentCatalogues:          []string{},
		MaxRecent:                 10,
	}
}

// ToOptions converts the persisted defaults to engine.Options.
func (c AppConfig) ToOptions() engine.Options {
	return engine.Options{
		SupportThreshold:   c.DefaultSupportThreshold,
		WeightCheckEnabled: c.DefaultWeightCheckEnabled,
		GridStep:           c.DefaultGridStep,
		CandidateCap:       c.DefaultCandidateCap,
		Seed:               1,
	}
}

// WithRecentCatalogue returns a copy of c with path pushed to the front
// of RecentCatalogues, de-duplicated and trimmed to MaxRecent.
func (c AppConfig) WithRecentCatalogue(path string) AppConfig {
	maxRecent := c.MaxRecent
	if maxRecent <= 0 {
		maxRecent = 10
	}
	recent := make([]string, 0, maxRecent)
	recent = append(recent, path)
	for _, p := range c.RecentCatalogues {
		if p == path {
			continue
		}
		if len(recent) >= maxRecent {
			break
		}
		recent = append(recent, p)
	}
	c.RecentCatalogues = recent
	return c
}

// DefaultConfigDir returns ~/.palletpack.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".palletpack")
}

// DefaultConfigPath returns ~/.palletpack/config.json.
func DefaultConfigPath() string {
	return filepath.Join(DefaultConfigDir(), "config.json")
}

// Save persists config to path as indented JSON, creating parent
// directories as needed.
func Save(path string, config AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Load reads config from path, returning DefaultAppConfig if the file
// does not exist.
func Load(path string) (AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultAppConfig(), nil
		}
		return AppConfig{}, err
	}
	var config AppConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return AppConfig{}, err
	}
	if config.RecentCatalogues == nil {
		config.RecentCatalogues = []string{}
	}
	return config, nil
}

// LoadDefault loads config from DefaultConfigPath.
func LoadDefault() (AppConfig, error) {
	return Load(DefaultConfigPath())
}

// SaveDefault saves config to DefaultConfigPath.
func SaveDefault(config AppConfig) error {
	return Save(DefaultConfigPath(), config)
}
