package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/piwi3910/palletpack/internal/catalog"
)

// Backup is the combined application-state document written by
// ExportAll: the persisted defaults plus the user's preset store,
// bundled into one importable/exportable file.
type Backup struct {
	Version   string        `json:"version"`
	CreatedAt string        `json:"created_at"`
	Config    AppConfig     `json:"config"`
	Presets   catalog.Store `json:"presets"`
}

// ExportAll writes config and the preset store to a single backup file
// at path, creating parent directories as needed.
func ExportAll(path string, cfg AppConfig, presets catalog.Store, now time.Time) error {
	backup := Backup{
		Version:   "1.0.0",
		CreatedAt: now.UTC().Format(time.RFC3339),
		Config:    cfg,
		Presets:   presets,
	}
	data, err := json.MarshalIndent(backup, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal backup: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create backup directory: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// ImportAll reads a backup file written by ExportAll. The caller
// decides whether and how to apply the contained config and presets.
func ImportAll(path string) (Backup, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Backup{}, fmt.Errorf("read backup: %w", err)
	}
	var backup Backup
	if err := json.Unmarshal(data, &backup); err != nil {
		return Backup{}, fmt.Errorf("parse backup: %w", err)
	}
	if backup.Version == "" {
		return Backup{}, fmt.Errorf("invalid backup file: missing version field")
	}
	if backup.Config.RecentCatalogues == nil {
		backup.Config.RecentCatalogues = []string{}
	}
	if backup.Presets.Boxes == nil {
		backup.Presets.Boxes = []catalog.BoxPreset{}
	}
	if backup.Presets.Pallets == nil {
		backup.Presets.Pallets = []catalog.PalletPreset{}
	}
	return backup, nil
}
