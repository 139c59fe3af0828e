package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/palletpack/internal/catalog"
	"github.com/piwi3910/palletpack/internal/engine"
)

func TestLoadReturnsDefaultsWhenFileMissing(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.json"))

	require.NoError(t, err)
	assert.Equal(t, engine.WeightAware, cfg.DefaultVariant)
	assert.Equal(t, 0.8, cfg.DefaultSupportThreshold)
}

func TestSaveThenLoadRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	cfg := DefaultAppConfig()
	cfg.DefaultVariant = engine.SFC
	cfg.DefaultPalletWidth = 100

	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, engine.SFC, loaded.DefaultVariant)
	assert.Equal(t, 100.0, loaded.DefaultPalletWidth)
}

func TestWithRecentCatalogueDedupesAndTrims(t *testing.T) {
	cfg := DefaultAppConfig()
	cfg.MaxRecent = 2

	cfg = cfg.WithRecentCatalogue("a.csv")
	cfg = cfg.WithRecentCatalogue("b.csv")
	cfg = cfg.WithRecentCatalogue("a.csv")

	require.Len(t, cfg.RecentCatalogues, 2)
	assert.Equal(t, "a.csv", cfg.RecentCatalogues[0])
}

func TestToOptionsMirrorsConfigDefaults(t *testing.T) {
	cfg := DefaultAppConfig()

	opts := cfg.ToOptions()

	assert.Equal(t, cfg.DefaultSupportThreshold, opts.SupportThreshold)
	assert.Equal(t, cfg.DefaultGridStep, opts.GridStep)
}

func TestExportAllThenImportAllRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "backup.json")
	cfg := DefaultAppConfig()
	cfg.DefaultVariant = engine.LAFF
	presets := catalog.Store{
		Boxes: []catalog.BoxPreset{{Name: "Custom", Length: 25, Width: 25, Height: 25, Weight: 4}},
	}

	require.NoError(t, ExportAll(path, cfg, presets, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)))

	backup, err := ImportAll(path)

	require.NoError(t, err)
	assert.Equal(t, "1.0.0", backup.Version)
	assert.Equal(t, engine.LAFF, backup.Config.DefaultVariant)
	require.Len(t, backup.Presets.Boxes, 1)
	assert.Equal(t, "Custom", backup.Presets.Boxes[0].Name)
}

func TestImportAllRejectsMissingVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad-backup.json")
	require.NoError(t, Save(path, DefaultAppConfig()))

	_, err := ImportAll(path)

	assert.Error(t, err)
}
