package catalog

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadStoreReturnsEmptyWhenFileMissing(t *testing.T) {
	store, err := LoadStore(filepath.Join(t.TempDir(), "absent.json"))

	require.NoError(t, err)
	assert.Empty(t, store.Boxes)
	assert.Empty(t, store.Pallets)
}

func TestSaveStoreThenLoadStoreRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "presets.json")
	store := Store{
		Boxes:   []BoxPreset{{Name: "Custom", Length: 25, Width: 25, Height: 25, Weight: 4}},
		Pallets: []PalletPreset{{Name: "Half Pallet", Width: 80, Depth: 60, Height: 100, MaxWeight: 500}},
	}

	require.NoError(t, SaveStore(path, store))

	loaded, err := LoadStore(path)

	require.NoError(t, err)
	require.Len(t, loaded.Boxes, 1)
	assert.Equal(t, "Custom", loaded.Boxes[0].Name)
	require.Len(t, loaded.Pallets, 1)
	assert.Equal(t, "Half Pallet", loaded.Pallets[0].Name)
}

func TestMergeStoreSkipsDuplicateNames(t *testing.T) {
	existing := Store{
		Boxes:   []BoxPreset{{Name: "Custom", Length: 25, Width: 25, Height: 25, Weight: 4}},
		Pallets: []PalletPreset{{Name: "Half Pallet", Width: 80, Depth: 60, Height: 100, MaxWeight: 500}},
	}
	imported := Store{
		Boxes: []BoxPreset{
			{Name: "Custom", Length: 99, Width: 99, Height: 99, Weight: 99},
			{Name: "Tote", Length: 35, Width: 25, Height: 20, Weight: 3},
		},
		Pallets: []PalletPreset{{Name: "Euro Half", Width: 80, Depth: 60, Height: 100, MaxWeight: 500}},
	}

	merged := MergeStore(existing, imported)

	require.Len(t, merged.Boxes, 2)
	assert.Equal(t, "Custom", merged.Boxes[0].Name)
	assert.Equal(t, 25.0, merged.Boxes[0].Length, "existing entry must win over an imported duplicate name")
	assert.Equal(t, "Tote", merged.Boxes[1].Name)
	require.Len(t, merged.Pallets, 2)
	assert.Equal(t, "Euro Half", merged.Pallets[1].Name)
}

func TestImportStoreMergesFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "import.json")
	require.NoError(t, SaveStore(path, Store{
		Boxes: []BoxPreset{{Name: "Tote", Length: 35, Width: 25, Height: 20, Weight: 3}},
	}))
	existing := Store{Boxes: []BoxPreset{{Name: "Custom", Length: 25, Width: 25, Height: 25, Weight: 4}}}

	merged, err := ImportStore(path, existing)

	require.NoError(t, err)
	require.Len(t, merged.Boxes, 2)
}
