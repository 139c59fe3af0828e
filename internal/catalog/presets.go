package catalog

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/piwi3910/palletpack/internal/model"
)

// BoxPreset is one named standard-box entry served by GET /standard-boxes.
type BoxPreset struct {
	Name   string  `json:"name"`
	Length float64 `json:"length"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Weight float64 `json:"weight"`
}

// PalletPreset is a named standard pallet configuration.
type PalletPreset struct {
	Name      string  `json:"name"`
	Width     float64 `json:"width"`
	Depth     float64 `json:"depth"`
	Height    float64 `json:"height"`
	MaxWeight float64 `json:"max_weight"`
}

// StandardBoxes returns the built-in box presets, carried over from
// original_source/src/utils/constants.py's STANDARD_BOXES table.
func StandardBoxes() []BoxPreset {
	return []BoxPreset{
		{Name: "Small", Length: 20, Width: 15, Height: 10, Weight: 2},
		{Name: "Medium", Length: 30, Width: 20, Height: 15, Weight: 5},
		{Name: "Book Box", Length: 40, Width: 30, Height: 20, Weight: 10},
		{Name: "Large", Length: 60, Width: 40, Height: 30, Weight: 15},
		{Name: "Extra Large", Length: 80, Width: 60, Height: 40, Weight: 20},
	}
}

// StandardPallet is the original_source DEFAULT_PALLET preset.
func StandardPallet() PalletPreset {
	return PalletPreset{Name: "Standard EUR Pallet", Width: 120, Depth: 180, Height: 100, MaxWeight: 1000}
}

// ToBox converts a preset to a fresh, uniquely-identified Box.
func (p BoxPreset) ToBox() model.Box {
	return model.NewBox(p.Length, p.Width, p.Height, p.Weight)
}

// ToPallet converts a preset to a Pallet.
func (p PalletPreset) ToPallet() model.Pallet {
	return model.Pallet{Width: p.Width, Depth: p.Depth, Height: p.Height, MaxWeight: p.MaxWeight}
}

// Store is a persisted, user-extensible collection of box/pallet
// presets layered on top of the built-ins: a thin JSON file under the
// user's home config directory, load-or-empty on missing file.
type Store struct {
	Boxes   []BoxPreset    `json:"boxes"`
	Pallets []PalletPreset `json:"pallets"`
}

// NewStore returns an empty, user-preset store (built-ins are served
// separately by StandardBoxes/StandardPallet and never persisted).
func NewStore() Store {
	return Store{Boxes: []BoxPreset{}, Pallets: []PalletPreset{}}
}

// DefaultStorePath returns ~/.palletpack/presets.json, creating the
// directory if needed.
func DefaultStorePath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(home, ".palletpack")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	return filepath.Join(dir, "presets.json"), nil
}

// LoadStore reads the preset store from path, returning an empty store
// if the file does not exist.
func LoadStore(path string) (Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return NewStore(), nil
		}
		return Store{}, err
	}
	var store Store
	if err := json.Unmarshal(data, &store); err != nil {
		return Store{}, err
	}
	if store.Boxes == nil {
		store.Boxes = []BoxPreset{}
	}
	if store.Pallets == nil {
		store.Pallets = []PalletPreset{}
	}
	return store, nil
}

// SaveStore writes the preset store to path as indented JSON.
func SaveStore(path string, store Store) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(store, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// MergeStore folds imported into existing, skipping any box or pallet
// preset whose name already exists.
func MergeStore(existing, imported Store) Store {
	boxNames := make(map[string]bool, len(existing.Boxes))
	for _, b := range existing.Boxes {
		boxNames[b.Name] = true
	}
	for _, b := range imported.Boxes {
		if !boxNames[b.Name] {
			existing.Boxes = append(existing.Boxes, b)
			boxNames[b.Name] = true
		}
	}

	palletNames := make(map[string]bool, len(existing.Pallets))
	for _, p := range existing.Pallets {
		palletNames[p.Name] = true
	}
	for _, p := range imported.Pallets {
		if !palletNames[p.Name] {
			existing.Pallets = append(existing.Pallets, p)
			palletNames[p.Name] = true
		}
	}

	return existing
}

// ImportStore reads a preset store from path and merges it into
// existing via MergeStore.
func ImportStore(path string, existing Store) (Store, error) {
	imported, err := LoadStore(path)
	if err != nil {
		return existing, err
	}
	return MergeStore(existing, imported), nil
}

// LoadDefaultStore loads the preset store from DefaultStorePath.
func LoadDefaultStore() (Store, error) {
	path, err := DefaultStorePath()
	if err != nil {
		return NewStore(), err
	}
	return LoadStore(path)
}

// SaveDefaultStore saves the preset store to DefaultStorePath.
func SaveDefaultStore(store Store) error {
	path, err := DefaultStorePath()
	if err != nil {
		return err
	}
	return SaveStore(path, store)
}
