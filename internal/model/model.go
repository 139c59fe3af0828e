// Package model holds the pallet-loading domain types: Box, PlacedBox,
// Pallet, and PalletState. Types are plain structs: JSON tags, a NewX
// constructor that assigns a short uuid, no hidden mutable state.
package model

import (
	"github.com/google/uuid"

	"github.com/piwi3910/palletpack/internal/geom"
)

// Box is an input item: a rectangular cuboid with a weight. Immutable
// once created — callers must not mutate a Box after handing it to a
// Packer; the packer copies the fields it needs onto PlacedBox.
type Box struct {
	ID     string  `json:"id"`
	Length float64 `json:"length"` // cm
	Width  float64 `json:"width"`  // cm
	Height float64 `json:"height"` // cm
	Weight float64 `json:"weight"` // kg
}

// NewBox creates a Box with a generated short id.
func NewBox(length, width, height, weight float64) Box {
	return Box{
		ID:     uuid.New().String()[:8],
		Length: length,
		Width:  width,
		Height: height,
		Weight: weight,
	}
}

// Volume returns the box's nominal volume in cubic cm.
func (b Box) Volume() float64 {
	return b.Length * b.Width * b.Height
}

// PlacedBox is a Box plus the position and effective (post-rotation)
// dimensions chosen by the packer. Never mutated after creation.
type PlacedBox struct {
	Box
	Position  Point `json:"position"`
	Effective Dims  `json:"effective"`
}

// Point is a position in pallet coordinates (x: width axis, y: depth
// axis, z: height axis), in centimetres.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Dims is an effective, post-rotation extent.
type Dims struct {
	Dx float64 `json:"dx"`
	Dy float64 `json:"dy"`
	Dz float64 `json:"dz"`
}

// Volume returns the placed box's effective volume (identical to its
// nominal volume — rotation permutes dimensions, it never changes them).
func (d Dims) Volume() float64 { return d.Dx * d.Dy * d.Dz }

// Level is the coarse ⌊z/20cm⌋ index used only for analytics grouping.
func (p PlacedBox) Level() int {
	return int(p.Position.Z / LevelHeight)
}

// LevelHeight is the z-extent of one analytics "level" bucket.
const LevelHeight = 20.0

// AsGeomBox adapts a PlacedBox to the geometric kernel's plain Box shape.
func (p PlacedBox) AsGeomBox() geom.Box {
	return geom.Box{
		Pos:  geom.Point3{X: p.Position.X, Y: p.Position.Y, Z: p.Position.Z},
		Dims: geom.Dims3{Dx: p.Effective.Dx, Dy: p.Effective.Dy, Dz: p.Effective.Dz},
	}
}

// Pallet is the rectangular container. Immutable once created.
type Pallet struct {
	Width     float64 `json:"width"`      // cm, x axis
	Depth     float64 `json:"depth"`      // cm, y axis
	Height    float64 `json:"height"`     // cm, z axis
	MaxWeight float64 `json:"max_weight"` // kg
}

// Volume returns the pallet's usable volume in cubic cm.
func (p Pallet) Volume() float64 {
	return p.Width * p.Depth * p.Height
}

// RejectionReason tags why a candidate placement, or a box entirely,
// could not be placed. Never surfaced as an error — geometric rejection
// is a tracked outcome, not a failure.
type RejectionReason string

const (
	ReasonNoValidOrientation  RejectionReason = "no_valid_orientation"
	ReasonNoSupport           RejectionReason = "no_support"
	ReasonIntersectsExisting  RejectionReason = "intersects_existing"
	ReasonOverWeightCap       RejectionReason = "over_weight_cap"
	ReasonWeightRuleViolated  RejectionReason = "weight_rule_violated"
	ReasonOutOfBounds         RejectionReason = "out_of_bounds"
)

// UnplacedBox records a box that could not be placed, and why.
type UnplacedBox struct {
	Box    Box             `json:"box"`
	Reason RejectionReason `json:"reason"`
	Note   string          `json:"note"`
}

// PalletState is the mutable container of placed items that a single
// Packer invocation owns for its lifetime. It is never shared between
// concurrent packing tasks.
type PalletState struct {
	Pallet    Pallet
	Placed    []PlacedBox
	Weight    float64
}

// NewPalletState initializes an empty state for the given pallet.
func NewPalletState(pallet Pallet) *PalletState {
	return &PalletState{Pallet: pallet}
}

// PlacedAsGeomBoxes adapts every placed item to the geometric kernel's
// plain Box shape, for support/overlap queries against the whole state.
func (s *PalletState) PlacedAsGeomBoxes() []geom.Box {
	boxes := make([]geom.Box, len(s.Placed))
	for i, p := range s.Placed {
		boxes[i] = p.AsGeomBox()
	}
	return boxes
}

// Commit appends a placement and updates the running weight. The caller
// is responsible for having already validated the placement against the
// geometric kernel.
func (s *PalletState) Commit(p PlacedBox) {
	s.Placed = append(s.Placed, p)
	s.Weight += p.Weight
}

// Reset clears all placed items and weight, keeping the pallet
// configuration. Packer.Pack does not call it; it starts every run
// with a fresh state from NewPalletState.
func (s *PalletState) Reset() {
	s.Placed = s.Placed[:0]
	s.Weight = 0
}
