package engine

import (
	"math"
	"sort"

	"github.com/piwi3910/palletpack/internal/model"
)

// DefaultGridStep is the default floor-grid and spiral radial step, in cm.
const DefaultGridStep = 15.0

// floorGrid enumerates the integer lattice {(i*step, j*step, 0)} within
// the pallet footprint.
func floorGrid(pallet model.Pallet, step float64) []model.Point {
	if step <= 0 {
		step = DefaultGridStep
	}
	var pts []model.Point
	for x := 0.0; x < pallet.Width; x += step {
		for y := 0.0; y < pallet.Depth; y += step {
			pts = append(pts, model.Point{X: x, Y: y, Z: 0})
		}
	}
	return pts
}

// floorCorners returns the four corners of the pallet floor.
func floorCorners(pallet model.Pallet) []model.Point {
	return []model.Point{
		{X: 0, Y: 0, Z: 0},
		{X: pallet.Width, Y: 0, Z: 0},
		{X: 0, Y: pallet.Depth, Z: 0},
		{X: pallet.Width, Y: pallet.Depth, Z: 0},
	}
}

// topCorners returns the four top-face corners of a placed box.
func topCorners(p model.PlacedBox) []model.Point {
	z := p.Position.Z + p.Effective.Dz
	return []model.Point{
		{X: p.Position.X, Y: p.Position.Y, Z: z},
		{X: p.Position.X + p.Effective.Dx, Y: p.Position.Y, Z: z},
		{X: p.Position.X, Y: p.Position.Y + p.Effective.Dy, Z: z},
		{X: p.Position.X + p.Effective.Dx, Y: p.Position.Y + p.Effective.Dy, Z: z},
	}
}

// spiralPositions enumerates a spiral of grid points around the pallet
// centre: radii step outward by step, each radius emitting
// ceil(2*pi*r/step) angular samples, clamped to the floor plane.
func spiralPositions(pallet model.Pallet, step float64) []model.Point {
	if step <= 0 {
		step = DefaultGridStep
	}
	cx, cy := pallet.Width/2, pallet.Depth/2
	pts := []model.Point{{X: cx, Y: cy, Z: 0}}
	pts = append(pts, floorCorners(pallet)...)

	maxR := math.Hypot(pallet.Width, pallet.Depth)
	for r := step; r <= maxR; r += step {
		samples := int(math.Ceil(2 * math.Pi * r / step))
		if samples < 1 {
			samples = 1
		}
		for i := 0; i < samples; i++ {
			theta := 2 * math.Pi * float64(i) / float64(samples)
			x := clamp(cx+r*math.Cos(theta), 0, pallet.Width)
			y := clamp(cy+r*math.Sin(theta), 0, pallet.Depth)
			pts = append(pts, model.Point{X: x, Y: y, Z: 0})
		}
	}
	// Fallback coarse grid, in case the spiral leaves gaps near the edges.
	pts = append(pts, floorGrid(pallet, step*2)...)
	return pts
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// dedupeSortByZThenRadius removes duplicate points (within 1e-6) and
// sorts by (z, x^2+y^2) ascending — the ordering used for the
// corner-points and extreme-points candidate sets.
func dedupeSortByZThenRadius(pts []model.Point) []model.Point {
	seen := make(map[model.Point]bool, len(pts))
	out := make([]model.Point, 0, len(pts))
	for _, p := range pts {
		key := model.Point{X: round6(p.X), Y: round6(p.Y), Z: round6(p.Z)}
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, key)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Z != out[j].Z {
			return out[i].Z < out[j].Z
		}
		ri := out[i].X*out[i].X + out[i].Y*out[i].Y
		rj := out[j].X*out[j].X + out[j].Y*out[j].Y
		return ri < rj
	})
	return out
}

func round6(v float64) float64 {
	return math.Round(v*1e6) / 1e6
}

// capCandidates trims points to the configured cap, keeping the
// lowest-z (and, within equal z, lowest-radius) points, and reports
// whether any trimming occurred.
func capCandidates(pts []model.Point, capacity int) ([]model.Point, bool) {
	if capacity <= 0 {
		capacity = DefaultCandidateCap
	}
	sorted := dedupeSortByZThenRadius(pts)
	if len(sorted) <= capacity {
		return sorted, false
	}
	return sorted[:capacity], true
}

// pointInsideBox reports whether p lies strictly inside a placed box's
// interior (used to prune extreme/corner points that become interior
// after a new placement).
func pointInsideBox(p model.Point, b model.PlacedBox) bool {
	return p.X > b.Position.X && p.X < b.Position.X+b.Effective.Dx &&
		p.Y > b.Position.Y && p.Y < b.Position.Y+b.Effective.Dy &&
		p.Z > b.Position.Z && p.Z < b.Position.Z+b.Effective.Dz
}
