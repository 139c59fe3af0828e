// Package geom implements the pure geometric kernel shared by every
// packing variant: overlap testing, containment, support-area
// computation, orientation enumeration, and the weight predicates.
//
// Every function here is pure: it takes plain coordinates and returns a
// result with no access to a Packer or policy. This lets the kernel be
// tested directly without constructing any higher-level state.
package geom

import "math"

// supportTolerance is the allowed difference, in centimetres, between two
// z-coordinates for one box to be considered "resting on" another.
const supportTolerance = 0.1

// Point3 is a position in pallet coordinates: X is pallet width, Y is
// pallet depth, Z is pallet height. Pallet axes are fixed.
type Point3 struct {
	X, Y, Z float64
}

// Dims3 is an effective (post-rotation) box extent: Dx along X, Dy along
// Y, Dz along Z.
type Dims3 struct {
	Dx, Dy, Dz float64
}

// Box is the minimal shape the kernel needs: a position plus effective
// dimensions. model.PlacedBox embeds the same fields under different
// names; callers adapt with PlacedBox.AsGeomBox.
type Box struct {
	Pos  Point3
	Dims Dims3
}

// Top returns the z-coordinate of the box's top face.
func (b Box) Top() float64 { return b.Pos.Z + b.Dims.Dz }

// Overlap reports whether two axis-aligned cuboids overlap with positive
// volume. Touching faces (equal coordinates) do not count as overlap:
// projections must overlap on all three axes with positive measure.
func Overlap(a, b Box) bool {
	return intervalsOverlap(a.Pos.X, a.Pos.X+a.Dims.Dx, b.Pos.X, b.Pos.X+b.Dims.Dx) &&
		intervalsOverlap(a.Pos.Y, a.Pos.Y+a.Dims.Dy, b.Pos.Y, b.Pos.Y+b.Dims.Dy) &&
		intervalsOverlap(a.Pos.Z, a.Pos.Z+a.Dims.Dz, b.Pos.Z, b.Pos.Z+b.Dims.Dz)
}

func intervalsOverlap(aLo, aHi, bLo, bHi float64) bool {
	return aLo < bHi && bLo < aHi
}

// FitsInPallet reports whether a candidate placement lies wholly within
// the pallet's [0,W]x[0,D]x[0,H] envelope.
func FitsInPallet(pos Point3, dims Dims3, w, d, h float64) bool {
	if pos.X < 0 || pos.Y < 0 || pos.Z < 0 {
		return false
	}
	return pos.X+dims.Dx <= w+1e-9 && pos.Y+dims.Dy <= d+1e-9 && pos.Z+dims.Dz <= h+1e-9
}

// SupportRatio returns the fraction, in [0,1], of the candidate's bottom
// face area covered by the union of top faces of placed boxes whose top
// sits at the candidate's z (within supportTolerance). At z == 0 the
// ratio is defined as 1 (the pallet floor fully supports).
//
// The union is approximated as a sum of individual rectangle-intersection
// areas; for the disjoint, mostly-grid-aligned layouts this packer
// produces, double counting from overlapping supporters is rare and is
// accepted as a heuristic (a literal polygon union is not worth the
// complexity budget here).
func SupportRatio(pos Point3, dims Dims3, placed []Box) float64 {
	if pos.Z <= supportTolerance {
		return 1
	}
	baseArea := dims.Dx * dims.Dy
	if baseArea <= 0 {
		return 0
	}
	var covered float64
	for _, p := range placed {
		covered += TouchingArea(pos, dims, p)
	}
	ratio := covered / baseArea
	if ratio > 1 {
		ratio = 1
	}
	return ratio
}

// TouchingArea returns the area of contact between a candidate's bottom
// face and another placed box's top face, or 0 if the other box's top is
// not within supportTolerance of the candidate's z. Exposed so policies
// that need per-supporter detail (the Weight-Aware "no heavier on
// lighter" rule) can identify which specific boxes contribute support,
// not just the aggregate ratio.
func TouchingArea(pos Point3, dims Dims3, other Box) float64 {
	if math.Abs(other.Top()-pos.Z) > supportTolerance {
		return 0
	}
	return rectIntersectionArea(
		pos.X, pos.Y, pos.X+dims.Dx, pos.Y+dims.Dy,
		other.Pos.X, other.Pos.Y, other.Pos.X+other.Dims.Dx, other.Pos.Y+other.Dims.Dy,
	)
}

// rectIntersectionArea returns the overlap area of two axis-aligned
// rectangles given as (xLo,yLo,xHi,yHi) pairs.
func rectIntersectionArea(ax0, ay0, ax1, ay1, bx0, by0, bx1, by1 float64) float64 {
	x0 := math.Max(ax0, bx0)
	y0 := math.Max(ay0, by0)
	x1 := math.Min(ax1, bx1)
	y1 := math.Min(ay1, by1)
	if x1 <= x0 || y1 <= y0 {
		return 0
	}
	return (x1 - x0) * (y1 - y0)
}

// EdgeSupport counts how many of the candidate's four base corners land
// on a supporting placed box's top face (closed rectangle, within
// supportTolerance on z). Used only by the Weight-Aware variant's strict
// mode (support_threshold > 0.7).
func EdgeSupport(pos Point3, dims Dims3, placed []Box) int {
	corners := [4]Point3{
		{X: pos.X, Y: pos.Y, Z: pos.Z},
		{X: pos.X + dims.Dx, Y: pos.Y, Z: pos.Z},
		{X: pos.X, Y: pos.Y + dims.Dy, Z: pos.Z},
		{X: pos.X + dims.Dx, Y: pos.Y + dims.Dy, Z: pos.Z},
	}
	count := 0
	for _, c := range corners {
		for _, p := range placed {
			if math.Abs(p.Top()-pos.Z) > supportTolerance {
				continue
			}
			if c.X >= p.Pos.X-supportTolerance && c.X <= p.Pos.X+p.Dims.Dx+supportTolerance &&
				c.Y >= p.Pos.Y-supportTolerance && c.Y <= p.Pos.Y+p.Dims.Dy+supportTolerance {
				count++
				break
			}
		}
	}
	return count
}

// WeightOK reports whether adding w kilograms keeps the running total at
// or under the pallet's capacity.
func WeightOK(currentWeight, w, capacity float64) bool {
	return currentWeight+w <= capacity+1e-9
}

// Orientations enumerates the up-to-six distinct permutations of a box's
// nominal (length, width, height) triple, de-duplicated: a cube yields
// one orientation, a plate (two equal sides) yields three.
func Orientations(length, width, height float64) []Dims3 {
	perms := [6][3]int{
		{0, 1, 2}, {0, 2, 1}, {1, 0, 2}, {1, 2, 0}, {2, 0, 1}, {2, 1, 0},
	}
	nominal := [3]float64{length, width, height}
	seen := make(map[Dims3]bool, 6)
	out := make([]Dims3, 0, 6)
	for _, perm := range perms {
		d := Dims3{Dx: nominal[perm[0]], Dy: nominal[perm[1]], Dz: nominal[perm[2]]}
		if seen[d] {
			continue
		}
		seen[d] = true
		out = append(out, d)
	}
	return out
}
