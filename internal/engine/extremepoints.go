package engine

import (
	"math/rand"

	"github.com/piwi3910/palletpack/internal/geom"
	"github.com/piwi3910/palletpack/internal/model"
)

// extremePointsPolicy implements the Extreme-Points variant: sort by
// volume with a seeded jitter for tie-breaking reproducibility, search
// the running extreme-point set, and score candidates on a blend of
// distance-from-origin, height, and how many faces they touch. The
// seeded *rand.Rand gives reproducible placement-order jitter across runs.
type extremePointsPolicy struct {
	rng          *rand.Rand
	seed         int64
	candidateCap int
	points       []model.Point
}

func newExtremePointsPolicy(seed int64, capacity int) *extremePointsPolicy {
	if seed == 0 {
		seed = 1
	}
	return &extremePointsPolicy{rng: rand.New(rand.NewSource(seed)), seed: seed, candidateCap: capacity}
}

func (p *extremePointsPolicy) Name() string { return "Extreme-Points" }

func (p *extremePointsPolicy) Less(a, b model.Box) bool {
	va := a.Volume() * p.jitter()
	vb := b.Volume() * p.jitter()
	return va > vb
}

// jitter returns a reproducible multiplier in [0.9, 1.1).
func (p *extremePointsPolicy) jitter() float64 {
	return 0.9 + 0.2*p.rng.Float64()
}

func (p *extremePointsPolicy) Positions(box model.Box, placed []model.PlacedBox, pallet model.Pallet) ([]model.Point, bool) {
	if len(placed) == 0 {
		p.points = []model.Point{{X: 0, Y: 0, Z: 0}}
	}
	pts := append([]model.Point(nil), p.points...)
	pts = append(pts, floorCorners(pallet)...)
	return capCandidates(pts, p.candidateCap)
}

func (p *extremePointsPolicy) Orientations(box model.Box) []geom.Dims3 {
	return geom.Orientations(box.Length, box.Width, box.Height)
}

func (p *extremePointsPolicy) Accept(c Candidate) (bool, model.RejectionReason) {
	support := geom.SupportRatio(c.Pos, c.Dims, c.GeomBoxes())
	if support < 0.5 {
		return false, model.ReasonNoSupport
	}
	return true, ""
}

// Score blends normalized position, placement height, and a bonus for
// candidates that sit flush against two or more existing faces (the
// "extreme point" ideal): lower is better.
func (p *extremePointsPolicy) Score(c Candidate) float64 {
	norm := c.Pos.X + c.Pos.Y + c.Pos.Z
	contactBonus := 0.0
	for _, pb := range c.Placed {
		if sameValue(pb.Position.X+pb.Effective.Dx, c.Pos.X) || sameValue(pb.Position.Y+pb.Effective.Dy, c.Pos.Y) {
			contactBonus += 1
		}
	}
	edgeBonus := 0.0
	if c.Pos.X == 0 {
		edgeBonus += 1
	}
	if c.Pos.Y == 0 {
		edgeBonus += 1
	}
	return norm + c.Pos.Z - edgeBonus - contactBonus
}

func sameValue(a, b float64) bool {
	diff := a - b
	if diff < 0 {
		diff = -diff
	}
	return diff < 1e-6
}

func (p *extremePointsPolicy) ShortCircuit(Candidate) bool { return false }

// AfterPlace drops every held point that lies strictly inside a placed
// box and adds the seven corners of the just-placed box other than its
// origin corner. The point the box was placed at is kept (it is not
// strictly inside), and no points are projected onto previously placed
// boxes.
func (p *extremePointsPolicy) AfterPlace(placed model.PlacedBox, allPlaced []model.PlacedBox) {
	x, y, z := placed.Position.X, placed.Position.Y, placed.Position.Z
	dx, dy, dz := placed.Effective.Dx, placed.Effective.Dy, placed.Effective.Dz

	next := []model.Point{
		{X: x + dx, Y: y, Z: z},
		{X: x, Y: y + dy, Z: z},
		{X: x, Y: y, Z: z + dz},
		{X: x + dx, Y: y + dy, Z: z},
		{X: x + dx, Y: y, Z: z + dz},
		{X: x, Y: y + dy, Z: z + dz},
		{X: x + dx, Y: y + dy, Z: z + dz},
	}

	kept := make([]model.Point, 0, len(p.points))
	for _, pt := range p.points {
		inside := false
		for _, pb := range allPlaced {
			if pointInsideBox(pt, pb) {
				inside = true
				break
			}
		}
		if !inside {
			kept = append(kept, pt)
		}
	}
	p.points = append(kept, next...)
}

func (p *extremePointsPolicy) Reset() {
	p.rng = rand.New(rand.NewSource(p.seed))
	p.points = nil
}
