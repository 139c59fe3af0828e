package engine

import (
	"github.com/piwi3910/palletpack/internal/geom"
	"github.com/piwi3910/palletpack/internal/model"
)

// cornerPointsPolicy implements the Corner-Points variant: sort
// largest-and-most-cubic first, maintain a running corner-point set
// seeded from each placement's seven offsets plus pairwise combinations,
// and score on distance-to-origin with a compactness bonus.
type cornerPointsPolicy struct {
	candidateCap int
	points       []model.Point
}

func newCornerPointsPolicy(capacity int) *cornerPointsPolicy {
	return &cornerPointsPolicy{candidateCap: capacity}
}

func (p *cornerPointsPolicy) Name() string { return "Corner-Points" }

func (p *cornerPointsPolicy) Less(a, b model.Box) bool {
	va, vb := a.Volume(), b.Volume()
	if va != vb {
		return va > vb
	}
	ratioA := minmaxRatio(a.Length, a.Width)
	ratioB := minmaxRatio(b.Length, b.Width)
	return ratioA > ratioB
}

func minmaxRatio(l, w float64) float64 {
	if l == 0 || w == 0 {
		return 0
	}
	if l < w {
		return l / w
	}
	return w / l
}

func (p *cornerPointsPolicy) Positions(box model.Box, placed []model.PlacedBox, pallet model.Pallet) ([]model.Point, bool) {
	if len(placed) == 0 {
		p.points = []model.Point{{X: 0, Y: 0, Z: 0}}
	}
	pts := append([]model.Point(nil), p.points...)
	pts = append(pts, floorCorners(pallet)...)
	return capCandidates(pts, p.candidateCap)
}

func (p *cornerPointsPolicy) Orientations(box model.Box) []geom.Dims3 {
	return geom.Orientations(box.Length, box.Width, box.Height)
}

func (p *cornerPointsPolicy) Accept(c Candidate) (bool, model.RejectionReason) {
	support := geom.SupportRatio(c.Pos, c.Dims, c.GeomBoxes())
	if support < 0.5 {
		return false, model.ReasonNoSupport
	}
	return true, ""
}

// Score favors low, origin-hugging, compact placements: the x+y distance
// from the pallet origin, plus height penalized twice as heavily (favor
// flat layers), minus one point for every already-placed +x or +y face
// the candidate sits flush against; a candidate flush against none
// (once any box is placed) pays an isolation penalty of 5.
func (p *cornerPointsPolicy) Score(c Candidate) float64 {
	dist := c.Pos.X + c.Pos.Y
	isolation := 0.0
	flushCount := 0
	for _, pb := range c.Placed {
		if sameValue(pb.Position.X+pb.Effective.Dx, c.Pos.X) {
			flushCount++
		}
		if sameValue(pb.Position.Y+pb.Effective.Dy, c.Pos.Y) {
			flushCount++
		}
	}
	if flushCount == 0 && len(c.Placed) > 0 {
		isolation = 5
	}
	compactBonus := float64(flushCount)
	return dist + 2*c.Pos.Z - compactBonus + isolation
}

func (p *cornerPointsPolicy) ShortCircuit(Candidate) bool { return false }

// AfterPlace seeds the seven corners of the new box other than its
// origin corner, then pairs each seed with up to the eight most recent
// prior points, two mixed points per pair (up to 112 in all), so
// corners from different boxes can compose into tighter nesting points,
// and prunes any point, old or new, that lies strictly inside a placed
// box. The mixed points are not the full cross product of both boxes'
// coordinates.
func (p *cornerPointsPolicy) AfterPlace(placed model.PlacedBox, allPlaced []model.PlacedBox) {
	x, y, z := placed.Position.X, placed.Position.Y, placed.Position.Z
	dx, dy, dz := placed.Effective.Dx, placed.Effective.Dy, placed.Effective.Dz

	seeds := []model.Point{
		{X: x + dx, Y: y, Z: z},
		{X: x, Y: y + dy, Z: z},
		{X: x, Y: y, Z: z + dz},
		{X: x + dx, Y: y + dy, Z: z},
		{X: x + dx, Y: y, Z: z + dz},
		{X: x, Y: y + dy, Z: z + dz},
		{X: x + dx, Y: y + dy, Z: z + dz},
	}

	combined := make([]model.Point, 0, 64)
	prior := p.points
	if len(prior) > 8 {
		prior = prior[len(prior)-8:]
	}
	for _, a := range seeds {
		for _, b := range prior {
			combined = append(combined, model.Point{X: a.X, Y: b.Y, Z: a.Z}, model.Point{X: b.X, Y: a.Y, Z: b.Z})
		}
	}

	all := append(append(append([]model.Point(nil), p.points...), seeds...), combined...)
	kept := make([]model.Point, 0, len(all))
	for _, pt := range all {
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
	p.points = kept
}

func (p *cornerPointsPolicy) Reset() {
	p.points = nil
}
