package engine

import (
	"sort"

	"github.com/piwi3910/palletpack/internal/geom"
	"github.com/piwi3910/palletpack/internal/model"
)

// sfcPolicy implements the Space-Filling-Curve variant: sort
// heaviest-and-biggest first (by weight, then volume; no weight-safety
// rule), walk an outward spiral of floor and top-corner
// positions from the pallet centre, and accept the first position that
// clears the floor so the curve favors a dense centre-out fill.
type sfcPolicy struct {
	gridStep     float64
	candidateCap int
}

func newSFCPolicy(gridStep float64, capacity int) *sfcPolicy {
	return &sfcPolicy{gridStep: gridStep, candidateCap: capacity}
}

func (p *sfcPolicy) Name() string { return "SFC" }

func (p *sfcPolicy) Less(a, b model.Box) bool {
	if a.Weight != b.Weight {
		return a.Weight > b.Weight
	}
	return a.Volume() > b.Volume()
}

func (p *sfcPolicy) Positions(box model.Box, placed []model.PlacedBox, pallet model.Pallet) ([]model.Point, bool) {
	pts := spiralPositions(pallet, p.gridStep)
	for _, pb := range placed {
		pts = append(pts, topCorners(pb)...)
	}
	// Keep the spiral's centre-out order within each height; only a
	// stable sort by z, so trimming drops the highest points first.
	sort.SliceStable(pts, func(i, j int) bool { return pts[i].Z < pts[j].Z })
	if p.candidateCap > 0 && len(pts) > p.candidateCap {
		return pts[:p.candidateCap], true
	}
	return pts, false
}

func (p *sfcPolicy) Orientations(box model.Box) []geom.Dims3 {
	return geom.Orientations(box.Length, box.Width, box.Height)
}

func (p *sfcPolicy) Accept(c Candidate) (bool, model.RejectionReason) {
	support := geom.SupportRatio(c.Pos, c.Dims, c.GeomBoxes())
	if support < 0.5 {
		return false, model.ReasonNoSupport
	}
	return true, ""
}

func (p *sfcPolicy) Score(c Candidate) float64 {
	return c.Pos.Z
}

func (p *sfcPolicy) ShortCircuit(c Candidate) bool {
	return c.Pos.Z == 0
}

func (p *sfcPolicy) AfterPlace(model.PlacedBox, []model.PlacedBox) {}

func (p *sfcPolicy) Reset() {}
