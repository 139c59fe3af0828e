package engine

import (
	"github.com/piwi3910/palletpack/internal/geom"
	"github.com/piwi3910/palletpack/internal/model"
)

// weightAwarePolicy implements the Weight-Aware variant: sort
// heaviest-and-biggest first, search the floor grid plus placed boxes'
// top corners, accept on support (with a strict edge-support check above
// a 0.7 threshold) and the no-heavier-on-lighter rule, and score by
// lowest z.
type weightAwarePolicy struct {
	threshold    float64
	weightCheck  bool
	gridStep     float64
	candidateCap int
}

func newWeightAwarePolicy(threshold float64, weightCheck bool, gridStep float64, capacity int) *weightAwarePolicy {
	return &weightAwarePolicy{threshold: threshold, weightCheck: weightCheck, gridStep: gridStep, candidateCap: capacity}
}

func (p *weightAwarePolicy) Name() string { return "Weight-Aware" }

func (p *weightAwarePolicy) Less(a, b model.Box) bool {
	if a.Weight != b.Weight {
		return a.Weight > b.Weight // -weight: heaviest first
	}
	return a.Length*a.Width > b.Length*b.Width // -base_area
}

func (p *weightAwarePolicy) Positions(box model.Box, placed []model.PlacedBox, pallet model.Pallet) ([]model.Point, bool) {
	pts := floorGrid(pallet, p.gridStep)
	for _, pb := range placed {
		pts = append(pts, topCorners(pb)...)
	}
	return capCandidates(pts, p.candidateCap)
}

func (p *weightAwarePolicy) Orientations(box model.Box) []geom.Dims3 {
	return geom.Orientations(box.Length, box.Width, box.Height)
}

func (p *weightAwarePolicy) Accept(c Candidate) (bool, model.RejectionReason) {
	placedGeom := c.GeomBoxes()
	support := geom.SupportRatio(c.Pos, c.Dims, placedGeom)
	if support < p.threshold {
		return false, model.ReasonNoSupport
	}
	if p.threshold > 0.7 && c.Pos.Z > 0 {
		if geom.EdgeSupport(c.Pos, c.Dims, placedGeom) < 2 {
			return false, model.ReasonNoSupport
		}
	}
	if p.weightCheck && c.Pos.Z > 0 {
		for _, supporter := range supportingBoxes(c.Pos, c.Dims, c.Placed) {
			if supporter.Weight < c.Box.Weight*MinSupporterWeightRatio {
				return false, model.ReasonWeightRuleViolated
			}
		}
	}
	return true, ""
}

// supportingBoxes returns every placed box that contributes positive
// support area to a candidate at (pos, dims).
func supportingBoxes(pos model.Point, dims geom.Dims3, placed []model.PlacedBox) []model.PlacedBox {
	var out []model.PlacedBox
	for _, pb := range placed {
		if geom.TouchingArea(pos, dims, pb.AsGeomBox()) > 0 {
			out = append(out, pb)
		}
	}
	return out
}

func (p *weightAwarePolicy) Score(c Candidate) float64 {
	return c.Pos.Z
}

func (p *weightAwarePolicy) ShortCircuit(c Candidate) bool {
	return c.Pos.Z == 0
}

func (p *weightAwarePolicy) AfterPlace(model.PlacedBox, []model.PlacedBox) {}

func (p *weightAwarePolicy) Reset() {}
