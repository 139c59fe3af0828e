package engine

import (
	"math"

	"github.com/piwi3910/palletpack/internal/geom"
	"github.com/piwi3910/palletpack/internal/model"
)

// laffPolicy implements the Largest-Area-Fit-First variant: sort by
// base area then depth, pack one z-layer at a time in a fixed
// orientation, and prefer positions that maximize contact with
// already-placed boxes on the same layer.
type laffPolicy struct {
	candidateCap int
	layerZ       float64
	nextLayerZ   float64
}

func newLAFFPolicy(capacity int) *laffPolicy {
	return &laffPolicy{candidateCap: capacity}
}

func (p *laffPolicy) Name() string { return "LAFF" }

func (p *laffPolicy) Less(a, b model.Box) bool {
	areaA, areaB := a.Length*a.Width, b.Length*b.Width
	if areaA != areaB {
		return areaA > areaB
	}
	return a.Height > b.Height
}

// Positions offers the current layer's grid and the corner points beside
// each placed box (its +x and +y neighbours) plus, once a taller box has
// already forced a higher layer boundary, the same points on the next
// layer too — so a box that no longer fits at the current layer can
// still land on the layer above instead of going unplaced.
func (p *laffPolicy) Positions(box model.Box, placed []model.PlacedBox, pallet model.Pallet) ([]model.Point, bool) {
	pts := floorGrid(pallet, DefaultGridStep)
	for _, pb := range placed {
		pts = append(pts,
			model.Point{X: pb.Position.X + pb.Effective.Dx, Y: pb.Position.Y},
			model.Point{X: pb.Position.X, Y: pb.Position.Y + pb.Effective.Dy},
		)
	}

	layers := []float64{p.layerZ}
	if p.nextLayerZ > p.layerZ+geomEpsilon {
		layers = append(layers, p.nextLayerZ)
	}

	out := make([]model.Point, 0, len(pts)*len(layers)+len(layers))
	for _, z := range layers {
		for _, pt := range pts {
			out = append(out, model.Point{X: pt.X, Y: pt.Y, Z: z})
		}
		out = append(out, model.Point{X: 0, Y: 0, Z: z})
	}
	return capCandidates(out, p.candidateCap)
}

// Orientations fixes a single orientation per box: the one whose height
// is smallest, so a layer fills with the flattest presentable face up —
// one orientation per pass, by design.
func (p *laffPolicy) Orientations(box model.Box) []geom.Dims3 {
	orientations := geom.Orientations(box.Length, box.Width, box.Height)
	best := orientations[0]
	for _, o := range orientations[1:] {
		if o.Dz < best.Dz {
			best = o
		}
	}
	return []geom.Dims3{best}
}

func (p *laffPolicy) Accept(c Candidate) (bool, model.RejectionReason) {
	onCurrentLayer := sameValue(c.Pos.Z, p.layerZ)
	onNextLayer := p.nextLayerZ > p.layerZ+geomEpsilon && sameValue(c.Pos.Z, p.nextLayerZ)
	if !onCurrentLayer && !onNextLayer {
		return false, model.ReasonNoSupport
	}
	support := geom.SupportRatio(c.Pos, c.Dims, c.GeomBoxes())
	if support < 0.5 {
		return false, model.ReasonNoSupport
	}
	return true, ""
}

const geomEpsilon = 1e-6

// Score prefers positions that maximize contact area (shared side-face
// area) with boxes already placed on the same layer — a proxy for a
// tight, gap-free tiling — and strongly prefers the current layer over
// the next one, so a layer fills completely before packing spills onto
// the layer above it.
func (p *laffPolicy) Score(c Candidate) float64 {
	var contact float64
	for _, pb := range c.Placed {
		if !sameValue(pb.Position.Z, c.Pos.Z) {
			continue
		}
		h := math.Min(c.Pos.Z+c.Dims.Dz, pb.Position.Z+pb.Effective.Dz) - c.Pos.Z
		if sameValue(c.Pos.X, pb.Position.X+pb.Effective.Dx) || sameValue(c.Pos.X+c.Dims.Dx, pb.Position.X) {
			contact += h * math.Max(0, math.Min(c.Pos.Y+c.Dims.Dy, pb.Position.Y+pb.Effective.Dy)-math.Max(c.Pos.Y, pb.Position.Y))
		}
		if sameValue(c.Pos.Y, pb.Position.Y+pb.Effective.Dy) || sameValue(c.Pos.Y+c.Dims.Dy, pb.Position.Y) {
			contact += h * math.Max(0, math.Min(c.Pos.X+c.Dims.Dx, pb.Position.X+pb.Effective.Dx)-math.Max(c.Pos.X, pb.Position.X))
		}
	}
	return c.Pos.Z*1e6 - contact + c.Pos.X*1e-6 + c.Pos.Y*1e-6
}

func (p *laffPolicy) ShortCircuit(Candidate) bool { return false }

// AfterPlace tracks the layer boundary: once a box's top exceeds the
// current layer's running max, the next layer starts there. The active
// layer itself only advances once a box actually lands on that next
// layer — Score biases every candidate toward the current layer, so
// that only happens once the current layer has no room left for the
// box being placed.
func (p *laffPolicy) AfterPlace(placed model.PlacedBox, allPlaced []model.PlacedBox) {
	top := placed.Position.Z + placed.Effective.Dz
	if top > p.nextLayerZ {
		p.nextLayerZ = top
	}
	if placed.Position.Z >= p.layerZ+geomEpsilon {
		p.layerZ = placed.Position.Z
	}
}

func (p *laffPolicy) Reset() {
	p.layerZ = 0
	p.nextLayerZ = 0
}
