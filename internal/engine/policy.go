package engine

import (
	"github.com/piwi3910/palletpack/internal/geom"
	"github.com/piwi3910/palletpack/internal/model"
)

// MinSupporterWeightRatio is the Weight-Aware "no heavier on lighter"
// threshold: a supporting box must weigh at least this fraction of the
// box it supports. A deliberate, stricter reading than a literal
// "heavier on lighter"; the 0.8 multiplier is fixed, not tunable.
const MinSupporterWeightRatio = 0.8

// DefaultCandidateCap bounds how many candidate points a policy may
// return for one box. Policies keep the lowest-z points when trimming.
const DefaultCandidateCap = 4096

// Candidate is one (position, orientation) pair under evaluation for one
// box, along with the state a policy needs to score and accept it.
type Candidate struct {
	Pos    model.Point
	Dims   geom.Dims3
	Box    model.Box
	Placed []model.PlacedBox
	Pallet model.Pallet
}

// GeomBoxes adapts the already-placed items to the kernel's plain Box
// shape, for overlap/support queries.
func (c Candidate) GeomBoxes() []geom.Box {
	boxes := make([]geom.Box, len(c.Placed))
	for i, p := range c.Placed {
		boxes[i] = p.AsGeomBox()
	}
	return boxes
}

// Policy is the small capability set each variant implements: a
// strategy object composed into the Packer rather than a base class it
// inherits from.
type Policy interface {
	// Name returns the variant's short display name.
	Name() string

	// Less is the sort comparator used to order input boxes before packing.
	Less(a, b model.Box) bool

	// Positions returns the ordered candidate (x,y,z) positions to try for
	// box, given the current placed set. The returned slice is already
	// capped; trimmed reports whether the cap discarded any positions.
	Positions(box model.Box, placed []model.PlacedBox, pallet model.Pallet) (positions []model.Point, trimmed bool)

	// Orientations returns the effective-dims candidates to try, in the
	// order the variant prefers (e.g. LAFF fixes one orientation per pass).
	Orientations(box model.Box) []geom.Dims3

	// Accept applies the variant's acceptance predicate (support
	// threshold, edge/corner support, weight-safety rule) beyond the
	// universal overlap/containment/weight-cap checks the Packer already
	// performs. Returns false with a reason when rejected.
	Accept(c Candidate) (bool, model.RejectionReason)

	// Score returns the variant's placement score; lower is better.
	Score(c Candidate) float64

	// ShortCircuit reports whether this candidate is provably optimal for
	// the box, letting the Packer stop searching further candidates.
	ShortCircuit(c Candidate) bool

	// AfterPlace lets the policy update incremental state (candidate-point
	// sets, layer bookkeeping) once a placement commits.
	AfterPlace(placed model.PlacedBox, allPlaced []model.PlacedBox)

	// Reset clears any incremental state, used to make Pack() idempotent.
	Reset()
}
