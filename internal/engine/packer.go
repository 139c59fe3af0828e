// Package engine implements the Packer: the unified orchestrator every
// variant shares, specialized only by a Policy (sort key, candidate
// generator, orientation order, scoring function, acceptance predicate).
// See policy.go for the capability set and
// weightaware.go/extremepoints.go/laff.go/cornerpoints.go/sfc.go for the
// five concrete variants.
//
// The orchestrator itself is a sort pass followed by one
// commit-or-reject loop per item, operating over 3D candidate points
// rather than 2D free-rects.
package engine

import (
	"fmt"
	"sort"
	"time"

	"github.com/piwi3910/palletpack/internal/analytics"
	"github.com/piwi3910/palletpack/internal/geom"
	"github.com/piwi3910/palletpack/internal/model"
)

// Variant names one of the five packing algorithms.
type Variant string

const (
	WeightAware  Variant = "weight_aware"
	ExtremePoint Variant = "extreme_points"
	LAFF         Variant = "laff"
	CornerPoint  Variant = "corner_points"
	SFC          Variant = "sfc"
)

// Variants lists every supported variant, in the order GET /methods
// should display them.
func Variants() []Variant {
	return []Variant{WeightAware, ExtremePoint, LAFF, CornerPoint, SFC}
}

// Options configures a Packer. Fields not used by the chosen variant are
// ignored.
type Options struct {
	// SupportThreshold is the minimum support_ratio Weight-Aware
	// accepts a placement at (0.8 when zero). The other variants ignore
	// it and always require 0.5.
	SupportThreshold float64
	// WeightCheckEnabled toggles the Weight-Aware "no heavier on lighter"
	// rule. Default true.
	WeightCheckEnabled bool
	// CandidateCap bounds candidate-point set sizes. Default DefaultCandidateCap.
	CandidateCap int
	// GridStep is the floor-grid/spiral radial step, in cm. Default DefaultGridStep.
	GridStep float64
	// Seed drives the Extreme-Points jitter source. Default 1 (reproducible).
	Seed int64
}

// DefaultOptions returns the standard packing defaults.
func DefaultOptions() Options {
	return Options{
		SupportThreshold:   0.8,
		WeightCheckEnabled: true,
		CandidateCap:       DefaultCandidateCap,
		GridStep:           DefaultGridStep,
		Seed:               1,
	}
}

// Result bundles everything one pack() run produces: placed boxes,
// unplaced boxes, analytics, and calculation time. Derived metrics are
// computed separately by the report package, which depends on engine
// rather than the reverse.
type Result struct {
	Pallet          model.Pallet
	Placed          []model.PlacedBox
	Unplaced        []model.UnplacedBox
	Analytics       *analytics.Recorder
	CalculationTime time.Duration
	TotalInputCount int
	TotalInputWeight float64
	TotalInputVolume float64
}

// Packer orchestrates one variant's policy over one pallet and box set.
// A single instance owns exactly one PalletState for its lifetime.
type Packer struct {
	variant Variant
	policy  Policy
	options Options

	pallet model.Pallet
	boxes  []model.Box

	state *model.PalletState
	rec   *analytics.Recorder

	lastResult *Result
}

// NewPacker builds a Packer for the given variant. Zero CandidateCap and
// GridStep fields are filled in with their defaults, and a zero
// SupportThreshold becomes 0.8 for Weight-Aware; the other variants use
// a fixed 0.5 support threshold whatever the option says.
func NewPacker(variant Variant, opts Options) (*Packer, error) {
	if opts.CandidateCap == 0 {
		opts.CandidateCap = DefaultCandidateCap
	}
	if opts.GridStep == 0 {
		opts.GridStep = DefaultGridStep
	}

	var policy Policy
	switch variant {
	case WeightAware:
		threshold := opts.SupportThreshold
		if threshold == 0 {
			threshold = 0.8
		}
		policy = newWeightAwarePolicy(threshold, opts.WeightCheckEnabled, opts.GridStep, opts.CandidateCap)
	case ExtremePoint:
		policy = newExtremePointsPolicy(opts.Seed, opts.CandidateCap)
	case LAFF:
		policy = newLAFFPolicy(opts.CandidateCap)
	case CornerPoint:
		policy = newCornerPointsPolicy(opts.CandidateCap)
	case SFC:
		policy = newSFCPolicy(opts.GridStep, opts.CandidateCap)
	default:
		return nil, fmt.Errorf("engine: unknown variant %q", variant)
	}

	return &Packer{
		variant: variant,
		policy:  policy,
		options: opts,
	}, nil
}

// SetPallet configures the pallet's dimensions and weight cap.
func (p *Packer) SetPallet(width, depth, height, maxWeight float64) {
	p.pallet = model.Pallet{Width: width, Depth: depth, Height: height, MaxWeight: maxWeight}
}

// AddBox stages a box for the next Pack() call.
func (p *Packer) AddBox(id string, length, width, height, weight float64) {
	box := model.NewBox(length, width, height, weight)
	if id != "" {
		box.ID = id
	}
	p.boxes = append(p.boxes, box)
}

// Pack runs the variant to completion. Repeating Pack() re-initializes
// state and analytics, so it is idempotent: pack(); pack() yields the
// same result as a single pack().
func (p *Packer) Pack() Result {
	start := time.Now()

	p.state = model.NewPalletState(p.pallet)
	p.rec = analytics.New()
	p.policy.Reset()

	ordered := make([]model.Box, len(p.boxes))
	copy(ordered, p.boxes)
	sort.SliceStable(ordered, func(i, j int) bool { return p.policy.Less(ordered[i], ordered[j]) })

	var unplaced []model.UnplacedBox
	var totalWeight, totalVolume float64

	for _, box := range ordered {
		totalWeight += box.Weight
		totalVolume += box.Volume()

		placement, ok, reason := p.bestPlacementFor(box)
		if !ok {
			unplaced = append(unplaced, model.UnplacedBox{
				Box:    box,
				Reason: reason,
				Note:   unplacedNote(box, reason),
			})
			continue
		}

		support := geom.SupportRatio(placement.Pos, placement.Dims, candidatePlacedGeom(p.state.Placed))
		placed := model.PlacedBox{Box: box, Position: placement.Pos, Effective: model.Dims{Dx: placement.Dims.Dx, Dy: placement.Dims.Dy, Dz: placement.Dims.Dz}}
		p.state.Commit(placed)
		p.rec.RecordPlacement(placed, support)
		p.policy.AfterPlace(placed, p.state.Placed)
	}

	p.lastResult = &Result{
		Pallet:           p.pallet,
		Placed:           append([]model.PlacedBox(nil), p.state.Placed...),
		Unplaced:         unplaced,
		Analytics:        p.rec,
		CalculationTime:  time.Since(start),
		TotalInputCount:  len(p.boxes),
		TotalInputWeight: totalWeight,
		TotalInputVolume: totalVolume,
	}
	return *p.lastResult
}

// Result returns the last Pack() result.
func (p *Packer) Result() Result {
	if p.lastResult == nil {
		return Result{}
	}
	return *p.lastResult
}

func candidatePlacedGeom(placed []model.PlacedBox) []geom.Box {
	boxes := make([]geom.Box, len(placed))
	for i, pb := range placed {
		boxes[i] = pb.AsGeomBox()
	}
	return boxes
}

// bestPlacementFor runs the placement step of the unified algorithm for
// a single box: generate candidates, try every orientation through the
// kernel, and track the best-scoring accepted placement.
func (p *Packer) bestPlacementFor(box model.Box) (Candidate, bool, model.RejectionReason) {
	placedGeom := candidatePlacedGeom(p.state.Placed)

	positions, trimmed := p.policy.Positions(box, p.state.Placed, p.pallet)
	if trimmed {
		p.rec.RecordCandidateCapTrim()
	}

	var (
		found     bool
		bestScore float64
		best      Candidate
		lastReason model.RejectionReason = model.ReasonNoValidOrientation
	)

	for _, pos := range positions {
		for _, dims := range p.policy.Orientations(box) {
			p.rec.RecordAttempt()

			if !geom.FitsInPallet(pos, dims, p.pallet.Width, p.pallet.Depth, p.pallet.Height) {
				lastReason = model.ReasonOutOfBounds
				p.rec.RecordRejection(lastReason)
				continue
			}

			candBox := geom.Box{Pos: geom.Point3{X: pos.X, Y: pos.Y, Z: pos.Z}, Dims: dims}
			overlaps := false
			for _, pb := range placedGeom {
				if geom.Overlap(candBox, pb) {
					overlaps = true
					break
				}
			}
			if overlaps {
				lastReason = model.ReasonIntersectsExisting
				p.rec.RecordRejection(lastReason)
				continue
			}

			if !geom.WeightOK(p.state.Weight, box.Weight, p.pallet.MaxWeight) {
				lastReason = model.ReasonOverWeightCap
				p.rec.RecordRejection(lastReason)
				continue
			}

			cand := Candidate{Pos: pos, Dims: dims, Box: box, Placed: p.state.Placed, Pallet: p.pallet}
			if ok, reason := p.policy.Accept(cand); !ok {
				lastReason = reason
				p.rec.RecordRejection(lastReason)
				continue
			}

			score := p.policy.Score(cand)
			if !found || score < bestScore {
				found = true
				bestScore = score
				best = cand
			}
			if p.policy.ShortCircuit(cand) {
				return best, true, ""
			}
		}
	}

	if !found {
		return Candidate{}, false, lastReason
	}
	return best, true, ""
}

func unplacedNote(box model.Box, reason model.RejectionReason) string {
	switch reason {
	case model.ReasonOutOfBounds:
		return fmt.Sprintf("box %s does not fit within the pallet envelope in any orientation", box.ID)
	case model.ReasonIntersectsExisting:
		return fmt.Sprintf("box %s had no collision-free candidate position", box.ID)
	case model.ReasonOverWeightCap:
		return fmt.Sprintf("box %s would exceed the pallet's weight capacity", box.ID)
	case model.ReasonWeightRuleViolated:
		return fmt.Sprintf("box %s could only rest on boxes lighter than the weight-safety rule allows", box.ID)
	case model.ReasonNoSupport:
		return fmt.Sprintf("box %s had no candidate with sufficient support", box.ID)
	default:
		return fmt.Sprintf("box %s had no valid orientation at any candidate position", box.ID)
	}
}
