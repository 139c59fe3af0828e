// Package report computes the efficiency metrics and diagnostic
// recommendations consumed by the HTTP and CLI collaborators, from a
// finished engine.Result. Reporting is a pure function of its inputs:
// collect the raw totals, derive a metrics struct, no mutable state and
// no access to the packer internals.
package report

import (
	"fmt"
	"math"
	"sort"

	"github.com/piwi3910/palletpack/internal/analytics"
	"github.com/piwi3910/palletpack/internal/engine"
	"github.com/piwi3910/palletpack/internal/model"
)

// CenterOfGravity is the weight-weighted mean of placed box centres.
type CenterOfGravity struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// WeightDistribution summarizes placed-box weights.
type WeightDistribution struct {
	Min      float64 `json:"min"`
	Mean     float64 `json:"mean"`
	Max      float64 `json:"max"`
	Variance float64 `json:"variance"`
}

// LevelStat is the per-level aggregation, re-exported here so the
// report package doesn't force callers to import internal/analytics
// directly.
type LevelStat = analytics.LevelStats

// Metrics is the full set of derived quality figures for one pack()
// result.
type Metrics struct {
	VolumeUtilization  float64            `json:"volume_utilization"`
	SpaceUtilization   float64            `json:"space_utilization"`
	WeightUtilization  float64            `json:"weight_utilization"`
	PackingEfficiency  float64            `json:"packing_efficiency"`
	CenterOfGravity    CenterOfGravity    `json:"center_of_gravity"`
	WeightDistribution WeightDistribution `json:"weight_distribution"`
	Levels             []LevelStat        `json:"levels"`
	Recommendations    []string           `json:"recommendations"`
}

// Summary is the flatter, API-facing shape of §6.3's result schema.
type Summary struct {
	TotalItems       int     `json:"total_items"`
	PackedItems      int     `json:"packed_items"`
	UnpackedItems    int     `json:"unpacked_items"`
	SpaceUtilization float64 `json:"space_utilization"`
	CalculationTime  float64 `json:"calculation_time"`
	TotalWeight      float64 `json:"total_weight"`
	PackedWeight     float64 `json:"packed_weight"`
}

// Report bundles the metrics and the §6.3 summary for one result.
type Report struct {
	Metrics Metrics
	Summary Summary
}

// Build computes a Report from a finished engine.Result.
func Build(result engine.Result) Report {
	var packedWeight, packedVolume float64
	for _, p := range result.Placed {
		packedWeight += p.Weight
		packedVolume += p.Effective.Volume()
	}

	m := Metrics{
		VolumeUtilization:  ratio(packedVolume, result.TotalInputVolume),
		SpaceUtilization:   ratio(packedVolume, result.Pallet.Volume()),
		WeightUtilization:  ratio(packedWeight, result.TotalInputWeight),
		PackingEfficiency:  ratio(float64(len(result.Placed)), float64(result.TotalInputCount)),
		CenterOfGravity:    centerOfGravity(result.Placed),
		WeightDistribution: weightDistribution(result.Placed),
	}
	if result.Analytics != nil {
		m.Levels = result.Analytics.Levels()
	}
	m.Recommendations = recommendations(result, m)

	summary := Summary{
		TotalItems:       result.TotalInputCount,
		PackedItems:      len(result.Placed),
		UnpackedItems:    len(result.Unplaced),
		SpaceUtilization: m.SpaceUtilization * 100,
		CalculationTime:  result.CalculationTime.Seconds(),
		TotalWeight:      result.TotalInputWeight,
		PackedWeight:     packedWeight,
	}

	return Report{Metrics: m, Summary: summary}
}

func ratio(numerator, denominator float64) float64 {
	if denominator <= 0 {
		return 0
	}
	return numerator / denominator
}

func centerOfGravity(placed []model.PlacedBox) CenterOfGravity {
	var totalWeight, sx, sy, sz float64
	for _, p := range placed {
		cx := p.Position.X + p.Effective.Dx/2
		cy := p.Position.Y + p.Effective.Dy/2
		cz := p.Position.Z + p.Effective.Dz/2
		sx += cx * p.Weight
		sy += cy * p.Weight
		sz += cz * p.Weight
		totalWeight += p.Weight
	}
	if totalWeight <= 0 {
		return CenterOfGravity{}
	}
	return CenterOfGravity{X: sx / totalWeight, Y: sy / totalWeight, Z: sz / totalWeight}
}

func weightDistribution(placed []model.PlacedBox) WeightDistribution {
	if len(placed) == 0 {
		return WeightDistribution{}
	}
	min, max, sum := placed[0].Weight, placed[0].Weight, 0.0
	for _, p := range placed {
		if p.Weight < min {
			min = p.Weight
		}
		if p.Weight > max {
			max = p.Weight
		}
		sum += p.Weight
	}
	mean := sum / float64(len(placed))

	var variance float64
	for _, p := range placed {
		d := p.Weight - mean
		variance += d * d
	}
	variance /= float64(len(placed))

	return WeightDistribution{Min: min, Mean: mean, Max: max, Variance: variance}
}

// recommendations derives short diagnostic strings from thresholds: a
// low success rate, an off-centre COG, and a dominant rejection reason
// each get their own suggestion.
func recommendations(result engine.Result, m Metrics) []string {
	var out []string

	if m.PackingEfficiency < 0.7 && result.TotalInputCount > 0 {
		out = append(out, "low placement success rate — consider a different sort order or variant")
	}

	if result.Pallet.Width > 0 && result.Pallet.Depth > 0 {
		offX := math.Abs(m.CenterOfGravity.X-result.Pallet.Width/2) / (result.Pallet.Width / 2)
		offY := math.Abs(m.CenterOfGravity.Y-result.Pallet.Depth/2) / (result.Pallet.Depth / 2)
		if offX > 0.2 || offY > 0.2 {
			out = append(out, "center of gravity is off-center — redistribute weight across the footprint")
		}
	}

	if result.Analytics != nil {
		if reason, count := dominantRejection(result.Analytics.RejectionHistogram); count > 0 {
			out = append(out, fmt.Sprintf("dominant rejection reason %q — adjust the constraint it tests", reason))
		}
	}

	return out
}

func dominantRejection(histogram map[model.RejectionReason]int) (model.RejectionReason, int) {
	var best model.RejectionReason
	var bestCount int
	reasons := make([]model.RejectionReason, 0, len(histogram))
	for r := range histogram {
		reasons = append(reasons, r)
	}
	sort.Slice(reasons, func(i, j int) bool { return reasons[i] < reasons[j] })
	for _, r := range reasons {
		if histogram[r] > bestCount {
			best, bestCount = r, histogram[r]
		}
	}
	return best, bestCount
}
