// Package analytics implements the AnalyticsRecorder: the mutable record
// a Packer fills in itself while packing (its placement policy never
// sees it), and that a pack() call returns, bundled with the final PalletState, as the
// analytics half of the result.
package analytics

import (
	"fmt"
	"time"

	"github.com/piwi3910/palletpack/internal/model"
)

// PlacementEvent records one committed placement, in the order it
// occurred, for the timeline.
type PlacementEvent struct {
	BoxID      string
	OffsetFrom time.Duration
	Position   model.Point
	Effective  model.Dims
	Level      int
}

// LevelStats aggregates placements sharing a level index.
type LevelStats struct {
	Index     int
	Volume    float64
	Weight    float64
	ItemCount int
	MinZ      float64
	MaxZ      float64
}

// Recorder accumulates counters, histograms, and samples during a single
// pack() run. It is owned by the Packer for the run's duration and never
// shared between concurrent runs.
type Recorder struct {
	Attempts  int
	Successes int

	OrientationHistogram map[string]int
	RejectionHistogram   map[model.RejectionReason]int

	Timeline []PlacementEvent

	supportSamples []float64

	levels map[int]*LevelStats

	// DensityGrid counts placed-item occupancy in fixed-size 3D cells.
	DensityGrid map[GridCell]int
	GridCellCM  float64

	// CandidateCapWarnings counts how many times a candidate-point set was
	// trimmed to its configured cap.
	CandidateCapWarnings int

	start time.Time
}

// GridCell is a coarse 3D occupancy bucket, keyed by floor-divided
// coordinates.
type GridCell struct {
	I, J, K int
}

// DefaultGridCellCM is the default density-grid cell size.
const DefaultGridCellCM = 20.0

// New creates a recorder with all histograms initialized and the clock
// started. Call Finish to stop the clock.
func New() *Recorder {
	return &Recorder{
		OrientationHistogram: make(map[string]int),
		RejectionHistogram:   make(map[model.RejectionReason]int),
		levels:               make(map[int]*LevelStats),
		DensityGrid:          make(map[GridCell]int),
		GridCellCM:           DefaultGridCellCM,
		start:                time.Now(),
	}
}

// Reset clears all accumulated data and restarts the clock, so one
// recorder can be reused for another run. Packer.Pack does not call it;
// it starts every run with a fresh recorder from New.
func (r *Recorder) Reset() {
	r.Attempts = 0
	r.Successes = 0
	r.OrientationHistogram = make(map[string]int)
	r.RejectionHistogram = make(map[model.RejectionReason]int)
	r.Timeline = r.Timeline[:0]
	r.supportSamples = r.supportSamples[:0]
	r.levels = make(map[int]*LevelStats)
	r.DensityGrid = make(map[GridCell]int)
	r.CandidateCapWarnings = 0
	r.start = time.Now()
}

// RecordAttempt increments the attempt counter for one box placement try.
func (r *Recorder) RecordAttempt() { r.Attempts++ }

// RecordRejection tags a box (or candidate) as rejected for reason.
func (r *Recorder) RecordRejection(reason model.RejectionReason) {
	r.RejectionHistogram[reason]++
}

// orientationKey renders an effective-dims triple as a stable histogram key.
func orientationKey(d model.Dims) string {
	return fmt.Sprintf("%gx%gx%g", d.Dx, d.Dy, d.Dz)
}

// RecordPlacement records a successful commit: orientation histogram,
// timeline event, support-quality sample, per-level aggregation, and
// density grid occupancy.
func (r *Recorder) RecordPlacement(box model.PlacedBox, supportRatio float64) {
	r.Successes++
	r.OrientationHistogram[orientationKey(box.Effective)]++

	level := box.Level()
	r.Timeline = append(r.Timeline, PlacementEvent{
		BoxID:      box.ID,
		OffsetFrom: time.Since(r.start),
		Position:   box.Position,
		Effective:  box.Effective,
		Level:      level,
	})
	r.supportSamples = append(r.supportSamples, supportRatio)

	ls, ok := r.levels[level]
	if !ok {
		ls = &LevelStats{Index: level, MinZ: box.Position.Z, MaxZ: box.Position.Z + box.Effective.Dz}
		r.levels[level] = ls
	}
	ls.Volume += box.Effective.Volume()
	ls.Weight += box.Weight
	ls.ItemCount++
	if box.Position.Z < ls.MinZ {
		ls.MinZ = box.Position.Z
	}
	if top := box.Position.Z + box.Effective.Dz; top > ls.MaxZ {
		ls.MaxZ = top
	}

	cell := r.GridCell(box.Position)
	r.DensityGrid[cell]++
}

// GridCell maps a position to its density-grid bucket.
func (r *Recorder) GridCell(p model.Point) GridCell {
	step := r.GridCellCM
	if step <= 0 {
		step = DefaultGridCellCM
	}
	return GridCell{I: int(p.X / step), J: int(p.Y / step), K: int(p.Z / step)}
}

// RecordCandidateCapTrim notes that a candidate-point set was trimmed to
// its configured cap.
func (r *Recorder) RecordCandidateCapTrim() { r.CandidateCapWarnings++ }

// SupportSamples returns the recorded support-ratio samples, in
// placement order.
func (r *Recorder) SupportSamples() []float64 { return append([]float64(nil), r.supportSamples...) }

// Levels returns per-level aggregates, sorted by index ascending.
func (r *Recorder) Levels() []LevelStats {
	out := make([]LevelStats, 0, len(r.levels))
	for _, ls := range r.levels {
		out = append(out, *ls)
	}
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j-1].Index > out[j].Index; j-- {
			out[j-1], out[j] = out[j], out[j-1]
		}
	}
	return out
}

// Finish returns the elapsed wall-clock duration since New/Reset.
func (r *Recorder) Finish() time.Duration { return time.Since(r.start) }
