package geom

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOverlapDisjointBoxesDoNotOverlap(t *testing.T) {
	a := Box{Pos: Point3{0, 0, 0}, Dims: Dims3{30, 30, 30}}
	b := Box{Pos: Point3{30, 0, 0}, Dims: Dims3{30, 30, 30}}
	assert.False(t, Overlap(a, b), "touching faces must not count as overlap")
}

func TestOverlapIntersectingBoxesOverlap(t *testing.T) {
	a := Box{Pos: Point3{0, 0, 0}, Dims: Dims3{30, 30, 30}}
	b := Box{Pos: Point3{15, 15, 15}, Dims: Dims3{30, 30, 30}}
	assert.True(t, Overlap(a, b))
}

func TestFitsInPalletRejectsNegativeOrOversize(t *testing.T) {
	assert.False(t, FitsInPallet(Point3{-1, 0, 0}, Dims3{10, 10, 10}, 120, 80, 160))
	assert.False(t, FitsInPallet(Point3{110, 0, 0}, Dims3{20, 10, 10}, 120, 80, 160))
	assert.True(t, FitsInPallet(Point3{100, 0, 0}, Dims3{20, 10, 10}, 120, 80, 160))
}

func TestSupportRatioFloorIsAlwaysFull(t *testing.T) {
	assert.Equal(t, 1.0, SupportRatio(Point3{0, 0, 0}, Dims3{20, 20, 10}, nil))
}

func TestSupportRatioPartialCoverage(t *testing.T) {
	base := Box{Pos: Point3{0, 0, 0}, Dims: Dims3{40, 40, 10}}
	// candidate sits on top of base, half-overlapping in X
	ratio := SupportRatio(Point3{20, 0, 10}, Dims3{40, 40, 10}, []Box{base})
	assert.InDelta(t, 0.5, ratio, 1e-9)
}

func TestSupportRatioIgnoresBoxesAtWrongHeight(t *testing.T) {
	base := Box{Pos: Point3{0, 0, 0}, Dims: Dims3{40, 40, 5}}
	ratio := SupportRatio(Point3{0, 0, 20}, Dims3{40, 40, 10}, []Box{base})
	assert.Zero(t, ratio)
}

func TestEdgeSupportCountsCoveredCorners(t *testing.T) {
	base := Box{Pos: Point3{0, 0, 0}, Dims: Dims3{20, 40, 10}}
	// candidate's two left-hand corners land on base; right-hand corners don't
	count := EdgeSupport(Point3{0, 0, 10}, Dims3{40, 40, 10}, []Box{base})
	assert.Equal(t, 2, count)
}

func TestWeightOK(t *testing.T) {
	assert.True(t, WeightOK(900, 100, 1000))
	assert.False(t, WeightOK(900, 101, 1000))
}

func TestOrientationsCubeYieldsOne(t *testing.T) {
	orients := Orientations(10, 10, 10)
	assert.Len(t, orients, 1)
}

func TestOrientationsPlateYieldsThree(t *testing.T) {
	orients := Orientations(10, 10, 20)
	assert.Len(t, orients, 3)
}

func TestOrientationsGeneralBoxYieldsSix(t *testing.T) {
	orients := Orientations(10, 20, 30)
	assert.Len(t, orients, 6)
	// Every orientation must be a permutation of the nominal triple.
	for _, d := range orients {
		got := []float64{d.Dx, d.Dy, d.Dz}
		assert.ElementsMatch(t, []float64{10, 20, 30}, got)
	}
}
