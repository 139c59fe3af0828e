package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/palletpack/internal/geom"
	"github.com/piwi3910/palletpack/internal/model"
)

// referencePacker builds a Packer over the 120x80x160, 1000kg pallet
// used by the end-to-end scenarios below.
func referencePacker(t *testing.T, v Variant) *Packer {
	t.Helper()
	p, err := NewPacker(v, DefaultOptions())
	require.NoError(t, err)
	p.SetPallet(120, 80, 160, 1000)
	return p
}

func newTestPacker(t *testing.T, v Variant) *Packer {
	t.Helper()
	p, err := NewPacker(v, DefaultOptions())
	require.NoError(t, err)
	p.SetPallet(120, 100, 180, 500)
	return p
}

func TestNewPackerRejectsUnknownVariant(t *testing.T) {
	_, err := NewPacker(Variant("bogus"), DefaultOptions())
	assert.Error(t, err)
}

func TestPackerPlacesSingleBoxOnFloor(t *testing.T) {
	p := newTestPacker(t, WeightAware)
	p.AddBox("a", 40, 30, 20, 10)

	result := p.Pack()

	require.Len(t, result.Placed, 1)
	assert.Empty(t, result.Unplaced)
	assert.Equal(t, 0.0, result.Placed[0].Position.Z)
}

func TestPackerRejectsOversizeBox(t *testing.T) {
	p := newTestPacker(t, WeightAware)
	p.AddBox("huge", 500, 500, 500, 1)

	result := p.Pack()

	require.Len(t, result.Unplaced, 1)
	assert.Empty(t, result.Placed)
}

func TestPackerRejectsOverWeightCap(t *testing.T) {
	p := newTestPacker(t, WeightAware)
	p.AddBox("heavy", 40, 30, 20, 10000)

	result := p.Pack()

	require.Len(t, result.Unplaced, 1)
	assert.Equal(t, "heavy", result.Unplaced[0].Box.ID)
}

func TestPackerIsIdempotentAcrossRepeatedPackCalls(t *testing.T) {
	p := newTestPacker(t, ExtremePoint)
	p.AddBox("a", 40, 30, 20, 5)
	p.AddBox("b", 30, 30, 30, 8)
	p.AddBox("c", 20, 20, 20, 3)

	first := p.Pack()
	second := p.Pack()

	require.Len(t, second.Placed, len(first.Placed))
	for i := range first.Placed {
		assert.Equal(t, first.Placed[i].ID, second.Placed[i].ID)
		assert.Equal(t, first.Placed[i].Position, second.Placed[i].Position)
		assert.Equal(t, first.Placed[i].Effective, second.Placed[i].Effective)
	}
}

func TestPackerStacksSecondBoxOnFirstWhenSupported(t *testing.T) {
	p := newTestPacker(t, WeightAware)
	// The base covers the whole 120x100 floor, so the only room left for
	// the second box is on top of it.
	p.AddBox("base", 120, 100, 20, 20)
	p.AddBox("top", 50, 50, 20, 10)

	result := p.Pack()

	require.Len(t, result.Placed, 2)
	top := result.Placed[1]
	assert.Greater(t, top.Position.Z, 0.0)
}

func TestPackerResultMatchesLastPack(t *testing.T) {
	p := newTestPacker(t, SFC)
	p.AddBox("a", 40, 30, 20, 5)

	packed := p.Pack()
	fetched := p.Result()

	assert.Equal(t, packed.Placed, fetched.Placed)
}

func TestAllVariantsPlaceASimpleBox(t *testing.T) {
	for _, v := range Variants() {
		v := v
		t.Run(string(v), func(t *testing.T) {
			p := newTestPacker(t, v)
			p.AddBox("a", 40, 30, 20, 10)

			result := p.Pack()

			require.Len(t, result.Placed, 1, "variant %s should place a single floor-fitting box", v)
		})
	}
}

func TestTwoEqualCubesAreBothPlacedWithoutOverlap(t *testing.T) {
	p := referencePacker(t, WeightAware)
	p.AddBox("a", 30, 30, 30, 10)
	p.AddBox("b", 30, 30, 30, 10)

	result := p.Pack()

	require.Len(t, result.Placed, 2)
	assert.Empty(t, result.Unplaced)
	assert.False(t, geom.Overlap(result.Placed[0].AsGeomBox(), result.Placed[1].AsGeomBox()))
}

func TestWeightAwarePlacesHeavyBoxBeforeLightAndNeverStacksLightUnderHeavy(t *testing.T) {
	p := referencePacker(t, WeightAware)
	p.AddBox("heavy", 30, 30, 30, 50)
	p.AddBox("light", 30, 30, 30, 5)

	result := p.Pack()

	require.Len(t, result.Placed, 2)
	assert.Equal(t, "heavy", result.Placed[0].ID, "the heavier box is placed first")
	var heavy, light model.PlacedBox
	for _, pb := range result.Placed {
		if pb.ID == "heavy" {
			heavy = pb
		} else {
			light = pb
		}
	}

	lightTop := light.Position.Z + light.Effective.Dz
	restsOnLight := sameValue(heavy.Position.Z, lightTop) &&
		geom.TouchingArea(heavy.Position, geom.Dims3{Dx: heavy.Effective.Dx, Dy: heavy.Effective.Dy, Dz: heavy.Effective.Dz}, light.AsGeomBox()) > 0
	assert.False(t, restsOnLight, "heavy box must never rest on top of the lighter box")
}

func TestLAFFTilesTheFloorThenStartsTheNextLayerAtThePreviousLayerHeight(t *testing.T) {
	p := referencePacker(t, LAFF)
	for i := 0; i < 6; i++ {
		p.AddBox("floor", 40, 30, 20, 5)
	}
	// A seventh box of the same footprint no longer fits on the floor
	// (two 40-wide x 30-deep rows already consume the usable floor area),
	// so it must start the next layer at z = 20, the floor layer's height.
	p.AddBox("next-layer", 40, 30, 20, 5)

	result := p.Pack()

	require.Len(t, result.Placed, 7)
	floorCount := 0
	for _, pb := range result.Placed {
		if pb.Position.Z == 0 {
			floorCount++
		}
	}
	assert.Equal(t, 6, floorCount, "exactly six boxes should tile the floor level")

	var nextLayer model.PlacedBox
	for _, pb := range result.Placed {
		if pb.Position.Z > 0 {
			nextLayer = pb
		}
	}
	assert.Equal(t, 20.0, nextLayer.Position.Z, "LAFF's next layer must begin at the floor layer's height")
}

func TestCapacityLimitedPackRespectsWeightCap(t *testing.T) {
	p := referencePacker(t, WeightAware)
	for i := 0; i < 20; i++ {
		p.AddBox("crate", 20, 20, 20, 60)
	}

	result := p.Pack()

	var placedWeight float64
	for _, pb := range result.Placed {
		placedWeight += pb.Weight
	}
	assert.LessOrEqual(t, placedWeight, 1000.0)
	assert.GreaterOrEqual(t, len(result.Unplaced), 4)
}
