package engine

import "github.com/piwi3910/palletpack/internal/model"

// ComparisonResult holds one variant's run alongside summary statistics,
// letting callers compare the five methods side by side.
type ComparisonResult struct {
	Variant        Variant
	Result         Result
	PlacedCount    int
	UnplacedCount  int
	WastePercent   float64
	UtilizedVolume float64
}

// CompareVariants runs every requested variant over the same pallet and
// box set and returns one ComparisonResult per variant, in the order
// given. Each variant gets its own Packer so runs cannot share state.
func CompareVariants(variants []Variant, pallet model.Pallet, boxes []model.Box, opts Options) ([]ComparisonResult, error) {
	results := make([]ComparisonResult, 0, len(variants))

	for _, v := range variants {
		packer, err := NewPacker(v, opts)
		if err != nil {
			return nil, err
		}
		packer.SetPallet(pallet.Width, pallet.Depth, pallet.Height, pallet.MaxWeight)
		for _, b := range boxes {
			packer.AddBox(b.ID, b.Length, b.Width, b.Height, b.Weight)
		}
		result := packer.Pack()

		var utilized float64
		for _, p := range result.Placed {
			utilized += p.Effective.Volume()
		}
		palletVolume := pallet.Volume()
		waste := 0.0
		if palletVolume > 0 {
			waste = 100.0 * (1 - utilized/palletVolume)
		}

		results = append(results, ComparisonResult{
			Variant:        v,
			Result:         result,
			PlacedCount:    len(result.Placed),
			UnplacedCount:  len(result.Unplaced),
			WastePercent:   waste,
			UtilizedVolume: utilized,
		})
	}

	return results, nil
}

// BuildDefaultComparison compares every registered variant with the
// given base options, the way BuildDefaultScenarios surfaces what-if
// alternatives around a caller's current settings.
func BuildDefaultComparison(pallet model.Pallet, boxes []model.Box, base Options) ([]ComparisonResult, error) {
	return CompareVariants(Variants(), pallet, boxes, base)
}
