package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateBoxAcceptsReasonableInput(t *testing.T) {
	errs, warnings := ValidateBox(BoxInput{Name: "crate", Length: 40, Width: 30, Height: 20, Weight: 5}, DefaultRanges())

	assert.Empty(t, errs)
	assert.Empty(t, warnings)
}

func TestValidateBoxRejectsOutOfRangeDimension(t *testing.T) {
	errs, _ := ValidateBox(BoxInput{Name: "huge", Length: 600, Width: 30, Height: 20, Weight: 5}, DefaultRanges())

	require.Len(t, errs, 1)
	assert.Equal(t, "length", errs[0].Field)
}

func TestValidateBoxRejectsImplausibleDensity(t *testing.T) {
	errs, _ := ValidateBox(BoxInput{Name: "dense", Length: 10, Width: 10, Height: 10, Weight: 900}, DefaultRanges())

	require.NotEmpty(t, errs)
	assert.Equal(t, "density", errs[0].Type)
}

func TestValidateBoxWarnsOnSoftDensityBand(t *testing.T) {
	_, warnings := ValidateBox(BoxInput{Name: "light-fill", Length: 50, Width: 50, Height: 50, Weight: 2}, DefaultRanges())

	assert.NotEmpty(t, warnings)
}

func TestValidatePalletRejectsOutOfRangeHeight(t *testing.T) {
	errs, _ := ValidatePallet(PalletInput{Width: 120, Depth: 100, Height: 5, MaxWeight: 1000}, DefaultRanges())

	require.Len(t, errs, 1)
	assert.Equal(t, "height", errs[0].Field)
}

func TestValidateRequestNeverBlocksOnWarningsOnly(t *testing.T) {
	pallet := PalletInput{Width: 120, Depth: 100, Height: 100, MaxWeight: 6000}
	boxes := []BoxInput{{Name: "a", Length: 40, Width: 30, Height: 20, Weight: 5}}

	result := ValidateRequest(pallet, boxes, DefaultRanges())

	assert.True(t, result.IsValid)
	assert.NotEmpty(t, result.Warnings)
}

func TestValidateRequestIsInvalidOnHardError(t *testing.T) {
	pallet := PalletInput{Width: 120, Depth: 100, Height: 100, MaxWeight: 1000}
	boxes := []BoxInput{{Name: "huge", Length: 9999, Width: 30, Height: 20, Weight: 5}}

	result := ValidateRequest(pallet, boxes, DefaultRanges())

	assert.False(t, result.IsValid)
	assert.NotEmpty(t, result.Errors)
}
