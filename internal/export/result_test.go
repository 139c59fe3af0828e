package export

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/palletpack/internal/analytics"
	"github.com/piwi3910/palletpack/internal/engine"
	"github.com/piwi3910/palletpack/internal/model"
	"github.com/piwi3910/palletpack/internal/report"
)

func sampleResult() engine.Result {
	return engine.Result{
		Pallet: model.Pallet{Width: 120, Depth: 180, Height: 100, MaxWeight: 1000},
		Placed: []model.PlacedBox{
			{
				Box:       model.Box{ID: "crate_0", Weight: 12},
				Position:  model.Point{X: 0, Y: 0, Z: 0},
				Effective: model.Dims{Dx: 40, Dy: 30, Dz: 20},
			},
		},
		Unplaced: []model.UnplacedBox{
			{Box: model.Box{ID: "crate_1", Length: 200, Width: 200, Height: 200, Weight: 50}, Reason: model.ReasonOutOfBounds, Note: "too large"},
		},
		Analytics:        analytics.New(),
		CalculationTime:  2 * time.Millisecond,
		TotalInputCount:  2,
		TotalInputWeight: 62,
		TotalInputVolume: 40 * 30 * 20 + 200*200*200,
	}
}

func TestBuildPayloadFlattensPlacedAndUnplaced(t *testing.T) {
	result := sampleResult()
	rep := report.Build(result)

	payload := BuildPayload(result, rep)

	require.Len(t, payload.PackedItems, 1)
	assert.Equal(t, "crate_0", payload.PackedItems[0].Name)
	assert.Equal(t, 40.0, payload.PackedItems[0].Dimensions.Width)
	assert.Equal(t, 20.0, payload.PackedItems[0].Dimensions.Height)
	assert.Equal(t, 30.0, payload.PackedItems[0].Dimensions.Depth)

	require.Len(t, payload.UnpackedItems, 1)
	assert.Equal(t, "crate_1", payload.UnpackedItems[0].Name)
	assert.Equal(t, string(model.ReasonOutOfBounds), payload.UnpackedItems[0].Reason)

	assert.Equal(t, 2, payload.Summary.TotalItems)
	assert.Equal(t, 1, payload.Summary.PackedItems)
}

func TestWriteJSONProducesValidDocument(t *testing.T) {
	result := sampleResult()
	payload := BuildPayload(result, report.Build(result))

	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, payload))

	assert.True(t, strings.Contains(buf.String(), "\"packed_items\""))
	assert.True(t, strings.Contains(buf.String(), "crate_0"))
}

func TestWriteCSVHasOneRowPerPlacedItem(t *testing.T) {
	result := sampleResult()
	payload := BuildPayload(result, report.Build(result))

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, payload))

	rows, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	require.NoError(t, err)

	require.Len(t, rows, 2) // header + one placed item
	assert.Equal(t, "name", rows[0][0])
	assert.Equal(t, "crate_0", rows[1][0])
}

func TestWriteWorkbookWritesFileWithThreeSheets(t *testing.T) {
	result := sampleResult()
	payload := BuildPayload(result, report.Build(result))

	path := t.TempDir() + "/result.xlsx"
	require.NoError(t, WriteWorkbook(path, payload))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	assert.Len(t, f.GetSheetList(), 3)
}
