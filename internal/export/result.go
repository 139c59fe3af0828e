// Package export serializes a finished pack() result to several file
// formats: JSON, CSV, a multi-sheet workbook, a pallet-diagram PDF, and
// QR-coded box labels.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/palletpack/internal/engine"
	"github.com/piwi3910/palletpack/internal/report"
)

// PackedItem is one placed box in the §6.3 result schema.
type PackedItem struct {
	Name       string     `json:"name"`
	Position   Position   `json:"position"`
	Dimensions Dimensions `json:"dimensions"`
	Weight     float64    `json:"weight"`
}

// Position mirrors §6.3's {x, y, z}.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Dimensions mirrors §6.3's {width, height, depth}.
type Dimensions struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Depth  float64 `json:"depth"`
}

// UnpackedItem is one rejected box in the §6.3 result schema.
type UnpackedItem struct {
	Name       string     `json:"name"`
	Dimensions Dimensions `json:"dimensions"`
	Weight     float64    `json:"weight"`
	Reason     string     `json:"reason,omitempty"`
}

// ResultPayload is the exact §6.3 {summary, packed_items, unpacked_items}
// document, the shape every export format serializes.
type ResultPayload struct {
	Summary       report.Summary `json:"summary"`
	PackedItems   []PackedItem   `json:"packed_items"`
	UnpackedItems []UnpackedItem `json:"unpacked_items"`
}

// BuildPayload flattens an engine.Result and its report.Report into the
// §6.3 export shape. Position/Dimensions use the box's effective
// (post-rotation) extent — width/height/depth here name pallet x/z/y,
// matching the axis labels the rest of §6.3 uses.
func BuildPayload(result engine.Result, rep report.Report) ResultPayload {
	payload := ResultPayload{Summary: rep.Summary}

	for _, p := range result.Placed {
		payload.PackedItems = append(payload.PackedItems, PackedItem{
			Name: p.ID,
			Position: Position{
				X: p.Position.X,
				Y: p.Position.Y,
				Z: p.Position.Z,
			},
			Dimensions: Dimensions{
				Width:  p.Effective.Dx,
				Height: p.Effective.Dz,
				Depth:  p.Effective.Dy,
			},
			Weight: p.Weight,
		})
	}

	for _, u := range result.Unplaced {
		payload.UnpackedItems = append(payload.UnpackedItems, UnpackedItem{
			Name: u.Box.ID,
			Dimensions: Dimensions{
				Width:  u.Box.Length,
				Height: u.Box.Height,
				Depth:  u.Box.Width,
			},
			Weight: u.Box.Weight,
			Reason: string(u.Reason),
		})
	}

	return payload
}

// WriteJSON writes the §6.3 payload as indented JSON.
func WriteJSON(w io.Writer, payload ResultPayload) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(payload)
}

// WriteCSV writes one row per placed item: name, x, y, z, width, height,
// depth, weight. Unpacked items are not part of the CSV shape — §6.3
// calls the CSV form "one row per placed item" specifically.
func WriteCSV(w io.Writer, payload ResultPayload) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	header := []string{"name", "x", "y", "z", "width", "height", "depth", "weight"}
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, item := range payload.PackedItems {
		row := []string{
			item.Name,
			formatFloat(item.Position.X),
			formatFloat(item.Position.Y),
			formatFloat(item.Position.Z),
			formatFloat(item.Dimensions.Width),
			formatFloat(item.Dimensions.Height),
			formatFloat(item.Dimensions.Depth),
			formatFloat(item.Weight),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	return cw.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 3, 64)
}

// WriteWorkbook writes a three-sheet workbook: Packed, Unpacked, and
// Summary, per §6.3's closing sentence.
func WriteWorkbook(path string, payload ResultPayload) error {
	f := excelize.NewFile()
	defer f.Close()

	const packedSheet = "Packed"
	const unpackedSheet = "Unpacked"
	const summarySheet = "Summary"

	f.SetSheetName("Sheet1", packedSheet)
	packedHeader := []string{"Name", "X", "Y", "Z", "Width", "Height", "Depth", "Weight"}
	writeRow(f, packedSheet, 1, toInterfaceRow(packedHeader))
	for i, item := range payload.PackedItems {
		row := []interface{}{
			item.Name, item.Position.X, item.Position.Y, item.Position.Z,
			item.Dimensions.Width, item.Dimensions.Height, item.Dimensions.Depth, item.Weight,
		}
		writeRow(f, packedSheet, i+2, row)
	}

	unpackedIdx, err := f.NewSheet(unpackedSheet)
	if err != nil {
		return fmt.Errorf("create unpacked sheet: %w", err)
	}
	unpackedHeader := []string{"Name", "Width", "Height", "Depth", "Weight", "Reason"}
	writeRow(f, unpackedSheet, 1, toInterfaceRow(unpackedHeader))
	for i, item := range payload.UnpackedItems {
		row := []interface{}{
			item.Name, item.Dimensions.Width, item.Dimensions.Height, item.Dimensions.Depth,
			item.Weight, item.Reason,
		}
		writeRow(f, unpackedSheet, i+2, row)
	}

	summaryIdx, err := f.NewSheet(summarySheet)
	if err != nil {
		return fmt.Errorf("create summary sheet: %w", err)
	}
	summaryRows := [][]interface{}{
		{"Total Items", payload.Summary.TotalItems},
		{"Packed Items", payload.Summary.PackedItems},
		{"Unpacked Items", payload.Summary.UnpackedItems},
		{"Space Utilization (%)", payload.Summary.SpaceUtilization},
		{"Calculation Time (s)", payload.Summary.CalculationTime},
		{"Total Weight (kg)", payload.Summary.TotalWeight},
		{"Packed Weight (kg)", payload.Summary.PackedWeight},
	}
	for i, row := range summaryRows {
		writeRow(f, summarySheet, i+1, row)
	}

	f.SetActiveSheet(unpackedIdx)
	f.SetActiveSheet(summaryIdx)
	f.SetActiveSheet(0)

	return f.SaveAs(path)
}

func toInterfaceRow(s []string) []interface{} {
	row := make([]interface{}, len(s))
	for i, v := range s {
		row[i] = v
	}
	return row
}

func writeRow(f *excelize.File, sheet string, rowNum int, row []interface{}) {
	for col, v := range row {
		cell, _ := excelize.CoordinatesToCellName(col+1, rowNum)
		f.SetCellValue(sheet, cell, v)
	}
}
