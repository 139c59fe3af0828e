// Package export provides functionality for exporting pack() results
// to various file formats.
package export

import (
	"fmt"
	"math"
	"sort"

	"github.com/go-pdf/fpdf"

	"github.com/piwi3910/palletpack/internal/engine"
	"github.com/piwi3910/palletpack/internal/model"
	"github.com/piwi3910/palletpack/internal/report"
)

// boxColor is an RGB color for a placed box.
type boxColor struct {
	R, G, B int
}

// boxColors mirrors the palette a pallet-viewer UI would cycle through.
var boxColors = []boxColor{
	{R: 76, G: 175, B: 80},  // green
	{R: 33, G: 150, B: 243}, // blue
	{R: 255, G: 152, B: 0},  // orange
	{R: 156, G: 39, B: 176}, // purple
	{R: 0, G: 188, B: 212},  // cyan
	{R: 244, G: 67, B: 54},  // red
	{R: 255, G: 235, B: 59}, // yellow
	{R: 121, G: 85, B: 72},  // brown
}

// Page layout constants (A4 landscape in mm).
const (
	pageWidth    = 297.0
	pageHeight   = 210.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 15.0
	headerHeight = 12.0
	statsHeight  = 20.0
	drawAreaTop  = marginTop + headerHeight + 5.0
)

// ExportPDF generates a pallet-diagram PDF: one top-down page per level,
// each drawing that level's boxes as colored rectangles, followed by a
// summary page with overall statistics and a per-level breakdown table.
func ExportPDF(path string, result engine.Result, rep report.Report) error {
	if len(result.Placed) == 0 {
		return fmt.Errorf("no placed boxes to export")
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, marginBottom)

	for _, level := range levelsOf(result.Placed) {
		pdf.AddPage()
		renderLevelPage(pdf, result.Pallet, level)
	}

	pdf.AddPage()
	renderSummaryPage(pdf, result, rep)

	return pdf.OutputFileAndClose(path)
}

// levelGroup is one z-level's worth of placed boxes, sorted by index.
type levelGroup struct {
	Index int
	Boxes []model.PlacedBox
}

// levelsOf buckets placed boxes by model.PlacedBox.Level and returns the
// buckets sorted by level index.
func levelsOf(placed []model.PlacedBox) []levelGroup {
	byLevel := make(map[int][]model.PlacedBox)
	for _, p := range placed {
		lvl := p.Level()
		byLevel[lvl] = append(byLevel[lvl], p)
	}
	levels := make([]int, 0, len(byLevel))
	for lvl := range byLevel {
		levels = append(levels, lvl)
	}
	sort.Ints(levels)

	groups := make([]levelGroup, len(levels))
	for i, lvl := range levels {
		groups[i] = levelGroup{Index: lvl, Boxes: byLevel[lvl]}
	}
	return groups
}

// renderLevelPage draws a top-down (x/y) plan view of one level's boxes.
func renderLevelPage(pdf *fpdf.Fpdf, pallet model.Pallet, level levelGroup) {
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetXY(marginLeft, marginTop)
	title := fmt.Sprintf("Level %d (%d boxes)", level.Index, len(level.Boxes))
	pdf.CellFormat(pageWidth-marginLeft-marginRight, headerHeight, title, "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetXY(marginLeft, marginTop+headerHeight)
	stats := fmt.Sprintf("Pallet: %.0f x %.0f cm | Boxes on this level: %d", pallet.Width, pallet.Depth, len(level.Boxes))
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 5, stats, "", 0, "L", false, 0, "")

	drawWidth := pageWidth - marginLeft - marginRight
	drawHeight := pageHeight - drawAreaTop - marginBottom - statsHeight

	scaleX := drawWidth / pallet.Width
	scaleY := drawHeight / pallet.Depth
	scale := math.Min(scaleX, scaleY)

	canvasW := pallet.Width * scale
	canvasH := pallet.Depth * scale

	offsetX := marginLeft + (drawWidth-canvasW)/2
	offsetY := drawAreaTop

	pdf.SetFillColor(230, 220, 200)
	pdf.SetDrawColor(100, 100, 100)
	pdf.SetLineWidth(0.5)
	pdf.Rect(offsetX, offsetY, canvasW, canvasH, "FD")

	for i, p := range level.Boxes {
		col := boxColors[i%len(boxColors)]
		bw := p.Effective.Dx * scale
		bh := p.Effective.Dy * scale
		bx := offsetX + p.Position.X*scale
		by := offsetY + p.Position.Y*scale

		pdf.SetFillColor(col.R, col.G, col.B)
		pdf.SetDrawColor(30, 30, 30)
		pdf.SetLineWidth(0.3)
		pdf.Rect(bx, by, bw, bh, "FD")

		if bw > 15 && bh > 8 {
			pdf.SetFont("Helvetica", "", labelFontSize(bw, bh))
			pdf.SetTextColor(0, 0, 0)

			label := p.ID
			dims := fmt.Sprintf("%.0fx%.0fx%.0f", p.Effective.Dx, p.Effective.Dy, p.Effective.Dz)

			labelW := pdf.GetStringWidth(label)
			dimsW := pdf.GetStringWidth(dims)

			if labelW < bw-2 {
				pdf.SetXY(bx+(bw-labelW)/2, by+bh/2-4)
				pdf.CellFormat(labelW, 4, label, "", 0, "C", false, 0, "")
			}
			if bh > 14 && dimsW < bw-2 {
				pdf.SetXY(bx+(bw-dimsW)/2, by+bh/2)
				pdf.CellFormat(dimsW, 4, dims, "", 0, "C", false, 0, "")
			}
		}
	}

	drawDimensionAnnotations(pdf, pallet, scale, offsetX, offsetY, canvasW, canvasH)
	drawBoxLegend(pdf, level, offsetY+canvasH+5)
}

// drawDimensionAnnotations adds width and depth labels outside the
// pallet footprint rectangle.
func drawDimensionAnnotations(pdf *fpdf.Fpdf, pallet model.Pallet, scale, offsetX, offsetY, canvasW, canvasH float64) {
	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(80, 80, 80)

	widthLabel := fmt.Sprintf("%.0f cm", pallet.Width)
	wLabelW := pdf.GetStringWidth(widthLabel)
	pdf.SetXY(offsetX+(canvasW-wLabelW)/2, offsetY+canvasH+1)
	pdf.CellFormat(wLabelW, 4, widthLabel, "", 0, "C", false, 0, "")

	depthLabel := fmt.Sprintf("%.0f cm", pallet.Depth)
	pdf.TransformBegin()
	pdf.TransformRotate(90, offsetX-3, offsetY+canvasH/2)
	dLabelW := pdf.GetStringWidth(depthLabel)
	pdf.SetXY(offsetX-3-dLabelW/2, offsetY+canvasH/2-2)
	pdf.CellFormat(dLabelW, 4, depthLabel, "", 0, "C", false, 0, "")
	pdf.TransformEnd()

	pdf.SetTextColor(0, 0, 0)
}

// drawBoxLegend renders a compact legend of the boxes on this level.
func drawBoxLegend(pdf *fpdf.Fpdf, level levelGroup, startY float64) {
	if len(level.Boxes) == 0 {
		return
	}

	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(marginLeft, startY)
	pdf.CellFormat(30, 4, "Boxes on level:", "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	xPos := marginLeft + 34
	maxX := pageWidth - marginRight

	for i, p := range level.Boxes {
		col := boxColors[i%len(boxColors)]
		label := fmt.Sprintf("%s (%.0fx%.0fx%.0f, %.1fkg)", p.ID, p.Effective.Dx, p.Effective.Dy, p.Effective.Dz, p.Weight)
		labelW := pdf.GetStringWidth(label) + 6

		if xPos+labelW > maxX {
			startY += 5
			xPos = marginLeft
		}

		pdf.SetFillColor(col.R, col.G, col.B)
		pdf.Rect(xPos, startY+0.5, 3, 3, "F")

		pdf.SetXY(xPos+4, startY)
		pdf.CellFormat(labelW-4, 4, label, "", 0, "L", false, 0, "")

		xPos += labelW + 2
	}
}

// renderSummaryPage draws the final summary page with overall statistics
// and a per-level breakdown table.
func renderSummaryPage(pdf *fpdf.Fpdf, result engine.Result, rep report.Report) {
	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 10, "Pallet Load Summary", "", 0, "L", false, 0, "")

	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.5)
	pdf.Line(marginLeft, marginTop+12, pageWidth-marginRight, marginTop+12)

	y := marginTop + 18

	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, "Overall Statistics", "", 0, "L", false, 0, "")
	y += 9

	summaryItems := []struct {
		label string
		value string
	}{
		{"Total Items", fmt.Sprintf("%d", rep.Summary.TotalItems)},
		{"Packed Items", fmt.Sprintf("%d", rep.Summary.PackedItems)},
		{"Unpacked Items", fmt.Sprintf("%d", rep.Summary.UnpackedItems)},
		{"Space Utilization", fmt.Sprintf("%.1f%%", rep.Summary.SpaceUtilization)},
		{"Weight Utilization", fmt.Sprintf("%.1f%%", rep.Metrics.WeightUtilization*100)},
		{"Packing Efficiency", fmt.Sprintf("%.1f%%", rep.Metrics.PackingEfficiency*100)},
		{"Center of Gravity", fmt.Sprintf("(%.1f, %.1f, %.1f) cm", rep.Metrics.CenterOfGravity.X, rep.Metrics.CenterOfGravity.Y, rep.Metrics.CenterOfGravity.Z)},
		{"Total Weight", fmt.Sprintf("%.1f kg", rep.Summary.TotalWeight)},
		{"Packed Weight", fmt.Sprintf("%.1f kg", rep.Summary.PackedWeight)},
	}

	pdf.SetFont("Helvetica", "", 10)
	for _, item := range summaryItems {
		pdf.SetXY(marginLeft+5, y)
		pdf.CellFormat(60, 6, item.label+":", "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(60, 6, item.value, "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		y += 7
	}

	y += 5

	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, "Level Breakdown", "", 0, "L", false, 0, "")
	y += 9

	colWidths := []float64{25, 30, 35, 35, 35}
	headers := []string{"Level", "Items", "Weight (kg)", "Z Range (cm)", "Volume (cm3)"}

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	xPos := marginLeft
	for i, header := range headers {
		pdf.SetXY(xPos, y)
		pdf.CellFormat(colWidths[i], 6, header, "1", 0, "C", true, 0, "")
		xPos += colWidths[i]
	}
	y += 6

	pdf.SetFont("Helvetica", "", 9)
	for i, lvl := range rep.Metrics.Levels {
		xPos = marginLeft
		rowData := []string{
			fmt.Sprintf("%d", lvl.Index),
			fmt.Sprintf("%d", lvl.ItemCount),
			fmt.Sprintf("%.1f", lvl.Weight),
			fmt.Sprintf("%.0f - %.0f", lvl.MinZ, lvl.MaxZ),
			fmt.Sprintf("%.0f", lvl.Volume),
		}
		if i%2 == 0 {
			pdf.SetFillColor(245, 245, 245)
		} else {
			pdf.SetFillColor(255, 255, 255)
		}
		for j, cell := range rowData {
			pdf.SetXY(xPos, y)
			pdf.CellFormat(colWidths[j], 6, cell, "1", 0, "C", true, 0, "")
			xPos += colWidths[j]
		}
		y += 6
	}

	if len(result.Unplaced) > 0 {
		y += 8
		pdf.SetFont("Helvetica", "B", 11)
		pdf.SetTextColor(200, 0, 0)
		pdf.SetXY(marginLeft, y)
		pdf.CellFormat(200, 7, "WARNING: Unplaced Boxes", "", 0, "L", false, 0, "")
		y += 8

		pdf.SetFont("Helvetica", "", 9)
		pdf.SetTextColor(0, 0, 0)

		for _, u := range result.Unplaced {
			pdf.SetXY(marginLeft+5, y)
			text := fmt.Sprintf("- %s: %.0f x %.0f x %.0f cm, %.1f kg (%s)", u.Box.ID, u.Box.Length, u.Box.Width, u.Box.Height, u.Box.Weight, u.Reason)
			pdf.CellFormat(200, 5, text, "", 0, "L", false, 0, "")
			y += 5
		}
	}

	if len(rep.Metrics.Recommendations) > 0 {
		y += 8
		pdf.SetFont("Helvetica", "B", 12)
		pdf.SetTextColor(0, 0, 0)
		pdf.SetXY(marginLeft, y)
		pdf.CellFormat(100, 7, "Recommendations", "", 0, "L", false, 0, "")
		y += 9

		pdf.SetFont("Helvetica", "", 9)
		for _, rec := range rep.Metrics.Recommendations {
			pdf.SetXY(marginLeft+5, y)
			pdf.CellFormat(200, 5, "- "+rec, "", 0, "L", false, 0, "")
			y += 5
		}
	}

	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(120, 120, 120)
	pdf.SetXY(marginLeft, pageHeight-marginBottom)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 4, "Generated by palletpack", "", 0, "C", false, 0, "")
}

// labelFontSize returns an appropriate font size based on the rectangle
// dimensions.
func labelFontSize(w, h float64) float64 {
	minDim := math.Min(w, h)
	switch {
	case minDim > 40:
		return 8
	case minDim > 20:
		return 7
	default:
		return 6
	}
}
