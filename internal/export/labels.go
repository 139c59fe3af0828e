package export

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/go-pdf/fpdf"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/piwi3910/palletpack/internal/model"
)

// LabelInfo holds the data encoded into each box label's QR code.
type LabelInfo struct {
	BoxID  string  `json:"id"`
	Width  float64 `json:"width_cm"`
	Depth  float64 `json:"depth_cm"`
	Height float64 `json:"height_cm"`
	Weight float64 `json:"weight_kg"`
	X      float64 `json:"x_cm"`
	Y      float64 `json:"y_cm"`
	Z      float64 `json:"z_cm"`
}

// Label layout constants for Avery 5160-compatible labels (3 columns,
// 10 rows per page). Each label cell is approximately 66.7mm x 25.4mm
// on US Letter paper.
const (
	labelPageWidth  = 215.9 // US Letter width in mm
	labelPageHeight = 279.4 // US Letter height in mm
	labelMarginTop  = 12.7  // mm
	labelMarginLeft = 4.8   // mm
	labelWidth      = 66.7  // mm per label
	labelHeight     = 25.4  // mm per label
	labelCols       = 3
	labelRows       = 10
	labelsPerPage   = labelCols * labelRows
	qrSize          = 20.0 // QR code size in mm
	labelPadding    = 2.0  // mm internal padding
)

// ExportLabels generates a PDF of QR-coded labels for every placed box.
// Each label carries the box id, dimensions, weight, and pallet position,
// and a QR code encoding that same metadata as JSON. Labels are laid out
// on a standard label sheet format (Avery 5160 / 3 columns x 10 rows on
// US Letter).
func ExportLabels(path string, placed []model.PlacedBox) error {
	if len(placed) == 0 {
		return fmt.Errorf("no placed boxes to generate labels for")
	}

	labels := CollectLabelInfos(placed)

	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.SetAutoPageBreak(false, 0)

	for i, label := range labels {
		if i%labelsPerPage == 0 {
			pdf.AddPage()
		}

		posOnPage := i % labelsPerPage
		col := posOnPage % labelCols
		row := posOnPage / labelCols

		x := labelMarginLeft + float64(col)*labelWidth
		y := labelMarginTop + float64(row)*labelHeight

		if err := renderLabel(pdf, x, y, label); err != nil {
			return fmt.Errorf("failed to render label for %q: %w", label.BoxID, err)
		}
	}

	return pdf.OutputFileAndClose(path)
}

// renderLabel draws a single label at the given position.
func renderLabel(pdf *fpdf.Fpdf, x, y float64, info LabelInfo) error {
	pdf.SetDrawColor(200, 200, 200)
	pdf.SetLineWidth(0.1)
	pdf.Rect(x, y, labelWidth, labelHeight, "D")

	qrData, err := json.Marshal(info)
	if err != nil {
		return fmt.Errorf("failed to marshal label info: %w", err)
	}

	qrPNG, err := qrcode.Encode(string(qrData), qrcode.Medium, 256)
	if err != nil {
		return fmt.Errorf("failed to generate QR code: %w", err)
	}

	imgName := fmt.Sprintf("qr_%s_%d", info.BoxID, int(info.X*1000+info.Y))
	pdf.RegisterImageOptionsReader(imgName, fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(qrPNG))

	qrX := x + labelWidth - qrSize - labelPadding
	qrY := y + (labelHeight-qrSize)/2
	pdf.ImageOptions(imgName, qrX, qrY, qrSize, qrSize, false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")

	textX := x + labelPadding
	textW := labelWidth - qrSize - 3*labelPadding

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(textX, y+labelPadding)

	boxID := info.BoxID
	if pdf.GetStringWidth(boxID) > textW {
		for len(boxID) > 0 && pdf.GetStringWidth(boxID+"...") > textW {
			boxID = boxID[:len(boxID)-1]
		}
		boxID += "..."
	}
	pdf.CellFormat(textW, 4.5, boxID, "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	pdf.SetXY(textX, y+labelPadding+5)
	dims := fmt.Sprintf("%.0f x %.0f x %.0f cm", info.Width, info.Depth, info.Height)
	pdf.CellFormat(textW, 3.5, dims, "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 6)
	pdf.SetTextColor(100, 100, 100)
	pdf.SetXY(textX, y+labelPadding+9)
	posInfo := fmt.Sprintf("%.1f kg @ (%.0f, %.0f, %.0f)", info.Weight, info.X, info.Y, info.Z)
	pdf.CellFormat(textW, 3, posInfo, "", 1, "L", false, 0, "")

	pdf.SetTextColor(0, 0, 0)

	return nil
}

// CollectLabelInfos extracts label information from a placed-box set for
// use in testing or alternative export formats.
func CollectLabelInfos(placed []model.PlacedBox) []LabelInfo {
	labels := make([]LabelInfo, 0, len(placed))
	for _, p := range placed {
		labels = append(labels, LabelInfo{
			BoxID:  p.ID,
			Width:  p.Effective.Dx,
			Depth:  p.Effective.Dy,
			Height: p.Effective.Dz,
			Weight: p.Weight,
			X:      p.Position.X,
			Y:      p.Position.Y,
			Z:      p.Position.Z,
		})
	}
	return labels
}
