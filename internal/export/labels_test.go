package export

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/piwi3910/palletpack/internal/model"
)

func buildLabelsTestBoxes() []model.PlacedBox {
	return []model.PlacedBox{
		{Box: model.Box{ID: "crate_0", Weight: 12}, Position: model.Point{X: 10, Y: 10, Z: 0}, Effective: model.Dims{Dx: 60, Dy: 40, Dz: 30}},
		{Box: model.Box{ID: "crate_1", Weight: 8}, Position: model.Point{X: 70, Y: 10, Z: 0}, Effective: model.Dims{Dx: 50, Dy: 30, Dz: 20}},
		{Box: model.Box{ID: "crate_2", Weight: 5}, Position: model.Point{X: 10, Y: 10, Z: 30}, Effective: model.Dims{Dx: 60, Dy: 40, Dz: 15}},
	}
}

func TestExportLabels_CreatesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "labels.pdf")

	err := ExportLabels(path, buildLabelsTestBoxes())
	if err != nil {
		t.Fatalf("ExportLabels returned error: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("PDF file was not created: %v", err)
	}
	if info.Size() == 0 {
		t.Fatal("PDF file is empty")
	}
	if info.Size() < 500 {
		t.Errorf("PDF file seems too small: %d bytes", info.Size())
	}
}

func TestExportLabels_EmptyResult(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.pdf")

	err := ExportLabels(path, nil)
	if err == nil {
		t.Fatal("expected error for empty result, got nil")
	}
}

func TestCollectLabelInfos(t *testing.T) {
	labels := CollectLabelInfos(buildLabelsTestBoxes())

	if len(labels) != 3 {
		t.Fatalf("expected 3 labels, got %d", len(labels))
	}

	if labels[0].BoxID != "crate_0" {
		t.Errorf("expected first label id 'crate_0', got %q", labels[0].BoxID)
	}
	if labels[0].Width != 60 || labels[0].Depth != 40 || labels[0].Height != 30 {
		t.Errorf("wrong dimensions: got %.0fx%.0fx%.0f, want 60x40x30", labels[0].Width, labels[0].Depth, labels[0].Height)
	}
	if labels[0].X != 10 || labels[0].Y != 10 {
		t.Errorf("wrong position: got (%.0f, %.0f), want (10, 10)", labels[0].X, labels[0].Y)
	}

	if labels[2].Z != 30 {
		t.Errorf("expected third label at z=30, got %.0f", labels[2].Z)
	}
}

func TestLabelInfo_JSONRoundTrip(t *testing.T) {
	info := LabelInfo{
		BoxID:  "crate_9",
		Width:  60,
		Depth:  40,
		Height: 30,
		Weight: 12,
		X:      10,
		Y:      20,
		Z:      0,
	}

	data, err := json.Marshal(info)
	if err != nil {
		t.Fatalf("failed to marshal: %v", err)
	}

	var decoded LabelInfo
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("failed to unmarshal: %v", err)
	}

	if decoded.BoxID != info.BoxID {
		t.Errorf("id mismatch: got %q, want %q", decoded.BoxID, info.BoxID)
	}
	if decoded.Width != info.Width || decoded.Height != info.Height || decoded.Depth != info.Depth {
		t.Errorf("dimensions mismatch: got %.0fx%.0fx%.0f, want %.0fx%.0fx%.0f",
			decoded.Width, decoded.Depth, decoded.Height, info.Width, info.Depth, info.Height)
	}
	if decoded.Weight != info.Weight {
		t.Error("weight mismatch")
	}
}

func TestExportLabels_ManyBoxesSpanMultiplePages(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "many_labels.pdf")

	placed := make([]model.PlacedBox, 35)
	for i := range placed {
		placed[i] = model.PlacedBox{
			Box:       model.Box{ID: model.NewBox(10, 8, 5, 1).ID, Weight: 1},
			Position:  model.Point{X: float64(i * 10), Y: 10, Z: 0},
			Effective: model.Dims{Dx: 10 + float64(i), Dy: 8, Dz: 5},
		}
	}

	if err := ExportLabels(path, placed); err != nil {
		t.Fatalf("ExportLabels returned error: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("PDF file was not created: %v", err)
	}
	if info.Size() == 0 {
		t.Fatal("PDF file is empty")
	}
}
