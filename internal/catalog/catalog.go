// Package catalog loads box/pallet catalogues from CSV or workbook
// files and holds the standard box/pallet presets served by GET
// /standard-boxes. Import parsing does delimiter sniffing,
// case-insensitive header aliasing, and a positional fallback when no
// header is present.
package catalog

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/maruel/natural"
	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/palletpack/internal/model"
)

// Entry is one catalogue row before quantity expansion.
type Entry struct {
	Name   string
	Length float64
	Width  float64
	Height float64
	Weight float64
	Qty    int
}

// ImportResult bundles expanded boxes plus any errors/warnings
// encountered per row.
type ImportResult struct {
	Boxes    []model.Box
	Errors   []string
	Warnings []string
}

// columnAliases maps canonical column roles to accepted header spellings,
// lowercase.
var columnAliases = map[string][]string{
	"name":   {"name", "label", "part", "description", "item"},
	"length": {"length", "l", "len"},
	"width":  {"width", "w"},
	"height": {"height", "h", "depth", "d"},
	"weight": {"weight", "wt", "mass", "kg"},
	"qty":    {"quantity", "qty", "count", "num", "amount", "pcs", "pieces"},
}

// columnMapping is the per-file column-index assignment, -1 when absent.
type columnMapping struct {
	Name, Length, Width, Height, Weight, Qty int
}

// DetectDelimiter tries comma, semicolon, tab, and pipe, and returns
// whichever produces the most row-count-consistent parse.
func DetectDelimiter(data []byte) rune {
	candidates := []rune{',', ';', '\t', '|'}
	best := ','
	bestScore := 0

	for _, delim := range candidates {
		reader := csv.NewReader(bytes.NewReader(data))
		reader.Comma = delim
		reader.LazyQuotes = true
		reader.FieldsPerRecord = -1

		records, err := reader.ReadAll()
		if err != nil || len(records) < 1 || len(records[0]) < 2 {
			continue
		}

		firstCols := len(records[0])
		score := 0
		for _, row := range records {
			if len(row) == firstCols {
				score++
			}
		}
		weighted := score*10 + firstCols
		if weighted > bestScore {
			bestScore = weighted
			best = delim
		}
	}
	return best
}

// detectColumns performs case-insensitive alias matching against a
// header row. Returns a positional fallback (name,length,width,height,
// weight,qty) when no recognizable header is found.
func detectColumns(row []string) (columnMapping, bool) {
	mapping := columnMapping{Name: -1, Length: -1, Width: -1, Height: -1, Weight: -1, Qty: -1}
	found := false

	for i, cell := range row {
		normalized := strings.ToLower(strings.TrimSpace(cell))
		for role, aliases := range columnAliases {
			for _, alias := range aliases {
				if normalized != alias {
					continue
				}
				found = true
				switch role {
				case "name":
					if mapping.Name == -1 {
						mapping.Name = i
					}
				case "length":
					if mapping.Length == -1 {
						mapping.Length = i
					}
				case "width":
					if mapping.Width == -1 {
						mapping.Width = i
					}
				case "height":
					if mapping.Height == -1 {
						mapping.Height = i
					}
				case "weight":
					if mapping.Weight == -1 {
						mapping.Weight = i
					}
				case "qty":
					if mapping.Qty == -1 {
						mapping.Qty = i
					}
				}
			}
		}
	}

	if !found {
		return columnMapping{Name: 0, Length: 1, Width: 2, Height: 3, Weight: 4, Qty: 5}, false
	}
	return mapping, true
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func isEmptyRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func parseRow(row []string, m columnMapping, rowLabel string, seq int) (Entry, string) {
	name := cell(row, m.Name)
	if name == "" {
		name = fmt.Sprintf("box_%d", seq)
	}

	length, err := strconv.ParseFloat(cell(row, m.Length), 64)
	if err != nil {
		return Entry{}, fmt.Sprintf("%s: invalid length %q", rowLabel, cell(row, m.Length))
	}
	width, err := strconv.ParseFloat(cell(row, m.Width), 64)
	if err != nil {
		return Entry{}, fmt.Sprintf("%s: invalid width %q", rowLabel, cell(row, m.Width))
	}
	height, err := strconv.ParseFloat(cell(row, m.Height), 64)
	if err != nil {
		return Entry{}, fmt.Sprintf("%s: invalid height %q", rowLabel, cell(row, m.Height))
	}
	weight, err := strconv.ParseFloat(cell(row, m.Weight), 64)
	if err != nil {
		return Entry{}, fmt.Sprintf("%s: invalid weight %q", rowLabel, cell(row, m.Weight))
	}
	qty, err := strconv.Atoi(cell(row, m.Qty))
	if err != nil || qty < 1 {
		return Entry{}, fmt.Sprintf("%s: invalid quantity %q", rowLabel, cell(row, m.Qty))
	}
	if length <= 0 || width <= 0 || height <= 0 || weight <= 0 {
		return Entry{}, fmt.Sprintf("%s: length, width, height, and weight must be positive", rowLabel)
	}

	return Entry{Name: name, Length: length, Width: width, Height: height, Weight: weight, Qty: qty}, ""
}

// expand turns one catalogue row into qty distinct boxes, ids
// name_0 .. name_{qty-1}.
func expand(e Entry) []model.Box {
	boxes := make([]model.Box, e.Qty)
	for i := 0; i < e.Qty; i++ {
		box := model.NewBox(e.Length, e.Width, e.Height, e.Weight)
		box.ID = fmt.Sprintf("%s_%d", e.Name, i)
		boxes[i] = box
	}
	return boxes
}

func importFromRows(rows [][]string, rowPrefix string) ImportResult {
	var result ImportResult
	if len(rows) == 0 {
		result.Errors = append(result.Errors, "no data rows found")
		return result
	}

	mapping, hasHeader := detectColumns(rows[0])
	start := 0
	if hasHeader {
		start = 1
		var missing []string
		if mapping.Length == -1 {
			missing = append(missing, "length")
		}
		if mapping.Width == -1 {
			missing = append(missing, "width")
		}
		if mapping.Height == -1 {
			missing = append(missing, "height")
		}
		if mapping.Weight == -1 {
			missing = append(missing, "weight")
		}
		if mapping.Qty == -1 {
			missing = append(missing, "quantity")
		}
		if len(missing) > 0 {
			result.Errors = append(result.Errors, fmt.Sprintf("required columns not found in header: %s", strings.Join(missing, ", ")))
			return result
		}
	}

	for i := start; i < len(rows); i++ {
		row := rows[i]
		if isEmptyRow(row) {
			continue
		}
		rowLabel := fmt.Sprintf("%s %d", rowPrefix, i+1)
		entry, errMsg := parseRow(row, mapping, rowLabel, len(result.Boxes))
		if errMsg != "" {
			result.Errors = append(result.Errors, errMsg)
			continue
		}
		result.Boxes = append(result.Boxes, expand(entry)...)
	}

	sortBoxesNaturally(result.Boxes)
	return result
}

// sortBoxesNaturally orders expanded boxes by natural id comparison
// (box_2 before box_10), the way 91xusir-rectpack2d orders generated
// image filenames with github.com/maruel/natural's sort.Interface.
func sortBoxesNaturally(boxes []model.Box) {
	ids := make([]string, len(boxes))
	byID := make(map[string]model.Box, len(boxes))
	for i, b := range boxes {
		ids[i] = b.ID
		byID[b.ID] = b
	}
	sort.Sort(natural.StringSlice(ids))
	for i, id := range ids {
		boxes[i] = byID[id]
	}
}

// ImportCSV reads a box catalogue from a CSV file, auto-detecting the
// delimiter and header.
func ImportCSV(path string) ImportResult {
	data, err := os.ReadFile(path)
	if err != nil {
		return ImportResult{Errors: []string{fmt.Sprintf("cannot open file: %v", err)}}
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return ImportResult{Errors: []string{"file is empty"}}
	}

	delimiter := DetectDelimiter(data)
	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = delimiter
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return ImportResult{Errors: []string{fmt.Sprintf("cannot read csv: %v", err)}}
	}
	return importFromRows(records, "line")
}

// ImportCSVFromReader reads a box catalogue from an already-open reader
// with a known delimiter, such as an in-memory buffer in tests.
func ImportCSVFromReader(r io.Reader, delimiter rune) ImportResult {
	reader := csv.NewReader(r)
	reader.Comma = delimiter
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return ImportResult{Errors: []string{fmt.Sprintf("cannot read csv: %v", err)}}
	}
	return importFromRows(records, "line")
}

// ImportWorkbook reads a box catalogue from the first sheet of an
// Excel/ODS workbook.
func ImportWorkbook(path string) ImportResult {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return ImportResult{Errors: []string{fmt.Sprintf("cannot open workbook: %v", err)}}
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return ImportResult{Errors: []string{"workbook has no sheets"}}
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return ImportResult{Errors: []string{fmt.Sprintf("cannot read workbook data: %v", err)}}
	}
	return importFromRows(rows, "row")
}
