// Command palletpack packs a box catalogue onto a pallet from the
// command line and writes the result in one of several formats.
// Grounded on the flag-based CLI shape used elsewhere in the pack: a
// flat set of flag pointers assembled into an Options struct, then one
// straight-line main.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/piwi3910/palletpack/internal/catalog"
	"github.com/piwi3910/palletpack/internal/config"
	"github.com/piwi3910/palletpack/internal/engine"
	"github.com/piwi3910/palletpack/internal/export"
	"github.com/piwi3910/palletpack/internal/model"
	"github.com/piwi3910/palletpack/internal/report"
)

const version = "1.0.0"

// options holds every CLI flag, assembled once in main.
type options struct {
	CataloguePath string
	PalletWidth   float64
	PalletDepth   float64
	PalletHeight  float64
	PalletWeight  float64
	Method        string
	Threshold     float64
	WeightCheck   bool
	OutputFormat  string
	OutputPath    string
}

func main() {
	if len(os.Args) > 1 && os.Args[1] == "compare" {
		if err := runCompare(os.Args[2:]); err != nil {
			fmt.Printf("error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	cfg, err := config.LoadDefault()
	if err != nil {
		fmt.Printf("warning: failed to load config, using defaults: %v\n", err)
		cfg = config.DefaultAppConfig()
	}

	cataloguePtr := flag.String("catalog", "", "path to a CSV/workbook box catalogue (required)")
	widthPtr := flag.Float64("pallet-width", cfg.DefaultPalletWidth, "pallet width in cm")
	depthPtr := flag.Float64("pallet-depth", cfg.DefaultPalletDepth, "pallet depth in cm")
	heightPtr := flag.Float64("pallet-height", cfg.DefaultPalletHeight, "pallet max stack height in cm")
	weightPtr := flag.Float64("pallet-max-weight", cfg.DefaultPalletMaxWeight, "pallet max cumulative weight in kg")
	methodPtr := flag.String("method", string(cfg.DefaultVariant), "packing variant: weight_aware, extreme_points, laff, corner_points, sfc")
	thresholdPtr := flag.Float64("support-threshold", cfg.DefaultSupportThreshold, "minimum support ratio to accept a placement")
	weightCheckPtr := flag.Bool("weight-check", cfg.DefaultWeightCheckEnabled, "reject boxes resting on a lighter supporter")
	formatPtr := flag.String("format", "json", "output format: json, csv, xlsx, pdf, labels")
	outPtr := flag.String("out", "result", "output file path without extension")
	flag.Parse()

	opts := options{
		CataloguePath: *cataloguePtr,
		PalletWidth:   *widthPtr,
		PalletDepth:   *depthPtr,
		PalletHeight:  *heightPtr,
		PalletWeight:  *weightPtr,
		Method:        *methodPtr,
		Threshold:     *thresholdPtr,
		WeightCheck:   *weightCheckPtr,
		OutputFormat:  *formatPtr,
		OutputPath:    *outPtr,
	}

	if opts.CataloguePath == "" {
		fmt.Println("error: -catalog is required")
		flag.Usage()
		os.Exit(1)
	}

	if err := run(opts); err != nil {
		fmt.Printf("error: %v\n", err)
		os.Exit(1)
	}
}

func run(opts options) error {
	boxes, err := loadCatalogue(opts.CataloguePath)
	if err != nil {
		return fmt.Errorf("load catalogue: %w", err)
	}
	fmt.Printf("loaded %d boxes from %s\n", len(boxes), opts.CataloguePath)

	packerOpts := engine.DefaultOptions()
	packerOpts.SupportThreshold = opts.Threshold
	packerOpts.WeightCheckEnabled = opts.WeightCheck

	packer, err := engine.NewPacker(engine.Variant(opts.Method), packerOpts)
	if err != nil {
		return fmt.Errorf("build packer: %w", err)
	}
	packer.SetPallet(opts.PalletWidth, opts.PalletDepth, opts.PalletHeight, opts.PalletWeight)
	for _, b := range boxes {
		packer.AddBox(b.ID, b.Length, b.Width, b.Height, b.Weight)
	}

	result := packer.Pack()
	rep := report.Build(result)

	fmt.Printf("packed %d/%d boxes (%.1f%% space utilization) in %s\n",
		len(result.Placed), len(boxes), rep.Summary.SpaceUtilization, result.CalculationTime)
	for _, rec := range rep.Metrics.Recommendations {
		fmt.Printf("  - %s\n", rec)
	}

	return writeOutput(opts, result, rep)
}

func loadCatalogue(path string) ([]model.Box, error) {
	var imported catalog.ImportResult
	switch ext := fileExt(path); ext {
	case ".csv":
		imported = catalog.ImportCSV(path)
	default:
		imported = catalog.ImportWorkbook(path)
	}
	for _, w := range imported.Warnings {
		fmt.Printf("warning: %s\n", w)
	}
	if len(imported.Errors) > 0 {
		return nil, fmt.Errorf("%d row errors, first: %s", len(imported.Errors), imported.Errors[0])
	}
	return imported.Boxes, nil
}

func fileExt(path string) string {
	for i := len(path) - 1; i >= 0 && path[i] != '/'; i-- {
		if path[i] == '.' {
			return path[i:]
		}
	}
	return ""
}

func writeOutput(opts options, result engine.Result, rep report.Report) error {
	payload := export.BuildPayload(result, rep)

	switch opts.OutputFormat {
	case "json":
		f, err := os.Create(opts.OutputPath + ".json")
		if err != nil {
			return err
		}
		defer f.Close()
		return export.WriteJSON(f, payload)
	case "csv":
		f, err := os.Create(opts.OutputPath + ".csv")
		if err != nil {
			return err
		}
		defer f.Close()
		return export.WriteCSV(f, payload)
	case "xlsx":
		return export.WriteWorkbook(opts.OutputPath+".xlsx", payload)
	case "pdf":
		return export.ExportPDF(opts.OutputPath+".pdf", result, rep)
	case "labels":
		return export.ExportLabels(opts.OutputPath+"_labels.pdf", result.Placed)
	default:
		return fmt.Errorf("unknown output format %q", opts.OutputFormat)
	}
}

// runCompare implements `palletpack compare`: load one catalogue and run
// every packing variant over it, printing a side-by-side table instead
// of writing a result file.
func runCompare(args []string) error {
	cfg, err := config.LoadDefault()
	if err != nil {
		fmt.Printf("warning: failed to load config, using defaults: %v\n", err)
		cfg = config.DefaultAppConfig()
	}

	fs := flag.NewFlagSet("compare", flag.ExitOnError)
	cataloguePtr := fs.String("catalog", "", "path to a CSV/workbook box catalogue (required)")
	widthPtr := fs.Float64("pallet-width", cfg.DefaultPalletWidth, "pallet width in cm")
	depthPtr := fs.Float64("pallet-depth", cfg.DefaultPalletDepth, "pallet depth in cm")
	heightPtr := fs.Float64("pallet-height", cfg.DefaultPalletHeight, "pallet max stack height in cm")
	weightPtr := fs.Float64("pallet-max-weight", cfg.DefaultPalletMaxWeight, "pallet max cumulative weight in kg")
	thresholdPtr := fs.Float64("support-threshold", cfg.DefaultSupportThreshold, "minimum support ratio to accept a placement")
	weightCheckPtr := fs.Bool("weight-check", cfg.DefaultWeightCheckEnabled, "reject boxes resting on a lighter supporter")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *cataloguePtr == "" {
		fs.Usage()
		return fmt.Errorf("-catalog is required")
	}

	boxes, err := loadCatalogue(*cataloguePtr)
	if err != nil {
		return fmt.Errorf("load catalogue: %w", err)
	}
	fmt.Printf("loaded %d boxes from %s\n", len(boxes), *cataloguePtr)

	pallet := model.Pallet{Width: *widthPtr, Depth: *depthPtr, Height: *heightPtr, MaxWeight: *weightPtr}
	packerOpts := engine.DefaultOptions()
	packerOpts.SupportThreshold = *thresholdPtr
	packerOpts.WeightCheckEnabled = *weightCheckPtr

	comparisons, err := engine.BuildDefaultComparison(pallet, boxes, packerOpts)
	if err != nil {
		return fmt.Errorf("compare variants: %w", err)
	}

	fmt.Printf("%-16s %8s %8s %10s %14s\n", "method", "placed", "unplaced", "waste %", "calc time")
	for _, c := range comparisons {
		fmt.Printf("%-16s %8d %8d %9.1f%% %14s\n",
			c.Variant, c.PlacedCount, c.UnplacedCount, c.WastePercent, c.Result.CalculationTime)
	}
	return nil
}
