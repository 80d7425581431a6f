package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"roimeasure/internal/models"
	"roimeasure/pkg/config"
	"roimeasure/pkg/grid"
	"roimeasure/pkg/measure"
	"roimeasure/pkg/propagate"
	"roimeasure/pkg/report"
	"roimeasure/pkg/roifile"
	"roimeasure/pkg/stack"
	"roimeasure/pkg/stats"
)

func main() {
	// Parse command line arguments
	configPath := flag.String("config", "roimeasure.yaml", "Configuration file")
	roiPath := flag.String("roi", "", "ROI file (YAML)")
	planesDir := flag.String("planes", "", "Directory containing the plane images")
	units := flag.String("units", "", "Length units: pixels or physical (overrides config)")
	plotPath := flag.String("plot", "", "Write a mean intensity plot to this file (overrides config)")
	showGrid := flag.Bool("grid", false, "Print the z-section × time-point shape grid")
	propagateFrom := flag.String("propagate-from", "", "Copy the shape at z,t (1-based) before measuring")
	propagateZ := flag.String("propagate-z", "", "Z-sections to propagate to, as from-to (1-based)")
	propagateT := flag.String("propagate-t", "", "Time-points to propagate to, as from-to (1-based)")
	saveROI := flag.String("save-roi", "", "Save the ROI after propagation to this file")
	initConfig := flag.Bool("init-config", false, "Write a default configuration file to -config and exit")
	flag.Parse()

	if *initConfig {
		if err := config.CreateDefaultConfigFile(*configPath); err != nil {
			log.Fatalf("Failed to write config: %v", err)
		}
		fmt.Printf("Wrote default configuration to %s\n", *configPath)
		return
	}

	if *roiPath == "" || *planesDir == "" {
		flag.Usage()
		os.Exit(1)
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *units != "" {
		cfg.Measurement.Units = *units
	}
	if *plotPath != "" {
		cfg.Output.PlotFile = *plotPath
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	tableUnits, err := cfg.Units()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	roi, err := roifile.Load(*roiPath)
	if err != nil {
		log.Fatalf("Failed to load ROI: %v", err)
	}
	st, err := stack.Load(*planesDir)
	if err != nil {
		log.Fatalf("Failed to load planes: %v", err)
	}
	fmt.Printf("ROI %q: %d shapes\n", roi.Name, roi.Len())

	if *propagateFrom != "" {
		from, err := parseCoordinate(*propagateFrom)
		if err != nil {
			log.Fatalf("Invalid -propagate-from: %v", err)
		}
		zs, err := parseRange(*propagateZ, st.SizeZ())
		if err != nil {
			log.Fatalf("Invalid -propagate-z: %v", err)
		}
		ts, err := parseRange(*propagateT, st.SizeT())
		if err != nil {
			log.Fatalf("Invalid -propagate-t: %v", err)
		}
		filled, err := propagate.Propagate(roi, from, zs, ts, st.SizeT())
		if err != nil {
			log.Fatalf("Propagation failed: %v", err)
		}
		fmt.Printf("Propagated shape at %s to %d planes\n", from, len(filled))

		if *saveROI != "" {
			if err := roifile.Save(roi, *saveROI); err != nil {
				log.Printf("Warning: Failed to save ROI: %v", err)
			}
		}
	}

	if *showGrid {
		idx, err := grid.NewIndex(st.SizeT(), st.SizeZ(), models.Coordinate{}, roi)
		if err != nil {
			log.Fatalf("Failed to build grid: %v", err)
		}
		printGrid(os.Stdout, idx)
	}

	// Run the statistics calculation
	calc := stats.NewCalculator(cfg.Processing.NumWorkers)
	if cfg.Output.Verbose {
		calc.SetProgressCallback(func(completed, total int, message string) {
			fmt.Printf("\rCalculating statistics: %.1f%% complete", float64(completed)/float64(total)*100)
		})
	}
	startTime := time.Now()
	results, err := calc.Calculate(roi, st)
	if cfg.Output.Verbose && roi.Len() > 0 {
		fmt.Println()
	}
	if err != nil {
		log.Fatalf("Statistics calculation failed: %v", err)
	}
	fmt.Printf("Measured %d shapes in %.2f seconds\n\n", len(results), time.Since(startTime).Seconds())

	table := measure.NewTable(stats.Columns, tableUnits)
	if err := stats.Fill(table, results); err != nil {
		log.Fatalf("Failed to build table: %v", err)
	}
	printTable(os.Stdout, table)

	if cfg.Output.PlotFile != "" && len(results) > 0 {
		lines, err := report.PlotMeanIntensity(results, roi.Name, cfg.Output.PlotFile)
		if err != nil {
			log.Printf("Warning: Failed to write plot: %v", err)
		} else {
			fmt.Printf("\nPlot with %d time-points saved to: %s\n", lines, cfg.Output.PlotFile)
		}
	}
}

// parseCoordinate reads a 1-based "z,t" pair
func parseCoordinate(s string) (models.Coordinate, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return models.Coordinate{}, fmt.Errorf("expected z,t, got %q", s)
	}
	z, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return models.Coordinate{}, err
	}
	t, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return models.Coordinate{}, err
	}
	return models.Coordinate{Z: z - 1, T: t - 1}, nil
}

// parseRange reads a 1-based "from-to" or single index; empty means all of
// 1..size
func parseRange(s string, size int) (propagate.Range, error) {
	if s == "" {
		return propagate.Range{From: 0, To: size - 1}, nil
	}
	from, to, found := strings.Cut(s, "-")
	a, err := strconv.Atoi(strings.TrimSpace(from))
	if err != nil {
		return propagate.Range{}, err
	}
	b := a
	if found {
		if b, err = strconv.Atoi(strings.TrimSpace(to)); err != nil {
			return propagate.Range{}, err
		}
	}
	if a < 1 || b > size || a > b {
		return propagate.Range{}, fmt.Errorf("range %q outside 1-%d", s, size)
	}
	return propagate.Range{From: a - 1, To: b - 1}, nil
}

// printGrid draws the index with the highest z-section on top
func printGrid(w io.Writer, idx *grid.Index) {
	tw := tabwriter.NewWriter(w, 0, 0, 1, ' ', 0)
	fmt.Fprint(tw, "Z\\T")
	for _, name := range idx.ColumnNames() {
		fmt.Fprintf(tw, "\t%s", name)
	}
	fmt.Fprintln(tw)

	for row := 0; row < idx.RowCount(); row++ {
		fmt.Fprintf(tw, "%d", idx.RowCount()-row)
		for col := 0; col < idx.ColumnCount(); col++ {
			cell := "."
			if typ, ok := idx.ShapeTypeAt(row, col); ok {
				cell = string(typ)
			}
			fmt.Fprintf(tw, "\t%s", cell)
		}
		fmt.Fprintln(tw)
	}
	tw.Flush()
	fmt.Fprintln(w)
}

// printTable writes the formatted measurement table
func printTable(w io.Writer, table *measure.Table) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(table.Columns(), "\t"))
	for r := 0; r < table.RowCount(); r++ {
		cells := make([]string, table.ColumnCount())
		for c := range cells {
			cells[c] = table.Text(r, c)
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	tw.Flush()
}
