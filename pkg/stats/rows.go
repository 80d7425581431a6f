package stats

import (
	"roimeasure/pkg/measure"
)

// Columns are the measurement table columns filled by Row
var Columns = []string{
	"Z", "T", "Type", "Pixels", "Area", "Length", "Segments",
	"Min", "Max", "Mean", "StdDev", "Sum",
}

// Row converts the statistics into a measurement table row. Z and T are
// shown 1-based.
func (s ShapeStats) Row() measure.Row {
	segments := measure.Empty
	if len(s.Segments) > 0 {
		segments = measure.Numbers(s.Segments...)
	}
	return measure.Row{
		measure.Number(float64(s.Coord.Z + 1)),
		measure.Number(float64(s.Coord.T + 1)),
		measure.Text(string(s.Type)),
		measure.Number(float64(s.PixelCount)),
		measure.Number(s.Area),
		measure.LengthOf(measure.Length{Value: s.Perimeter, Unit: measure.Pixel}),
		segments,
		measure.Number(s.Min),
		measure.Number(s.Max),
		measure.Number(s.Mean),
		measure.Number(s.StdDev),
		measure.Number(s.Sum),
	}
}

// Fill appends one row per result to table
func Fill(table *measure.Table, results []ShapeStats) error {
	rows := make([]measure.Row, len(results))
	for i, r := range results {
		rows[i] = r.Row()
	}
	return table.AddRow(rows...)
}
