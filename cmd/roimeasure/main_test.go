package main

import (
	"bytes"
	"strings"
	"testing"

	"roimeasure/internal/models"
	"roimeasure/pkg/grid"
	"roimeasure/pkg/measure"
	"roimeasure/pkg/propagate"
)

func TestParseCoordinate(t *testing.T) {
	c, err := parseCoordinate("3, 2")
	if err != nil {
		t.Fatalf("Failed to parse: %v", err)
	}
	if c != (models.Coordinate{Z: 2, T: 1}) {
		t.Errorf("Expected z=2,t=1, got %s", c)
	}
	for _, bad := range []string{"3", "a,1", "1,b"} {
		if _, err := parseCoordinate(bad); err == nil {
			t.Errorf("Expected error for %q, got nil", bad)
		}
	}
}

func TestParseRange(t *testing.T) {
	tests := []struct {
		in   string
		want propagate.Range
	}{
		{"", propagate.Range{From: 0, To: 4}},
		{"2-4", propagate.Range{From: 1, To: 3}},
		{"3", propagate.Range{From: 2, To: 2}},
	}
	for _, tc := range tests {
		got, err := parseRange(tc.in, 5)
		if err != nil {
			t.Errorf("%q: unexpected error %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("%q: expected %+v, got %+v", tc.in, tc.want, got)
		}
	}
	for _, bad := range []string{"0-2", "4-2", "2-9", "x"} {
		if _, err := parseRange(bad, 5); err == nil {
			t.Errorf("Expected error for %q, got nil", bad)
		}
	}
}

// TestPrintGrid verifies the top line shows the highest z-section
func TestPrintGrid(t *testing.T) {
	roi := models.NewROI("grid")
	if err := roi.Add(models.NewShape(models.Coordinate{Z: 1, T: 0}, models.Point{})); err != nil {
		t.Fatalf("Failed to add shape: %v", err)
	}
	idx, err := grid.NewIndex(2, 2, models.Coordinate{}, roi)
	if err != nil {
		t.Fatalf("Failed to build index: %v", err)
	}

	var buf bytes.Buffer
	printGrid(&buf, idx)
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("Expected 3 lines, got %d:\n%s", len(lines), buf.String())
	}
	if fields := strings.Fields(lines[1]); len(fields) != 3 || fields[0] != "2" || fields[1] != "Point" {
		t.Errorf("Expected top row \"2 Point .\", got %q", lines[1])
	}
}

func TestPrintTable(t *testing.T) {
	table := measure.NewTable([]string{"Type", "Mean"}, measure.PixelUnits)
	if err := table.AddRow(measure.Row{measure.Text("Ellipse"), measure.Number(0.5)}); err != nil {
		t.Fatalf("Failed to add row: %v", err)
	}
	var buf bytes.Buffer
	printTable(&buf, table)
	if !strings.Contains(buf.String(), "Ellipse  0.5") {
		t.Errorf("Expected formatted row, got:\n%s", buf.String())
	}
}
