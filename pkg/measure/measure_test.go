package measure

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// TestFormatNumbers covers the list collapsing and summing rules
func TestFormatNumbers(t *testing.T) {
	tests := []struct {
		name  string
		value Value
		want  string
	}{
		{"single element list", Numbers(5.0), "5.0"},
		{"two element list", Numbers(2.0, 3.0), "2.0 3.0 = 5.0"},
		{"three element list", Numbers(1.5, 2.25, 0.25), "1.5 2.25 0.25 = 4.0"},
		{"empty list", Numbers(), ""},
		{"integral number", Number(12), "12.0"},
		{"fractional number", Number(0.125), "0.125"},
		{"negative number", Number(-3), "-3.0"},
		{"text", Text("Rectangle"), "Rectangle"},
		{"empty", Empty, ""},
		{"nan", Number(math.NaN()), "NaN"},
		{"infinity", Number(math.Inf(-1)), "-Inf"},
		{"zero", Number(0), "0.0"},
		{"large exponent", Number(1e7), "1.0E7"},
		{"below large threshold", Number(9999999), "9999999.0"},
		{"small exponent", Number(0.0005), "5.0E-4"},
		{"small fractional exponent", Number(-1.25e-5), "-1.25E-5"},
		{"small threshold", Number(0.001), "0.001"},
		{"list with exponent total", Numbers(5e6, 5e6), "5000000.0 5000000.0 = 1.0E7"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.value.Format(PixelUnits); got != tc.want {
				t.Errorf("Expected %q, got %q", tc.want, got)
			}
		})
	}
}

// TestFormatLength covers pixel and physical rendering of lengths
func TestFormatLength(t *testing.T) {
	micron := Length{Value: 0.5, Unit: Micrometer}
	physical := Units{Physical: true, PixelSize: micron}
	pixels := Units{Physical: false, PixelSize: micron}

	tests := []struct {
		name  string
		value Value
		units Units
		want  string
	}{
		{"pixel length in pixel mode", LengthOf(Length{Value: 12.346, Unit: Pixel}), pixels, "12.35"},
		{"pixel length in physical mode", LengthOf(Length{Value: 3, Unit: Pixel}), physical, "1.50 µm"},
		{"physical length in physical mode", LengthOf(Length{Value: 2500, Unit: Nanometer}), physical, "2.50 µm"},
		{"physical length in pixel mode", LengthOf(Length{Value: 2, Unit: Micrometer}), pixels, "4.00"},
		{"millimetre scale", LengthOf(Length{Value: 1500, Unit: Micrometer}), physical, "1.50 mm"},
		{"unknown pixel size", LengthOf(Length{Value: 7, Unit: Pixel}), Units{Physical: true}, "7.00 px"},
		{"physical without pixel size", LengthOf(Length{Value: 2, Unit: Micrometer}), PixelUnits, "2.00 µm"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.value.Format(tc.units); got != tc.want {
				t.Errorf("Expected %q, got %q", tc.want, got)
			}
		})
	}
}

// TestLengthConvert verifies conversions between physical units
func TestLengthConvert(t *testing.T) {
	l, err := Length{Value: 1, Unit: Millimeter}.Convert(Micrometer)
	if err != nil {
		t.Fatalf("Failed to convert: %v", err)
	}
	if math.Abs(l.Value-1000) > 1e-9 || l.Unit != Micrometer {
		t.Errorf("Expected 1000 µm, got %v %s", l.Value, l.Unit.Symbol())
	}

	if _, err := (Length{Value: 1, Unit: Pixel}).Convert(Micrometer); err == nil {
		t.Error("Expected error converting pixels without a pixel size, got nil")
	}

	for _, s := range []string{"um", "µm", "microns"} {
		u, err := ParseLengthUnit(s)
		if err != nil || u != Micrometer {
			t.Errorf("Expected %q to parse as µm, got %v (%v)", s, u, err)
		}
	}
	if _, err := ParseLengthUnit("furlong"); err == nil {
		t.Error("Expected error for unknown unit, got nil")
	}
}

// TestTableNotifications verifies subscribers see structural changes
func TestTableNotifications(t *testing.T) {
	table := NewTable([]string{"Type", "Area"}, PixelUnits)
	var changes []Change
	cancel := table.Subscribe(func(c Change) { changes = append(changes, c) })

	if err := table.AddRow(Row{Text("Rectangle"), Number(4)}); err != nil {
		t.Fatalf("Failed to add row: %v", err)
	}
	if err := table.AddRow(Row{Text("Ellipse"), Number(3)}, Row{Text("Point"), Number(0)}); err != nil {
		t.Fatalf("Failed to add rows: %v", err)
	}
	table.SetUnits(Units{Physical: true})
	table.Clear()
	cancel()
	if err := table.AddRow(Row{Text("Line"), Number(0)}); err != nil {
		t.Fatalf("Failed to add row: %v", err)
	}

	want := []Change{
		{Kind: RowsInserted, First: 0, Last: 0},
		{Kind: RowsInserted, First: 1, Last: 2},
		{Kind: Refreshed, First: 0, Last: 2},
		{Kind: Cleared, First: 0, Last: -1},
	}
	if diff := cmp.Diff(want, changes); diff != "" {
		t.Errorf("Unexpected changes (-want +got):\n%s", diff)
	}
	if table.RowCount() != 1 {
		t.Errorf("Expected 1 row, got %d", table.RowCount())
	}
}

// TestTableCells verifies cell lookup, formatting and row validation
func TestTableCells(t *testing.T) {
	table := NewTable([]string{"Type", "Length", "Segments"}, PixelUnits)
	row := Row{Text("Polyline"), LengthOf(Length{Value: 7, Unit: Pixel}), Numbers(5, 2)}
	if err := table.AddRow(row); err != nil {
		t.Fatalf("Failed to add row: %v", err)
	}

	if got := table.Text(0, 1); got != "7.00" {
		t.Errorf("Expected \"7.00\", got %q", got)
	}
	if got := table.Text(0, 2); got != "5.0 2.0 = 7.0" {
		t.Errorf("Expected \"5.0 2.0 = 7.0\", got %q", got)
	}
	if got := table.Value(3, 0); got.Kind() != KindEmpty {
		t.Errorf("Expected empty value out of range, got %s", got.Kind())
	}
	if err := table.AddRow(Row{Text("short")}); err == nil {
		t.Error("Expected error for short row, got nil")
	}
	if v, ok := table.Value(0, 1).Float(); !ok || v != 7 {
		t.Errorf("Expected float 7, got %v (%v)", v, ok)
	}
}
