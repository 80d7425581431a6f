package propagate

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"roimeasure/internal/models"
)

// TestPropagateFillsEmptyCells verifies only empty planes receive a copy
func TestPropagateFillsEmptyCells(t *testing.T) {
	roi := models.NewROI("spread")
	src := models.NewShape(models.Coordinate{Z: 1, T: 0}, models.Rectangle{X: 1, Y: 1, Width: 3, Height: 3})
	if err := roi.Add(src); err != nil {
		t.Fatalf("Failed to add source: %v", err)
	}
	other := models.NewShape(models.Coordinate{Z: 2, T: 0}, models.Point{X: 5, Y: 5})
	if err := roi.Add(other); err != nil {
		t.Fatalf("Failed to add shape: %v", err)
	}

	filled, err := Propagate(roi, src.Coord, Range{From: 0, To: 2}, Single(0), 1)
	if err != nil {
		t.Fatalf("Failed to propagate: %v", err)
	}

	want := []models.Coordinate{{Z: 0, T: 0}}
	if diff := cmp.Diff(want, filled); diff != "" {
		t.Errorf("Unexpected filled cells (-want +got):\n%s", diff)
	}

	got, err := roi.Shape(models.Coordinate{Z: 2, T: 0})
	if err != nil || got.ID != other.ID {
		t.Errorf("Expected existing shape at z=2 to be kept")
	}

	copied, err := roi.Shape(models.Coordinate{Z: 0, T: 0})
	if err != nil {
		t.Fatalf("Expected copy at z=0: %v", err)
	}
	if copied.Type() != models.RectangleType || copied.ID == src.ID {
		t.Errorf("Expected a new Rectangle, got %s with id %s", copied.Type(), copied.ID)
	}
}

// TestPropagateAcrossTime verifies the full z × t block is filled
func TestPropagateAcrossTime(t *testing.T) {
	roi := models.NewROI("block")
	if err := roi.Add(models.NewShape(models.Coordinate{}, models.Point{})); err != nil {
		t.Fatalf("Failed to add source: %v", err)
	}

	filled, err := Propagate(roi, models.Coordinate{}, Range{From: 0, To: 1}, Range{From: 0, To: 2}, 3)
	if err != nil {
		t.Fatalf("Failed to propagate: %v", err)
	}
	if len(filled) != 5 {
		t.Errorf("Expected 5 new shapes, got %d", len(filled))
	}
	if roi.Len() != 6 {
		t.Errorf("Expected 6 shapes in ROI, got %d", roi.Len())
	}
}

// TestPropagateErrors covers a missing source and bad ranges
func TestPropagateErrors(t *testing.T) {
	roi := models.NewROI("empty")
	if _, err := Propagate(roi, models.Coordinate{}, Single(0), Single(0), 1); !errors.Is(err, models.ErrNoSuchShape) {
		t.Errorf("Expected ErrNoSuchShape, got %v", err)
	}
	if _, err := Propagate(roi, models.Coordinate{}, Range{From: 2, To: 1}, Single(0), 1); err == nil {
		t.Error("Expected error for inverted range, got nil")
	}
}

// TestRemoveKeepsAnchor verifies removal clears the range but keeps one shape
func TestRemoveKeepsAnchor(t *testing.T) {
	roi := models.NewROI("trim")
	for z := 0; z < 4; z++ {
		if err := roi.Add(models.NewShape(models.Coordinate{Z: z}, models.Point{})); err != nil {
			t.Fatalf("Failed to add shape: %v", err)
		}
	}

	cleared, err := Remove(roi, models.Coordinate{Z: 1}, Range{From: 0, To: 2}, Single(0), 1)
	if err != nil {
		t.Fatalf("Failed to remove: %v", err)
	}
	want := []models.Coordinate{{Z: 0}, {Z: 2}}
	if diff := cmp.Diff(want, cleared); diff != "" {
		t.Errorf("Unexpected cleared cells (-want +got):\n%s", diff)
	}
	if roi.Len() != 2 {
		t.Errorf("Expected 2 shapes left, got %d", roi.Len())
	}
}
