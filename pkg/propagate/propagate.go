// Package propagate copies a shape of an ROI onto other planes of the stack.
package propagate

import (
	"fmt"

	"roimeasure/internal/models"
	"roimeasure/pkg/grid"
)

// Range is an inclusive span of plane indices
type Range struct {
	From, To int
}

// Single returns the range holding only i
func Single(i int) Range { return Range{From: i, To: i} }

func (r Range) valid() bool { return r.From >= 0 && r.From <= r.To }

// Propagate copies the shape at from onto every plane in zs × ts that the
// ROI's grid does not already occupy, and returns the coordinates filled in
// coordinate order. sizeT is the number of time-points of the image and
// sizes the grid columns.
func Propagate(roi *models.ROI, from models.Coordinate, zs, ts Range, sizeT int) ([]models.Coordinate, error) {
	if !zs.valid() || !ts.valid() {
		return nil, fmt.Errorf("invalid propagation range z=%v t=%v", zs, ts)
	}
	src, err := roi.Shape(from)
	if err != nil {
		return nil, err
	}

	idx, err := grid.NewIndex(sizeT, zs.To+1, from, roi)
	if err != nil {
		return nil, err
	}

	var filled []models.Coordinate
	for z := zs.From; z <= zs.To; z++ {
		for t := ts.From; t <= ts.To; t++ {
			c := models.Coordinate{Z: z, T: t}
			if idx.Occupied(c) {
				continue
			}
			if err := roi.Add(src.CloneAt(c)); err != nil {
				return filled, fmt.Errorf("propagating to %s: %w", c, err)
			}
			filled = append(filled, c)
		}
	}
	return filled, nil
}

// Remove deletes every shape in zs × ts except the one at keep, and returns
// the coordinates cleared
func Remove(roi *models.ROI, keep models.Coordinate, zs, ts Range, sizeT int) ([]models.Coordinate, error) {
	if !zs.valid() || !ts.valid() {
		return nil, fmt.Errorf("invalid removal range z=%v t=%v", zs, ts)
	}
	idx, err := grid.NewIndex(sizeT, zs.To+1, keep, roi)
	if err != nil {
		return nil, err
	}

	var cleared []models.Coordinate
	for _, e := range idx.Entries() {
		c := e.Coord
		if c == keep || c.Z < zs.From || c.Z > zs.To || c.T < ts.From || c.T > ts.To {
			continue
		}
		if err := roi.Remove(c); err != nil {
			return cleared, err
		}
		cleared = append(cleared, c)
	}
	return cleared, nil
}
