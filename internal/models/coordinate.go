// Package models holds the region-of-interest data model: plane coordinates,
// shape geometries, shapes and the ROI collection that owns them.
package models

import "fmt"

// Coordinate identifies one plane of a multi-dimensional image stack
type Coordinate struct {
	// Z is the z-section index of the plane
	Z int

	// T is the time-point index of the plane
	T int
}

// Compare orders coordinates by z-section first, then by time-point.
// It returns -1, 0 or 1.
func (c Coordinate) Compare(o Coordinate) int {
	switch {
	case c.Z < o.Z:
		return -1
	case c.Z > o.Z:
		return 1
	case c.T < o.T:
		return -1
	case c.T > o.T:
		return 1
	}
	return 0
}

// Less reports whether c sorts before o
func (c Coordinate) Less(o Coordinate) bool {
	return c.Compare(o) < 0
}

// Valid reports whether both indices are non-negative
func (c Coordinate) Valid() bool {
	return c.Z >= 0 && c.T >= 0
}

func (c Coordinate) String() string {
	return fmt.Sprintf("z=%d,t=%d", c.Z, c.T)
}
