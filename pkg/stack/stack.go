// Package stack holds the pixel data of a multi-dimensional image: a grid of
// planes indexed by z-section and time-point, each plane width × height
// intensities in the range [0, 1].
package stack

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"
)

// ErrPlaneOutOfRange is returned for planes outside the stack
var ErrPlaneOutOfRange = errors.New("plane out of range")

// Stack stores intensities plane by plane. Planes are laid out with z
// varying fastest: plane (z, t) starts at (t*SizeZ + z) * width*height.
type Stack struct {
	// data holds every plane in row-major order
	data []float64

	// dimensions of the stack
	width  int
	height int
	sizeZ  int
	sizeT  int
}

// New wraps data as a stack of the given dimensions
func New(data []float64, width, height, sizeZ, sizeT int) (*Stack, error) {
	if width <= 0 || height <= 0 || sizeZ <= 0 || sizeT <= 0 {
		return nil, fmt.Errorf("dimensions must be positive, got %dx%dx%dx%d", width, height, sizeZ, sizeT)
	}
	if want := width * height * sizeZ * sizeT; len(data) != want {
		return nil, fmt.Errorf("data has %d values, expected %d", len(data), want)
	}
	return &Stack{
		data:   data,
		width:  width,
		height: height,
		sizeZ:  sizeZ,
		sizeT:  sizeT,
	}, nil
}

// Width returns the plane width in pixels
func (s *Stack) Width() int { return s.width }

// Height returns the plane height in pixels
func (s *Stack) Height() int { return s.height }

// SizeZ returns the number of z-sections
func (s *Stack) SizeZ() int { return s.sizeZ }

// SizeT returns the number of time-points
func (s *Stack) SizeT() int { return s.sizeT }

// Bounds returns the pixel rectangle of a plane
func (s *Stack) Bounds() image.Rectangle {
	return image.Rect(0, 0, s.width, s.height)
}

// Has reports whether plane (z, t) exists
func (s *Stack) Has(z, t int) bool {
	return z >= 0 && z < s.sizeZ && t >= 0 && t < s.sizeT
}

// Plane returns the intensities of plane (z, t). The slice aliases the
// stack's storage.
func (s *Stack) Plane(z, t int) ([]float64, error) {
	if !s.Has(z, t) {
		return nil, fmt.Errorf("z=%d,t=%d in %dx%d stack: %w", z, t, s.sizeZ, s.sizeT, ErrPlaneOutOfRange)
	}
	size := s.width * s.height
	start := (t*s.sizeZ + z) * size
	return s.data[start : start+size], nil
}

// At returns the intensity at pixel (x, y) of plane (z, t)
func (s *Stack) At(x, y, z, t int) (float64, error) {
	plane, err := s.Plane(z, t)
	if err != nil {
		return 0, err
	}
	if x < 0 || x >= s.width || y < 0 || y >= s.height {
		return 0, fmt.Errorf("pixel (%d,%d) exceeds plane %dx%d", x, y, s.width, s.height)
	}
	return plane[y*s.width+x], nil
}

// PlaneImage renders plane (z, t) as a 16-bit grayscale image
func (s *Stack) PlaneImage(z, t int) (*image.Gray16, error) {
	plane, err := s.Plane(z, t)
	if err != nil {
		return nil, err
	}

	img := image.NewGray16(s.Bounds())
	for y := 0; y < s.height; y++ {
		for x := 0; x < s.width; x++ {
			value := uint16(math.Max(0, math.Min(65535, plane[y*s.width+x]*65535)))
			img.SetGray16(x, y, color.Gray16{Y: value})
		}
	}
	return img, nil
}
