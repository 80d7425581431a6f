// Package stats computes per-shape intensity and geometry statistics for the
// shapes of an ROI over an image stack.
package stats

import (
	"fmt"
	"image"
	"math"
	"runtime"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"roimeasure/internal/models"
	"roimeasure/pkg/stack"
)

// ShapeStats holds the measurements of one shape
type ShapeStats struct {
	// ShapeID and Coord identify the measured shape
	ShapeID string
	Coord   models.Coordinate
	Type    models.ShapeType

	// PixelCount is the number of pixels sampled: pixels inside closed
	// shapes, pixels along open ones
	PixelCount int

	// Area is the geometric area in square pixels
	Area float64

	// Perimeter is the outline length, or path length for lines
	Perimeter float64

	// Segments holds per-segment lengths of polylines
	Segments []float64

	// Intensity summary of the sampled pixels
	Min, Max, Mean, StdDev, Sum float64

	// Values are the sampled intensities in scan order
	Values []float64
}

// ProgressCallback is called after each shape is measured
type ProgressCallback func(completed, total int, message string)

// ShapeLister enumerates the shapes to measure
type ShapeLister interface {
	Shapes() []*models.Shape
}

// Calculator measures shapes in parallel
type Calculator struct {
	// Workers is the number of goroutines measuring shapes; values below 1
	// use every CPU
	Workers int

	progress ProgressCallback
}

// NewCalculator creates a calculator with the given worker count
func NewCalculator(workers int) *Calculator {
	return &Calculator{Workers: workers}
}

// SetProgressCallback installs a progress callback. It is invoked from the
// calling goroutine of Calculate.
func (c *Calculator) SetProgressCallback(cb ProgressCallback) {
	c.progress = cb
}

// Calculate measures every shape of roi against st. Results are ordered by
// coordinate. A shape on a plane the stack does not have fails the whole
// calculation.
func (c *Calculator) Calculate(roi ShapeLister, st *stack.Stack) ([]ShapeStats, error) {
	shapes := roi.Shapes()
	if len(shapes) == 0 {
		return nil, nil
	}

	workers := c.Workers
	if workers < 1 {
		workers = runtime.NumCPU()
	}
	if workers > len(shapes) {
		workers = len(shapes)
	}

	type result struct {
		idx   int
		stats ShapeStats
		err   error
	}

	jobs := make(chan int)
	results := make(chan result)

	for w := 0; w < workers; w++ {
		go func() {
			for i := range jobs {
				s, err := Measure(shapes[i], st)
				results <- result{idx: i, stats: s, err: err}
			}
		}()
	}

	go func() {
		for i := range shapes {
			jobs <- i
		}
		close(jobs)
	}()

	out := make([]ShapeStats, len(shapes))
	var firstErr error
	for completed := 1; completed <= len(shapes); completed++ {
		res := <-results
		if res.err != nil && firstErr == nil {
			firstErr = res.err
		}
		out[res.idx] = res.stats
		if c.progress != nil {
			c.progress(completed, len(shapes), fmt.Sprintf("measured %s", shapes[res.idx].Coord))
		}
	}
	if firstErr != nil {
		return nil, firstErr
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Coord.Less(out[j].Coord)
	})
	return out, nil
}

// Measure computes the statistics of a single shape
func Measure(s *models.Shape, st *stack.Stack) (ShapeStats, error) {
	res := ShapeStats{
		ShapeID: s.ID,
		Coord:   s.Coord,
		Type:    s.Type(),
	}
	if s.Geometry == nil {
		return res, fmt.Errorf("shape %s has no geometry", s.ID)
	}

	plane, err := st.Plane(s.Coord.Z, s.Coord.T)
	if err != nil {
		return res, fmt.Errorf("shape %s: %w", s.ID, err)
	}

	res.Area = s.Geometry.Area()
	res.Perimeter = s.Geometry.Perimeter()

	switch g := s.Geometry.(type) {
	case models.Line:
		res.Values = samplePath(plane, st.Width(), st.Height(), g.Points())
	case models.Polyline:
		res.Values = samplePath(plane, st.Width(), st.Height(), g.Points)
		res.Segments = g.Segments()
	default:
		res.Values = sampleInside(plane, st.Width(), st.Height(), s.Geometry)
	}

	res.PixelCount = len(res.Values)
	if res.PixelCount > 0 {
		res.Min = floats.Min(res.Values)
		res.Max = floats.Max(res.Values)
		res.Sum = floats.Sum(res.Values)
		res.Mean, res.StdDev = stat.MeanStdDev(res.Values, nil)
		if math.IsNaN(res.StdDev) {
			// a single sample has no spread
			res.StdDev = 0
		}
	}
	return res, nil
}

// sampleInside collects the pixels whose centres fall inside geom
func sampleInside(plane []float64, width, height int, geom models.Geometry) []float64 {
	b := geom.Bounds().Intersect(image.Rect(0, 0, width, height))
	var values []float64
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if geom.Contains(float64(x)+0.5, float64(y)+0.5) {
				values = append(values, plane[y*width+x])
			}
		}
	}
	return values
}

// samplePath walks each segment in unit steps and collects the pixels it
// crosses. Vertices shared by consecutive segments are sampled once.
func samplePath(plane []float64, width, height int, pts []models.Point2D) []float64 {
	var values []float64
	lastX, lastY := math.MinInt, math.MinInt
	visit := func(fx, fy float64) {
		x, y := int(math.Floor(fx)), int(math.Floor(fy))
		if x == lastX && y == lastY {
			return
		}
		lastX, lastY = x, y
		if x < 0 || x >= width || y < 0 || y >= height {
			return
		}
		values = append(values, plane[y*width+x])
	}

	if len(pts) == 1 {
		visit(pts[0].X, pts[0].Y)
	}
	for i := 1; i < len(pts); i++ {
		a, b := pts[i-1], pts[i]
		steps := int(math.Ceil(math.Max(math.Abs(b.X-a.X), math.Abs(b.Y-a.Y))))
		if steps == 0 {
			visit(a.X, a.Y)
			continue
		}
		for k := 0; k <= steps; k++ {
			f := float64(k) / float64(steps)
			visit(a.X+f*(b.X-a.X), a.Y+f*(b.Y-a.Y))
		}
	}
	return values
}
