package models

import (
	"image"
	"math"
)

// ShapeType is the label identifying the geometric kind of a shape
type ShapeType string

const (
	RectangleType ShapeType = "Rectangle"
	EllipseType   ShapeType = "Ellipse"
	LineType      ShapeType = "Line"
	PolylineType  ShapeType = "Polyline"
	PolygonType   ShapeType = "Polygon"
	PointType     ShapeType = "Point"
)

// Point2D is a position in pixel space
type Point2D struct {
	X, Y float64
}

// Geometry is the closed set of shape outlines an ROI can hold.
// Implementations live in this package only.
type Geometry interface {
	// Type returns the shape-type label of the geometry
	Type() ShapeType

	// Bounds returns the pixel rectangle that covers the geometry
	Bounds() image.Rectangle

	// Contains reports whether the pixel centre (x, y) lies inside the outline.
	// Open geometries (lines, polylines, points) contain no area.
	Contains(x, y float64) bool

	// Area is the enclosed area in square pixels
	Area() float64

	// Perimeter is the outline length in pixels; for open geometries it is the
	// path length.
	Perimeter() float64

	isGeometry()
}

// Rectangle is an axis-aligned box anchored at its top-left corner
type Rectangle struct {
	X, Y          float64
	Width, Height float64
}

func (Rectangle) Type() ShapeType { return RectangleType }

func (r Rectangle) Bounds() image.Rectangle {
	return boundsOf(r.X, r.Y, r.X+r.Width, r.Y+r.Height)
}

func (r Rectangle) Contains(x, y float64) bool {
	return x >= r.X && x < r.X+r.Width && y >= r.Y && y < r.Y+r.Height
}

func (r Rectangle) Area() float64      { return r.Width * r.Height }
func (r Rectangle) Perimeter() float64 { return 2 * (r.Width + r.Height) }
func (Rectangle) isGeometry()          {}

// Ellipse is an axis-aligned ellipse given by centre and radii
type Ellipse struct {
	CX, CY float64
	RX, RY float64
}

func (Ellipse) Type() ShapeType { return EllipseType }

func (e Ellipse) Bounds() image.Rectangle {
	return boundsOf(e.CX-e.RX, e.CY-e.RY, e.CX+e.RX, e.CY+e.RY)
}

func (e Ellipse) Contains(x, y float64) bool {
	if e.RX <= 0 || e.RY <= 0 {
		return false
	}
	dx := (x - e.CX) / e.RX
	dy := (y - e.CY) / e.RY
	return dx*dx+dy*dy <= 1
}

func (e Ellipse) Area() float64 { return math.Pi * e.RX * e.RY }

// Perimeter uses Ramanujan's second approximation
func (e Ellipse) Perimeter() float64 {
	a, b := e.RX, e.RY
	if a+b == 0 {
		return 0
	}
	h := (a - b) * (a - b) / ((a + b) * (a + b))
	return math.Pi * (a + b) * (1 + 3*h/(10+math.Sqrt(4-3*h)))
}

func (Ellipse) isGeometry() {}

// Line is a straight segment between two points
type Line struct {
	X1, Y1 float64
	X2, Y2 float64
}

func (Line) Type() ShapeType { return LineType }

func (l Line) Bounds() image.Rectangle {
	return boundsOf(math.Min(l.X1, l.X2), math.Min(l.Y1, l.Y2),
		math.Max(l.X1, l.X2)+1, math.Max(l.Y1, l.Y2)+1)
}

func (Line) Contains(x, y float64) bool { return false }
func (Line) Area() float64              { return 0 }
func (l Line) Perimeter() float64       { return math.Hypot(l.X2-l.X1, l.Y2-l.Y1) }
func (Line) isGeometry()                {}

// Points returns the two end points
func (l Line) Points() []Point2D {
	return []Point2D{{l.X1, l.Y1}, {l.X2, l.Y2}}
}

// Polyline is an open path through a list of points
type Polyline struct {
	Points []Point2D
}

func (Polyline) Type() ShapeType            { return PolylineType }
func (p Polyline) Bounds() image.Rectangle  { return pointsBounds(p.Points) }
func (Polyline) Contains(x, y float64) bool { return false }
func (Polyline) Area() float64              { return 0 }
func (Polyline) isGeometry()                {}

func (p Polyline) Perimeter() float64 {
	var total float64
	for _, s := range p.Segments() {
		total += s
	}
	return total
}

// Segments returns the length of each segment of the path in order
func (p Polyline) Segments() []float64 {
	if len(p.Points) < 2 {
		return nil
	}
	out := make([]float64, 0, len(p.Points)-1)
	for i := 1; i < len(p.Points); i++ {
		a, b := p.Points[i-1], p.Points[i]
		out = append(out, math.Hypot(b.X-a.X, b.Y-a.Y))
	}
	return out
}

// Polygon is a closed outline; the last point connects back to the first
type Polygon struct {
	Points []Point2D
}

func (Polygon) Type() ShapeType           { return PolygonType }
func (p Polygon) Bounds() image.Rectangle { return pointsBounds(p.Points) }
func (Polygon) isGeometry()               {}

// Contains uses the even-odd crossing rule
func (p Polygon) Contains(x, y float64) bool {
	n := len(p.Points)
	if n < 3 {
		return false
	}
	inside := false
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		a, b := p.Points[i], p.Points[j]
		if (a.Y > y) != (b.Y > y) && x < (b.X-a.X)*(y-a.Y)/(b.Y-a.Y)+a.X {
			inside = !inside
		}
	}
	return inside
}

// Area uses the shoelace formula
func (p Polygon) Area() float64 {
	n := len(p.Points)
	if n < 3 {
		return 0
	}
	var sum float64
	for i := 0; i < n; i++ {
		a, b := p.Points[i], p.Points[(i+1)%n]
		sum += a.X*b.Y - b.X*a.Y
	}
	return math.Abs(sum) / 2
}

func (p Polygon) Perimeter() float64 {
	n := len(p.Points)
	if n < 2 {
		return 0
	}
	var total float64
	for i := 0; i < n; i++ {
		a, b := p.Points[i], p.Points[(i+1)%n]
		total += math.Hypot(b.X-a.X, b.Y-a.Y)
	}
	return total
}

// Point marks a single pixel
type Point struct {
	X, Y float64
}

func (Point) Type() ShapeType { return PointType }

func (p Point) Bounds() image.Rectangle {
	return boundsOf(p.X, p.Y, p.X+1, p.Y+1)
}

// Contains is true for the pixel the point falls in
func (p Point) Contains(x, y float64) bool {
	return math.Floor(x) == math.Floor(p.X) && math.Floor(y) == math.Floor(p.Y)
}

func (Point) Area() float64      { return 0 }
func (Point) Perimeter() float64 { return 0 }
func (Point) isGeometry()        {}

func boundsOf(x0, y0, x1, y1 float64) image.Rectangle {
	return image.Rect(int(math.Floor(x0)), int(math.Floor(y0)),
		int(math.Ceil(x1)), int(math.Ceil(y1)))
}

func pointsBounds(pts []Point2D) image.Rectangle {
	if len(pts) == 0 {
		return image.Rectangle{}
	}
	minX, minY := pts[0].X, pts[0].Y
	maxX, maxY := minX, minY
	for _, p := range pts[1:] {
		minX = math.Min(minX, p.X)
		minY = math.Min(minY, p.Y)
		maxX = math.Max(maxX, p.X)
		maxY = math.Max(maxY, p.Y)
	}
	return boundsOf(minX, minY, maxX+1, maxY+1)
}
