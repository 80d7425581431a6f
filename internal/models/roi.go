package models

import (
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"
)

var (
	// ErrNoSuchShape is returned when no shape occupies a coordinate
	ErrNoSuchShape = errors.New("no such shape")

	// ErrShapeExists is returned when adding a shape to an occupied coordinate
	ErrShapeExists = errors.New("shape already exists at coordinate")
)

// Shape is one outline drawn on a single plane of an ROI
type Shape struct {
	// ID uniquely identifies the shape
	ID string

	// Coord is the plane the shape lives on
	Coord Coordinate

	// Geometry is the outline of the shape
	Geometry Geometry
}

// NewShape creates a shape with a fresh ID
func NewShape(coord Coordinate, geom Geometry) *Shape {
	return &Shape{
		ID:       uuid.NewString(),
		Coord:    coord,
		Geometry: geom,
	}
}

// Type returns the shape-type label, or "" for a shape without geometry
func (s *Shape) Type() ShapeType {
	if s.Geometry == nil {
		return ""
	}
	return s.Geometry.Type()
}

// CloneAt copies the shape onto another plane under a new ID.
// Geometries holding point lists get their own copy of the list.
func (s *Shape) CloneAt(coord Coordinate) *Shape {
	geom := s.Geometry
	switch g := geom.(type) {
	case Polyline:
		geom = Polyline{Points: append([]Point2D(nil), g.Points...)}
	case Polygon:
		geom = Polygon{Points: append([]Point2D(nil), g.Points...)}
	}
	return NewShape(coord, geom)
}

// EventKind describes a change to the shape set of an ROI
type EventKind int

const (
	ShapeAdded EventKind = iota
	ShapeRemoved
)

func (k EventKind) String() string {
	switch k {
	case ShapeAdded:
		return "added"
	case ShapeRemoved:
		return "removed"
	}
	return fmt.Sprintf("EventKind(%d)", int(k))
}

// Event is delivered to ROI subscribers after the shape set changes
type Event struct {
	Kind  EventKind
	Coord Coordinate
	Shape *Shape
}

// ROI is a named collection of shapes, at most one per plane.
// An ROI is owned by a single goroutine. The zero value is an empty,
// unnamed ROI ready for use.
type ROI struct {
	// ID uniquely identifies the ROI
	ID string

	// Name is a human readable label
	Name string

	shapes    map[Coordinate]*Shape
	observers map[int]func(Event)
	nextObs   int
}

// NewROI creates an empty ROI
func NewROI(name string) *ROI {
	return &ROI{
		ID:        uuid.NewString(),
		Name:      name,
		shapes:    make(map[Coordinate]*Shape),
		observers: make(map[int]func(Event)),
	}
}

// Add stores a shape at its coordinate
func (r *ROI) Add(s *Shape) error {
	if s == nil || s.Geometry == nil {
		return errors.New("shape has no geometry")
	}
	if !s.Coord.Valid() {
		return fmt.Errorf("invalid coordinate %s", s.Coord)
	}
	if _, ok := r.shapes[s.Coord]; ok {
		return fmt.Errorf("%s: %w", s.Coord, ErrShapeExists)
	}
	if r.shapes == nil {
		r.shapes = make(map[Coordinate]*Shape)
	}
	r.shapes[s.Coord] = s
	r.notify(Event{Kind: ShapeAdded, Coord: s.Coord, Shape: s})
	return nil
}

// Remove deletes the shape at coord
func (r *ROI) Remove(coord Coordinate) error {
	s, ok := r.shapes[coord]
	if !ok {
		return fmt.Errorf("%s: %w", coord, ErrNoSuchShape)
	}
	delete(r.shapes, coord)
	r.notify(Event{Kind: ShapeRemoved, Coord: coord, Shape: s})
	return nil
}

// Shape returns the shape at coord, or ErrNoSuchShape
func (r *ROI) Shape(coord Coordinate) (*Shape, error) {
	s, ok := r.shapes[coord]
	if !ok {
		return nil, fmt.Errorf("%s: %w", coord, ErrNoSuchShape)
	}
	return s, nil
}

// Shapes returns every shape ordered by coordinate
func (r *ROI) Shapes() []*Shape {
	out := make([]*Shape, 0, len(r.shapes))
	for _, s := range r.shapes {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Coord.Less(out[j].Coord)
	})
	return out
}

// Len returns the number of shapes
func (r *ROI) Len() int {
	return len(r.shapes)
}

// Subscribe registers fn to be called after every change to the shape set.
// The returned func removes the subscription.
func (r *ROI) Subscribe(fn func(Event)) (unsubscribe func()) {
	if r.observers == nil {
		r.observers = make(map[int]func(Event))
	}
	id := r.nextObs
	r.nextObs++
	r.observers[id] = fn
	return func() { delete(r.observers, id) }
}

func (r *ROI) notify(ev Event) {
	ids := make([]int, 0, len(r.observers))
	for id := range r.observers {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	for _, id := range ids {
		if fn, ok := r.observers[id]; ok {
			fn(ev)
		}
	}
}
