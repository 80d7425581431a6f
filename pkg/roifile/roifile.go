// Package roifile reads and writes ROIs as YAML documents.
//
// A document names the ROI and lists its shapes; each shape carries its
// plane, its type and the fields of that type:
//
//	name: nucleus
//	shapes:
//	  - {z: 0, t: 0, type: Rectangle, x: 4, y: 4, width: 10, height: 8}
//	  - {z: 1, t: 0, type: Ellipse, cx: 9, cy: 8, rx: 5, ry: 4}
//	  - {z: 2, t: 0, type: Polyline, points: [[0, 0], [3, 4]]}
package roifile

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"roimeasure/internal/models"
)

// Document is the on-disk form of an ROI
type Document struct {
	Name   string       `yaml:"name"`
	Shapes []ShapeEntry `yaml:"shapes"`
}

// ShapeEntry is the on-disk form of a shape. Only the fields used by Type
// are written.
type ShapeEntry struct {
	ID   string           `yaml:"id,omitempty"`
	Z    int              `yaml:"z"`
	T    int              `yaml:"t"`
	Type models.ShapeType `yaml:"type"`

	X      float64 `yaml:"x,omitempty"`
	Y      float64 `yaml:"y,omitempty"`
	Width  float64 `yaml:"width,omitempty"`
	Height float64 `yaml:"height,omitempty"`

	CX float64 `yaml:"cx,omitempty"`
	CY float64 `yaml:"cy,omitempty"`
	RX float64 `yaml:"rx,omitempty"`
	RY float64 `yaml:"ry,omitempty"`

	X1 float64 `yaml:"x1,omitempty"`
	Y1 float64 `yaml:"y1,omitempty"`
	X2 float64 `yaml:"x2,omitempty"`
	Y2 float64 `yaml:"y2,omitempty"`

	Points [][2]float64 `yaml:"points,omitempty,flow"`
}

// Decode reads an ROI document
func Decode(r io.Reader) (*models.ROI, error) {
	var doc Document
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		if err == io.EOF {
			return models.NewROI(""), nil
		}
		return nil, fmt.Errorf("error parsing ROI file: %w", err)
	}

	roi := models.NewROI(doc.Name)
	for i, e := range doc.Shapes {
		geom, err := e.geometry()
		if err != nil {
			return nil, fmt.Errorf("shape %d: %w", i, err)
		}
		s := models.NewShape(models.Coordinate{Z: e.Z, T: e.T}, geom)
		if e.ID != "" {
			s.ID = e.ID
		}
		if err := roi.Add(s); err != nil {
			return nil, fmt.Errorf("shape %d: %w", i, err)
		}
	}
	return roi, nil
}

// Encode writes roi as a document
func Encode(w io.Writer, roi *models.ROI) error {
	doc := Document{Name: roi.Name}
	for _, s := range roi.Shapes() {
		e, err := entryOf(s)
		if err != nil {
			return err
		}
		doc.Shapes = append(doc.Shapes, e)
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&doc); err != nil {
		return fmt.Errorf("error marshaling ROI: %w", err)
	}
	return enc.Close()
}

// Load reads an ROI file
func Load(path string) (*models.ROI, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading ROI file: %w", err)
	}
	return Decode(bytes.NewReader(data))
}

// Save writes an ROI file, creating its directory if needed
func Save(roi *models.ROI, path string) error {
	var buf bytes.Buffer
	if err := Encode(&buf, roi); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("error creating ROI directory: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("error writing ROI file: %w", err)
	}
	return nil
}

func (e ShapeEntry) geometry() (models.Geometry, error) {
	switch e.Type {
	case models.RectangleType:
		return models.Rectangle{X: e.X, Y: e.Y, Width: e.Width, Height: e.Height}, nil
	case models.EllipseType:
		return models.Ellipse{CX: e.CX, CY: e.CY, RX: e.RX, RY: e.RY}, nil
	case models.LineType:
		return models.Line{X1: e.X1, Y1: e.Y1, X2: e.X2, Y2: e.Y2}, nil
	case models.PolylineType:
		return models.Polyline{Points: toPoints(e.Points)}, nil
	case models.PolygonType:
		return models.Polygon{Points: toPoints(e.Points)}, nil
	case models.PointType:
		return models.Point{X: e.X, Y: e.Y}, nil
	}
	return nil, fmt.Errorf("unknown shape type %q", e.Type)
}

func entryOf(s *models.Shape) (ShapeEntry, error) {
	e := ShapeEntry{ID: s.ID, Z: s.Coord.Z, T: s.Coord.T, Type: s.Type()}
	switch g := s.Geometry.(type) {
	case models.Rectangle:
		e.X, e.Y, e.Width, e.Height = g.X, g.Y, g.Width, g.Height
	case models.Ellipse:
		e.CX, e.CY, e.RX, e.RY = g.CX, g.CY, g.RX, g.RY
	case models.Line:
		e.X1, e.Y1, e.X2, e.Y2 = g.X1, g.Y1, g.X2, g.Y2
	case models.Polyline:
		e.Points = fromPoints(g.Points)
	case models.Polygon:
		e.Points = fromPoints(g.Points)
	case models.Point:
		e.X, e.Y = g.X, g.Y
	default:
		return e, fmt.Errorf("shape %s: unsupported geometry %T", s.ID, s.Geometry)
	}
	return e, nil
}

func toPoints(raw [][2]float64) []models.Point2D {
	out := make([]models.Point2D, len(raw))
	for i, p := range raw {
		out[i] = models.Point2D{X: p[0], Y: p[1]}
	}
	return out
}

func fromPoints(pts []models.Point2D) [][2]float64 {
	out := make([][2]float64, len(pts))
	for i, p := range pts {
		out[i] = [2]float64{p.X, p.Y}
	}
	return out
}
