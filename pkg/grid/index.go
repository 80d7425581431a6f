// Package grid maps the shapes of an ROI onto a z-section × time-point grid
// for display and propagation.
//
// Display rows are flipped: row 0 is the highest z-section, so the grid reads
// like a stack viewed from above.
package grid

import (
	"errors"
	"fmt"
	"sort"
	"strconv"

	"roimeasure/internal/models"
)

// ErrNilSource is returned when an index is built without a shape source
var ErrNilSource = errors.New("grid: shape source is nil")

// ShapeSource is the read-only view of an ROI the index needs
type ShapeSource interface {
	// Shapes enumerates every shape of the ROI
	Shapes() []*models.Shape

	// Shape returns the shape at coord or an error wrapping
	// models.ErrNoSuchShape
	Shape(coord models.Coordinate) (*models.Shape, error)
}

// Entry is one cached cell of the index
type Entry struct {
	Coord models.Coordinate
	Type  models.ShapeType
}

// Index answers "which shape occupies this grid cell" for one ROI.
// It is built once from a full scan of the source; callers rebuild it when
// the ROI changes.
type Index struct {
	source  ShapeSource
	current models.Coordinate

	columns     int
	rows        int
	columnNames []string

	// cells is the snapshot taken by the last scan
	cells map[models.Coordinate]models.ShapeType
}

// NewIndex builds an index over source.
//
// columnCount is the number of time-points, rowCount the number of
// z-sections. After the scan the row count is raised to the largest
// z-section found if that is bigger than rowCount; the column count is
// taken as given. current is the plane being viewed and is only recorded.
func NewIndex(columnCount, rowCount int, current models.Coordinate, source ShapeSource) (*Index, error) {
	if source == nil {
		return nil, ErrNilSource
	}
	if roi, ok := source.(*models.ROI); ok && roi == nil {
		return nil, ErrNilSource
	}
	if columnCount < 0 || rowCount < 0 {
		return nil, fmt.Errorf("grid: negative dimensions %dx%d", rowCount, columnCount)
	}

	idx := &Index{
		source:  source,
		current: current,
		rows:    rowCount,
	}
	idx.SetColumnCount(columnCount)
	idx.scan()
	return idx, nil
}

// scan replaces the cached cells with the current shape set
func (idx *Index) scan() {
	idx.cells = make(map[models.Coordinate]models.ShapeType)
	for _, s := range idx.source.Shapes() {
		idx.cells[s.Coord] = s.Type()
		if s.Coord.Z > idx.rows {
			idx.rows = s.Coord.Z
		}
	}
}

// Rebuild rescans the source wholesale. The row count may grow, it never
// shrinks.
func (idx *Index) Rebuild() {
	idx.scan()
}

// ShapeTypeAt returns the type of the shape shown at display (row, col).
// The row is flipped to z = RowCount()-row-1 and the source ROI is queried
// directly. Empty and out-of-range cells both report false.
func (idx *Index) ShapeTypeAt(row, col int) (models.ShapeType, bool) {
	coord := models.Coordinate{Z: idx.rows - row - 1, T: col}
	s, err := idx.source.Shape(coord)
	if err != nil || s == nil {
		return "", false
	}
	return s.Type(), true
}

// SetShapeTypeAt does nothing; the grid is display only.
func (idx *Index) SetShapeTypeAt(row, col int, t models.ShapeType) {}

// ColumnCount returns the number of time-point columns
func (idx *Index) ColumnCount() int { return idx.columns }

// RowCount returns the number of z-section rows
func (idx *Index) RowCount() int { return idx.rows }

// SetRowCount overwrites the row count without rescanning
func (idx *Index) SetRowCount(n int) { idx.rows = n }

// SetColumnCount overwrites the column count and relabels the columns
// without rescanning
func (idx *Index) SetColumnCount(n int) {
	if n < 0 {
		n = 0
	}
	idx.columns = n
	idx.columnNames = make([]string, n)
	for i := range idx.columnNames {
		idx.columnNames[i] = strconv.Itoa(i + 1)
	}
}

// ColumnName returns the 1-based label of column i, or "" if out of range
func (idx *Index) ColumnName(i int) string {
	if i < 0 || i >= len(idx.columnNames) {
		return ""
	}
	return idx.columnNames[i]
}

// ColumnNames returns a copy of all column labels
func (idx *Index) ColumnNames() []string {
	return append([]string(nil), idx.columnNames...)
}

// CurrentPlane returns the plane recorded at construction
func (idx *Index) CurrentPlane() models.Coordinate { return idx.current }

// Occupied reports whether the last scan saw a shape at coord
func (idx *Index) Occupied(coord models.Coordinate) bool {
	_, ok := idx.cells[coord]
	return ok
}

// Entries returns the cells seen by the last scan in coordinate order
func (idx *Index) Entries() []Entry {
	out := make([]Entry, 0, len(idx.cells))
	for c, t := range idx.cells {
		out = append(out, Entry{Coord: c, Type: t})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Coord.Less(out[j].Coord)
	})
	return out
}

// DisplayRow converts a z-section into the display row that shows it
func (idx *Index) DisplayRow(z int) int {
	return idx.rows - z - 1
}
