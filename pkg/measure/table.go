package measure

import (
	"fmt"
	"sort"
)

// Row is one record of a measurement table, one value per column
type Row []Value

// ChangeKind describes a structural change to a table
type ChangeKind int

const (
	// RowsInserted reports rows First..Last (inclusive) were appended
	RowsInserted ChangeKind = iota

	// Cleared reports every row was removed
	Cleared

	// Refreshed reports the formatted text of every cell may have changed,
	// for example after a units switch
	Refreshed
)

// Change is delivered to table subscribers
type Change struct {
	Kind        ChangeKind
	First, Last int
}

// Table holds measurement rows under named columns and formats them with
// the active units. A Table is not safe for concurrent use.
type Table struct {
	columns []string
	rows    []Row
	units   Units

	subscribers map[int]func(Change)
	nextSub     int
}

// NewTable creates an empty table with the given column names
func NewTable(columns []string, units Units) *Table {
	return &Table{
		columns:     append([]string(nil), columns...),
		units:       units,
		subscribers: make(map[int]func(Change)),
	}
}

// Columns returns a copy of the column names
func (t *Table) Columns() []string {
	return append([]string(nil), t.columns...)
}

// ColumnCount returns the number of columns
func (t *Table) ColumnCount() int { return len(t.columns) }

// RowCount returns the number of rows
func (t *Table) RowCount() int { return len(t.rows) }

// Units returns the active units
func (t *Table) Units() Units { return t.units }

// SetUnits switches the display units and notifies subscribers
func (t *Table) SetUnits(u Units) {
	t.units = u
	t.publish(Change{Kind: Refreshed, First: 0, Last: len(t.rows) - 1})
}

// AddRow appends rows. Each row must have one value per column.
func (t *Table) AddRow(rows ...Row) error {
	if len(rows) == 0 {
		return nil
	}
	for i, r := range rows {
		if len(r) != len(t.columns) {
			return fmt.Errorf("row %d has %d values, table has %d columns", i, len(r), len(t.columns))
		}
	}
	first := len(t.rows)
	t.rows = append(t.rows, rows...)
	t.publish(Change{Kind: RowsInserted, First: first, Last: len(t.rows) - 1})
	return nil
}

// Clear removes every row
func (t *Table) Clear() {
	t.rows = nil
	t.publish(Change{Kind: Cleared, First: 0, Last: -1})
}

// Value returns the raw cell value; out-of-range cells are Empty
func (t *Table) Value(row, col int) Value {
	if row < 0 || row >= len(t.rows) || col < 0 || col >= len(t.columns) {
		return Empty
	}
	return t.rows[row][col]
}

// Text returns the cell formatted under the active units
func (t *Table) Text(row, col int) string {
	return t.Value(row, col).Format(t.units)
}

// Subscribe registers fn for structural change notifications and returns
// a func that cancels the subscription
func (t *Table) Subscribe(fn func(Change)) (cancel func()) {
	id := t.nextSub
	t.nextSub++
	t.subscribers[id] = fn
	return func() { delete(t.subscribers, id) }
}

func (t *Table) publish(c Change) {
	ids := make([]int, 0, len(t.subscribers))
	for id := range t.subscribers {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	for _, id := range ids {
		if fn, ok := t.subscribers[id]; ok {
			fn(c)
		}
	}
}
