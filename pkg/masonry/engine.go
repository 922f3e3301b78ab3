package masonry

import (
	"errors"
	"slices"

	werrors "github.com/matzehuels/waterfall/pkg/errors"
)

// Item is a single element to be placed. ID is opaque to the engine and is
// only carried through to the snapshot.
type Item struct {
	ID     string  `json:"id"`
	Height float64 `json:"height"`
}

// Column is the state of one column: its accumulated height and the items
// assigned to it in arrival order.
type Column struct {
	Height float64 `json:"height"`
	Items  []Item  `json:"items"`
}

// Layout is a point-in-time copy of an engine's columns.
type Layout struct {
	Columns []Column `json:"columns"`
}

// Len returns the number of items across all columns.
func (l Layout) Len() int {
	n := 0
	for _, c := range l.Columns {
		n += len(c.Items)
	}
	return n
}

// Heights returns the accumulated height of each column.
func (l Layout) Heights() []float64 {
	h := make([]float64, len(l.Columns))
	for i, c := range l.Columns {
		h[i] = c.Height
	}
	return h
}

// Engine assigns items to columns using shortest-column-first placement.
//
// The zero value is not usable; create engines with [New].
type Engine struct {
	heights []float64
	buckets [][]Item
	order   []Item // every placed item in arrival order, used by Reflow
}

// New creates an engine with the given number of columns, all empty.
func New(columns int) (*Engine, error) {
	if columns < 1 {
		return nil, invalidColumns(columns)
	}
	e := &Engine{}
	e.init(columns)
	return e, nil
}

func (e *Engine) init(columns int) {
	e.heights = make([]float64, columns)
	e.buckets = make([][]Item, columns)
	e.order = nil
}

// Columns returns the current column count.
func (e *Engine) Columns() int { return len(e.heights) }

// Len returns the number of placed items.
func (e *Engine) Len() int { return len(e.order) }

// Heights returns a copy of the accumulated column heights.
func (e *Engine) Heights() []float64 { return slices.Clone(e.heights) }

// Items returns a copy of all placed items in arrival order.
func (e *Engine) Items() []Item { return slices.Clone(e.order) }

// Place assigns item to the column with the smallest accumulated height,
// preferring the lowest index on ties, and returns that column's index.
//
// Items with a non-positive or non-finite height are rejected with an
// INVALID_ITEM error; the engine is not modified in that case.
func (e *Engine) Place(item Item) (int, error) {
	if err := werrors.ValidateHeight(item.ID, item.Height); err != nil {
		return -1, err
	}
	col := e.Shortest()
	e.buckets[col] = append(e.buckets[col], item)
	e.heights[col] += item.Height
	e.order = append(e.order, item)
	return col, nil
}

// PlaceAll places items sequentially in input order. The returned slice has
// one entry per input item: the chosen column, or -1 if the item was
// rejected. Rejected items do not stop the batch; their errors are joined
// into the returned error.
func (e *Engine) PlaceAll(items []Item) ([]int, error) {
	cols := make([]int, len(items))
	var errs []error
	for i, it := range items {
		col, err := e.Place(it)
		if err != nil {
			errs = append(errs, err)
		}
		cols[i] = col
	}
	return cols, errors.Join(errs...)
}

// Shortest returns the index of the column with the smallest accumulated
// height. Ties resolve to the lowest index.
func (e *Engine) Shortest() int {
	best := 0
	for i := 1; i < len(e.heights); i++ {
		if e.heights[i] < e.heights[best] {
			best = i
		}
	}
	return best
}

// Tallest returns the index of the column with the largest accumulated
// height. Ties resolve to the lowest index.
func (e *Engine) Tallest() int {
	best := 0
	for i := 1; i < len(e.heights); i++ {
		if e.heights[i] > e.heights[best] {
			best = i
		}
	}
	return best
}

// Reset discards all placements and keeps the current column count.
func (e *Engine) Reset() {
	e.init(len(e.heights))
}

// ResetColumns discards all placements and switches to n columns.
// If n is below one the engine is left as it was.
func (e *Engine) ResetColumns(n int) error {
	if n < 1 {
		return invalidColumns(n)
	}
	e.init(n)
	return nil
}

// Reflow switches to n columns and re-places every retained item in its
// original arrival order. If n is below one the engine is left as it was.
func (e *Engine) Reflow(n int) error {
	if n < 1 {
		return invalidColumns(n)
	}
	items := e.order
	e.init(n)
	for _, it := range items {
		// Retained items were validated when first placed.
		_, _ = e.Place(it)
	}
	return nil
}

// Snapshot returns a deep copy of the current columns.
func (e *Engine) Snapshot() Layout {
	cols := make([]Column, len(e.buckets))
	for i, b := range e.buckets {
		cols[i] = Column{
			Height: e.heights[i],
			Items:  append([]Item{}, b...),
		}
	}
	return Layout{Columns: cols}
}

func invalidColumns(n int) error {
	return werrors.New(werrors.ErrCodeInvalidConfiguration, "column count must be at least 1, got %d", n)
}
