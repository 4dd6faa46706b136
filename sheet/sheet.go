package sheet

import (
	"fmt"
	"io"

	"github.com/go-spreadsheet/core/position"
)

// Sheet owns a sparse Position -> Cell mapping and is the sole mutator of
// that mapping. It is not safe for concurrent use (spec.md §5): callers
// must externally serialize access.
type Sheet struct {
	parser FormulaParser
	cells  map[position.Position]*Cell

	// rows and cols count, per row/column index, how many cells in that
	// row/column are visible (materialized by a public Set). They back
	// PrintableSize's O(log n) max-index lookup.
	rows orderedCounts
	cols orderedCounts
}

// NewSheet creates an empty Sheet that compiles formula text with parser.
func NewSheet(parser FormulaParser) *Sheet {
	return &Sheet{
		parser: parser,
		cells:  make(map[position.Position]*Cell),
		rows:   newOrderedCounts(),
		cols:   newOrderedCounts(),
	}
}

// Set installs text at pos, validating pos first (spec.md I5). On success,
// pos becomes visible for PrintableSize purposes exactly once, no matter
// how many times Set is called on it afterward.
func (s *Sheet) Set(pos position.Position, text string) error {
	if !pos.Valid() {
		return fmt.Errorf("%w: %v", ErrInvalidPosition, pos)
	}

	cell, existed := s.cells[pos]
	if !existed {
		cell = newCell(s, pos)
		s.cells[pos] = cell
	}

	if err := cell.set(text); err != nil {
		return err
	}

	if !cell.visible {
		cell.visible = true
		s.rows.inc(pos.Row)
		s.cols.inc(pos.Col)
	}
	return nil
}

// Get returns the visible cell at pos, or nil if no cell has ever been Set
// there (or it has since been Cleared back to Empty). Empty cells are
// invisible to readers; they exist only to serve as dependency endpoints.
func (s *Sheet) Get(pos position.Position) (*Cell, error) {
	if !pos.Valid() {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPosition, pos)
	}
	cell, ok := s.cells[pos]
	if !ok || cell.IsEmpty() {
		return nil, nil
	}
	return cell, nil
}

// getConcrete returns the Cell at pos regardless of emptiness, or nil if
// pos was never materialized at all. Used internally by cycle detection and
// formula resolution.
func (s *Sheet) getConcrete(pos position.Position) *Cell {
	return s.cells[pos]
}

// materialize returns the Cell at pos, creating it as Empty (without
// affecting printable bounds) if it doesn't exist yet. This is the only
// path through which a formula's reference auto-creates a cell.
func (s *Sheet) materialize(pos position.Position) *Cell {
	if cell, ok := s.cells[pos]; ok {
		return cell
	}
	cell := newCell(s, pos)
	s.cells[pos] = cell
	return cell
}

// Clear converts the cell at pos back to Empty. A no-op if pos has no cell
// or its cell is already Empty.
func (s *Sheet) Clear(pos position.Position) error {
	if !pos.Valid() {
		return fmt.Errorf("%w: %v", ErrInvalidPosition, pos)
	}
	cell, ok := s.cells[pos]
	if !ok || cell.IsEmpty() {
		return nil
	}
	s.rows.dec(pos.Row)
	s.cols.dec(pos.Col)
	cell.visible = false
	cell.clear()
	return nil
}

// PrintableSize returns the (rows, cols) bounding box of visible cells, or
// (0, 0) if there are none.
func (s *Sheet) PrintableSize() (rows, cols int) {
	maxRow, ok := s.rows.max()
	if !ok {
		return 0, 0
	}
	maxCol, _ := s.cols.max()
	return maxRow + 1, maxCol + 1
}

// Texts returns the stored text of every visible cell, keyed by position.
// It is the serialization surface a caller uses to snapshot or duplicate a
// sheet's content without reaching into its internals.
func (s *Sheet) Texts() map[position.Position]string {
	out := make(map[position.Position]string)
	for pos, cell := range s.cells {
		if !cell.IsEmpty() {
			out[pos] = cell.text()
		}
	}
	return out
}

// PrintValues writes the printable region's computed values to out: cells
// tab-separated within a row, one row per line.
func (s *Sheet) PrintValues(out io.Writer) error {
	return s.printCells(out, func(c *Cell) string { return c.value().String() })
}

// PrintTexts writes the printable region's stored text to out, in the same
// tab/newline layout as PrintValues.
func (s *Sheet) PrintTexts(out io.Writer) error {
	return s.printCells(out, func(c *Cell) string { return c.text() })
}

func (s *Sheet) printCells(out io.Writer, render func(*Cell) string) error {
	rows, cols := s.PrintableSize()
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			if j != 0 {
				if _, err := io.WriteString(out, "\t"); err != nil {
					return err
				}
			}
			cell, ok := s.cells[position.Position{Row: i, Col: j}]
			if ok && !cell.IsEmpty() {
				if _, err := io.WriteString(out, render(cell)); err != nil {
					return err
				}
			}
		}
		if _, err := io.WriteString(out, "\n"); err != nil {
			return err
		}
	}
	return nil
}

// resolve is the Resolver glue handed to every CompiledFormula evaluated
// against this sheet (spec.md §4.5).
func (s *Sheet) resolve(pos position.Position) (float64, *FormulaError) {
	if !pos.Valid() {
		return 0, &FormulaError{Category: CategoryRef}
	}
	cell, ok := s.cells[pos]
	if !ok || cell.IsEmpty() {
		return 0, nil
	}
	v := cell.value()
	switch {
	case v.IsNumber():
		return v.Number(), nil
	case v.IsError():
		return 0, &FormulaError{Category: v.Err().Category}
	default: // text
		if v.Text() == "" {
			return 0, nil
		}
		n, ok := parseNumericText(v.Text())
		if !ok {
			return 0, &FormulaError{Category: CategoryValue}
		}
		return n, nil
	}
}

// wouldCycle reports whether installing candidate with the proposed
// reference set refs would introduce a cycle into the forward-reference
// graph. It runs against the graph as it currently stands — candidate's
// own old edges are still present, which is safe because candidate itself
// is the search's termination condition (spec.md §4.3).
func (s *Sheet) wouldCycle(candidate *Cell, refs []position.Position) bool {
	visited := make(map[position.Position]bool)
	var visit func(pos position.Position) bool
	visit = func(pos position.Position) bool {
		if !pos.Valid() {
			return false
		}
		cell := s.getConcrete(pos)
		if cell == nil {
			return false
		}
		if cell == candidate {
			return true
		}
		if visited[pos] {
			return true // re-encountering a visited node indicates a cycle
		}
		visited[pos] = true
		if cell.kind != kindFormula {
			return false
		}
		for _, next := range cell.referencedPositions() {
			if visit(next) {
				return true
			}
		}
		return false
	}
	for _, ref := range refs {
		if visit(ref) {
			return true
		}
	}
	return false
}
