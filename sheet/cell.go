package sheet

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/go-spreadsheet/core/position"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// cellKind is the tag of Cell's three-state variant (spec.md §3).
type cellKind int

const (
	kindEmpty cellKind = iota
	kindText
	kindFormula
)

// Cell is the storage unit at a Position. It is owned exclusively by a
// Sheet; every mutating method below is invoked by Sheet alone, never
// directly by a caller outside this package.
type Cell struct {
	owner *Sheet
	pos   position.Position

	kind     cellKind
	rawText  string
	compiled CompiledFormula // non-nil only when kind == kindFormula
	cached   *CellValue      // formula cache; nil means "not yet evaluated"

	// reverseDeps holds the cells whose formulas currently reference this
	// one — non-owning references back into owner.cells, keyed by their
	// own Position.
	reverseDeps map[position.Position]*Cell

	// visible is set by a successful public Sheet.Set call and reset by
	// Sheet.Clear. Cells auto-materialized only because a formula
	// referenced them start invisible (spec.md I4).
	visible bool
}

func newCell(owner *Sheet, pos position.Position) *Cell {
	return &Cell{
		owner:       owner,
		pos:         pos,
		reverseDeps: make(map[position.Position]*Cell),
	}
}

// IsEmpty reports whether c currently holds the Empty variant.
func (c *Cell) IsEmpty() bool {
	return c.kind == kindEmpty
}

// set installs a new state for c, computed from text. It performs, in
// order: the idempotence fast path, classification, parsing, cycle
// detection, and only then the atomic commit (invalidate -> detach old
// edges -> install -> attach new edges), matching spec.md §5's fixed
// ordering. On any error c is left completely unchanged.
func (c *Cell) set(text string) error {
	if !c.IsEmpty() && c.rawText == text {
		return nil // idempotence fast path
	}

	newKind, newRaw, newCompiled, err := classify(text, c.owner.parser)
	if err != nil {
		return err
	}

	var refs []position.Position
	if newKind == kindFormula {
		refs = normalizeRefs(newCompiled.ReferencedPositions())
		if c.owner.wouldCycle(c, refs) {
			return fmt.Errorf("%w: setting %s would create a cycle", ErrCircularDependency, c.pos)
		}
	}

	// Everything that can fail has now succeeded; commit.
	c.invalidate()
	c.detachForwardRefs()

	c.kind = newKind
	c.rawText = newRaw
	c.compiled = newCompiled
	c.cached = nil

	if newKind == kindFormula {
		c.attachForwardRefs(refs)
	}
	return nil
}

// clear converts c to Empty, invalidating its cache first. Forward edges
// are dropped; reverse edges (dependents reading c) are preserved so they
// keep resolving c as "" / 0.
func (c *Cell) clear() {
	c.invalidate()
	c.detachForwardRefs()
	c.kind = kindEmpty
	c.rawText = ""
	c.compiled = nil
	c.cached = nil
}

// value computes or returns the cached CellValue for c (spec.md §4.1).
func (c *Cell) value() CellValue {
	switch c.kind {
	case kindEmpty:
		return TextValue("")
	case kindText:
		if strings.HasPrefix(c.rawText, "'") {
			return TextValue(c.rawText[1:])
		}
		return TextValue(c.rawText)
	case kindFormula:
		if c.cached != nil {
			return *c.cached
		}
		var result CellValue
		if n, ferr := c.compiled.Evaluate(c.owner.resolve); ferr != nil {
			result = ErrorValue(*ferr)
		} else {
			result = NumberValue(n)
		}
		c.cached = &result
		return result
	default:
		return TextValue("")
	}
}

// text returns c's stored text exactly as spec.md §4.1 describes per kind.
func (c *Cell) text() string {
	switch c.kind {
	case kindText:
		return c.rawText
	case kindFormula:
		return "=" + c.compiled.ExpressionText()
	default:
		return ""
	}
}

// referencedPositions returns the sorted, deduplicated positions c's
// formula reads; empty for non-Formula cells.
func (c *Cell) referencedPositions() []position.Position {
	if c.kind != kindFormula {
		return nil
	}
	return normalizeRefs(c.compiled.ReferencedPositions())
}

// Value returns c's computed CellValue (spec.md CellInterface.value()).
func (c *Cell) Value() CellValue { return c.value() }

// Text returns c's stored text verbatim, or the canonical "=expr" form for
// a formula cell (spec.md CellInterface.text()).
func (c *Cell) Text() string { return c.text() }

// ReferencedCells returns the sorted, deduplicated positions c's formula
// reads; empty for non-Formula cells (spec.md CellInterface.referenced_cells()).
func (c *Cell) ReferencedCells() []position.Position { return c.referencedPositions() }

// Dependents returns the positions of the cells whose formulas currently
// reference c, in no particular order. Useful for introspection; the core
// itself only ever walks c.reverseDeps directly during invalidation.
func (c *Cell) Dependents() []position.Position { return maps.Keys(c.reverseDeps) }

// invalidate drops c's cached value, then recurses into every reverse
// dependent. Termination follows from I2 (the reverse-dependency graph is
// a DAG); revisiting an already-invalidated cell is a harmless no-op, so no
// visited set is required for correctness (spec.md §4.2).
func (c *Cell) invalidate() {
	c.cached = nil
	for _, dep := range c.reverseDeps {
		dep.invalidate()
	}
}

// detachForwardRefs removes c from the reverseDeps of every cell it used to
// reference. Safe to call on a non-Formula cell (no-op).
func (c *Cell) detachForwardRefs() {
	if c.kind != kindFormula {
		return
	}
	for _, ref := range c.referencedPositions() {
		if target := c.owner.getConcrete(ref); target != nil {
			delete(target.reverseDeps, c.pos)
		}
	}
}

// attachForwardRefs adds c to the reverseDeps of every position in refs,
// auto-materializing referenced cells that don't exist yet. It never
// touches owner.cells directly — materialization always goes through
// Sheet.materialize, the same invisible-to-printable-bounds path every
// reference-only creation uses.
func (c *Cell) attachForwardRefs(refs []position.Position) {
	for _, ref := range refs {
		target := c.owner.materialize(ref)
		target.reverseDeps[c.pos] = c
	}
}

// classify implements the text -> (kind, rawText, compiled) decision from
// spec.md §4.1: empty string is Empty, a leading '=' with at least one more
// character is a formula candidate (parsed immediately), everything else is
// Text.
func classify(text string, parser FormulaParser) (cellKind, string, CompiledFormula, error) {
	if text == "" {
		return kindEmpty, "", nil, nil
	}
	if strings.HasPrefix(text, "=") && len(text) >= 2 {
		compiled, err := parser(text[1:])
		if err != nil {
			return 0, "", nil, fmt.Errorf("%w: %v", ErrFormulaParse, err)
		}
		return kindFormula, text, compiled, nil
	}
	return kindText, text, nil, nil
}

// normalizeRefs sorts and deduplicates a list of positions, per spec.md
// §4.1's "referenced_positions() -> list (sorted, deduped)".
func normalizeRefs(refs []position.Position) []position.Position {
	if len(refs) == 0 {
		return nil
	}
	out := append([]position.Position(nil), refs...)
	slices.SortFunc(out, func(a, b position.Position) int { return a.Compare(b) })
	out = slices.CompactFunc(out, func(a, b position.Position) bool { return a == b })
	return out
}

// parseNumericText parses s as a float64 if the whole string is a valid
// numeric literal; used by the resolver glue, Sheet.resolve in sheet.go.
func parseNumericText(s string) (float64, bool) {
	n, err := strconv.ParseFloat(s, 64)
	return n, err == nil
}
