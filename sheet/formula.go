package sheet

import "github.com/go-spreadsheet/core/position"

// Resolver is the function a Sheet hands a CompiledFormula so it can read
// other cells during Evaluate. Its contract (spec.md §4.5):
//
//   - an invalid Position yields a Ref FormulaError;
//   - a missing or Empty cell resolves to 0.0;
//   - a numeric cell resolves to its number;
//   - a string cell resolves to 0.0 if empty, else the whole string is
//     parsed as a float64 — any parse failure or trailing garbage yields a
//     Value FormulaError;
//   - an error-valued cell propagates its category unchanged.
type Resolver func(p position.Position) (float64, *FormulaError)

// CompiledFormula is the external collaborator spec.md §6 describes: an
// opaque object produced by a parser outside the core, exposing evaluation,
// canonical text, and the positions it reads. The sheet package depends
// only on this interface, never on a concrete parser implementation.
type CompiledFormula interface {
	// Evaluate computes the formula's value using resolve to read other
	// cells. A non-nil *FormulaError return means evaluation failed with
	// that category; exactly one of the two return values is meaningful.
	Evaluate(resolve Resolver) (float64, *FormulaError)

	// ExpressionText returns the canonical printed form of the formula,
	// without a leading '='. It need not equal the text that was parsed
	// (whitespace normalization, etc. are the parser's choice).
	ExpressionText() string

	// ReferencedPositions returns the positions this formula reads. The
	// sheet package sorts and deduplicates this before relying on it, so
	// implementations are free to return positions in any order with
	// duplicates.
	ReferencedPositions() []position.Position
}

// FormulaParser compiles the suffix of a formula cell's text (the part
// after the leading '=') into a CompiledFormula. It is supplied to NewSheet
// by the caller, keeping the grammar and its parser entirely outside this
// package, per spec.md §1.
type FormulaParser func(expr string) (CompiledFormula, error)
