// Package formula is a standalone implementation of the "external" parser
// collaborator spec.md §6 describes: it compiles a formula's source text
// into a value satisfying sheet.CompiledFormula, with no dependency back on
// any particular Sheet or Cell.
package formula

import (
	"github.com/go-spreadsheet/core/position"
	"github.com/go-spreadsheet/core/sheet"
)

// AST is a compiled formula expression: + - * / with unary minus,
// parenthesized sub-expressions, numeric literals, and A1-style cell
// references.
type AST struct {
	root expr
}

// Parse compiles the suffix of a formula cell's text (everything after the
// leading '=') into an AST. Its signature matches sheet.FormulaParser, so
// it can be passed directly to sheet.NewSheet.
func Parse(exprText string) (sheet.CompiledFormula, error) {
	tokens, err := tokenize(exprText)
	if err != nil {
		return nil, err
	}
	root, err := parse(tokens)
	if err != nil {
		return nil, err
	}
	return AST{root: root}, nil
}

// Evaluate computes the formula's value, reading other cells through
// resolve.
func (a AST) Evaluate(resolve sheet.Resolver) (float64, *sheet.FormulaError) {
	return a.root.eval(resolve)
}

// ExpressionText renders the canonical form of the formula: minimal
// parentheses, no leading '=', whitespace-free.
func (a AST) ExpressionText() string {
	return a.root.print(0)
}

// ReferencedPositions returns every cell reference in the formula, in
// encounter order and with duplicates — sheet normalizes this.
func (a AST) ReferencedPositions() []position.Position {
	var out []position.Position
	a.root.collectRefs(&out)
	return out
}
