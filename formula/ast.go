package formula

import (
	"strconv"

	"github.com/go-spreadsheet/core/position"
	"github.com/go-spreadsheet/core/sheet"
)

// expr is the parse-tree interface, modeled the same way the teacher's
// internal/expr.go models it: a marker-method interface inspired by the
// standard library's ast package, rather than a class hierarchy.
type expr interface {
	isExpr()
	eval(resolve sheet.Resolver) (float64, *sheet.FormulaError)
	print(minPrec int) string
	collectRefs(out *[]position.Position)
}

type constExpr struct{ value float64 }

type cellRefExpr struct{ ref position.Position }

type unaryExpr struct{ x expr } // always negation; the only unary op in the grammar

type binaryExpr struct {
	x, y expr
	op   tokenKind // tokenAdd, tokenSub, tokenMul, or tokenDiv
}

func (constExpr) isExpr()   {}
func (cellRefExpr) isExpr() {}
func (unaryExpr) isExpr()   {}
func (binaryExpr) isExpr()  {}

func (e constExpr) eval(sheet.Resolver) (float64, *sheet.FormulaError) {
	return e.value, nil
}

func (e cellRefExpr) eval(resolve sheet.Resolver) (float64, *sheet.FormulaError) {
	return resolve(e.ref)
}

func (e unaryExpr) eval(resolve sheet.Resolver) (float64, *sheet.FormulaError) {
	x, err := e.x.eval(resolve)
	if err != nil {
		return 0, err
	}
	return -x, nil
}

func (e binaryExpr) eval(resolve sheet.Resolver) (float64, *sheet.FormulaError) {
	x, err := e.x.eval(resolve)
	if err != nil {
		return 0, err
	}
	y, err := e.y.eval(resolve)
	if err != nil {
		return 0, err
	}
	switch e.op {
	case tokenAdd:
		return x + y, nil
	case tokenSub:
		return x - y, nil
	case tokenMul:
		return x * y, nil
	case tokenDiv:
		if y == 0 {
			return 0, &sheet.FormulaError{Category: sheet.CategoryArithmetic}
		}
		return x / y, nil
	default:
		return 0, &sheet.FormulaError{Category: sheet.CategoryArithmetic}
	}
}

// precedence levels used by both the parser's grammar and the printer's
// parenthesization decisions: atoms and unary bind tightest, then * /,
// then + -.
const (
	precAdditive = iota + 1
	precMultiplicative
	precAtom
)

func (constExpr) precedence() int  { return precAtom }
func (cellRefExpr) precedence() int { return precAtom }
func (unaryExpr) precedence() int  { return precAtom }
func (e binaryExpr) precedence() int {
	if e.op == tokenAdd || e.op == tokenSub {
		return precAdditive
	}
	return precMultiplicative
}

func (e constExpr) print(int) string { return formatLiteral(e.value) }

func (e cellRefExpr) print(int) string { return e.ref.String() }

func (e unaryExpr) print(minPrec int) string {
	s := "-" + e.x.print(precAtom)
	if precAtom < minPrec {
		return "(" + s + ")"
	}
	return s
}

func (e binaryExpr) print(minPrec int) string {
	p := e.precedence()
	left := e.x.print(p)
	right := e.y.print(p + 1) // strictly higher, so non-associative ops round-trip correctly
	s := left + opText(e.op) + right
	if p < minPrec {
		return "(" + s + ")"
	}
	return s
}

func opText(op tokenKind) string {
	switch op {
	case tokenAdd:
		return "+"
	case tokenSub:
		return "-"
	case tokenMul:
		return "*"
	case tokenDiv:
		return "/"
	default:
		return "?"
	}
}

func formatLiteral(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func (e constExpr) collectRefs(*[]position.Position) {}

func (e cellRefExpr) collectRefs(out *[]position.Position) {
	*out = append(*out, e.ref)
}

func (e unaryExpr) collectRefs(out *[]position.Position) {
	e.x.collectRefs(out)
}

func (e binaryExpr) collectRefs(out *[]position.Position) {
	e.x.collectRefs(out)
	e.y.collectRefs(out)
}
