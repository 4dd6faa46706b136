package formula

import (
	"fmt"
	"strconv"

	"github.com/go-spreadsheet/core/position"
)

// parse parses a fully tokenized expression, grounded directly on the
// teacher's internal/expr.go recursive-descent shape: parse delegates
// to parseTerm (+ -), which delegates to parseFactor (* /), which
// delegates to parseUnary (unary -), which bottoms out at parsePrimary
// (numbers, cell references, parenthesized sub-expressions).
func parse(tokens []token) (expr, error) {
	e, rest, err := parseTerm(tokens)
	if err != nil {
		return nil, err
	}
	if len(rest) != 0 {
		return nil, fmt.Errorf("%w: unexpected trailing token %q", ErrParse, rest[0].text)
	}
	return e, nil
}

func parseTerm(tokens []token) (expr, []token, error) {
	return parseBinary(tokens, map[tokenKind]bool{tokenAdd: true, tokenSub: true}, parseFactor)
}

func parseFactor(tokens []token) (expr, []token, error) {
	return parseBinary(tokens, map[tokenKind]bool{tokenMul: true, tokenDiv: true}, parseUnary)
}

func parseBinary(tokens []token, ops map[tokenKind]bool, next func([]token) (expr, []token, error)) (expr, []token, error) {
	x, rest, err := next(tokens)
	if err != nil {
		return nil, nil, err
	}
	for len(rest) > 0 && ops[rest[0].kind] {
		op := rest[0].kind
		var y expr
		y, rest, err = next(rest[1:])
		if err != nil {
			return nil, nil, err
		}
		x = binaryExpr{x: x, op: op, y: y}
	}
	return x, rest, nil
}

func parseUnary(tokens []token) (expr, []token, error) {
	if len(tokens) == 0 {
		return nil, nil, fmt.Errorf("%w: expected an expression, found nothing", ErrParse)
	}
	if tokens[0].kind == tokenSub {
		x, rest, err := parseUnary(tokens[1:])
		if err != nil {
			return nil, nil, err
		}
		if c, ok := x.(constExpr); ok { // fold constant negation, same optimization as the teacher
			return constExpr{value: -c.value}, rest, nil
		}
		return unaryExpr{x: x}, rest, nil
	}
	return parsePrimary(tokens)
}

func parsePrimary(tokens []token) (expr, []token, error) {
	if len(tokens) == 0 {
		return nil, nil, fmt.Errorf("%w: expected an expression, found nothing", ErrParse)
	}
	t := tokens[0]
	switch t.kind {
	case tokenCellRef:
		pos, err := position.ParseA1(t.text)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", ErrParse, err)
		}
		return cellRefExpr{ref: pos}, tokens[1:], nil
	case tokenNumber:
		v, err := strconv.ParseFloat(t.text, 64)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: invalid numeric literal %q", ErrParse, t.text)
		}
		return constExpr{value: v}, tokens[1:], nil
	case tokenLParen:
		inner, rest, err := parseTerm(tokens[1:])
		if err != nil {
			return nil, nil, err
		}
		if len(rest) == 0 || rest[0].kind != tokenRParen {
			return nil, nil, fmt.Errorf("%w: expected ')'", ErrParse)
		}
		return inner, rest[1:], nil
	default:
		return nil, nil, fmt.Errorf("%w: unexpected token %q", ErrParse, t.text)
	}
}
