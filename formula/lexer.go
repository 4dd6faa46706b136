package formula

import "fmt"

// tokenize splits a formula expression (the text after the leading '=')
// into tokens, grounded directly on the teacher's internal/expr.go
// tokenize: a single left-to-right scan recognizing digits/decimal points,
// A-Z cell references, and single-character operators, skipping spaces.
func tokenize(expr string) ([]token, error) {
	runes := []rune(expr)
	var tokens []token

	for i := 0; i < len(runes); i++ {
		ch := runes[i]
		switch {
		case ch == ' ' || ch == '\t':
			continue
		case between(ch, '0', '9') || ch == '.':
			start := i
			sawDot := ch == '.'
			i++
			for i < len(runes) && (between(runes[i], '0', '9') || (runes[i] == '.' && !sawDot)) {
				if runes[i] == '.' {
					sawDot = true
				}
				i++
			}
			tokens = append(tokens, token{kind: tokenNumber, text: string(runes[start:i])})
			i--
		case between(ch, 'A', 'Z'):
			start := i
			for i < len(runes) && (between(runes[i], 'A', 'Z') || between(runes[i], '0', '9')) {
				i++
			}
			tokens = append(tokens, token{kind: tokenCellRef, text: string(runes[start:i])})
			i--
		default:
			kind, ok := singleCharTokens[ch]
			if !ok {
				return nil, fmt.Errorf("%w: unexpected character %q", ErrParse, ch)
			}
			tokens = append(tokens, token{kind: kind, text: string(ch)})
		}
	}
	return tokens, nil
}

func between(target, lb, ub rune) bool {
	return lb <= target && target <= ub
}
