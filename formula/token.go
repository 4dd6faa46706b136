package formula

// token is a lexical unit of a formula expression. The model mirrors the
// teacher's string-token approach (internal/expr.go): operators and
// parentheses are their own literal string, numbers and cell references
// carry their source text and get reinterpreted by the parser.
type tokenKind int

const (
	tokenNumber tokenKind = iota
	tokenCellRef
	tokenAdd
	tokenSub
	tokenMul
	tokenDiv
	tokenLParen
	tokenRParen
)

type token struct {
	kind tokenKind
	text string
}

var singleCharTokens = map[rune]tokenKind{
	'+': tokenAdd,
	'-': tokenSub,
	'*': tokenMul,
	'/': tokenDiv,
	'(': tokenLParen,
	')': tokenRParen,
}
