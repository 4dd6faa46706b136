package formula

import "errors"

// ErrParse is the sentinel wrapped by every syntax error this package
// returns, mirroring the teacher's internal/expr.go ErrExprParse.
var ErrParse = errors.New("formula: parse error")
