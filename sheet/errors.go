package sheet

import "errors"

// Control-flow errors. These abort the public call that raised them and
// leave the Sheet/Cell unchanged, matching spec.md §7's "control-flow
// signals" category — unlike FormulaError, which is a data-plane value.
var (
	// ErrInvalidPosition is returned by any public operation given a
	// Position that fails Valid().
	ErrInvalidPosition = errors.New("sheet: invalid position")

	// ErrFormulaParse wraps a failure from the external formula parser.
	ErrFormulaParse = errors.New("sheet: formula parse error")

	// ErrCircularDependency is returned when a Set would introduce a cycle
	// into the forward-reference graph.
	ErrCircularDependency = errors.New("sheet: circular dependency")
)
