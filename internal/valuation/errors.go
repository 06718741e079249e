package valuation

import "errors"

// The two failure kinds every Calculate call can surface. Both are fatal and
// deterministic given inputs; callers distinguish them with errors.Is.
var (
	// ErrArgumentInvalid marks malformed or out-of-range configuration,
	// detected eagerly before any dynamic-programming work.
	ErrArgumentInvalid = errors.New("invalid argument")

	// ErrConstraintInfeasible marks facility operating constraints that
	// cannot be satisfied from the starting inventory.
	ErrConstraintInfeasible = errors.New("storage constraints infeasible")
)
