// Package apperrors holds the error taxonomy shared by the simulation packages.
//
// Every error returned by the engine wraps one of these sentinels, so callers
// can classify failures with errors.Is regardless of the context added on the
// way up.
package apperrors

import "errors"

// Contract violations detected when building or running a simulation.
var (
	// ErrConfiguration indicates invalid construction parameters: a bad coupon
	// month pair, an unsupported index or operator, a non-positive principal, or
	// an instrument whose life does not cover the requested window.
	ErrConfiguration = errors.New("configuration error")

	// ErrRange indicates a simulation window whose end is not after its start,
	// or a query date outside the simulated months.
	ErrRange = errors.New("range error")

	// ErrSequence indicates a step invoked out of chronological order or past
	// the instrument's maturity.
	ErrSequence = errors.New("sequence error")

	// ErrNotSimulated indicates a value or return query made before any
	// simulation has run.
	ErrNotSimulated = errors.New("not simulated")
)
