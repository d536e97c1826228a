package sim

import "errors"

// Recoverable execution failures. These never abort a run; the engine records
// them as rejections and moves on to the next bar.
var (
	ErrInsufficientCash     = errors.New("insufficient cash")
	ErrInsufficientPosition = errors.New("insufficient position")
)
