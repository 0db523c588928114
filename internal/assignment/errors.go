package assignment

import "errors"

var (
	// ErrInvalidCostMatrix indicates an empty cost matrix or one holding NaN/Inf entries.
	ErrInvalidCostMatrix = errors.New("assignment: invalid cost matrix")
	// ErrMatrixTooLarge indicates the matrix has more entries than the power-of-two
	// ladder can represent without leaving the float64 exponent range.
	ErrMatrixTooLarge = errors.New("assignment: cost matrix too large for power-of-two mapping")
)
