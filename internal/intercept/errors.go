package intercept

import "errors"

var (
	// ErrUnreachableTarget indicates the pursuer cannot meet the agent at or
	// above the agent's current height under the given speed ratio.
	ErrUnreachableTarget = errors.New("intercept: target unreachable")
	// ErrInvalidSpeed indicates a non-positive pursuer speed or a negative agent speed.
	ErrInvalidSpeed = errors.New("intercept: invalid speed")
	// ErrEmptyAssignment indicates a makespan was requested for an empty assignment.
	ErrEmptyAssignment = errors.New("intercept: empty assignment")
)
