package planner

import "errors"

var (
	// ErrNoUnits indicates an empty unit snapshot.
	ErrNoUnits = errors.New("planner: no pursuing units")
	// ErrNoAgents indicates an empty agent snapshot.
	ErrNoAgents = errors.New("planner: no agents")
	// ErrInvalidConfig indicates a planner configuration value out of range.
	ErrInvalidConfig = errors.New("planner: invalid config")
	// ErrDuplicateUnit indicates two units share an ID, so their plans would collide.
	ErrDuplicateUnit = errors.New("planner: duplicate unit id")
	// ErrDuplicateAgent indicates two agents share an ID, so their bounds would collide.
	ErrDuplicateAgent = errors.New("planner: duplicate agent id")
)
