package simulation

import "blockage-sim/internal/common"

// SimulationObject defines the interface for any object within the simulation.
type SimulationObject interface {
	// GetPosition returns the current position of the object.
	GetPosition() common.Point
	// Update advances the object by deltaTime.
	Update(deltaTime float64)
	// GetID returns the unique identifier of the object.
	GetID() string
}
