package simulation

import (
	"fmt"

	"blockage-sim/internal/common"

	"github.com/google/uuid"
)

// Robot is a blocking unit. It follows its movement list one waypoint at a
// time and disables agents that come within its disablement range.
type Robot struct {
	id               string
	position         common.Point
	speed            float64
	disablementRange float64
	movement         []common.Point
}

// NewRobot creates a robot at pos.
func NewRobot(pos common.Point, speed, disablementRange float64) *Robot {
	return &Robot{
		id:               fmt.Sprintf("robot-%s", uuid.NewString()[:8]),
		position:         pos,
		speed:            speed,
		disablementRange: disablementRange,
	}
}

// GetID returns the unique identifier of the robot.
func (r *Robot) GetID() string {
	return r.id
}

// GetPosition returns the current position of the robot.
func (r *Robot) GetPosition() common.Point {
	return r.position
}

func (r *Robot) Speed() float64 {
	return r.speed
}

func (r *Robot) DisablementRange() float64 {
	return r.disablementRange
}

// SetMovement replaces the waypoint list. The robot keeps its own copy.
func (r *Robot) SetMovement(movement []common.Point) {
	r.movement = append([]common.Point(nil), movement...)
}

// Movement returns the waypoints still ahead of the robot.
func (r *Robot) Movement() []common.Point {
	return append([]common.Point(nil), r.movement...)
}

// Update moves the robot speed*deltaTime towards its next waypoint, snapping
// onto it and dropping it once it is within that step.
func (r *Robot) Update(deltaTime float64) {
	if len(r.movement) == 0 {
		return
	}
	step := r.speed * deltaTime
	target := r.movement[0]
	if r.position.Distance(target) > step {
		r.position = r.position.Shifted(step, r.position.Bearing(target))
		return
	}
	r.position = target
	r.movement = r.movement[1:]
}

// Disables reports whether an agent at pos is within the robot's range.
func (r *Robot) Disables(pos common.Point) bool {
	return r.position.Distance(pos) <= r.disablementRange
}

// Snapshot returns the planner's read-only view of the robot.
func (r *Robot) Snapshot() common.PursuingUnit {
	return common.PursuingUnit{
		ID:               r.id,
		Loc:              r.position,
		Speed:            r.speed,
		DisablementRange: r.disablementRange,
	}
}

// String representation for logging
func (r *Robot) String() string {
	return fmt.Sprintf("Robot[%s] Pos: %s Speed: %.2f Range: %.2f Waypoints: %d", r.id, r.position, r.speed, r.disablementRange, len(r.movement))
}
