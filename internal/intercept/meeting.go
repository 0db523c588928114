// Package intercept solves, in closed form, where a constant-speed pursuer
// meets an agent advancing along +y at constant speed.
//
// With the pursuer at (a, b) moving at fv, the agent at (c, d) moving at v and
// f = fv/v, the meeting height h satisfies
//
//	sqrt((a-c)^2 + (h-b)^2) = f * (h - d)
//
// which is quadratic in h for f != 1 and linear for f == 1.
package intercept

import (
	"fmt"
	"math"

	"blockage-sim/internal/common"
)

const (
	// coLocatedTol decides when pursuer and agent share a start point.
	coLocatedTol = 1e-9
	// ratioTol is the distance of f^2 from 1 below which the linear branch is used.
	ratioTol = 1e-9
	// heightTol absorbs rounding when h lands a hair below the agent's height.
	heightTol = 1e-9
)

// MeetingHeight returns the height at which a pursuer starting at pursuer with
// speed pursuerSpeed meets an agent starting at agent moving along +y with
// speed agentSpeed. The result is never below agent.Y; configurations that
// would need one return ErrUnreachableTarget.
func MeetingHeight(pursuer common.Point, pursuerSpeed float64, agent common.Point, agentSpeed float64) (float64, error) {
	if pursuerSpeed <= 0 || agentSpeed < 0 {
		return 0, fmt.Errorf("%w: pursuer %.3f, agent %.3f", ErrInvalidSpeed, pursuerSpeed, agentSpeed)
	}
	if pursuer.IsClose(agent, coLocatedTol) || agentSpeed == 0 {
		return agent.Y, nil
	}

	f := pursuerSpeed / agentSpeed
	f2 := f * f
	dx := pursuer.X - agent.X
	b, d := pursuer.Y, agent.Y

	var h float64
	if math.Abs(f2-1) <= ratioTol {
		// Equal speeds: the squares of h cancel and only the linear term remains.
		if math.Abs(b-d) <= coLocatedTol {
			return 0, unreachable(pursuer, pursuerSpeed, agent, agentSpeed)
		}
		h = (dx*dx + b*b - d*d) / (2 * (b - d))
	} else {
		disc := dx*dx*(f2-1) + f2*(b-d)*(b-d)
		if disc < 0 {
			return 0, unreachable(pursuer, pursuerSpeed, agent, agentSpeed)
		}
		h = (math.Sqrt(disc) - b + d*f2) / (f2 - 1)
	}

	if math.IsNaN(h) || h < d-heightTol {
		return 0, unreachable(pursuer, pursuerSpeed, agent, agentSpeed)
	}
	return math.Max(h, d), nil
}

// MeetingPoint returns where and when unit intercepts agent.
func MeetingPoint(unit common.PursuingUnit, agent common.MovingAgent) (common.Point, float64, error) {
	h, err := MeetingHeight(unit.Loc, unit.Speed, agent.Loc, agent.Speed)
	if err != nil {
		return common.Point{}, 0, err
	}
	meet := common.Point{X: agent.Loc.X, Y: h}
	return meet, unit.Loc.Distance(meet) / unit.Speed, nil
}

func unreachable(pursuer common.Point, pursuerSpeed float64, agent common.Point, agentSpeed float64) error {
	return fmt.Errorf("%w: pursuer %s at %.3f, agent %s at %.3f", ErrUnreachableTarget, pursuer, pursuerSpeed, agent, agentSpeed)
}
