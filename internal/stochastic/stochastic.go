// Package stochastic intersects a pursuer's reach with the spreading
// uncertainty band of an agent whose lateral position diffuses over time.
//
// The agent's centre advances along +y at its speed; its band half-width after
// elapsed time t is sigma*sqrt(t). The pursuer can cover speed*t by time t. The
// solver samples both as curves over [0, horizon) every res time units, finds
// the first sample where the pursuer's reach catches up with the distance to a
// band edge and then bisects within that interval. A smaller res catches
// crossings that a coarse grid would step over, at proportionally higher cost.
package stochastic

import (
	"errors"
	"fmt"
	"math"

	"blockage-sim/internal/common"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat/distuv"
)

var (
	// ErrInvalidSampling indicates a non-positive horizon or resolution.
	ErrInvalidSampling = errors.New("stochastic: horizon and resolution must be positive")
	// ErrInvalidSpeed indicates a non-positive pursuer speed or negative agent speed.
	ErrInvalidSpeed = errors.New("stochastic: invalid speed")
)

const (
	bisectIters = 100
	bisectTol   = 1e-12
)

// Intersection is where and when the pursuer meets one edge of the band.
type Intersection struct {
	Point common.Point
	Time  float64
}

// Bounds holds the meetings with the left and right band edges. A nil edge
// means the pursuer does not reach it within the horizon.
type Bounds struct {
	Left  *Intersection
	Right *Intersection
}

// SigmaAt returns the band half-width after elapsed time t.
func SigmaAt(sigma, t float64) float64 {
	return sigma * math.Sqrt(t)
}

// MeetingPointsWithSigmas returns the first meetings of unit with the left and
// right edges of agent's uncertainty band. With agent.Sigma == 0 both edges
// coincide with the deterministic meeting point.
func MeetingPointsWithSigmas(unit common.PursuingUnit, agent common.MovingAgent, horizon, res float64) (Bounds, error) {
	if horizon <= 0 || res <= 0 || math.IsNaN(horizon) || math.IsNaN(res) {
		return Bounds{}, fmt.Errorf("%w: horizon %.3f, res %.3f", ErrInvalidSampling, horizon, res)
	}
	if unit.Speed <= 0 || agent.Speed < 0 {
		return Bounds{}, fmt.Errorf("%w: unit %.3f, agent %.3f", ErrInvalidSpeed, unit.Speed, agent.Speed)
	}

	n := int(math.Ceil(horizon / res))
	ts := make([]float64, n)
	if n > 1 {
		floats.Span(ts, 0, float64(n-1)*res)
	}
	walk := make([]float64, n)
	floats.ScaleTo(walk, unit.Speed, ts)

	var b Bounds
	b.Left = firstCrossing(unit, agent, -1, ts, walk)
	b.Right = firstCrossing(unit, agent, 1, ts, walk)
	return b, nil
}

// edge returns the left (side=-1) or right (side=+1) band edge at time t.
func edge(agent common.MovingAgent, side, t float64) common.Point {
	return common.Point{
		X: agent.Loc.X + side*SigmaAt(agent.Sigma, t),
		Y: agent.Loc.Y + agent.Speed*t,
	}
}

func firstCrossing(unit common.PursuingUnit, agent common.MovingAgent, side float64, ts, walk []float64) *Intersection {
	dist := make([]float64, len(ts))
	for i, t := range ts {
		dist[i] = unit.Loc.Distance(edge(agent, side, t))
	}
	gap := make([]float64, len(ts))
	floats.SubTo(gap, walk, dist)

	gapAt := func(t float64) float64 {
		return unit.Speed*t - unit.Loc.Distance(edge(agent, side, t))
	}

	for i, g := range gap {
		if g < 0 {
			continue
		}
		if i == 0 {
			return &Intersection{Point: edge(agent, side, 0), Time: 0}
		}
		lo, hi := ts[i-1], ts[i]
		for k := 0; k < bisectIters && hi-lo > bisectTol*math.Max(1, hi); k++ {
			mid := (lo + hi) / 2
			if gapAt(mid) < 0 {
				lo = mid
			} else {
				hi = mid
			}
		}
		return &Intersection{Point: edge(agent, side, hi), Time: hi}
	}
	return nil
}

// CaptureProbability returns the probability mass of N(mu, sigma^2) inside
// [left, right]. A zero sigma degenerates to an indicator on mu.
func CaptureProbability(mu, sigma, left, right float64) float64 {
	if right < left {
		return 0
	}
	if sigma <= 0 {
		if left <= mu && mu <= right {
			return 1
		}
		return 0
	}
	n := distuv.Normal{Mu: mu, Sigma: sigma}
	return n.CDF(right) - n.CDF(left)
}
