// Package damage scores candidate blocking-line heights.
//
// The damage of a line at height h is the distance agents cover before they
// are stopped: an agent blocked on the line travels h-y, and an agent that
// slips through before the formation is complete runs on to the border.
package damage

import (
	"errors"
	"math"

	"blockage-sim/internal/common"
	"blockage-sim/internal/intercept"
)

// ErrNoCandidates indicates an empty candidate set.
var ErrNoCandidates = errors.New("damage: no candidate heights")

// escapeTol keeps the agent that defines a candidate height on the blocked side.
const escapeTol = 1e-9

// Candidate is a blocking-line height with its aggregate damage score.
type Candidate struct {
	Height float64
	Damage float64
	Index  int // position in the candidate list
}

// DelayPenalty sums max(h - y, 0) over agents: how far each agent below the
// line travels before reaching it. Agents already above h contribute zero.
func DelayPenalty(h float64, agents []common.MovingAgent) float64 {
	var total float64
	for _, a := range agents {
		total += math.Max(h-a.Loc.Y, 0)
	}
	return total
}

// EscapingAgents returns the indices of agents that reach height h before the
// farthest unit completes the line there. Agents already past h escape;
// stationary agents below it never do.
func EscapingAgents(h float64, agents []common.MovingAgent, far intercept.Farthest) []int {
	lineReady := far.TimeTo(h)
	var escaping []int
	for i, a := range agents {
		if a.Loc.Y > h {
			escaping = append(escaping, i)
			continue
		}
		if a.Speed <= 0 {
			continue
		}
		if (h-a.Loc.Y)/a.Speed < lineReady-escapeTol {
			escaping = append(escaping, i)
		}
	}
	return escaping
}

// Score returns the total damage of a line at height h with the border at
// border: the delay penalty plus, for each escaping agent, the distance it
// still covers past the line, min(border-h, border-y).
func Score(h float64, agents []common.MovingAgent, far intercept.Farthest, border float64) float64 {
	total := DelayPenalty(h, agents)
	for _, i := range EscapingAgents(h, agents, far) {
		total += math.Min(border-h, border-agents[i].Loc.Y)
	}
	return total
}

// OptimalHeight scans candidates and returns the one with the lowest score.
// Equal scores keep the earliest candidate, so the result depends only on
// the input order.
func OptimalHeight(candidates []float64, agents []common.MovingAgent, far intercept.Farthest, border float64) (Candidate, error) {
	if len(candidates) == 0 {
		return Candidate{}, ErrNoCandidates
	}
	best := Candidate{Index: -1}
	for i, h := range candidates {
		score := Score(h, agents, far, border)
		if best.Index < 0 || score < best.Damage {
			best = Candidate{Height: h, Damage: score, Index: i}
		}
	}
	return best, nil
}
