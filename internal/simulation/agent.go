package simulation

import (
	"fmt"
	"math"
	"math/rand"

	"blockage-sim/internal/common"

	"github.com/google/uuid"
)

// AgentState tracks whether an agent is still heading for the border.
type AgentState int

const (
	AgentActive AgentState = iota
	AgentDisabled
	AgentEscaped
)

func (s AgentState) String() string {
	switch s {
	case AgentActive:
		return "active"
	case AgentDisabled:
		return "disabled"
	case AgentEscaped:
		return "escaped"
	default:
		return fmt.Sprintf("AgentState(%d)", int(s))
	}
}

// Agent advances along +y at a fixed speed. A stochastic agent (sigma > 0)
// also drifts laterally, its x performing a Gaussian random walk with
// variance sigma^2 per unit time.
type Agent struct {
	id       string
	position common.Point
	speed    float64
	sigma    float64
	state    AgentState
	rng      *rand.Rand
}

// NewAgent creates a fixed-velocity agent at pos.
func NewAgent(pos common.Point, speed float64) *Agent {
	return &Agent{
		id:       fmt.Sprintf("agent-%s", uuid.NewString()[:8]),
		position: pos,
		speed:    speed,
	}
}

// NewStochasticAgent creates an agent whose lateral drift is drawn from rng.
func NewStochasticAgent(pos common.Point, speed, sigma float64, rng *rand.Rand) *Agent {
	a := NewAgent(pos, speed)
	a.sigma = sigma
	a.rng = rng
	return a
}

// GetID returns the unique identifier of the agent.
func (a *Agent) GetID() string {
	return a.id
}

// GetPosition returns the current position of the agent.
func (a *Agent) GetPosition() common.Point {
	return a.position
}

func (a *Agent) State() AgentState {
	return a.state
}

func (a *Agent) Speed() float64 {
	return a.speed
}

// Update moves an active agent by deltaTime. Disabled and escaped agents stay put.
func (a *Agent) Update(deltaTime float64) {
	if a.state != AgentActive {
		return
	}
	a.position.Y += a.speed * deltaTime
	if a.sigma > 0 && a.rng != nil {
		a.position.X += a.rng.NormFloat64() * a.sigma * math.Sqrt(deltaTime)
	}
}

// Snapshot returns the planner's read-only view of the agent.
func (a *Agent) Snapshot() common.MovingAgent {
	return common.MovingAgent{
		ID:    a.id,
		Loc:   a.position,
		Speed: a.speed,
		Sigma: a.sigma,
	}
}

// String representation for logging
func (a *Agent) String() string {
	return fmt.Sprintf("Agent[%s] Pos: %s Speed: %.2f Sigma: %.2f State: %s", a.id, a.position, a.speed, a.sigma, a.state)
}
