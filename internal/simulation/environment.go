package simulation

import (
	"fmt"
	"math"
	"math/rand"

	"blockage-sim/internal/common"
	"blockage-sim/internal/config"
	"blockage-sim/internal/log"
)

// Stats summarizes an environment at one point in time.
type Stats struct {
	Step     int
	Time     float64
	Active   int
	Disabled int
	Escaped  int
	// Damage is the total y-distance agents have covered while active.
	Damage float64
}

func (s Stats) String() string {
	return fmt.Sprintf("step %d (t=%.2f) active %d disabled %d escaped %d damage %.2f",
		s.Step, s.Time, s.Active, s.Disabled, s.Escaped, s.Damage)
}

// Environment holds the robots and agents of one run and steps them in time.
type Environment struct {
	border  float64
	robots  []*Robot
	agents  []*Agent
	objects map[string]SimulationObject

	step   int
	time   float64
	damage float64

	logger log.Log
}

// NewEnvironment creates an empty environment with the border at y = border.
func NewEnvironment(border float64, logger log.Log) *Environment {
	if logger == nil {
		logger = log.NewNop()
	}
	return &Environment{
		border:  border,
		objects: make(map[string]SimulationObject),
		logger:  logger,
	}
}

// NewRandomEnvironment samples a scenario from cfg. Agents start in the
// initial strip, robots below the y buffer. With cfg.NumRobots == 0 the fleet
// is sized to the number of slots needed to span the agents.
func NewRandomEnvironment(cfg config.Config, rng *rand.Rand, logger log.Log) (*Environment, error) {
	env := NewEnvironment(cfg.Border(), logger)

	xMin, xMax := math.Inf(1), math.Inf(-1)
	for i := 0; i < cfg.NumAgents; i++ {
		pos, err := common.NewRandomPoint(rng, cfg.XBuffer, cfg.XBuffer+cfg.XSize, cfg.YBuffer, cfg.YBuffer+cfg.YSizeInit)
		if err != nil {
			return nil, fmt.Errorf("failed to generate random position for agent: %w", err)
		}
		var agent *Agent
		if cfg.Sigma > 0 {
			agent = NewStochasticAgent(pos, cfg.AgentSpeed, cfg.Sigma, rng)
		} else {
			agent = NewAgent(pos, cfg.AgentSpeed)
		}
		if err := env.AddObject(agent); err != nil {
			return nil, err
		}
		xMin = math.Min(xMin, pos.X)
		xMax = math.Max(xMax, pos.X)
	}

	numRobots := cfg.NumRobots
	if numRobots == 0 {
		numRobots = int(math.Max(1, math.Ceil((xMax-xMin)/(2*cfg.DisablementRange))))
	}
	for i := 0; i < numRobots; i++ {
		pos, err := common.NewRandomPoint(rng, 0, cfg.XSize+2*cfg.XBuffer, 0, cfg.YBuffer)
		if err != nil {
			return nil, fmt.Errorf("failed to generate random position for robot: %w", err)
		}
		if err := env.AddObject(NewRobot(pos, cfg.RobotSpeed, cfg.DisablementRange)); err != nil {
			return nil, err
		}
	}
	return env, nil
}

// AddObject adds a robot or an agent to the environment.
func (e *Environment) AddObject(obj SimulationObject) error {
	id := obj.GetID()
	if _, exists := e.objects[id]; exists {
		return fmt.Errorf("object with ID %s already exists", id)
	}
	switch v := obj.(type) {
	case *Robot:
		e.robots = append(e.robots, v)
	case *Agent:
		e.agents = append(e.agents, v)
	default:
		return fmt.Errorf("unsupported object type %T", obj)
	}
	e.objects[id] = obj
	return nil
}

func (e *Environment) Border() float64 {
	return e.border
}

// Robots returns the robots in insertion order.
func (e *Environment) Robots() []*Robot {
	return append([]*Robot(nil), e.robots...)
}

// Agents returns the agents in insertion order.
func (e *Environment) Agents() []*Agent {
	return append([]*Agent(nil), e.agents...)
}

// Snapshot returns planner views of all robots and of the agents still active.
func (e *Environment) Snapshot() ([]common.PursuingUnit, []common.MovingAgent) {
	units := make([]common.PursuingUnit, len(e.robots))
	for i, r := range e.robots {
		units[i] = r.Snapshot()
	}
	agents := make([]common.MovingAgent, 0, len(e.agents))
	for _, a := range e.agents {
		if a.State() == AgentActive {
			agents = append(agents, a.Snapshot())
		}
	}
	return units, agents
}

// ApplyPlan hands each robot its waypoints. Robots missing from movement keep
// their current list.
func (e *Environment) ApplyPlan(movement map[string][]common.Point) error {
	for id, waypoints := range movement {
		obj, ok := e.objects[id]
		if !ok {
			return fmt.Errorf("plan references unknown robot %s", id)
		}
		robot, ok := obj.(*Robot)
		if !ok {
			return fmt.Errorf("plan references non-robot object %s", id)
		}
		robot.SetMovement(waypoints)
	}
	return nil
}

// Advance steps every object by deltaTime, then resolves escapes and
// disablements. It reports whether the run is finished (no active agent left).
func (e *Environment) Advance(deltaTime float64) bool {
	e.step++
	e.time += deltaTime

	for _, r := range e.robots {
		r.Update(deltaTime)
	}

	for _, a := range e.agents {
		if a.State() != AgentActive {
			continue
		}
		prevY := a.GetPosition().Y
		a.Update(deltaTime)
		y := a.GetPosition().Y
		if y >= e.border {
			e.damage += math.Max(e.border-prevY, 0)
			a.state = AgentEscaped
			e.logger.Debug("agent escaped", log.String("agent", a.GetID()), log.Int("step", e.step))
			continue
		}
		e.damage += y - prevY
	}

	for _, a := range e.agents {
		if a.State() != AgentActive {
			continue
		}
		for _, r := range e.robots {
			if r.Disables(a.GetPosition()) {
				a.state = AgentDisabled
				e.logger.Debug("agent disabled",
					log.String("agent", a.GetID()), log.String("robot", r.GetID()), log.Int("step", e.step))
				break
			}
		}
	}

	return e.Stats().Active == 0
}

// Run advances the environment until no agent is active or maxTicks steps
// have elapsed, and returns the final stats.
func (e *Environment) Run(deltaTime float64, maxTicks int) Stats {
	e.logger.Info("starting simulation",
		log.Int("robots", len(e.robots)), log.Int("agents", len(e.agents)), log.Float64("border", e.border))
	for e.step < maxTicks {
		if e.Advance(deltaTime) {
			break
		}
	}
	stats := e.Stats()
	e.logger.Info("simulation finished",
		log.Int("step", stats.Step),
		log.Int("disabled", stats.Disabled),
		log.Int("escaped", stats.Escaped),
		log.Float64("damage", stats.Damage))
	return stats
}

// Stats returns the current counters.
func (e *Environment) Stats() Stats {
	s := Stats{Step: e.step, Time: e.time, Damage: e.damage}
	for _, a := range e.agents {
		switch a.State() {
		case AgentActive:
			s.Active++
		case AgentDisabled:
			s.Disabled++
		case AgentEscaped:
			s.Escaped++
		}
	}
	return s
}
