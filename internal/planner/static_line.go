// Package planner turns a snapshot of robots and agents into an open-loop
// movement plan: every assigned robot gets one waypoint on a horizontal
// blocking line whose height minimizes the expected damage.
package planner

import (
	"fmt"
	"math"

	"blockage-sim/internal/assignment"
	"blockage-sim/internal/common"
	"blockage-sim/internal/damage"
	"blockage-sim/internal/intercept"
	"blockage-sim/internal/log"
	"blockage-sim/internal/stochastic"

	"gonum.org/v1/gonum/floats"
)

// Plan is the output of one planning call.
type Plan struct {
	// Movement maps every unit ID to the waypoints it visits in order.
	// Unassigned units map to an empty list.
	Movement   map[string][]common.Point
	Assignment []assignment.Pair
	Slots      []common.Point
	Farthest   intercept.Farthest

	Height   float64 // chosen blocking-line height
	Makespan float64 // farthest unit's time to its slot on the bottom edge
	// ActiveTime is when the farthest unit reaches its waypoint on the line.
	ActiveTime       float64
	ExpectedDamage   float64
	ExpectedDisabled float64

	// Bounds holds, per stochastic agent ID, where its covering unit meets the
	// edges of its uncertainty band.
	Bounds map[string]stochastic.Bounds
}

type Option func(*StaticLinePlanner)

// WithLogger routes planner diagnostics to l.
func WithLogger(l log.Log) Option {
	return func(p *StaticLinePlanner) {
		p.logger = l
	}
}

// StaticLinePlanner places the fleet on a single static blocking line.
// It holds no state between calls and is safe for concurrent use.
type StaticLinePlanner struct {
	cfg    Config
	logger log.Log
}

func NewStaticLinePlanner(cfg Config, opts ...Option) (*StaticLinePlanner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	p := &StaticLinePlanner{cfg: cfg, logger: log.NewNop()}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

func (p *StaticLinePlanner) String() string {
	return "StaticLinePlanner"
}

// Plan computes a movement plan for units against agents. The snapshots are
// not modified. Any failure aborts the call; no partial plan is returned.
func (p *StaticLinePlanner) Plan(units []common.PursuingUnit, agents []common.MovingAgent) (*Plan, error) {
	units, agents, err := p.normalize(units, agents)
	if err != nil {
		return nil, err
	}

	slots := Slots(units, agents, p.cfg.DisablementRange)
	if len(units) < len(slots) {
		p.logger.Warn("fewer units than blocking slots, line will have gaps",
			log.Int("units", len(units)), log.Int("slots", len(slots)))
	}

	locs := make([]common.Point, len(units))
	for i, u := range units {
		locs[i] = u.Loc
	}
	costs, err := assignment.BuildCostMatrix(locs, slots)
	if err != nil {
		return nil, fmt.Errorf("build cost matrix: %w", err)
	}
	if err := assignment.MapIntoPowersOfTwo(costs); err != nil {
		return nil, fmt.Errorf("break cost ties: %w", err)
	}
	pairs, err := assignment.Solve(costs)
	if err != nil {
		return nil, fmt.Errorf("assign units: %w", err)
	}

	far, err := intercept.Makespan(units, slots, pairs)
	if err != nil {
		return nil, fmt.Errorf("makespan: %w", err)
	}
	p.logger.Debug("assignment solved",
		log.Int("pairs", len(pairs)),
		log.String("farthest", units[far.Unit].ID),
		log.Float64("makespan", far.Time))

	heights := make([]float64, len(agents))
	err = forEach(len(agents), func(i int) error {
		h, err := intercept.CandidateHeight(far, agents[i])
		if err != nil {
			return fmt.Errorf("agent %s: %w", agents[i].ID, err)
		}
		heights[i] = h
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("candidate heights: %w", err)
	}

	best, err := damage.OptimalHeight(heights, agents, far, p.cfg.Border)
	if err != nil {
		return nil, fmt.Errorf("choose height: %w", err)
	}

	plan := &Plan{
		Movement:       make(map[string][]common.Point, len(units)),
		Assignment:     pairs,
		Slots:          slots,
		Farthest:       far,
		Height:         best.Height,
		Makespan:       far.Time,
		ActiveTime:     far.TimeTo(best.Height),
		ExpectedDamage: best.Damage,
		Bounds:         make(map[string]stochastic.Bounds),
	}
	for _, u := range units {
		plan.Movement[u.ID] = []common.Point{}
	}
	for _, pair := range pairs {
		id := units[pair.Unit].ID
		plan.Movement[id] = append(plan.Movement[id], common.Point{X: slots[pair.Slot].X, Y: best.Height})
	}

	plan.ExpectedDisabled = p.expectedDisabled(plan, agents, far)

	if err := p.stochasticBounds(plan, units, agents); err != nil {
		return nil, err
	}

	p.logger.Info("plan ready",
		log.Float64("height", plan.Height),
		log.Float64("damage", plan.ExpectedDamage),
		log.Float64("disabled", plan.ExpectedDisabled),
		log.Float64("active_time", plan.ActiveTime))
	return plan, nil
}

// Slots lays out the blocking slots along the bottom edge of the blocking
// region: enough slots 2*r apart to span the agents' lateral extent, at the
// height of the highest unit.
func Slots(units []common.PursuingUnit, agents []common.MovingAgent, r float64) []common.Point {
	if len(units) == 0 || len(agents) == 0 {
		return nil
	}
	xs := make([]float64, len(agents))
	for i, a := range agents {
		xs[i] = a.Loc.X
	}
	ys := make([]float64, len(units))
	for i, u := range units {
		ys[i] = u.Loc.Y
	}
	xMin, xMax := floats.Min(xs), floats.Max(xs)
	y := floats.Max(ys)

	n := int(math.Ceil((xMax - xMin) / (2 * r)))
	if n < 1 {
		n = 1
	}
	slots := make([]common.Point, n)
	for i := range slots {
		slots[i] = common.Point{X: xMin + r + 2*r*float64(i), Y: y}
	}
	return slots
}

// normalize copies the snapshots, filling in default speeds, ranges and IDs.
func (p *StaticLinePlanner) normalize(units []common.PursuingUnit, agents []common.MovingAgent) ([]common.PursuingUnit, []common.MovingAgent, error) {
	if len(units) == 0 {
		return nil, nil, ErrNoUnits
	}
	if len(agents) == 0 {
		return nil, nil, ErrNoAgents
	}

	us := make([]common.PursuingUnit, len(units))
	seen := make(map[string]struct{}, len(units))
	for i, u := range units {
		if u.ID == "" {
			u.ID = fmt.Sprintf("unit-%d", i)
		}
		if _, dup := seen[u.ID]; dup {
			return nil, nil, fmt.Errorf("%w: %s", ErrDuplicateUnit, u.ID)
		}
		seen[u.ID] = struct{}{}
		if u.Speed == 0 {
			u.Speed = p.cfg.DefaultRobotSpeed
		}
		if u.DisablementRange == 0 {
			u.DisablementRange = p.cfg.DisablementRange
		}
		us[i] = u
	}

	as := make([]common.MovingAgent, len(agents))
	seen = make(map[string]struct{}, len(agents))
	for i, a := range agents {
		if a.ID == "" {
			a.ID = fmt.Sprintf("agent-%d", i)
		}
		if _, dup := seen[a.ID]; dup {
			return nil, nil, fmt.Errorf("%w: %s", ErrDuplicateAgent, a.ID)
		}
		seen[a.ID] = struct{}{}
		if a.Speed == 0 {
			a.Speed = p.cfg.DefaultAgentSpeed
		}
		as[i] = a
	}
	return us, as, nil
}

// expectedDisabled counts agents the line is expected to stop: agents that do
// not escape and whose lateral position at the line falls inside the span the
// assigned slots cover. Stochastic agents contribute the probability mass of
// that span at the time they reach the line.
func (p *StaticLinePlanner) expectedDisabled(plan *Plan, agents []common.MovingAgent, far intercept.Farthest) float64 {
	if len(plan.Assignment) == 0 {
		return 0
	}
	left, right := math.Inf(1), math.Inf(-1)
	for _, pair := range plan.Assignment {
		left = math.Min(left, plan.Slots[pair.Slot].X)
		right = math.Max(right, plan.Slots[pair.Slot].X)
	}
	left -= p.cfg.DisablementRange
	right += p.cfg.DisablementRange

	escaping := make(map[int]struct{})
	for _, i := range damage.EscapingAgents(plan.Height, agents, far) {
		escaping[i] = struct{}{}
	}

	var expected float64
	for i, a := range agents {
		if _, ok := escaping[i]; ok {
			continue
		}
		var sigma float64
		if a.Stochastic() && a.Speed > 0 {
			sigma = stochastic.SigmaAt(a.Sigma, (plan.Height-a.Loc.Y)/a.Speed)
		}
		expected += stochastic.CaptureProbability(a.Loc.X, sigma, left, right)
	}
	return expected
}

// stochasticBounds fills plan.Bounds for every stochastic agent, pairing it
// with the assigned unit whose slot is laterally closest.
func (p *StaticLinePlanner) stochasticBounds(plan *Plan, units []common.PursuingUnit, agents []common.MovingAgent) error {
	if len(plan.Assignment) == 0 {
		return nil
	}
	results := make([]*stochastic.Bounds, len(agents))
	err := forEach(len(agents), func(i int) error {
		a := agents[i]
		if !a.Stochastic() {
			return nil
		}
		horizon := p.cfg.Horizon
		if horizon == 0 {
			if a.Speed <= 0 {
				return nil
			}
			horizon = (p.cfg.Border - a.Loc.Y) / a.Speed
		}
		if horizon <= 0 {
			return nil
		}

		cover := plan.Assignment[0]
		for _, pair := range plan.Assignment[1:] {
			if math.Abs(plan.Slots[pair.Slot].X-a.Loc.X) < math.Abs(plan.Slots[cover.Slot].X-a.Loc.X) {
				cover = pair
			}
		}
		b, err := stochastic.MeetingPointsWithSigmas(units[cover.Unit], a, horizon, p.cfg.Resolution)
		if err != nil {
			return fmt.Errorf("agent %s: %w", a.ID, err)
		}
		results[i] = &b
		return nil
	})
	if err != nil {
		return fmt.Errorf("stochastic bounds: %w", err)
	}
	for i, b := range results {
		if b != nil {
			plan.Bounds[agents[i].ID] = *b
		}
	}
	return nil
}
