package planner

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"blockage-sim/internal/assignment"
	"blockage-sim/internal/common"
	"blockage-sim/internal/intercept"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() Config {
	return Config{
		Border:            20,
		DisablementRange:  5,
		Resolution:        0.5,
		DefaultRobotSpeed: 2,
		DefaultAgentSpeed: 1,
	}
}

func threeUnits() []common.PursuingUnit {
	return []common.PursuingUnit{
		{ID: "r0", Loc: common.Point{X: 0, Y: 0}, Speed: 2},
		{ID: "r1", Loc: common.Point{X: 10, Y: 0}, Speed: 2},
		{ID: "r2", Loc: common.Point{X: 20, Y: 0}, Speed: 2},
	}
}

func threeAgents() []common.MovingAgent {
	return []common.MovingAgent{
		{ID: "a0", Loc: common.Point{X: 2, Y: 5}, Speed: 1},
		{ID: "a1", Loc: common.Point{X: 12, Y: 6}, Speed: 1},
		{ID: "a2", Loc: common.Point{X: 22, Y: 4}, Speed: 1},
	}
}

func TestSlots(t *testing.T) {
	slots := Slots(threeUnits(), threeAgents(), 5)
	assert.Equal(t, []common.Point{{X: 7, Y: 0}, {X: 17, Y: 0}}, slots)

	// Agents stacked on one column still get a slot.
	stacked := []common.MovingAgent{{Loc: common.Point{X: 4, Y: 1}}, {Loc: common.Point{X: 4, Y: 9}}}
	units := []common.PursuingUnit{{Loc: common.Point{Y: -3}}, {Loc: common.Point{Y: 2}}}
	assert.Equal(t, []common.Point{{X: 9, Y: 2}}, Slots(units, stacked, 5))

	assert.Nil(t, Slots(nil, stacked, 5))
}

func TestPlan_ThreeUnitScenario(t *testing.T) {
	p, err := NewStaticLinePlanner(testConfig())
	require.NoError(t, err)

	plan, err := p.Plan(threeUnits(), threeAgents())
	require.NoError(t, err)

	// Units 1 and 2 each sit 3 from a slot; unit 0 stays home.
	assert.Equal(t, []assignment.Pair{{Unit: 1, Slot: 0}, {Unit: 2, Slot: 1}}, plan.Assignment)
	assert.Equal(t, 1, plan.Farthest.Unit)
	assert.InDelta(t, 1.5, plan.Makespan, 1e-12)

	assert.InDelta(t, 12.358898943540673, plan.Height, 1e-9)
	assert.GreaterOrEqual(t, plan.Height, 4.0)
	assert.Less(t, plan.Height, 20.0)
	assert.InDelta(t, 22.07669683062202, plan.ExpectedDamage, 1e-9)
	assert.InDelta(t, plan.Height-6, plan.ActiveTime, 1e-9)
	assert.InDelta(t, 3.0, plan.ExpectedDisabled, 1e-12)

	require.Len(t, plan.Movement, 3)
	assert.Empty(t, plan.Movement["r0"])
	require.Len(t, plan.Movement["r1"], 1)
	require.Len(t, plan.Movement["r2"], 1)
	assert.Equal(t, 7.0, plan.Movement["r1"][0].X)
	assert.Equal(t, 17.0, plan.Movement["r2"][0].X)
	assert.Equal(t, plan.Height, plan.Movement["r1"][0].Y)
	assert.Equal(t, plan.Height, plan.Movement["r2"][0].Y)
	assert.Empty(t, plan.Bounds)
}

// TestPlan_AgentOrderIndependent shuffles the agents and expects the same line.
func TestPlan_AgentOrderIndependent(t *testing.T) {
	p, err := NewStaticLinePlanner(testConfig())
	require.NoError(t, err)

	base, err := p.Plan(threeUnits(), threeAgents())
	require.NoError(t, err)

	agents := threeAgents()
	shuffled := []common.MovingAgent{agents[2], agents[0], agents[1]}
	plan, err := p.Plan(threeUnits(), shuffled)
	require.NoError(t, err)

	assert.InDelta(t, base.Height, plan.Height, 1e-12)
	assert.InDelta(t, base.ExpectedDamage, plan.ExpectedDamage, 1e-9)
	assert.Equal(t, base.Movement, plan.Movement)
}

func TestPlan_StochasticAgent(t *testing.T) {
	p, err := NewStaticLinePlanner(testConfig())
	require.NoError(t, err)

	agents := threeAgents()
	agents[1].Sigma = 0.5
	plan, err := p.Plan(threeUnits(), agents)
	require.NoError(t, err)

	require.Len(t, plan.Bounds, 1)
	b, ok := plan.Bounds["a1"]
	require.True(t, ok)
	require.NotNil(t, b.Left)
	require.NotNil(t, b.Right)
	assert.Less(t, b.Left.Point.X, 12.0)
	assert.Greater(t, b.Right.Point.X, 12.0)
	assert.Less(t, b.Left.Time, b.Right.Time)

	// The spread at the line is far narrower than the covered span.
	assert.InDelta(t, 3.0, plan.ExpectedDisabled, 1e-6)
}

func TestPlan_DefaultsDoNotMutateInput(t *testing.T) {
	p, err := NewStaticLinePlanner(testConfig())
	require.NoError(t, err)

	units := threeUnits()
	for i := range units {
		units[i].Speed = 0
		units[i].ID = ""
	}
	agents := threeAgents()
	agents[0].Speed = 0

	plan, err := p.Plan(units, agents)
	require.NoError(t, err)
	assert.InDelta(t, 12.358898943540673, plan.Height, 1e-9)
	assert.Contains(t, plan.Movement, "unit-1")

	assert.Equal(t, 0.0, units[0].Speed)
	assert.Equal(t, "", units[0].ID)
	assert.Equal(t, 0.0, agents[0].Speed)
}

func TestPlan_Errors(t *testing.T) {
	p, err := NewStaticLinePlanner(testConfig())
	require.NoError(t, err)

	_, err = p.Plan(nil, threeAgents())
	assert.True(t, errors.Is(err, ErrNoUnits))

	_, err = p.Plan(threeUnits(), nil)
	assert.True(t, errors.Is(err, ErrNoAgents))

	dup := threeUnits()
	dup[2].ID = "r0"
	_, err = p.Plan(dup, threeAgents())
	assert.True(t, errors.Is(err, ErrDuplicateUnit))

	nan := threeUnits()
	nan[0].Loc.X = math.NaN()
	_, err = p.Plan(nan, threeAgents())
	assert.True(t, errors.Is(err, assignment.ErrInvalidCostMatrix))

	// Units slower than the agents and starting below them can never catch up.
	slow := threeUnits()
	for i := range slow {
		slow[i].Speed = 0.5
	}
	plan, err := p.Plan(slow, threeAgents())
	assert.Nil(t, plan)
	assert.True(t, errors.Is(err, intercept.ErrUnreachableTarget), "got %v", err)
}

// TestPlan_AssignmentOptimalOnMappedCosts rebuilds the planner's cost matrix
// for crowded random scenarios and checks that no exchange of two assigned
// slots lowers the mapped sum.
func TestPlan_AssignmentOptimalOnMappedCosts(t *testing.T) {
	const r = 25.0
	for seed := int64(0); seed < 40; seed++ {
		rng := rand.New(rand.NewSource(seed))
		units := make([]common.PursuingUnit, 20)
		for i := range units {
			units[i] = common.PursuingUnit{Loc: common.Point{X: rng.Float64() * 1200, Y: rng.Float64() * 100}, Speed: 2}
		}
		agents := make([]common.MovingAgent, 200)
		for i := range agents {
			agents[i] = common.MovingAgent{Loc: common.Point{X: 100 + rng.Float64()*1000, Y: 100 + rng.Float64()*200}, Speed: 1}
		}

		slots := Slots(units, agents, r)
		locs := make([]common.Point, len(units))
		for i, u := range units {
			locs[i] = u.Loc
		}
		costs, err := assignment.BuildCostMatrix(locs, slots)
		require.NoError(t, err)
		require.NoError(t, assignment.MapIntoPowersOfTwo(costs))
		pairs, err := assignment.Solve(costs)
		require.NoError(t, err)
		require.Len(t, pairs, min(len(units), len(slots)))

		for a, p := range pairs {
			for _, q := range pairs[a+1:] {
				kept := math.Max(costs.At(p.Unit, p.Slot), costs.At(q.Unit, q.Slot))
				swapped := math.Max(costs.At(p.Unit, q.Slot), costs.At(q.Unit, p.Slot))
				require.Greater(t, swapped, kept, "seed %d: units %d and %d should swap slots", seed, p.Unit, q.Unit)
			}
		}
	}
}

func TestPlan_DuplicateAgentIDs(t *testing.T) {
	p, err := NewStaticLinePlanner(testConfig())
	require.NoError(t, err)

	agents := threeAgents()
	agents[0].Sigma = 0.5
	agents[2].Sigma = 0.5
	agents[2].ID = "a0"
	_, err = p.Plan(threeUnits(), agents)
	assert.True(t, errors.Is(err, ErrDuplicateAgent), "got %v", err)

	// A generated ID may not shadow an explicit one either.
	agents = threeAgents()
	agents[0].ID = ""
	agents[1].ID = "agent-0"
	_, err = p.Plan(threeUnits(), agents)
	assert.True(t, errors.Is(err, ErrDuplicateAgent), "got %v", err)
}

func TestNewStaticLinePlanner_InvalidConfig(t *testing.T) {
	cases := map[string]func(*Config){
		"ZeroRange":     func(c *Config) { c.DisablementRange = 0 },
		"ZeroRes":       func(c *Config) { c.Resolution = 0 },
		"NegHorizon":    func(c *Config) { c.Horizon = -1 },
		"NegRobotSpeed": func(c *Config) { c.DefaultRobotSpeed = -1 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := testConfig()
			mutate(&cfg)
			_, err := NewStaticLinePlanner(cfg)
			assert.True(t, errors.Is(err, ErrInvalidConfig))
		})
	}
}

func TestForEach(t *testing.T) {
	out := make([]int, 100)
	require.NoError(t, forEach(len(out), func(i int) error {
		out[i] = i * i
		return nil
	}))
	for i, v := range out {
		assert.Equal(t, i*i, v)
	}

	boom := errors.New("boom")
	err := forEach(10, func(i int) error {
		if i == 7 {
			return boom
		}
		return nil
	})
	assert.True(t, errors.Is(err, boom))
}
