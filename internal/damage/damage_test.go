package damage

import (
	"errors"
	"testing"

	"blockage-sim/internal/common"
	"blockage-sim/internal/intercept"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func agentsAt(speed float64, ys ...float64) []common.MovingAgent {
	agents := make([]common.MovingAgent, len(ys))
	for i, y := range ys {
		agents[i] = common.MovingAgent{Loc: common.Point{X: float64(i), Y: y}, Speed: speed}
	}
	return agents
}

func TestDelayPenalty(t *testing.T) {
	agents := agentsAt(1, 0, 5, 10)
	assert.Equal(t, 5.0, DelayPenalty(5, agents))
	assert.Equal(t, 0.0, DelayPenalty(-1, agents))
	assert.Equal(t, 30.0, DelayPenalty(15, agents))
}

func TestEscapingAgents(t *testing.T) {
	// Unit needs 5 time units to reach (0, 10).
	far := intercept.Farthest{Start: common.Point{X: 0, Y: 0}, SlotX: 0, Speed: 2}
	agents := []common.MovingAgent{
		{Loc: common.Point{Y: 2}, Speed: 1},  // 8 to go: blocked
		{Loc: common.Point{Y: 5}, Speed: 1},  // exactly on time: blocked
		{Loc: common.Point{Y: 6}, Speed: 1},  // 4 to go: escapes
		{Loc: common.Point{Y: 12}, Speed: 1}, // already past
		{Loc: common.Point{Y: 9}, Speed: 0},  // stationary
	}
	assert.Equal(t, []int{2, 3}, EscapingAgents(10, agents, far))
}

func TestScore(t *testing.T) {
	far := intercept.Farthest{Start: common.Point{X: 0, Y: 0}, SlotX: 0, Speed: 2}
	agents := []common.MovingAgent{
		{Loc: common.Point{Y: 2}, Speed: 1},
		{Loc: common.Point{Y: 6}, Speed: 1},
		{Loc: common.Point{Y: 12}, Speed: 1},
	}
	// Delay: 8 + 4 + 0. Escapes: agent 1 adds min(10, 14), agent 2 adds min(10, 8).
	assert.InDelta(t, 30.0, Score(10, agents, far, 20), 1e-12)
}

// TestOptimalHeight runs the three-unit scenario: the farthest unit starts at
// (10,0) at speed 2 and holds the slot column x=7.
func TestOptimalHeight(t *testing.T) {
	far := intercept.Farthest{Unit: 1, Start: common.Point{X: 10, Y: 0}, SlotX: 7, Speed: 2}
	agents := []common.MovingAgent{
		{Loc: common.Point{X: 2, Y: 5}, Speed: 1},
		{Loc: common.Point{X: 12, Y: 6}, Speed: 1},
		{Loc: common.Point{X: 22, Y: 4}, Speed: 1},
	}
	candidates := make([]float64, len(agents))
	for i, a := range agents {
		h, err := intercept.CandidateHeight(far, a)
		require.NoError(t, err)
		candidates[i] = h
	}

	assert.InDelta(t, 25.84628511305643, Score(candidates[0], agents, far, 20), 1e-9)
	assert.InDelta(t, 22.07669683062202, Score(candidates[1], agents, far, 20), 1e-9)
	assert.InDelta(t, 33.51313067138982, Score(candidates[2], agents, far, 20), 1e-9)

	best, err := OptimalHeight(candidates, agents, far, 20)
	require.NoError(t, err)
	assert.Equal(t, 1, best.Index)
	assert.InDelta(t, 12.358898943540673, best.Height, 1e-9)
	assert.InDelta(t, 22.07669683062202, best.Damage, 1e-9)
	assert.Empty(t, EscapingAgents(best.Height, agents, far))
}

func TestOptimalHeight_TiesKeepInputOrder(t *testing.T) {
	far := intercept.Farthest{Start: common.Point{X: 0, Y: 0}, SlotX: 0, Speed: 1}
	// No agents: every height scores zero.
	best, err := OptimalHeight([]float64{7, 3, 9}, nil, far, 20)
	require.NoError(t, err)
	assert.Equal(t, 0, best.Index)
	assert.Equal(t, 7.0, best.Height)

	_, err = OptimalHeight(nil, nil, far, 20)
	assert.True(t, errors.Is(err, ErrNoCandidates))
}
