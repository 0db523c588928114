package report

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"blockage-sim/internal/config"
	"blockage-sim/internal/planner"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRow() Row {
	return Row{
		Planner:     "StaticLinePlanner",
		NumAgents:   50,
		NumRobots:   6,
		F:           2,
		D:           10,
		Sigma:       0.5,
		ActiveTime:  123.25,
		PlannerTime: 1500 * time.Millisecond,
		Damage:      42.5,
		NumDisabled: 48,
	}
}

func TestWrite(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, true, sampleRow()))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "planner,num_agents,num_robots,f,d,sigma,active_time,planner_time,damage,num_disabled", lines[0])
	assert.Equal(t, "StaticLinePlanner,50,6,2,10,0.5,123.25,1.5,42.5,48", lines[1])
}

func TestAppend_HeaderOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.csv")

	require.NoError(t, Append(path, sampleRow()))
	require.NoError(t, Append(path, sampleRow(), sampleRow()))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)

	require.Len(t, records, 4)
	assert.Equal(t, Header, records[0])
	for _, rec := range records[1:] {
		assert.Equal(t, sampleRow().Record(), rec)
	}
}

func TestAppend_BadPath(t *testing.T) {
	err := Append(filepath.Join(t.TempDir(), "missing", "results.csv"), sampleRow())
	assert.Error(t, err)
}

func TestFromPlan(t *testing.T) {
	cfg := config.Default()
	plan := &planner.Plan{ActiveTime: 10, ExpectedDamage: 3, ExpectedDisabled: 7}

	row := FromPlan("StaticLinePlanner", cfg, 9, 4, plan, time.Second)
	assert.Equal(t, 9, row.NumAgents)
	assert.Equal(t, 4, row.NumRobots)
	assert.Equal(t, cfg.RobotSpeed/cfg.AgentSpeed, row.F)
	assert.Equal(t, cfg.DisablementRange, row.D)
	assert.Equal(t, 10.0, row.ActiveTime)
	assert.Equal(t, 3.0, row.Damage)
	assert.Equal(t, 7.0, row.NumDisabled)
	assert.Equal(t, "1", row.Record()[7])
}
