// Package report appends experiment results to CSV files, one row per
// planning run.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"blockage-sim/internal/config"
	"blockage-sim/internal/planner"
)

// Header is the column layout of every report file.
var Header = []string{
	"planner", "num_agents", "num_robots", "f", "d", "sigma",
	"active_time", "planner_time", "damage", "num_disabled",
}

// Row is one planning run.
type Row struct {
	Planner     string
	NumAgents   int
	NumRobots   int
	F           float64 // robot speed over agent speed
	D           float64 // disablement range
	Sigma       float64
	ActiveTime  float64
	PlannerTime time.Duration
	Damage      float64
	NumDisabled float64
}

// FromPlan builds the row for a plan produced under cfg.
func FromPlan(name string, cfg config.Config, numAgents, numRobots int, plan *planner.Plan, elapsed time.Duration) Row {
	return Row{
		Planner:     name,
		NumAgents:   numAgents,
		NumRobots:   numRobots,
		F:           cfg.RobotSpeed / cfg.AgentSpeed,
		D:           cfg.DisablementRange,
		Sigma:       cfg.Sigma,
		ActiveTime:  plan.ActiveTime,
		PlannerTime: elapsed,
		Damage:      plan.ExpectedDamage,
		NumDisabled: plan.ExpectedDisabled,
	}
}

// Record formats the row in Header order.
func (r Row) Record() []string {
	ff := func(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }
	return []string{
		r.Planner,
		strconv.Itoa(r.NumAgents),
		strconv.Itoa(r.NumRobots),
		ff(r.F),
		ff(r.D),
		ff(r.Sigma),
		ff(r.ActiveTime),
		ff(r.PlannerTime.Seconds()),
		ff(r.Damage),
		ff(r.NumDisabled),
	}
}

// Write writes rows to w, preceded by the header when header is set.
func Write(w io.Writer, header bool, rows ...Row) error {
	cw := csv.NewWriter(w)
	if header {
		if err := cw.Write(Header); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
	}
	for _, r := range rows {
		if err := cw.Write(r.Record()); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// Append adds rows to the report at path, creating it with a header first
// if it does not exist yet or is empty.
func Append(path string, rows ...Row) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open report: %w", err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return fmt.Errorf("stat report: %w", err)
	}
	if err := Write(f, info.Size() == 0, rows...); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
