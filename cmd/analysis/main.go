package main

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"math/rand"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"

	"blockage-sim/internal/config"
	"blockage-sim/internal/log"
	"blockage-sim/internal/planner"
	"blockage-sim/internal/report"
	"blockage-sim/internal/simulation"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"
)

type result struct {
	row       report.Row
	simulated simulation.Stats
}

func main() {
	configPath := flag.String("config", "", "YAML experiment config (default $BLOCKAGE_CONFIG)")
	agentCounts := flag.String("agents", "50,100,200,300,400,500", "comma-separated agent counts to sweep")
	seeds := flag.Int("seeds", 30, "runs per agent count, seeded 0..seeds-1")
	out := flag.String("out", "results.csv", "CSV report to append to")
	simulate := flag.Bool("simulate", false, "also execute every plan and log the realized outcome")
	flag.Parse()

	if err := run(*configPath, *agentCounts, *seeds, *out, *simulate); err != nil {
		fmt.Fprintf(os.Stderr, "analysis: %v\n", err)
		os.Exit(1)
	}
}

func parseCounts(s string) ([]int, error) {
	var counts []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("invalid agent count %q", part)
		}
		counts = append(counts, n)
	}
	if len(counts) == 0 {
		return nil, fmt.Errorf("no agent counts given")
	}
	return counts, nil
}

// loadDotEnv reads .env from the working directory. Only a missing file is
// tolerated.
func loadDotEnv() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}
	return nil
}

func run(configPath, agentCounts string, seeds int, out string, simulate bool) error {
	if err := loadDotEnv(); err != nil {
		return err
	}

	base, err := config.Resolve(configPath)
	if err != nil {
		return err
	}
	level, err := log.ParseLevel(base.LogLevel)
	if err != nil {
		return err
	}
	logger := log.New(level)
	defer logger.Sync()

	counts, err := parseCounts(agentCounts)
	if err != nil {
		return err
	}
	if seeds <= 0 {
		return fmt.Errorf("seeds must be positive, got %d", seeds)
	}

	p, err := planner.NewStaticLinePlanner(base.Planner())
	if err != nil {
		return err
	}

	for _, n := range counts {
		cfg := base
		cfg.NumAgents = n
		results := make([]result, seeds)

		var g errgroup.Group
		g.SetLimit(runtime.GOMAXPROCS(0))
		for s := 0; s < seeds; s++ {
			g.Go(func() error {
				res, err := runOnce(p, cfg, int64(s), simulate)
				if err != nil {
					return fmt.Errorf("agents %d seed %d: %w", n, s, err)
				}
				results[s] = res
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}

		rows := make([]report.Row, seeds)
		damage := make([]float64, seeds)
		active := make([]float64, seeds)
		for i, res := range results {
			rows[i] = res.row
			damage[i] = res.row.Damage
			active[i] = res.row.ActiveTime
		}
		if err := report.Append(out, rows...); err != nil {
			return err
		}

		fields := []log.Field{
			log.Int("agents", n),
			log.Int("runs", seeds),
			log.Float64("damage_mean", stat.Mean(damage, nil)),
			log.Float64("damage_std", stat.StdDev(damage, nil)),
			log.Float64("active_time_mean", stat.Mean(active, nil)),
			log.Float64("active_time_std", stat.StdDev(active, nil)),
		}
		if simulate {
			realized := make([]float64, seeds)
			escaped := make([]float64, seeds)
			for i, res := range results {
				realized[i] = res.simulated.Damage
				escaped[i] = float64(res.simulated.Escaped)
			}
			fields = append(fields,
				log.Float64("realized_damage_mean", stat.Mean(realized, nil)),
				log.Float64("escaped_mean", stat.Mean(escaped, nil)))
		}
		logger.Info("sweep point done", fields...)
	}
	return nil
}

func runOnce(p *planner.StaticLinePlanner, cfg config.Config, seed int64, simulate bool) (result, error) {
	rng := rand.New(rand.NewSource(seed))
	env, err := simulation.NewRandomEnvironment(cfg, rng, nil)
	if err != nil {
		return result{}, err
	}
	units, agents := env.Snapshot()

	start := time.Now()
	plan, err := p.Plan(units, agents)
	if err != nil {
		return result{}, err
	}
	res := result{row: report.FromPlan(p.String(), cfg, len(agents), len(units), plan, time.Since(start))}

	if simulate {
		if err := env.ApplyPlan(plan.Movement); err != nil {
			return result{}, err
		}
		res.simulated = env.Run(1, cfg.MaxTicks)
	}
	return res, nil
}
