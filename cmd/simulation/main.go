package main

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"math/rand"
	"os"
	"time"

	"blockage-sim/internal/config"
	"blockage-sim/internal/log"
	"blockage-sim/internal/planner"
	"blockage-sim/internal/report"
	"blockage-sim/internal/simulation"
	"blockage-sim/internal/visualization"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/joho/godotenv"
)

func main() {
	configPath := flag.String("config", "", "YAML experiment config (default $BLOCKAGE_CONFIG)")
	gui := flag.Bool("gui", false, "show the run in a window")
	deltaTime := flag.Float64("dt", 1, "simulation step duration")
	ticksPerFrame := flag.Int("speed", 1, "simulation steps per rendered frame")
	reportPath := flag.String("report", "", "append the plan summary to this CSV file")
	flag.Parse()

	if err := run(*configPath, *gui, *deltaTime, *ticksPerFrame, *reportPath); err != nil {
		fmt.Fprintf(os.Stderr, "simulation: %v\n", err)
		os.Exit(1)
	}
}

// loadDotEnv reads .env from the working directory. Only a missing file is
// tolerated.
func loadDotEnv() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}
	return nil
}

func run(configPath string, gui bool, deltaTime float64, ticksPerFrame int, reportPath string) error {
	if err := loadDotEnv(); err != nil {
		return err
	}

	cfg, err := config.Resolve(configPath)
	if err != nil {
		return err
	}
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	logger := log.New(level)
	defer logger.Sync()

	rng := rand.New(rand.NewSource(cfg.Seed))
	env, err := simulation.NewRandomEnvironment(cfg, rng, logger)
	if err != nil {
		return fmt.Errorf("create environment: %w", err)
	}

	p, err := planner.NewStaticLinePlanner(cfg.Planner(), planner.WithLogger(logger))
	if err != nil {
		return err
	}
	units, agents := env.Snapshot()
	start := time.Now()
	plan, err := p.Plan(units, agents)
	if err != nil {
		return fmt.Errorf("plan: %w", err)
	}
	elapsed := time.Since(start)
	logger.Info("planned",
		log.String("planner", p.String()),
		log.Duration("elapsed", elapsed),
		log.Int("slots", len(plan.Slots)),
		log.Int("assigned", len(plan.Assignment)))

	if err := env.ApplyPlan(plan.Movement); err != nil {
		return err
	}

	if reportPath != "" {
		row := report.FromPlan(p.String(), cfg, len(agents), len(units), plan, elapsed)
		if err := report.Append(reportPath, row); err != nil {
			return err
		}
	}

	if gui {
		renderer := visualization.NewRenderer(env, plan, deltaTime, cfg.MaxTicks, logger)
		renderer.SetTicksPerFrame(ticksPerFrame)
		ebiten.SetWindowSize(1000, 800)
		ebiten.SetWindowTitle("Blocking line simulation")
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
		return ebiten.RunGame(renderer)
	}

	stats := env.Run(deltaTime, cfg.MaxTicks)
	fmt.Println(stats)
	return nil
}
