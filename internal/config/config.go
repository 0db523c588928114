package config

import (
	"errors"
	"fmt"
	"io"
	"os"

	"blockage-sim/internal/planner"

	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig indicates a configuration value outside its valid range.
var ErrInvalidConfig = errors.New("config: invalid value")

// Config describes one experiment: the world, the fleet and the planner knobs.
// Agents start in the strip [XBuffer, XBuffer+XSize] x [YBuffer, YBuffer+YSizeInit]
// and the border they must not cross lies at YBuffer+YSize.
type Config struct {
	XSize     float64 `json:"x_size" yaml:"x_size"`
	YSize     float64 `json:"y_size" yaml:"y_size"`
	XBuffer   float64 `json:"x_buffer" yaml:"x_buffer"`
	YBuffer   float64 `json:"y_buffer" yaml:"y_buffer"`
	YSizeInit float64 `json:"y_size_init" yaml:"y_size_init"`

	NumAgents int `json:"num_agents" yaml:"num_agents"`
	// NumRobots of 0 sizes the fleet to the number of blocking slots.
	NumRobots int `json:"num_robots" yaml:"num_robots"`

	RobotSpeed       float64 `json:"robot_speed" yaml:"robot_speed"`
	AgentSpeed       float64 `json:"agent_speed" yaml:"agent_speed"`
	DisablementRange float64 `json:"disablement_range" yaml:"disablement_range"`
	Sigma            float64 `json:"sigma" yaml:"sigma"`

	Resolution float64 `json:"resolution" yaml:"resolution"`
	Horizon    float64 `json:"horizon" yaml:"horizon"`

	Seed     int64  `json:"seed" yaml:"seed"`
	MaxTicks int    `json:"max_ticks" yaml:"max_ticks"`
	LogLevel string `json:"log_level" yaml:"log_level"`
}

// Default returns the baseline experiment.
func Default() Config {
	return Config{
		XSize:            1000,
		YSize:            1000,
		XBuffer:          100,
		YBuffer:          100,
		YSizeInit:        200,
		NumAgents:        50,
		NumRobots:        0,
		RobotSpeed:       2,
		AgentSpeed:       1,
		DisablementRange: 25,
		Sigma:            0,
		Resolution:       1,
		Horizon:          0,
		Seed:             1,
		MaxTicks:         5000,
		LogLevel:         "info",
	}
}

// Load reads a YAML config file. Keys missing from the file keep their defaults.
func Load(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// Parse decodes YAML from r on top of Default and validates the result.
func Parse(r io.Reader) (Config, error) {
	c := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Environment variables read by Resolve.
const (
	EnvConfigPath = "BLOCKAGE_CONFIG"
	EnvLogLevel   = "BLOCKAGE_LOG_LEVEL"
)

// Resolve loads the config named by path, falling back to $BLOCKAGE_CONFIG
// and then to Default. $BLOCKAGE_LOG_LEVEL overrides the file's log level.
func Resolve(path string) (Config, error) {
	if path == "" {
		path = os.Getenv(EnvConfigPath)
	}
	c := Default()
	if path != "" {
		var err error
		if c, err = Load(path); err != nil {
			return Config{}, err
		}
	}
	if lvl := os.Getenv(EnvLogLevel); lvl != "" {
		c.LogLevel = lvl
	}
	return c, nil
}

// Border is the y-coordinate agents must not cross.
func (c Config) Border() float64 {
	return c.YBuffer + c.YSize
}

// Planner derives the explicit planner configuration.
func (c Config) Planner() planner.Config {
	return planner.Config{
		Border:            c.Border(),
		DisablementRange:  c.DisablementRange,
		Resolution:        c.Resolution,
		Horizon:           c.Horizon,
		DefaultRobotSpeed: c.RobotSpeed,
		DefaultAgentSpeed: c.AgentSpeed,
	}
}

// Validate checks the ranges the planner and simulation rely on.
func (c Config) Validate() error {
	switch {
	case c.XSize <= 0 || c.YSize <= 0:
		return fmt.Errorf("%w: world size %.3fx%.3f", ErrInvalidConfig, c.XSize, c.YSize)
	case c.XBuffer < 0 || c.YBuffer < 0 || c.YSizeInit < 0:
		return fmt.Errorf("%w: buffers must be non-negative", ErrInvalidConfig)
	case c.YSizeInit > c.YSize:
		return fmt.Errorf("%w: y_size_init %.3f exceeds y_size %.3f", ErrInvalidConfig, c.YSizeInit, c.YSize)
	case c.NumAgents <= 0:
		return fmt.Errorf("%w: num_agents %d", ErrInvalidConfig, c.NumAgents)
	case c.NumRobots < 0:
		return fmt.Errorf("%w: num_robots %d", ErrInvalidConfig, c.NumRobots)
	case c.RobotSpeed <= 0 || c.AgentSpeed <= 0:
		return fmt.Errorf("%w: speeds must be positive", ErrInvalidConfig)
	case c.DisablementRange <= 0:
		return fmt.Errorf("%w: disablement_range %.3f", ErrInvalidConfig, c.DisablementRange)
	case c.Sigma < 0:
		return fmt.Errorf("%w: sigma %.3f", ErrInvalidConfig, c.Sigma)
	case c.Resolution <= 0:
		return fmt.Errorf("%w: resolution %.3f", ErrInvalidConfig, c.Resolution)
	case c.Horizon < 0:
		return fmt.Errorf("%w: horizon %.3f", ErrInvalidConfig, c.Horizon)
	case c.MaxTicks <= 0:
		return fmt.Errorf("%w: max_ticks %d", ErrInvalidConfig, c.MaxTicks)
	}
	return nil
}
