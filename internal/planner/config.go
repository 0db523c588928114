package planner

import "fmt"

// Config holds everything a planning call reads besides the snapshots.
type Config struct {
	// Border is the y-coordinate agents must not cross.
	Border float64
	// DisablementRange is the spacing basis: slots sit 2*DisablementRange apart.
	DisablementRange float64
	// Resolution is the time step of the stochastic curve sampling.
	Resolution float64
	// Horizon bounds the stochastic search. Zero means each agent's own time
	// to reach the border.
	Horizon float64
	// DefaultRobotSpeed and DefaultAgentSpeed fill in snapshots without a speed.
	DefaultRobotSpeed float64
	DefaultAgentSpeed float64
}

func (c Config) Validate() error {
	switch {
	case c.DisablementRange <= 0:
		return fmt.Errorf("%w: disablement range %.3f", ErrInvalidConfig, c.DisablementRange)
	case c.Resolution <= 0:
		return fmt.Errorf("%w: resolution %.3f", ErrInvalidConfig, c.Resolution)
	case c.Horizon < 0:
		return fmt.Errorf("%w: horizon %.3f", ErrInvalidConfig, c.Horizon)
	case c.DefaultRobotSpeed < 0 || c.DefaultAgentSpeed < 0:
		return fmt.Errorf("%w: default speeds must be non-negative", ErrInvalidConfig)
	}
	return nil
}
