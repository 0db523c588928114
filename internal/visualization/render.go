package visualization

import (
	"fmt"
	"image/color"
	"math"

	"blockage-sim/internal/common"
	"blockage-sim/internal/log"
	"blockage-sim/internal/planner"
	"blockage-sim/internal/simulation"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

const (
	objectRadiusOnScreen = 4.0
	padding              = 40.0
)

var (
	backgroundColor  = color.RGBA{230, 230, 230, 255}
	borderColor      = color.RGBA{200, 0, 0, 255}
	lineColor        = color.RGBA{0, 140, 0, 200}
	robotColor       = color.RGBA{0, 0, 255, 255}
	robotRangeColor  = color.RGBA{0, 0, 200, 50}
	waypointColor    = color.RGBA{0, 0, 200, 120}
	agentActiveColor = color.RGBA{255, 0, 0, 255}
	agentDownColor   = color.RGBA{120, 120, 120, 255}
	agentEscColor    = color.RGBA{255, 150, 0, 255}
)

// Renderer implements ebiten.Game. Every Update advances the environment by
// ticksPerFrame steps until the run is over, Draw shows the world with the
// border at the top of the screen.
type Renderer struct {
	env  *simulation.Environment
	plan *planner.Plan

	deltaTime     float64
	ticksPerFrame int
	maxTicks      int
	finished      bool

	screenWidth  int
	screenHeight int

	// Transformation parameters
	scale   float64
	offsetX float64
	offsetY float64

	logger log.Log
}

// NewRenderer creates a renderer over env. plan may be nil.
func NewRenderer(env *simulation.Environment, plan *planner.Plan, deltaTime float64, maxTicks int, logger log.Log) *Renderer {
	if logger == nil {
		logger = log.NewNop()
	}
	return &Renderer{
		env:           env,
		plan:          plan,
		deltaTime:     deltaTime,
		ticksPerFrame: 1,
		maxTicks:      maxTicks,
		logger:        logger,
	}
}

// SetTicksPerFrame speeds the playback up.
func (r *Renderer) SetTicksPerFrame(n int) {
	if n > 0 {
		r.ticksPerFrame = n
	}
}

// Update is called every tick.
func (r *Renderer) Update() error {
	if !r.finished {
		for i := 0; i < r.ticksPerFrame; i++ {
			if r.env.Advance(r.deltaTime) || r.env.Stats().Step >= r.maxTicks {
				r.finished = true
				r.logger.Info("simulation finished", log.String("stats", r.env.Stats().String()))
				break
			}
		}
	}
	r.calculateTransform()
	return nil
}

// calculateTransform fits the world box, from the origin up to the border
// and across every object, onto the screen.
func (r *Renderer) calculateTransform() {
	minX, maxX := 0.0, 0.0
	minY, maxY := 0.0, r.env.Border()
	extend := func(p common.Point) {
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
	}
	for _, robot := range r.env.Robots() {
		extend(robot.GetPosition())
	}
	for _, agent := range r.env.Agents() {
		extend(agent.GetPosition())
	}

	worldWidth := maxX - minX
	worldHeight := maxY - minY
	if worldWidth == 0 {
		worldWidth = 1
	}
	if worldHeight == 0 {
		worldHeight = 1
	}

	scaleX := (float64(r.screenWidth) - 2*padding) / worldWidth
	scaleY := (float64(r.screenHeight) - 2*padding) / worldHeight
	r.scale = math.Min(scaleX, scaleY)
	if r.scale <= 0 || math.IsNaN(r.scale) || math.IsInf(r.scale, 0) {
		r.scale = 1.0
	}

	centerX := (minX + maxX) / 2.0
	centerY := (minY + maxY) / 2.0
	r.offsetX = float64(r.screenWidth)/2.0 - centerX*r.scale
	r.offsetY = float64(r.screenHeight)/2.0 - centerY*r.scale
}

// worldToScreen maps world coordinates to screen coordinates, flipping y so
// agents move up the screen.
func (r *Renderer) worldToScreen(p common.Point) (float32, float32) {
	screenX := p.X*r.scale + r.offsetX
	screenY := float64(r.screenHeight) - (p.Y*r.scale + r.offsetY)
	return float32(screenX), float32(screenY)
}

func (r *Renderer) horizontal(screen *ebiten.Image, y float64, clr color.Color) {
	_, sy := r.worldToScreen(common.Point{Y: y})
	vector.StrokeLine(screen, 0, sy, float32(r.screenWidth), sy, 2, clr, true)
}

// Draw is called every frame to render the environment.
func (r *Renderer) Draw(screen *ebiten.Image) {
	screen.Fill(backgroundColor)

	r.horizontal(screen, r.env.Border(), borderColor)
	if r.plan != nil {
		r.horizontal(screen, r.plan.Height, lineColor)
	}

	for _, robot := range r.env.Robots() {
		sx, sy := r.worldToScreen(robot.GetPosition())
		if rr := float32(robot.DisablementRange() * r.scale); rr > 0 {
			vector.DrawFilledCircle(screen, sx, sy, rr, robotRangeColor, true)
		}
		for _, wp := range robot.Movement() {
			wx, wy := r.worldToScreen(wp)
			vector.StrokeLine(screen, sx, sy, wx, wy, 1, waypointColor, true)
		}
		vector.DrawFilledCircle(screen, sx, sy, objectRadiusOnScreen, robotColor, true)
	}

	for _, agent := range r.env.Agents() {
		ax, ay := r.worldToScreen(agent.GetPosition())
		var clr color.Color = agentActiveColor
		switch agent.State() {
		case simulation.AgentDisabled:
			clr = agentDownColor
		case simulation.AgentEscaped:
			clr = agentEscColor
		}
		vector.DrawFilledCircle(screen, ax, ay, objectRadiusOnScreen, clr, true)
	}

	r.drawDebugInfo(screen)
}

func (r *Renderer) drawDebugInfo(screen *ebiten.Image) {
	stats := r.env.Stats()
	msg := fmt.Sprintf("Time: %.2f (step %d)\n", stats.Time, stats.Step)
	msg += fmt.Sprintf("FPS: %.1f, TPS: %.1f\n", ebiten.ActualFPS(), ebiten.ActualTPS())
	msg += fmt.Sprintf("Robots: %d, Agents: %d\n", len(r.env.Robots()), len(r.env.Agents()))
	msg += fmt.Sprintf("Active: %d  Disabled: %d  Escaped: %d\n", stats.Active, stats.Disabled, stats.Escaped)
	msg += fmt.Sprintf("Damage: %.2f\n", stats.Damage)
	if r.plan != nil {
		msg += fmt.Sprintf("Line: h=%.2f, expected damage %.2f, expected disabled %.2f\n",
			r.plan.Height, r.plan.ExpectedDamage, r.plan.ExpectedDisabled)
	}
	if r.finished {
		msg += "Finished\n"
	}
	ebitenutil.DebugPrint(screen, msg)
}

// Layout is called when the window size changes.
func (r *Renderer) Layout(outsideWidth, outsideHeight int) (int, int) {
	r.screenWidth = outsideWidth
	r.screenHeight = outsideHeight
	return r.screenWidth, r.screenHeight
}
