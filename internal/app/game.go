//go:build ebiten

package app

import (
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"tiled-ca/internal/core"
	"tiled-ca/internal/render"
	"tiled-ca/internal/ui"
)

// maxCatchUp bounds the updates run in one frame after a stall.
const maxCatchUp = 8

// Game adapts a Sim to the ebiten.Game interface.
type Game struct {
	sim     *Sim
	painter *render.GridPainter
	hud     *ui.HUD
	pace    *core.FixedStep
	cells   []uint8

	scale      int
	rotate     int
	paused     bool
	tickOnce   bool
	seed       int64
	generation int
}

// NewGame constructs a Game for the provided simulation.
func NewGame(s *Sim) *Game {
	size := s.Engine.Size()
	scale := s.Config.OutputScale()
	states := int(s.Engine.States())
	return &Game{
		sim:     s,
		painter: render.NewGridPainter(size, render.Palette(states, s.Config.Rotate)),
		hud:     ui.NewHUD(core.Describe(s.Engine, s.Rule), ui.PanelWidth, size*scale),
		pace:    core.NewFixedStep(s.Config.TPS),
		scale:   scale,
		rotate:  s.Config.Rotate,
		seed:    s.Config.Seed,
	}
}

// Reset reinitializes the grid with the provided seed.
func (g *Game) Reset(seed int64) {
	g.seed = seed
	if err := g.sim.Reset(seed); err != nil {
		g.sim.log.Error("reset", "err", err)
	}
	g.generation = 0
	g.tickOnce = false
}

// Update handles per-frame logic and advances the simulation.
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.paused = !g.paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyN) {
		g.tickOnce = true
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.Reset(g.seed)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyS) {
		g.Reset(time.Now().UnixNano())
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		g.rotate++
		g.painter.SetPalette(render.Palette(int(g.sim.Engine.States()), g.rotate))
	}
	delta := g.hud.RateDelta()
	if inpututil.IsKeyJustPressed(ebiten.KeyEqual) {
		delta++
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyMinus) {
		delta--
	}
	if delta != 0 {
		g.pace.SetRate(max(1, g.pace.Rate()+5*delta))
	}

	due := g.pace.Due(maxCatchUp)
	if g.paused {
		due = 0
	}
	if g.tickOnce {
		due, g.tickOnce = max(due, 1), false
	}
	for i := 0; i < due; i++ {
		g.sim.Engine.Update()
		g.generation++
	}

	g.hud.Update(g.sim.Engine.Size()*g.scale, ui.Status{
		Generation: g.generation,
		Rate:       g.pace.Rate(),
		Paused:     g.paused,
	})
	return nil
}

// Draw renders the current simulation state.
func (g *Game) Draw(screen *ebiten.Image) {
	g.cells = g.sim.Engine.Snapshot(g.cells)
	g.painter.Blit(screen, g.cells, g.scale)
	g.hud.Draw(screen)
}

// Layout returns the logical screen size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	side := g.sim.Engine.Size() * g.scale
	return side + ui.PanelWidth, side
}
