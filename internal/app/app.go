//go:build ebiten

package app

import (
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"morphogen/internal/engine"
	"morphogen/internal/render"
	"morphogen/internal/ui"
)

// Game adapts the simulation to the ebiten.Game interface.
type Game struct {
	sim     *engine.Simulation
	painter *render.StructurePainter
	blitter *render.Blitter
	overlay *ui.Overlay

	scale    int
	paused   bool
	tickOnce bool
	seed     int64
}

// New constructs a Game for the provided simulation.
func New(sim *engine.Simulation, painter *render.StructurePainter, scale int, seed int64) *Game {
	return &Game{
		sim:     sim,
		painter: painter,
		blitter: render.NewBlitter(painter),
		overlay: ui.NewOverlay(sim),
		scale:   scale,
		seed:    seed,
	}
}

// Reset reinitializes the simulation state with the provided seed.
func (g *Game) Reset(seed int64) {
	g.seed = seed
	g.sim.Reset(seed)
	g.tickOnce = false
}

// Update handles per-frame input and advances the simulation.
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.paused = !g.paused
		if g.paused {
			g.sim.Pause()
		} else {
			g.sim.Start()
		}
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

	if g.overlay != nil {
		g.overlay.Update()
	}

	if g.tickOnce {
		g.sim.Start()
		g.sim.Step()
		g.sim.Pause()
		g.tickOnce = false
		return nil
	}
	g.sim.Step()
	return nil
}

// Draw renders the current structure.
func (g *Game) Draw(screen *ebiten.Image) {
	g.painter.Render(g.sim.Snapshot())
	g.blitter.Blit(screen, g.painter, g.scale)
	if g.overlay != nil {
		g.overlay.Draw(screen)
	}
}

// Layout returns the logical screen size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	w, h := g.painter.Size()
	return w * g.scale, h * g.scale
}
