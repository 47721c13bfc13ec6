//go:build ebiten

package app

import (
	"fmt"
	"image/color"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"erode/internal/core"
	"erode/internal/render"
	"erode/internal/sims/erosion"
	"erode/internal/ui"
)

const statsInterval = 15

var cursorColor = color.RGBA{R: 255, G: 240, B: 120, A: 200}

// Game adapts an erosion engine to the ebiten.Game interface.
type Game struct {
	engine  *erosion.Engine
	painter *render.Painter
	frame   *render.Frame
	overlay *ui.Overlay
	hud     *ui.HUD
	clock   *core.FrameClock

	view  erosion.ViewMode
	brush BrushState

	scale    int
	hudWidth int
	paused   bool
	tickOnce bool
	seed     int64
	ticks    int
}

// New constructs a Game for the provided engine.
func New(engine *erosion.Engine, cfg *Config) *Game {
	size := engine.Size()
	return &Game{
		engine:   engine,
		painter:  render.NewPainter(size.W, size.H),
		frame:    render.NewFrame(size.W, size.H),
		overlay:  ui.NewOverlay(engine, cfg.Scale),
		hud:      ui.NewHUD(engine, cfg.HUDWidth),
		clock:    core.NewFrameClock(0),
		brush:    NewBrushState(),
		scale:    cfg.Scale,
		hudWidth: cfg.HUDWidth,
		seed:     cfg.Seed,
	}
}

// Reset schedules a fresh terrain with the provided seed.
func (g *Game) Reset(seed int64) {
	g.seed = seed
	g.engine.Reset(seed)
	g.tickOnce = false
	g.clock.Restart()
}

// Update handles input, applies the brush and advances the simulation.
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.paused = !g.paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
		g.paused = false
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
	if inpututil.IsKeyJustPressed(ebiten.KeyV) {
		g.view = g.view.Next()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyB) {
		g.brush.ToggleChannel()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyBracketRight) {
		g.brush.Grow(1.25)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyBracketLeft) {
		g.brush.Grow(0.8)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEqual) {
		g.brush.Strengthen(0.02)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyMinus) {
		g.brush.Strengthen(-0.02)
	}

	g.overlay.SetScale(g.scale)
	g.overlay.Update()
	g.hud.Update(g.viewWidth())

	g.applyBrush()

	dt := g.clock.Tick()
	switch {
	case g.tickOnce:
		if g.engine.Initialized() {
			g.engine.Step()
		} else {
			g.engine.Advance(dt, true)
		}
		g.tickOnce = false
	default:
		g.engine.Advance(dt, g.paused)
	}

	g.ticks++
	if g.ticks%statsInterval == 1 {
		g.hud.SetStatus(g.statusLines())
	}
	return nil
}

func (g *Game) applyBrush() {
	left := ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
	right := ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight)
	if !left && !right {
		return
	}
	mx, my := ebiten.CursorPosition()
	if mx < 0 || my < 0 || mx >= g.viewWidth() || my >= g.viewWidth() {
		return
	}
	res := g.engine.Size().W
	g.engine.ApplyBrush(g.brush.Params(mx, my, g.scale, res, true, right))
}

func (g *Game) statusLines() []string {
	st := g.engine.Stats()
	state := "running"
	if g.paused {
		state = "paused"
	}
	return []string{
		fmt.Sprintf("frame %d  %s  view %s", st.Frame, state, g.view),
		fmt.Sprintf("water %.1f  sediment %.2f", st.WaterVolume, st.SedimentSum),
		fmt.Sprintf("height %.1f..%.1f  v %.2f", st.MinHeight, st.MaxHeight, st.MaxSpeed),
		fmt.Sprintf("brush %s r=%.3f s=%.2f", g.brush.channelName(), g.brush.Radius, g.brush.Strength),
	}
}

func (g *Game) viewWidth() int { return g.engine.Size().W * g.scale }

// Draw renders the current terrain, the brush cursor and the panels.
func (g *Game) Draw(screen *ebiten.Image) {
	res := g.engine.Size().W
	g.frame.Resize(res, res)
	g.engine.Pixels(g.view, g.frame.Bytes())

	mx, my := ebiten.CursorPosition()
	if mx >= 0 && my >= 0 && mx < g.viewWidth() && my < g.viewWidth() {
		s := float64(g.scale)
		g.frame.DrawRing(float64(mx)/s, float64(my)/s, float64(g.brush.Radius)*float64(res), cursorColor)
	}

	g.painter.Blit(screen, g.frame, g.scale)
	g.overlay.Draw(screen)
	g.hud.Draw(screen, g.viewWidth(), g.scale)
}

// Layout returns the logical screen size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	w := g.viewWidth()
	return w + g.hudWidth, w
}
