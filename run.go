package aspen

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// Game adapts a Context driven by an EbitenDevice to ebiten.Game.
//
// For full control, implement ebiten.Game yourself: call Context.Update from
// Update, and EbitenDevice.SetScreen followed by Context.Render from Draw.
type Game struct {
	ctx      *Context
	dev      *EbitenDevice
	onUpdate func(dt float64) error
	err      error

	showFPS  bool
	fps      *ebiten.Image
	fpsTimer float64

	screenshots   []string
	screenshotDir string
}

// NewGame creates an ebiten device and a Context for cfg.
func NewGame(cfg Config) (*Game, error) {
	dev := NewEbitenDevice()
	ctx, err := NewContext(dev, cfg)
	if err != nil {
		return nil, err
	}
	return &Game{ctx: ctx, dev: dev, showFPS: cfg.Debug}, nil
}

// Context returns the game's render context.
func (g *Game) Context() *Context { return g.ctx }

// Device returns the game's ebiten device.
func (g *Game) Device() *EbitenDevice { return g.dev }

// SetUpdateFunc sets a callback run once per tick before the scene update.
// A non-nil error stops the game loop.
func (g *Game) SetUpdateFunc(fn func(dt float64) error) { g.onUpdate = fn }

// SetShowFPS toggles the FPS/TPS overlay.
func (g *Game) SetShowFPS(show bool) { g.showFPS = show }

// Update implements ebiten.Game.
func (g *Game) Update() error {
	if g.err != nil {
		return g.err
	}
	dt := 1.0 / float64(ebiten.TPS())
	if g.onUpdate != nil {
		if err := g.onUpdate(dt); err != nil {
			return err
		}
	}
	g.ctx.Update(dt)
	if g.showFPS {
		g.updateFPS(dt)
	}
	return nil
}

// Draw implements ebiten.Game. A render error is reported by the next Update.
func (g *Game) Draw(screen *ebiten.Image) {
	g.dev.SetScreen(screen)
	if err := g.ctx.Render(1); err != nil {
		g.err = fmt.Errorf("render frame %d: %w", g.ctx.FrameCount(), err)
	}
	if g.showFPS && g.fps != nil {
		screen.DrawImage(g.fps, nil)
	}
	g.flushScreenshots(screen)
}

// Layout implements ebiten.Game. The screen is always the internal
// resolution; ebiten scales it to the window.
func (g *Game) Layout(_, _ int) (int, int) {
	res := g.ctx.Resolution()
	return res.Width, res.Height
}

// updateFPS redraws the overlay about twice a second.
func (g *Game) updateFPS(dt float64) {
	if g.fps == nil {
		g.fps = ebiten.NewImage(100, 32)
	}
	g.fpsTimer += dt
	if g.fpsTimer < 0.5 {
		return
	}
	g.fpsTimer = 0
	g.fps.Fill(color.RGBA{0, 0, 0, 128})
	ebitenutil.DebugPrint(g.fps, fmt.Sprintf("FPS: %.1f\nTPS: %.1f", ebiten.ActualFPS(), ebiten.ActualTPS()))
}

// Run opens a window configured from the game's Config and blocks until
// the window closes or an update fails. The context is disposed on return.
func Run(g *Game) error {
	cfg := g.ctx.Config()
	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(cfg.TPS)
	ebiten.SetVsyncEnabled(cfg.VSync)
	defer g.ctx.Dispose()
	return ebiten.RunGame(g)
}
