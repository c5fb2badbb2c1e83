package corona

import (
	"fmt"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/pkg/errors"
)

// RunConfig configures the window opened by Run.
type RunConfig struct {
	Title      string
	Width      int // window width in device-independent pixels
	Height     int
	Resizable  bool
	ShowFPS    bool
	FullScreen bool
}

// Run opens a window and drives d with ebiten until the window closes. d
// must have been created with an *EbitenRenderer and an *EbitenSurface.
// The display is initialized on the first tick and torn down when Run
// returns.
func Run(d *Display, cfg RunConfig) error {
	surface, ok := d.surface.(*EbitenSurface)
	if !ok {
		return errors.Errorf("corona: Run needs an *EbitenSurface, got %T", d.surface)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		cfg.Width, cfg.Height = legacyContentWidth, legacyContentHeight
	}
	if cfg.Title != "" {
		ebiten.SetWindowTitle(cfg.Title)
	}
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	if cfg.Resizable {
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	}
	ebiten.SetFullscreen(cfg.FullScreen)
	ebiten.SetTPS(d.FPS())
	// Valid scenes skip the draw, so the screen must keep the last frame.
	ebiten.SetScreenClearedEveryFrame(false)

	g := &game{display: d, surface: surface, showFPS: cfg.ShowFPS}
	defer d.Teardown()
	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		return err
	}
	return nil
}

// game adapts a Display to ebiten.Game.
type game struct {
	display *Display
	surface *EbitenSurface
	showFPS bool

	width, height int
	fpsText       string
	fpsElapsed    float64
}

func (g *game) Update() error {
	d := g.display
	switch d.State() {
	case StateUninitialized:
		if !d.Initialize() {
			return errors.Wrap(ErrNotInitialized, "corona: display initialize")
		}
		d.Start()
	case StateTornDown:
		return ebiten.Termination
	}
	d.Update()

	if g.showFPS {
		g.fpsElapsed += 1 / float64(ebiten.TPS())
		if g.fpsElapsed >= 0.5 || g.fpsText == "" {
			g.fpsElapsed = 0
			g.fpsText = fmt.Sprintf("FPS: %.1f\nTPS: %.1f", ebiten.ActualFPS(), ebiten.ActualTPS())
		}
	}
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	d := g.display
	if d.State() != StateInitialized && d.State() != StateRunning {
		screen.Fill(color.Black)
		return
	}
	g.surface.Bind(screen)
	if g.showFPS {
		// The overlay is drawn onto the screen, so the scene must repaint
		// underneath it.
		d.Invalidate()
	}
	if err := d.Render(); err != nil {
		Logger().Warn("render failed", "err", err)
		return
	}
	if g.showFPS {
		ebitenutil.DebugPrint(screen, g.fpsText)
	}
}

// Layout reports the screen in device pixels and re-resolves the content
// transform when the window size changes.
func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	s := ebiten.Monitor().DeviceScaleFactor()
	w := int(math.Ceil(float64(outsideWidth) * s))
	h := int(math.Ceil(float64(outsideHeight) * s))
	if w != g.width || h != g.height {
		g.width, g.height = w, h
		g.surface.Resize(w, h)
		if g.display.State() != StateUninitialized {
			g.display.WindowSizeChanged()
		}
	}
	return w, h
}
