package nodebox

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/sirupsen/logrus"
)

// RunConfig configures the window Run opens for a canvas.
type RunConfig struct {
	// Title is the window title.
	Title string
	// Fullscreen starts the window in fullscreen mode (F11 toggles it).
	Fullscreen bool
	// FPS is the tick rate in frames per second. 0 uses the default (60).
	FPS int
	// ShowFPS overlays a frame rate widget in the top-left corner.
	ShowFPS bool
}

// game adapts a canvas to the ebiten game loop and turns Canvas.Stop into a
// clean loop exit.
type game struct {
	canvas *Canvas
}

func (g *game) Update() error {
	if !g.canvas.active {
		return ebiten.Termination
	}
	return g.canvas.Update()
}

func (g *game) Draw(screen *ebiten.Image) {
	g.canvas.Draw(screen)
}

func (g *game) Layout(w, h int) (int, int) {
	return g.canvas.Layout(w, h)
}

// Run opens a window sized to the canvas, installs a screen paint engine and
// drives the canvas until it stops or the window closes. Blocks until then.
func Run(c *Canvas, cfg RunConfig) error {
	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(c.width, c.height)
	ebiten.SetFullscreen(cfg.Fullscreen)
	if cfg.FPS > 0 {
		ebiten.SetTPS(cfg.FPS)
	}
	c.SetPaintEngine(NewScreenPaintEngine())
	if cfg.ShowFPS {
		c.Append(NewFPSLayer())
	}
	if c.OnSetup != nil {
		c.OnSetup(c)
	}

	logrus.WithFields(logrus.Fields{
		"title":  cfg.Title,
		"width":  c.width,
		"height": c.height,
	}).Info("canvas running")

	err := ebiten.RunGame(&game{canvas: c})
	c.Stop()
	if err != nil {
		logrus.WithError(err).Error("game loop exited")
	}
	return err
}
