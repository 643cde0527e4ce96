package nodebox

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// NewFPSLayer returns a small overlay layer showing the measured frames and
// ticks per second, refreshed twice a second. Append it to a canvas (its Top
// flag is set, so it draws over siblings) and position it where you like.
func NewFPSLayer() *Layer {
	img := ebiten.NewImage(100, 32)
	var last float64

	l := NewLayer("fps")
	l.width = NewTransition(100, Smooth)
	l.height = NewTransition(32, Smooth)
	l.Enabled = false

	l.OnUpdate = func(*Layer) {
		if sharedClock.now-last < 0.5 && last != 0 {
			return
		}
		last = sharedClock.now
		img.Clear()
		ebitenutil.DebugPrint(img, fmt.Sprintf("FPS %0.1f\nTPS %0.1f",
			ebiten.ActualFPS(), ebiten.ActualTPS()))
	}
	l.OnDraw = func(_ *Layer, e PaintEngine) {
		e.DrawImage(img)
	}
	return l
}
