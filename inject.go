package nodebox

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// Synthetic input. Injected events queue up on the canvas and are consumed
// one per Update, before (and instead of) real device polling for that
// frame, so scripted interaction and tests see the exact same dispatch path
// as a user.

type injectedEvent interface {
	apply(c *Canvas)
}

type injectedMove struct{ x, y float64 }

func (ev injectedMove) apply(c *Canvas) {
	if c.mouse.Pressed {
		c.handleMouseDrag(ev.x, ev.y)
	} else {
		c.handleMouseMotion(ev.x, ev.y)
	}
}

type injectedPress struct {
	x, y   float64
	button MouseButton
}

func (ev injectedPress) apply(c *Canvas) {
	c.handleMousePress(ev.x, ev.y, ev.button)
}

type injectedRelease struct {
	x, y   float64
	button MouseButton
}

func (ev injectedRelease) apply(c *Canvas) {
	c.handleMouseRelease(ev.x, ev.y, ev.button)
}

type injectedScroll struct{ x, y, sx, sy float64 }

func (ev injectedScroll) apply(c *Canvas) {
	c.handleMouseScroll(ev.x, ev.y, ev.sx, ev.sy)
}

type injectedKeyPress struct {
	key  ebiten.Key
	char string
}

func (ev injectedKeyPress) apply(c *Canvas) {
	c.handleKeyPress(ev.key, ev.char)
}

type injectedKeyRelease struct{ key ebiten.Key }

func (ev injectedKeyRelease) apply(c *Canvas) {
	c.handleKeyRelease(ev.key)
}

// InjectMove queues a synthetic mouse move to (x, y). If a button is down
// when the event is consumed, it dispatches as a drag.
func (c *Canvas) InjectMove(x, y float64) {
	c.injected = append(c.injected, injectedMove{x, y})
}

// InjectPress queues a synthetic mouse press at (x, y).
func (c *Canvas) InjectPress(x, y float64, button MouseButton) {
	c.injected = append(c.injected, injectedPress{x, y, button})
}

// InjectRelease queues a synthetic mouse release at (x, y).
func (c *Canvas) InjectRelease(x, y float64, button MouseButton) {
	c.injected = append(c.injected, injectedRelease{x, y, button})
}

// InjectClick queues a press immediately followed by a release at (x, y).
// The two events are consumed on consecutive frames.
func (c *Canvas) InjectClick(x, y float64, button MouseButton) {
	c.InjectPress(x, y, button)
	c.InjectRelease(x, y, button)
}

// InjectDrag queues a press at (x0, y0), a move to (x1, y1) and a release.
func (c *Canvas) InjectDrag(x0, y0, x1, y1 float64, button MouseButton) {
	c.InjectPress(x0, y0, button)
	c.InjectMove(x1, y1)
	c.InjectRelease(x1, y1, button)
}

// InjectScroll queues a synthetic scroll of (sx, sy) at position (x, y).
func (c *Canvas) InjectScroll(x, y, sx, sy float64) {
	c.injected = append(c.injected, injectedScroll{x, y, sx, sy})
}

// InjectKeyPress queues a synthetic key press. char is the text the press
// produces, e.g. "A" for Shift+a, or "" for non-character keys.
func (c *Canvas) InjectKeyPress(key ebiten.Key, char string) {
	c.injected = append(c.injected, injectedKeyPress{key, char})
}

// InjectKeyRelease queues a synthetic key release.
func (c *Canvas) InjectKeyRelease(key ebiten.Key) {
	c.injected = append(c.injected, injectedKeyRelease{key})
}
