package nodebox

import (
	"fmt"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/sirupsen/logrus"
)

// Canvas owns the top-level layers, polls input once per frame and runs the
// update/draw cycle. It appears as the screen in a window and as the root of
// all events: layers never see raw input, they receive calls from the canvas
// based on who has the mouse focus. There is no event propagation — an event
// goes to the canvas handler and to exactly one focused layer.
type Canvas struct {
	EventHandler

	width, height int

	// Background is the canvas clear color.
	Background Color
	// Paused stops the animation clock and layer updates. Input polling and
	// drawing continue, so the scene stays visible and responsive.
	Paused bool

	layers  []*Layer
	mouse   *Mouse
	keys    *Keys
	focus   *Layer
	frame   int
	elapsed float64
	active  bool
	engine  PaintEngine
	debug   bool

	injected    []injectedEvent
	pendingShot string

	// OnSetup runs once before the first frame.
	OnSetup func(*Canvas)
	// OnUpdate runs every unpaused frame before layer updates.
	OnUpdate func(*Canvas)
	// OnDraw runs every frame before layers are drawn.
	OnDraw func(*Canvas)
	// OnDrawOverlay runs every frame after layers are drawn, in screen
	// coordinates (useful for HUDs).
	OnDrawOverlay func(*Canvas)
	// OnStop runs once when the canvas stops.
	OnStop func(*Canvas)
}

// NewCanvas creates a canvas of the given pixel size with a very light grey
// background. The canvas starts active with canvas-level events enabled.
func NewCanvas(width, height int) *Canvas {
	c := &Canvas{
		width:      width,
		height:     height,
		Background: veryLightGrey,
		keys:       newKeys(),
		active:     true,
		engine:     NullPaintEngine(),
	}
	c.mouse = newMouse(c)
	c.Enabled = true
	return c
}

// Size returns the canvas size in pixels.
func (c *Canvas) Size() (width, height int) {
	return c.width, c.height
}

// Frame returns the number of frames updated so far. Pausing stops the count.
func (c *Canvas) Frame() int {
	return c.frame
}

// Elapsed returns the time in seconds the last frame accounted for.
func (c *Canvas) Elapsed() float64 {
	return c.elapsed
}

// FPS returns the current frames drawn per second.
func (c *Canvas) FPS() float64 {
	return ebiten.ActualFPS()
}

// Mouse returns the canvas mouse state.
func (c *Canvas) Mouse() *Mouse {
	return c.mouse
}

// Keys returns the canvas keyboard state.
func (c *Canvas) Keys() *Keys {
	return c.keys
}

// FocusedLayer returns the layer that currently has the mouse focus, or nil.
func (c *Canvas) FocusedLayer() *Layer {
	return c.focus
}

// Active reports whether the canvas is still running.
func (c *Canvas) Active() bool {
	return c.active
}

// PaintEngine returns the engine the canvas draws with.
func (c *Canvas) PaintEngine() PaintEngine {
	return c.engine
}

// SetPaintEngine replaces the engine the canvas draws with. Run installs a
// screen engine; tests can install a recording or null engine.
func (c *Canvas) SetPaintEngine(e PaintEngine) {
	if e == nil {
		e = NullPaintEngine()
	}
	c.engine = e
}

// Stop deactivates the canvas; the game loop exits on the next tick.
// Calling Stop more than once is a no-op.
func (c *Canvas) Stop() {
	if !c.active {
		return
	}
	c.active = false
	if c.OnStop != nil {
		c.OnStop(c)
	}
	logrus.WithField("frames", c.frame).Info("canvas stopped")
}

// --- Layer membership ---------------------------------------------------

// Layers returns the top-level layers in draw order (first drawn first).
// The returned slice MUST NOT be mutated by the caller.
func (c *Canvas) Layers() []*Layer {
	return c.layers
}

// Append adds layer as the frontmost top-level layer. If the layer is
// already in a container (layer or canvas), it is removed from that
// container first.
func (c *Canvas) Append(layer *Layer) {
	if layer == nil {
		panic("nodebox: cannot append nil layer")
	}
	layer.detach()
	layer.canvas = c
	c.layers = append(c.layers, layer)
	flushWorld(layer)
}

// Insert adds layer at the given index among the top-level layers.
func (c *Canvas) Insert(index int, layer *Layer) {
	if layer == nil {
		panic("nodebox: cannot insert nil layer")
	}
	if index < 0 || index > len(c.layers) {
		panic("nodebox: layer index out of range")
	}
	layer.detach()
	layer.canvas = c
	c.layers = append(c.layers, nil)
	copy(c.layers[index+1:], c.layers[index:])
	c.layers[index] = layer
	flushWorld(layer)
}

// Remove detaches layer from the canvas, preserving the layer's subtree.
// Panics if the layer is not attached to this canvas.
func (c *Canvas) Remove(layer *Layer) {
	if layer == nil || layer.canvas != c {
		panic("nodebox: layer is not attached to this canvas")
	}
	c.removeLayer(layer)
	layer.canvas = nil
	flushWorld(layer)
}

// Pop removes and returns the top-level layer at the given index.
func (c *Canvas) Pop(index int) *Layer {
	if index < 0 || index >= len(c.layers) {
		panic("nodebox: layer index out of range")
	}
	layer := c.layers[index]
	c.Remove(layer)
	return layer
}

func (c *Canvas) removeLayer(layer *Layer) {
	if c.focus != nil && isAncestorLayer(layer, c.focus) {
		c.focus = nil
	}
	for i, l := range c.layers {
		if l == layer {
			copy(c.layers[i:], c.layers[i+1:])
			c.layers[len(c.layers)-1] = nil
			c.layers = c.layers[:len(c.layers)-1]
			return
		}
	}
}

// LayerAt returns the frontmost enabled-or-not layer at (x, y), or nil.
// Frontmost top-level layers are tested first.
func (c *Canvas) LayerAt(x, y float64, opt HitTest) *Layer {
	for i := len(c.layers) - 1; i >= 0; i-- {
		if hit := c.layers[i].LayerAt(x, y, opt); hit != nil {
			return hit
		}
	}
	return nil
}

// --- Frame tick ---------------------------------------------------------

// Update runs one frame tick: poll input (or consume one injected event),
// then — unless paused — advance the shared animation clock and update the
// layer trees. Implements ebiten.Game.
func (c *Canvas) Update() error {
	started := time.Now()

	tps := ebiten.TPS()
	if tps <= 0 {
		tps = ebiten.DefaultTPS
	}
	dt := 1.0 / float64(tps)
	c.elapsed = dt

	c.ProcessEvents()
	c.processInput()

	if !c.Paused {
		sharedClock.advance(dt)
		c.frame++
		if c.OnUpdate != nil {
			c.OnUpdate(c)
		}
		for _, l := range c.layers {
			l.update(sharedClock.now)
		}
	}

	if c.debug {
		c.logFrame("update", time.Since(started))
	}
	return nil
}

// Draw renders the background, the layers in order and the overlay.
// Implements ebiten.Game.
func (c *Canvas) Draw(screen *ebiten.Image) {
	started := time.Now()

	screen.Fill(c.Background.toRGBA())
	c.engine.Begin(screen)
	if c.OnDraw != nil {
		c.OnDraw(c)
	}
	for _, l := range c.layers {
		l.draw(c.engine)
	}
	if c.OnDrawOverlay != nil {
		c.OnDrawOverlay(c)
	}
	c.engine.End()

	if c.pendingShot != "" {
		if err := savePNG(screen, c.pendingShot); err != nil {
			logrus.WithError(err).Error("screenshot failed")
		} else {
			logrus.WithField("path", c.pendingShot).Info("screenshot saved")
		}
		c.pendingShot = ""
	}

	if c.debug {
		c.logFrame("draw", time.Since(started))
	}
}

// Layout reports the fixed logical screen size. Implements ebiten.Game.
func (c *Canvas) Layout(outsideWidth, outsideHeight int) (int, int) {
	return c.width, c.height
}

// --- Input polling ------------------------------------------------------

var pollButtons = [...]struct {
	ebiten ebiten.MouseButton
	button MouseButton
}{
	{ebiten.MouseButtonLeft, MouseButtonLeft},
	{ebiten.MouseButtonRight, MouseButtonRight},
	{ebiten.MouseButtonMiddle, MouseButtonMiddle},
}

// processInput consumes one injected event if any are queued (real input is
// skipped that frame so tests stay deterministic), otherwise polls ebiten.
func (c *Canvas) processInput() {
	if len(c.injected) > 0 {
		ev := c.injected[0]
		c.injected = c.injected[1:]
		ev.apply(c)
		return
	}
	if !c.active {
		return
	}

	mx, my := ebiten.CursorPosition()
	x, y := float64(mx), float64(my)
	if x != c.mouse.X || y != c.mouse.Y {
		if c.mouse.Pressed {
			c.handleMouseDrag(x, y)
		} else {
			c.handleMouseMotion(x, y)
		}
	}
	for _, pb := range pollButtons {
		if inpututil.IsMouseButtonJustPressed(pb.ebiten) {
			c.handleMousePress(x, y, pb.button)
		}
		if inpututil.IsMouseButtonJustReleased(pb.ebiten) {
			c.handleMouseRelease(x, y, pb.button)
		}
	}
	if sx, sy := ebiten.Wheel(); sx != 0 || sy != 0 {
		c.handleMouseScroll(x, y, sx, sy)
	}

	chars := ebiten.AppendInputChars(nil)
	if len(chars) > 0 {
		c.keys.Char = string(chars)
	} else {
		c.keys.Char = ""
	}
	for _, key := range inpututil.AppendJustPressedKeys(nil) {
		c.handleKeyPress(key, c.keys.Char)
	}
	for _, key := range inpututil.AppendJustReleasedKeys(nil) {
		c.handleKeyRelease(key)
	}
}

// --- Event dispatch -----------------------------------------------------
//
// Each handler fires the canvas-level callback first, then the single layer
// concerned (the layer under the cursor, or the focused layer). Events are
// never propagated up the layer tree.

// refocus moves the mouse focus to layer, firing leave/enter callbacks on
// the layers losing and gaining it.
func (c *Canvas) refocus(layer *Layer) {
	if c.focus == layer {
		return
	}
	if c.focus != nil {
		c.focus.Focus = false
		c.focus.fireMouseLeave(c.mouse)
	}
	c.focus = layer
	if layer != nil {
		layer.Focus = true
		layer.fireMouseEnter(c.mouse)
	}
}

func (c *Canvas) handleMouseMotion(x, y float64) {
	c.mouse.DX = x - c.mouse.X
	c.mouse.DY = y - c.mouse.Y
	c.mouse.X = x
	c.mouse.Y = y
	if c.Enabled {
		c.fireMouseMotion(c.mouse)
	}
	c.refocus(c.LayerAt(x, y, HitTest{Enabled: true}))
	if c.focus != nil {
		c.focus.fireMouseMotion(c.mouse)
	}
}

func (c *Canvas) handleMousePress(x, y float64, b MouseButton) {
	c.mouse.X = x
	c.mouse.Y = y
	c.mouse.Button = b
	c.mouse.Modifiers = c.keys.Modifiers
	c.mouse.Pressed = true
	if c.Enabled {
		c.fireMousePress(c.mouse)
	}
	c.refocus(c.LayerAt(x, y, HitTest{Enabled: true}))
	if c.focus != nil {
		c.focus.Pressed = true
		c.focus.fireMousePress(c.mouse)
	}
}

func (c *Canvas) handleMouseRelease(x, y float64, b MouseButton) {
	c.mouse.X = x
	c.mouse.Y = y
	c.mouse.Button = MouseButtonNone
	c.mouse.Pressed = false
	c.mouse.Dragged = false
	if c.Enabled {
		c.fireMouseRelease(c.mouse)
	}
	if c.focus != nil {
		c.focus.Pressed = false
		c.focus.Dragged = false
		c.focus.fireMouseRelease(c.mouse)
	}
	// A drag may have moved the cursor off the pressed layer.
	c.refocus(c.LayerAt(x, y, HitTest{Enabled: true}))
}

func (c *Canvas) handleMouseDrag(x, y float64) {
	c.mouse.DX = x - c.mouse.X
	c.mouse.DY = y - c.mouse.Y
	c.mouse.X = x
	c.mouse.Y = y
	c.mouse.Dragged = true
	if c.Enabled {
		c.fireMouseDrag(c.mouse)
	}
	// Drags stick to the layer that received the press, even when the
	// cursor leaves its bounds.
	if c.focus != nil {
		c.focus.Dragged = true
		c.focus.fireMouseDrag(c.mouse)
	}
}

func (c *Canvas) handleMouseScroll(x, y float64, sx, sy float64) {
	c.mouse.X = x
	c.mouse.Y = y
	c.mouse.Scroll = Point{X: sx, Y: sy}
	if c.Enabled {
		c.fireMouseScroll(c.mouse)
	}
	if layer := c.LayerAt(x, y, HitTest{Enabled: true}); layer != nil {
		layer.fireMouseScroll(c.mouse)
	}
}

func (c *Canvas) handleKeyPress(key ebiten.Key, char string) {
	c.keys.press(key)
	c.keys.Char = char
	c.keys.Pressed = true
	if c.Enabled {
		c.fireKeyPress(c.keys)
	}
	if c.focus != nil {
		c.focus.fireKeyPress(c.keys)
	}

	switch {
	case key == ebiten.KeyEscape:
		c.Stop()
	case key == ebiten.KeyP && c.keys.Modifiers&ModCtrl != 0:
		c.Paused = !c.Paused
	case key == ebiten.KeyF11:
		ebiten.SetFullscreen(!ebiten.IsFullscreen())
	case key == ebiten.KeyS && c.keys.Modifiers&ModCtrl != 0:
		c.pendingShot = fmt.Sprintf("screenshot-%d.png", c.frame)
	}
}

func (c *Canvas) handleKeyRelease(key ebiten.Key) {
	c.keys.release(key)
	c.keys.Pressed = len(c.keys.down) > 0
	if c.Enabled {
		c.fireKeyRelease(c.keys)
	}
	if c.focus != nil {
		c.focus.fireKeyRelease(c.keys)
	}
}
