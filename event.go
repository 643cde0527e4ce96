package nodebox

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// EventHandler is the event capability shared by Layer and Canvas. Handler
// fields are nil by default; zero cost when unused. Assigning them replaces
// behavior without subclassing.
type EventHandler struct {
	// Enabled controls whether this object receives events from the canvas.
	Enabled bool
	// Focus is true while this object has the mouse focus.
	Focus bool
	// Pressed is true while the mouse is pressed on this object.
	Pressed bool
	// Dragged is true while the mouse is dragged on this object.
	Dragged bool

	OnMouseEnter   func(*Mouse)
	OnMouseLeave   func(*Mouse)
	OnMouseMotion  func(*Mouse)
	OnMousePress   func(*Mouse)
	OnMouseRelease func(*Mouse)
	OnMouseDrag    func(*Mouse)
	OnMouseScroll  func(*Mouse)
	OnKeyPress     func(*Keys)
	OnKeyRelease   func(*Keys)

	queue []func()
}

// QueueEvent defers fn until the next ProcessEvents call. Instead of firing
// a handler directly it can be queued, e.g.
// layer.QueueEvent(func() { layer.OnMousePress(canvas.Mouse()) }).
func (h *EventHandler) QueueEvent(fn func()) {
	h.queue = append(h.queue, fn)
}

// ProcessEvents runs and drains all queued events in order.
func (h *EventHandler) ProcessEvents() {
	for _, fn := range h.queue {
		fn()
	}
	h.queue = h.queue[:0]
}

func (h *EventHandler) fireMouseEnter(m *Mouse) {
	if h.OnMouseEnter != nil {
		h.OnMouseEnter(m)
	}
}

func (h *EventHandler) fireMouseLeave(m *Mouse) {
	if h.OnMouseLeave != nil {
		h.OnMouseLeave(m)
	}
}

func (h *EventHandler) fireMouseMotion(m *Mouse) {
	if h.OnMouseMotion != nil {
		h.OnMouseMotion(m)
	}
}

func (h *EventHandler) fireMousePress(m *Mouse) {
	if h.OnMousePress != nil {
		h.OnMousePress(m)
	}
}

func (h *EventHandler) fireMouseRelease(m *Mouse) {
	if h.OnMouseRelease != nil {
		h.OnMouseRelease(m)
	}
}

func (h *EventHandler) fireMouseDrag(m *Mouse) {
	if h.OnMouseDrag != nil {
		h.OnMouseDrag(m)
	}
}

func (h *EventHandler) fireMouseScroll(m *Mouse) {
	if h.OnMouseScroll != nil {
		h.OnMouseScroll(m)
	}
}

func (h *EventHandler) fireKeyPress(k *Keys) {
	if h.OnKeyPress != nil {
		h.OnKeyPress(k)
	}
}

func (h *EventHandler) fireKeyRelease(k *Keys) {
	if h.OnKeyRelease != nil {
		h.OnKeyRelease(k)
	}
}

// Mouse tracks the mouse position on the canvas, the buttons pressed and
// the cursor icon.
type Mouse struct {
	Point
	canvas *Canvas

	// Button is the mouse button currently pressed, or MouseButtonNone.
	Button MouseButton
	// Modifiers holds the modifier keys held during the last button event.
	Modifiers KeyModifiers
	// Pressed is true while a mouse button is down.
	Pressed bool
	// Dragged is true while the mouse moves with a button down.
	Dragged bool
	// Scroll is the scroll wheel offset of the last scroll event.
	Scroll Point
	// DX and DY are the offsets from the previous position.
	DX, DY float64

	cursor Cursor
}

func newMouse(c *Canvas) *Mouse {
	return &Mouse{canvas: c}
}

// RelativeX returns the horizontal position as a fraction of the canvas
// width, or 0 for a zero-width canvas.
func (m *Mouse) RelativeX() float64 {
	if m.canvas == nil || m.canvas.width == 0 {
		return 0
	}
	return m.X / float64(m.canvas.width)
}

// RelativeY returns the vertical position as a fraction of the canvas
// height, or 0 for a zero-height canvas.
func (m *Mouse) RelativeY() float64 {
	if m.canvas == nil || m.canvas.height == 0 {
		return 0
	}
	return m.Y / float64(m.canvas.height)
}

// Cursor returns the current cursor shape.
func (m *Mouse) Cursor() Cursor {
	return m.cursor
}

// SetCursor changes the mouse cursor shape
// (CursorCross, CursorHand, CursorHidden, CursorText, CursorMove).
func (m *Mouse) SetCursor(cur Cursor) {
	m.cursor = cur
	if cur == CursorHidden {
		ebiten.SetCursorMode(ebiten.CursorModeHidden)
		return
	}
	ebiten.SetCursorMode(ebiten.CursorModeVisible)
	ebiten.SetCursorShape(cur.ebitenShape())
}

// Keys tracks the keys pressed on the keyboard and any modifiers.
type Keys struct {
	// Code is the most recently pressed key still held down, or -1.
	Code ebiten.Key
	// Char is the text of the last key press (i.e. Shift + "a" = "A").
	Char string
	// Modifiers holds the modifier keys currently held.
	Modifiers KeyModifiers
	// Pressed is true while any key is down.
	Pressed bool

	down []ebiten.Key
}

func newKeys() *Keys {
	return &Keys{Code: -1}
}

// Down reports whether the given key is currently held.
func (k *Keys) Down(key ebiten.Key) bool {
	for _, d := range k.down {
		if d == key {
			return true
		}
	}
	return false
}

func modifierFor(key ebiten.Key) KeyModifiers {
	switch key {
	case ebiten.KeyShift, ebiten.KeyShiftLeft, ebiten.KeyShiftRight:
		return ModShift
	case ebiten.KeyControl, ebiten.KeyControlLeft, ebiten.KeyControlRight:
		return ModCtrl
	case ebiten.KeyAlt, ebiten.KeyAltLeft, ebiten.KeyAltRight:
		return ModAlt
	case ebiten.KeyMeta, ebiten.KeyMetaLeft, ebiten.KeyMetaRight:
		return ModMeta
	}
	return 0
}

func (k *Keys) press(key ebiten.Key) {
	k.Modifiers |= modifierFor(key)
	k.down = append(k.down, key)
	k.Code = key
}

func (k *Keys) release(key ebiten.Key) {
	k.Modifiers &^= modifierFor(key)
	// A release may arrive without a prior press; ignore it then.
	for i, d := range k.down {
		if d == key {
			k.down = append(k.down[:i], k.down[i+1:]...)
			break
		}
	}
	if len(k.down) > 0 {
		k.Code = k.down[len(k.down)-1]
	} else {
		k.Code = -1
	}
}
