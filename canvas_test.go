package nodebox

import (
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
)

func TestCanvasMembership(t *testing.T) {
	c := NewCanvas(200, 200)
	l := NewLayer("l")
	c.Append(l)
	if len(c.Layers()) != 1 || l.Canvas() != c {
		t.Fatal("layer not attached to canvas")
	}

	// Appending to a parent layer removes the layer from the canvas.
	p := NewLayer("p")
	p.Append(l)
	if len(c.Layers()) != 0 || l.Canvas() != nil || l.Parent() != p {
		t.Error("layer not moved atomically from canvas to parent")
	}

	// And back again.
	c.Append(l)
	if len(p.Children()) != 0 || l.Parent() != nil || l.Canvas() != c {
		t.Error("layer not moved atomically from parent to canvas")
	}

	other := NewCanvas(100, 100)
	assertPanics(t, "removing a foreign layer", func() { other.Remove(l) })
}

func TestCanvasLayerAtTopmost(t *testing.T) {
	c := NewCanvas(200, 200)
	a := sized("a", 0, 0, 100, 100)
	b := sized("b", 50, 50, 100, 100)
	c.Append(a)
	c.Append(b)
	if got := c.LayerAt(75, 75, HitTest{}); got != b {
		t.Errorf("overlap goes to %v, want the later-appended layer", name(got))
	}
	if got := c.LayerAt(25, 25, HitTest{}); got != a {
		t.Errorf("a-only area goes to %v", name(got))
	}
}

func TestCanvasPressDispatch(t *testing.T) {
	c := NewCanvas(200, 200)
	l := sized("btn", 50, 50, 100, 100)
	c.Append(l)

	log := []string{}
	c.OnMousePress = func(*Mouse) { log = append(log, "canvas:press") }
	l.OnMouseEnter = func(*Mouse) { log = append(log, "enter") }
	l.OnMousePress = func(*Mouse) { log = append(log, "press") }

	c.InjectPress(75, 75, MouseButtonLeft)
	c.Update()

	want := []string{"canvas:press", "enter", "press"}
	if len(log) != len(want) {
		t.Fatalf("events = %v, want %v", log, want)
	}
	for i := range want {
		if log[i] != want[i] {
			t.Fatalf("events = %v, want %v", log, want)
		}
	}
	if c.FocusedLayer() != l || !l.Focus || !l.Pressed {
		t.Error("pressed layer did not gain focus")
	}
	if !c.Mouse().Pressed || c.Mouse().Button != MouseButtonLeft {
		t.Error("mouse state not updated")
	}
}

func TestCanvasNoEventPropagation(t *testing.T) {
	c := NewCanvas(200, 200)
	p := sized("p", 0, 0, 200, 200)
	child := sized("child", 50, 50, 100, 100)
	p.Append(child)
	c.Append(p)

	pressed := []string{}
	p.OnMousePress = func(*Mouse) { pressed = append(pressed, "p") }
	child.OnMousePress = func(*Mouse) { pressed = append(pressed, "child") }

	c.InjectPress(75, 75, MouseButtonLeft)
	c.Update()

	// The event goes to the frontmost layer under the cursor and stops
	// there; it never bubbles to the parent.
	if len(pressed) != 1 || pressed[0] != "child" {
		t.Errorf("pressed = %v, want [child]", pressed)
	}
}

func TestCanvasFocusFollowsMotion(t *testing.T) {
	c := NewCanvas(400, 200)
	a := sized("a", 0, 0, 100, 100)
	b := sized("b", 200, 0, 100, 100)
	c.Append(a)
	c.Append(b)

	log := []string{}
	a.OnMouseEnter = func(*Mouse) { log = append(log, "enter:a") }
	a.OnMouseLeave = func(*Mouse) { log = append(log, "leave:a") }
	b.OnMouseEnter = func(*Mouse) { log = append(log, "enter:b") }

	c.InjectMove(50, 50)
	c.InjectMove(250, 50)
	c.Update()
	c.Update()

	want := []string{"enter:a", "leave:a", "enter:b"}
	if len(log) != len(want) {
		t.Fatalf("events = %v, want %v", log, want)
	}
	for i := range want {
		if log[i] != want[i] {
			t.Fatalf("events = %v, want %v", log, want)
		}
	}
	if c.FocusedLayer() != b || a.Focus || !b.Focus {
		t.Error("focus did not move to the second layer")
	}
}

func TestCanvasDragSticksToPressedLayer(t *testing.T) {
	c := NewCanvas(400, 400)
	a := sized("a", 0, 0, 100, 100)
	c.Append(a)

	drags := 0
	a.OnMouseDrag = func(m *Mouse) {
		drags++
		assertNear(t, "dx", m.DX, 225)
	}

	c.InjectPress(75, 75, MouseButtonLeft)
	c.InjectMove(300, 300)
	c.Update()
	c.Update()

	// The drag is delivered to the pressed layer even though the cursor
	// has left its bounds.
	if drags != 1 || !a.Dragged {
		t.Errorf("drags = %d, a.Dragged = %v", drags, a.Dragged)
	}
	if !c.Mouse().Dragged {
		t.Error("mouse drag state not set")
	}
}

func TestCanvasReleaseRefocuses(t *testing.T) {
	c := NewCanvas(400, 200)
	a := sized("a", 0, 0, 100, 100)
	b := sized("b", 200, 0, 100, 100)
	c.Append(a)
	c.Append(b)

	released := 0
	a.OnMouseRelease = func(*Mouse) { released++ }

	c.InjectPress(50, 50, MouseButtonLeft)
	c.InjectMove(250, 50)
	c.InjectRelease(250, 50, MouseButtonLeft)
	c.Update()
	c.Update()
	c.Update()

	if released != 1 {
		t.Errorf("released = %d, want 1 (on the pressed layer)", released)
	}
	if a.Pressed || a.Dragged || a.Focus {
		t.Error("pressed layer state not cleared on release")
	}
	if c.FocusedLayer() != b {
		t.Errorf("focus = %v, want the layer under the cursor", name(c.FocusedLayer()))
	}
}

func TestCanvasScrollDispatch(t *testing.T) {
	c := NewCanvas(200, 200)
	l := sized("l", 0, 0, 100, 100)
	c.Append(l)

	scrolls := 0
	l.OnMouseScroll = func(m *Mouse) {
		scrolls++
		assertNear(t, "scroll y", m.Scroll.Y, -1)
	}
	c.InjectScroll(50, 50, 0, -1)
	c.Update()
	if scrolls != 1 {
		t.Errorf("scrolls = %d", scrolls)
	}
}

func TestCanvasKeyDispatchToFocus(t *testing.T) {
	c := NewCanvas(200, 200)
	l := sized("l", 0, 0, 100, 100)
	c.Append(l)

	var got ebiten.Key = -1
	var char string
	l.OnKeyPress = func(k *Keys) {
		got = k.Code
		char = k.Char
	}

	c.InjectMove(50, 50)
	c.InjectKeyPress(ebiten.KeyA, "a")
	c.InjectKeyRelease(ebiten.KeyA)
	c.Update()
	c.Update()
	if got != ebiten.KeyA || char != "a" {
		t.Errorf("key = %v %q, want KeyA \"a\"", got, char)
	}
	if !c.Keys().Pressed {
		t.Error("key state not pressed")
	}

	c.Update()
	if c.Keys().Pressed || c.Keys().Code != -1 {
		t.Error("key state not cleared on release")
	}
}

func TestCanvasPausedSkipsUpdatesNotInput(t *testing.T) {
	c := NewCanvas(200, 200)
	l := sized("l", 0, 0, 100, 100)
	c.Append(l)
	updates := 0
	l.OnUpdate = func(*Layer) { updates++ }

	c.Paused = true
	before := sharedClock.now
	c.InjectPress(50, 50, MouseButtonLeft)
	c.Update()

	if c.Frame() != 0 || updates != 0 {
		t.Error("paused canvas advanced the frame")
	}
	if sharedClock.now != before {
		t.Error("paused canvas advanced the clock")
	}
	// Input still reaches the layers while paused.
	if !l.Pressed {
		t.Error("paused canvas dropped the press")
	}

	c.Paused = false
	c.InjectMove(51, 51)
	c.Update()
	if c.Frame() != 1 || updates != 1 {
		t.Error("unpaused canvas did not resume")
	}
}

func TestCanvasEscapeStops(t *testing.T) {
	c := NewCanvas(200, 200)
	stops := 0
	c.OnStop = func(*Canvas) { stops++ }

	c.InjectKeyPress(ebiten.KeyEscape, "")
	c.Update()
	if c.Active() {
		t.Fatal("escape did not stop the canvas")
	}
	c.Stop()
	if stops != 1 {
		t.Errorf("stops = %d, want exactly 1", stops)
	}
}

func TestCanvasCtrlPTogglesPause(t *testing.T) {
	c := NewCanvas(200, 200)
	c.InjectKeyPress(ebiten.KeyControlLeft, "")
	c.InjectKeyPress(ebiten.KeyP, "")
	c.Update()
	c.Update()
	if !c.Paused {
		t.Error("Ctrl-P did not pause")
	}
}

func TestCanvasQueuedEvents(t *testing.T) {
	c := NewCanvas(200, 200)
	ran := false
	c.QueueEvent(func() { ran = true })
	c.Update()
	if !ran {
		t.Error("queued event did not run on the next tick")
	}
}
