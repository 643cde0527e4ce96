package nodebox

import (
	"errors"
	"fmt"
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
)

// recordingEngine captures the paint commands a layer tree emits, so draw
// order and scope pairing can be asserted without a GPU.
type recordingEngine struct {
	ops []string
}

func (e *recordingEngine) Begin(*ebiten.Image) { e.ops = append(e.ops, "begin") }
func (e *recordingEngine) End()                { e.ops = append(e.ops, "end") }
func (e *recordingEngine) Push()               { e.ops = append(e.ops, "push") }
func (e *recordingEngine) Pop()                { e.ops = append(e.ops, "pop") }
func (e *recordingEngine) Transform(Transform) { e.ops = append(e.ops, "transform") }
func (e *recordingEngine) SetAlpha(a float64) {
	e.ops = append(e.ops, fmt.Sprintf("alpha %.2f", a))
}
func (e *recordingEngine) BeginClip(w, h float64) { e.ops = append(e.ops, "clip") }
func (e *recordingEngine) EndClip()               { e.ops = append(e.ops, "endclip") }
func (e *recordingEngine) FillRect(x, y, w, h float64, c Color) {
	e.ops = append(e.ops, fmt.Sprintf("fill %gx%g", w, h))
}
func (e *recordingEngine) DrawImage(*ebiten.Image) { e.ops = append(e.ops, "image") }

func (e *recordingEngine) count(op string) int {
	n := 0
	for _, o := range e.ops {
		if o == op {
			n++
		}
	}
	return n
}

func (e *recordingEngine) fills() []string {
	var fills []string
	for _, o := range e.ops {
		if len(o) > 4 && o[:4] == "fill" {
			fills = append(fills, o)
		}
	}
	return fills
}

func fillSelf(l *Layer) {
	l.OnDraw = func(l *Layer, e PaintEngine) {
		e.FillRect(0, 0, l.Width(), l.Height(), ColorWhite)
	}
}

func TestDrawOrder(t *testing.T) {
	p := sized("p", 0, 0, 100, 100)
	below := sized("below", 0, 0, 10, 10)
	below.Top = false
	above := sized("above", 0, 0, 20, 20)
	p.Extend(below, above)
	fillSelf(p)
	fillSelf(below)
	fillSelf(above)

	e := &recordingEngine{}
	p.draw(e)

	// Bottom children first, then the layer's own content, then top children.
	fills := e.fills()
	want := []string{"fill 10x10", "fill 100x100", "fill 20x20"}
	if len(fills) != len(want) {
		t.Fatalf("fills = %v, want %v", fills, want)
	}
	for i := range want {
		if fills[i] != want[i] {
			t.Fatalf("fills = %v, want %v", fills, want)
		}
	}
}

func TestDrawHidden(t *testing.T) {
	l := sized("l", 0, 0, 100, 100)
	fillSelf(l)
	c := sized("c", 0, 0, 10, 10)
	fillSelf(c)
	l.Append(c)
	l.Hidden = true

	e := &recordingEngine{}
	l.draw(e)
	if len(e.ops) != 0 {
		t.Errorf("hidden layer emitted %v", e.ops)
	}
}

func TestDrawHiddenChildSkipped(t *testing.T) {
	l := sized("l", 0, 0, 100, 100)
	c := sized("c", 0, 0, 10, 10)
	fillSelf(c)
	l.Append(c)
	c.Hidden = true

	e := &recordingEngine{}
	l.draw(e)
	if len(e.fills()) != 0 {
		t.Errorf("hidden child emitted %v", e.fills())
	}
}

func TestDrawScopesBalanced(t *testing.T) {
	p := sized("p", 0, 0, 100, 100)
	p.Clipped = true
	mid := sized("mid", 10, 10, 50, 50)
	leaf := NewLayer("leaf") // unbounded and clipped, still balanced
	leaf.Clipped = true
	p.Append(mid)
	mid.Append(leaf)

	e := &recordingEngine{}
	p.draw(e)
	if e.count("push") != e.count("pop") {
		t.Errorf("push/pop unbalanced: %d vs %d", e.count("push"), e.count("pop"))
	}
	if e.count("clip") != 2 || e.count("endclip") != 2 {
		t.Errorf("clip/endclip = %d/%d, want 2/2", e.count("clip"), e.count("endclip"))
	}
}

func TestDrawOpacity(t *testing.T) {
	l := sized("l", 0, 0, 100, 100)
	l.SetOpacity(0.5)
	fillSelf(l)

	e := &recordingEngine{}
	l.draw(e)

	// The layer's own content draws at its opacity; alpha is restored after.
	want := []string{"alpha 0.50", "fill 100x100", "alpha 1.00"}
	idx := 0
	for _, op := range e.ops {
		if idx < len(want) && op == want[idx] {
			idx++
		}
	}
	if idx != len(want) {
		t.Errorf("ops = %v, want subsequence %v", e.ops, want)
	}
}

func TestFlattenUnbounded(t *testing.T) {
	if _, err := NewLayer("l").Flatten(); !errors.Is(err, ErrUnboundedLayer) {
		t.Errorf("err = %v, want ErrUnboundedLayer", err)
	}
}
