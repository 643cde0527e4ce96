package nodebox

import (
	"image"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

// PaintEngine is the drawing-backend boundary of the layer core. Layers
// describe their output against this surface; the core itself does not know
// about pixels or fonts, only "apply this 2D affine transform" and
// "constrain subsequent draws to this rectangle".
type PaintEngine interface {
	// Begin starts a frame targeting the given image.
	Begin(target *ebiten.Image)
	// End finishes the frame.
	End()
	// Push saves the current transform scope.
	Push()
	// Pop restores the most recently pushed transform scope.
	Pop()
	// Transform composes t into the current scope.
	Transform(t Transform)
	// SetAlpha sets the opacity applied to subsequent draws.
	SetAlpha(a float64)
	// BeginClip constrains subsequent draws to the rectangle (0, 0, w, h)
	// in the current scope. Must be balanced by EndClip.
	BeginClip(w, h float64)
	// EndClip removes the most recent clip.
	EndClip()
	// FillRect fills the rectangle (x, y, w, h) in the current scope.
	FillRect(x, y, w, h float64, c Color)
	// DrawImage draws an image with its top-left at the current scope origin.
	DrawImage(img *ebiten.Image)
}

// --- Screen paint engine ---

// screenPaintEngine renders to an ebiten image. Transforms are composed on
// a CPU-side stack and submitted per draw as a GeoM; clipping uses the
// axis-aligned bounding box of the transformed clip rectangle via SubImage.
type screenPaintEngine struct {
	target  *ebiten.Image
	current Transform
	alpha   float64
	stack   []Transform
	alphas  []float64
	clips   []*ebiten.Image
}

// NewScreenPaintEngine returns a paint engine that renders to ebiten images.
// This is the engine Run installs on a canvas.
func NewScreenPaintEngine() PaintEngine {
	return &screenPaintEngine{}
}

func (e *screenPaintEngine) Begin(target *ebiten.Image) {
	e.target = target
	e.current = Identity()
	e.alpha = 1
	e.stack = e.stack[:0]
	e.alphas = e.alphas[:0]
	e.clips = e.clips[:0]
}

func (e *screenPaintEngine) End() {
	e.target = nil
}

func (e *screenPaintEngine) Push() {
	e.stack = append(e.stack, e.current)
	e.alphas = append(e.alphas, e.alpha)
}

func (e *screenPaintEngine) Pop() {
	if n := len(e.stack); n > 0 {
		e.current = e.stack[n-1]
		e.stack = e.stack[:n-1]
		e.alpha = e.alphas[n-1]
		e.alphas = e.alphas[:n-1]
	}
}

func (e *screenPaintEngine) Transform(t Transform) {
	e.current = e.current.Mul(t)
}

func (e *screenPaintEngine) SetAlpha(a float64) {
	e.alpha = a
}

func (e *screenPaintEngine) BeginClip(w, h float64) {
	e.clips = append(e.clips, e.target)
	if e.target == nil || IsUnbounded(w) || IsUnbounded(h) {
		return
	}
	// SubImage is axis-aligned, so clip to the AABB of the transformed rect.
	corners := e.current.Map([]Point{{0, 0}, {w, 0}, {w, h}, {0, h}})
	minX, minY := corners[0].X, corners[0].Y
	maxX, maxY := minX, minY
	for _, p := range corners[1:] {
		minX = math.Min(minX, p.X)
		minY = math.Min(minY, p.Y)
		maxX = math.Max(maxX, p.X)
		maxY = math.Max(maxY, p.Y)
	}
	rect := image.Rect(
		int(math.Floor(minX)), int(math.Floor(minY)),
		int(math.Ceil(maxX)), int(math.Ceil(maxY)),
	).Intersect(e.target.Bounds())
	if rect.Empty() {
		rect = image.Rect(0, 0, 0, 0)
	}
	e.target = e.target.SubImage(rect).(*ebiten.Image)
}

func (e *screenPaintEngine) EndClip() {
	if n := len(e.clips); n > 0 {
		e.target = e.clips[n-1]
		e.clips = e.clips[:n-1]
	}
}

func (e *screenPaintEngine) geoM(t Transform) ebiten.GeoM {
	var m ebiten.GeoM
	m.SetElement(0, 0, t[0])
	m.SetElement(0, 1, t[2])
	m.SetElement(0, 2, t[4])
	m.SetElement(1, 0, t[1])
	m.SetElement(1, 1, t[3])
	m.SetElement(1, 2, t[5])
	return m
}

func (e *screenPaintEngine) FillRect(x, y, w, h float64, c Color) {
	if e.target == nil {
		return
	}
	t := e.current.Translate(x, y).Scale(w, h)
	opts := &ebiten.DrawImageOptions{GeoM: e.geoM(t)}
	opts.ColorScale.Scale(float32(c.R), float32(c.G), float32(c.B), float32(c.A))
	opts.ColorScale.ScaleAlpha(float32(e.alpha))
	e.target.DrawImage(WhitePixel, opts)
}

func (e *screenPaintEngine) DrawImage(img *ebiten.Image) {
	if e.target == nil || img == nil {
		return
	}
	opts := &ebiten.DrawImageOptions{GeoM: e.geoM(e.current)}
	opts.ColorScale.ScaleAlpha(float32(e.alpha))
	e.target.DrawImage(img, opts)
}

// --- Null paint engine ---

type nullPaintEngine struct{}

// NullPaintEngine returns a paint engine that discards all drawing. Useful
// for running a canvas headless (tests, batch animation runs).
func NullPaintEngine() PaintEngine {
	return nullPaintEngine{}
}

func (nullPaintEngine) Begin(*ebiten.Image)                 {}
func (nullPaintEngine) End()                                {}
func (nullPaintEngine) Push()                               {}
func (nullPaintEngine) Pop()                                {}
func (nullPaintEngine) Transform(Transform)                 {}
func (nullPaintEngine) SetAlpha(float64)                    {}
func (nullPaintEngine) BeginClip(w, h float64)              {}
func (nullPaintEngine) EndClip()                            {}
func (nullPaintEngine) FillRect(x, y, w, h float64, c Color) {}
func (nullPaintEngine) DrawImage(*ebiten.Image)             {}
