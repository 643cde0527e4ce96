package nodebox

import (
	"errors"
	"image"
	"image/png"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
)

// ErrUnboundedLayer is returned when a layer without a finite size is
// rasterized.
var ErrUnboundedLayer = errors.New("nodebox: cannot flatten a layer of unbounded size")

// Flatten renders the layer and all of its children to a new image, sized to
// the layer's bounds. Fails with ErrUnboundedLayer when the layer (or one of
// its children) has no width or height set.
func (l *Layer) Flatten() (*ebiten.Image, error) {
	b := l.Bounds()
	if b.Unbounded() {
		return nil, ErrUnboundedLayer
	}
	w := int(b.Width + 0.5)
	h := int(b.Height + 0.5)
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	img := ebiten.NewImage(w, h)
	e := NewScreenPaintEngine()
	e.Begin(img)
	e.Push()
	// The layer tree draws in world coordinates; shift so the bounds'
	// top-left lands on the image origin.
	e.Transform(Identity().Translate(-b.X, -b.Y))
	if l.parent != nil {
		pdx, pdy := l.parent.Origin(false)
		e.Transform(l.parent.WorldTransform().Translate(pdx, pdy))
	}
	l.draw(e)
	e.Pop()
	e.End()
	return img, nil
}

// Screenshot queues a screenshot of the next drawn frame, written as PNG to
// the given path. Pressing Ctrl-S does the same with a generated filename.
func (c *Canvas) Screenshot(path string) {
	c.pendingShot = path
}

// savePNG encodes an ebiten image to a PNG file. Pixels come back from the
// GPU premultiplied; they are converted to straight alpha before encoding.
func savePNG(img *ebiten.Image, path string) error {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	buf := make([]byte, 4*w*h)
	img.ReadPixels(buf)

	out := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(buf); i += 4 {
		a := buf[i+3]
		if a == 0 {
			continue
		}
		out.Pix[i] = uint8(int(buf[i]) * 255 / int(a))
		out.Pix[i+1] = uint8(int(buf[i+1]) * 255 / int(a))
		out.Pix[i+2] = uint8(int(buf[i+2]) * 255 / int(a))
		out.Pix[i+3] = a
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, out); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
