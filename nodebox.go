package nodebox

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
)

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
// Premultiplication occurs at render submission time.
type Color struct {
	R, G, B, A float64
}

// ColorWhite is the default fill (no color modification).
var ColorWhite = Color{1, 1, 1, 1}

// veryLightGrey is the default canvas background.
var veryLightGrey = Color{0.95, 0.95, 0.95, 1}

func (c Color) toRGBA() color.RGBA {
	return color.RGBA{
		R: uint8(clamp(c.R, 0, 1) * 255),
		G: uint8(clamp(c.G, 0, 1) * 255),
		B: uint8(clamp(c.B, 0, 1) * 255),
		A: uint8(clamp(c.A, 0, 1) * 255),
	}
}

// WhitePixel is a 1x1 white image used for solid color fills.
var WhitePixel *ebiten.Image

func init() {
	WhitePixel = ebiten.NewImage(1, 1)
	WhitePixel.Fill(ColorWhite.toRGBA())
}

// Interpolation selects how a Transition approaches its target value.
type Interpolation uint8

const (
	// Linear is an even transition over the given duration.
	Linear Interpolation = iota
	// Smooth goes slower at the beginning and end (smoothstep).
	Smooth
)

// OriginMode determines how a layer's origin point is interpreted.
type OriginMode uint8

const (
	// Relative stores the origin as fractions (0.0-1.0) of width and height.
	Relative OriginMode = iota
	// Absolute stores the origin as pixel offsets.
	Absolute
)

// MouseButton identifies a mouse button.
type MouseButton uint8

const (
	MouseButtonNone   MouseButton = iota // no button pressed
	MouseButtonLeft                      // primary (left) mouse button
	MouseButtonRight                     // secondary (right) mouse button
	MouseButtonMiddle                    // middle mouse button (scroll wheel click)
)

// KeyModifiers is a bitmask of keyboard modifier keys.
// Values can be combined with bitwise OR (e.g. ModShift | ModCtrl).
type KeyModifiers uint8

const (
	ModShift KeyModifiers = 1 << iota // Shift key
	ModCtrl                           // Control key
	ModAlt                            // Alt / Option key
	ModMeta                           // Meta / Command / Windows key
)

// Cursor identifies a mouse cursor shape. Each maps to an ebiten cursor
// shape, except CursorHidden which hides the cursor entirely.
type Cursor uint8

const (
	CursorDefault Cursor = iota
	CursorHidden
	CursorCross
	CursorHand
	CursorText
	CursorMove
)

func (c Cursor) ebitenShape() ebiten.CursorShapeType {
	switch c {
	case CursorCross:
		return ebiten.CursorShapeCrosshair
	case CursorHand:
		return ebiten.CursorShapePointer
	case CursorText:
		return ebiten.CursorShapeText
	case CursorMove:
		return ebiten.CursorShapeMove
	default:
		return ebiten.CursorShapeDefault
	}
}
