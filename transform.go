package nodebox

import "math"

// Transform is a 2D affine matrix [a, b, c, d, tx, ty]:
//
//	| a  c  tx |
//	| b  d  ty |
//	| 0  0   1 |
//
// Transform values compose by post-multiplication: t.Translate(x, y) applies
// the translation in t's local coordinate frame, matching the order in which
// a layer pushes its transformations while drawing.
type Transform [6]float64

// Identity returns the identity transform.
func Identity() Transform {
	return Transform{1, 0, 0, 1, 0, 0}
}

// Mul returns t * o, i.e. the transform that applies o first, then t.
func (t Transform) Mul(o Transform) Transform {
	return Transform{
		t[0]*o[0] + t[2]*o[1],
		t[1]*o[0] + t[3]*o[1],
		t[0]*o[2] + t[2]*o[3],
		t[1]*o[2] + t[3]*o[3],
		t[0]*o[4] + t[2]*o[5] + t[4],
		t[1]*o[4] + t[3]*o[5] + t[5],
	}
}

// Prepend returns o * t: the receiver applied first, then composed into o.
// Used to accumulate a parent's cumulative transform in front of a local one.
func (t Transform) Prepend(o Transform) Transform {
	return o.Mul(t)
}

// Translate returns t with a translation applied in t's local frame.
func (t Transform) Translate(x, y float64) Transform {
	return t.Mul(Transform{1, 0, 0, 1, x, y})
}

// Rotate returns t with a rotation (radians) applied in t's local frame.
func (t Transform) Rotate(r float64) Transform {
	sin, cos := math.Sincos(r)
	return t.Mul(Transform{cos, sin, -sin, cos, 0, 0})
}

// Scale returns t with a scale applied in t's local frame.
func (t Transform) Scale(sx, sy float64) Transform {
	return t.Mul(Transform{sx, 0, 0, sy, 0, 0})
}

// Apply maps the point (x, y) through the transform.
func (t Transform) Apply(x, y float64) (float64, float64) {
	return t[0]*x + t[2]*y + t[4], t[1]*x + t[3]*y + t[5]
}

// Map returns the given points mapped through the transform.
func (t Transform) Map(points []Point) []Point {
	out := make([]Point, len(points))
	for i, p := range points {
		x, y := t.Apply(p.X, p.Y)
		out[i] = Point{X: x, Y: y}
	}
	return out
}

// Invert returns the inverse transform.
// Returns the identity if the matrix is singular (determinant ≈ 0).
func (t Transform) Invert() Transform {
	det := t[0]*t[3] - t[2]*t[1]
	if det > -1e-12 && det < 1e-12 {
		return Identity()
	}
	invDet := 1.0 / det
	a := t[3] * invDet
	b := -t[1] * invDet
	c := -t[2] * invDet
	d := t[0] * invDet
	return Transform{
		a, b, c, d,
		-(a*t[4] + c*t[5]),
		-(b*t[4] + d*t[5]),
	}
}
