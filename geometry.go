package nodebox

import "math"

// Unbounded marks a layer dimension as unset/infinite. A layer created
// without an explicit width or height stretches indefinitely; operations
// that need a finite bound either fall back to zero (origin conversion)
// or fail (Flatten).
var Unbounded = math.Inf(1)

// IsUnbounded reports whether v is the Unbounded sentinel.
func IsUnbounded(v float64) bool {
	return math.IsInf(v, 1)
}

// Point is a 2D coordinate.
type Point struct {
	X, Y float64
}

// Bounds is an axis-aligned rectangle. The coordinate system has its origin
// at the top-left, with Y increasing downward.
type Bounds struct {
	X, Y, Width, Height float64
}

// Contains reports whether the point (x, y) lies inside the bounds.
// Points on the edge are considered inside.
func (b Bounds) Contains(x, y float64) bool {
	return x >= b.X && x <= b.X+b.Width &&
		y >= b.Y && y <= b.Y+b.Height
}

// Union returns the smallest bounds enclosing both b and other.
func (b Bounds) Union(other Bounds) Bounds {
	x := math.Min(b.X, other.X)
	y := math.Min(b.Y, other.Y)
	return Bounds{
		X:      x,
		Y:      y,
		Width:  math.Max(b.X+b.Width, other.X+other.Width) - x,
		Height: math.Max(b.Y+b.Height, other.Y+other.Height) - y,
	}
}

// Unbounded reports whether any edge of the bounds is infinite.
func (b Bounds) Unbounded() bool {
	return math.IsInf(b.X, 0) || math.IsInf(b.Y, 0) ||
		math.IsInf(b.Width, 0) || math.IsInf(b.Height, 0)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// smoothstep returns the Hermite interpolation of x between edge0 and edge1:
// 0.0 below edge0, 1.0 above edge1, and a smooth ease in between.
func smoothstep(edge0, edge1, x float64) float64 {
	t := clamp((x-edge0)/(edge1-edge0), 0, 1)
	return t * t * (3 - 2*t)
}

// pointInPolygon determines membership by ray casting: a horizontal ray from
// (x, y) crossing the polygon's sides an odd number of times means inside.
// Results very close to the boundary are not reliable.
func pointInPolygon(points []Point, x, y float64) bool {
	odd := false
	n := len(points)
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		x0, y0 := points[i].X, points[i].Y
		x1, y1 := points[j].X, points[j].Y
		if (y0 < y && y1 >= y) || (y1 < y && y0 >= y) {
			if x0+(y-y0)/(y1-y0)*(x1-x0) < x {
				odd = !odd
			}
		}
	}
	return odd
}
