package vmath

import "math"

// Vec2 is a point or displacement in world points
type Vec2 struct {
	X, Y float64
}

// Add returns v+o
func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }

// Sub returns v-o
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }

// Len returns the Euclidean length
func (v Vec2) Len() float64 { return math.Hypot(v.X, v.Y) }

// Rect is an axis-aligned rectangle anchored at its top-left corner
type Rect struct {
	X, Y, W, H float64
}

// Right returns the exclusive right edge
func (r Rect) Right() float64 { return r.X + r.W }

// Bottom returns the exclusive bottom edge
func (r Rect) Bottom() float64 { return r.Y + r.H }

// Contains reports whether p lies inside r (edges inclusive on the top-left)
func (r Rect) Contains(p Vec2) bool {
	return p.X >= r.X && p.X < r.Right() && p.Y >= r.Y && p.Y < r.Bottom()
}

// Circle is a disc given by center and radius
type Circle struct {
	Center Vec2
	R      float64
}

// Contains reports whether p lies inside c
func (c Circle) Contains(p Vec2) bool {
	return Distance(c.Center, p) <= c.R
}

// Clamp constrains v to [lo, hi]. When hi < lo the result is lo.
func Clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(v, hi))
}

// ClampToBounds keeps a disc of the given radius inside a width x height surface
// anchored at the origin
func ClampToBounds(p Vec2, radius, width, height float64) Vec2 {
	return Vec2{
		X: Clamp(p.X, radius, width-radius),
		Y: Clamp(p.Y, radius, height-radius),
	}
}

// BallOverlapsRect tests the ball's bounding box against rect.
// Touching edges do not overlap.
func BallOverlapsRect(center Vec2, radius float64, r Rect) bool {
	return center.X+radius > r.X &&
		center.X-radius < r.Right() &&
		center.Y+radius > r.Y &&
		center.Y-radius < r.Bottom()
}

// Distance returns the Euclidean distance between a and b
func Distance(a, b Vec2) float64 {
	return b.Sub(a).Len()
}

// CirclesTouch reports a strict overlap: center distance below the radii sum
func CirclesTouch(a, b Circle) bool {
	return Distance(a.Center, b.Center) < a.R+b.R
}
