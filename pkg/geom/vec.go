// Package geom defines the 2D primitives shared by the CSG engine and the
// kernel backends: vectors, oriented lines, segments and point loops.
package geom

import "math"

// Vec2 is an immutable 2D point or direction.
type Vec2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// V2 is shorthand for Vec2{X: x, Y: y}.
func V2(x, y float64) Vec2 {
	return Vec2{X: x, Y: y}
}

func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{v.X + o.X, v.Y + o.Y}
}

func (v Vec2) Sub(o Vec2) Vec2 {
	return Vec2{v.X - o.X, v.Y - o.Y}
}

func (v Vec2) MulScalar(k float64) Vec2 {
	return Vec2{v.X * k, v.Y * k}
}

func (v Vec2) DivScalar(k float64) Vec2 {
	return Vec2{v.X / k, v.Y / k}
}

func (v Vec2) Neg() Vec2 {
	return Vec2{-v.X, -v.Y}
}

func (v Vec2) Dot(o Vec2) float64 {
	return v.X*o.X + v.Y*o.Y
}

// Cross returns the z component of the 3D cross product of v and o.
func (v Vec2) Cross(o Vec2) float64 {
	return v.X*o.Y - v.Y*o.X
}

func (v Vec2) Length() float64 {
	return math.Sqrt(v.Dot(v))
}

func (v Vec2) LengthSquared() float64 {
	return v.Dot(v)
}

// Normalize returns the unit vector pointing in the direction of v.
// The zero vector has no direction; callers must not normalize it.
func (v Vec2) Normalize() Vec2 {
	return v.DivScalar(v.Length())
}

// Lerp linearly interpolates between v (t=0) and o (t=1).
func (v Vec2) Lerp(o Vec2, t float64) Vec2 {
	return v.Add(o.Sub(v).MulScalar(t))
}

// DistanceSquared returns the squared Euclidean distance between v and o.
func (v Vec2) DistanceSquared(o Vec2) float64 {
	dx := v.X - o.X
	dy := v.Y - o.Y
	return dx*dx + dy*dy
}

// Rotate rotates v counter-clockwise by rad radians around the origin.
func (v Vec2) Rotate(rad float64) Vec2 {
	s, c := math.Sincos(rad)
	return Vec2{v.X*c - v.Y*s, v.X*s + v.Y*c}
}

// ApproxEqual reports whether v and o are within tol of each other on both axes.
func (v Vec2) ApproxEqual(o Vec2, tol float64) bool {
	return math.Abs(v.X-o.X) <= tol && math.Abs(v.Y-o.Y) <= tol
}

// IsFinite reports whether both coordinates are neither NaN nor infinite.
func (v Vec2) IsFinite() bool {
	return !math.IsNaN(v.X) && !math.IsInf(v.X, 0) && !math.IsNaN(v.Y) && !math.IsInf(v.Y, 0)
}
