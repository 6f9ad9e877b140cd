package geom

import "math"

// Point is a position (or displacement) in the 2D world plane.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add returns p translated by d.
func (p Point) Add(d Point) Point {
	return Point{X: p.X + d.X, Y: p.Y + d.Y}
}

// Scale returns p with both components multiplied by f.
func (p Point) Scale(f float64) Point {
	return Point{X: p.X * f, Y: p.Y * f}
}

// Len returns the length of p treated as a vector.
func (p Point) Len() float64 {
	return math.Hypot(p.X, p.Y)
}

// Dist returns the euclidean distance between a and b.
func Dist(a, b Point) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

// StepToward returns from moved up to maxStep toward to. If to is closer
// than maxStep the result is exactly to, so callers can test arrival with
// equality or a small range check without overshooting.
func StepToward(from, to Point, maxStep float64) Point {
	d := Dist(from, to)
	if d <= maxStep || d == 0 {
		return to
	}
	f := maxStep / d
	return Point{
		X: from.X + (to.X-from.X)*f,
		Y: from.Y + (to.Y-from.Y)*f,
	}
}

// Rect is an axis-aligned rectangle, used for the world bounds and the
// depot zone.
type Rect struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Center returns the midpoint of the rectangle.
func (r Rect) Center() Point {
	return Point{X: r.X + r.W/2, Y: r.Y + r.H/2}
}

// Contains reports whether p falls inside the rectangle (inclusive edges).
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X <= r.X+r.W && p.Y >= r.Y && p.Y <= r.Y+r.H
}

// Clamp returns p constrained to lie inside the rectangle.
func (r Rect) Clamp(p Point) Point {
	if p.X < r.X {
		p.X = r.X
	}
	if p.X > r.X+r.W {
		p.X = r.X + r.W
	}
	if p.Y < r.Y {
		p.Y = r.Y
	}
	if p.Y > r.Y+r.H {
		p.Y = r.Y + r.H
	}
	return p
}
