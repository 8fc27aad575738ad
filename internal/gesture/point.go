// internal/gesture/point.go
package gesture

import "math"

// Point is a screen coordinate, or a displacement between two coordinates.
type Point struct {
	X float64
	Y float64
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point { return Point{X: x, Y: y} }

// Add returns p + other.
func (p Point) Add(other Point) Point {
	return Point{X: p.X + other.X, Y: p.Y + other.Y}
}

// Sub returns p - other.
func (p Point) Sub(other Point) Point {
	return Point{X: p.X - other.X, Y: p.Y - other.Y}
}

// Mul scales both axes by scalar.
func (p Point) Mul(scalar float64) Point {
	return Point{X: p.X * scalar, Y: p.Y * scalar}
}

// Dist is the Euclidean distance between p and other.
func (p Point) Dist(other Point) float64 {
	// math.Hypot avoids overflow for large components.
	return math.Hypot(p.X-other.X, p.Y-other.Y)
}

// Step returns the position at step i of an n step linear path from p to end.
// The position is computed as p + delta*i from scratch for every i, so the
// last step lands on end without accumulated drift.
func (p Point) Step(end Point, i, n int) Point {
	d := end.Sub(p)
	delta := Point{X: d.X / float64(n), Y: d.Y / float64(n)}
	return p.Add(delta.Mul(float64(i)))
}
