package physics

import "math"

// Vec2 is a 2D vector in world units.
type Vec2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// V is shorthand for Vec2{X: x, Y: y}.
func V(x, y float64) Vec2 { return Vec2{X: x, Y: y} }

// FromAngle returns the unit vector at angle theta (radians) scaled by length.
func FromAngle(theta, length float64) Vec2 {
	return Vec2{X: math.Cos(theta) * length, Y: math.Sin(theta) * length}
}

func (v Vec2) Add(o Vec2) Vec2           { return Vec2{X: v.X + o.X, Y: v.Y + o.Y} }
func (v Vec2) Sub(o Vec2) Vec2           { return Vec2{X: v.X - o.X, Y: v.Y - o.Y} }
func (v Vec2) Scale(s float64) Vec2      { return Vec2{X: v.X * s, Y: v.Y * s} }
func (v Vec2) Neg() Vec2                 { return Vec2{X: -v.X, Y: -v.Y} }
func (v Vec2) Dot(o Vec2) float64        { return v.X*o.X + v.Y*o.Y }
func (v Vec2) Len() float64              { return math.Hypot(v.X, v.Y) }
func (v Vec2) LenSq() float64            { return v.X*v.X + v.Y*v.Y }
func (v Vec2) IsZero() bool              { return v.X == 0 && v.Y == 0 }
func (v Vec2) Perp() Vec2                { return Vec2{X: -v.Y, Y: v.X} }
func (v Vec2) DistanceSq(o Vec2) float64 { return v.Sub(o).LenSq() }

// Distance2 computes Euclidean distance between two 2D points.
func Distance2(x1, y1, x2, y2 float64) float64 { return math.Hypot(x2-x1, y2-y1) }

// Distance returns the Euclidean distance between a and b.
func Distance(a, b Vec2) float64 { return Distance2(a.X, a.Y, b.X, b.Y) }
