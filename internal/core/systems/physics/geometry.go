package physics

// NormalAndTangent returns the unit vector from a to b and its perpendicular
// (-ny, nx). ok is false when a and b coincide.
func NormalAndTangent(a, b Vec2) (n, t Vec2, ok bool) {
	d := b.Sub(a)
	distSq := d.LenSq()
	if distSq == 0 {
		return Vec2{}, Vec2{}, false
	}
	n = d.Scale(1 / d.Len())
	return n, n.Perp(), true
}

// Reflect mirrors v across the unit normal n: v' = v - 2(v·n)n.
func Reflect(v, n Vec2) Vec2 {
	return v.Sub(n.Scale(2 * v.Dot(n)))
}

// Decompose splits v into its components along n and t.
func Decompose(v, n, t Vec2) (vn, vt float64) {
	return v.Dot(n), v.Dot(t)
}

// Compose is the inverse of Decompose.
func Compose(vn, vt float64, n, t Vec2) Vec2 {
	return n.Scale(vn).Add(t.Scale(vt))
}

// Rect is an axis-aligned rectangle described by its center and size.
type Rect struct {
	Center Vec2
	Width  float64
	Height float64
}

func (r Rect) MinX() float64 { return r.Center.X - r.Width/2 }
func (r Rect) MaxX() float64 { return r.Center.X + r.Width/2 }
func (r Rect) MinY() float64 { return r.Center.Y - r.Height/2 }
func (r Rect) MaxY() float64 { return r.Center.Y + r.Height/2 }

// ClosestPoint clamps p into the rectangle.
func (r Rect) ClosestPoint(p Vec2) Vec2 {
	return Vec2{X: clamp(p.X, r.MinX(), r.MaxX()), Y: clamp(p.Y, r.MinY(), r.MaxY())}
}

// OverlapsCircle reports whether a circle at c with the given radius
// intersects the rectangle.
func (r Rect) OverlapsCircle(c Vec2, radius float64) bool {
	return r.ClosestPoint(c).DistanceSq(c) < radius*radius
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
