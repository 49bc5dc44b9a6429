package arena

import "github.com/zeusync/bumparena/internal/core/systems/physics"

// Wall is a static rectangle with an optional surface normal.
type Wall struct {
	Name   string
	Bounds physics.Rect
	Normal physics.Vec2

	// HasNormal is false when the normal should be inferred from orientation.
	HasNormal bool
}

// NormalFor returns the stored normal, or infers one pointing toward the side
// of the wall that pos is on.
func (w Wall) NormalFor(pos physics.Vec2) physics.Vec2 {
	if w.HasNormal {
		return w.Normal
	}
	if w.Bounds.Width > w.Bounds.Height {
		if pos.Y < w.Bounds.Center.Y {
			return physics.V(0, -1)
		}
		return physics.V(0, 1)
	}
	if pos.X < w.Bounds.Center.X {
		return physics.V(-1, 0)
	}
	return physics.V(1, 0)
}

// Touches reports whether a vehicle overlaps the wall.
func (w Wall) Touches(v *Vehicle) bool {
	return w.Bounds.OverlapsCircle(v.Pos, v.Radius)
}

// arenaWalls builds the four invisible walls centered on the fence line.
func arenaWalls(t Tuning) []Wall {
	m := t.ArenaMargin
	innerW := t.Width - m*2
	innerH := t.Height - m*2
	return []Wall{
		{
			Name:      "top",
			Bounds:    physics.Rect{Center: physics.V(m+innerW/2, m), Width: innerW, Height: t.WallThickness},
			Normal:    physics.V(0, 1),
			HasNormal: true,
		},
		{
			Name:      "bottom",
			Bounds:    physics.Rect{Center: physics.V(m+innerW/2, m+innerH), Width: innerW, Height: t.WallThickness},
			Normal:    physics.V(0, -1),
			HasNormal: true,
		},
		{
			Name:      "left",
			Bounds:    physics.Rect{Center: physics.V(m, m+innerH/2), Width: t.WallThickness, Height: innerH},
			Normal:    physics.V(1, 0),
			HasNormal: true,
		},
		{
			Name:      "right",
			Bounds:    physics.Rect{Center: physics.V(m+innerW, m+innerH/2), Width: t.WallThickness, Height: innerH},
			Normal:    physics.V(-1, 0),
			HasNormal: true,
		},
	}
}

// BonusChest is a single-use pickup.
type BonusChest struct {
	Pos       physics.Vec2 `json:"pos"`
	Radius    float64      `json:"radius"`
	SpawnedAt int64        `json:"spawned_at"`
}
