package arena

import "github.com/zeusync/bumparena/internal/core/systems/physics"

type VehicleSnapshot struct {
	ID      string       `json:"id"`
	Kind    string       `json:"kind"`
	Pos     physics.Vec2 `json:"pos"`
	Vel     physics.Vec2 `json:"vel"`
	Radius  float64      `json:"radius"`
	Facing  string       `json:"facing"`
	Texture string       `json:"texture"`
}

type PowerupSnapshot struct {
	Active bool   `json:"active"`
	EndsAt *int64 `json:"ends_at,omitempty"`
}

// Snapshot is a read-only copy of the match for presentation.
type Snapshot struct {
	Vehicles []VehicleSnapshot `json:"vehicles"`
	Chest    *BonusChest       `json:"chest,omitempty"`
	Match    MatchState        `json:"match"`
	Powerup  PowerupSnapshot   `json:"powerup"`
}

// Snapshot deep-copies the current state.
func (e *Engine) Snapshot() Snapshot {
	vehicles := e.Vehicles()
	s := Snapshot{
		Vehicles: make([]VehicleSnapshot, 0, len(vehicles)),
		Match:    e.match,
		Powerup:  PowerupSnapshot{Active: e.powerup.Active, EndsAt: e.powerup.EndsAt.Ptr()},
	}
	for _, v := range vehicles {
		s.Vehicles = append(s.Vehicles, VehicleSnapshot{
			ID:      v.ID,
			Kind:    v.Kind.String(),
			Pos:     v.Pos,
			Vel:     v.Vel,
			Radius:  v.Radius,
			Facing:  v.Facing.String(),
			Texture: v.TextureKey(),
		})
	}
	if e.chest != nil {
		c := *e.chest
		s.Chest = &c
	}
	return s
}
