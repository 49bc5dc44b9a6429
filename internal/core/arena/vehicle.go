package arena

import (
	"fmt"

	"github.com/zeusync/bumparena/internal/core/systems/physics"
)

type Kind uint8

const (
	KindPlayer Kind = iota
	KindAI
)

func (k Kind) String() string {
	if k == KindAI {
		return "ai"
	}
	return "player"
}

// Facing is the sprite direction of a vehicle. It never affects physics.
type Facing uint8

const (
	FacingDown Facing = iota
	FacingUp
	FacingLeft
	FacingRight
)

func (f Facing) String() string {
	switch f {
	case FacingUp:
		return "up"
	case FacingLeft:
		return "left"
	case FacingRight:
		return "right"
	default:
		return "down"
	}
}

// FacingFor derives a facing from the dominant velocity axis. Equal axes face
// horizontally. ok is false for a zero velocity.
func FacingFor(vel physics.Vec2) (f Facing, ok bool) {
	if vel.IsZero() {
		return FacingDown, false
	}
	ax, ay := vel.X, vel.Y
	if ax < 0 {
		ax = -ax
	}
	if ay < 0 {
		ay = -ay
	}
	if ax >= ay {
		if vel.X > 0 {
			return FacingRight, true
		}
		return FacingLeft, true
	}
	if vel.Y > 0 {
		return FacingDown, true
	}
	return FacingUp, true
}

// OptTime is an optional engine timestamp in milliseconds.
type OptTime struct {
	At    int64
	Valid bool
}

func At(ms int64) OptTime { return OptTime{At: ms, Valid: true} }

// Shift moves a set timestamp by d. Unset timestamps stay unset.
func (o OptTime) Shift(d int64) OptTime {
	if !o.Valid {
		return o
	}
	return OptTime{At: o.At + d, Valid: true}
}

// Ptr returns nil for an unset timestamp.
func (o OptTime) Ptr() *int64 {
	if !o.Valid {
		return nil
	}
	at := o.At
	return &at
}

// AIState is the wander/stuck bookkeeping owned by one AI vehicle.
type AIState struct {
	DirectionChangeAt int64
	StuckSince        int64
	LastKnownPosition physics.Vec2

	// LastScoredAt anchors the cooldown for being rammed by the player.
	LastScoredAt OptTime
}

type Vehicle struct {
	ID     string
	Kind   Kind
	Base   string
	Pos    physics.Vec2
	Vel    physics.Vec2
	Radius float64
	Facing Facing

	// HasBody is false for a vehicle whose physics body is gone. Resolvers skip it.
	HasBody bool
	AI      *AIState
}

func NewPlayer(pos physics.Vec2, radius float64) *Vehicle {
	return &Vehicle{
		ID:      "player",
		Kind:    KindPlayer,
		Base:    "player",
		Pos:     pos,
		Radius:  radius,
		Facing:  FacingDown,
		HasBody: true,
	}
}

// NewAI creates the i-th AI vehicle. Sprite bases cycle through ten colors.
func NewAI(i int, pos physics.Vec2, radius float64, now int64) *Vehicle {
	return &Vehicle{
		ID:      fmt.Sprintf("ai-%d", i),
		Kind:    KindAI,
		Base:    fmt.Sprintf("ai%d", i%10),
		Pos:     pos,
		Radius:  radius,
		Facing:  FacingDown,
		HasBody: true,
		AI: &AIState{
			StuckSince:        now,
			LastKnownPosition: pos,
		},
	}
}

func (v *Vehicle) IsAI() bool { return v.Kind == KindAI && v.AI != nil }

func (v *Vehicle) TextureKey() string {
	return v.Base + "_" + v.Facing.String()
}

// Overlaps reports whether the two collision circles intersect.
func (v *Vehicle) Overlaps(o *Vehicle) bool {
	r := v.Radius + o.Radius
	return v.Pos.DistanceSq(o.Pos) < r*r
}
