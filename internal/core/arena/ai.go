package arena

import (
	"math"

	"github.com/zeusync/bumparena/internal/core/observability/log"
	"github.com/zeusync/bumparena/internal/core/observability/metrics"
	"github.com/zeusync/bumparena/internal/core/systems/physics"
)

const maxSpawnAttempts = 50

// tickAI runs one frame of wander, facing, boundary clamp and stuck detection.
func (e *Engine) tickAI(v *Vehicle, now int64) {
	st := v.AI
	if now > st.DirectionChangeAt {
		v.Vel = physics.FromAngle(e.randomHeading(), e.tuning.AIBaseSpeed)
		st.DirectionChangeAt = now + e.directionInterval()
	}

	e.refreshFacing(v)
	e.clampToPlayArea(v)

	tol := e.tuning.AIStuckTolerancePx
	if v.Pos.DistanceSq(st.LastKnownPosition) > tol*tol {
		st.LastKnownPosition = v.Pos
		st.StuckSince = now
		return
	}
	if now-st.StuckSince >= e.tuning.AIStuckTimeMs {
		e.ExplodeAndRespawn(v, now)
	}
}

func (e *Engine) clampToPlayArea(v *Vehicle) {
	minX, maxX, minY, maxY := e.tuning.playBounds()
	if v.Pos.X < minX {
		v.Pos.X = minX
		v.Vel.X = math.Abs(v.Vel.X)
	} else if v.Pos.X > maxX {
		v.Pos.X = maxX
		v.Vel.X = -math.Abs(v.Vel.X)
	}
	if v.Pos.Y < minY {
		v.Pos.Y = minY
		v.Vel.Y = math.Abs(v.Vel.Y)
	} else if v.Pos.Y > maxY {
		v.Pos.Y = maxY
		v.Vel.Y = -math.Abs(v.Vel.Y)
	}
}

// refreshFacing updates the facing of a moving vehicle and requests a new
// texture when it changed.
func (e *Engine) refreshFacing(v *Vehicle) {
	f, ok := FacingFor(v.Vel)
	if !ok || f == v.Facing {
		return
	}
	v.Facing = f
	e.emit(textureEffect(v))
}

// ExplodeAndRespawn flashes the vehicle's current spot and moves it to a free one.
func (e *Engine) ExplodeAndRespawn(v *Vehicle, now int64) {
	if e.frozen() || v == nil || !v.IsAI() {
		return
	}
	e.emit(
		Effect{Kind: EffectFlash, VehicleID: v.ID, Pos: v.Pos, Value: flashRadius},
		soundEffect(SoundExplosion),
	)
	from := v.Pos
	e.respawn(v, now)
	e.metrics.Respawn(metrics.RespawnStuck)
	e.logger.Debug("respawned stuck vehicle",
		log.String("vehicle", v.ID),
		log.Float64("from_x", from.X),
		log.Float64("from_y", from.Y),
		log.Float64("to_x", v.Pos.X),
		log.Float64("to_y", v.Pos.Y),
	)
}

// SimpleRespawn relocates the vehicle without any effect.
func (e *Engine) SimpleRespawn(v *Vehicle, now int64) {
	if e.frozen() || v == nil || !v.IsAI() {
		return
	}
	e.respawn(v, now)
	e.metrics.Respawn(metrics.RespawnReseed)
}

func (e *Engine) respawn(v *Vehicle, now int64) {
	spot, _ := e.FindFreeSpawnPoint(v)
	v.Pos = spot
	v.Vel = physics.FromAngle(e.randomHeading(), e.tuning.AIBaseSpeed)

	st := v.AI
	st.LastKnownPosition = spot
	st.StuckSince = now
	st.DirectionChangeAt = now + e.directionInterval()

	e.refreshFacing(v)
}

// FindFreeSpawnPoint samples up to 50 integer points in the padded interior and
// returns the first one that keeps the spawn clearance from the player and every
// AI vehicle other than exclude. When all attempts fail it returns one more
// random point with ok set to false.
func (e *Engine) FindFreeSpawnPoint(exclude *Vehicle) (spot physics.Vec2, ok bool) {
	fx0, fx1, fy0, fy1 := e.tuning.spawnBounds()
	minX, maxX := int(math.Ceil(fx0)), int(math.Floor(fx1))
	minY, maxY := int(math.Ceil(fy0)), int(math.Floor(fy1))

	clearance := e.tuning.SpawnClearance()
	clearanceSq := clearance * clearance

	for range maxSpawnAttempts {
		p := physics.V(float64(between(e.rng, minX, maxX)), float64(between(e.rng, minY, maxY)))
		if e.isClear(p, exclude, clearanceSq) {
			return p, true
		}
	}
	return physics.V(float64(between(e.rng, minX, maxX)), float64(between(e.rng, minY, maxY))), false
}

func (e *Engine) isClear(p physics.Vec2, exclude *Vehicle, clearanceSq float64) bool {
	if e.player != nil && e.player != exclude && p.DistanceSq(e.player.Pos) < clearanceSq {
		return false
	}
	for _, other := range e.ai {
		if other == exclude {
			continue
		}
		if p.DistanceSq(other.Pos) < clearanceSq {
			return false
		}
	}
	return true
}

func (e *Engine) randomHeading() float64 {
	return floatBetween(e.rng, 0, 2*math.Pi)
}

func (e *Engine) directionInterval() int64 {
	jitter := between(e.rng, 0, int(e.tuning.AIDirectionIntervalJitterMs))
	return e.tuning.AIDirectionIntervalBaseMs + int64(jitter)
}
