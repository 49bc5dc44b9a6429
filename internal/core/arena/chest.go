package arena

import (
	"github.com/zeusync/bumparena/internal/core/observability/log"
	"github.com/zeusync/bumparena/internal/core/systems/physics"
)

const chestInset = 32

// SpawnChest places a new chest, replacing any existing one.
func (e *Engine) SpawnChest(now int64) {
	if e.match.IsOver || e.match.IsPaused {
		return
	}
	if e.chest != nil {
		e.emit(Effect{Kind: EffectChestRemoved, Pos: e.chest.Pos})
		e.chest = nil
	}

	inset := int(e.tuning.Padding()) + chestInset
	pos := physics.V(
		float64(between(e.rng, inset, int(e.tuning.Width)-inset)),
		float64(between(e.rng, inset, int(e.tuning.Height)-inset)),
	)
	e.chest = &BonusChest{Pos: pos, Radius: e.tuning.ChestBodyRadius, SpawnedAt: now}
	e.emit(Effect{Kind: EffectChestSpawned, Pos: pos, Value: e.chest.Radius})
}

// ChestTouched reports whether the player overlaps the chest.
func (e *Engine) ChestTouched() bool {
	if e.chest == nil || e.player == nil {
		return false
	}
	r := e.player.Radius + e.chest.Radius
	return e.player.Pos.DistanceSq(e.chest.Pos) < r*r
}

// CollectChest consumes the chest and starts the powerup. It is ignored while
// a powerup is already running.
func (e *Engine) CollectChest(now int64) bool {
	if e.chest == nil || e.powerup.Active || e.match.IsPaused || e.match.IsOver {
		return false
	}
	pos := e.chest.Pos
	e.chest = nil
	e.powerup.Activate(now)

	e.emit(
		Effect{Kind: EffectBurst, Pos: pos, Value: burstParticles},
		Effect{Kind: EffectChestRemoved, Pos: pos},
		Effect{Kind: EffectTint, VehicleID: e.player.ID, Value: powerupTint},
		soundEffect(SoundPowerup),
	)
	e.logger.Info("powerup collected", log.Int64("ends_at", e.powerup.EndsAt.At))
	return true
}
