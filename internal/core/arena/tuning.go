package arena

import (
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// Tuning holds the numeric constants of a match. It is read once when the
// engine is built and never changes for the session.
type Tuning struct {
	Width               float64 `yaml:"width"`
	Height              float64 `yaml:"height"`
	ArenaMargin         float64 `yaml:"arena_margin"`
	WallThickness       float64 `yaml:"wall_thickness"`
	GameDurationSeconds int     `yaml:"game_duration_seconds"`

	PlayerMaxSpeed float64 `yaml:"player_max_speed"`
	AIBaseSpeed    float64 `yaml:"ai_base_speed"`
	RecoilForce    float64 `yaml:"recoil_force"`
	CarBodyRadius  float64 `yaml:"car_body_radius"`
	CarLinearDrag  float64 `yaml:"car_linear_drag"`

	AIDirectionIntervalBaseMs   int64   `yaml:"ai_direction_interval_base_ms"`
	AIDirectionIntervalJitterMs int64   `yaml:"ai_direction_interval_jitter_ms"`
	AIStuckTolerancePx          float64 `yaml:"ai_stuck_tolerance_px"`
	AIStuckTimeMs               int64   `yaml:"ai_stuck_time_ms"`
	AIRespawnClearancePx        float64 `yaml:"ai_respawn_clearance_px"`
	AICount                     int     `yaml:"ai_count"`

	ScoringCooldownMs int64 `yaml:"scoring_cooldown_ms"`
	ShakeCooldownMs   int64 `yaml:"shake_cooldown_ms"`

	ChestSpawnIntervalMs    int64   `yaml:"chest_spawn_interval_ms"`
	ChestBodyRadius         float64 `yaml:"chest_body_radius"`
	PowerupDurationMs       int64   `yaml:"powerup_duration_ms"`
	PowerupSpeedMultiplier  float64 `yaml:"powerup_speed_multiplier"`
	PowerupRecoilMultiplier float64 `yaml:"powerup_recoil_multiplier"`
}

func DefaultTuning() Tuning {
	return Tuning{
		Width:               800,
		Height:              600,
		ArenaMargin:         16,
		WallThickness:       12,
		GameDurationSeconds: 240,

		PlayerMaxSpeed: 200,
		AIBaseSpeed:    120,
		RecoilForce:    180,
		CarBodyRadius:  24,
		CarLinearDrag:  0.9,

		AIDirectionIntervalBaseMs:   1200,
		AIDirectionIntervalJitterMs: 1000,
		AIStuckTolerancePx:          8,
		AIStuckTimeMs:               1000,
		AIRespawnClearancePx:        56,
		AICount:                     10,

		ScoringCooldownMs: 2000,
		ShakeCooldownMs:   500,

		ChestSpawnIntervalMs:    10000,
		ChestBodyRadius:         16,
		PowerupDurationMs:       5000,
		PowerupSpeedMultiplier:  1.5,
		PowerupRecoilMultiplier: 1.8,
	}
}

// LoadTuning decodes YAML over DefaultTuning, so a file only needs the keys it
// overrides. An empty reader yields the defaults.
func LoadTuning(r io.Reader) (Tuning, error) {
	t := DefaultTuning()
	if err := yaml.NewDecoder(r).Decode(&t); err != nil && !errors.Is(err, io.EOF) {
		return Tuning{}, fmt.Errorf("decode tuning: %w", err)
	}
	if err := t.Validate(); err != nil {
		return Tuning{}, err
	}
	return t, nil
}

func (t Tuning) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}

	check(t.Width > 0 && t.Height > 0, "arena size must be positive, got %vx%v", t.Width, t.Height)
	check(t.ArenaMargin >= 0 && t.WallThickness >= 0, "margin and wall thickness must be non-negative")
	check(t.GameDurationSeconds > 0, "game duration must be positive, got %d", t.GameDurationSeconds)
	check(t.PlayerMaxSpeed >= 0 && t.AIBaseSpeed >= 0 && t.RecoilForce >= 0, "speeds must be non-negative")
	check(t.CarBodyRadius > 0, "car body radius must be positive, got %v", t.CarBodyRadius)
	check(t.CarLinearDrag > 0 && t.CarLinearDrag <= 1, "linear drag must be in (0, 1], got %v", t.CarLinearDrag)
	check(t.AIDirectionIntervalBaseMs >= 0 && t.AIDirectionIntervalJitterMs >= 0, "direction interval must be non-negative")
	check(t.AIStuckTolerancePx >= 0 && t.AIStuckTimeMs >= 0, "stuck detection thresholds must be non-negative")
	check(t.AIRespawnClearancePx >= 0, "respawn clearance must be non-negative")
	check(t.AICount >= 0, "ai count must be non-negative, got %d", t.AICount)
	check(t.ScoringCooldownMs >= 0 && t.ShakeCooldownMs >= 0, "cooldowns must be non-negative")
	check(t.ChestSpawnIntervalMs > 0, "chest spawn interval must be positive")
	check(t.ChestBodyRadius >= 0 && t.PowerupDurationMs >= 0, "chest radius and powerup duration must be non-negative")
	check(t.PowerupSpeedMultiplier > 0 && t.PowerupRecoilMultiplier > 0, "powerup multipliers must be positive")

	minX, maxX, minY, maxY := t.spawnBounds()
	check(minX <= maxX && minY <= maxY, "spawn area is empty for %vx%v with margin %v", t.Width, t.Height, t.ArenaMargin)

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidTuning, errors.Join(errs...))
}

// Padding is the inset from the arena edge used for spawning.
func (t Tuning) Padding() float64 { return t.ArenaMargin * 2 }

// WallRecoilFloor is the minimum speed a car leaves a wall with.
func (t Tuning) WallRecoilFloor() float64 { return max(120, t.RecoilForce*0.8) }

// MinBump is the minimum speed after an AI/AI exchange.
func (t Tuning) MinBump() float64 { return max(80, t.RecoilForce*0.5) }

// SpawnClearance is the minimum distance between a respawned car and any other car.
func (t Tuning) SpawnClearance() float64 {
	return max(t.AIRespawnClearancePx, t.CarBodyRadius*2)
}

func (t Tuning) spawnBounds() (minX, maxX, minY, maxY float64) {
	inset := t.Padding() + t.CarBodyRadius
	return inset, t.Width - inset, inset, t.Height - inset
}

// playBounds is the rectangle AI centers are kept inside.
func (t Tuning) playBounds() (minX, maxX, minY, maxY float64) {
	inset := t.ArenaMargin + t.WallThickness
	return inset, t.Width - inset, inset, t.Height - inset
}
