package arena

import (
	"fmt"

	"github.com/zeusync/bumparena/internal/core/events/bus"
	"github.com/zeusync/bumparena/internal/core/systems/physics"
)

// EffectKind names a presentation side effect requested by the engine.
type EffectKind string

const (
	EffectShake        EffectKind = "shake"
	EffectFlash        EffectKind = "flash"
	EffectBurst        EffectKind = "burst"
	EffectTexture      EffectKind = "texture"
	EffectScoreText    EffectKind = "score_text"
	EffectTimeText     EffectKind = "time_text"
	EffectPauseOverlay EffectKind = "pause_overlay"
	EffectTint         EffectKind = "tint"
	EffectClearTint    EffectKind = "clear_tint"
	EffectChestSpawned EffectKind = "chest_spawned"
	EffectChestRemoved EffectKind = "chest_removed"
	EffectGameOver     EffectKind = "game_over"
	EffectSound        EffectKind = "sound"
)

// Sound names carried in Effect.Text for EffectSound.
const (
	SoundBump      = "bump"
	SoundWall      = "wall"
	SoundScore     = "score"
	SoundPowerup   = "powerup"
	SoundExplosion = "explosion"
	SoundGameOver  = "game_over"
)

const (
	shakeDurationMs = 150
	shakeIntensity  = 0.015
	flashRadius     = 30
	burstParticles  = 8
	powerupTint     = 0xffdd44
)

// Effect is a fire-and-forget request for the rendering or audio layer.
// Which fields are set depends on Kind.
type Effect struct {
	Kind       EffectKind   `json:"kind"`
	VehicleID  string       `json:"vehicle_id,omitempty"`
	Pos        physics.Vec2 `json:"pos"`
	Text       string       `json:"text,omitempty"`
	Value      float64      `json:"value,omitempty"`
	DurationMs int64        `json:"duration_ms,omitempty"`
	Visible    bool         `json:"visible,omitempty"`
}

func shakeEffect() Effect {
	return Effect{Kind: EffectShake, DurationMs: shakeDurationMs, Value: shakeIntensity}
}

func soundEffect(name string) Effect {
	return Effect{Kind: EffectSound, Text: name}
}

func textureEffect(v *Vehicle) Effect {
	return Effect{Kind: EffectTexture, VehicleID: v.ID, Pos: v.Pos, Text: v.TextureKey()}
}

func scoreTextEffect(score int) Effect {
	return Effect{Kind: EffectScoreText, Text: fmt.Sprintf("Score: %d", score), Value: float64(score)}
}

func timeTextEffect(left int) Effect {
	return Effect{Kind: EffectTimeText, Text: fmt.Sprintf("Time: %d", left), Value: float64(left)}
}

// PublishEffects forwards effects to the bus, one event per effect, typed by kind.
func PublishEffects(b bus.EventBus, source string, effects []Effect) error {
	if len(effects) == 0 {
		return nil
	}
	events := make([]bus.Event, len(effects))
	for i, e := range effects {
		events[i] = bus.NewEvent(string(e.Kind), source, e)
	}
	return b.PublishBatch(events...)
}
