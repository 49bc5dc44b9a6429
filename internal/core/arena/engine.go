package arena

import (
	"fmt"

	"github.com/zeusync/bumparena/internal/core/observability/log"
	"github.com/zeusync/bumparena/internal/core/observability/metrics"
	"github.com/zeusync/bumparena/internal/core/systems/physics"
)

// Engine is the arena simulation. It is not safe for concurrent use; one
// goroutine owns it and feeds it collisions and frame ticks.
type Engine struct {
	tuning  Tuning
	rng     Rand
	logger  log.Log
	metrics *metrics.Instruments

	player *Vehicle
	ai     []*Vehicle
	walls  []Wall
	chest  *BonusChest

	match       MatchState
	powerup     PowerupState
	pause       PauseClock
	lastShakeAt int64

	effects []Effect
}

type Option func(*Engine)

func WithRand(r Rand) Option {
	return func(e *Engine) { e.rng = r }
}

func WithLogger(l log.Log) Option {
	return func(e *Engine) { e.logger = l }
}

func WithMetrics(m *metrics.Instruments) Option {
	return func(e *Engine) { e.metrics = m }
}

// NewEngine validates the tuning and sets up a fresh match at engine time now.
func NewEngine(t Tuning, now int64, opts ...Option) (*Engine, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	e := &Engine{
		tuning: t,
		rng:    EntropyRand(),
		logger: log.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = e.logger.With(log.String("component", "arena"))
	e.reset(now)
	return e, nil
}

func (e *Engine) reset(now int64) {
	t := e.tuning
	e.match = MatchState{TimeLeftSeconds: t.GameDurationSeconds}
	e.powerup = newPowerup(t)
	e.pause = PauseClock{}
	e.chest = nil
	e.lastShakeAt = 0
	e.effects = nil
	e.walls = arenaWalls(t)

	e.player = NewPlayer(physics.V(t.Width/2, t.Height/2), t.CarBodyRadius)
	pad := int(t.Padding())
	e.ai = make([]*Vehicle, t.AICount)
	for i := range e.ai {
		pos := physics.V(
			float64(between(e.rng, pad, int(t.Width)-pad)),
			float64(between(e.rng, pad, int(t.Height)-pad)),
		)
		e.ai[i] = NewAI(i, pos, t.CarBodyRadius, now)
	}

	e.emit(scoreTextEffect(0), timeTextEffect(e.match.TimeLeftSeconds))
	for _, v := range e.Vehicles() {
		e.emit(textureEffect(v))
	}
}

// Restart throws the current match away and starts a new one with the same tuning.
func (e *Engine) Restart(now int64) {
	e.reset(now)
	e.logger.Info("match restarted", log.Int("ai_count", len(e.ai)))
}

// Update runs the per-frame pass: powerup expiry, then each AI in order.
func (e *Engine) Update(now int64) {
	if e.match.IsOver || e.match.IsPaused {
		return
	}
	if e.powerup.Tick(now) {
		e.emit(Effect{Kind: EffectClearTint, VehicleID: e.player.ID})
		e.logger.Info("powerup expired", log.Int64("at", now))
	}
	for _, v := range e.ai {
		e.tickAI(v, now)
	}
}

// TickClock counts the match down by one second and ends it at zero.
func (e *Engine) TickClock() {
	if e.match.IsOver || e.match.IsPaused {
		return
	}
	e.match.TimeLeftSeconds--
	if e.match.TimeLeftSeconds < 0 {
		e.match.TimeLeftSeconds = 0
	}
	e.emit(timeTextEffect(e.match.TimeLeftSeconds))
	if e.match.TimeLeftSeconds == 0 {
		e.EndGame()
	}
}

// EndGame is the terminal transition. Calling it again does nothing.
func (e *Engine) EndGame() {
	if e.match.IsOver {
		return
	}
	e.match.IsOver = true
	if e.match.IsPaused {
		e.match.IsPaused = false
		e.pause = PauseClock{}
		e.emit(Effect{Kind: EffectPauseOverlay, Visible: false})
	}
	e.stopAll()
	if e.chest != nil {
		e.emit(Effect{Kind: EffectChestRemoved, Pos: e.chest.Pos})
		e.chest = nil
	}
	e.emit(
		Effect{
			Kind:  EffectGameOver,
			Text:  fmt.Sprintf("Game Over!\nScore: %d", e.match.Score),
			Value: float64(e.match.Score),
		},
		soundEffect(SoundGameOver),
	)
	e.logger.Info("game over", log.Int("score", e.match.Score))
}

// TogglePause freezes the match or resumes it. On resume every absolute
// timestamp is shifted by the paused duration before play continues.
func (e *Engine) TogglePause(now int64) {
	if e.match.IsOver {
		return
	}
	e.match.IsPaused = !e.match.IsPaused
	if e.match.IsPaused {
		e.pause.Begin(now)
		e.stopAll()
		e.emit(Effect{Kind: EffectPauseOverlay, Visible: true})
		e.logger.Info("paused", log.Int64("at", now))
		return
	}

	d := e.pause.End(now)
	e.shiftTimers(d)
	e.emit(Effect{Kind: EffectPauseOverlay, Visible: false})
	e.logger.Info("resumed", log.Int64("at", now), log.Int64("paused_ms", d))
}

func (e *Engine) shiftTimers(d int64) {
	if d <= 0 {
		return
	}
	for _, v := range e.ai {
		st := v.AI
		st.StuckSince += d
		st.DirectionChangeAt += d
		st.LastScoredAt = st.LastScoredAt.Shift(d)
	}
	e.powerup.Shift(d)
}

// frozen reports whether collisions and respawns are currently ignored.
func (e *Engine) frozen() bool {
	return e.match.IsOver || e.match.IsPaused
}

func (e *Engine) stopAll() {
	for _, v := range e.Vehicles() {
		v.Vel = physics.Vec2{}
	}
}

// Input is the state of the four direction keys.
type Input struct {
	Up    bool `json:"up"`
	Down  bool `json:"down"`
	Left  bool `json:"left"`
	Right bool `json:"right"`
}

// ApplyInput sets the player velocity from the pressed keys.
func (e *Engine) ApplyInput(in Input) {
	if e.match.IsOver || e.match.IsPaused {
		return
	}
	speed := e.powerup.Speed(e.tuning.PlayerMaxSpeed)
	var vel physics.Vec2
	if in.Left {
		vel.X -= speed
	}
	if in.Right {
		vel.X += speed
	}
	if in.Up {
		vel.Y -= speed
	}
	if in.Down {
		vel.Y += speed
	}
	e.player.Vel = vel
	e.refreshFacing(e.player)
}

func (e *Engine) emit(effects ...Effect) {
	e.effects = append(e.effects, effects...)
}

// DrainEffects returns the effects recorded since the last call.
func (e *Engine) DrainEffects() []Effect {
	out := e.effects
	e.effects = nil
	return out
}

func (e *Engine) Tuning() Tuning         { return e.tuning }
func (e *Engine) Player() *Vehicle       { return e.player }
func (e *Engine) AIVehicles() []*Vehicle { return e.ai }
func (e *Engine) Walls() []Wall          { return e.walls }
func (e *Engine) Chest() *BonusChest     { return e.chest }
func (e *Engine) Match() MatchState      { return e.match }
func (e *Engine) Powerup() PowerupState  { return e.powerup }
func (e *Engine) PauseAnchor() OptTime   { return e.pause.Anchor() }

// Vehicles lists the player first, then the AI vehicles in creation order.
func (e *Engine) Vehicles() []*Vehicle {
	out := make([]*Vehicle, 0, len(e.ai)+1)
	out = append(out, e.player)
	return append(out, e.ai...)
}
