package host

import (
	"context"
	"math"
	"time"

	"github.com/zeusync/bumparena/internal/core/arena"
	"github.com/zeusync/bumparena/internal/core/events/bus"
	"github.com/zeusync/bumparena/internal/core/observability/log"
	"github.com/zeusync/bumparena/internal/core/systems/physics"
)

const (
	clockPeriodMs       = 1000
	defaultCommandQueue = 64
	defaultFrameBuffer  = 8
	autopilotDeadZone   = 8
)

// Host plays the role of the game framework around an arena.Engine: it
// integrates motion, detects overlaps, runs the timers and calls the engine
// in a fixed order every step. Only the goroutine running Step or Run may
// touch the engine.
type Host struct {
	engine *arena.Engine
	clock  Clock
	logger log.Log
	bus    bus.EventBus

	autopilot bool
	input     arena.Input
	hasInput  bool

	chestAccum int64
	clockAccum int64
	tick       uint64

	commands chan Command
	frames   chan Frame
}

type Option func(*Host)

func WithClock(c Clock) Option {
	return func(h *Host) { h.clock = c }
}

func WithLogger(l log.Log) Option {
	return func(h *Host) { h.logger = l }
}

// WithBus publishes every step's effects to b.
func WithBus(b bus.EventBus) Option {
	return func(h *Host) { h.bus = b }
}

// WithAutopilot steers the player toward the nearest AI until a controller sends input.
func WithAutopilot(enabled bool) Option {
	return func(h *Host) { h.autopilot = enabled }
}

func WithFrameBuffer(n int) Option {
	return func(h *Host) { h.frames = make(chan Frame, n) }
}

func New(engine *arena.Engine, opts ...Option) (*Host, error) {
	if engine == nil {
		return nil, ErrNilEngine
	}
	h := &Host{
		engine:   engine,
		clock:    NewWallClock(),
		logger:   log.Nop(),
		commands: make(chan Command, defaultCommandQueue),
		frames:   make(chan Frame, defaultFrameBuffer),
	}
	for _, opt := range opts {
		opt(h)
	}
	h.logger = h.logger.With(log.String("component", "host"))
	return h, nil
}

func (h *Host) Engine() *arena.Engine { return h.engine }

// Frames delivers one frame per step. Slow readers miss frames rather than
// stalling the loop. The channel is closed when Run returns.
func (h *Host) Frames() <-chan Frame { return h.frames }

// Submit queues a command for the loop goroutine. It never blocks.
func (h *Host) Submit(cmd Command) error {
	if err := cmd.Validate(); err != nil {
		return err
	}
	select {
	case h.commands <- cmd:
		return nil
	default:
		return ErrCommandQueueFull
	}
}

// Run steps the simulation tickRate times per second until ctx is done.
func (h *Host) Run(ctx context.Context, tickRate int) error {
	if tickRate <= 0 {
		return ErrInvalidTickRate
	}
	defer close(h.frames)

	ticker := time.NewTicker(time.Second / time.Duration(tickRate))
	defer ticker.Stop()

	h.logger.Info("simulation loop started", log.Int("tick_rate", tickRate))
	last := h.clock.NowMs()
	for {
		select {
		case <-ctx.Done():
			h.logger.Info("simulation loop stopped", log.Uint64("ticks", h.tick))
			return nil
		case <-ticker.C:
			now := h.clock.NowMs()
			h.Step(now - last)
			last = now
		}
	}
}

// Step advances the world by dtMs and emits a frame.
func (h *Host) Step(dtMs int64) Frame {
	now := h.clock.NowMs()
	h.applyCommands(now)

	match := h.engine.Match()
	if !match.IsOver && !match.IsPaused && dtMs > 0 {
		h.advance(now, dtMs)
	}
	return h.emitFrame(now)
}

func (h *Host) advance(now, dtMs int64) {
	e := h.engine

	in := h.input
	if !h.hasInput && h.autopilot {
		in = h.autopilotInput()
	}
	e.ApplyInput(in)

	h.integrate(dtMs)
	h.resolveWalls()
	h.clampToWorld()
	h.resolveCars(now)

	if e.ChestTouched() {
		e.CollectChest(now)
	}

	h.runTimers(now, dtMs)
	e.Update(now)
}

func (h *Host) integrate(dtMs int64) {
	dt := float64(dtMs) / 1000
	damping := math.Pow(h.engine.Tuning().CarLinearDrag, dt)
	for _, v := range h.engine.Vehicles() {
		if !v.HasBody {
			continue
		}
		v.Vel = v.Vel.Scale(damping)
		v.Pos = v.Pos.Add(v.Vel.Scale(dt))
	}
}

// resolveWalls pushes each touching vehicle out of the wall, then lets the
// engine bounce it.
func (h *Host) resolveWalls() {
	for _, v := range h.engine.Vehicles() {
		if !v.HasBody {
			continue
		}
		for _, w := range h.engine.Walls() {
			if !w.Touches(v) {
				continue
			}
			separateFromWall(v, w)
			h.engine.ResolveWallHit(v, w)
		}
	}
}

func separateFromWall(v *arena.Vehicle, w arena.Wall) {
	n := w.NormalFor(v.Pos)
	half := math.Abs(n.X)*w.Bounds.Width/2 + math.Abs(n.Y)*w.Bounds.Height/2
	face := w.Bounds.Center.Dot(n) + half
	if depth := face + v.Radius - v.Pos.Dot(n); depth > 0 {
		v.Pos = v.Pos.Add(n.Scale(depth))
	}
}

// clampToWorld keeps bodies inside the fence. Velocity pointing out of the
// world is dropped, matching a zero-bounce world boundary.
func (h *Host) clampToWorld() {
	t := h.engine.Tuning()
	for _, v := range h.engine.Vehicles() {
		minX, maxX := t.ArenaMargin+v.Radius, t.Width-t.ArenaMargin-v.Radius
		minY, maxY := t.ArenaMargin+v.Radius, t.Height-t.ArenaMargin-v.Radius
		if v.Pos.X < minX {
			v.Pos.X = minX
			v.Vel.X = max(v.Vel.X, 0)
		} else if v.Pos.X > maxX {
			v.Pos.X = maxX
			v.Vel.X = min(v.Vel.X, 0)
		}
		if v.Pos.Y < minY {
			v.Pos.Y = minY
			v.Vel.Y = max(v.Vel.Y, 0)
		} else if v.Pos.Y > maxY {
			v.Pos.Y = maxY
			v.Vel.Y = min(v.Vel.Y, 0)
		}
	}
}

func (h *Host) resolveCars(now int64) {
	vehicles := h.engine.Vehicles()
	for _, pair := range candidatePairs(vehicles) {
		a, b := vehicles[pair[0]], vehicles[pair[1]]
		if !a.Overlaps(b) {
			continue
		}
		separateCars(a, b)
		h.engine.ResolveCarHit(a, b, now)
	}
}

// separateCars moves both bodies half the penetration depth apart.
func separateCars(a, b *arena.Vehicle) {
	n, _, ok := physics.NormalAndTangent(a.Pos, b.Pos)
	if !ok {
		return
	}
	depth := a.Radius + b.Radius - physics.Distance(a.Pos, b.Pos)
	if depth <= 0 {
		return
	}
	a.Pos = a.Pos.Sub(n.Scale(depth / 2))
	b.Pos = b.Pos.Add(n.Scale(depth / 2))
}

func (h *Host) runTimers(now, dtMs int64) {
	t := h.engine.Tuning()

	h.chestAccum += dtMs
	for h.chestAccum >= t.ChestSpawnIntervalMs {
		h.chestAccum -= t.ChestSpawnIntervalMs
		h.engine.SpawnChest(now)
	}

	h.clockAccum += dtMs
	for h.clockAccum >= clockPeriodMs && !h.engine.Match().IsOver {
		h.clockAccum -= clockPeriodMs
		h.engine.TickClock()
	}
}

func (h *Host) autopilotInput() arena.Input {
	p := h.engine.Player()
	var (
		target physics.Vec2
		best   = math.Inf(1)
	)
	for _, v := range h.engine.AIVehicles() {
		if d := p.Pos.DistanceSq(v.Pos); d < best {
			best, target = d, v.Pos
		}
	}
	if math.IsInf(best, 1) {
		return arena.Input{}
	}
	d := target.Sub(p.Pos)
	return arena.Input{
		Left:  d.X < -autopilotDeadZone,
		Right: d.X > autopilotDeadZone,
		Up:    d.Y < -autopilotDeadZone,
		Down:  d.Y > autopilotDeadZone,
	}
}

func (h *Host) applyCommands(now int64) {
	for {
		select {
		case cmd := <-h.commands:
			h.apply(cmd, now)
		default:
			return
		}
	}
}

func (h *Host) apply(cmd Command, now int64) {
	switch cmd.Kind {
	case CommandInput:
		h.input = cmd.Input
		h.hasInput = true
	case CommandPause:
		h.engine.TogglePause(now)
	case CommandRestart:
		h.engine.Restart(now)
		h.chestAccum, h.clockAccum = 0, 0
		h.input, h.hasInput = arena.Input{}, false
	}
}

func (h *Host) emitFrame(now int64) Frame {
	h.tick++
	effects := h.engine.DrainEffects()
	if h.bus != nil {
		if err := arena.PublishEffects(h.bus, "host", effects); err != nil {
			h.logger.Warn("effect delivery failed", log.Error(err))
		}
	}
	f := Frame{
		Tick:    h.tick,
		At:      now,
		State:   h.engine.Snapshot(),
		Effects: effects,
	}
	select {
	case h.frames <- f:
	default:
		h.logger.Debug("frame dropped", log.Uint64("tick", h.tick))
	}
	return f
}
