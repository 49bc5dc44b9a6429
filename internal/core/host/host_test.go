package host

import (
	"context"
	"math"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/bumparena/internal/core/arena"
	"github.com/zeusync/bumparena/internal/core/events/bus"
	"github.com/zeusync/bumparena/internal/core/systems/physics"
)

type fakeClock struct {
	now atomic.Int64
}

func (c *fakeClock) NowMs() int64 { return c.now.Load() }

func (c *fakeClock) Advance(ms int64) { c.now.Add(ms) }

func newTestHost(t *testing.T, mutate func(*arena.Tuning), opts ...Option) (*Host, *fakeClock) {
	t.Helper()
	tuning := arena.DefaultTuning()
	if mutate != nil {
		mutate(&tuning)
	}
	engine, err := arena.NewEngine(tuning, 0, arena.WithRand(arena.NewRand(21)))
	require.NoError(t, err)

	clock := &fakeClock{}
	h, err := New(engine, append([]Option{WithClock(clock)}, opts...)...)
	require.NoError(t, err)
	return h, clock
}

func TestNewRejectsNilEngine(t *testing.T) {
	_, err := New(nil)
	assert.ErrorIs(t, err, ErrNilEngine)
}

func TestStepIntegratesPlayerInput(t *testing.T) {
	h, clock := newTestHost(t, func(tu *arena.Tuning) { tu.AICount = 0 })
	require.NoError(t, h.Submit(Command{Kind: CommandInput, Input: arena.Input{Right: true}}))

	clock.Advance(100)
	f := h.Step(100)

	p := h.Engine().Player()
	wantVel := 200 * math.Pow(0.9, 0.1)
	assert.InDelta(t, wantVel, p.Vel.X, 1e-9)
	assert.InDelta(t, 400+wantVel*0.1, p.Pos.X, 1e-9)
	assert.Equal(t, uint64(1), f.Tick)
	assert.Equal(t, int64(100), f.At)
	assert.Equal(t, "player_right", f.State.Vehicles[0].Texture)
}

func TestWallContactIsSeparatedThenResolved(t *testing.T) {
	h, clock := newTestHost(t, func(tu *arena.Tuning) { tu.AICount = 1 })
	ai := h.Engine().AIVehicles()[0]
	ai.AI.DirectionChangeAt = 1 << 60
	ai.Pos = physics.V(400, 42)
	ai.Vel = physics.V(0, -100)

	clock.Advance(10)
	f := h.Step(10)

	// Pushed to the wall face (y = 22 + 24), nudged by 2, then bounced with the floor speed.
	assert.InDelta(t, 48, ai.Pos.Y, 1e-9)
	assert.InDelta(t, -144, ai.Vel.Y, 1e-9)
	assert.InDelta(t, 0, ai.Vel.X, 1e-9)

	sounds := 0
	for _, e := range f.Effects {
		if e.Kind == arena.EffectSound && e.Text == arena.SoundWall {
			sounds++
		}
	}
	assert.Equal(t, 1, sounds)
}

func TestOverlappingCarsAreResolved(t *testing.T) {
	h, clock := newTestHost(t, func(tu *arena.Tuning) { tu.AICount = 1 })
	p, ai := h.Engine().Player(), h.Engine().AIVehicles()[0]
	ai.AI.DirectionChangeAt = 1 << 60
	ai.AI.LastKnownPosition = physics.V(0, 0)
	p.Pos = physics.V(400, 300)
	ai.Pos = physics.V(440, 300)

	clock.Advance(1000)
	f := h.Step(16)

	assert.InDelta(t, 396, p.Pos.X, 1e-9)
	assert.InDelta(t, 444, ai.Pos.X, 1e-9)
	assert.InDelta(t, 180, ai.Vel.X, 1e-9)
	assert.InDelta(t, 0, ai.Vel.Y, 1e-9)
	assert.Equal(t, ai.Vel.Neg(), p.Vel)
	assert.Equal(t, 1, f.State.Match.Score)
}

func TestCandidatePairs(t *testing.T) {
	vs := []*arena.Vehicle{
		arena.NewPlayer(physics.V(100, 100), 24),
		arena.NewAI(0, physics.V(140, 100), 24, 0),
		arena.NewAI(1, physics.V(600, 400), 24, 0),
		arena.NewAI(2, physics.V(120, 130), 24, 0),
	}
	assert.Equal(t, [][2]int{{0, 1}, {0, 3}, {1, 3}}, candidatePairs(vs))

	vs[3].HasBody = false
	assert.Equal(t, [][2]int{{0, 1}}, candidatePairs(vs))
	assert.Nil(t, candidatePairs(vs[2:3]))
}

func TestTimersDriveClockAndChest(t *testing.T) {
	h, clock := newTestHost(t, func(tu *arena.Tuning) {
		tu.AICount = 0
		tu.GameDurationSeconds = 3
		tu.ChestSpawnIntervalMs = 1500
	})
	e := h.Engine()

	clock.Advance(1000)
	h.Step(1000)
	assert.Equal(t, 2, e.Match().TimeLeftSeconds)
	assert.Nil(t, e.Chest())

	clock.Advance(1000)
	h.Step(1000)
	assert.Equal(t, 1, e.Match().TimeLeftSeconds)
	assert.True(t, e.Chest() != nil || e.Powerup().Active)

	clock.Advance(1000)
	f := h.Step(1000)
	assert.True(t, f.State.Match.IsOver)
	assert.Equal(t, 0, f.State.Match.TimeLeftSeconds)
	assert.Nil(t, f.State.Chest)

	clock.Advance(1000)
	f = h.Step(1000)
	assert.Equal(t, 0, f.State.Match.TimeLeftSeconds)
}

func TestPauseCommandFreezesTimers(t *testing.T) {
	h, clock := newTestHost(t, func(tu *arena.Tuning) { tu.AICount = 2 })
	e := h.Engine()

	require.NoError(t, h.Submit(Command{Kind: CommandPause}))
	clock.Advance(500)
	h.Step(500)
	require.True(t, e.Match().IsPaused)
	assert.Equal(t, arena.At(500), e.PauseAnchor())

	clock.Advance(5000)
	f := h.Step(5000)
	assert.Equal(t, 240, f.State.Match.TimeLeftSeconds)
	for _, v := range f.State.Vehicles {
		assert.True(t, v.Vel.IsZero(), v.ID)
	}

	require.NoError(t, h.Submit(Command{Kind: CommandPause}))
	clock.Advance(10)
	h.Step(10)
	assert.False(t, e.Match().IsPaused)
	for _, v := range e.AIVehicles() {
		assert.GreaterOrEqual(t, v.AI.StuckSince, int64(5000))
	}
}

func TestRestartCommand(t *testing.T) {
	h, clock := newTestHost(t, func(tu *arena.Tuning) { tu.AICount = 1 })
	h.Engine().EndGame()

	require.NoError(t, h.Submit(Command{Kind: CommandRestart}))
	clock.Advance(20)
	f := h.Step(20)
	assert.False(t, f.State.Match.IsOver)
	assert.Equal(t, 240, f.State.Match.TimeLeftSeconds)
}

func TestSubmitValidation(t *testing.T) {
	h, _ := newTestHost(t, nil)
	assert.ErrorIs(t, h.Submit(Command{Kind: "jump"}), ErrUnknownCommand)

	for i := 0; i < defaultCommandQueue; i++ {
		require.NoError(t, h.Submit(Command{Kind: CommandInput}))
	}
	assert.ErrorIs(t, h.Submit(Command{Kind: CommandInput}), ErrCommandQueueFull)
}

func TestAutopilotChasesNearestAI(t *testing.T) {
	h, clock := newTestHost(t, func(tu *arena.Tuning) { tu.AICount = 2 }, WithAutopilot(true))
	ais := h.Engine().AIVehicles()
	for _, v := range ais {
		v.AI.DirectionChangeAt = 1 << 60
	}
	ais[0].Pos = physics.V(200, 300)
	ais[1].Pos = physics.V(700, 500)

	clock.Advance(16)
	h.Step(16)
	p := h.Engine().Player()
	assert.Less(t, p.Vel.X, 0.0)
	assert.InDelta(t, 0, p.Vel.Y, 1e-9)

	// Remote input takes over.
	require.NoError(t, h.Submit(Command{Kind: CommandInput, Input: arena.Input{Down: true}}))
	clock.Advance(16)
	h.Step(16)
	assert.InDelta(t, 0, p.Vel.X, 1e-9)
	assert.Greater(t, p.Vel.Y, 0.0)
}

func TestEffectsArePublished(t *testing.T) {
	b := bus.New()
	var got []string
	_, err := b.Subscribe(string(arena.EffectPauseOverlay), func(ev bus.Event) error {
		got = append(got, ev.Source())
		return nil
	})
	require.NoError(t, err)

	h, clock := newTestHost(t, nil, WithBus(b))
	require.NoError(t, h.Submit(Command{Kind: CommandPause}))
	clock.Advance(1)
	h.Step(1)
	assert.Equal(t, []string{"host"}, got)
}

func TestRunStopsOnCancel(t *testing.T) {
	h, clock := newTestHost(t, nil)
	assert.ErrorIs(t, h.Run(context.Background(), 0), ErrInvalidTickRate)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- h.Run(ctx, 200) }()

	clock.Advance(5)
	select {
	case f, ok := <-h.Frames():
		require.True(t, ok)
		assert.Positive(t, f.Tick)
	case <-time.After(2 * time.Second):
		t.Fatal("no frame produced")
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return")
	}
	for range h.Frames() {
	}
}
