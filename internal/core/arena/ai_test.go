package arena

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/bumparena/internal/core/systems/physics"
)

func TestFacingFor(t *testing.T) {
	cases := []struct {
		vel  physics.Vec2
		want Facing
	}{
		{physics.V(10, 0), FacingRight},
		{physics.V(-10, 3), FacingLeft},
		{physics.V(2, 30), FacingDown},
		{physics.V(2, -30), FacingUp},
		{physics.V(50, 50), FacingRight},
		{physics.V(-50, -50), FacingLeft},
	}
	for _, tc := range cases {
		got, ok := FacingFor(tc.vel)
		require.True(t, ok, tc.vel)
		assert.Equal(t, tc.want, got, tc.vel)
	}

	_, ok := FacingFor(physics.Vec2{})
	assert.False(t, ok)
}

func TestWanderPicksHeadingAndSchedules(t *testing.T) {
	r := &seqRand{vals: []float64{0.5}}
	e := newTestEngine(t, r, func(tu *Tuning) { tu.AICount = 1 })
	v := e.AIVehicles()[0]
	v.Pos = physics.V(400, 300)
	v.AI.LastKnownPosition = v.Pos
	v.AI.StuckSince = 0

	r.vals = []float64{0.25, 0.5}
	r.draws = 0
	e.Update(100)

	assert.InDelta(t, 0, v.Vel.X, 1e-9)
	assert.InDelta(t, 120, v.Vel.Y, 1e-9)
	// 1200 base plus floor(0.5 * 1001) jitter.
	assert.Equal(t, int64(100+1200+500), v.AI.DirectionChangeAt)
	assert.Equal(t, FacingDown, v.Facing)

	// Not due yet: velocity is left alone.
	v.Vel = physics.V(-80, 0)
	e.Update(1800)
	assert.Equal(t, physics.V(-80, 0), v.Vel)
	assert.Equal(t, FacingLeft, v.Facing)
	effects := e.DrainEffects()
	require.Equal(t, 1, countEffects(effects, EffectTexture))
	assert.Equal(t, "ai0_left", effects[len(effects)-1].Text)
}

func TestWanderHeadingRange(t *testing.T) {
	e := newTestEngine(t, NewRand(99), func(tu *Tuning) { tu.AICount = 3 })
	for now := int64(1); now < 40000; now += 250 {
		for _, v := range e.AIVehicles() {
			v.Pos = physics.V(400, 300)
			v.AI.LastKnownPosition = physics.V(0, 0)
			v.AI.DirectionChangeAt = now - 1
		}
		e.Update(now)
		for _, v := range e.AIVehicles() {
			assert.InDelta(t, 120, v.Vel.Len(), 1e-9)
			wait := v.AI.DirectionChangeAt - now
			assert.GreaterOrEqual(t, wait, int64(1200))
			assert.LessOrEqual(t, wait, int64(2200))
		}
	}
}

func TestBoundaryClamp(t *testing.T) {
	e := newTestEngine(t, nil, func(tu *Tuning) { tu.AICount = 1 })
	v := e.AIVehicles()[0]
	v.AI.DirectionChangeAt = math.MaxInt64

	v.Pos, v.Vel = physics.V(10, 590), physics.V(-50, 30)
	e.Update(100)
	assert.Equal(t, physics.V(28, 572), v.Pos)
	assert.Equal(t, physics.V(50, -30), v.Vel)

	v.Pos, v.Vel = physics.V(790, 3), physics.V(40, 60)
	e.Update(200)
	assert.Equal(t, physics.V(772, 28), v.Pos)
	assert.Equal(t, physics.V(-40, 60), v.Vel)
}

func TestStuckDetection(t *testing.T) {
	e := newTestEngine(t, NewRand(3), func(tu *Tuning) { tu.AICount = 1 })
	v := e.AIVehicles()[0]
	v.AI.DirectionChangeAt = math.MaxInt64
	v.Pos = physics.V(400, 200)
	v.AI.LastKnownPosition = v.Pos
	v.AI.StuckSince = 0

	// Drift within tolerance does not reset the timer.
	v.Pos = physics.V(405, 203)
	e.Update(500)
	assert.Equal(t, int64(0), v.AI.StuckSince)

	// Moving beyond 8 px counts as progress.
	v.Pos = physics.V(409, 200)
	e.Update(600)
	assert.Equal(t, int64(600), v.AI.StuckSince)
	assert.Equal(t, physics.V(409, 200), v.AI.LastKnownPosition)
	e.DrainEffects()

	e.Update(1599)
	assert.Equal(t, 0, countEffects(e.DrainEffects(), EffectFlash))

	e.Update(1600)
	effects := e.DrainEffects()
	require.Equal(t, 1, countEffects(effects, EffectFlash))
	assert.Equal(t, physics.V(409, 200), effects[0].Pos)

	assert.Equal(t, int64(1600), v.AI.StuckSince)
	assert.Equal(t, v.Pos, v.AI.LastKnownPosition)
	assert.InDelta(t, 120, v.Vel.Len(), 1e-9)
	assert.GreaterOrEqual(t, v.AI.DirectionChangeAt, int64(1600+1200))
	assert.LessOrEqual(t, v.AI.DirectionChangeAt, int64(1600+2200))
}

func TestSpawnClearance(t *testing.T) {
	e := newTestEngine(t, NewRand(7), nil)
	tuning := e.Tuning()
	clearanceSq := tuning.SpawnClearance() * tuning.SpawnClearance()

	accepted := 0
	for i := 0; i < 500; i++ {
		v := e.AIVehicles()[i%len(e.AIVehicles())]
		spot, ok := e.FindFreeSpawnPoint(v)

		assert.GreaterOrEqual(t, spot.X, 56.0)
		assert.LessOrEqual(t, spot.X, 744.0)
		assert.GreaterOrEqual(t, spot.Y, 56.0)
		assert.LessOrEqual(t, spot.Y, 544.0)
		assert.Equal(t, math.Trunc(spot.X), spot.X)

		if ok {
			accepted++
			assert.GreaterOrEqual(t, spot.DistanceSq(e.Player().Pos), clearanceSq)
			for _, other := range e.AIVehicles() {
				if other == v {
					continue
				}
				assert.GreaterOrEqual(t, spot.DistanceSq(other.Pos), clearanceSq)
			}
		}
		v.Pos = spot
	}
	assert.Positive(t, accepted)
}

func TestSpawnFallbackIsBounded(t *testing.T) {
	// Every candidate lands on the arena center where the player sits.
	r := &seqRand{vals: []float64{0.5}}
	e := newTestEngine(t, r, func(tu *Tuning) { tu.AICount = 1 })
	r.draws = 0

	spot, ok := e.FindFreeSpawnPoint(e.AIVehicles()[0])
	assert.False(t, ok)
	assert.Equal(t, physics.V(400, 300), spot)
	assert.Equal(t, 2*maxSpawnAttempts+2, r.draws)
}

func TestSimpleRespawnHasNoFlash(t *testing.T) {
	e := newTestEngine(t, NewRand(5), func(tu *Tuning) { tu.AICount = 2 })
	v := e.AIVehicles()[1]
	e.SimpleRespawn(v, 2500)

	assert.Equal(t, 0, countEffects(e.DrainEffects(), EffectFlash))
	assert.Equal(t, int64(2500), v.AI.StuckSince)
	assert.Equal(t, v.Pos, v.AI.LastKnownPosition)

	e.SimpleRespawn(e.Player(), 2500)
	assert.Equal(t, physics.V(400, 300), e.Player().Pos)
}
