package arena

import (
	"math"

	"github.com/zeusync/bumparena/internal/core/observability/log"
	"github.com/zeusync/bumparena/internal/core/observability/metrics"
	"github.com/zeusync/bumparena/internal/core/systems/physics"
)

// WallRebound reflects v across n and enforces a minimum exit speed of floor.
// A slow hit with a real normal component leaves along -n; a graze leaves
// along the tangent (-ny, nx).
func WallRebound(v, n physics.Vec2, floor float64) physics.Vec2 {
	dot := v.Dot(n)
	r := physics.Reflect(v, n)
	if r.Len() >= floor {
		return r
	}
	if math.Abs(dot) > 0.01 {
		return n.Neg().Scale(floor)
	}
	return n.Perp().Scale(floor)
}

// BilliardExchange resolves two AI vehicles touching along the unit normal n
// (pointing from a to b). Closing pairs swap normal components and get pushed
// apart by an impulse; other pairs are nudged apart by minBump.
func BilliardExchange(va, vb, n physics.Vec2, recoil, minBump float64) (physics.Vec2, physics.Vec2) {
	t := n.Perp()
	van, vat := physics.Decompose(va, n, t)
	vbn, vbt := physics.Decompose(vb, n, t)

	if van-vbn <= 0 {
		return va.Sub(n.Scale(minBump)), vb.Add(n.Scale(minBump))
	}

	a := physics.Compose(vbn, vat, n, t)
	b := physics.Compose(van, vbt, n, t)

	impulse := max(recoil*0.8, math.Abs(van-vbn)*1.2)
	a = a.Sub(n.Scale(impulse))
	b = b.Add(n.Scale(impulse))

	if speed := a.Len(); speed < minBump {
		a = a.Sub(n.Scale(minBump - speed))
	}
	if speed := b.Len(); speed < minBump {
		b = b.Add(n.Scale(minBump - speed))
	}
	return a, b
}

// ResolveWallHit bounces v off w and nudges it 2 units along the wall normal.
func (e *Engine) ResolveWallHit(v *Vehicle, w Wall) {
	if e.frozen() || v == nil || !v.HasBody {
		return
	}
	n := w.NormalFor(v.Pos)
	v.Vel = WallRebound(v.Vel, n, e.tuning.WallRecoilFloor())
	v.Pos = v.Pos.Add(n.Scale(2))

	e.metrics.Collision(metrics.CollisionWall)
	e.emit(soundEffect(SoundWall))
}

// ResolveCarHit resolves an overlap between two vehicles reported by the host.
func (e *Engine) ResolveCarHit(a, b *Vehicle, now int64) {
	if e.frozen() || a == nil || b == nil || !a.HasBody || !b.HasBody {
		return
	}
	n, _, ok := physics.NormalAndTangent(a.Pos, b.Pos)
	if !ok {
		return
	}

	switch {
	case a.IsAI() && b.IsAI():
		a.Vel, b.Vel = BilliardExchange(a.Vel, b.Vel, n, e.tuning.RecoilForce, e.tuning.MinBump())
		e.metrics.Collision(metrics.CollisionAIAI)
		e.emit(soundEffect(SoundBump))
	case a.IsAI():
		e.fling(b, a, n.Neg(), now)
	case b.IsAI():
		e.fling(a, b, n, now)
	}
}

// fling throws the AI away from the player and the player straight back.
// n is the collision normal from player to AI.
func (e *Engine) fling(player, ai *Vehicle, n physics.Vec2, now int64) {
	if now-e.lastShakeAt > e.tuning.ShakeCooldownMs {
		e.emit(shakeEffect())
		e.lastShakeAt = now
	}

	dir := ai.Pos.Sub(player.Pos)
	if dir.IsZero() {
		dir = n
	} else {
		dir = dir.Scale(1 / dir.Len())
	}

	recoil := e.powerup.Recoil(max(e.tuning.RecoilForce, player.Vel.Len()*1.1))
	ai.Vel = dir.Scale(recoil)
	player.Vel = ai.Vel.Neg()

	e.metrics.Collision(metrics.CollisionPlayerAI)
	e.emit(soundEffect(SoundBump))

	e.tryScore(ai, now)
}

func (e *Engine) tryScore(ai *Vehicle, now int64) {
	if !CanScore(now, ai.AI.LastScoredAt, e.tuning.ScoringCooldownMs) {
		return
	}
	ai.AI.LastScoredAt = At(now)
	e.match.Score++

	e.metrics.Scored()
	e.emit(scoreTextEffect(e.match.Score), soundEffect(SoundScore))
	e.logger.Debug("scored",
		log.String("target", ai.ID),
		log.Int("score", e.match.Score),
		log.Int64("at", now),
	)
}
