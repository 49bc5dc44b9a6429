package arena

// PowerupState is the timed speed/recoil boost granted by a chest.
// Active is true exactly when EndsAt is set.
type PowerupState struct {
	Active           bool
	EndsAt           OptTime
	DurationMs       int64
	SpeedMultiplier  float64
	RecoilMultiplier float64
}

func newPowerup(t Tuning) PowerupState {
	return PowerupState{
		DurationMs:       t.PowerupDurationMs,
		SpeedMultiplier:  t.PowerupSpeedMultiplier,
		RecoilMultiplier: t.PowerupRecoilMultiplier,
	}
}

// Activate starts the boost. Callers must not activate an active powerup.
func (p *PowerupState) Activate(now int64) {
	p.Active = true
	p.EndsAt = At(now + p.DurationMs)
}

// Tick deactivates an expired boost and reports whether it did.
func (p *PowerupState) Tick(now int64) bool {
	if !p.Active || now < p.EndsAt.At {
		return false
	}
	p.Active = false
	p.EndsAt = OptTime{}
	return true
}

func (p *PowerupState) Shift(d int64) {
	if p.Active {
		p.EndsAt = p.EndsAt.Shift(d)
	}
}

func (p PowerupState) Speed(base float64) float64 {
	if p.Active {
		return base * p.SpeedMultiplier
	}
	return base
}

func (p PowerupState) Recoil(base float64) float64 {
	if p.Active {
		return base * p.RecoilMultiplier
	}
	return base
}
