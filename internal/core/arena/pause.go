package arena

// PauseClock remembers when the current pause began.
type PauseClock struct {
	anchor OptTime
}

func (c *PauseClock) Begin(now int64) { c.anchor = At(now) }

// End clears the anchor and returns how long the pause lasted, never negative.
func (c *PauseClock) End(now int64) int64 {
	if !c.anchor.Valid {
		return 0
	}
	d := max(0, now-c.anchor.At)
	c.anchor = OptTime{}
	return d
}

func (c PauseClock) Anchor() OptTime { return c.anchor }

// MatchState is the scoreboard of one match. Once IsOver is set nothing in it changes.
type MatchState struct {
	TimeLeftSeconds int  `json:"time_left_seconds"`
	Score           int  `json:"score"`
	IsPaused        bool `json:"is_paused"`
	IsOver          bool `json:"is_over"`
}
